package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildReport_OrdersStagesAndBalances(t *testing.T) {
	committed := uuid.New()
	result := InsertResult{
		Inserted: 1,
		Outcomes: []InsertOutcome{
			{Row: 1, ContactID: committed, Status: OutcomeCommitted},
			{Row: 6, ContactID: uuid.New(), Status: OutcomeRejected, Reason: "constraint"},
		},
	}

	report := BuildReport(5,
		[]RowError{{Row: 2, Reason: "firstName is required"}, {Row: 4, Reason: "dup"}},
		[]RowError{{Row: 5, Reason: "exists"}},
		result)

	assert.Equal(t, ImportSummary{Total: 5, Inserted: 1, Failed: 4}, report.Summary)
	assert.Equal(t, []int{2, 4, 5, 6}, rowsOf(report.Errors))
	assert.Equal(t, []uuid.UUID{committed}, report.InsertedIDs)
}

func TestBuildReport_EmptyErrorsIsNotNil(t *testing.T) {
	report := BuildReport(0, nil, nil, InsertResult{})

	assert.NotNil(t, report.Errors)
	assert.Equal(t, ImportSummary{}, report.Summary)
}

func rowsOf(errs []RowError) []int {
	rows := make([]int, 0, len(errs))
	for _, e := range errs {
		rows = append(rows, e.Row)
	}
	return rows
}
