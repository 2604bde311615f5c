package services

import (
	"context"
	"errors"
	"fmt"

	"contacts-backend/contacts/repositories"
	"contacts-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContactInserter is the store side of an unordered batch insert.
type ContactInserter interface {
	InsertUnordered(ctx context.Context, contacts []models.Contact) (int, error)
}

type OutcomeStatus string

const (
	OutcomeCommitted OutcomeStatus = "COMMITTED"
	OutcomeRejected  OutcomeStatus = "REJECTED"
)

// InsertOutcome is the result for one submitted candidate. Reason is only set
// when the store rejected the record.
type InsertOutcome struct {
	Row       int
	ContactID uuid.UUID
	Status    OutcomeStatus
	Reason    string
}

type InsertResult struct {
	Inserted int
	Outcomes []InsertOutcome
}

// Failures lists rejected records in submission order.
func (r InsertResult) Failures() []RowError {
	var failures []RowError
	for _, o := range r.Outcomes {
		if o.Status == OutcomeRejected {
			failures = append(failures, RowError{Row: o.Row, Reason: o.Reason})
		}
	}
	return failures
}

func (r InsertResult) InsertedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, r.Inserted)
	for _, o := range r.Outcomes {
		if o.Status == OutcomeCommitted {
			ids = append(ids, o.ContactID)
		}
	}
	return ids
}

type BulkInserter struct {
	store  ContactInserter
	logger *zap.Logger
}

func NewBulkInserter(store ContactInserter, logger *zap.Logger) *BulkInserter {
	return &BulkInserter{store: store, logger: logger}
}

// Insert writes every candidate in one unordered batch. Store failures for
// individual records come back as rejected outcomes; only a failure of the
// batch as a whole is returned as an error.
func (b *BulkInserter) Insert(ctx context.Context, candidates []CandidateContact) (InsertResult, error) {
	if len(candidates) == 0 {
		return InsertResult{}, nil
	}

	contacts := make([]models.Contact, len(candidates))
	rowByID := make(map[uuid.UUID]int, len(candidates))
	for i, candidate := range candidates {
		contacts[i] = candidate.ToContact()
		rowByID[contacts[i].ID] = candidate.Row()
	}

	inserted, err := b.store.InsertUnordered(ctx, contacts)
	rejected := make(map[uuid.UUID]string)
	if err != nil {
		var bulkErr *repositories.BulkWriteError
		if !errors.As(err, &bulkErr) {
			return InsertResult{}, fmt.Errorf("insert contacts: %w", err)
		}
		inserted = bulkErr.InsertedCount
		for _, we := range bulkErr.WriteErrors {
			if _, known := rowByID[we.ContactID]; !known {
				return InsertResult{}, fmt.Errorf("insert contacts: store reported unknown contact %s", we.ContactID)
			}
			rejected[we.ContactID] = we.Message
		}
	}

	if inserted+len(rejected) != len(contacts) {
		return InsertResult{}, fmt.Errorf("insert contacts: store committed %d and rejected %d of %d records",
			inserted, len(rejected), len(contacts))
	}

	result := InsertResult{Inserted: inserted, Outcomes: make([]InsertOutcome, 0, len(contacts))}
	for _, contact := range contacts {
		outcome := InsertOutcome{Row: rowByID[contact.ID], ContactID: contact.ID, Status: OutcomeCommitted}
		if reason, failed := rejected[contact.ID]; failed {
			outcome.Status = OutcomeRejected
			outcome.Reason = reason
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	if len(rejected) > 0 {
		b.logger.Warn("Some imported contacts were rejected by the store",
			zap.Int("inserted", inserted),
			zap.Int("rejected", len(rejected)))
	}
	return result, nil
}
