package services

import "github.com/google/uuid"

// RowError is one entry of the import report.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportSummary struct {
	Total    int `json:"total"`
	Inserted int `json:"inserted"`
	Failed   int `json:"failed"`
}

type ImportReport struct {
	Summary     ImportSummary `json:"summary"`
	Errors      []RowError    `json:"errors"`
	InsertedIDs []uuid.UUID   `json:"-"`
}

// BuildReport assembles the caller-facing report. Errors keep stage order:
// validation and in-file duplicates, then stored duplicates, then insert
// failures. Every entry carries the file row it came from.
func BuildReport(total int, streamed, existing []RowError, inserted InsertResult) *ImportReport {
	failures := inserted.Failures()

	errs := make([]RowError, 0, len(streamed)+len(existing)+len(failures))
	errs = append(errs, streamed...)
	errs = append(errs, existing...)
	errs = append(errs, failures...)

	return &ImportReport{
		Summary: ImportSummary{
			Total:    total,
			Inserted: inserted.Inserted,
			Failed:   len(errs),
		},
		Errors:      errs,
		InsertedIDs: inserted.InsertedIDs(),
	}
}
