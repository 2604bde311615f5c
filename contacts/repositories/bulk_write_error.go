package repositories

import (
	"fmt"

	"github.com/google/uuid"
)

// WriteError describes one record the store refused during an unordered
// insert. Index is the record's position in the submitted batch; callers
// should prefer ContactID because failures are not guaranteed to be reported
// in batch order.
type WriteError struct {
	Index     int
	ContactID uuid.UUID
	Message   string
}

// BulkWriteError is returned by InsertUnordered when some records were
// committed and others were not.
type BulkWriteError struct {
	InsertedCount int
	WriteErrors   []WriteError
}

func (e *BulkWriteError) Error() string {
	return fmt.Sprintf("bulk write: %d inserted, %d failed", e.InsertedCount, len(e.WriteErrors))
}
