package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"contacts-backend/db/models"
	import_services "contacts-backend/imports/services"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	TypeIndexContacts = "contacts:index"
	IndexingQueue     = "indexing"

	// indexBatchSize bounds the payload size of a single task.
	indexBatchSize = 1000
)

type IndexContactsPayload struct {
	OrganizationID uuid.UUID   `json:"organizationId"`
	ContactIDs     []uuid.UUID `json:"contactIds"`
}

func NewIndexContactsTask(organizationID uuid.UUID, contactIDs []uuid.UUID) (*asynq.Task, error) {
	payload, err := json.Marshal(IndexContactsPayload{OrganizationID: organizationID, ContactIDs: contactIDs})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeIndexContacts, payload, asynq.Queue(IndexingQueue), asynq.MaxRetry(5)), nil
}

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// IndexEnqueuer schedules search indexing for the contacts an import created.
type IndexEnqueuer struct {
	client taskEnqueuer
	logger *zap.Logger
}

func NewIndexEnqueuer(client taskEnqueuer, logger *zap.Logger) *IndexEnqueuer {
	return &IndexEnqueuer{client: client, logger: logger}
}

func (e *IndexEnqueuer) ContactsImported(ctx context.Context, organizationID uuid.UUID, report *import_services.ImportReport) {
	ids := report.InsertedIDs
	for start := 0; start < len(ids); start += indexBatchSize {
		end := start + indexBatchSize
		if end > len(ids) {
			end = len(ids)
		}

		task, err := NewIndexContactsTask(organizationID, ids[start:end])
		if err != nil {
			e.logger.Error("Failed to build index task", zap.Error(err))
			return
		}
		// The import already committed; a lost task only delays search results
		if _, err := e.client.EnqueueContext(ctx, task); err != nil {
			e.logger.Error("Failed to enqueue contact indexing",
				zap.String("organizationID", organizationID.String()),
				zap.Int("contacts", end-start),
				zap.Error(err))
		}
	}
}

type ContactLoader interface {
	GetContactsByIDs(ctx context.Context, organizationID uuid.UUID, ids []uuid.UUID) ([]models.Contact, error)
}

type ContactIndexer interface {
	IndexContacts(contacts []models.Contact) error
}

// IndexContactsHandler is the worker side of TypeIndexContacts.
type IndexContactsHandler struct {
	contacts ContactLoader
	index    ContactIndexer
	logger   *zap.Logger
}

func NewIndexContactsHandler(contacts ContactLoader, index ContactIndexer, logger *zap.Logger) *IndexContactsHandler {
	return &IndexContactsHandler{contacts: contacts, index: index, logger: logger}
}

func (h *IndexContactsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload IndexContactsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %v: %w", TypeIndexContacts, err, asynq.SkipRetry)
	}

	contacts, err := h.contacts.GetContactsByIDs(ctx, payload.OrganizationID, payload.ContactIDs)
	if err != nil {
		return fmt.Errorf("load contacts for indexing: %w", err)
	}
	if err := h.index.IndexContacts(contacts); err != nil {
		return fmt.Errorf("index contacts: %w", err)
	}

	h.logger.Info("Indexed imported contacts",
		zap.String("organizationID", payload.OrganizationID.String()),
		zap.Int("requested", len(payload.ContactIDs)),
		zap.Int("indexed", len(contacts)))
	return nil
}
