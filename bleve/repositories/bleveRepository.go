package repositories

import (
	"context"

	bleveindex "contacts-backend/bleve/services"
	"contacts-backend/db/models"

	"github.com/google/uuid"
)

type BleveRepository struct {
	indexer bleveindex.IndexingServiceInterface
}

type BleveRepositoryInterface interface {
	// ==== Contact Indexing ====
	IndexSingleContact(contact models.Contact) error
	IndexContacts(contacts []models.Contact) error
	DeleteContact(contactID uuid.UUID) error
	SearchContacts(ctx context.Context, organizationID uuid.UUID, queryString string, limit, offset int) ([]uuid.UUID, uint64, error)
}

// Constructor returning both the struct and the interface
func NewBleveRepository(indexer bleveindex.IndexingServiceInterface) (*BleveRepository, BleveRepositoryInterface) {
	indexer.RegisterMapping(contactsIndex, ContactIndexMapping())
	repo := &BleveRepository{indexer: indexer}
	return repo, repo
}
