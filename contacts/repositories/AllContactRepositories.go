package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"contacts-backend/config"
	"contacts-backend/db/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrDuplicateEmail  = errors.New("a contact with this email already exists in the organization")
)

// emailLookupChunk keeps IN lists well under the Postgres bind parameter limit.
const emailLookupChunk = 5000

// ContactFilter narrows GetFilteredContacts. An empty Status lists everything
// except DELETED contacts.
type ContactFilter struct {
	Status models.ContactStatus
	Source models.ContactSource
	Tag    string
}

type ContactRepository interface {
	CreateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	GetContactByID(ctx context.Context, organizationID, contactID uuid.UUID) (*models.Contact, error)
	GetContactsByIDs(ctx context.Context, organizationID uuid.UUID, ids []uuid.UUID) ([]models.Contact, error)
	GetFilteredContacts(ctx context.Context, organizationID uuid.UUID, filter ContactFilter, limit, offset int) ([]models.Contact, int64, error)
	UpdateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	SoftDeleteContact(ctx context.Context, organizationID, contactID uuid.UUID) error
	// EachContactBatch walks every non-deleted contact of every organization.
	EachContactBatch(ctx context.Context, size int, fn func([]models.Contact) error) error

	// FindExistingEmails returns the lowercased emails, out of the given set,
	// held by non-deleted contacts of the organization.
	FindExistingEmails(ctx context.Context, organizationID uuid.UUID, emails []string) (map[string]struct{}, error)
	// InsertUnordered attempts every contact independently. When some fail it
	// returns the committed count together with a *BulkWriteError.
	InsertUnordered(ctx context.Context, contacts []models.Contact) (int, error)
}

type contactRepository struct {
	DB *gorm.DB
}

// NewContactRepository initializes a new contact repository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{DB: db}
}

func (cr *contactRepository) CreateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	existing, err := cr.FindExistingEmails(ctx, contact.OrganizationID, []string{contact.Email})
	if err != nil {
		return nil, err
	}
	if _, taken := existing[strings.ToLower(contact.Email)]; taken {
		return nil, ErrDuplicateEmail
	}

	if err := cr.DB.WithContext(ctx).Create(contact).Error; err != nil {
		var verr *models.ContactValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		config.Logger.Error("Failed to create contact",
			zap.Error(err),
			zap.String("organizationID", contact.OrganizationID.String()))
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}

	return contact, nil
}

func (cr *contactRepository) GetContactByID(ctx context.Context, organizationID, contactID uuid.UUID) (*models.Contact, error) {
	var contact models.Contact
	err := cr.DB.WithContext(ctx).
		Where("id = ? AND organization_id = ? AND status <> ?", contactID, organizationID, models.ContactDeleted).
		First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return &contact, nil
}

func (cr *contactRepository) GetContactsByIDs(ctx context.Context, organizationID uuid.UUID, ids []uuid.UUID) ([]models.Contact, error) {
	if len(ids) == 0 {
		return []models.Contact{}, nil
	}

	var contacts []models.Contact
	if err := cr.DB.WithContext(ctx).
		Where("organization_id = ? AND status <> ? AND id IN ?", organizationID, models.ContactDeleted, ids).
		Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to get contacts by ids: %w", err)
	}

	// Keep the caller's ordering (search relevance)
	byID := make(map[uuid.UUID]models.Contact, len(contacts))
	for _, c := range contacts {
		byID[c.ID] = c
	}
	ordered := make([]models.Contact, 0, len(contacts))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

func (cr *contactRepository) GetFilteredContacts(ctx context.Context, organizationID uuid.UUID, filter ContactFilter, limit, offset int) ([]models.Contact, int64, error) {
	var contacts []models.Contact
	var total int64

	query := cr.DB.WithContext(ctx).Model(&models.Contact{}).Where("organization_id = ?", organizationID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	} else {
		query = query.Where("status <> ?", models.ContactDeleted)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.Tag != "" {
		query = query.Where("tags @> ?", fmt.Sprintf("[%q]", filter.Tag))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Fetch paginated contacts, ordered by UpdatedAt and CreatedAt (descending)
	if err := query.Order("updated_at DESC, created_at DESC").Limit(limit).Offset(offset).Find(&contacts).Error; err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

func (cr *contactRepository) UpdateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	if err := models.ValidateContact(contact); err != nil {
		return nil, err
	}

	existing, err := cr.FindExistingEmails(ctx, contact.OrganizationID, []string{contact.Email})
	if err != nil {
		return nil, err
	}
	if _, taken := existing[strings.ToLower(contact.Email)]; taken {
		var owner models.Contact
		err := cr.DB.WithContext(ctx).
			Where("organization_id = ? AND status <> ? AND LOWER(email) = ?", contact.OrganizationID, models.ContactDeleted, strings.ToLower(contact.Email)).
			First(&owner).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check email owner: %w", err)
		}
		if owner.ID != contact.ID {
			return nil, ErrDuplicateEmail
		}
	}

	if err := cr.DB.WithContext(ctx).Save(contact).Error; err != nil {
		config.Logger.Error("Failed to update contact",
			zap.Error(err),
			zap.String("contactID", contact.ID.String()))
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return contact, nil
}

func (cr *contactRepository) SoftDeleteContact(ctx context.Context, organizationID, contactID uuid.UUID) error {
	now := time.Now()
	result := cr.DB.WithContext(ctx).Model(&models.Contact{}).
		Where("id = ? AND organization_id = ? AND status <> ?", contactID, organizationID, models.ContactDeleted).
		Updates(map[string]interface{}{
			"status":     models.ContactDeleted,
			"deleted_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to delete contact: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}

func (cr *contactRepository) EachContactBatch(ctx context.Context, size int, fn func([]models.Contact) error) error {
	var batch []models.Contact
	result := cr.DB.WithContext(ctx).
		Where("status <> ?", models.ContactDeleted).
		FindInBatches(&batch, size, func(_ *gorm.DB, _ int) error {
			return fn(batch)
		})
	if result.Error != nil {
		return fmt.Errorf("failed to walk contacts: %w", result.Error)
	}
	return nil
}

func (cr *contactRepository) FindExistingEmails(ctx context.Context, organizationID uuid.UUID, emails []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})

	lowered := make([]string, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		key := strings.ToLower(strings.TrimSpace(email))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		lowered = append(lowered, key)
	}

	for start := 0; start < len(lowered); start += emailLookupChunk {
		end := start + emailLookupChunk
		if end > len(lowered) {
			end = len(lowered)
		}

		var found []string
		err := cr.DB.WithContext(ctx).Model(&models.Contact{}).
			Where("organization_id = ? AND status <> ? AND LOWER(email) IN ?", organizationID, models.ContactDeleted, lowered[start:end]).
			Pluck("email", &found).Error
		if err != nil {
			config.Logger.Error("Failed to look up existing emails",
				zap.Error(err),
				zap.String("organizationID", organizationID.String()))
			return nil, fmt.Errorf("failed to look up existing emails: %w", err)
		}
		for _, email := range found {
			existing[strings.ToLower(email)] = struct{}{}
		}
	}

	return existing, nil
}

func (cr *contactRepository) InsertUnordered(ctx context.Context, contacts []models.Contact) (int, error) {
	if len(contacts) == 0 {
		return 0, nil
	}

	inserted := 0
	var writeErrors []WriteError

	// One transaction, one savepoint per record: a failing record is rolled
	// back on its own and the rest still commit together. Each savepoint is
	// released once its record settles so the open subtransaction count stays
	// at one however large the batch is.
	err := cr.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range contacts {
			savepoint := fmt.Sprintf("contact_%d", i)
			if err := tx.SavePoint(savepoint).Error; err != nil {
				return fmt.Errorf("savepoint %s: %w", savepoint, err)
			}

			if err := tx.Create(&contacts[i]).Error; err != nil {
				if rbErr := tx.RollbackTo(savepoint).Error; rbErr != nil {
					return fmt.Errorf("rollback to %s: %w", savepoint, rbErr)
				}
				writeErrors = append(writeErrors, WriteError{
					Index:     i,
					ContactID: contacts[i].ID,
					Message:   err.Error(),
				})
			} else {
				inserted++
			}

			if err := tx.Exec("RELEASE SAVEPOINT " + savepoint).Error; err != nil {
				return fmt.Errorf("release %s: %w", savepoint, err)
			}
		}
		return nil
	})
	if err != nil {
		config.Logger.Error("Bulk contact insert aborted",
			zap.Error(err),
			zap.Int("batchSize", len(contacts)))
		return 0, fmt.Errorf("failed to insert contacts: %w", err)
	}

	if len(writeErrors) > 0 {
		config.Logger.Warn("Bulk contact insert partially failed",
			zap.Int("inserted", inserted),
			zap.Int("failed", len(writeErrors)))
		return inserted, &BulkWriteError{InsertedCount: inserted, WriteErrors: writeErrors}
	}

	return inserted, nil
}
