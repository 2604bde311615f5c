package controllers

import (
	"errors"
	"strings"

	indexing_repository "contacts-backend/bleve/repositories"
	"contacts-backend/config"
	"contacts-backend/contacts/repositories"
	"contacts-backend/db/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type ContactController struct {
	ContactRepo repositories.ContactRepository
	BleveRepo   indexing_repository.BleveRepositoryInterface
}

// ContactRequest is the editable part of a contact. On update every field is
// replaced.
type ContactRequest struct {
	FirstName string               `json:"firstName"`
	LastName  string               `json:"lastName"`
	Email     string               `json:"email"`
	Phone     string               `json:"phone"`
	Company   string               `json:"company"`
	Language  string               `json:"language"`
	Status    models.ContactStatus `json:"status"`
	Tags      []string             `json:"tags"`
	Notes     string               `json:"notes"`
}

// applyTo copies the request onto contact. DELETED is reachable only through
// the delete endpoint, which also stamps deleted_at.
func (r ContactRequest) applyTo(contact *models.Contact) error {
	if r.Status == models.ContactDeleted {
		return &models.ContactValidationError{
			Field:  "status",
			Reason: "status DELETED can only be set by deleting the contact",
		}
	}

	contact.FirstName = strings.TrimSpace(r.FirstName)
	contact.LastName = strings.TrimSpace(r.LastName)
	contact.Email = strings.TrimSpace(r.Email)
	contact.Phone = strings.TrimSpace(r.Phone)
	contact.Company = strings.TrimSpace(r.Company)
	contact.Language = strings.TrimSpace(r.Language)
	contact.Notes = r.Notes
	if r.Status != "" {
		contact.Status = r.Status
	}
	contact.Tags = datatypes.JSONSlice[string](r.Tags)
	return nil
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Unauthorized",
		"error":   "Authentication required",
	})
}

func parseContactID(c *fiber.Ctx) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params("id"))
	return id, err == nil
}

// contactError maps repository errors to a response.
func contactError(c *fiber.Ctx, err error, action string) error {
	var verr *models.ContactValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   verr.Error(),
		})
	case errors.Is(err, repositories.ErrContactNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Contact not found",
		})
	case errors.Is(err, repositories.ErrDuplicateEmail):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Duplicate contact",
			"error":   err.Error(),
		})
	}

	config.Logger.Error("Contact request failed", zap.String("action", action), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Something went wrong while trying to " + action,
		"error":   "An internal server error occurred.",
	})
}

// The database is the source of truth; a failed index write only makes
// search results stale.
func (cc *ContactController) reindex(contact *models.Contact) {
	if err := cc.BleveRepo.IndexSingleContact(*contact); err != nil {
		config.Logger.Warn("Failed to index contact", zap.String("contactID", contact.ID.String()), zap.Error(err))
	}
}
