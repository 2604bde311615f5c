package controllers

import (
	"contacts-backend/contacts/repositories"
	"contacts-backend/db/models"
	"contacts-backend/middleware"
	"contacts-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

var (
	listableStatuses = map[models.ContactStatus]bool{
		models.ContactEnabled:  true,
		models.ContactDisabled: true,
		models.ContactDeleted:  true,
	}
	listableSources = map[models.ContactSource]bool{
		models.SourceManual: true,
		models.SourceImport: true,
		models.SourceAPI:    true,
		models.SourceForm:   true,
	}
)

// GetFilteredContactsController lists the organization's contacts. DELETED
// contacts only appear when asked for with status=DELETED.
func (cc *ContactController) GetFilteredContactsController(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	params := pagination.ParsePaginationParams(c)
	if err := pagination.ValidatePaginationParams(params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid pagination parameters",
			"error":   err.Error(),
		})
	}

	filter := repositories.ContactFilter{
		Status: models.ContactStatus(params.Filters["status"]),
		Source: models.ContactSource(params.Filters["source"]),
		Tag:    params.Filters["tag"],
	}
	if filter.Status != "" && !listableStatuses[filter.Status] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid status filter",
		})
	}
	if filter.Source != "" && !listableSources[filter.Source] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid source filter",
		})
	}

	contacts, total, err := cc.ContactRepo.GetFilteredContacts(c.UserContext(), user.OrganizationID, filter, params.PageSize, params.Offset())
	if err != nil {
		return contactError(c, err, "fetch contacts")
	}

	return c.Status(fiber.StatusOK).JSON(pagination.NewPaginatedResponse(c, contacts, total, params))
}
