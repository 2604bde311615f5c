package controllers

import (
	"strings"

	"contacts-backend/middleware"
	"contacts-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

// SearchContactsController runs a full-text query over the organization's
// indexed contacts and loads the hits from the database in relevance order.
func (cc *ContactController) SearchContactsController(c *fiber.Ctx) error {
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

	query := strings.TrimSpace(c.Query("q"))
	ids, total, err := cc.BleveRepo.SearchContacts(c.UserContext(), user.OrganizationID, query, params.PageSize, params.Offset())
	if err != nil {
		return contactError(c, err, "search contacts")
	}

	contacts, err := cc.ContactRepo.GetContactsByIDs(c.UserContext(), user.OrganizationID, ids)
	if err != nil {
		return contactError(c, err, "search contacts")
	}

	return c.Status(fiber.StatusOK).JSON(pagination.NewPaginatedResponse(c, contacts, int64(total), params))
}
