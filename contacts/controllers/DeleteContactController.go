package controllers

import (
	"contacts-backend/config"
	"contacts-backend/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DeleteContactController soft deletes; the email becomes free for a new
// contact in the same organization.
func (cc *ContactController) DeleteContactController(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	contactID, ok := parseContactID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid contact ID",
		})
	}

	if err := cc.ContactRepo.SoftDeleteContact(c.UserContext(), user.OrganizationID, contactID); err != nil {
		return contactError(c, err, "delete contact")
	}

	if err := cc.BleveRepo.DeleteContact(contactID); err != nil {
		config.Logger.Warn("Failed to remove contact from index", zap.String("contactID", contactID.String()), zap.Error(err))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Contact deleted successfully",
	})
}
