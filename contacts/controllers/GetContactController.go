package controllers

import (
	"contacts-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func (cc *ContactController) GetContactController(c *fiber.Ctx) error {
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

	contact, err := cc.ContactRepo.GetContactByID(c.UserContext(), user.OrganizationID, contactID)
	if err != nil {
		return contactError(c, err, "fetch contact")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": contact,
	})
}
