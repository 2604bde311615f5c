package controllers

import (
	"contacts-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func (cc *ContactController) UpdateContactController(c *fiber.Ctx) error {
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

	var request ContactRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request payload",
			"error":   err.Error(),
		})
	}

	contact, err := cc.ContactRepo.GetContactByID(c.UserContext(), user.OrganizationID, contactID)
	if err != nil {
		return contactError(c, err, "update contact")
	}
	if err := request.applyTo(contact); err != nil {
		return contactError(c, err, "update contact")
	}
	contact.ApplyDefaults()

	updated, err := cc.ContactRepo.UpdateContact(c.UserContext(), contact)
	if err != nil {
		return contactError(c, err, "update contact")
	}
	cc.reindex(updated)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Contact updated successfully",
		"data":    updated,
	})
}
