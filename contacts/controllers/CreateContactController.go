package controllers

import (
	"contacts-backend/db/models"
	"contacts-backend/middleware"

	"github.com/gofiber/fiber/v2"
)

func (cc *ContactController) CreateContactController(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return unauthorized(c)
	}

	var request ContactRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request payload",
			"error":   err.Error(),
		})
	}

	contact := models.Contact{
		UserID:         user.UserID,
		OrganizationID: user.OrganizationID,
		Source:         models.SourceManual,
	}
	if err := request.applyTo(&contact); err != nil {
		return contactError(c, err, "create contact")
	}

	// Validate before the duplicate lookup so bad input never reaches the store
	contact.ApplyDefaults()
	if err := models.ValidateContact(&contact); err != nil {
		return contactError(c, err, "create contact")
	}

	created, err := cc.ContactRepo.CreateContact(c.UserContext(), &contact)
	if err != nil {
		return contactError(c, err, "create contact")
	}
	cc.reindex(created)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Contact created successfully",
		"data":    created,
	})
}
