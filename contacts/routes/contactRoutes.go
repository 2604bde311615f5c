package routes

import (
	indexing_repository "contacts-backend/bleve/repositories"
	controllers "contacts-backend/contacts/controllers"
	"contacts-backend/contacts/repositories"

	"github.com/gofiber/fiber/v2"
)

func ContactInitRoutes(
	app *fiber.App,
	protected fiber.Handler,
	contactRepo repositories.ContactRepository,
	bleveInterfaceRepo indexing_repository.BleveRepositoryInterface,
) {
	contactController := &controllers.ContactController{
		ContactRepo: contactRepo,
		BleveRepo:   bleveInterfaceRepo,
	}

	// Auth per route; a group Use would also wrap /contacts/import
	api := app.Group("/api/v1/contacts")

	api.Post("/", protected, contactController.CreateContactController)
	api.Get("/", protected, contactController.GetFilteredContactsController)
	// Registered before /:id so "search" is not taken for an ID
	api.Get("/search", protected, contactController.SearchContactsController)
	api.Get("/:id", protected, contactController.GetContactController)
	api.Put("/:id", protected, contactController.UpdateContactController)
	api.Delete("/:id", protected, contactController.DeleteContactController)
}
