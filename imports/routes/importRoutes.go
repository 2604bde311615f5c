package routes

import (
	controllers "contacts-backend/imports/controllers"
	"contacts-backend/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ImportInitRoutes(
	app *fiber.App,
	protected fiber.Handler,
	importer controllers.ContactImporter,
	uploads controllers.UploadSaver,
	limiter *middleware.OrganizationRateLimiter,
	logger *zap.Logger,
) {
	importController := &controllers.ImportController{
		Importer: importer,
		Uploads:  uploads,
		Logger:   logger,
	}

	api := app.Group("/api/v1")

	api.Post("/contacts/import", protected, limiter.Handler(), importController.ImportContactsController)
}
