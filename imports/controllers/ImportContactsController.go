package controllers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	import_services "contacts-backend/imports/services"
	"contacts-backend/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ContactImporter interface {
	Import(ctx context.Context, req import_services.ImportRequest) (*import_services.ImportReport, error)
}

type UploadSaver interface {
	SaveMultipart(fh *multipart.FileHeader) (string, error)
}

type ImportController struct {
	Importer ContactImporter
	Uploads  UploadSaver
	Logger   *zap.Logger
}

func importFailure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// ImportContactsController accepts a multipart upload with a "file" part and
// an optional "mapping" JSON field.
func (ic *ImportController) ImportContactsController(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return importFailure(c, fiber.StatusUnauthorized, "Authentication required")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return importFailure(c, fiber.StatusBadRequest, import_services.ErrMissingFile.Error())
	}

	uploadPath, err := ic.Uploads.SaveMultipart(fileHeader)
	if err != nil {
		ic.Logger.Error("Failed to save import upload",
			zap.String("filename", fileHeader.Filename),
			zap.Error(err))
		return importFailure(c, fiber.StatusInternalServerError, "Failed to store uploaded file")
	}

	report, err := ic.Importer.Import(c.UserContext(), import_services.ImportRequest{
		UploadPath:     uploadPath,
		Filename:       fileHeader.Filename,
		RawMapping:     c.FormValue("mapping"),
		UserID:         user.UserID,
		OrganizationID: user.OrganizationID,
	})
	switch {
	case err == nil:
	case import_services.IsInputError(err):
		return importFailure(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, import_services.ErrStreamFailed):
		return importFailure(c, fiber.StatusInternalServerError, import_services.ErrStreamFailed.Error())
	default:
		ic.Logger.Error("Contact import failed",
			zap.String("organizationID", user.OrganizationID.String()),
			zap.String("filename", fileHeader.Filename),
			zap.Error(err))
		return importFailure(c, fiber.StatusInternalServerError, "Something went wrong while importing contacts")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Import completed: %d inserted, %d failed", report.Summary.Inserted, report.Summary.Failed),
		"summary": report.Summary,
		"errors":  report.Errors,
	})
}
