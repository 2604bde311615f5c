package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"contacts-backend/db/models"
	import_services "contacts-backend/imports/services"
	"contacts-backend/token"
	"contacts-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type emptyStore struct {
	inserted []models.Contact
}

func (s *emptyStore) FindExistingEmails(context.Context, uuid.UUID, []string) (map[string]struct{}, error) {
	return map[string]struct{}{}, nil
}

func (s *emptyStore) InsertUnordered(_ context.Context, contacts []models.Contact) (int, error) {
	s.inserted = append(s.inserted, contacts...)
	return len(contacts), nil
}

type failingImporter struct {
	err error
}

func (f failingImporter) Import(context.Context, import_services.ImportRequest) (*import_services.ImportReport, error) {
	return nil, f.err
}

type importResponse struct {
	Success bool                          `json:"success"`
	Message string                        `json:"message"`
	Summary import_services.ImportSummary `json:"summary"`
	Errors  []import_services.RowError    `json:"errors"`
}

func setupImportApp(t *testing.T, importer ContactImporter, authenticated bool) (*fiber.App, string) {
	t.Helper()
	uploadDir := t.TempDir()
	uploads := utils.NewTempUploadStorage(uploadDir)
	if importer == nil {
		importer = import_services.NewImportService(&emptyStore{}, uploads, zap.NewNop())
	}

	controller := &ImportController{Importer: importer, Uploads: uploads, Logger: zap.NewNop()}

	app := fiber.New()
	app.Post("/import", func(c *fiber.Ctx) error {
		if authenticated {
			c.Locals("user", &token.Payload{UserID: uuid.New(), OrganizationID: uuid.New()})
		}
		return c.Next()
	}, controller.ImportContactsController)
	return app, uploadDir
}

func multipartRequest(t *testing.T, filename, content, mapping string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	if mapping != "" {
		require.NoError(t, writer.WriteField("mapping", mapping))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/import", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeImport(t *testing.T, resp *http.Response) importResponse {
	t.Helper()
	var out importResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func assertNoUploads(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestImportContacts_Success(t *testing.T) {
	app, dir := setupImportApp(t, nil, true)
	csv := "First Name,Last Name,E-mail\nAda,Lovelace,ada@example.com\nAlan,Turing,ADA@example.com\nGrace,Hopper,\n"

	resp, err := app.Test(multipartRequest(t, "people.csv", csv, ""))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeImport(t, resp)
	assert.True(t, out.Success)
	assert.Equal(t, import_services.ImportSummary{Total: 3, Inserted: 1, Failed: 2}, out.Summary)
	require.Len(t, out.Errors, 2)
	assert.Equal(t, 2, out.Errors[0].Row)
	assert.Equal(t, 3, out.Errors[1].Row)
	assertNoUploads(t, dir)
}

func TestImportContacts_MissingFile(t *testing.T) {
	app, dir := setupImportApp(t, nil, true)

	resp, err := app.Test(multipartRequest(t, "", "", `{"a":"email"}`))
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decodeImport(t, resp)
	assert.False(t, out.Success)
	assert.Equal(t, import_services.ErrMissingFile.Error(), out.Message)
	assertNoUploads(t, dir)
}

func TestImportContacts_InputErrorsRemoveUpload(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		mapping  string
		want     error
	}{
		{"mapping is not JSON", "people.csv", "{not json", import_services.ErrInvalidMapping},
		{"unsupported extension", "people.pdf", "", import_services.ErrUnsupportedFileType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, dir := setupImportApp(t, nil, true)

			resp, err := app.Test(multipartRequest(t, tc.filename, "email\na@example.com\n", tc.mapping))
			require.NoError(t, err)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			out := decodeImport(t, resp)
			assert.False(t, out.Success)
			assert.Contains(t, out.Message, tc.want.Error())
			assertNoUploads(t, dir)
		})
	}
}

func TestImportContacts_ServerErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"stream failure", fmt.Errorf("%w: unexpected EOF", import_services.ErrStreamFailed), import_services.ErrStreamFailed.Error()},
		{"store failure", fmt.Errorf("insert contacts: %w", context.DeadlineExceeded), "Something went wrong while importing contacts"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, _ := setupImportApp(t, failingImporter{err: tc.err}, true)

			resp, err := app.Test(multipartRequest(t, "people.csv", "email\n", ""))
			require.NoError(t, err)

			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			out := decodeImport(t, resp)
			assert.False(t, out.Success)
			assert.Equal(t, tc.want, out.Message)
		})
	}
}

func TestImportContacts_RequiresUser(t *testing.T) {
	app, _ := setupImportApp(t, nil, false)

	resp, err := app.Test(multipartRequest(t, "people.csv", "email\n", ""))
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
