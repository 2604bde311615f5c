package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"contacts-backend/contacts/repositories"
	"contacts-backend/db/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const uniqueViolation = `duplicate key value violates unique constraint "idx_contacts_org_email_active"`

// memoryContactStore mimics the Postgres store: case-insensitive lookups,
// case-sensitive uniqueness, and failures reported out of submission order.
type memoryContactStore struct {
	mu          sync.Mutex
	contacts    []models.Contact
	lookupCalls int
	insertCalls int
	lookupErr   error
	insertErr   error
	// raceEmails simulates another writer inserting the address between the
	// lookup and the insert.
	raceEmails map[string]bool
}

func newMemoryContactStore(existing ...models.Contact) *memoryContactStore {
	return &memoryContactStore{contacts: existing}
}

func (s *memoryContactStore) FindExistingEmails(_ context.Context, organizationID uuid.UUID, emails []string) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookupCalls++
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}

	wanted := make(map[string]bool, len(emails))
	for _, e := range emails {
		wanted[lower(e)] = true
	}
	found := make(map[string]struct{})
	for _, c := range s.contacts {
		if c.OrganizationID == organizationID && !c.IsDeleted() && wanted[lower(c.Email)] {
			found[lower(c.Email)] = struct{}{}
		}
	}
	return found, nil
}

func (s *memoryContactStore) InsertUnordered(_ context.Context, batch []models.Contact) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertCalls++
	if s.insertErr != nil {
		return 0, s.insertErr
	}

	inserted := 0
	var writeErrors []repositories.WriteError
	for i, c := range batch {
		if err := models.ValidateContact(&c); err != nil {
			writeErrors = append(writeErrors, repositories.WriteError{Index: i, ContactID: c.ID, Message: err.Error()})
			continue
		}
		if s.raceEmails[c.Email] || s.holds(c.OrganizationID, c.Email) {
			writeErrors = append(writeErrors, repositories.WriteError{Index: i, ContactID: c.ID, Message: uniqueViolation})
			continue
		}
		s.contacts = append(s.contacts, c)
		inserted++
	}

	if len(writeErrors) == 0 {
		return inserted, nil
	}
	for i, j := 0, len(writeErrors)-1; i < j; i, j = i+1, j-1 {
		writeErrors[i], writeErrors[j] = writeErrors[j], writeErrors[i]
	}
	return inserted, &repositories.BulkWriteError{InsertedCount: inserted, WriteErrors: writeErrors}
}

func (s *memoryContactStore) holds(organizationID uuid.UUID, email string) bool {
	for _, c := range s.contacts {
		if c.OrganizationID == organizationID && !c.IsDeleted() && c.Email == email {
			return true
		}
	}
	return false
}

func lower(s string) string {
	return strings.ToLower(s)
}

func storedContact(orgID uuid.UUID, email string, status models.ContactStatus) models.Contact {
	c := models.Contact{
		FirstName:      "Stored",
		LastName:       "Contact",
		Email:          email,
		Status:         status,
		UserID:         uuid.New(),
		OrganizationID: orgID,
	}
	c.ApplyDefaults()
	return c
}

func writeUpload(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeWorkbook(t *testing.T, dir, name string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	require.Empty(t, names, fmt.Sprintf("orphaned uploads in %s", dir))
}

func drain(t *testing.T, source RowSource) []Row {
	t.Helper()
	var rows []Row
	for {
		row, err := source.Next()
		if err != nil {
			require.ErrorIs(t, err, io.EOF)
			return rows
		}
		rows = append(rows, row)
	}
}
