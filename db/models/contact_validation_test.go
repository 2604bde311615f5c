package models

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func validContact() *Contact {
	c := &Contact{
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		UserID:         uuid.New(),
		OrganizationID: uuid.New(),
		Source:         SourceImport,
	}
	c.ApplyDefaults()
	return c
}

func TestValidateContact_Valid(t *testing.T) {
	assert.NoError(t, ValidateContact(validContact()))
}

func TestValidateContact_FirstViolationWins(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Contact)
		field  string
		reason string
	}{
		{
			name:   "missing first name",
			mutate: func(c *Contact) { c.FirstName = "" },
			field:  "firstName",
			reason: "firstName is required",
		},
		{
			name:   "missing first name reported before bad email",
			mutate: func(c *Contact) { c.FirstName = ""; c.Email = "nope" },
			field:  "firstName",
			reason: "firstName is required",
		},
		{
			name:   "missing email",
			mutate: func(c *Contact) { c.Email = "" },
			field:  "email",
			reason: "email is required",
		},
		{
			name:   "malformed email",
			mutate: func(c *Contact) { c.Email = "not-an-email" },
			field:  "email",
			reason: "email must be a valid email address",
		},
		{
			name:   "long phone",
			mutate: func(c *Contact) { c.Phone = strings.Repeat("1", 51) },
			field:  "phone",
			reason: "phone must be at most 50 characters",
		},
		{
			name:   "long language",
			mutate: func(c *Contact) { c.Language = strings.Repeat("l", 36) },
			field:  "language",
			reason: "language must be at most 35 characters",
		},
		{
			name:   "long tag",
			mutate: func(c *Contact) { c.Tags = datatypes.JSONSlice[string]{"ok", strings.Repeat("x", 51)} },
			field:  "tags[1]",
			reason: "tags[1] must be at most 50 characters",
		},
		{
			name:   "unknown source",
			mutate: func(c *Contact) { c.Source = "scraped" },
			field:  "source",
			reason: "source must be one of [manual, import, api, form]",
		},
		{
			name:   "missing organization",
			mutate: func(c *Contact) { c.OrganizationID = uuid.Nil },
			field:  "organizationId",
			reason: "organizationId is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validContact()
			tt.mutate(c)

			err := ValidateContact(c)
			require.Error(t, err)

			var verr *ContactValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, tt.reason, verr.Error())
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	c := &Contact{}
	c.ApplyDefaults()

	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, DefaultContactLanguage, c.Language)
	assert.Equal(t, ContactEnabled, c.Status)
	assert.Equal(t, SourceManual, c.Source)
	assert.NotNil(t, c.Tags)

	existing := uuid.New()
	c = &Contact{ID: existing, Language: "fr", Status: ContactDisabled, Source: SourceAPI}
	c.ApplyDefaults()
	assert.Equal(t, existing, c.ID)
	assert.Equal(t, "fr", c.Language)
	assert.Equal(t, ContactDisabled, c.Status)
	assert.Equal(t, SourceAPI, c.Source)
}
