package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"contacts-backend/db/models"

	"github.com/google/uuid"
)

type contactField int

const (
	fieldUnknown contactField = iota
	fieldFirstName
	fieldLastName
	fieldEmail
	fieldPhone
	fieldCompany
	fieldLanguage
	fieldTags
)

// targetFields lists accepted mapping targets after normalizeName.
var targetFields = map[string]contactField{
	"firstname": fieldFirstName,
	"lastname":  fieldLastName,
	"email":     fieldEmail,
	"phone":     fieldPhone,
	"company":   fieldCompany,
	"language":  fieldLanguage,
	"tags":      fieldTags,
}

// columnHeuristics are tried in order against a normalized column name.
var columnHeuristics = []struct {
	field    contactField
	contains []string
	equals   []string
}{
	{field: fieldFirstName, contains: []string{"firstname"}, equals: []string{"first", "fname", "givenname"}},
	{field: fieldLastName, contains: []string{"lastname", "surname", "familyname"}, equals: []string{"last", "lname"}},
	{field: fieldEmail, contains: []string{"email"}, equals: []string{"mail"}},
	{field: fieldPhone, contains: []string{"phone", "mobile"}, equals: []string{"tel", "telephone", "cell"}},
	{field: fieldCompany, contains: []string{"company", "organization", "organisation"}, equals: []string{"org", "employer"}},
	{field: fieldLanguage, contains: []string{"language"}, equals: []string{"lang", "locale"}},
}

// CandidateContact is a contact assembled from one file row. The row tag is
// fixed at creation and travels with the candidate through every stage.
type CandidateContact struct {
	row int

	FirstName string
	LastName  string
	Email     string
	Phone     string
	Company   string
	Language  string
	Tags      []string

	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Source         models.ContactSource
}

// Row is the 1-based data row the candidate was read from.
func (c CandidateContact) Row() int {
	return c.row
}

// ToContact builds the persistent record with defaults applied and a fresh ID.
func (c CandidateContact) ToContact() models.Contact {
	contact := models.Contact{
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		Phone:          c.Phone,
		Company:        c.Company,
		Language:       c.Language,
		Tags:           append([]string{}, c.Tags...),
		Source:         c.Source,
		UserID:         c.UserID,
		OrganizationID: c.OrganizationID,
	}
	contact.ApplyDefaults()
	return contact
}

func (c *CandidateContact) get(field contactField) string {
	switch field {
	case fieldFirstName:
		return c.FirstName
	case fieldLastName:
		return c.LastName
	case fieldEmail:
		return c.Email
	case fieldPhone:
		return c.Phone
	case fieldCompany:
		return c.Company
	case fieldLanguage:
		return c.Language
	}
	return ""
}

func (c *CandidateContact) set(field contactField, value string) {
	switch field {
	case fieldFirstName:
		c.FirstName = value
	case fieldLastName:
		c.LastName = value
	case fieldEmail:
		c.Email = value
	case fieldPhone:
		c.Phone = value
	case fieldCompany:
		c.Company = value
	case fieldLanguage:
		c.Language = value
	case fieldTags:
		c.Tags = splitTags(value)
	}
}

// ParseMapping decodes the optional mapping form field. A blank value means
// no explicit mapping.
func ParseMapping(raw string) (map[string]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var mapping map[string]string
	if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMapping, err)
	}
	return mapping, nil
}

// FieldMapper turns rows into candidates using the explicit mapping first and
// column-name heuristics for everything the mapping does not cover.
type FieldMapper struct {
	explicit map[string]contactField
}

func NewFieldMapper(mapping map[string]string) *FieldMapper {
	explicit := make(map[string]contactField, len(mapping))
	for column, target := range mapping {
		// Mapped columns never fall back to heuristics, even with an unknown target
		explicit[strings.TrimSpace(column)] = targetFields[normalizeName(target)]
	}
	return &FieldMapper{explicit: explicit}
}

func (m *FieldMapper) Map(row Row, userID, organizationID uuid.UUID) CandidateContact {
	candidate := CandidateContact{
		row:            row.Number,
		UserID:         userID,
		OrganizationID: organizationID,
		Source:         models.SourceImport,
	}

	for _, cell := range row.Cells {
		field, mapped := m.explicit[cell.Column]
		if !mapped || field == fieldUnknown {
			continue
		}
		if value := strings.TrimSpace(cell.Value); value != "" {
			candidate.set(field, value)
		}
	}

	for _, cell := range row.Cells {
		if _, mapped := m.explicit[cell.Column]; mapped {
			continue
		}
		value := strings.TrimSpace(cell.Value)
		if value == "" {
			continue
		}
		field := guessField(cell.Column)
		if field == fieldUnknown || candidate.get(field) != "" {
			continue
		}
		candidate.set(field, value)
	}

	return candidate
}

func guessField(column string) contactField {
	name := normalizeName(column)
	if name == "" {
		return fieldUnknown
	}
	for _, h := range columnHeuristics {
		for _, exact := range h.equals {
			if name == exact {
				return h.field
			}
		}
		for _, part := range h.contains {
			if strings.Contains(name, part) {
				return h.field
			}
		}
	}
	return fieldUnknown
}

func normalizeName(name string) string {
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(name)))
}

func splitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
