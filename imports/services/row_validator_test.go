package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validCandidate() CandidateContact {
	return CandidateContact{
		row:            1,
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Email:          "ada@example.com",
		UserID:         uuid.New(),
		OrganizationID: uuid.New(),
		Source:         "import",
	}
}

func TestValidateCandidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *CandidateContact)
		want   string
	}{
		{name: "valid", mutate: func(c *CandidateContact) {}, want: ""},
		{name: "missing first name", mutate: func(c *CandidateContact) { c.FirstName = "" }, want: "firstName is required"},
		{name: "missing last name", mutate: func(c *CandidateContact) { c.LastName = "" }, want: "lastName is required"},
		{name: "missing email", mutate: func(c *CandidateContact) { c.Email = "" }, want: "email is required"},
		{name: "bad email", mutate: func(c *CandidateContact) { c.Email = "ada at example" }, want: "email must be a valid email address"},
		{name: "long company", mutate: func(c *CandidateContact) { c.Company = strings.Repeat("c", 201) }, want: "company must be at most 200 characters"},
		{name: "free-form language", mutate: func(c *CandidateContact) { c.Language = "Français" }, want: ""},
		{name: "long language", mutate: func(c *CandidateContact) { c.Language = strings.Repeat("l", 36) }, want: "language must be at most 35 characters"},
		{name: "language defaults", mutate: func(c *CandidateContact) { c.Language = "" }, want: ""},
		{name: "missing user", mutate: func(c *CandidateContact) { c.UserID = uuid.Nil }, want: "userId is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCandidate()
			tt.mutate(&c)
			assert.Equal(t, tt.want, ValidateCandidate(c))
		})
	}
}
