package services

import (
	"errors"

	"contacts-backend/db/models"
)

// ValidateCandidate applies the same rules the Contact model enforces on
// create. It returns "" for a valid candidate, otherwise the reason for the
// first violated field.
func ValidateCandidate(candidate CandidateContact) string {
	contact := candidate.ToContact()
	err := models.ValidateContact(&contact)
	if err == nil {
		return ""
	}

	var verr *models.ContactValidationError
	if errors.As(err, &verr) {
		return verr.Reason
	}
	return err.Error()
}
