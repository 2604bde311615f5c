package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// EmailTracker rejects rows whose email was already accepted earlier in the
// same file. It belongs to a single import and is discarded with it.
type EmailTracker struct {
	filename string
	seen     map[string]struct{}
}

func NewEmailTracker(filename string) *EmailTracker {
	return &EmailTracker{filename: filename, seen: make(map[string]struct{})}
}

// Admit records the candidate's email. A candidate without an email is always
// admitted.
func (t *EmailTracker) Admit(candidate CandidateContact) (RowError, bool) {
	if candidate.Email == "" {
		return RowError{}, true
	}

	key := strings.ToLower(candidate.Email)
	if _, dup := t.seen[key]; dup {
		return RowError{
			Row:    candidate.Row(),
			Reason: fmt.Sprintf("Duplicate email %s found in %s", candidate.Email, t.filename),
		}, false
	}
	t.seen[key] = struct{}{}
	return RowError{}, true
}

// EmailLookup answers which emails are already held by non-deleted contacts
// of an organization, as a lowercased set.
type EmailLookup interface {
	FindExistingEmails(ctx context.Context, organizationID uuid.UUID, emails []string) (map[string]struct{}, error)
}

// CrossStoreDeduplicator drops candidates that collide with stored contacts.
type CrossStoreDeduplicator struct {
	lookup EmailLookup
}

func NewCrossStoreDeduplicator(lookup EmailLookup) *CrossStoreDeduplicator {
	return &CrossStoreDeduplicator{lookup: lookup}
}

// Partition issues one lookup for every candidate email and splits the
// candidates, in order, into new contacts and rejections.
func (d *CrossStoreDeduplicator) Partition(ctx context.Context, organizationID uuid.UUID, candidates []CandidateContact) ([]CandidateContact, []RowError, error) {
	emails := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c.Email != "" {
			emails = append(emails, c.Email)
		}
	}
	if len(emails) == 0 {
		return candidates, nil, nil
	}

	existing, err := d.lookup.FindExistingEmails(ctx, organizationID, emails)
	if err != nil {
		return nil, nil, fmt.Errorf("check existing contacts: %w", err)
	}
	fresh, rejected := PartitionExisting(candidates, existing)
	return fresh, rejected, nil
}

// PartitionExisting splits candidates against a lowercased set of stored
// emails. Rejections keep the candidate's file row.
func PartitionExisting(candidates []CandidateContact, existing map[string]struct{}) ([]CandidateContact, []RowError) {
	fresh := make([]CandidateContact, 0, len(candidates))
	var rejected []RowError
	for _, c := range candidates {
		if c.Email != "" {
			if _, taken := existing[strings.ToLower(c.Email)]; taken {
				rejected = append(rejected, RowError{
					Row:    c.Row(),
					Reason: fmt.Sprintf("Contact with email %s already exists in your organization", c.Email),
				})
				continue
			}
		}
		fresh = append(fresh, c)
	}
	return fresh, rejected
}
