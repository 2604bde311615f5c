package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrExpired   = errors.New("token has expired")
	ErrWrongKind = errors.New("token is not valid for this use")
)

// Kind separates short-lived access tokens from refresh tokens, which are
// only ever exchanged for a new pair.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Subject identifies who a token is issued to.
type Subject struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	Email          string
}

type Payload struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	OrganizationID uuid.UUID `json:"organizationId"`
	Email          string    `json:"email"`
	Kind           Kind      `json:"kind"`
	IssuedAt       time.Time `json:"issued_at"`
	ExpiredAt      time.Time `json:"expired_at"`
}

func NewPayload(subject Subject, kind Kind, duration time.Duration) (*Payload, error) {
	if subject.UserID == uuid.Nil || subject.OrganizationID == uuid.Nil {
		return nil, errors.New("user and organization are required")
	}
	if kind != KindAccess && kind != KindRefresh {
		return nil, fmt.Errorf("unknown token kind %q", kind)
	}
	if duration <= 0 {
		return nil, errors.New("duration must be positive")
	}

	tokenID, err := uuid.NewRandom()
	if err != nil {
		return nil, err
	}

	issuedAt := time.Now().UTC()
	payload := &Payload{
		ID:             tokenID,
		UserID:         subject.UserID,
		OrganizationID: subject.OrganizationID,
		Email:          subject.Email,
		Kind:           kind,
		IssuedAt:       issuedAt,
		ExpiredAt:      issuedAt.Add(duration),
	}
	return payload, nil
}

// Valid checks expiry and that the token was issued for the expected use.
func (payload *Payload) Valid(kind Kind) error {
	if payload.Kind != kind {
		return ErrWrongKind
	}
	if time.Now().UTC().After(payload.ExpiredAt) {
		return ErrExpired
	}
	return nil
}

// Subject returns the identity the token was issued for, for reissuing.
func (payload *Payload) Subject() Subject {
	return Subject{UserID: payload.UserID, OrganizationID: payload.OrganizationID, Email: payload.Email}
}

func (p *Payload) String() string {
	return fmt.Sprintf("ID: %s, Kind: %s, User: %s, Organization: %s, ExpiredAt: %s", p.ID, p.Kind, p.UserID, p.OrganizationID, p.ExpiredAt)
}
