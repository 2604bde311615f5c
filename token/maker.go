package token

import "time"

// Maker issues and checks the tokens of a session. PASETO is the only
// implementation.
type Maker interface {
	CreateToken(subject Subject, kind Kind, duration time.Duration) (string, error)
	VerifyToken(token string, kind Kind) (*Payload, error)
	// CreatePair issues a fresh access and refresh token for the subject.
	CreatePair(subject Subject, accessDuration, refreshDuration time.Duration) (TokenPair, error)
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
