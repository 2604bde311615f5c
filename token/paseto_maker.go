package token

import (
	"fmt"
	"time"

	"github.com/o1egl/paseto"
	"golang.org/x/crypto/chacha20poly1305"
)

// PasetoMaker issues v2.local tokens under one symmetric key.
type PasetoMaker struct {
	paseto       *paseto.V2
	symmetricKey []byte
}

func NewPasetoMaker(symmetricKey string) (Maker, error) {
	if len(symmetricKey) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("invalid key size: must be exactly %d characters", chacha20poly1305.KeySize)
	}

	maker := &PasetoMaker{
		paseto:       paseto.NewV2(),
		symmetricKey: []byte(symmetricKey),
	}
	return maker, nil
}

func (maker *PasetoMaker) CreateToken(subject Subject, kind Kind, duration time.Duration) (string, error) {
	payload, err := NewPayload(subject, kind, duration)
	if err != nil {
		return "", fmt.Errorf("failed to create token payload: %w", err)
	}

	token, err := maker.paseto.Encrypt(maker.symmetricKey, payload, nil)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt token: %w", err)
	}

	return token, nil
}

// VerifyToken decrypts the token and checks it is an unexpired token of the
// given kind.
func (maker *PasetoMaker) VerifyToken(token string, kind Kind) (*Payload, error) {
	var payload Payload
	if err := maker.paseto.Decrypt(token, maker.symmetricKey, &payload, nil); err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if err := payload.Valid(kind); err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return &payload, nil
}

func (maker *PasetoMaker) CreatePair(subject Subject, accessDuration, refreshDuration time.Duration) (TokenPair, error) {
	access, err := maker.CreateToken(subject, KindAccess, accessDuration)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := maker.CreateToken(subject, KindRefresh, refreshDuration)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
