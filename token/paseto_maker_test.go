package token

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "12345678901234567890123456789012"

func testSubject() Subject {
	return Subject{UserID: uuid.New(), OrganizationID: uuid.New(), Email: "owner@example.com"}
}

func TestPasetoMaker_RoundTrip(t *testing.T) {
	maker, err := NewPasetoMaker(testKey)
	require.NoError(t, err)

	subject := testSubject()
	tok, err := maker.CreateToken(subject, KindAccess, time.Minute)
	require.NoError(t, err)

	payload, err := maker.VerifyToken(tok, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, subject, payload.Subject())
	assert.WithinDuration(t, payload.IssuedAt.Add(time.Minute), payload.ExpiredAt, time.Second)
}

func TestPasetoMaker_Expired(t *testing.T) {
	maker, err := NewPasetoMaker(testKey)
	require.NoError(t, err)

	payload, err := NewPayload(testSubject(), KindAccess, time.Minute)
	require.NoError(t, err)
	payload.ExpiredAt = time.Now().Add(-time.Minute)

	tok, err := maker.(*PasetoMaker).paseto.Encrypt([]byte(testKey), payload, nil)
	require.NoError(t, err)

	_, err = maker.VerifyToken(tok, KindAccess)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestPasetoMaker_RejectsForeignKey(t *testing.T) {
	maker, err := NewPasetoMaker(testKey)
	require.NoError(t, err)
	other, err := NewPasetoMaker(strings.Repeat("k", 32))
	require.NoError(t, err)

	tok, err := other.CreateToken(testSubject(), KindAccess, time.Minute)
	require.NoError(t, err)

	_, err = maker.VerifyToken(tok, KindAccess)
	assert.Error(t, err)
}

func TestNewPasetoMaker_KeySize(t *testing.T) {
	_, err := NewPasetoMaker("short")
	assert.Error(t, err)
}

func TestNewPayload_RequiresIdentity(t *testing.T) {
	_, err := NewPayload(Subject{Email: "x@example.com"}, KindAccess, time.Minute)
	assert.Error(t, err)

	_, err = NewPayload(testSubject(), KindAccess, 0)
	assert.Error(t, err)

	_, err = NewPayload(testSubject(), Kind("session"), time.Minute)
	assert.Error(t, err)
}

func TestPasetoMaker_PairKinds(t *testing.T) {
	maker, err := NewPasetoMaker(testKey)
	require.NoError(t, err)

	pair, err := maker.CreatePair(testSubject(), time.Minute, time.Hour)
	require.NoError(t, err)

	_, err = maker.VerifyToken(pair.AccessToken, KindAccess)
	assert.NoError(t, err)
	_, err = maker.VerifyToken(pair.RefreshToken, KindRefresh)
	assert.NoError(t, err)

	_, err = maker.VerifyToken(pair.RefreshToken, KindAccess)
	assert.ErrorIs(t, err, ErrWrongKind)
	_, err = maker.VerifyToken(pair.AccessToken, KindRefresh)
	assert.ErrorIs(t, err, ErrWrongKind)
}
