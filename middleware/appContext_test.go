package middleware

import (
	"testing"

	"contacts-backend/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueSession_StoresRefreshTokenOnce(t *testing.T) {
	_, appCtx, mr := setupAuthTest(t)
	sub := subject()

	pair, err := appCtx.IssueSession(sub)
	require.NoError(t, err)

	stored, err := mr.Get(RefreshKey(pair.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, sub.UserID.String(), stored)
	assert.Equal(t, RefreshTokenDuration, mr.TTL(RefreshKey(pair.RefreshToken)))
	assert.False(t, mr.Exists(RefreshKey(pair.AccessToken)))

	payload, err := appCtx.PasetoMaker.VerifyToken(pair.AccessToken, token.KindAccess)
	require.NoError(t, err)
	assert.Equal(t, sub, payload.Subject())

	userID, err := appCtx.consumeRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, sub.UserID.String(), userID)

	_, err = appCtx.consumeRefreshToken(pair.RefreshToken)
	assert.ErrorIs(t, err, errSessionNotFound)
}
