package middleware

import (
	"context"
	"errors"
	"fmt"

	"contacts-backend/token"

	"github.com/redis/go-redis/v9"
)

const refreshKeyPrefix = "refresh_token:"

var errSessionNotFound = errors.New("refresh session not found")

// AppContext holds what request authentication needs: the token maker and
// the Redis client where live refresh sessions are kept.
type AppContext struct {
	PasetoMaker token.Maker
	Ctx         context.Context
	RedisClient *redis.Client
}

// RefreshKey is the Redis key a live refresh token is stored under.
func RefreshKey(refreshToken string) string {
	return refreshKeyPrefix + refreshToken
}

// IssueSession mints an access/refresh pair for subject and records the
// refresh token so it can be rotated once.
func (a *AppContext) IssueSession(subject token.Subject) (token.TokenPair, error) {
	pair, err := a.PasetoMaker.CreatePair(subject, AccessTokenDuration, RefreshTokenDuration)
	if err != nil {
		return token.TokenPair{}, fmt.Errorf("create token pair: %w", err)
	}

	key := RefreshKey(pair.RefreshToken)
	if err := a.RedisClient.Set(a.Ctx, key, subject.UserID.String(), RefreshTokenDuration).Err(); err != nil {
		return token.TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}
	return pair, nil
}

// consumeRefreshToken removes a stored refresh token and returns the user it
// was issued to. GETDEL keeps two concurrent refreshes from both succeeding.
func (a *AppContext) consumeRefreshToken(refreshToken string) (string, error) {
	userID, err := a.RedisClient.GetDel(a.Ctx, RefreshKey(refreshToken)).Result()
	if errors.Is(err, redis.Nil) {
		return "", errSessionNotFound
	}
	return userID, err
}
