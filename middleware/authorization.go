package middleware

import (
	"errors"
	"strings"
	"time"

	"contacts-backend/config"
	"contacts-backend/token"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AccessTokenDuration  = 15 * time.Minute
	RefreshTokenDuration = 7 * 24 * time.Hour

	userLocalsKey = "user"
)

// CurrentUser returns the payload ProtectedRoute attached to the request.
func CurrentUser(c *fiber.Ctx) (*token.Payload, bool) {
	payload, ok := c.Locals(userLocalsKey).(*token.Payload)
	return payload, ok && payload != nil
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func unauthorized(c *fiber.Ctx, reason string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Unauthorized",
		"error":   reason,
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Something went wrong",
		"error":   "An internal server error occurred.",
	})
}

// ProtectedRoute accepts an access token from the Authorization header or the
// access_token cookie. When it is missing or stale, a single-use refresh token
// held in Redis is rotated for a new pair.
func ProtectedRoute(ctx *AppContext) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := bearerToken(c)
		if accessToken == "" {
			accessToken = c.Cookies("access_token")
		}

		if accessToken != "" {
			payload, err := ctx.PasetoMaker.VerifyToken(accessToken, token.KindAccess)
			if err == nil {
				c.Locals(userLocalsKey, payload)
				return c.Next()
			}
			config.Logger.Debug("Invalid access token encountered", zap.Error(err))
		}

		refreshToken := c.Cookies("refresh_token")
		if refreshToken == "" {
			return unauthorized(c, "Authentication required")
		}

		refreshPayload, err := ctx.PasetoMaker.VerifyToken(refreshToken, token.KindRefresh)
		if err != nil {
			config.Logger.Warn("Refresh token verification failed", zap.Error(err))
			return unauthorized(c, "Session expired or invalid. Please log in again.")
		}

		// Single use: the old refresh token dies before the new pair is issued
		userID, err := ctx.consumeRefreshToken(refreshToken)
		if errors.Is(err, errSessionNotFound) {
			config.Logger.Warn("Refresh token not found in Redis",
				zap.String("payload_id", refreshPayload.ID.String()),
				zap.String("user_id", refreshPayload.UserID.String()))
			return unauthorized(c, "Session invalid. Please log in again.")
		} else if err != nil {
			config.Logger.Error("Error accessing Redis for refresh token validation", zap.Error(err))
			return internalError(c)
		}

		pair, err := ctx.IssueSession(refreshPayload.Subject())
		if err != nil {
			config.Logger.Error("Could not rotate refresh session", zap.String("user_id", userID), zap.Error(err))
			return internalError(c)
		}
		newAccessToken, newRefreshToken := pair.AccessToken, pair.RefreshToken

		secure := config.GetEnv("COOKIE_SECURE") == "true"
		c.Cookie(&fiber.Cookie{
			Name:     "access_token",
			Value:    newAccessToken,
			Expires:  time.Now().Add(AccessTokenDuration),
			HTTPOnly: true,
			Secure:   secure,
			SameSite: "Lax",
			Path:     "/",
		})
		c.Cookie(&fiber.Cookie{
			Name:     "refresh_token",
			Value:    newRefreshToken,
			Expires:  time.Now().Add(RefreshTokenDuration),
			HTTPOnly: true,
			Secure:   secure,
			SameSite: "Lax",
			Path:     "/",
		})

		accessPayload, err := ctx.PasetoMaker.VerifyToken(newAccessToken, token.KindAccess)
		if err != nil {
			return internalError(c)
		}
		c.Locals(userLocalsKey, accessPayload)
		return c.Next()
	}
}
