package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCors_Preflight(t *testing.T) {
	t.Setenv("CORS_ALLOW_ORIGINS", "https://app.example.com")
	t.Setenv("CORS_MAX_AGE", "")

	app := fiber.New()
	InitCors(app)
	app.Put("/api/v1/contacts/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	preflight := func(origin string) *http.Response {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/contacts/1", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp
	}

	resp := preflight("https://app.example.com")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "600", resp.Header.Get("Access-Control-Max-Age"))

	resp = preflight("https://evil.example.com")
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
