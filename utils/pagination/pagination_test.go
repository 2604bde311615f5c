package pagination

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paginate(t *testing.T, target string, total int64) (int, PaginatedResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/contacts", func(c *fiber.Ctx) error {
		params := ParsePaginationParams(c)
		if err := ValidatePaginationParams(params); err != nil {
			return c.SendStatus(fiber.StatusBadRequest)
		}
		return c.JSON(NewPaginatedResponse(c, []string{}, total, params))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)

	var out PaginatedResponse
	if resp.StatusCode == fiber.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func TestNewPaginatedResponse_Links(t *testing.T) {
	status, out := paginate(t, "/contacts?page=2&page_size=5&tag=vip&status=ENABLED", 12)

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 3, out.Pagination.TotalPages)
	require.NotNil(t, out.Pagination.NextPage)
	require.NotNil(t, out.Pagination.PrevPage)
	assert.Equal(t, "http://example.com/contacts?page_size=5&status=ENABLED&tag=vip&page=3", *out.Pagination.NextPage)
	assert.Equal(t, "http://example.com/contacts?page_size=5&status=ENABLED&tag=vip&page=1", *out.Pagination.PrevPage)
}

func TestNewPaginatedResponse_SinglePage(t *testing.T) {
	status, out := paginate(t, "/contacts", 3)

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 1, out.Pagination.CurrentPage)
	assert.Equal(t, DefaultPageSize, out.Pagination.PageSize)
	assert.Nil(t, out.Pagination.NextPage)
	assert.Nil(t, out.Pagination.PrevPage)
}

func TestValidatePaginationParams(t *testing.T) {
	for _, target := range []string{"/contacts?page=0", "/contacts?page_size=0", "/contacts?page_size=101"} {
		status, _ := paginate(t, target, 0)
		assert.Equal(t, fiber.StatusBadRequest, status, target)
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 40, PaginationParams{Page: 3, PageSize: 20}.Offset())
}
