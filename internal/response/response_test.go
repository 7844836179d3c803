package response_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		total      int64
		totalPages int
	}{
		{"empty", 1, 10, 0, 0},
		{"exact multiple", 1, 10, 30, 3},
		{"remainder", 2, 10, 31, 4},
		{"single short page", 1, 100, 7, 1},
		{"limit one", 5, 1, 5, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := response.NewMeta(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.page, meta.Page)
			assert.Equal(t, tt.limit, meta.Limit)
			assert.Equal(t, tt.total, meta.Total)
			assert.Equal(t, tt.totalPages, meta.TotalPages)
		})
	}
}

func TestPaginated_NilItemsEncodeAsEmptyList(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		var items []string
		return response.Paginated(c, "ok", items, response.NewMeta(3, 10, 12))
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []any{}, body["data"])
	meta := body["meta"].(map[string]any)
	assert.EqualValues(t, 2, meta["totalPages"])
	assert.EqualValues(t, 3, meta["page"])
}

func TestFail_OmitsDataAndMeta(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return response.Conflict(c, "duplicate")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "duplicate", body["message"])
	assert.NotContains(t, body, "data")
	assert.NotContains(t, body, "meta")
}
