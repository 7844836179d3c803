package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"catalog/internal/apperror"
	"catalog/internal/middleware"
	"catalog/internal/repositories"
	"catalog/internal/response"
	"catalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

func newApp(production bool, failWith error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(nil, production)})
	app.Get("/fail", func(c *fiber.Ctx) error { return failWith })
	app.Use(middleware.NotFound)
	return app
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body envelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	}
	return resp.StatusCode, body
}

func TestErrorHandler(t *testing.T) {
	type probe struct {
		Name string `validate:"required"`
	}
	verr := validator.New().Struct(probe{})

	tests := []struct {
		name       string
		err        error
		production bool
		status     int
		message    string
		hasDetail  bool
	}{
		{"app validation", apperror.Validation("Validation failed: name is required", apperror.FieldError{Field: "name", Rule: "required"}), false, 400, "Validation failed: name is required", true},
		{"app not found", apperror.NotFound("Product with ID %s not found", "x"), false, 404, "Product with ID x not found", false},
		{"app conflict", apperror.Conflict("Product with SKU %s already exists", "X-1"), false, 409, "Product with SKU X-1 already exists", false},
		{"app unauthorized", apperror.Unauthorized("Invalid or expired token", errors.New("expired")), false, 401, "Invalid or expired token", false},
		{"app database", apperror.Database("Failed to load", errors.New("conn reset")), false, 500, "Failed to load", true},
		{"app internal in production", apperror.Internal("Boom", errors.New("secret")), true, 500, "Boom", false},
		{"raw validator errors", verr, false, 400, "Validation failed", true},
		{"unique violation", &repositories.Error{Kind: repositories.KindUniqueViolation, Field: "sku", Err: errors.New("dup")}, false, 409, "A record with this sku already exists", false},
		{"record not found", &repositories.Error{Kind: repositories.KindNotFound, Err: errors.New("gone")}, false, 404, "Resource not found", false},
		{"foreign key violation", &repositories.Error{Kind: repositories.KindForeignKeyViolation, Field: "categoryId", Err: errors.New("fk")}, false, 400, "Referenced record does not exist", true},
		{"unknown persistence error", &repositories.Error{Kind: repositories.KindUnknown, Err: errors.New("syntax")}, false, 500, "Database error", true},
		{"fiber error", fiber.NewError(fiber.StatusRequestEntityTooLarge, "Request Entity Too Large"), false, 413, "Request Entity Too Large", false},
		{"plain error", errors.New("kaboom"), false, 500, "Internal server error", true},
		{"plain error in production", errors.New("kaboom"), true, 500, "Internal server error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newApp(tt.production, tt.err)
			status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/fail", nil))

			assert.Equal(t, tt.status, status)
			assert.False(t, body.Success)
			assert.Equal(t, tt.message, body.Message)
			if tt.hasDetail {
				assert.NotEmpty(t, body.Error)
			} else {
				assert.Empty(t, body.Error)
			}
		})
	}
}

func TestErrorHandler_HidesDetailInProduction(t *testing.T) {
	app := newApp(true, errors.New("pq: password authentication failed"))
	_, body := do(t, app, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.NotContains(t, string(body.Error), "password")

	app = newApp(false, errors.New("pq: password authentication failed"))
	_, body = do(t, app, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Contains(t, string(body.Error), "password")
}

func TestNotFound(t *testing.T) {
	app := newApp(false, nil)
	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Route not found", body.Message)
}

func newGuardedApp(authService *services.AuthService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(nil, false)})
	api := app.Group("/api", middleware.WriteGuard(authService))
	api.Get("/items", func(c *fiber.Ctx) error { return response.OK(c, "listed", nil) })
	api.Post("/items", func(c *fiber.Ctx) error {
		subject, _ := c.Locals(middleware.SubjectKey).(string)
		return response.Created(c, "created by "+subject, nil)
	})
	return app
}

func TestWriteGuard(t *testing.T) {
	authService := services.NewAuthService("guard_secret")
	app := newGuardedApp(authService)

	// Reads are open
	status, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/api/items", nil))
	assert.Equal(t, http.StatusOK, status)

	// Missing header
	status, body := do(t, app, httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader("{}")))
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Authorization header is required", body.Message)

	// Wrong scheme
	req := httptest.NewRequest(http.MethodPost, "/api/items", nil)
	req.Header.Set("Authorization", "Basic abc")
	status, _ = do(t, app, req)
	assert.Equal(t, http.StatusUnauthorized, status)

	// Invalid token
	req = httptest.NewRequest(http.MethodPost, "/api/items", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	status, body = do(t, app, req)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid or expired token", body.Message)

	// Valid token
	token, err := authService.IssueToken("ops", time.Minute)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/items", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	status, body = do(t, app, req)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "created by ops", body.Message)
}

func TestWriteGuard_DisabledWithoutSecret(t *testing.T) {
	app := newGuardedApp(services.NewAuthService(""))
	status, body := do(t, app, httptest.NewRequest(http.MethodPost, "/api/items", nil))
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "created by ", body.Message)
}
