package middleware

import (
	"strings"

	"catalog/internal/apperror"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
)

// SubjectKey is the Locals key holding the token subject of an authorized write.
const SubjectKey = "subject"

// WriteGuard requires a valid Bearer token on mutating requests. Reads pass through,
// and so does everything when authService has no secret configured.
func WriteGuard(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !authService.Enabled() || isReadOnly(c.Method()) {
			return c.Next()
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperror.Unauthorized("Authorization header is required", nil)
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return apperror.Unauthorized("Authorization header format must be 'Bearer <token>'", nil)
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			return apperror.Unauthorized("Invalid or expired token", err)
		}

		c.Locals(SubjectKey, claims.Subject)
		return c.Next()
	}
}

func isReadOnly(method string) bool {
	switch method {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return true
	}
	return false
}
