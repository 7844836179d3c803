package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"catalog/internal/apperror"
	"catalog/internal/validation"
)

// param returns a copy of a path parameter. Fiber reuses the request buffer after the
// handler returns, and ids outlive it in logs and events.
func param(c *fiber.Ctx, name string) string {
	return strings.Clone(c.Params(name))
}

// idParam returns the :id path parameter after checking it is a UUID.
func idParam(c *fiber.Ctx, v *validation.Validator) (string, error) {
	id := param(c, "id")
	if err := v.ID("id", id); err != nil {
		return "", err
	}
	return id, nil
}

type normalizer interface {
	Normalize()
}

// bindBody decodes the JSON body into dst, normalizes and validates it.
func bindBody(c *fiber.Ctx, v *validation.Validator, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperror.Validation("Invalid request body: " + err.Error())
	}
	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}
	return v.Struct(dst)
}

// bindQuery decodes the query string into dst and validates it.
func bindQuery(c *fiber.Ctx, v *validation.Validator, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return apperror.Validation("Invalid query parameters: " + err.Error())
	}
	return v.Struct(dst)
}
