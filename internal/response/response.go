package response

import (
	"math"

	"github.com/gofiber/fiber/v2"
)

// Meta carries pagination metadata for list responses.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewMeta derives totalPages as ceil(total/limit).
func NewMeta(page, limit int, total int64) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Meta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   any    `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

func OK(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Message: message, Data: data})
}

func Created(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Message: message, Data: data})
}

// Paginated writes a list with its pagination meta. A nil slice is sent as [].
func Paginated[T any](c *fiber.Ctx, message string, items []T, meta Meta) error {
	if items == nil {
		items = []T{}
	}
	return c.Status(fiber.StatusOK).JSON(Envelope{Success: true, Message: message, Data: items, Meta: &meta})
}

func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// Fail writes an error envelope with the given status.
func Fail(c *fiber.Ctx, status int, message string, detail any) error {
	return c.Status(status).JSON(Envelope{Success: false, Message: message, Error: detail})
}

func BadRequest(c *fiber.Ctx, message string, detail any) error {
	return Fail(c, fiber.StatusBadRequest, message, detail)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusNotFound, message, nil)
}

func Conflict(c *fiber.Ctx, message string) error {
	return Fail(c, fiber.StatusConflict, message, nil)
}

func InternalError(c *fiber.Ctx, message string, detail any) error {
	return Fail(c, fiber.StatusInternalServerError, message, detail)
}
