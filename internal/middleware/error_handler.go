package middleware

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"catalog/internal/apperror"
	"catalog/internal/repositories"
	"catalog/internal/response"
	"catalog/internal/validation"
)

// ErrorHandler is the central Fiber error handler. Every error returned by a handler
// or middleware is rendered here as a failure envelope. Internal error details are
// only exposed outside production.
func ErrorHandler(log *zap.Logger, production bool) fiber.ErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	h := errorHandler{log: log, production: production}
	return h.handle
}

type errorHandler struct {
	log        *zap.Logger
	production bool
}

func (h errorHandler) handle(c *fiber.Ctx, err error) error {
	var (
		appErr   *apperror.Error
		verrs    validator.ValidationErrors
		repoErr  *repositories.Error
		fiberErr *fiber.Error
	)

	switch {
	case errors.As(err, &appErr):
		return h.appError(c, appErr)
	case errors.As(err, &verrs):
		details := validation.FieldErrors(verrs)
		return response.BadRequest(c, "Validation failed", details)
	case errors.As(err, &repoErr):
		return h.persistenceError(c, repoErr)
	case errors.As(err, &fiberErr):
		if fiberErr.Code >= fiber.StatusInternalServerError {
			h.logFailure(c, fiberErr.Code, err)
		}
		return response.Fail(c, fiberErr.Code, fiberErr.Message, nil)
	}

	h.logFailure(c, fiber.StatusInternalServerError, err)
	return response.InternalError(c, "Internal server error", h.detail(err))
}

func (h errorHandler) appError(c *fiber.Ctx, e *apperror.Error) error {
	status := e.Kind.Status()
	switch e.Kind {
	case apperror.KindValidation:
		return response.BadRequest(c, e.Message, e.Details)
	case apperror.KindNotFound, apperror.KindConflict, apperror.KindUnauthorized:
		return response.Fail(c, status, e.Message, nil)
	}

	h.logFailure(c, status, e)
	return response.Fail(c, status, e.Message, h.detail(e.Err))
}

// persistenceError maps every repositories.ErrorKind to a response.
func (h errorHandler) persistenceError(c *fiber.Ctx, e *repositories.Error) error {
	switch e.Kind {
	case repositories.KindUniqueViolation:
		field := e.Field
		if field == "" {
			field = "value"
		}
		return response.Fail(c, fiber.StatusConflict, fmt.Sprintf("A record with this %s already exists", field), nil)
	case repositories.KindNotFound:
		return response.NotFound(c, "Resource not found")
	case repositories.KindForeignKeyViolation:
		var detail any
		if e.Field != "" {
			detail = []apperror.FieldError{{Field: e.Field, Rule: "exists", Message: fmt.Sprintf("%s references a record that does not exist", e.Field)}}
		}
		return response.BadRequest(c, "Referenced record does not exist", detail)
	case repositories.KindUnknown:
		h.logFailure(c, fiber.StatusInternalServerError, e)
		return response.InternalError(c, "Database error", h.detail(e))
	default:
		h.logFailure(c, fiber.StatusInternalServerError, e)
		return response.InternalError(c, "Internal server error", h.detail(e))
	}
}

func (h errorHandler) detail(err error) any {
	if h.production || err == nil {
		return nil
	}
	return err.Error()
}

func (h errorHandler) logFailure(c *fiber.Ctx, status int, err error) {
	h.log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Error(err))
}

// NotFound answers requests that matched no route.
func NotFound(c *fiber.Ctx) error {
	return response.NotFound(c, "Route not found")
}
