package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"docusafe/internal/http/middleware"
	"docusafe/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(middleware.RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	})
}

// serviceErrors maps service sentinels to a status and error code.
// The sentinel's own message is safe to show.
var serviceErrors = []struct {
	err    error
	status int
	code   string
}{
	{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{service.ErrUnauthenticated, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{service.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{service.ErrNoFile, fiber.StatusNotFound, "NO_FILE"},
	{service.ErrEmailExists, fiber.StatusConflict, "EMAIL_EXISTS"},
	{service.ErrCategoryExists, fiber.StatusConflict, "CATEGORY_EXISTS"},
	{service.ErrSelfAction, fiber.StatusConflict, "SELF_ACTION"},
	{service.ErrInvalidBackup, fiber.StatusUnprocessableEntity, "INVALID_BACKUP"},
	{service.ErrURLUnsupported, fiber.StatusNotImplemented, "URL_UNSUPPORTED"},
}

// writeServiceError translates an error returned by a service.
// Validation errors carry a user-facing reason; anything unknown is a 500
// and gets logged with the request id.
func writeServiceError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrValidation) {
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	}
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			return writeError(c, m.status, m.code, m.err.Error())
		}
	}
	slog.ErrorContext(c.UserContext(), "request_failed",
		"component", "http",
		"request_id", requestIDFromCtx(c),
		"method", c.Method(),
		"path", c.Path(),
		"error", err.Error(),
	)
	return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusUnauthorized:
			return writeError(c, status, "UNAUTHORIZED", fe.Message)
		case fiber.StatusForbidden:
			return writeError(c, status, "FORBIDDEN", fe.Message)
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
