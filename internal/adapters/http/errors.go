package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/routemap/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // bad_request, not_found, not_ready, load_failed, ...
	Message   string `json:"message"` // Human-readable message
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errBadGateway returns a 502 error for a dataset that could not be fetched.
func errBadGateway(c *fiber.Ctx, msg string) error {
	return newError(c, 502, "load_failed", msg)
}

// errUnavailable returns a 503 error while no dataset is loaded.
func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, 503, "not_ready", msg)
}

// errFromService maps service errors onto the error envelope.
func errFromService(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotLoaded):
		return errUnavailable(c, "dataset not loaded")
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return newError(c, fiber.StatusRequestTimeout, "timeout", "request timed out")
	default:
		LoggerFromCtx(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
		return errInternal(c, err.Error())
	}
}
