package handlers

import (
	"errors"
	"log/slog"

	"toyland/internal/dto"
	"toyland/internal/repositories"
	"toyland/internal/services"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

// respondError maps a service error onto a status code and the error envelope.
func respondError(c *fiber.Ctx, err error) error {
	status, message := classify(err)
	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	}
	return c.Status(status).JSON(dto.ErrorResponse{Error: true, Message: message})
}

func classify(err error) (int, string) {
	var fiberErr *fiber.Error
	switch {
	case errors.Is(err, services.ErrBadIdentifier):
		return fiber.StatusBadRequest, "invalid toy id"
	case errors.Is(err, repositories.ErrStoreUnavailable):
		return fiber.StatusBadGateway, "store unavailable"
	case errors.As(err, &fiberErr):
		if fiberErr.Code >= fiber.StatusInternalServerError {
			return fiberErr.Code, "internal server error"
		}
		return fiberErr.Code, fiberErr.Message
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

// ErrorHandler is the fiber error handler. It renders errors that escape the
// handlers, including recovered panics, in the same envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: message})
}
