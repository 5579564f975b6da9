package rpc

import (
	"errors"
	"log/slog"

	"github.com/cfkpezinok/club-backend/internal/dto"
	"github.com/cfkpezinok/club-backend/internal/identity"
	"github.com/cfkpezinok/club-backend/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

var codes = map[int]string{
	fiber.StatusBadRequest:          "BAD_REQUEST",
	fiber.StatusUnauthorized:        "UNAUTHORIZED",
	fiber.StatusForbidden:           "FORBIDDEN",
	fiber.StatusNotFound:            "NOT_FOUND",
	fiber.StatusConflict:            "CONFLICT",
	fiber.StatusTooManyRequests:     "TOO_MANY_REQUESTS",
	fiber.StatusInternalServerError: "INTERNAL_SERVER_ERROR",
	fiber.StatusServiceUnavailable:  "SERVICE_UNAVAILABLE",
	fiber.StatusGatewayTimeout:      "TIMEOUT",
}

// FromError maps an error to the response status and envelope.
func FromError(err error) (int, dto.ErrorResponse) {
	status := fiber.StatusInternalServerError
	message := err.Error()
	var fields map[string]string

	var verr *ValidationError
	var ferr *fiber.Error
	switch {
	case errors.As(err, &verr):
		status, fields = fiber.StatusBadRequest, verr.Fields
	case errors.Is(err, services.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrWrongPassword),
		errors.Is(err, services.ErrInvalidToken):
		status = fiber.StatusUnauthorized
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrStorageTimeout):
		status, message = fiber.StatusGatewayTimeout, "Storage did not respond in time"
	case errors.Is(err, services.ErrStorageUnavailable):
		status, message = fiber.StatusServiceUnavailable, "Storage is unavailable"
	case errors.As(err, &ferr):
		status, message = ferr.Code, ferr.Message
	}

	code, ok := codes[status]
	if !ok {
		code = "ERROR"
	}
	if status == fiber.StatusInternalServerError {
		message = "Internal server error"
	}
	return status, dto.ErrorResponse{Error: true, Code: code, Message: message, Fields: fields}
}

// WriteError renders err in the error envelope.
func WriteError(c *fiber.Ctx, err error) error {
	status, body := FromError(err)
	return c.Status(status).JSON(body)
}

func fail(c *fiber.Ctx, procedure string, err error) error {
	status, body := FromError(err)
	principal, _ := identity.FromCtx(c)
	attrs := []any{
		"procedure", procedure,
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		"principal", principal.String(),
		"status", status,
		"error", err.Error(),
	}

	if status >= fiber.StatusInternalServerError {
		slog.Error("procedure failed", attrs...)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	} else {
		slog.Warn("procedure rejected", attrs...)
	}
	return c.Status(status).JSON(body)
}
