package handlers

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/basetopia/basetopia-backend/internal/apperr"
	"github.com/basetopia/basetopia-backend/internal/dto"
	"github.com/basetopia/basetopia-backend/internal/identity"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

var errInvalidBody = apperr.InvalidArgument("Invalid request body")

// statusOf maps an error kind to its HTTP status.
func statusOf(kind apperr.Kind) int {
	switch kind {
	case apperr.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindInvalidArgument:
		return fiber.StatusBadRequest
	case apperr.KindUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the JSON error body for err. Server-side failures are
// logged with their cause and sent to Sentry; the client sees only the
// generic message.
func respondError(c *fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)
	status := statusOf(kind)
	code := string(kind)
	if code == "" {
		code = "internal"
	}

	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			"request_id", requestID(c),
			"uid", identity.UID(c),
			"action", c.Method()+" "+c.Route().Path,
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
	}

	return c.Status(status).JSON(dto.ErrorResponse{
		Error:   true,
		Code:    code,
		Message: apperr.MessageOf(err),
	})
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}

// queryInt reads an integer query parameter, falling back to def when absent.
func queryInt(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.InvalidArgument(name + " must be an integer")
	}
	return n, nil
}

func withTimeout(c *fiber.Ctx, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), d)
}
