package api

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"careconnect/internal/db"
	"careconnect/internal/lifecycle"
	"careconnect/internal/models"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonCreated is jsonSuccess with a 201 status, for resource creation.
func jsonCreated(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// jsonDomainError maps the moderation error taxonomy onto HTTP statuses:
// illegal transitions conflict with current state (409), validation failures
// are unprocessable (422), missing records are 404. Anything else is a 500
// with a generic message.
func jsonDomainError(c fiber.Ctx, err error) error {
	var illegal *lifecycle.IllegalTransitionError
	if errors.As(err, &illegal) {
		return jsonError(c, fiber.StatusConflict, illegal.Error())
	}

	var invalid *models.ValidationError
	if errors.As(err, &invalid) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"status": "error",
			"error":  invalid.Reason,
			"field":  invalid.Field,
		})
	}

	switch {
	case errors.Is(err, db.ErrListingNotFound):
		return jsonError(c, fiber.StatusNotFound, "listing not found")
	case errors.Is(err, db.ErrPromotionNotFound):
		return jsonError(c, fiber.StatusNotFound, "promotion not found")
	case errors.Is(err, db.ErrStateConflict):
		return jsonError(c, fiber.StatusConflict, "record was modified concurrently, please retry")
	}

	return jsonError(c, fiber.StatusInternalServerError, "internal error")
}

// outcomeLabel maps a moderation result onto a metrics outcome label.
func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var illegal *lifecycle.IllegalTransitionError
	if errors.As(err, &illegal) {
		return "illegal_transition"
	}
	var invalid *models.ValidationError
	if errors.As(err, &invalid) {
		return "validation_failed"
	}
	return "error"
}
