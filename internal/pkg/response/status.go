package response

import (
	"errors"

	"brickvest-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
)

// StatusForError maps the core error taxonomy to HTTP status codes.
// Unrecognized errors map to 500.
func StatusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidState):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInsufficientBalance):
		return fiber.StatusPaymentRequired
	case errors.Is(err, domain.ErrInvalidOperation):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// DomainError sends a domain error in the standard error shape, hiding
// internals behind a generic message for unexpected errors.
func DomainError(c *fiber.Ctx, err error) error {
	code := StatusForError(err)
	if code == fiber.StatusInternalServerError {
		return Error(c, "Internal Server Error", code, nil)
	}
	return Error(c, err.Error(), code, nil)
}
