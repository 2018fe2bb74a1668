package middleware

import (
	"brickvest-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the global Fiber error handler. Domain errors that escape
// handlers are mapped to their taxonomy status; everything else is a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if e, ok := err.(*fiber.Error); ok {
		return response.Error(c, e.Message, e.Code, nil)
	}
	code := response.StatusForError(err)
	msg := err.Error()
	if code == fiber.StatusInternalServerError {
		msg = "Internal Server Error"
	}
	return response.Error(c, msg, code, nil)
}
