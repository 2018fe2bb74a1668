package middleware

import (
	"brickvest-backend/internal/pkg/constants"
	"brickvest-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(userLocal) == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the session user carries the admin role.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals(userLocal) == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		if SessionRole(c) != constants.RoleAdmin {
			return response.Error(c, "Admin access required", fiber.StatusForbidden, nil)
		}
		return c.Next()
	}
}

// SessionUserID extracts the authenticated user's id from the session.
func SessionUserID(c *fiber.Ctx) (uuid.UUID, error) {
	m, _ := c.Locals(userLocal).(map[string]interface{})
	if m == nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	s, _ := m["user_id"].(string)
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return id, nil
}

// SessionRole returns the session user's role ("" when absent).
func SessionRole(c *fiber.Ctx) string {
	m, _ := c.Locals(userLocal).(map[string]interface{})
	if m == nil {
		return ""
	}
	role, _ := m["role"].(string)
	return role
}

// IsAdmin reports whether the session user is an admin.
func IsAdmin(c *fiber.Ctx) bool {
	return SessionRole(c) == constants.RoleAdmin
}
