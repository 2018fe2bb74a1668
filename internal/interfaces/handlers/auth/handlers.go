package auth

import (
	"context"

	authsvc "brickvest-backend/internal/application/auth"
	"brickvest-backend/internal/middleware"
	"brickvest-backend/internal/pkg/response"
	"brickvest-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	UserFinder authsvc.UserFinder
	Rdb        *redis.Client
	Config     middleware.SessionConfig
}

// POST /api/v1/auth/login
func (h *Handlers) Login(c *fiber.Ctx) error {
	var body authsvc.LoginInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	if body.Email == "" || body.Password == "" {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}
	if !validation.IsValidEmail(body.Email) {
		return response.Error(c, "Invalid email format", fiber.StatusBadRequest, nil)
	}
	if h.UserFinder == nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}

	user, err := h.UserFinder.FindByEmailAndPassword(body.Email, body.Password)
	if err != nil {
		return response.Error(c, "Invalid email or password", fiber.StatusUnauthorized, nil)
	}

	sid := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   user.UserID.String(),
		FullName: user.FullName,
		Email:    user.Email,
		Role:     user.Role,
	})
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = sid
	c.Cookie(&cookie)

	return response.Success(c, "Login successful", fiber.Map{
		"user_id":   user.UserID,
		"full_name": user.FullName,
		"email":     user.Email,
		"role":      user.Role,
	}, nil)
}

// GET /api/v1/auth/me
func (h *Handlers) Me(c *fiber.Ctx) error {
	shape, err := authsvc.VerifyUser(c.Locals("user"))
	if err != nil {
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.Success(c, "Authenticated", shape, nil)
}

// DELETE /api/v1/auth/logout
func (h *Handlers) Logout(c *fiber.Ctx) error {
	if sid := middleware.GetSessionID(c); sid != "" && h.Rdb != nil {
		h.Rdb.Del(context.Background(), middleware.SessionRedisPrefix+sid)
	}
	middleware.DestroySession(c)
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.MaxAge = -1
	c.Cookie(&cookie)
	return response.Success(c, "Logged out", nil, nil)
}
