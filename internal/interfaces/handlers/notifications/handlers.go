package notifications

import (
	notifsvc "brickvest-backend/internal/application/notifications"
	"brickvest-backend/internal/middleware"
	"brickvest-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *notifsvc.Service
}

// GET /api/v1/notifications
func (h *Handlers) List(c *fiber.Ctx) error {
	userID, err := middleware.SessionUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	items, err := h.Service.ListForUser(c.Context(), userID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Notifications fetched", items, nil)
}

// PATCH /api/v1/notifications/:notification_id/read
func (h *Handlers) MarkRead(c *fiber.Ctx) error {
	userID, err := middleware.SessionUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	notificationID, err := uuid.Parse(c.Params("notification_id"))
	if err != nil {
		return response.Error(c, "Invalid notification_id", fiber.StatusBadRequest, nil)
	}
	if err := h.Service.MarkRead(c.Context(), userID, notificationID); err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Notification marked read", nil, nil)
}
