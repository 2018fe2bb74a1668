package properties

import (
	propsvc "brickvest-backend/internal/application/properties"
	"brickvest-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *propsvc.Service
}

// GET /api/v1/properties?status=active
func (h *Handlers) List(c *fiber.Ctx) error {
	props, err := h.Service.List(c.Context(), c.Query("status"))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Properties fetched", props, nil)
}

// GET /api/v1/properties/:property_id
func (h *Handlers) Get(c *fiber.Ctx) error {
	propertyID, err := uuid.Parse(c.Params("property_id"))
	if err != nil {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}
	prop, err := h.Service.Get(c.Context(), propertyID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Property fetched", prop, nil)
}
