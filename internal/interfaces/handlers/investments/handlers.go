package investments

import (
	invsvc "brickvest-backend/internal/application/investments"
	"brickvest-backend/internal/middleware"
	"brickvest-backend/internal/pkg/response"
	"brickvest-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Service *invsvc.Service
}

type investBody struct {
	PropertyID string          `json:"property_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// POST /api/v1/investments/invest
func (h *Handlers) Invest(c *fiber.Ctx) error {
	investorID, err := middleware.SessionUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	var body investBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	propertyID, err := uuid.Parse(body.PropertyID)
	if err != nil {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}
	if !validation.IsPositiveAmount(body.Amount) {
		return response.Error(c, "Amount must be positive", fiber.StatusBadRequest, nil)
	}

	inv, err := h.Service.Invest(c.Context(), propertyID, investorID, body.Amount)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.SuccessCreated(c, "Investment completed", inv, nil)
}

// GET /api/v1/investments/portfolio
func (h *Handlers) GetPortfolio(c *fiber.Ctx) error {
	investorID, err := middleware.SessionUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	positions, err := h.Service.GetPortfolio(c.Context(), investorID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Portfolio fetched", positions, nil)
}

// GET /api/v1/investments/property/:property_id
func (h *Handlers) GetPropertyInvestments(c *fiber.Ctx) error {
	propertyID, err := uuid.Parse(c.Params("property_id"))
	if err != nil {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}
	invs, err := h.Service.GetPropertyInvestments(c.Context(), propertyID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Property investments fetched", invs, nil)
}
