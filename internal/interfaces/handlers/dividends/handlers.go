package dividends

import (
	divsvc "brickvest-backend/internal/application/dividends"
	"brickvest-backend/internal/middleware"
	"brickvest-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Handlers struct {
	Service *divsvc.Service
}

type distributeBody struct {
	PropertyID        string          `json:"property_id"`
	Quarter           int             `json:"quarter"`
	Year              int             `json:"year"`
	TotalRentalIncome decimal.Decimal `json:"total_rental_income"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
}

// POST /api/v1/dividends/distribute (admin only)
func (h *Handlers) Distribute(c *fiber.Ctx) error {
	var body distributeBody
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	propertyID, err := uuid.Parse(body.PropertyID)
	if err != nil {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}

	result, err := h.Service.CreateAndDistribute(c.Context(), divsvc.DistributeInput{
		PropertyID:        propertyID,
		Quarter:           body.Quarter,
		Year:              body.Year,
		TotalRentalIncome: body.TotalRentalIncome,
		TotalExpenses:     body.TotalExpenses,
	})
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.SuccessCreated(c, "Dividend distributed", result, nil)
}

// GET /api/v1/dividends/property/:property_id
func (h *Handlers) GetByProperty(c *fiber.Ctx) error {
	propertyID, err := uuid.Parse(c.Params("property_id"))
	if err != nil {
		return response.Error(c, "Invalid property_id", fiber.StatusBadRequest, nil)
	}
	dividends, err := h.Service.GetDividendsByProperty(c.Context(), propertyID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Dividends fetched", dividends, nil)
}

// GET /api/v1/dividends/mine
func (h *Handlers) GetMine(c *fiber.Ctx) error {
	investorID, err := middleware.SessionUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	payouts, err := h.Service.GetInvestorDividends(c.Context(), investorID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Dividend payments fetched", payouts, nil)
}
