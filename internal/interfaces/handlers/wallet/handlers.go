package wallet

import (
	"brickvest-backend/internal/application/ledger"
	txsvc "brickvest-backend/internal/application/transactions"
	"brickvest-backend/internal/middleware"
	"brickvest-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Handlers struct {
	DB           *gorm.DB
	Transactions *txsvc.Service
}

// GET /api/v1/wallet/balance
func (h *Handlers) Balance(c *fiber.Ctx) error {
	userID, err := middleware.SessionUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	balance, err := ledger.Balance(h.DB.WithContext(c.Context()), userID)
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Balance fetched", fiber.Map{"balance": balance}, nil)
}

// GET /api/v1/wallet/transactions?type=dividend
func (h *Handlers) ListTransactions(c *fiber.Ctx) error {
	userID, err := middleware.SessionUserID(c)
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	txs, err := h.Transactions.ListForUser(c.Context(), userID, c.Query("type"))
	if err != nil {
		return response.DomainError(c, err)
	}
	return response.Success(c, "Transactions fetched", txs, nil)
}
