package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a user's cash wallet. Balance is mutated only by the ledger
// credit/debit primitives inside a unit of work and never goes negative.
// Accounts are created by user management, not by this core.
type Account struct {
	UserID    uuid.UUID       `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Balance   decimal.Decimal `gorm:"column:balance;type:decimal(18,2);not null;default:0" json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}
