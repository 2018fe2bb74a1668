package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction types and statuses for the append-only cash movement log.
const (
	TxTypeInvestment = "investment"
	TxTypePurchase   = "purchase"
	TxTypeSale       = "sale"
	TxTypeDividend   = "dividend"

	TxStatusCompleted = "completed"
)

// Transaction is one append-only ledger entry: the audit trail of every cash
// movement produced by the core. Rows are written inside the same unit of
// work as the movement they record.
type Transaction struct {
	TxID            uuid.UUID       `gorm:"column:tx_id;type:uuid;primaryKey" json:"tx_id"`
	UserID          uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	PropertyID      *uuid.UUID      `gorm:"column:property_id;type:uuid" json:"property_id"`
	Type            string          `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null" json:"amount"`
	Status          string          `gorm:"column:status;type:varchar(20);not null" json:"status"`
	ReferenceNumber string          `gorm:"column:reference_number;not null" json:"reference_number"`
	CreatedAt       time.Time       `json:"created_at"`
}

func (Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.TxID == uuid.Nil {
		t.TxID = uuid.New()
	}
	if t.ReferenceNumber == "" {
		t.ReferenceNumber = NewReferenceNumber()
	}
	return nil
}

// NewReferenceNumber returns a human-quotable statement reference.
func NewReferenceNumber() string {
	return fmt.Sprintf("TXN-%d-%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}
