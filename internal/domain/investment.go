package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Investment is the share registry row: one per (investor, property) pair,
// created on first primary investment or first marketplace purchase and
// updated (never deleted) afterwards. SharesOwned is a fractional decimal;
// the sum over a property never exceeds 1000.
type Investment struct {
	InvestmentID        uuid.UUID       `gorm:"column:investment_id;type:uuid;primaryKey" json:"investment_id"`
	InvestorID          uuid.UUID       `gorm:"column:investor_id;type:uuid;not null;uniqueIndex:idx_investor_property" json:"investor_id"`
	PropertyID          uuid.UUID       `gorm:"column:property_id;type:uuid;not null;uniqueIndex:idx_investor_property" json:"property_id"`
	AmountInvested      decimal.Decimal `gorm:"column:amount_invested;type:decimal(18,2);not null;default:0" json:"amount_invested"`
	SharesOwned         decimal.Decimal `gorm:"column:shares_owned;type:decimal(18,4);not null;default:0" json:"shares_owned"`
	OwnershipPercentage decimal.Decimal `gorm:"column:ownership_percentage;type:decimal(9,4);not null;default:0" json:"ownership_percentage"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

func (Investment) TableName() string {
	return "investments"
}

func (i *Investment) BeforeCreate(tx *gorm.DB) error {
	if i.InvestmentID == uuid.Nil {
		i.InvestmentID = uuid.New()
	}
	return nil
}

// OwnershipFor derives the ownership percentage from a share count
// (1000 shares = 100%).
func OwnershipFor(shares decimal.Decimal) decimal.Decimal {
	return shares.Div(TotalShares).Mul(decimal.NewFromInt(100)).Round(4)
}
