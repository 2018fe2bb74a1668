package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Dividend is one quarter's net rental income distribution for a property.
// NetIncome = TotalRentalIncome - TotalExpenses and must be positive;
// DistributionPerShare = NetIncome / 1000, rounded down to 6 decimal places.
type Dividend struct {
	DividendID           uuid.UUID       `gorm:"column:dividend_id;type:uuid;primaryKey" json:"dividend_id"`
	PropertyID           uuid.UUID       `gorm:"column:property_id;type:uuid;not null;uniqueIndex:idx_property_quarter" json:"property_id"`
	Quarter              int             `gorm:"column:quarter;not null;uniqueIndex:idx_property_quarter" json:"quarter"`
	Year                 int             `gorm:"column:year;not null;uniqueIndex:idx_property_quarter" json:"year"`
	TotalRentalIncome    decimal.Decimal `gorm:"column:total_rental_income;type:decimal(18,2);not null" json:"total_rental_income"`
	TotalExpenses        decimal.Decimal `gorm:"column:total_expenses;type:decimal(18,2);not null" json:"total_expenses"`
	NetIncome            decimal.Decimal `gorm:"column:net_income;type:decimal(18,2);not null" json:"net_income"`
	DistributionPerShare decimal.Decimal `gorm:"column:distribution_per_share;type:decimal(18,6);not null" json:"distribution_per_share"`
	CreatedAt            time.Time       `json:"created_at"`
}

func (Dividend) TableName() string {
	return "dividends"
}

func (d *Dividend) BeforeCreate(tx *gorm.DB) error {
	if d.DividendID == uuid.Nil {
		d.DividendID = uuid.New()
	}
	return nil
}

// DividendPayment is the append-only payout record for one investor under one
// dividend, with the share count snapshotted at distribution time.
// AmountPaid is rounded down to the cent so the sum of payments never
// exceeds the dividend's net income.
type DividendPayment struct {
	PaymentID   uuid.UUID       `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`
	DividendID  uuid.UUID       `gorm:"column:dividend_id;type:uuid;not null" json:"dividend_id"`
	InvestorID  uuid.UUID       `gorm:"column:investor_id;type:uuid;not null" json:"investor_id"`
	SharesOwned decimal.Decimal `gorm:"column:shares_owned;type:decimal(18,4);not null" json:"shares_owned"`
	AmountPaid  decimal.Decimal `gorm:"column:amount_paid;type:decimal(18,2);not null" json:"amount_paid"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (DividendPayment) TableName() string {
	return "dividend_payments"
}

func (p *DividendPayment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	return nil
}
