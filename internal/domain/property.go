package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Property status lifecycle: pending -> active -> funded; pending -> rejected
// -> pending on resubmission; active/funded -> closed happens outside this
// core. sold/cancelled style transitions do not apply here.
const (
	PropertyStatusPending  = "pending"
	PropertyStatusActive   = "active"
	PropertyStatusFunded   = "funded"
	PropertyStatusClosed   = "closed"
	PropertyStatusRejected = "rejected"
)

// TotalShares is the fixed share supply per property: 1000 shares = 100%
// ownership. Shares are fractional decimals (see Investment.SharesOwned).
var TotalShares = decimal.NewFromInt(1000)

type Property struct {
	PropertyID    uuid.UUID       `gorm:"column:property_id;type:uuid;primaryKey" json:"property_id"`
	Title         string          `gorm:"column:title;not null" json:"title"`
	Description   string          `gorm:"column:description" json:"description"`
	City          string          `gorm:"column:city;not null" json:"city"`
	Country       string          `gorm:"column:country;type:char(2);not null" json:"country"`
	TotalValue    decimal.Decimal `gorm:"column:total_value;type:decimal(18,2);not null" json:"total_value"`
	FundingTarget decimal.Decimal `gorm:"column:funding_target;type:decimal(18,2);not null" json:"funding_target"`
	FundingRaised decimal.Decimal `gorm:"column:funding_raised;type:decimal(18,2);not null;default:0" json:"funding_raised"`
	MinInvestment decimal.Decimal `gorm:"column:min_investment;type:decimal(18,2);not null" json:"min_investment"`
	MaxInvestment decimal.Decimal `gorm:"column:max_investment;type:decimal(18,2);not null" json:"max_investment"`
	Status        string          `gorm:"column:status;type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Property) TableName() string {
	return "properties"
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.PropertyID == uuid.Nil {
		p.PropertyID = uuid.New()
	}
	return nil
}
