package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Trade is the immutable record of one purchase against one listing,
// possibly a partial fill. PlatformFee + SellerProceeds always equals
// TotalPrice exactly.
type Trade struct {
	TradeID        uuid.UUID       `gorm:"column:trade_id;type:uuid;primaryKey" json:"trade_id"`
	ListingID      uuid.UUID       `gorm:"column:listing_id;type:uuid;not null" json:"listing_id"`
	PropertyID     uuid.UUID       `gorm:"column:property_id;type:uuid;not null" json:"property_id"`
	BuyerID        uuid.UUID       `gorm:"column:buyer_id;type:uuid;not null" json:"buyer_id"`
	SellerID       uuid.UUID       `gorm:"column:seller_id;type:uuid;not null" json:"seller_id"`
	SharesBought   decimal.Decimal `gorm:"column:shares_bought;type:decimal(18,4);not null" json:"shares_bought"`
	PricePerShare  decimal.Decimal `gorm:"column:price_per_share;type:decimal(18,2);not null" json:"price_per_share"`
	TotalPrice     decimal.Decimal `gorm:"column:total_price;type:decimal(18,2);not null" json:"total_price"`
	PlatformFee    decimal.Decimal `gorm:"column:platform_fee;type:decimal(18,2);not null" json:"platform_fee"`
	SellerProceeds decimal.Decimal `gorm:"column:seller_proceeds;type:decimal(18,2);not null" json:"seller_proceeds"`
	ExecutedAt     time.Time       `gorm:"column:executed_at;not null" json:"executed_at"`
	CreatedAt      time.Time       `json:"created_at"`
}

func (Trade) TableName() string {
	return "trades"
}

func (t *Trade) BeforeCreate(tx *gorm.DB) error {
	if t.TradeID == uuid.Nil {
		t.TradeID = uuid.New()
	}
	return nil
}
