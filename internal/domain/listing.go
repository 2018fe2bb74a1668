package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Listing status: active -> sold | cancelled | expired. All three are
// terminal; no transition ever leaves a terminal state.
const (
	ListingStatusActive    = "active"
	ListingStatusSold      = "sold"
	ListingStatusCancelled = "cancelled"
	ListingStatusExpired   = "expired"
)

// Listing is a secondary-market offer to sell shares. Shares never leave the
// registry while a listing is active (ownership, not escrow), so cancellation
// is a pure status flip. SharesRemaining only decreases, via partial fills.
type Listing struct {
	ListingID       uuid.UUID       `gorm:"column:listing_id;type:uuid;primaryKey" json:"listing_id"`
	SellerID        uuid.UUID       `gorm:"column:seller_id;type:uuid;not null" json:"seller_id"`
	PropertyID      uuid.UUID       `gorm:"column:property_id;type:uuid;not null" json:"property_id"`
	SharesListed    decimal.Decimal `gorm:"column:shares_listed;type:decimal(18,4);not null" json:"shares_listed"`
	SharesRemaining decimal.Decimal `gorm:"column:shares_remaining;type:decimal(18,4);not null" json:"shares_remaining"`
	PricePerShare   decimal.Decimal `gorm:"column:price_per_share;type:decimal(18,2);not null" json:"price_per_share"`
	Status          string          `gorm:"column:status;type:varchar(20);not null;default:'active'" json:"status"`
	ExpiresAt       *time.Time      `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (Listing) TableName() string {
	return "listings"
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ListingID == uuid.Nil {
		l.ListingID = uuid.New()
	}
	return nil
}

// Expired reports whether the listing has an expiry in the past.
func (l *Listing) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}
