package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification types emitted by the core after a unit of work commits.
const (
	NotificationInvestment       = "investment_completed"
	NotificationSharesBought     = "shares_bought"
	NotificationSharesSold       = "shares_sold"
	NotificationListingCancelled = "listing_cancelled"
	NotificationDividendPaid     = "dividend_paid"
)

// Notification is a best-effort, post-commit message to a user. Delivery
// failures are logged and never affect the committed financial operation.
type Notification struct {
	NotificationID uuid.UUID      `gorm:"column:notification_id;type:uuid;primaryKey" json:"notification_id"`
	UserID         uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Type           string         `gorm:"column:type;type:varchar(40);not null" json:"type"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Message        string         `gorm:"column:message;not null" json:"message"`
	Data           datatypes.JSON `gorm:"column:data;type:json" json:"data"`
	ReadAt         *time.Time     `gorm:"column:read_at" json:"read_at"`
	CreatedAt      time.Time      `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}
	return nil
}
