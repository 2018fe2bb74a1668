package domain

import "time"

// SettingPlatformFeeBps is the marketplace fee in basis points
// (250 = 2.5%). Used as default when the row is absent.
const (
	SettingPlatformFeeBps = "platform_fee_bps"
	DefaultPlatformFeeBps = 250
)

// PlatformSetting is a key/value row for operator-tunable settings.
type PlatformSetting struct {
	Key       string    `gorm:"column:key;primaryKey" json:"key"`
	Value     string    `gorm:"column:value;not null" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PlatformSetting) TableName() string {
	return "platform_settings"
}
