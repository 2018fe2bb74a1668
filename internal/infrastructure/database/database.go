package database

import (
	"brickvest-backend/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN. PreferSimpleProtocol disables prepared
// statement caching to avoid 42P05 ("prepared statement already exists")
// behind connection poolers.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// AutoMigrate creates/updates tables for all core models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Account{},
		&domain.Property{},
		&domain.Investment{},
		&domain.Listing{},
		&domain.Trade{},
		&domain.Dividend{},
		&domain.DividendPayment{},
		&domain.Transaction{},
		&domain.Notification{},
		&domain.PlatformSetting{},
	)
}
