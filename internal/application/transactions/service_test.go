package transactions

import (
	"context"
	"testing"

	"brickvest-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTransactionsTest(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Transaction{}))
	return &Service{DB: db}, db
}

func TestListForUser_FiltersByType(t *testing.T) {
	svc, db := setupTransactionsTest(t)
	userID := uuid.New()

	for _, typ := range []string{domain.TxTypeInvestment, domain.TxTypeDividend, domain.TxTypeDividend} {
		require.NoError(t, db.Create(&domain.Transaction{
			UserID: userID,
			Type:   typ,
			Amount: decimal.RequireFromString("10"),
			Status: domain.TxStatusCompleted,
		}).Error)
	}
	require.NoError(t, db.Create(&domain.Transaction{
		UserID: uuid.New(),
		Type:   domain.TxTypeInvestment,
		Amount: decimal.RequireFromString("10"),
		Status: domain.TxStatusCompleted,
	}).Error)

	all, err := svc.ListForUser(context.Background(), userID, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	dividends, err := svc.ListForUser(context.Background(), userID, domain.TxTypeDividend)
	require.NoError(t, err)
	assert.Len(t, dividends, 2)
}

func TestReferenceNumbersAssignedOnCreate(t *testing.T) {
	_, db := setupTransactionsTest(t)

	a := domain.Transaction{UserID: uuid.New(), Type: domain.TxTypeSale,
		Amount: decimal.RequireFromString("1"), Status: domain.TxStatusCompleted}
	b := domain.Transaction{UserID: uuid.New(), Type: domain.TxTypeSale,
		Amount: decimal.RequireFromString("1"), Status: domain.TxStatusCompleted}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)

	assert.NotEmpty(t, a.ReferenceNumber)
	assert.NotEqual(t, a.ReferenceNumber, b.ReferenceNumber)
}
