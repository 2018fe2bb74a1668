package registry

import (
	"testing"

	"brickvest-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRegistryTest(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Investment{}))
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMergeShares_CreatesThenUpdates(t *testing.T) {
	db := setupRegistryTest(t)
	investor, property := uuid.New(), uuid.New()

	var first domain.Investment
	require.NoError(t, MergeShares(db, investor, property, dec("100"), dec("10000"), &first))
	assert.True(t, first.SharesOwned.Equal(dec("100")))
	assert.True(t, first.OwnershipPercentage.Equal(dec("10")))

	var second domain.Investment
	require.NoError(t, MergeShares(db, investor, property, dec("25.5"), dec("2550"), &second))
	assert.Equal(t, first.InvestmentID, second.InvestmentID)
	assert.True(t, second.SharesOwned.Equal(dec("125.5")), second.SharesOwned.String())
	assert.True(t, second.AmountInvested.Equal(dec("12550")))
	assert.True(t, second.OwnershipPercentage.Equal(dec("12.55")), second.OwnershipPercentage.String())
}

func TestRemoveShares(t *testing.T) {
	db := setupRegistryTest(t)
	investor, property := uuid.New(), uuid.New()
	require.NoError(t, MergeShares(db, investor, property, dec("100"), dec("10000"), nil))

	require.NoError(t, RemoveShares(db, investor, property, dec("40")))

	owned, err := SharesOwned(db, investor, property)
	require.NoError(t, err)
	assert.True(t, owned.Equal(dec("60")), owned.String())

	var inv domain.Investment
	require.NoError(t, db.First(&inv, "investor_id = ?", investor).Error)
	assert.True(t, inv.OwnershipPercentage.Equal(dec("6")), inv.OwnershipPercentage.String())
}

func TestRemoveShares_GuardsAgainstOverdraw(t *testing.T) {
	db := setupRegistryTest(t)
	investor, property := uuid.New(), uuid.New()
	require.NoError(t, MergeShares(db, investor, property, dec("10"), dec("1000"), nil))

	err := RemoveShares(db, investor, property, dec("10.0001"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	owned, err := SharesOwned(db, investor, property)
	require.NoError(t, err)
	assert.True(t, owned.Equal(dec("10")))
}

func TestRemoveShares_NoHolding(t *testing.T) {
	db := setupRegistryTest(t)
	err := RemoveShares(db, uuid.New(), uuid.New(), dec("1"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSharesOwned_ZeroWithoutRow(t *testing.T) {
	db := setupRegistryTest(t)
	owned, err := SharesOwned(db, uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.True(t, owned.IsZero())
}
