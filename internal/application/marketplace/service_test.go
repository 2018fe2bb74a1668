package marketplace

import (
	"context"
	"testing"
	"time"

	"brickvest-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixedFee struct{ bps int64 }

func (f fixedFee) FeeBps(ctx context.Context) int64 { return f.bps }

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type marketFixture struct {
	svc      *Service
	db       *gorm.DB
	property uuid.UUID
	seller   uuid.UUID
	buyer    uuid.UUID
}

func setupMarketTest(t *testing.T) *marketFixture {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Account{}, &domain.Property{}, &domain.Investment{},
		&domain.Listing{}, &domain.Trade{}, &domain.Transaction{},
	))

	prop := &domain.Property{
		Title:         "Harbor View",
		City:          "Porto",
		Country:       "PT",
		TotalValue:    dec("100000"),
		FundingTarget: dec("100000"),
		FundingRaised: dec("100000"),
		MinInvestment: dec("100"),
		MaxInvestment: dec("50000"),
		Status:        domain.PropertyStatusFunded,
	}
	require.NoError(t, db.Create(prop).Error)

	seller := uuid.New()
	buyer := uuid.New()
	require.NoError(t, db.Create(&domain.Account{UserID: seller, Balance: dec("0")}).Error)
	require.NoError(t, db.Create(&domain.Account{UserID: buyer, Balance: dec("5000")}).Error)
	require.NoError(t, db.Create(&domain.Investment{
		InvestorID:          seller,
		PropertyID:          prop.PropertyID,
		AmountInvested:      dec("10000"),
		SharesOwned:         dec("100"),
		OwnershipPercentage: dec("10"),
	}).Error)

	return &marketFixture{
		svc:      NewService(db, fixedFee{bps: 250}, nil),
		db:       db,
		property: prop.PropertyID,
		seller:   seller,
		buyer:    buyer,
	}
}

func (f *marketFixture) list(t *testing.T, shares, price string) *domain.Listing {
	listing, err := f.svc.CreateListing(context.Background(), CreateListingInput{
		SellerID:      f.seller,
		PropertyID:    f.property,
		Shares:        dec(shares),
		PricePerShare: dec(price),
	})
	require.NoError(t, err)
	return listing
}

func (f *marketFixture) balance(t *testing.T, userID uuid.UUID) decimal.Decimal {
	var acct domain.Account
	require.NoError(t, f.db.First(&acct, "user_id = ?", userID).Error)
	return acct.Balance
}

func (f *marketFixture) shares(t *testing.T, userID uuid.UUID) decimal.Decimal {
	var inv domain.Investment
	err := f.db.First(&inv, "investor_id = ? AND property_id = ?", userID, f.property).Error
	if err == gorm.ErrRecordNotFound {
		return decimal.Zero
	}
	require.NoError(t, err)
	return inv.SharesOwned
}

func TestCreateListing_AvailabilityGuard(t *testing.T) {
	f := setupMarketTest(t)

	first := f.list(t, "60", "10")
	assert.Equal(t, domain.ListingStatusActive, first.Status)

	// 100 owned, 60 already listed: only 40 left to list.
	_, err := f.svc.CreateListing(context.Background(), CreateListingInput{
		SellerID:      f.seller,
		PropertyID:    f.property,
		Shares:        dec("50"),
		PricePerShare: dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.svc.CancelListing(context.Background(), first.ListingID, f.seller, false)
	require.NoError(t, err)

	second, err := f.svc.CreateListing(context.Background(), CreateListingInput{
		SellerID:      f.seller,
		PropertyID:    f.property,
		Shares:        dec("50"),
		PricePerShare: dec("10"),
	})
	require.NoError(t, err)
	assert.True(t, second.SharesRemaining.Equal(dec("50")))
}

func TestCreateListing_ExpiredListingFreesAvailability(t *testing.T) {
	f := setupMarketTest(t)
	expiry := time.Now().Add(time.Hour)
	_, err := f.svc.CreateListing(context.Background(), CreateListingInput{
		SellerID:      f.seller,
		PropertyID:    f.property,
		Shares:        dec("60"),
		PricePerShare: dec("10"),
		ExpiresAt:     &expiry,
	})
	require.NoError(t, err)

	f.svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	// The dead listing no longer locks the seller's shares even though no
	// buy attempt has flipped its status yet.
	listing, err := f.svc.CreateListing(context.Background(), CreateListingInput{
		SellerID:      f.seller,
		PropertyID:    f.property,
		Shares:        dec("100"),
		PricePerShare: dec("11"),
	})
	require.NoError(t, err)
	assert.True(t, listing.SharesRemaining.Equal(dec("100")))
}

func TestCreateListing_Validation(t *testing.T) {
	f := setupMarketTest(t)

	_, err := f.svc.CreateListing(context.Background(), CreateListingInput{
		SellerID: f.seller, PropertyID: f.property,
		Shares: dec("0"), PricePerShare: dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.svc.CreateListing(context.Background(), CreateListingInput{
		SellerID: f.seller, PropertyID: f.property,
		Shares: dec("10"), PricePerShare: dec("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	past := time.Now().Add(-time.Hour)
	_, err = f.svc.CreateListing(context.Background(), CreateListingInput{
		SellerID: f.seller, PropertyID: f.property,
		Shares: dec("10"), PricePerShare: dec("10"), ExpiresAt: &past,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.svc.CreateListing(context.Background(), CreateListingInput{
		SellerID: f.seller, PropertyID: uuid.New(),
		Shares: dec("10"), PricePerShare: dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBuyShares_PartialFillThenSold(t *testing.T) {
	f := setupMarketTest(t)
	listing := f.list(t, "100", "10")

	trade, err := f.svc.BuyShares(context.Background(), listing.ListingID, f.buyer, dec("30"))
	require.NoError(t, err)

	// 30 shares at 10: total 300, fee 2.5% = 7.50, proceeds 292.50.
	assert.True(t, trade.TotalPrice.Equal(dec("300")), trade.TotalPrice.String())
	assert.True(t, trade.PlatformFee.Equal(dec("7.5")), trade.PlatformFee.String())
	assert.True(t, trade.SellerProceeds.Equal(dec("292.5")), trade.SellerProceeds.String())

	var after domain.Listing
	require.NoError(t, f.db.First(&after, "listing_id = ?", listing.ListingID).Error)
	assert.Equal(t, domain.ListingStatusActive, after.Status)
	assert.True(t, after.SharesRemaining.Equal(dec("70")), after.SharesRemaining.String())

	assert.True(t, f.balance(t, f.buyer).Equal(dec("4700")))
	assert.True(t, f.balance(t, f.seller).Equal(dec("292.5")))
	assert.True(t, f.shares(t, f.buyer).Equal(dec("30")))
	assert.True(t, f.shares(t, f.seller).Equal(dec("70")))

	var txs []domain.Transaction
	require.NoError(t, f.db.Order("created_at ASC").Find(&txs).Error)
	require.Len(t, txs, 2)
	assert.Equal(t, domain.TxTypePurchase, txs[0].Type)
	assert.Equal(t, domain.TxTypeSale, txs[1].Type)

	// The fill that empties the listing flips it to sold.
	_, err = f.svc.BuyShares(context.Background(), listing.ListingID, f.buyer, dec("70"))
	require.NoError(t, err)
	require.NoError(t, f.db.First(&after, "listing_id = ?", listing.ListingID).Error)
	assert.Equal(t, domain.ListingStatusSold, after.Status)
	assert.True(t, after.SharesRemaining.IsZero())
	assert.True(t, f.shares(t, f.buyer).Equal(dec("100")))
	assert.True(t, f.shares(t, f.seller).IsZero())
}

func TestBuyShares_FeeConservation(t *testing.T) {
	f := setupMarketTest(t)
	listing := f.list(t, "100", "3.33")

	for _, shares := range []string{"1", "2.5", "7.0001"} {
		trade, err := f.svc.BuyShares(context.Background(), listing.ListingID, f.buyer, dec(shares))
		require.NoError(t, err)
		sum := trade.PlatformFee.Add(trade.SellerProceeds)
		assert.True(t, sum.Equal(trade.TotalPrice), "fee %s + proceeds %s != total %s",
			trade.PlatformFee, trade.SellerProceeds, trade.TotalPrice)
	}
}

func TestBuyShares_SelfTradeRejected(t *testing.T) {
	f := setupMarketTest(t)
	listing := f.list(t, "50", "10")

	_, err := f.svc.BuyShares(context.Background(), listing.ListingID, f.seller, dec("10"))
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestBuyShares_OversellRejected(t *testing.T) {
	f := setupMarketTest(t)
	listing := f.list(t, "50", "10")

	_, err := f.svc.BuyShares(context.Background(), listing.ListingID, f.buyer, dec("50.0001"))
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	var after domain.Listing
	require.NoError(t, f.db.First(&after, "listing_id = ?", listing.ListingID).Error)
	assert.True(t, after.SharesRemaining.Equal(dec("50")))
}

func TestBuyShares_CancelledListingRejected(t *testing.T) {
	f := setupMarketTest(t)
	listing := f.list(t, "50", "10")
	_, err := f.svc.CancelListing(context.Background(), listing.ListingID, f.seller, false)
	require.NoError(t, err)

	_, err = f.svc.BuyShares(context.Background(), listing.ListingID, f.buyer, dec("10"))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestBuyShares_ExpiredListingFlipsLazily(t *testing.T) {
	f := setupMarketTest(t)
	expiry := time.Now().Add(time.Hour)
	listing, err := f.svc.CreateListing(context.Background(), CreateListingInput{
		SellerID:      f.seller,
		PropertyID:    f.property,
		Shares:        dec("50"),
		PricePerShare: dec("10"),
		ExpiresAt:     &expiry,
	})
	require.NoError(t, err)

	f.svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = f.svc.BuyShares(context.Background(), listing.ListingID, f.buyer, dec("10"))
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	var after domain.Listing
	require.NoError(t, f.db.First(&after, "listing_id = ?", listing.ListingID).Error)
	assert.Equal(t, domain.ListingStatusExpired, after.Status)
}

func TestBuyShares_InsufficientBalanceRollsBack(t *testing.T) {
	f := setupMarketTest(t)
	listing := f.list(t, "100", "100")

	// Buyer holds 5000; 60 shares at 100 needs 6000.
	_, err := f.svc.BuyShares(context.Background(), listing.ListingID, f.buyer, dec("60"))
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)

	var after domain.Listing
	require.NoError(t, f.db.First(&after, "listing_id = ?", listing.ListingID).Error)
	assert.True(t, after.SharesRemaining.Equal(dec("100")))
	assert.True(t, f.balance(t, f.buyer).Equal(dec("5000")))
	assert.True(t, f.balance(t, f.seller).IsZero())
	assert.True(t, f.shares(t, f.seller).Equal(dec("100")))

	var tradeCount int64
	require.NoError(t, f.db.Model(&domain.Trade{}).Count(&tradeCount).Error)
	assert.Zero(t, tradeCount)
}

func TestCancelListing_Permissions(t *testing.T) {
	f := setupMarketTest(t)
	listing := f.list(t, "50", "10")

	_, err := f.svc.CancelListing(context.Background(), listing.ListingID, uuid.New(), false)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	cancelled, err := f.svc.CancelListing(context.Background(), listing.ListingID, uuid.New(), true)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusCancelled, cancelled.Status)

	// Terminal states stay terminal.
	_, err = f.svc.CancelListing(context.Background(), listing.ListingID, f.seller, false)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestGetListings_DefaultFiltersActiveUnexpired(t *testing.T) {
	f := setupMarketTest(t)
	f.list(t, "20", "10")
	cancelled := f.list(t, "20", "12")
	_, err := f.svc.CancelListing(context.Background(), cancelled.ListingID, f.seller, false)
	require.NoError(t, err)

	listings, err := f.svc.GetListings(context.Background(), ListingFilters{})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.True(t, listings[0].PricePerShare.Equal(dec("10")))

	status := domain.ListingStatusCancelled
	listings, err = f.svc.GetListings(context.Background(), ListingFilters{Status: &status})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, domain.ListingStatusCancelled, listings[0].Status)
}

func TestGetListings_PriceFilters(t *testing.T) {
	f := setupMarketTest(t)
	f.list(t, "10", "5")
	f.list(t, "10", "10")
	f.list(t, "10", "15")

	minP, maxP := dec("6"), dec("14")
	listings, err := f.svc.GetListings(context.Background(), ListingFilters{MinPrice: &minP, MaxPrice: &maxP})
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.True(t, listings[0].PricePerShare.Equal(dec("10")))
}

func TestGetPropertyMarketStats(t *testing.T) {
	f := setupMarketTest(t)
	f.list(t, "40", "12")
	listing := f.list(t, "30", "9")

	_, err := f.svc.BuyShares(context.Background(), listing.ListingID, f.buyer, dec("10"))
	require.NoError(t, err)

	stats, err := f.svc.GetPropertyMarketStats(context.Background(), f.property)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.ActiveListings)
	assert.True(t, stats.SharesForSale.Equal(dec("60")), stats.SharesForSale.String())
	assert.True(t, stats.LowestAsk.Equal(dec("9")), stats.LowestAsk.String())
	assert.Equal(t, 1, stats.TradeCount)
	assert.True(t, stats.SharesTraded.Equal(dec("10")))
	assert.True(t, stats.Volume.Equal(dec("90")))
	assert.True(t, stats.LastTradedPrice.Equal(dec("9")))

	_, err = f.svc.GetPropertyMarketStats(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOwnershipConservedAcrossTrades(t *testing.T) {
	f := setupMarketTest(t)
	listing := f.list(t, "100", "10")

	for _, shares := range []string{"12.5", "37.5", "50"} {
		_, err := f.svc.BuyShares(context.Background(), listing.ListingID, f.buyer, dec(shares))
		require.NoError(t, err)

		var invs []domain.Investment
		require.NoError(t, f.db.Where("property_id = ?", f.property).Find(&invs).Error)
		total := decimal.Zero
		for _, inv := range invs {
			assert.False(t, inv.SharesOwned.IsNegative())
			total = total.Add(inv.SharesOwned)
		}
		assert.True(t, total.Equal(dec("100")), total.String())
	}
}
