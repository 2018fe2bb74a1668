package marketplace

import (
	"context"
	"fmt"
	"time"

	"brickvest-backend/internal/application/events"
	"brickvest-backend/internal/application/ledger"
	"brickvest-backend/internal/application/registry"
	"brickvest-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FeeSource supplies the current platform fee in basis points. The settings
// service implements it; tests use fixed-value fakes.
type FeeSource interface {
	FeeBps(ctx context.Context) int64
}

// Service is the secondary-market trading engine: listing lifecycle and
// share purchases with fee extraction and partial fills.
type Service struct {
	DB     *gorm.DB
	Fees   FeeSource
	Events *events.Dispatcher

	now func() time.Time
}

// NewService wires the marketplace engine.
func NewService(db *gorm.DB, fees FeeSource, ev *events.Dispatcher) *Service {
	return &Service{DB: db, Fees: fees, Events: ev, now: time.Now}
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

// CreateListingInput carries a seller's offer.
type CreateListingInput struct {
	SellerID      uuid.UUID
	PropertyID    uuid.UUID
	Shares        decimal.Decimal
	PricePerShare decimal.Decimal
	ExpiresAt     *time.Time
}

// CreateListing creates an active listing after checking the seller's
// uncommitted shares: owned shares minus shares still on the seller's other
// active, unexpired listings for the property. Listing does not move shares
// out of the registry.
func (s *Service) CreateListing(ctx context.Context, in CreateListingInput) (*domain.Listing, error) {
	if in.Shares.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: shares must be positive", domain.ErrInvalidAmount)
	}
	if in.PricePerShare.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: price per share must be positive", domain.ErrInvalidAmount)
	}
	if in.ExpiresAt != nil && in.ExpiresAt.Before(s.clock()) {
		return nil, fmt.Errorf("%w: expiry is in the past", domain.ErrInvalidAmount)
	}

	listing := &domain.Listing{
		SellerID:        in.SellerID,
		PropertyID:      in.PropertyID,
		SharesListed:    in.Shares,
		SharesRemaining: in.Shares,
		PricePerShare:   in.PricePerShare,
		Status:          domain.ListingStatusActive,
		ExpiresAt:       in.ExpiresAt,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prop domain.Property
		if err := tx.Select("property_id").Where("property_id = ?", in.PropertyID).First(&prop).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: property %s", domain.ErrNotFound, in.PropertyID)
			}
			return err
		}

		owned, err := registry.SharesOwned(tx, in.SellerID, in.PropertyID)
		if err != nil {
			return err
		}

		var active []domain.Listing
		if err := tx.Where("seller_id = ? AND property_id = ? AND status = ?",
			in.SellerID, in.PropertyID, domain.ListingStatusActive).Find(&active).Error; err != nil {
			return err
		}
		// Dead-but-unflipped listings do not lock availability.
		now := s.clock()
		alreadyListed := decimal.Zero
		for _, l := range active {
			if l.Expired(now) {
				continue
			}
			alreadyListed = alreadyListed.Add(l.SharesRemaining)
		}

		available := owned.Sub(alreadyListed)
		if in.Shares.GreaterThan(available) {
			return fmt.Errorf("%w: %s shares requested, %s available to list", domain.ErrInvalidAmount, in.Shares, available)
		}

		return tx.Create(listing).Error
	})
	if err != nil {
		return nil, err
	}

	s.Events.Emit(events.Event{
		Action:     "create_listing",
		EntityType: "listing",
		EntityID:   listing.ListingID.String(),
		Data: map[string]interface{}{
			"seller_id":       in.SellerID.String(),
			"property_id":     in.PropertyID.String(),
			"shares":          in.Shares.String(),
			"price_per_share": in.PricePerShare.String(),
		},
	})
	return listing, nil
}

// BuyShares executes one purchase against a listing, atomically: buyer debit,
// seller credit net of the platform fee, listing decrement, trade record,
// registry transfer and two transaction-log rows. Partial fills leave the
// listing active; the fill that empties it flips it to sold.
func (s *Service) BuyShares(ctx context.Context, listingID, buyerID uuid.UUID, shares decimal.Decimal) (*domain.Trade, error) {
	if shares.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: shares must be positive", domain.ErrInvalidAmount)
	}

	var trade domain.Trade
	var listing domain.Listing

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: listing %s", domain.ErrNotFound, listingID)
			}
			return err
		}
		if listing.Status != domain.ListingStatusActive {
			return fmt.Errorf("%w: listing is %s", domain.ErrInvalidState, listing.Status)
		}
		if listing.Expired(s.clock()) {
			return fmt.Errorf("%w: listing expired", domain.ErrInvalidState)
		}
		if buyerID == listing.SellerID {
			return fmt.Errorf("%w: cannot buy from your own listing", domain.ErrInvalidOperation)
		}
		if shares.GreaterThan(listing.SharesRemaining) {
			return fmt.Errorf("%w: %s shares requested, %s remaining", domain.ErrInvalidAmount, shares, listing.SharesRemaining)
		}

		totalPrice := shares.Mul(listing.PricePerShare).Round(2)
		feeBps := decimal.NewFromInt(s.Fees.FeeBps(ctx))
		// Fee rounds half-up to the cent; proceeds are the exact remainder,
		// so fee + proceeds == totalPrice always.
		platformFee := totalPrice.Mul(feeBps).Div(decimal.NewFromInt(10000)).Round(2)
		sellerProceeds := totalPrice.Sub(platformFee)

		if err := ledger.Debit(tx, buyerID, totalPrice); err != nil {
			return err
		}
		if err := ledger.Credit(tx, listing.SellerID, sellerProceeds); err != nil {
			return err
		}

		res := tx.Model(&domain.Listing{}).
			Where("listing_id = ? AND status = ? AND shares_remaining >= ?",
				listingID, domain.ListingStatusActive, shares).
			Update("shares_remaining", gorm.Expr("shares_remaining - ?", shares))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: listing changed, retry", domain.ErrConflict)
		}

		if err := tx.Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
			return err
		}
		if listing.SharesRemaining.IsZero() {
			if err := tx.Model(&listing).Update("status", domain.ListingStatusSold).Error; err != nil {
				return err
			}
			listing.Status = domain.ListingStatusSold
		}

		trade = domain.Trade{
			ListingID:      listingID,
			PropertyID:     listing.PropertyID,
			BuyerID:        buyerID,
			SellerID:       listing.SellerID,
			SharesBought:   shares,
			PricePerShare:  listing.PricePerShare,
			TotalPrice:     totalPrice,
			PlatformFee:    platformFee,
			SellerProceeds: sellerProceeds,
			ExecutedAt:     s.clock(),
		}
		if err := tx.Create(&trade).Error; err != nil {
			return err
		}

		if err := registry.MergeShares(tx, buyerID, listing.PropertyID, shares, totalPrice, nil); err != nil {
			return err
		}
		if err := registry.RemoveShares(tx, listing.SellerID, listing.PropertyID, shares); err != nil {
			return err
		}

		if err := tx.Create(&domain.Transaction{
			UserID:     buyerID,
			PropertyID: &listing.PropertyID,
			Type:       domain.TxTypePurchase,
			Amount:     totalPrice,
			Status:     domain.TxStatusCompleted,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&domain.Transaction{
			UserID:     listing.SellerID,
			PropertyID: &listing.PropertyID,
			Type:       domain.TxTypeSale,
			Amount:     sellerProceeds,
			Status:     domain.TxStatusCompleted,
		}).Error
	})
	if err != nil {
		// Lazy expiry: flip the listing outside the rolled-back purchase so
		// later reads see it as expired. Best-effort.
		if listing.ListingID != uuid.Nil && listing.Status == domain.ListingStatusActive && listing.Expired(s.clock()) {
			s.DB.WithContext(ctx).Model(&domain.Listing{}).
				Where("listing_id = ? AND status = ?", listingID, domain.ListingStatusActive).
				Update("status", domain.ListingStatusExpired)
		}
		return nil, err
	}

	sellerID := listing.SellerID
	s.Events.Emit(
		events.Event{
			UserID:     &buyerID,
			Type:       domain.NotificationSharesBought,
			Title:      "Shares purchased",
			Message:    fmt.Sprintf("You bought %s shares for %s.", trade.SharesBought, trade.TotalPrice.StringFixed(2)),
			Action:     "buy_shares",
			EntityType: "trade",
			EntityID:   trade.TradeID.String(),
			Data: map[string]interface{}{
				"listing_id":   listingID.String(),
				"shares":       trade.SharesBought.String(),
				"total_price":  trade.TotalPrice.String(),
				"platform_fee": trade.PlatformFee.String(),
			},
		},
		events.Event{
			UserID:  &sellerID,
			Type:    domain.NotificationSharesSold,
			Title:   "Shares sold",
			Message: fmt.Sprintf("%s of your shares sold for %s (net %s).", trade.SharesBought, trade.TotalPrice.StringFixed(2), trade.SellerProceeds.StringFixed(2)),
			Data: map[string]interface{}{
				"listing_id":      listingID.String(),
				"shares":          trade.SharesBought.String(),
				"seller_proceeds": trade.SellerProceeds.String(),
			},
		},
	)
	return &trade, nil
}

// CancelListing flips an active listing to cancelled. Only the seller or an
// admin may cancel. Shares never left the registry, so there is nothing to
// return.
func (s *Service) CancelListing(ctx context.Context, listingID, callerID uuid.UUID, callerIsAdmin bool) (*domain.Listing, error) {
	var listing domain.Listing
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("listing_id = ?", listingID).First(&listing).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: listing %s", domain.ErrNotFound, listingID)
			}
			return err
		}
		if listing.Status != domain.ListingStatusActive {
			return fmt.Errorf("%w: listing is %s", domain.ErrInvalidState, listing.Status)
		}
		if listing.SellerID != callerID && !callerIsAdmin {
			return fmt.Errorf("%w: only the seller or an admin can cancel a listing", domain.ErrForbidden)
		}

		res := tx.Model(&domain.Listing{}).
			Where("listing_id = ? AND status = ?", listingID, domain.ListingStatusActive).
			Update("status", domain.ListingStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: listing changed, retry", domain.ErrConflict)
		}
		listing.Status = domain.ListingStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	sellerID := listing.SellerID
	s.Events.Emit(events.Event{
		UserID:     &sellerID,
		Type:       domain.NotificationListingCancelled,
		Title:      "Listing cancelled",
		Message:    fmt.Sprintf("Your listing of %s shares was cancelled.", listing.SharesRemaining),
		Action:     "cancel_listing",
		EntityType: "listing",
		EntityID:   listingID.String(),
		Data:       map[string]interface{}{"cancelled_by": callerID.String()},
	})
	return &listing, nil
}

// ListingFilters narrows GetListings results.
type ListingFilters struct {
	PropertyID *uuid.UUID
	Status     *string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
}

// GetListings returns listings matching the filters, newest first. Without a
// status filter only active, unexpired listings are returned.
func (s *Service) GetListings(ctx context.Context, f ListingFilters) ([]domain.Listing, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Listing{})
	if f.PropertyID != nil {
		q = q.Where("property_id = ?", *f.PropertyID)
	}
	if f.Status != nil && *f.Status != "" {
		q = q.Where("status = ?", *f.Status)
	} else {
		q = q.Where("status = ?", domain.ListingStatusActive).
			Where("expires_at IS NULL OR expires_at > ?", s.clock())
	}
	if f.MinPrice != nil {
		q = q.Where("price_per_share >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price_per_share <= ?", *f.MaxPrice)
	}

	var listings []domain.Listing
	if err := q.Order("created_at DESC").Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// GetUserListings returns all listings a seller ever created, newest first.
func (s *Service) GetUserListings(ctx context.Context, sellerID uuid.UUID) ([]domain.Listing, error) {
	var listings []domain.Listing
	if err := s.DB.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

// GetUserTrades returns trades where the user was buyer or seller.
func (s *Service) GetUserTrades(ctx context.Context, userID uuid.UUID) ([]domain.Trade, error) {
	var trades []domain.Trade
	if err := s.DB.WithContext(ctx).
		Where("buyer_id = ? OR seller_id = ?", userID, userID).
		Order("executed_at DESC").
		Find(&trades).Error; err != nil {
		return nil, err
	}
	return trades, nil
}

// MarketStats summarizes one property's secondary market.
type MarketStats struct {
	PropertyID      uuid.UUID       `json:"property_id"`
	ActiveListings  int             `json:"active_listings"`
	SharesForSale   decimal.Decimal `json:"shares_for_sale"`
	LowestAsk       decimal.Decimal `json:"lowest_ask"`
	TradeCount      int             `json:"trade_count"`
	SharesTraded    decimal.Decimal `json:"shares_traded"`
	Volume          decimal.Decimal `json:"volume"`
	LastTradedPrice decimal.Decimal `json:"last_traded_price"`
}

// GetPropertyMarketStats aggregates active supply and trade history for one
// property.
func (s *Service) GetPropertyMarketStats(ctx context.Context, propertyID uuid.UUID) (*MarketStats, error) {
	var exists domain.Property
	if err := s.DB.WithContext(ctx).Select("property_id").Where("property_id = ?", propertyID).First(&exists).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: property %s", domain.ErrNotFound, propertyID)
		}
		return nil, err
	}

	stats := &MarketStats{PropertyID: propertyID}

	var active []domain.Listing
	if err := s.DB.WithContext(ctx).
		Where("property_id = ? AND status = ?", propertyID, domain.ListingStatusActive).
		Find(&active).Error; err != nil {
		return nil, err
	}
	now := s.clock()
	for _, l := range active {
		if l.Expired(now) {
			continue
		}
		stats.ActiveListings++
		stats.SharesForSale = stats.SharesForSale.Add(l.SharesRemaining)
		if stats.LowestAsk.IsZero() || l.PricePerShare.LessThan(stats.LowestAsk) {
			stats.LowestAsk = l.PricePerShare
		}
	}

	var trades []domain.Trade
	if err := s.DB.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("executed_at ASC").
		Find(&trades).Error; err != nil {
		return nil, err
	}
	for _, t := range trades {
		stats.TradeCount++
		stats.SharesTraded = stats.SharesTraded.Add(t.SharesBought)
		stats.Volume = stats.Volume.Add(t.TotalPrice)
		stats.LastTradedPrice = t.PricePerShare
	}
	return stats, nil
}
