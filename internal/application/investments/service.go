package investments

import (
	"context"
	"fmt"

	"brickvest-backend/internal/application/events"
	"brickvest-backend/internal/application/ledger"
	"brickvest-backend/internal/application/registry"
	"brickvest-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service is the primary-market entry point: it converts wallet cash into
// property shares inside one unit of work.
type Service struct {
	DB     *gorm.DB
	Events *events.Dispatcher
}

// Invest buys sharesDelta = amount/totalValue*1000 shares of a property,
// rounded down to 4 decimal places so the 1000-share supply can never be
// overminted across many small fills. Property must be active, amount within
// [min, max] and within the remaining funding. Debit, registry upsert,
// funding increment and transaction log all commit or roll back together.
func (s *Service) Invest(ctx context.Context, propertyID, investorID uuid.UUID, amount decimal.Decimal) (*domain.Investment, error) {
	var inv domain.Investment
	var prop domain.Property

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", propertyID).First(&prop).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: property %s", domain.ErrNotFound, propertyID)
			}
			return err
		}
		if prop.Status != domain.PropertyStatusActive {
			return fmt.Errorf("%w: property is %s, not open for investment", domain.ErrInvalidState, prop.Status)
		}
		if amount.LessThan(prop.MinInvestment) {
			return fmt.Errorf("%w: amount %s below minimum investment %s", domain.ErrInvalidAmount, amount, prop.MinInvestment)
		}
		if amount.GreaterThan(prop.MaxInvestment) {
			return fmt.Errorf("%w: amount %s above maximum investment %s", domain.ErrInvalidAmount, amount, prop.MaxInvestment)
		}
		remaining := prop.FundingTarget.Sub(prop.FundingRaised)
		if amount.GreaterThan(remaining) {
			return fmt.Errorf("%w: amount %s exceeds remaining funding %s", domain.ErrInvalidAmount, amount, remaining)
		}

		if err := ledger.Debit(tx, investorID, amount); err != nil {
			return err
		}

		sharesDelta := amount.Div(prop.TotalValue).Mul(domain.TotalShares).RoundFloor(4)

		if err := registry.MergeShares(tx, investorID, propertyID, sharesDelta, amount, &inv); err != nil {
			return err
		}

		// Guarded increment: two racing investments cannot jointly overshoot
		// the funding target.
		res := tx.Model(&domain.Property{}).
			Where("property_id = ? AND status = ? AND funding_raised <= funding_target - ?",
				propertyID, domain.PropertyStatusActive, amount).
			Update("funding_raised", gorm.Expr("funding_raised + ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: property funding changed, retry", domain.ErrConflict)
		}

		if err := tx.Where("property_id = ?", propertyID).First(&prop).Error; err != nil {
			return err
		}
		if prop.FundingRaised.GreaterThanOrEqual(prop.FundingTarget) {
			if err := tx.Model(&prop).Update("status", domain.PropertyStatusFunded).Error; err != nil {
				return err
			}
			prop.Status = domain.PropertyStatusFunded
		}

		return tx.Create(&domain.Transaction{
			UserID:     investorID,
			PropertyID: &propertyID,
			Type:       domain.TxTypeInvestment,
			Amount:     amount,
			Status:     domain.TxStatusCompleted,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.Events.Emit(events.Event{
		UserID:     &investorID,
		Type:       domain.NotificationInvestment,
		Title:      "Investment confirmed",
		Message:    fmt.Sprintf("You invested %s in %s.", amount.StringFixed(2), prop.Title),
		Action:     "invest",
		EntityType: "property",
		EntityID:   propertyID.String(),
		Data: map[string]interface{}{
			"amount":       amount.String(),
			"shares_owned": inv.SharesOwned.String(),
			"status":       prop.Status,
		},
	})
	return &inv, nil
}

// PortfolioPosition is one property in an investor's portfolio view.
type PortfolioPosition struct {
	domain.Investment
	PropertyTitle  string          `json:"property_title"`
	PropertyStatus string          `json:"property_status"`
	PropertyValue  decimal.Decimal `json:"property_value"`
}

// GetPortfolio returns all of an investor's positions with shares > 0,
// enriched with property metadata.
func (s *Service) GetPortfolio(ctx context.Context, investorID uuid.UUID) ([]PortfolioPosition, error) {
	var invs []domain.Investment
	if err := s.DB.WithContext(ctx).
		Where("investor_id = ? AND shares_owned > ?", investorID, decimal.Zero).
		Order("created_at ASC").
		Find(&invs).Error; err != nil {
		return nil, err
	}
	if len(invs) == 0 {
		return []PortfolioPosition{}, nil
	}

	ids := make([]uuid.UUID, 0, len(invs))
	for _, inv := range invs {
		ids = append(ids, inv.PropertyID)
	}
	var props []domain.Property
	if err := s.DB.WithContext(ctx).Where("property_id IN ?", ids).Find(&props).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]domain.Property, len(props))
	for _, p := range props {
		byID[p.PropertyID] = p
	}

	out := make([]PortfolioPosition, len(invs))
	for i, inv := range invs {
		p := byID[inv.PropertyID]
		out[i] = PortfolioPosition{
			Investment:     inv,
			PropertyTitle:  p.Title,
			PropertyStatus: p.Status,
			PropertyValue:  p.TotalValue,
		}
	}
	return out, nil
}

// GetPropertyInvestments returns every registry row for a property,
// largest holders first.
func (s *Service) GetPropertyInvestments(ctx context.Context, propertyID uuid.UUID) ([]domain.Investment, error) {
	var exists domain.Property
	if err := s.DB.WithContext(ctx).Select("property_id").Where("property_id = ?", propertyID).First(&exists).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: property %s", domain.ErrNotFound, propertyID)
		}
		return nil, err
	}
	var invs []domain.Investment
	if err := s.DB.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("shares_owned DESC").
		Find(&invs).Error; err != nil {
		return nil, err
	}
	return invs, nil
}
