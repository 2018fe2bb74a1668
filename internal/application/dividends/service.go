package dividends

import (
	"context"
	"fmt"

	"brickvest-backend/internal/application/events"
	"brickvest-backend/internal/application/ledger"
	"brickvest-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service distributes a property's net rental income pro rata to current
// shareholders in a single unit of work.
type Service struct {
	DB     *gorm.DB
	Events *events.Dispatcher
}

// DistributeInput describes one quarter's income statement for a property.
type DistributeInput struct {
	PropertyID        uuid.UUID
	Quarter           int
	Year              int
	TotalRentalIncome decimal.Decimal
	TotalExpenses     decimal.Decimal
}

// DistributionResult is returned to the caller after commit.
type DistributionResult struct {
	Dividend  domain.Dividend          `json:"dividend"`
	Payments  []domain.DividendPayment `json:"payments"`
	TotalPaid decimal.Decimal          `json:"total_paid"`
}

// CreateAndDistribute creates the dividend and pays every investor holding
// shares in the property. The per-share rate and each payment both round
// down, so the sum of payments never exceeds net income even when the income
// inputs carry sub-cent precision; the remainder stays with the platform. A property with no investors still gets its dividend
// record, with zero payments.
func (s *Service) CreateAndDistribute(ctx context.Context, in DistributeInput) (*DistributionResult, error) {
	if in.Quarter < 1 || in.Quarter > 4 {
		return nil, fmt.Errorf("%w: quarter must be 1..4", domain.ErrInvalidAmount)
	}
	netIncome := in.TotalRentalIncome.Sub(in.TotalExpenses)
	if netIncome.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: net income %s must be positive", domain.ErrInvalidAmount, netIncome)
	}

	result := &DistributionResult{TotalPaid: decimal.Zero}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var prop domain.Property
		if err := tx.Where("property_id = ?", in.PropertyID).First(&prop).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: property %s", domain.ErrNotFound, in.PropertyID)
			}
			return err
		}

		var dup domain.Dividend
		err := tx.Where("property_id = ? AND quarter = ? AND year = ?", in.PropertyID, in.Quarter, in.Year).First(&dup).Error
		if err == nil {
			return fmt.Errorf("%w: dividend for Q%d %d already distributed", domain.ErrInvalidOperation, in.Quarter, in.Year)
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		dividend := domain.Dividend{
			PropertyID:           in.PropertyID,
			Quarter:              in.Quarter,
			Year:                 in.Year,
			TotalRentalIncome:    in.TotalRentalIncome,
			TotalExpenses:        in.TotalExpenses,
			NetIncome:            netIncome,
			DistributionPerShare: netIncome.Div(domain.TotalShares).RoundFloor(6),
		}
		if err := tx.Create(&dividend).Error; err != nil {
			return err
		}
		result.Dividend = dividend

		var holders []domain.Investment
		if err := tx.Where("property_id = ? AND shares_owned > ?", in.PropertyID, decimal.Zero).
			Order("created_at ASC").
			Find(&holders).Error; err != nil {
			return err
		}

		result.Payments = make([]domain.DividendPayment, 0, len(holders))
		for _, h := range holders {
			amountPaid := h.SharesOwned.Mul(dividend.DistributionPerShare).RoundFloor(2)
			payment := domain.DividendPayment{
				DividendID:  dividend.DividendID,
				InvestorID:  h.InvestorID,
				SharesOwned: h.SharesOwned,
				AmountPaid:  amountPaid,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
			if err := ledger.Credit(tx, h.InvestorID, amountPaid); err != nil {
				return err
			}
			if err := tx.Create(&domain.Transaction{
				UserID:     h.InvestorID,
				PropertyID: &in.PropertyID,
				Type:       domain.TxTypeDividend,
				Amount:     amountPaid,
				Status:     domain.TxStatusCompleted,
			}).Error; err != nil {
				return err
			}
			result.Payments = append(result.Payments, payment)
			result.TotalPaid = result.TotalPaid.Add(amountPaid)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	evs := make([]events.Event, 0, len(result.Payments)+1)
	evs = append(evs, events.Event{
		Action:     "distribute_dividend",
		EntityType: "dividend",
		EntityID:   result.Dividend.DividendID.String(),
		Data: map[string]interface{}{
			"property_id": in.PropertyID.String(),
			"net_income":  netIncome.String(),
			"total_paid":  result.TotalPaid.String(),
			"payments":    len(result.Payments),
		},
	})
	for _, p := range result.Payments {
		investorID := p.InvestorID
		evs = append(evs, events.Event{
			UserID:  &investorID,
			Type:    domain.NotificationDividendPaid,
			Title:   "Dividend received",
			Message: fmt.Sprintf("A dividend of %s was credited to your wallet.", p.AmountPaid.StringFixed(2)),
			Data: map[string]interface{}{
				"dividend_id": p.DividendID.String(),
				"amount":      p.AmountPaid.String(),
				"quarter":     in.Quarter,
				"year":        in.Year,
			},
		})
	}
	s.Events.Emit(evs...)
	return result, nil
}

// GetDividendsByProperty lists a property's dividends, newest quarter first.
func (s *Service) GetDividendsByProperty(ctx context.Context, propertyID uuid.UUID) ([]domain.Dividend, error) {
	var exists domain.Property
	if err := s.DB.WithContext(ctx).Select("property_id").Where("property_id = ?", propertyID).First(&exists).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: property %s", domain.ErrNotFound, propertyID)
		}
		return nil, err
	}
	var out []domain.Dividend
	if err := s.DB.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("year DESC, quarter DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// InvestorDividend is one payout from the investor's point of view.
type InvestorDividend struct {
	domain.DividendPayment
	PropertyID uuid.UUID `json:"property_id"`
	Quarter    int       `json:"quarter"`
	Year       int       `json:"year"`
}

// GetInvestorDividends lists all payouts an investor has received.
func (s *Service) GetInvestorDividends(ctx context.Context, investorID uuid.UUID) ([]InvestorDividend, error) {
	var payments []domain.DividendPayment
	if err := s.DB.WithContext(ctx).
		Where("investor_id = ?", investorID).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return []InvestorDividend{}, nil
	}

	ids := make([]uuid.UUID, 0, len(payments))
	for _, p := range payments {
		ids = append(ids, p.DividendID)
	}
	var divs []domain.Dividend
	if err := s.DB.WithContext(ctx).Where("dividend_id IN ?", ids).Find(&divs).Error; err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]domain.Dividend, len(divs))
	for _, d := range divs {
		byID[d.DividendID] = d
	}

	out := make([]InvestorDividend, len(payments))
	for i, p := range payments {
		d := byID[p.DividendID]
		out[i] = InvestorDividend{
			DividendPayment: p,
			PropertyID:      d.PropertyID,
			Quarter:         d.Quarter,
			Year:            d.Year,
		}
	}
	return out, nil
}
