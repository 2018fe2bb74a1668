// Package registry mutates the per-(investor, property) share ownership
// rows. Like the ledger, it only ever runs inside a caller's unit of work.
package registry

import (
	"fmt"

	"brickvest-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MergeShares adds shares (and invested cash) to the investor's row for the
// property, creating the row on first contact. The updated row is written to
// out when non-nil.
func MergeShares(tx *gorm.DB, investorID, propertyID uuid.UUID, sharesDelta, amountDelta decimal.Decimal, out *domain.Investment) error {
	var inv domain.Investment
	err := tx.Where("investor_id = ? AND property_id = ?", investorID, propertyID).First(&inv).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		inv = domain.Investment{
			InvestorID:          investorID,
			PropertyID:          propertyID,
			AmountInvested:      amountDelta,
			SharesOwned:         sharesDelta,
			OwnershipPercentage: domain.OwnershipFor(sharesDelta),
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		inv.AmountInvested = inv.AmountInvested.Add(amountDelta)
		inv.SharesOwned = inv.SharesOwned.Add(sharesDelta)
		inv.OwnershipPercentage = domain.OwnershipFor(inv.SharesOwned)
		if err := tx.Model(&domain.Investment{}).
			Where("investment_id = ?", inv.InvestmentID).
			Updates(map[string]interface{}{
				"amount_invested":      inv.AmountInvested,
				"shares_owned":         inv.SharesOwned,
				"ownership_percentage": inv.OwnershipPercentage,
			}).Error; err != nil {
			return err
		}
	}
	if out != nil {
		*out = inv
	}
	return nil
}

// RemoveShares subtracts sold shares from the investor's row. The guard
// keeps shares_owned from going below zero when sales race.
func RemoveShares(tx *gorm.DB, investorID, propertyID uuid.UUID, shares decimal.Decimal) error {
	var inv domain.Investment
	if err := tx.Where("investor_id = ? AND property_id = ?", investorID, propertyID).First(&inv).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fmt.Errorf("%w: no shares held in property %s", domain.ErrNotFound, propertyID)
		}
		return err
	}

	res := tx.Model(&domain.Investment{}).
		Where("investment_id = ? AND shares_owned >= ?", inv.InvestmentID, shares).
		Update("shares_owned", gorm.Expr("shares_owned - ?", shares))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: holding changed, retry", domain.ErrConflict)
	}

	remaining := inv.SharesOwned.Sub(shares)
	return tx.Model(&domain.Investment{}).
		Where("investment_id = ?", inv.InvestmentID).
		Update("ownership_percentage", domain.OwnershipFor(remaining)).Error
}

// SharesOwned returns the investor's share count for a property, zero when
// no row exists.
func SharesOwned(tx *gorm.DB, investorID, propertyID uuid.UUID) (decimal.Decimal, error) {
	var inv domain.Investment
	err := tx.Where("investor_id = ? AND property_id = ?", investorID, propertyID).First(&inv).Error
	if err == gorm.ErrRecordNotFound {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return inv.SharesOwned, nil
}
