// Package ledger holds the cash-movement primitives. Credit and Debit are
// only ever called with the *gorm.DB handle of an enclosing unit of work;
// they carry no durability guarantee of their own.
package ledger

import (
	"fmt"

	"brickvest-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Credit increments a wallet balance. Always succeeds for amount >= 0 when
// the account exists.
func Credit(tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: credit amount must not be negative", domain.ErrInvalidAmount)
	}
	res := tx.Model(&domain.Account{}).
		Where("user_id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: account %s", domain.ErrNotFound, userID)
	}
	return nil
}

// Debit decrements a wallet balance. The WHERE guard keeps the balance
// non-negative even under concurrent debits: a row is only updated when it
// still covers the amount.
func Debit(tx *gorm.DB, userID uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: debit amount must not be negative", domain.ErrInvalidAmount)
	}
	res := tx.Model(&domain.Account{}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var acct domain.Account
		if err := tx.Where("user_id = ?", userID).First(&acct).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("%w: account %s", domain.ErrNotFound, userID)
			}
			return err
		}
		return fmt.Errorf("%w: balance %s, debit %s", domain.ErrInsufficientBalance, acct.Balance, amount)
	}
	return nil
}

// Balance reads the current wallet balance.
func Balance(db *gorm.DB, userID uuid.UUID) (decimal.Decimal, error) {
	var acct domain.Account
	if err := db.Where("user_id = ?", userID).First(&acct).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return decimal.Zero, fmt.Errorf("%w: account %s", domain.ErrNotFound, userID)
		}
		return decimal.Zero, err
	}
	return acct.Balance, nil
}
