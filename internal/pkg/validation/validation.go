package validation

import (
	"regexp"

	"github.com/shopspring/decimal"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail performs a light syntactic check on an email address.
func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsPositiveAmount reports whether a monetary or share amount is strictly
// positive.
func IsPositiveAmount(d decimal.Decimal) bool {
	return d.GreaterThan(decimal.Zero)
}
