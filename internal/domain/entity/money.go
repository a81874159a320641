package entity

import (
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	"github.com/shopspring/decimal"
)

// MoneyDecimalPlaces defines the number of fractional digits kept for money amounts
const MoneyDecimalPlaces = 2

var (
	// StartingBalance is credited to every newly registered user
	StartingBalance = decimal.RequireFromString("10000.00")

	// MaxAmount is the largest value a numeric(15,2) column can hold
	MaxAmount = decimal.RequireFromString("9999999999999.99")
)

// ParseAmount parses a textual money amount such as "10", "10.5" or "10.50"
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, errs.NewValidationError("amount", "is required")
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errs.NewValidationError("amount", fmt.Sprintf("invalid number %q", raw))
	}
	return amount, nil
}

// ValidateTransferAmount checks that a transfer amount is positive, fits the
// ledger column and has at most two decimal places
func ValidateTransferAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.NewValidationError("amount", "must be greater than zero")
	}
	if !amount.Equal(amount.Round(MoneyDecimalPlaces)) {
		return errs.NewValidationError("amount", fmt.Sprintf("at most %d decimal places allowed", MoneyDecimalPlaces))
	}
	if amount.GreaterThan(MaxAmount) {
		return errs.NewValidationError("amount", "is too large")
	}
	return nil
}

// FormatMoney renders an amount with exactly two decimal places, e.g. "150.00"
func FormatMoney(amount decimal.Decimal) string {
	return amount.StringFixed(MoneyDecimalPlaces)
}
