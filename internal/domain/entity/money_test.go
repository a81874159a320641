package entity

import (
	"testing"

	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	t.Run("Valid values", func(t *testing.T) {
		testCases := map[string]string{
			"10":     "10.00",
			"10.5":   "10.50",
			" 0.01 ": "0.01",
			"150.00": "150.00",
		}

		for in, want := range testCases {
			amount, err := ParseAmount(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, FormatMoney(amount), in)
		}
	})

	t.Run("Invalid values", func(t *testing.T) {
		for _, in := range []string{"", "   ", "abc", "$10", "1,5"} {
			_, err := ParseAmount(in)
			assert.ErrorIs(t, err, errs.ErrValidation, in)
		}
	})
}

func TestValidateTransferAmount(t *testing.T) {
	testCases := []struct {
		amount string
		valid  bool
	}{
		{"0.01", true},
		{"1", true},
		{"1.50", true},
		{"1.500", true},
		{"9999999999999.99", true},
		{"0", false},
		{"-0.01", false},
		{"0.001", false},
		{"10000000000000.00", false},
	}

	for _, tc := range testCases {
		t.Run(tc.amount, func(t *testing.T) {
			err := ValidateTransferAmount(decimal.RequireFromString(tc.amount))
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, errs.ErrValidation)
			}
		})
	}
}
