package dto

import (
	"encoding/json"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Money renders an amount as a JSON number with exactly two decimals
func Money(d decimal.Decimal) json.Number {
	return json.Number(entity.FormatMoney(d))
}
