package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents the database model for ledger entries
type Transaction struct {
	ID              uint64          `gorm:"primaryKey;autoIncrement"`
	FromUserID      *uint64         `gorm:"index:idx_transactions_from_user_id"`
	ToUserID        *uint64         `gorm:"index:idx_transactions_to_user_id"`
	Amount          decimal.Decimal `gorm:"type:numeric(15,2);not null;check:chk_transactions_amount_positive,amount > 0"`
	TransactionType string          `gorm:"type:varchar(20);not null;default:'transfer'"`
	Description     string          `gorm:"type:varchar(255);not null;default:'Transfer'"`
	CreatedAt       time.Time       `gorm:"not null"`

	// Define relationships
	FromUser *User `gorm:"foreignKey:FromUserID;references:ID"`
	ToUser   *User `gorm:"foreignKey:ToUserID;references:ID"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}

// HistoryRow is the flattened result of the history query, one ledger entry
// joined with both parties
type HistoryRow struct {
	ID              uint64
	Amount          decimal.Decimal
	TransactionType string
	Description     string
	CreatedAt       time.Time
	FromID          *uint64
	FromUsername    *string
	FromFullName    *string
	ToID            *uint64
	ToUsername      *string
	ToFullName      *string
}
