package entity

import (
	"strings"
	"time"
	"unicode/utf8"

	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	tport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"github.com/shopspring/decimal"
)

// TransactionType tags the kind of ledger entry
type TransactionType string

// Transaction types
const (
	TypeTransfer TransactionType = "transfer"
)

const (
	// DefaultTransferDescription is used when the sender leaves the description empty
	DefaultTransferDescription = "Transfer"

	// DescriptionMaxLength bounds the free-text description
	DescriptionMaxLength = 255

	// HistoryLimit caps the number of entries returned by a history query
	HistoryLimit = 50
)

// Transaction is an immutable ledger entry. From/To are nil for entry types
// that have no counterparty; transfers always set both.
type Transaction struct {
	ID          uint64
	FromUserID  *uint64
	ToUserID    *uint64
	Amount      decimal.Decimal
	Type        TransactionType
	Description string
	CreatedAt   time.Time
}

// Party identifies one side of a ledger entry in history views
type Party struct {
	ID       uint64
	Username string
	FullName string
}

// HistoryEntry is a ledger entry joined with both parties at read time
type HistoryEntry struct {
	ID          uint64
	Amount      decimal.Decimal
	Type        TransactionType
	Description string
	CreatedAt   time.Time
	From        *Party
	To          *Party
}

// NewTransfer creates the ledger entry for a transfer between two distinct users
func NewTransfer(
	fromUserID uint64,
	toUserID uint64,
	amount decimal.Decimal,
	description string,
	timeProvider tport.TimeProvider,
) (*Transaction, error) {
	if fromUserID == 0 {
		return nil, errs.NewValidationError("from_user_id", "must be positive")
	}
	if toUserID == 0 {
		return nil, errs.NewValidationError("to_user_id", "must be positive")
	}
	if fromUserID == toUserID {
		return nil, errs.ErrSelfTransfer
	}
	if err := ValidateTransferAmount(amount); err != nil {
		return nil, err
	}

	return &Transaction{
		FromUserID:  &fromUserID,
		ToUserID:    &toUserID,
		Amount:      amount,
		Type:        TypeTransfer,
		Description: NormalizeDescription(description),
		CreatedAt:   timeProvider.Now(),
	}, nil
}

// NormalizeDescription trims the description and substitutes the default when empty
func NormalizeDescription(description string) string {
	description = strings.TrimSpace(description)
	if description == "" {
		return DefaultTransferDescription
	}
	return description
}

// ValidateDescription checks the description length
func ValidateDescription(description string) error {
	if utf8.RuneCountInString(description) > DescriptionMaxLength {
		return errs.NewValidationError("description", "is too long")
	}
	return nil
}

// IsTransfer reports whether the entry moves funds between two users
func (t *Transaction) IsTransfer() bool {
	return t.Type == TypeTransfer && t.FromUserID != nil && t.ToUserID != nil
}
