package entity

import (
	"time"

	coreport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"github.com/shopspring/decimal"
)

// User represents a registered account holder with a balance
type User struct {
	ID           uint64          // Store-generated identifier, zero until persisted
	Username     string          // Lower-cased, unique
	PasswordHash string          // Output of the configured PasswordHasher
	FullName     string          // Display name
	balance      decimal.Decimal // Never negative
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserProfile is the public view of a user returned by register and login
type UserProfile struct {
	ID       uint64
	Username string
	FullName string
	Balance  decimal.Decimal
}

// NewUser creates a user ready to be registered. Inputs are expected to be
// validated and normalized already; the balance starts at StartingBalance.
func NewUser(username, passwordHash, fullName string, timeProvider coreport.TimeProvider) *User {
	now := timeProvider.Now()
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		FullName:     fullName,
		balance:      StartingBalance,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// RestoreUser rebuilds a user from persisted state
func RestoreUser(
	id uint64,
	username, passwordHash, fullName string,
	balance decimal.Decimal,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		FullName:     fullName,
		balance:      balance,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// Balance returns the current balance
func (u *User) Balance() decimal.Decimal {
	return u.balance
}

// GetBalance returns the balance as a string with 2 decimal places
func (u *User) GetBalance() string {
	return FormatMoney(u.balance)
}

// CanDebit reports whether the balance covers the amount
func (u *User) CanDebit(amount decimal.Decimal) bool {
	return u.balance.GreaterThanOrEqual(amount)
}

// Profile returns the public fields of the user
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Balance:  u.balance,
	}
}
