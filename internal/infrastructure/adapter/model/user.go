package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents the database model for users
type User struct {
	ID           uint64          `gorm:"primaryKey;autoIncrement"`
	Username     string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_users_username"`
	PasswordHash string          `gorm:"type:varchar(255);not null"`
	FullName     string          `gorm:"type:varchar(100);not null"`
	Balance      decimal.Decimal `gorm:"type:numeric(15,2);not null;default:10000.00;check:chk_users_balance_non_negative,balance >= 0"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
