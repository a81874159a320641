package persistence

import (
	"context"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// UserRepository defines the methods used to read and mutate user data
type UserRepository interface {
	// Create inserts a new user and assigns its generated ID
	//
	// Possible errors:
	// - ErrDuplicateUser: If the username is already taken
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, user *entity.User) error

	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id uint64) (*entity.User, error)

	// GetByUsername retrieves a user by its lower-cased username
	//
	// Possible errors:
	// - ErrUserNotFound: If no user has this username
	// - ErrDatabaseConnection: If database connection fails
	GetByUsername(ctx context.Context, username string) (*entity.User, error)

	// GetBalance reads only the balance column of a user
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetBalance(ctx context.Context, id uint64) (decimal.Decimal, error)

	// LockForUpdate locks the given user rows (SELECT ... FOR UPDATE) in
	// ascending ID order and returns them keyed by ID. Must run inside a
	// unit of work; the locks are held until commit or rollback.
	//
	// Possible errors:
	// - ErrUserNotFound: If any of the users doesn't exist
	// - ErrConcurrentUpdate: If the database aborted on a lock conflict
	// - ErrDatabaseConnection: If database connection fails
	LockForUpdate(ctx context.Context, ids ...uint64) (map[uint64]*entity.User, error)

	// Debit subtracts amount from the balance only when the balance covers it
	//
	// Possible errors:
	// - ErrInsufficientFunds: If no row matched the balance condition
	// - ErrDatabaseConnection: If database connection fails
	Debit(ctx context.Context, id uint64, amount decimal.Decimal) error

	// Credit adds amount to the balance
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	Credit(ctx context.Context, id uint64, amount decimal.Decimal) error

	// UpdatePasswordHash replaces the stored password hash
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	UpdatePasswordHash(ctx context.Context, id uint64, passwordHash string) error
}
