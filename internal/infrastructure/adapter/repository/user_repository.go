package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
	errs "github.com/amirhossein-jamali/wallet-service/internal/domain/error"
	coreport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository implements UserRepository interface using GORM
type UserRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewUserRepository creates a new UserRepository instance
func NewUserRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *UserRepository {
	return &UserRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a user model to an entity
func modelToEntity(m *model.User) *entity.User {
	return entity.RestoreUser(m.ID, m.Username, m.PasswordHash, m.FullName, m.Balance, m.CreatedAt, m.UpdatedAt)
}

// handleDatabaseError standardizes database error handling
func (r *UserRepository) handleDatabaseError(operation string, err error, fields map[string]any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrUserNotFound
	}

	mapped := r.errorClassifier.ToDomainError(err, operation)

	logFields := map[string]any{"error": err.Error()}
	for k, v := range fields {
		logFields[k] = v
	}
	if errs.ErrorCode(mapped) == errs.CodeInternalServer {
		r.logger.Error(fmt.Sprintf("Database error when %s", operation), logFields)
	} else {
		r.logger.Warn(fmt.Sprintf("Rejected by database when %s", operation), logFields)
	}

	return mapped
}

// Create inserts a new user and assigns its generated ID
func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := model.User{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		FullName:     user.FullName,
		Balance:      user.Balance(),
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&userModel).Error; err != nil {
		return r.handleDatabaseError("creating user", err, map[string]any{"username": user.Username})
	}

	user.ID = userModel.ID
	r.logger.Debug("User row inserted", map[string]any{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*entity.User, error) {
	var userModel model.User
	if err := r.db.WithContext(ctx).First(&userModel, id).Error; err != nil {
		return nil, r.handleDatabaseError("getting user", err, map[string]any{"user_id": id})
	}
	return modelToEntity(&userModel), nil
}

// GetByUsername retrieves a user by its lower-cased username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var userModel model.User
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Take(&userModel).Error
	if err != nil {
		return nil, r.handleDatabaseError("getting user by username", err, map[string]any{"username": username})
	}
	return modelToEntity(&userModel), nil
}

// GetBalance reads only the balance column
func (r *UserRepository) GetBalance(ctx context.Context, id uint64) (decimal.Decimal, error) {
	var userModel model.User
	err := r.db.WithContext(ctx).
		Select("id", "balance").
		Where("id = ?", id).
		Take(&userModel).Error
	if err != nil {
		return decimal.Zero, r.handleDatabaseError("getting balance", err, map[string]any{"user_id": id})
	}
	return userModel.Balance, nil
}

// LockForUpdate locks the rows with SELECT ... FOR UPDATE in ascending ID order.
// Every caller locking the same pair acquires the locks in the same order.
func (r *UserRepository) LockForUpdate(ctx context.Context, ids ...uint64) (map[uint64]*entity.User, error) {
	ordered := uniqueSorted(ids)
	if len(ordered) == 0 {
		return map[uint64]*entity.User{}, nil
	}

	var userModels []model.User
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ordered).
		Order("id ASC").
		Find(&userModels).Error
	if err != nil {
		return nil, r.handleDatabaseError("locking users", err, map[string]any{"user_ids": ordered})
	}

	if len(userModels) != len(ordered) {
		return nil, errs.ErrUserNotFound
	}

	locked := make(map[uint64]*entity.User, len(userModels))
	for i := range userModels {
		locked[userModels[i].ID] = modelToEntity(&userModels[i])
	}

	r.logger.Debug("User rows locked", map[string]any{
		"user_ids": ordered,
	})
	return locked, nil
}

// Debit subtracts amount only when the balance covers it
func (r *UserRepository) Debit(ctx context.Context, id uint64, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND balance >= ?", id, amount).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance - ?", amount),
			"updated_at": r.timeProvider.Now(),
		})

	if result.Error != nil {
		return r.handleDatabaseError("debiting user", result.Error, map[string]any{
			"user_id": id,
			"amount":  entity.FormatMoney(amount),
		})
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("Conditional debit matched no row", map[string]any{
			"user_id": id,
			"amount":  entity.FormatMoney(amount),
		})
		return errs.ErrInsufficientFunds
	}

	return nil
}

// Credit adds amount to the balance
func (r *UserRepository) Credit(ctx context.Context, id uint64, amount decimal.Decimal) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"balance":    gorm.Expr("balance + ?", amount),
			"updated_at": r.timeProvider.Now(),
		})

	if result.Error != nil {
		return r.handleDatabaseError("crediting user", result.Error, map[string]any{
			"user_id": id,
			"amount":  entity.FormatMoney(amount),
		})
	}

	if result.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}

	return nil
}

// UpdatePasswordHash replaces the stored password hash
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id uint64, passwordHash string) error {
	result := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    r.timeProvider.Now(),
		})

	if result.Error != nil {
		return r.handleDatabaseError("updating password hash", result.Error, map[string]any{"user_id": id})
	}

	if result.RowsAffected == 0 {
		return errs.ErrUserNotFound
	}

	return nil
}

// uniqueSorted returns the distinct ids in ascending order
func uniqueSorted(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
