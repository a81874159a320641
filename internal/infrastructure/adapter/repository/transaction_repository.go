package repository

import (
	"context"
	"fmt"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

const historySelect = `t.id, t.amount, t.transaction_type, t.description, t.created_at,
	fu.id AS from_id, fu.username AS from_username, fu.full_name AS from_full_name,
	tu.id AS to_id, tu.username AS to_username, tu.full_name AS to_full_name`

// TransactionRepository implements TransactionRepository interface using GORM
type TransactionRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// Create appends a ledger entry and assigns its generated ID
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	txModel := model.Transaction{
		FromUserID:      transaction.FromUserID,
		ToUserID:        transaction.ToUserID,
		Amount:          transaction.Amount,
		TransactionType: string(transaction.Type),
		Description:     transaction.Description,
		CreatedAt:       transaction.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Omit("FromUser", "ToUser").Create(&txModel).Error; err != nil {
		r.logger.Error("Failed to insert transaction", map[string]any{
			"error":  err.Error(),
			"amount": entity.FormatMoney(transaction.Amount),
		})
		return r.errorClassifier.ToDomainError(err, "inserting transaction")
	}

	transaction.ID = txModel.ID
	return nil
}

// ListByUser returns at most limit entries involving the user, newest first
func (r *TransactionRepository) ListByUser(ctx context.Context, userID uint64, limit int) ([]entity.HistoryEntry, error) {
	var rows []model.HistoryRow
	err := r.db.WithContext(ctx).
		Table("transactions AS t").
		Select(historySelect).
		Joins("LEFT JOIN users fu ON fu.id = t.from_user_id").
		Joins("LEFT JOIN users tu ON tu.id = t.to_user_id").
		Where("t.from_user_id = ? OR t.to_user_id = ?", userID, userID).
		Order("t.created_at DESC").
		Order("t.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		r.logger.Error("Failed to list transactions", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, r.errorClassifier.ToDomainError(err, fmt.Sprintf("listing transactions of user %d", userID))
	}

	entries := make([]entity.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}
	return entries, nil
}

// rowToEntry converts a joined history row into a domain entry
func rowToEntry(row model.HistoryRow) entity.HistoryEntry {
	return entity.HistoryEntry{
		ID:          row.ID,
		Amount:      row.Amount,
		Type:        entity.TransactionType(row.TransactionType),
		Description: row.Description,
		CreatedAt:   row.CreatedAt,
		From:        toParty(row.FromID, row.FromUsername, row.FromFullName),
		To:          toParty(row.ToID, row.ToUsername, row.ToFullName),
	}
}

func toParty(id *uint64, username, fullName *string) *entity.Party {
	if id == nil {
		return nil
	}
	party := &entity.Party{ID: *id}
	if username != nil {
		party.Username = *username
	}
	if fullName != nil {
		party.FullName = *fullName
	}
	return party
}
