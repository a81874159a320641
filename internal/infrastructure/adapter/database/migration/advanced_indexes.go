package migration

import (
	"context"
	"fmt"

	coreport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"gorm.io/gorm"
)

// historyIndexes serve the history query: newest entries where the user is
// either sender or recipient
var historyIndexes = []struct {
	name string
	ddl  string
}{
	{
		name: "idx_transactions_from_created",
		ddl:  "CREATE INDEX IF NOT EXISTS idx_transactions_from_created ON transactions (from_user_id, created_at DESC, id DESC)",
	},
	{
		name: "idx_transactions_to_created",
		ddl:  "CREATE INDEX IF NOT EXISTS idx_transactions_to_created ON transactions (to_user_id, created_at DESC, id DESC)",
	},
}

// IndexManager manages PostgreSQL-specific indexes and table settings
type IndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewIndexManager creates a new index manager
func NewIndexManager(db *gorm.DB, logger coreport.Logger) *IndexManager {
	return &IndexManager{
		db:     db,
		logger: logger,
	}
}

// CreateHistoryIndexes creates the composite indexes used by history queries
func (m *IndexManager) CreateHistoryIndexes(ctx context.Context) error {
	for _, idx := range historyIndexes {
		if err := m.db.WithContext(ctx).Exec(idx.ddl).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": idx.name,
				"error": err.Error(),
			})
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}

	m.logger.Info("History indexes created", map[string]any{"count": len(historyIndexes)})
	return nil
}

// ApplyStorageTweaks lowers the users fillfactor so balance updates can stay
// on the same page. Failures are logged only.
func (m *IndexManager) ApplyStorageTweaks(ctx context.Context) {
	if err := m.db.WithContext(ctx).Exec("ALTER TABLE users SET (fillfactor = 90)").Error; err != nil {
		m.logger.Warn("Failed to set fillfactor for users table", map[string]any{
			"error": err.Error(),
		})
	}
}
