package database

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/model"
	timeprovider "github.com/amirhossein-jamali/wallet-service/internal/infrastructure/adapter/time"
	"github.com/shopspring/decimal"
)

// TestDBManager provides utilities for integration tests against PostgreSQL
type TestDBManager struct {
	Manager      *Manager
	Config       *Config
	Logger       coreport.Logger
	TimeProvider coreport.TimeProvider
}

// NewTestDBManager connects to the test database, skipping the test when
// TEST_DB_HOST is not set
func NewTestDBManager(t *testing.T, logger coreport.Logger) *TestDBManager {
	t.Helper()

	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping database integration test")
	}

	timeProvider := timeprovider.NewRealTimeProvider()

	config := &Config{
		Host:            host,
		Port:            getEnvOrDefault("TEST_DB_PORT", "5432"),
		Username:        getEnvOrDefault("TEST_DB_USERNAME", "postgres"),
		Password:        getEnvOrDefault("TEST_DB_PASSWORD", "postgres"),
		Database:        getEnvOrDefault("TEST_DB_DATABASE", "wallet_test"),
		SSLMode:         getEnvOrDefault("TEST_DB_SSL_MODE", "disable"),
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: time.Minute,
		QueryTimeout:    5 * time.Second,
		LogLevel:        "silent",
		RetryAttempts:   1,
	}

	manager := NewManager(config, logger, timeProvider)
	if _, err := manager.Connect(context.Background()); err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Logf("Warning: Failed to close test database connection: %v", err)
		}
	})

	return &TestDBManager{
		Manager:      manager,
		Config:       config,
		Logger:       logger,
		TimeProvider: timeProvider,
	}
}

// SetupTestDB recreates the schema from scratch through the migration manager
func (m *TestDBManager) SetupTestDB(t *testing.T) {
	t.Helper()

	db := m.Manager.DB()
	for _, table := range []string{"transactions", "users", "migration_versions"} {
		if err := db.Exec("DROP TABLE IF EXISTS " + table + " CASCADE").Error; err != nil {
			t.Fatalf("Failed to drop table %s: %v", table, err)
		}
	}

	if err := m.Manager.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
}

// TruncateAllTables removes all rows and resets id sequences
func (m *TestDBManager) TruncateAllTables(t *testing.T) {
	t.Helper()

	if err := m.Manager.DB().Exec("TRUNCATE TABLE transactions, users RESTART IDENTITY CASCADE").Error; err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// CreateTestUser inserts a user with the given balance and returns its id
func (m *TestDBManager) CreateTestUser(t *testing.T, username string, balance string) uint64 {
	t.Helper()

	now := m.TimeProvider.Now()
	user := model.User{
		Username:     strings.ToLower(username),
		PasswordHash: "x",
		FullName:     username,
		Balance:      decimal.RequireFromString(balance),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := m.Manager.DB().Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user.ID
}

// BalanceOf reads a balance directly, bypassing repositories
func (m *TestDBManager) BalanceOf(t *testing.T, userID uint64) string {
	t.Helper()

	var user model.User
	if err := m.Manager.DB().Select("balance").Take(&user, userID).Error; err != nil {
		t.Fatalf("Failed to read balance of user %d: %v", userID, err)
	}
	return entity.FormatMoney(user.Balance)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
