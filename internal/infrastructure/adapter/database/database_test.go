package database

import (
	"context"
	"testing"
	"time"

	coremocks "github.com/amirhossein-jamali/wallet-service/mocks/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func validConfig() *Config {
	return &Config{
		Host:          "localhost",
		Port:          "5432",
		Username:      "wallet",
		Database:      "wallet",
		SSLMode:       "disable",
		MaxOpenConns:  10,
		MaxIdleConns:  5,
		QueryTimeout:  time.Second,
		RetryAttempts: 1,
		LogLevel:      "warn",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing host", func(c *Config) { c.Host = "" }, true},
		{"missing user", func(c *Config) { c.Username = "" }, true},
		{"missing database", func(c *Config) { c.Database = "" }, true},
		{"bad ssl mode", func(c *Config) { c.SSLMode = "sometimes" }, true},
		{"url replaces discrete fields", func(c *Config) {
			c.Host, c.Username, c.Database = "", "", ""
			c.URL = "postgres://u:p@db:5432/wallet?sslmode=disable"
		}, false},
		{"url with wrong scheme", func(c *Config) { c.URL = "mysql://u:p@db/wallet" }, true},
		{"zero pool", func(c *Config) { c.MaxOpenConns = 0 }, true},
		{"idle above open", func(c *Config) { c.MaxIdleConns = 11 }, true},
		{"zero query timeout", func(c *Config) { c.QueryTimeout = 0 }, true},
		{"no attempts", func(c *Config) { c.RetryAttempts = 0 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_DSNAndTarget(t *testing.T) {
	c := validConfig()
	c.Password = "secret"

	assert.Equal(t, "host=localhost port=5432 user=wallet password=secret dbname=wallet sslmode=disable", c.DSN())
	assert.Equal(t, "localhost:5432/wallet", c.Target())

	c.URL = "postgres://u:secret@db:6543/prod"
	assert.Equal(t, c.URL, c.DSN())
	assert.Equal(t, "db:6543/prod", c.Target())
	assert.NotContains(t, c.Target(), "secret")
}

func TestExtractQueryInfo(t *testing.T) {
	assert.Equal(t, "SELECT", extractQueryType(` select * from "users" where id = 1`))
	assert.Equal(t, "UPDATE", extractQueryType(`UPDATE "users" SET balance = balance - 1`))
	assert.Equal(t, "", extractQueryType(`BEGIN`))

	assert.Equal(t, "users", extractTableName(`SELECT * FROM "users" WHERE id = 1`))
	assert.Equal(t, "transactions", extractTableName(`INSERT INTO "transactions" ("amount") VALUES (1)`))
	assert.Equal(t, "users", extractTableName(`UPDATE "users" SET balance = 1`))
	assert.Equal(t, "", extractTableName(`BEGIN`))
}

func TestDatabaseLogger_Trace(t *testing.T) {
	sql := func() (string, int64) { return `SELECT * FROM "users"`, 1 }

	t.Run("error logged", func(t *testing.T) {
		logger := coremocks.NewMockLogger(t)
		logger.EXPECT().Error("SQL Error", mock.MatchedBy(func(f map[string]any) bool {
			return f["table"] == "users" && f["error"] == assert.AnError.Error()
		})).Once()

		l := NewDatabaseLogger(logger, nil, "error")
		l.Trace(context.Background(), time.Now(), sql, assert.AnError)
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		logger := coremocks.NewMockLogger(t)

		l := NewDatabaseLogger(logger, nil, "silent")
		l.Trace(context.Background(), time.Now(), sql, assert.AnError)
	})

	t.Run("slow query warned", func(t *testing.T) {
		logger := coremocks.NewMockLogger(t)
		logger.EXPECT().Warn("Slow SQL Query", mock.Anything).Once()

		l := NewDatabaseLogger(logger, nil, "warn")
		l.Trace(context.Background(), time.Now().Add(-time.Second), sql, nil)
	})

	t.Run("log mode switches level", func(t *testing.T) {
		logger := coremocks.NewMockLogger(t)
		logger.EXPECT().Debug("SQL Query", mock.Anything).Once()

		l := NewDatabaseLogger(logger, nil, "warn").LogMode(gormlogger.Info)
		l.Trace(context.Background(), time.Now(), sql, nil)
	})
}

func TestParseGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, parseGormLevel("silent"))
	assert.Equal(t, gormlogger.Error, parseGormLevel("ERROR"))
	assert.Equal(t, gormlogger.Info, parseGormLevel("info"))
	assert.Equal(t, gormlogger.Warn, parseGormLevel(""))
}

func TestManager_PingWithoutConnect(t *testing.T) {
	m := NewManager(validConfig(), coremocks.NewMockLogger(t), nil)

	assert.Error(t, m.Ping(context.Background()))
	assert.NoError(t, m.Close())
	assert.Equal(t, ConnectionPoolMetrics{}, m.PoolStats())
}

func TestManager_ConnectRejectsInvalidConfig(t *testing.T) {
	c := validConfig()
	c.Host = ""

	_, err := NewManager(c, coremocks.NewMockLogger(t), nil).Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid database config")
}
