package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T, yaml string) *viper.Viper {
	t.Helper()
	v := viper.New()
	setDefaults(v)
	if yaml != "" {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
		v.SetConfigFile(path)
		require.NoError(t, v.ReadInConfig())
	}
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadFromViper(newViper(t, ""), Test)
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "*", cfg.Server.AllowOrigin)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, time.Second, cfg.Database.RetryDelay)
	assert.True(t, cfg.Database.AutoMigrate)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 50, cfg.Transfer.HistoryLimit)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
}

func TestFileValues(t *testing.T) {
	v := newViper(t, `
server:
  port: 9000
  readTimeout: 2s
database:
  url: postgres://u:p@db:5432/wallet
  queryTimeout: 3
  connMaxLifetime: 90s
cache:
  enabled: true
  ttl: 500ms
`)

	cfg, err := LoadFromViper(v, Development)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "postgres://u:p@db:5432/wallet", cfg.Database.URL)
	assert.Equal(t, 3*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 90*time.Second, cfg.Database.ConnMaxLifetime)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 500*time.Millisecond, cfg.Cache.TTL)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WS_SERVER_PORT", "7000")
	t.Setenv("WS_LOGGER_LEVEL", "debug")
	t.Setenv("WS_AUTH_BCRYPTCOST", "12")
	t.Setenv("DATABASE_URL", "postgres://legacy@db/wallet")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := LoadFromViper(newViper(t, "server:\n  port: 9000\n"), Production)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, "postgres://legacy@db/wallet", cfg.Database.URL)
	assert.Equal(t, "redis:6379", cfg.Cache.Addr)
}

func TestPrefixedEnvWins(t *testing.T) {
	t.Setenv("PORT", "5000")
	t.Setenv("WS_SERVER_PORT", "6000")
	t.Setenv("DATABASE_URL", "postgres://legacy@db/wallet")
	t.Setenv("WS_DATABASE_URL", "postgres://new@db/wallet")

	cfg, err := LoadFromViper(newViper(t, ""), Production)
	require.NoError(t, err)

	assert.Equal(t, 6000, cfg.Server.Port)
	assert.Equal(t, "postgres://new@db/wallet", cfg.Database.URL)
}

func TestPlatformPort(t *testing.T) {
	t.Setenv("PORT", "5000")

	cfg, err := LoadFromViper(newViper(t, ""), Production)
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("WS_ENV", "")
	assert.Equal(t, Development, getEnvironment())

	t.Setenv("WS_ENV", "PRODUCTION")
	assert.Equal(t, Production, getEnvironment())
}

func TestLoadConfigWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("WS_ENV", "staging")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
}
