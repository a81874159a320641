package logger

import (
	"context"
	"testing"

	"github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level core.LogLevel) (core.Logger, *observer.ObservedLogs) {
	zc, logs := observer.New(zap.DebugLevel)
	return NewFromZap(zap.New(zc), level), logs
}

func TestZapLogger_LevelFiltering(t *testing.T) {
	l, logs := newObserved(core.LogLevelWarn)

	l.Debug("debug", nil)
	l.Info("info", nil)
	l.Warn("warn", map[string]any{"user_id": uint64(7)})
	l.Error("error", nil)

	require.Equal(t, 2, logs.Len())
	entries := logs.All()
	assert.Equal(t, "warn", entries[0].Message)
	assert.Equal(t, uint64(7), entries[0].ContextMap()["user_id"])
	assert.Equal(t, "error", entries[1].Message)
}

func TestZapLogger_SetLevel(t *testing.T) {
	l, logs := newObserved(core.LogLevelInfo)

	l.Debug("hidden", nil)
	l.SetLevel(core.LogLevelDebug)
	l.Debug("shown", nil)

	assert.Equal(t, core.LogLevelDebug, l.GetLevel())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "shown", logs.All()[0].Message)
}

func TestNewZapLogger(t *testing.T) {
	l, err := NewZapLogger(Options{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.Equal(t, core.LogLevelError, l.GetLevel())

	_, err = NewZapLogger(Options{Output: "/nonexistent-dir/x/y.log"})
	assert.Error(t, err)
}

func TestNoopLogger(t *testing.T) {
	l := NewNoopLogger()
	l.SetLevel(core.LogLevelError)
	l.Error("ignored", map[string]any{"k": "v"})

	assert.Equal(t, core.LogLevelError, l.GetLevel())
	assert.NoError(t, l.Flush())
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))

	fields := WithContextFields(ctx, nil)
	assert.Equal(t, "req-1", fields[RequestIDKey])

	same := map[string]any{"a": 1}
	assert.Equal(t, same, WithContextFields(context.Background(), same))
}
