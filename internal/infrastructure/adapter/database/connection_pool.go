package database

import (
	"sync"
	"time"

	coreport "github.com/amirhossein-jamali/wallet-service/internal/domain/port/core"
	"gorm.io/gorm"
)

// ConnectionPoolMetrics is a sample of the database/sql pool statistics
type ConnectionPoolMetrics struct {
	OpenConnections    int           `json:"open_connections"`
	IdleConnections    int           `json:"idle_connections"`
	InUse              int           `json:"in_use"`
	MaxOpenConnections int           `json:"max_open_connections"`
	WaitCount          int64         `json:"wait_count"`
	WaitDuration       time.Duration `json:"wait_duration"`
	MaxIdleClosed      int64         `json:"max_idle_closed"`
	MaxLifetimeClosed  int64         `json:"max_lifetime_closed"`
}

// ConnectionPoolMonitor periodically samples pool statistics and warns when
// requests start waiting for connections
type ConnectionPoolMonitor struct {
	db       *gorm.DB
	logger   coreport.Logger
	mutex    sync.RWMutex
	metrics  ConnectionPoolMetrics
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewConnectionPoolMonitor creates a new connection pool monitor
func NewConnectionPoolMonitor(db *gorm.DB, logger coreport.Logger) *ConnectionPoolMonitor {
	return &ConnectionPoolMonitor{
		db:       db,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start samples once immediately and then every interval until Stop
func (m *ConnectionPoolMonitor) Start(interval time.Duration) {
	m.collect()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.collect()
			case <-m.stopChan:
				return
			}
		}
	}()
}

// Stop stops the monitoring; safe to call more than once
func (m *ConnectionPoolMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

// GetMetrics returns the latest sample
func (m *ConnectionPoolMonitor) GetMetrics() ConnectionPoolMetrics {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.metrics
}

func (m *ConnectionPoolMonitor) collect() {
	sqlDB, err := m.db.DB()
	if err != nil {
		m.logger.Error("Failed to collect connection pool metrics", map[string]any{
			"error": err.Error(),
		})
		return
	}

	stats := sqlDB.Stats()
	sample := ConnectionPoolMetrics{
		OpenConnections:    stats.OpenConnections,
		IdleConnections:    stats.Idle,
		InUse:              stats.InUse,
		MaxOpenConnections: stats.MaxOpenConnections,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration,
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}

	m.mutex.Lock()
	previous := m.metrics
	m.metrics = sample
	m.mutex.Unlock()

	if sample.WaitCount > previous.WaitCount {
		m.logger.Warn("Database connection pool saturated", map[string]any{
			"in_use":        sample.InUse,
			"max_open":      sample.MaxOpenConnections,
			"new_waits":     sample.WaitCount - previous.WaitCount,
			"wait_duration": sample.WaitDuration.String(),
		})
		return
	}

	m.logger.Debug("Database connection pool", map[string]any{
		"open":   sample.OpenConnections,
		"idle":   sample.IdleConnections,
		"in_use": sample.InUse,
	})
}
