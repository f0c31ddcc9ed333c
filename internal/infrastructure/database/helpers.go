package database

import (
	"context"
	"fmt"
	"time"

	"bookstore-catalog/pkg/logger"
)

// Ping dùng cho /health
func (db *PostgresDB) Ping(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// Close idempotent
func (db *PostgresDB) Close() {
	if db.Pool == nil {
		return
	}
	db.Pool.Close()
	db.Pool = nil
	logger.Info("PostgreSQL connection pool closed", nil)
}

type PoolStats struct {
	TotalConns      int32 `json:"total_conns"`
	IdleConns       int32 `json:"idle_conns"`
	AcquiredConns   int32 `json:"acquired_conns"`
	MaxConns        int32 `json:"max_conns"`
	AcquireCount    int64 `json:"acquire_count"`
	EmptyAcquires   int64 `json:"empty_acquire_count"`
	CanceledAcquire int64 `json:"canceled_acquire_count"`
}

func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}
	s := db.Pool.Stat()
	return &PoolStats{
		TotalConns:      s.TotalConns(),
		IdleConns:       s.IdleConns(),
		AcquiredConns:   s.AcquiredConns(),
		MaxConns:        s.MaxConns(),
		AcquireCount:    s.AcquireCount(),
		EmptyAcquires:   s.EmptyAcquireCount(),
		CanceledAcquire: s.CanceledAcquireCount(),
	}, nil
}

// MonitorPoolHealth log pool stats định kỳ, cảnh báo khi pool gần cạn (>= 80%)
// Chạy tới khi ctx bị cancel
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats, err := db.Stats()
			if err != nil {
				logger.Error("Pool stats unavailable", err)
				continue
			}
			fields := map[string]interface{}{
				"total":    stats.TotalConns,
				"idle":     stats.IdleConns,
				"acquired": stats.AcquiredConns,
				"max":      stats.MaxConns,
			}
			if stats.MaxConns > 0 && stats.AcquiredConns*10 >= stats.MaxConns*8 {
				logger.Warn("Database pool nearly exhausted", fields)
				continue
			}
			logger.Debug("Database pool stats")
		}
	}
}
