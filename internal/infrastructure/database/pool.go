package database

import (
	"context"
	"fmt"
	"time"

	"bookstore-reporting/pkg/logger"
)

// PoolStats chứa snapshot của connection pool
type PoolStats struct {
	AcquireCount         int64         // tổng số lần acquire (lifetime)
	AcquireDuration      time.Duration // tổng thời gian chờ acquire
	AcquiredConns        int32         // đang được dùng
	CanceledAcquireCount int64         // acquire bị cancel do timeout/context
	IdleConns            int32
	MaxConns             int32
	TotalConns           int32
}

// AvgAcquireDuration = AcquireDuration / AcquireCount
func (s *PoolStats) AvgAcquireDuration() time.Duration {
	if s.AcquireCount == 0 {
		return 0
	}
	return s.AcquireDuration / time.Duration(s.AcquireCount)
}

// Utilization trả về % connections đang acquired trên MaxConns
func (s *PoolStats) Utilization() float64 {
	if s.MaxConns == 0 {
		return 0
	}
	return float64(s.AcquiredConns) / float64(s.MaxConns) * 100
}

// Stats trả về snapshot của pool statistics
func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		AcquireCount:         raw.AcquireCount(),
		AcquireDuration:      raw.AcquireDuration(),
		AcquiredConns:        raw.AcquiredConns(),
		CanceledAcquireCount: raw.CanceledAcquireCount(),
		IdleConns:            raw.IdleConns(),
		MaxConns:             raw.MaxConns(),
		TotalConns:           raw.TotalConns(),
	}, nil
}

// PoolObserver nhận snapshot định kỳ (metrics.Metrics implement interface này)
type PoolObserver interface {
	SetDBPool(acquired, idle, total int32)
}

// MonitorPoolHealth chạy trong goroutine riêng, dừng khi ctx bị cancel
func (db *PostgresDB) MonitorPoolHealth(ctx context.Context, interval time.Duration, observer PoolObserver) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats, err := db.Stats()
			if err != nil {
				logger.Error("[MONITOR] Failed to get pool stats", err)
				continue
			}
			if observer != nil {
				observer.SetDBPool(stats.AcquiredConns, stats.IdleConns, stats.TotalConns)
			}
			checkPoolStats(stats)

		case <-ctx.Done():
			logger.Info("[MONITOR] Stopping pool health monitoring", nil)
			return
		}
	}
}

// checkPoolStats log warning khi pool có dấu hiệu quá tải
func checkPoolStats(stats *PoolStats) []string {
	var warnings []string

	if u := stats.Utilization(); u > 80 {
		warnings = append(warnings, fmt.Sprintf("high pool utilization: %.1f%% (%d/%d)", u, stats.AcquiredConns, stats.MaxConns))
	}
	if avg := stats.AvgAcquireDuration(); avg > 100*time.Millisecond {
		warnings = append(warnings, fmt.Sprintf("high acquire latency: %v", avg))
	}
	if stats.AcquireCount > 0 {
		rate := float64(stats.CanceledAcquireCount) / float64(stats.AcquireCount) * 100
		if rate > 5 {
			warnings = append(warnings, fmt.Sprintf("high cancel rate: %.1f%%", rate))
		}
	}

	for _, w := range warnings {
		logger.Warn("[MONITOR] "+w, nil)
	}
	return warnings
}
