package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolStats_Derived(t *testing.T) {
	s := &PoolStats{
		AcquireCount:    4,
		AcquireDuration: 400 * time.Millisecond,
		AcquiredConns:   9,
		MaxConns:        10,
	}
	assert.Equal(t, 100*time.Millisecond, s.AvgAcquireDuration())
	assert.InDelta(t, 90.0, s.Utilization(), 0.001)

	empty := &PoolStats{}
	assert.Zero(t, empty.AvgAcquireDuration())
	assert.Zero(t, empty.Utilization())
}

func TestCheckPoolStats(t *testing.T) {
	healthy := &PoolStats{AcquireCount: 100, AcquireDuration: time.Second, AcquiredConns: 2, MaxConns: 10}
	assert.Empty(t, checkPoolStats(healthy))

	busy := &PoolStats{
		AcquireCount:         10,
		AcquireDuration:      5 * time.Second,
		AcquiredConns:        10,
		MaxConns:             10,
		CanceledAcquireCount: 3,
	}
	assert.Len(t, checkPoolStats(busy), 3)
}

func TestStats_NotConnected(t *testing.T) {
	db := NewPostgresDB(&DBConfig{})
	_, err := db.Stats()
	assert.Error(t, err)
}
