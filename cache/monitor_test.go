package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fraiseql/fraiseql-core/cache"
)

func TestMonitor_CheckHealth_Healthy(t *testing.T) {
	m := cache.NewMonitor()
	for i := 0; i < 9; i++ {
		m.RecordPut(100)
	}
	report := m.CheckHealth(cache.Thresholds{
		MinHitRate: 0, MaxMissRate: 1, MaxInvalidationRate: 1,
		MaxMemoryBytes: 1024, MinHitsPerSecond: 0,
	})
	assert.Equal(t, cache.Healthy, report.Status)
	assert.Empty(t, report.Reason)
}

func TestMonitor_CheckHealth_UnhealthyOverMemory(t *testing.T) {
	m := cache.NewMonitor()
	m.RecordPut(2048)
	report := m.CheckHealth(cache.Thresholds{MaxMemoryBytes: 1024})
	assert.Equal(t, cache.Unhealthy, report.Status)
	assert.NotEmpty(t, report.Reason)
}

func TestMonitor_SnapshotCounters(t *testing.T) {
	m := cache.NewMonitor()
	m.RecordPut(10)
	c := m.Snapshot()
	assert.Equal(t, int64(1), c.CachedTotal)
	assert.Equal(t, int64(10), c.PeakMemory)
}
