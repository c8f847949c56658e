package packet

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting allocation metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordAlloc is called after each allocation attempt.
	// bytes is the block size requested, duration is the time taken,
	// err is nil if successful.
	RecordAlloc(bytes int, duration time.Duration, err error)

	// RecordFree is called after each release.
	RecordFree(bytes int, err error)

	// RecordLeak is called when a packet is garbage collected without Close.
	// Its block is not released.
	RecordLeak(bytes int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAlloc(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordFree(int, error)                 {}
func (NoopMetricsCollector) RecordLeak(int)                        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AllocCount      atomic.Int64
	AllocErrors     atomic.Int64
	AllocBytes      atomic.Int64
	AllocTotalNanos atomic.Int64
	FreeCount       atomic.Int64
	FreeErrors      atomic.Int64
	FreeBytes       atomic.Int64
	LeakCount       atomic.Int64
	LeakBytes       atomic.Int64
}

// RecordAlloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAlloc(bytes int, duration time.Duration, err error) {
	b.AllocCount.Add(1)
	b.AllocTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.AllocErrors.Add(1)
		return
	}
	b.AllocBytes.Add(int64(bytes))
}

// RecordFree implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFree(bytes int, err error) {
	b.FreeCount.Add(1)
	if err != nil {
		b.FreeErrors.Add(1)
		return
	}
	b.FreeBytes.Add(int64(bytes))
}

// RecordLeak implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLeak(bytes int) {
	b.LeakCount.Add(1)
	b.LeakBytes.Add(int64(bytes))
}

// LiveBytes returns bytes allocated and not yet released, leaked blocks
// included.
func (b *BasicMetricsCollector) LiveBytes() int64 {
	return b.AllocBytes.Load() - b.FreeBytes.Load()
}

// BasicMetricsStats is a point-in-time snapshot of BasicMetricsCollector.
type BasicMetricsStats struct {
	AllocCount    int64
	AllocErrors   int64
	AllocAvgNanos int64
	FreeCount     int64
	FreeErrors    int64
	LeakCount     int64
	LiveBytes     int64
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AllocCount:    b.AllocCount.Load(),
		AllocErrors:   b.AllocErrors.Load(),
		AllocAvgNanos: b.getAvgAllocNanos(),
		FreeCount:     b.FreeCount.Load(),
		FreeErrors:    b.FreeErrors.Load(),
		LeakCount:     b.LeakCount.Load(),
		LiveBytes:     b.LiveBytes(),
	}
}

func (b *BasicMetricsCollector) getAvgAllocNanos() int64 {
	count := b.AllocCount.Load()
	if count == 0 {
		return 0
	}
	return b.AllocTotalNanos.Load() / count
}
