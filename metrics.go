package sparsecdf

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordWrite is called after each object write.
	// duration is the total time taken, err is nil if successful.
	RecordWrite(duration time.Duration, err error)

	// RecordRead is called after each object read.
	// duration is the total time taken, err is nil if successful.
	RecordRead(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordWrite(time.Duration, error) {}
func (NoopMetricsCollector) RecordRead(time.Duration, error)  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	WriteCount      atomic.Int64
	WriteErrors     atomic.Int64
	WriteTotalNanos atomic.Int64
	ReadCount       atomic.Int64
	ReadErrors      atomic.Int64
	ReadTotalNanos  atomic.Int64
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(duration time.Duration, err error) {
	b.WriteCount.Add(1)
	b.WriteTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.WriteErrors.Add(1)
	}
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(duration time.Duration, err error) {
	b.ReadCount.Add(1)
	b.ReadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReadErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		WriteCount:    b.WriteCount.Load(),
		WriteErrors:   b.WriteErrors.Load(),
		WriteAvgNanos: avgNanos(b.WriteTotalNanos.Load(), b.WriteCount.Load()),
		ReadCount:     b.ReadCount.Load(),
		ReadErrors:    b.ReadErrors.Load(),
		ReadAvgNanos:  avgNanos(b.ReadTotalNanos.Load(), b.ReadCount.Load()),
	}
}

func avgNanos(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	WriteCount    int64
	WriteErrors   int64
	WriteAvgNanos int64
	ReadCount     int64
	ReadErrors    int64
	ReadAvgNanos  int64
}
