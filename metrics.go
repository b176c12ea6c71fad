package buffile

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    fetchCounter   *prometheus.CounterVec
//	    flushHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordFetch(hit bool) {
//	    p.fetchCounter.WithLabelValues(strconv.FormatBool(hit)).Inc()
//	}
type MetricsCollector interface {
	// RecordFetch is called for every slab lookup. hit is false when the
	// slab had to be loaded from the medium.
	RecordFetch(hit bool)

	// RecordEviction is called after a slab leaves the cache.
	RecordEviction(dirty bool)

	// RecordWriteBack is called after each attempt to persist a dirty slab.
	// bytes is the number of bytes the attempt covered.
	RecordWriteBack(bytes int, duration time.Duration, err error)

	// RecordExtend is called after the medium was zero-filled by bytes.
	RecordExtend(bytes int)

	// RecordFlush is called after each Flush. slabs is the number of dirty
	// slabs it found.
	RecordFlush(slabs int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFetch(bool)                          {}
func (NoopMetricsCollector) RecordEviction(bool)                       {}
func (NoopMetricsCollector) RecordWriteBack(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordExtend(int)                          {}
func (NoopMetricsCollector) RecordFlush(int, time.Duration, error)     {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	Hits                atomic.Int64
	Misses              atomic.Int64
	Evictions           atomic.Int64
	DirtyEvictions      atomic.Int64
	WriteBackCount      atomic.Int64
	WriteBackErrors     atomic.Int64
	WriteBackBytes      atomic.Int64
	WriteBackTotalNanos atomic.Int64
	ExtendBytes         atomic.Int64
	FlushCount          atomic.Int64
	FlushErrors         atomic.Int64
	FlushTotalNanos     atomic.Int64
}

// RecordFetch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFetch(hit bool) {
	if hit {
		b.Hits.Add(1)
	} else {
		b.Misses.Add(1)
	}
}

// RecordEviction implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEviction(dirty bool) {
	b.Evictions.Add(1)
	if dirty {
		b.DirtyEvictions.Add(1)
	}
}

// RecordWriteBack implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWriteBack(bytes int, duration time.Duration, err error) {
	b.WriteBackCount.Add(1)
	b.WriteBackTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.WriteBackErrors.Add(1)
		return
	}
	b.WriteBackBytes.Add(int64(bytes))
}

// RecordExtend implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExtend(bytes int) {
	b.ExtendBytes.Add(int64(bytes))
}

// RecordFlush implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFlush(_ int, duration time.Duration, err error) {
	b.FlushCount.Add(1)
	b.FlushTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FlushErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		Hits:              b.Hits.Load(),
		Misses:            b.Misses.Load(),
		HitRatio:          b.hitRatio(),
		Evictions:         b.Evictions.Load(),
		DirtyEvictions:    b.DirtyEvictions.Load(),
		WriteBackCount:    b.WriteBackCount.Load(),
		WriteBackErrors:   b.WriteBackErrors.Load(),
		WriteBackBytes:    b.WriteBackBytes.Load(),
		WriteBackAvgNanos: avg(b.WriteBackTotalNanos.Load(), b.WriteBackCount.Load()),
		ExtendBytes:       b.ExtendBytes.Load(),
		FlushCount:        b.FlushCount.Load(),
		FlushErrors:       b.FlushErrors.Load(),
		FlushAvgNanos:     avg(b.FlushTotalNanos.Load(), b.FlushCount.Load()),
	}
}

func (b *BasicMetricsCollector) hitRatio() float64 {
	hits, misses := b.Hits.Load(), b.Misses.Load()
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	Hits              int64
	Misses            int64
	HitRatio          float64
	Evictions         int64
	DirtyEvictions    int64
	WriteBackCount    int64
	WriteBackErrors   int64
	WriteBackBytes    int64
	WriteBackAvgNanos int64
	ExtendBytes       int64
	FlushCount        int64
	FlushErrors       int64
	FlushAvgNanos     int64
}
