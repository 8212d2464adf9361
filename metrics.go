package meshid

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
//	    reverseBuilds   prometheus.Counter
//	    translateHist   prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordReverseBuild(size int, duration time.Duration) {
//	    p.reverseBuilds.Inc()
//	}
type MetricsCollector interface {
	// RecordSetMap is called after each segment insertion.
	RecordSetMap(count int, duration time.Duration, err error)

	// RecordReverseBuild is called once per build phase when the reverse
	// lookup order is constructed.
	RecordReverseBuild(size int, duration time.Duration)

	// RecordLookup is called after each single GlobalToLocal call.
	// found is false if the id was not present.
	RecordLookup(found bool)

	// RecordTranslate is called after each bulk translation.
	// op is one of "map", "reverse_map" or "implicit_map".
	RecordTranslate(op string, count int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSetMap(int, time.Duration, error)            {}
func (NoopMetricsCollector) RecordReverseBuild(int, time.Duration)             {}
func (NoopMetricsCollector) RecordLookup(bool)                                 {}
func (NoopMetricsCollector) RecordTranslate(string, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SetMapCount         atomic.Int64
	SetMapItems         atomic.Int64
	SetMapErrors        atomic.Int64
	ReverseBuildCount   atomic.Int64
	ReverseBuildNanos   atomic.Int64
	LookupCount         atomic.Int64
	LookupMisses        atomic.Int64
	TranslateCount      atomic.Int64
	TranslateItems      atomic.Int64
	TranslateErrors     atomic.Int64
	TranslateTotalNanos atomic.Int64
}

// RecordSetMap implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSetMap(count int, _ time.Duration, err error) {
	b.SetMapCount.Add(1)
	b.SetMapItems.Add(int64(count))
	if err != nil {
		b.SetMapErrors.Add(1)
	}
}

// RecordReverseBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReverseBuild(_ int, duration time.Duration) {
	b.ReverseBuildCount.Add(1)
	b.ReverseBuildNanos.Add(duration.Nanoseconds())
}

// RecordLookup implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLookup(found bool) {
	b.LookupCount.Add(1)
	if !found {
		b.LookupMisses.Add(1)
	}
}

// RecordTranslate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTranslate(_ string, count int, duration time.Duration, err error) {
	b.TranslateCount.Add(1)
	b.TranslateItems.Add(int64(count))
	b.TranslateTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TranslateErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SetMapCount:       b.SetMapCount.Load(),
		SetMapItems:       b.SetMapItems.Load(),
		SetMapErrors:      b.SetMapErrors.Load(),
		ReverseBuildCount: b.ReverseBuildCount.Load(),
		ReverseBuildNanos: b.ReverseBuildNanos.Load(),
		LookupCount:       b.LookupCount.Load(),
		LookupMisses:      b.LookupMisses.Load(),
		TranslateCount:    b.TranslateCount.Load(),
		TranslateItems:    b.TranslateItems.Load(),
		TranslateErrors:   b.TranslateErrors.Load(),
		TranslateAvgNanos: b.getAvgTranslateNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgTranslateNanos() int64 {
	count := b.TranslateCount.Load()
	if count == 0 {
		return 0
	}
	return b.TranslateTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SetMapCount       int64
	SetMapItems       int64
	SetMapErrors      int64
	ReverseBuildCount int64
	ReverseBuildNanos int64
	LookupCount       int64
	LookupMisses      int64
	TranslateCount    int64
	TranslateItems    int64
	TranslateErrors   int64
	TranslateAvgNanos int64
}
