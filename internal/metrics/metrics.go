package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains the Prometheus instrumentation for the snapshot service.
// All record methods tolerate a nil receiver so tests can pass nil.
type Metrics struct {
	ProviderAttempts *prometheus.CounterVec
	SnapshotDuration prometheus.Histogram
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
}

// New creates and registers all metrics on the default registry. Call once
// per process.
func New() *Metrics {
	return &Metrics{
		ProviderAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "snapshot_provider_attempts_total",
			Help: "Provider fetch attempts by provider name and outcome",
		}, []string{"provider", "outcome"}),

		SnapshotDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "snapshot_build_duration_seconds",
			Help:    "Time to acquire data and assemble a snapshot",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "snapshot_cache_hits_total",
			Help: "Snapshot cache hits",
		}),

		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "snapshot_cache_misses_total",
			Help: "Snapshot cache misses",
		}),
	}
}

// RecordProviderAttempt counts one provider trial outcome ("success" or
// "failure").
func (m *Metrics) RecordProviderAttempt(provider, outcome string) {
	if m == nil {
		return
	}
	m.ProviderAttempts.WithLabelValues(provider, outcome).Inc()
}

// RecordSnapshotDuration observes one snapshot build duration in seconds.
func (m *Metrics) RecordSnapshotDuration(seconds float64) {
	if m == nil {
		return
	}
	m.SnapshotDuration.Observe(seconds)
}

// RecordCacheHit counts a snapshot cache hit.
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// RecordCacheMiss counts a snapshot cache miss.
func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}
