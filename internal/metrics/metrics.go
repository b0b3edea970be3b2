// internal/metrics/metrics.go

// Package metrics defines the engine's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine collectors. The resolutions counter is labeled by
// provenance so the share of synthetic answers is directly observable.
type Metrics struct {
	Resolutions       *prometheus.CounterVec
	TierFailures      *prometheus.CounterVec
	CacheHits         *prometheus.CounterVec
	GeneratorDuration prometheus.Histogram
}

// New registers the collectors against reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trendlens",
			Name:      "resolutions_total",
			Help:      "Resolved requests by kind and the tier that answered.",
		}, []string{"kind", "provenance"}),
		TierFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trendlens",
			Name:      "tier_failures_total",
			Help:      "Tier attempts that failed and fell through.",
		}, []string{"kind", "tier"}),
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trendlens",
			Name:      "cache_hits_total",
			Help:      "Resolutions served from the result cache.",
		}, []string{"kind"}),
		GeneratorDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trendlens",
			Name:      "generator_duration_seconds",
			Help:      "Wall-clock duration of external generator invocations.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}
}

// NewNop returns metrics backed by a throwaway registry, for tests.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
