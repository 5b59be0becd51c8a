// Package monitoring provides Prometheus instrumentation for the
// assessment engine's shared infrastructure.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's Prometheus collectors.
type Metrics struct {
	ResolutionsTotal *prometheus.CounterVec
	CacheOpsTotal    *prometheus.CounterVec
	SearchDuration   prometheus.Histogram
	AssessmentsTotal *prometheus.CounterVec
}

// NewMetrics registers and returns the engine collectors. Safe to call
// once per process; collectors register on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		ResolutionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nutrilens",
			Subsystem: "evidence",
			Name:      "resolutions_total",
			Help:      "Additive evidence resolutions by strategy outcome.",
		}, []string{"strategy"}),

		CacheOpsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nutrilens",
			Subsystem: "evidence",
			Name:      "cache_ops_total",
			Help:      "Evidence cache operations by result.",
		}, []string{"op", "result"}),

		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nutrilens",
			Subsystem: "evidence",
			Name:      "search_duration_seconds",
			Help:      "Latency of the external evidence search collaborator.",
			Buckets:   prometheus.DefBuckets,
		}),

		AssessmentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nutrilens",
			Subsystem: "assessment",
			Name:      "assessments_total",
			Help:      "Scoring and classification calls by kind.",
		}, []string{"kind"}),
	}
}
