// Package metrics registers Prometheus instrumentation for upstream fetches
// and analysis requests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the dashboard service.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec // labels: provider, operation, outcome
	UpstreamDuration prometheus.Histogram
	AnalysesTotal    prometheus.Counter
	FallbacksTotal   prometheus.Counter
	CacheHits        prometheus.Counter
	StaleServed      prometheus.Counter
}

// New registers and returns all metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_upstream_requests_total",
			Help: "Upstream provider requests by operation and outcome",
		}, []string{"provider", "operation", "outcome"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_upstream_duration_seconds",
			Help:    "Upstream provider request duration",
			Buckets: prometheus.DefBuckets,
		}),
		AnalysesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_analyses_total",
			Help: "Analysis requests served",
		}),
		FallbacksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_analysis_fallbacks_total",
			Help: "Analyses that resolved to the indicator-only fallback",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_snapshot_cache_hits_total",
			Help: "Listing requests served from the fresh snapshot cache",
		}),
		StaleServed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dashboard_snapshot_stale_served_total",
			Help: "Listing requests served from a stale snapshot after a fetch failure",
		}),
	}

	reg.MustRegister(
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.AnalysesTotal,
		m.FallbacksTotal,
		m.CacheHits,
		m.StaleServed,
	)
	return m
}
