// Package metrics defines the Prometheus instrumentation for the
// console: backend call outcomes, fixture fallbacks, and cache
// effectiveness.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the console registers. Constructing it
// against an injected registerer keeps tests free of duplicate
// registration panics.
type Metrics struct {
	BackendRequests *prometheus.CounterVec
	Fallbacks       *prometheus.CounterVec
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
}

// New registers all collectors with reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BackendRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reco_console",
			Name:      "backend_requests_total",
			Help:      "Webhook API calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		Fallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reco_console",
			Name:      "fixture_fallbacks_total",
			Help:      "Requests served from fixture data after a backend failure.",
		}, []string{"op"}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "reco_console",
			Name:      "reco_cache_hits_total",
			Help:      "Recommendation responses served from cache.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "reco_console",
			Name:      "reco_cache_misses_total",
			Help:      "Recommendation requests that missed the cache.",
		}),
	}
}

// RecordRequest notes one backend call outcome.
func (m *Metrics) RecordRequest(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.BackendRequests.WithLabelValues(op, outcome).Inc()
}

// RecordFallback notes one request answered from fixtures.
func (m *Metrics) RecordFallback(op string) {
	m.Fallbacks.WithLabelValues(op).Inc()
}
