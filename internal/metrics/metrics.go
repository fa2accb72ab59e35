package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts what the error-handling contract says must be counted:
// cache traffic and post-commit reconciliation failures.
type Metrics struct {
	registry *prometheus.Registry

	CacheHits         *prometheus.CounterVec
	CacheMisses       *prometheus.CounterVec
	CacheErrors       *prometheus.CounterVec
	ReconcileFailures *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commerce",
			Name:      "cache_hits_total",
			Help:      "Cache hits by entity.",
		}, []string{"entity"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commerce",
			Name:      "cache_misses_total",
			Help:      "Cache misses by entity.",
		}, []string{"entity"}),
		CacheErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commerce",
			Name:      "cache_errors_total",
			Help:      "Cache operation failures by operation.",
		}, []string{"op"}),
		ReconcileFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commerce",
			Name:      "reconcile_failures_total",
			Help:      "Post-order reconciliation step failures.",
		}, []string{"step"}),
	}

	m.registry.MustRegister(m.CacheHits, m.CacheMisses, m.CacheErrors, m.ReconcileFailures)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
