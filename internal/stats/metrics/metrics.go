package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the stats module.
type Metrics struct {
	// Cache lookups by outcome (hit, miss, error)
	CacheLookups *prometheus.CounterVec

	// Snapshots dropped after a custody write
	Invalidations prometheus.Counter

	// Fresh counts computed from the inmate store
	Computations prometheus.Counter
}

// New creates a new Metrics instance with all stats module metrics registered.
func New() *Metrics {
	return &Metrics{
		CacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_stats_cache_lookups_total",
			Help: "Total dashboard cache lookups by outcome",
		}, []string{"outcome"}),

		Invalidations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "warden_stats_invalidations_total",
			Help: "Total dashboard snapshots invalidated after custody writes",
		}),

		Computations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "warden_stats_computations_total",
			Help: "Total dashboard snapshots computed from the inmate store",
		}),
	}
}

// IncrementCacheLookup records a cache lookup outcome.
func (m *Metrics) IncrementCacheLookup(outcome string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(outcome).Inc()
	}
}

// IncrementInvalidation records a dropped snapshot.
func (m *Metrics) IncrementInvalidation() {
	if m != nil {
		m.Invalidations.Inc()
	}
}

// IncrementComputation records a fresh count.
func (m *Metrics) IncrementComputation() {
	if m != nil {
		m.Computations.Inc()
	}
}
