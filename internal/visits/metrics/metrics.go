package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the visits module.
type Metrics struct {
	// Visits scheduled
	VisitsScheduled prometheus.Counter

	// Workflow transitions by resulting status
	Transitions *prometheus.CounterVec

	// Visits flagged at check-out
	FlaggedVisits prometheus.Counter
}

// New creates a new Metrics instance with all visits module metrics registered.
func New() *Metrics {
	return &Metrics{
		VisitsScheduled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "warden_visits_scheduled_total",
			Help: "Total visits scheduled",
		}),

		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_visits_transitions_total",
			Help: "Total visit workflow transitions by resulting status",
		}, []string{"status"}),

		FlaggedVisits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "warden_visits_flagged_total",
			Help: "Total visits flagged at check-out",
		}),
	}
}

// IncrementScheduled records a scheduled visit.
func (m *Metrics) IncrementScheduled() {
	if m != nil {
		m.VisitsScheduled.Inc()
	}
}

// IncrementTransition records a workflow transition.
func (m *Metrics) IncrementTransition(status string) {
	if m != nil {
		m.Transitions.WithLabelValues(status).Inc()
	}
}

// IncrementFlagged records a flagged check-out.
func (m *Metrics) IncrementFlagged() {
	if m != nil {
		m.FlaggedVisits.Inc()
	}
}
