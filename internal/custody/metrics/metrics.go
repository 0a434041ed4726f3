package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the custody module.
type Metrics struct {
	// Registrations accepted
	InmatesRegistered prometheus.Counter

	// Status transitions by resulting status and the event that drove them
	StatusTransitions *prometheus.CounterVec

	// Movements recorded by type
	MovementsRecorded *prometheus.CounterVec

	// Court outcomes recorded
	OutcomesRecorded *prometheus.CounterVec
}

// New creates a new Metrics instance with all custody module metrics registered.
func New() *Metrics {
	return &Metrics{
		InmatesRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "warden_custody_inmates_registered_total",
			Help: "Total inmates registered",
		}),

		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_custody_status_transitions_total",
			Help: "Total custody status transitions by resulting status and trigger",
		}, []string{"status", "trigger"}), // trigger: "movement", "outcome", "release", "manual"

		MovementsRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_custody_movements_total",
			Help: "Total movements recorded by type",
		}, []string{"type"}),

		OutcomesRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_custody_outcomes_total",
			Help: "Total court outcomes recorded",
		}, []string{"outcome"}),
	}
}

// IncrementRegistered records an accepted inmate registration.
func (m *Metrics) IncrementRegistered() {
	if m != nil {
		m.InmatesRegistered.Inc()
	}
}

// IncrementTransition records a status transition.
func (m *Metrics) IncrementTransition(status, trigger string) {
	if m != nil {
		m.StatusTransitions.WithLabelValues(status, trigger).Inc()
	}
}

// IncrementMovement records a movement by type.
func (m *Metrics) IncrementMovement(movementType string) {
	if m != nil {
		m.MovementsRecorded.WithLabelValues(movementType).Inc()
	}
}

// IncrementOutcome records a court outcome.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.OutcomesRecorded.WithLabelValues(outcome).Inc()
	}
}
