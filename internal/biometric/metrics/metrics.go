package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the biometric module.
type Metrics struct {
	// Photos accepted into the ledger by provider
	PhotosCaptured *prometheus.CounterVec

	// Fingerprints accepted by provider, including slot replacements
	FingerprintsCaptured *prometheus.CounterVec

	// Review decisions by record kind and verdict
	Reviews *prometheus.CounterVec

	// Blob objects released during replacement or deletion
	StorageReleases prometheus.Counter
}

// New creates a new Metrics instance with all biometric module metrics registered.
func New() *Metrics {
	return &Metrics{
		PhotosCaptured: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_biometric_photos_total",
			Help: "Total photos added by provider",
		}, []string{"provider"}),

		FingerprintsCaptured: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_biometric_fingerprints_total",
			Help: "Total fingerprints captured by provider",
		}, []string{"provider"}),

		Reviews: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "warden_biometric_reviews_total",
			Help: "Total confirmation decisions by record kind and verdict",
		}, []string{"record", "verdict"}), // record: "photo", "fingerprint"; verdict: "confirmed", "rejected"

		StorageReleases: promauto.NewCounter(prometheus.CounterOpts{
			Name: "warden_biometric_storage_releases_total",
			Help: "Total blob objects released on replacement or deletion",
		}),
	}
}

// IncrementPhoto records an accepted photo.
func (m *Metrics) IncrementPhoto(provider string) {
	if m != nil {
		m.PhotosCaptured.WithLabelValues(provider).Inc()
	}
}

// IncrementFingerprint records an accepted fingerprint capture.
func (m *Metrics) IncrementFingerprint(provider string) {
	if m != nil {
		m.FingerprintsCaptured.WithLabelValues(provider).Inc()
	}
}

// IncrementReview records a confirmation decision.
func (m *Metrics) IncrementReview(record, verdict string) {
	if m != nil {
		m.Reviews.WithLabelValues(record, verdict).Inc()
	}
}

// IncrementStorageRelease records a freed blob object.
func (m *Metrics) IncrementStorageRelease() {
	if m != nil {
		m.StorageReleases.Inc()
	}
}
