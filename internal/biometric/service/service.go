// Package service orchestrates the biometric ledger: the photo bucket and
// the per-finger print records shared by inmates and officers. Blob objects
// are released before the row that references them is dropped, so a storage
// failure never leaves a dangling reference.
package service

import (
	"context"
	"errors"
	"log/slog"

	biometricmetrics "warden/internal/biometric/metrics"
	"warden/internal/biometric/models"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/audit"
	"warden/pkg/platform/sentinel"
	"warden/pkg/requestcontext"
)

type PhotoStore interface {
	Create(ctx context.Context, p *models.Photo) error
	FindByID(ctx context.Context, photoID id.PhotoID) (*models.Photo, error)
	ListBySubject(ctx context.Context, subject id.Subject) ([]*models.Photo, error)
	ListUnconfirmed(ctx context.Context) ([]*models.Photo, error)
	Update(ctx context.Context, p *models.Photo) error
	Delete(ctx context.Context, photoID id.PhotoID) error
}

type FingerprintStore interface {
	Create(ctx context.Context, f *models.Fingerprint) error
	FindByID(ctx context.Context, fingerprintID id.FingerprintID) (*models.Fingerprint, error)
	FindBySlot(ctx context.Context, subject id.Subject, finger id.Finger) (*models.Fingerprint, error)
	ListBySubject(ctx context.Context, subject id.Subject) ([]*models.Fingerprint, error)
	ListUnconfirmed(ctx context.Context) ([]*models.Fingerprint, error)
	Update(ctx context.Context, f *models.Fingerprint) error
	Delete(ctx context.Context, fingerprintID id.FingerprintID) error
}

// BlobStore issues upload URLs and releases stored objects.
type BlobStore interface {
	GenerateUploadURL(ctx context.Context) (string, id.StorageRef, error)
	Delete(ctx context.Context, ref id.StorageRef) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates biometric operations.
type Service struct {
	photos         PhotoStore
	fingerprints   FingerprintStore
	blobs          BlobStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *biometricmetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *biometricmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(photos PhotoStore, fingerprints FingerprintStore, blobs BlobStore, opts ...Option) *Service {
	s := &Service{photos: photos, fingerprints: fingerprints, blobs: blobs}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateUploadURL mints a signed URL for a device to push a capture to,
// along with the storage reference the capture record should carry.
func (s *Service) GenerateUploadURL(ctx context.Context) (string, id.StorageRef, error) {
	url, ref, err := s.blobs.GenerateUploadURL(ctx)
	if err != nil {
		return "", "", dErrors.Wrap(err, dErrors.CodeUnavailable, "blob storage unavailable")
	}
	return url, ref, nil
}

// releaseStorage frees a blob object before the record referencing it goes
// away. A missing object means it was already released and is not an error;
// anything else aborts the caller.
func (s *Service) releaseStorage(ctx context.Context, ref id.StorageRef) error {
	if ref.IsZero() {
		return nil
	}
	err := s.blobs.Delete(ctx, ref)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "blob storage unavailable")
	}
	s.metrics.IncrementStorageRelease()
	return nil
}

func (s *Service) audit(ctx context.Context, action audit.AuditEvent, subject string, subjectID string, recordSubject id.Subject, reason string) {
	var inmateID id.InmateID
	if ref, ok := recordSubject.InmateID(); ok {
		inmateID = ref
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(action),
			"subject", subject,
			"subject_id", subjectID,
			"record_subject", recordSubject.Key(),
			"request_id", requestcontext.RequestID(ctx),
			"log_type", "audit",
		)
	}
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		Subject:   subject,
		SubjectID: subjectID,
		InmateID:  inmateID,
		Action:    string(action),
		ActorID:   requestcontext.ActorID(ctx),
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
	})
}

// reviewer resolves who is confirming a record: an explicit reviewer wins,
// otherwise the authenticated actor.
func reviewer(ctx context.Context, explicit id.OfficerID) (id.OfficerID, error) {
	if !explicit.IsNil() {
		return explicit, nil
	}
	if actor := requestcontext.ActorID(ctx); !actor.IsNil() {
		return actor, nil
	}
	return id.OfficerID{}, dErrors.New(dErrors.CodeInvalidInput, "reviewer is required")
}

func translatePhotoErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "photo not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "photo store failure")
}

func translateFingerprintErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "fingerprint not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "fingerprint store failure")
}
