// Package service orchestrates the custody ledger: inmate registration,
// movements, court appearances and releases. Status derivation lives in the
// statemachine package; this layer loads records, applies the derived
// patches and persists the pair as one unit.
package service

import (
	"context"
	"errors"
	"log/slog"

	custodymetrics "warden/internal/custody/metrics"
	"warden/internal/custody/models"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/audit"
	"warden/pkg/platform/sentinel"
	"warden/pkg/requestcontext"
)

type InmateStore interface {
	CreateIfNumberAvailable(ctx context.Context, i *models.Inmate) error
	FindByID(ctx context.Context, inmateID id.InmateID) (*models.Inmate, error)
	FindByPrisonNumber(ctx context.Context, prisonNumber string) (*models.Inmate, error)
	ListByPrison(ctx context.Context, prisonID id.PrisonID) ([]*models.Inmate, error)
	ListByStatus(ctx context.Context, status id.InmateStatus) ([]*models.Inmate, error)
	CountByStatus(ctx context.Context, prisonID id.PrisonID) (map[id.InmateStatus]int, error)
	Update(ctx context.Context, i *models.Inmate) error
	Delete(ctx context.Context, inmateID id.InmateID) error
}

type MovementStore interface {
	Create(ctx context.Context, m *models.Movement) error
	FindByID(ctx context.Context, movementID id.MovementID) (*models.Movement, error)
	ListByInmate(ctx context.Context, inmateID id.InmateID) ([]*models.Movement, error)
	ListOpen(ctx context.Context) ([]*models.Movement, error)
	ListByType(ctx context.Context, movementType id.MovementType) ([]*models.Movement, error)
	Update(ctx context.Context, m *models.Movement) error
	Delete(ctx context.Context, movementID id.MovementID) error
}

type AppearanceStore interface {
	Create(ctx context.Context, a *models.Appearance) error
	FindByID(ctx context.Context, appearanceID id.AppearanceID) (*models.Appearance, error)
	ListByInmate(ctx context.Context, inmateID id.InmateID) ([]*models.Appearance, error)
	ListUpcoming(ctx context.Context, fromDate string) ([]*models.Appearance, error)
	Update(ctx context.Context, a *models.Appearance) error
	Delete(ctx context.Context, appearanceID id.AppearanceID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// StatsInvalidator drops cached dashboard counts for a facility after a
// write that changes them.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, prisonID id.PrisonID)
}

// Service orchestrates custody operations.
type Service struct {
	inmates        InmateStore
	movements      MovementStore
	appearances    AppearanceStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *custodymetrics.Metrics
	stats          StatsInvalidator
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

func WithMetrics(m *custodymetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithStatsInvalidator(inv StatsInvalidator) Option {
	return func(s *Service) {
		s.stats = inv
	}
}

// New constructs a Service.
func New(inmates InmateStore, movements MovementStore, appearances AppearanceStore, opts ...Option) *Service {
	s := &Service{inmates: inmates, movements: movements, appearances: appearances}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) audit(ctx context.Context, action audit.AuditEvent, subject string, subjectID string, inmateID id.InmateID, reason string) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(action),
			"subject", subject,
			"subject_id", subjectID,
			"inmate_id", inmateID.String(),
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

func (s *Service) invalidateStats(ctx context.Context, prisonID id.PrisonID) {
	if s.stats != nil && !prisonID.IsNil() {
		s.stats.Invalidate(ctx, prisonID)
	}
}

func translateInmateErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "inmate not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "inmate store failure")
}
