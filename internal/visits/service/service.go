// Package service orchestrates visitor appointments: scheduling, gate
// check-in and check-out, denials and cancellations. Workflow guards live on
// the model; this layer loads, applies and persists.
package service

import (
	"context"
	"errors"
	"log/slog"

	visitmetrics "warden/internal/visits/metrics"
	"warden/internal/visits/models"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/audit"
	"warden/pkg/platform/sentinel"
	"warden/pkg/requestcontext"
)

type VisitStore interface {
	Create(ctx context.Context, v *models.Visit) error
	FindByID(ctx context.Context, visitID id.VisitID) (*models.Visit, error)
	ListByInmate(ctx context.Context, inmateID id.InmateID) ([]*models.Visit, error)
	ListByPrison(ctx context.Context, prisonID id.PrisonID) ([]*models.Visit, error)
	ListByStatus(ctx context.Context, status id.VisitStatus) ([]*models.Visit, error)
	Update(ctx context.Context, v *models.Visit) error
	Delete(ctx context.Context, visitID id.VisitID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates visit operations.
type Service struct {
	visits         VisitStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *visitmetrics.Metrics
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

func WithMetrics(m *visitmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(visits VisitStore, opts ...Option) *Service {
	s := &Service{visits: visits}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScheduleVisitParams carries a validated visit request.
type ScheduleVisitParams struct {
	InmateID id.InmateID
	PrisonID id.PrisonID

	FullName     string
	IDNumber     string
	IDType       models.IDType
	Relationship string
	Phone        string
	Address      string
	Email        string
	Reason       string

	ScheduledDate string
}

// ScheduleVisit books a visitor appointment in the scheduled state.
//
// Errors: CodeInvalidInput when visitor identity fields are missing.
func (s *Service) ScheduleVisit(ctx context.Context, params ScheduleVisitParams) (*models.Visit, error) {
	now := requestcontext.Now(ctx)

	visit, err := models.NewVisit(id.NewVisitID(), params.InmateID, params.PrisonID,
		params.FullName, params.IDNumber, params.Relationship, params.Phone, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeInvalidInput, dErrors.Message(err))
		}
		return nil, err
	}
	visit.IDType = params.IDType
	visit.Address = params.Address
	visit.Email = params.Email
	visit.Reason = params.Reason
	visit.ScheduledDate = params.ScheduledDate

	if err := s.visits.Create(ctx, visit); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "visit store failure")
	}

	s.audit(ctx, audit.EventVisitScheduled, visit, "")
	s.metrics.IncrementScheduled()
	return visit, nil
}

// CheckInVisit admits a scheduled visitor at the gate.
//
// Errors: CodeNotFound when the visit does not exist,
// CodeInvariantViolation when the visit is not in the scheduled state.
func (s *Service) CheckInVisit(ctx context.Context, visitID id.VisitID, checkInTime string, approvedByID id.OfficerID, itemsDeclaration string) (*models.Visit, error) {
	visit, err := s.visits.FindByID(ctx, visitID)
	if err != nil {
		return nil, translateVisitErr(err)
	}

	if approvedByID.IsNil() {
		approvedByID = requestcontext.ActorID(ctx)
	}
	if err := visit.CheckIn(checkInTime, approvedByID, itemsDeclaration, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.visits.Update(ctx, visit); err != nil {
		return nil, translateVisitErr(err)
	}

	s.audit(ctx, audit.EventVisitCheckedIn, visit, "")
	s.metrics.IncrementTransition(string(id.VisitCheckedIn))
	return visit, nil
}

// CompleteVisit records the visitor leaving, optionally flagging the visit.
//
// Errors: CodeNotFound when the visit does not exist,
// CodeInvariantViolation when the visitor never checked in.
func (s *Service) CompleteVisit(ctx context.Context, visitID id.VisitID, checkOutTime string, flagged bool, flagReason string) (*models.Visit, error) {
	visit, err := s.visits.FindByID(ctx, visitID)
	if err != nil {
		return nil, translateVisitErr(err)
	}

	if err := visit.Complete(checkOutTime, flagged, flagReason, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.visits.Update(ctx, visit); err != nil {
		return nil, translateVisitErr(err)
	}

	s.audit(ctx, audit.EventVisitCompleted, visit, flagReason)
	s.metrics.IncrementTransition(string(id.VisitCompleted))
	if visit.Flagged {
		s.metrics.IncrementFlagged()
	}
	return visit, nil
}

// DenyVisit turns a visitor away with a mandatory reason.
func (s *Service) DenyVisit(ctx context.Context, visitID id.VisitID, reason string) (*models.Visit, error) {
	visit, err := s.visits.FindByID(ctx, visitID)
	if err != nil {
		return nil, translateVisitErr(err)
	}

	if err := visit.Deny(reason, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.visits.Update(ctx, visit); err != nil {
		return nil, translateVisitErr(err)
	}

	s.audit(ctx, audit.EventVisitDenied, visit, reason)
	s.metrics.IncrementTransition(string(id.VisitDenied))
	return visit, nil
}

// CancelVisit withdraws a scheduled visit.
func (s *Service) CancelVisit(ctx context.Context, visitID id.VisitID) (*models.Visit, error) {
	visit, err := s.visits.FindByID(ctx, visitID)
	if err != nil {
		return nil, translateVisitErr(err)
	}

	if err := visit.Cancel(requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.visits.Update(ctx, visit); err != nil {
		return nil, translateVisitErr(err)
	}

	s.audit(ctx, audit.EventVisitCancelled, visit, "")
	s.metrics.IncrementTransition(string(id.VisitCancelled))
	return visit, nil
}

func (s *Service) GetVisit(ctx context.Context, visitID id.VisitID) (*models.Visit, error) {
	visit, err := s.visits.FindByID(ctx, visitID)
	if err != nil {
		return nil, translateVisitErr(err)
	}
	return visit, nil
}

func (s *Service) ListVisitsByInmate(ctx context.Context, inmateID id.InmateID) ([]*models.Visit, error) {
	visits, err := s.visits.ListByInmate(ctx, inmateID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "visit store failure")
	}
	return visits, nil
}

func (s *Service) ListVisitsByPrison(ctx context.Context, prisonID id.PrisonID) ([]*models.Visit, error) {
	visits, err := s.visits.ListByPrison(ctx, prisonID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "visit store failure")
	}
	return visits, nil
}

func (s *Service) ListVisitsByStatus(ctx context.Context, status id.VisitStatus) ([]*models.Visit, error) {
	visits, err := s.visits.ListByStatus(ctx, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "visit store failure")
	}
	return visits, nil
}

// VisitorsInside lists visitors currently past the gate.
func (s *Service) VisitorsInside(ctx context.Context) ([]*models.Visit, error) {
	return s.ListVisitsByStatus(ctx, id.VisitCheckedIn)
}

// UpdateVisit applies an administrative patch. Status never moves here.
func (s *Service) UpdateVisit(ctx context.Context, visitID id.VisitID, patch models.VisitPatch) (*models.Visit, error) {
	if patch.IsZero() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "patch must change at least one field")
	}

	visit, err := s.visits.FindByID(ctx, visitID)
	if err != nil {
		return nil, translateVisitErr(err)
	}

	visit.ApplyPatch(patch, requestcontext.Now(ctx))
	if err := s.visits.Update(ctx, visit); err != nil {
		return nil, translateVisitErr(err)
	}
	return visit, nil
}

func (s *Service) DeleteVisit(ctx context.Context, visitID id.VisitID) error {
	if err := s.visits.Delete(ctx, visitID); err != nil {
		return translateVisitErr(err)
	}
	return nil
}

func (s *Service) audit(ctx context.Context, action audit.AuditEvent, visit *models.Visit, reason string) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(action),
			"subject", "visit",
			"subject_id", visit.ID.String(),
			"inmate_id", visit.InmateID.String(),
			"request_id", requestcontext.RequestID(ctx),
			"log_type", "audit",
		)
	}
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		Subject:   "visit",
		SubjectID: visit.ID.String(),
		InmateID:  visit.InmateID,
		Action:    string(action),
		ActorID:   requestcontext.ActorID(ctx),
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
	})
}

func translateVisitErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "visit not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "visit store failure")
}
