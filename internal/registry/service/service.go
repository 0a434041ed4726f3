// Package service orchestrates the facility, court, offense and officer
// lookup registries. The create paths enforce the business-key uniqueness
// rules (facility code, badge number) via check-then-insert stores.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"warden/internal/registry/models"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/audit"
	"warden/pkg/platform/sentinel"
	"warden/pkg/requestcontext"
)

type PrisonStore interface {
	CreateIfCodeAvailable(ctx context.Context, p *models.Prison) error
	FindByID(ctx context.Context, prisonID id.PrisonID) (*models.Prison, error)
	FindByCode(ctx context.Context, code string) (*models.Prison, error)
	List(ctx context.Context) ([]*models.Prison, error)
	Update(ctx context.Context, p *models.Prison) error
}

type OfficerStore interface {
	CreateIfBadgeAvailable(ctx context.Context, o *models.Officer) error
	FindByID(ctx context.Context, officerID id.OfficerID) (*models.Officer, error)
	FindByBadge(ctx context.Context, badgeNumber string) (*models.Officer, error)
	ListByPrison(ctx context.Context, prisonID id.PrisonID) ([]*models.Officer, error)
	Update(ctx context.Context, o *models.Officer) error
}

type CourtStore interface {
	Create(ctx context.Context, c *models.Court) error
	FindByID(ctx context.Context, courtID id.CourtID) (*models.Court, error)
	List(ctx context.Context) ([]*models.Court, error)
}

type OffenseStore interface {
	Create(ctx context.Context, o *models.Offense) error
	FindByID(ctx context.Context, offenseID id.OffenseID) (*models.Offense, error)
	List(ctx context.Context) ([]*models.Offense, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates registry management.
type Service struct {
	prisons        PrisonStore
	officers       OfficerStore
	courts         CourtStore
	offenses       OffenseStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
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

// New constructs a Service.
func New(prisons PrisonStore, officers OfficerStore, courts CourtStore, offenses OffenseStore, opts ...Option) *Service {
	s := &Service{prisons: prisons, officers: officers, courts: courts, offenses: offenses}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePrisonParams carries the fields accepted at facility registration.
type CreatePrisonParams struct {
	Name         string
	Code         string
	Type         models.PrisonType
	Region       string
	District     string
	Address      string
	Capacity     int
	ContactPhone string
}

func (s *Service) CreatePrison(ctx context.Context, params CreatePrisonParams) (*models.Prison, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.Code = strings.TrimSpace(params.Code)

	p, err := models.NewPrison(id.NewPrisonID(), params.Name, params.Code, params.Type, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeInvalidInput, dErrors.Message(err))
		}
		return nil, err
	}
	p.Region = params.Region
	p.District = params.District
	p.Address = params.Address
	p.Capacity = params.Capacity
	p.ContactPhone = params.ContactPhone

	if err := s.prisons.CreateIfCodeAvailable(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "prison code must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create prison")
	}

	s.audit(ctx, audit.Event{
		Subject:   "prison",
		SubjectID: p.ID.String(),
		Action:    string(audit.EventPrisonRegistered),
	})
	return p, nil
}

func (s *Service) GetPrison(ctx context.Context, prisonID id.PrisonID) (*models.Prison, error) {
	p, err := s.prisons.FindByID(ctx, prisonID)
	if err != nil {
		return nil, translateLookupErr(err, "prison")
	}
	return p, nil
}

func (s *Service) ListPrisons(ctx context.Context) ([]*models.Prison, error) {
	prisons, err := s.prisons.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list prisons")
	}
	return prisons, nil
}

// CreateOfficerParams carries the fields accepted at officer registration.
type CreateOfficerParams struct {
	PrisonID    id.PrisonID
	Name        string
	BadgeNumber string
	Rank        string
	Phone       string
}

func (s *Service) CreateOfficer(ctx context.Context, params CreateOfficerParams) (*models.Officer, error) {
	params.Name = strings.TrimSpace(params.Name)
	params.BadgeNumber = strings.TrimSpace(params.BadgeNumber)

	// The posting must exist before the badge check runs.
	if _, err := s.prisons.FindByID(ctx, params.PrisonID); err != nil {
		return nil, translateLookupErr(err, "prison")
	}

	o, err := models.NewOfficer(id.NewOfficerID(), params.PrisonID, params.Name, params.BadgeNumber, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeInvalidInput, dErrors.Message(err))
		}
		return nil, err
	}
	o.Rank = params.Rank
	o.Phone = params.Phone

	if err := s.officers.CreateIfBadgeAvailable(ctx, o); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "badge number must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create officer")
	}

	s.audit(ctx, audit.Event{
		Subject:   "officer",
		SubjectID: o.ID.String(),
		Action:    string(audit.EventOfficerRegistered),
	})
	return o, nil
}

func (s *Service) GetOfficer(ctx context.Context, officerID id.OfficerID) (*models.Officer, error) {
	o, err := s.officers.FindByID(ctx, officerID)
	if err != nil {
		return nil, translateLookupErr(err, "officer")
	}
	return o, nil
}

func (s *Service) ListOfficersByPrison(ctx context.Context, prisonID id.PrisonID) ([]*models.Officer, error) {
	officers, err := s.officers.ListByPrison(ctx, prisonID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list officers")
	}
	return officers, nil
}

// CreateCourtParams carries the fields accepted at court registration.
type CreateCourtParams struct {
	Name     string
	Type     models.CourtType
	District string
	Address  string
}

func (s *Service) CreateCourt(ctx context.Context, params CreateCourtParams) (*models.Court, error) {
	params.Name = strings.TrimSpace(params.Name)

	c, err := models.NewCourt(id.NewCourtID(), params.Name, params.Type, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeInvalidInput, dErrors.Message(err))
		}
		return nil, err
	}
	c.District = params.District
	c.Address = params.Address

	if err := s.courts.Create(ctx, c); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create court")
	}
	return c, nil
}

func (s *Service) GetCourt(ctx context.Context, courtID id.CourtID) (*models.Court, error) {
	c, err := s.courts.FindByID(ctx, courtID)
	if err != nil {
		return nil, translateLookupErr(err, "court")
	}
	return c, nil
}

func (s *Service) ListCourts(ctx context.Context) ([]*models.Court, error) {
	courts, err := s.courts.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list courts")
	}
	return courts, nil
}

// CreateOffenseParams carries the fields accepted at offense registration.
type CreateOffenseParams struct {
	Name             string
	Act              string
	Section          string
	Chapter          string
	Category         models.OffenseCategory
	AmendedBy        string
	Description      string
	MaxSentenceYears int
}

func (s *Service) CreateOffense(ctx context.Context, params CreateOffenseParams) (*models.Offense, error) {
	params.Name = strings.TrimSpace(params.Name)

	o, err := models.NewOffense(id.NewOffenseID(), params.Name, params.Category, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeInvalidInput, dErrors.Message(err))
		}
		return nil, err
	}
	o.Act = params.Act
	o.Section = params.Section
	o.Chapter = params.Chapter
	o.AmendedBy = params.AmendedBy
	o.Description = params.Description
	o.MaxSentenceYears = params.MaxSentenceYears

	if err := s.offenses.Create(ctx, o); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create offense")
	}
	return o, nil
}

func (s *Service) GetOffense(ctx context.Context, offenseID id.OffenseID) (*models.Offense, error) {
	o, err := s.offenses.FindByID(ctx, offenseID)
	if err != nil {
		return nil, translateLookupErr(err, "offense")
	}
	return o, nil
}

func (s *Service) ListOffenses(ctx context.Context) ([]*models.Offense, error) {
	offenses, err := s.offenses.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list offenses")
	}
	return offenses, nil
}

func (s *Service) audit(ctx context.Context, event audit.Event) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, event.Action,
			"subject", event.Subject,
			"subject_id", event.SubjectID,
			"request_id", requestcontext.RequestID(ctx),
			"log_type", "audit",
		)
	}
	if s.auditPublisher == nil {
		return
	}
	event.ActorID = requestcontext.ActorID(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	_ = s.auditPublisher.Emit(ctx, event)
}

func translateLookupErr(err error, entity string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Newf(dErrors.CodeNotFound, "%s not found", entity)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+entity)
}
