package service

import (
	"context"
	"errors"

	"warden/internal/custody/models"
	"warden/internal/custody/statemachine"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/audit"
	"warden/pkg/platform/sentinel"
	"warden/pkg/requestcontext"
)

// ScheduleAppearanceParams carries the fields accepted when scheduling a
// court appearance.
type ScheduleAppearanceParams struct {
	InmateID      id.InmateID
	CourtID       id.CourtID
	OfficerID     id.OfficerID
	ScheduledDate string
	DepartureTime string
	Notes         string
}

// ScheduleAppearance writes the appearance and moves the inmate's next court
// date to the scheduled date. The inmate is loaded first; NotFound aborts
// before the appearance row exists.
func (s *Service) ScheduleAppearance(ctx context.Context, params ScheduleAppearanceParams) (*models.Appearance, error) {
	inmate, err := s.inmates.FindByID(ctx, params.InmateID)
	if err != nil {
		return nil, translateInmateErr(err)
	}

	now := requestcontext.Now(ctx)
	appearance, err := models.NewAppearance(id.NewAppearanceID(), params.InmateID, params.CourtID, params.ScheduledDate, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeInvalidInput, dErrors.Message(err))
		}
		return nil, err
	}
	appearance.OfficerID = params.OfficerID
	appearance.DepartureTime = params.DepartureTime
	appearance.Notes = params.Notes

	if err := s.appearances.Create(ctx, appearance); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to schedule appearance")
	}

	inmate.Apply(statemachine.OnAppearanceScheduled(appearance.ScheduledDate), now)
	if err := s.inmates.Update(ctx, inmate); err != nil {
		return nil, translateInmateErr(err)
	}

	s.audit(ctx, audit.EventAppearanceScheduled, "appearance", appearance.ID.String(), inmate.ID, "")
	return appearance, nil
}

// RecordOutcomeParams carries the fields accepted when recording an outcome.
type RecordOutcomeParams struct {
	AppearanceID id.AppearanceID
	Outcome      id.CourtOutcome
	ReturnTime   string
	NextDate     string
	Notes        string
}

// RecordOutcome stamps the outcome on the appearance and applies the derived
// status patch to the inmate.
func (s *Service) RecordOutcome(ctx context.Context, params RecordOutcomeParams) (*models.Appearance, error) {
	if !params.Outcome.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid court outcome %q", params.Outcome)
	}

	appearance, err := s.appearances.FindByID(ctx, params.AppearanceID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "appearance not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load appearance")
	}

	inmate, err := s.inmates.FindByID(ctx, appearance.InmateID)
	if err != nil {
		return nil, translateInmateErr(err)
	}

	now := requestcontext.Now(ctx)
	appearance.RecordOutcome(params.Outcome, params.ReturnTime, params.NextDate, params.Notes, now)
	if err := s.appearances.Update(ctx, appearance); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update appearance")
	}

	patch := statemachine.OnCourtOutcome(params.Outcome, params.NextDate)
	inmate.Apply(patch, now)
	if err := s.inmates.Update(ctx, inmate); err != nil {
		return nil, translateInmateErr(err)
	}

	s.audit(ctx, audit.EventOutcomeRecorded, "appearance", appearance.ID.String(), inmate.ID, params.Outcome.String())
	s.metrics.IncrementOutcome(params.Outcome.String())
	if patch.Status != nil {
		s.metrics.IncrementTransition(patch.Status.String(), "outcome")
	}
	s.invalidateStats(ctx, inmate.PrisonID)
	return appearance, nil
}

func (s *Service) GetAppearance(ctx context.Context, appearanceID id.AppearanceID) (*models.Appearance, error) {
	appearance, err := s.appearances.FindByID(ctx, appearanceID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "appearance not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load appearance")
	}
	return appearance, nil
}

func (s *Service) ListAppearancesByInmate(ctx context.Context, inmateID id.InmateID) ([]*models.Appearance, error) {
	appearances, err := s.appearances.ListByInmate(ctx, inmateID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list appearances")
	}
	return appearances, nil
}

// ListUpcomingAppearances returns appearances scheduled on or after fromDate.
func (s *Service) ListUpcomingAppearances(ctx context.Context, fromDate string) ([]*models.Appearance, error) {
	if fromDate == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "from date is required")
	}
	appearances, err := s.appearances.ListUpcoming(ctx, fromDate)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list upcoming appearances")
	}
	return appearances, nil
}

// UpdateAppearance applies an administrative patch. No status derivation runs
// here; use RecordOutcome for outcome-driven transitions.
func (s *Service) UpdateAppearance(ctx context.Context, appearanceID id.AppearanceID, patch models.AppearancePatch) (*models.Appearance, error) {
	appearance, err := s.appearances.FindByID(ctx, appearanceID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "appearance not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load appearance")
	}

	appearance.ApplyPatch(patch, requestcontext.Now(ctx))
	if err := s.appearances.Update(ctx, appearance); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update appearance")
	}
	return appearance, nil
}

// DeleteAppearance removes an appearance record. Administrative only.
func (s *Service) DeleteAppearance(ctx context.Context, appearanceID id.AppearanceID) error {
	appearance, err := s.appearances.FindByID(ctx, appearanceID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "appearance not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load appearance")
	}

	if err := s.appearances.Delete(ctx, appearanceID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete appearance")
	}

	s.audit(ctx, audit.EventAppearanceDeleted, "appearance", appearanceID.String(), appearance.InmateID, "")
	return nil
}
