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

// RecordMovementParams carries the fields accepted when recording a movement.
type RecordMovementParams struct {
	InmateID      id.InmateID
	MovementType  id.MovementType
	FromPrisonID  id.PrisonID
	ToPrisonID    id.PrisonID
	OfficerID     id.OfficerID
	Destination   string
	DepartureDate string
	Reason        string
	Notes         string
}

// RecordMovement writes the movement and applies the derived status patch to
// the inmate. The inmate is loaded first; NotFound aborts before the
// movement row exists, so the pair is written as one unit or not at all.
func (s *Service) RecordMovement(ctx context.Context, params RecordMovementParams) (*models.Movement, error) {
	if params.MovementType == id.MovementTransfer && params.ToPrisonID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "transfer requires a destination prison")
	}

	inmate, err := s.inmates.FindByID(ctx, params.InmateID)
	if err != nil {
		return nil, translateInmateErr(err)
	}

	now := requestcontext.Now(ctx)
	movement, err := models.NewMovement(id.NewMovementID(), params.InmateID, params.MovementType, params.DepartureDate, params.Reason, now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeInvalidInput, dErrors.Message(err))
		}
		return nil, err
	}
	movement.FromPrisonID = params.FromPrisonID
	movement.ToPrisonID = params.ToPrisonID
	movement.OfficerID = params.OfficerID
	movement.Destination = params.Destination
	movement.Notes = params.Notes

	if err := s.movements.Create(ctx, movement); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record movement")
	}

	prevPrison := inmate.PrisonID
	patch := statemachine.OnMovementRecorded(movement)
	if !patch.IsZero() {
		inmate.Apply(patch, now)
		if err := s.inmates.Update(ctx, inmate); err != nil {
			return nil, translateInmateErr(err)
		}
		if patch.Status != nil {
			s.metrics.IncrementTransition(patch.Status.String(), "movement")
		}
	}

	s.audit(ctx, audit.EventMovementRecorded, "movement", movement.ID.String(), inmate.ID, movement.Reason)
	s.metrics.IncrementMovement(movement.MovementType.String())
	s.invalidateStats(ctx, prevPrison)
	if inmate.PrisonID != prevPrison {
		s.invalidateStats(ctx, inmate.PrisonID)
	}
	return movement, nil
}

// RecordReturn stamps the return date on a movement. The inmate's status is
// deliberately left alone; see Movement.RecordReturn.
func (s *Service) RecordReturn(ctx context.Context, movementID id.MovementID, returnDate, notes string) (*models.Movement, error) {
	movement, err := s.movements.FindByID(ctx, movementID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "movement not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load movement")
	}

	if err := movement.RecordReturn(returnDate, notes, requestcontext.Now(ctx)); err != nil {
		return nil, err
	}
	if err := s.movements.Update(ctx, movement); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update movement")
	}

	s.audit(ctx, audit.EventMovementReturned, "movement", movement.ID.String(), movement.InmateID, "")
	return movement, nil
}

func (s *Service) GetMovement(ctx context.Context, movementID id.MovementID) (*models.Movement, error) {
	movement, err := s.movements.FindByID(ctx, movementID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "movement not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load movement")
	}
	return movement, nil
}

func (s *Service) ListMovementsByInmate(ctx context.Context, inmateID id.InmateID) ([]*models.Movement, error) {
	movements, err := s.movements.ListByInmate(ctx, inmateID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list movements")
	}
	return movements, nil
}

// ListOpenMovements returns movements with no return date recorded.
func (s *Service) ListOpenMovements(ctx context.Context) ([]*models.Movement, error) {
	movements, err := s.movements.ListOpen(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list open movements")
	}
	return movements, nil
}

func (s *Service) ListMovementsByType(ctx context.Context, movementType id.MovementType) ([]*models.Movement, error) {
	movements, err := s.movements.ListByType(ctx, movementType)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list movements")
	}
	return movements, nil
}

// UpdateMovement applies an administrative patch to a movement record. No
// status derivation runs here.
func (s *Service) UpdateMovement(ctx context.Context, movementID id.MovementID, patch models.MovementPatch) (*models.Movement, error) {
	movement, err := s.movements.FindByID(ctx, movementID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "movement not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load movement")
	}

	movement.ApplyPatch(patch, requestcontext.Now(ctx))
	if err := s.movements.Update(ctx, movement); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update movement")
	}
	return movement, nil
}

// DeleteMovement removes a movement record. Administrative only.
func (s *Service) DeleteMovement(ctx context.Context, movementID id.MovementID) error {
	movement, err := s.movements.FindByID(ctx, movementID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "movement not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load movement")
	}

	if err := s.movements.Delete(ctx, movementID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete movement")
	}

	s.audit(ctx, audit.EventMovementDeleted, "movement", movementID.String(), movement.InmateID, "")
	return nil
}
