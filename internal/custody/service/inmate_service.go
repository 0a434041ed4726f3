package service

import (
	"context"
	"errors"
	"strings"

	"warden/internal/custody/models"
	"warden/internal/custody/statemachine"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/audit"
	"warden/pkg/platform/sentinel"
	"warden/pkg/requestcontext"
)

// RegisterInmateParams carries the fields accepted at registration.
type RegisterInmateParams struct {
	FirstName    string
	LastName     string
	OtherNames   string
	PrisonNumber string
	NationalID   string
	DateOfBirth  string
	Gender       id.Gender
	Nationality  string
	Tribe        string
	Religion     string

	EducationLevel string
	MaritalStatus  string
	Occupation     string

	NextOfKinName         string
	NextOfKinPhone        string
	NextOfKinRelationship string

	InmateType id.InmateType
	Status     id.InmateStatus
	RiskLevel  id.RiskLevel

	PrisonID   id.PrisonID
	CellBlock  string
	CellNumber string

	CaseNumber       string
	OffenseID        id.OffenseID
	ArrestingStation string

	AdmissionDate string
	RemandExpiry  string
	Notes         string
}

// RegisterInmate creates the custody record. The prison number is the
// immutable business key; a duplicate fails with Conflict and leaves the
// existing record untouched.
func (s *Service) RegisterInmate(ctx context.Context, params RegisterInmateParams) (*models.Inmate, error) {
	params.PrisonNumber = strings.TrimSpace(params.PrisonNumber)
	params.FirstName = strings.TrimSpace(params.FirstName)
	params.LastName = strings.TrimSpace(params.LastName)

	inmate, err := models.NewInmate(
		id.NewInmateID(),
		params.PrisonNumber,
		params.FirstName,
		params.LastName,
		params.Gender,
		params.InmateType,
		params.Status,
		params.PrisonID,
		params.CaseNumber,
		params.OffenseID,
		params.AdmissionDate,
		requestcontext.Now(ctx),
	)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeInvalidInput, dErrors.Message(err))
		}
		return nil, err
	}
	inmate.OtherNames = params.OtherNames
	inmate.NationalID = params.NationalID
	inmate.DateOfBirth = params.DateOfBirth
	inmate.Nationality = params.Nationality
	inmate.Tribe = params.Tribe
	inmate.Religion = params.Religion
	inmate.EducationLevel = params.EducationLevel
	inmate.MaritalStatus = params.MaritalStatus
	inmate.Occupation = params.Occupation
	inmate.NextOfKinName = params.NextOfKinName
	inmate.NextOfKinPhone = params.NextOfKinPhone
	inmate.NextOfKinRelationship = params.NextOfKinRelationship
	inmate.RiskLevel = params.RiskLevel
	inmate.CellBlock = params.CellBlock
	inmate.CellNumber = params.CellNumber
	inmate.ArrestingStation = params.ArrestingStation
	inmate.RemandExpiry = params.RemandExpiry
	inmate.Notes = params.Notes

	if err := s.inmates.CreateIfNumberAvailable(ctx, inmate); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "prison number must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register inmate")
	}

	s.audit(ctx, audit.EventInmateRegistered, "inmate", inmate.ID.String(), inmate.ID, "")
	s.metrics.IncrementRegistered()
	s.invalidateStats(ctx, inmate.PrisonID)
	return inmate, nil
}

func (s *Service) GetInmate(ctx context.Context, inmateID id.InmateID) (*models.Inmate, error) {
	inmate, err := s.inmates.FindByID(ctx, inmateID)
	if err != nil {
		return nil, translateInmateErr(err)
	}
	return inmate, nil
}

func (s *Service) GetInmateByPrisonNumber(ctx context.Context, prisonNumber string) (*models.Inmate, error) {
	prisonNumber = strings.TrimSpace(prisonNumber)
	if prisonNumber == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "prison number is required")
	}
	inmate, err := s.inmates.FindByPrisonNumber(ctx, prisonNumber)
	if err != nil {
		return nil, translateInmateErr(err)
	}
	return inmate, nil
}

func (s *Service) ListInmatesByPrison(ctx context.Context, prisonID id.PrisonID) ([]*models.Inmate, error) {
	inmates, err := s.inmates.ListByPrison(ctx, prisonID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list inmates")
	}
	return inmates, nil
}

func (s *Service) ListInmatesByStatus(ctx context.Context, status id.InmateStatus) ([]*models.Inmate, error) {
	inmates, err := s.inmates.ListByStatus(ctx, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list inmates")
	}
	return inmates, nil
}

// UpdateInmate applies an administrative patch. The prison number is not
// patchable.
func (s *Service) UpdateInmate(ctx context.Context, inmateID id.InmateID, patch models.InmatePatch) (*models.Inmate, error) {
	inmate, err := s.inmates.FindByID(ctx, inmateID)
	if err != nil {
		return nil, translateInmateErr(err)
	}

	inmate.Apply(patch, requestcontext.Now(ctx))
	if err := s.inmates.Update(ctx, inmate); err != nil {
		return nil, translateInmateErr(err)
	}

	s.audit(ctx, audit.EventInmateUpdated, "inmate", inmate.ID.String(), inmate.ID, "")
	s.invalidateStats(ctx, inmate.PrisonID)
	return inmate, nil
}

// UpdateStatus is the direct administrative status edit. It is the only path
// into escaped and deceased.
func (s *Service) UpdateStatus(ctx context.Context, inmateID id.InmateID, status id.InmateStatus) (*models.Inmate, error) {
	if !status.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid inmate status %q", status)
	}

	inmate, err := s.inmates.FindByID(ctx, inmateID)
	if err != nil {
		return nil, translateInmateErr(err)
	}

	inmate.Apply(models.InmatePatch{Status: &status}, requestcontext.Now(ctx))
	if err := s.inmates.Update(ctx, inmate); err != nil {
		return nil, translateInmateErr(err)
	}

	s.audit(ctx, audit.EventInmateStatusChanged, "inmate", inmate.ID.String(), inmate.ID, "manual status edit")
	s.metrics.IncrementTransition(status.String(), "manual")
	s.invalidateStats(ctx, inmate.PrisonID)
	return inmate, nil
}

// Release records a direct release: status moves to released and the release
// date and reason are stamped on the custody record.
func (s *Service) Release(ctx context.Context, inmateID id.InmateID, releaseDate string, reason id.ReleaseReason, notes string) (*models.Inmate, error) {
	if releaseDate == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "release date is required")
	}
	if _, err := id.ParseReleaseReason(reason.String()); err != nil {
		return nil, err
	}

	inmate, err := s.inmates.FindByID(ctx, inmateID)
	if err != nil {
		return nil, translateInmateErr(err)
	}

	patch := statemachine.OnRelease(releaseDate, reason, notes)
	inmate.Apply(patch, requestcontext.Now(ctx))
	if err := s.inmates.Update(ctx, inmate); err != nil {
		return nil, translateInmateErr(err)
	}

	s.audit(ctx, audit.EventInmateReleased, "inmate", inmate.ID.String(), inmate.ID, reason.String())
	s.metrics.IncrementTransition(id.StatusReleased.String(), "release")
	s.invalidateStats(ctx, inmate.PrisonID)
	return inmate, nil
}

// DeleteInmate removes the custody record. Administrative only; the normal
// lifecycle ends at released.
func (s *Service) DeleteInmate(ctx context.Context, inmateID id.InmateID) error {
	inmate, err := s.inmates.FindByID(ctx, inmateID)
	if err != nil {
		return translateInmateErr(err)
	}

	if err := s.inmates.Delete(ctx, inmateID); err != nil {
		return translateInmateErr(err)
	}

	s.audit(ctx, audit.EventInmateDeleted, "inmate", inmateID.String(), inmateID, "")
	s.invalidateStats(ctx, inmate.PrisonID)
	return nil
}

// CountByStatus returns per-status inmate counts for one facility.
func (s *Service) CountByStatus(ctx context.Context, prisonID id.PrisonID) (map[id.InmateStatus]int, error) {
	counts, err := s.inmates.CountByStatus(ctx, prisonID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count inmates")
	}
	return counts, nil
}
