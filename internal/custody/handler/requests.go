package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"warden/internal/custody/models"
	"warden/internal/custody/service"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// validate holds struct-tag validation for custody request bodies.
var validate = validator.New()

// RegisterInmateRequest is the HTTP request body for POST /inmates.
type RegisterInmateRequest struct {
	FirstName    string `json:"first_name" validate:"required,max=64"`
	LastName     string `json:"last_name" validate:"required,max=64"`
	OtherNames   string `json:"other_names" validate:"max=128"`
	PrisonNumber string `json:"prison_number" validate:"required,max=32"`
	NationalID   string `json:"national_id" validate:"max=32"`
	DateOfBirth  string `json:"dob" validate:"required"`
	Gender       string `json:"gender" validate:"required"`
	Nationality  string `json:"nationality" validate:"max=64"`
	Tribe        string `json:"tribe" validate:"max=64"`
	Religion     string `json:"religion" validate:"max=64"`

	EducationLevel string `json:"education_level" validate:"max=64"`
	MaritalStatus  string `json:"marital_status" validate:"max=32"`
	Occupation     string `json:"occupation" validate:"max=64"`

	NextOfKinName         string `json:"next_of_kin_name" validate:"max=128"`
	NextOfKinPhone        string `json:"next_of_kin_phone" validate:"max=32"`
	NextOfKinRelationship string `json:"next_of_kin_relationship" validate:"max=64"`

	InmateType string `json:"inmate_type" validate:"required"`
	Status     string `json:"status"`
	RiskLevel  string `json:"risk_level"`

	PrisonID   string `json:"prison_id" validate:"required"`
	CellBlock  string `json:"cell_block" validate:"max=16"`
	CellNumber string `json:"cell_number" validate:"max=16"`

	CaseNumber       string `json:"case_number" validate:"required,max=64"`
	OffenseID        string `json:"offense_id" validate:"required"`
	ArrestingStation string `json:"arresting_station" validate:"max=128"`

	AdmissionDate string `json:"admission_date" validate:"required"`
	RemandExpiry  string `json:"remand_expiry"`
	Notes         string `json:"notes" validate:"max=2048"`

	parsed service.RegisterInmateParams
}

func (r *RegisterInmateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.PrisonNumber = strings.TrimSpace(r.PrisonNumber)
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}

	gender, err := id.ParseGender(r.Gender)
	if err != nil {
		return err
	}
	inmateType, err := id.ParseInmateType(r.InmateType)
	if err != nil {
		return err
	}
	var status id.InmateStatus
	if r.Status != "" {
		if status, err = id.ParseInmateStatus(r.Status); err != nil {
			return err
		}
	}
	var riskLevel id.RiskLevel
	if r.RiskLevel != "" {
		if riskLevel, err = id.ParseRiskLevel(r.RiskLevel); err != nil {
			return err
		}
	}
	prisonID, err := id.ParsePrisonID(r.PrisonID)
	if err != nil {
		return err
	}
	offenseID, err := id.ParseOffenseID(r.OffenseID)
	if err != nil {
		return err
	}

	r.parsed = service.RegisterInmateParams{
		FirstName:             r.FirstName,
		LastName:              r.LastName,
		OtherNames:            r.OtherNames,
		PrisonNumber:          r.PrisonNumber,
		NationalID:            r.NationalID,
		DateOfBirth:           r.DateOfBirth,
		Gender:                gender,
		Nationality:           r.Nationality,
		Tribe:                 r.Tribe,
		Religion:              r.Religion,
		EducationLevel:        r.EducationLevel,
		MaritalStatus:         r.MaritalStatus,
		Occupation:            r.Occupation,
		NextOfKinName:         r.NextOfKinName,
		NextOfKinPhone:        r.NextOfKinPhone,
		NextOfKinRelationship: r.NextOfKinRelationship,
		InmateType:            inmateType,
		Status:                status,
		RiskLevel:             riskLevel,
		PrisonID:              prisonID,
		CellBlock:             r.CellBlock,
		CellNumber:            r.CellNumber,
		CaseNumber:            r.CaseNumber,
		OffenseID:             offenseID,
		ArrestingStation:      r.ArrestingStation,
		AdmissionDate:         r.AdmissionDate,
		RemandExpiry:          r.RemandExpiry,
		Notes:                 r.Notes,
	}
	return nil
}

func (r *RegisterInmateRequest) Params() service.RegisterInmateParams { return r.parsed }

// UpdateInmateRequest is the HTTP request body for PATCH /inmates/{id}.
// Pointer fields distinguish "absent" from "set to empty".
type UpdateInmateRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	OtherNames *string `json:"other_names"`
	NationalID *string `json:"national_id"`
	DateOfBirth *string `json:"dob"`
	Tribe      *string `json:"tribe"`
	Religion   *string `json:"religion"`

	EducationLevel *string `json:"education_level"`
	MaritalStatus  *string `json:"marital_status"`
	Occupation     *string `json:"occupation"`

	NextOfKinName         *string `json:"next_of_kin_name"`
	NextOfKinPhone        *string `json:"next_of_kin_phone"`
	NextOfKinRelationship *string `json:"next_of_kin_relationship"`

	Status    *string `json:"status"`
	RiskLevel *string `json:"risk_level"`

	PrisonID   *string `json:"prison_id"`
	CellBlock  *string `json:"cell_block"`
	CellNumber *string `json:"cell_number"`

	RemandExpiry  *string `json:"remand_expiry"`
	NextCourtDate *string `json:"next_court_date"`

	ConvictionDate   *string  `json:"conviction_date"`
	SentenceStart    *string  `json:"sentence_start"`
	SentenceEnd      *string  `json:"sentence_end"`
	SentenceDuration *string  `json:"sentence_duration"`
	IsLifeSentence   *bool    `json:"is_life_sentence"`
	FineAmount       *float64 `json:"fine_amount"`
	FinePaid         *bool    `json:"fine_paid"`

	ActualReleaseDate *string `json:"actual_release_date"`
	ReleaseReason     *string `json:"release_reason"`
	Notes             *string `json:"notes"`

	parsed models.InmatePatch
}

func (r *UpdateInmateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	patch := models.InmatePatch{
		FirstName:             r.FirstName,
		LastName:              r.LastName,
		OtherNames:            r.OtherNames,
		NationalID:            r.NationalID,
		DateOfBirth:           r.DateOfBirth,
		Tribe:                 r.Tribe,
		Religion:              r.Religion,
		EducationLevel:        r.EducationLevel,
		MaritalStatus:         r.MaritalStatus,
		Occupation:            r.Occupation,
		NextOfKinName:         r.NextOfKinName,
		NextOfKinPhone:        r.NextOfKinPhone,
		NextOfKinRelationship: r.NextOfKinRelationship,
		CellBlock:             r.CellBlock,
		CellNumber:            r.CellNumber,
		RemandExpiry:          r.RemandExpiry,
		NextCourtDate:         r.NextCourtDate,
		ConvictionDate:        r.ConvictionDate,
		SentenceStart:         r.SentenceStart,
		SentenceEnd:           r.SentenceEnd,
		SentenceDuration:      r.SentenceDuration,
		IsLifeSentence:        r.IsLifeSentence,
		FineAmount:            r.FineAmount,
		FinePaid:              r.FinePaid,
		ActualReleaseDate:     r.ActualReleaseDate,
		Notes:                 r.Notes,
	}

	if r.Status != nil {
		status, err := id.ParseInmateStatus(*r.Status)
		if err != nil {
			return err
		}
		patch.Status = &status
	}
	if r.RiskLevel != nil {
		riskLevel, err := id.ParseRiskLevel(*r.RiskLevel)
		if err != nil {
			return err
		}
		patch.RiskLevel = &riskLevel
	}
	if r.PrisonID != nil {
		prisonID, err := id.ParsePrisonID(*r.PrisonID)
		if err != nil {
			return err
		}
		patch.PrisonID = &prisonID
	}
	if r.ReleaseReason != nil {
		reason, err := id.ParseReleaseReason(*r.ReleaseReason)
		if err != nil {
			return err
		}
		patch.ReleaseReason = &reason
	}

	if patch.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "patch must change at least one field")
	}
	r.parsed = patch
	return nil
}

func (r *UpdateInmateRequest) Patch() models.InmatePatch { return r.parsed }

// UpdateStatusRequest is the HTTP request body for PUT /inmates/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`

	parsedStatus id.InmateStatus
}

func (r *UpdateStatusRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	status, err := id.ParseInmateStatus(r.Status)
	if err != nil {
		return err
	}
	r.parsedStatus = status
	return nil
}

// ReleaseRequest is the HTTP request body for POST /inmates/{id}/release.
type ReleaseRequest struct {
	ReleaseDate   string `json:"release_date" validate:"required"`
	ReleaseReason string `json:"release_reason" validate:"required"`
	Notes         string `json:"notes" validate:"max=2048"`

	parsedReason id.ReleaseReason
}

func (r *ReleaseRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}
	reason, err := id.ParseReleaseReason(r.ReleaseReason)
	if err != nil {
		return err
	}
	r.parsedReason = reason
	return nil
}

// RecordMovementRequest is the HTTP request body for POST /movements.
type RecordMovementRequest struct {
	InmateID      string `json:"inmate_id" validate:"required"`
	MovementType  string `json:"movement_type" validate:"required"`
	FromPrisonID  string `json:"from_prison_id"`
	ToPrisonID    string `json:"to_prison_id"`
	OfficerID     string `json:"officer_id"`
	Destination   string `json:"destination" validate:"max=256"`
	DepartureDate string `json:"departure_date" validate:"required"`
	Reason        string `json:"reason" validate:"required,max=512"`
	Notes         string `json:"notes" validate:"max=2048"`

	parsed service.RecordMovementParams
}

func (r *RecordMovementRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}

	inmateID, err := id.ParseInmateID(r.InmateID)
	if err != nil {
		return err
	}
	movementType, err := id.ParseMovementType(r.MovementType)
	if err != nil {
		return err
	}

	params := service.RecordMovementParams{
		InmateID:      inmateID,
		MovementType:  movementType,
		Destination:   r.Destination,
		DepartureDate: r.DepartureDate,
		Reason:        r.Reason,
		Notes:         r.Notes,
	}
	if r.FromPrisonID != "" {
		if params.FromPrisonID, err = id.ParsePrisonID(r.FromPrisonID); err != nil {
			return err
		}
	}
	if r.ToPrisonID != "" {
		if params.ToPrisonID, err = id.ParsePrisonID(r.ToPrisonID); err != nil {
			return err
		}
	}
	if r.OfficerID != "" {
		if params.OfficerID, err = id.ParseOfficerID(r.OfficerID); err != nil {
			return err
		}
	}
	r.parsed = params
	return nil
}

func (r *RecordMovementRequest) Params() service.RecordMovementParams { return r.parsed }

// RecordReturnRequest is the HTTP request body for POST /movements/{id}/return.
type RecordReturnRequest struct {
	ReturnDate string `json:"return_date" validate:"required"`
	Notes      string `json:"notes" validate:"max=2048"`
}

func (r *RecordReturnRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}
	return nil
}

// ScheduleAppearanceRequest is the HTTP request body for POST /appearances.
type ScheduleAppearanceRequest struct {
	InmateID      string `json:"inmate_id" validate:"required"`
	CourtID       string `json:"court_id" validate:"required"`
	OfficerID     string `json:"officer_id"`
	ScheduledDate string `json:"scheduled_date" validate:"required"`
	DepartureTime string `json:"departure_time"`
	Notes         string `json:"notes" validate:"max=2048"`

	parsed service.ScheduleAppearanceParams
}

func (r *ScheduleAppearanceRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}

	inmateID, err := id.ParseInmateID(r.InmateID)
	if err != nil {
		return err
	}
	courtID, err := id.ParseCourtID(r.CourtID)
	if err != nil {
		return err
	}

	params := service.ScheduleAppearanceParams{
		InmateID:      inmateID,
		CourtID:       courtID,
		ScheduledDate: r.ScheduledDate,
		DepartureTime: r.DepartureTime,
		Notes:         r.Notes,
	}
	if r.OfficerID != "" {
		if params.OfficerID, err = id.ParseOfficerID(r.OfficerID); err != nil {
			return err
		}
	}
	r.parsed = params
	return nil
}

func (r *ScheduleAppearanceRequest) Params() service.ScheduleAppearanceParams { return r.parsed }

// UpdateMovementRequest is the HTTP request body for PATCH /movements/{id}.
type UpdateMovementRequest struct {
	Destination   *string `json:"destination"`
	DepartureDate *string `json:"departure_date"`
	ReturnDate    *string `json:"return_date"`
	Reason        *string `json:"reason"`
	Notes         *string `json:"notes"`
	OfficerID     *string `json:"officer_id"`

	parsed models.MovementPatch
}

func (r *UpdateMovementRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	patch := models.MovementPatch{
		Destination:   r.Destination,
		DepartureDate: r.DepartureDate,
		ReturnDate:    r.ReturnDate,
		Reason:        r.Reason,
		Notes:         r.Notes,
	}
	if r.OfficerID != nil {
		officerID, err := id.ParseOfficerID(*r.OfficerID)
		if err != nil {
			return err
		}
		patch.OfficerID = &officerID
	}
	if patch == (models.MovementPatch{}) {
		return dErrors.New(dErrors.CodeBadRequest, "patch must change at least one field")
	}
	r.parsed = patch
	return nil
}

func (r *UpdateMovementRequest) Patch() models.MovementPatch { return r.parsed }

// UpdateAppearanceRequest is the HTTP request body for PATCH /appearances/{id}.
type UpdateAppearanceRequest struct {
	ScheduledDate *string `json:"scheduled_date"`
	DepartureTime *string `json:"departure_time"`
	ReturnTime    *string `json:"return_time"`
	Outcome       *string `json:"outcome"`
	NextDate      *string `json:"next_date"`
	OfficerID     *string `json:"officer_id"`
	Notes         *string `json:"notes"`

	parsed models.AppearancePatch
}

func (r *UpdateAppearanceRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	patch := models.AppearancePatch{
		ScheduledDate: r.ScheduledDate,
		DepartureTime: r.DepartureTime,
		ReturnTime:    r.ReturnTime,
		NextDate:      r.NextDate,
		Notes:         r.Notes,
	}
	if r.Outcome != nil {
		outcome, err := id.ParseCourtOutcome(*r.Outcome)
		if err != nil {
			return err
		}
		patch.Outcome = &outcome
	}
	if r.OfficerID != nil {
		officerID, err := id.ParseOfficerID(*r.OfficerID)
		if err != nil {
			return err
		}
		patch.OfficerID = &officerID
	}
	if patch == (models.AppearancePatch{}) {
		return dErrors.New(dErrors.CodeBadRequest, "patch must change at least one field")
	}
	r.parsed = patch
	return nil
}

func (r *UpdateAppearanceRequest) Patch() models.AppearancePatch { return r.parsed }

// RecordOutcomeRequest is the HTTP request body for POST /appearances/{id}/outcome.
type RecordOutcomeRequest struct {
	Outcome    string `json:"outcome" validate:"required"`
	ReturnTime string `json:"return_time"`
	NextDate   string `json:"next_date"`
	Notes      string `json:"notes" validate:"max=2048"`

	parsedOutcome id.CourtOutcome
}

func (r *RecordOutcomeRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}
	outcome, err := id.ParseCourtOutcome(r.Outcome)
	if err != nil {
		return err
	}
	r.parsedOutcome = outcome
	return nil
}
