package handler

import (
	"github.com/go-playground/validator/v10"

	"warden/internal/visits/models"
	"warden/internal/visits/service"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// validate holds struct-tag validation for visit request bodies.
var validate = validator.New()

// ScheduleVisitRequest is the HTTP request body for POST /visits.
type ScheduleVisitRequest struct {
	InmateID string `json:"inmate_id" validate:"required"`
	PrisonID string `json:"prison_id" validate:"required"`

	FullName     string `json:"full_name" validate:"required,max=128"`
	IDNumber     string `json:"id_number" validate:"required,max=64"`
	IDType       string `json:"id_type"`
	Relationship string `json:"relationship" validate:"required,max=64"`
	Phone        string `json:"phone" validate:"required,max=32"`
	Address      string `json:"address" validate:"max=256"`
	Email        string `json:"email" validate:"omitempty,email"`
	Reason       string `json:"reason" validate:"max=512"`

	ScheduledDate string `json:"scheduled_date"`

	parsed service.ScheduleVisitParams
}

func (r *ScheduleVisitRequest) Validate() error {
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
	prisonID, err := id.ParsePrisonID(r.PrisonID)
	if err != nil {
		return err
	}

	params := service.ScheduleVisitParams{
		InmateID:      inmateID,
		PrisonID:      prisonID,
		FullName:      r.FullName,
		IDNumber:      r.IDNumber,
		Relationship:  r.Relationship,
		Phone:         r.Phone,
		Address:       r.Address,
		Email:         r.Email,
		Reason:        r.Reason,
		ScheduledDate: r.ScheduledDate,
	}
	if r.IDType != "" {
		if params.IDType, err = models.ParseIDType(r.IDType); err != nil {
			return err
		}
	}
	r.parsed = params
	return nil
}

func (r *ScheduleVisitRequest) Params() service.ScheduleVisitParams { return r.parsed }

// CheckInRequest is the HTTP request body for POST /visits/{id}/check-in.
type CheckInRequest struct {
	CheckInTime      string `json:"check_in_time" validate:"required"`
	ApprovedByID     string `json:"approved_by_id"`
	ItemsDeclaration string `json:"items_declaration" validate:"max=1024"`

	parsedApprover id.OfficerID
}

func (r *CheckInRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}
	if r.ApprovedByID != "" {
		approverID, err := id.ParseOfficerID(r.ApprovedByID)
		if err != nil {
			return err
		}
		r.parsedApprover = approverID
	}
	return nil
}

// CheckOutRequest is the HTTP request body for POST /visits/{id}/check-out.
type CheckOutRequest struct {
	CheckOutTime string `json:"check_out_time" validate:"required"`
	Flagged      bool   `json:"flagged"`
	FlagReason   string `json:"flag_reason" validate:"max=512"`
}

func (r *CheckOutRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}
	if r.Flagged && r.FlagReason == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "flag reason required when flagging a visit")
	}
	return nil
}

// DenyRequest is the HTTP request body for POST /visits/{id}/deny.
type DenyRequest struct {
	DenialReason string `json:"denial_reason" validate:"required,max=512"`
}

func (r *DenyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}
	return nil
}

// UpdateVisitRequest is the HTTP request body for PATCH /visits/{id}.
type UpdateVisitRequest struct {
	ScheduledDate *string `json:"scheduled_date"`
	Reason        *string `json:"reason"`
	Flagged       *bool   `json:"flagged"`
	FlagReason    *string `json:"flag_reason"`
	Address       *string `json:"address"`
	Email         *string `json:"email"`

	parsed models.VisitPatch
}

func (r *UpdateVisitRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	patch := models.VisitPatch{
		ScheduledDate: r.ScheduledDate,
		Reason:        r.Reason,
		Flagged:       r.Flagged,
		FlagReason:    r.FlagReason,
		Address:       r.Address,
		Email:         r.Email,
	}
	if patch.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "patch must change at least one field")
	}
	r.parsed = patch
	return nil
}

func (r *UpdateVisitRequest) Patch() models.VisitPatch { return r.parsed }
