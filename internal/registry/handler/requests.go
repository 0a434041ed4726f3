package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"warden/internal/registry/models"
	"warden/internal/registry/service"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// validate holds struct-tag validation for registry request bodies.
var validate = validator.New()

// CreatePrisonRequest is the HTTP request body for POST /prisons.
type CreatePrisonRequest struct {
	Name         string `json:"name" validate:"required,max=128"`
	Code         string `json:"code" validate:"required,max=32"`
	Type         string `json:"type" validate:"required"`
	Region       string `json:"region" validate:"max=64"`
	District     string `json:"district" validate:"max=64"`
	Address      string `json:"address" validate:"max=256"`
	Capacity     int    `json:"capacity" validate:"min=0"`
	ContactPhone string `json:"contact_phone" validate:"max=32"`

	parsedType models.PrisonType
}

func (r *CreatePrisonRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	r.Code = strings.TrimSpace(r.Code)
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}

	prisonType, err := models.ParsePrisonType(r.Type)
	if err != nil {
		return err
	}
	r.parsedType = prisonType
	return nil
}

func (r *CreatePrisonRequest) Params() service.CreatePrisonParams {
	return service.CreatePrisonParams{
		Name:         r.Name,
		Code:         r.Code,
		Type:         r.parsedType,
		Region:       r.Region,
		District:     r.District,
		Address:      r.Address,
		Capacity:     r.Capacity,
		ContactPhone: r.ContactPhone,
	}
}

// CreateOfficerRequest is the HTTP request body for POST /officers.
type CreateOfficerRequest struct {
	PrisonID    string `json:"prison_id" validate:"required"`
	Name        string `json:"name" validate:"required,max=128"`
	BadgeNumber string `json:"badge_number" validate:"required,max=32"`
	Rank        string `json:"rank" validate:"max=64"`
	Phone       string `json:"phone" validate:"max=32"`

	parsedPrisonID id.PrisonID
}

func (r *CreateOfficerRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	r.BadgeNumber = strings.TrimSpace(r.BadgeNumber)
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}

	prisonID, err := id.ParsePrisonID(r.PrisonID)
	if err != nil {
		return err
	}
	r.parsedPrisonID = prisonID
	return nil
}

func (r *CreateOfficerRequest) Params() service.CreateOfficerParams {
	return service.CreateOfficerParams{
		PrisonID:    r.parsedPrisonID,
		Name:        r.Name,
		BadgeNumber: r.BadgeNumber,
		Rank:        r.Rank,
		Phone:       r.Phone,
	}
}

// CreateCourtRequest is the HTTP request body for POST /courts.
type CreateCourtRequest struct {
	Name     string `json:"name" validate:"required,max=128"`
	Type     string `json:"type" validate:"max=32"`
	District string `json:"district" validate:"max=64"`
	Address  string `json:"address" validate:"max=256"`

	parsedType models.CourtType
}

func (r *CreateCourtRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}

	if r.Type != "" {
		courtType, err := models.ParseCourtType(r.Type)
		if err != nil {
			return err
		}
		r.parsedType = courtType
	}
	return nil
}

func (r *CreateCourtRequest) Params() service.CreateCourtParams {
	return service.CreateCourtParams{
		Name:     r.Name,
		Type:     r.parsedType,
		District: r.District,
		Address:  r.Address,
	}
}

// CreateOffenseRequest is the HTTP request body for POST /offenses.
type CreateOffenseRequest struct {
	Name             string `json:"name" validate:"required,max=256"`
	Act              string `json:"act" validate:"max=128"`
	Section          string `json:"section" validate:"max=64"`
	Chapter          string `json:"chapter" validate:"max=64"`
	Category         string `json:"category" validate:"max=32"`
	AmendedBy        string `json:"amended_by" validate:"max=128"`
	Description      string `json:"description" validate:"max=1024"`
	MaxSentenceYears int    `json:"max_sentence_years" validate:"min=0"`

	parsedCategory models.OffenseCategory
}

func (r *CreateOffenseRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if err := validate.Struct(r); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, err.Error())
	}

	if r.Category != "" {
		category, err := models.ParseOffenseCategory(r.Category)
		if err != nil {
			return err
		}
		r.parsedCategory = category
	}
	return nil
}

func (r *CreateOffenseRequest) Params() service.CreateOffenseParams {
	return service.CreateOffenseParams{
		Name:             r.Name,
		Act:              r.Act,
		Section:          r.Section,
		Chapter:          r.Chapter,
		Category:         r.parsedCategory,
		AmendedBy:        r.AmendedBy,
		Description:      r.Description,
		MaxSentenceYears: r.MaxSentenceYears,
	}
}
