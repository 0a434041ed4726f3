package models

import (
	"time"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// PrisonType classifies a facility.
type PrisonType string

const (
	PrisonMain   PrisonType = "main"
	PrisonRemand PrisonType = "remand"
	PrisonOpen   PrisonType = "open"
	PrisonFarm   PrisonType = "farm"
	PrisonBranch PrisonType = "branch"
)

var validPrisonTypes = map[PrisonType]bool{
	PrisonMain:   true,
	PrisonRemand: true,
	PrisonOpen:   true,
	PrisonFarm:   true,
	PrisonBranch: true,
}

func ParsePrisonType(s string) (PrisonType, error) {
	t := PrisonType(s)
	if !validPrisonTypes[t] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown prison type %q", s)
	}
	return t, nil
}

func (t PrisonType) String() string { return string(t) }

// Prison is a facility record.
//
// Invariants:
//   - Code is non-empty and unique across all facilities
//   - Type is one of the enumerated facility types
type Prison struct {
	ID           id.PrisonID `json:"id"`
	Name         string      `json:"name"`
	Code         string      `json:"code"`
	Type         PrisonType  `json:"type"`
	Region       string      `json:"region,omitempty"`
	District     string      `json:"district,omitempty"`
	Address      string      `json:"address,omitempty"`
	Capacity     int         `json:"capacity,omitempty"`
	ContactPhone string      `json:"contact_phone,omitempty"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func NewPrison(prisonID id.PrisonID, name, code string, prisonType PrisonType, now time.Time) (*Prison, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "prison name cannot be empty")
	}
	if code == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "prison code cannot be empty")
	}
	if !validPrisonTypes[prisonType] {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown prison type %q", prisonType)
	}
	return &Prison{
		ID:        prisonID,
		Name:      name,
		Code:      code,
		Type:      prisonType,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
