package models

import (
	"time"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// Officer is a staff record.
//
// Invariants:
//   - BadgeNumber is non-empty and unique across all officers
//   - PrisonID references the officer's posting
type Officer struct {
	ID          id.OfficerID `json:"id"`
	PrisonID    id.PrisonID  `json:"prison_id"`
	Name        string       `json:"name"`
	BadgeNumber string       `json:"badge_number"`
	Rank        string       `json:"rank,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	IsActive    bool         `json:"is_active"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func NewOfficer(officerID id.OfficerID, prisonID id.PrisonID, name, badgeNumber string, now time.Time) (*Officer, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "officer name cannot be empty")
	}
	if badgeNumber == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "badge number cannot be empty")
	}
	if prisonID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "officer must be posted to a prison")
	}
	return &Officer{
		ID:          officerID,
		PrisonID:    prisonID,
		Name:        name,
		BadgeNumber: badgeNumber,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
