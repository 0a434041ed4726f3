package models

import (
	"time"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// Movement is a record of an inmate leaving or returning to custody. A
// movement with no return date is "open".
//
// Invariants:
//   - Reason is mandatory
//   - transfer movements require a destination facility reference; other
//     types carry a free-text destination instead
type Movement struct {
	ID           id.MovementID   `json:"id"`
	InmateID     id.InmateID     `json:"inmate_id"`
	MovementType id.MovementType `json:"movement_type"`

	FromPrisonID id.PrisonID  `json:"from_prison_id,omitempty"`
	ToPrisonID   id.PrisonID  `json:"to_prison_id,omitempty"`
	OfficerID    id.OfficerID `json:"officer_id,omitempty"`
	Destination  string       `json:"destination,omitempty"`

	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date,omitempty"`
	Reason        string `json:"reason"`
	Notes         string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewMovement(movementID id.MovementID, inmateID id.InmateID, movementType id.MovementType, departureDate, reason string, now time.Time) (*Movement, error) {
	if inmateID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "movement must reference an inmate")
	}
	if departureDate == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "departure date cannot be empty")
	}
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "movement reason cannot be empty")
	}
	return &Movement{
		ID:            movementID,
		InmateID:      inmateID,
		MovementType:  movementType,
		DepartureDate: departureDate,
		Reason:        reason,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// IsOpen reports whether the inmate has not yet returned.
func (m *Movement) IsOpen() bool { return m.ReturnDate == "" }

// RecordReturn stamps the return date and optional notes. Inmate status is
// not reverted here; a court return may have changed it via the outcome, so
// the caller supplies any status correction as a separate update.
func (m *Movement) RecordReturn(returnDate, notes string, now time.Time) error {
	if returnDate == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "return date cannot be empty")
	}
	m.ReturnDate = returnDate
	if notes != "" {
		m.Notes = notes
	}
	m.UpdatedAt = now
	return nil
}

// MovementPatch is a partial administrative update to a movement record.
type MovementPatch struct {
	Destination   *string
	DepartureDate *string
	ReturnDate    *string
	Reason        *string
	Notes         *string
	OfficerID     *id.OfficerID
}

// Apply writes the patch onto the movement and stamps UpdatedAt.
func (m *Movement) ApplyPatch(p MovementPatch, now time.Time) {
	if p.Destination != nil {
		m.Destination = *p.Destination
	}
	if p.DepartureDate != nil {
		m.DepartureDate = *p.DepartureDate
	}
	if p.ReturnDate != nil {
		m.ReturnDate = *p.ReturnDate
	}
	if p.Reason != nil {
		m.Reason = *p.Reason
	}
	if p.Notes != nil {
		m.Notes = *p.Notes
	}
	if p.OfficerID != nil {
		m.OfficerID = *p.OfficerID
	}
	m.UpdatedAt = now
}
