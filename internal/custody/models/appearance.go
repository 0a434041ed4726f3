package models

import (
	"time"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// Appearance is a scheduled court appearance. Scheduling one sets the
// inmate's next court date; recording its outcome drives the custody status
// per the outcome mapping.
type Appearance struct {
	ID        id.AppearanceID `json:"id"`
	InmateID  id.InmateID     `json:"inmate_id"`
	CourtID   id.CourtID      `json:"court_id"`
	OfficerID id.OfficerID    `json:"officer_id,omitempty"`

	ScheduledDate string `json:"scheduled_date"`
	DepartureTime string `json:"departure_time,omitempty"`
	ReturnTime    string `json:"return_time,omitempty"`

	Outcome  id.CourtOutcome `json:"outcome,omitempty"`
	NextDate string          `json:"next_date,omitempty"`
	Notes    string          `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewAppearance(appearanceID id.AppearanceID, inmateID id.InmateID, courtID id.CourtID, scheduledDate string, now time.Time) (*Appearance, error) {
	if inmateID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "appearance must reference an inmate")
	}
	if courtID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "appearance must reference a court")
	}
	if scheduledDate == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "scheduled date cannot be empty")
	}
	return &Appearance{
		ID:            appearanceID,
		InmateID:      inmateID,
		CourtID:       courtID,
		ScheduledDate: scheduledDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// RecordOutcome stamps the outcome fields. Re-recording overwrites the
// previous stamp.
func (a *Appearance) RecordOutcome(outcome id.CourtOutcome, returnTime, nextDate, notes string, now time.Time) {
	a.Outcome = outcome
	if returnTime != "" {
		a.ReturnTime = returnTime
	}
	if nextDate != "" {
		a.NextDate = nextDate
	}
	if notes != "" {
		a.Notes = notes
	}
	a.UpdatedAt = now
}

// AppearancePatch is a partial administrative update to an appearance.
type AppearancePatch struct {
	ScheduledDate *string
	DepartureTime *string
	ReturnTime    *string
	Outcome       *id.CourtOutcome
	NextDate      *string
	OfficerID     *id.OfficerID
	Notes         *string
}

// ApplyPatch writes the patch onto the appearance and stamps UpdatedAt.
func (a *Appearance) ApplyPatch(p AppearancePatch, now time.Time) {
	if p.ScheduledDate != nil {
		a.ScheduledDate = *p.ScheduledDate
	}
	if p.DepartureTime != nil {
		a.DepartureTime = *p.DepartureTime
	}
	if p.ReturnTime != nil {
		a.ReturnTime = *p.ReturnTime
	}
	if p.Outcome != nil {
		a.Outcome = *p.Outcome
	}
	if p.NextDate != nil {
		a.NextDate = *p.NextDate
	}
	if p.OfficerID != nil {
		a.OfficerID = *p.OfficerID
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
	a.UpdatedAt = now
}
