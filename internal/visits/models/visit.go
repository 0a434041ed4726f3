package models

import (
	"time"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// IDType names the document a visitor identified with at the gate.
type IDType string

const (
	IDNationalID    IDType = "national_id"
	IDPassport      IDType = "passport"
	IDDrivingPermit IDType = "driving_permit"
)

var validIDTypes = map[IDType]bool{
	IDNationalID:    true,
	IDPassport:      true,
	IDDrivingPermit: true,
}

func ParseIDType(s string) (IDType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "id type cannot be empty")
	}
	t := IDType(s)
	if !validIDTypes[t] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid id type %q", s)
	}
	return t, nil
}

func (t IDType) String() string { return string(t) }

// Visit is one visitor appointment. The status walks
// scheduled → checked_in → completed; denied and cancelled are terminal.
// Transitions are guarded here so a visitor cannot leave before arriving.
type Visit struct {
	ID       id.VisitID  `json:"id"`
	InmateID id.InmateID `json:"inmate_id"`
	PrisonID id.PrisonID `json:"prison_id"`

	FullName     string `json:"full_name"`
	IDNumber     string `json:"id_number"`
	IDType       IDType `json:"id_type,omitempty"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
	Address      string `json:"address,omitempty"`
	Email        string `json:"email,omitempty"`
	Reason       string `json:"reason,omitempty"`

	ScheduledDate string `json:"scheduled_date,omitempty"`
	CheckInTime   string `json:"check_in_time,omitempty"`
	CheckOutTime  string `json:"check_out_time,omitempty"`

	Status       id.VisitStatus `json:"status"`
	DenialReason string         `json:"denial_reason,omitempty"`

	ItemsDeclaration string `json:"items_declaration,omitempty"`
	Flagged          bool   `json:"flagged"`
	FlagReason       string `json:"flag_reason,omitempty"`

	ApprovedByID id.OfficerID `json:"approved_by_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewVisit schedules a visit. Visitor identity fields are mandatory; the
// record always starts in the scheduled state.
func NewVisit(visitID id.VisitID, inmateID id.InmateID, prisonID id.PrisonID, fullName, idNumber, relationship, phone string, now time.Time) (*Visit, error) {
	if inmateID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "visit must reference an inmate")
	}
	if prisonID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "visit must reference a facility")
	}
	if fullName == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "visitor name cannot be empty")
	}
	if idNumber == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "visitor id number cannot be empty")
	}
	if relationship == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "visitor relationship cannot be empty")
	}
	if phone == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "visitor phone cannot be empty")
	}
	return &Visit{
		ID:           visitID,
		InmateID:     inmateID,
		PrisonID:     prisonID,
		FullName:     fullName,
		IDNumber:     idNumber,
		Relationship: relationship,
		Phone:        phone,
		Status:       id.VisitScheduled,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// CheckIn admits the visitor. Only a scheduled visit can be checked in.
func (v *Visit) CheckIn(checkInTime string, approvedByID id.OfficerID, itemsDeclaration string, now time.Time) error {
	if v.Status != id.VisitScheduled {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "cannot check in a %s visit", v.Status)
	}
	if checkInTime == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "check-in time cannot be empty")
	}
	v.Status = id.VisitCheckedIn
	v.CheckInTime = checkInTime
	if !approvedByID.IsNil() {
		v.ApprovedByID = approvedByID
	}
	if itemsDeclaration != "" {
		v.ItemsDeclaration = itemsDeclaration
	}
	v.UpdatedAt = now
	return nil
}

// Complete records the visitor leaving. Only a checked-in visit completes;
// the gate may flag the visit on the way out.
func (v *Visit) Complete(checkOutTime string, flagged bool, flagReason string, now time.Time) error {
	if v.Status != id.VisitCheckedIn {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "cannot complete a %s visit", v.Status)
	}
	if checkOutTime == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "check-out time cannot be empty")
	}
	v.Status = id.VisitCompleted
	v.CheckOutTime = checkOutTime
	if flagged {
		v.Flagged = true
		v.FlagReason = flagReason
	}
	v.UpdatedAt = now
	return nil
}

// Deny turns the visitor away. A reason is mandatory; completed visits
// cannot be denied retroactively.
func (v *Visit) Deny(reason string, now time.Time) error {
	if reason == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "denial reason cannot be empty")
	}
	if v.Status == id.VisitCompleted {
		return dErrors.New(dErrors.CodeInvariantViolation, "cannot deny a completed visit")
	}
	v.Status = id.VisitDenied
	v.DenialReason = reason
	v.UpdatedAt = now
	return nil
}

// Cancel withdraws a visit before the visitor arrives.
func (v *Visit) Cancel(now time.Time) error {
	if v.Status != id.VisitScheduled {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "cannot cancel a %s visit", v.Status)
	}
	v.Status = id.VisitCancelled
	v.UpdatedAt = now
	return nil
}

// VisitPatch is a partial administrative update. Status is deliberately
// absent; it only moves through the workflow methods.
type VisitPatch struct {
	ScheduledDate *string
	Reason        *string
	Flagged       *bool
	FlagReason    *string
	Address       *string
	Email         *string
}

// IsZero reports whether the patch changes nothing.
func (p VisitPatch) IsZero() bool { return p == VisitPatch{} }

// ApplyPatch writes the patch onto the visit and stamps UpdatedAt.
func (v *Visit) ApplyPatch(p VisitPatch, now time.Time) {
	if p.ScheduledDate != nil {
		v.ScheduledDate = *p.ScheduledDate
	}
	if p.Reason != nil {
		v.Reason = *p.Reason
	}
	if p.Flagged != nil {
		v.Flagged = *p.Flagged
	}
	if p.FlagReason != nil {
		v.FlagReason = *p.FlagReason
	}
	if p.Address != nil {
		v.Address = *p.Address
	}
	if p.Email != nil {
		v.Email = *p.Email
	}
	v.UpdatedAt = now
}
