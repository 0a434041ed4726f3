package domain

import dErrors "warden/pkg/domain-errors"

// VisitStatus tracks the visitor workflow:
// scheduled → checked_in → completed, with denied and cancelled terminal.
type VisitStatus string

const (
	VisitScheduled VisitStatus = "scheduled"
	VisitCheckedIn VisitStatus = "checked_in"
	VisitCompleted VisitStatus = "completed"
	VisitDenied    VisitStatus = "denied"
	VisitCancelled VisitStatus = "cancelled"
)

var validVisitStatuses = map[VisitStatus]bool{
	VisitScheduled: true,
	VisitCheckedIn: true,
	VisitCompleted: true,
	VisitDenied:    true,
	VisitCancelled: true,
}

func ParseVisitStatus(s string) (VisitStatus, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "visit status cannot be empty")
	}
	v := VisitStatus(s)
	if !validVisitStatuses[v] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid visit status %q", s)
	}
	return v, nil
}

func (v VisitStatus) String() string { return string(v) }
