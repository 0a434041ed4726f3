package models

import (
	"time"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// CourtType classifies a court.
type CourtType string

const (
	CourtMagistrate      CourtType = "magistrate"
	CourtHigh            CourtType = "high"
	CourtChiefMagistrate CourtType = "chief_magistrate"
	CourtIndustrial      CourtType = "industrial_court"
)

var validCourtTypes = map[CourtType]bool{
	CourtMagistrate:      true,
	CourtHigh:            true,
	CourtChiefMagistrate: true,
	CourtIndustrial:      true,
}

func ParseCourtType(s string) (CourtType, error) {
	t := CourtType(s)
	if !validCourtTypes[t] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown court type %q", s)
	}
	return t, nil
}

func (t CourtType) String() string { return string(t) }

// Court is a courtroom lookup record. Type is optional; district courts in
// older imports carry no classification.
type Court struct {
	ID        id.CourtID `json:"id"`
	Name      string     `json:"name"`
	Type      CourtType  `json:"type,omitempty"`
	District  string     `json:"district,omitempty"`
	Address   string     `json:"address,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func NewCourt(courtID id.CourtID, name string, courtType CourtType, now time.Time) (*Court, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "court name cannot be empty")
	}
	if courtType != "" && !validCourtTypes[courtType] {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown court type %q", courtType)
	}
	return &Court{
		ID:        courtID,
		Name:      name,
		Type:      courtType,
		CreatedAt: now,
	}, nil
}
