package models

import (
	"time"

	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
)

// OffenseCategory classifies an offense.
type OffenseCategory string

const (
	OffenseFelony      OffenseCategory = "felony"
	OffenseMisdemeanor OffenseCategory = "misdemeanor"
	OffenseCapital     OffenseCategory = "capital"
	OffenseTraffic     OffenseCategory = "traffic"
)

var validOffenseCategories = map[OffenseCategory]bool{
	OffenseFelony:      true,
	OffenseMisdemeanor: true,
	OffenseCapital:     true,
	OffenseTraffic:     true,
}

func ParseOffenseCategory(s string) (OffenseCategory, error) {
	c := OffenseCategory(s)
	if !validOffenseCategories[c] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown offense category %q", s)
	}
	return c, nil
}

func (c OffenseCategory) String() string { return string(c) }

// Offense is a statute lookup record. Act, section and chapter refer to the
// penal code citation.
type Offense struct {
	ID               id.OffenseID    `json:"id"`
	Name             string          `json:"name"`
	Act              string          `json:"act,omitempty"`
	Section          string          `json:"section,omitempty"`
	Chapter          string          `json:"chapter,omitempty"`
	Category         OffenseCategory `json:"category,omitempty"`
	AmendedBy        string          `json:"amended_by,omitempty"`
	Description      string          `json:"description,omitempty"`
	MaxSentenceYears int             `json:"max_sentence_years,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

func NewOffense(offenseID id.OffenseID, name string, category OffenseCategory, now time.Time) (*Offense, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "offense name cannot be empty")
	}
	if category != "" && !validOffenseCategories[category] {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "unknown offense category %q", category)
	}
	return &Offense{
		ID:        offenseID,
		Name:      name,
		Category:  category,
		CreatedAt: now,
	}, nil
}
