package domain

import (
	"encoding/json"

	"github.com/google/uuid"

	dErrors "warden/pkg/domain-errors"
)

// SubjectType discriminates who a biometric record belongs to.
type SubjectType string

const (
	SubjectInmate  SubjectType = "inmate"
	SubjectOfficer SubjectType = "officer"
)

func ParseSubjectType(s string) (SubjectType, error) {
	t := SubjectType(s)
	if t != SubjectInmate && t != SubjectOfficer {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid subject type %q", s)
	}
	return t, nil
}

func (t SubjectType) String() string { return string(t) }

// Subject is a tagged union over {InmateID, OfficerID}. The original store
// modeled this as two nullable foreign keys plus a discriminator and enforced
// "exactly one is set" at runtime; here the constructors make it impossible to
// build an inconsistent value.
type Subject struct {
	kind      SubjectType
	inmateID  InmateID
	officerID OfficerID
}

// InmateSubject builds a Subject referring to an inmate.
func InmateSubject(id InmateID) Subject {
	return Subject{kind: SubjectInmate, inmateID: id}
}

// OfficerSubject builds a Subject referring to an officer.
func OfficerSubject(id OfficerID) Subject {
	return Subject{kind: SubjectOfficer, officerID: id}
}

// NewSubject resolves the discriminator-plus-optional-IDs wire shape into a
// Subject. The reference matching the declared type must be present.
//
// Errors: CodeInvalidInput when the required reference is absent.
func NewSubject(kind SubjectType, inmateID InmateID, officerID OfficerID) (Subject, error) {
	switch kind {
	case SubjectInmate:
		if inmateID.IsNil() {
			return Subject{}, dErrors.New(dErrors.CodeInvalidInput, "inmate reference required for inmate subject")
		}
		return InmateSubject(inmateID), nil
	case SubjectOfficer:
		if officerID.IsNil() {
			return Subject{}, dErrors.New(dErrors.CodeInvalidInput, "officer reference required for officer subject")
		}
		return OfficerSubject(officerID), nil
	default:
		return Subject{}, dErrors.Newf(dErrors.CodeInvalidInput, "invalid subject type %q", kind)
	}
}

func (s Subject) Type() SubjectType { return s.kind }

func (s Subject) IsZero() bool { return s.kind == "" }

// InmateID returns the inmate reference and whether the subject is an inmate.
func (s Subject) InmateID() (InmateID, bool) {
	return s.inmateID, s.kind == SubjectInmate
}

// OfficerID returns the officer reference and whether the subject is an officer.
func (s Subject) OfficerID() (OfficerID, bool) {
	return s.officerID, s.kind == SubjectOfficer
}

// RefString returns the underlying reference as a string regardless of type.
func (s Subject) RefString() string {
	if s.kind == SubjectOfficer {
		return s.officerID.String()
	}
	return s.inmateID.String()
}

// Key returns a stable composite string usable as a map key.
func (s Subject) Key() string {
	return string(s.kind) + "/" + s.RefString()
}

func (s Subject) Equal(other Subject) bool {
	return s.kind == other.kind &&
		uuid.UUID(s.inmateID) == uuid.UUID(other.inmateID) &&
		uuid.UUID(s.officerID) == uuid.UUID(other.officerID)
}

// subjectJSON is the wire shape of a Subject: the discriminator plus whichever
// reference matches it.
type subjectJSON struct {
	Type      SubjectType `json:"type"`
	InmateID  string      `json:"inmate_id,omitempty"`
	OfficerID string      `json:"officer_id,omitempty"`
}

func (s Subject) MarshalJSON() ([]byte, error) {
	out := subjectJSON{Type: s.kind}
	switch s.kind {
	case SubjectInmate:
		out.InmateID = s.inmateID.String()
	case SubjectOfficer:
		out.OfficerID = s.officerID.String()
	}
	return json.Marshal(out)
}

func (s *Subject) UnmarshalJSON(data []byte) error {
	var in subjectJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	var (
		inmateID  InmateID
		officerID OfficerID
		err       error
	)
	if in.InmateID != "" {
		if inmateID, err = ParseInmateID(in.InmateID); err != nil {
			return err
		}
	}
	if in.OfficerID != "" {
		if officerID, err = ParseOfficerID(in.OfficerID); err != nil {
			return err
		}
	}
	parsed, err := NewSubject(in.Type, inmateID, officerID)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
