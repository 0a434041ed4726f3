package domain

import dErrors "warden/pkg/domain-errors"

// InmateStatus is the custody state of an inmate. The string values form the
// wire contract and must be preserved exactly.
//
// escaped and deceased are entered only by direct administrative status edit;
// no recorded event transitions into or out of them.
type InmateStatus string

const (
	StatusRemand      InmateStatus = "remand"
	StatusConvict     InmateStatus = "convict"
	StatusAtCourt     InmateStatus = "at_court"
	StatusReleased    InmateStatus = "released"
	StatusTransferred InmateStatus = "transferred"
	StatusEscaped     InmateStatus = "escaped"
	StatusDeceased    InmateStatus = "deceased"
)

var validInmateStatuses = map[InmateStatus]bool{
	StatusRemand:      true,
	StatusConvict:     true,
	StatusAtCourt:     true,
	StatusReleased:    true,
	StatusTransferred: true,
	StatusEscaped:     true,
	StatusDeceased:    true,
}

// ParseInmateStatus constructs an InmateStatus from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseInmateStatus(s string) (InmateStatus, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "status cannot be empty")
	}
	st := InmateStatus(s)
	if !st.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid inmate status %q", s)
	}
	return st, nil
}

func (s InmateStatus) IsValid() bool  { return validInmateStatuses[s] }
func (s InmateStatus) String() string { return string(s) }

// InmateType is the custody classification assigned at registration.
type InmateType string

const (
	InmateTypeRemand  InmateType = "remand"
	InmateTypeConvict InmateType = "convict"
	InmateTypeCivil   InmateType = "civil"
)

var validInmateTypes = map[InmateType]bool{
	InmateTypeRemand:  true,
	InmateTypeConvict: true,
	InmateTypeCivil:   true,
}

func ParseInmateType(s string) (InmateType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "inmate type cannot be empty")
	}
	t := InmateType(s)
	if !validInmateTypes[t] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid inmate type %q", s)
	}
	return t, nil
}

func (t InmateType) String() string { return string(t) }

// RiskLevel is optional on an inmate record.
type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskMaximum RiskLevel = "maximum"
)

var validRiskLevels = map[RiskLevel]bool{
	RiskLow:     true,
	RiskMedium:  true,
	RiskHigh:    true,
	RiskMaximum: true,
}

func ParseRiskLevel(s string) (RiskLevel, error) {
	r := RiskLevel(s)
	if !validRiskLevels[r] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid risk level %q", s)
	}
	return r, nil
}

func (r RiskLevel) String() string { return string(r) }

// Gender as recorded at registration.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func ParseGender(s string) (Gender, error) {
	g := Gender(s)
	if g != GenderMale && g != GenderFemale {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid gender %q", s)
	}
	return g, nil
}

func (g Gender) String() string { return string(g) }

// ReleaseReason is required on any release, direct or via court outcome
// follow-up.
type ReleaseReason string

const (
	ReleaseServed    ReleaseReason = "served"
	ReleaseBail      ReleaseReason = "bail"
	ReleaseAcquitted ReleaseReason = "acquitted"
	ReleasePardon    ReleaseReason = "pardon"
	ReleaseFinePaid  ReleaseReason = "fine_paid"
)

var validReleaseReasons = map[ReleaseReason]bool{
	ReleaseServed:    true,
	ReleaseBail:      true,
	ReleaseAcquitted: true,
	ReleasePardon:    true,
	ReleaseFinePaid:  true,
}

func ParseReleaseReason(s string) (ReleaseReason, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "release reason cannot be empty")
	}
	r := ReleaseReason(s)
	if !validReleaseReasons[r] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid release reason %q", s)
	}
	return r, nil
}

func (r ReleaseReason) String() string { return string(r) }
