package domain

import dErrors "warden/pkg/domain-errors"

// MovementType classifies a custody movement. Wire contract values.
type MovementType string

const (
	MovementTransfer  MovementType = "transfer"
	MovementHospital  MovementType = "hospital"
	MovementCourt     MovementType = "court"
	MovementWorkParty MovementType = "work_party"
	MovementRelease   MovementType = "release"
)

var validMovementTypes = map[MovementType]bool{
	MovementTransfer:  true,
	MovementHospital:  true,
	MovementCourt:     true,
	MovementWorkParty: true,
	MovementRelease:   true,
}

// ParseMovementType constructs a MovementType from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
// Note the state machine itself tolerates unmapped types as a no-op; this
// parse boundary is what keeps unknown values out of stored records.
func ParseMovementType(s string) (MovementType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "movement type cannot be empty")
	}
	m := MovementType(s)
	if !m.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid movement type %q", s)
	}
	return m, nil
}

func (m MovementType) IsValid() bool  { return validMovementTypes[m] }
func (m MovementType) String() string { return string(m) }
