package domain

import dErrors "warden/pkg/domain-errors"

// CourtOutcome is the recorded result of a court appearance. There is no
// fallback "unknown" outcome: values outside this set are rejected here and
// never reach the state machine.
type CourtOutcome string

const (
	OutcomeAdjourned   CourtOutcome = "adjourned"
	OutcomeConvicted   CourtOutcome = "convicted"
	OutcomeAcquitted   CourtOutcome = "acquitted"
	OutcomeBailGranted CourtOutcome = "bail_granted"
	OutcomeRemanded    CourtOutcome = "remanded"
)

var validCourtOutcomes = map[CourtOutcome]bool{
	OutcomeAdjourned:   true,
	OutcomeConvicted:   true,
	OutcomeAcquitted:   true,
	OutcomeBailGranted: true,
	OutcomeRemanded:    true,
}

func ParseCourtOutcome(s string) (CourtOutcome, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "outcome cannot be empty")
	}
	o := CourtOutcome(s)
	if !o.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid court outcome %q", s)
	}
	return o, nil
}

func (o CourtOutcome) IsValid() bool  { return validCourtOutcomes[o] }
func (o CourtOutcome) String() string { return string(o) }
