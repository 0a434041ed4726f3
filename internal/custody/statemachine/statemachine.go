// Package statemachine derives custody status transitions from recorded
// events. Everything here is a pure function of the event data; side effects
// are expressed as an InmatePatch the service applies together with the
// triggering record's own write.
package statemachine

import (
	"warden/internal/custody/models"
	id "warden/pkg/domain"
)

// movementStatus maps a movement type to the custody status it implies.
// hospital and work_party keep the inmate counted as in-system, hence remand.
var movementStatus = map[id.MovementType]id.InmateStatus{
	id.MovementTransfer:  id.StatusTransferred,
	id.MovementHospital:  id.StatusRemand,
	id.MovementCourt:     id.StatusAtCourt,
	id.MovementWorkParty: id.StatusRemand,
	id.MovementRelease:   id.StatusReleased,
}

// OnMovementRecorded computes the inmate patch for a newly recorded movement.
// An unmapped movement type yields an empty patch rather than an error; the
// machine stays total against event types it does not recognize.
func OnMovementRecorded(m *models.Movement) models.InmatePatch {
	var patch models.InmatePatch

	if status, ok := movementStatus[m.MovementType]; ok {
		patch.Status = &status
	}
	if m.MovementType == id.MovementTransfer && !m.ToPrisonID.IsNil() {
		to := m.ToPrisonID
		patch.PrisonID = &to
	}
	return patch
}

// OnCourtOutcome computes the inmate patch for a recorded court outcome.
// convicted and acquitted map to their terminal statuses; every other outcome
// returns the inmate to remand. A supplied next hearing date is stamped
// regardless of outcome.
func OnCourtOutcome(outcome id.CourtOutcome, nextDate string) models.InmatePatch {
	var patch models.InmatePatch

	var status id.InmateStatus
	switch outcome {
	case id.OutcomeConvicted:
		status = id.StatusConvict
	case id.OutcomeAcquitted:
		status = id.StatusReleased
	default:
		status = id.StatusRemand
	}
	patch.Status = &status

	if nextDate != "" {
		patch.NextCourtDate = &nextDate
	}
	return patch
}

// OnAppearanceScheduled computes the inmate patch for a newly scheduled
// appearance: the next court date moves, the status does not.
func OnAppearanceScheduled(scheduledDate string) models.InmatePatch {
	return models.InmatePatch{NextCourtDate: &scheduledDate}
}

// OnRelease computes the inmate patch for a direct release action.
func OnRelease(releaseDate string, reason id.ReleaseReason, notes string) models.InmatePatch {
	status := id.StatusReleased
	patch := models.InmatePatch{
		Status:            &status,
		ActualReleaseDate: &releaseDate,
		ReleaseReason:     &reason,
	}
	if notes != "" {
		patch.Notes = &notes
	}
	return patch
}
