package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warden/internal/custody/models"
	id "warden/pkg/domain"
)

func TestOnMovementRecorded(t *testing.T) {
	tests := []struct {
		name         string
		movementType id.MovementType
		wantStatus   id.InmateStatus
	}{
		{"transfer moves to transferred", id.MovementTransfer, id.StatusTransferred},
		{"hospital keeps remand", id.MovementHospital, id.StatusRemand},
		{"court moves to at_court", id.MovementCourt, id.StatusAtCourt},
		{"work party keeps remand", id.MovementWorkParty, id.StatusRemand},
		{"release moves to released", id.MovementRelease, id.StatusReleased},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch := OnMovementRecorded(&models.Movement{MovementType: tt.movementType})
			require.NotNil(t, patch.Status)
			assert.Equal(t, tt.wantStatus, *patch.Status)
		})
	}

	t.Run("unmapped type is a no-op, not an error", func(t *testing.T) {
		patch := OnMovementRecorded(&models.Movement{MovementType: id.MovementType("parole_board")})
		assert.Nil(t, patch.Status)
		assert.True(t, patch.IsZero())
	})

	t.Run("transfer carries the destination facility", func(t *testing.T) {
		to := id.NewPrisonID()
		patch := OnMovementRecorded(&models.Movement{MovementType: id.MovementTransfer, ToPrisonID: to})
		require.NotNil(t, patch.PrisonID)
		assert.Equal(t, to, *patch.PrisonID)
	})

	t.Run("transfer without destination changes status only", func(t *testing.T) {
		patch := OnMovementRecorded(&models.Movement{MovementType: id.MovementTransfer})
		require.NotNil(t, patch.Status)
		assert.Equal(t, id.StatusTransferred, *patch.Status)
		assert.Nil(t, patch.PrisonID)
	})

	t.Run("non-transfer types never touch the facility", func(t *testing.T) {
		to := id.NewPrisonID()
		patch := OnMovementRecorded(&models.Movement{MovementType: id.MovementCourt, ToPrisonID: to})
		assert.Nil(t, patch.PrisonID)
	})
}

func TestOnCourtOutcome(t *testing.T) {
	tests := []struct {
		name       string
		outcome    id.CourtOutcome
		wantStatus id.InmateStatus
	}{
		{"convicted becomes convict", id.OutcomeConvicted, id.StatusConvict},
		{"acquitted becomes released", id.OutcomeAcquitted, id.StatusReleased},
		{"adjourned returns to remand", id.OutcomeAdjourned, id.StatusRemand},
		{"bail granted returns to remand", id.OutcomeBailGranted, id.StatusRemand},
		{"remanded returns to remand", id.OutcomeRemanded, id.StatusRemand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch := OnCourtOutcome(tt.outcome, "")
			require.NotNil(t, patch.Status)
			assert.Equal(t, tt.wantStatus, *patch.Status)
		})
	}

	t.Run("next hearing date is stamped regardless of outcome", func(t *testing.T) {
		for _, outcome := range []id.CourtOutcome{id.OutcomeConvicted, id.OutcomeAcquitted, id.OutcomeAdjourned} {
			patch := OnCourtOutcome(outcome, "2026-09-14")
			require.NotNil(t, patch.NextCourtDate)
			assert.Equal(t, "2026-09-14", *patch.NextCourtDate)
		}
	})

	t.Run("absent next date leaves the field alone", func(t *testing.T) {
		patch := OnCourtOutcome(id.OutcomeAdjourned, "")
		assert.Nil(t, patch.NextCourtDate)
	})
}

func TestOnAppearanceScheduled(t *testing.T) {
	patch := OnAppearanceScheduled("2026-10-01")
	require.NotNil(t, patch.NextCourtDate)
	assert.Equal(t, "2026-10-01", *patch.NextCourtDate)
	assert.Nil(t, patch.Status, "scheduling never changes custody status")
}

func TestOnRelease(t *testing.T) {
	t.Run("stamps status, date and reason", func(t *testing.T) {
		patch := OnRelease("2026-08-30", id.ReleaseServed, "")
		require.NotNil(t, patch.Status)
		assert.Equal(t, id.StatusReleased, *patch.Status)
		require.NotNil(t, patch.ActualReleaseDate)
		assert.Equal(t, "2026-08-30", *patch.ActualReleaseDate)
		require.NotNil(t, patch.ReleaseReason)
		assert.Equal(t, id.ReleaseServed, *patch.ReleaseReason)
		assert.Nil(t, patch.Notes)
	})

	t.Run("notes are appended only when supplied", func(t *testing.T) {
		patch := OnRelease("2026-08-30", id.ReleasePardon, "presidential pardon list 2026")
		require.NotNil(t, patch.Notes)
		assert.Equal(t, "presidential pardon list 2026", *patch.Notes)
	})
}
