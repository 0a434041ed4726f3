package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"warden/internal/custody/models"
	appearanceStore "warden/internal/custody/store/appearance"
	inmateStore "warden/internal/custody/store/inmate"
	movementStore "warden/internal/custody/store/movement"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/audit"
	auditmemory "warden/pkg/platform/audit/store/memory"
	"warden/pkg/platform/audit/publisher"
)

type CustodyServiceSuite struct {
	suite.Suite
	inmates     *inmateStore.InMemoryStore
	movements   *movementStore.InMemoryStore
	appearances *appearanceStore.InMemoryStore
	auditStore  *auditmemory.InMemoryStore
	service     *Service
	prisonID    id.PrisonID
	offenseID   id.OffenseID
	courtID     id.CourtID
}

func TestCustodyServiceSuite(t *testing.T) {
	suite.Run(t, new(CustodyServiceSuite))
}

func (s *CustodyServiceSuite) SetupTest() {
	s.inmates = inmateStore.New()
	s.movements = movementStore.New()
	s.appearances = appearanceStore.New()
	s.auditStore = auditmemory.NewInMemoryStore()
	s.service = New(s.inmates, s.movements, s.appearances,
		WithAuditPublisher(publisher.NewPublisher(s.auditStore)),
	)
	s.prisonID = id.NewPrisonID()
	s.offenseID = id.NewOffenseID()
	s.courtID = id.NewCourtID()
}

func (s *CustodyServiceSuite) registerInmate(prisonNumber string) *models.Inmate {
	inmate, err := s.service.RegisterInmate(context.Background(), RegisterInmateParams{
		FirstName:     "Moses",
		LastName:      "Byaruhanga",
		PrisonNumber:  prisonNumber,
		Gender:        id.GenderMale,
		InmateType:    id.InmateTypeRemand,
		PrisonID:      s.prisonID,
		CaseNumber:    "CR-2026-114",
		OffenseID:     s.offenseID,
		AdmissionDate: "2026-01-12",
	})
	s.Require().NoError(err)
	return inmate
}

func (s *CustodyServiceSuite) TestRegisterInmate() {
	ctx := context.Background()

	s.Run("defaults status from inmate type", func() {
		inmate := s.registerInmate("LUZ/2026/001")
		s.Equal(id.StatusRemand, inmate.Status)
	})

	s.Run("duplicate prison number conflicts and leaves first intact", func() {
		first := s.registerInmate("LUZ/2026/002")

		_, err := s.service.RegisterInmate(ctx, RegisterInmateParams{
			FirstName:     "Peter",
			LastName:      "Ochen",
			PrisonNumber:  "LUZ/2026/002",
			Gender:        id.GenderMale,
			InmateType:    id.InmateTypeConvict,
			PrisonID:      s.prisonID,
			CaseNumber:    "CR-2026-115",
			OffenseID:     s.offenseID,
			AdmissionDate: "2026-01-13",
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		got, err := s.service.GetInmate(ctx, first.ID)
		s.NoError(err)
		s.Equal("Moses", got.FirstName)
	})

	s.Run("missing required fields rejected", func() {
		_, err := s.service.RegisterInmate(ctx, RegisterInmateParams{
			PrisonNumber: "LUZ/2026/003",
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("registration is audited", func() {
		inmate := s.registerInmate("LUZ/2026/004")
		events, err := s.auditStore.ListByInmate(ctx, inmate.ID)
		s.Require().NoError(err)
		s.Require().NotEmpty(events)
		s.Equal(string(audit.EventInmateRegistered), events[0].Action)
	})
}

func (s *CustodyServiceSuite) TestRecordMovement() {
	ctx := context.Background()

	s.Run("court movement moves inmate to at_court", func() {
		inmate := s.registerInmate("LUZ/2026/010")

		_, err := s.service.RecordMovement(ctx, RecordMovementParams{
			InmateID:      inmate.ID,
			MovementType:  id.MovementCourt,
			Destination:   "Buganda Road Court",
			DepartureDate: "2026-02-01",
			Reason:        "hearing",
		})
		s.Require().NoError(err)

		got, err := s.service.GetInmate(ctx, inmate.ID)
		s.Require().NoError(err)
		s.Equal(id.StatusAtCourt, got.Status)
	})

	s.Run("transfer reassigns the facility", func() {
		inmate := s.registerInmate("LUZ/2026/011")
		destination := id.NewPrisonID()

		_, err := s.service.RecordMovement(ctx, RecordMovementParams{
			InmateID:      inmate.ID,
			MovementType:  id.MovementTransfer,
			FromPrisonID:  s.prisonID,
			ToPrisonID:    destination,
			DepartureDate: "2026-02-02",
			Reason:        "decongestion",
		})
		s.Require().NoError(err)

		got, err := s.service.GetInmate(ctx, inmate.ID)
		s.Require().NoError(err)
		s.Equal(id.StatusTransferred, got.Status)
		s.Equal(destination, got.PrisonID)
	})

	s.Run("transfer without destination prison rejected", func() {
		inmate := s.registerInmate("LUZ/2026/012")
		_, err := s.service.RecordMovement(ctx, RecordMovementParams{
			InmateID:      inmate.ID,
			MovementType:  id.MovementTransfer,
			DepartureDate: "2026-02-03",
			Reason:        "decongestion",
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("unknown inmate aborts before any movement row exists", func() {
		unknown := id.NewInmateID()
		_, err := s.service.RecordMovement(ctx, RecordMovementParams{
			InmateID:      unknown,
			MovementType:  id.MovementHospital,
			DepartureDate: "2026-02-04",
			Reason:        "treatment",
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		rows, err := s.service.ListMovementsByInmate(ctx, unknown)
		s.NoError(err)
		s.Empty(rows)
	})

	s.Run("missing reason rejected", func() {
		inmate := s.registerInmate("LUZ/2026/013")
		_, err := s.service.RecordMovement(ctx, RecordMovementParams{
			InmateID:      inmate.ID,
			MovementType:  id.MovementHospital,
			DepartureDate: "2026-02-05",
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *CustodyServiceSuite) TestRecordReturn() {
	ctx := context.Background()

	s.Run("stamps return date without reverting status", func() {
		inmate := s.registerInmate("LUZ/2026/020")

		movement, err := s.service.RecordMovement(ctx, RecordMovementParams{
			InmateID:      inmate.ID,
			MovementType:  id.MovementCourt,
			DepartureDate: "2026-03-01",
			Reason:        "mention",
		})
		s.Require().NoError(err)

		returned, err := s.service.RecordReturn(ctx, movement.ID, "2026-03-01", "")
		s.Require().NoError(err)
		s.Equal("2026-03-01", returned.ReturnDate)
		s.False(returned.IsOpen())

		// Status stays at_court; the caller corrects it separately.
		got, err := s.service.GetInmate(ctx, inmate.ID)
		s.Require().NoError(err)
		s.Equal(id.StatusAtCourt, got.Status)
	})

	s.Run("returned movement leaves the open list", func() {
		inmate := s.registerInmate("LUZ/2026/021")

		movement, err := s.service.RecordMovement(ctx, RecordMovementParams{
			InmateID:      inmate.ID,
			MovementType:  id.MovementWorkParty,
			DepartureDate: "2026-03-02",
			Reason:        "farm detail",
		})
		s.Require().NoError(err)

		open, err := s.service.ListOpenMovements(ctx)
		s.Require().NoError(err)
		s.Len(open, 1)

		_, err = s.service.RecordReturn(ctx, movement.ID, "2026-03-02", "")
		s.Require().NoError(err)

		open, err = s.service.ListOpenMovements(ctx)
		s.Require().NoError(err)
		s.Empty(open)
	})

	s.Run("unknown movement is not found", func() {
		_, err := s.service.RecordReturn(ctx, id.NewMovementID(), "2026-03-03", "")
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *CustodyServiceSuite) TestAppearances() {
	ctx := context.Background()

	s.Run("scheduling sets next court date without touching status", func() {
		inmate := s.registerInmate("LUZ/2026/030")

		_, err := s.service.ScheduleAppearance(ctx, ScheduleAppearanceParams{
			InmateID:      inmate.ID,
			CourtID:       s.courtID,
			ScheduledDate: "2026-04-10",
		})
		s.Require().NoError(err)

		got, err := s.service.GetInmate(ctx, inmate.ID)
		s.Require().NoError(err)
		s.Equal("2026-04-10", got.NextCourtDate)
		s.Equal(id.StatusRemand, got.Status)
	})

	s.Run("convicted outcome moves inmate to convict", func() {
		inmate := s.registerInmate("LUZ/2026/031")

		// Movement to court first, mirroring the real sequence.
		_, err := s.service.RecordMovement(ctx, RecordMovementParams{
			InmateID:      inmate.ID,
			MovementType:  id.MovementCourt,
			DepartureDate: "2026-04-11",
			Reason:        "judgment",
		})
		s.Require().NoError(err)

		appearance, err := s.service.ScheduleAppearance(ctx, ScheduleAppearanceParams{
			InmateID:      inmate.ID,
			CourtID:       s.courtID,
			ScheduledDate: "2026-04-11",
		})
		s.Require().NoError(err)

		mid, err := s.service.GetInmate(ctx, inmate.ID)
		s.Require().NoError(err)
		s.Equal(id.StatusAtCourt, mid.Status)

		_, err = s.service.RecordOutcome(ctx, RecordOutcomeParams{
			AppearanceID: appearance.ID,
			Outcome:      id.OutcomeConvicted,
		})
		s.Require().NoError(err)

		got, err := s.service.GetInmate(ctx, inmate.ID)
		s.Require().NoError(err)
		s.Equal(id.StatusConvict, got.Status)
	})

	s.Run("adjourned outcome with next date restores remand and moves the date", func() {
		inmate := s.registerInmate("LUZ/2026/032")

		appearance, err := s.service.ScheduleAppearance(ctx, ScheduleAppearanceParams{
			InmateID:      inmate.ID,
			CourtID:       s.courtID,
			ScheduledDate: "2026-04-12",
		})
		s.Require().NoError(err)

		_, err = s.service.RecordOutcome(ctx, RecordOutcomeParams{
			AppearanceID: appearance.ID,
			Outcome:      id.OutcomeAdjourned,
			NextDate:     "2026-05-20",
		})
		s.Require().NoError(err)

		got, err := s.service.GetInmate(ctx, inmate.ID)
		s.Require().NoError(err)
		s.Equal(id.StatusRemand, got.Status)
		s.Equal("2026-05-20", got.NextCourtDate)
	})

	s.Run("acquitted outcome releases regardless of prior status", func() {
		inmate := s.registerInmate("LUZ/2026/033")

		appearance, err := s.service.ScheduleAppearance(ctx, ScheduleAppearanceParams{
			InmateID:      inmate.ID,
			CourtID:       s.courtID,
			ScheduledDate: "2026-04-13",
		})
		s.Require().NoError(err)

		_, err = s.service.RecordOutcome(ctx, RecordOutcomeParams{
			AppearanceID: appearance.ID,
			Outcome:      id.OutcomeAcquitted,
		})
		s.Require().NoError(err)

		got, err := s.service.GetInmate(ctx, inmate.ID)
		s.Require().NoError(err)
		s.Equal(id.StatusReleased, got.Status)
	})

	s.Run("unknown outcome never reaches the state machine", func() {
		inmate := s.registerInmate("LUZ/2026/034")

		appearance, err := s.service.ScheduleAppearance(ctx, ScheduleAppearanceParams{
			InmateID:      inmate.ID,
			CourtID:       s.courtID,
			ScheduledDate: "2026-04-14",
		})
		s.Require().NoError(err)

		_, err = s.service.RecordOutcome(ctx, RecordOutcomeParams{
			AppearanceID: appearance.ID,
			Outcome:      id.CourtOutcome("struck_out"),
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

		got, err := s.service.GetInmate(ctx, inmate.ID)
		s.Require().NoError(err)
		s.Equal(id.StatusRemand, got.Status)
	})

	s.Run("scheduling for unknown inmate aborts without an appearance row", func() {
		_, err := s.service.ScheduleAppearance(ctx, ScheduleAppearanceParams{
			InmateID:      id.NewInmateID(),
			CourtID:       s.courtID,
			ScheduledDate: "2026-04-15",
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		upcoming, err := s.service.ListUpcomingAppearances(ctx, "2026-04-15")
		s.NoError(err)
		s.Empty(upcoming)
	})
}

func (s *CustodyServiceSuite) TestRelease() {
	ctx := context.Background()

	s.Run("stamps status, date and reason", func() {
		inmate := s.registerInmate("LUZ/2026/040")

		released, err := s.service.Release(ctx, inmate.ID, "2026-08-30", id.ReleaseServed, "")
		s.Require().NoError(err)
		s.Equal(id.StatusReleased, released.Status)
		s.Equal("2026-08-30", released.ActualReleaseDate)
		s.Equal(id.ReleaseServed, released.ReleaseReason)
	})

	s.Run("release reason is mandatory", func() {
		inmate := s.registerInmate("LUZ/2026/041")
		_, err := s.service.Release(ctx, inmate.ID, "2026-08-30", "", "")
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("unknown release reason rejected", func() {
		inmate := s.registerInmate("LUZ/2026/042")
		_, err := s.service.Release(ctx, inmate.ID, "2026-08-30", id.ReleaseReason("parole"), "")
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *CustodyServiceSuite) TestUpdateStatus() {
	ctx := context.Background()

	s.Run("direct edit is the only path into escaped", func() {
		inmate := s.registerInmate("LUZ/2026/050")

		got, err := s.service.UpdateStatus(ctx, inmate.ID, id.StatusEscaped)
		s.Require().NoError(err)
		s.Equal(id.StatusEscaped, got.Status)
	})

	s.Run("invalid status rejected", func() {
		inmate := s.registerInmate("LUZ/2026/051")
		_, err := s.service.UpdateStatus(ctx, inmate.ID, id.InmateStatus("paroled"))
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *CustodyServiceSuite) TestUpdateAndDeleteInmate() {
	ctx := context.Background()

	s.Run("patch leaves unset fields alone", func() {
		inmate := s.registerInmate("LUZ/2026/060")

		risk := id.RiskHigh
		cell := "B"
		got, err := s.service.UpdateInmate(ctx, inmate.ID, models.InmatePatch{
			RiskLevel: &risk,
			CellBlock: &cell,
		})
		s.Require().NoError(err)
		s.Equal(id.RiskHigh, got.RiskLevel)
		s.Equal("B", got.CellBlock)
		s.Equal("Moses", got.FirstName)
		s.Equal(inmate.PrisonNumber, got.PrisonNumber)
	})

	s.Run("delete removes the record", func() {
		inmate := s.registerInmate("LUZ/2026/061")

		s.Require().NoError(s.service.DeleteInmate(ctx, inmate.ID))

		_, err := s.service.GetInmate(ctx, inmate.ID)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
