package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"warden/internal/visits/models"
	visitStore "warden/internal/visits/store/visit"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/audit"
	auditmemory "warden/pkg/platform/audit/store/memory"
	"warden/pkg/platform/audit/publisher"
)

type VisitServiceSuite struct {
	suite.Suite
	visits     *visitStore.InMemoryStore
	auditStore *auditmemory.InMemoryStore
	service    *Service
	inmateID   id.InmateID
	prisonID   id.PrisonID
	officerID  id.OfficerID
}

func TestVisitServiceSuite(t *testing.T) {
	suite.Run(t, new(VisitServiceSuite))
}

func (s *VisitServiceSuite) SetupTest() {
	s.visits = visitStore.New()
	s.auditStore = auditmemory.NewInMemoryStore()
	s.service = New(s.visits,
		WithAuditPublisher(publisher.NewPublisher(s.auditStore)),
	)
	s.inmateID = id.NewInmateID()
	s.prisonID = id.NewPrisonID()
	s.officerID = id.NewOfficerID()
}

func (s *VisitServiceSuite) scheduleVisit() *models.Visit {
	visit, err := s.service.ScheduleVisit(context.Background(), ScheduleVisitParams{
		InmateID:      s.inmateID,
		PrisonID:      s.prisonID,
		FullName:      "Grace Namutebi",
		IDNumber:      "CM900121003XPK",
		IDType:        models.IDNationalID,
		Relationship:  "sister",
		Phone:         "+256700123456",
		ScheduledDate: "2026-03-02",
	})
	s.Require().NoError(err)
	return visit
}

func (s *VisitServiceSuite) TestScheduleVisit() {
	ctx := context.Background()

	s.Run("starts in the scheduled state", func() {
		visit := s.scheduleVisit()
		s.Equal(id.VisitScheduled, visit.Status)
		s.Empty(visit.CheckInTime)
	})

	s.Run("missing visitor identity rejected", func() {
		_, err := s.service.ScheduleVisit(ctx, ScheduleVisitParams{
			InmateID: s.inmateID,
			PrisonID: s.prisonID,
			FullName: "Grace Namutebi",
		})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("scheduling is audited", func() {
		visit := s.scheduleVisit()
		events, err := s.auditStore.ListByInmate(ctx, s.inmateID)
		s.Require().NoError(err)
		s.Require().NotEmpty(events)
		last := events[len(events)-1]
		s.Equal(string(audit.EventVisitScheduled), last.Action)
		s.Equal(visit.ID.String(), last.SubjectID)
	})
}

func (s *VisitServiceSuite) TestCheckIn() {
	ctx := context.Background()

	s.Run("admits a scheduled visitor", func() {
		visit := s.scheduleVisit()

		checkedIn, err := s.service.CheckInVisit(ctx, visit.ID, "2026-03-02T10:15:00Z", s.officerID, "mobile phone, 20000 UGX")
		s.Require().NoError(err)
		s.Equal(id.VisitCheckedIn, checkedIn.Status)
		s.Equal("2026-03-02T10:15:00Z", checkedIn.CheckInTime)
		s.Equal(s.officerID, checkedIn.ApprovedByID)
		s.Equal("mobile phone, 20000 UGX", checkedIn.ItemsDeclaration)
	})

	s.Run("double check-in rejected", func() {
		visit := s.scheduleVisit()
		_, err := s.service.CheckInVisit(ctx, visit.ID, "2026-03-02T10:15:00Z", s.officerID, "")
		s.Require().NoError(err)

		_, err = s.service.CheckInVisit(ctx, visit.ID, "2026-03-02T10:20:00Z", s.officerID, "")
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("cancelled visit cannot check in", func() {
		visit := s.scheduleVisit()
		_, err := s.service.CancelVisit(ctx, visit.ID)
		s.Require().NoError(err)

		_, err = s.service.CheckInVisit(ctx, visit.ID, "2026-03-02T10:15:00Z", s.officerID, "")
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("unknown visit is not found", func() {
		_, err := s.service.CheckInVisit(ctx, id.NewVisitID(), "2026-03-02T10:15:00Z", s.officerID, "")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *VisitServiceSuite) TestCheckOut() {
	ctx := context.Background()

	s.Run("completes a checked-in visit", func() {
		visit := s.scheduleVisit()
		_, err := s.service.CheckInVisit(ctx, visit.ID, "2026-03-02T10:15:00Z", s.officerID, "")
		s.Require().NoError(err)

		completed, err := s.service.CompleteVisit(ctx, visit.ID, "2026-03-02T11:05:00Z", false, "")
		s.Require().NoError(err)
		s.Equal(id.VisitCompleted, completed.Status)
		s.Equal("2026-03-02T11:05:00Z", completed.CheckOutTime)
		s.False(completed.Flagged)
	})

	s.Run("check-out before check-in rejected", func() {
		visit := s.scheduleVisit()
		_, err := s.service.CompleteVisit(ctx, visit.ID, "2026-03-02T11:05:00Z", false, "")
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("flag at the gate is recorded", func() {
		visit := s.scheduleVisit()
		_, err := s.service.CheckInVisit(ctx, visit.ID, "2026-03-02T10:15:00Z", s.officerID, "")
		s.Require().NoError(err)

		completed, err := s.service.CompleteVisit(ctx, visit.ID, "2026-03-02T11:05:00Z", true, "attempted to pass a note")
		s.Require().NoError(err)
		s.True(completed.Flagged)
		s.Equal("attempted to pass a note", completed.FlagReason)
	})

	s.Run("completed visitor leaves the inside list", func() {
		visit := s.scheduleVisit()
		_, err := s.service.CheckInVisit(ctx, visit.ID, "2026-03-02T10:15:00Z", s.officerID, "")
		s.Require().NoError(err)

		inside, err := s.service.VisitorsInside(ctx)
		s.Require().NoError(err)
		s.Require().Len(idsOf(inside), 1)

		_, err = s.service.CompleteVisit(ctx, visit.ID, "2026-03-02T11:05:00Z", false, "")
		s.Require().NoError(err)

		inside, err = s.service.VisitorsInside(ctx)
		s.Require().NoError(err)
		s.NotContains(idsOf(inside), visit.ID)
	})
}

func (s *VisitServiceSuite) TestDenyAndCancel() {
	ctx := context.Background()

	s.Run("deny requires a reason", func() {
		visit := s.scheduleVisit()
		_, err := s.service.DenyVisit(ctx, visit.ID, "")
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("deny stamps the reason", func() {
		visit := s.scheduleVisit()
		denied, err := s.service.DenyVisit(ctx, visit.ID, "visitor on restricted list")
		s.Require().NoError(err)
		s.Equal(id.VisitDenied, denied.Status)
		s.Equal("visitor on restricted list", denied.DenialReason)
	})

	s.Run("checked-in visitor can still be denied", func() {
		visit := s.scheduleVisit()
		_, err := s.service.CheckInVisit(ctx, visit.ID, "2026-03-02T10:15:00Z", s.officerID, "")
		s.Require().NoError(err)

		denied, err := s.service.DenyVisit(ctx, visit.ID, "contraband found")
		s.Require().NoError(err)
		s.Equal(id.VisitDenied, denied.Status)
	})

	s.Run("completed visit cannot be denied", func() {
		visit := s.scheduleVisit()
		_, err := s.service.CheckInVisit(ctx, visit.ID, "2026-03-02T10:15:00Z", s.officerID, "")
		s.Require().NoError(err)
		_, err = s.service.CompleteVisit(ctx, visit.ID, "2026-03-02T11:05:00Z", false, "")
		s.Require().NoError(err)

		_, err = s.service.DenyVisit(ctx, visit.ID, "too late")
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("only a scheduled visit cancels", func() {
		visit := s.scheduleVisit()
		cancelled, err := s.service.CancelVisit(ctx, visit.ID)
		s.Require().NoError(err)
		s.Equal(id.VisitCancelled, cancelled.Status)

		_, err = s.service.CancelVisit(ctx, visit.ID)
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func (s *VisitServiceSuite) TestUpdateVisit() {
	ctx := context.Background()

	s.Run("patch moves the appointment without touching status", func() {
		visit := s.scheduleVisit()
		newDate := "2026-03-09"

		updated, err := s.service.UpdateVisit(ctx, visit.ID, models.VisitPatch{ScheduledDate: &newDate})
		s.Require().NoError(err)
		s.Equal("2026-03-09", updated.ScheduledDate)
		s.Equal(id.VisitScheduled, updated.Status)
		s.Equal("Grace Namutebi", updated.FullName)
	})

	s.Run("empty patch rejected", func() {
		visit := s.scheduleVisit()
		_, err := s.service.UpdateVisit(ctx, visit.ID, models.VisitPatch{})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func idsOf(visits []*models.Visit) []id.VisitID {
	out := make([]id.VisitID, 0, len(visits))
	for _, v := range visits {
		out = append(out, v.ID)
	}
	return out
}
