package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"warden/internal/visits/models"
	"warden/internal/visits/service"
	visitStore "warden/internal/visits/store/visit"
	id "warden/pkg/domain"
	"warden/pkg/testutil"
)

type VisitHandlerSuite struct {
	suite.Suite
	router   chi.Router
	inmateID id.InmateID
	prisonID id.PrisonID
}

func TestVisitHandlerSuite(t *testing.T) {
	suite.Run(t, new(VisitHandlerSuite))
}

func (s *VisitHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(visitStore.New(), service.WithLogger(logger))

	s.router = chi.NewRouter()
	New(svc, logger).Register(s.router)

	s.inmateID = id.NewInmateID()
	s.prisonID = id.NewPrisonID()
}

func (s *VisitHandlerSuite) scheduleBody() map[string]any {
	return map[string]any{
		"inmate_id":      s.inmateID.String(),
		"prison_id":      s.prisonID.String(),
		"full_name":      "Grace Namutebi",
		"id_number":      "CM900121003XPK",
		"id_type":        "national_id",
		"relationship":   "sister",
		"phone":          "+256700123456",
		"scheduled_date": "2026-03-02",
	}
}

func (s *VisitHandlerSuite) scheduleVisit() *models.Visit {
	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/visits", s.scheduleBody())
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	return testutil.UnmarshalResponse[models.Visit](s.T(), rr)
}

func (s *VisitHandlerSuite) TestScheduleVisit() {
	visit := s.scheduleVisit()
	s.Equal(id.VisitScheduled, visit.Status)
	s.Equal(s.inmateID, visit.InmateID)
	s.False(visit.ID.IsNil())
}

func (s *VisitHandlerSuite) TestScheduleVisitRejectsMissingFields() {
	body := s.scheduleBody()
	delete(body, "phone")

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/visits", body)
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
}

func (s *VisitHandlerSuite) TestScheduleVisitRejectsMalformedBody() {
	req := testutil.NewRequestWithBody(s.T(), http.MethodPost, "/visits", `{"inmate_id": `)
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

func (s *VisitHandlerSuite) TestCheckInFlow() {
	visit := s.scheduleVisit()
	officerID := id.NewOfficerID()

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/visits/"+visit.ID.String()+"/check-in", map[string]any{
		"check_in_time":  "2026-03-02T10:15:00Z",
		"approved_by_id": officerID.String(),
	})
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusOK(s.T(), rr)

	checkedIn := testutil.UnmarshalResponse[models.Visit](s.T(), rr)
	s.Equal(id.VisitCheckedIn, checkedIn.Status)
	s.Equal(officerID, checkedIn.ApprovedByID)

	// A second check-in breaks the workflow guard.
	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/visits/"+visit.ID.String()+"/check-in", map[string]any{"check_in_time": "2026-03-02T10:20:00Z"}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "invariant_violation")
}

func (s *VisitHandlerSuite) TestCheckInApproverFallsBackToActor() {
	visit := s.scheduleVisit()
	actorID := id.NewOfficerID()
	pinned := time.Date(2026, 3, 2, 10, 15, 0, 0, time.UTC)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/visits/"+visit.ID.String()+"/check-in", map[string]any{
		"check_in_time": "2026-03-02T10:15:00Z",
	})
	req = testutil.WithActor(req, actorID)
	req = testutil.WithTime(req, pinned)

	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatusOK(s.T(), rr)

	checkedIn := testutil.UnmarshalResponse[models.Visit](s.T(), rr)
	s.Equal(actorID, checkedIn.ApprovedByID)
	s.True(checkedIn.UpdatedAt.Equal(pinned))
}

func (s *VisitHandlerSuite) TestCheckOutRequiresFlagReason() {
	visit := s.scheduleVisit()
	rr := testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/visits/"+visit.ID.String()+"/check-in", map[string]any{"check_in_time": "2026-03-02T10:15:00Z"}))
	testutil.AssertStatusOK(s.T(), rr)

	rr = testutil.DoRequest(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost,
		"/visits/"+visit.ID.String()+"/check-out", map[string]any{
			"check_out_time": "2026-03-02T11:00:00Z",
			"flagged":        true,
		}))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
}

func (s *VisitHandlerSuite) TestListDispatch() {
	s.scheduleVisit()

	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/visits?inmate_id="+s.inmateID.String()))
	testutil.AssertStatusOK(s.T(), rr)
	visits := testutil.UnmarshalResponse[[]*models.Visit](s.T(), rr)
	s.Len(*visits, 1)

	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/visits?status=scheduled"))
	testutil.AssertStatusOK(s.T(), rr)

	// No filter at all is refused rather than dumping the table.
	rr = testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/visits"))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
}

func (s *VisitHandlerSuite) TestGetVisitNotFound() {
	rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/visits/"+id.NewVisitID().String()))
	testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
}
