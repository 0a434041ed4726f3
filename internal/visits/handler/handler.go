package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warden/internal/visits/models"
	"warden/internal/visits/service"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/httputil"
	"warden/pkg/requestcontext"
)

// Service defines the interface for visit operations.
type Service interface {
	ScheduleVisit(ctx context.Context, params service.ScheduleVisitParams) (*models.Visit, error)
	CheckInVisit(ctx context.Context, visitID id.VisitID, checkInTime string, approvedByID id.OfficerID, itemsDeclaration string) (*models.Visit, error)
	CompleteVisit(ctx context.Context, visitID id.VisitID, checkOutTime string, flagged bool, flagReason string) (*models.Visit, error)
	DenyVisit(ctx context.Context, visitID id.VisitID, reason string) (*models.Visit, error)
	CancelVisit(ctx context.Context, visitID id.VisitID) (*models.Visit, error)
	GetVisit(ctx context.Context, visitID id.VisitID) (*models.Visit, error)
	ListVisitsByInmate(ctx context.Context, inmateID id.InmateID) ([]*models.Visit, error)
	ListVisitsByPrison(ctx context.Context, prisonID id.PrisonID) ([]*models.Visit, error)
	ListVisitsByStatus(ctx context.Context, status id.VisitStatus) ([]*models.Visit, error)
	VisitorsInside(ctx context.Context) ([]*models.Visit, error)
	UpdateVisit(ctx context.Context, visitID id.VisitID, patch models.VisitPatch) (*models.Visit, error)
	DeleteVisit(ctx context.Context, visitID id.VisitID) error
}

// Handler wires visit endpoints to the visit service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a visit handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts visit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/visits", func(r chi.Router) {
		r.Post("/", h.HandleScheduleVisit)
		r.Get("/", h.HandleListVisits)
		r.Get("/inside", h.HandleVisitorsInside)
		r.Get("/{visitID}", h.HandleGetVisit)
		r.Post("/{visitID}/check-in", h.HandleCheckIn)
		r.Post("/{visitID}/check-out", h.HandleCheckOut)
		r.Post("/{visitID}/deny", h.HandleDeny)
		r.Post("/{visitID}/cancel", h.HandleCancel)
		r.Patch("/{visitID}", h.HandleUpdateVisit)
		r.Delete("/{visitID}", h.HandleDeleteVisit)
	})
}

func (h *Handler) HandleScheduleVisit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ScheduleVisitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	visit, err := h.service.ScheduleVisit(ctx, req.Params())
	if err != nil {
		h.logger.ErrorContext(ctx, "visit scheduling failed", "request_id", requestID, "inmate_id", req.InmateID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, visit)
}

// HandleListVisits dispatches on query parameters: inmate_id, prison_id or
// status.
func (h *Handler) HandleListVisits(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if rawInmateID := r.URL.Query().Get("inmate_id"); rawInmateID != "" {
		inmateID, err := id.ParseInmateID(rawInmateID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		visits, err := h.service.ListVisitsByInmate(ctx, inmateID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, visits)
		return
	}
	if rawPrisonID := r.URL.Query().Get("prison_id"); rawPrisonID != "" {
		prisonID, err := id.ParsePrisonID(rawPrisonID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		visits, err := h.service.ListVisitsByPrison(ctx, prisonID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, visits)
		return
	}
	if rawStatus := r.URL.Query().Get("status"); rawStatus != "" {
		status, err := id.ParseVisitStatus(rawStatus)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		visits, err := h.service.ListVisitsByStatus(ctx, status)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, visits)
		return
	}
	httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "one of inmate_id, prison_id or status is required"))
}

func (h *Handler) HandleVisitorsInside(w http.ResponseWriter, r *http.Request) {
	visits, err := h.service.VisitorsInside(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, visits)
}

func (h *Handler) HandleGetVisit(w http.ResponseWriter, r *http.Request) {
	visitID, err := id.ParseVisitID(chi.URLParam(r, "visitID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	visit, err := h.service.GetVisit(r.Context(), visitID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, visit)
}

func (h *Handler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	visitID, err := id.ParseVisitID(chi.URLParam(r, "visitID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[CheckInRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	visit, err := h.service.CheckInVisit(ctx, visitID, req.CheckInTime, req.parsedApprover, req.ItemsDeclaration)
	if err != nil {
		h.logger.ErrorContext(ctx, "visit check-in failed", "request_id", requestID, "visit_id", visitID.String(), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, visit)
}

func (h *Handler) HandleCheckOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	visitID, err := id.ParseVisitID(chi.URLParam(r, "visitID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[CheckOutRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	visit, err := h.service.CompleteVisit(ctx, visitID, req.CheckOutTime, req.Flagged, req.FlagReason)
	if err != nil {
		h.logger.ErrorContext(ctx, "visit check-out failed", "request_id", requestID, "visit_id", visitID.String(), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, visit)
}

func (h *Handler) HandleDeny(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	visitID, err := id.ParseVisitID(chi.URLParam(r, "visitID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[DenyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	visit, err := h.service.DenyVisit(ctx, visitID, req.DenialReason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, visit)
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	visitID, err := id.ParseVisitID(chi.URLParam(r, "visitID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	visit, err := h.service.CancelVisit(r.Context(), visitID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, visit)
}

func (h *Handler) HandleUpdateVisit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	visitID, err := id.ParseVisitID(chi.URLParam(r, "visitID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateVisitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	visit, err := h.service.UpdateVisit(ctx, visitID, req.Patch())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, visit)
}

func (h *Handler) HandleDeleteVisit(w http.ResponseWriter, r *http.Request) {
	visitID, err := id.ParseVisitID(chi.URLParam(r, "visitID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteVisit(r.Context(), visitID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
