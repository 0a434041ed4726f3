package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warden/internal/registry/models"
	"warden/internal/registry/service"
	id "warden/pkg/domain"
	"warden/pkg/platform/httputil"
	"warden/pkg/requestcontext"
)

// Service defines the interface for registry operations.
type Service interface {
	CreatePrison(ctx context.Context, params service.CreatePrisonParams) (*models.Prison, error)
	GetPrison(ctx context.Context, prisonID id.PrisonID) (*models.Prison, error)
	ListPrisons(ctx context.Context) ([]*models.Prison, error)
	CreateOfficer(ctx context.Context, params service.CreateOfficerParams) (*models.Officer, error)
	GetOfficer(ctx context.Context, officerID id.OfficerID) (*models.Officer, error)
	ListOfficersByPrison(ctx context.Context, prisonID id.PrisonID) ([]*models.Officer, error)
	CreateCourt(ctx context.Context, params service.CreateCourtParams) (*models.Court, error)
	GetCourt(ctx context.Context, courtID id.CourtID) (*models.Court, error)
	ListCourts(ctx context.Context) ([]*models.Court, error)
	CreateOffense(ctx context.Context, params service.CreateOffenseParams) (*models.Offense, error)
	GetOffense(ctx context.Context, offenseID id.OffenseID) (*models.Offense, error)
	ListOffenses(ctx context.Context) ([]*models.Offense, error)
}

// Handler wires registry endpoints to the registry service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a registry handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts registry endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/prisons", func(r chi.Router) {
		r.Post("/", h.HandleCreatePrison)
		r.Get("/", h.HandleListPrisons)
		r.Get("/{prisonID}", h.HandleGetPrison)
		r.Get("/{prisonID}/officers", h.HandleListOfficers)
	})
	r.Route("/officers", func(r chi.Router) {
		r.Post("/", h.HandleCreateOfficer)
		r.Get("/{officerID}", h.HandleGetOfficer)
	})
	r.Route("/courts", func(r chi.Router) {
		r.Post("/", h.HandleCreateCourt)
		r.Get("/", h.HandleListCourts)
		r.Get("/{courtID}", h.HandleGetCourt)
	})
	r.Route("/offenses", func(r chi.Router) {
		r.Post("/", h.HandleCreateOffense)
		r.Get("/", h.HandleListOffenses)
		r.Get("/{offenseID}", h.HandleGetOffense)
	})
}

func (h *Handler) HandleCreatePrison(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreatePrisonRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	prison, err := h.service.CreatePrison(ctx, req.Params())
	if err != nil {
		h.logger.ErrorContext(ctx, "prison registration failed", "request_id", requestID, "code", req.Code, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, prison)
}

func (h *Handler) HandleGetPrison(w http.ResponseWriter, r *http.Request) {
	prisonID, err := id.ParsePrisonID(chi.URLParam(r, "prisonID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	prison, err := h.service.GetPrison(r.Context(), prisonID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, prison)
}

func (h *Handler) HandleListPrisons(w http.ResponseWriter, r *http.Request) {
	prisons, err := h.service.ListPrisons(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, prisons)
}

func (h *Handler) HandleCreateOfficer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateOfficerRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	officer, err := h.service.CreateOfficer(ctx, req.Params())
	if err != nil {
		h.logger.ErrorContext(ctx, "officer registration failed", "request_id", requestID, "badge_number", req.BadgeNumber, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, officer)
}

func (h *Handler) HandleGetOfficer(w http.ResponseWriter, r *http.Request) {
	officerID, err := id.ParseOfficerID(chi.URLParam(r, "officerID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	officer, err := h.service.GetOfficer(r.Context(), officerID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, officer)
}

func (h *Handler) HandleListOfficers(w http.ResponseWriter, r *http.Request) {
	prisonID, err := id.ParsePrisonID(chi.URLParam(r, "prisonID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	officers, err := h.service.ListOfficersByPrison(r.Context(), prisonID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, officers)
}

func (h *Handler) HandleCreateCourt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateCourtRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	court, err := h.service.CreateCourt(ctx, req.Params())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, court)
}

func (h *Handler) HandleGetCourt(w http.ResponseWriter, r *http.Request) {
	courtID, err := id.ParseCourtID(chi.URLParam(r, "courtID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	court, err := h.service.GetCourt(r.Context(), courtID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, court)
}

func (h *Handler) HandleListCourts(w http.ResponseWriter, r *http.Request) {
	courts, err := h.service.ListCourts(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, courts)
}

func (h *Handler) HandleCreateOffense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateOffenseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	offense, err := h.service.CreateOffense(ctx, req.Params())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, offense)
}

func (h *Handler) HandleGetOffense(w http.ResponseWriter, r *http.Request) {
	offenseID, err := id.ParseOffenseID(chi.URLParam(r, "offenseID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	offense, err := h.service.GetOffense(r.Context(), offenseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, offense)
}

func (h *Handler) HandleListOffenses(w http.ResponseWriter, r *http.Request) {
	offenses, err := h.service.ListOffenses(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, offenses)
}
