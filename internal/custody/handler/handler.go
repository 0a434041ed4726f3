package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warden/internal/custody/models"
	"warden/internal/custody/service"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/platform/httputil"
	"warden/pkg/requestcontext"
)

// Service defines the interface for custody operations.
type Service interface {
	RegisterInmate(ctx context.Context, params service.RegisterInmateParams) (*models.Inmate, error)
	GetInmate(ctx context.Context, inmateID id.InmateID) (*models.Inmate, error)
	GetInmateByPrisonNumber(ctx context.Context, prisonNumber string) (*models.Inmate, error)
	ListInmatesByPrison(ctx context.Context, prisonID id.PrisonID) ([]*models.Inmate, error)
	ListInmatesByStatus(ctx context.Context, status id.InmateStatus) ([]*models.Inmate, error)
	UpdateInmate(ctx context.Context, inmateID id.InmateID, patch models.InmatePatch) (*models.Inmate, error)
	UpdateStatus(ctx context.Context, inmateID id.InmateID, status id.InmateStatus) (*models.Inmate, error)
	Release(ctx context.Context, inmateID id.InmateID, releaseDate string, reason id.ReleaseReason, notes string) (*models.Inmate, error)
	DeleteInmate(ctx context.Context, inmateID id.InmateID) error

	RecordMovement(ctx context.Context, params service.RecordMovementParams) (*models.Movement, error)
	RecordReturn(ctx context.Context, movementID id.MovementID, returnDate, notes string) (*models.Movement, error)
	GetMovement(ctx context.Context, movementID id.MovementID) (*models.Movement, error)
	ListMovementsByInmate(ctx context.Context, inmateID id.InmateID) ([]*models.Movement, error)
	ListOpenMovements(ctx context.Context) ([]*models.Movement, error)
	ListMovementsByType(ctx context.Context, movementType id.MovementType) ([]*models.Movement, error)
	UpdateMovement(ctx context.Context, movementID id.MovementID, patch models.MovementPatch) (*models.Movement, error)
	DeleteMovement(ctx context.Context, movementID id.MovementID) error

	ScheduleAppearance(ctx context.Context, params service.ScheduleAppearanceParams) (*models.Appearance, error)
	RecordOutcome(ctx context.Context, params service.RecordOutcomeParams) (*models.Appearance, error)
	GetAppearance(ctx context.Context, appearanceID id.AppearanceID) (*models.Appearance, error)
	ListAppearancesByInmate(ctx context.Context, inmateID id.InmateID) ([]*models.Appearance, error)
	ListUpcomingAppearances(ctx context.Context, fromDate string) ([]*models.Appearance, error)
	UpdateAppearance(ctx context.Context, appearanceID id.AppearanceID, patch models.AppearancePatch) (*models.Appearance, error)
	DeleteAppearance(ctx context.Context, appearanceID id.AppearanceID) error
}

// Handler wires custody endpoints to the custody service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a custody handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts custody endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/inmates", func(r chi.Router) {
		r.Post("/", h.HandleRegisterInmate)
		r.Get("/", h.HandleListInmates)
		r.Get("/{inmateID}", h.HandleGetInmate)
		r.Patch("/{inmateID}", h.HandleUpdateInmate)
		r.Put("/{inmateID}/status", h.HandleUpdateStatus)
		r.Post("/{inmateID}/release", h.HandleRelease)
		r.Delete("/{inmateID}", h.HandleDeleteInmate)
		r.Get("/{inmateID}/movements", h.HandleListMovementsByInmate)
		r.Get("/{inmateID}/appearances", h.HandleListAppearancesByInmate)
	})
	r.Route("/movements", func(r chi.Router) {
		r.Post("/", h.HandleRecordMovement)
		r.Get("/", h.HandleListMovements)
		r.Get("/{movementID}", h.HandleGetMovement)
		r.Post("/{movementID}/return", h.HandleRecordReturn)
		r.Patch("/{movementID}", h.HandleUpdateMovement)
		r.Delete("/{movementID}", h.HandleDeleteMovement)
	})
	r.Route("/appearances", func(r chi.Router) {
		r.Post("/", h.HandleScheduleAppearance)
		r.Get("/upcoming", h.HandleListUpcomingAppearances)
		r.Get("/{appearanceID}", h.HandleGetAppearance)
		r.Post("/{appearanceID}/outcome", h.HandleRecordOutcome)
		r.Patch("/{appearanceID}", h.HandleUpdateAppearance)
		r.Delete("/{appearanceID}", h.HandleDeleteAppearance)
	})
}

func (h *Handler) HandleRegisterInmate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterInmateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	inmate, err := h.service.RegisterInmate(ctx, req.Params())
	if err != nil {
		h.logger.ErrorContext(ctx, "inmate registration failed", "request_id", requestID, "prison_number", req.PrisonNumber, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, inmate)
}

// HandleListInmates dispatches on query parameters: prison_number for a single
// lookup, prison_id or status for filtered lists.
func (h *Handler) HandleListInmates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if prisonNumber := r.URL.Query().Get("prison_number"); prisonNumber != "" {
		inmate, err := h.service.GetInmateByPrisonNumber(ctx, prisonNumber)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, inmate)
		return
	}
	if rawPrisonID := r.URL.Query().Get("prison_id"); rawPrisonID != "" {
		prisonID, err := id.ParsePrisonID(rawPrisonID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		inmates, err := h.service.ListInmatesByPrison(ctx, prisonID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, inmates)
		return
	}
	if rawStatus := r.URL.Query().Get("status"); rawStatus != "" {
		status, err := id.ParseInmateStatus(rawStatus)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		inmates, err := h.service.ListInmatesByStatus(ctx, status)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, inmates)
		return
	}
	httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "one of prison_number, prison_id or status is required"))
}

func (h *Handler) HandleGetInmate(w http.ResponseWriter, r *http.Request) {
	inmateID, err := id.ParseInmateID(chi.URLParam(r, "inmateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	inmate, err := h.service.GetInmate(r.Context(), inmateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inmate)
}

func (h *Handler) HandleUpdateInmate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	inmateID, err := id.ParseInmateID(chi.URLParam(r, "inmateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateInmateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	inmate, err := h.service.UpdateInmate(ctx, inmateID, req.Patch())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inmate)
}

func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	inmateID, err := id.ParseInmateID(chi.URLParam(r, "inmateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	inmate, err := h.service.UpdateStatus(ctx, inmateID, req.parsedStatus)
	if err != nil {
		h.logger.ErrorContext(ctx, "status update failed", "request_id", requestID, "inmate_id", inmateID.String(), "status", req.Status, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inmate)
}

func (h *Handler) HandleRelease(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	inmateID, err := id.ParseInmateID(chi.URLParam(r, "inmateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ReleaseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	inmate, err := h.service.Release(ctx, inmateID, req.ReleaseDate, req.parsedReason, req.Notes)
	if err != nil {
		h.logger.ErrorContext(ctx, "release failed", "request_id", requestID, "inmate_id", inmateID.String(), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inmate)
}

func (h *Handler) HandleDeleteInmate(w http.ResponseWriter, r *http.Request) {
	inmateID, err := id.ParseInmateID(chi.URLParam(r, "inmateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteInmate(r.Context(), inmateID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleRecordMovement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RecordMovementRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	movement, err := h.service.RecordMovement(ctx, req.Params())
	if err != nil {
		h.logger.ErrorContext(ctx, "movement recording failed", "request_id", requestID, "inmate_id", req.InmateID, "movement_type", req.MovementType, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, movement)
}

// HandleListMovements dispatches on query parameters: open=true for movements
// without a return date, movement_type for type filters.
func (h *Handler) HandleListMovements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.URL.Query().Get("open") == "true" {
		movements, err := h.service.ListOpenMovements(ctx)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, movements)
		return
	}
	if rawType := r.URL.Query().Get("movement_type"); rawType != "" {
		movementType, err := id.ParseMovementType(rawType)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		movements, err := h.service.ListMovementsByType(ctx, movementType)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, movements)
		return
	}
	httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "one of open or movement_type is required"))
}

func (h *Handler) HandleGetMovement(w http.ResponseWriter, r *http.Request) {
	movementID, err := id.ParseMovementID(chi.URLParam(r, "movementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	movement, err := h.service.GetMovement(r.Context(), movementID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, movement)
}

func (h *Handler) HandleListMovementsByInmate(w http.ResponseWriter, r *http.Request) {
	inmateID, err := id.ParseInmateID(chi.URLParam(r, "inmateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	movements, err := h.service.ListMovementsByInmate(r.Context(), inmateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, movements)
}

func (h *Handler) HandleRecordReturn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	movementID, err := id.ParseMovementID(chi.URLParam(r, "movementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[RecordReturnRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	movement, err := h.service.RecordReturn(ctx, movementID, req.ReturnDate, req.Notes)
	if err != nil {
		h.logger.ErrorContext(ctx, "return recording failed", "request_id", requestID, "movement_id", movementID.String(), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, movement)
}

func (h *Handler) HandleUpdateMovement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	movementID, err := id.ParseMovementID(chi.URLParam(r, "movementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateMovementRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	movement, err := h.service.UpdateMovement(ctx, movementID, req.Patch())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, movement)
}

func (h *Handler) HandleDeleteMovement(w http.ResponseWriter, r *http.Request) {
	movementID, err := id.ParseMovementID(chi.URLParam(r, "movementID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteMovement(r.Context(), movementID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleScheduleAppearance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ScheduleAppearanceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	appearance, err := h.service.ScheduleAppearance(ctx, req.Params())
	if err != nil {
		h.logger.ErrorContext(ctx, "appearance scheduling failed", "request_id", requestID, "inmate_id", req.InmateID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, appearance)
}

func (h *Handler) HandleRecordOutcome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	appearanceID, err := id.ParseAppearanceID(chi.URLParam(r, "appearanceID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[RecordOutcomeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	appearance, err := h.service.RecordOutcome(ctx, service.RecordOutcomeParams{
		AppearanceID: appearanceID,
		Outcome:      req.parsedOutcome,
		ReturnTime:   req.ReturnTime,
		NextDate:     req.NextDate,
		Notes:        req.Notes,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "outcome recording failed", "request_id", requestID, "appearance_id", appearanceID.String(), "outcome", req.Outcome, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, appearance)
}

func (h *Handler) HandleGetAppearance(w http.ResponseWriter, r *http.Request) {
	appearanceID, err := id.ParseAppearanceID(chi.URLParam(r, "appearanceID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	appearance, err := h.service.GetAppearance(r.Context(), appearanceID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, appearance)
}

func (h *Handler) HandleListAppearancesByInmate(w http.ResponseWriter, r *http.Request) {
	inmateID, err := id.ParseInmateID(chi.URLParam(r, "inmateID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	appearances, err := h.service.ListAppearancesByInmate(r.Context(), inmateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, appearances)
}

func (h *Handler) HandleListUpcomingAppearances(w http.ResponseWriter, r *http.Request) {
	fromDate := r.URL.Query().Get("from")
	appearances, err := h.service.ListUpcomingAppearances(r.Context(), fromDate)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, appearances)
}

func (h *Handler) HandleUpdateAppearance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	appearanceID, err := id.ParseAppearanceID(chi.URLParam(r, "appearanceID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateAppearanceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	appearance, err := h.service.UpdateAppearance(ctx, appearanceID, req.Patch())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, appearance)
}

func (h *Handler) HandleDeleteAppearance(w http.ResponseWriter, r *http.Request) {
	appearanceID, err := id.ParseAppearanceID(chi.URLParam(r, "appearanceID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteAppearance(r.Context(), appearanceID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
