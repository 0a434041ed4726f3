package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warden/internal/stats/models"
	id "warden/pkg/domain"
	"warden/pkg/platform/httputil"
)

// Service defines the interface for dashboard reads.
type Service interface {
	PrisonStats(ctx context.Context, prisonID id.PrisonID) (*models.PrisonStats, error)
}

// Handler wires dashboard endpoints to the stats service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a stats handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts dashboard endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/stats", func(r chi.Router) {
		r.Get("/prisons/{prisonID}", h.HandlePrisonStats)
	})
}

func (h *Handler) HandlePrisonStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	prisonID, err := id.ParsePrisonID(chi.URLParam(r, "prisonID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	stats, err := h.service.PrisonStats(ctx, prisonID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}
