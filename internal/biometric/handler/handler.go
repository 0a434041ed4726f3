package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"warden/internal/biometric/models"
	"warden/internal/biometric/service"
	id "warden/pkg/domain"
	"warden/pkg/platform/httputil"
	"warden/pkg/requestcontext"
)

// Service defines the interface for biometric operations.
type Service interface {
	GenerateUploadURL(ctx context.Context) (string, id.StorageRef, error)

	AddPhoto(ctx context.Context, params service.AddPhotoParams) (*models.Photo, error)
	GetPhoto(ctx context.Context, photoID id.PhotoID) (*models.Photo, error)
	ListPhotosBySubject(ctx context.Context, subject id.Subject) ([]*models.Photo, error)
	PrimaryPhoto(ctx context.Context, subject id.Subject) (*models.Photo, error)
	ListUnconfirmedPhotos(ctx context.Context) ([]*models.Photo, error)
	SetPrimaryPhoto(ctx context.Context, photoID id.PhotoID) (*models.Photo, error)
	ConfirmPhoto(ctx context.Context, photoID id.PhotoID, reviewerID id.OfficerID, notes string) (*models.Photo, error)
	RejectPhoto(ctx context.Context, photoID id.PhotoID, notes string) (*models.Photo, error)
	DeletePhoto(ctx context.Context, photoID id.PhotoID) error

	AddFingerprint(ctx context.Context, params service.AddFingerprintParams) (*models.Fingerprint, error)
	GetFingerprint(ctx context.Context, fingerprintID id.FingerprintID) (*models.Fingerprint, error)
	FingerprintBySlot(ctx context.Context, subject id.Subject, finger id.Finger) (*models.Fingerprint, error)
	ListFingerprintsBySubject(ctx context.Context, subject id.Subject) ([]*models.Fingerprint, error)
	ListUnconfirmedFingerprints(ctx context.Context) ([]*models.Fingerprint, error)
	ConfirmFingerprint(ctx context.Context, fingerprintID id.FingerprintID, reviewerID id.OfficerID, notes string) (*models.Fingerprint, error)
	RejectFingerprint(ctx context.Context, fingerprintID id.FingerprintID, notes string) (*models.Fingerprint, error)
	DeleteFingerprint(ctx context.Context, fingerprintID id.FingerprintID) error
}

// Handler wires biometric endpoints to the biometric service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a biometric handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts biometric endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/uploads", h.HandleGenerateUploadURL)

	r.Route("/photos", func(r chi.Router) {
		r.Post("/", h.HandleAddPhoto)
		r.Get("/", h.HandleListPhotos)
		r.Get("/primary", h.HandlePrimaryPhoto)
		r.Get("/unconfirmed", h.HandleListUnconfirmedPhotos)
		r.Get("/{photoID}", h.HandleGetPhoto)
		r.Post("/{photoID}/primary", h.HandleSetPrimaryPhoto)
		r.Post("/{photoID}/confirm", h.HandleConfirmPhoto)
		r.Post("/{photoID}/reject", h.HandleRejectPhoto)
		r.Delete("/{photoID}", h.HandleDeletePhoto)
	})
	r.Route("/fingerprints", func(r chi.Router) {
		r.Post("/", h.HandleAddFingerprint)
		r.Get("/", h.HandleListFingerprints)
		r.Get("/unconfirmed", h.HandleListUnconfirmedFingerprints)
		r.Get("/{fingerprintID}", h.HandleGetFingerprint)
		r.Post("/{fingerprintID}/confirm", h.HandleConfirmFingerprint)
		r.Post("/{fingerprintID}/reject", h.HandleRejectFingerprint)
		r.Delete("/{fingerprintID}", h.HandleDeleteFingerprint)
	})
}

func (h *Handler) HandleGenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	url, ref, err := h.service.GenerateUploadURL(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "upload URL generation failed", "request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, uploadURLResponse{UploadURL: url, StorageRef: ref.String()})
}

func (h *Handler) HandleAddPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AddPhotoRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	photo, err := h.service.AddPhoto(ctx, req.Params())
	if err != nil {
		h.logger.ErrorContext(ctx, "photo capture failed", "request_id", requestID, "provider", req.Provider, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, photo)
}

func (h *Handler) HandleListPhotos(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	photos, err := h.service.ListPhotosBySubject(r.Context(), subject)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, photos)
}

func (h *Handler) HandlePrimaryPhoto(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	photo, err := h.service.PrimaryPhoto(r.Context(), subject)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, photo)
}

func (h *Handler) HandleListUnconfirmedPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := h.service.ListUnconfirmedPhotos(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, photos)
}

func (h *Handler) HandleGetPhoto(w http.ResponseWriter, r *http.Request) {
	photoID, err := id.ParsePhotoID(chi.URLParam(r, "photoID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	photo, err := h.service.GetPhoto(r.Context(), photoID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, photo)
}

func (h *Handler) HandleSetPrimaryPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	photoID, err := id.ParsePhotoID(chi.URLParam(r, "photoID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	photo, err := h.service.SetPrimaryPhoto(ctx, photoID)
	if err != nil {
		h.logger.ErrorContext(ctx, "set primary failed", "request_id", requestcontext.RequestID(ctx), "photo_id", photoID.String(), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, photo)
}

func (h *Handler) HandleConfirmPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	photoID, err := id.ParsePhotoID(chi.URLParam(r, "photoID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ConfirmRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	photo, err := h.service.ConfirmPhoto(ctx, photoID, req.parsedReviewer, req.Notes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, photo)
}

func (h *Handler) HandleRejectPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	photoID, err := id.ParsePhotoID(chi.URLParam(r, "photoID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[RejectRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	photo, err := h.service.RejectPhoto(ctx, photoID, req.Notes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, photo)
}

func (h *Handler) HandleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	photoID, err := id.ParsePhotoID(chi.URLParam(r, "photoID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeletePhoto(ctx, photoID); err != nil {
		h.logger.ErrorContext(ctx, "photo delete failed", "request_id", requestcontext.RequestID(ctx), "photo_id", photoID.String(), "error", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleAddFingerprint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AddFingerprintRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	fingerprint, err := h.service.AddFingerprint(ctx, req.Params())
	if err != nil {
		h.logger.ErrorContext(ctx, "fingerprint capture failed", "request_id", requestID, "finger", req.Finger, "provider", req.Provider, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, fingerprint)
}

// HandleListFingerprints returns either one slot (?finger= present) or all of
// a subject's captures.
func (h *Handler) HandleListFingerprints(w http.ResponseWriter, r *http.Request) {
	subject, err := subjectFromQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if rawFinger := r.URL.Query().Get("finger"); rawFinger != "" {
		finger, err := id.ParseFinger(rawFinger)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		fingerprint, err := h.service.FingerprintBySlot(r.Context(), subject, finger)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, fingerprint)
		return
	}

	fingerprints, err := h.service.ListFingerprintsBySubject(r.Context(), subject)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fingerprints)
}

func (h *Handler) HandleListUnconfirmedFingerprints(w http.ResponseWriter, r *http.Request) {
	fingerprints, err := h.service.ListUnconfirmedFingerprints(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fingerprints)
}

func (h *Handler) HandleGetFingerprint(w http.ResponseWriter, r *http.Request) {
	fingerprintID, err := id.ParseFingerprintID(chi.URLParam(r, "fingerprintID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	fingerprint, err := h.service.GetFingerprint(r.Context(), fingerprintID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fingerprint)
}

func (h *Handler) HandleConfirmFingerprint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	fingerprintID, err := id.ParseFingerprintID(chi.URLParam(r, "fingerprintID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ConfirmRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	fingerprint, err := h.service.ConfirmFingerprint(ctx, fingerprintID, req.parsedReviewer, req.Notes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fingerprint)
}

func (h *Handler) HandleRejectFingerprint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	fingerprintID, err := id.ParseFingerprintID(chi.URLParam(r, "fingerprintID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[RejectRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	fingerprint, err := h.service.RejectFingerprint(ctx, fingerprintID, req.Notes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, fingerprint)
}

func (h *Handler) HandleDeleteFingerprint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	fingerprintID, err := id.ParseFingerprintID(chi.URLParam(r, "fingerprintID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteFingerprint(ctx, fingerprintID); err != nil {
		h.logger.ErrorContext(ctx, "fingerprint delete failed", "request_id", requestcontext.RequestID(ctx), "fingerprint_id", fingerprintID.String(), "error", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
