// Package handler exposes the gallery endpoints.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"reunion/internal/gallery/models"
	"reunion/internal/gallery/service"
	dErrors "reunion/pkg/domain-errors"
	"reunion/pkg/platform/httputil"
	authmw "reunion/pkg/platform/middleware/auth"
	"reunion/pkg/platform/middleware/request"
)

// Service is the gallery capability consumed by the handler.
type Service interface {
	Upload(ctx context.Context, principal authmw.Principal, filename, caption string, data []byte) (*models.UploadResponse, error)
	List(ctx context.Context) ([]models.GalleryItem, error)
}

// Handler handles gallery endpoints.
type Handler struct {
	gallery Service
	logger  *slog.Logger
}

func New(gallery Service, logger *slog.Logger) *Handler {
	return &Handler{gallery: gallery, logger: logger}
}

// HandleUpload accepts a multipart photo upload: POST /upload-file.
// The file part is named "file"; an optional "caption" field rides along.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := authmw.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadBytes+4096)
	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "a multipart 'file' part is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "failed to read upload"))
		return
	}

	resp, err := h.gallery.Upload(ctx, principal, header.Filename, r.FormValue("caption"), data)
	if err != nil {
		h.logFailure(ctx, "photo upload failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleList returns every uploaded photo: GET /gallery.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.gallery.List(ctx)
	if err != nil {
		h.logFailure(ctx, "gallery listing failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, items)
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"error", err.Error(),
		"request_id", request.GetRequestID(ctx),
	)
}
