// Package handler exposes the registration endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"reunion/internal/registration/models"
	dErrors "reunion/pkg/domain-errors"
	"reunion/pkg/platform/httputil"
	authmw "reunion/pkg/platform/middleware/auth"
	"reunion/pkg/platform/middleware/request"
)

// Service is the registration capability consumed by the handler.
type Service interface {
	Reconcile(ctx context.Context, principal authmw.Principal, req *models.RegisterRequest) (*models.RegisterResponse, error)
	Get(ctx context.Context, principal authmw.Principal) (*models.RegistrationRecord, error)
}

// Handler handles registration endpoints. Both routes sit behind the auth
// middleware, so a missing principal means broken middleware wiring rather
// than a client mistake.
type Handler struct {
	registrations Service
	logger        *slog.Logger
}

func New(registrations Service, logger *slog.Logger) *Handler {
	return &Handler{registrations: registrations, logger: logger}
}

// HandleRegister creates or replaces the caller's registration:
// POST /register.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := authmw.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.registrations.Reconcile(ctx, principal, &req)
	if err != nil {
		h.logFailure(ctx, "registration failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleGetRegistration returns the caller's registration, or an empty object
// when none exists: GET /get-registration.
func (h *Handler) HandleGetRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	principal, ok := authmw.GetPrincipal(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	rec, err := h.registrations.Get(ctx, principal)
	if err != nil {
		h.logFailure(ctx, "registration lookup failed", err)
		httputil.WriteError(w, err)
		return
	}
	if rec == nil {
		httputil.WriteJSON(w, http.StatusOK, struct{}{})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"error", err.Error(),
		"request_id", request.GetRequestID(ctx),
	)
}
