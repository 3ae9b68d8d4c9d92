// Package handler exposes the signup and login endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"reunion/internal/identity/models"
	dErrors "reunion/pkg/domain-errors"
	"reunion/pkg/platform/httputil"
	"reunion/pkg/platform/middleware/request"
)

// Service is the identity capability consumed by the handler.
type Service interface {
	Signup(ctx context.Context, req *models.SignupRequest) (*models.TokenResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.TokenResponse, error)
}

// Handler handles identity endpoints.
type Handler struct {
	identity Service
	logger   *slog.Logger
}

func New(identity Service, logger *slog.Logger) *Handler {
	return &Handler{identity: identity, logger: logger}
}

// HandleSignup creates an account: POST /signup.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.identity.Signup(ctx, &req)
	if err != nil {
		h.logFailure(ctx, "signup failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleLogin performs a password login: POST /login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.identity.Login(ctx, &req)
	if err != nil {
		h.logFailure(ctx, "login failed", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) logFailure(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"error", err.Error(),
		"request_id", request.GetRequestID(ctx),
	)
}
