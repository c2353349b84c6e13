package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"brewleaf/internal/auth/models"
	"brewleaf/internal/platform/middleware"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/platform/httputil"
	"brewleaf/pkg/requestcontext"
)

type Service interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.TokenResult, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.TokenResult, error)
	Me(ctx context.Context, userID id.UserID) (*models.User, error)
}

type Handler struct {
	auth      Service
	logger    *slog.Logger
	validator middleware.TokenValidator
}

func New(auth Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{auth: auth, logger: logger, validator: validator}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
	r.With(middleware.RequireAuth(h.validator, h.logger)).Get("/auth/me", h.handleMe)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := h.auth.Register(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "registration failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := h.auth.Login(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, err := h.auth.Me(ctx, requestcontext.UserID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}
