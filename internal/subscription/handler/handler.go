package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"brewleaf/internal/platform/middleware"
	"brewleaf/internal/subscription/models"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/platform/httputil"
	"brewleaf/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, userID id.UserID, req models.CreateRequest) (*models.Subscription, error)
	ListForUser(ctx context.Context, userID id.UserID) ([]*models.Subscription, error)
	UpdateStatus(ctx context.Context, userID id.UserID, subID id.SubscriptionID, status models.Status) (*models.Subscription, error)
}

type Handler struct {
	subscriptions Service
	logger        *slog.Logger
	validator     middleware.TokenValidator
}

func New(subscriptions Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{subscriptions: subscriptions, logger: logger, validator: validator}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/subscriptions", func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Patch("/{subscription}", h.handleUpdateStatus)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.CreateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid subscription request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	sub, err := h.subscriptions.Create(ctx, requestcontext.UserID(ctx), req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sub)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subs, err := h.subscriptions.ListForUser(ctx, requestcontext.UserID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if subs == nil {
		subs = []*models.Subscription{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"subscriptions": subs})
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subID, err := id.ParseSubscriptionID(chi.URLParam(r, "subscription"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	sub, err := h.subscriptions.UpdateStatus(ctx, requestcontext.UserID(ctx), subID, status)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to update subscription",
			"request_id", requestcontext.RequestID(ctx),
			"subscription_id", subID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sub)
}
