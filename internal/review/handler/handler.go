package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"brewleaf/internal/platform/middleware"
	"brewleaf/internal/review/models"
	"brewleaf/internal/review/service"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/platform/httputil"
	"brewleaf/pkg/requestcontext"
)

type Service interface {
	Submit(ctx context.Context, userID id.UserID, productID id.ProductID, req models.SubmitRequest) (*service.SubmitResult, error)
	List(ctx context.Context, productID id.ProductID) ([]*models.Review, error)
}

type Handler struct {
	reviews   Service
	logger    *slog.Logger
	validator middleware.TokenValidator
}

func New(reviews Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{reviews: reviews, logger: logger, validator: validator}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/products/{product}/reviews", h.handleList)
	r.With(middleware.RequireAuth(h.validator, h.logger)).Post("/products/{product}/reviews", h.handleSubmit)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID, err := id.ParseProductID(chi.URLParam(r, "product"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var req models.SubmitRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid review request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	res, err := h.reviews.Submit(ctx, requestcontext.UserID(ctx), productID, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID, err := id.ParseProductID(chi.URLParam(r, "product"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	reviews, err := h.reviews.List(ctx, productID)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to list reviews",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if reviews == nil {
		reviews = []*models.Review{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"reviews": reviews})
}
