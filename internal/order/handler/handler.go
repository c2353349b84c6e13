package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"brewleaf/internal/order/models"
	"brewleaf/internal/platform/middleware"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/platform/httputil"
	"brewleaf/pkg/requestcontext"
)

type Service interface {
	Checkout(ctx context.Context, userID id.UserID, address models.Address) (*models.Order, error)
	ListForUser(ctx context.Context, userID id.UserID) ([]*models.Order, error)
	Get(ctx context.Context, orderID id.OrderID) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID id.OrderID, status models.Status) (*models.Order, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

type Handler struct {
	orders    Service
	logger    *slog.Logger
	validator middleware.TokenValidator
}

func New(orders Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{orders: orders, logger: logger, validator: validator}
}

type checkoutRequest struct {
	ShippingAddress models.Address `json:"shipping_address"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Post("/orders", h.handleCheckout)
		r.Get("/orders", h.handleList)
		r.Get("/orders/{order}", h.handleGet)


		admin := r.With(middleware.RequireAdmin(h.logger))
		admin.Patch("/admin/orders/{order}/status", h.handleUpdateStatus)
		admin.Get("/admin/stats", h.handleStats)
	})
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req checkoutRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid checkout request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	order, err := h.orders.Checkout(ctx, requestcontext.UserID(ctx), req.ShippingAddress)
	if err != nil {
		h.logger.WarnContext(ctx, "checkout failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, order)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orders, err := h.orders.ListForUser(ctx, requestcontext.UserID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	orderID, err := id.ParseOrderID(chi.URLParam(r, "order"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	order, err := h.orders.Get(r.Context(), orderID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID, err := id.ParseOrderID(chi.URLParam(r, "order"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req statusRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	order, err := h.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to update order status",
			"request_id", requestcontext.RequestID(ctx),
			"order_id", orderID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orders.Stats(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}
