package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"brewleaf/internal/cart/models"
	"brewleaf/internal/cart/service"
	"brewleaf/internal/platform/middleware"
	id "brewleaf/pkg/domain"
	dErrors "brewleaf/pkg/domain-errors"
	"brewleaf/pkg/platform/httputil"
	"brewleaf/pkg/requestcontext"
)

// SessionHeader carries the guest cart token in both directions.
const SessionHeader = "X-Cart-Session"

// Service defines the cart operations exposed over HTTP.
type Service interface {
	Get(ctx context.Context, session string) (*service.View, error)
	AddItem(ctx context.Context, session string, productID id.ProductID, variant models.Variant, quantity int) (*service.View, error)
	UpdateQuantity(ctx context.Context, session string, productID id.ProductID, variant models.Variant, quantity int) (*service.View, error)
	RemoveItem(ctx context.Context, session string, productID id.ProductID, variant models.Variant) (*service.View, error)
	Clear(ctx context.Context, session string) (*service.View, error)
	Drawer(ctx context.Context, session string, action service.DrawerAction) (*service.View, error)
	Merge(ctx context.Context, guestSession, userSession string) (*service.View, error)
}

type Handler struct {
	cart      Service
	logger    *slog.Logger
	validator middleware.TokenValidator
}

func New(cart Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{cart: cart, logger: logger, validator: validator}
}

// Register mounts the cart routes. Guests and signed-in users share them;
// the session key is resolved per request.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(h.validator, h.logger))
		r.Get("/cart", h.handleGet)
		r.Post("/cart/items", h.handleAdd)
		r.Patch("/cart/items", h.handleUpdate)
		r.Delete("/cart/items", h.handleRemove)
		r.Delete("/cart", h.handleClear)
		r.Post("/cart/drawer/{action}", h.handleDrawer)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.validator, h.logger))
		r.Post("/cart/merge", h.handleMerge)
	})
}

// session picks the signed-in user's cart, then the guest token, and issues a
// fresh guest token when the client has none.
func session(w http.ResponseWriter, r *http.Request) string {
	ctx := r.Context()
	if userID := requestcontext.UserID(ctx); !userID.IsNil() {
		return models.UserSession(userID)
	}
	token := requestcontext.CartSession(ctx)
	if token == "" {
		token = r.Header.Get(SessionHeader)
	}
	if token == "" {
		token = uuid.NewString()
	}
	w.Header().Set(SessionHeader, token)
	return models.GuestSession(token)
}

type itemRequest struct {
	ProductID string         `json:"product_id"`
	Variant   models.Variant `json:"variant"`
	Quantity  int            `json:"quantity"`
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.cart.Get(r.Context(), session(w, r))
	h.respond(w, r, view, err, "failed to load cart")
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	req, productID, ok := h.decodeItem(w, r)
	if !ok {
		return
	}
	view, err := h.cart.AddItem(r.Context(), session(w, r), productID, req.Variant, req.Quantity)
	h.respond(w, r, view, err, "failed to add cart item")
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	req, productID, ok := h.decodeItem(w, r)
	if !ok {
		return
	}
	view, err := h.cart.UpdateQuantity(r.Context(), session(w, r), productID, req.Variant, req.Quantity)
	h.respond(w, r, view, err, "failed to update cart item")
}

// handleRemove takes the line key from the query string.
func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	productID, err := id.ParseProductID(q.Get("product_id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	variant := models.Variant(q.Get("variant"))
	if variant == "" {
		variant = models.VariantWholeBean
	}
	view, err := h.cart.RemoveItem(r.Context(), session(w, r), productID, variant)
	h.respond(w, r, view, err, "failed to remove cart item")
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	view, err := h.cart.Clear(r.Context(), session(w, r))
	h.respond(w, r, view, err, "failed to clear cart")
}

func (h *Handler) handleDrawer(w http.ResponseWriter, r *http.Request) {
	action := service.DrawerAction(chi.URLParam(r, "action"))
	view, err := h.cart.Drawer(r.Context(), session(w, r), action)
	h.respond(w, r, view, err, "failed to update drawer")
}

func (h *Handler) handleMerge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := r.Header.Get(SessionHeader)
	if token == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "guest cart session is required"))
		return
	}
	userSession := models.UserSession(requestcontext.UserID(ctx))
	view, err := h.cart.Merge(ctx, models.GuestSession(token), userSession)
	h.respond(w, r, view, err, "failed to merge carts")
}

func (h *Handler) decodeItem(w http.ResponseWriter, r *http.Request) (itemRequest, id.ProductID, bool) {
	ctx := r.Context()
	var req itemRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid cart item request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return req, id.ProductID{}, false
	}
	productID, err := id.ParseProductID(req.ProductID)
	if err != nil {
		httputil.WriteError(w, err)
		return req, id.ProductID{}, false
	}
	if req.Variant == "" {
		req.Variant = models.VariantWholeBean
	}
	return req, productID, true
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, view *service.View, err error, msg string) {
	if err != nil {
		ctx := r.Context()
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
		} else {
			h.logger.WarnContext(ctx, msg, "request_id", requestcontext.RequestID(ctx), "error", err)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}
