package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"brewleaf/internal/pricing"
	"brewleaf/pkg/money"
	"brewleaf/pkg/platform/httputil"
	"brewleaf/pkg/requestcontext"
)

// Handler exposes ad-hoc price quotes.
type Handler struct {
	policy pricing.Policy
	logger *slog.Logger
}

func New(policy pricing.Policy, logger *slog.Logger) *Handler {
	return &Handler{policy: policy, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/pricing/quote", h.handleQuote)
}

type quoteRequest struct {
	Subtotal money.Amount `json:"subtotal"`
}

type quoteResponse struct {
	pricing.Breakdown
	FreeShippingRemaining money.Amount `json:"free_shipping_remaining"`
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req quoteRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid quote request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	breakdown, err := pricing.Quote(req.Subtotal, h.policy)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, quoteResponse{
		Breakdown:             breakdown,
		FreeShippingRemaining: pricing.FreeShippingRemaining(req.Subtotal, h.policy),
	})
}
