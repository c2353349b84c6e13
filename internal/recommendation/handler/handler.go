package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"brewleaf/internal/platform/middleware"
	"brewleaf/internal/recommendation/models"
	"brewleaf/internal/recommendation/service"
	id "brewleaf/pkg/domain"
	"brewleaf/pkg/platform/httputil"
	"brewleaf/pkg/requestcontext"
)

// Service defines the taste quiz operations exposed over HTTP.
type Service interface {
	Submit(ctx context.Context, answers models.QuizAnswers) (*service.Result, error)
	Latest(ctx context.Context, userID id.UserID) (*service.SavedResult, error)
}

type Handler struct {
	quiz      Service
	logger    *slog.Logger
	validator middleware.TokenValidator
}

func New(quiz Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{quiz: quiz, logger: logger, validator: validator}
}

// Register mounts the quiz routes. Anyone can take the quiz; only signed-in
// users have a saved result.
func (h *Handler) Register(r chi.Router) {
	r.With(middleware.OptionalAuth(h.validator, h.logger)).Post("/quiz", h.handleSubmit)
	r.With(middleware.RequireAuth(h.validator, h.logger)).Get("/quiz/result", h.handleLatest)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var answers models.QuizAnswers
	if err := httputil.DecodeJSON(r, &answers); err != nil {
		h.logger.WarnContext(ctx, "invalid quiz request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	res, err := h.quiz.Submit(ctx, answers)
	if err != nil {
		h.logger.WarnContext(ctx, "quiz submission failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleLatest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	res, err := h.quiz.Latest(ctx, requestcontext.UserID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}
