package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"onboard/internal/identity/models"
	id "onboard/pkg/domain"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/httputil"
	"onboard/pkg/requestcontext"
)

type Service interface {
	Start(ctx context.Context, req models.StartSessionRequest) (*models.Session, string, error)
	End(ctx context.Context, sessionID id.SessionID) error
}

// Handler serves session endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// RegisterPublic mounts the session issuing route. Production deployments
// receive sessions from the upstream identity provider and skip it.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/sessions", h.HandleStart)
}

// RegisterAuthenticated mounts routes that require a session.
func (h *Handler) RegisterAuthenticated(r chi.Router) {
	r.Delete("/sessions/current", h.HandleEnd)
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	var req models.StartSessionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid session request body",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	session, token, err := h.service.Start(ctx, req)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "failed to start session",
				"request_id", requestID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, models.SessionResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		SessionID:   session.ID.String(),
		ExpiresAt:   session.ExpiresAt,
	})
}

func (h *Handler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller, ok := requestcontext.CallerFrom(ctx)
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "no active session"))
		return
	}
	if err := h.service.End(ctx, caller.SessionID); err != nil {
		h.logger.ErrorContext(ctx, "failed to end session",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
