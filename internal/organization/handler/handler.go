package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"onboard/internal/organization/models"
	"onboard/internal/organization/outcome"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/httputil"
	"onboard/pkg/requestcontext"
)

// Service defines the organization operations exposed over HTTP.
type Service interface {
	Register(ctx context.Context, caller requestcontext.Caller, req *models.RegistrationRequest) outcome.Outcome
	Get(ctx context.Context, code string) (*models.Organization, error)
}

// Handler serves organization endpoints. Routes expect the session
// middleware to have placed the caller in the request context.
type Handler struct {
	logger  *slog.Logger
	service Service
}

// New creates a new organization Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register registers the organization routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/organizations", h.HandleRegister)
	r.Get("/organizations/{code}", h.HandleGet)
}

// HandleRegister onboards an organization from its registry record.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caller, ok := requestcontext.CallerFrom(ctx)
	if !ok {
		h.logger.ErrorContext(ctx, "caller missing from context despite session middleware",
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req models.RegistrationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.logger.WarnContext(ctx, "invalid registration request body",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result := h.service.Register(ctx, caller, &req)
	if internal, ok := result.(outcome.Internal); ok {
		h.logger.ErrorContext(ctx, "organization registration failed",
			"request_id", requestID,
			"ipa_code", internal.Code,
			"error", internal.Cause,
		)
	}
	MapOutcome(result).write(w)
}

// HandleGet returns a registered organization.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := chi.URLParam(r, "code")

	org, err := h.service.Get(ctx, code)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to load organization",
				"request_id", requestcontext.RequestID(ctx),
				"ipa_code", code,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, org)
}
