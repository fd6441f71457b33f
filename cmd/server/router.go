package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	identityhandler "onboard/internal/identity/handler"
	identitymiddleware "onboard/internal/identity/middleware"
	identityservice "onboard/internal/identity/service"
	orghandler "onboard/internal/organization/handler"
	"onboard/internal/platform/metrics"
	"onboard/internal/platform/middleware"
	dErrors "onboard/pkg/domain-errors"
	"onboard/pkg/platform/httputil"
)

type routerDeps struct {
	logger         *slog.Logger
	metrics        *metrics.Registry
	organizations  orghandler.Service
	sessions       *identityservice.Service
	exposeSessions bool
	health         func(ctx context.Context) error
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recovery(d.logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := d.health(ctx); err != nil {
			d.logger.WarnContext(ctx, "health check failed", "error", err)
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "unhealthy"))
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", d.metrics.Handler())

	sessions := identityhandler.New(d.sessions, d.logger)
	if d.exposeSessions {
		sessions.RegisterPublic(r)
	}
	r.Group(func(r chi.Router) {
		r.Use(identitymiddleware.RequireSession(d.sessions, d.logger))
		sessions.RegisterAuthenticated(r)
		orghandler.New(d.organizations, d.logger).Register(r)
	})
	return r
}
