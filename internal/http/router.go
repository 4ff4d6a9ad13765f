// Package http expone la superficie operacional del servicio: health,
// readiness y métricas. El protocolo OAuth2 de wire no vive acá.
package http

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sgivu/sgivu-auth/internal/observability/logger"
)

// Pinger es cualquier dependencia cuyo estado participa del readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps son las dependencias chequeadas por /readyz.
type Deps struct {
	Store Pinger
	Cache Pinger
}

// NewRouter arma el router operacional.
func NewRouter(deps Deps) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		w.WriteHeader(stdhttp.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		for name, p := range map[string]Pinger{"store": deps.Store, "cache": deps.Cache} {
			if p == nil {
				continue
			}
			if err := p.Ping(ctx); err != nil {
				logger.From(req.Context()).Warn("readiness check failed",
					logger.Component(name), logger.Err(err))
				w.WriteHeader(stdhttp.StatusServiceUnavailable)
				_, _ = w.Write([]byte(name + " unavailable"))
				return
			}
		}
		w.WriteHeader(stdhttp.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
