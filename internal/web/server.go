// Package web serves the liveness endpoints and Prometheus metrics.
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Varun-meghjiani/mod-shift-bot/internal/metrics"
)

// New builds the HTTP server. GET / and GET /health answer 200 with a static
// body; /metrics exposes the process registry.
func New(addr string) *http.Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	alive := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("mod-shift-bot is running"))
	}
	r.Get("/", alive)
	r.Get("/health", alive)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

	return &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}
