// Package api serves the event store over HTTP.
//
// Routes live under /api/v1 and are protected by the X-API-Key header.
// Every response uses the APIResponse envelope. Prometheus metrics are
// exposed unauthenticated at /metrics.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// NewRouter builds the chi router for server. Metrics are served from gatherer.
func NewRouter(server *Server, gatherer prometheus.Gatherer) http.Handler {
	metrics := server.metrics

	r := chi.NewRouter()

	// Middleware
	r.Use(requestIDMiddleware)
	r.Use(middleware.RequestLogger(&slogFormatter{logger: server.logger}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(metrics.InstrumentAuthMiddleware(apiKeyMiddleware(server.config.APIKey)))

		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		r.Post("/events", metrics.InstrumentHandler("POST", "/api/v1/events", server.handleCreate))
		r.Get("/events/{id}", metrics.InstrumentHandler("GET", "/api/v1/events/{id}", server.handleGet))
		r.Put("/events/{id}", metrics.InstrumentHandler("PUT", "/api/v1/events/{id}", server.handleUpdate))
		r.Delete("/events/{id}", metrics.InstrumentHandler("DELETE", "/api/v1/events/{id}", server.handleDelete))
	})

	return r
}

// StartServer serves the API until ctx is cancelled, then shuts down gracefully
func StartServer(ctx context.Context, events EventService, config ServerConfig, logger *slog.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)

	server := NewServer(events, config, NewMetrics(registry), logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Bind, config.Port),
		Handler:           NewRouter(server, registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
