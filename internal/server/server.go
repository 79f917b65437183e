// Package server exposes the risk analysis pipeline over an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/vyapar-labs/siterisk/internal/config"
	"github.com/vyapar-labs/siterisk/internal/dataset"
	"github.com/vyapar-labs/siterisk/internal/geocode"
	"github.com/vyapar-labs/siterisk/internal/risk"
)

const (
	serviceName    = "siterisk"
	serviceVersion = "1.0.0"
)

// Server is the HTTP API around the analyzer and its datasets.
type Server struct {
	cfg        config.ServerConfig
	provider   dataset.Provider
	analyzer   *risk.Analyzer
	cascade    *geocode.Cascade
	router     chi.Router
	httpServer *http.Server
}

// New assembles the router and publishes the dataset size gauges.
func New(cfg config.ServerConfig, provider dataset.Provider, analyzer *risk.Analyzer, cascade *geocode.Cascade) *Server {
	s := &Server{
		cfg:      cfg,
		provider: provider,
		analyzer: analyzer,
		cascade:  cascade,
	}
	s.router = s.routes()

	if status, err := provider.Status(context.Background()); err == nil {
		recordDatasetSizes(status)
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))
	r.Use(metricsCollector)

	r.Get("/", s.handleRoot)
	r.Post("/api/analyze", s.handleAnalyze)
	r.Get("/api/events", s.handleEvents)
	r.Get("/api/geocode", s.handleGeocode)
	r.Get("/api/nearby", s.handleNearby)
	r.Get("/api/map-data", s.handleMapData)
	r.Get("/api/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks serving the API until Shutdown or a listen failure.
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
	}

	zap.L().Info("starting server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return eris.Wrap(err, "server: listen")
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
