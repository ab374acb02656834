// Package server exposes the vibration pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cwbudde/algo-vibe/internal/config"
	"github.com/cwbudde/algo-vibe/internal/dedupe"
	"github.com/cwbudde/algo-vibe/measure/vibration"
)

const maxBodyBytes = 32 << 20

// PayloadSource loads the latest reading of a sensor.
type PayloadSource interface {
	Payload(ctx context.Context, sensorID string) (vibration.Payload, dedupe.Outcome, error)
}

// Server routes API requests to the analyzer.
type Server struct {
	router   *mux.Router
	analyzer *vibration.Analyzer
	source   PayloadSource
	registry *prometheus.Registry
	metrics  *metrics
	format   formatter
	logger   *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRegistry sets the Prometheus registry served on /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// New returns a Server. source may be nil, in which case the sensor routes
// answer 503.
func New(analyzer *vibration.Analyzer, source PayloadSource, opts ...Option) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		analyzer: analyzer,
		source:   source,
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.analyzer == nil {
		s.analyzer = vibration.NewAnalyzer(vibration.WithLogger(s.logger))
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}

	s.metrics = newMetrics(s.registry)
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware, s.instrumentMiddleware)

	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/sensors/{id}/analysis", s.handleSensorAnalysis).Methods(http.MethodGet)
	api.HandleFunc("/sensors/{id}/summary", s.handleSensorSummary).Methods(http.MethodGet)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down within
// cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context, cfg config.Server) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  30 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- fmt.Errorf("server: listen on %s: %w", cfg.Addr, err)
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	srv.SetKeepAlivesEnabled(false)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
