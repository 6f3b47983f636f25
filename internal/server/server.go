// Package server provides the HTTP API for metaboost.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hyperjump/metaboost/internal/config"
	"github.com/hyperjump/metaboost/internal/metrics"
	"github.com/hyperjump/metaboost/internal/models"
	"github.com/hyperjump/metaboost/internal/recommend"
)

// ReportSource provides the latest analysis report.
type ReportSource interface {
	LastReport() (*models.Report, error)
}

// WatchService reports which catalog files are being watched.
type WatchService interface {
	Files() []string
}

// Server is the HTTP server for the metaboost API.
type Server struct {
	engine  *recommend.Engine
	reports ReportSource
	config  *config.ServerConfig
	logger  *zap.Logger
	watch   WatchService // nil when watching is disabled
	server  *http.Server
}

// NewServer creates a server with the given dependencies. watch may be nil.
func NewServer(
	engine *recommend.Engine,
	reports ReportSource,
	cfg *config.ServerConfig,
	logger *zap.Logger,
	watch WatchService,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		engine:  engine,
		reports: reports,
		config:  cfg,
		logger:  logger,
		watch:   watch,
	}
}

// Router builds the route tree with the middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(metrics.Middleware())

	r.Post("/api/v1/recommendations", s.handleRecommend)
	r.Get("/api/v1/datasets/{id}/similar", s.handleSimilar)
	r.Get("/api/v1/categories/{category}/datasets", s.handleCategory)
	r.Get("/api/v1/report", s.handleReport)
	r.Get("/api/v1/status", s.handleStatus)
	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
