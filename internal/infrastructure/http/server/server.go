// Package server provides the HTTP API server.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/un-earthly/cookish/internal/infrastructure/config"
	"github.com/un-earthly/cookish/internal/infrastructure/http/handlers"
	"github.com/un-earthly/cookish/internal/infrastructure/http/middleware"
)

// Server is the HTTP API server.
type Server struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	handlers *handlers.RecipeHandlers
	registry *prometheus.Registry
}

// NewServer creates the API server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	recipeHandlers *handlers.RecipeHandlers,
	registry *prometheus.Registry,
) *Server {
	s := &Server{
		config:   cfg,
		logger:   logger.Named("http-server"),
		handlers: recipeHandlers,
		registry: registry,
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(s.config.Server.WriteTimeout))
	r.Use(chimiddleware.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	if s.config.Features.EnableMetrics && s.registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.UserContext)

		r.Route("/recipes", func(r chi.Router) {
			r.Post("/generate", s.handlers.Generate)
			r.Get("/availability", s.handlers.Availability)

			r.Route("/{recipeID}", func(r chi.Router) {
				r.Post("/variations", s.handlers.CreateVariation)
				r.Get("/timeline", s.handlers.Timeline)
				r.Get("/comparison", s.handlers.Comparison)
				r.Post("/rollback", s.handlers.Rollback)
			})
		})

		r.Route("/variations/{variationID}", func(r chi.Router) {
			r.Delete("/", s.handlers.DeleteVariation)
			r.Post("/save", s.handlers.SaveVariation)
		})
	})

	return r
}

// Start begins serving. It blocks until the listener fails or Shutdown runs.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
