// Package server provides the REST API HTTP server.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/nutrilens/v1/internal/infrastructure/config"
	"github.com/nutrilens/v1/internal/infrastructure/http/handlers"
	"github.com/nutrilens/v1/internal/infrastructure/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the API HTTP server with graceful shutdown support.
type Server struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server
	router *chi.Mux
}

// NewServer wires the router and handlers into an HTTP server.
func NewServer(cfg *config.Config, api *handlers.APIHandlers, logger *zap.Logger) *Server {
	s := &Server{
		config: cfg,
		logger: logger.Named("http"),
	}
	s.router = s.setupRouter(api)
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

func (s *Server) setupRouter(api *handlers.APIHandlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/assess/product", api.AssessProduct)
		r.Post("/assess/menu-item", api.AssessMenuItem)
		r.Post("/assess/compare", api.CompareProducts)
		r.Get("/additives/{name}", api.GetAdditive)
		r.Get("/products/{barcode}", api.GetProduct)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": s.config.App.Name,
		"version": s.config.App.Version,
	})
}

// Router exposes the configured router, used by tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
