// Package server wires the HTTP trigger surface: the scheduled refresh
// endpoint, user CRUD, the leaderboard view, health, and metrics.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rating-tracker/internal/common/logger"
	"rating-tracker/internal/leaderboard"
	"rating-tracker/internal/users"
)

// BatchRefresher is the slice of the rating pipeline the cron endpoint needs.
type BatchRefresher interface {
	RefreshAll(ctx context.Context) error
}

// Pinger reports backing-store liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Port        int
	CronSecret  string
	Logger      logger.Logger
	Refresher   BatchRefresher
	Users       *users.Service
	Leaderboard *leaderboard.Service
	// Pingers are checked by /healthz, keyed by component name.
	Pingers map[string]Pinger
}

type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	logger     logger.Logger

	cronSecret  string
	refresher   BatchRefresher
	users       *users.Service
	leaderboard *leaderboard.Service
	pingers     map[string]Pinger
}

func New(opts Options) *Server {
	s := &Server{
		logger:      opts.Logger,
		cronSecret:  opts.CronSecret,
		refresher:   opts.Refresher,
		users:       opts.Users,
		leaderboard: opts.Leaderboard,
		pingers:     opts.Pingers,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(opts.Logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/cron", s.handleCron)
		r.Post("/users", s.handleCreateUser)
		r.Get("/users/{id}", s.handleGetUser)
		r.Get("/leaderboard", s.handleLeaderboard)
	})

	s.router = r
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute, // batch refresh runs inside the cron request
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Router exposes the handler tree for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", map[string]interface{}{
		"addr": s.httpServer.Addr,
	})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
