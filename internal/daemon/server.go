// Package daemon serves the local HTTP API the browser extension reports
// visits to and queries footprints from.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/runnerr0/recalldoc/internal/config"
	"github.com/runnerr0/recalldoc/internal/storage"
)

const shutdownTimeout = 5 * time.Second

// Server is the recalldoc daemon.
type Server struct {
	repo    *storage.Repository
	cfg     *config.Config
	logger  *slog.Logger
	version string
	started time.Time
}

// New creates a Server over repo.
func New(repo *storage.Repository, cfg *config.Config, logger *slog.Logger, version string) *Server {
	return &Server{
		repo:    repo,
		cfg:     cfg,
		logger:  logger,
		version: version,
		started: time.Now(),
	}
}

// Handler builds the router with all middleware and routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(cors(s.cfg.Daemon.AllowedOrigins))
	r.Use(middleware.RequestSize(s.cfg.Daemon.MaxRequestSize))

	r.Get("/status", s.handleStatus)

	r.Route("/api", func(r chi.Router) {
		r.Post("/visits", s.handleVisit)
		r.Get("/footprints", s.handleSearch)
		r.Delete("/footprints", s.handleDelete)
		r.Get("/scopes", s.handleScopes)
		r.Get("/config", s.handleGetConfig)
		r.Put("/config", s.handlePutConfig)
		r.Get("/startup", s.handleStartup)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("daemon listening", "addr", srv.Addr, "version", s.version)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("daemon shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
