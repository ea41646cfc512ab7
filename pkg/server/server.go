// Package server exposes logo generation and banner resolution over HTTP.
//
// Routes:
//
//	GET  /healthz                          liveness and build version
//	GET  /v1/logos/{name}/{symbol}.png     the PNG (ETag = SHA-256, immutable)
//	GET  /v1/logos/{name}/{symbol}         JSON metadata for the logo
//	GET  /v1/logos/{name}/{symbol}/record  the persisted record, if any
//	POST /v1/banners                       resolve banners for a list of agents
//	GET  /v1/stats                         in-process counters, when enabled
//
// Logos are deterministic, so PNG responses are cacheable forever.
// Append ?refresh=true to bypass the server-side cache read.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/tokenlogo/pkg/banner"
	"github.com/matzehuels/tokenlogo/pkg/config"
	"github.com/matzehuels/tokenlogo/pkg/observability"
	"github.com/matzehuels/tokenlogo/pkg/pipeline"
)

// maxBannerBody bounds POST /v1/banners request bodies.
const maxBannerBody = 1 << 20

// Server serves the HTTP API.
type Server struct {
	Runner   *pipeline.Runner
	Resolver *banner.Resolver
	Logger   *log.Logger

	// Persist saves every generated logo to the runner's store.
	Persist bool

	// Stats, when set, is reported at GET /v1/stats.
	Stats *observability.Counters
}

// New creates a server. A nil resolver answers banner requests with 503.
func New(runner *pipeline.Runner, resolver *banner.Resolver, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		Runner:   runner,
		Resolver: resolver,
		Logger:   logger,
	}
}

// Routes builds the router with middleware applied.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/logos/{name}/{symbol}", s.handleLogo)
		r.Get("/logos/{name}/{symbol}/record", s.handleRecord)
		r.Post("/banners", s.handleBanners)
		r.Get("/stats", s.handleStats)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	return r
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled, then shuts
// down gracefully within cfg.ShutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("shutting down")
	timeout := cfg.ShutdownTimeout.Duration
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
