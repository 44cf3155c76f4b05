// Package server exposes box generation over HTTP.
//
// Routes:
//
//	GET  /health
//	POST /v1/boxes            JSON geometry, plans and warnings
//	POST /v1/boxes/validate   validation only
//	POST /v1/boxes/compare    what-if scenarios
//	POST /v1/boxes/svg        image/svg+xml
//	POST /v1/boxes/pdf        1:1 cut template
//	POST /v1/boxes/cutlist    xlsx workbook
//	POST /v1/boxes/gcode      router program
//
// Rejected parameters answer 422 with the design error code and the
// offending field; malformed JSON answers 400.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/piwi3910/BoxCut/internal/config"
	"github.com/piwi3910/BoxCut/internal/model"
	"github.com/piwi3910/BoxCut/pkg/logger"
)

// Server wires the router, middleware and HTTP listener.
type Server struct {
	cfg     config.ServerConfig
	mill    model.MillSettings
	log     *logger.Logger
	version string
	started time.Time
	router  chi.Router
}

// New builds a server. mill is the default router setup for GCode requests
// that do not carry their own.
func New(cfg config.ServerConfig, mill model.MillSettings, log *logger.Logger, version string) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		cfg:     cfg,
		mill:    mill,
		log:     log,
		version: version,
		started: time.Now(),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	// order matters: request id before logging, logging before recovery
	r.Use(chimw.RealIP)
	r.Use(RequestID)
	r.Use(Logger(s.log))
	r.Use(Recoverer(s.log))
	if s.cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(s.cfg.RequestTimeout))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader, "X-API-Version", "Content-Disposition"},
		MaxAge:         300,
	}))
	if s.cfg.RateLimit > 0 {
		r.Use(RateLimiter(RateLimiterConfig{
			RequestsPerSecond: s.cfg.RateLimit,
			Burst:             max(s.cfg.RateBurst, 1),
		}))
	}
	r.Use(SecureHeaders)
	r.Use(APIVersion(s.version))
	r.Use(MaxBodySize(s.cfg.MaxRequestSize))

	r.Get("/health", s.handleHealth)

	r.Route("/v1/boxes", func(r chi.Router) {
		r.Use(RequireJSON)
		r.Post("/", s.handleGenerate)
		r.Post("/validate", s.handleValidate)
		r.Post("/compare", s.handleCompare)
		r.Post("/svg", s.handleSVG)
		r.Post("/pdf", s.handlePDF)
		r.Post("/cutlist", s.handleCutList)
		r.Post("/gcode", s.handleGCode)
	})

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully within
// the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	s.log.Info("server shutdown complete")
	return nil
}
