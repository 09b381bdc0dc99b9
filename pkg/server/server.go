// Package server runs the HTTP server with graceful startup and shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mistertoy/mistertoy-server/pkg/observability/logger"
	"github.com/mistertoy/mistertoy-server/pkg/server/router"
)

// shutdownTimeout bounds how long in-flight requests may take to drain.
const shutdownTimeout = 30 * time.Second

// Config holds the HTTP server settings.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server wraps http.Server with configured timeouts and graceful lifecycle
// management tied to a context.
type Server struct {
	httpServer *http.Server
	router     router.Router
	log        logger.Logger
	config     Config
}

// NewServer creates a Server serving r on the configured port.
func NewServer(cfg Config, r router.Router, log logger.Logger) *Server {
	if log == nil {
		log = logger.Noop{}
	}
	return &Server{
		router: r,
		log:    log,
		config: cfg,
	}
}

// Start listens and serves until the context is cancelled, then shuts down
// gracefully. It returns early if the listener fails to start.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	s.log.Info("starting server", "port", s.config.Port)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown stops accepting new connections and waits up to shutdownTimeout
// for in-flight requests to complete.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down server", "addr", s.httpServer.Addr)

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.log.Info("server shutdown complete", "addr", s.httpServer.Addr)
	return nil
}
