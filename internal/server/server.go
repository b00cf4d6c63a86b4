// Package server assembles the HTTP admin API for the folder engine.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/openshelf/shelfctl/internal/observability"
	"github.com/openshelf/shelfctl/internal/server/handlers"
	"github.com/openshelf/shelfctl/internal/server/middleware"
	"github.com/openshelf/shelfctl/pkg/folder"
)

// Server hosts the admin API.
type Server struct {
	host    string
	port    int
	router  chi.Router
	version string

	httpServer *http.Server
}

// New creates a server bound to host:port with health and version routes.
// Folder routes are registered separately via MountFolders once a catalog
// is available.
func New(host string, port int) *Server {
	s := &Server{
		host:    host,
		port:    port,
		version: "dev",
	}
	s.router = s.buildRouter()
	return s
}

// SetVersion sets the version string reported by /version.
func (s *Server) SetVersion(version string) {
	if version != "" {
		s.version = version
	}
}

// Port returns the configured port.
func (s *Server) Port() int {
	return s.port
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// MountFolders registers the folder listing routes against the given service.
func (s *Server) MountFolders(svc *folder.Service) {
	s.router.Get("/v1/buckets/{bucket}/folders", handlers.Folders(svc))
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		middleware.WriteJSONError(w, req, http.StatusNotFound, "NOT_FOUND", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		middleware.WriteJSONError(w, req, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.Get("/health", handlers.Health)
	r.Get("/health/live", handlers.HealthLive)
	r.Get("/health/ready", handlers.HealthReady)
	r.Get("/health/startup", handlers.HealthStartup)

	r.Get("/version", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"version": s.version})
	})

	return r
}

// StartOptions tunes the listener timeouts.
type StartOptions struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, opts StartOptions) error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		IdleTimeout:  opts.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		observability.ServerLogger.Info("Admin server listening", zap.String("addr", addr))
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownTimeout := opts.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	observability.ServerLogger.Info("Admin server shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}
