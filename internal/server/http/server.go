// Package http exposes the generation services over a JSON HTTP API.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/klauspost/compress/gzhttp"

	"github.com/arcitek-ai/arcitek/internal/backend"
	"github.com/arcitek-ai/arcitek/internal/output"
	"github.com/arcitek-ai/arcitek/internal/service"
)

// ServiceName is reported by the health endpoint and the API docs.
const ServiceName = "ArciTEK.AI Backend"

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// Config holds the HTTP server settings.
type Config struct {
	Addr           string
	Version        string
	AllowedOrigins []string
}

// Deps are the collaborators the handlers call into.
type Deps struct {
	Backends *backend.Registry
	Config   service.ConfigFunc
	Store    *output.Store
	Image    *service.Image
	Music    *service.Music
	Story    *service.Story
}

// Server is the HTTP front end.
type Server struct {
	srv *http.Server
	api huma.API
}

// APIConfig returns the huma configuration of the API.
func APIConfig(version string) huma.Config {
	cfg := huma.DefaultConfig(ServiceName, version)
	// Response bodies keep their plain shape, without a $schema link.
	cfg.CreateHooks = nil
	return cfg
}

// Register registers every operation on api.
func Register(api huma.API, version string, deps Deps) {
	NewHealthHandler(api, version, deps.Backends, deps.Config)
	NewMusicHandler(api, deps.Music)
	NewImageHandler(api, deps.Image)
	NewStoryHandler(api, deps.Story)
}

// New creates the HTTP server.
func New(cfg Config, deps Deps) *Server {
	mux := http.NewServeMux()
	api := humago.New(mux, APIConfig(cfg.Version))

	Register(api, cfg.Version, deps)
	mux.Handle("GET "+output.URLPrefix+"{path...}", deps.Store.Handler())

	handler := gzhttp.GzipHandler(withCORS(cfg.AllowedOrigins, withRequestLog(slog.Default(), mux)))

	return &Server{
		api: api,
		srv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}
}

// Handler returns the root handler including middleware.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// API returns the huma API.
func (s *Server) API() huma.API {
	return s.api
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	slog.Info("Shutting down HTTP server")
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	return nil
}
