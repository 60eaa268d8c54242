// Package server provides HTTP server lifecycle management.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/open-politics/open-politics-hq-sub007/internal/core/api"
	"github.com/open-politics/open-politics-hq-sub007/internal/core/auth"
	"github.com/open-politics/open-politics-hq-sub007/internal/core/config"
)

// HTTPServer manages HTTP server lifecycle.
type HTTPServer struct {
	server *http.Server
	config *config.FlowAPIConfig
}

// NewHTTPServer creates the HTTP server with auth middleware wrapped
// around the service routes. The health endpoint stays outside the
// auth boundary so probes need no credentials.
func NewHTTPServer(cfg *config.FlowAPIConfig, service *api.FlowAPIService, authenticator *auth.Authenticator) (*HTTPServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if authenticator == nil {
		return nil, fmt.Errorf("authenticator cannot be nil")
	}

	root := http.NewServeMux()
	root.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	root.Handle("/v1/", authenticator.Middleware(service.Routes()))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           http.TimeoutHandler(root, cfg.RequestTimeout, "request timeout"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &HTTPServer{
		server: server,
		config: cfg,
	}, nil
}

// Start serves HTTP requests. Blocks until Shutdown is called.
func (s *HTTPServer) Start(ctx context.Context) error {
	err := s.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server with a 30-second timeout.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.server.Close()
		return fmt.Errorf("graceful shutdown failed, forced close: %w", err)
	}
	return nil
}
