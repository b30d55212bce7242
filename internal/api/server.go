// Package api exposes the public HTTP surface of the newsletter service.
//
// Handlers stay thin: they parse the request, call the subscription
// service, and translate the outcome into a status code. All transport
// concerns (status mapping, response encoding) live here and nowhere else.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ignite/newsletter/internal/config"
	"github.com/ignite/newsletter/internal/pkg/ratelimit"
	"github.com/ignite/newsletter/internal/service/subscription"
)

// Server represents the API server
type Server struct {
	config  config.ServerConfig
	handler http.Handler
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a new API server. limiter may be nil, in which case
// the subscribe endpoint is not rate limited.
func NewServer(cfg config.ServerConfig, svc *subscription.Service, limiter *ratelimit.Limiter) *Server {
	handlers := NewHandlers(svc)
	router := SetupRoutes(handlers, limiter)

	return &Server{
		config:  cfg,
		handler: router,
		router:  router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.handler,
		// Outbound email sending is the slowest step in any request and is
		// bounded by its own timeout, so these can stay tight.
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.handler
}
