package api

import (
	"log"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ignite/newsletter/internal/pkg/httputil"
	"github.com/ignite/newsletter/internal/pkg/ratelimit"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers, limiter *ratelimit.Limiter) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// CORS - the sign-up form is posted from browsers on other origins
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health_check", h.HealthCheck)

	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(rateLimitMiddleware(limiter))
		}
		r.Post("/subscriptions", h.Subscribe)
	})

	r.Get("/subscriptions/confirm", h.Confirm)
	r.Post("/newsletters", h.PublishNewsletter)

	return r
}

// rateLimitMiddleware rejects clients that exceed the per-IP subscribe
// budget. Limiter errors are logged and the request is let through.
func rateLimitMiddleware(limiter *ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ok, err := limiter.Allow(req.Context(), clientIP(req))
			if err != nil {
				log.Printf("[api] rate limiter unavailable: %v", err)
			}
			if !ok {
				httputil.Error(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}

// clientIP derives the rate-limit key from RemoteAddr. The port is dropped
// so every connection from one host shares a budget; RealIP has already
// rewritten RemoteAddr when a forwarding header was present.
func clientIP(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}
