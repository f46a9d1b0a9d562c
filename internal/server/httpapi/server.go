// Package httpapi exposes the Leazzy backend over HTTP/JSON: the identity
// endpoints the mobile and CLI clients authenticate against, the property
// catalogue, and presigned photo uploads.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ashishkaushik/leazzy/internal/logging"
	"github.com/ashishkaushik/leazzy/internal/server/auth"
	"github.com/ashishkaushik/leazzy/internal/server/config"
	"github.com/ashishkaushik/leazzy/internal/server/metrics"
	"github.com/ashishkaushik/leazzy/internal/server/services"
)

// PhotoSigner hands out presigned URLs for photo objects.
type PhotoSigner interface {
	GetPresignedPutUrl(ctx context.Context) (string, string, error)
	GetPresignedGetUrl(ctx context.Context, key string) (string, error)
}

// Server wires the services into an HTTP router.
type Server struct {
	users      *services.UserService
	properties *services.PropertyService
	photos     PhotoSigner

	secretKey string
	logger    logging.Logger

	collector *metrics.Collector
	gatherer  prometheus.Gatherer
	limiter   *RateLimiter
}

// NewServer builds the API server with its own metrics registry and
// per-client rate limiter.
func NewServer(users *services.UserService, properties *services.PropertyService,
	photos PhotoSigner, cfg *config.Config, logger logging.Logger) *Server {

	registry := prometheus.NewRegistry()

	return &Server{
		users:      users,
		properties: properties,
		photos:     photos,
		secretKey:  cfg.SecretKey,
		logger:     logger,
		collector:  metrics.NewCollector(registry),
		gatherer:   registry,
		limiter:    NewRateLimiter(cfg.RateLimitRPS, logger),
	}
}

// Close stops the server's background goroutines.
func (s *Server) Close() {
	s.limiter.Stop()
}

// Router assembles the route tree with recovery, logging, metrics and rate
// limiting applied to every request.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(NewRecoveryMiddleware(s.logger))
	r.Use(NewLoggingMiddleware(s.logger, s.collector))
	r.Use(s.limiter.Middleware())

	r.Handle("/metrics", metrics.Handler(s.gatherer))

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)
		r.Get("/properties", s.handleListProperties)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(s.secretKey, func(w http.ResponseWriter, msg string) {
				writeError(w, http.StatusUnauthorized, msg)
			}))

			r.Post("/auth/logout", s.handleLogout)
			r.Get("/auth/me", s.handleMe)
			r.Patch("/auth/me", s.handleUpdateProfile)
			r.Post("/properties", s.handleCreateProperty)
			r.Post("/photos/presign", s.handlePresignPhoto)
		})
	})

	return r
}
