// Package api serves the /books collection resource over HTTP, speaking the
// same dialect as json-server: bare JSON arrays and records, 201 on create,
// 404 for unknown ids, partial merges on PUT and PATCH.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/listenupapp/bookshelf/internal/http/response"
	"github.com/listenupapp/bookshelf/internal/ratelimit"
	"github.com/listenupapp/bookshelf/internal/store"
	"github.com/listenupapp/bookshelf/internal/validation"
)

// Options tunes the server's middleware.
type Options struct {
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store     store.BookStore
	validator *validation.Validator
	limiter   *ratelimit.KeyedRateLimiter
	router    *chi.Mux
	api       huma.API
	logger    *slog.Logger
}

// NewServer creates a server with all routes configured.
func NewServer(st store.BookStore, opts Options, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if len(opts.CORSOrigins) == 0 {
		opts.CORSOrigins = []string{"*"}
	}

	s := &Server{
		store:     st,
		validator: validation.New(),
		router:    chi.NewRouter(),
		logger:    logger,
	}
	if opts.RateLimitRPS > 0 {
		s.limiter = ratelimit.New(opts.RateLimitRPS, max(opts.RateLimitBurst, 1))
	}

	s.setupMiddleware(opts)

	humaConfig := huma.DefaultConfig("Bookshelf Catalog", "1.0.0")
	// No $schema links: records go out exactly as the client expects them.
	humaConfig.CreateHooks = nil
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerBookRoutes()

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "no route for "+r.Method+" "+r.URL.Path, s.logger)
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for tests and OpenAPI export.
func (s *Server) API() huma.API {
	return s.api
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))
	if s.limiter != nil {
		s.router.Use(RateLimitMiddleware(s.limiter, s.logger))
	}
}
