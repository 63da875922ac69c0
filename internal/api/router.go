package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/eldtechnologies/agentdesk/internal/api/middleware"
	"github.com/eldtechnologies/agentdesk/internal/events"
	"github.com/eldtechnologies/agentdesk/internal/handlers"
	"github.com/eldtechnologies/agentdesk/internal/store"
)

// Options configures the router's HTTP plumbing.
type Options struct {
	AllowedOrigins []string
	MaxBodyBytes   int64
}

// DefaultOptions allows all origins and 8KB bodies.
func DefaultOptions() Options {
	return Options{
		AllowedOrigins: []string{"*"},
		MaxBodyBytes:   8 * 1024,
	}
}

// NewRouter creates and configures the HTTP router.
func NewRouter(logger zerolog.Logger, s store.AgentStore, feed events.Feed, opts Options) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware (order matters!)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(opts.MaxBodyBytes))
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	h := handlers.NewHandler(s, feed, logger)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/stats", h.Stats)

	r.Route("/agents", func(r chi.Router) {
		r.Post("/", h.CreateAgent)
		r.Get("/", h.ListAgents)
		r.Get("/events", h.ListEvents)
		r.Get("/{id}", h.GetAgent)
		r.Put("/{id}", h.UpdateAgent)
		r.Delete("/{id}", h.DeleteAgent)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.Error(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
