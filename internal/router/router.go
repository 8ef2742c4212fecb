// Package router sets up all HTTP routes and middleware chains for the
// Veritus content API. Everything lives under a fixed /api prefix; only
// the health check skips the bearer requirement.
package router

import (
	"github.com/go-chi/chi/v5"

	"veritus/internal/handlers"
	"veritus/internal/middleware"
)

// Options carries the router's tunables.
type Options struct {
	// APIToken is the expected bearer token; empty enforces presence only.
	APIToken string

	// Limiter rate-limits the newsletter mutation endpoints. Optional.
	Limiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.CORS)

	r.Route("/api", func(r chi.Router) {
		// Health check — no auth.
		r.Get("/health", api.Health)

		// Everything else requires a bearer credential.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireBearer(opts.APIToken))

			r.Route("/newsletter", func(r chi.Router) {
				// Subscribe/unsubscribe are the abuse-prone paths.
				r.Group(func(r chi.Router) {
					if opts.Limiter != nil {
						r.Use(opts.Limiter.Middleware)
					}
					r.Post("/subscribe", api.Subscribe)
					r.Post("/unsubscribe", api.Unsubscribe)
				})
				r.Get("/list", api.SubscriberList)
				r.Get("/stats", api.SubscriberStats)
			})

			r.Route("/articles", func(r chi.Router) {
				r.Get("/", api.ArticleList)
				r.Post("/", api.ArticleCreate)
				r.Get("/featured/list", api.FeaturedArticles)
				r.Get("/category/{category}", api.ArticlesByCategory)
				r.Get("/{id}", api.ArticleGet)
				r.Put("/{id}", api.ArticleUpdate)
				r.Delete("/{id}", api.ArticleDelete)
			})
		})
	})

	return r
}
