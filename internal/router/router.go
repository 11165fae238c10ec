// Package router sets up all HTTP routes and middleware chains for the
// adpress API. It organizes routes into public, tracking, auth and admin
// groups with their own rate limits.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"adpress/internal/handlers"
	"adpress/internal/middleware"
)

// Limiters holds the per-IP rate limiters for each route group.
type Limiters struct {
	API      *middleware.RateLimiter
	Auth     *middleware.RateLimiter
	Tracking *middleware.RateLimiter
}

// NewLimiters returns the production limits: 100 API requests per 15
// minutes, 5 auth attempts per 15 minutes and 60 tracking beacons per
// minute.
func NewLimiters() *Limiters {
	return &Limiters{
		API:      middleware.NewRateLimiter("api", 100, 15*time.Minute, "Too many requests, please try again later."),
		Auth:     middleware.NewRateLimiter("auth", 5, 15*time.Minute, "Too many authentication attempts, please try again later."),
		Tracking: middleware.NewRateLimiter("tracking", 60, time.Minute, "Too many tracking requests."),
	}
}

// Stop terminates the limiters' cleanup goroutines.
func (l *Limiters) Stop() {
	l.API.Stop()
	l.Auth.Stop()
	l.Tracking.Stop()
}

// Deps carries everything the router wires together. Cache may be nil to
// disable response caching.
type Deps struct {
	Verifier       middleware.Verifier
	Cache          middleware.ResponseStore
	AllowedOrigins []string
	Limiters       *Limiters

	Public   *handlers.Public
	Tracking *handlers.Tracking
	Admin    *handlers.Admin
	Auth     *handlers.Auth
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(d.AllowedOrigins...))
	r.Use(middleware.LoadSession(d.Verifier))

	r.Get("/health", d.Public.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(d.Limiters.API.Middleware)

		// Public reads, cached for anonymous callers.
		r.Group(func(r chi.Router) {
			if d.Cache != nil {
				r.Use(middleware.CacheResponses(d.Cache))
			}
			r.Get("/posts", d.Public.PostsList)
			r.Get("/posts/{slug}", d.Public.PostBySlug)
			r.Get("/categories", d.Public.CategoriesList)
			r.Get("/ads", d.Public.AdsByPlacement)
		})

		// Ad tracking beacons.
		r.Route("/metrics", func(r chi.Router) {
			r.Use(d.Limiters.Tracking.Middleware)
			r.Post("/impression", d.Tracking.Impression)
			r.Post("/click", d.Tracking.Click)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Use(d.Limiters.Auth.Middleware)
			r.Post("/register", d.Auth.Register)
			r.Post("/login", d.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Post("/logout", d.Auth.Logout)
				r.Get("/me", d.Auth.Me)
			})
		})

		// Content management, admin token required.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireAdmin)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", d.Admin.PostsList)
				r.Post("/", d.Admin.PostCreate)
				r.Get("/{id}", d.Admin.PostGet)
				r.Put("/{id}", d.Admin.PostUpdate)
				r.Patch("/{id}", d.Admin.PostUpdate)
				r.Delete("/{id}", d.Admin.PostDelete)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", d.Admin.CategoryCreate)
				r.Get("/{id}", d.Admin.CategoryGet)
				r.Put("/{id}", d.Admin.CategoryUpdate)
				r.Patch("/{id}", d.Admin.CategoryUpdate)
				r.Delete("/{id}", d.Admin.CategoryDelete)
			})

			r.Route("/ads", func(r chi.Router) {
				r.Get("/", d.Admin.AdsList)
				r.Post("/", d.Admin.AdCreate)
				r.Get("/{id}", d.Admin.AdGet)
				r.Put("/{id}", d.Admin.AdUpdate)
				r.Patch("/{id}", d.Admin.AdUpdate)
				r.Delete("/{id}", d.Admin.AdDelete)
			})

			r.Get("/metrics/ad/{id}", d.Admin.AdMetrics)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Route not found"}`))
	})

	return r
}
