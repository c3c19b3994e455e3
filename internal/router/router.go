package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appMiddleware "github.com/rmarques/go-rest-starter/app/middleware"
	"github.com/rmarques/go-rest-starter/internal/api/auth"
	"github.com/rmarques/go-rest-starter/internal/api/upload"
	"github.com/rmarques/go-rest-starter/internal/api/user"
)

// Config contains the handlers and middleware the router wires together.
type Config struct {
	AuthHandler            *auth.AuthHandler
	UserHandler            *user.UserHandler
	UploadHandler          *upload.UploadHandler
	AuthenticateMiddleware func(http.Handler) http.Handler
	ThrottleLimit          int
	ThrottleWindow         time.Duration
}

// SetupRouter wires the application routes. Server-wide middleware
// (request ID, logger, recoverer) is applied in main before mounting.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})
	r.Handle("/metrics", promhttp.Handler())

	throttleLimit := cfg.ThrottleLimit
	if throttleLimit <= 0 {
		throttleLimit = 100
	}
	throttleWindow := cfg.ThrottleWindow
	if throttleWindow <= 0 {
		throttleWindow = time.Minute
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes, rate limited per client IP.
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(throttleLimit, throttleWindow))
			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
		})

		// Everything below requires a valid token.
		r.Group(func(r chi.Router) {
			r.Use(cfg.AuthenticateMiddleware)

			r.Get("/users/me", cfg.UserHandler.GetMe)
			r.Post("/upload/image", cfg.UploadHandler.UploadImage)

			// Admin-only user management.
			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.RequireRole("admin"))
				r.Get("/users", cfg.UserHandler.List)
				r.Get("/users/{userID}", cfg.UserHandler.Get)
				r.Put("/users/{userID}", cfg.UserHandler.Update)
				r.Delete("/users/{userID}", cfg.UserHandler.Delete)
			})
		})
	})

	return r
}
