package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"skypulse/flightcore/internal/api"
	"skypulse/flightcore/internal/logging"
	"skypulse/flightcore/internal/middleware"
)

func RegisterRoutes(deps *api.Dependencies, db *sqlx.DB, upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.MetricsMiddleware(deps.Metrics))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Get("/healthCheck", api.HealthCheckHandler(db, deps.RedisClient(), deps.Repo.Store, deps.Services.Reachability, upSince))
	r.Handle("/metrics", promhttp.Handler())

	handlers := api.NewHandlers(deps)
	limiter := middleware.NewIPRateLimiter(deps.Config.RateLimitRPS, deps.Config.RateLimitBurst)
	RegisterAPIRoutes(r, handlers, deps, limiter)

	logging.Info("Router initialized", "auth_enabled", deps.Signer != nil)
	return r
}
