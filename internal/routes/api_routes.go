package routes

import (
	"github.com/go-chi/chi/v5"

	"skypulse/flightcore/internal/api"
	"skypulse/flightcore/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers, deps *api.Dependencies, limiter *middleware.IPRateLimiter) {
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(limiter.Middleware)
		v1.Use(middleware.AuthMiddleware(deps.Signer))

		v1.Get("/flights", handlers.ListFlights())
		v1.Get("/flights/{id}", handlers.GetFlight())
		v1.Get("/flights/{id}/track", handlers.TrackFlight())
		v1.Get("/live/{icao24}", handlers.LivePosition())

		v1.Get("/airports", handlers.SearchAirports())
		v1.Get("/airports/{iata}", handlers.GetAirport())
		v1.Get("/airports/{iata}/departures", handlers.Departures())
		v1.Get("/airports/{iata}/arrivals", handlers.Arrivals())

		v1.Get("/favorites", handlers.ListFavorites())
		v1.Get("/favorites/{id}", handlers.IsFavorite())

		// Search records history, so it counts as a write.
		v1.Group(func(write chi.Router) {
			write.Use(middleware.RequireWrite)

			write.Post("/favorites", handlers.AddFavorite())
			write.Post("/favorites/toggle", handlers.ToggleFavorite())
			write.Delete("/favorites/{id}", handlers.RemoveFavorite())

			write.Get("/search", handlers.Search())
			write.Delete("/search/history", handlers.ClearSearchHistory())

			write.Post("/monitor/{id}", handlers.StartMonitoring())
			write.Delete("/monitor/{id}", handlers.StopMonitoring())
			write.Delete("/monitor", handlers.StopAllMonitoring())
		})

		v1.Get("/search/history", handlers.SearchHistory())
		v1.Get("/monitor", handlers.ListMonitored())
	})
}
