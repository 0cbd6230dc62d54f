package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"skypulse/flightcore/internal/common"
	"skypulse/flightcore/internal/models/dtos"
)

// SearchAirports handles GET /api/v1/airports?q=
func (h *Handlers) SearchAirports() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		airports, err := h.deps.Services.Airports.SearchAirports(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Airports fetched", airports)
	}
}

// GetAirport handles GET /api/v1/airports/{iata}. Unknown codes answer
// with a placeholder record rather than an error.
func (h *Handlers) GetAirport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		airport := h.deps.Services.Airports.GetAirport(r.Context(), chi.URLParam(r, "iata"))
		common.RespondSuccess(w, initTime, "Airport fetched", airport)
	}
}

// Departures handles GET /api/v1/airports/{iata}/departures
func (h *Handlers) Departures() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		flights, err := h.deps.Services.Airports.FetchDepartures(r.Context(), chi.URLParam(r, "iata"))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Departures fetched", dtos.NewFlightViews(flights, h.now()))
	}
}

// Arrivals handles GET /api/v1/airports/{iata}/arrivals
func (h *Handlers) Arrivals() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		flights, err := h.deps.Services.Airports.FetchArrivals(r.Context(), chi.URLParam(r, "iata"))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Arrivals fetched", dtos.NewFlightViews(flights, h.now()))
	}
}
