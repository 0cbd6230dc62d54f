package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"skypulse/flightcore/internal/common"
	"skypulse/flightcore/internal/constants"
	"skypulse/flightcore/internal/logging"
	"skypulse/flightcore/internal/models"
	"skypulse/flightcore/internal/models/dtos"
)

// ListFlights handles GET /api/v1/flights?flight=&dep=&arr=&airline=&date=&status=
// Without any filter it answers with the dashboard (flights currently active).
func (h *Handlers) ListFlights() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		params := models.FlightSearchParams{
			FlightNumber:  queryPtr(r, "flight"),
			DepartureIATA: queryPtr(r, "dep"),
			ArrivalIATA:   queryPtr(r, "arr"),
			AirlineIATA:   queryPtr(r, "airline"),
		}
		if d := queryPtr(r, "date"); d != nil {
			date, err := time.Parse("2006-01-02", *d)
			if err != nil {
				common.RespondError(w, initTime, nil, "Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			params.Date = &date
		}
		if st := queryPtr(r, "status"); st != nil {
			status := models.ParseFlightStatus(*st)
			params.Status = &status
		}
		if params.IsEmpty() {
			params = models.Dashboard()
		}

		flights, err := h.deps.Services.Flights.FetchFlights(r.Context(), params)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		common.RespondSuccess(w, initTime, "Flights fetched", dtos.NewFlightViews(flights, h.now()))
	}
}

// GetFlight handles GET /api/v1/flights/{id}. The freshest emission of the
// detail stream is returned.
func (h *Handlers) GetFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id := chi.URLParam(r, "id")

		flight, ok := lastEmission(r.Context(), h.deps.Services.Flights.GetFlightDetail(r.Context(), id))
		if !ok {
			common.RespondAppError(w, initTime, constants.NewAppError(constants.ErrCodeNotFound, nil))
			return
		}

		view := dtos.NewFlightView(flight, h.now())
		if fav, err := h.deps.Services.Favorites.IsFavorite(r.Context(), flight.ID); err == nil {
			view.IsFavorite = &fav
		}
		common.RespondSuccess(w, initTime, "Flight fetched", view)
	}
}

// TrackFlight handles GET /api/v1/flights/{id}/track?icao24=
// Without icao24 the transponder already known for the flight is used.
func (h *Handlers) TrackFlight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id := chi.URLParam(r, "id")

		icao24 := queryPtr(r, "icao24")
		if icao24 == nil {
			icao24 = h.knownTransponder(r.Context(), id)
		}

		flight, ok := lastEmission(r.Context(), h.deps.Services.Track.Execute(r.Context(), id, icao24))
		if !ok {
			common.RespondAppError(w, initTime, constants.NewAppError(constants.ErrCodeNotFound, nil))
			return
		}
		common.RespondSuccess(w, initTime, "Flight tracked", dtos.NewFlightView(flight, h.now()))
	}
}

// LivePosition handles GET /api/v1/live/{icao24}
func (h *Handlers) LivePosition() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		icao24 := strings.TrimSpace(chi.URLParam(r, "icao24"))

		live := h.deps.Services.Flights.GetLivePosition(r.Context(), icao24)
		if live == nil {
			common.RespondError(w, initTime, nil, "No live position for "+icao24, http.StatusNotFound)
			return
		}
		common.RespondSuccess(w, initTime, "Live position fetched", dtos.NewLiveView(*live))
	}
}

// knownTransponder looks the flight up in the cache, and in mock mode in the
// bundled dataset, for its icao24.
func (h *Handlers) knownTransponder(ctx context.Context, id string) *string {
	cached, err := h.deps.Repo.Store.GetFlight(ctx, id)
	if err != nil {
		logging.Debug("Transponder lookup failed", "flight_id", id, "error", err)
	}
	if cached != nil {
		return cached.ICAO24()
	}

	if h.deps.Config.UseMockData {
		for _, f := range h.deps.Services.Offline.Flights() {
			if f.ID == id {
				return f.ICAO24()
			}
		}
	}
	return nil
}
