package api

import (
	"errors"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"skypulse/flightcore/internal/common"
	"skypulse/flightcore/internal/constants"
	"skypulse/flightcore/internal/models"
	"skypulse/flightcore/internal/models/dtos"
)

// ListMonitored handles GET /api/v1/monitor
func (h *Handlers) ListMonitored() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		tracked := h.deps.Workers.StatusMonitor.Tracked()
		out := make([]dtos.MonitoredFlight, 0, len(tracked))
		for id, status := range tracked {
			out = append(out, dtos.MonitoredFlight{FlightID: id, Status: status})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].FlightID < out[j].FlightID })

		common.RespondSuccess(w, initTime, "Monitored flights fetched", out)
	}
}

// StartMonitoring handles POST /api/v1/monitor/{id}. Without a status in
// the body the current one is read from the first detail emission.
func (h *Handlers) StartMonitoring() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id := chi.URLParam(r, "id")

		var req dtos.MonitorRequest
		if err := decodeBody(r, &req); err != nil && !errors.Is(err, io.EOF) {
			common.RespondError(w, initTime, nil, "Invalid request body", http.StatusBadRequest)
			return
		}

		status := req.Status
		if status == "" {
			select {
			case f, ok := <-h.deps.Services.Flights.GetFlightDetail(r.Context(), id):
				if !ok {
					common.RespondAppError(w, initTime, constants.NewAppError(constants.ErrCodeNotFound, nil))
					return
				}
				status = f.Status
			case <-r.Context().Done():
				common.RespondAppError(w, initTime, r.Context().Err())
				return
			}
		} else {
			status = models.ParseFlightStatus(string(status))
		}

		h.deps.Workers.StatusMonitor.StartMonitoring(id, status)
		common.RespondSuccess(w, initTime, "Monitoring started", dtos.MonitoredFlight{FlightID: id, Status: status}, http.StatusAccepted)
	}
}

// StopMonitoring handles DELETE /api/v1/monitor/{id}
func (h *Handlers) StopMonitoring() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id := chi.URLParam(r, "id")

		h.deps.Workers.StatusMonitor.StopMonitoring(id)
		common.RespondSuccess(w, initTime, "Monitoring stopped", dtos.MonitoredFlight{FlightID: id})
	}
}

// StopAllMonitoring handles DELETE /api/v1/monitor
func (h *Handlers) StopAllMonitoring() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		h.deps.Workers.StatusMonitor.StopAll()
		common.RespondSuccess(w, initTime, "Monitoring stopped for all flights", nil)
	}
}
