package api

import (
	"net/http"
	"strconv"
	"time"

	"skypulse/flightcore/internal/common"
	"skypulse/flightcore/internal/models/dtos"
)

// Search handles GET /api/v1/search?q=
func (h *Handlers) Search() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		query, flights, err := h.deps.Services.Search.Execute(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Search completed", dtos.SearchResponse{
			Query:   query,
			Flights: dtos.NewFlightViews(flights, h.now()),
		})
	}
}

// SearchHistory handles GET /api/v1/search/history?limit=
func (h *Handlers) SearchHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		limit := 0
		if qs := r.URL.Query().Get("limit"); qs != "" {
			n, err := strconv.Atoi(qs)
			if err != nil || n < 0 {
				common.RespondError(w, initTime, nil, "Invalid limit parameter", http.StatusBadRequest)
				return
			}
			limit = n
		}

		history, err := h.deps.Services.Search.Recent(r.Context(), limit)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Search history fetched", history)
	}
}

// ClearSearchHistory handles DELETE /api/v1/search/history
func (h *Handlers) ClearSearchHistory() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		if err := h.deps.Services.Search.ClearHistory(r.Context()); err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Search history cleared", nil)
	}
}
