package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"skypulse/flightcore/internal/common"
	"skypulse/flightcore/internal/models/dtos"
)

// ListFavorites handles GET /api/v1/favorites
func (h *Handlers) ListFavorites() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		flights, err := h.deps.Services.Favorites.List(r.Context())
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}

		views := dtos.NewFlightViews(flights, h.now())
		fav := true
		for i := range views {
			views[i].IsFavorite = &fav
		}
		common.RespondSuccess(w, initTime, "Favorites fetched", views)
	}
}

// AddFavorite handles POST /api/v1/favorites
func (h *Handlers) AddFavorite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.FavoriteRequest
		if err := decodeBody(r, &req); err != nil {
			common.RespondError(w, initTime, nil, "Invalid request body", http.StatusBadRequest)
			return
		}

		if err := h.deps.Services.Favorites.Add(r.Context(), req.Flight, req.NotificationsEnabled); err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Favorite added", dtos.ToggleFavoriteResponse{
			FlightID:   req.Flight.ID,
			IsFavorite: true,
		}, http.StatusCreated)
	}
}

// ToggleFavorite handles POST /api/v1/favorites/toggle
func (h *Handlers) ToggleFavorite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.ToggleFavoriteRequest
		if err := decodeBody(r, &req); err != nil {
			common.RespondError(w, initTime, nil, "Invalid request body", http.StatusBadRequest)
			return
		}

		isFav, err := h.deps.Services.Favorites.Toggle(r.Context(), req.Flight, req.IsFavorited)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Favorite toggled", dtos.ToggleFavoriteResponse{
			FlightID:   req.Flight.ID,
			IsFavorite: isFav,
		})
	}
}

// IsFavorite handles GET /api/v1/favorites/{id}
func (h *Handlers) IsFavorite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id := chi.URLParam(r, "id")

		isFav, err := h.deps.Services.Favorites.IsFavorite(r.Context(), id)
		if err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Favorite state fetched", dtos.ToggleFavoriteResponse{
			FlightID:   id,
			IsFavorite: isFav,
		})
	}
}

// RemoveFavorite handles DELETE /api/v1/favorites/{id}
func (h *Handlers) RemoveFavorite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()
		id := chi.URLParam(r, "id")

		if err := h.deps.Services.Favorites.Remove(r.Context(), id); err != nil {
			common.RespondAppError(w, initTime, err)
			return
		}
		common.RespondSuccess(w, initTime, "Favorite removed", dtos.ToggleFavoriteResponse{FlightID: id})
	}
}
