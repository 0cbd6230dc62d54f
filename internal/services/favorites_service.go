package services

import (
	"context"
	"fmt"

	"skypulse/flightcore/internal/constants"
	"skypulse/flightcore/internal/db/repositories"
	"skypulse/flightcore/internal/models"
)

// FavoritesService manages the user's starred flights. Favorites reference
// cached flights by id, so adding one also caches the flight.
type FavoritesService struct {
	store repositories.CacheStore
}

func NewFavoritesService(store repositories.CacheStore) *FavoritesService {
	return &FavoritesService{store: store}
}

// List returns favorite flights, most recently added first. Favorites whose
// flight is no longer cached are skipped.
func (s *FavoritesService) List(ctx context.Context) ([]models.Flight, error) {
	favorites, err := s.store.ListFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	if len(favorites) == 0 {
		return []models.Flight{}, nil
	}

	ids := make([]string, 0, len(favorites))
	for _, fav := range favorites {
		ids = append(ids, fav.FlightID)
	}

	cached, err := s.store.GetFlightsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Flight, len(cached))
	for _, f := range cached {
		byID[f.ID] = f
	}

	flights := make([]models.Flight, 0, len(favorites))
	for _, id := range ids {
		if f, ok := byID[id]; ok {
			flights = append(flights, f)
		}
	}
	return flights, nil
}

func (s *FavoritesService) Add(ctx context.Context, flight models.Flight, notificationsEnabled bool) error {
	if flight.ID == "" {
		return constants.NewAppError(constants.ErrCodeInvalidRequest, fmt.Errorf("flight id is required"))
	}

	s.store.PutFlights([]models.Flight{flight})
	// make the flight visible to List before the favorite row exists
	if err := s.store.Flush(ctx); err != nil {
		return fmt.Errorf("failed to cache favorite flight: %w", err)
	}
	if err := s.store.AddFavorite(ctx, flight.ID, notificationsEnabled); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (s *FavoritesService) Remove(ctx context.Context, flightID string) error {
	if err := s.store.RemoveFavorite(ctx, flightID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

func (s *FavoritesService) IsFavorite(ctx context.Context, flightID string) (bool, error) {
	return s.store.IsFavorite(ctx, flightID)
}

// Toggle flips the favorite state and returns the new one.
func (s *FavoritesService) Toggle(ctx context.Context, flight models.Flight, isFavorited bool) (bool, error) {
	if isFavorited {
		if err := s.Remove(ctx, flight.ID); err != nil {
			return true, err
		}
		return false, nil
	}

	if err := s.Add(ctx, flight, true); err != nil {
		return false, err
	}
	return true, nil
}
