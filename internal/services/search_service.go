package services

import (
	"context"
	"strings"
	"time"

	"skypulse/flightcore/internal/constants"
	"skypulse/flightcore/internal/db/repositories"
	"skypulse/flightcore/internal/logging"
	"skypulse/flightcore/internal/models"
)

// FlightFetcher is the part of FlightService that search delegates to.
type FlightFetcher interface {
	FetchFlights(ctx context.Context, params models.FlightSearchParams) ([]models.Flight, error)
}

// SearchService turns free text into a flight query and keeps the
// search history.
type SearchService struct {
	flights     FlightFetcher
	store       repositories.CacheStore
	recentLimit int
	now         func() time.Time
}

func NewSearchService(flights FlightFetcher, store repositories.CacheStore, recentLimit int) *SearchService {
	if recentLimit <= 0 {
		recentLimit = constants.DefaultRecentSearchLimit
	}
	return &SearchService{
		flights:     flights,
		store:       store,
		recentLimit: recentLimit,
		now:         time.Now,
	}
}

// Execute classifies text, records it and runs the matching flight query.
func (s *SearchService) Execute(ctx context.Context, text string) (models.SearchQuery, []models.Flight, error) {
	now := s.now()
	query := models.DetectSearchQuery(text, now)
	if query.Text == "" {
		return query, nil, constants.NewAppError(constants.ErrCodeInvalidRequest, nil)
	}

	if err := s.store.SaveSearch(ctx, query); err != nil {
		logging.Warn("Failed to save search", "query", query.Text, "error", err)
	}

	params, ok := ParamsForQuery(query, now)
	if !ok {
		return query, []models.Flight{}, nil
	}

	flights, err := s.flights.FetchFlights(ctx, params)
	if err != nil {
		return query, nil, err
	}
	return query, flights, nil
}

// ParamsForQuery maps a classified query to search params. Routes must
// be written FROM-TO; anything else yields ok == false.
func ParamsForQuery(q models.SearchQuery, now time.Time) (models.FlightSearchParams, bool) {
	switch q.Type {
	case models.SearchTypeFlightNumber:
		return models.ByFlightNumber(q.Text), true
	case models.SearchTypeRoute:
		parts := strings.Split(q.Text, "-")
		if len(parts) != 2 {
			return models.FlightSearchParams{}, false
		}
		from, to := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if from == "" || to == "" {
			return models.FlightSearchParams{}, false
		}
		return models.ByRoute(from, to), true
	default:
		params := models.DeparturesFrom(q.Text)
		today := now.UTC()
		params.Date = &today
		return params, true
	}
}

// Recent returns up to limit searches, newest first. A non-positive limit
// uses the configured default.
func (s *SearchService) Recent(ctx context.Context, limit int) ([]models.SearchQuery, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}
	return s.store.RecentSearches(ctx, limit)
}

func (s *SearchService) ClearHistory(ctx context.Context) error {
	return s.store.ClearSearchHistory(ctx)
}
