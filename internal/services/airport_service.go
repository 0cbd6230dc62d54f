package services

import (
	"context"
	"strings"
	"time"

	"skypulse/flightcore/internal/common"
	"skypulse/flightcore/internal/constants"
	"skypulse/flightcore/internal/db/repositories"
	"skypulse/flightcore/internal/logging"
	"skypulse/flightcore/internal/models"
	"skypulse/flightcore/internal/models/dtos"
	"skypulse/flightcore/internal/providers"
)

// AirportService serves airport boards and airport lookups.
type AirportService struct {
	schedule     providers.ScheduleProvider
	store        repositories.CacheStore
	offline      *common.OfflineDataset
	reachability common.Reachability
	useMockData  bool
	now          func() time.Time
}

func NewAirportService(
	schedule providers.ScheduleProvider,
	store repositories.CacheStore,
	offline *common.OfflineDataset,
	reachability common.Reachability,
	useMockData bool,
) *AirportService {
	return &AirportService{
		schedule:     schedule,
		store:        store,
		offline:      offline,
		reachability: reachability,
		useMockData:  useMockData,
		now:          time.Now,
	}
}

func (s *AirportService) online() bool {
	return !s.useMockData && s.reachability.IsReachable()
}

// FetchDepartures lists today's departures from iata.
func (s *AirportService) FetchDepartures(ctx context.Context, iata string) ([]models.Flight, error) {
	return s.board(ctx, iata, true)
}

// FetchArrivals lists today's arrivals at iata.
func (s *AirportService) FetchArrivals(ctx context.Context, iata string) ([]models.Flight, error) {
	return s.board(ctx, iata, false)
}

// board results are not written back to the cache.
func (s *AirportService) board(ctx context.Context, iata string, departures bool) ([]models.Flight, error) {
	code := strings.ToUpper(strings.TrimSpace(iata))
	if code == "" {
		return nil, constants.NewAppError(constants.ErrCodeInvalidRequest, nil)
	}

	today := s.now().UTC()
	params := models.ArrivalsTo(code)
	if departures {
		params = models.DeparturesFrom(code)
	}

	if s.useMockData {
		// the bundled dataset is not dated today
		return s.offline.SearchFlights(params), nil
	}

	params.Date = &today
	if !s.reachability.IsReachable() {
		return s.cachedFlights(ctx, params), nil
	}

	records, err := s.schedule.SearchFlights(ctx, params)
	if err != nil {
		logging.Warn("Airport board fetch failed, serving cache", "iata", code, "departures", departures, "error", err)
		return s.cachedFlights(ctx, params), nil
	}

	now := s.now()
	flights := make([]models.Flight, 0, len(records))
	for _, rec := range records {
		if f, ok := rec.ToDomain(now); ok {
			flights = append(flights, f)
		}
	}
	return flights, nil
}

func (s *AirportService) cachedFlights(ctx context.Context, params models.FlightSearchParams) []models.Flight {
	cached, err := s.store.GetFlights(ctx, params)
	if err != nil {
		logging.Error("Failed to read flight cache", "error", err)
		return []models.Flight{}
	}
	return cached
}

// SearchAirports matches query against IATA code, name and city.
func (s *AirportService) SearchAirports(ctx context.Context, query string) ([]models.Airport, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, constants.NewAppError(constants.ErrCodeInvalidRequest, nil)
	}

	cached, err := s.store.GetAirports(ctx, q)
	if err != nil {
		logging.Error("Failed to read airport cache", "query", q, "error", err)
	}

	if !s.online() {
		if len(cached) > 0 {
			return cached, nil
		}
		return s.offline.SearchAirports(q), nil
	}

	records, err := s.schedule.SearchAirports(ctx, q)
	if err != nil {
		if len(cached) > 0 {
			logging.Warn("Airport search failed, serving cache", "query", q, "error", err)
			return cached, nil
		}
		return nil, constants.AsAppError(err)
	}

	airports := mapAirports(records)
	s.store.PutAirports(airports)
	return airports, nil
}

// GetAirport returns the airport for iata, or models.PlaceholderAirport.
func (s *AirportService) GetAirport(ctx context.Context, iata string) models.Airport {
	code := strings.ToUpper(strings.TrimSpace(iata))
	if code == "" {
		return models.PlaceholderAirport
	}

	cached, err := s.store.GetAirport(ctx, code)
	if err != nil {
		logging.Error("Failed to read airport cache", "iata", code, "error", err)
	}
	if cached != nil {
		return *cached
	}

	if !s.online() {
		for _, a := range s.offline.SearchAirports(code) {
			if strings.EqualFold(a.IATA, code) {
				return a
			}
		}
		return models.PlaceholderAirport
	}

	records, err := s.schedule.SearchAirports(ctx, code)
	if err != nil {
		logging.Warn("Airport lookup failed", "iata", code, "error", err)
		return models.PlaceholderAirport
	}

	airports := mapAirports(records)
	s.store.PutAirports(airports)
	for _, a := range airports {
		if strings.EqualFold(a.IATA, code) {
			return a
		}
	}
	return models.PlaceholderAirport
}

func mapAirports(records []dtos.ASAirport) []models.Airport {
	airports := make([]models.Airport, 0, len(records))
	for _, rec := range records {
		if a, ok := rec.ToDomain(); ok {
			airports = append(airports, a)
		}
	}
	return airports
}
