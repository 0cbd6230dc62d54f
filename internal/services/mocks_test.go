package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"skypulse/flightcore/internal/common"
	"skypulse/flightcore/internal/db"
	"skypulse/flightcore/internal/db/repositories"
	"skypulse/flightcore/internal/models"
	"skypulse/flightcore/internal/models/dtos"
)

// Mock ScheduleProvider
type mockScheduleProvider struct {
	searchFlightsFunc  func(ctx context.Context, params models.FlightSearchParams) ([]dtos.ASFlight, error)
	searchAirportsFunc func(ctx context.Context, query string) ([]dtos.ASAirport, error)

	flightCalls  atomic.Int32
	airportCalls atomic.Int32
}

func (m *mockScheduleProvider) SearchFlights(ctx context.Context, params models.FlightSearchParams) ([]dtos.ASFlight, error) {
	m.flightCalls.Add(1)
	if m.searchFlightsFunc == nil {
		return nil, nil
	}
	return m.searchFlightsFunc(ctx, params)
}

func (m *mockScheduleProvider) SearchAirports(ctx context.Context, query string) ([]dtos.ASAirport, error) {
	m.airportCalls.Add(1)
	if m.searchAirportsFunc == nil {
		return nil, nil
	}
	return m.searchAirportsFunc(ctx, query)
}

// Mock TelemetryProvider
type mockTelemetryProvider struct {
	getStatesFunc func(ctx context.Context, icao24 *string) ([]dtos.StateVector, error)
	calls         atomic.Int32
}

func (m *mockTelemetryProvider) GetStates(ctx context.Context, icao24 *string) ([]dtos.StateVector, error) {
	m.calls.Add(1)
	if m.getStatesFunc == nil {
		return nil, nil
	}
	return m.getStatesFunc(ctx, icao24)
}

// Mock FlightDetailSource
type mockDetailSource struct {
	getFlightDetailFunc func(ctx context.Context, id string) <-chan models.Flight
}

func (m *mockDetailSource) GetFlightDetail(ctx context.Context, id string) <-chan models.Flight {
	return m.getFlightDetailFunc(ctx, id)
}

// Mock LivePositionSource
type mockLiveSource struct {
	getLivePositionFunc func(ctx context.Context, icao24 string) *models.LiveTelemetry
}

func (m *mockLiveSource) GetLivePosition(ctx context.Context, icao24 string) *models.LiveTelemetry {
	return m.getLivePositionFunc(ctx, icao24)
}

func setupTestStore(t *testing.T) *repositories.SQLCacheStore {
	t.Helper()

	orm, err := db.InitORM(db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlxDB, err := db.InitSQLX(db.DriverSQLite, ":memory:", orm)
	if err != nil {
		t.Fatalf("Failed to open sqlx handle: %v", err)
	}

	store := repositories.NewSQLCacheStore(orm, sqlxDB, repositories.CacheStoreOptions{MaxSearchHistory: 20})
	t.Cleanup(func() { store.Close() })
	return store
}

func newTestFlightService(t *testing.T, schedule *mockScheduleProvider, telemetry *mockTelemetryProvider, reachable bool, mock bool) (*FlightService, *repositories.SQLCacheStore) {
	t.Helper()

	store := setupTestStore(t)
	if schedule == nil {
		schedule = &mockScheduleProvider{}
	}
	if telemetry == nil {
		telemetry = &mockTelemetryProvider{}
	}

	svc := NewFlightService(
		schedule,
		telemetry,
		store,
		common.MustLoadEmbeddedDataset(),
		common.NewStaticReachability(reachable),
		NewAirportResolver(schedule, nil),
		common.NewCacheService("test", time.Minute, time.Minute, nil),
		FlightServiceOptions{UseMockData: mock, LivePositionTTL: 10 * time.Second},
	)
	return svc, store
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }

func timePtr(t time.Time) *time.Time { return &t }

// asFlight builds a provider record the way AviationStack returns it.
func asFlight(iata, date, dep, arr, status string) dtos.ASFlight {
	return dtos.ASFlight{
		FlightDate:   strPtr(date),
		FlightStatus: strPtr(status),
		Departure:    &dtos.ASEndpoint{IATA: strPtr(dep), Scheduled: strPtr(date + "T08:30:00+00:00")},
		Arrival:      &dtos.ASEndpoint{IATA: strPtr(arr), Scheduled: strPtr(date + "T18:45:00+00:00")},
		Airline:      &dtos.ASAirline{Name: strPtr("Aeroflot"), IATA: strPtr(iata[:2]), ICAO: strPtr("AFL")},
		Flight:       &dtos.ASFlightID{IATA: strPtr(iata), Number: strPtr(iata[2:])},
	}
}

func cachedFlight(id, number string, status models.FlightStatus) models.Flight {
	return models.Flight{
		ID:           id,
		FlightNumber: number,
		Airline:      models.Airline{IATA: number[:2], Name: "Cached Air"},
		Departure: models.FlightEndpoint{
			Airport:   models.Airport{IATA: "SVO", City: "Moscow"},
			Scheduled: timePtr(time.Date(2025, 10, 19, 8, 30, 0, 0, time.UTC)),
		},
		Arrival: models.FlightEndpoint{
			Airport:   models.Airport{IATA: "JFK", City: "New York"},
			Scheduled: timePtr(time.Date(2025, 10, 19, 18, 45, 0, 0, time.UTC)),
		},
		Status: status,
	}
}

func collect(t *testing.T, ch <-chan models.Flight) []models.Flight {
	t.Helper()

	var out []models.Flight
	timeout := time.After(5 * time.Second)
	for {
		select {
		case f, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, f)
		case <-timeout:
			t.Fatal("Timed out waiting for stream to close")
			return out
		}
	}
}
