package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"skypulse/flightcore/internal/db"
	"skypulse/flightcore/internal/models"
)

func newTestStore(t *testing.T) *SQLCacheStore {
	t.Helper()

	orm, err := db.InitORM(db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	sqlxDB, err := db.InitSQLX(db.DriverSQLite, ":memory:", orm)
	if err != nil {
		t.Fatalf("Failed to open sqlx: %v", err)
	}

	store := NewSQLCacheStore(orm, sqlxDB, CacheStoreOptions{MaxSearchHistory: 20})
	t.Cleanup(func() { store.Close() })
	return store
}

func timePtr(t time.Time) *time.Time { return &t }

func strPtr(s string) *string { return &s }

func su1234() models.Flight {
	icao24 := "4248d3"
	model := "A359"
	delay := 11
	return models.Flight{
		ID:           "SU1234-2025-10-19",
		FlightNumber: "SU1234",
		Airline:      models.Airline{IATA: "SU", ICAO: "AFL", Name: "Aeroflot"},
		Departure: models.FlightEndpoint{
			Airport:      models.Airport{IATA: "SVO", ICAO: "UUEE", Name: "Sheremetyevo", City: "Moscow", Country: "Russia", Timezone: "Europe/Moscow"},
			Terminal:     strPtr("C"),
			Scheduled:    timePtr(time.Date(2025, 10, 19, 8, 30, 0, 0, time.UTC)),
			Actual:       timePtr(time.Date(2025, 10, 19, 8, 41, 0, 0, time.UTC)),
			DelayMinutes: &delay,
		},
		Arrival: models.FlightEndpoint{
			Airport:   models.Airport{IATA: "JFK", ICAO: "KJFK", Name: "John F. Kennedy", City: "New York", Country: "United States", Timezone: "America/New_York"},
			Scheduled: timePtr(time.Date(2025, 10, 19, 18, 45, 0, 0, time.UTC)),
		},
		Status:   models.FlightStatusActive,
		Aircraft: &models.Aircraft{ICAO24: &icao24, Model: &model},
		LiveData: &models.LiveTelemetry{
			Latitude:  58.12,
			Longitude: 4.22,
			Altitude:  10668,
			Speed:     236.4,
			Heading:   281.5,
			UpdatedAt: time.Date(2025, 10, 19, 11, 42, 0, 0, time.UTC),
		},
	}
}

func TestCacheStore_FlightRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	want := su1234()

	store.PutFlights([]models.Flight{want})
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	flights, err := store.GetFlights(ctx, models.ByFlightNumber("su1234"))
	if err != nil {
		t.Fatalf("GetFlights failed: %v", err)
	}
	if len(flights) != 1 {
		t.Fatalf("Expected 1 flight, got %d", len(flights))
	}
	got := flights[0]

	if got.ID != want.ID || got.FlightNumber != want.FlightNumber || got.Status != want.Status {
		t.Errorf("Expected %s/%s/%s, got %s/%s/%s", want.ID, want.FlightNumber, want.Status, got.ID, got.FlightNumber, got.Status)
	}
	if got.Airline != want.Airline {
		t.Errorf("Expected airline %+v, got %+v", want.Airline, got.Airline)
	}
	if got.Departure.Airport.IATA != "SVO" || got.Arrival.Airport.IATA != "JFK" {
		t.Errorf("Expected SVO-JFK, got %s-%s", got.Departure.Airport.IATA, got.Arrival.Airport.IATA)
	}
	if got.Departure.Scheduled == nil || !got.Departure.Scheduled.Equal(*want.Departure.Scheduled) {
		t.Errorf("Expected departure %v, got %v", want.Departure.Scheduled, got.Departure.Scheduled)
	}
	if got.Departure.DelayMinutes == nil || *got.Departure.DelayMinutes != 11 {
		t.Errorf("Expected delay 11, got %v", got.Departure.DelayMinutes)
	}
	if got.Arrival.Actual != nil {
		t.Errorf("Expected no arrival actual time, got %v", got.Arrival.Actual)
	}
	if got.Aircraft == nil || got.Aircraft.ICAO24 == nil || *got.Aircraft.ICAO24 != "4248d3" {
		t.Errorf("Expected aircraft icao24 4248d3, got %+v", got.Aircraft)
	}
	if !got.LiveData.Equal(want.LiveData) {
		t.Errorf("Expected live data %+v, got %+v", want.LiveData, got.LiveData)
	}

	byID, err := store.GetFlight(ctx, want.ID)
	if err != nil || byID == nil {
		t.Fatalf("Expected flight by id, got %v, %v", byID, err)
	}
	if byID.ID != want.ID {
		t.Errorf("Expected %s, got %s", want.ID, byID.ID)
	}
}

func TestCacheStore_GetFlightMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetFlight(context.Background(), "XX1-2025-01-01")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != nil {
		t.Errorf("Expected nil, got %+v", got)
	}
}

func TestCacheStore_UpsertReplaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	f := su1234()
	store.PutFlights([]models.Flight{f})
	f.Status = models.FlightStatusLanded
	f.LiveData = nil
	store.PutFlights([]models.Flight{f})
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	flights, err := store.GetFlights(ctx, models.FlightSearchParams{})
	if err != nil {
		t.Fatalf("GetFlights failed: %v", err)
	}
	if len(flights) != 1 {
		t.Fatalf("Expected 1 flight, got %d", len(flights))
	}
	if flights[0].Status != models.FlightStatusLanded {
		t.Errorf("Expected landed, got %s", flights[0].Status)
	}
	if flights[0].LiveData != nil {
		t.Errorf("Expected live data cleared, got %+v", flights[0].LiveData)
	}
}

func TestCacheStore_GetFlightsFiltersAndOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	late := su1234()
	early := su1234()
	early.ID = "SU100-2025-10-19"
	early.FlightNumber = "SU100"
	early.Status = models.FlightStatusScheduled
	early.Departure.Scheduled = timePtr(time.Date(2025, 10, 19, 6, 0, 0, 0, time.UTC))
	other := su1234()
	other.ID = "BA303-2025-10-20"
	other.FlightNumber = "BA303"
	other.Airline = models.Airline{IATA: "BA", ICAO: "BAW", Name: "British Airways"}
	other.Departure.Airport.IATA = "CDG"
	other.Arrival.Airport.IATA = "LHR"

	store.PutFlights([]models.Flight{late, early, other})
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	flights, err := store.GetFlights(ctx, models.DeparturesFrom("svo"))
	if err != nil {
		t.Fatalf("GetFlights failed: %v", err)
	}
	if len(flights) != 2 {
		t.Fatalf("Expected 2 SVO departures, got %d", len(flights))
	}
	if flights[0].ID != early.ID || flights[1].ID != late.ID {
		t.Errorf("Expected order %s, %s, got %s, %s", early.ID, late.ID, flights[0].ID, flights[1].ID)
	}

	active := models.FlightStatusActive
	flights, _ = store.GetFlights(ctx, models.FlightSearchParams{Status: &active, AirlineIATA: strPtr("su")})
	if len(flights) != 1 || flights[0].ID != late.ID {
		t.Errorf("Expected only %s, got %+v", late.ID, flights)
	}

	date := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	flights, _ = store.GetFlights(ctx, models.FlightSearchParams{Date: &date})
	if len(flights) != 1 || flights[0].ID != other.ID {
		t.Errorf("Expected only %s, got %+v", other.ID, flights)
	}

	flights, _ = store.GetFlights(ctx, models.ByRoute("CDG", "LHR"))
	if len(flights) != 1 || flights[0].FlightNumber != "BA303" {
		t.Errorf("Expected BA303, got %+v", flights)
	}
}

func TestCacheStore_DateFilterAgreesWithMatches(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Filed under the 20th while the scheduled departure is still the 19th UTC.
	overnight := su1234()
	overnight.ID = "SU1234-2025-10-20"
	sameDay := su1234()

	flights := []models.Flight{overnight, sameDay}
	store.PutFlights(flights)
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	for _, day := range []int{19, 20} {
		date := time.Date(2025, 10, day, 0, 0, 0, 0, time.UTC)
		params := models.FlightSearchParams{Date: &date}

		cached, err := store.GetFlights(ctx, params)
		if err != nil {
			t.Fatalf("GetFlights failed: %v", err)
		}
		var offline []string
		for _, f := range flights {
			if params.Matches(f) {
				offline = append(offline, f.ID)
			}
		}
		if len(cached) != 1 || len(offline) != 1 || cached[0].ID != offline[0] {
			t.Errorf("Expected cache and offline filters to agree for the %dth, got %+v vs %v", day, cached, offline)
		}
	}
}

func TestCacheStore_Airports(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.PutAirports([]models.Airport{
		{IATA: "SVO", Name: "Sheremetyevo", City: "Moscow", Latitude: 55.97, Longitude: 37.41},
		{IATA: "JFK", Name: "John F. Kennedy", City: "New York", Latitude: 40.64, Longitude: -73.78},
	})
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	for _, q := range []string{"svo", "sherem", "MOSCOW"} {
		got, err := store.GetAirports(ctx, q)
		if err != nil {
			t.Fatalf("GetAirports(%q) failed: %v", q, err)
		}
		if len(got) != 1 || got[0].IATA != "SVO" {
			t.Errorf("Expected SVO for %q, got %+v", q, got)
		}
	}

	a, err := store.GetAirport(ctx, "jfk")
	if err != nil || a == nil {
		t.Fatalf("Expected JFK, got %v, %v", a, err)
	}
	if a.Latitude != 40.64 {
		t.Errorf("Expected latitude 40.64, got %v", a.Latitude)
	}
}

func TestCacheStore_PurgeExpired(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 10, 19, 12, 0, 0, 0, time.UTC)

	store.now = func() time.Time { return now.Add(-25 * time.Hour) }
	store.PutFlights([]models.Flight{su1234()})
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	fresh := su1234()
	fresh.ID = "SU26-2025-10-19"
	store.now = func() time.Time { return now }
	store.PutFlights([]models.Flight{fresh})
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	removed, err := store.PurgeExpired(ctx, CacheKindFlights, 24)
	if err != nil {
		t.Fatalf("PurgeExpired failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 row purged, got %d", removed)
	}

	left, _ := store.GetFlights(ctx, models.FlightSearchParams{})
	if len(left) != 1 || left[0].ID != fresh.ID {
		t.Errorf("Expected only %s to remain, got %+v", fresh.ID, left)
	}

	if _, err := store.PurgeExpired(ctx, CacheKind("pilots"), 1); err == nil {
		t.Error("Expected error for unknown cache kind")
	}
}

func TestCacheStore_Favorites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 10, 19, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"SU1234-2025-10-19", "BA303-2025-10-19"} {
		added := base.Add(time.Duration(i) * time.Minute)
		store.now = func() time.Time { return added }
		if err := store.AddFavorite(ctx, id, true); err != nil {
			t.Fatalf("AddFavorite failed: %v", err)
		}
	}

	favorites, err := store.ListFavorites(ctx)
	if err != nil {
		t.Fatalf("ListFavorites failed: %v", err)
	}
	if len(favorites) != 2 {
		t.Fatalf("Expected 2 favorites, got %d", len(favorites))
	}
	if favorites[0].FlightID != "BA303-2025-10-19" {
		t.Errorf("Expected newest first, got %s", favorites[0].FlightID)
	}
	if !favorites[0].NotificationsEnabled {
		t.Error("Expected notifications enabled")
	}

	ok, err := store.IsFavorite(ctx, "SU1234-2025-10-19")
	if err != nil || !ok {
		t.Errorf("Expected SU1234 to be favorite, got %v, %v", ok, err)
	}

	if err := store.RemoveFavorite(ctx, "SU1234-2025-10-19"); err != nil {
		t.Fatalf("RemoveFavorite failed: %v", err)
	}
	ok, _ = store.IsFavorite(ctx, "SU1234-2025-10-19")
	if ok {
		t.Error("Expected SU1234 to be removed")
	}
}

func TestCacheStore_SearchHistoryCap(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 10, 19, 12, 0, 0, 0, time.UTC)
	limit := store.maxSearchHistory

	for i := 0; i <= limit; i++ {
		q := models.SearchQuery{
			Text:      fmt.Sprintf("SU%d", 1000+i),
			Type:      models.SearchTypeFlightNumber,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}
		if err := store.SaveSearch(ctx, q); err != nil {
			t.Fatalf("SaveSearch failed: %v", err)
		}
	}

	recent, err := store.RecentSearches(ctx, 100)
	if err != nil {
		t.Fatalf("RecentSearches failed: %v", err)
	}
	if len(recent) != limit {
		t.Fatalf("Expected %d entries, got %d", limit, len(recent))
	}
	if recent[0].Text != fmt.Sprintf("SU%d", 1000+limit) {
		t.Errorf("Expected newest first, got %s", recent[0].Text)
	}
	if last := recent[len(recent)-1].Text; last != "SU1001" {
		t.Errorf("Expected oldest kept entry SU1001, got %s", last)
	}
	if recent[0].Type != models.SearchTypeFlightNumber {
		t.Errorf("Expected flight_number type, got %s", recent[0].Type)
	}

	top, _ := store.RecentSearches(ctx, 3)
	if len(top) != 3 {
		t.Errorf("Expected 3 entries, got %d", len(top))
	}

	if err := store.ClearSearchHistory(ctx); err != nil {
		t.Fatalf("ClearSearchHistory failed: %v", err)
	}
	recent, _ = store.RecentSearches(ctx, 10)
	if len(recent) != 0 {
		t.Errorf("Expected empty history, got %d", len(recent))
	}
}

func TestCacheStore_FlushAfterClose(t *testing.T) {
	store := newTestStore(t)
	store.Close()

	if err := store.Flush(context.Background()); err != ErrStoreClosed {
		t.Errorf("Expected ErrStoreClosed, got %v", err)
	}
	// no panic
	store.PutFlights([]models.Flight{su1234()})
}

func TestCacheStore_Counts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	store.PutFlights([]models.Flight{su1234()})
	store.PutAirports([]models.Airport{{IATA: "SVO", City: "Moscow"}, {IATA: "JFK", City: "New York"}})
	if err := store.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	counts, err := store.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts failed: %v", err)
	}
	if counts.Flights != 1 || counts.Airports != 2 {
		t.Errorf("Expected 1 flight and 2 airports, got %+v", counts)
	}
}
