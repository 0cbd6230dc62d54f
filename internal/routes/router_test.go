package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skypulse/flightcore/internal/api"
	"skypulse/flightcore/internal/config"
	"skypulse/flightcore/internal/db"
	"skypulse/flightcore/internal/metrics"
	"skypulse/flightcore/internal/models"
	"skypulse/flightcore/internal/models/dtos"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// newTestRouter serves the bundled dataset over an in-memory sqlite cache.
func newTestRouter(t *testing.T, jwtSecret string) http.Handler {
	t.Helper()

	cfg := config.Default()
	cfg.UseMockData = true
	cfg.Auth.JWTSecret = jwtSecret
	cfg.RateLimitRPS = 1000
	cfg.RateLimitBurst = 1000

	orm, err := db.InitORM(db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	sqlxDB, err := db.InitSQLX(db.DriverSQLite, ":memory:", orm)
	if err != nil {
		t.Fatalf("Failed to open sqlx: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	deps, err := api.InitDependencies(ctx, cfg, orm, sqlxDB, metrics.NewNopRegistry())
	if err != nil {
		cancel()
		t.Fatalf("Failed to init dependencies: %v", err)
	}
	t.Cleanup(func() {
		_ = deps.Close()
		cancel()
	})

	return RegisterRoutes(deps, sqlxDB, time.Now())
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.RemoteAddr = "198.51.100.10:5555"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("Failed to decode %s %s response: %v", method, path, err)
		}
	}
	return rec, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("Failed to decode data: %v (%s)", err, string(env.Data))
	}
	return out
}

func TestHealthCheck(t *testing.T) {
	h := newTestRouter(t, "")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var resp dtos.HealthCheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode health response: %v", err)
	}
	if resp.Status != "ok" || resp.Services["database"].Status != "ok" {
		t.Errorf("Expected healthy database, got %+v", resp)
	}
	if resp.Cache == nil || resp.Cache.Flights != 0 || resp.Cache.Airports != 0 {
		t.Errorf("Expected empty cache counts, got %+v", resp.Cache)
	}
}

func TestFlightsEndpoints(t *testing.T) {
	h := newTestRouter(t, "")

	rec, env := do(t, h, http.MethodGet, "/api/v1/flights?flight=SU1234", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	flights := decodeData[[]dtos.FlightView](t, env)
	if len(flights) != 1 || flights[0].ID != "SU1234-2025-10-19" {
		t.Errorf("Expected SU1234, got %+v", flights)
	}

	if flights[0].Route != "Moscow (SVO) - New York (JFK)" {
		t.Errorf("Expected route Moscow (SVO) - New York (JFK), got %q", flights[0].Route)
	}

	rec, env = do(t, h, http.MethodGet, "/api/v1/flights", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	dashboard := decodeData[[]dtos.FlightView](t, env)
	if len(dashboard) == 0 {
		t.Fatal("Expected active flights on the dashboard")
	}
	for _, f := range dashboard {
		if f.Status != models.FlightStatusActive {
			t.Errorf("Expected only active flights without filters, got %s %s", f.ID, f.Status)
		}
	}

	rec, _ = do(t, h, http.MethodGet, "/api/v1/flights?date=19-10-2025", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a malformed date, got %d", rec.Code)
	}

	rec, env = do(t, h, http.MethodGet, "/api/v1/flights/BA303-2025-10-19", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	detail := decodeData[dtos.FlightView](t, env)
	if detail.ID != "BA303-2025-10-19" || !detail.Departure.Airport.HasCoordinates() {
		t.Errorf("Expected enriched BA303, got %+v", detail)
	}
	if detail.IsFavorite == nil || *detail.IsFavorite {
		t.Errorf("Expected is_favorite=false, got %v", detail.IsFavorite)
	}

	rec, env = do(t, h, http.MethodGet, "/api/v1/flights/ZZ999-2025-10-19", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
	if env.Status != "error" {
		t.Errorf("Expected error envelope, got %q", env.Status)
	}
}

func TestTrackAndLiveEndpoints(t *testing.T) {
	h := newTestRouter(t, "")

	rec, env := do(t, h, http.MethodGet, "/api/v1/flights/SU1234-2025-10-19/track?icao24=4248D3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	tracked := decodeData[dtos.FlightView](t, env)
	if tracked.LiveData == nil || tracked.LiveData.Altitude != 10668 {
		t.Errorf("Expected bundled live position, got %+v", tracked.LiveData)
	}

	if !tracked.IsLive || tracked.Live == nil || tracked.Live.AltitudeFeet != 35000 {
		t.Errorf("Expected a live flight at 35000 ft, got %v / %+v", tracked.IsLive, tracked.Live)
	}

	// No icao24 in the query: the transponder on record for BA303 is used.
	rec, env = do(t, h, http.MethodGet, "/api/v1/flights/BA303-2025-10-19/track", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	tracked = decodeData[dtos.FlightView](t, env)
	if tracked.LiveData == nil || tracked.LiveData.Altitude != 3048 {
		t.Errorf("Expected BA303's bundled position at 3048 m, got %+v", tracked.LiveData)
	}

	rec, env = do(t, h, http.MethodGet, "/api/v1/live/4248d3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	live := decodeData[dtos.LiveView](t, env)
	if live.Altitude != 10668 {
		t.Errorf("Expected altitude 10668, got %v", live.Altitude)
	}
	if live.AltitudeFeet != 35000 || live.SpeedKnots != 459 {
		t.Errorf("Expected 35000 ft / 459 kt, got %d / %d", live.AltitudeFeet, live.SpeedKnots)
	}

	rec, _ = do(t, h, http.MethodGet, "/api/v1/live/ffffff", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown transponder, got %d", rec.Code)
	}
}

func TestAirportEndpoints(t *testing.T) {
	h := newTestRouter(t, "")

	rec, env := do(t, h, http.MethodGet, "/api/v1/airports?q=moscow", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	airports := decodeData[[]models.Airport](t, env)
	if len(airports) != 1 || airports[0].IATA != "SVO" {
		t.Errorf("Expected SVO, got %+v", airports)
	}

	rec, _ = do(t, h, http.MethodGet, "/api/v1/airports", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for an empty query, got %d", rec.Code)
	}

	rec, env = do(t, h, http.MethodGet, "/api/v1/airports/SVO/departures", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if departures := decodeData[[]dtos.FlightView](t, env); len(departures) != 3 {
		t.Errorf("Expected 3 departures from SVO, got %d", len(departures))
	}

	rec, env = do(t, h, http.MethodGet, "/api/v1/airports/SVO/arrivals", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if arrivals := decodeData[[]dtos.FlightView](t, env); len(arrivals) != 2 {
		t.Errorf("Expected 2 arrivals to SVO, got %d", len(arrivals))
	}
}

func TestFavoritesEndpoints(t *testing.T) {
	h := newTestRouter(t, "")

	body := `{"flight":{"id":"SU1234-2025-10-19","flight_number":"SU1234",` +
		`"airline":{"iata":"SU","icao":"AFL","name":"Aeroflot"},` +
		`"departure":{"airport":{"iata":"SVO"}},"arrival":{"airport":{"iata":"JFK"}},` +
		`"status":"active"},"notifications_enabled":true}`

	rec, _ := do(t, h, http.MethodPost, "/api/v1/favorites", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", rec.Code)
	}

	rec, env := do(t, h, http.MethodGet, "/api/v1/favorites", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	favorites := decodeData[[]dtos.FlightView](t, env)
	if len(favorites) != 1 || favorites[0].ID != "SU1234-2025-10-19" {
		t.Fatalf("Expected SU1234 in favorites, got %+v", favorites)
	}

	_, env = do(t, h, http.MethodGet, "/api/v1/favorites/SU1234-2025-10-19", "")
	if state := decodeData[dtos.ToggleFavoriteResponse](t, env); !state.IsFavorite {
		t.Error("Expected SU1234 to be a favorite")
	}

	rec, _ = do(t, h, http.MethodDelete, "/api/v1/favorites/SU1234-2025-10-19", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	_, env = do(t, h, http.MethodGet, "/api/v1/favorites", "")
	if favorites := decodeData[[]dtos.FlightView](t, env); len(favorites) != 0 {
		t.Errorf("Expected no favorites, got %d", len(favorites))
	}

	rec, _ = do(t, h, http.MethodPost, "/api/v1/favorites", `{"flight":{}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a flight without id, got %d", rec.Code)
	}
}

func TestSearchEndpoints(t *testing.T) {
	h := newTestRouter(t, "")

	rec, env := do(t, h, http.MethodGet, "/api/v1/search?q=su1234", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	result := decodeData[dtos.SearchResponse](t, env)
	if result.Query.Type != models.SearchTypeFlightNumber {
		t.Errorf("Expected flight number query, got %s", result.Query.Type)
	}
	if len(result.Flights) != 1 {
		t.Errorf("Expected 1 flight, got %d", len(result.Flights))
	}

	_, env = do(t, h, http.MethodGet, "/api/v1/search/history", "")
	history := decodeData[[]models.SearchQuery](t, env)
	if len(history) != 1 || history[0].Text != "SU1234" {
		t.Errorf("Expected SU1234 in history, got %+v", history)
	}

	rec, _ = do(t, h, http.MethodDelete, "/api/v1/search/history", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	_, env = do(t, h, http.MethodGet, "/api/v1/search/history", "")
	if history := decodeData[[]models.SearchQuery](t, env); len(history) != 0 {
		t.Errorf("Expected empty history, got %d", len(history))
	}
}

func TestMonitorEndpoints(t *testing.T) {
	h := newTestRouter(t, "")

	rec, env := do(t, h, http.MethodPost, "/api/v1/monitor/LH1444-2025-10-19", "")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", rec.Code)
	}
	if started := decodeData[dtos.MonitoredFlight](t, env); started.Status != models.FlightStatusScheduled {
		t.Errorf("Expected current status scheduled, got %s", started.Status)
	}

	_, env = do(t, h, http.MethodGet, "/api/v1/monitor", "")
	if tracked := decodeData[[]dtos.MonitoredFlight](t, env); len(tracked) != 1 {
		t.Fatalf("Expected 1 monitored flight, got %d", len(tracked))
	}

	rec, _ = do(t, h, http.MethodDelete, "/api/v1/monitor", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	_, env = do(t, h, http.MethodGet, "/api/v1/monitor", "")
	if tracked := decodeData[[]dtos.MonitoredFlight](t, env); len(tracked) != 0 {
		t.Errorf("Expected no monitored flights, got %d", len(tracked))
	}
}

func TestAuthRequiredWhenSecretSet(t *testing.T) {
	h := newTestRouter(t, "test-secret")

	rec, _ := do(t, h, http.MethodGet, "/api/v1/flights", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a token, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("Expected health check to stay open, got %d", rec.Code)
	}
}
