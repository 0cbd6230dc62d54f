package services

import (
	"context"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"skypulse/flightcore/internal/models"
)

func activeRouteFlight() models.Flight {
	f := cachedFlight("SU1234-2025-10-19", "SU1234", models.FlightStatusActive)
	f.Departure.Airport.Latitude, f.Departure.Airport.Longitude = 55.9726, 37.4146
	f.Arrival.Airport.Latitude, f.Arrival.Airport.Longitude = 40.6413, -73.7781
	return f
}

func streamOf(flights ...models.Flight) *mockDetailSource {
	return &mockDetailSource{
		getFlightDetailFunc: func(ctx context.Context, id string) <-chan models.Flight {
			ch := make(chan models.Flight, len(flights))
			for _, f := range flights {
				ch <- f
			}
			close(ch)
			return ch
		},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestEstimatePosition_Endpoints(t *testing.T) {
	f := activeRouteFlight()
	dep := *f.Departure.Scheduled
	arr := *f.Arrival.Scheduled

	start := EstimatePosition(f, dep.Add(-time.Hour))
	if start == nil {
		t.Fatal("Expected an estimate before departure")
	}
	if !almostEqual(start.Latitude, 55.9726) || !almostEqual(start.Longitude, 37.4146) {
		t.Errorf("Expected departure coordinates at p=0, got %v/%v", start.Latitude, start.Longitude)
	}

	end := EstimatePosition(f, arr.Add(time.Hour))
	if !almostEqual(end.Latitude, 40.6413) || !almostEqual(end.Longitude, -73.7781) {
		t.Errorf("Expected arrival coordinates at p=1, got %v/%v", end.Latitude, end.Longitude)
	}

	if start.Altitude != 10668 || start.Speed != 230 || start.VerticalRate != 0 || start.OnGround {
		t.Errorf("Expected cruise defaults, got %+v", start)
	}
	if start.Heading < 0 || start.Heading >= 360 {
		t.Errorf("Expected heading in [0,360), got %v", start.Heading)
	}
}

func TestEstimatePosition_Midpoint(t *testing.T) {
	f := activeRouteFlight()
	mid := f.Departure.Scheduled.Add(f.Arrival.Scheduled.Sub(*f.Departure.Scheduled) / 2)

	got := EstimatePosition(f, mid)
	wantLat := (55.9726 + 40.6413) / 2
	if math.Abs(got.Latitude-wantLat) > 1e-6 {
		t.Errorf("Expected latitude %v, got %v", wantLat, got.Latitude)
	}
}

func TestEstimatePosition_NotApplicable(t *testing.T) {
	now := time.Date(2025, 10, 19, 12, 0, 0, 0, time.UTC)

	for _, status := range []models.FlightStatus{models.FlightStatusScheduled, models.FlightStatusLanded, models.FlightStatusCancelled} {
		f := activeRouteFlight()
		f.Status = status
		if got := EstimatePosition(f, now); got != nil {
			t.Errorf("Expected nil for %s, got %+v", status, got)
		}
	}

	f := activeRouteFlight()
	f.Arrival.Airport.Latitude, f.Arrival.Airport.Longitude = 0.0005, 0
	if got := EstimatePosition(f, now); got != nil {
		t.Errorf("Expected nil without arrival coordinates, got %+v", got)
	}
}

func TestInitialBearing(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
	}{
		{"north", 0, 0, 10, 0, 0},
		{"east", 0, 0, 0, 10, 90},
		{"south", 10, 0, 0, 0, 180},
		{"west", 0, 0, 0, -10, 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InitialBearing(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestTrackFlight_PrefersOpenSky(t *testing.T) {
	f := activeRouteFlight()
	f.LiveData = &models.LiveTelemetry{Latitude: 1, Longitude: 1}
	opensky := &models.LiveTelemetry{Latitude: 58.1, Longitude: 4.2, Altitude: 11000}

	live := &mockLiveSource{
		getLivePositionFunc: func(ctx context.Context, icao24 string) *models.LiveTelemetry {
			if icao24 != "4248d3" {
				t.Errorf("Expected lower-cased icao24, got %s", icao24)
			}
			return opensky
		},
	}
	svc := NewTrackFlightService(streamOf(f), live, nil)

	got := collect(t, svc.Execute(context.Background(), f.ID, strPtr("4248D3")))
	if len(got) != 1 {
		t.Fatalf("Expected 1 emission, got %d", len(got))
	}
	if got[0].LiveData.Latitude != 58.1 {
		t.Errorf("Expected OpenSky position, got %+v", got[0].LiveData)
	}
}

func TestTrackFlight_FallsBackToEmbeddedThenEstimate(t *testing.T) {
	embedded := activeRouteFlight()
	embedded.LiveData = &models.LiveTelemetry{Latitude: 50, Longitude: 0}
	bare := activeRouteFlight()

	live := &mockLiveSource{
		getLivePositionFunc: func(ctx context.Context, icao24 string) *models.LiveTelemetry { return nil },
	}
	svc := NewTrackFlightService(streamOf(embedded, bare), live, nil)

	got := collect(t, svc.Execute(context.Background(), embedded.ID, strPtr("4248d3")))
	if len(got) != 2 {
		t.Fatalf("Expected 2 emissions, got %d", len(got))
	}
	if got[0].LiveData == nil || got[0].LiveData.Latitude != 50 {
		t.Errorf("Expected embedded live data, got %+v", got[0].LiveData)
	}
	if got[1].LiveData == nil || got[1].LiveData.Altitude != 10668 {
		t.Errorf("Expected estimated position, got %+v", got[1].LiveData)
	}
}

func TestTrackFlight_WithoutICAO24SkipsLiveLookup(t *testing.T) {
	var calls atomic.Int32
	live := &mockLiveSource{
		getLivePositionFunc: func(ctx context.Context, icao24 string) *models.LiveTelemetry {
			calls.Add(1)
			return nil
		},
	}
	f := activeRouteFlight()
	f.Status = models.FlightStatusScheduled
	svc := NewTrackFlightService(streamOf(f), live, nil)

	got := collect(t, svc.Execute(context.Background(), f.ID, nil))
	if len(got) != 1 {
		t.Fatalf("Expected 1 emission, got %d", len(got))
	}
	if got[0].LiveData != nil {
		t.Errorf("Expected no position for a scheduled flight, got %+v", got[0].LiveData)
	}
	if calls.Load() != 0 {
		t.Errorf("Expected no live lookups, got %d", calls.Load())
	}
}

func TestTrackFlight_EqualTelemetryKeepsOriginal(t *testing.T) {
	f := activeRouteFlight()
	f.LiveData = &models.LiveTelemetry{Latitude: 50, Longitude: 0}
	same := *f.LiveData

	live := &mockLiveSource{
		getLivePositionFunc: func(ctx context.Context, icao24 string) *models.LiveTelemetry { return &same },
	}
	svc := NewTrackFlightService(streamOf(f), live, nil)

	got := collect(t, svc.Execute(context.Background(), f.ID, strPtr("abc123")))
	if len(got) != 1 {
		t.Fatalf("Expected 1 emission, got %d", len(got))
	}
	if got[0].LiveData != f.LiveData {
		t.Error("Expected the original flight value to be re-emitted")
	}
}
