package services

import (
	"context"
	"math"
	"strings"
	"time"

	"skypulse/flightcore/internal/metrics"
	"skypulse/flightcore/internal/models"
)

// Estimated positions assume cruise: about 35,000 ft at about 450 kt.
const (
	estimatedCruiseAltitude = 10668.0
	estimatedCruiseSpeed    = 230.0
)

// LivePositionSource looks up a live state vector by transponder address.
type LivePositionSource interface {
	GetLivePosition(ctx context.Context, icao24 string) *models.LiveTelemetry
}

// TrackFlightService merges the flight detail stream with the best
// available position: OpenSky, then the schedule provider's live block,
// then an estimate from the route and elapsed time.
type TrackFlightService struct {
	details FlightDetailSource
	live    LivePositionSource
	metrics *metrics.MetricsRegistry
	now     func() time.Time
}

func NewTrackFlightService(details FlightDetailSource, live LivePositionSource, m *metrics.MetricsRegistry) *TrackFlightService {
	return &TrackFlightService{
		details: details,
		live:    live,
		metrics: m,
		now:     time.Now,
	}
}

// Execute emits one value per detail emission. When icao24 is set, the
// live lookup runs once, concurrently with the detail stream, and every
// detail value is combined with its result.
func (s *TrackFlightService) Execute(ctx context.Context, flightID string, icao24 *string) <-chan models.Flight {
	out := make(chan models.Flight, 2)
	details := s.details.GetFlightDetail(ctx, flightID)

	var liveDone chan struct{}
	var live *models.LiveTelemetry
	if icao24 != nil && strings.TrimSpace(*icao24) != "" {
		liveDone = make(chan struct{})
		code := strings.ToLower(strings.TrimSpace(*icao24))
		go func() {
			defer close(liveDone)
			live = s.live.GetLivePosition(ctx, code)
		}()
	}

	go func() {
		defer close(out)
		for f := range details {
			if liveDone != nil {
				select {
				case <-liveDone:
				case <-ctx.Done():
					return
				}
			}
			if !emit(ctx, out, s.reconcile(f, live)) {
				return
			}
		}
	}()

	return out
}

func (s *TrackFlightService) reconcile(f models.Flight, live *models.LiveTelemetry) models.Flight {
	resolved := live
	if resolved == nil {
		resolved = f.LiveData
	}
	if resolved == nil {
		resolved = EstimatePosition(f, s.now())
		if resolved != nil && s.metrics != nil {
			s.metrics.PositionsEstimated.Inc()
		}
	}

	if resolved.Equal(f.LiveData) {
		return f
	}
	updated := f
	updated.LiveData = resolved
	return updated
}

// EstimatePosition interpolates between the airports by flight progress.
// It returns nil unless the flight is active and both airports have coordinates.
func EstimatePosition(f models.Flight, now time.Time) *models.LiveTelemetry {
	if f.Status != models.FlightStatusActive {
		return nil
	}
	dep, arr := f.Departure.Airport, f.Arrival.Airport
	if !dep.HasCoordinates() || !arr.HasCoordinates() {
		return nil
	}

	p := f.Progress(now)
	return &models.LiveTelemetry{
		Latitude:     dep.Latitude + (arr.Latitude-dep.Latitude)*p,
		Longitude:    dep.Longitude + (arr.Longitude-dep.Longitude)*p,
		Altitude:     estimatedCruiseAltitude,
		Speed:        estimatedCruiseSpeed,
		Heading:      InitialBearing(dep.Latitude, dep.Longitude, arr.Latitude, arr.Longitude),
		VerticalRate: 0,
		OnGround:     false,
		UpdatedAt:    now,
	}
}

// InitialBearing is the great-circle course from the first point to the
// second, in degrees within [0, 360).
func InitialBearing(lat1, lon1, lat2, lon2 float64) float64 {
	dLon := (lon2 - lon1) * math.Pi / 180
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLon)
	return math.Mod(math.Atan2(y, x)*180/math.Pi+360, 360)
}
