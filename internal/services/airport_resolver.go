package services

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"skypulse/flightcore/internal/logging"
	"skypulse/flightcore/internal/metrics"
	"skypulse/flightcore/internal/models"
	"skypulse/flightcore/internal/providers"
)

// AirportResolver fills in airport coordinates the schedule API leaves out
// of flight records. Successful lookups are memoised for the process lifetime.
type AirportResolver struct {
	provider providers.ScheduleProvider
	metrics  *metrics.MetricsRegistry

	mu    sync.Mutex
	memo  map[string]models.Airport
	group singleflight.Group
}

func NewAirportResolver(provider providers.ScheduleProvider, m *metrics.MetricsRegistry) *AirportResolver {
	return &AirportResolver{
		provider: provider,
		metrics:  m,
		memo:     make(map[string]models.Airport),
	}
}

// Resolve returns an airport with coordinates for iata, or fallback when
// none can be found. It never fails.
func (r *AirportResolver) Resolve(ctx context.Context, iata string, fallback models.Airport) models.Airport {
	code := strings.ToUpper(strings.TrimSpace(iata))
	if code == "" {
		return fallback
	}
	if fallback.HasCoordinates() {
		return fallback
	}

	if cached, ok := r.cached(code); ok {
		r.count("memo")
		return cached
	}

	// concurrent misses for the same code share one provider call
	v, _, _ := r.group.Do(code, func() (interface{}, error) {
		if cached, ok := r.cached(code); ok {
			return &cached, nil
		}
		airport := r.lookup(ctx, code)
		if airport != nil {
			r.mu.Lock()
			r.memo[code] = *airport
			r.mu.Unlock()
		}
		return airport, nil
	})

	if airport, _ := v.(*models.Airport); airport != nil {
		return *airport
	}
	return fallback
}

func (r *AirportResolver) cached(code string) (models.Airport, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.memo[code]
	return a, ok
}

func (r *AirportResolver) lookup(ctx context.Context, code string) *models.Airport {
	records, err := r.provider.SearchAirports(ctx, code)
	if err != nil {
		r.count("error")
		logging.Warn("Airport lookup failed", "iata", code, "error", err)
		return nil
	}

	for _, rec := range records {
		if rec.IATACode == nil || !strings.EqualFold(*rec.IATACode, code) {
			continue
		}
		airport, ok := rec.ToDomain()
		if !ok || !airport.HasCoordinates() {
			break
		}
		r.count("found")
		return &airport
	}

	r.count("miss")
	return nil
}

// EnrichFlight resolves both endpoints concurrently. The original value is
// returned when neither airport changed.
func (r *AirportResolver) EnrichFlight(ctx context.Context, f models.Flight) models.Flight {
	var dep, arr models.Airport

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		dep = r.Resolve(gctx, f.Departure.Airport.IATA, f.Departure.Airport)
		return nil
	})
	g.Go(func() error {
		arr = r.Resolve(gctx, f.Arrival.Airport.IATA, f.Arrival.Airport)
		return nil
	})
	_ = g.Wait()

	if sameCoordinates(dep, f.Departure.Airport) && sameCoordinates(arr, f.Arrival.Airport) {
		return f
	}

	enriched := f
	enriched.Departure.Airport = dep
	enriched.Arrival.Airport = arr
	return enriched
}

// Forget drops every memoised airport.
func (r *AirportResolver) Forget() {
	r.mu.Lock()
	r.memo = make(map[string]models.Airport)
	r.mu.Unlock()
}

func (r *AirportResolver) count(result string) {
	if r.metrics != nil {
		r.metrics.AirportLookupsTotal.WithLabelValues(result).Inc()
	}
}

func sameCoordinates(a, b models.Airport) bool {
	return a.Latitude == b.Latitude && a.Longitude == b.Longitude
}
