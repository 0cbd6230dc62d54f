package services

import (
	"context"
	"strings"
	"time"

	"skypulse/flightcore/internal/common"
	"skypulse/flightcore/internal/constants"
	"skypulse/flightcore/internal/db/repositories"
	"skypulse/flightcore/internal/logging"
	"skypulse/flightcore/internal/metrics"
	"skypulse/flightcore/internal/models"
	"skypulse/flightcore/internal/providers"
)

// FlightDetailSource is the part of FlightService the tracker and the
// status monitor depend on.
type FlightDetailSource interface {
	GetFlightDetail(ctx context.Context, id string) <-chan models.Flight
}

type FlightServiceOptions struct {
	UseMockData     bool
	LivePositionTTL time.Duration
	RefreshTimeout  time.Duration
	Metrics         *metrics.MetricsRegistry
}

// FlightService decides where flight data comes from: offline dataset,
// persistent cache or the schedule provider. It is the only writer of the
// flight cache.
type FlightService struct {
	schedule     providers.ScheduleProvider
	telemetry    providers.TelemetryProvider
	store        repositories.CacheStore
	offline      *common.OfflineDataset
	reachability common.Reachability
	resolver     *AirportResolver
	liveCache    common.CacheInterface

	useMockData    bool
	liveTTL        time.Duration
	refreshTimeout time.Duration
	metrics        *metrics.MetricsRegistry
	now            func() time.Time
}

var _ FlightDetailSource = (*FlightService)(nil)

func NewFlightService(
	schedule providers.ScheduleProvider,
	telemetry providers.TelemetryProvider,
	store repositories.CacheStore,
	offline *common.OfflineDataset,
	reachability common.Reachability,
	resolver *AirportResolver,
	liveCache common.CacheInterface,
	opts FlightServiceOptions,
) *FlightService {
	if opts.LivePositionTTL <= 0 {
		opts.LivePositionTTL = constants.DefaultLivePositionInterval
	}
	if opts.RefreshTimeout <= 0 {
		opts.RefreshTimeout = constants.DefaultRequestTimeout
	}
	return &FlightService{
		schedule:       schedule,
		telemetry:      telemetry,
		store:          store,
		offline:        offline,
		reachability:   reachability,
		resolver:       resolver,
		liveCache:      liveCache,
		useMockData:    opts.UseMockData,
		liveTTL:        opts.LivePositionTTL,
		refreshTimeout: opts.RefreshTimeout,
		metrics:        opts.Metrics,
		now:            time.Now,
	}
}

// FetchFlights returns flights matching params. Errors are always
// *constants.AppError and only surface when no cached data can stand in.
func (s *FlightService) FetchFlights(ctx context.Context, params models.FlightSearchParams) ([]models.Flight, error) {
	if s.useMockData {
		s.fallback("offline", "mock")
		return s.offline.SearchFlights(params), nil
	}

	if !s.reachability.IsReachable() {
		cached := s.cachedFlights(ctx, params)
		if len(cached) > 0 {
			s.fallback("cache", "offline")
			return cached, nil
		}
		s.fallback("offline", "offline")
		return s.offline.SearchFlights(params), nil
	}

	records, err := s.schedule.SearchFlights(ctx, params)
	if err != nil {
		appErr := constants.AsAppError(err)
		cached := s.cachedFlights(ctx, params)
		if len(cached) > 0 {
			logging.Warn("Schedule provider failed, serving cache",
				"code", appErr.Code,
				"cached", len(cached),
				"error", err)
			s.fallback("cache", string(appErr.Code))
			return cached, nil
		}
		return nil, appErr
	}

	now := s.now()
	flights := make([]models.Flight, 0, len(records))
	for _, rec := range records {
		if f, ok := rec.ToDomain(now); ok {
			flights = append(flights, f)
		}
	}

	// queued before returning; applied by the store's writer
	s.store.PutFlights(flights)
	return flights, nil
}

func (s *FlightService) cachedFlights(ctx context.Context, params models.FlightSearchParams) []models.Flight {
	cached, err := s.store.GetFlights(ctx, params)
	if err != nil {
		logStoreReadError("Failed to read flight cache", err)
		return nil
	}
	return cached
}

// logStoreReadError keeps reads aborted by the caller out of the error log.
func logStoreReadError(msg string, err error, kv ...interface{}) {
	kv = append(kv, "error", err)
	if constants.IsCancelled(err) {
		logging.Debug(msg, kv...)
		return
	}
	logging.Error(msg, kv...)
}

// GetFlightDetail emits the cached flight (if any), then the refreshed and
// airport-enriched flight (if the network has it). The channel closes after
// at most two values.
func (s *FlightService) GetFlightDetail(ctx context.Context, id string) <-chan models.Flight {
	out := make(chan models.Flight, 2)

	go func() {
		defer close(out)

		cached, err := s.store.GetFlight(ctx, id)
		if err != nil {
			logStoreReadError("Failed to read cached flight", err, "flight_id", id)
		}
		if cached != nil {
			if !emit(ctx, out, *cached) {
				return
			}
		} else if ctx.Err() != nil {
			return
		}

		number := models.FlightNumberFromID(id)
		if number == "" {
			return
		}

		// A consumer that stops after the cached value must not abort the
		// refresh, otherwise the cache never learns about newer data.
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.refreshTimeout)
		defer cancel()

		flights, err := s.FetchFlights(refreshCtx, models.ByFlightNumber(number))
		if err != nil {
			logging.Debug("Flight detail refresh failed", "flight_id", id, "error", err)
			return
		}
		if ctx.Err() != nil {
			return
		}

		for _, f := range flights {
			if f.ID != id {
				continue
			}
			emit(ctx, out, s.enrich(ctx, f))
			return
		}
	}()

	return out
}

// enrich fills missing endpoint coordinates. Without network access only
// the bundled airports are consulted.
func (s *FlightService) enrich(ctx context.Context, f models.Flight) models.Flight {
	if !s.useMockData && s.reachability.IsReachable() {
		return s.resolver.EnrichFlight(ctx, f)
	}

	for _, ap := range []*models.Airport{&f.Departure.Airport, &f.Arrival.Airport} {
		if ap.HasCoordinates() {
			continue
		}
		if known, ok := s.offline.Airport(ap.IATA); ok && known.HasCoordinates() {
			ap.Latitude, ap.Longitude = known.Latitude, known.Longitude
		}
	}
	return f
}

func emit(ctx context.Context, out chan<- models.Flight, f models.Flight) bool {
	select {
	case out <- f:
		return true
	case <-ctx.Done():
		return false
	}
}

// GetLivePosition returns the aircraft's current state vector, or nil when
// the provider has none or fails. Results are reused for the live TTL.
func (s *FlightService) GetLivePosition(ctx context.Context, icao24 string) *models.LiveTelemetry {
	code := strings.ToLower(strings.TrimSpace(icao24))
	if code == "" {
		return nil
	}

	if s.useMockData {
		pos, _ := s.offline.Position(code)
		return pos
	}

	key := string(constants.CachePrefixLivePosition) + code
	if cached, ok := common.GetTyped[models.LiveTelemetry](s.liveCache, key); ok {
		return &cached
	}

	pos, err := providers.FetchLiveState(ctx, s.telemetry, code, s.now())
	if err != nil {
		logging.Warn("Live position lookup failed", "icao24", code, "error", err)
		return nil
	}
	if pos == nil {
		return nil
	}

	s.liveCache.Set(key, *pos, s.liveTTL)
	return pos
}

func (s *FlightService) fallback(source, reason string) {
	if s.metrics != nil {
		s.metrics.FallbacksTotal.WithLabelValues(source, reason).Inc()
	}
}
