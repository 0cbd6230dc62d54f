package api

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"skypulse/flightcore/internal/auth"
	"skypulse/flightcore/internal/common"
	"skypulse/flightcore/internal/config"
	"skypulse/flightcore/internal/constants"
	"skypulse/flightcore/internal/db/repositories"
	"skypulse/flightcore/internal/logging"
	"skypulse/flightcore/internal/metrics"
	"skypulse/flightcore/internal/providers"
	"skypulse/flightcore/internal/services"
	"skypulse/flightcore/internal/workers"
)

type Repositories struct {
	Store repositories.CacheStore
}

type Services struct {
	Flights   *services.FlightService
	Track     *services.TrackFlightService
	Airports  *services.AirportService
	Favorites *services.FavoritesService
	Search    *services.SearchService
	Resolver  *services.AirportResolver

	LiveCache    common.CacheInterface
	Notifier     common.NotificationDispatcher
	Reachability common.Reachability
	Offline      *common.OfflineDataset
}

type Dependencies struct {
	Config   *config.Config
	Repo     *Repositories
	Services *Services
	Workers  *workers.WorkersContainer
	Metrics  *metrics.MetricsRegistry
	Signer   *auth.TokenSigner

	redis        *redis.Client
	reachability *common.ReachabilityService
}

// InitDependencies wires the flight core. Background loops
// (reachability, cache purge) run until ctx is cancelled or Close is called.
func InitDependencies(ctx context.Context, cfg *config.Config, orm *gorm.DB, sqlxDB *sqlx.DB, m *metrics.MetricsRegistry) (*Dependencies, error) {
	offline, err := common.LoadOfflineDataset(cfg.OfflineDatasetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load offline dataset: %w", err)
	}

	deps := &Dependencies{Config: cfg, Metrics: m}

	if cfg.Cache.Backend == "redis" || cfg.Notifier == "redis" {
		deps.redis = common.NewRedisClient(cfg.Redis)
	}

	var liveCache common.CacheInterface
	if cfg.Cache.Backend == "redis" {
		liveCache = common.NewRedisCacheService(deps.redis, "skypulse:", m)
	} else {
		ttl := cfg.LivePositionInterval()
		liveCache = common.NewCacheService("live_position", ttl, 2*ttl, m)
	}

	var notifier common.NotificationDispatcher
	if cfg.Notifier == "redis" {
		notifier = common.NewRedisStreamNotifier(deps.redis, constants.StatusChangeStream)
	} else {
		notifier = common.NewLogNotifier()
	}

	var reachability common.Reachability
	if cfg.UseMockData {
		reachability = common.NewStaticReachability(true)
	} else {
		deps.reachability = common.NewReachabilityService(cfg.Reachability.CheckURL, cfg.ReachabilityInterval())
		deps.reachability.Start(ctx)
		reachability = deps.reachability
	}

	store := repositories.NewSQLCacheStore(orm, sqlxDB, repositories.CacheStoreOptions{
		MaxSearchHistory: cfg.Cache.MaxSearchHistory,
		Metrics:          m,
	})

	schedule := providers.NewAviationStackProvider(cfg.AviationStack, cfg.RequestTimeout(), cfg.ResourceTimeout(), m)
	telemetry := providers.NewOpenSkyProvider(cfg.OpenSky.BaseURL, cfg.RequestTimeout(), cfg.ResourceTimeout(), m)

	resolver := services.NewAirportResolver(schedule, m)
	flights := services.NewFlightService(schedule, telemetry, store, offline, reachability, resolver, liveCache, services.FlightServiceOptions{
		UseMockData:     cfg.UseMockData,
		LivePositionTTL: cfg.LivePositionInterval(),
		RefreshTimeout:  cfg.ResourceTimeout(),
		Metrics:         m,
	})

	deps.Repo = &Repositories{Store: store}
	deps.Services = &Services{
		Flights:      flights,
		Track:        services.NewTrackFlightService(flights, flights, m),
		Airports:     services.NewAirportService(schedule, store, offline, reachability, cfg.UseMockData),
		Favorites:    services.NewFavoritesService(store),
		Search:       services.NewSearchService(flights, store, cfg.Cache.RecentSearchLimit),
		Resolver:     resolver,
		LiveCache:    liveCache,
		Notifier:     notifier,
		Reachability: reachability,
		Offline:      offline,
	}
	deps.Workers = workers.InitWorkers(ctx, cfg, store, flights, notifier, m)

	if cfg.Auth.JWTSecret != "" {
		deps.Signer = auth.NewTokenSigner([]byte(cfg.Auth.JWTSecret))
	} else {
		logging.Warn("API_JWT_SECRET not set, API is unauthenticated")
	}

	logging.Info("Dependencies initialized",
		"mock_data", cfg.UseMockData,
		"cache_backend", cfg.Cache.Backend,
		"notifier", cfg.Notifier)

	return deps, nil
}

// Close stops background work and drains pending cache writes.
func (d *Dependencies) Close() error {
	d.Workers.Shutdown()
	if d.reachability != nil {
		d.reachability.Stop()
	}

	var firstErr error
	if err := d.Repo.Store.Close(); err != nil {
		firstErr = err
	}
	if err := d.Services.LiveCache.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	// the redis cache owns the shared client and closed it above
	if d.redis != nil && d.Config.Cache.Backend != "redis" {
		if err := d.redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// RedisClient is nil unless a redis backend or notifier is configured.
func (d *Dependencies) RedisClient() *redis.Client {
	return d.redis
}
