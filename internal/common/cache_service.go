package common

import (
	"time"

	"github.com/patrickmn/go-cache"

	"skypulse/flightcore/internal/metrics"
)

// CacheService is the in-process CacheInterface backed by go-cache.
// It is the default for single-instance deployments and tests.
type CacheService struct {
	cache   *cache.Cache
	name    string
	metrics *metrics.MetricsRegistry
}

// Ensure CacheService implements CacheInterface
var _ CacheInterface = (*CacheService)(nil)

func NewCacheService(name string, defaultExpiration, cleanUpInterval time.Duration, m *metrics.MetricsRegistry) *CacheService {
	return &CacheService{
		cache:   cache.New(defaultExpiration, cleanUpInterval),
		name:    name,
		metrics: m,
	}
}

func (cs *CacheService) Set(key string, value interface{}, duration time.Duration) {
	cs.cache.Set(key, value, duration)
}

func (cs *CacheService) Get(key string) (interface{}, bool) {
	val, found := cs.cache.Get(key)
	if cs.metrics != nil {
		if found {
			cs.metrics.CacheHitsTotal.WithLabelValues(cs.name).Inc()
		} else {
			cs.metrics.CacheMissesTotal.WithLabelValues(cs.name).Inc()
		}
	}
	return val, found
}

func (cs *CacheService) Delete(key string) {
	cs.cache.Delete(key)
}

func (cs *CacheService) GetOrSet(
	key string,
	duration time.Duration,
	loader func() (any, error)) (interface{}, error) {
	if val, found := cs.Get(key); found {
		return val, nil
	}

	val, err := loader()
	if err != nil {
		return nil, err
	}

	cs.Set(key, val, duration)
	return val, nil
}

// Flush drops every entry.
func (cs *CacheService) Flush() {
	cs.cache.Flush()
}

// Close closes the cache (no-op for in-memory cache)
func (cs *CacheService) Close() error {
	return nil
}
