package workers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"skypulse/flightcore/internal/db/repositories"
	"skypulse/flightcore/internal/logging"
)

// ExpiredPurger is the slice of the cache store the purge worker needs.
type ExpiredPurger interface {
	PurgeExpired(ctx context.Context, kind repositories.CacheKind, olderThanHours int) (int64, error)
}

// CachePurgeWorker drops cached flights and airports past their horizon.
type CachePurgeWorker struct {
	store        ExpiredPurger
	flightHours  int
	airportHours int
	log          *zap.SugaredLogger
}

func NewCachePurgeWorker(store ExpiredPurger, flightHours, airportHours int) *CachePurgeWorker {
	return &CachePurgeWorker{
		store:        store,
		flightHours:  flightHours,
		airportHours: airportHours,
		log:          logging.With("worker", "cache_purge"),
	}
}

// Start purges immediately, then on every tick until ctx is done.
func (w *CachePurgeWorker) Start(ctx context.Context, interval time.Duration) {
	w.log.Infow("Cache purge worker started", "interval", interval.String())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Cache purge worker shutting down")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce purges both kinds; a failure on one does not skip the other.
func (w *CachePurgeWorker) RunOnce(ctx context.Context) {
	w.purge(ctx, repositories.CacheKindFlights, w.flightHours)
	w.purge(ctx, repositories.CacheKindAirports, w.airportHours)
}

func (w *CachePurgeWorker) purge(ctx context.Context, kind repositories.CacheKind, hours int) {
	removed, err := w.store.PurgeExpired(ctx, kind, hours)
	if err != nil {
		w.log.Errorw("Cache purge failed", "kind", kind, "error", err)
		return
	}
	if removed > 0 {
		w.log.Infow("Purged expired cache rows", "kind", kind, "removed", removed, "older_than_hours", hours)
	}
}
