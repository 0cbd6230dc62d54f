package workers

import (
	"context"

	"skypulse/flightcore/internal/common"
	"skypulse/flightcore/internal/config"
	"skypulse/flightcore/internal/db/repositories"
	"skypulse/flightcore/internal/metrics"
	"skypulse/flightcore/internal/services"
)

type WorkersContainer struct {
	StatusMonitor *StatusMonitor
	CachePurge    *CachePurgeWorker
}

// InitWorkers builds the background workers and starts the ones that run
// for the whole process lifetime. The status monitor polls only while
// flights are tracked.
func InitWorkers(
	ctx context.Context,
	cfg *config.Config,
	store repositories.CacheStore,
	details services.FlightDetailSource,
	notifier common.NotificationDispatcher,
	m *metrics.MetricsRegistry,
) *WorkersContainer {
	monitor := NewStatusMonitor(details, notifier, StatusMonitorOptions{
		PollInterval: cfg.MonitorPollInterval(),
		Concurrency:  cfg.Monitor.Concurrency,
		CheckTimeout: cfg.ResourceTimeout(),
		Metrics:      m,
	})

	purge := NewCachePurgeWorker(store, cfg.Cache.FlightHours, cfg.Cache.AirportHours)
	go purge.Start(ctx, cfg.PurgeInterval())

	return &WorkersContainer{
		StatusMonitor: monitor,
		CachePurge:    purge,
	}
}

// Shutdown stops every polling loop.
func (w *WorkersContainer) Shutdown() {
	w.StatusMonitor.StopAll()
}
