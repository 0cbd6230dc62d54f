package workers

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"skypulse/flightcore/internal/common"
	"skypulse/flightcore/internal/logging"
	"skypulse/flightcore/internal/metrics"
	"skypulse/flightcore/internal/models"
	"skypulse/flightcore/internal/services"
)

const subscriberBuffer = 16

type StatusMonitorOptions struct {
	PollInterval time.Duration
	Concurrency  int
	CheckTimeout time.Duration
	Metrics      *metrics.MetricsRegistry
}

// StatusMonitor polls tracked flights and reports status transitions.
// Polling runs only while at least one flight is tracked.
type StatusMonitor struct {
	details  services.FlightDetailSource
	notifier common.NotificationDispatcher
	interval time.Duration
	timeout  time.Duration
	sem      *semaphore.Weighted
	metrics  *metrics.MetricsRegistry
	now      func() time.Time

	mu       sync.Mutex
	flights  map[string]models.FlightStatus
	inFlight map[string]struct{}
	stop     context.CancelFunc
	subs    map[uint64]chan models.StatusChange
	nextSub uint64
}

func NewStatusMonitor(details services.FlightDetailSource, notifier common.NotificationDispatcher, opts StatusMonitorOptions) *StatusMonitor {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Minute
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 2
	}
	if opts.CheckTimeout <= 0 {
		opts.CheckTimeout = time.Minute
	}
	return &StatusMonitor{
		details:  details,
		notifier: notifier,
		interval: opts.PollInterval,
		timeout:  opts.CheckTimeout,
		sem:      semaphore.NewWeighted(int64(opts.Concurrency)),
		metrics:  opts.Metrics,
		now:      time.Now,
		flights:  make(map[string]models.FlightStatus),
		inFlight: make(map[string]struct{}),
		subs:     make(map[uint64]chan models.StatusChange),
	}
}

// StartMonitoring tracks flightID with its last known status. The first
// tracked flight starts the polling loop.
func (m *StatusMonitor) StartMonitoring(flightID string, status models.FlightStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.flights[flightID] = status
	m.setGauge()
	logging.Info("Monitoring started", "flight_id", flightID, "status", status)

	if m.stop == nil {
		ctx, cancel := context.WithCancel(context.Background())
		m.stop = cancel
		go m.run(ctx)
	}
}

// StopMonitoring untracks flightID; the loop stops with the last flight.
func (m *StatusMonitor) StopMonitoring(flightID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.flights, flightID)
	m.setGauge()
	logging.Info("Monitoring stopped", "flight_id", flightID)

	if len(m.flights) == 0 {
		m.stopLoopLocked()
	}
}

// StopAll untracks everything and cancels in-flight checks.
func (m *StatusMonitor) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.flights = make(map[string]models.FlightStatus)
	m.setGauge()
	m.stopLoopLocked()
	logging.Info("All monitoring stopped")
}

func (m *StatusMonitor) stopLoopLocked() {
	if m.stop != nil {
		m.stop()
		m.stop = nil
	}
}

// Tracked returns a snapshot of flight id to last known status.
func (m *StatusMonitor) Tracked() map[string]models.FlightStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]models.FlightStatus, len(m.flights))
	for id, st := range m.flights {
		out[id] = st
	}
	return out
}

// Subscribe returns a channel of status changes and a func that closes it.
// A subscriber that falls behind loses events rather than stalling the monitor.
func (m *StatusMonitor) Subscribe() (<-chan models.StatusChange, func()) {
	ch := make(chan models.StatusChange, subscriberBuffer)

	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
			close(ch)
		})
	}
}

func (m *StatusMonitor) run(ctx context.Context) {
	logging.Info("Status polling started", "interval", m.interval.String())

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.checkAll(ctx)
	for {
		select {
		case <-ctx.Done():
			logging.Info("Status polling stopped")
			return
		case <-ticker.C:
			m.checkAll(ctx)
		}
	}
}

// checkAll queues one check per tracked flight. A flight whose previous
// check is still queued or running is skipped, so a slow provider never
// stacks up more than one pending check per flight.
func (m *StatusMonitor) checkAll(ctx context.Context) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.flights))
	skipped := 0
	for id := range m.flights {
		if _, busy := m.inFlight[id]; busy {
			skipped++
			continue
		}
		m.inFlight[id] = struct{}{}
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for i := 0; i < skipped; i++ {
		m.countCheck("skipped")
	}
	if skipped > 0 {
		logging.Debug("Previous status checks still pending", "skipped", skipped)
	}

	for _, id := range ids {
		go func(id string) {
			defer m.done(id)
			if err := m.sem.Acquire(ctx, 1); err != nil {
				m.countCheck("cancelled")
				return
			}
			defer m.sem.Release(1)
			m.check(ctx, id)
		}(id)
	}
}

func (m *StatusMonitor) done(flightID string) {
	m.mu.Lock()
	delete(m.inFlight, flightID)
	m.mu.Unlock()
}

func (m *StatusMonitor) check(ctx context.Context, flightID string) {
	runCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var (
		flight models.Flight
		ok     bool
	)
	select {
	case flight, ok = <-m.details.GetFlightDetail(runCtx, flightID):
	case <-runCtx.Done():
	}

	if !ok {
		if ctx.Err() != nil {
			m.countCheck("cancelled")
			return
		}
		m.countCheck("failed")
		logging.Warn("Status check returned no flight", "flight_id", flightID)
		return
	}

	m.apply(ctx, flightID, flight.Status)
}

// apply records newStatus unless the run was cancelled or the flight was
// untracked meanwhile, and publishes exactly one change per transition.
func (m *StatusMonitor) apply(ctx context.Context, flightID string, newStatus models.FlightStatus) {
	m.mu.Lock()
	if ctx.Err() != nil {
		m.mu.Unlock()
		m.countCheck("cancelled")
		return
	}
	oldStatus, tracked := m.flights[flightID]
	if !tracked {
		m.mu.Unlock()
		m.countCheck("cancelled")
		return
	}
	if oldStatus == newStatus {
		m.mu.Unlock()
		m.countCheck("unchanged")
		return
	}

	m.flights[flightID] = newStatus
	change := models.NewStatusChange(flightID, oldStatus, newStatus, m.now())
	for _, ch := range m.subs {
		select {
		case ch <- change:
		default:
			logging.Warn("Dropping status change for slow subscriber", "flight_id", flightID)
		}
	}
	m.mu.Unlock()

	m.countCheck("changed")
	if m.metrics != nil {
		m.metrics.StatusChangesTotal.WithLabelValues(string(newStatus)).Inc()
	}
	logging.Info("Flight status changed",
		"flight_id", flightID,
		"old_status", oldStatus,
		"new_status", newStatus)

	if m.notifier != nil {
		m.notifier.Notify(ctx, flightID, oldStatus, newStatus)
	}
}

func (m *StatusMonitor) countCheck(outcome string) {
	if m.metrics != nil {
		m.metrics.MonitorChecksTotal.WithLabelValues(outcome).Inc()
	}
}

// setGauge must be called with mu held.
func (m *StatusMonitor) setGauge() {
	if m.metrics != nil {
		m.metrics.MonitoredFlights.Set(float64(len(m.flights)))
	}
}
