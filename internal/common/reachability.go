package common

import (
	"context"
	"net/http"
	"sync"
	"time"

	"skypulse/flightcore/internal/logging"
)

// Reachability reports whether the network is usable.
type Reachability interface {
	IsReachable() bool
	// Changes delivers each distinct value after the current one.
	Changes() <-chan bool
}

// ReachabilityService checks a URL with HEAD on an interval. Any HTTP
// answer counts as reachable; only transport failures mark it offline.
type ReachabilityService struct {
	checkURL string
	interval time.Duration
	client   *http.Client

	mu          sync.RWMutex
	reachable   bool
	subscribers []chan bool

	cancel context.CancelFunc
	done   chan struct{}
}

var _ Reachability = (*ReachabilityService)(nil)

// NewReachabilityService starts optimistic: the first check corrects it.
func NewReachabilityService(checkURL string, interval time.Duration) *ReachabilityService {
	return &ReachabilityService{
		checkURL:  checkURL,
		interval:  interval,
		client:    &http.Client{Timeout: 5 * time.Second},
		reachable: true,
	}
}

func (r *ReachabilityService) IsReachable() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.reachable
}

func (r *ReachabilityService) Changes() <-chan bool {
	ch := make(chan bool, 1)
	r.mu.Lock()
	r.subscribers = append(r.subscribers, ch)
	r.mu.Unlock()
	return ch
}

// Start runs the check loop until Stop or ctx is cancelled.
func (r *ReachabilityService) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		r.set(r.check(ctx))
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.set(r.check(ctx))
			}
		}
	}()

	logging.Info("Reachability check started", "url", r.checkURL, "interval", r.interval.String())
}

func (r *ReachabilityService) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}

func (r *ReachabilityService) check(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, r.checkURL, nil)
	if err != nil {
		return false
	}
	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			logging.Debug("Reachability check failed", "url", r.checkURL, "error", err)
		}
		return false
	}
	resp.Body.Close()
	return true
}

func (r *ReachabilityService) set(reachable bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.reachable == reachable {
		return
	}
	r.reachable = reachable
	logging.Info("Network reachability changed", "reachable", reachable)

	for _, ch := range r.subscribers {
		// drop a stale unread value so the latest one wins
		select {
		case <-ch:
		default:
		}
		ch <- reachable
	}
}

// StaticReachability is a fixed value, for tests and forced-offline runs.
type StaticReachability struct {
	mu        sync.RWMutex
	reachable bool
	changes   chan bool
}

var _ Reachability = (*StaticReachability)(nil)

func NewStaticReachability(reachable bool) *StaticReachability {
	return &StaticReachability{reachable: reachable, changes: make(chan bool, 1)}
}

func (s *StaticReachability) IsReachable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reachable
}

func (s *StaticReachability) Changes() <-chan bool {
	return s.changes
}

// Set flips the value, emitting only on change.
func (s *StaticReachability) Set(reachable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reachable == reachable {
		return
	}
	s.reachable = reachable
	select {
	case <-s.changes:
	default:
	}
	s.changes <- reachable
}
