package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	gormlib "gorm.io/gorm"

	"skypulse/flightcore/internal/logging"
	"skypulse/flightcore/internal/metrics"
	"skypulse/flightcore/internal/models"
)

// CacheKind names a purgeable cache table.
type CacheKind string

const (
	CacheKindFlights  CacheKind = "flights"
	CacheKindAirports CacheKind = "airports"
)

var ErrStoreClosed = errors.New("cache store is closed")

// CacheStore is the persistent cache of flights and airports plus the
// user's favorites and search history. Flight and airport writes are
// queued and applied in order by a single writer; reads never wait for them.
type CacheStore interface {
	PutFlights(flights []models.Flight)
	GetFlights(ctx context.Context, params models.FlightSearchParams) ([]models.Flight, error)
	GetFlight(ctx context.Context, id string) (*models.Flight, error)
	GetFlightsByIDs(ctx context.Context, ids []string) ([]models.Flight, error)

	PutAirports(airports []models.Airport)
	GetAirports(ctx context.Context, query string) ([]models.Airport, error)
	GetAirport(ctx context.Context, iata string) (*models.Airport, error)

	PurgeExpired(ctx context.Context, kind CacheKind, olderThanHours int) (int64, error)
	Counts(ctx context.Context) (CacheCounts, error)

	AddFavorite(ctx context.Context, flightID string, notificationsEnabled bool) error
	RemoveFavorite(ctx context.Context, flightID string) error
	ListFavorites(ctx context.Context) ([]models.Favorite, error)
	IsFavorite(ctx context.Context, flightID string) (bool, error)

	SaveSearch(ctx context.Context, q models.SearchQuery) error
	RecentSearches(ctx context.Context, limit int) ([]models.SearchQuery, error)
	ClearSearchHistory(ctx context.Context) error

	// Flush blocks until every write queued before the call is applied.
	Flush(ctx context.Context) error
	Close() error
}

type writeOp struct {
	flights  []models.Flight
	airports []models.Airport
	barrier  chan struct{}
}

// SQLCacheStore keeps flights and airports in GORM tables and favorites and
// search history in sqlx-managed tables of the same database.
type SQLCacheStore struct {
	flights   *FlightRepository
	airports  *AirportRepository
	favorites *FavoritesRepo
	history   *SearchHistoryRepo

	maxSearchHistory int
	writeTimeout     time.Duration
	metrics          *metrics.MetricsRegistry
	now              func() time.Time

	ops       chan writeOp
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

var _ CacheStore = (*SQLCacheStore)(nil)

type CacheStoreOptions struct {
	MaxSearchHistory int
	QueueSize        int
	Metrics          *metrics.MetricsRegistry
}

// NewSQLCacheStore starts the writer goroutine; Close stops it.
func NewSQLCacheStore(orm *gormlib.DB, sqlxDB *sqlx.DB, opts CacheStoreOptions) *SQLCacheStore {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 64
	}
	if opts.MaxSearchHistory <= 0 {
		opts.MaxSearchHistory = 20
	}

	s := &SQLCacheStore{
		flights:          NewFlightRepository(orm),
		airports:         NewAirportRepository(orm),
		favorites:        NewFavoritesRepo(sqlxDB),
		history:          NewSearchHistoryRepo(sqlxDB),
		maxSearchHistory: opts.MaxSearchHistory,
		writeTimeout:     10 * time.Second,
		metrics:          opts.Metrics,
		now:              time.Now,
		ops:              make(chan writeOp, opts.QueueSize),
		quit:             make(chan struct{}),
		done:             make(chan struct{}),
	}

	go s.writer()
	return s
}

func (s *SQLCacheStore) writer() {
	defer close(s.done)
	for {
		select {
		case op := <-s.ops:
			s.apply(op)
		case <-s.quit:
			// drain what was queued before Close
			for {
				select {
				case op := <-s.ops:
					s.apply(op)
				default:
					return
				}
			}
		}
	}
}

func (s *SQLCacheStore) apply(op writeOp) {
	if op.barrier != nil {
		close(op.barrier)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()
	cachedAt := s.now().UTC()

	if len(op.flights) > 0 {
		if err := s.flights.Upsert(ctx, op.flights, cachedAt); err != nil {
			s.writeFailed("flight", len(op.flights), err)
		}
	}
	if len(op.airports) > 0 {
		if err := s.airports.Upsert(ctx, op.airports, cachedAt); err != nil {
			s.writeFailed("airport", len(op.airports), err)
		}
	}
}

func (s *SQLCacheStore) writeFailed(entity string, count int, err error) {
	logging.Error("Cache write failed", "entity", entity, "count", count, "error", err)
	if s.metrics != nil {
		s.metrics.CacheWriteFailures.WithLabelValues(entity).Inc()
	}
}

// enqueue never blocks: cache writes are best effort and a full queue drops the batch.
func (s *SQLCacheStore) enqueue(op writeOp) {
	select {
	case <-s.quit:
		return
	default:
	}

	select {
	case s.ops <- op:
	default:
		s.writeFailed("queue", len(op.flights)+len(op.airports), errors.New("write queue full"))
	}
}

func (s *SQLCacheStore) PutFlights(flights []models.Flight) {
	if len(flights) == 0 {
		return
	}
	batch := make([]models.Flight, len(flights))
	copy(batch, flights)
	s.enqueue(writeOp{flights: batch})
}

func (s *SQLCacheStore) PutAirports(airports []models.Airport) {
	if len(airports) == 0 {
		return
	}
	batch := make([]models.Airport, len(airports))
	copy(batch, airports)
	s.enqueue(writeOp{airports: batch})
}

func (s *SQLCacheStore) Flush(ctx context.Context) error {
	select {
	case <-s.quit:
		return ErrStoreClosed
	default:
	}

	barrier := make(chan struct{})
	select {
	case s.ops <- writeOp{barrier: barrier}:
	case <-s.quit:
		return ErrStoreClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-barrier:
		return nil
	case <-s.done:
		// the writer may have exited before reaching the barrier
		select {
		case <-barrier:
			return nil
		default:
			return ErrStoreClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close applies queued writes and stops the writer.
func (s *SQLCacheStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.quit)
	})
	<-s.done
	return nil
}

func (s *SQLCacheStore) GetFlights(ctx context.Context, params models.FlightSearchParams) ([]models.Flight, error) {
	flights, err := s.flights.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached flights: %w", err)
	}
	return flights, nil
}

func (s *SQLCacheStore) GetFlight(ctx context.Context, id string) (*models.Flight, error) {
	f, err := s.flights.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached flight %s: %w", id, err)
	}
	return f, nil
}

func (s *SQLCacheStore) GetFlightsByIDs(ctx context.Context, ids []string) ([]models.Flight, error) {
	flights, err := s.flights.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached flights: %w", err)
	}
	return flights, nil
}

func (s *SQLCacheStore) GetAirports(ctx context.Context, query string) ([]models.Airport, error) {
	airports, err := s.airports.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached airports: %w", err)
	}
	return airports, nil
}

func (s *SQLCacheStore) GetAirport(ctx context.Context, iata string) (*models.Airport, error) {
	a, err := s.airports.FindByIATA(ctx, iata)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached airport %s: %w", iata, err)
	}
	return a, nil
}

// PurgeExpired deletes rows of kind cached more than olderThanHours ago.
func (s *SQLCacheStore) PurgeExpired(ctx context.Context, kind CacheKind, olderThanHours int) (int64, error) {
	cutoff := s.now().UTC().Add(-time.Duration(olderThanHours) * time.Hour)

	switch kind {
	case CacheKindFlights:
		return s.flights.DeleteCachedBefore(ctx, cutoff)
	case CacheKindAirports:
		return s.airports.DeleteCachedBefore(ctx, cutoff)
	default:
		return 0, fmt.Errorf("unknown cache kind %q", kind)
	}
}

// CacheCounts is the number of cached rows per kind.
type CacheCounts struct {
	Flights  int64
	Airports int64
}

func (s *SQLCacheStore) Counts(ctx context.Context) (CacheCounts, error) {
	flights, err := s.flights.Count(ctx)
	if err != nil {
		return CacheCounts{}, fmt.Errorf("failed to count cached flights: %w", err)
	}
	airports, err := s.airports.Count(ctx)
	if err != nil {
		return CacheCounts{}, fmt.Errorf("failed to count cached airports: %w", err)
	}
	return CacheCounts{Flights: flights, Airports: airports}, nil
}

func (s *SQLCacheStore) AddFavorite(ctx context.Context, flightID string, notificationsEnabled bool) error {
	return s.favorites.Add(ctx, flightID, notificationsEnabled, s.now())
}

func (s *SQLCacheStore) RemoveFavorite(ctx context.Context, flightID string) error {
	return s.favorites.Remove(ctx, flightID)
}

func (s *SQLCacheStore) ListFavorites(ctx context.Context) ([]models.Favorite, error) {
	return s.favorites.List(ctx)
}

func (s *SQLCacheStore) IsFavorite(ctx context.Context, flightID string) (bool, error) {
	return s.favorites.Exists(ctx, flightID)
}

func (s *SQLCacheStore) SaveSearch(ctx context.Context, q models.SearchQuery) error {
	return s.history.Save(ctx, q, s.maxSearchHistory)
}

func (s *SQLCacheStore) RecentSearches(ctx context.Context, limit int) ([]models.SearchQuery, error) {
	return s.history.Recent(ctx, limit)
}

func (s *SQLCacheStore) ClearSearchHistory(ctx context.Context) error {
	return s.history.Clear(ctx)
}
