package repositories

import (
	"context"
	"errors"
	"time"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"

	"skypulse/flightcore/internal/models"
	"skypulse/flightcore/internal/models/gorm"
)

// FlightRepository handles the cached flights table
type FlightRepository struct {
	db *gormlib.DB
}

func NewFlightRepository(db *gormlib.DB) *FlightRepository {
	return &FlightRepository{db: db}
}

// Upsert writes flights keyed by id; a newer record replaces the older one.
func (r *FlightRepository) Upsert(ctx context.Context, flights []models.Flight, cachedAt time.Time) error {
	if len(flights) == 0 {
		return nil
	}

	rows := make([]gorm.Flight, 0, len(flights))
	for _, f := range flights {
		rows = append(rows, flightToRow(f, cachedAt))
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		CreateInBatches(rows, 100).Error
}

// Search applies every non-nil filter, ordered by scheduled departure.
func (r *FlightRepository) Search(ctx context.Context, params models.FlightSearchParams) ([]models.Flight, error) {
	q := r.db.WithContext(ctx).Model(&gorm.Flight{})

	if params.FlightNumber != nil {
		q = q.Where("UPPER(flight_number) = UPPER(?)", *params.FlightNumber)
	}
	if params.DepartureIATA != nil {
		q = q.Where("UPPER(dep_iata) = UPPER(?)", *params.DepartureIATA)
	}
	if params.ArrivalIATA != nil {
		q = q.Where("UPPER(arr_iata) = UPPER(?)", *params.ArrivalIATA)
	}
	if params.AirlineIATA != nil {
		q = q.Where("UPPER(airline_iata) = UPPER(?)", *params.AirlineIATA)
	}
	if params.Status != nil {
		q = q.Where("status = ?", string(*params.Status))
	}
	if params.Date != nil {
		q = q.Where("id LIKE ?", "%"+models.FlightIDDateSuffix(*params.Date))
	}

	var rows []gorm.Flight
	if err := q.Order("dep_scheduled ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	flights := make([]models.Flight, 0, len(rows))
	for _, row := range rows {
		flights = append(flights, rowToFlight(row))
	}
	return flights, nil
}

// FindByID returns nil, nil when the flight is not cached.
func (r *FlightRepository) FindByID(ctx context.Context, id string) (*models.Flight, error) {
	var row gorm.Flight

	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	f := rowToFlight(row)
	return &f, nil
}

// FindByIDs returns the cached subset of ids, in no particular order.
func (r *FlightRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Flight, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []gorm.Flight
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	flights := make([]models.Flight, 0, len(rows))
	for _, row := range rows {
		flights = append(flights, rowToFlight(row))
	}
	return flights, nil
}

// DeleteCachedBefore removes rows cached before cutoff
func (r *FlightRepository) DeleteCachedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("cached_at < ?", cutoff).
		Delete(&gorm.Flight{})
	return res.RowsAffected, res.Error
}

// Count returns total number of cached flights
func (r *FlightRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gorm.Flight{}).Count(&count).Error
	return count, err
}
