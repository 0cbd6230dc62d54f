package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"

	"skypulse/flightcore/internal/models"
	"skypulse/flightcore/internal/models/gorm"
)

// AirportRepository handles airport table operations
type AirportRepository struct {
	db *gormlib.DB
}

// NewAirportRepository creates a new airport repository
func NewAirportRepository(db *gormlib.DB) *AirportRepository {
	return &AirportRepository{db: db}
}

// FindByIATA finds an airport by IATA code (case-insensitive)
func (r *AirportRepository) FindByIATA(ctx context.Context, iata string) (*models.Airport, error) {
	var row gorm.Airport

	err := r.db.WithContext(ctx).
		Where("UPPER(iata) = UPPER(?)", iata).
		First(&row).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	airport := rowToAirport(row)
	return &airport, nil
}

// Search matches query as a substring of IATA, name or city.
func (r *AirportRepository) Search(ctx context.Context, query string) ([]models.Airport, error) {
	pattern := "%" + strings.ToUpper(strings.TrimSpace(query)) + "%"

	var rows []gorm.Airport
	err := r.db.WithContext(ctx).
		Where("UPPER(iata) LIKE ? OR UPPER(name) LIKE ? OR UPPER(city) LIKE ?", pattern, pattern, pattern).
		Order("iata ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	airports := make([]models.Airport, 0, len(rows))
	for _, row := range rows {
		airports = append(airports, rowToAirport(row))
	}
	return airports, nil
}

// Upsert inserts or replaces airports keyed by IATA
func (r *AirportRepository) Upsert(ctx context.Context, airports []models.Airport, cachedAt time.Time) error {
	if len(airports) == 0 {
		return nil
	}

	rows := make([]gorm.Airport, 0, len(airports))
	for _, a := range airports {
		rows = append(rows, airportToRow(a, cachedAt))
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "iata"}},
			UpdateAll: true,
		}).
		CreateInBatches(rows, 100).Error
}

// DeleteCachedBefore removes rows cached before cutoff
func (r *AirportRepository) DeleteCachedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("cached_at < ?", cutoff).
		Delete(&gorm.Airport{})
	return res.RowsAffected, res.Error
}

// Count returns total number of airports
func (r *AirportRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gorm.Airport{}).Count(&count).Error
	return count, err
}
