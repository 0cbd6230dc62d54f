package repositories

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"skypulse/flightcore/internal/constants"
	"skypulse/flightcore/internal/models"
)

type FavoritesRepo struct {
	db *sqlx.DB
}

func NewFavoritesRepo(db *sqlx.DB) *FavoritesRepo {
	return &FavoritesRepo{db}
}

func (r *FavoritesRepo) Add(ctx context.Context, flightID string, notificationsEnabled bool, addedAt time.Time) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(constants.UpsertFavorite), flightID, addedAt.UTC(), notificationsEnabled)
	return err
}

func (r *FavoritesRepo) Remove(ctx context.Context, flightID string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(constants.DeleteFavorite), flightID)
	return err
}

// List is newest first.
func (r *FavoritesRepo) List(ctx context.Context) ([]models.Favorite, error) {
	favorites := []models.Favorite{}
	if err := r.db.SelectContext(ctx, &favorites, constants.ListFavorites); err != nil {
		return nil, err
	}
	return favorites, nil
}

func (r *FavoritesRepo) Exists(ctx context.Context, flightID string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(constants.CountFavoriteByFlightID), flightID); err != nil {
		return false, err
	}
	return count > 0, nil
}
