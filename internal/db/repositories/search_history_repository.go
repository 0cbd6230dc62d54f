package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"skypulse/flightcore/internal/constants"
	"skypulse/flightcore/internal/models"
)

type SearchHistoryRepo struct {
	db *sqlx.DB
}

func NewSearchHistoryRepo(db *sqlx.DB) *SearchHistoryRepo {
	return &SearchHistoryRepo{db}
}

// Save appends q and trims the history to the newest maxEntries in one transaction.
func (r *SearchHistoryRepo) Save(ctx context.Context, q models.SearchQuery, maxEntries int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin search history tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind(constants.InsertSearchHistory), q.Text, string(q.Type), q.Timestamp.UTC()); err != nil {
		return fmt.Errorf("failed to insert search: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(constants.TrimSearchHistory), maxEntries); err != nil {
		return fmt.Errorf("failed to trim search history: %w", err)
	}

	return tx.Commit()
}

// Recent is newest first.
func (r *SearchHistoryRepo) Recent(ctx context.Context, limit int) ([]models.SearchQuery, error) {
	queries := []models.SearchQuery{}
	if err := r.db.SelectContext(ctx, &queries, r.db.Rebind(constants.RecentSearchHistory), limit); err != nil {
		return nil, err
	}
	return queries, nil
}

func (r *SearchHistoryRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, constants.ClearSearchHistory)
	return err
}
