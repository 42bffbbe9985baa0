package repository

import (
	"context"
	"time"

	"github.com/hunterapp/hunterd/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SearchActivityRepository stores per-term search counters for the synonym
// feedback loop.
type SearchActivityRepository struct {
	pool *pgxpool.Pool
}

func NewSearchActivityRepository(pool *pgxpool.Pool) *SearchActivityRepository {
	return &SearchActivityRepository{pool: pool}
}

// RecordSearches applies one upsert per term, batched into a single
// transaction so a call commits all of its counters or none.
func (r *SearchActivityRepository) RecordSearches(ctx context.Context, terms []string, searchedAt time.Time) error {
	if len(terms) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, term := range terms {
		batch.Queue(
			`INSERT INTO search_activity (term, count, last_searched_at)
			 VALUES ($1, 1, $2)
			 ON CONFLICT (term)
			 DO UPDATE SET count = search_activity.count + 1, last_searched_at = EXCLUDED.last_searched_at`,
			term, searchedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range terms {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return err
		}
	}
	if err := results.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *SearchActivityRepository) TopSearches(ctx context.Context, limit int) ([]*domain.SearchActivity, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT term, count, last_searched_at
		 FROM search_activity
		 ORDER BY count DESC, last_searched_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*domain.SearchActivity
	for rows.Next() {
		var a domain.SearchActivity
		if err := rows.Scan(&a.Term, &a.Count, &a.LastSearchedAt); err != nil {
			return nil, err
		}
		results = append(results, &a)
	}
	return results, rows.Err()
}
