package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UsageRepository stores per-user, per-period consumption counters.
type UsageRepository struct {
	pool *pgxpool.Pool
}

func NewUsageRepository(pool *pgxpool.Pool) *UsageRepository {
	return &UsageRepository{pool: pool}
}

func (r *UsageRepository) ScanCount(ctx context.Context, userID, periodKey string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT scan_count FROM user_ai_usage WHERE user_id = $1 AND period_key = $2`,
		userID, periodKey,
	).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// AddConsumption is a single atomic increment-or-insert; concurrent writers
// for the same (user, period) serialize on the row without lost updates.
func (r *UsageRepository) AddConsumption(ctx context.Context, userID, periodKey string, amount int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_ai_usage (user_id, period_key, scan_count)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, period_key)
		 DO UPDATE SET scan_count = user_ai_usage.scan_count + EXCLUDED.scan_count`,
		userID, periodKey, amount,
	)
	return err
}
