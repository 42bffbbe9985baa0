package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SuggestionQuotaRepository stores per-user daily new-term counters.
type SuggestionQuotaRepository struct {
	db dbtx
}

func NewSuggestionQuotaRepository(pool *pgxpool.Pool) *SuggestionQuotaRepository {
	return &SuggestionQuotaRepository{db: pool}
}

func NewSuggestionQuotaRepositoryWithTx(tx pgx.Tx) *SuggestionQuotaRepository {
	return &SuggestionQuotaRepository{db: tx}
}

func (r *SuggestionQuotaRepository) SuggestionCount(ctx context.Context, userID, dayKey string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT suggestion_count FROM user_suggestion_quotas WHERE user_id = $1 AND day_key = $2`,
		userID, dayKey,
	).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SuggestionQuotaRepository) IncrementSuggestionCount(ctx context.Context, userID, dayKey string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_suggestion_quotas (user_id, day_key, suggestion_count)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (user_id, day_key)
		 DO UPDATE SET suggestion_count = user_suggestion_quotas.suggestion_count + 1`,
		userID, dayKey,
	)
	return err
}
