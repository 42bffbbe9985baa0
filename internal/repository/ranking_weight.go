package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RankingWeightRepository stores the named ranking tunables.
type RankingWeightRepository struct {
	pool *pgxpool.Pool
}

func NewRankingWeightRepository(pool *pgxpool.Pool) *RankingWeightRepository {
	return &RankingWeightRepository{pool: pool}
}

func (r *RankingWeightRepository) GetAll(ctx context.Context) (map[string]float64, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, value FROM ranking_weights`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weights := make(map[string]float64)
	for rows.Next() {
		var key string
		var value float64
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		weights[key] = value
	}
	return weights, rows.Err()
}

func (r *RankingWeightRepository) SetMany(ctx context.Context, weights map[string]float64) error {
	if len(weights) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for key, value := range weights {
		batch.Queue(
			`INSERT INTO ranking_weights (key, value)
			 VALUES ($1, $2)
			 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
			key, value,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range weights {
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
