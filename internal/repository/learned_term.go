package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hunterapp/hunterd/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const learnedTermColumns = `id, term, category, definition, frequency, is_approved, last_seen, contributed_by`

// LearnedTermRepository persists the learned vocabulary. Uniqueness of
// (term, category) is a declared constraint enforced at write time.
type LearnedTermRepository struct {
	db dbtx
}

func NewLearnedTermRepository(pool *pgxpool.Pool) *LearnedTermRepository {
	return &LearnedTermRepository{db: pool}
}

func NewLearnedTermRepositoryWithTx(tx pgx.Tx) *LearnedTermRepository {
	return &LearnedTermRepository{db: tx}
}

func (r *LearnedTermRepository) FindForUpdate(ctx context.Context, term, category string) (*domain.LearnedTerm, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+learnedTermColumns+`
		 FROM learned_terms
		 WHERE term = $1 AND category = $2
		 FOR UPDATE`,
		term, category,
	)
	t, err := scanLearnedTerm(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *LearnedTermRepository) RecordSighting(ctx context.Context, id string, seenAt time.Time) (*domain.LearnedTerm, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE learned_terms
		 SET frequency = frequency + 1, last_seen = $2
		 WHERE id = $1
		 RETURNING `+learnedTermColumns,
		id, seenAt,
	)
	t, err := scanLearnedTerm(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTermNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *LearnedTermRepository) Approve(ctx context.Context, id string, at time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE learned_terms SET is_approved = TRUE, last_seen = $2 WHERE id = $1`,
		id, at,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTermNotFound
	}
	return nil
}

func (r *LearnedTermRepository) CreateIfAbsent(ctx context.Context, t *domain.LearnedTerm) (bool, error) {
	if err := domain.ValidateLearnedTerm(t); err != nil {
		return false, err
	}
	tag, err := r.db.Exec(ctx,
		`INSERT INTO learned_terms (id, term, category, definition, frequency, is_approved, last_seen, contributed_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (term, category) DO NOTHING`,
		t.ID, t.Term, t.Category, t.Definition, t.Frequency, t.IsApproved, t.LastSeen, t.ContributedBy,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *LearnedTermRepository) ListApproved(ctx context.Context) ([]*domain.LearnedTerm, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+learnedTermColumns+`
		 FROM learned_terms
		 WHERE is_approved = TRUE
		 ORDER BY frequency DESC, term ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLearnedTermRows(rows)
}

func (r *LearnedTermRepository) ListPending(ctx context.Context) ([]*domain.LearnedTerm, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+learnedTermColumns+`
		 FROM learned_terms
		 WHERE is_approved = FALSE
		 ORDER BY frequency DESC, last_seen DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLearnedTermRows(rows)
}

func (r *LearnedTermRepository) GetByID(ctx context.Context, id string) (*domain.LearnedTerm, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+learnedTermColumns+` FROM learned_terms WHERE id = $1`,
		id,
	)
	t, err := scanLearnedTerm(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTermNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *LearnedTermRepository) UpdateDetails(ctx context.Context, id, term, definition, category string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE learned_terms SET term = $2, definition = $3, category = $4 WHERE id = $1`,
		id, term, definition, category,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTermNotFound
	}
	return nil
}

func (r *LearnedTermRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM learned_terms WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTermNotFound
	}
	return nil
}

func scanLearnedTerm(row pgx.Row) (*domain.LearnedTerm, error) {
	var t domain.LearnedTerm
	err := row.Scan(&t.ID, &t.Term, &t.Category, &t.Definition, &t.Frequency, &t.IsApproved, &t.LastSeen, &t.ContributedBy)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanLearnedTermRows(rows pgx.Rows) ([]*domain.LearnedTerm, error) {
	var results []*domain.LearnedTerm
	for rows.Next() {
		t, err := scanLearnedTerm(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	return results, rows.Err()
}
