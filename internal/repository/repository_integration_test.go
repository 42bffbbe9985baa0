//go:build integration

package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hunterapp/hunterd/internal/domain"
	"github.com/hunterapp/hunterd/internal/service"
	"github.com/hunterapp/hunterd/internal/testutil"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestPool(t *testing.T) (context.Context, *pgxpool.Pool) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	t.Cleanup(func() { _ = pc.Terminate(ctx) })

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	t.Cleanup(pool.Close)

	return ctx, pool
}

func newTestTerm(term, category string) *domain.LearnedTerm {
	return domain.NewLearnedTerm(uuid.NewString(), term, category, "user-1", time.Now().UTC().Truncate(time.Microsecond))
}

func TestLearnedTermRepositoryIntegration(t *testing.T) {
	ctx, pool := setupTestPool(t)
	repo := NewLearnedTermRepository(pool)

	t.Run("create, find, sight and approve", func(t *testing.T) {
		require.NoError(t, testutil.TruncateAll(ctx, pool))

		created := newTestTerm("invoice", "finance")
		inserted, err := repo.CreateIfAbsent(ctx, created)
		require.NoError(t, err)
		assert.True(t, inserted)

		found, err := repo.FindForUpdate(ctx, "invoice", "finance")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, 1, found.Frequency)
		assert.False(t, found.IsApproved)

		seenAt := time.Now().UTC().Truncate(time.Microsecond)
		updated, err := repo.RecordSighting(ctx, created.ID, seenAt)
		require.NoError(t, err)
		assert.Equal(t, 2, updated.Frequency)
		assert.WithinDuration(t, seenAt, updated.LastSeen, time.Millisecond)

		require.NoError(t, repo.Approve(ctx, created.ID, seenAt))
		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, got.IsApproved)
	})

	t.Run("duplicate insert loses the conflict", func(t *testing.T) {
		require.NoError(t, testutil.TruncateAll(ctx, pool))

		first := newTestTerm("receipt", "general")
		inserted, err := repo.CreateIfAbsent(ctx, first)
		require.NoError(t, err)
		require.True(t, inserted)

		second := newTestTerm("receipt", "general")
		inserted, err = repo.CreateIfAbsent(ctx, second)
		require.NoError(t, err)
		assert.False(t, inserted, "same (term, category) is a conflict")

		// Same term under another category is a distinct entry.
		third := newTestTerm("receipt", "finance")
		inserted, err = repo.CreateIfAbsent(ctx, third)
		require.NoError(t, err)
		assert.True(t, inserted)
	})

	t.Run("missing rows", func(t *testing.T) {
		require.NoError(t, testutil.TruncateAll(ctx, pool))

		found, err := repo.FindForUpdate(ctx, "ghost", "general")
		require.NoError(t, err)
		assert.Nil(t, found)

		_, err = repo.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrTermNotFound)

		_, err = repo.RecordSighting(ctx, uuid.NewString(), time.Now().UTC())
		assert.ErrorIs(t, err, domain.ErrTermNotFound)

		assert.ErrorIs(t, repo.Approve(ctx, uuid.NewString(), time.Now().UTC()), domain.ErrTermNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, uuid.NewString()), domain.ErrTermNotFound)
	})

	t.Run("list approved orders by frequency then term", func(t *testing.T) {
		require.NoError(t, testutil.TruncateAll(ctx, pool))

		for _, seed := range []struct {
			term string
			freq int
		}{
			{"warranty", 3},
			{"invoice", 9},
			{"receipt", 9},
		} {
			lt := newTestTerm(seed.term, "general")
			lt.Frequency = seed.freq
			lt.IsApproved = true
			_, err := repo.CreateIfAbsent(ctx, lt)
			require.NoError(t, err)
		}

		pendingTerm := newTestTerm("draft", "general")
		_, err := repo.CreateIfAbsent(ctx, pendingTerm)
		require.NoError(t, err)

		approved, err := repo.ListApproved(ctx)
		require.NoError(t, err)
		require.Len(t, approved, 3)
		assert.Equal(t, "invoice", approved[0].Term)
		assert.Equal(t, "receipt", approved[1].Term)
		assert.Equal(t, "warranty", approved[2].Term)

		pending, err := repo.ListPending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "draft", pending[0].Term)
	})

	t.Run("update details", func(t *testing.T) {
		require.NoError(t, testutil.TruncateAll(ctx, pool))

		lt := newTestTerm("invioce", "general")
		_, err := repo.CreateIfAbsent(ctx, lt)
		require.NoError(t, err)

		require.NoError(t, repo.UpdateDetails(ctx, lt.ID, "invoice", "a billing document", "finance"))

		got, err := repo.GetByID(ctx, lt.ID)
		require.NoError(t, err)
		assert.Equal(t, "invoice", got.Term)
		assert.Equal(t, "a billing document", got.Definition)
		assert.Equal(t, "finance", got.Category)
		assert.Equal(t, 1, got.Frequency, "manual edits keep the counter")
	})
}

func TestUsageRepositoryIntegration(t *testing.T) {
	ctx, pool := setupTestPool(t)
	repo := NewUsageRepository(pool)

	t.Run("missing row reads as zero", func(t *testing.T) {
		count, err := repo.ScanCount(ctx, "nobody", "2025-06")
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		require.NoError(t, testutil.TruncateAll(ctx, pool))

		const workers = 50
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- repo.AddConsumption(ctx, "user-1", "2025-06", 1)
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		count, err := repo.ScanCount(ctx, "user-1", "2025-06")
		require.NoError(t, err)
		assert.Equal(t, workers, count)
	})

	t.Run("periods are independent", func(t *testing.T) {
		require.NoError(t, testutil.TruncateAll(ctx, pool))

		require.NoError(t, repo.AddConsumption(ctx, "user-1", "2025-06", 5))
		require.NoError(t, repo.AddConsumption(ctx, "user-1", "2025-07", 2))

		june, err := repo.ScanCount(ctx, "user-1", "2025-06")
		require.NoError(t, err)
		july, err := repo.ScanCount(ctx, "user-1", "2025-07")
		require.NoError(t, err)
		assert.Equal(t, 5, june)
		assert.Equal(t, 2, july)
	})
}

func TestSuggestionQuotaRepositoryIntegration(t *testing.T) {
	ctx, pool := setupTestPool(t)
	repo := NewSuggestionQuotaRepository(pool)

	require.NoError(t, testutil.TruncateAll(ctx, pool))

	count, err := repo.SuggestionCount(ctx, "user-1", "2025-06-15")
	require.NoError(t, err)
	assert.Zero(t, count)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.IncrementSuggestionCount(ctx, "user-1", "2025-06-15"))
	}

	count, err = repo.SuggestionCount(ctx, "user-1", "2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	count, err = repo.SuggestionCount(ctx, "user-1", "2025-06-16")
	require.NoError(t, err)
	assert.Zero(t, count, "days are independent")
}

func TestSearchActivityRepositoryIntegration(t *testing.T) {
	ctx, pool := setupTestPool(t)
	repo := NewSearchActivityRepository(pool)

	require.NoError(t, testutil.TruncateAll(ctx, pool))

	first := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, repo.RecordSearches(ctx, []string{"invoice", "receipt"}, first))

	second := first.Add(time.Minute)
	require.NoError(t, repo.RecordSearches(ctx, []string{"invoice"}, second))

	top, err := repo.TopSearches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "invoice", top[0].Term)
	assert.Equal(t, 2, top[0].Count)
	assert.WithinDuration(t, second, top[0].LastSearchedAt, time.Millisecond)
	assert.Equal(t, "receipt", top[1].Term)
	assert.Equal(t, 1, top[1].Count)

	limited, err := repo.TopSearches(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRankingWeightRepositoryIntegration(t *testing.T) {
	ctx, pool := setupTestPool(t)
	repo := NewRankingWeightRepository(pool)

	require.NoError(t, testutil.TruncateAll(ctx, pool))

	empty, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, repo.SetMany(ctx, domain.DefaultRankingWeights()))

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRankingWeights(), got)

	// Partial overwrite leaves the rest intact.
	require.NoError(t, repo.SetMany(ctx, map[string]float64{domain.WeightContent: 300}))
	got, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300.0, got[domain.WeightContent])
	assert.Equal(t, 200.0, got[domain.WeightFilename])
}

func TestTxRunnerIntegration(t *testing.T) {
	ctx, pool := setupTestPool(t)
	runner := NewTxRunner(pool)
	terms := NewLearnedTermRepository(pool)

	t.Run("commits on success", func(t *testing.T) {
		require.NoError(t, testutil.TruncateAll(ctx, pool))

		lt := newTestTerm("invoice", "general")
		err := runner.WithTx(ctx, func(repos service.TxRepositories) error {
			inserted, err := repos.Terms().CreateIfAbsent(ctx, lt)
			if err != nil {
				return err
			}
			require.True(t, inserted)
			return repos.Quotas().IncrementSuggestionCount(ctx, "user-1", "2025-06-15")
		})
		require.NoError(t, err)

		got, err := terms.GetByID(ctx, lt.ID)
		require.NoError(t, err)
		assert.Equal(t, "invoice", got.Term)

		count, err := NewSuggestionQuotaRepository(pool).SuggestionCount(ctx, "user-1", "2025-06-15")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("rolls back both writes on failure", func(t *testing.T) {
		require.NoError(t, testutil.TruncateAll(ctx, pool))

		boom := errors.New("abort")
		lt := newTestTerm("receipt", "general")
		err := runner.WithTx(ctx, func(repos service.TxRepositories) error {
			if _, err := repos.Terms().CreateIfAbsent(ctx, lt); err != nil {
				return err
			}
			if err := repos.Quotas().IncrementSuggestionCount(ctx, "user-1", "2025-06-15"); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		_, err = terms.GetByID(ctx, lt.ID)
		assert.ErrorIs(t, err, domain.ErrTermNotFound, "term write rolled back")

		count, err := NewSuggestionQuotaRepository(pool).SuggestionCount(ctx, "user-1", "2025-06-15")
		require.NoError(t, err)
		assert.Zero(t, count, "quota write rolled back")
	})
}
