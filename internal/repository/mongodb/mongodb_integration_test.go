//go:build integration

package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hunterapp/hunterd/internal/domain"
	"github.com/hunterapp/hunterd/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func setupTestDB(t *testing.T) (context.Context, *mongo.Database) {
	ctx := context.Background()
	mc := testutil.NewMongoContainer(ctx, t)
	t.Cleanup(func() { _ = mc.Terminate(ctx) })

	db := testutil.NewTestDatabase(ctx, t, mc, "hunter_test")
	require.NoError(t, EnsureIndexes(ctx, db))
	return ctx, db
}

func clearCollections(ctx context.Context, t *testing.T, db *mongo.Database) {
	for _, name := range []string{colTerms, colUsage, colQuotas, colActivity, colRanking} {
		_, err := db.Collection(name).DeleteMany(ctx, bson.M{})
		require.NoError(t, err)
	}
}

func TestLearnedTermRepositoryMongo(t *testing.T) {
	ctx, db := setupTestDB(t)
	repo := NewLearnedTermRepository(db)

	t.Run("create, find, sight and approve", func(t *testing.T) {
		clearCollections(ctx, t, db)

		created := domain.NewLearnedTerm(uuid.NewString(), "invoice", "finance", "user-1", time.Now().UTC().Truncate(time.Millisecond))
		inserted, err := repo.CreateIfAbsent(ctx, created)
		require.NoError(t, err)
		require.True(t, inserted)

		found, err := repo.FindForUpdate(ctx, "invoice", "finance")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, 1, found.Frequency)

		seenAt := time.Now().UTC().Truncate(time.Millisecond)
		updated, err := repo.RecordSighting(ctx, created.ID, seenAt)
		require.NoError(t, err)
		assert.Equal(t, 2, updated.Frequency)

		require.NoError(t, repo.Approve(ctx, created.ID, seenAt))
		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, got.IsApproved)
	})

	t.Run("duplicate is reported as not inserted", func(t *testing.T) {
		clearCollections(ctx, t, db)

		first := domain.NewLearnedTerm(uuid.NewString(), "receipt", "general", "", time.Now().UTC())
		inserted, err := repo.CreateIfAbsent(ctx, first)
		require.NoError(t, err)
		require.True(t, inserted)

		second := domain.NewLearnedTerm(uuid.NewString(), "receipt", "general", "", time.Now().UTC())
		inserted, err = repo.CreateIfAbsent(ctx, second)
		require.NoError(t, err)
		assert.False(t, inserted)
	})

	t.Run("missing rows", func(t *testing.T) {
		clearCollections(ctx, t, db)

		found, err := repo.FindForUpdate(ctx, "ghost", "general")
		require.NoError(t, err)
		assert.Nil(t, found)

		_, err = repo.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrTermNotFound)

		assert.ErrorIs(t, repo.Delete(ctx, uuid.NewString()), domain.ErrTermNotFound)
	})

	t.Run("tolerates legacy field casing on decode", func(t *testing.T) {
		clearCollections(ctx, t, db)

		id := uuid.NewString()
		_, err := db.Collection(colTerms).InsertOne(ctx, bson.M{
			"_id":        id,
			"Term":       "warranty",
			"Category":   "general",
			"Frequency":  int32(6),
			"IsApproved": true,
			"LastSeen":   time.Now().UTC(),
		})
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "warranty", got.Term)
		assert.Equal(t, 6, got.Frequency)
		assert.True(t, got.IsApproved)
	})

	t.Run("list ordering", func(t *testing.T) {
		clearCollections(ctx, t, db)

		now := time.Now().UTC().Truncate(time.Millisecond)
		for _, seed := range []struct {
			term     string
			freq     int
			approved bool
		}{
			{"warranty", 3, true},
			{"invoice", 9, true},
			{"draft", 2, false},
		} {
			lt := domain.NewLearnedTerm(uuid.NewString(), seed.term, "general", "", now)
			lt.Frequency = seed.freq
			lt.IsApproved = seed.approved
			_, err := repo.CreateIfAbsent(ctx, lt)
			require.NoError(t, err)
		}

		approved, err := repo.ListApproved(ctx)
		require.NoError(t, err)
		require.Len(t, approved, 2)
		assert.Equal(t, "invoice", approved[0].Term)
		assert.Equal(t, "warranty", approved[1].Term)

		pending, err := repo.ListPending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, "draft", pending[0].Term)
	})
}

func TestUsageRepositoryMongo(t *testing.T) {
	ctx, db := setupTestDB(t)
	repo := NewUsageRepository(db)
	clearCollections(ctx, t, db)

	count, err := repo.ScanCount(ctx, "nobody", "2025-06")
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, repo.AddConsumption(ctx, "user-1", "2025-06", 3))
	require.NoError(t, repo.AddConsumption(ctx, "user-1", "2025-06", 2))

	count, err = repo.ScanCount(ctx, "user-1", "2025-06")
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	count, err = repo.ScanCount(ctx, "user-1", "2025-07")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSuggestionQuotaRepositoryMongo(t *testing.T) {
	ctx, db := setupTestDB(t)
	repo := NewSuggestionQuotaRepository(db)
	clearCollections(ctx, t, db)

	for i := 0; i < 4; i++ {
		require.NoError(t, repo.IncrementSuggestionCount(ctx, "user-1", "2025-06-15"))
	}

	count, err := repo.SuggestionCount(ctx, "user-1", "2025-06-15")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestSearchActivityRepositoryMongo(t *testing.T) {
	ctx, db := setupTestDB(t)
	repo := NewSearchActivityRepository(db)
	clearCollections(ctx, t, db)

	first := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.RecordSearches(ctx, []string{"invoice", "receipt"}, first))
	require.NoError(t, repo.RecordSearches(ctx, []string{"invoice"}, first.Add(time.Minute)))

	top, err := repo.TopSearches(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "invoice", top[0].Term)
	assert.Equal(t, 2, top[0].Count)
}

func TestRankingWeightRepositoryMongo(t *testing.T) {
	ctx, db := setupTestDB(t)
	repo := NewRankingWeightRepository(db)
	clearCollections(ctx, t, db)

	require.NoError(t, repo.SetMany(ctx, domain.DefaultRankingWeights()))

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRankingWeights(), got)

	require.NoError(t, repo.SetMany(ctx, map[string]float64{domain.WeightContent: 300}))
	got, err = repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300.0, got[domain.WeightContent])
	assert.Equal(t, 200.0, got[domain.WeightFilename])
}
