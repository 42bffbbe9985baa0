package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hunterapp/hunterd/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTermQueryRepository is a mock implementation of TermQueryRepository
type MockTermQueryRepository struct {
	mock.Mock
}

func (m *MockTermQueryRepository) ListApproved(ctx context.Context) ([]*domain.LearnedTerm, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LearnedTerm), args.Error(1)
}

func (m *MockTermQueryRepository) ListPending(ctx context.Context) ([]*domain.LearnedTerm, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LearnedTerm), args.Error(1)
}

func (m *MockTermQueryRepository) GetByID(ctx context.Context, id string) (*domain.LearnedTerm, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LearnedTerm), args.Error(1)
}

func (m *MockTermQueryRepository) Approve(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockTermQueryRepository) UpdateDetails(ctx context.Context, id, term, definition, category string) error {
	args := m.Called(ctx, id, term, definition, category)
	return args.Error(0)
}

func (m *MockTermQueryRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestDictionaryService_Sync(t *testing.T) {
	ctx := context.Background()

	t.Run("bundles approved terms with the current weights", func(t *testing.T) {
		terms := new(MockTermQueryRepository)
		ranking := newMemRankingRepository()
		require.NoError(t, ranking.SetMany(ctx, domain.DefaultRankingWeights()))
		svc := NewDictionaryService(terms, NewRankingService(ranking))

		approved := []*domain.LearnedTerm{
			{ID: "t1", Term: "invoice", Frequency: 12, IsApproved: true},
			{ID: "t2", Term: "receipt", Frequency: 7, IsApproved: true},
		}
		terms.On("ListApproved", mock.Anything).Return(approved, nil)

		payload, err := svc.Sync(ctx)

		require.NoError(t, err)
		assert.Equal(t, approved, payload.Terms)
		assert.Equal(t, domain.DefaultRankingWeights(), payload.Weights)
	})

	t.Run("empty dictionary still carries weights", func(t *testing.T) {
		terms := new(MockTermQueryRepository)
		ranking := newMemRankingRepository()
		require.NoError(t, ranking.SetMany(ctx, domain.DefaultRankingWeights()))
		svc := NewDictionaryService(terms, NewRankingService(ranking))

		terms.On("ListApproved", mock.Anything).Return([]*domain.LearnedTerm{}, nil)

		payload, err := svc.Sync(ctx)
		require.NoError(t, err)
		assert.Empty(t, payload.Terms)
		assert.Len(t, payload.Weights, 5)
	})

	t.Run("storage errors propagate", func(t *testing.T) {
		terms := new(MockTermQueryRepository)
		svc := NewDictionaryService(terms, NewRankingService(newMemRankingRepository()))

		boom := errors.New("read failed")
		terms.On("ListApproved", mock.Anything).Return(nil, boom)

		_, err := svc.Sync(ctx)
		assert.ErrorIs(t, err, boom)
	})
}

func TestDictionaryService_ApproveAll(t *testing.T) {
	ctx := context.Background()

	t.Run("approves every pending term and reports the count", func(t *testing.T) {
		terms := new(MockTermQueryRepository)
		svc := NewDictionaryService(terms, NewRankingService(newMemRankingRepository()))

		pending := []*domain.LearnedTerm{
			{ID: "t1", Term: "invoice"},
			{ID: "t2", Term: "receipt"},
			{ID: "t3", Term: "warranty"},
		}
		terms.On("ListPending", mock.Anything).Return(pending, nil)
		terms.On("Approve", mock.Anything, "t1", mock.Anything).Return(nil)
		terms.On("Approve", mock.Anything, "t2", mock.Anything).Return(nil)
		terms.On("Approve", mock.Anything, "t3", mock.Anything).Return(nil)

		count, err := svc.ApproveAll(ctx)

		require.NoError(t, err)
		assert.Equal(t, 3, count)
		terms.AssertExpectations(t)
	})

	t.Run("empty queue approves nothing", func(t *testing.T) {
		terms := new(MockTermQueryRepository)
		svc := NewDictionaryService(terms, NewRankingService(newMemRankingRepository()))

		terms.On("ListPending", mock.Anything).Return([]*domain.LearnedTerm{}, nil)

		count, err := svc.ApproveAll(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
		terms.AssertNotCalled(t, "Approve", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stops at the first failure and reports progress so far", func(t *testing.T) {
		terms := new(MockTermQueryRepository)
		svc := NewDictionaryService(terms, NewRankingService(newMemRankingRepository()))

		pending := []*domain.LearnedTerm{{ID: "t1"}, {ID: "t2"}}
		boom := errors.New("write failed")
		terms.On("ListPending", mock.Anything).Return(pending, nil)
		terms.On("Approve", mock.Anything, "t1", mock.Anything).Return(nil)
		terms.On("Approve", mock.Anything, "t2", mock.Anything).Return(boom)

		count, err := svc.ApproveAll(ctx)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, count)
	})
}

func TestDictionaryService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("blank category falls back to the default", func(t *testing.T) {
		terms := new(MockTermQueryRepository)
		svc := NewDictionaryService(terms, NewRankingService(newMemRankingRepository()))

		terms.On("UpdateDetails", mock.Anything, "t1", "invoice", "a billing document", domain.DefaultCategory).Return(nil)

		require.NoError(t, svc.Update(ctx, "t1", "invoice", "a billing document", ""))
		terms.AssertExpectations(t)
	})

	t.Run("explicit category is preserved", func(t *testing.T) {
		terms := new(MockTermQueryRepository)
		svc := NewDictionaryService(terms, NewRankingService(newMemRankingRepository()))

		terms.On("UpdateDetails", mock.Anything, "t1", "invoice", "", "finance").Return(nil)

		require.NoError(t, svc.Update(ctx, "t1", "invoice", "", "finance"))
		terms.AssertExpectations(t)
	})
}
