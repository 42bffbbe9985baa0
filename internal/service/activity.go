package service

import (
	"context"
	"strings"
	"time"

	"github.com/hunterapp/hunterd/internal/domain"
	"github.com/hunterapp/hunterd/internal/telemetry"
)

// ActivityRepository defines the repository interface for search statistics.
type ActivityRepository interface {
	// RecordSearches upserts one counter per term: increment count and
	// refresh lastSearchedAt, or insert with count=1. The relational
	// implementation applies the whole batch in one transaction.
	RecordSearches(ctx context.Context, terms []string, searchedAt time.Time) error
	// TopSearches returns the most queried terms, count descending.
	TopSearches(ctx context.Context, limit int) ([]*domain.SearchActivity, error)
}

// ActivityService records which resolved search terms users actually query.
// Passive analytics feeding synonym decisions; no quota, no validation beyond
// dropping blanks.
type ActivityService struct {
	repo ActivityRepository
	now  func() time.Time
}

// NewActivityService creates a new ActivityService instance
func NewActivityService(repo ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo, now: time.Now}
}

// NewActivityServiceWithClock creates an ActivityService with a custom clock (for testing).
func NewActivityServiceWithClock(repo ActivityRepository, now func() time.Time) *ActivityService {
	return &ActivityService{repo: repo, now: now}
}

// Record trims the incoming terms, drops blanks, deduplicates them
// case-sensitively and persists one sighting per distinct term.
func (s *ActivityService) Record(ctx context.Context, terms []string) error {
	ctx, span := telemetry.StartSpan(ctx, "ActivityService.Record", telemetry.SpanAttributes{
		Operation: "record_searches",
	})
	defer span.End()

	seen := make(map[string]struct{}, len(terms))
	distinct := make([]string, 0, len(terms))
	for _, term := range terms {
		t := strings.TrimSpace(term)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		distinct = append(distinct, t)
	}
	if len(distinct) == 0 {
		return nil
	}

	if err := s.repo.RecordSearches(ctx, distinct, s.now().UTC()); err != nil {
		span.SetError(err)
		return err
	}
	return nil
}

// TopSearches returns the most queried terms for the admin dashboard.
func (s *ActivityService) TopSearches(ctx context.Context, limit int) ([]*domain.SearchActivity, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.TopSearches(ctx, limit)
}
