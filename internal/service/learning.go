package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hunterapp/hunterd/internal/domain"
	"github.com/hunterapp/hunterd/internal/telemetry"
	"github.com/hunterapp/hunterd/internal/termfilter"
)

const (
	// A pending term is auto-approved once this many independent sightings
	// have voted for it.
	ApprovalFrequencyThreshold = 5

	// How many brand-new terms one user may contribute per calendar day.
	// Bounds the damage of a compromised client stuffing the dictionary.
	MaxSuggestionsPerUserPerDay = 30
)

// TermRepository defines the repository interface for learned-term persistence.
type TermRepository interface {
	// FindForUpdate looks up a term by its (term, category) composite key.
	// Returns (nil, nil) when absent. The relational implementation locks the
	// row for the remainder of the transaction.
	FindForUpdate(ctx context.Context, term, category string) (*domain.LearnedTerm, error)
	// RecordSighting increments frequency and refreshes lastSeen, returning
	// the updated row.
	RecordSighting(ctx context.Context, id string, seenAt time.Time) (*domain.LearnedTerm, error)
	// Approve flips isApproved to true. Monotonic: never unset by this path.
	Approve(ctx context.Context, id string, at time.Time) error
	// CreateIfAbsent inserts the term, reporting false when another writer
	// created the same (term, category) first.
	CreateIfAbsent(ctx context.Context, t *domain.LearnedTerm) (bool, error)
}

// SuggestionQuotaRepository defines the repository interface for the per-user
// daily suggestion counters.
type SuggestionQuotaRepository interface {
	SuggestionCount(ctx context.Context, userID, dayKey string) (int, error)
	IncrementSuggestionCount(ctx context.Context, userID, dayKey string) error
}

// UUIDGenerator defines interface for UUID generation (for testing)
type UUIDGenerator interface {
	NewString() string
}

// DefaultUUIDGenerator is the default UUID generator using google/uuid
type DefaultUUIDGenerator struct{}

// NewString generates a new UUID string
func (g *DefaultUUIDGenerator) NewString() string {
	return uuid.NewString()
}

// LearningService ingests AI-suggested search terms: it filters garbage,
// counts sightings per (term, category), and promotes a term into the
// approved dictionary once it crosses the frequency threshold.
type LearningService struct {
	tx      TxRunner
	uuidGen UUIDGenerator
	now     func() time.Time
	debug   bool
}

// NewLearningService creates a new LearningService instance
func NewLearningService(tx TxRunner) *LearningService {
	return &LearningService{
		tx:      tx,
		uuidGen: &DefaultUUIDGenerator{},
		now:     time.Now,
	}
}

// NewLearningServiceWithClock creates a LearningService with a custom UUID
// generator and clock (for testing).
func NewLearningServiceWithClock(tx TxRunner, uuidGen UUIDGenerator, now func() time.Time) *LearningService {
	return &LearningService{tx: tx, uuidGen: uuidGen, now: now}
}

// SetDebug enables debug logging of rejected suggestions.
func (s *LearningService) SetDebug(debug bool) {
	s.debug = debug
}

// Ingest processes one AI suggestion. Invalid input is dropped silently:
// rejection is routine noise filtering, not an operational fault. userID may
// be empty, in which case the daily suggestion quota is not enforced.
//
// Storage errors propagate to the caller as retryable failures.
func (s *LearningService) Ingest(ctx context.Context, term, category, userID string) error {
	ctx, span := telemetry.StartSpan(ctx, "LearningService.Ingest", telemetry.SpanAttributes{
		UserID:    userID,
		Operation: "ingest",
	})
	defer span.End()

	if !termfilter.IsValidTerm(term) {
		s.logRejection("term", term)
		return nil
	}
	if !termfilter.IsValidCategory(category) {
		s.logRejection("category", category)
		return nil
	}

	t := strings.TrimSpace(term)
	cat := strings.TrimSpace(category)
	if cat == "" {
		cat = domain.DefaultCategory
	}
	now := s.now().UTC()

	err := s.tx.WithTx(ctx, func(repos TxRepositories) error {
		existing, err := repos.Terms().FindForUpdate(ctx, t, cat)
		if err != nil {
			return err
		}

		if existing != nil {
			return s.recordSighting(ctx, repos.Terms(), existing, now)
		}

		if userID != "" {
			count, err := repos.Quotas().SuggestionCount(ctx, userID, domain.DayKey(now))
			if err != nil {
				return err
			}
			if count >= MaxSuggestionsPerUserPerDay {
				log.Printf("learning: user %s exceeded the daily suggestion quota", userID)
				return nil
			}
		}

		created := domain.NewLearnedTerm(s.uuidGen.NewString(), t, cat, userID, now)
		inserted, err := repos.Terms().CreateIfAbsent(ctx, created)
		if err != nil {
			return err
		}
		if !inserted {
			// Lost the insert race to a concurrent writer. Count this call as
			// a sighting of the now-existing row; no quota charge, the term is
			// no longer new.
			existing, err := repos.Terms().FindForUpdate(ctx, t, cat)
			if err != nil {
				return err
			}
			if existing == nil {
				return domain.ErrTermNotFound
			}
			return s.recordSighting(ctx, repos.Terms(), existing, now)
		}

		if userID != "" {
			return repos.Quotas().IncrementSuggestionCount(ctx, userID, domain.DayKey(now))
		}
		return nil
	})
	if err != nil {
		span.SetError(err)
		return err
	}
	return nil
}

func (s *LearningService) recordSighting(ctx context.Context, terms TermRepository, existing *domain.LearnedTerm, now time.Time) error {
	updated, err := terms.RecordSighting(ctx, existing.ID, now)
	if err != nil {
		return err
	}
	if !updated.IsApproved && updated.Frequency >= ApprovalFrequencyThreshold {
		if err := terms.Approve(ctx, updated.ID, now); err != nil {
			return err
		}
		log.Printf("learning: auto-approved term %q (%s) at frequency %d", updated.Term, updated.Category, updated.Frequency)
	}
	return nil
}

func (s *LearningService) logRejection(field, value string) {
	if !s.debug {
		return
	}
	if len(value) > 50 {
		value = value[:50] + "…"
	}
	log.Printf("learning: rejected %s %q", field, value)
}
