package service

import (
	"context"
	"time"

	"github.com/hunterapp/hunterd/internal/domain"
	"github.com/hunterapp/hunterd/internal/telemetry"
)

// TermQueryRepository defines the read/moderation interface over learned
// terms used by the dictionary sync endpoint and the admin surface.
type TermQueryRepository interface {
	// ListApproved returns approved terms ordered by frequency descending.
	ListApproved(ctx context.Context) ([]*domain.LearnedTerm, error)
	// ListPending returns unapproved terms ordered by frequency descending,
	// then lastSeen descending.
	ListPending(ctx context.Context) ([]*domain.LearnedTerm, error)
	GetByID(ctx context.Context, id string) (*domain.LearnedTerm, error)
	Approve(ctx context.Context, id string, at time.Time) error
	// UpdateDetails overwrites term, definition and category of one entry.
	// Manual edits do not touch the frequency counter.
	UpdateDetails(ctx context.Context, id, term, definition, category string) error
	Delete(ctx context.Context, id string) error
}

// DictionaryPayload is the "what changed since last sync" response body the
// mobile client polls: the approved vocabulary plus the ranking weights.
type DictionaryPayload struct {
	Terms   []*domain.LearnedTerm
	Weights map[string]float64
}

// DictionaryService serves the approved vocabulary and backs the admin
// moderation actions.
type DictionaryService struct {
	terms   TermQueryRepository
	ranking *RankingService
	now     func() time.Time
}

// NewDictionaryService creates a new DictionaryService instance
func NewDictionaryService(terms TermQueryRepository, ranking *RankingService) *DictionaryService {
	return &DictionaryService{terms: terms, ranking: ranking, now: time.Now}
}

// Sync returns the approved dictionary together with the current ranking
// weights.
func (s *DictionaryService) Sync(ctx context.Context) (*DictionaryPayload, error) {
	ctx, span := telemetry.StartSpan(ctx, "DictionaryService.Sync", telemetry.SpanAttributes{
		Operation: "dictionary_sync",
	})
	defer span.End()

	terms, err := s.terms.ListApproved(ctx)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	weights, err := s.ranking.GetAll(ctx)
	if err != nil {
		span.SetError(err)
		return nil, err
	}
	return &DictionaryPayload{Terms: terms, Weights: weights}, nil
}

// Pending lists unapproved terms for the moderation queue.
func (s *DictionaryService) Pending(ctx context.Context) ([]*domain.LearnedTerm, error) {
	return s.terms.ListPending(ctx)
}

// Get returns one term by ID.
func (s *DictionaryService) Get(ctx context.Context, id string) (*domain.LearnedTerm, error) {
	return s.terms.GetByID(ctx, id)
}

// Approve marks one term approved by administrator action.
func (s *DictionaryService) Approve(ctx context.Context, id string) error {
	return s.terms.Approve(ctx, id, s.now().UTC())
}

// ApproveAll approves every pending term, returning how many were approved.
func (s *DictionaryService) ApproveAll(ctx context.Context) (int, error) {
	pending, err := s.terms.ListPending(ctx)
	if err != nil {
		return 0, err
	}
	approved := 0
	at := s.now().UTC()
	for _, t := range pending {
		if err := s.terms.Approve(ctx, t.ID, at); err != nil {
			return approved, err
		}
		approved++
	}
	return approved, nil
}

// Update overwrites term, definition and category of one entry.
func (s *DictionaryService) Update(ctx context.Context, id, term, definition, category string) error {
	if category == "" {
		category = domain.DefaultCategory
	}
	return s.terms.UpdateDetails(ctx, id, term, definition, category)
}

// Delete removes one term entirely.
func (s *DictionaryService) Delete(ctx context.Context, id string) error {
	return s.terms.Delete(ctx, id)
}
