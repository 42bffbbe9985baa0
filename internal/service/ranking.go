package service

import (
	"context"

	"github.com/hunterapp/hunterd/internal/domain"
	"github.com/hunterapp/hunterd/internal/telemetry"
)

// RankingWeightRepository defines the repository interface for the ranking
// weight table.
type RankingWeightRepository interface {
	GetAll(ctx context.Context) (map[string]float64, error)
	// SetMany overwrites the given keys, creating missing ones. Keys not in
	// the mapping are left untouched.
	SetMany(ctx context.Context, weights map[string]float64) error
}

// RankingService exposes the tunable ranking weights the mobile client polls.
// Writable only through the admin surface; no range validation is performed,
// the administrator is trusted.
type RankingService struct {
	repo RankingWeightRepository
}

// NewRankingService creates a new RankingService instance
func NewRankingService(repo RankingWeightRepository) *RankingService {
	return &RankingService{repo: repo}
}

// GetAll returns every stored weight, including keys outside the fixed set.
func (s *RankingService) GetAll(ctx context.Context) (map[string]float64, error) {
	return s.repo.GetAll(ctx)
}

// SetMany overwrites the given weights.
func (s *RankingService) SetMany(ctx context.Context, weights map[string]float64) error {
	if len(weights) == 0 {
		return nil
	}
	return s.repo.SetMany(ctx, weights)
}

// ResetToDefaults writes the five factory-default weights. Keys outside the
// default set are left untouched.
func (s *RankingService) ResetToDefaults(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "RankingService.ResetToDefaults", telemetry.SpanAttributes{
		Operation: "reset_weights",
	})
	defer span.End()

	if err := s.repo.SetMany(ctx, domain.DefaultRankingWeights()); err != nil {
		span.SetError(err)
		return err
	}
	return nil
}

// SeedDefaults writes the default weights only when the store is empty.
// Called once at startup so a fresh deployment serves sensible values.
func (s *RankingService) SeedDefaults(ctx context.Context) error {
	existing, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	return s.repo.SetMany(ctx, domain.DefaultRankingWeights())
}
