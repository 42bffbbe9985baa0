package domain

import (
	"fmt"
	"time"
)

// DefaultCategory is assigned when a suggestion arrives with a blank category.
const DefaultCategory = "general"

// LearnedTerm is a vocabulary entry suggested by the AI loop. It starts as a
// pending candidate and becomes approved either automatically (frequency
// threshold) or manually through the admin surface.
type LearnedTerm struct {
	ID            string
	Term          string
	Category      string
	Definition    string
	Frequency     int
	IsApproved    bool
	LastSeen      time.Time
	ContributedBy string
}

// NewLearnedTerm creates a pending term with its first sighting recorded.
func NewLearnedTerm(id, term, category, contributedBy string, seenAt time.Time) *LearnedTerm {
	if category == "" {
		category = DefaultCategory
	}
	return &LearnedTerm{
		ID:            id,
		Term:          term,
		Category:      category,
		Frequency:     1,
		IsApproved:    false,
		LastSeen:      seenAt,
		ContributedBy: contributedBy,
	}
}

// ValidateLearnedTerm validates a LearnedTerm instance before persistence.
func ValidateLearnedTerm(t *LearnedTerm) error {
	if t == nil {
		return fmt.Errorf("learned term cannot be nil")
	}
	if t.ID == "" {
		return fmt.Errorf("learned term ID is required")
	}
	if t.Term == "" {
		return fmt.Errorf("learned term Term is required")
	}
	if t.Category == "" {
		return fmt.Errorf("learned term Category is required")
	}
	if t.Frequency < 1 {
		return fmt.Errorf("learned term Frequency must be at least 1")
	}
	return nil
}
