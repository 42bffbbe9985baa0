package domain

import "time"

// SearchActivity counts how often a resolved search term was actually queried,
// independent of approval state. Passive analytics, never a gate.
type SearchActivity struct {
	Term           string
	Count          int
	LastSearchedAt time.Time
}
