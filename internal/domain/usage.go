package domain

import "time"

// UsageRecord tracks billable AI scans for one user in one billing period.
// Rows are created lazily on first consumption and never deleted; stale
// periods simply stop being read once the month rolls over.
type UsageRecord struct {
	UserID    string
	PeriodKey string
	ScanCount int
}

// SuggestionQuota tracks how many new vocabulary terms a user contributed on
// one calendar day. Re-sightings of known terms are not counted.
type SuggestionQuota struct {
	UserID          string
	DayKey          string
	SuggestionCount int
}

// PeriodKey buckets a timestamp into its billing period ("2026-09").
func PeriodKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// DayKey buckets a timestamp into its calendar day ("2026-09-01").
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
