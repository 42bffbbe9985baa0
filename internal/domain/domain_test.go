package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodKey(t *testing.T) {
	assert.Equal(t, "2025-06", PeriodKey(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-01", PeriodKey(time.Date(2025, 1, 31, 23, 59, 59, 0, time.UTC)))

	// Keys are computed in UTC regardless of the input zone.
	tokyo := time.FixedZone("JST", 9*3600)
	assert.Equal(t, "2025-06", PeriodKey(time.Date(2025, 7, 1, 8, 59, 0, 0, tokyo)))
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "2025-06-15", DayKey(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))

	tokyo := time.FixedZone("JST", 9*3600)
	assert.Equal(t, "2025-06-14", DayKey(time.Date(2025, 6, 15, 8, 59, 0, 0, tokyo)))
}

func TestNewLearnedTerm(t *testing.T) {
	seen := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	lt := NewLearnedTerm("id-1", "invoice", "finance", "user-1", seen)
	assert.Equal(t, 1, lt.Frequency)
	assert.False(t, lt.IsApproved)
	assert.Equal(t, "finance", lt.Category)
	assert.Equal(t, "user-1", lt.ContributedBy)
	assert.Equal(t, seen, lt.LastSeen)

	lt = NewLearnedTerm("id-2", "invoice", "", "", seen)
	assert.Equal(t, DefaultCategory, lt.Category)
}

func TestValidateLearnedTerm(t *testing.T) {
	valid := &LearnedTerm{ID: "id-1", Term: "invoice", Category: "general", Frequency: 1}
	require.NoError(t, ValidateLearnedTerm(valid))

	tests := []struct {
		name string
		term *LearnedTerm
	}{
		{"nil", nil},
		{"missing id", &LearnedTerm{Term: "invoice", Category: "general", Frequency: 1}},
		{"missing term", &LearnedTerm{ID: "id-1", Category: "general", Frequency: 1}},
		{"missing category", &LearnedTerm{ID: "id-1", Term: "invoice", Frequency: 1}},
		{"zero frequency", &LearnedTerm{ID: "id-1", Term: "invoice", Category: "general"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateLearnedTerm(tt.term))
		})
	}
}
