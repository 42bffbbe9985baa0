package termfilter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidTerm(t *testing.T) {
	tests := []struct {
		name  string
		term  string
		valid bool
	}{
		{"simple word", "receipt", true},
		{"two words", "tax receipt", true},
		{"hyphenated", "e-ticket", true},
		{"apostrophe", "driver's licence", true},
		{"hebrew", "קבלה", true},
		{"arabic", "فاتورة", true},
		{"mixed letters and digits", "form 1099", true},
		{"minimum length", "ok", true},
		{"surrounding whitespace trimmed", "  invoice  ", true},

		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"single rune", "a", false},
		{"all digits", "12345", false},
		{"repeated character run", "aaaaaa", false},
		{"consonant run", "xkcdzzzz", false},
		{"punctuation", "rm -rf /", false},
		{"html", "<script>", false},
		{"underscore", "snake_case", false},
		{"too long", strings.Repeat("ab", 41), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidTerm(tt.term))
		})
	}
}

func TestIsValidTermLengthBoundaries(t *testing.T) {
	assert.True(t, IsValidTerm(strings.Repeat("a b ", 19)+"long"), "80 runes is accepted")
	assert.False(t, IsValidTerm(strings.Repeat("a b ", 20)+"x"), "81 runes is rejected")
}

func TestIsValidTermRepeatedRunCountsRunes(t *testing.T) {
	// Three repeats are fine, four are not.
	assert.True(t, IsValidTerm("weee"))
	assert.False(t, IsValidTerm("weeee"))
}

func TestIsValidCategory(t *testing.T) {
	tests := []struct {
		name     string
		category string
		valid    bool
	}{
		{"blank means default", "", true},
		{"whitespace only means default", "  ", true},
		{"simple", "documents", true},
		{"single rune", "x", true},
		{"unicode", "מסמכים", true},
		{"punctuation", "docs;drop table", false},
		{"too long", strings.Repeat("c", 51), false},
		{"exactly max", strings.Repeat("c", 50), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidCategory(tt.category))
		})
	}
}
