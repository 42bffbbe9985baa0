// Package termfilter validates AI-suggested vocabulary before it reaches the
// learning loop. The suggestion source is untrusted: it emits typos, keyboard
// mash, injection attempts, and plain garbage, so everything is checked here
// with pure functions and no side effects.
package termfilter

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	maxTermLength     = 80
	minTermLength     = 2
	maxCategoryLength = 50
)

// Letters in any script, digits, whitespace, hyphen, apostrophe.
var allowedChars = regexp.MustCompile(`^[\p{L}\p{N}\s'-]+$`)

// A run of 4+ Latin consonants is a gibberish heuristic for English input.
var consonantRun = regexp.MustCompile(`[bcdfghjklmnpqrstvwxzBCDFGHJKLMNPQRSTVWXZ]{4,}`)

// IsValidTerm reports whether a candidate term is acceptable vocabulary.
func IsValidTerm(term string) bool {
	t := strings.TrimSpace(term)
	if len([]rune(t)) < minTermLength || len([]rune(t)) > maxTermLength {
		return false
	}
	if !allowedChars.MatchString(t) {
		return false
	}
	if consonantRun.MatchString(t) {
		return false
	}
	if hasRepeatedRun(t, 4) {
		return false
	}
	if isAllDigits(t) {
		return false
	}
	return true
}

// IsValidCategory reports whether a candidate category is acceptable. Blank
// means "use the default category" and is valid.
func IsValidCategory(category string) bool {
	c := strings.TrimSpace(category)
	if c == "" {
		return true
	}
	if len([]rune(c)) > maxCategoryLength {
		return false
	}
	return allowedChars.MatchString(c)
}

// hasRepeatedRun reports whether any rune repeats at least n times in a row.
// RE2 has no backreferences, so this is a manual scan.
func hasRepeatedRun(s string, n int) bool {
	var prev rune
	run := 0
	for _, r := range s {
		if r == prev {
			run++
			if run >= n {
				return true
			}
		} else {
			prev = r
			run = 1
		}
	}
	return false
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
