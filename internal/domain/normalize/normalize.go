// Package normalize turns raw interest strings into the comparison form used by
// every lookup in the canonicalization engine.
//
// The transform is case folding, then replacing every rune that is not a letter,
// digit or whitespace with a space, then collapsing whitespace runs and trimming.
// It is total and idempotent: Normalize(Normalize(s)) == Normalize(s).
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize returns the normalized form of s. Empty input yields empty output.
func Normalize(s string) string {
	if s == "" {
		return ""
	}

	// Caser carries state between calls, so each call gets its own.
	lowered := cases.Lower(language.Und).String(s)

	var sb strings.Builder
	sb.Grow(len(lowered))
	pendingSpace := false
	for _, r := range lowered {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			// Whitespace and punctuation both act as separators.
			pendingSpace = true
			continue
		}
		if pendingSpace && sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		pendingSpace = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// All normalizes every element of ss into a new slice.
func All(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = Normalize(s)
	}
	return out
}
