package usecase

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Scorer compares product strings by sequence similarity of their
// normalized forms.
type Scorer struct {
	normalizer *Normalizer
}

// NewScorer creates a scorer that normalizes with n
func NewScorer(n *Normalizer) *Scorer {
	return &Scorer{normalizer: n}
}

// Similar reports whether ratio(normalize(a), normalize(b)) >= threshold.
func (s *Scorer) Similar(a, b string, threshold float64) bool {
	return Ratio(s.normalizer.Normalize(a), s.normalizer.Normalize(b)) >= threshold
}

// Ratio returns the longest-matching-blocks similarity of a and b in [0,1]:
// 2*M/T where M is the number of matched characters and T the total length.
// It is order-sensitive. Two empty strings have a ratio of 1.0.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(splitChars(a), splitChars(b)).Ratio()
}

// closeMatch reports whether candidate is a close match for word at cutoff,
// running the cheap upper bounds before the full ratio.
func closeMatch(word, candidate string, cutoff float64) bool {
	m := difflib.NewMatcher(splitChars(candidate), splitChars(word))
	return m.RealQuickRatio() >= cutoff &&
		m.QuickRatio() >= cutoff &&
		m.Ratio() >= cutoff
}

// sharedTokens counts the distinct tokens present in both a and b
func sharedTokens(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, t := range a {
		set[t] = struct{}{}
	}

	count := 0
	seen := make(map[string]struct{}, len(b))
	for _, t := range b {
		if _, ok := set[t]; !ok {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		count++
	}
	return count
}

// splitChars splits s into one element per rune for the sequence matcher
func splitChars(s string) []string {
	chars := make([]string, 0, len(s))
	for _, r := range s {
		chars = append(chars, string(r))
	}
	return chars
}

// collapseLower lowercases s and collapses runs of whitespace
func collapseLower(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
