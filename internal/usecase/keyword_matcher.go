package usecase

import (
	"log"
	"math"
	"strings"
	"unicode/utf8"
)

// KeywordMatchConfig holds the thresholds for keyword relevance matching
type KeywordMatchConfig struct {
	ShortKeywordLength int     // Normalized keywords up to this many runes use the short strategy
	ShortKeywordRatio  float64 // Ratio a short keyword must exceed
	LongKeywordRatio   float64 // Ratio a long keyword must exceed
	EnableDebugLogging bool
}

// KeywordMatcher scores how relevant a source's listings are to a keyword
type KeywordMatcher struct {
	normalizer         *Normalizer
	shortKeywordLength int
	shortKeywordRatio  float64
	longKeywordRatio   float64
	enableDebugLogging bool
}

// NewKeywordMatcher creates a keyword matcher with the given configuration
func NewKeywordMatcher(normalizer *Normalizer, config KeywordMatchConfig) *KeywordMatcher {
	shortLen := config.ShortKeywordLength
	if shortLen <= 0 {
		shortLen = 6
	}

	shortRatio := config.ShortKeywordRatio
	if shortRatio <= 0 {
		shortRatio = 0.4
	}

	longRatio := config.LongKeywordRatio
	if longRatio <= 0 {
		longRatio = 0.5
	}

	return &KeywordMatcher{
		normalizer:         normalizer,
		shortKeywordLength: shortLen,
		shortKeywordRatio:  shortRatio,
		longKeywordRatio:   longRatio,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// MatchPercentage returns the share of names judged relevant to keyword as a
// percentage rounded to two decimals. It returns 0.0 for empty input and
// never panics: an internal failure is logged and scored as 0.0.
func (m *KeywordMatcher) MatchPercentage(names []string, keyword string) (percentage float64) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[MATCH] Recovered while scoring %q: %v", keyword, r)
			percentage = 0.0
		}
	}()

	keyword = strings.TrimSpace(keyword)
	if len(names) == 0 || keyword == "" {
		return 0.0
	}

	keywordNorm := m.normalizer.Normalize(keyword)
	keywordLower := strings.ToLower(keyword)

	matches := 0
	for _, name := range names {
		if m.isMatch(name, keywordNorm, keywordLower) {
			matches++
		}
	}

	return roundTo(100*float64(matches)/float64(len(names)), 2)
}

// isMatch applies the length-dependent strategy to a single name.
// Short keywords score unreliably against long titles, so they also accept a
// raw substring hit and use a looser ratio.
func (m *KeywordMatcher) isMatch(name, keywordNorm, keywordLower string) bool {
	nameNorm := m.normalizer.Normalize(name)

	// An all-stop-word keyword normalizes to "" and so matches every name
	if strings.Contains(nameNorm, keywordNorm) {
		return true
	}

	if utf8.RuneCountInString(keywordNorm) <= m.shortKeywordLength {
		if strings.Contains(strings.ToLower(name), keywordLower) {
			return true
		}
		score := Ratio(keywordNorm, nameNorm)
		if m.enableDebugLogging {
			log.Printf("[MATCH] %q vs %q: ratio=%.3f (short)", keywordNorm, nameNorm, score)
		}
		return score > m.shortKeywordRatio
	}

	score := Ratio(keywordNorm, nameNorm)
	if m.enableDebugLogging {
		log.Printf("[MATCH] %q vs %q: ratio=%.3f", keywordNorm, nameNorm, score)
	}
	return score > m.longKeywordRatio
}

// roundTo rounds v to the given number of decimal places
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
