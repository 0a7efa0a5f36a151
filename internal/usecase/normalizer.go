package usecase

import (
	"strings"
)

// defaultStopWords are tokens that never help tell two listings apart:
// colors, sizes, generic qualifiers and cosmetic-domain filler.
var defaultStopWords = []string{
	// Colors
	"red", "blue", "black", "white", "green", "yellow", "pink", "purple",
	"orange", "brown", "grey", "gray", "navy", "maroon", "beige", "gold",
	"silver", "peach", "teal", "multicolor", "multicolour", "multi",

	// Sizes
	"xs", "s", "m", "l", "xl", "xxl", "xxxl", "2xl", "3xl",
	"small", "medium", "large", "size",

	// Generic qualifiers
	"combo", "pack", "kit", "set", "for", "with", "and", "of", "the",
	"new", "latest", "premium", "original",

	// Cosmetic filler
	"matte", "glossy", "shimmer", "shade", "shades", "finish", "long",
	"lasting", "longlasting", "waterproof", "lightweight", "formula",
	"enriched", "infused", "hydrating", "nourishing",
}

// Normalizer reduces product names and brands to a canonical comparable form.
// It holds only read-only state and is safe for concurrent use.
type Normalizer struct {
	stopWords map[string]struct{}
}

// NewNormalizer creates a normalizer with the default stop words plus extra.
func NewNormalizer(extra []string) *Normalizer {
	stopWords := make(map[string]struct{}, len(defaultStopWords)+len(extra))
	for _, w := range defaultStopWords {
		stopWords[w] = struct{}{}
	}
	for _, w := range extra {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			stopWords[w] = struct{}{}
		}
	}
	return &Normalizer{stopWords: stopWords}
}

// Normalize lowercases text, drops stop-word tokens and rejoins the
// survivors with single spaces in their original order.
// Normalizing already-normalized text returns it unchanged.
func (n *Normalizer) Normalize(text string) string {
	return strings.Join(n.Tokens(text), " ")
}

// Tokens returns the normalized tokens of text
func (n *Normalizer) Tokens(text string) []string {
	words := strings.Fields(strings.ToLower(text))

	kept := make([]string, 0, len(words))
	for _, word := range words {
		if _, stop := n.stopWords[word]; stop {
			continue
		}
		kept = append(kept, word)
	}
	return kept
}

// IsStopWord reports whether word is filtered by the normalizer
func (n *Normalizer) IsStopWord(word string) bool {
	_, ok := n.stopWords[strings.ToLower(word)]
	return ok
}
