package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/shopsense/backend/internal/domain"
)

const (
	defaultSuggestionCount = 5
	maxSuggestionCount     = 10
)

// suggestionTrimChars are the bullet and numbering characters stripped from
// each line of the collaborator's reply.
const suggestionTrimChars = "-•1234567890. "

// SuggestionService proposes related search phrases for a query
type SuggestionService struct {
	suggester domain.Suggester
}

// NewSuggestionService creates a suggestion service; suggester may be nil
func NewSuggestionService(suggester domain.Suggester) *SuggestionService {
	return &SuggestionService{suggester: suggester}
}

// Suggest returns up to count related search phrases (5 by default, at most
// 10). Collaborator failures yield an empty list.
func (s *SuggestionService) Suggest(ctx context.Context, query string, count int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}

	if count <= 0 {
		count = defaultSuggestionCount
	}
	if count > maxSuggestionCount {
		count = maxSuggestionCount
	}

	if s.suggester == nil {
		return []string{}, nil
	}

	raw, err := s.suggester.Suggest(ctx, query, count)
	if err != nil {
		log.Printf("[SUGGEST] Suggestion fallback for %q: %v", query, err)
		return []string{}, nil
	}

	return parseSuggestions(raw, count), nil
}

// parseSuggestions splits a reply into one phrase per line, strips bullets
// and numbering, and drops lines of 3 characters or fewer.
func parseSuggestions(raw string, count int) []string {
	suggestions := []string{}
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if len(strings.TrimSpace(line)) <= 3 {
			continue
		}

		phrase := strings.TrimSpace(strings.Trim(strings.TrimSpace(line), suggestionTrimChars))
		if phrase == "" {
			continue
		}

		suggestions = append(suggestions, phrase)
		if len(suggestions) == count {
			break
		}
	}
	return suggestions
}
