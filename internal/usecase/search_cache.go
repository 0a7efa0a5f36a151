package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopsense/backend/internal/domain"
)

// CachedSearcher serves web search results from cache before calling the
// wrapped searcher.
type CachedSearcher struct {
	searcher domain.WebSearcher
	cache    domain.CacheRepository
	ttl      time.Duration
}

// NewCachedSearcher wraps searcher with cache
func NewCachedSearcher(searcher domain.WebSearcher, cache domain.CacheRepository, ttl time.Duration) *CachedSearcher {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedSearcher{searcher: searcher, cache: cache, ttl: ttl}
}

// Search returns cached links for query, or searches and caches the result.
// Failed searches are not cached.
func (c *CachedSearcher) Search(ctx context.Context, query string) ([]domain.SearchLink, error) {
	key := generateSearchCacheKey(query)

	var cached []domain.SearchLink
	err := c.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		log.Printf("[SEARCH] Cache read failed for %q: %v", query, err)
	}

	links, err := c.searcher.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, links, c.ttl); err != nil {
		// Log but don't fail if caching fails
		log.Printf("[SEARCH] Cache write failed for %q: %v", query, err)
	}

	return links, nil
}

// generateSearchCacheKey creates a cache key from a search query.
// Format: "search:{normalized_query}"
func generateSearchCacheKey(query string) string {
	return fmt.Sprintf("search:%s", normalizeForCacheKey(query))
}

// normalizeForCacheKey lowercases s and collapses whitespace
func normalizeForCacheKey(s string) string {
	return collapseLower(s)
}
