package domain

import (
	"context"
	"time"
)

// ProductScraper returns per-source product listings for a keyword.
// Implementations may omit sources they could not scrape.
type ProductScraper interface {
	Scrape(ctx context.Context, keyword string) ([]SourceProducts, error)
}

// Summarizer phrases a short natural-language comparison
type Summarizer interface {
	Summarize(ctx context.Context, request SummaryRequest) (string, error)
}

// Suggester returns raw text listing search phrases related to a query
type Suggester interface {
	Suggest(ctx context.Context, query string, count int) (string, error)
}

// WebSearcher runs an auxiliary web search and returns ordered hits
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]SearchLink, error)
}

// CacheRepository defines the interface for caching operations.
// Get decodes the cached value into dest.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// WishlistRepository persists the wishlist as a whole
type WishlistRepository interface {
	Load(ctx context.Context) ([]WishlistItem, error)
	Save(ctx context.Context, items []WishlistItem) error
}
