package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/shopsense/backend/internal/domain"
)

// mockScraper is a mock implementation of domain.ProductScraper
type mockScraper struct {
	listings []domain.SourceProducts
	err      error
	panicVal interface{}
	block    chan struct{} // when set, Scrape waits on it and ignores ctx
	keywords []string
	mu       sync.Mutex
}

func (m *mockScraper) Scrape(ctx context.Context, keyword string) ([]domain.SourceProducts, error) {
	m.mu.Lock()
	m.keywords = append(m.keywords, keyword)
	m.mu.Unlock()

	if m.block != nil {
		<-m.block
	}
	if m.panicVal != nil {
		panic(m.panicVal)
	}
	return m.listings, m.err
}

// mockSummarizer is a mock implementation of domain.Summarizer
type mockSummarizer struct {
	summary  string
	err      error
	panicVal interface{}
	requests []domain.SummaryRequest
}

func (m *mockSummarizer) Summarize(ctx context.Context, req domain.SummaryRequest) (string, error) {
	m.requests = append(m.requests, req)
	if m.panicVal != nil {
		panic(m.panicVal)
	}
	return m.summary, m.err
}

// mockSearcher is a mock implementation of domain.WebSearcher
type mockSearcher struct {
	links   []domain.SearchLink
	err     error
	queries []string
}

func (m *mockSearcher) Search(ctx context.Context, query string) ([]domain.SearchLink, error) {
	m.queries = append(m.queries, query)
	return m.links, m.err
}

// mockSuggester is a mock implementation of domain.Suggester
type mockSuggester struct {
	reply  string
	err    error
	counts []int
}

func (m *mockSuggester) Suggest(ctx context.Context, query string, count int) (string, error) {
	m.counts = append(m.counts, count)
	return m.reply, m.err
}

// mockObserver records stage timings and failures
type mockObserver struct {
	mu       sync.Mutex
	stages   []string
	failures map[string]int
}

func newMockObserver() *mockObserver {
	return &mockObserver{failures: make(map[string]int)}
}

func (m *mockObserver) ObserveStage(stage string, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stages = append(m.stages, stage)
}

func (m *mockObserver) IncFailure(collaborator string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[collaborator]++
}

// mockCacheRepository is a mock implementation of domain.CacheRepository
// that stores JSON like the memory cache does
type mockCacheRepository struct {
	data     map[string][]byte
	getError error
	setError error
	setCalls int
}

func newMockCacheRepository() *mockCacheRepository {
	return &mockCacheRepository{data: make(map[string][]byte)}
}

func (m *mockCacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	if m.getError != nil {
		return m.getError
	}
	raw, ok := m.data[key]
	if !ok {
		return domain.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.setCalls++
	if m.setError != nil {
		return m.setError
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *mockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// mockWishlistRepository is an in-memory domain.WishlistRepository
type mockWishlistRepository struct {
	items     []domain.WishlistItem
	loadError error
	saveError error
	saves     int
}

func (m *mockWishlistRepository) Load(ctx context.Context) ([]domain.WishlistItem, error) {
	if m.loadError != nil {
		return nil, m.loadError
	}
	return append([]domain.WishlistItem(nil), m.items...), nil
}

func (m *mockWishlistRepository) Save(ctx context.Context, items []domain.WishlistItem) error {
	m.saves++
	if m.saveError != nil {
		return m.saveError
	}
	m.items = append([]domain.WishlistItem(nil), items...)
	return nil
}
