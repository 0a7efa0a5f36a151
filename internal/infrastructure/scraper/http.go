package scraper

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/shopsense/backend/internal/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// maxResponseBytes caps a single source response
const maxResponseBytes = 5 << 20

// HTTPScraper fetches each source from a scraper service concurrently:
// GET {baseURL}/scrape/{source}?q={keyword} returning a product array.
type HTTPScraper struct {
	httpClient  *http.Client
	baseURL     string
	sources     []domain.SourceName
	concurrency int
	rateLimiter *rate.Limiter
	debug       bool
}

// NewHTTPScraper creates a per-source scraper client.
// requestsPerMinute <= 0 disables client-side rate limiting.
func NewHTTPScraper(baseURL string, sources []domain.SourceName, concurrency, requestsPerMinute int) *HTTPScraper {
	if concurrency <= 0 {
		concurrency = len(sources)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), requestsPerMinute)
	}

	return &HTTPScraper{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseURL:     baseURL,
		sources:     sources,
		concurrency: concurrency,
		rateLimiter: limiter,
	}
}

// SetDebug enables or disables debug logging
func (s *HTTPScraper) SetDebug(debug bool) {
	s.debug = debug
}

// Scrape fetches every source concurrently. A failing source contributes an
// empty list; an error is returned only when every source fails.
func (s *HTTPScraper) Scrape(ctx context.Context, keyword string) ([]domain.SourceProducts, error) {
	listings := make([]domain.SourceProducts, len(s.sources))
	errs := make([]error, len(s.sources))

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for i, source := range s.sources {
		g.Go(func() error {
			products, err := s.fetchSource(ctx, source, keyword)
			if err != nil {
				log.Printf("[SCRAPER] %s failed for %q: %v", source, keyword, err)
				errs[i] = err
				products = []domain.Product{}
			}
			listings[i] = domain.SourceProducts{Source: source, Products: products}
			return nil
		})
	}
	// Workers record failures in errs and never return an error
	g.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if len(s.sources) > 0 && failed == len(s.sources) {
		return nil, fmt.Errorf("%w: all %d sources failed: %w", domain.ErrScrapeFailed, failed, errs[0])
	}

	return listings, nil
}

// fetchSource issues a single source request
func (s *HTTPScraper) fetchSource(ctx context.Context, source domain.SourceName, keyword string) ([]domain.Product, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	params := url.Values{}
	params.Add("q", keyword)
	reqURL := fmt.Sprintf("%s/scrape/%s?%s", s.baseURL, url.PathEscape(string(source)), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "ShopSense/1.0")

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrScrapeFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrScrapeFailed, resp.StatusCode)
	}

	products, err := decodeProducts(string(source), body)
	if err != nil {
		return nil, err
	}

	if s.debug {
		log.Printf("[SCRAPER] %s: %d products in %s", source, len(products), time.Since(start).Round(time.Millisecond))
	}
	return products, nil
}

// SetHTTPClient replaces the underlying HTTP client
func (s *HTTPScraper) SetHTTPClient(client *http.Client) {
	s.httpClient = client
}
