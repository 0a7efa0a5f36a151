package usecase

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopsense/backend/internal/domain"
)

var testSources = []domain.SourceName{"myntra", "ajio", "nykaa"}

func testListings() []domain.SourceProducts {
	return []domain.SourceProducts{
		{Source: "myntra", Products: []domain.Product{
			{Name: "Biba Cotton Kurta", Brand: "Biba", Link: "https://myntra.com/1"},
			{Name: "Biba Cotton Kurta Red", Brand: "Biba", Link: "https://myntra.com/2"},
			{Name: "W Palazzo", Brand: "W", Link: "https://myntra.com/3"},
		}},
		{Source: "ajio", Products: []domain.Product{
			{Name: "Biba Cotton Kurta", Brand: "Biba", Link: "https://ajio.com/1"},
		}},
		{Source: "nykaa", Products: []domain.Product{}},
	}
}

func newTestComparisonService(scraper domain.ProductScraper, summarizer domain.Summarizer, searcher domain.WebSearcher, observer StageObserver) *ComparisonService {
	return NewComparisonService(scraper, summarizer, searcher, observer, ComparisonServiceConfig{
		Sources:       testSources,
		SourceDomains: []string{"myntra.com", "ajio.com", "nykaa.com"},
		ScrapeTimeout: time.Second,
	})
}

func assertDegradedResult(t *testing.T, result *domain.ComparisonResult) {
	t.Helper()
	if len(result.Sources) != len(testSources) {
		t.Fatalf("len(Sources) = %d, want %d", len(result.Sources), len(testSources))
	}
	for i, source := range result.Sources {
		if source.Source != testSources[i] {
			t.Errorf("Sources[%d] = %s, want %s", i, source.Source, testSources[i])
		}
		if source.Total != 0 || source.MatchPercentage != 0 || len(source.TopProducts) != 0 {
			t.Errorf("source %s = %+v, want zero totals", source.Source, source)
		}
	}
	if result.MatchedProducts == nil || len(result.MatchedProducts) != 0 {
		t.Errorf("MatchedProducts = %v, want empty list", result.MatchedProducts)
	}
	if result.Summary != SummaryPlaceholder {
		t.Errorf("Summary = %q, want placeholder", result.Summary)
	}
}

func TestNewComparisonService(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		svc := NewComparisonService(&mockScraper{}, nil, nil, nil, ComparisonServiceConfig{})
		if svc.scrapeTimeout != 45*time.Second {
			t.Errorf("scrapeTimeout = %v, want 45s (default)", svc.scrapeTimeout)
		}
		if svc.topK != 5 {
			t.Errorf("topK = %d, want 5 (default)", svc.topK)
		}
		if svc.summarySampleSize != 5 {
			t.Errorf("summarySampleSize = %d, want 5 (default)", svc.summarySampleSize)
		}
	})

	t.Run("debug logging flag reaches the stages", func(t *testing.T) {
		svc := NewComparisonService(&mockScraper{}, nil, nil, nil, ComparisonServiceConfig{
			Matching: MatchingConfig{EnableDebugLogging: true},
		})
		if !svc.matcher.enableDebugLogging || !svc.linker.enableDebugLogging {
			t.Errorf("debug logging not propagated")
		}
	})
}

func TestCompare(t *testing.T) {
	ctx := context.Background()

	t.Run("returns error for blank keyword", func(t *testing.T) {
		scraper := &mockScraper{}
		svc := newTestComparisonService(scraper, nil, nil, nil)

		_, err := svc.Compare(ctx, "   ")
		if !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("error = %v, want ErrInvalidRequest", err)
		}
		if len(scraper.keywords) != 0 {
			t.Errorf("scraper called for blank keyword")
		}
	})

	t.Run("builds full result", func(t *testing.T) {
		summarizer := &mockSummarizer{summary: "  Biba kurtas are on both sites. "}
		searcher := &mockSearcher{links: []domain.SearchLink{{Title: "Biba", Link: "https://biba.in"}}}
		observer := newMockObserver()
		scraper := &mockScraper{listings: testListings()}
		svc := newTestComparisonService(scraper, summarizer, searcher, observer)

		result, err := svc.Compare(ctx, " kurta ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Keyword != "kurta" || scraper.keywords[0] != "kurta" {
			t.Errorf("keyword not trimmed: result %q, scraper %q", result.Keyword, scraper.keywords[0])
		}

		myntra, _ := result.Source("myntra")
		if myntra.Total != 3 {
			t.Errorf("myntra Total = %d, want 3", myntra.Total)
		}
		if myntra.MatchPercentage != 66.67 {
			t.Errorf("myntra MatchPercentage = %v, want 66.67", myntra.MatchPercentage)
		}
		if len(myntra.TopProducts) != 2 {
			t.Errorf("myntra TopProducts = %d, want 2 after dedupe", len(myntra.TopProducts))
		}

		nykaa, ok := result.Source("nykaa")
		if !ok || nykaa.Total != 0 || nykaa.MatchPercentage != 0 {
			t.Errorf("nykaa = %+v, want present with zero totals", nykaa)
		}

		if len(result.MatchedProducts) != 1 {
			t.Fatalf("len(MatchedProducts) = %d, want 1", len(result.MatchedProducts))
		}
		group := result.MatchedProducts[0]
		if group["myntra"].Link != "https://myntra.com/1" || group["ajio"].Link != "https://ajio.com/1" {
			t.Errorf("group = %v, want myntra/1 and ajio/1", group)
		}

		if result.Summary != "Biba kurtas are on both sites." {
			t.Errorf("Summary = %q", result.Summary)
		}
		if !reflect.DeepEqual(result.SearchLinks, searcher.links) {
			t.Errorf("SearchLinks = %v, want %v", result.SearchLinks, searcher.links)
		}
		if searcher.queries[0] != "kurta site:myntra.com OR site:ajio.com OR site:nykaa.com" {
			t.Errorf("search query = %q", searcher.queries[0])
		}

		wantStages := []string{StageScrape, StageMatch, StageDedupe, StageLink, StageSummary, StageSearch, StageTotal}
		if !reflect.DeepEqual(observer.stages, wantStages) {
			t.Errorf("stages = %v, want %v", observer.stages, wantStages)
		}
		if len(observer.failures) != 0 {
			t.Errorf("failures = %v, want none", observer.failures)
		}
	})

	t.Run("nameless listings count toward totals but never link", func(t *testing.T) {
		scraper := &mockScraper{listings: []domain.SourceProducts{
			{Source: "myntra", Products: []domain.Product{
				{Name: "Biba Kurta", Brand: "Biba"},
				{Brand: "Biba"},
				{Price: "499"},
			}},
			{Source: "ajio", Products: []domain.Product{{Brand: "Biba"}}},
		}}
		svc := newTestComparisonService(scraper, nil, nil, nil)

		result, err := svc.Compare(ctx, "kurta")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		myntra, _ := result.Source("myntra")
		if myntra.Total != 3 {
			t.Errorf("myntra Total = %d, want 3", myntra.Total)
		}
		if myntra.MatchPercentage != 33.33 {
			t.Errorf("myntra MatchPercentage = %v, want 33.33", myntra.MatchPercentage)
		}
		if len(myntra.TopProducts) != 2 {
			t.Errorf("myntra TopProducts = %d, want 2 (nameless listings share one slot)", len(myntra.TopProducts))
		}
		if ajio, _ := result.Source("ajio"); ajio.Total != 1 {
			t.Errorf("ajio Total = %d, want 1", ajio.Total)
		}
		if len(result.MatchedProducts) != 0 {
			t.Errorf("len(MatchedProducts) = %d, want 0", len(result.MatchedProducts))
		}
	})

	t.Run("summary receives a sample of each source and the groups", func(t *testing.T) {
		many := make([]domain.Product, 8)
		for i := range many {
			many[i] = domain.Product{Name: "Kurta " + string(rune('A'+i))}
		}
		summarizer := &mockSummarizer{summary: "ok"}
		svc := NewComparisonService(
			&mockScraper{listings: []domain.SourceProducts{{Source: "myntra", Products: many}}},
			summarizer, nil, nil,
			ComparisonServiceConfig{
				Sources:  []domain.SourceName{"myntra", "ajio"},
				Matching: MatchingConfig{SummarySampleSize: 3},
			},
		)

		if _, err := svc.Compare(ctx, "kurta"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		req := summarizer.requests[0]
		if req.Keyword != "kurta" {
			t.Errorf("Keyword = %q, want kurta", req.Keyword)
		}
		if len(req.Samples) != 2 || len(req.Samples[0].Products) != 3 || len(req.Samples[1].Products) != 0 {
			t.Errorf("Samples = %+v, want 3 myntra and 0 ajio products", req.Samples)
		}
	})

	t.Run("scraper error degrades to empty result", func(t *testing.T) {
		observer := newMockObserver()
		summarizer := &mockSummarizer{err: errors.New("no llm")}
		svc := newTestComparisonService(&mockScraper{err: domain.ErrScrapeFailed}, summarizer, nil, observer)

		result, err := svc.Compare(ctx, "kurta")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertDegradedResult(t, result)
		if observer.failures[StageScrape] != 1 {
			t.Errorf("scrape failures = %d, want 1", observer.failures[StageScrape])
		}
	})

	t.Run("scraper panic degrades to empty result", func(t *testing.T) {
		svc := newTestComparisonService(&mockScraper{panicVal: "boom"}, nil, nil, nil)

		result, err := svc.Compare(ctx, "kurta")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertDegradedResult(t, result)
	})

	t.Run("scraper ignoring cancellation is abandoned at the timeout", func(t *testing.T) {
		block := make(chan struct{})
		defer close(block)

		svc := NewComparisonService(&mockScraper{block: block, listings: testListings()}, nil, nil, nil, ComparisonServiceConfig{
			Sources:       testSources,
			ScrapeTimeout: 50 * time.Millisecond,
		})

		start := time.Now()
		result, err := svc.Compare(ctx, "kurta")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if elapsed := time.Since(start); elapsed > 2*time.Second {
			t.Errorf("Compare took %v, want about the scrape timeout", elapsed)
		}
		assertDegradedResult(t, result)
	})

	t.Run("unknown sources are ignored and tags matched case-insensitively", func(t *testing.T) {
		svc := newTestComparisonService(&mockScraper{listings: []domain.SourceProducts{
			{Source: "flipkart", Products: []domain.Product{{Name: "Kurta"}}},
			{Source: "MYNTRA", Products: []domain.Product{{Name: "Kurta"}, {Name: "Shirt"}}},
		}}, nil, nil, nil)

		result, err := svc.Compare(ctx, "kurta")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Sources) != 3 {
			t.Fatalf("len(Sources) = %d, want 3", len(result.Sources))
		}
		if _, ok := result.Source("flipkart"); ok {
			t.Errorf("unknown source flipkart should be ignored")
		}
		myntra, _ := result.Source("myntra")
		if myntra.Total != 2 {
			t.Errorf("myntra Total = %d, want 2", myntra.Total)
		}
	})

	t.Run("summary failures fall back to the placeholder", func(t *testing.T) {
		cases := map[string]*mockSummarizer{
			"error": {err: domain.ErrSummaryFailed},
			"empty": {summary: "   "},
			"panic": {panicVal: "llm exploded"},
		}
		for name, summarizer := range cases {
			t.Run(name, func(t *testing.T) {
				svc := newTestComparisonService(&mockScraper{listings: testListings()}, summarizer, nil, nil)
				result, err := svc.Compare(ctx, "kurta")
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if result.Summary != SummaryPlaceholder {
					t.Errorf("Summary = %q, want placeholder", result.Summary)
				}
				if len(result.MatchedProducts) != 1 {
					t.Errorf("summary failure should not affect groups")
				}
			})
		}
	})

	t.Run("nil summarizer and searcher", func(t *testing.T) {
		svc := newTestComparisonService(&mockScraper{listings: testListings()}, nil, nil, nil)

		result, err := svc.Compare(ctx, "kurta")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Summary != SummaryPlaceholder {
			t.Errorf("Summary = %q, want placeholder", result.Summary)
		}
		if result.SearchLinks == nil || len(result.SearchLinks) != 0 {
			t.Errorf("SearchLinks = %v, want empty list", result.SearchLinks)
		}
	})

	t.Run("search failure yields empty links", func(t *testing.T) {
		observer := newMockObserver()
		svc := newTestComparisonService(&mockScraper{listings: testListings()}, nil, &mockSearcher{err: domain.ErrSearchFailed}, observer)

		result, err := svc.Compare(ctx, "kurta")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.SearchLinks == nil || len(result.SearchLinks) != 0 {
			t.Errorf("SearchLinks = %v, want empty list", result.SearchLinks)
		}
		if observer.failures[StageSearch] != 1 {
			t.Errorf("search failures = %d, want 1", observer.failures[StageSearch])
		}
	})
}

func TestCompare_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestComparisonService(&mockScraper{listings: testListings()}, &mockSummarizer{summary: "same"}, nil, nil)

	first, err := svc.Compare(ctx, "kurta")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Compare(ctx, "kurta")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestCompare_DoesNotMutateScraperOutput(t *testing.T) {
	listings := testListings()
	svc := newTestComparisonService(&mockScraper{listings: listings}, nil, nil, nil)

	result, err := svc.Compare(context.Background(), "kurta")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result.MatchedProducts[0]["myntra"].Name = "changed"
	if listings[0].Products[0].Name != "Biba Cotton Kurta" {
		t.Errorf("scraper output was mutated through the result")
	}
}

func TestBuildSiteQuery(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		domains []string
		want    string
	}{
		{"two domains", "kurta", []string{"myntra.com", "ajio.com"}, "kurta site:myntra.com OR site:ajio.com"},
		{"no domains", "kurta", nil, "kurta"},
		{"blank domains skipped", "kurta", []string{" ", "nykaa.com"}, "kurta site:nykaa.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildSiteQuery(tt.keyword, tt.domains); got != tt.want {
				t.Errorf("BuildSiteQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}
