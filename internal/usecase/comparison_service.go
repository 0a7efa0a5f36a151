package usecase

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopsense/backend/internal/domain"
)

// SummaryPlaceholder is returned when the summary collaborator is unavailable
const SummaryPlaceholder = "Summary unavailable."

// Pipeline stage and collaborator labels used for timing and failure counts
const (
	StageScrape  = "scrape"
	StageMatch   = "match"
	StageDedupe  = "dedupe"
	StageLink    = "link"
	StageSummary = "summary"
	StageSearch  = "search"
	StageTotal   = "total"
)

// StageObserver records pipeline timings and collaborator failures
type StageObserver interface {
	ObserveStage(stage string, d time.Duration)
	IncFailure(collaborator string)
}

// MatchingConfig groups the tunable thresholds of the pure pipeline stages
type MatchingConfig struct {
	ExtraStopWords     []string
	Keyword            KeywordMatchConfig
	Link               LinkConfig
	TopK               int
	SummarySampleSize  int
	EnableDebugLogging bool
}

// ComparisonServiceConfig holds configuration for the comparison service
type ComparisonServiceConfig struct {
	Sources       []domain.SourceName
	SourceDomains []string
	ScrapeTimeout time.Duration
	Matching      MatchingConfig
}

// ComparisonService runs the keyword comparison pipeline:
// scrape -> match -> dedupe -> link -> summary/search.
type ComparisonService struct {
	scraper    domain.ProductScraper
	summarizer domain.Summarizer
	searcher   domain.WebSearcher
	observer   StageObserver

	matcher      *KeywordMatcher
	deduplicator *Deduplicator
	linker       *Linker

	sources           []domain.SourceName
	sourceDomains     []string
	scrapeTimeout     time.Duration
	topK              int
	summarySampleSize int
}

// NewComparisonService creates a comparison service with dependencies.
// summarizer, searcher and observer may be nil.
func NewComparisonService(
	scraper domain.ProductScraper,
	summarizer domain.Summarizer,
	searcher domain.WebSearcher,
	observer StageObserver,
	config ComparisonServiceConfig,
) *ComparisonService {
	normalizer := NewNormalizer(config.Matching.ExtraStopWords)

	keywordConfig := config.Matching.Keyword
	keywordConfig.EnableDebugLogging = keywordConfig.EnableDebugLogging || config.Matching.EnableDebugLogging
	linkConfig := config.Matching.Link
	linkConfig.EnableDebugLogging = linkConfig.EnableDebugLogging || config.Matching.EnableDebugLogging

	scrapeTimeout := config.ScrapeTimeout
	if scrapeTimeout <= 0 {
		scrapeTimeout = 45 * time.Second
	}

	topK := config.Matching.TopK
	if topK <= 0 {
		topK = defaultDedupeLimit
	}

	sampleSize := config.Matching.SummarySampleSize
	if sampleSize <= 0 {
		sampleSize = 5
	}

	return &ComparisonService{
		scraper:           scraper,
		summarizer:        summarizer,
		searcher:          searcher,
		observer:          observer,
		matcher:           NewKeywordMatcher(normalizer, keywordConfig),
		deduplicator:      NewDeduplicator(normalizer),
		linker:            NewLinker(normalizer, linkConfig),
		sources:           config.Sources,
		sourceDomains:     config.SourceDomains,
		scrapeTimeout:     scrapeTimeout,
		topK:              topK,
		summarySampleSize: sampleSize,
	}
}

// Compare builds the comparison for a keyword.
// The only error is ErrInvalidRequest for a blank keyword; collaborator
// failures degrade the affected fields to empty or placeholder values.
func (s *ComparisonService) Compare(ctx context.Context, keyword string) (*domain.ComparisonResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, domain.ErrInvalidRequest
	}

	log.Printf("[COMPARE] Processing keyword: %q", keyword)
	started := time.Now()

	stageStart := time.Now()
	listings := s.scrape(ctx, keyword)
	s.observe(StageScrape, stageStart)

	result := &domain.ComparisonResult{
		Keyword:         keyword,
		Sources:         make([]domain.SourceResult, len(listings)),
		MatchedProducts: []domain.MatchedGroup{},
		SearchLinks:     []domain.SearchLink{},
	}

	stageStart = time.Now()
	for i, sp := range listings {
		result.Sources[i] = domain.SourceResult{
			Source:          sp.Source,
			MatchPercentage: s.matcher.MatchPercentage(matcherInputs(sp.Products), keyword),
			Total:           len(sp.Products),
		}
	}
	s.observe(StageMatch, stageStart)

	stageStart = time.Now()
	for i, sp := range listings {
		result.Sources[i].TopProducts = s.deduplicator.Dedupe(sp.Products, s.topK)
	}
	s.observe(StageDedupe, stageStart)

	stageStart = time.Now()
	if groups := s.linker.Link(listings); groups != nil {
		result.MatchedProducts = groups
	}
	s.observe(StageLink, stageStart)

	stageStart = time.Now()
	result.Summary = s.summarize(ctx, keyword, listings, result.MatchedProducts)
	s.observe(StageSummary, stageStart)

	stageStart = time.Now()
	result.SearchLinks = s.searchLinks(ctx, keyword)
	s.observe(StageSearch, stageStart)

	s.observe(StageTotal, started)
	log.Printf("[COMPARE] %q: %d sources, %d matched groups in %s",
		keyword, len(result.Sources), len(result.MatchedProducts), time.Since(started).Round(time.Millisecond))

	return result, nil
}

// scrape calls the scrape collaborator under the hard timeout and aligns the
// output to the configured sources. Any failure yields empty lists.
func (s *ComparisonService) scrape(ctx context.Context, keyword string) []domain.SourceProducts {
	ctx, cancel := context.WithTimeout(ctx, s.scrapeTimeout)
	defer cancel()

	type outcome struct {
		listings []domain.SourceProducts
		err      error
	}

	// Buffered so an abandoned collaborator can still finish and exit
	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("%w: panic: %v", domain.ErrScrapeFailed, r)}
			}
		}()
		listings, err := s.scraper.Scrape(ctx, keyword)
		done <- outcome{listings: listings, err: err}
	}()

	var raw []domain.SourceProducts
	select {
	case out := <-done:
		if out.err != nil {
			log.Printf("[COMPARE] Scraper error for %q: %v", keyword, out.err)
			s.fail(StageScrape)
		} else {
			raw = out.listings
		}
	case <-ctx.Done():
		log.Printf("[COMPARE] Scraper timed out for %q after %s: %v", keyword, s.scrapeTimeout, ctx.Err())
		s.fail(StageScrape)
	}

	return s.alignSources(raw)
}

// alignSources returns exactly one entry per configured source, in
// configured order. Unknown source tags are ignored; products are copied.
func (s *ComparisonService) alignSources(raw []domain.SourceProducts) []domain.SourceProducts {
	aligned := make([]domain.SourceProducts, len(s.sources))
	index := make(map[string]int, len(s.sources))
	for i, name := range s.sources {
		aligned[i] = domain.SourceProducts{Source: name, Products: []domain.Product{}}
		index[strings.ToLower(string(name))] = i
	}

	for _, sp := range raw {
		i, ok := index[strings.ToLower(string(sp.Source))]
		if !ok {
			log.Printf("[COMPARE] Ignoring %d products from unknown source %q", len(sp.Products), sp.Source)
			continue
		}
		aligned[i].Products = append(aligned[i].Products, sp.Products...)
	}

	return aligned
}

// summarize asks the summary collaborator for a short comparison based on a
// sample of each source plus the matched groups.
func (s *ComparisonService) summarize(
	ctx context.Context,
	keyword string,
	listings []domain.SourceProducts,
	groups []domain.MatchedGroup,
) string {
	if s.summarizer == nil {
		return SummaryPlaceholder
	}

	samples := make([]domain.SourceProducts, len(listings))
	for i, sp := range listings {
		n := min(s.summarySampleSize, len(sp.Products))
		samples[i] = domain.SourceProducts{Source: sp.Source, Products: sp.Products[:n:n]}
	}

	summary, err := s.callSummarizer(ctx, domain.SummaryRequest{Keyword: keyword, Samples: samples, Groups: groups})
	if err != nil {
		log.Printf("[COMPARE] Summary fallback for %q: %v", keyword, err)
		s.fail(StageSummary)
		return SummaryPlaceholder
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return SummaryPlaceholder
	}
	return summary
}

func (s *ComparisonService) callSummarizer(ctx context.Context, request domain.SummaryRequest) (summary string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", domain.ErrSummaryFailed, r)
		}
	}()
	return s.summarizer.Summarize(ctx, request)
}

// searchLinks runs the auxiliary web search restricted to the source domains
func (s *ComparisonService) searchLinks(ctx context.Context, keyword string) []domain.SearchLink {
	if s.searcher == nil {
		return []domain.SearchLink{}
	}

	links, err := s.callSearcher(ctx, BuildSiteQuery(keyword, s.sourceDomains))
	if err != nil {
		log.Printf("[COMPARE] Search fallback for %q: %v", keyword, err)
		s.fail(StageSearch)
		return []domain.SearchLink{}
	}
	if links == nil {
		return []domain.SearchLink{}
	}
	return links
}

func (s *ComparisonService) callSearcher(ctx context.Context, query string) (links []domain.SearchLink, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", domain.ErrSearchFailed, r)
		}
	}()
	return s.searcher.Search(ctx, query)
}

func (s *ComparisonService) observe(stage string, start time.Time) {
	elapsed := time.Since(start)
	log.Printf("[TIMER] %s took %.2fs", stage, elapsed.Seconds())
	if s.observer != nil {
		s.observer.ObserveStage(stage, elapsed)
	}
}

func (s *ComparisonService) fail(collaborator string) {
	if s.observer != nil {
		s.observer.IncFailure(collaborator)
	}
}

// BuildSiteQuery restricts a keyword search to the given domains,
// e.g. "kurta site:myntra.com OR site:ajio.com".
func BuildSiteQuery(keyword string, domains []string) string {
	var sites []string
	for _, d := range domains {
		if d = strings.TrimSpace(d); d != "" {
			sites = append(sites, "site:"+d)
		}
	}
	if len(sites) == 0 {
		return keyword
	}
	return keyword + " " + strings.Join(sites, " OR ")
}

// matcherInputs builds the "{brand} {name}" strings fed to the keyword matcher
func matcherInputs(products []domain.Product) []string {
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = strings.TrimSpace(p.Brand + " " + p.Name)
	}
	return names
}
