// Package app wires configuration into the comparison services.
package app

import (
	"log"

	"github.com/shopsense/backend/config"
	"github.com/shopsense/backend/internal/domain"
	"github.com/shopsense/backend/internal/infrastructure/cache"
	"github.com/shopsense/backend/internal/infrastructure/metrics"
	"github.com/shopsense/backend/internal/infrastructure/ollama"
	"github.com/shopsense/backend/internal/infrastructure/scraper"
	"github.com/shopsense/backend/internal/infrastructure/serper"
	"github.com/shopsense/backend/internal/infrastructure/wishlist"
	"github.com/shopsense/backend/internal/usecase"
)

// App holds the constructed services and the resources they share
type App struct {
	Comparison  *usecase.ComparisonService
	Suggestions *usecase.SuggestionService
	Wishlist    *usecase.WishlistService
	Metrics     *metrics.Metrics

	cache *cache.MemoryCache
}

// New builds all services from cfg. Call Close when done.
func New(cfg *config.Config) *App {
	debug := cfg.Server.Environment == "development" || cfg.Matching.EnableDebugLogging

	m := metrics.NewMetrics()
	memoryCache := cache.NewMemoryCache(0)
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	llm := ollama.NewClient(cfg.Ollama.BaseURL, cfg.Ollama.Model, cfg.Ollama.Timeout)
	llm.SetDebug(debug)
	log.Printf("Ollama configured: %s (model: %s)", cfg.Ollama.BaseURL, cfg.Ollama.Model)

	var searcher domain.WebSearcher
	if cfg.Serper.APIKey != "" {
		client := serper.NewClient(cfg.Serper.APIKey, cfg.Serper.BaseURL, cfg.Serper.MaxResults)
		searcher = usecase.NewCachedSearcher(client, memoryCache, cfg.Cache.TTL)
		log.Printf("Serper configured: %s (max results: %d)", cfg.Serper.BaseURL, cfg.Serper.MaxResults)
	} else {
		log.Printf("WARNING: Serper API key not configured - search links disabled")
	}

	sources := make([]domain.SourceName, 0, len(cfg.Sources))
	for _, name := range cfg.SourceNames() {
		sources = append(sources, domain.SourceName(name))
	}

	comparison := usecase.NewComparisonService(
		newScraper(cfg, sources, debug),
		llm,
		searcher,
		m,
		usecase.ComparisonServiceConfig{
			Sources:       sources,
			SourceDomains: cfg.SourceDomains(),
			ScrapeTimeout: cfg.Scraper.Timeout,
			Matching: usecase.MatchingConfig{
				ExtraStopWords: cfg.Matching.ExtraStopWords,
				Keyword: usecase.KeywordMatchConfig{
					ShortKeywordLength: cfg.Matching.ShortKeywordLength,
					ShortKeywordRatio:  cfg.Matching.ShortKeywordRatio,
					LongKeywordRatio:   cfg.Matching.LongKeywordRatio,
				},
				Link: usecase.LinkConfig{
					NameRatio:        cfg.Matching.LinkNameRatio,
					CloseMatchCutoff: cfg.Matching.CloseMatchCutoff,
					MinSharedTokens:  cfg.Matching.MinSharedTokens,
				},
				TopK:               cfg.Matching.TopK,
				SummarySampleSize:  cfg.Matching.SummarySampleSize,
				EnableDebugLogging: cfg.Matching.EnableDebugLogging,
			},
		},
	)

	log.Printf("Matching: short<=%d ratio=%.2f/%.2f, link ratio=%.2f cutoff=%.2f tokens=%d, debug=%v",
		cfg.Matching.ShortKeywordLength,
		cfg.Matching.ShortKeywordRatio,
		cfg.Matching.LongKeywordRatio,
		cfg.Matching.LinkNameRatio,
		cfg.Matching.CloseMatchCutoff,
		cfg.Matching.MinSharedTokens,
		cfg.Matching.EnableDebugLogging)

	return &App{
		Comparison:  comparison,
		Suggestions: usecase.NewSuggestionService(llm),
		Wishlist:    usecase.NewWishlistService(wishlist.NewFileStore(cfg.Wishlist.Path)),
		Metrics:     m,
		cache:       memoryCache,
	}
}

// Close releases background resources
func (a *App) Close() {
	a.cache.Close()
}

// newScraper selects the scrape collaborator for the configured mode
func newScraper(cfg *config.Config, sources []domain.SourceName, debug bool) domain.ProductScraper {
	if cfg.Scraper.Mode == "http" {
		s := scraper.NewHTTPScraper(cfg.Scraper.BaseURL, sources, cfg.Scraper.Concurrency, cfg.RateLimit.Scraper)
		s.SetDebug(debug)
		log.Printf("Scraper: http %s (concurrency: %d)", cfg.Scraper.BaseURL, cfg.Scraper.Concurrency)
		return s
	}

	s := scraper.NewCommandScraper(cfg.Scraper.Command)
	s.SetDebug(debug)
	log.Printf("Scraper: command %v (timeout: %s)", cfg.Scraper.Command, cfg.Scraper.Timeout)
	return s
}
