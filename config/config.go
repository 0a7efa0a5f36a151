package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Sources   []SourceConfig
	Scraper   ScraperConfig
	Ollama    OllamaConfig
	Serper    SerperConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Matching  MatchingConfig
	Wishlist  WishlistConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SourceConfig describes one e-commerce site being compared
type SourceConfig struct {
	Name   string `mapstructure:"name"`
	Domain string `mapstructure:"domain"`
	URL    string `mapstructure:"url"`
}

// ScraperConfig selects and tunes the scrape collaborator.
// Mode "command" runs Command with the keyword appended; mode "http" calls
// {BaseURL}/scrape/{source}.
type ScraperConfig struct {
	Mode        string        `mapstructure:"mode"`
	Command     []string      `mapstructure:"command"`
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
}

// OllamaConfig holds LLM server configuration
type OllamaConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SerperConfig holds web search configuration. An empty APIKey disables
// auxiliary search links.
type SerperConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	MaxResults int    `mapstructure:"max_results"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration, in requests per minute
type RateLimitConfig struct {
	PerIP   int `mapstructure:"per_ip"`
	Scraper int `mapstructure:"scraper"`
}

// MatchingConfig holds keyword matching and cross-source linking thresholds
type MatchingConfig struct {
	ShortKeywordLength int      `mapstructure:"short_keyword_length"`
	ShortKeywordRatio  float64  `mapstructure:"short_keyword_ratio"`
	LongKeywordRatio   float64  `mapstructure:"long_keyword_ratio"`
	LinkNameRatio      float64  `mapstructure:"link_name_ratio"`
	CloseMatchCutoff   float64  `mapstructure:"close_match_cutoff"`
	MinSharedTokens    int      `mapstructure:"min_shared_tokens"`
	TopK               int      `mapstructure:"top_k"`
	SummarySampleSize  int      `mapstructure:"summary_sample_size"`
	ExtraStopWords     []string `mapstructure:"extra_stop_words"`
	EnableDebugLogging bool     `mapstructure:"enable_debug_logging"`
}

// WishlistConfig holds wishlist storage configuration
type WishlistConfig struct {
	Path string `mapstructure:"path"`
}

// SourceNames returns the configured source names in order
func (c *Config) SourceNames() []string {
	names := make([]string, 0, len(c.Sources))
	for _, s := range c.Sources {
		names = append(names, s.Name)
	}
	return names
}

// SourceDomains returns the configured source domains in order, skipping
// sources without one
func (c *Config) SourceDomains() []string {
	domains := make([]string, 0, len(c.Sources))
	for _, s := range c.Sources {
		if s.Domain != "" {
			domains = append(domains, s.Domain)
		}
	}
	return domains
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shopsense/")

	// SHOPSENSE_SERVER_PORT -> server.port
	v.SetEnvPrefix("SHOPSENSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	v.SetDefault("sources", []map[string]interface{}{
		{"name": "myntra", "domain": "myntra.com", "url": "https://www.myntra.com"},
		{"name": "ajio", "domain": "ajio.com", "url": "https://www.ajio.com"},
		{"name": "nykaa", "domain": "nykaa.com", "url": "https://www.nykaa.com"},
		{"name": "amazon", "domain": "amazon.in", "url": "https://www.amazon.in"},
	})

	// Scraper defaults
	v.SetDefault("scraper.mode", "command")
	v.SetDefault("scraper.command", []string{"python", "tools/scraper.py"})
	v.SetDefault("scraper.base_url", "http://localhost:9000")
	v.SetDefault("scraper.timeout", "45s")
	v.SetDefault("scraper.concurrency", 4)

	// LLM defaults
	v.SetDefault("ollama.base_url", "http://localhost:11434")
	v.SetDefault("ollama.model", "mistral")
	v.SetDefault("ollama.timeout", "60s")

	// Web search defaults
	v.SetDefault("serper.api_key", "")
	v.SetDefault("serper.base_url", "https://google.serper.dev")
	v.SetDefault("serper.max_results", 5)

	v.SetDefault("cache.ttl", "1h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.scraper", 30)

	// Matching defaults
	v.SetDefault("matching.short_keyword_length", 6)
	v.SetDefault("matching.short_keyword_ratio", 0.4)
	v.SetDefault("matching.long_keyword_ratio", 0.5)
	v.SetDefault("matching.link_name_ratio", 0.7)
	v.SetDefault("matching.close_match_cutoff", 0.75)
	v.SetDefault("matching.min_shared_tokens", 3)
	v.SetDefault("matching.top_k", 5)
	v.SetDefault("matching.summary_sample_size", 5)
	v.SetDefault("matching.extra_stop_words", []string{})
	v.SetDefault("matching.enable_debug_logging", false)

	v.SetDefault("wishlist.path", "wishlist.json")
}

// validate validates the configuration
func validate(config *Config) error {
	if len(config.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}
	seen := make(map[string]bool, len(config.Sources))
	for _, s := range config.Sources {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("source name must not be empty")
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate source: %s", s.Name)
		}
		seen[s.Name] = true
	}

	switch config.Scraper.Mode {
	case "command":
		if len(config.Scraper.Command) == 0 {
			return fmt.Errorf("scraper command is required when scraper mode is 'command'")
		}
	case "http":
		if config.Scraper.BaseURL == "" {
			return fmt.Errorf("scraper base URL is required when scraper mode is 'http'")
		}
	default:
		return fmt.Errorf("scraper mode must be 'command' or 'http', got: %s", config.Scraper.Mode)
	}

	if config.Scraper.Timeout <= 0 {
		return fmt.Errorf("scraper timeout must be positive, got: %s", config.Scraper.Timeout)
	}

	for name, ratio := range map[string]float64{
		"short_keyword_ratio": config.Matching.ShortKeywordRatio,
		"long_keyword_ratio":  config.Matching.LongKeywordRatio,
		"link_name_ratio":     config.Matching.LinkNameRatio,
		"close_match_cutoff":  config.Matching.CloseMatchCutoff,
	} {
		if ratio < 0 || ratio > 1 {
			return fmt.Errorf("matching.%s must be between 0 and 1, got: %v", name, ratio)
		}
	}

	if config.Matching.TopK <= 0 {
		return fmt.Errorf("matching.top_k must be positive, got: %d", config.Matching.TopK)
	}

	return nil
}

// loadEnvFile sets variables from a .env file in the working directory.
// Variables already present in the environment are left untouched.
func loadEnvFile() error {
	file, err := os.Open(".env")
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}
