package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"

	"github.com/shopsense/backend/internal/domain"
)

// waitDelay bounds how long output pipes are drained after the process is killed
const waitDelay = 2 * time.Second

// CommandScraper runs an external scraper process per keyword.
// The process receives the keyword as its last argument and must print a
// JSON object mapping source names to product arrays on stdout.
type CommandScraper struct {
	argv  []string
	debug bool
}

// NewCommandScraper creates a scraper that runs argv followed by the keyword
func NewCommandScraper(argv []string) *CommandScraper {
	return &CommandScraper{argv: argv}
}

// SetDebug enables or disables debug logging
func (s *CommandScraper) SetDebug(debug bool) {
	s.debug = debug
}

// Scrape runs the scraper process and decodes its output.
// The process is killed when ctx is done.
func (s *CommandScraper) Scrape(ctx context.Context, keyword string) ([]domain.SourceProducts, error) {
	if len(s.argv) == 0 {
		return nil, fmt.Errorf("%w: no scraper command configured", domain.ErrScrapeFailed)
	}

	args := append(append([]string{}, s.argv[1:]...), keyword)
	cmd := exec.CommandContext(ctx, s.argv[0], args...)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if s.debug {
		log.Printf("[SCRAPER] Running %s %q", strings.Join(s.argv, " "), keyword)
	}

	err := cmd.Run()
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		log.Printf("[SCRAPER] stderr: %s", msg)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrScrapeFailed, ctxErr)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrScrapeFailed, err)
	}

	listings, err := decodeListings(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrScrapeFailed, err)
	}

	if s.debug {
		for _, sp := range listings {
			log.Printf("[SCRAPER] %s: %d products", sp.Source, len(sp.Products))
		}
	}
	return listings, nil
}
