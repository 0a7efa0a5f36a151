// Command compare runs one keyword comparison and prints the result as JSON.
//
//	compare [-timeout 45s] <keyword...>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/shopsense/backend/config"
	"github.com/shopsense/backend/internal/app"
)

func main() {
	timeout := flag.Duration("timeout", 0, "overall deadline (0 = scraper timeout plus a minute)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <keyword...>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	keyword := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if keyword == "" {
		flag.Usage()
		os.Exit(2)
	}

	// Logs go to stderr so stdout stays valid JSON
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ltime)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	services := app.New(cfg)
	defer services.Close()

	deadline := *timeout
	if deadline <= 0 {
		deadline = cfg.Scraper.Timeout + time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), deadline)
	defer cancel()

	result, err := services.Comparison.Compare(ctx, keyword)
	if err != nil {
		log.Fatalf("Comparison failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
}
