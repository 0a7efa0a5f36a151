package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/shopsense/backend/internal/domain"
)

// Client queries the Serper web search API
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	maxResults int
}

// NewClient creates a new Serper client. maxResults <= 0 defaults to 5.
func NewClient(apiKey, baseURL string, maxResults int) *Client {
	if maxResults <= 0 {
		maxResults = 5
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxResults: maxResults,
	}
}

type searchRequest struct {
	Q string `json:"q"`
}

type searchResponse struct {
	Organic []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"organic"`
}

// Search returns the first organic results for query
func (c *Client) Search(ctx context.Context, query string) ([]domain.SearchLink, error) {
	body, err := json.Marshal(searchRequest{Q: query})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchFailed, err)
	}
	defer resp.Body.Close()
	log.Printf("[SERPER] Search took %.2fs", time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", domain.ErrSearchFailed, resp.StatusCode, string(respBody))
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrSearchFailed, err)
	}

	links := make([]domain.SearchLink, 0, c.maxResults)
	for _, hit := range searchResp.Organic {
		if len(links) == c.maxResults {
			break
		}
		links = append(links, domain.SearchLink{Title: hit.Title, Link: hit.Link})
	}
	return links, nil
}
