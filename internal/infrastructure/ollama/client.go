package ollama

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

// maxAttempts bounds retries on transient (5xx / transport) failures
const maxAttempts = 2

// Client talks to an Ollama server for comparison summaries and search
// suggestions.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	debug      bool
}

// NewClient creates a new Ollama client
func NewClient(baseURL, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
	}
}

// SetDebug enables or disables debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Summarize asks the model for a short qualitative comparison
func (c *Client) Summarize(ctx context.Context, req domain.SummaryRequest) (string, error) {
	start := time.Now()

	var resp generateResponse
	err := c.post(ctx, "/api/generate", generateRequest{
		Model:  c.model,
		Prompt: buildSummaryPrompt(req),
		Stream: false,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrSummaryFailed, err)
	}

	log.Printf("[OLLAMA] Summary generation took %.2fs", time.Since(start).Seconds())

	summary := strings.TrimSpace(resp.Response)
	if summary == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrSummaryFailed)
	}
	return summary, nil
}

// Suggest asks the model for related search phrases, one per line
func (c *Client) Suggest(ctx context.Context, query string, count int) (string, error) {
	var resp chatResponse
	err := c.post(ctx, "/api/chat", chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: buildSuggestionPrompt(query, count)}},
		Stream:   false,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("suggest: %w", err)
	}
	return strings.TrimSpace(resp.Message.Content), nil
}

// post sends a JSON body and decodes the JSON reply into out
func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("[OLLAMA] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			continue
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			log.Printf("[OLLAMA] API error (attempt %d) - Status: %d", attempt, resp.StatusCode)
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
		}

		if c.debug {
			log.Printf("[OLLAMA] %s responded with %d bytes", path, len(respBody))
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	return lastErr
}
