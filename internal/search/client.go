// Package search adapts an external search/verification service.
//
// The service is optional: when no endpoint is configured the pipeline runs
// with a nil blog.Searcher and the dependent stages (fact-check, monetization)
// degrade to no-ops.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nichtagentur/blogforge/internal/metrics"
)

// Config holds the search adapter settings.
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// Client posts queries to the configured endpoint and returns the response
// body verbatim; callers extract any embedded JSON themselves.
type Client struct {
	cfg    Config
	client *http.Client
}

// New creates a search client. Returns nil when no endpoint is configured so
// callers can treat the adapter as absent.
func New(cfg Config) *Client {
	if cfg.Endpoint == "" {
		return nil
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type searchRequest struct {
	Query string `json:"query"`
}

// Search submits the query and returns the raw response text.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	body, err := json.Marshal(searchRequest{Query: query})
	if err != nil {
		return "", fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ObserveGeneration("search", "error")
		return "", fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveGeneration("search", "error")
		return "", fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		metrics.ObserveGeneration("search", "error")
		return "", fmt.Errorf("read search response: %w", err)
	}
	metrics.ObserveGeneration("search", "ok")
	return string(data), nil
}
