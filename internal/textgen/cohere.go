// Package textgen adapts the Cohere chat API to the blog.TextGenerator
// interface.
package textgen

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"github.com/nichtagentur/blogforge/internal/blog"
	"github.com/nichtagentur/blogforge/internal/metrics"
)

// Config holds the Cohere adapter settings.
type Config struct {
	APIKey  string
	Timeout time.Duration
}

// Client calls the Cohere chat endpoint. It implements blog.TextGenerator.
type Client struct {
	client *cohereclient.Client
}

// New creates a Cohere-backed text generator.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cohere api key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	// Force HTTP/1.1; the Cohere edge intermittently resets HTTP/2 streams on
	// long generations.
	httpClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	return &Client{
		client: cohereclient.NewClient(
			cohereclient.WithToken(cfg.APIKey),
			cohereclient.WithHTTPClient(httpClient),
		),
	}, nil
}

// Generate sends the prompt and returns the raw response text. Extraction of
// any embedded JSON object is the caller's job.
func (c *Client) Generate(ctx context.Context, req blog.PromptRequest) (string, error) {
	if req.Prompt == "" {
		return "", errors.New("prompt is required")
	}

	chatReq := &cohere.ChatRequest{
		Message: req.Prompt,
	}
	if req.Model != "" {
		chatReq.Model = &req.Model
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = &req.MaxTokens
	}

	resp, err := c.client.Chat(ctx, chatReq)
	if err != nil {
		metrics.ObserveGeneration("cohere", "error")
		return "", fmt.Errorf("cohere chat: %w", err)
	}
	if resp == nil || resp.Text == "" {
		metrics.ObserveGeneration("cohere", "empty")
		return "", errors.New("cohere chat returned empty response")
	}
	metrics.ObserveGeneration("cohere", "ok")
	return resp.Text, nil
}
