// Package imagegen provides the hero-image fallback chain: Gemini first, a
// Gemini model variant second, DALL-E third, and a deterministic SVG
// placeholder that cannot fail.
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nichtagentur/blogforge/internal/blog"
	"github.com/nichtagentur/blogforge/internal/metrics"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"

// Gemini generates images through the Generative Language REST API.
type Gemini struct {
	apiKey string
	model  string
	client *http.Client
}

// NewGemini creates a Gemini image generator for the given model.
func NewGemini(apiKey, model string, timeout time.Duration) *Gemini {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Gemini{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

// Name identifies the generator in logs.
func (g *Gemini) Name() string {
	return "gemini:" + g.model
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate requests an image and returns the first inline image part.
func (g *Gemini) Generate(ctx context.Context, prompt string) (blog.Image, error) {
	if g.apiKey == "" {
		return blog.Image{}, errors.New("gemini api key not configured")
	}

	reqBody := geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenConfig{ResponseModalities: []string{"TEXT", "IMAGE"}},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return blog.Image{}, fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf(geminiEndpoint, g.model) + "?key=" + g.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return blog.Image{}, fmt.Errorf("build gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		metrics.ObserveGeneration(g.Name(), "error")
		return blog.Image{}, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveGeneration(g.Name(), "error")
		return blog.Image{}, fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.ObserveGeneration(g.Name(), "error")
		return blog.Image{}, fmt.Errorf("decode gemini response: %w", err)
	}

	for _, cand := range parsed.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData == nil {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return blog.Image{}, fmt.Errorf("decode gemini image data: %w", err)
			}
			contentType := part.InlineData.MimeType
			if contentType == "" {
				contentType = "image/png"
			}
			metrics.ObserveGeneration(g.Name(), "ok")
			return blog.Image{Data: data, ContentType: contentType}, nil
		}
	}
	metrics.ObserveGeneration(g.Name(), "empty")
	return blog.Image{}, errors.New("gemini response contains no image part")
}
