package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nichtagentur/blogforge/internal/blog"
	"github.com/nichtagentur/blogforge/internal/metrics"
)

const openAIEndpoint = "https://api.openai.com/v1/images/generations"

// OpenAI generates images through the DALL-E REST API.
type OpenAI struct {
	apiKey string
	model  string
	client *http.Client
}

// NewOpenAI creates an OpenAI image generator.
func NewOpenAI(apiKey, model string, timeout time.Duration) *OpenAI {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	if model == "" {
		model = "dall-e-3"
	}
	return &OpenAI{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: timeout},
	}
}

// Name identifies the generator in logs.
func (o *OpenAI) Name() string {
	return "openai:" + o.model
}

type openAIRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
}

type openAIResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// Generate requests an image and downloads the returned URL.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (blog.Image, error) {
	if o.apiKey == "" {
		return blog.Image{}, errors.New("openai api key not configured")
	}

	payload, err := json.Marshal(openAIRequest{
		Model:   o.model,
		Prompt:  prompt,
		N:       1,
		Size:    "1792x1024",
		Quality: "standard",
	})
	if err != nil {
		return blog.Image{}, fmt.Errorf("marshal openai request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIEndpoint, bytes.NewReader(payload))
	if err != nil {
		return blog.Image{}, fmt.Errorf("build openai request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		metrics.ObserveGeneration(o.Name(), "error")
		return blog.Image{}, fmt.Errorf("openai request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.ObserveGeneration(o.Name(), "error")
		return blog.Image{}, fmt.Errorf("openai returned status %d", resp.StatusCode)
	}

	var parsed openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.ObserveGeneration(o.Name(), "error")
		return blog.Image{}, fmt.Errorf("decode openai response: %w", err)
	}
	if len(parsed.Data) == 0 || parsed.Data[0].URL == "" {
		metrics.ObserveGeneration(o.Name(), "empty")
		return blog.Image{}, errors.New("openai response contains no image url")
	}

	img, err := o.download(ctx, parsed.Data[0].URL)
	if err != nil {
		metrics.ObserveGeneration(o.Name(), "error")
		return blog.Image{}, err
	}
	metrics.ObserveGeneration(o.Name(), "ok")
	return img, nil
}

func (o *OpenAI) download(ctx context.Context, url string) (blog.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return blog.Image{}, fmt.Errorf("build image download request: %w", err)
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return blog.Image{}, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return blog.Image{}, fmt.Errorf("image download returned status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return blog.Image{}, fmt.Errorf("read image body: %w", err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}
	return blog.Image{Data: data, ContentType: contentType}, nil
}
