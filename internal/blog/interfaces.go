package blog

import (
	"context"
	"time"
)

// PromptRequest is a structured request to a text-generation adapter.
type PromptRequest struct {
	Model     string
	MaxTokens int
	Prompt    string
}

// TextGenerator produces free text that is expected to contain one JSON
// object; extraction and repair are the caller's responsibility.
type TextGenerator interface {
	Generate(ctx context.Context, req PromptRequest) (string, error)
}

// Image is a generated binary artifact plus its content type.
type Image struct {
	Data        []byte
	ContentType string
}

// ImageGenerator turns a prompt into an image, or fails so the next generator
// in the fallback chain can take over.
type ImageGenerator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (Image, error)
}

// Searcher queries an external search/verification service. The adapter may be
// entirely absent (nil), in which case dependent stages degrade to no-ops.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Prober checks whether a URL is reachable. Implementations treat
// auth-required, forbidden, method-not-allowed, and redirect responses as
// reachable.
type Prober interface {
	Reachable(ctx context.Context, rawURL string) bool
}

// Store is the content store: append-only article metadata plus the raw
// used-topics log. ReadAll returns records in append order (oldest first).
type Store interface {
	ReadAll(ctx context.Context) ([]ArticleRecord, error)
	AppendArticle(ctx context.Context, record ArticleRecord) error
	ReadUsedTopics(ctx context.Context) ([]string, error)
	AppendUsedTopic(ctx context.Context, topic string) error
	Close()
}

// Sink writes site artifacts (pages, images, feeds) and returns a URI.
type Sink interface {
	Put(ctx context.Context, path string, contentType string, data []byte) (string, error)
}

// Publisher pushes the generated site to version control.
type Publisher interface {
	CommitAndPush(ctx context.Context, message string) error
}

// Notifier delivers a completion/failure message. Failures are logged only.
type Notifier interface {
	Send(ctx context.Context, subject string, html string) error
}

// EventPublisher pushes published-article events to a message bus.
type EventPublisher interface {
	Publish(ctx context.Context, payload any) (string, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs (UUIDs).
type IDGenerator interface {
	NewID() (string, error)
}
