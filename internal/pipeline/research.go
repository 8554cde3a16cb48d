package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/blog"
	"github.com/nichtagentur/blogforge/internal/jsonx"
	"github.com/nichtagentur/blogforge/internal/metrics"
)

// researchTopic asks the text adapter for one concrete topic. A response
// without a JSON object is fatal for the run; there is nothing to write
// without a topic.
func (p *Pipeline) researchTopic(ctx context.Context, records []blog.ArticleRecord, forced string) (blog.TopicRecord, error) {
	started := p.clock.Now()
	defer func() { metrics.ObserveStage("research", p.clock.Now().Sub(started)) }()

	ct := p.pickContentType()

	usedTopics, err := p.store.ReadUsedTopics(ctx)
	if err != nil {
		return blog.TopicRecord{}, fmt.Errorf("read used topics: %w", err)
	}
	if len(usedTopics) > 20 {
		usedTopics = usedTopics[len(usedTopics)-20:]
	}
	titles := make([]string, 0, 10)
	start := 0
	if len(records) > 10 {
		start = len(records) - 10
	}
	for _, r := range records[start:] {
		titles = append(titles, r.Title)
	}

	now := p.clock.Now()
	month := germanMonths[now.Month()-1]

	raw, err := p.text.Generate(ctx, blog.PromptRequest{
		Model:     p.cfg.ResearchModel,
		MaxTokens: 1024,
		Prompt:    researchPrompt(ct, month, now.Year(), usedTopics, titles, forced),
	})
	if err != nil {
		return blog.TopicRecord{}, err
	}

	obj, status := jsonx.ExtractObject(raw)
	if status == jsonx.Failed {
		return blog.TopicRecord{}, blog.ErrMalformedResponse
	}

	var topic blog.TopicRecord
	if err := json.Unmarshal(obj, &topic); err != nil {
		return blog.TopicRecord{}, fmt.Errorf("%w: %v", blog.ErrMalformedResponse, err)
	}
	if topic.Title == "" || topic.Topic == "" {
		return blog.TopicRecord{}, blog.ErrMalformedResponse
	}

	// The model occasionally invents categories; the content type is
	// authoritative.
	topic.Category = ct.Category
	topic.ContentType = ct

	if status == jsonx.Recovered {
		p.logger.Warn("topic research response needed repair", zap.String("status", status.String()))
	}
	return topic, nil
}
