package pipeline

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/blog"
	"github.com/nichtagentur/blogforge/internal/jsonx"
	"github.com/nichtagentur/blogforge/internal/metrics"
)

// writeDraft produces the article body. Failure here is fatal for the run,
// but a malformed response first goes through field-level recovery so a good
// article behind broken JSON is not thrown away. Content is never truncated.
func (p *Pipeline) writeDraft(ctx context.Context, topic blog.TopicRecord, records []blog.ArticleRecord) (blog.Draft, error) {
	started := p.clock.Now()
	defer func() { metrics.ObserveStage("draft", p.clock.Now().Sub(started)) }()

	recent := records
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}

	raw, err := p.text.Generate(ctx, blog.PromptRequest{
		Model:     p.cfg.DraftModel,
		MaxTokens: p.cfg.MaxTokens,
		Prompt:    draftPrompt(topic, p.cfg.BaseURL, recent),
	})
	if err != nil {
		return blog.Draft{}, err
	}

	if obj, status := jsonx.ExtractObject(raw); status != jsonx.Failed {
		var draft blog.Draft
		if err := json.Unmarshal(obj, &draft); err == nil && draft.Content != "" {
			p.logger.Info("draft parsed",
				zap.String("status", status.String()),
				zap.Int("words", blog.WordCount(draft.Content)),
				zap.Int("faq", len(draft.FAQ)))
			return draft, nil
		}
	}

	// Strict parsing failed; salvage the fields individually.
	recovered, status := jsonx.RecoverDraft(raw)
	if status == jsonx.Failed || recovered.Content == "" {
		return blog.Draft{}, blog.ErrMissingContent
	}
	draft := blog.Draft{
		Content:  recovered.Content,
		ImageAlt: recovered.ImageAlt,
	}
	if len(recovered.FAQ) > 0 {
		var faq []blog.FAQEntry
		if err := json.Unmarshal(recovered.FAQ, &faq); err == nil {
			draft.FAQ = faq
		}
	}
	p.logger.Warn("draft recovered from malformed response",
		zap.Int("words", blog.WordCount(draft.Content)),
		zap.Int("faq", len(draft.FAQ)))
	return draft, nil
}
