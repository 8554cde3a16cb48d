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

// qualityGate runs the bounded evaluate/revise loop. It always returns some
// content, improved or not:
//
//   - at most QualityMaxAttempts evaluations
//   - score below the threshold triggers a revision carrying the verdict's
//     issues and suggestions
//   - fact-check corrections are folded into the first revision only
//   - a passing first evaluation with corrections pending still gets one
//     unconditional revision to apply them, without a further score check
//   - an unparsable verdict aborts the loop with the content unchanged
func (p *Pipeline) qualityGate(ctx context.Context, content string, corrections []string) string {
	started := p.clock.Now()
	defer func() { metrics.ObserveStage("quality", p.clock.Now().Sub(started)) }()

	pending := corrections
	for attempt := 1; attempt <= p.cfg.QualityMaxAttempts; attempt++ {
		verdict, err := p.evaluate(ctx, content)
		if err != nil {
			p.logger.Warn("quality verdict unparsable, keeping content", zap.Error(err), zap.Int("attempt", attempt))
			return content
		}
		p.logger.Info("quality evaluated",
			zap.Int("attempt", attempt),
			zap.Int("score", verdict.Score),
			zap.Int("issues", len(verdict.Issues)))

		if verdict.Score >= p.cfg.QualityThreshold {
			if attempt == 1 && len(pending) > 0 {
				if revised := p.revise(ctx, content, verdict, pending); revised != "" {
					return revised
				}
			}
			return content
		}
		if attempt == p.cfg.QualityMaxAttempts {
			p.logger.Warn("quality cap reached, keeping last content", zap.Int("score", verdict.Score))
			return content
		}

		revised := p.revise(ctx, content, verdict, pending)
		if revised == "" {
			return content
		}
		content = revised
		pending = nil
	}
	return content
}

func (p *Pipeline) evaluate(ctx context.Context, content string) (blog.QualityVerdict, error) {
	raw, err := p.text.Generate(ctx, blog.PromptRequest{
		Model:     p.cfg.QualityModel,
		MaxTokens: 1024,
		Prompt:    evaluatePrompt(content),
	})
	if err != nil {
		return blog.QualityVerdict{}, err
	}
	obj, status := jsonx.ExtractObject(raw)
	if status == jsonx.Failed {
		return blog.QualityVerdict{}, fmt.Errorf("no JSON object in verdict")
	}
	var verdict blog.QualityVerdict
	if err := json.Unmarshal(obj, &verdict); err != nil {
		return blog.QualityVerdict{}, fmt.Errorf("parse verdict: %w", err)
	}
	return verdict, nil
}

// revise returns the revised content, or "" when revision failed and the
// caller should keep what it has.
func (p *Pipeline) revise(ctx context.Context, content string, verdict blog.QualityVerdict, corrections []string) string {
	raw, err := p.text.Generate(ctx, blog.PromptRequest{
		Model:     p.cfg.DraftModel,
		MaxTokens: p.cfg.MaxTokens,
		Prompt:    revisePrompt(content, verdict.Issues, verdict.Suggestions, corrections),
	})
	if err != nil {
		p.logger.Warn("revision call failed", zap.Error(err))
		return ""
	}

	if obj, status := jsonx.ExtractObject(raw); status != jsonx.Failed {
		var revised struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal(obj, &revised); err == nil && revised.Content != "" {
			return revised.Content
		}
	}
	if recovered, status := jsonx.RecoverDraft(raw); status != jsonx.Failed {
		return recovered.Content
	}
	p.logger.Warn("revision response unparsable, keeping previous content")
	return ""
}
