package pipeline

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/blog"
	"github.com/nichtagentur/blogforge/internal/jsonx"
	"github.com/nichtagentur/blogforge/internal/metrics"
)

const (
	factCheckExcerptLen = 3000
	maxProbedSources    = 5
)

// factCheck asks the search adapter to verify the draft and probes each
// candidate source. The stage is purely advisory: any failure degrades to an
// empty result and the run continues.
func (p *Pipeline) factCheck(ctx context.Context, topic blog.TopicRecord, content string) blog.FactCheckResult {
	started := p.clock.Now()
	defer func() { metrics.ObserveStage("factcheck", p.clock.Now().Sub(started)) }()

	var empty blog.FactCheckResult
	if p.searcher == nil {
		return empty
	}

	excerpt := blog.Truncate(content, factCheckExcerptLen)

	raw, err := p.searcher.Search(ctx, factCheckQuery(topic, excerpt))
	if err != nil {
		p.logger.Warn("fact-check search failed", zap.Error(err))
		return empty
	}

	obj, status := jsonx.ExtractObject(raw)
	if status == jsonx.Failed {
		p.logger.Warn("fact-check response had no JSON object")
		return empty
	}

	var result blog.FactCheckResult
	if err := json.Unmarshal(obj, &result); err != nil {
		p.logger.Warn("fact-check response unparsable", zap.Error(err))
		return empty
	}

	result.Sources = p.probeSources(ctx, result.Sources)
	p.logger.Info("fact-check done",
		zap.Int("sources", len(result.Sources)),
		zap.Int("corrections", len(result.Corrections)))
	return result
}

// probeSources keeps reachable sources only, probing at most maxProbedSources
// candidates.
func (p *Pipeline) probeSources(ctx context.Context, candidates []blog.Source) []blog.Source {
	if p.prober == nil {
		return nil
	}
	var kept []blog.Source
	probed := 0
	for _, s := range candidates {
		if probed >= maxProbedSources {
			break
		}
		if s.URL == "" {
			continue
		}
		probed++
		if p.prober.Reachable(ctx, s.URL) {
			kept = append(kept, s)
		}
	}
	return kept
}
