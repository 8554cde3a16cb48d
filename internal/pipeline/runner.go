package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/blog"
)

// Runner executes the pipeline a fixed number of times in sequence with a
// cooldown between runs. Individual run failures are logged and counted, not
// retried; one bad run never blocks the next.
type Runner struct {
	pipeline *Pipeline
	runs     int
	cooldown time.Duration
	logger   *zap.Logger
}

// NewRunner creates a runner. runs defaults to 2.
func NewRunner(p *Pipeline, runs int, cooldown time.Duration, logger *zap.Logger) *Runner {
	if runs <= 0 {
		runs = 2
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{pipeline: p, runs: runs, cooldown: cooldown, logger: logger}
}

// Summary reports the outcome of one Run invocation.
type Summary struct {
	Attempted int
	Succeeded []blog.ArticleRecord
}

// Run executes the configured number of pipeline runs. The cooldown sleep
// respects context cancellation; a canceled context stops before the next run.
func (r *Runner) Run(ctx context.Context, opts RunOptions) Summary {
	var summary Summary
	for i := 0; i < r.runs; i++ {
		if i > 0 && r.cooldown > 0 {
			r.logger.Info("cooldown before next run", zap.Duration("cooldown", r.cooldown))
			select {
			case <-ctx.Done():
				r.logger.Warn("run loop canceled", zap.Error(ctx.Err()))
				return summary
			case <-time.After(r.cooldown):
			}
		}
		if ctx.Err() != nil {
			r.logger.Warn("run loop canceled", zap.Error(ctx.Err()))
			return summary
		}

		summary.Attempted++
		record, err := r.pipeline.RunOne(ctx, opts)
		if err != nil {
			r.logger.Error("pipeline run failed", zap.Int("run", i+1), zap.Error(err))
			continue
		}
		summary.Succeeded = append(summary.Succeeded, record)
	}

	r.logger.Info("run loop finished",
		zap.Int("succeeded", len(summary.Succeeded)),
		zap.Int("attempted", summary.Attempted))
	return summary
}
