// Package links sanitizes outbound hyperlinks in assembled pages. Dead links
// are unwrapped to their inner markup so the prose survives; live links are
// left untouched. The pass is idempotent.
package links

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/blog"
)

// Validator probes external anchors and strips the unreachable ones.
type Validator struct {
	prober  blog.Prober
	baseURL string
	logger  *zap.Logger
}

// New creates a validator. baseURL identifies the site's own absolute links,
// which are never probed.
func New(prober blog.Prober, baseURL string, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{prober: prober, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

func (v *Validator) external(href string) bool {
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		return false
	}
	if v.baseURL != "" && strings.HasPrefix(href, v.baseURL) {
		return false
	}
	return true
}

// Sanitize parses the page, probes each distinct external anchor target, and
// rewrites every anchor pointing at an unreachable target to its inner
// content.
func (v *Validator) Sanitize(ctx context.Context, page string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	targets := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if v.external(href) {
			targets[href] = false
		}
	})

	dead := 0
	for href := range targets {
		if v.prober.Reachable(ctx, href) {
			targets[href] = true
		} else {
			dead++
		}
	}

	if dead > 0 {
		doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			href, _ := s.Attr("href")
			if !v.external(href) || targets[href] {
				return
			}
			inner, err := s.Html()
			if err != nil {
				return
			}
			s.ReplaceWithHtml(inner)
		})
		v.logger.Info("removed dead links", zap.Int("count", dead), zap.Int("checked", len(targets)))
	}

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("serialize page: %w", err)
	}
	if strings.HasPrefix(strings.TrimSpace(page), "<!DOCTYPE") && !strings.HasPrefix(strings.TrimSpace(out), "<!DOCTYPE") {
		out = "<!DOCTYPE html>\n" + out
	}
	return out, nil
}
