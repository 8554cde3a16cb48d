package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/blog"
	"github.com/nichtagentur/blogforge/internal/jsonx"
	"github.com/nichtagentur/blogforge/internal/metrics"
)

// monetize asks the search adapter for one product recommendation and inserts
// a callout block. The stage is a no-op on any failure, on a URL outside the
// marketplace domain, and on an unreachable URL.
func (p *Pipeline) monetize(ctx context.Context, topic blog.TopicRecord, content string) string {
	started := p.clock.Now()
	defer func() { metrics.ObserveStage("monetize", p.clock.Now().Sub(started)) }()

	if p.searcher == nil || p.cfg.MarketplaceDomain == "" {
		return content
	}

	raw, err := p.searcher.Search(ctx, productQuery(topic, p.cfg.MarketplaceDomain))
	if err != nil {
		p.logger.Warn("product search failed", zap.Error(err))
		return content
	}

	obj, status := jsonx.ExtractObject(raw)
	if status == jsonx.Failed {
		return content
	}
	var pick blog.ProductPick
	if err := json.Unmarshal(obj, &pick); err != nil || pick.Name == "" || pick.URL == "" {
		return content
	}

	if !p.marketplaceURL(pick.URL) {
		p.logger.Warn("product URL outside marketplace domain", zap.String("url", pick.URL))
		return content
	}
	if p.prober == nil || !p.prober.Reachable(ctx, pick.URL) {
		p.logger.Warn("product URL unreachable", zap.String("url", pick.URL))
		return content
	}

	p.logger.Info("product callout inserted", zap.String("product", pick.Name))
	return insertCallout(content, calloutHTML(pick))
}

func (p *Pipeline) marketplaceURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	host := strings.ToLower(u.Hostname())
	domain := strings.ToLower(p.cfg.MarketplaceDomain)
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func calloutHTML(pick blog.ProductPick) string {
	return fmt.Sprintf(`<div class="product-callout"><span class="product-callout-label">Empfehlung</span><p><strong>%s</strong>: %s</p><p><a href="%s" rel="sponsored nofollow noopener" target="_blank">Zum Angebot</a></p></div>`,
		html.EscapeString(pick.Name), html.EscapeString(pick.Reason), html.EscapeString(pick.URL))
}

var h2Open = regexp.MustCompile(`(?i)<h2[^>]*>`)

// insertCallout places the block immediately after the paragraph following the
// second h2 heading; with fewer than two headings it is appended instead.
func insertCallout(content, callout string) string {
	matches := h2Open.FindAllStringIndex(content, 2)
	if len(matches) < 2 {
		return content + callout
	}
	after := matches[1][1]
	rel := strings.Index(strings.ToLower(content[after:]), "</p>")
	if rel < 0 {
		return content + callout
	}
	pos := after + rel + len("</p>")
	return content[:pos] + callout + content[pos:]
}
