// Package sitegen rebuilds the derived site pages: the home feed, per-category
// feeds, the about page, the sitemap, and the static assets. The rebuild is a
// pure function of the full article record set, never an incremental patch, so
// a partial earlier write cannot leave the listings inconsistent.
package sitegen

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/assemble"
	"github.com/nichtagentur/blogforge/internal/blog"
)

// Config carries the site identity used on every generated page.
type Config struct {
	// BaseURL prefixes asset and page links (may include a path).
	BaseURL string
	// SiteURL is the absolute origin used in the sitemap.
	SiteURL string
}

// Builder writes the derived pages through a sink.
type Builder struct {
	cfg    Config
	sink   blog.Sink
	loader *assemble.Loader
	clock  blog.Clock
	logger *zap.Logger
}

// New creates a builder.
func New(cfg Config, sink blog.Sink, loader *assemble.Loader, clock blog.Clock, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{cfg: cfg, sink: sink, loader: loader, clock: clock, logger: logger}
}

// Rebuild regenerates every derived page from the given records, which are
// expected in append order (oldest first).
func (b *Builder) Rebuild(ctx context.Context, records []blog.ArticleRecord) error {
	newestFirst := make([]blog.ArticleRecord, len(records))
	for i, r := range records {
		newestFirst[len(records)-1-i] = r
	}
	year := strconv.Itoa(b.clock.Now().Year())

	if err := b.writeAssets(ctx); err != nil {
		return err
	}
	if err := b.writeIndex(ctx, records, newestFirst, year); err != nil {
		return err
	}
	if err := b.writeCategories(ctx, newestFirst, year); err != nil {
		return err
	}
	if err := b.writeAbout(ctx, year); err != nil {
		return err
	}
	if err := b.writeSitemap(ctx, newestFirst); err != nil {
		return err
	}

	b.logger.Info("site rebuilt",
		zap.Int("posts", len(records)),
		zap.Int("categories", len(blog.CategoryOrder)))
	return nil
}

func (b *Builder) writeIndex(ctx context.Context, records, newestFirst []blog.ArticleRecord, year string) error {
	var cards strings.Builder
	for i, post := range newestFirst {
		cards.WriteString(assemble.CardHTML(b.cfg.BaseURL, post, i == 0 && len(newestFirst) > 1))
	}
	if len(newestFirst) == 0 {
		cards.WriteString(`<p class="empty-note">Noch keine Artikel vorhanden.</p>`)
	}

	var categoryCards strings.Builder
	for _, slug := range blog.CategoryOrder {
		cat := blog.Categories[slug]
		count := 0
		for _, p := range records {
			if p.Category == slug {
				count++
			}
		}
		fmt.Fprintf(&categoryCards, `<div class="card fade-in card-category-tile">
      <div class="card-body">
        <h3 class="card-title"><a href="%s/kategorie/%s/">%s</a></h3>
        <p class="card-excerpt">%s</p>
        <span class="card-meta">%d Artikel</span>
      </div>
    </div>`, b.cfg.BaseURL, slug, cat.Name, cat.Desc, count)
	}

	tmpl, err := b.loader.Load("index.html")
	if err != nil {
		return err
	}
	page := strings.NewReplacer(
		"{{POST_CARDS}}", cards.String(),
		"{{CATEGORY_CARDS}}", categoryCards.String(),
		"{{BASE_URL}}", b.cfg.BaseURL,
		"{{YEAR}}", year,
	).Replace(tmpl)

	_, err = b.sink.Put(ctx, "index.html", "text/html", []byte(page))
	return err
}

func (b *Builder) writeCategories(ctx context.Context, newestFirst []blog.ArticleRecord, year string) error {
	tmpl, err := b.loader.Load("category.html")
	if err != nil {
		return err
	}
	for _, slug := range blog.CategoryOrder {
		cat := blog.Categories[slug]
		var cards strings.Builder
		for _, p := range newestFirst {
			if p.Category == slug {
				cards.WriteString(assemble.CardHTML(b.cfg.BaseURL, p, false))
			}
		}
		if cards.Len() == 0 {
			cards.WriteString(`<p class="empty-note">Noch keine Artikel in dieser Kategorie.</p>`)
		}
		page := strings.NewReplacer(
			"{{CATEGORY}}", cat.Name,
			"{{CATEGORY_SLUG}}", slug,
			"{{CATEGORY_DESCRIPTION}}", cat.Desc,
			"{{POST_CARDS}}", cards.String(),
			"{{BASE_URL}}", b.cfg.BaseURL,
			"{{YEAR}}", year,
		).Replace(tmpl)
		if _, err := b.sink.Put(ctx, "kategorie/"+slug+"/index.html", "text/html", []byte(page)); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) writeAbout(ctx context.Context, year string) error {
	tmpl, err := b.loader.Load("about.html")
	if err != nil {
		return err
	}
	page := strings.NewReplacer(
		"{{BASE_URL}}", b.cfg.BaseURL,
		"{{YEAR}}", year,
	).Replace(tmpl)
	_, err = b.sink.Put(ctx, "about/index.html", "text/html", []byte(page))
	return err
}

func (b *Builder) writeSitemap(ctx context.Context, newestFirst []blog.ArticleRecord) error {
	var sm strings.Builder
	sm.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	sm.WriteString("<urlset xmlns=\"http://www.sitemaps.org/schemas/sitemap/0.9\">\n")
	fmt.Fprintf(&sm, "  <url><loc>%s/</loc><changefreq>daily</changefreq><priority>1.0</priority></url>\n", b.cfg.SiteURL)
	fmt.Fprintf(&sm, "  <url><loc>%s/about/</loc><changefreq>monthly</changefreq><priority>0.7</priority></url>\n", b.cfg.SiteURL)
	for _, slug := range blog.CategoryOrder {
		fmt.Fprintf(&sm, "  <url><loc>%s/kategorie/%s/</loc><changefreq>weekly</changefreq><priority>0.8</priority></url>\n", b.cfg.SiteURL, slug)
	}
	for _, p := range newestFirst {
		fmt.Fprintf(&sm, "  <url><loc>%s/posts/%s/</loc><lastmod>%s</lastmod><changefreq>monthly</changefreq><priority>0.9</priority></url>\n",
			b.cfg.SiteURL, p.Slug, p.DateISO)
	}
	sm.WriteString("</urlset>")
	_, err := b.sink.Put(ctx, "sitemap.xml", "application/xml", []byte(sm.String()))
	return err
}

func (b *Builder) writeAssets(ctx context.Context) error {
	baseCSS, err := b.loader.Load("base.css")
	if err != nil {
		return err
	}
	widgetsCSS, err := b.loader.Load("widgets.css")
	if err != nil {
		return err
	}
	if _, err := b.sink.Put(ctx, "css/style.css", "text/css", []byte(baseCSS+"\n"+widgetsCSS)); err != nil {
		return err
	}
	for _, name := range []string{"widgets.js", "waves.js"} {
		js, err := b.loader.Load(name)
		if err != nil {
			return err
		}
		if _, err := b.sink.Put(ctx, "js/"+name, "application/javascript", []byte(js)); err != nil {
			return err
		}
	}
	return nil
}
