// Package pipeline orchestrates one article generation run: topic research,
// drafting, fact-check, quality gate, monetization, image acquisition, page
// assembly, link validation, persistence, site rebuild, publish, and notify.
// Runs are strictly sequential; only drafting, page assembly, and persistence
// are fatal for a run, every other stage degrades to a safe default.
package pipeline

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/assemble"
	"github.com/nichtagentur/blogforge/internal/blog"
	"github.com/nichtagentur/blogforge/internal/imagegen"
	"github.com/nichtagentur/blogforge/internal/links"
	"github.com/nichtagentur/blogforge/internal/logging"
	"github.com/nichtagentur/blogforge/internal/metrics"
	"github.com/nichtagentur/blogforge/internal/sitegen"
)

// Config tunes the pipeline stages.
type Config struct {
	BaseURL string
	SiteURL string

	ResearchModel string
	DraftModel    string
	QualityModel  string
	MaxTokens     int

	QualityThreshold   int
	QualityMaxAttempts int

	MarketplaceDomain string
}

// Pipeline wires the stages to their collaborators. Optional collaborators
// (searcher, publisher, notifier, events) may be nil; the dependent stages
// then degrade to no-ops.
type Pipeline struct {
	cfg       Config
	text      blog.TextGenerator
	images    *imagegen.Chain
	searcher  blog.Searcher
	prober    blog.Prober
	store     blog.Store
	sink      blog.Sink
	site      *sitegen.Builder
	loader    *assemble.Loader
	validator *links.Validator
	publisher blog.Publisher
	notifier  blog.Notifier
	events    blog.EventPublisher
	clock     blog.Clock
	logger    *zap.Logger

	// pickContentType is swappable in tests; defaults to uniform random.
	pickContentType func() blog.ContentType
}

// Deps collects the pipeline collaborators.
type Deps struct {
	Text      blog.TextGenerator
	Images    *imagegen.Chain
	Searcher  blog.Searcher
	Prober    blog.Prober
	Store     blog.Store
	Sink      blog.Sink
	Site      *sitegen.Builder
	Loader    *assemble.Loader
	Validator *links.Validator
	Publisher blog.Publisher
	Notifier  blog.Notifier
	Events    blog.EventPublisher
	Clock     blog.Clock
	Logger    *zap.Logger
}

// New creates a pipeline.
func New(cfg Config, deps Deps) (*Pipeline, error) {
	if deps.Text == nil {
		return nil, fmt.Errorf("text generator is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if deps.Sink == nil {
		return nil, fmt.Errorf("sink is required")
	}
	if deps.Images == nil {
		return nil, fmt.Errorf("image chain is required")
	}
	if deps.Site == nil {
		return nil, fmt.Errorf("site builder is required")
	}
	if deps.Loader == nil {
		return nil, fmt.Errorf("template loader is required")
	}
	if deps.Clock == nil {
		return nil, fmt.Errorf("clock is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if cfg.QualityThreshold == 0 {
		cfg.QualityThreshold = 6
	}
	if cfg.QualityMaxAttempts == 0 {
		cfg.QualityMaxAttempts = 3
	}
	return &Pipeline{
		cfg:       cfg,
		text:      deps.Text,
		images:    deps.Images,
		searcher:  deps.Searcher,
		prober:    deps.Prober,
		store:     deps.Store,
		sink:      deps.Sink,
		site:      deps.Site,
		loader:    deps.Loader,
		validator: deps.Validator,
		publisher: deps.Publisher,
		notifier:  deps.Notifier,
		events:    deps.Events,
		clock:     deps.Clock,
		logger:    deps.Logger,
		pickContentType: func() blog.ContentType {
			return blog.ContentTypes[rand.Intn(len(blog.ContentTypes))]
		},
	}, nil
}

// RunOptions customizes one run.
type RunOptions struct {
	// ForcedTopic pins topic research to a requested subject instead of
	// letting the model invent one.
	ForcedTopic string
}

// RunOne executes the full pipeline for a single article.
func (p *Pipeline) RunOne(ctx context.Context, opts RunOptions) (blog.ArticleRecord, error) {
	started := p.clock.Now()

	records, err := p.store.ReadAll(ctx)
	if err != nil {
		return blog.ArticleRecord{}, fmt.Errorf("read store: %w", err)
	}

	topic, err := p.researchTopic(ctx, records, opts.ForcedTopic)
	if err != nil {
		metrics.ObserveRun("error")
		return blog.ArticleRecord{}, fmt.Errorf("topic research: %w", err)
	}

	taken := make(map[string]bool, len(records))
	for _, r := range records {
		taken[r.Slug] = true
	}
	topic.Slug = blog.UniqueSlug(blog.Slugify(topic.Title), taken)

	log := logging.ForStage(p.logger, "pipeline").With(zap.String("slug", topic.Slug))
	log.Info("topic selected",
		zap.String("title", topic.Title),
		zap.String("content_type", topic.ContentType.Type))

	draft, err := p.writeDraft(ctx, topic, records)
	if err != nil {
		metrics.ObserveRun("error")
		return blog.ArticleRecord{}, fmt.Errorf("drafting: %w", err)
	}

	factCheck := p.factCheck(ctx, topic, draft.Content)
	draft.Content = p.qualityGate(ctx, draft.Content, factCheck.Corrections)
	draft.Content = p.monetize(ctx, topic, draft.Content)

	image := p.images.Acquire(ctx, topic.ImagePrompt)
	if _, err := p.sink.Put(ctx, "posts/"+topic.Slug+"/hero.webp", image.ContentType, image.Data); err != nil {
		log.Warn("hero image write failed", zap.Error(err))
	}

	page, err := p.assemblePage(ctx, topic, draft, factCheck.Sources, records)
	if err != nil {
		metrics.ObserveRun("error")
		return blog.ArticleRecord{}, fmt.Errorf("page assembly: %w", err)
	}
	if _, err := p.sink.Put(ctx, "posts/"+topic.Slug+"/index.html", "text/html", []byte(page)); err != nil {
		metrics.ObserveRun("error")
		return blog.ArticleRecord{}, fmt.Errorf("write post page: %w", err)
	}

	record := p.buildRecord(topic, draft)
	if err := p.store.AppendArticle(ctx, record); err != nil {
		metrics.ObserveRun("error")
		return blog.ArticleRecord{}, fmt.Errorf("append article: %w", err)
	}
	if err := p.store.AppendUsedTopic(ctx, topic.Topic); err != nil {
		log.Warn("append used topic failed", zap.Error(err))
	}

	// The rebuild is a pure function of the re-read store, so a failure here
	// never rolls back the appended record; the next run repairs the listings.
	if all, err := p.store.ReadAll(ctx); err != nil {
		log.Warn("re-read store for rebuild failed", zap.Error(err))
	} else if err := p.site.Rebuild(ctx, all); err != nil {
		log.Warn("site rebuild failed", zap.Error(err))
	}

	p.publishAndNotify(ctx, record)

	metrics.ObserveRun("success")
	metrics.ObserveArticlePublished()
	metrics.ObserveStage("run", p.clock.Now().Sub(started))
	log.Info("article published",
		zap.String("title", record.Title),
		zap.Duration("took", p.clock.Now().Sub(started)))
	return record, nil
}

func (p *Pipeline) assemblePage(ctx context.Context, topic blog.TopicRecord, draft blog.Draft, sources []blog.Source, records []blog.ArticleRecord) (string, error) {
	tmpl, err := p.loader.Load("post.html")
	if err != nil {
		return "", err
	}
	page := assemble.RenderPost(tmpl, assemble.Input{
		Topic:   topic,
		Draft:   draft,
		Sources: sources,
		Records: records,
		BaseURL: p.cfg.BaseURL,
		Now:     p.clock.Now(),
	})
	if p.validator != nil {
		sanitized, err := p.validator.Sanitize(ctx, page)
		if err != nil {
			p.logger.Warn("link validation failed, keeping page as assembled", zap.Error(err))
			return page, nil
		}
		page = sanitized
	}
	return page, nil
}

func (p *Pipeline) buildRecord(topic blog.TopicRecord, draft blog.Draft) blog.ArticleRecord {
	now := p.clock.Now()
	imageAlt := draft.ImageAlt
	if imageAlt == "" {
		imageAlt = topic.Title
	}
	return blog.ArticleRecord{
		Slug:            topic.Slug,
		Title:           topic.Title,
		MetaDescription: topic.MetaDescription,
		Category:        topic.Category,
		Keywords:        topic.Keywords,
		DateISO:         now.Format("2006-01-02"),
		DateDisplay:     assemble.GermanDate(now),
		ReadTime:        blog.ReadTime(draft.Content),
		ImageAlt:        imageAlt,
		ContentType:     topic.ContentType.Type,
	}
}

func (p *Pipeline) publishAndNotify(ctx context.Context, record blog.ArticleRecord) {
	if p.publisher != nil {
		if err := p.publisher.CommitAndPush(ctx, "Neuer Artikel: "+record.Title); err != nil {
			p.logger.Warn("publish failed", zap.Error(err))
		}
	}
	if p.notifier != nil {
		subject := "Neuer Artikel: " + record.Title
		html := fmt.Sprintf(`<h2>%s</h2><p>%s</p><p><a href="%s/posts/%s/">Zum Artikel</a></p>`,
			record.Title, record.MetaDescription, p.cfg.SiteURL, record.Slug)
		if err := p.notifier.Send(ctx, subject, html); err != nil {
			p.logger.Warn("notification mail failed", zap.Error(err))
		}
	}
	if p.events != nil {
		if id, err := p.events.Publish(ctx, record); err != nil {
			p.logger.Warn("event publish failed", zap.Error(err))
		} else {
			p.logger.Debug("event published", zap.String("message_id", id))
		}
	}
}
