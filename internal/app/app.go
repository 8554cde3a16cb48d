// Package app initializes and holds the long-lived application services,
// acting as the dependency injection container for the CLI commands.
package app

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/assemble"
	"github.com/nichtagentur/blogforge/internal/assistant"
	"github.com/nichtagentur/blogforge/internal/blog"
	"github.com/nichtagentur/blogforge/internal/clock/system"
	"github.com/nichtagentur/blogforge/internal/config"
	"github.com/nichtagentur/blogforge/internal/id/uuid"
	"github.com/nichtagentur/blogforge/internal/imagegen"
	"github.com/nichtagentur/blogforge/internal/links"
	"github.com/nichtagentur/blogforge/internal/notify"
	"github.com/nichtagentur/blogforge/internal/pipeline"
	"github.com/nichtagentur/blogforge/internal/probe"
	"github.com/nichtagentur/blogforge/internal/publish"
	"github.com/nichtagentur/blogforge/internal/search"
	"github.com/nichtagentur/blogforge/internal/sink"
	"github.com/nichtagentur/blogforge/internal/sitegen"
	"github.com/nichtagentur/blogforge/internal/store"
	"github.com/nichtagentur/blogforge/internal/textgen"
)

// App holds the shared services built from configuration. Optional services
// (searcher, publisher, mailer, events) are nil when not configured; dependent
// features then degrade.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	store     blog.Store
	archive   assistant.Archive
	mailer    blog.Notifier
	pipeline  *pipeline.Pipeline
	assistant *assistant.Assistant
	clock     blog.Clock
	idGen     blog.IDGenerator

	closers []func()
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config { return a.cfg }

// Logger returns the shared zap logger.
func (a *App) Logger() *zap.Logger { return a.logger }

// Store returns the content store.
func (a *App) Store() blog.Store { return a.store }

// Pipeline returns the article generation pipeline.
func (a *App) Pipeline() *pipeline.Pipeline { return a.pipeline }

// Assistant returns the command assistant.
func (a *App) Assistant() *assistant.Assistant { return a.assistant }

// Mailer returns the configured mail notifier, or nil.
func (a *App) Mailer() blog.Notifier { return a.mailer }

// Clock returns the shared clock.
func (a *App) Clock() blog.Clock { return a.clock }

// IDGenerator returns the shared ID generator.
func (a *App) IDGenerator() blog.IDGenerator { return a.idGen }

// Close releases all held resources.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	_ = a.logger.Sync()
}

// New builds the full service graph from configuration, failing fast when a
// required service cannot be initialized.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger, clock: system.New(), idGen: uuid.New()}

	text, err := textgen.New(textgen.Config{
		APIKey:  cfg.LLM.APIKey,
		Timeout: time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("init text generator: %w", err)
	}

	if err := a.initStore(ctx); err != nil {
		return nil, err
	}
	if err := a.initArchive(ctx); err != nil {
		return nil, err
	}

	prober := probe.New(probe.Config{
		Timeout:    cfg.ProbeTimeout(),
		PerHostRPS: cfg.Probe.PerHostRPS,
		Burst:      cfg.Probe.Burst,
	}, logger)

	searcher := asSearcher(search.New(search.Config{
		Endpoint: cfg.Search.Endpoint,
		APIKey:   cfg.Search.APIKey,
		Timeout:  time.Duration(cfg.Search.TimeoutSeconds) * time.Second,
	}))

	var publisher blog.Publisher
	if cfg.Publish.Enabled {
		git, err := publish.NewGit(cfg.Publish.WorkDir, logger)
		if err != nil {
			return nil, fmt.Errorf("init publisher: %w", err)
		}
		publisher = git
	}

	if cfg.Notify.SMTP.Host != "" {
		mailer, err := notify.NewMailer(notify.MailConfig{
			Host:     cfg.Notify.SMTP.Host,
			Port:     cfg.Notify.SMTP.Port,
			Username: cfg.Notify.SMTP.Username,
			Password: cfg.Notify.SMTP.Password,
			From:     cfg.Notify.SMTP.From,
			To:       cfg.Notify.SMTP.To,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("init mailer: %w", err)
		}
		a.mailer = mailer
	}

	var events blog.EventPublisher
	if cfg.Notify.PubSub.ProjectID != "" && cfg.Notify.PubSub.TopicName != "" {
		client, err := pubsub.NewClient(ctx, cfg.Notify.PubSub.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("init pubsub client: %w", err)
		}
		ps, err := notify.NewPubSub(client, cfg.Notify.PubSub.TopicName)
		if err != nil {
			return nil, fmt.Errorf("init pubsub topic: %w", err)
		}
		a.closers = append(a.closers, func() {
			ps.Stop()
			_ = client.Close()
		})
		events = ps
	}

	timeout := time.Duration(cfg.Images.TimeoutSeconds) * time.Second
	var primary blog.ImageGenerator
	var fallbacks []blog.ImageGenerator
	if cfg.Images.GeminiAPIKey != "" {
		primary = imagegen.NewGemini(cfg.Images.GeminiAPIKey, cfg.Images.GeminiModel, timeout)
		if cfg.Images.GeminiVariantModel != "" {
			fallbacks = append(fallbacks, imagegen.NewGemini(cfg.Images.GeminiAPIKey, cfg.Images.GeminiVariantModel, timeout))
		}
	}
	if cfg.Images.OpenAIAPIKey != "" {
		fallbacks = append(fallbacks, imagegen.NewOpenAI(cfg.Images.OpenAIAPIKey, cfg.Images.OpenAIModel, timeout))
	}
	images := imagegen.NewChain(primary, fallbacks, logger)

	loader := assemble.NewLoader(cfg.Paths.TemplatesDir)
	site := sitegen.New(sitegen.Config{
		BaseURL: cfg.Site.BaseURL,
		SiteURL: cfg.Site.SiteURL,
	}, a.archive, loader, a.clock, logger)
	validator := links.New(prober, cfg.Site.SiteURL, logger)

	p, err := pipeline.New(pipeline.Config{
		BaseURL:            cfg.Site.BaseURL,
		SiteURL:            cfg.Site.SiteURL,
		ResearchModel:      cfg.LLM.ResearchModel,
		DraftModel:         cfg.LLM.DraftModel,
		QualityModel:       cfg.LLM.QualityModel,
		MaxTokens:          cfg.LLM.MaxTokens,
		QualityThreshold:   cfg.Quality.Threshold,
		QualityMaxAttempts: cfg.Quality.MaxAttempts,
		MarketplaceDomain:  cfg.Search.MarketplaceDomain,
	}, pipeline.Deps{
		Text:      text,
		Images:    images,
		Searcher:  searcher,
		Prober:    prober,
		Store:     a.store,
		Sink:      a.archive,
		Site:      site,
		Loader:    loader,
		Validator: validator,
		Publisher: publisher,
		Notifier:  a.mailer,
		Events:    events,
		Clock:     a.clock,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init pipeline: %w", err)
	}
	a.pipeline = p

	asst, err := assistant.New(assistant.Config{
		ClassifyModel: cfg.LLM.ClassifyModel,
		EditModel:     cfg.LLM.DraftModel,
		MaxTokens:     cfg.LLM.MaxTokens,
	}, text, a.store, a.archive, publisher, logger)
	if err != nil {
		return nil, fmt.Errorf("init assistant: %w", err)
	}
	a.assistant = asst

	logger.Info("application services initialized",
		zap.String("store", cfg.Store.Backend),
		zap.String("sink", cfg.Sink.Backend),
		zap.Bool("search", searcher != nil),
		zap.Bool("publish", publisher != nil),
		zap.Bool("mail", a.mailer != nil),
		zap.Bool("events", events != nil))
	return a, nil
}

func (a *App) initStore(ctx context.Context) error {
	switch a.cfg.Store.Backend {
	case "file":
		s, err := store.NewFileStore(a.cfg.Paths.DataDir)
		if err != nil {
			return fmt.Errorf("init file store: %w", err)
		}
		a.store = s
	case "memory":
		a.store = store.NewMemoryStore()
	case "postgres":
		s, err := store.NewPostgresStore(ctx, store.PostgresConfig{
			DSN:      a.cfg.Store.Postgres.DSN,
			MaxConns: a.cfg.Store.Postgres.MaxConns,
		})
		if err != nil {
			return fmt.Errorf("init postgres store: %w", err)
		}
		a.store = s
	default:
		return fmt.Errorf("unknown store backend %q", a.cfg.Store.Backend)
	}
	a.closers = append(a.closers, a.store.Close)
	return nil
}

func (a *App) initArchive(ctx context.Context) error {
	switch a.cfg.Sink.Backend {
	case "local":
		s, err := sink.NewLocal(a.cfg.Paths.DocsDir)
		if err != nil {
			return fmt.Errorf("init local sink: %w", err)
		}
		a.archive = s
	case "memory":
		a.archive = sink.NewMemory()
	case "gcs":
		client, err := storage.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("init storage client: %w", err)
		}
		s, err := sink.NewGCS(client, a.cfg.Sink.GCSBucket, a.cfg.Sink.Prefix)
		if err != nil {
			return fmt.Errorf("init gcs sink: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		a.archive = s
	default:
		return fmt.Errorf("unknown sink backend %q", a.cfg.Sink.Backend)
	}
	return nil
}

// asSearcher converts the concrete client to the interface, keeping a
// disabled adapter as a true nil interface.
func asSearcher(c *search.Client) blog.Searcher {
	if c == nil {
		return nil
	}
	return c
}
