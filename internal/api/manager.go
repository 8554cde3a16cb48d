package api

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/assistant"
	"github.com/nichtagentur/blogforge/internal/blog"
	"github.com/nichtagentur/blogforge/internal/pipeline"
)

// ErrBusy indicates a run is already in progress. The pipeline is strictly
// sequential, so concurrent requests are rejected rather than queued.
var ErrBusy = errors.New("a run is already in progress")

const (
	defaultRunTimeout = 10 * time.Minute
	notifyTimeout     = time.Minute
)

// ArticleRunner produces one article per call.
type ArticleRunner interface {
	RunOne(ctx context.Context, opts pipeline.RunOptions) (blog.ArticleRecord, error)
}

// Manager starts background generation and edit runs, one at a time.
type Manager struct {
	pipeline  ArticleRunner
	assistant *assistant.Assistant
	notifier  blog.Notifier
	runs      *RunStore
	idGen     blog.IDGenerator
	clock     blog.Clock
	siteURL   string
	timeout   time.Duration
	logger    *zap.Logger

	flight sync.Mutex
}

// NewManager creates a run manager. assistant and notifier may be nil; edits
// then fail fast and completion mails are skipped.
func NewManager(p ArticleRunner, a *assistant.Assistant, notifier blog.Notifier, runs *RunStore, idGen blog.IDGenerator, clock blog.Clock, siteURL string, logger *zap.Logger) (*Manager, error) {
	if p == nil {
		return nil, fmt.Errorf("pipeline is required")
	}
	if runs == nil {
		return nil, fmt.Errorf("run store is required")
	}
	if idGen == nil {
		return nil, fmt.Errorf("id generator is required")
	}
	if clock == nil {
		return nil, fmt.Errorf("clock is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		pipeline:  p,
		assistant: a,
		notifier:  notifier,
		runs:      runs,
		idGen:     idGen,
		clock:     clock,
		siteURL:   siteURL,
		timeout:   defaultRunTimeout,
		logger:    logger,
	}, nil
}

// StartArticle launches a generation run in the background. topic may be
// empty, letting the model pick one.
func (m *Manager) StartArticle(topic string) (string, error) {
	return m.start(Run{Kind: RunKindArticle, Topic: topic}, func(ctx context.Context) (*blog.ArticleRecord, error) {
		record, err := m.pipeline.RunOne(ctx, pipeline.RunOptions{ForcedTopic: topic})
		if err != nil {
			return nil, err
		}
		return &record, nil
	})
}

// StartEdit launches an article edit in the background.
func (m *Manager) StartEdit(slug, instructions string) (string, error) {
	if m.assistant == nil {
		return "", fmt.Errorf("editing is not configured")
	}
	return m.start(Run{Kind: RunKindEdit, Slug: slug}, func(ctx context.Context) (*blog.ArticleRecord, error) {
		title, err := m.assistant.EditArticle(ctx, slug, instructions)
		if err != nil {
			return nil, err
		}
		return &blog.ArticleRecord{Slug: slug, Title: title}, nil
	})
}

func (m *Manager) start(run Run, work func(ctx context.Context) (*blog.ArticleRecord, error)) (string, error) {
	if !m.flight.TryLock() {
		return "", ErrBusy
	}

	id, err := m.idGen.NewID()
	if err != nil {
		m.flight.Unlock()
		return "", fmt.Errorf("generate run id: %w", err)
	}
	run.ID = id
	run.Status = RunQueued
	run.Submitted = m.clock.Now()
	m.runs.Create(run)

	go func() {
		defer m.flight.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()

		m.runs.SetRunning(run.ID)
		record, err := work(ctx)

		// The run context may already be past its deadline; mails still
		// have to go out.
		notifyCtx, notifyCancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer notifyCancel()

		if err != nil {
			m.runs.SetFailed(run.ID, m.clock.Now(), err.Error())
			m.logger.Error("background run failed",
				zap.String("run_id", run.ID),
				zap.String("kind", run.Kind),
				zap.Error(err))
			m.notifyFailure(notifyCtx, run, err)
			return
		}
		m.runs.SetSucceeded(run.ID, m.clock.Now(), record)
		m.logger.Info("background run finished",
			zap.String("run_id", run.ID),
			zap.String("kind", run.Kind))
		m.notifySuccess(notifyCtx, run, record)
	}()

	return run.ID, nil
}

func (m *Manager) notifySuccess(ctx context.Context, run Run, record *blog.ArticleRecord) {
	if m.notifier == nil || record == nil {
		return
	}
	var subject, body string
	switch run.Kind {
	case RunKindEdit:
		subject = "Fertig bearbeitet: " + record.Title
		body = fmt.Sprintf(`<p>Der Artikel "<strong>%s</strong>" wurde erfolgreich bearbeitet und ist online.</p><p><a href="%s/posts/%s/">Artikel ansehen &rarr;</a></p>`,
			record.Title, m.siteURL, record.Slug)
	default:
		subject = "Neuer Artikel online: " + record.Title
		body = fmt.Sprintf(`<h2>%s</h2><p><strong>Kategorie:</strong> %s</p><p><strong>Lesezeit:</strong> %d Min.</p><p><a href="%s/posts/%s/">Artikel lesen &rarr;</a></p>`,
			record.Title, record.Category, record.ReadTime, m.siteURL, record.Slug)
	}
	if err := m.notifier.Send(ctx, subject, body); err != nil {
		m.logger.Warn("completion mail failed", zap.Error(err))
	}
}

func (m *Manager) notifyFailure(ctx context.Context, run Run, runErr error) {
	if m.notifier == nil {
		return
	}
	var subject string
	switch run.Kind {
	case RunKindEdit:
		subject = "Fehler beim Bearbeiten: " + run.Slug
	default:
		subject = "Fehler beim Erstellen"
	}
	body := fmt.Sprintf(`<p>Es gab leider einen Fehler: %s</p><p>Bitte versuche es nochmal.</p>`, runErr)
	if err := m.notifier.Send(ctx, subject, body); err != nil {
		m.logger.Warn("failure mail failed", zap.Error(err))
	}
}
