// Package assistant classifies free-text editorial commands and applies edits
// to published articles. Commands arrive over the API; the classifier decides
// whether the sender wants a new article, an edit of an existing one, a status
// report, or something else.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/blog"
	"github.com/nichtagentur/blogforge/internal/jsonx"
)

// Command actions produced by Classify.
const (
	ActionNewPost  = "new_post"
	ActionEditPost = "edit_post"
	ActionInfo     = "info"
	ActionOther    = "other"
)

var (
	// ErrArticleNotFound indicates an edit referenced a slug not in the store.
	ErrArticleNotFound = errors.New("article not found")

	// ErrNoArticleBody indicates a published page had no <article> element to
	// splice the edit into.
	ErrNoArticleBody = errors.New("no article body in published page")
)

// Archive extends the sink with read-back of published artifacts, which the
// edit flow needs to load the current page.
type Archive interface {
	blog.Sink
	Load(ctx context.Context, path string) ([]byte, error)
}

// Classification is the structured reading of one free-text command.
type Classification struct {
	Action           string `json:"action"`
	Topic            string `json:"topic"`
	Slug             string `json:"slug"`
	EditInstructions string `json:"edit_instructions"`
	Reply            string `json:"reply"`
}

// Config tunes the assistant's model calls.
type Config struct {
	ClassifyModel string
	EditModel     string
	MaxTokens     int
}

// Assistant implements the command surface.
type Assistant struct {
	cfg       Config
	text      blog.TextGenerator
	store     blog.Store
	archive   Archive
	publisher blog.Publisher
	logger    *zap.Logger
}

// New creates an assistant. publisher may be nil; edits are then written but
// not pushed.
func New(cfg Config, text blog.TextGenerator, store blog.Store, archive Archive, publisher blog.Publisher, logger *zap.Logger) (*Assistant, error) {
	if text == nil {
		return nil, fmt.Errorf("text generator is required")
	}
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if archive == nil {
		return nil, fmt.Errorf("archive is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 6144
	}
	return &Assistant{cfg: cfg, text: text, store: store, archive: archive, publisher: publisher, logger: logger}, nil
}

const fallbackReply = `Entschuldigung, ich konnte den Befehl nicht verstehen. Bitte schreib mir was du moechtest, z.B. "Neuer Beitrag zum Thema Ankern" oder "Bearbeite den Beitrag ueber Winterhandschuhe".`

// Classify reads the command against the current article list. An unparsable
// model response degrades to ActionOther with an explanatory reply; only the
// model call itself can fail.
func (a *Assistant) Classify(ctx context.Context, command string) (Classification, error) {
	records, err := a.store.ReadAll(ctx)
	if err != nil {
		return Classification{}, fmt.Errorf("read store: %w", err)
	}

	raw, err := a.text.Generate(ctx, blog.PromptRequest{
		Model:     a.cfg.ClassifyModel,
		MaxTokens: 512,
		Prompt:    classifyPrompt(command, records),
	})
	if err != nil {
		return Classification{}, fmt.Errorf("classify command: %w", err)
	}

	obj, status := jsonx.ExtractObject(raw)
	if status == jsonx.Failed {
		a.logger.Warn("command classification unparsable")
		return Classification{Action: ActionOther, Reply: fallbackReply}, nil
	}
	var c Classification
	if err := json.Unmarshal(obj, &c); err != nil || c.Action == "" {
		a.logger.Warn("command classification invalid", zap.Error(err))
		return Classification{Action: ActionOther, Reply: fallbackReply}, nil
	}

	switch c.Action {
	case ActionNewPost, ActionEditPost, ActionInfo, ActionOther:
	default:
		c.Action = ActionOther
	}
	a.logger.Info("command classified", zap.String("action", c.Action))
	return c, nil
}

var articlePattern = regexp.MustCompile(`(?is)(<article[^>]*>)(.*?)(</article>)`)

const editExcerptLen = 8000

// EditArticle rewrites the body of a published article per the instructions
// and writes the spliced page back. The record's title is returned for
// notifications.
func (a *Assistant) EditArticle(ctx context.Context, slug, instructions string) (string, error) {
	records, err := a.store.ReadAll(ctx)
	if err != nil {
		return "", fmt.Errorf("read store: %w", err)
	}
	var record blog.ArticleRecord
	found := false
	for _, r := range records {
		if r.Slug == slug {
			record = r
			found = true
			break
		}
	}
	if !found {
		return "", fmt.Errorf("%w: %s", ErrArticleNotFound, slug)
	}

	pagePath := "posts/" + slug + "/index.html"
	page, err := a.archive.Load(ctx, pagePath)
	if err != nil {
		return "", fmt.Errorf("load published page: %w", err)
	}

	match := articlePattern.FindSubmatchIndex(page)
	if match == nil {
		return "", ErrNoArticleBody
	}
	body := string(page[match[4]:match[5]])

	excerpt := blog.Truncate(body, editExcerptLen)

	edited, err := a.text.Generate(ctx, blog.PromptRequest{
		Model:     a.cfg.EditModel,
		MaxTokens: a.cfg.MaxTokens,
		Prompt:    editPrompt(instructions, excerpt),
	})
	if err != nil {
		return "", fmt.Errorf("edit article: %w", err)
	}
	edited = strings.TrimSpace(edited)
	if edited == "" {
		return "", blog.ErrMissingContent
	}

	spliced := string(page[:match[4]]) + edited + string(page[match[5]:])
	if _, err := a.archive.Put(ctx, pagePath, "text/html", []byte(spliced)); err != nil {
		return "", fmt.Errorf("write edited page: %w", err)
	}

	if a.publisher != nil {
		if err := a.publisher.CommitAndPush(ctx, "Bearbeitet: "+record.Title); err != nil {
			a.logger.Warn("publish edit failed", zap.Error(err))
		}
	}

	a.logger.Info("article edited", zap.String("slug", slug), zap.String("title", record.Title))
	return record.Title, nil
}

func classifyPrompt(command string, records []blog.ArticleRecord) string {
	list := make([]string, 0, len(records))
	for _, r := range records {
		list = append(list, fmt.Sprintf("- %q (%s, %s)", r.Title, r.Category, r.Slug))
	}
	postList := strings.Join(list, "\n")
	if postList == "" {
		postList = "(noch keine Artikel)"
	}

	return fmt.Sprintf(`Du bist der Redaktionsassistent fuer den Segel-Blog "Segeln Lernen".
Ein Befehl ist eingegangen:

"%s"

Existierende Artikel:
%s

Klassifiziere den Befehl. Antworte NUR mit JSON:
{
  "action": "new_post" | "edit_post" | "info" | "other",
  "topic": "Das Thema falls new_post",
  "slug": "der slug falls edit_post",
  "edit_instructions": "Was genau geaendert werden soll falls edit_post",
  "reply": "Kurze Antwort an den Absender"
}`, command, postList)
}

func editPrompt(instructions, body string) string {
	return fmt.Sprintf(`Du bist Kapitaen Hannes. Bearbeite diesen Artikel nach folgenden Anweisungen:

ANWEISUNGEN: %s

WICHTIG: Behalte den bescheidenen, warmherzigen Seemann-Ton bei. Antworte NUR mit dem bearbeiteten HTML-Content.

AKTUELLER ARTIKEL:
%s`, instructions, body)
}
