package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/blog"
	"github.com/nichtagentur/blogforge/internal/sink"
	"github.com/nichtagentur/blogforge/internal/store"
)

type scriptedText struct {
	response string
	err      error
	prompts  []string
}

func (s *scriptedText) Generate(_ context.Context, req blog.PromptRequest) (string, error) {
	s.prompts = append(s.prompts, req.Prompt)
	return s.response, s.err
}

type recordingPublisher struct{ messages []string }

func (r *recordingPublisher) CommitAndPush(_ context.Context, message string) error {
	r.messages = append(r.messages, message)
	return nil
}

func seededStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	st := store.NewMemoryStore()
	require.NoError(t, st.AppendArticle(context.Background(), blog.ArticleRecord{
		Slug: "ankern-lernen", Title: "Ankern lernen", Category: "grundlagen",
	}))
	return st
}

func TestClassifyParsesAction(t *testing.T) {
	t.Parallel()

	text := &scriptedText{response: `{"action": "new_post", "topic": "Wetterkunde fuer Segler", "reply": "Mach ich!"}`}
	a, err := New(Config{}, text, seededStore(t), sink.NewMemory(), nil, zap.NewNop())
	require.NoError(t, err)

	c, err := a.Classify(context.Background(), "Neuer Beitrag zum Thema Wetterkunde")
	require.NoError(t, err)
	require.Equal(t, ActionNewPost, c.Action)
	require.Equal(t, "Wetterkunde fuer Segler", c.Topic)

	require.Len(t, text.prompts, 1)
	require.Contains(t, text.prompts[0], "ankern-lernen", "existing articles listed for context")
}

func TestClassifyDegradesOnGarbage(t *testing.T) {
	t.Parallel()

	text := &scriptedText{response: "das ist kein JSON"}
	a, err := New(Config{}, text, seededStore(t), sink.NewMemory(), nil, zap.NewNop())
	require.NoError(t, err)

	c, err := a.Classify(context.Background(), "???")
	require.NoError(t, err)
	require.Equal(t, ActionOther, c.Action)
	require.NotEmpty(t, c.Reply)
}

func TestClassifyNormalizesUnknownAction(t *testing.T) {
	t.Parallel()

	text := &scriptedText{response: `{"action": "delete_everything", "reply": "ok"}`}
	a, err := New(Config{}, text, seededStore(t), sink.NewMemory(), nil, zap.NewNop())
	require.NoError(t, err)

	c, err := a.Classify(context.Background(), "loesch alles")
	require.NoError(t, err)
	require.Equal(t, ActionOther, c.Action)
}

func TestEditArticleSplicesBody(t *testing.T) {
	t.Parallel()

	archive := sink.NewMemory()
	page := `<!DOCTYPE html><html><body><header>H</header><article class="post"><p>Alter Text.</p></article><footer>F</footer></body></html>`
	_, err := archive.Put(context.Background(), "posts/ankern-lernen/index.html", "text/html", []byte(page))
	require.NoError(t, err)

	text := &scriptedText{response: "<p>Neuer, persoenlicherer Text.</p>"}
	pub := &recordingPublisher{}
	a, err := New(Config{}, text, seededStore(t), archive, pub, zap.NewNop())
	require.NoError(t, err)

	title, err := a.EditArticle(context.Background(), "ankern-lernen", "mach ihn persoenlicher")
	require.NoError(t, err)
	require.Equal(t, "Ankern lernen", title)

	edited, ok := archive.Get("posts/ankern-lernen/index.html")
	require.True(t, ok)
	require.Contains(t, string(edited.Data), `<article class="post"><p>Neuer, persoenlicherer Text.</p></article>`)
	require.Contains(t, string(edited.Data), "<header>H</header>")
	require.Contains(t, string(edited.Data), "<footer>F</footer>")
	require.NotContains(t, string(edited.Data), "Alter Text")

	require.Equal(t, []string{"Bearbeitet: Ankern lernen"}, pub.messages)
	require.True(t, strings.Contains(text.prompts[0], "mach ihn persoenlicher"))
}

func TestEditArticleUnknownSlug(t *testing.T) {
	t.Parallel()

	a, err := New(Config{}, &scriptedText{}, seededStore(t), sink.NewMemory(), nil, zap.NewNop())
	require.NoError(t, err)

	_, err = a.EditArticle(context.Background(), "gibts-nicht", "egal")
	require.ErrorIs(t, err, ErrArticleNotFound)
}

func TestEditArticleWithoutArticleElement(t *testing.T) {
	t.Parallel()

	archive := sink.NewMemory()
	_, err := archive.Put(context.Background(), "posts/ankern-lernen/index.html", "text/html", []byte("<html><body>kein Artikel</body></html>"))
	require.NoError(t, err)

	a, err := New(Config{}, &scriptedText{}, seededStore(t), archive, nil, zap.NewNop())
	require.NoError(t, err)

	_, err = a.EditArticle(context.Background(), "ankern-lernen", "egal")
	require.ErrorIs(t, err, ErrNoArticleBody)
}

func TestEditArticleEmptyRewrite(t *testing.T) {
	t.Parallel()

	archive := sink.NewMemory()
	_, err := archive.Put(context.Background(), "posts/ankern-lernen/index.html", "text/html", []byte("<article><p>x</p></article>"))
	require.NoError(t, err)

	a, err := New(Config{}, &scriptedText{response: "   "}, seededStore(t), archive, nil, zap.NewNop())
	require.NoError(t, err)

	_, err = a.EditArticle(context.Background(), "ankern-lernen", "egal")
	require.ErrorIs(t, err, blog.ErrMissingContent)
}

func TestEditArticleModelFailure(t *testing.T) {
	t.Parallel()

	archive := sink.NewMemory()
	_, err := archive.Put(context.Background(), "posts/ankern-lernen/index.html", "text/html", []byte("<article><p>x</p></article>"))
	require.NoError(t, err)

	a, err := New(Config{}, &scriptedText{err: errors.New("rate limited")}, seededStore(t), archive, nil, zap.NewNop())
	require.NoError(t, err)

	_, err = a.EditArticle(context.Background(), "ankern-lernen", "egal")
	require.Error(t, err)

	untouched, ok := archive.Get("posts/ankern-lernen/index.html")
	require.True(t, ok)
	require.Equal(t, "<article><p>x</p></article>", string(untouched.Data))
}
