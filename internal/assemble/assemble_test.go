package assemble

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nichtagentur/blogforge/internal/blog"
)

func TestTOCAssignsSequentialIDs(t *testing.T) {
	t.Parallel()

	content := `<p>Einleitung.</p>
<h2>Vorbereitung</h2><p>a</p>
<h2>Durchfuehrung</h2><p>b</p>
<h2>Nachbereitung</h2><p>c</p>`

	toc, withIDs := TOC(content)

	require.Contains(t, toc, `<a href="#section-1">Vorbereitung</a>`)
	require.Contains(t, toc, `<a href="#section-2">Durchfuehrung</a>`)
	require.Contains(t, toc, `<a href="#section-3">Nachbereitung</a>`)
	require.Contains(t, withIDs, `<h2 id="section-1">Vorbereitung</h2>`)
	require.Contains(t, withIDs, `<h2 id="section-3">Nachbereitung</h2>`)
}

func TestTOCEmptyWithoutHeadings(t *testing.T) {
	t.Parallel()

	toc, withIDs := TOC("<p>Nur Text ohne Ueberschriften.</p>")
	require.Empty(t, toc)
	require.Equal(t, "<p>Nur Text ohne Ueberschriften.</p>", withIDs)
}

func TestEmbedWidgets(t *testing.T) {
	t.Parallel()

	out := EmbedWidgets("<p>vorher</p>{{BEAUFORT_WIDGET}}<p>nachher</p>{{CALCULATOR_WIDGET}}")
	require.NotContains(t, out, "{{BEAUFORT_WIDGET}}")
	require.NotContains(t, out, "{{CALCULATOR_WIDGET}}")
	require.Contains(t, out, "widget-beaufort")
	require.Contains(t, out, "widget-calculator")
}

func TestFAQBlocks(t *testing.T) {
	t.Parallel()

	faq := []blog.FAQEntry{
		{Question: "Brauche ich einen Schein?", Answer: "Je nach Revier."},
		{Question: `Was kostet ein "Toern"?`, Answer: "Das haengt vom Boot ab."},
	}

	html := FAQHTML(faq)
	require.Contains(t, html, "Haeufig gestellte Fragen")
	require.Contains(t, html, "Brauche ich einen Schein?")

	jsonLD := FAQJSONLD(faq)
	require.Contains(t, jsonLD, `"@type":"Question"`)
	require.Contains(t, jsonLD, `\"Toern\"`)

	require.Empty(t, FAQHTML(nil))
	require.Empty(t, FAQJSONLD(nil))
}

func TestRelatedRecordsExcludesCurrentSlug(t *testing.T) {
	t.Parallel()

	records := []blog.ArticleRecord{
		{Slug: "a"}, {Slug: "b"}, {Slug: "c"}, {Slug: "d"}, {Slug: "e"},
	}
	related := RelatedRecords(records, "d")
	require.Len(t, related, 3)
	require.Equal(t, "b", related[0].Slug)
	require.Equal(t, "c", related[1].Slug)
	require.Equal(t, "e", related[2].Slug)
}

func TestRenderPostResolvesAllTokens(t *testing.T) {
	t.Parallel()

	tmpl, err := NewLoader("").Load("post.html")
	require.NoError(t, err)

	in := Input{
		Topic: blog.TopicRecord{
			Topic:           "Ankern in der Ostsee",
			Title:           "Ankern lernen",
			MetaDescription: "Wie man sicher ankert.",
			Category:        "grundlagen",
			Slug:            "ankern-lernen",
		},
		Draft: blog.Draft{
			Content: `<p>Intro.</p><h2>Der richtige Ankerplatz</h2><p>Text.</p><h2>Das Manoever</h2><p>Mehr Text.</p>`,
			FAQ: []blog.FAQEntry{
				{Question: "Welcher Anker?", Answer: "Je nach Grund."},
			},
			ImageAlt: "Segelboot vor Anker",
		},
		Sources: []blog.Source{{URL: "https://example.org/ankern", Title: "Ankerkunde"}},
		Records: []blog.ArticleRecord{{Slug: "wetterkunde", Title: "Wetterkunde", ReadTime: 5}},
		BaseURL: "https://segeln-lernen.example",
		Now:     time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC),
	}

	out := RenderPost(tmpl, in)

	require.NotContains(t, out, "{{", "unresolved template token")
	require.Contains(t, out, "Ankern lernen")
	require.Contains(t, out, "29. August 2026")
	require.Contains(t, out, "2026-08-29")
	require.Contains(t, out, `<h2 id="section-1">Der richtige Ankerplatz</h2>`)
	require.Contains(t, out, "Quellen")
	require.Contains(t, out, "wetterkunde")
}

func TestRenderPostIsDeterministicWithTokenLikeContent(t *testing.T) {
	t.Parallel()

	tmpl, err := NewLoader("").Load("post.html")
	require.NoError(t, err)

	in := Input{
		Topic: blog.TopicRecord{
			Topic:    "Segelknoten",
			Title:    "Knotenkunde",
			Category: "grundlagen",
			Slug:     "knotenkunde",
		},
		Draft: blog.Draft{
			Content: `<p>Schreibe {{TITLE}} woertlich in den Text.</p><h2>Knoten</h2><p>Text.</p>`,
		},
		BaseURL: "https://segeln-lernen.example",
		Now:     time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC),
	}

	first := RenderPost(tmpl, in)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, RenderPost(tmpl, in))
	}

	// The literal token inside the content is inserted after the title pass
	// and survives untouched.
	require.Contains(t, first, "Schreibe {{TITLE}} woertlich")
}

func TestGermanDate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1. Januar 2027", GermanDate(time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, "29. August 2026", GermanDate(time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)))
}

func TestLoaderFallsBackToEmbedded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	l := NewLoader(dir)

	// Missing from dir falls back to the embedded default.
	tmpl, err := l.Load("about.html")
	require.NoError(t, err)
	require.Contains(t, tmpl, "{{BASE_URL}}")

	_, err = l.Load("does-not-exist.html")
	require.Error(t, err)
}

func TestCardHTMLFallsBackToTitleAlt(t *testing.T) {
	t.Parallel()

	card := CardHTML("https://x.example", blog.ArticleRecord{Slug: "s", Title: "Titel", Category: "wissen"}, true)
	require.Contains(t, card, `alt="Titel"`)
	require.Contains(t, card, "card-featured")
	require.True(t, strings.Contains(card, "Wissen"))
}
