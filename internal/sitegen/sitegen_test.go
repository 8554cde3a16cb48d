package sitegen

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/assemble"
	"github.com/nichtagentur/blogforge/internal/blog"
	"github.com/nichtagentur/blogforge/internal/sink"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func testBuilder(s *sink.Memory) *Builder {
	return New(
		Config{BaseURL: "https://nichtagentur.github.io/segeln", SiteURL: "https://segeln-lernen.example"},
		s,
		assemble.NewLoader(""),
		fixedClock{t: time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)},
		zap.NewNop(),
	)
}

func testRecords() []blog.ArticleRecord {
	return []blog.ArticleRecord{
		{Slug: "ankern-lernen", Title: "Ankern lernen", Category: "grundlagen", DateISO: "2026-08-01", ReadTime: 6},
		{Slug: "ostsee-guide", Title: "Ostsee Guide", Category: "reviere", DateISO: "2026-08-15", ReadTime: 9},
		{Slug: "wetterkunde", Title: "Wetterkunde", Category: "wissen", DateISO: "2026-08-29", ReadTime: 7},
	}
}

func TestRebuildWritesAllDerivedPages(t *testing.T) {
	t.Parallel()

	s := sink.NewMemory()
	require.NoError(t, testBuilder(s).Rebuild(context.Background(), testRecords()))

	for _, path := range []string{
		"index.html",
		"kategorie/grundlagen/index.html",
		"kategorie/reviere/index.html",
		"kategorie/boote/index.html",
		"kategorie/ausruestung/index.html",
		"kategorie/wissen/index.html",
		"kategorie/geschichten/index.html",
		"about/index.html",
		"sitemap.xml",
		"css/style.css",
		"js/widgets.js",
		"js/waves.js",
	} {
		_, ok := s.Get(path)
		require.True(t, ok, "missing artifact %s", path)
	}
}

func TestRebuildIndexOrdersNewestFirst(t *testing.T) {
	t.Parallel()

	s := sink.NewMemory()
	require.NoError(t, testBuilder(s).Rebuild(context.Background(), testRecords()))

	obj, ok := s.Get("index.html")
	require.True(t, ok)
	page := string(obj.Data)

	require.Less(t, strings.Index(page, "wetterkunde"), strings.Index(page, "ostsee-guide"))
	require.Less(t, strings.Index(page, "ostsee-guide"), strings.Index(page, "ankern-lernen"))
	require.Contains(t, page, "card-featured")
	require.NotContains(t, page, "{{")
}

func TestRebuildCategoryPagesFilterBySlug(t *testing.T) {
	t.Parallel()

	s := sink.NewMemory()
	require.NoError(t, testBuilder(s).Rebuild(context.Background(), testRecords()))

	obj, ok := s.Get("kategorie/reviere/index.html")
	require.True(t, ok)
	require.Contains(t, string(obj.Data), "ostsee-guide")
	require.NotContains(t, string(obj.Data), "ankern-lernen")

	empty, ok := s.Get("kategorie/boote/index.html")
	require.True(t, ok)
	require.Contains(t, string(empty.Data), "Noch keine Artikel")
}

func TestRebuildSitemapListsEverything(t *testing.T) {
	t.Parallel()

	s := sink.NewMemory()
	require.NoError(t, testBuilder(s).Rebuild(context.Background(), testRecords()))

	obj, ok := s.Get("sitemap.xml")
	require.True(t, ok)
	sitemap := string(obj.Data)

	require.Contains(t, sitemap, "<loc>https://segeln-lernen.example/</loc>")
	require.Contains(t, sitemap, "<loc>https://segeln-lernen.example/kategorie/wissen/</loc>")
	require.Contains(t, sitemap, "<loc>https://segeln-lernen.example/posts/wetterkunde/</loc>")
	require.Contains(t, sitemap, "<lastmod>2026-08-29</lastmod>")
}

func TestRebuildEmptyStore(t *testing.T) {
	t.Parallel()

	s := sink.NewMemory()
	require.NoError(t, testBuilder(s).Rebuild(context.Background(), nil))

	obj, ok := s.Get("index.html")
	require.True(t, ok)
	require.Contains(t, string(obj.Data), "Noch keine Artikel vorhanden")
}
