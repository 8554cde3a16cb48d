package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nichtagentur/blogforge/internal/blog"
)

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()

	records, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Empty(t, records)

	first := blog.ArticleRecord{Slug: "ankern-lernen", Title: "Ankern lernen", Category: "grundlagen"}
	second := blog.ArticleRecord{Slug: "wetterkunde", Title: "Wetterkunde", Category: "wissen"}
	require.NoError(t, s.AppendArticle(ctx, first))
	require.NoError(t, s.AppendArticle(ctx, second))

	records, err = s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "ankern-lernen", records[0].Slug)
	require.Equal(t, "wetterkunde", records[1].Slug)
}

func TestFileStoreWritesCamelCaseJSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	rec := blog.ArticleRecord{
		Slug:            "segelknoten",
		Title:           "Segelknoten",
		MetaDescription: "Die wichtigsten Knoten.",
		Category:        "grundlagen",
		DateISO:         "2026-08-29",
		DateDisplay:     "29. August 2026",
		ReadTime:        5,
	}
	require.NoError(t, s.AppendArticle(context.Background(), rec))

	data, err := os.ReadFile(filepath.Join(dir, "posts.json"))
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	require.Contains(t, raw[0], "metaDescription")
	require.Contains(t, raw[0], "dateISO")
	require.Contains(t, raw[0], "readTime")
}

func TestFileStoreUsedTopicsAllowDuplicates(t *testing.T) {
	t.Parallel()

	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.AppendUsedTopic(ctx, "Ankern"))
	require.NoError(t, s.AppendUsedTopic(ctx, "Ankern"))

	topics, err := s.ReadUsedTopics(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Ankern", "Ankern"}, topics)
}

func TestFileStoreRejectsEmptyInputs(t *testing.T) {
	t.Parallel()

	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.Error(t, s.AppendArticle(context.Background(), blog.ArticleRecord{}))
	require.Error(t, s.AppendUsedTopic(context.Background(), ""))
}

func TestFileStoreCorruptFileSurfacesError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "posts.json"), []byte("{not json"), 0o600))

	s, err := NewFileStore(dir)
	require.NoError(t, err)

	_, err = s.ReadAll(context.Background())
	require.Error(t, err)
}
