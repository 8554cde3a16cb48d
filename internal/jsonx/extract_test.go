package jsonx

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractObject(t *testing.T) {
	t.Parallel()

	t.Run("bare object", func(t *testing.T) {
		t.Parallel()
		raw, status := ExtractObject(`{"topic":"Ankern","keywords":["anker"]}`)
		require.Equal(t, Parsed, status)

		var got map[string]any
		require.NoError(t, json.Unmarshal(raw, &got))
		require.Equal(t, "Ankern", got["topic"])
	})

	t.Run("object wrapped in prose", func(t *testing.T) {
		t.Parallel()
		text := "Hier ist das Ergebnis:\n```json\n{\"title\":\"Segeltrimm\"}\n```\nViel Spass!"
		raw, status := ExtractObject(text)
		require.NotEqual(t, Failed, status)

		var got map[string]string
		require.NoError(t, json.Unmarshal(raw, &got))
		require.Equal(t, "Segeltrimm", got["title"])
	})

	t.Run("trailing garbage braces", func(t *testing.T) {
		t.Parallel()
		text := `{"a":1} und dann noch } kaputt`
		raw, status := ExtractObject(text)
		require.Equal(t, Recovered, status)
		require.JSONEq(t, `{"a":1}`, string(raw))
	})

	t.Run("no object", func(t *testing.T) {
		t.Parallel()
		_, status := ExtractObject("leider kein JSON hier")
		require.Equal(t, Failed, status)
	})

	t.Run("unbalanced braces", func(t *testing.T) {
		t.Parallel()
		_, status := ExtractObject(`{"a": "never closed`)
		require.Equal(t, Failed, status)
	})
}

func TestRecoverDraft(t *testing.T) {
	t.Parallel()

	t.Run("content with trailing faq anchor", func(t *testing.T) {
		t.Parallel()
		// Invalid JSON overall (unescaped quote in faq), but content is intact.
		text := `{"content": "<p>Moin!</p>\n<h2>Knoten</h2>", "faq": [{"question": "Was?", "answer": "Das "beste" Tau"}], "image_alt": "Ein Segelboot"}`
		got, status := RecoverDraft(text)
		require.Equal(t, Recovered, status)
		require.Equal(t, "<p>Moin!</p>\n<h2>Knoten</h2>", got.Content)
		require.Equal(t, "Ein Segelboot", got.ImageAlt)
		require.Nil(t, got.FAQ, "broken faq array must not be recovered")
	})

	t.Run("valid faq array recovered", func(t *testing.T) {
		t.Parallel()
		text := `{"content": "<p>Inhalt</p>", "faq": [{"question":"F?","answer":"A"}], "image_alt": "Alt"`
		got, status := RecoverDraft(text)
		require.Equal(t, Recovered, status)
		require.Equal(t, "<p>Inhalt</p>", got.Content)
		require.JSONEq(t, `[{"question":"F?","answer":"A"}]`, string(got.FAQ))
	})

	t.Run("no content field", func(t *testing.T) {
		t.Parallel()
		_, status := RecoverDraft(`{"faq": []}`)
		require.Equal(t, Failed, status)
	})
}

func TestUnescape(t *testing.T) {
	t.Parallel()
	require.Equal(t, "Zeile 1\nZeile \"zwei\"", Unescape(`Zeile 1\nZeile \"zwei\"`))
}
