package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nichtagentur/blogforge/internal/blog"
)

func TestInsertCalloutAfterSecondHeadingParagraph(t *testing.T) {
	t.Parallel()

	content := `<p>Intro.</p><h2>Erstens</h2><p>Eins.</p><h2>Zweitens</h2><p>Zwei.</p><p>Noch mehr.</p>`
	out := insertCallout(content, `<div class="product-callout">X</div>`)

	require.Equal(t,
		`<p>Intro.</p><h2>Erstens</h2><p>Eins.</p><h2>Zweitens</h2><p>Zwei.</p><div class="product-callout">X</div><p>Noch mehr.</p>`,
		out)
}

func TestInsertCalloutAppendsWithFewHeadings(t *testing.T) {
	t.Parallel()

	content := `<p>Intro.</p><h2>Einzig</h2><p>Eins.</p>`
	out := insertCallout(content, `<div>X</div>`)
	require.Equal(t, content+`<div>X</div>`, out)

	out = insertCallout(`<p>Nur Text.</p>`, `<div>X</div>`)
	require.Equal(t, `<p>Nur Text.</p><div>X</div>`, out)
}

func TestInsertCalloutHandlesHeadingAttributes(t *testing.T) {
	t.Parallel()

	content := `<h2 id="a">A</h2><p>x.</p><H2 class="b">B</H2><p>y.</p>`
	out := insertCallout(content, `<div>X</div>`)
	require.Equal(t, `<h2 id="a">A</h2><p>x.</p><H2 class="b">B</H2><p>y.</p><div>X</div>`, out)
}

func TestMarketplaceURL(t *testing.T) {
	t.Parallel()

	p := &Pipeline{cfg: Config{MarketplaceDomain: "amazon.de"}}

	require.True(t, p.marketplaceURL("https://www.amazon.de/dp/B000"))
	require.True(t, p.marketplaceURL("https://amazon.de/dp/B000"))
	require.False(t, p.marketplaceURL("https://amazon.de.evil.example/dp/B000"))
	require.False(t, p.marketplaceURL("https://notamazon.de/dp/B000"))
	require.False(t, p.marketplaceURL("ftp://amazon.de/dp/B000"))
	require.False(t, p.marketplaceURL("://broken"))
}

func TestCalloutHTMLEscapes(t *testing.T) {
	t.Parallel()

	out := calloutHTML(blog.ProductPick{
		Name:   `Anker <"Delta">`,
		URL:    "https://www.amazon.de/dp/B000",
		Reason: "Haelt & haelt",
	})
	require.Contains(t, out, "Anker &lt;&#34;Delta&#34;&gt;")
	require.Contains(t, out, "Haelt &amp; haelt")
	require.Contains(t, out, `rel="sponsored nofollow noopener"`)
}
