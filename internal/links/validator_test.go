package links

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeProber struct {
	alive  map[string]bool
	probed []string
}

func (f *fakeProber) Reachable(_ context.Context, rawURL string) bool {
	f.probed = append(f.probed, rawURL)
	return f.alive[rawURL]
}

func TestSanitizeUnwrapsDeadLinks(t *testing.T) {
	t.Parallel()

	prober := &fakeProber{alive: map[string]bool{
		"https://live.example/guide": true,
	}}
	v := New(prober, "https://segeln-lernen.example", zap.NewNop())

	page := `<html><body><p>Siehe <a href="https://live.example/guide">diesen Guide</a> und ` +
		`<a href="https://dead.example/404">die alte Seite</a> dazu.</p></body></html>`

	out, err := v.Sanitize(context.Background(), page)
	require.NoError(t, err)
	require.Contains(t, out, `<a href="https://live.example/guide">diesen Guide</a>`)
	require.NotContains(t, out, "dead.example")
	require.Contains(t, out, "die alte Seite")
	require.Contains(t, out, "dazu.")
}

func TestSanitizeSkipsInternalAndRelativeLinks(t *testing.T) {
	t.Parallel()

	prober := &fakeProber{alive: map[string]bool{}}
	v := New(prober, "https://segeln-lernen.example", zap.NewNop())

	page := `<html><body>` +
		`<a href="https://segeln-lernen.example/posts/ankern/">intern</a>` +
		`<a href="/kategorie/wissen/">relativ</a>` +
		`<a href="#section-1">anker</a>` +
		`</body></html>`

	out, err := v.Sanitize(context.Background(), page)
	require.NoError(t, err)
	require.Empty(t, prober.probed)
	require.Contains(t, out, `href="https://segeln-lernen.example/posts/ankern/"`)
	require.Contains(t, out, `href="/kategorie/wissen/"`)
	require.Contains(t, out, `href="#section-1"`)
}

func TestSanitizeProbesEachTargetOnce(t *testing.T) {
	t.Parallel()

	prober := &fakeProber{alive: map[string]bool{"https://x.example/a": true}}
	v := New(prober, "", zap.NewNop())

	page := `<html><body>` +
		`<a href="https://x.example/a">eins</a>` +
		`<a href="https://x.example/a">zwei</a>` +
		`</body></html>`

	_, err := v.Sanitize(context.Background(), page)
	require.NoError(t, err)
	require.Len(t, prober.probed, 1)
}

func TestSanitizeIsIdempotent(t *testing.T) {
	t.Parallel()

	prober := &fakeProber{alive: map[string]bool{"https://live.example/": true}}
	v := New(prober, "https://segeln-lernen.example", zap.NewNop())

	page := `<!DOCTYPE html>
<html><head><title>x</title></head><body><p><a href="https://live.example/">ok</a> und <a href="https://dead.example/">weg</a>.</p></body></html>`

	once, err := v.Sanitize(context.Background(), page)
	require.NoError(t, err)

	twice, err := v.Sanitize(context.Background(), once)
	require.NoError(t, err)
	require.Equal(t, once, twice)
}

func TestSanitizePreservesNestedMarkup(t *testing.T) {
	t.Parallel()

	prober := &fakeProber{alive: map[string]bool{}}
	v := New(prober, "", zap.NewNop())

	page := `<html><body><a href="https://dead.example/"><strong>wichtiger</strong> Text</a></body></html>`

	out, err := v.Sanitize(context.Background(), page)
	require.NoError(t, err)
	require.Contains(t, out, "<strong>wichtiger</strong> Text")
	require.NotContains(t, out, "<a ")
}
