package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestProber() *Prober {
	return New(Config{Timeout: 2 * time.Second}, zap.NewNop())
}

func TestReachableStatusPolicy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{name: "ok", status: http.StatusOK, want: true},
		{name: "no content", status: http.StatusNoContent, want: true},
		{name: "moved permanently", status: http.StatusMovedPermanently, want: true},
		{name: "found", status: http.StatusFound, want: true},
		{name: "unauthorized", status: http.StatusUnauthorized, want: true},
		{name: "forbidden", status: http.StatusForbidden, want: true},
		{name: "method not allowed", status: http.StatusMethodNotAllowed, want: true},
		{name: "not found", status: http.StatusNotFound, want: false},
		{name: "gone", status: http.StatusGone, want: false},
		{name: "server error", status: http.StatusInternalServerError, want: false},
		{name: "teapot", status: http.StatusTeapot, want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodHead, r.Method)
				if tt.status == http.StatusMovedPermanently || tt.status == http.StatusFound {
					w.Header().Set("Location", "https://example.org/elsewhere")
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			got := newTestProber().Reachable(context.Background(), srv.URL)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestReachableRejectsBadURLs(t *testing.T) {
	t.Parallel()

	p := newTestProber()
	for _, u := range []string{"", "not a url", "ftp://example.org/file", "/relative/path", "mailto:x@example.org"} {
		require.False(t, p.Reachable(context.Background(), u), "url %q", u)
	}
}

func TestReachableConnectionRefused(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	url := srv.URL
	srv.Close()

	require.False(t, newTestProber().Reachable(context.Background(), url))
}

func TestReachableHonorsContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.False(t, newTestProber().Reachable(ctx, srv.URL))
}
