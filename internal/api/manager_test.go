package api

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/blog"
	"github.com/nichtagentur/blogforge/internal/pipeline"
)

// deadlineRunner blocks until the run context expires.
type deadlineRunner struct{}

func (deadlineRunner) RunOne(ctx context.Context, _ pipeline.RunOptions) (blog.ArticleRecord, error) {
	<-ctx.Done()
	return blog.ArticleRecord{}, ctx.Err()
}

type recordingNotifier struct {
	mu       sync.Mutex
	subjects []string
	ctxErrs  []error
}

func (n *recordingNotifier) Send(ctx context.Context, subject string, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.subjects = append(n.subjects, subject)
	n.ctxErrs = append(n.ctxErrs, ctx.Err())
	return nil
}

func (n *recordingNotifier) sent() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subjects)
}

func TestManagerMailsFailureAfterRunDeadline(t *testing.T) {
	runs := NewRunStore()
	notifier := &recordingNotifier{}
	clk := fixedClock{t: time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)}
	mgr, err := NewManager(deadlineRunner{}, nil, notifier, runs, &seqIDs{}, clk, "https://segeln-lernen.example", zap.NewNop())
	require.NoError(t, err)
	mgr.timeout = 20 * time.Millisecond

	id, err := mgr.StartArticle("Wetterkunde")
	require.NoError(t, err)

	require.Eventually(t, func() bool { return notifier.sent() == 1 }, time.Second, 10*time.Millisecond)

	run, err := runs.Get(id)
	require.NoError(t, err)
	require.Equal(t, RunFailed, run.Status)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Equal(t, []string{"Fehler beim Erstellen"}, notifier.subjects)
	require.NoError(t, notifier.ctxErrs[0], "failure mail must not run on the expired run context")
}
