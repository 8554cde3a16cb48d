package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nichtagentur/blogforge/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.LLM.APIKey = "test-key"
	cfg.Store.Backend = "memory"
	cfg.Sink.Backend = "memory"
	return cfg
}

func TestNewWiresMemoryBackends(t *testing.T) {
	t.Parallel()

	a, err := New(context.Background(), testConfig(t), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Pipeline())
	require.NotNil(t, a.Assistant())
	require.NotNil(t, a.Store())
	require.NotNil(t, a.Clock())
	require.NotNil(t, a.IDGenerator())
	require.Nil(t, a.Mailer(), "no SMTP host configured")
}

func TestNewRequiresLLMKey(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.LLM.APIKey = ""
	_, err := New(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
}

func TestNewRejectsUnknownStoreBackend(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Store.Backend = "cassandra"
	_, err := New(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
}

func TestNewFileStoreUsesDataDir(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Store.Backend = "file"
	cfg.Paths.DataDir = t.TempDir()

	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	records, err := a.Store().ReadAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, records)
}
