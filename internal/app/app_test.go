package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddadvisor/internal/config"
	"ddadvisor/internal/domain"
)

func testConfig(t *testing.T, keyEnv string) *config.AppConfig {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "wiki_menu_data", "Curios")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Crate.txt"),
		[]byte("Loot inside.\n\nCrates can explode when struck."), 0o644))

	cfg := &config.AppConfig{}
	cfg.ApplyDefaults()
	cfg.Corpus.Root = root
	cfg.LLM.APIKeyEnv = keyEnv
	return cfg
}

func TestNew_MissingKeyLeavesToolsUsable(t *testing.T) {
	t.Setenv("DD_APP_TEST_KEY", "")
	a := New(testConfig(t, "DD_APP_TEST_KEY"), nil)

	assert.Nil(t, a.Orchestrator)
	assert.ErrorIs(t, a.InitErr, domain.ErrAgentUnavailable)
	assert.ErrorIs(t, a.InitErr, domain.ErrMissingAPIKey)

	_, err := a.Ask(context.Background(), "crate?", "")
	assert.ErrorIs(t, err, domain.ErrAgentUnavailable)

	resp, err := a.Search(context.Background(), "crate explode", 0)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Crate", resp.Results[0].Metadata.Title)
}

func TestNew_WithKeyBuildsOrchestrator(t *testing.T) {
	t.Setenv("DD_APP_TEST_KEY", "sk-test")
	cfg := testConfig(t, "DD_APP_TEST_KEY")
	cfg.Fallback.Priorities = []string{"web_search"}
	a := New(cfg, nil)

	require.NoError(t, a.InitErr)
	require.NotNil(t, a.Orchestrator)
	assert.Equal(t, []string{"web_search"}, a.Orchestrator.Priorities())

	names := make([]string, 0, 2)
	for _, tool := range a.Tools() {
		names = append(names, tool.Name())
	}
	assert.Equal(t, []string{"local_search", "web_search"}, names)
}
