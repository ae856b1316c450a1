package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	t.Setenv(PrioritiesEnv, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
	assert.Equal(t, []string{"local_search", "web_search"}, cfg.Fallback.Priorities)
	assert.Equal(t, 7, cfg.LLM.MaxSteps)
	assert.Equal(t, "wiki_menu_data", cfg.Corpus.Subdir)
}

func TestLoad_PartialFileGetsDefaults(t *testing.T) {
	t.Setenv(PrioritiesEnv, "")
	path := writeConfig(t, `
corpus:
  root: /data
llm:
  model: gpt-4o
  temperature: 0.3
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data", cfg.Corpus.Root)
	assert.Equal(t, "wiki_menu_data", cfg.Corpus.Subdir)
	assert.Equal(t, 3, cfg.Corpus.TopK)
	assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	assert.InDelta(t, 0.3, cfg.LLM.Temperature, 1e-6)
	assert.Equal(t, "OPENAI_API_KEY", cfg.LLM.APIKeyEnv)
	assert.Equal(t, 20000, cfg.Web.MaxChars)
	assert.Equal(t, 10*time.Second, cfg.WebTimeout())
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout())
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv(PrioritiesEnv, "")
	t.Setenv("DD_ROOT", "/srv/dd")
	path := writeConfig(t, `
corpus:
  root: ${DD_ROOT}
http:
  addr: ${DD_ADDR:-:9090}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/dd", cfg.Corpus.Root)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
}

func TestLoad_PrioritiesEnvOverride(t *testing.T) {
	t.Setenv(PrioritiesEnv, " web_search , ,local_search ")
	path := writeConfig(t, `
fallback:
  priorities: [local_search]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"web_search", "local_search"}, cfg.Fallback.Priorities)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(PrioritiesEnv, "")
	_, err := Load(writeConfig(t, "logging:\n  env: staging\n"))
	assert.ErrorContains(t, err, "logging.env")

	_, err = Load(writeConfig(t, "llm:\n  temperature: 3\n"))
	assert.ErrorContains(t, err, "llm.temperature")

	_, err = Load(writeConfig(t, "corpus: [oops"))
	assert.ErrorContains(t, err, "parse config")
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(PrioritiesEnv, "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := defaultConfig()
	want.Corpus.Root = "/kb"
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParsePriorities(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ParsePriorities("a, b"))
	assert.Equal(t, []string{"a"}, ParsePriorities(" ,a,, "))
	assert.Nil(t, ParsePriorities(""))
}

func TestLLMConfig_APIKey(t *testing.T) {
	t.Setenv("DD_TEST_KEY", "sk-test")
	assert.Equal(t, "sk-test", LLMConfig{APIKeyEnv: "DD_TEST_KEY"}.APIKey())
}
