package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddadvisor/internal/agent"
	"ddadvisor/internal/config"
	"ddadvisor/internal/domain"
)

// env is a throwaway corpus plus config file.
type env struct {
	root       string
	configPath string
}

func newEnv(t *testing.T, llmURL, webURL string) env {
	t.Helper()
	t.Setenv(config.PrioritiesEnv, "")
	root := t.TempDir()
	dir := filepath.Join(root, "wiki_menu_data", "Curios")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Crate.txt"),
		[]byte("Loot inside.\n\nCrates can explode when struck."), 0o644))

	body := fmt.Sprintf(`
corpus:
  root: %q
llm:
  base_url: %q
  api_key_env: DD_CMD_TEST_KEY
web:
  base_url: %q
  max_retries: 1
logging:
  level: error
`, root, llmURL, webURL)
	path := filepath.Join(root, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return env{root: root, configPath: path}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgPath, prioritiesFlag = "", ""
	askJSON, searchJSON = false, false
	askStyle = "advisor"
	searchTop, wikiMax = 0, 0

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestSearchCommand(t *testing.T) {
	e := newEnv(t, "http://127.0.0.1:1", "http://127.0.0.1:1")

	out, err := run(t, "search", "crate explode", "--config", e.configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Query: crate explode")
	assert.Contains(t, out, "Crates can explode when struck.")

	out, err = run(t, "search", "crate explode", "--json", "--config", e.configPath)
	require.NoError(t, err)
	var resp struct {
		Results []struct {
			Score int `json:"score"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, 1, resp.Results[0].Score)

	out, err = run(t, "search", "zzz", "--config", e.configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No relevant information found in local knowledge files.")
}

func TestAskCommand_Unavailable(t *testing.T) {
	t.Setenv("DD_CMD_TEST_KEY", "")
	e := newEnv(t, "http://127.0.0.1:1", "http://127.0.0.1:1")

	out, err := run(t, "ask", "crate?", "--config", e.configPath)
	assert.ErrorIs(t, err, domain.ErrAgentUnavailable)
	assert.Contains(t, out, agent.AgentUnavailableMessage)
}

func TestAskCommand_PrimaryAnswer(t *testing.T) {
	t.Setenv("DD_CMD_TEST_KEY", "sk-test")
	llmServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m",
"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"Bring torches to the Ruins."}}]}`))
	}))
	defer llmServer.Close()
	e := newEnv(t, llmServer.URL, "http://127.0.0.1:1")

	out, err := run(t, "ask", "What to bring?", "--config", e.configPath)
	require.NoError(t, err)
	assert.Equal(t, "Bring torches to the Ruins.\n", out)
}

func TestAskCommand_FallbackToLocal(t *testing.T) {
	t.Setenv("DD_CMD_TEST_KEY", "sk-test")
	llmServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m",
"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"I don't know."}}]}`))
	}))
	defer llmServer.Close()
	e := newEnv(t, llmServer.URL, "http://127.0.0.1:1")

	out, err := run(t, "ask", "crate explode", "--priorities", "local_search", "--json", "--config", e.configPath)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, true, got["fallback"])
	assert.Equal(t, "local_search", got["tool"])
	assert.Contains(t, got["answer"], "Crates can explode when struck.")
}

func TestWikiCommand(t *testing.T) {
	wiki := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wiki/Giant_Oyster" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`<html><body><div class="mw-parser-output"><p>Giant Oyster is a curio.</p></div></body></html>`))
	}))
	defer wiki.Close()
	e := newEnv(t, "http://127.0.0.1:1", wiki.URL)

	out, err := run(t, "wiki", "Giant Oyster", "--config", e.configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Giant Oyster is a curio.")
	assert.Contains(t, out, "/wiki/Giant_Oyster")
}

func TestLoadConfig_PrioritiesFlag(t *testing.T) {
	e := newEnv(t, "http://127.0.0.1:1", "http://127.0.0.1:1")
	cfgPath, prioritiesFlag = e.configPath, "web_search, local_search"
	defer func() { cfgPath, prioritiesFlag = "", "" }()

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"web_search", "local_search"}, cfg.Fallback.Priorities)
}
