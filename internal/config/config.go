package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// PrioritiesEnv overrides fallback.priorities with a comma-separated list.
const PrioritiesEnv = "RAG_PRIORITIES"

// CorpusConfig locates the local knowledge base.
type CorpusConfig struct {
	Root    string `yaml:"root"`
	Subdir  string `yaml:"subdir"`
	Pattern string `yaml:"pattern"`
	TopK    int    `yaml:"top_k"`
}

// LLMConfig holds configuration for the OpenAI-compatible chat model.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	MaxSteps    int     `yaml:"max_steps"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	Temperature float32 `yaml:"temperature"`
}

// APIKey reads the key from the configured environment variable.
func (c LLMConfig) APIKey() string {
	return os.Getenv(c.APIKeyEnv)
}

// WebConfig configures the wiki client.
type WebConfig struct {
	BaseURL     string `yaml:"base_url"`
	UserAgent   string `yaml:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
	MaxChars    int    `yaml:"max_chars"`
}

// FallbackConfig lists the tools tried when the agent answer is unusable.
type FallbackConfig struct {
	Priorities []string `yaml:"priorities"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr                string `yaml:"addr"`
	ReadTimeoutSecs     int    `yaml:"read_timeout_secs"`
	WriteTimeoutSecs    int    `yaml:"write_timeout_secs"`
	ShutdownTimeoutSecs int    `yaml:"shutdown_timeout_secs"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Env   string `yaml:"env"`
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Corpus   CorpusConfig   `yaml:"corpus"`
	LLM      LLMConfig      `yaml:"llm"`
	Web      WebConfig      `yaml:"web"`
	Fallback FallbackConfig `yaml:"fallback"`
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
// ${VAR} and ${VAR:-default} references are expanded before parsing.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	data = expandEnvVars(data)

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/ddadvisor/config.yaml.
// If neither exists, it writes defaults to ~/.config/ddadvisor/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	cfg.applyEnv()
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ParsePriorities splits a comma-separated tool list, trimming entries and
// dropping empty ones.
func ParsePriorities(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if name := strings.TrimSpace(part); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// ApplyDefaults fills empty fields with default values.
func (c *AppConfig) ApplyDefaults() {
	d := defaultConfig()
	if c.Corpus.Root == "" {
		c.Corpus.Root = d.Corpus.Root
	}
	if c.Corpus.Subdir == "" {
		c.Corpus.Subdir = d.Corpus.Subdir
	}
	if c.Corpus.Pattern == "" {
		c.Corpus.Pattern = d.Corpus.Pattern
	}
	if c.Corpus.TopK <= 0 {
		c.Corpus.TopK = d.Corpus.TopK
	}
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = d.LLM.BaseURL
	}
	if c.LLM.APIKeyEnv == "" {
		c.LLM.APIKeyEnv = d.LLM.APIKeyEnv
	}
	if c.LLM.Model == "" {
		c.LLM.Model = d.LLM.Model
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = d.LLM.MaxTokens
	}
	if c.LLM.MaxSteps <= 0 {
		c.LLM.MaxSteps = d.LLM.MaxSteps
	}
	if c.LLM.TimeoutSecs <= 0 {
		c.LLM.TimeoutSecs = d.LLM.TimeoutSecs
	}
	if c.Web.BaseURL == "" {
		c.Web.BaseURL = d.Web.BaseURL
	}
	if c.Web.UserAgent == "" {
		c.Web.UserAgent = d.Web.UserAgent
	}
	if c.Web.TimeoutSecs <= 0 {
		c.Web.TimeoutSecs = d.Web.TimeoutSecs
	}
	if c.Web.MaxRetries <= 0 {
		c.Web.MaxRetries = d.Web.MaxRetries
	}
	if c.Web.MaxChars <= 0 {
		c.Web.MaxChars = d.Web.MaxChars
	}
	if len(c.Fallback.Priorities) == 0 {
		c.Fallback.Priorities = d.Fallback.Priorities
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = d.HTTP.Addr
	}
	if c.HTTP.ReadTimeoutSecs <= 0 {
		c.HTTP.ReadTimeoutSecs = d.HTTP.ReadTimeoutSecs
	}
	if c.HTTP.WriteTimeoutSecs <= 0 {
		c.HTTP.WriteTimeoutSecs = d.HTTP.WriteTimeoutSecs
	}
	if c.HTTP.ShutdownTimeoutSecs <= 0 {
		c.HTTP.ShutdownTimeoutSecs = d.HTTP.ShutdownTimeoutSecs
	}
	if c.Logging.Env == "" {
		c.Logging.Env = d.Logging.Env
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
}

// Validate checks the configuration for correctness.
func (c *AppConfig) Validate() error {
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2, got %v", c.LLM.Temperature)
	}
	if c.LLM.MaxSteps > 50 {
		return fmt.Errorf("llm.max_steps must be at most 50, got %d", c.LLM.MaxSteps)
	}
	switch c.Logging.Env {
	case "local", "dev", "prod":
	default:
		return fmt.Errorf("logging.env must be local, dev or prod, got %q", c.Logging.Env)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// LLMTimeout returns the model request timeout.
func (c *AppConfig) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSecs) * time.Second
}

// WebTimeout returns the wiki request timeout.
func (c *AppConfig) WebTimeout() time.Duration {
	return time.Duration(c.Web.TimeoutSecs) * time.Second
}

func (c *AppConfig) applyEnv() {
	if raw, ok := os.LookupEnv(PrioritiesEnv); ok {
		if p := ParsePriorities(raw); len(p) > 0 {
			c.Fallback.Priorities = p
		}
	}
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ddadvisor", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Corpus: CorpusConfig{Root: ".", Subdir: "wiki_menu_data", Pattern: "**/*.txt", TopK: 3},
		LLM: LLMConfig{
			BaseURL:     "https://api.openai.com/v1",
			APIKeyEnv:   "OPENAI_API_KEY",
			Model:       "gpt-4o-mini",
			MaxTokens:   5000,
			MaxSteps:    7,
			TimeoutSecs: 60,
		},
		Web: WebConfig{
			BaseURL:     "https://darkestdungeon.wiki.gg",
			UserAgent:   "PartyKeeperBot/1.0 (+https://example.local)",
			TimeoutSecs: 10,
			MaxRetries:  3,
			MaxChars:    20000,
		},
		Fallback: FallbackConfig{Priorities: []string{"local_search", "web_search"}},
		HTTP: HTTPConfig{
			Addr:                ":8080",
			ReadTimeoutSecs:     10,
			WriteTimeoutSecs:    120,
			ShutdownTimeoutSecs: 10,
		},
		Logging: LoggingConfig{Env: "local", Level: "info"},
	}
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		name, def, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(name)
		if val == "" && hasDefault {
			val = def
		}
		return []byte(val)
	})
}
