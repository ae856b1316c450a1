package app

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"ddadvisor/internal/agent"
	"ddadvisor/internal/config"
	"ddadvisor/internal/domain"
	"ddadvisor/internal/llm"
	"ddadvisor/internal/logger"
	"ddadvisor/internal/service"
	"ddadvisor/internal/websearch"
)

// App wires the retrieval tools, the language-model agent and the
// orchestrator from configuration. The tools are always usable; the
// orchestrator is nil when it could not be built.
type App struct {
	Config       *config.AppConfig
	Local        *service.LocalSearch
	Wiki         *websearch.Client
	Orchestrator *agent.Orchestrator
	// InitErr explains why Orchestrator is nil.
	InitErr error

	logger *zap.Logger
}

// New builds the application. An orchestrator construction failure is
// logged and recorded in InitErr instead of being returned.
func New(cfg *config.AppConfig, l *zap.Logger) *App {
	l = logger.OrNop(l)
	a := &App{Config: cfg, logger: l}

	a.Local = service.NewLocalSearch(service.LocalSearchConfig{
		Root:    cfg.Corpus.Root,
		Subdir:  cfg.Corpus.Subdir,
		Pattern: cfg.Corpus.Pattern,
		Top:     cfg.Corpus.TopK,
	}, l.Named("local_search"))

	a.Wiki = websearch.NewClient(websearch.Config{
		BaseURL:    cfg.Web.BaseURL,
		UserAgent:  cfg.Web.UserAgent,
		Timeout:    cfg.WebTimeout(),
		MaxRetries: cfg.Web.MaxRetries,
		MaxChars:   cfg.Web.MaxChars,
		Logger:     l.Named("web_search"),
	})

	orch, err := a.buildOrchestrator()
	if err != nil {
		l.Error("agent unavailable", zap.Error(err))
		a.InitErr = err
		return a
	}
	a.Orchestrator = orch
	l.Info("agent ready",
		zap.String("model", cfg.LLM.Model),
		zap.Strings("priorities", orch.Priorities()),
	)
	return a
}

// Tools returns the tools shared by the agent and the fallback chain.
func (a *App) Tools() []domain.Tool {
	return []domain.Tool{a.Local, websearch.NewTool(a.Wiki)}
}

func (a *App) buildOrchestrator() (*agent.Orchestrator, error) {
	cfg := a.Config
	tools := a.Tools()
	primary, err := llm.NewReActAgent(llm.Config{
		APIKey:      cfg.LLM.APIKey(),
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		MaxSteps:    cfg.LLM.MaxSteps,
		Temperature: cfg.LLM.Temperature,
		HTTPClient:  &http.Client{Timeout: cfg.LLMTimeout()},
		Logger:      a.logger.Named("llm"),
	}, tools)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAgentUnavailable, err)
	}
	return agent.New(primary, tools,
		agent.WithPriorities(cfg.Fallback.Priorities),
		agent.WithLogger(a.logger.Named("orchestrator")),
	)
}

// Ask forwards to the orchestrator, or fails with ErrAgentUnavailable.
func (a *App) Ask(ctx context.Context, question, rolePrompt string) (agent.Outcome, error) {
	if a.Orchestrator == nil {
		return agent.Outcome{}, domain.ErrAgentUnavailable
	}
	return a.Orchestrator.Ask(ctx, question, rolePrompt), nil
}

// Search runs a direct local search.
func (a *App) Search(ctx context.Context, query string, top int) (*service.LocalSearchResponse, error) {
	return a.Local.Search(ctx, query, top)
}
