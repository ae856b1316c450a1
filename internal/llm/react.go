// Package llm implements the language-model agent: a bounded loop of chat
// completions in which the model may call the registered tools before
// giving its final answer.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"ddadvisor/internal/domain"
	"ddadvisor/internal/logger"
	"ddadvisor/internal/retriever"
)

const (
	DefaultModel     = "gpt-4o-mini"
	DefaultMaxTokens = 5000
	DefaultMaxSteps  = 7

	maxObservationRunes = 8000
)

// Config holds the agent settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	MaxSteps    int
	Temperature float32
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

// ReActAgent is a tool-using chat agent bounded to MaxSteps rounds.
type ReActAgent struct {
	client      *openai.Client
	model       string
	maxTokens   int
	maxSteps    int
	temperature float32
	tools       map[string]domain.Tool
	specs       []openai.Tool
	logger      *zap.Logger
}

// NewReActAgent builds the agent. A missing API key is a configuration
// failure and yields no agent.
func NewReActAgent(cfg Config, tools []domain.Tool) (*ReActAgent, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domain.ErrMissingAPIKey
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		clientCfg.HTTPClient = cfg.HTTPClient
	}

	a := &ReActAgent{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		maxSteps:    cfg.MaxSteps,
		temperature: cfg.Temperature,
		tools:       make(map[string]domain.Tool, len(tools)),
		logger:      logger.OrNop(cfg.Logger),
	}
	for _, t := range tools {
		if t == nil {
			continue
		}
		a.tools[t.Name()] = t
		a.specs = append(a.specs, toolSpec(t))
	}
	return a, nil
}

func toolSpec(t domain.Tool) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"query": {Type: jsonschema.String, Description: "Short keyword query, e.g. 'crate'."},
				},
				Required: []string{"query"},
			},
		},
	}
}

// Run answers question. Each round is one completion; tool calls are
// executed and fed back. When the round budget runs out the latest answer
// text is returned with Truncated set.
func (a *ReActAgent) Run(ctx context.Context, question, rolePrompt string) (domain.AgentResult, error) {
	log := logger.FromContext(ctx, a.logger)
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: RolePrompt(rolePrompt)},
		{Role: openai.ChatMessageRoleUser, Content: question},
	}

	var result domain.AgentResult
	for step := 0; step < a.maxSteps; step++ {
		req := openai.ChatCompletionRequest{
			Model:       a.model,
			Messages:    messages,
			MaxTokens:   a.maxTokens,
			Temperature: a.temperature,
		}
		if len(a.specs) > 0 {
			req.Tools = a.specs
		}

		resp, err := a.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return result, parseAPIError(err)
		}
		if len(resp.Choices) == 0 {
			return result, fmt.Errorf("empty completion response: %w", domain.ErrModelProvider)
		}

		msg := resp.Choices[0].Message
		if strings.TrimSpace(msg.Content) != "" {
			result.Answer = msg.Content
		}
		if len(msg.ToolCalls) == 0 {
			log.Debug("agent finished", zap.Int("rounds", step+1), zap.Int("tool_steps", len(result.Steps)))
			return result, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			ts := a.invoke(ctx, call)
			result.Steps = append(result.Steps, ts)
			observation := ts.Observation
			if ts.Error != "" {
				observation = "error: " + ts.Error
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    observation,
				Name:       call.Function.Name,
				ToolCallID: call.ID,
			})
		}
	}

	log.Warn("agent hit step bound", zap.Int("max_steps", a.maxSteps), zap.Int("tool_steps", len(result.Steps)))
	result.Truncated = true
	return result, nil
}

func (a *ReActAgent) invoke(ctx context.Context, call openai.ToolCall) domain.ToolStep {
	name := call.Function.Name
	query := parseQuery(call.Function.Arguments)
	step := domain.ToolStep{Tool: name, Query: query}

	tool, ok := a.tools[name]
	if !ok {
		step.Error = fmt.Sprintf("%s: %q", domain.ErrToolNotFound, name)
		return step
	}
	out, err := tool.Call(ctx, query)
	if err != nil {
		logger.FromContext(ctx, a.logger).Warn("agent tool call failed", zap.String("tool", name), zap.Error(err))
		step.Error = err.Error()
		return step
	}
	if out != nil {
		step.Observation = retriever.TruncateRunes(out.AsText(), maxObservationRunes)
	}
	return step
}

// parseQuery extracts {"query": ...}; malformed arguments are used raw.
func parseQuery(arguments string) string {
	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err == nil && args.Query != "" {
		return args.Query
	}
	return strings.TrimSpace(arguments)
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrModelProvider.
func parseAPIError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("chat completion: %w", err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat completion API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, domain.ErrModelProvider)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("chat completion API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), domain.ErrModelProvider)
	}

	return fmt.Errorf("chat completion request failed: %v: %w", err, domain.ErrModelProvider)
}
