package agent

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ddadvisor/internal/domain"
	"ddadvisor/internal/logger"
	"ddadvisor/internal/metrics"
)

// DefaultPriorities is the fallback order used when none is configured.
var DefaultPriorities = []string{"local_search", "web_search"}

// Orchestrator asks the primary agent first and, when its answer looks
// unsatisfactory, calls the fallback tools directly in priority order.
type Orchestrator struct {
	primary    domain.Agent
	tools      map[string]domain.Tool
	priorities []string
	logger     *zap.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPriorities sets the fallback order. An empty list keeps the default.
func WithPriorities(names []string) Option {
	return func(o *Orchestrator) {
		if len(names) > 0 {
			o.priorities = append([]string(nil), names...)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger.OrNop(l) }
}

// New builds an orchestrator around primary. Tools are indexed by name;
// later tools replace earlier ones with the same name.
func New(primary domain.Agent, tools []domain.Tool, opts ...Option) (*Orchestrator, error) {
	if isNil(primary) {
		return nil, domain.ErrAgentUnavailable
	}
	o := &Orchestrator{
		primary:    primary,
		tools:      make(map[string]domain.Tool, len(tools)),
		priorities: append([]string(nil), DefaultPriorities...),
		logger:     zap.NewNop(),
	}
	for _, t := range tools {
		if isNil(t) {
			continue
		}
		o.tools[t.Name()] = t
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Priorities returns a copy of the fallback order.
func (o *Orchestrator) Priorities() []string {
	return append([]string(nil), o.priorities...)
}

// Ask answers question. It never fails: when neither the agent nor any
// fallback tool produces usable output the primary outcome is returned as is.
func (o *Orchestrator) Ask(ctx context.Context, question, rolePrompt string) Outcome {
	l := logger.FromContext(ctx, o.logger).With(zap.String("trace_id", uuid.NewString()))
	ctx = logger.ContextWithLogger(ctx, l)
	start := time.Now()

	res, err := o.primary.Run(ctx, question, rolePrompt)
	primary := Outcome{
		Kind:      KindPrimary,
		Answer:    res.Answer,
		Steps:     res.Steps,
		Truncated: res.Truncated,
		Err:       err,
	}
	metrics.AgentSteps.Observe(float64(len(res.Steps)))
	if err != nil {
		metrics.AgentErrorsTotal.Inc()
		l.Warn("primary agent failed", zap.Error(err))
		primary.Answer = ""
	}
	if res.Truncated {
		l.Info("agent hit step bound", zap.Int("steps", len(res.Steps)))
	}

	if IsSatisfactory(primary.Answer) {
		metrics.QuestionsTotal.WithLabelValues(string(KindPrimary)).Inc()
		l.Info("answered by agent",
			zap.Int("steps", len(res.Steps)),
			zap.Duration("duration", time.Since(start)),
		)
		return primary
	}

	l.Info("agent answer unsatisfactory, trying fallbacks", zap.Strings("priorities", o.priorities))
	if out, ok := o.fallback(ctx, l, question); ok {
		metrics.QuestionsTotal.WithLabelValues(string(KindFallback)).Inc()
		l.Info("answered by fallback",
			zap.String("tool", out.Tool),
			zap.Duration("duration", time.Since(start)),
		)
		out.Steps = primary.Steps
		out.Truncated = primary.Truncated
		out.Err = primary.Err
		return out
	}

	metrics.QuestionsTotal.WithLabelValues("unanswered").Inc()
	l.Warn("no fallback produced output", zap.Duration("duration", time.Since(start)))
	return primary
}

func (o *Orchestrator) fallback(ctx context.Context, l *zap.Logger, question string) (Outcome, bool) {
	for _, name := range o.priorities {
		tool, ok := o.tools[name]
		if !ok {
			metrics.FallbackAttemptsTotal.WithLabelValues(name, "missing").Inc()
			l.Debug("fallback tool not registered", zap.String("tool", name))
			continue
		}

		out, err := tool.Call(ctx, question)
		if err != nil {
			metrics.FallbackAttemptsTotal.WithLabelValues(name, "error").Inc()
			l.Warn("fallback tool failed", zap.String("tool", name), zap.Error(err))
			continue
		}
		if !acceptable(out) {
			metrics.FallbackAttemptsTotal.WithLabelValues(name, "empty").Inc()
			l.Debug("fallback tool returned nothing", zap.String("tool", name))
			continue
		}

		metrics.FallbackAttemptsTotal.WithLabelValues(name, "accepted").Inc()
		return Outcome{
			Kind:     KindFallback,
			Fallback: true,
			Tool:     name,
			Answer:   out.AsText(),
			Output:   out,
		}, true
	}
	return Outcome{}, false
}

// acceptable accepts any non-nil output; plain text must also be non-blank.
func acceptable(out domain.ToolOutput) bool {
	if isNil(out) {
		return false
	}
	if text, ok := out.(domain.Text); ok {
		return strings.TrimSpace(string(text)) != ""
	}
	return true
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
