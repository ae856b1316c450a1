package agent

import (
	"strings"

	"ddadvisor/internal/domain"
)

// Kind tells which phase produced an Outcome.
type Kind string

const (
	KindPrimary  Kind = "primary"
	KindFallback Kind = "fallback"
)

const (
	// NoResponseMessage is shown when an outcome carries no text at all.
	NoResponseMessage = "(no response from agent)"
	// AgentUnavailableMessage is shown when the orchestrator could not be built.
	AgentUnavailableMessage = "Agent not available (failed to initialize). Check logs."
)

// Outcome is the result of one Ask. A primary outcome carries the agent's
// answer and steps; a fallback outcome names the tool that answered and
// keeps its raw output.
type Outcome struct {
	Kind      Kind              `json:"kind"`
	Fallback  bool              `json:"fallback"`
	Tool      string            `json:"tool,omitempty"`
	Answer    string            `json:"answer"`
	Output    domain.ToolOutput `json:"-"`
	Steps     []domain.ToolStep `json:"steps,omitempty"`
	Truncated bool              `json:"truncated,omitempty"`
	// Err is the primary agent error, if any. Fallback may still have answered.
	Err error `json:"-"`
}

// AsText returns the answer, or NoResponseMessage when it is blank.
func (o Outcome) AsText() string {
	if strings.TrimSpace(o.Answer) == "" {
		return NoResponseMessage
	}
	return o.Answer
}
