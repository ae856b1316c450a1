package domain

import "errors"

var (
	// ErrAgentUnavailable signals that the orchestrator could not be built.
	ErrAgentUnavailable = errors.New("agent unavailable")
	// ErrMissingAPIKey signals that no model API key was configured.
	ErrMissingAPIKey = errors.New("missing API key")
	// ErrModelProvider signals a language-model provider failure.
	ErrModelProvider = errors.New("model provider error")
	// ErrToolNotFound signals a tool name with no registered callable.
	ErrToolNotFound = errors.New("tool not found")
	// ErrEmptyQuery signals a blank query string.
	ErrEmptyQuery = errors.New("empty query")
	// ErrPageNotFound signals that the wiki had no usable page.
	ErrPageNotFound = errors.New("page not found")
)
