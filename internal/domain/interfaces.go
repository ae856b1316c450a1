package domain

import "context"

// Metadata describes where a document sits inside the knowledge base.
type Metadata struct {
	Title        string `json:"title"`
	Category     string `json:"category"`
	RelativePath string `json:"relative_path"`
}

// Document represents a single text file loaded into the system.
type Document struct {
	// ID is the canonical (absolute, symlink-resolved) path of the file.
	ID string
	// Name is the path relative to the corpus root, used for display.
	Name     string
	Content  string
	Metadata Metadata
}

// Chunk is a paragraph-level part of a document used for scoring.
type Chunk struct {
	DocumentID string
	Index      int
	Text       string
}

// Snippet is the best-matching paragraph of one document for a query.
type Snippet struct {
	DocumentID string
	Name       string
	Text       string
	Score      int
}

// Chunker splits documents into chunks suitable for scoring.
type Chunker interface {
	Chunk(document Document) []Chunk
}

// ToolOutput is anything a tool can hand back to the orchestrator.
type ToolOutput interface {
	AsText() string
}

// Text is a plain textual tool output.
type Text string

// AsText returns the text unchanged.
func (t Text) AsText() string { return string(t) }

// Tool is a named information-gathering capability callable with a query.
type Tool interface {
	Name() string
	Description() string
	Call(ctx context.Context, query string) (ToolOutput, error)
}

// ToolStep records one tool invocation made by the language-model agent.
type ToolStep struct {
	Tool        string `json:"tool"`
	Query       string `json:"query"`
	Observation string `json:"observation,omitempty"`
	Error       string `json:"error,omitempty"`
}

// AgentResult is what the language-model agent produced for a question.
type AgentResult struct {
	Answer string
	Steps  []ToolStep
	// Truncated is set when the reasoning loop hit its step bound.
	Truncated bool
}

// Agent answers a question, possibly invoking tools along the way.
type Agent interface {
	Run(ctx context.Context, question, rolePrompt string) (AgentResult, error)
}
