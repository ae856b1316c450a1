package chunker

import (
	"strings"

	"ddadvisor/internal/domain"
)

// ParagraphChunker splits text on blank lines. Documents without any
// blank-line paragraph fall back to one chunk per non-empty line.
type ParagraphChunker struct{}

func NewParagraphChunker() *ParagraphChunker { return &ParagraphChunker{} }

func (c *ParagraphChunker) Chunk(document domain.Document) []domain.Chunk {
	paragraphs := Paragraphs(document.Content)
	chunks := make([]domain.Chunk, 0, len(paragraphs))
	for i, p := range paragraphs {
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			Index:      i,
			Text:       p,
		})
	}
	return chunks
}

// Paragraphs returns the trimmed, non-empty paragraphs of content.
func Paragraphs(content string) []string {
	out := splitTrimmed(content, "\n\n")
	if len(out) == 0 {
		out = splitTrimmed(content, "\n")
	}
	return out
}

func splitTrimmed(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
