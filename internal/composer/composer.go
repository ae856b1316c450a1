// Package composer turns ranked snippets into a single human-readable
// answer block.
package composer

import (
	"fmt"
	"strings"

	"ddadvisor/internal/domain"
)

const (
	// NoResultsMessage is returned verbatim when nothing matched.
	NoResultsMessage = "No relevant information found in local knowledge files."

	PreviewRunes  = 400
	CombinedRunes = 3000
	Ellipsis      = "..."
)

// Compose formats snippets for query. The layout is a stable contract:
// tests and the HTTP API compare it byte for byte.
func Compose(snippets []domain.Snippet, query string) string {
	if len(snippets) == 0 {
		return NoResultsMessage
	}

	parts := []string{fmt.Sprintf("Query: %s\n", query), "Top results:\n"}
	for _, s := range snippets {
		parts = append(parts, fmt.Sprintf("- %s (score=%d)\n", displayName(s), s.Score))
		parts = append(parts, fmt.Sprintf("  %s\n", Preview(s.Text)))
	}
	parts = append(parts, "\nAnswer (combined snippets):\n")

	texts := make([]string, len(snippets))
	for i, s := range snippets {
		texts[i] = s.Text
	}
	parts = append(parts, Combined(texts))
	return strings.Join(parts, "\n")
}

// IsNoResults reports whether text is the "nothing found" sentinel.
func IsNoResults(text string) bool {
	return text == NoResultsMessage
}

// Preview flattens newlines and, past PreviewRunes, cuts back to the last
// word boundary before appending an ellipsis.
func Preview(text string) string {
	preview := strings.ReplaceAll(text, "\n", " ")
	r := []rune(preview)
	if len(r) <= PreviewRunes {
		return preview
	}
	cut := string(r[:PreviewRunes])
	if i := strings.LastIndex(cut, " "); i >= 0 {
		cut = cut[:i]
	}
	return cut + Ellipsis
}

// Combined joins snippet texts with blank lines, capped at CombinedRunes.
func Combined(texts []string) string {
	combined := strings.Join(texts, "\n\n")
	r := []rune(combined)
	if len(r) > CombinedRunes {
		return string(r[:CombinedRunes]) + Ellipsis
	}
	return combined
}

func displayName(s domain.Snippet) string {
	if s.Name != "" {
		return s.Name
	}
	return s.DocumentID
}
