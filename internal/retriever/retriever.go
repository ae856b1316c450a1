// Package retriever ranks corpus documents against a free-text query by
// plain term frequency: each document is represented by its single
// best-scoring paragraph.
package retriever

import (
	"regexp"
	"sort"
	"strings"

	"ddadvisor/internal/chunker"
	"ddadvisor/internal/domain"
)

const (
	// DefaultTop is used when a caller asks for zero or fewer results.
	DefaultTop = 3
	// MaxSnippetRunes bounds every returned snippet.
	MaxSnippetRunes = 2000
)

// Source enumerates documents in a stable order.
type Source interface {
	Items() []domain.Document
}

var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Tokenize lowercases s and returns its maximal runs of letters, digits and
// underscores. Queries and paragraphs share this rule.
func Tokenize(s string) []string {
	return wordRe.FindAllString(strings.ToLower(s), -1)
}

// ScoreText sums, over every query token (repeats included), how many
// times that token occurs in text.
func ScoreText(queryTokens []string, text string) int {
	if len(queryTokens) == 0 {
		return 0
	}
	counts := map[string]int{}
	for _, t := range Tokenize(text) {
		counts[t]++
	}
	score := 0
	for _, q := range queryTokens {
		score += counts[q]
	}
	return score
}

// Retrieve returns at most top snippets, highest score first. Equal scores
// keep corpus order. Documents scoring zero are left out.
func Retrieve(src Source, query string, top int) []domain.Snippet {
	if top <= 0 {
		top = DefaultTop
	}
	tokens := Tokenize(query)
	if len(tokens) == 0 || src == nil {
		return []domain.Snippet{}
	}

	ch := chunker.NewParagraphChunker()
	results := []domain.Snippet{}
	for _, doc := range src.Items() {
		best, bestText := 0, ""
		for _, c := range ch.Chunk(doc) {
			if sc := ScoreText(tokens, c.Text); sc > best {
				best, bestText = sc, c.Text
			}
		}
		if best > 0 {
			results = append(results, domain.Snippet{
				DocumentID: doc.ID,
				Name:       doc.Name,
				Text:       TruncateRunes(bestText, MaxSnippetRunes),
				Score:      best,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > top {
		results = results[:top]
	}
	return results
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	if n < 0 {
		n = 0
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
