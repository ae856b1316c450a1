package composer

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"ddadvisor/internal/domain"
)

func TestCompose_Empty(t *testing.T) {
	got := Compose(nil, "xyzzyunrelatedterm")
	assert.Equal(t, "No relevant information found in local knowledge files.", got)
	assert.True(t, IsNoResults(got))
}

func TestCompose_Layout(t *testing.T) {
	snippets := []domain.Snippet{
		{DocumentID: "/abs/wiki_menu_data/Curios/Crate.txt", Name: "wiki_menu_data/Curios/Crate.txt",
			Text: "Crates can explode\nwhen struck.", Score: 3},
		{DocumentID: "/abs/wiki_menu_data/Altar.txt", Text: "An altar.", Score: 1},
	}
	want := "Query: crate explode\n" +
		"\n" +
		"Top results:\n" +
		"\n" +
		"- wiki_menu_data/Curios/Crate.txt (score=3)\n" +
		"\n" +
		"  Crates can explode when struck.\n" +
		"\n" +
		"- /abs/wiki_menu_data/Altar.txt (score=1)\n" +
		"\n" +
		"  An altar.\n" +
		"\n" +
		"\nAnswer (combined snippets):\n" +
		"\n" +
		"Crates can explode\nwhen struck.\n\nAn altar."
	got := Compose(snippets, "crate explode")
	assert.Equal(t, want, got)
	assert.False(t, IsNoResults(got))
}

func TestPreview_CutsAtWordBoundary(t *testing.T) {
	text := strings.Repeat("abcd ", 100) // 500 runes
	got := Preview(text)
	assert.True(t, strings.HasSuffix(got, "..."))
	body := strings.TrimSuffix(got, "...")
	assert.LessOrEqual(t, utf8.RuneCountInString(body), PreviewRunes)
	// 400 runes = 80 full "abcd " groups; the trailing space is cut.
	assert.Equal(t, strings.TrimSuffix(strings.Repeat("abcd ", 80), " "), body)
}

func TestPreview_NoSpaceKeepsHardCut(t *testing.T) {
	got := Preview(strings.Repeat("x", 450))
	assert.Equal(t, strings.Repeat("x", 400)+"...", got)
}

func TestPreview_ShortUnchanged(t *testing.T) {
	text := strings.Repeat("y", PreviewRunes)
	assert.Equal(t, text, Preview(text))
	assert.Equal(t, "a b", Preview("a\nb"))
}

func TestCombined_Cap(t *testing.T) {
	a := strings.Repeat("é", 2000)
	b := strings.Repeat("z", 2000)
	got := Combined([]string{a, b})
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, CombinedRunes, utf8.RuneCountInString(strings.TrimSuffix(got, "...")))
	assert.Equal(t, a+"\n\n"+strings.Repeat("z", 998)+"...", got)

	assert.Equal(t, "a\n\nb", Combined([]string{"a", "b"}))
}
