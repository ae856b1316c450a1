package websearch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const wikiPage = `<!DOCTYPE html>
<html><head><title>Crate</title><style>body{}</style></head>
<body>
<nav>Main menu</nav>
<main>
  <div class="mw-body-content mw-parser-output">
    <p>The <b>Crate</b> is a   curio
       found in all dungeons.</p>
    <table><tr><td>Loot table</td></tr></table>
    <script>var x = 1;</script>
    <aside>Sidebar</aside>
    <p>Using a Shovel &amp; Torch is pointless.</p>
    <!-- comment -->
  </div>
</main>
<footer>Footer text</footer>
</body></html>`

func TestExtractMainContent_ParserOutput(t *testing.T) {
	got := ExtractMainContent(wikiPage, 0)
	assert.Equal(t, "The Crate is a curio found in all dungeons. Using a Shovel & Torch is pointless.", got)
}

func TestExtractMainContent_FallsBackToMainThenBody(t *testing.T) {
	assert.Equal(t, "Inside main", ExtractMainContent(`<html><body><p>Outside</p><main>Inside main</main></body></html>`, 0))
	assert.Equal(t, "Only body", ExtractMainContent(`<html><body><nav>skip</nav>Only body</body></html>`, 0))
}

func TestExtractMainContent_Empty(t *testing.T) {
	assert.Equal(t, "", ExtractMainContent("", 0))
	assert.Equal(t, "", ExtractMainContent("   ", 0))
}

func TestExtractMainContent_MaxChars(t *testing.T) {
	page := `<div class="mw-parser-output"><p>` + strings.Repeat("a", 50) + `</p></div>`
	assert.Equal(t, strings.Repeat("a", 10), ExtractMainContent(page, 10))
}
