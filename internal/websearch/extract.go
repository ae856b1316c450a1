package websearch

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"ddadvisor/internal/retriever"
)

// DefaultMaxChars bounds the text extracted from one page.
const DefaultMaxChars = 20000

var (
	skipped = map[atom.Atom]bool{
		atom.Script:   true,
		atom.Style:    true,
		atom.Noscript: true,
		atom.Table:    true,
		atom.Aside:    true,
		atom.Nav:      true,
	}
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// ExtractMainContent returns the readable article text of a MediaWiki page:
// the .mw-parser-output block (or <main>, or <body>) without scripts,
// tables and navigation, whitespace collapsed, cut to maxChars runes.
func ExtractMainContent(page string, maxChars int) string {
	if strings.TrimSpace(page) == "" {
		return ""
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}

	content := find(doc, hasClass("mw-parser-output"))
	if content == nil {
		content = find(doc, isAtom(atom.Main))
	}
	if content == nil {
		content = find(doc, isAtom(atom.Body))
	}
	if content == nil {
		return ""
	}

	var pieces []string
	collectText(content, &pieces)
	text := whitespaceRe.ReplaceAllString(strings.Join(pieces, "\n\n"), " ")
	return strings.TrimSpace(retriever.TruncateRunes(text, maxChars))
}

func collectText(n *html.Node, out *[]string) {
	switch n.Type {
	case html.TextNode:
		if s := strings.TrimSpace(n.Data); s != "" {
			*out = append(*out, s)
		}
		return
	case html.ElementNode:
		if skipped[n.DataAtom] {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, out)
	}
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func isAtom(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == a
	}
}

func hasClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, a := range n.Attr {
			if a.Key != "class" {
				continue
			}
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
		return false
	}
}
