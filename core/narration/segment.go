// ABOUTME: Sentence segmentation over the document's readable plain text
// ABOUTME: Delimiters stay attached; the result is regenerated on content swap

package narration

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"reader-app-core/core/dom"
)

// skippedContainers are subtrees with no readable text: scripts, styles,
// vector graphics, and rasterized PDF page containers.
func skippedContainer(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Svg:
		return true
	}
	if class, ok := dom.Attr(n, "class"); ok {
		for _, c := range strings.Fields(class) {
			if c == "pdf-page" {
				return true
			}
		}
	}
	return false
}

// blockBoundary reports whether an element ends a block of flowing text.
// Adjacent blocks read as separate sentences even though their text nodes
// are adjacent in the tree.
func blockBoundary(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.DataAtom {
	case atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Li, atom.Ul, atom.Ol, atom.Blockquote, atom.Pre,
		atom.Table, atom.Tr, atom.Td, atom.Th,
		atom.Section, atom.Article, atom.Figcaption, atom.Br, atom.Hr:
		return true
	}
	return false
}

// readableText concatenates the text content of root, skipping non-readable
// subtrees, without normalizing whitespace inside text nodes. Block element
// boundaries contribute a newline so block-adjacent text never fuses.
func readableText(root *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if skippedContainer(n) {
			return
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if blockBoundary(n) {
			buf.WriteByte('\n')
		}
	}
	walk(root)
	return buf.String()
}

// normalizeWhitespace collapses all whitespace runs to single spaces and
// trims the ends.
func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Segment derives the ordered sentence list from the live content root. The
// root is cloned first so segmentation never disturbs the live tree. The
// result is only valid for the current document: it must be regenerated
// after any content swap.
func Segment(root *html.Node) []string {
	clone := dom.CloneTree(root)
	text := normalizeWhitespace(readableText(clone))
	return splitSentences(text)
}

// splitSentences splits normalized text on runs of terminal punctuation
// ([.!?]+) followed by whitespace or end of input, keeping the delimiter
// attached to the preceding sentence. Empty results are discarded; trailing
// text without terminal punctuation forms a final sentence.
func splitSentences(text string) []string {
	var out []string
	start := 0
	i := 0
	for i < len(text) {
		if isTerminal(text[i]) {
			for i < len(text) && isTerminal(text[i]) {
				i++
			}
			if i >= len(text) || text[i] == ' ' {
				if s := strings.TrimSpace(text[start:i]); s != "" {
					out = append(out, s)
				}
				for i < len(text) && text[i] == ' ' {
					i++
				}
				start = i
			}
			continue
		}
		i++
	}
	if start < len(text) {
		if s := strings.TrimSpace(text[start:]); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isTerminal(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}
