// ABOUTME: Sentence-to-DOM-range mapping under whitespace-normalization drift
// ABOUTME: Forward-only cursor search; failures skip highlighting, not speech

package narration

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"

	"reader-app-core/core/dom"
)

// Span is a [Start, End) character range in the whitespace-normalized
// full-text concatenation. A nil-equivalent span (Start < 0) means the
// sentence could not be located; it is skipped for highlighting only and is
// still spoken.
type Span struct {
	Start, End int
}

// Unmapped is the null span.
var Unmapped = Span{Start: -1, End: -1}

// Mapper locates sentences in the live tree. It is built once per playback
// start from the current DOM; any content swap invalidates it.
type Mapper struct {
	// pieces records each qualifying text node with its cumulative offset
	// into the raw concatenation.
	pieces []textPiece

	raw        string
	normalized string

	// normToRaw maps every normalized character index back to its raw
	// index, recovering the original position of each boundary after
	// whitespace runs collapsed into single spaces.
	normToRaw []int

	// cursor only advances: documents with repeated identical sentences
	// may desynchronize highlighting after the first occurrence, which is
	// accepted behavior.
	cursor int
}

type textPiece struct {
	node  *html.Node
	start int // raw offset of the node's first character
}

// NewMapper walks the qualifying text nodes under root, building the raw
// concatenation, its normalized form, and the normalized-to-raw index map.
func NewMapper(root *html.Node) *Mapper {
	m := &Mapper{}

	// Block boundaries contribute a synthetic newline owned by no text node,
	// mirroring readableText so spans stay aligned with the sentence list.
	// Normalization maps each boundary space to the character after it, so
	// span endpoints always land inside real nodes.
	var rawBuf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if skippedContainer(n) {
			return
		}
		if n.Type == html.TextNode {
			m.pieces = append(m.pieces, textPiece{node: n, start: rawBuf.Len()})
			rawBuf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if blockBoundary(n) {
			rawBuf.WriteByte('\n')
		}
	}
	walk(root)
	m.raw = rawBuf.String()

	// Character-by-character: whitespace runs collapse into one space, and
	// each surviving character remembers where it came from.
	var normBuf strings.Builder
	inSpace := false
	for i, r := range m.raw {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && normBuf.Len() > 0 {
			normBuf.WriteByte(' ')
			m.normToRaw = append(m.normToRaw, i) // space maps to the char after the run
		}
		inSpace = false
		start := len(m.normToRaw)
		normBuf.WriteRune(r)
		for len(m.normToRaw) < start+len(string(r)) {
			m.normToRaw = append(m.normToRaw, i)
		}
	}
	m.normalized = normBuf.String()
	return m
}

// Locate finds the next occurrence of sentence at or after the forward-only
// cursor. The cursor never backtracks; a sentence that exhausts the cursor
// maps to Unmapped.
func (m *Mapper) Locate(sentence string) Span {
	needle := normalizeWhitespace(sentence)
	if needle == "" || m.cursor >= len(m.normalized) {
		return Unmapped
	}
	idx := strings.Index(m.normalized[m.cursor:], needle)
	if idx < 0 {
		return Unmapped
	}
	start := m.cursor + idx
	end := start + len(needle)
	m.cursor = end
	return Span{Start: start, End: end}
}

// RangeForSpan converts a normalized span back into a live range over the
// original text nodes.
func (m *Mapper) RangeForSpan(s Span) (dom.Range, bool) {
	if s.Start < 0 || s.End <= s.Start || s.End > len(m.normToRaw) {
		return dom.Range{}, false
	}
	rawStart := m.normToRaw[s.Start]
	rawLast := m.normToRaw[s.End-1]
	_, lastSize := utf8.DecodeRuneInString(m.raw[rawLast:])
	if lastSize == 0 {
		return dom.Range{}, false
	}

	startNode, startOffset, ok := m.position(rawStart)
	if !ok {
		return dom.Range{}, false
	}
	endNode, endOffset, ok := m.position(rawLast)
	if !ok {
		return dom.Range{}, false
	}
	return dom.Range{
		StartNode:   startNode,
		StartOffset: startOffset,
		EndNode:     endNode,
		EndOffset:   endOffset + lastSize,
	}, true
}

// position maps a raw offset to its owning text node and in-node offset.
func (m *Mapper) position(rawOffset int) (*html.Node, int, bool) {
	lo, hi := 0, len(m.pieces)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		p := m.pieces[mid]
		if rawOffset < p.start {
			hi = mid - 1
		} else if rawOffset >= p.start+len(p.node.Data) {
			lo = mid + 1
		} else {
			return p.node, rawOffset - p.start, true
		}
	}
	return nil, 0, false
}
