// ABOUTME: Range is a start/end (node, offset) pair over the live DOM
// ABOUTME: Captured ranges are value copies; downstream code works on anchors

package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// Range addresses a span of text in the live tree by boundary (node, offset)
// pairs. Offsets are character offsets when the boundary node is a text node.
// A Range is a write-once capture: it is copied at the capture point and is
// only trusted while the tree is unmodified.
type Range struct {
	StartNode   *html.Node
	StartOffset int
	EndNode     *html.Node
	EndOffset   int
}

// Valid reports whether both boundaries are set and offsets are in range for
// text node boundaries.
func (r Range) Valid() bool {
	if r.StartNode == nil || r.EndNode == nil {
		return false
	}
	if r.StartNode.Type == html.TextNode && (r.StartOffset < 0 || r.StartOffset > len(r.StartNode.Data)) {
		return false
	}
	if r.EndNode.Type == html.TextNode && (r.EndOffset < 0 || r.EndOffset > len(r.EndNode.Data)) {
		return false
	}
	return true
}

// Collapsed reports whether the range selects no text.
func (r Range) Collapsed() bool {
	return r.StartNode == r.EndNode && r.StartOffset == r.EndOffset
}

// Clone returns a copy of the range. Boundary nodes are shared; the range
// itself is a value and survives mutation of the original capture.
func (r Range) Clone() Range {
	return r
}

// Text extracts the selected text. Boundary nodes must be text nodes; for a
// single-node range this is a simple substring, otherwise the text nodes
// between the boundaries contribute their full or partial content.
func (r Range) Text() string {
	if !r.Valid() || r.StartNode.Type != html.TextNode || r.EndNode.Type != html.TextNode {
		return ""
	}
	if r.StartNode == r.EndNode {
		if r.StartOffset > r.EndOffset {
			return ""
		}
		return r.StartNode.Data[r.StartOffset:r.EndOffset]
	}

	var buf strings.Builder
	for _, tn := range TextNodesBetween(r.StartNode, r.EndNode) {
		switch tn {
		case r.StartNode:
			buf.WriteString(tn.Data[r.StartOffset:])
		case r.EndNode:
			buf.WriteString(tn.Data[:r.EndOffset])
		default:
			buf.WriteString(tn.Data)
		}
	}
	return buf.String()
}
