// ABOUTME: Visual mark surgery: wrapping live ranges in <mark> elements
// ABOUTME: Splitting, wrapping, unwrapping and re-merging text nodes

package annotation

import (
	"golang.org/x/net/html"

	"reader-app-core/core/dom"
	"reader-app-core/core/domain"
)

// highlightIDAttr tags every mark with the highlight it renders.
const highlightIDAttr = "data-highlight-id"

// colorAttr carries the highlight color for styling.
const colorAttr = "data-color"

// wrapRange wraps the text covered by r in <mark> elements tagged with the
// highlight id. Walks the text nodes between the range boundaries; boundary
// nodes are split so only the selected span is wrapped. Returns the number
// of marks inserted; 0 means the range could not be wrapped (non-text
// boundaries) and the highlight simply renders nothing.
func wrapRange(r dom.Range, id string, color domain.HighlightColor) int {
	if !r.Valid() || r.StartNode.Type != html.TextNode || r.EndNode.Type != html.TextNode {
		return 0
	}

	// Single-text-node case: split out the middle piece, no tree walk.
	if r.StartNode == r.EndNode {
		if r.StartOffset >= r.EndOffset {
			return 0
		}
		node := r.StartNode
		dom.SplitText(node, r.EndOffset)
		if tail := dom.SplitText(node, r.StartOffset); tail != nil {
			node = tail
		}
		wrapNode(node, id, color)
		return 1
	}

	nodes := dom.TextNodesBetween(r.StartNode, r.EndNode)
	if len(nodes) == 0 {
		return 0
	}
	count := 0
	for _, tn := range nodes {
		target := tn
		switch tn {
		case r.StartNode:
			if r.StartOffset >= len(tn.Data) {
				continue
			}
			if tail := dom.SplitText(tn, r.StartOffset); tail != nil {
				target = tail
			}
		case r.EndNode:
			if r.EndOffset <= 0 {
				continue
			}
			dom.SplitText(tn, r.EndOffset)
		}
		if target.Data == "" {
			continue
		}
		wrapNode(target, id, color)
		count++
	}
	return count
}

// wrapNode inserts a tagged <mark> around a single text node.
func wrapNode(tn *html.Node, id string, color domain.HighlightColor) {
	mark := dom.Element("mark")
	dom.SetAttr(mark, highlightIDAttr, id)
	dom.SetAttr(mark, colorAttr, string(color))
	parent := tn.Parent
	parent.InsertBefore(mark, tn)
	parent.RemoveChild(tn)
	mark.AppendChild(tn)
}

// unwrapHighlight removes every mark belonging to a highlight, replacing
// each with its own children, and normalizes the parents so adjacent text
// nodes merge back together. Returns the number of marks removed.
func unwrapHighlight(root *html.Node, id string) int {
	removed := 0
	for _, mark := range findMarks(root, id) {
		if parent := dom.Unwrap(mark); parent != nil {
			dom.Normalize(parent)
			removed++
		}
	}
	return removed
}

// stripAllMarks removes every highlight mark under root regardless of which
// highlight it belongs to, then normalizes the whole tree. Run before each
// re-render pass so reapplication starts from a clean tree.
func stripAllMarks(root *html.Node) {
	for _, mark := range findMarks(root, "") {
		dom.Unwrap(mark)
	}
	dom.Normalize(root)
}

// findMarks collects marks under root; id == "" matches every highlight mark.
func findMarks(root *html.Node, id string) []*html.Node {
	var out []*html.Node
	// Marks never nest (no overlapping ranges), so document order is safe
	// for both unwrapping and position indexing.
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "mark" {
			if v, ok := dom.Attr(n, highlightIDAttr); ok && (id == "" || v == id) {
				out = append(out, n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// retagMarks rewrites the highlight id on already-rendered marks, used when
// the remote backend assigns the durable id after the optimistic wrap.
func retagMarks(root *html.Node, oldID, newID string) {
	for _, mark := range findMarks(root, oldID) {
		dom.SetAttr(mark, highlightIDAttr, newID)
	}
}
