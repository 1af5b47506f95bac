// ABOUTME: Transient visual marker for the sentence currently being spoken
// ABOUTME: Single-element wrap only; impossible wraps are skipped silently

package narration

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"reader-app-core/core/dom"
)

const activeSentenceClass = "narration-active"

// markActive wraps the sentence range in a single <mark>. Unlike annotation
// highlights, the narration marker never spans element boundaries: when the
// range cannot be surrounded by one element the wrap is skipped and
// narration proceeds without a visual marker.
func markActive(r dom.Range) *html.Node {
	if !r.Valid() || r.Collapsed() {
		return nil
	}

	mark := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Mark,
		Data:     "mark",
		Attr:     []html.Attribute{{Key: "class", Val: activeSentenceClass}},
	}

	if r.StartNode == r.EndNode {
		tail := dom.SplitText(r.StartNode, r.StartOffset)
		target := r.StartNode
		if tail != nil {
			target = tail
		}
		dom.SplitText(target, r.EndOffset-r.StartOffset)
		surround(mark, target, target)
		return mark
	}

	// Multi-node ranges qualify only when every node in between is a
	// sibling of the endpoints under one parent.
	if r.StartNode.Parent == nil || r.StartNode.Parent != r.EndNode.Parent {
		return nil
	}
	first := r.StartNode
	if tail := dom.SplitText(first, r.StartOffset); tail != nil {
		first = tail
	}
	dom.SplitText(r.EndNode, r.EndOffset)
	surround(mark, first, r.EndNode)
	return mark
}

// surround moves the sibling run [first, last] inside mark, inserting mark
// at first's position.
func surround(mark, first, last *html.Node) {
	parent := first.Parent
	parent.InsertBefore(mark, first)

	n := first
	for {
		next := n.NextSibling
		parent.RemoveChild(n)
		mark.AppendChild(n)
		if n == last {
			break
		}
		n = next
	}
}

// clearActive unwraps the current marker, if any, and normalizes the parent
// so text nodes split during wrapping merge back.
func clearActive(mark *html.Node) {
	if mark == nil || mark.Parent == nil {
		return
	}
	parent := mark.Parent
	dom.Unwrap(mark)
	dom.Normalize(parent)
}
