// ABOUTME: Bidirectional mapping between live DOM ranges and serializable paths
// ABOUTME: Paths survive reflow because reflow never alters the tree, only CSS

package anchor

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"reader-app-core/core/dom"
	"reader-app-core/core/domain"
)

// textSegment is the synthetic tag used for text node path segments.
const textSegment = "text()"

// Encode builds the root-relative structural path of node. At each level the
// segment is tag[ordinal] where ordinal counts preceding siblings of the same
// node type and tag name, 1-based. Text nodes are counted among themselves
// under the synthetic text() tag. The root itself encodes as the empty string.
func Encode(root, node *html.Node) (string, error) {
	if node == root {
		return "", nil
	}
	if !dom.Contains(root, node) {
		return "", fmt.Errorf("anchor: node is not inside the content root")
	}

	var segments []string
	for n := node; n != root; n = n.Parent {
		tag, ok := segmentTag(n)
		if !ok {
			return "", fmt.Errorf("anchor: unsupported node type %d in path", n.Type)
		}
		ordinal := 1
		for sib := n.PrevSibling; sib != nil; sib = sib.PrevSibling {
			if sameKind(sib, n) {
				ordinal++
			}
		}
		segments = append(segments, fmt.Sprintf("%s[%d]", tag, ordinal))
	}

	// Collected bottom-up; join top-down.
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, "/"), nil
}

// Decode walks the path down from root and returns the addressed node.
// Resolution tolerates unchanged structure exactly: any missing match aborts
// with ok=false. No fuzzy re-anchoring is attempted.
func Decode(root *html.Node, path string) (*html.Node, bool) {
	if path == "" {
		return root, true
	}
	current := root
	for _, seg := range strings.Split(path, "/") {
		tag, ordinal, err := parseSegment(seg)
		if err != nil {
			return nil, false
		}
		var match *html.Node
		count := 0
		for c := current.FirstChild; c != nil; c = c.NextSibling {
			if matchesTag(c, tag) {
				count++
				if count == ordinal {
					match = c
					break
				}
			}
		}
		if match == nil {
			return nil, false
		}
		current = match
	}
	return current, true
}

// Serialize captures a live range as an immutable anchor descriptor,
// recording the selected text for display purposes only.
func Serialize(root *html.Node, r dom.Range) (domain.AnchorDescriptor, error) {
	if !r.Valid() {
		return domain.AnchorDescriptor{}, fmt.Errorf("anchor: cannot serialize an invalid range")
	}
	startPath, err := Encode(root, r.StartNode)
	if err != nil {
		return domain.AnchorDescriptor{}, err
	}
	endPath, err := Encode(root, r.EndNode)
	if err != nil {
		return domain.AnchorDescriptor{}, err
	}
	return domain.AnchorDescriptor{
		StartPath:   startPath,
		StartOffset: r.StartOffset,
		EndPath:     endPath,
		EndOffset:   r.EndOffset,
		LiteralText: r.Text(),
	}, nil
}

// Resolve reconstructs a live range from a descriptor against the current
// tree. Returns ok=false when either path no longer resolves or an offset
// no longer fits its node; a failed resolution is a silent no-op by design.
func Resolve(root *html.Node, a domain.AnchorDescriptor) (dom.Range, bool) {
	start, ok := Decode(root, a.StartPath)
	if !ok {
		return dom.Range{}, false
	}
	end, ok := Decode(root, a.EndPath)
	if !ok {
		return dom.Range{}, false
	}
	r := dom.Range{
		StartNode:   start,
		StartOffset: a.StartOffset,
		EndNode:     end,
		EndOffset:   a.EndOffset,
	}
	if !r.Valid() {
		return dom.Range{}, false
	}
	return r, true
}

func segmentTag(n *html.Node) (string, bool) {
	switch n.Type {
	case html.ElementNode:
		return n.Data, true
	case html.TextNode:
		return textSegment, true
	}
	return "", false
}

// sameKind reports whether two siblings share a path segment tag.
func sameKind(a, b *html.Node) bool {
	if a.Type != b.Type {
		return false
	}
	if a.Type == html.TextNode {
		return true
	}
	return a.Type == html.ElementNode && a.Data == b.Data
}

func matchesTag(n *html.Node, tag string) bool {
	if tag == textSegment {
		return n.Type == html.TextNode
	}
	return n.Type == html.ElementNode && n.Data == tag
}

func parseSegment(seg string) (tag string, ordinal int, err error) {
	open := strings.LastIndex(seg, "[")
	if open < 1 || !strings.HasSuffix(seg, "]") {
		return "", 0, fmt.Errorf("anchor: malformed path segment %q", seg)
	}
	tag = seg[:open]
	ordinal, err = strconv.Atoi(seg[open+1 : len(seg)-1])
	if err != nil || ordinal < 1 {
		return "", 0, fmt.Errorf("anchor: malformed ordinal in segment %q", seg)
	}
	return tag, ordinal, nil
}
