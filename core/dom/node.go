// ABOUTME: DOM tree utilities: text node walking, splitting, merging, cloning
// ABOUTME: The surgical primitives under highlight marks and narration wraps

package dom

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Contains reports whether n is root or a descendant of root.
func Contains(root, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// CommonAncestor returns the deepest node containing both a and b,
// or nil if they belong to different trees.
func CommonAncestor(a, b *html.Node) *html.Node {
	seen := map[*html.Node]bool{}
	for n := a; n != nil; n = n.Parent {
		seen[n] = true
	}
	for n := b; n != nil; n = n.Parent {
		if seen[n] {
			return n
		}
	}
	return nil
}

// TextNodesIn returns all text nodes under root in document order.
func TextNodesIn(root *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// TextNodesBetween returns the text nodes from start through end inclusive,
// in document order, scoped to their common ancestor. start and end must be
// text nodes in the same tree.
func TextNodesBetween(start, end *html.Node) []*html.Node {
	if start == end {
		return []*html.Node{start}
	}
	scope := CommonAncestor(start, end)
	if scope == nil {
		return nil
	}
	var out []*html.Node
	collecting := false
	for _, tn := range TextNodesIn(scope) {
		if tn == start {
			collecting = true
		}
		if collecting {
			out = append(out, tn)
		}
		if tn == end {
			break
		}
	}
	return out
}

// SplitText splits a text node at offset, leaving the first offset characters
// in n and inserting a new text node with the remainder immediately after n.
// Returns the new node. An offset at either end returns n's neighbor-to-be
// without splitting (nil tail for offset == len).
func SplitText(n *html.Node, offset int) *html.Node {
	if n.Type != html.TextNode || offset <= 0 || offset >= len(n.Data) {
		return nil
	}
	tail := &html.Node{Type: html.TextNode, Data: n.Data[offset:]}
	n.Data = n.Data[:offset]
	n.Parent.InsertBefore(tail, n.NextSibling)
	return tail
}

// Normalize merges adjacent text node children throughout the subtree rooted
// at n and drops empty text nodes, undoing earlier splits.
func Normalize(n *html.Node) {
	var c *html.Node = n.FirstChild
	for c != nil {
		next := c.NextSibling
		if c.Type == html.TextNode {
			if c.Data == "" {
				n.RemoveChild(c)
			} else if next != nil && next.Type == html.TextNode {
				c.Data += next.Data
				n.RemoveChild(next)
				continue // retry c against its new neighbor
			}
		} else {
			Normalize(c)
		}
		c = next
	}
}

// CloneTree deep-copies the subtree rooted at n. Used by narration to segment
// text without disturbing the live tree.
func CloneTree(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		clone.Attr = make([]html.Attribute, len(n.Attr))
		copy(clone.Attr, n.Attr)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.AppendChild(CloneTree(c))
	}
	return clone
}

// Unwrap replaces n with its own children and returns n's former parent.
func Unwrap(n *html.Node) *html.Node {
	parent := n.Parent
	if parent == nil {
		return nil
	}
	for n.FirstChild != nil {
		c := n.FirstChild
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
	}
	parent.RemoveChild(n)
	return parent
}

// Attr returns the value of the named attribute on n, and whether it exists.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the named attribute on n.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// Element creates a new element node with the given tag name.
func Element(tag string) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
}
