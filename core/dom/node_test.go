package dom

import (
	"testing"

	"golang.org/x/net/html"
)

func mustParse(t *testing.T, fragment string) *Document {
	t.Helper()
	doc, err := Parse(fragment)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

func firstTextNode(t *testing.T, root *html.Node) *html.Node {
	t.Helper()
	nodes := TextNodesIn(root)
	if len(nodes) == 0 {
		t.Fatal("no text nodes found")
	}
	return nodes[0]
}

func TestParse_WrapsFragmentInContainer(t *testing.T) {
	doc := mustParse(t, "<p>one</p><p>two</p>")

	count := 0
	for c := doc.Root().FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	if count != 2 {
		t.Errorf("container has %d children, want 2", count)
	}
}

func TestDocumentText_ConcatenatesTextNodes(t *testing.T) {
	doc := mustParse(t, "<p>Hello <em>world</em>.</p>")

	if got := doc.Text(); got != "Hello world." {
		t.Errorf("Text() = %q, want %q", got, "Hello world.")
	}
}

func TestSplitText_SplitsAtOffset(t *testing.T) {
	doc := mustParse(t, "<p>abcdef</p>")
	tn := firstTextNode(t, doc.Root())

	tail := SplitText(tn, 3)

	if tail == nil {
		t.Fatal("SplitText returned nil for interior offset")
	}
	if tn.Data != "abc" {
		t.Errorf("head data = %q, want %q", tn.Data, "abc")
	}
	if tail.Data != "def" {
		t.Errorf("tail data = %q, want %q", tail.Data, "def")
	}
	if tn.NextSibling != tail {
		t.Error("tail should be the head's next sibling")
	}
}

func TestSplitText_BoundaryOffsetsReturnNil(t *testing.T) {
	doc := mustParse(t, "<p>abc</p>")
	tn := firstTextNode(t, doc.Root())

	if SplitText(tn, 0) != nil {
		t.Error("SplitText at offset 0 should not split")
	}
	if SplitText(tn, len(tn.Data)) != nil {
		t.Error("SplitText at end offset should not split")
	}
	if tn.Data != "abc" {
		t.Errorf("node data changed to %q", tn.Data)
	}
}

func TestNormalize_MergesAdjacentTextNodes(t *testing.T) {
	doc := mustParse(t, "<p>abcdef</p>")
	tn := firstTextNode(t, doc.Root())
	SplitText(tn, 2)
	SplitText(tn.NextSibling, 2)

	Normalize(doc.Root())

	nodes := TextNodesIn(doc.Root())
	if len(nodes) != 1 {
		t.Fatalf("got %d text nodes after Normalize, want 1", len(nodes))
	}
	if nodes[0].Data != "abcdef" {
		t.Errorf("merged data = %q, want %q", nodes[0].Data, "abcdef")
	}
}

func TestNormalize_DropsEmptyTextNodes(t *testing.T) {
	doc := mustParse(t, "<p>ab</p>")
	p := doc.Root().FirstChild
	p.AppendChild(&html.Node{Type: html.TextNode, Data: ""})

	Normalize(doc.Root())

	for _, tn := range TextNodesIn(doc.Root()) {
		if tn.Data == "" {
			t.Error("Normalize left an empty text node")
		}
	}
}

func TestTextNodesBetween_ReturnsDocumentOrderSlice(t *testing.T) {
	doc := mustParse(t, "<p>one <em>two</em> three</p><p>four</p>")
	nodes := TextNodesIn(doc.Root())
	if len(nodes) != 4 {
		t.Fatalf("got %d text nodes, want 4", len(nodes))
	}

	between := TextNodesBetween(nodes[0], nodes[2])

	if len(between) != 3 {
		t.Fatalf("got %d nodes between, want 3", len(between))
	}
	if between[0] != nodes[0] || between[2] != nodes[2] {
		t.Error("endpoints should be included in order")
	}
}

func TestContains_ReportsSubtreeMembership(t *testing.T) {
	doc := mustParse(t, "<div><p>in</p></div><p>out</p>")
	div := doc.Root().FirstChild
	inText := firstTextNode(t, div)
	out := doc.Root().LastChild

	if !Contains(div, inText) {
		t.Error("Contains should find a descendant text node")
	}
	if Contains(div, out) {
		t.Error("Contains should not find a sibling subtree")
	}
}

func TestUnwrap_ReplacesNodeWithChildren(t *testing.T) {
	doc := mustParse(t, "<p>a<mark>b</mark>c</p>")
	p := doc.Root().FirstChild
	var mark *html.Node
	for c := p.FirstChild; c != nil; c = c.NextSibling {
		if c.Data == "mark" {
			mark = c
		}
	}
	if mark == nil {
		t.Fatal("mark element not found")
	}

	Unwrap(mark)
	Normalize(p)

	if got := doc.Text(); got != "abc" {
		t.Errorf("Text() = %q, want %q", got, "abc")
	}
	nodes := TextNodesIn(doc.Root())
	if len(nodes) != 1 {
		t.Errorf("got %d text nodes after unwrap+normalize, want 1", len(nodes))
	}
}

func TestCloneTree_IsDeepAndDetached(t *testing.T) {
	doc := mustParse(t, "<p>original</p>")
	clone := CloneTree(doc.Root())

	tn := firstTextNode(t, clone)
	tn.Data = "changed"

	if got := doc.Text(); got != "original" {
		t.Errorf("mutating the clone changed the original: %q", got)
	}
}

func TestRangeText_SingleNode(t *testing.T) {
	doc := mustParse(t, "<p>hello world</p>")
	tn := firstTextNode(t, doc.Root())

	r := Range{StartNode: tn, StartOffset: 6, EndNode: tn, EndOffset: 11}

	if got := r.Text(); got != "world" {
		t.Errorf("Text() = %q, want %q", got, "world")
	}
}

func TestRangeText_AcrossElements(t *testing.T) {
	doc := mustParse(t, "<p>one <em>two</em> three</p>")
	nodes := TextNodesIn(doc.Root())

	r := Range{StartNode: nodes[0], StartOffset: 2, EndNode: nodes[2], EndOffset: 3}

	if got := r.Text(); got != "e two th" {
		t.Errorf("Text() = %q, want %q", got, "e two th")
	}
}

func TestRangeCollapsed(t *testing.T) {
	doc := mustParse(t, "<p>abc</p>")
	tn := firstTextNode(t, doc.Root())

	r := Range{StartNode: tn, StartOffset: 1, EndNode: tn, EndOffset: 1}
	if !r.Collapsed() {
		t.Error("equal boundaries should be collapsed")
	}

	r.EndOffset = 2
	if r.Collapsed() {
		t.Error("distinct offsets should not be collapsed")
	}
}
