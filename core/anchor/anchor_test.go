package anchor

import (
	"testing"

	"golang.org/x/net/html"

	"reader-app-core/core/dom"
)

func mustParse(t *testing.T, fragment string) *dom.Document {
	t.Helper()
	doc, err := dom.Parse(fragment)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

func TestEncode_RootIsEmptyPath(t *testing.T) {
	doc := mustParse(t, "<p>x</p>")

	path, err := Encode(doc.Root(), doc.Root())
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if path != "" {
		t.Errorf("root path = %q, want empty", path)
	}
}

func TestEncode_OrdinalsCountSameKindSiblings(t *testing.T) {
	doc := mustParse(t, "<p>one</p><div>mid</div><p>two</p>")

	second := doc.Root().LastChild
	path, err := Encode(doc.Root(), second)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if path != "p[2]" {
		t.Errorf("path = %q, want %q", path, "p[2]")
	}
}

func TestEncodeDecode_RoundTripsEveryTextNode(t *testing.T) {
	doc := mustParse(t, `
		<h1>Title</h1>
		<p>First <em>emphasized</em> paragraph.</p>
		<p>Second paragraph with <a href="#x">a link</a>.</p>
		<ul><li>one</li><li>two</li></ul>`)

	for _, tn := range dom.TextNodesIn(doc.Root()) {
		path, err := Encode(doc.Root(), tn)
		if err != nil {
			t.Fatalf("Encode failed for %q: %v", tn.Data, err)
		}
		got, ok := Decode(doc.Root(), path)
		if !ok {
			t.Fatalf("Decode(%q) failed", path)
		}
		if got != tn {
			t.Errorf("Decode(%q) resolved to a different node", path)
		}
	}
}

func TestDecode_MissReturnsFalse(t *testing.T) {
	doc := mustParse(t, "<p>only</p>")

	if _, ok := Decode(doc.Root(), "p[2]/text()[1]"); ok {
		t.Error("Decode should miss for a nonexistent ordinal")
	}
	if _, ok := Decode(doc.Root(), "section[1]"); ok {
		t.Error("Decode should miss for a nonexistent tag")
	}
}

func TestSerializeResolve_RoundTripsRange(t *testing.T) {
	doc := mustParse(t, "<p>The quick brown fox</p><p>jumps over</p>")
	nodes := dom.TextNodesIn(doc.Root())

	r := dom.Range{
		StartNode:   nodes[0],
		StartOffset: 4,
		EndNode:     nodes[1],
		EndOffset:   5,
	}

	desc, err := Serialize(doc.Root(), r)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if desc.LiteralText != r.Text() {
		t.Errorf("LiteralText = %q, want %q", desc.LiteralText, r.Text())
	}

	resolved, ok := Resolve(doc.Root(), desc)
	if !ok {
		t.Fatal("Resolve failed on unmodified tree")
	}
	if resolved.Text() != r.Text() {
		t.Errorf("resolved text = %q, want %q", resolved.Text(), r.Text())
	}
}

func TestResolve_FailsAfterStructuralChange(t *testing.T) {
	doc := mustParse(t, "<p>target</p>")
	tn := dom.TextNodesIn(doc.Root())[0]

	desc, err := Serialize(doc.Root(), dom.Range{
		StartNode: tn, StartOffset: 0, EndNode: tn, EndOffset: 6,
	})
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	// Remove the paragraph the anchor points at.
	doc.Root().RemoveChild(doc.Root().FirstChild)

	if _, ok := Resolve(doc.Root(), desc); ok {
		t.Error("Resolve should fail when the anchored subtree is gone")
	}
}

func TestIsExternal(t *testing.T) {
	tests := []struct {
		href string
		want bool
	}{
		{"https://example.com/a", true},
		{"http://example.com", true},
		{"mailto:x@example.com", true},
		{"#section-2", false},
		{"chapter2.xhtml", false},
		{"chapter2.xhtml#fn3", false},
	}

	for _, tt := range tests {
		if got := IsExternal(tt.href); got != tt.want {
			t.Errorf("IsExternal(%q) = %v, want %v", tt.href, got, tt.want)
		}
	}
}

func TestHardenExternalLinks_SetsTargetAndRel(t *testing.T) {
	doc := mustParse(t, `<p><a href="https://example.com">out</a><a href="#in">in</a></p>`)

	HardenExternalLinks(doc)

	var external, internal *html.Node
	for _, a := range allAnchors(doc.Root()) {
		href, _ := dom.Attr(a, "href")
		if href == "https://example.com" {
			external = a
		} else {
			internal = a
		}
	}

	if v, _ := dom.Attr(external, "target"); v != "_blank" {
		t.Errorf("external target = %q, want _blank", v)
	}
	if v, _ := dom.Attr(external, "rel"); v != "noopener noreferrer" {
		t.Errorf("external rel = %q", v)
	}
	if _, ok := dom.Attr(internal, "target"); ok {
		t.Error("internal link should not get a target attribute")
	}
}

func TestResolveInternal_FragmentByID(t *testing.T) {
	doc := mustParse(t, `<p>intro</p><h2 id="ch2">Chapter 2</h2>`)

	n := ResolveInternal(doc, "#ch2")
	if n == nil {
		t.Fatal("ResolveInternal returned nil for an existing id")
	}
	if id, _ := dom.Attr(n, "id"); id != "ch2" {
		t.Errorf("resolved node id = %q, want ch2", id)
	}
}

func TestResolveInternal_EpubChapterBySource(t *testing.T) {
	doc := mustParse(t, `<div class="epub-chapter" data-epub-src="OEBPS/chapter2.xhtml"><p>two</p></div>`)

	n := ResolveInternal(doc, "chapter2.xhtml")
	if n == nil {
		t.Fatal("ResolveInternal returned nil for a chapter source match")
	}
	if src, _ := dom.Attr(n, "data-epub-src"); src != "OEBPS/chapter2.xhtml" {
		t.Errorf("resolved chapter src = %q", src)
	}
}

func TestResolveInternal_UnresolvableIsNil(t *testing.T) {
	doc := mustParse(t, "<p>content</p>")

	if n := ResolveInternal(doc, "#missing"); n != nil {
		t.Error("ResolveInternal should return nil for an unresolvable target")
	}
}

func allAnchors(root *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}
