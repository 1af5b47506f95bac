// ABOUTME: Live DOM document wrapper over golang.org/x/net/html
// ABOUTME: Owns the single content container element that all subsystems rewrite

package dom

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document owns the content container element. All loaded content lives under
// the container; pagination, annotation marks, and narration highlights all
// rewrite this subtree. Callers outside the core must not mutate it directly.
type Document struct {
	container *html.Node
}

// Parse builds a Document from an HTML fragment. The fragment becomes the
// children of a fresh container element; the container itself is never part
// of serialized anchor paths.
func Parse(fragment string) (*Document, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return nil, err
	}

	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return &Document{container: container}, nil
}

// Root returns the content container element.
func (d *Document) Root() *html.Node {
	return d.container
}

// HTML renders the container's children back to markup.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	for c := d.container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Selection returns a goquery selection rooted at the container, for
// attribute and id lookups scoped to the content.
func (d *Document) Selection() *goquery.Selection {
	return goquery.NewDocumentFromNode(d.container).Selection
}

// Text returns the concatenated text content of the container.
func (d *Document) Text() string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.container)
	return buf.String()
}
