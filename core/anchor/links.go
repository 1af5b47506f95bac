// ABOUTME: In-document hyperlink routing for EPUB TOC and cross-references
// ABOUTME: Resolves internal hrefs against id and data-epub-src attributes

package anchor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"reader-app-core/core/dom"
)

// IsExternal reports whether href leaves the document. External links are
// left alone apart from being hardened (new tab, safe rel).
func IsExternal(href string) bool {
	return strings.HasPrefix(href, "http://") ||
		strings.HasPrefix(href, "https://") ||
		strings.HasPrefix(href, "mailto:")
}

// HardenExternalLinks forces every external anchor in the document to open
// in a new tab with safe rel attributes.
func HardenExternalLinks(doc *dom.Document) {
	doc.Selection().Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !IsExternal(href) {
			return
		}
		for _, n := range sel.Nodes {
			dom.SetAttr(n, "target", "_blank")
			dom.SetAttr(n, "rel", "noopener noreferrer")
		}
	})
}

// ResolveInternal maps an internal href to a live element inside the content
// root. The href is split into {filePart, fragment} on "#"; resolution order:
//
//  1. the fragment as an element id inside the content root
//  2. an exact data-epub-src match of the file part
//  3. the file part's last path segment matched against any data-epub-src,
//     exactly or as a "/"-suffix
//
// First match wins. No match returns nil: a dead internal link is a silent
// no-op, never an error.
func ResolveInternal(doc *dom.Document, href string) *html.Node {
	filePart := href
	fragment := ""
	if i := strings.Index(href, "#"); i >= 0 {
		filePart = href[:i]
		fragment = href[i+1:]
	}

	if fragment != "" {
		if n := findByID(doc, fragment); n != nil {
			return n
		}
	}

	if filePart == "" {
		return nil
	}

	if n := findByEpubSrc(doc, func(src string) bool { return src == filePart }); n != nil {
		return n
	}

	name := filePart
	if i := strings.LastIndex(filePart, "/"); i >= 0 {
		name = filePart[i+1:]
	}
	return findByEpubSrc(doc, func(src string) bool {
		return src == name || strings.HasSuffix(src, "/"+name)
	})
}

func findByID(doc *dom.Document, id string) *html.Node {
	var found *html.Node
	doc.Selection().Find("[id]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if v, _ := sel.Attr("id"); v == id {
			found = sel.Nodes[0]
			return false
		}
		return true
	})
	return found
}

func findByEpubSrc(doc *dom.Document, match func(string) bool) *html.Node {
	var found *html.Node
	doc.Selection().Find("[data-epub-src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if v, _ := sel.Attr("data-epub-src"); match(v) {
			found = sel.Nodes[0]
			return false
		}
		return true
	})
	return found
}
