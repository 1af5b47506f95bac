// ABOUTME: Markdown rendering via goldmark with GitHub-flavored extensions
// ABOUTME: Includes the marker heuristic that reclassifies plain text uploads

package ingest

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	ghtml "github.com/yuin/goldmark/renderer/html"
)

// renderer is shared: goldmark instances are safe for concurrent use.
var renderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		ghtml.WithHardWraps(),
		ghtml.WithUnsafe(),
	),
)

// RenderMarkdown converts Markdown source to an HTML fragment using a
// commonmark renderer with GFM extensions (tables, strikethrough, task
// lists, autolinks) and line breaks enabled.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("ingest: render markdown: %w", err)
	}
	return buf.String(), nil
}

// markdownMarkers is the fixed marker set for the reclassification heuristic.
// Each pattern matches in multiline mode against the raw text.
var markdownMarkers = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^#{1,6}\s+\S`),          // heading lines
	regexp.MustCompile(`\*\*[^*\n]+\*\*`),           // bold spans
	regexp.MustCompile(`\[[^\]\n]+\]\([^)\n]+\)`),   // link syntax
	regexp.MustCompile(`(?m)^\s*[-*+]\s+\S`),        // list markers
	regexp.MustCompile(`(?m)^\s*\d+\.\s+\S`),        // numbered lists
	regexp.MustCompile("(?m)^```"),                  // code fences
	regexp.MustCompile(`(?m)^>\s+\S`),               // blockquotes
	regexp.MustCompile(`(?m)^(\*{3,}|-{3,}|_{3,})$`), // horizontal rules
	regexp.MustCompile(`(?m)^\|.+\|\s*$`),           // table pipes
}

// LooksLikeMarkdown reports whether plain text should be reclassified as
// Markdown: at least 2 of the fixed marker set must match.
func LooksLikeMarkdown(text string) bool {
	hits := 0
	for _, marker := range markdownMarkers {
		if marker.MatchString(text) {
			hits++
			if hits >= 2 {
				return true
			}
		}
	}
	return false
}

// WrapPlainText converts plain text into paragraph markup: blocks split on
// blank-line boundaries become <p> elements, internal newlines become <br>.
func WrapPlainText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var buf strings.Builder
	for _, block := range regexp.MustCompile(`\n\s*\n`).Split(text, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		lines := strings.Split(block, "\n")
		for i, line := range lines {
			lines[i] = escapeHTML(strings.TrimSpace(line))
		}
		buf.WriteString("<p>")
		buf.WriteString(strings.Join(lines, "<br>"))
		buf.WriteString("</p>\n")
	}
	return buf.String()
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
