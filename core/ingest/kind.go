// ABOUTME: Ingestion kind detection: one tagged decision at entry
// ABOUTME: A single exhaustive switch drives the rest of the pipeline

package ingest

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Kind is the tagged set of ingestion inputs. Detection happens once at
// entry; everything downstream switches on the kind instead of re-sniffing
// filenames.
type Kind int

const (
	KindHTML Kind = iota
	KindMarkdown
	KindPlainText
	KindPDF
	KindEPUB
)

func (k Kind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindMarkdown:
		return "markdown"
	case KindPDF:
		return "pdf"
	case KindEPUB:
		return "epub"
	default:
		return "plaintext"
	}
}

// DetectKind classifies an upload by filename extension, falling back to
// content sniffing for missing or unknown extensions. Plain text may later be
// reclassified as Markdown by the marker heuristic.
func DetectKind(filename string, data []byte) Kind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return KindPDF
	case ".epub":
		return KindEPUB
	case ".md", ".markdown":
		return KindMarkdown
	case ".html", ".htm", ".xhtml":
		return KindHTML
	case ".txt", ".text":
		return KindPlainText
	}

	// No usable extension: sniff magic bytes.
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return KindPDF
	}
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) && bytes.Contains(data[:min(len(data), 512)], []byte("epub+zip")) {
		return KindEPUB
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("<")) {
		return KindHTML
	}
	return KindPlainText
}
