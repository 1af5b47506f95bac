// ABOUTME: Service layer for content ingestion
// ABOUTME: Normalizes heterogeneous inputs into a single HTML fragment plus title

package ingest

import (
	"context"
	"fmt"

	"reader-app-core/core/domain"
	"reader-app-core/core/interfaces"
	"reader-app-core/pkg/utils/hash"
)

// Service converts one of {raw HTML, Markdown text, plain text, PDF binary,
// EPUB archive} into a ContentDocument. It is a pure transform: no
// pagination state is produced here.
type Service struct {
	deps       interfaces.Dependencies
	rasterizer Rasterizer
	prompter   PassphrasePrompter
}

// NewService creates an ingestion service. rasterizer is required for PDF
// inputs; prompter is required to unlock LCP-protected EPUBs.
func NewService(deps interfaces.Dependencies, rasterizer Rasterizer, prompter PassphrasePrompter) *Service {
	return &Service{
		deps:       deps,
		rasterizer: rasterizer,
		prompter:   prompter,
	}
}

// IngestFile converts an uploaded file into a ContentDocument. The kind is
// resolved once from the filename and content; a single switch drives the
// rest of the pipeline.
func (s *Service) IngestFile(ctx context.Context, filename string, data []byte) (*domain.ContentDocument, error) {
	kind := DetectKind(filename, data)

	// Plain text may be reclassified by the marker heuristic.
	if kind == KindPlainText && LooksLikeMarkdown(string(data)) {
		kind = KindMarkdown
	}

	title := titleFromFilename(filename)
	var contentHTML string
	var err error

	switch kind {
	case KindHTML:
		contentHTML = string(data)
	case KindMarkdown:
		contentHTML, err = RenderMarkdown(string(data))
	case KindPlainText:
		contentHTML = WrapPlainText(string(data))
	case KindPDF:
		contentHTML, err = s.ingestPDF(ctx, filename, data)
	case KindEPUB:
		title, contentHTML, err = s.ingestEPUB(ctx, filename, data)
	default:
		err = fmt.Errorf("ingest: unknown kind %d", kind)
	}
	if err != nil {
		return nil, err
	}
	if contentHTML == "" {
		return nil, ErrExtractionEmpty
	}

	doc := &domain.ContentDocument{
		Title:       title,
		ContentHTML: contentHTML,
		ContentKey:  hash.ContentKey(contentHTML),
	}
	s.deps.Logger.Info("Content ingested", map[string]interface{}{
		"kind":  kind.String(),
		"title": title,
		"bytes": len(contentHTML),
	})
	return doc, nil
}

// IngestFetched wraps an already-fetched {title, html} pair from the network
// fetch collaborator. The core never performs URL fetches itself.
func (s *Service) IngestFetched(ctx context.Context, title, contentHTML, sourceURL string) (*domain.ContentDocument, error) {
	if contentHTML == "" {
		return nil, ErrExtractionEmpty
	}
	return &domain.ContentDocument{
		Title:       title,
		SourceURL:   sourceURL,
		ContentHTML: contentHTML,
		ContentKey:  hash.ContentKey(contentHTML),
	}, nil
}
