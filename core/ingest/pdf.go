// ABOUTME: PDF ingestion: pages are rasterized, never reflowed
// ABOUTME: pdfcpu validates and splits; a Rasterizer turns pages into images

package ingest

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"reader-app-core/core/workers"
)

// rasterScale is the render scale for PDF pages.
const rasterScale = 2.0

// Rasterizer renders a single-page PDF to a raster image. The far side is a
// real PDF rendering engine; tests inject a fake.
type Rasterizer interface {
	// RenderPage renders page (a standalone single-page PDF) at the given
	// scale and returns encoded image bytes plus their MIME type.
	RenderPage(ctx context.Context, page []byte, scale float64) (img []byte, mimeType string, err error)
}

// splitPDFPages validates the document and extracts each page as a
// standalone single-page PDF.
func splitPDFPages(data []byte) ([][]byte, error) {
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("ingest: read pdf: %w", err)
	}
	if pdfCtx.PageCount == 0 {
		return nil, nil
	}

	pages := make([][]byte, 0, pdfCtx.PageCount)
	for pageNum := 1; pageNum <= pdfCtx.PageCount; pageNum++ {
		r, err := api.ExtractPage(pdfCtx, pageNum)
		if err != nil {
			return nil, fmt.Errorf("ingest: extract pdf page %d: %w", pageNum, err)
		}
		page, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("ingest: read pdf page %d: %w", pageNum, err)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// pdfSplitter is swapped by tests to avoid fixture PDFs.
var pdfSplitter = splitPDFPages

// ingestPDF renders every page to an image and wraps each as a pdf-page div.
// A zero-page document aborts before any pagination state is touched.
func (s *Service) ingestPDF(ctx context.Context, filename string, data []byte) (string, error) {
	pages, err := pdfSplitter(data)
	if err != nil {
		return "", err
	}
	if len(pages) == 0 {
		return "", ErrPDFNoPages
	}
	if s.rasterizer == nil {
		return "", fmt.Errorf("ingest: no pdf rasterizer configured")
	}

	pool := workers.NewRasterPool(workers.DefaultRasterPoolConfig())
	rendered, err := pool.Render(ctx, pages, func(ctx context.Context, page []byte) (workers.RasterResult, error) {
		img, mimeType, err := s.rasterizer.RenderPage(ctx, page, rasterScale)
		if err != nil {
			return workers.RasterResult{}, err
		}
		return workers.RasterResult{Image: img, MIMEType: mimeType}, nil
	})
	if err != nil {
		return "", fmt.Errorf("ingest: render pdf: %w", err)
	}

	var buf strings.Builder
	for i, page := range rendered {
		buf.WriteString(`<div class="pdf-page"><img src="data:`)
		buf.WriteString(page.MIMEType)
		buf.WriteString(";base64,")
		buf.WriteString(base64.StdEncoding.EncodeToString(page.Image))
		buf.WriteString(fmt.Sprintf(`" alt="Page %d"></div>`, i+1))
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

// titleFromFilename strips the extension to form a default document title.
func titleFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
