// ABOUTME: Worker pool for concurrent PDF page rasterization
// ABOUTME: Preserves page order; the first failure cancels the batch

package workers

import (
	"context"
	"sync"
)

// RasterResult is one rendered page image.
type RasterResult struct {
	Image    []byte
	MIMEType string
}

// RenderFunc renders one standalone single-page PDF.
type RenderFunc func(ctx context.Context, page []byte) (RasterResult, error)

// RasterPoolConfig holds configuration for the raster pool.
type RasterPoolConfig struct {
	MaxWorkers int
}

// DefaultRasterPoolConfig returns the default pool configuration.
func DefaultRasterPoolConfig() RasterPoolConfig {
	return RasterPoolConfig{
		MaxWorkers: 4,
	}
}

// RasterPool renders batches of PDF pages concurrently. Rendering is CPU
// bound; the pool bounds parallelism rather than queueing unboundedly.
type RasterPool struct {
	maxWorkers int
}

// NewRasterPool creates a raster pool.
func NewRasterPool(cfg RasterPoolConfig) *RasterPool {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = DefaultRasterPoolConfig().MaxWorkers
	}
	return &RasterPool{maxWorkers: cfg.MaxWorkers}
}

// Render renders every page and returns the results in page order. The
// first error cancels outstanding work and is returned.
func (p *RasterPool) Render(ctx context.Context, pages [][]byte, render RenderFunc) ([]RasterResult, error) {
	renderCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]RasterResult, len(pages))
	sem := make(chan struct{}, p.maxWorkers)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i, page := range pages {
		select {
		case <-renderCtx.Done():
		case sem <- struct{}{}:
			wg.Add(1)
			go func(index int, page []byte) {
				defer wg.Done()
				defer func() { <-sem }()

				result, err := render(renderCtx, page)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					cancel()
					return
				}
				results[index] = result
			}(i, page)
		}
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
