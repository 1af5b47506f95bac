// ABOUTME: Remote article fetcher using go-readability content extraction
// ABOUTME: Results feed the ingestion pipeline as already-clean HTML

package readability

import (
	"context"
	"encoding/json"
	"time"

	readability "github.com/go-shiori/go-readability"

	"reader-app-core/core/interfaces"
)

const (
	fetchTimeout   = 30 * time.Second
	fetchCacheTTL  = 1 * time.Hour
	fetchKeyPrefix = "fetch:"
)

// Article is the extracted content of a remote page.
type Article struct {
	Title       string `json:"title"`
	ContentHTML string `json:"content_html"`
	SiteName    string `json:"site_name,omitempty"`
	Byline      string `json:"byline,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Fetcher retrieves remote pages and reduces them to readable article
// content. Successful extractions are cached by URL.
type Fetcher struct {
	cache  interfaces.Cache
	logger interfaces.Logger
}

// NewFetcher creates an article fetcher. A nil cache disables caching.
func NewFetcher(cache interfaces.Cache, logger interfaces.Logger) *Fetcher {
	return &Fetcher{
		cache:  cache,
		logger: logger,
	}
}

// Fetch downloads a URL and extracts its readable content.
func (f *Fetcher) Fetch(ctx context.Context, url string) (Article, error) {
	if f.cache != nil {
		if data, err := f.cache.Get(ctx, fetchKeyPrefix+url); err == nil && data != nil {
			var cached Article
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
		}
	}

	parsed, err := readability.FromURL(url, fetchTimeout)
	if err != nil {
		f.logger.Error("article extraction failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return Article{}, err
	}

	article := Article{
		Title:       parsed.Title,
		ContentHTML: parsed.Content,
		SiteName:    parsed.SiteName,
		Byline:      parsed.Byline,
		Image:       parsed.Image,
	}

	if f.cache != nil {
		if data, err := json.Marshal(article); err == nil {
			_ = f.cache.Set(ctx, fetchKeyPrefix+url, data, fetchCacheTTL)
		}
	}

	return article, nil
}
