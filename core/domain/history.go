// ABOUTME: Reading position and history entry models for cross-session tracking
// ABOUTME: Mirrors the history_entries persistence schema

package domain

import "time"

// ReadingPosition is the auto-saved position payload for a document.
type ReadingPosition struct {
	Page       int `json:"current_page"` // 1-based
	TotalPages int `json:"total_pages"`
}

// HistoryEntry records a document open for the reading history list.
type HistoryEntry struct {
	ID           string    `json:"id"`
	ArticleID    string    `json:"article_id,omitempty"`
	Title        string    `json:"title"`
	SourceURL    string    `json:"source_url,omitempty"`
	SourceDomain string    `json:"source_domain,omitempty"`
	ContentHash  string    `json:"content_hash"`
	CurrentPage  int       `json:"current_page"`
	TotalPages   int       `json:"total_pages"`
	OpenedAt     time.Time `json:"opened_at"`
}
