// ABOUTME: Highlight and Bookmark domain models with their anchor descriptor
// ABOUTME: Mirrors the highlights/bookmarks persistence schema

package domain

import (
	"errors"
	"time"
)

// AnchorDescriptor is a serializable location of a text range within a
// document's DOM. Paths are root-relative structural paths of the form
// tag[ordinal]/.../text()[ordinal]. The descriptor is immutable once
// captured; edits to an annotation never touch its anchor.
type AnchorDescriptor struct {
	// StartPath is the structural path of the range's start node
	StartPath string `json:"start_xpath"`

	// StartOffset is the character offset within the start node
	StartOffset int `json:"start_offset"`

	// EndPath is the structural path of the range's end node
	EndPath string `json:"end_xpath"`

	// EndOffset is the character offset within the end node
	EndOffset int `json:"end_offset"`

	// LiteralText is the selected text at capture time. Human-readable
	// fallback and notification payload only; never used for re-resolution.
	LiteralText string `json:"selected_text"`
}

// Validate checks if the anchor has valid required fields
func (a *AnchorDescriptor) Validate() error {
	if a.StartPath == "" || a.EndPath == "" {
		return errors.New("anchor paths cannot be empty")
	}
	if a.StartOffset < 0 || a.EndOffset < 0 {
		return errors.New("anchor offsets cannot be negative")
	}
	return nil
}

// HighlightColor is the closed set of highlight colors.
type HighlightColor string

const (
	ColorYellow HighlightColor = "yellow"
	ColorGreen  HighlightColor = "green"
	ColorBlue   HighlightColor = "blue"
	ColorPink   HighlightColor = "pink"
)

// ValidColor reports whether c is one of the supported highlight colors.
func ValidColor(c HighlightColor) bool {
	switch c {
	case ColorYellow, ColorGreen, ColorBlue, ColorPink:
		return true
	}
	return false
}

// Highlight is a user annotation over a text range. Many per document,
// independent of pagination state.
type Highlight struct {
	ID        string           `json:"id"`
	Anchor    AnchorDescriptor `json:"anchor"`
	Color     HighlightColor   `json:"color"`
	Note      string           `json:"note,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// Validate checks if the highlight has valid required fields
func (h *Highlight) Validate() error {
	if h.ID == "" {
		return errors.New("highlight id cannot be empty")
	}
	if !ValidColor(h.Color) {
		return errors.New("highlight color is not valid")
	}
	return h.Anchor.Validate()
}

// Bookmark is a user annotation over a single page. Uniqueness per
// (document, page) is a soft convention: toggling an already-bookmarked
// page removes it.
type Bookmark struct {
	ID        string    `json:"id"`
	Page      int       `json:"page_number"` // 1-based
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks if the bookmark has valid required fields
func (b *Bookmark) Validate() error {
	if b.ID == "" {
		return errors.New("bookmark id cannot be empty")
	}
	if b.Page < 1 {
		return errors.New("bookmark page must be 1-based")
	}
	return nil
}
