// ABOUTME: Persistence collaborator interface for the remote annotation backend
// ABOUTME: All calls may fail and must degrade to the local mirror fallback

package interfaces

import (
	"context"

	"reader-app-core/core/domain"
)

// Persistence is the remote library/history backend. Every method may fail
// (network, auth); callers never block the triggering user action on a
// remote failure and fall back to the local mirror instead.
type Persistence interface {
	// CreateHighlight stores a highlight for the given document identity
	// and returns the server-assigned id.
	CreateHighlight(ctx context.Context, documentID string, h domain.Highlight) (string, error)

	// UpdateHighlightNote patches the note attached to a highlight.
	// The anchor is immutable and is never part of a patch.
	UpdateHighlightNote(ctx context.Context, id string, note string) error

	// DeleteHighlight removes a highlight.
	DeleteHighlight(ctx context.Context, id string) error

	// ListHighlights returns all highlights stored for a document.
	ListHighlights(ctx context.Context, documentID string) ([]domain.Highlight, error)

	// CreateBookmark stores a bookmark and returns the server-assigned id.
	CreateBookmark(ctx context.Context, documentID string, b domain.Bookmark) (string, error)

	// DeleteBookmark removes a bookmark.
	DeleteBookmark(ctx context.Context, id string) error

	// ListBookmarks returns all bookmarks stored for a document.
	ListBookmarks(ctx context.Context, documentID string) ([]domain.Bookmark, error)

	// SavePosition stores the reading position for a document. The final
	// flush on session teardown uses this same call; implementations must
	// use a transport that survives page/tab teardown.
	SavePosition(ctx context.Context, documentID string, pos domain.ReadingPosition) error
}

// AuthSession exposes the current signed-in session, if any. The core treats
// absence of a session purely as "use local mirror, skip remote calls".
type AuthSession interface {
	// Current returns the active session and true, or a zero session and
	// false when signed out.
	Current() (Session, bool)
}

// Session is an authenticated user session.
type Session struct {
	UserID      string
	AccessToken string
}

// Notifier is a fire-and-display message sink for user-facing failures and
// successes. The core never depends on its return value.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Severity classifies a notification.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)
