// ABOUTME: ContentDocument domain model represents the currently loaded work
// ABOUTME: Provides validation and identity-key derivation for persistence

package domain

import "errors"

// ContentDocument is the currently loaded work. It is replaced wholesale on
// each new load; there is no partial update.
type ContentDocument struct {
	// Title is the human-readable document title
	Title string

	// SourceURL is the originating URL, empty for uploaded files
	SourceURL string

	// ContentHTML is the authoritative normalized markup
	ContentHTML string

	// RemoteID is the library article id when the document has a stable
	// remote identity, empty otherwise
	RemoteID string

	// ContentKey is the content-hash fallback identity, derived from the
	// leading content when no remote id exists
	ContentKey string
}

// IdentityKey returns the key under which annotations and positions for this
// document are stored: the remote id when present, else the content hash.
func (d *ContentDocument) IdentityKey() string {
	if d.RemoteID != "" {
		return d.RemoteID
	}
	return d.ContentKey
}

// HasRemoteIdentity reports whether the document can be addressed by the
// remote persistence backend.
func (d *ContentDocument) HasRemoteIdentity() bool {
	return d.RemoteID != ""
}

// Validate checks if the document has valid required fields
func (d *ContentDocument) Validate() error {
	if d.ContentHTML == "" {
		return errors.New("document content cannot be empty")
	}
	if d.RemoteID == "" && d.ContentKey == "" {
		return errors.New("document must have a remote id or a content key")
	}
	return nil
}
