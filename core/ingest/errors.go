// ABOUTME: Closed error taxonomy for content ingestion
// ABOUTME: DRM/LCP conditions are distinct sentinels so the UI can tailor messages

package ingest

import "errors"

// Sentinel errors returned by the ingest package. Each DRM/LCP failure is a
// distinct condition rather than a generic error so the caller can render a
// specific user message.
var (
	// ErrDRMAdobe indicates the EPUB carries Adobe ADEPT rights management,
	// which is unsupported. Terminal without new input.
	ErrDRMAdobe = errors.New("ingest: epub is protected by Adobe DRM")

	// ErrDRMLCPUnsupported indicates an LCP license was found but its
	// content key could not be located. Terminal without new input.
	ErrDRMLCPUnsupported = errors.New("ingest: epub LCP license is missing a content key")

	// ErrLCPCancelled indicates the user dismissed the passphrase prompt.
	// A silent abort, not an error toast.
	ErrLCPCancelled = errors.New("ingest: LCP passphrase prompt cancelled")

	// ErrLCPWrongPassphrase indicates the passphrase failed to decrypt the
	// content key. The caller may re-prompt and retry.
	ErrLCPWrongPassphrase = errors.New("ingest: wrong LCP passphrase")

	// ErrExtractionEmpty indicates no readable content could be extracted.
	ErrExtractionEmpty = errors.New("ingest: could not extract content")

	// ErrPDFNoPages indicates the PDF produced zero renderable pages.
	ErrPDFNoPages = errors.New("ingest: pdf has no pages")
)

// Retryable reports whether the failure can be retried with new user input
// on the same file (currently only a wrong LCP passphrase).
func Retryable(err error) bool {
	return errors.Is(err, ErrLCPWrongPassphrase)
}

// Silent reports whether the failure should produce no user-facing message.
func Silent(err error) bool {
	return errors.Is(err, ErrLCPCancelled)
}
