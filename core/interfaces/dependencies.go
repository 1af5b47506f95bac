// ABOUTME: Dependencies container provides dependency injection for core services
// ABOUTME: Defines the contract for dependencies required by the core business logic

package interfaces

// Dependencies holds all external dependencies required by the core business logic
type Dependencies struct {
	// Cache provides the local mirror store
	Cache Cache

	// HTTPClient provides HTTP request functionality
	HTTPClient HTTPClient

	// Logger provides structured logging
	Logger Logger

	// Persistence provides the remote annotation/position backend
	Persistence Persistence

	// Auth exposes the current signed-in session, if any
	Auth AuthSession

	// Notifier is the user-facing message sink
	Notifier Notifier

	// Speech provides text-to-speech synthesis
	Speech Speech
}
