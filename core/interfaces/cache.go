// Package interfaces defines the core interfaces used throughout the application.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"time"
)

// Cache defines the interface for the local mirror store used as the durable
// fallback for annotations and reading positions when the remote backend is
// unavailable or the user is signed out. Implementations can be in-memory,
// SQLite, Redis, or any other key-value store.
//
// Keys are document identity keys (remote article id, or content-hash key);
// values are JSON-encoded annotation sets.
//
// Example usage:
//
//	data, err := cache.Get(ctx, "highlights:"+doc.IdentityKey())
//	if err != nil {
//		// cache miss - start with an empty set
//	}
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns the cached data as []byte or an error if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}
