// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as the local mirror store, HTTP communication, speech synthesis and
// logging.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-memory mirror store backed by go-cache
// - cache/sqlite: SQLite mirror store that survives restarts
// - cache/redis: Redis mirror store for multi-device installs
// - http/standard: Standard library HTTP client with retry logic
// - persistence/rest: Library backend client for annotations and positions
// - fetch/readability: Remote article extraction via go-readability
// - speech/google: Google Cloud Text-to-Speech engine
// - logger/logrus: Leveled structured logging
//
// # Design Philosophy
//
// Infrastructure components are designed to be:
// - Pluggable: Easy to swap implementations
// - Configurable: Accept configuration objects
// - Testable: Include both unit and integration tests
// - Production-ready: Include retries, timeouts, and error handling
//
// # Mirror Store Implementations
//
// Memory Example:
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "key", []byte("value"), 1*time.Hour)
//	value, err := cache.Get(ctx, "key")
//
// SQLite Example:
//
//	store, err := sqlite.NewMirrorStore("reader-mirror.db")
//	defer store.Close()
//
// # HTTP Client
//
// The HTTP client includes automatic retry logic for transient failures:
//
//	client := standard.NewStandardHTTPClient(30 * time.Second)
//	resp, err := client.Get(ctx, "https://example.com")
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// # Logger
//
// The logger supports structured logging with fields:
//
//	logger := logrus.New("info", false)
//	logger.Info("Opening document", map[string]interface{}{
//	    "document": "book.epub",
//	    "pages":    42,
//	})
package infrastructure
