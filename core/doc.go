// Package core contains the business logic for the reader engine.
// It is designed to be framework-agnostic and can be used independently
// of any rendering surface or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Pure domain models (ContentDocument, Highlight, Bookmark, etc.)
// - dom: Parsed document tree and range primitives
// - anchor: Structural-path anchoring and link resolution
// - ingest: File and article ingestion (HTML, Markdown, PDF, EPUB, LCP)
// - pagination: Column layout and page-flip navigation
// - annotation: Highlights and bookmarks with local mirror and backend sync
// - narration: Sentence-synchronized text-to-speech playback
// - reader: Session orchestration across the engines
// - errors: Custom error types for better error handling
// - interfaces: Contracts for external dependencies (cache, HTTP, logger)
//
// # Design Principles
//
// The core package follows clean architecture principles:
// - No rendering framework dependencies
// - All external dependencies are injected via interfaces
// - Business logic is testable in isolation
// - Domain models are free from persistence concerns
//
// # Usage Example
//
//	import (
//	    "reader-app-core/core/ingest"
//	    "reader-app-core/core/interfaces"
//	)
//
//	// Create dependencies
//	deps := interfaces.Dependencies{
//	    Cache:      myCache,      // implements interfaces.Cache
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Logger:     myLogger,     // implements interfaces.Logger
//	}
//
//	// Create service
//	ingestService := ingest.NewService(deps, rasterizer, prompter)
//
//	// Ingest a file
//	doc, err := ingestService.IngestFile(ctx, "book.epub", data)
package core
