// ABOUTME: Command line entry point for the reader engine
// ABOUTME: Wires configuration, mirror store, backend client and ingestion

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"reader-app-core/core/dom"
	"reader-app-core/core/domain"
	"reader-app-core/core/ingest"
	"reader-app-core/core/interfaces"
	"reader-app-core/core/narration"
	"reader-app-core/core/reader"
	"reader-app-core/infrastructure/cache/memory"
	"reader-app-core/infrastructure/cache/redis"
	"reader-app-core/infrastructure/cache/sqlite"
	"reader-app-core/infrastructure/fetch/readability"
	stdhttp "reader-app-core/infrastructure/http/standard"
	logrusadapter "reader-app-core/infrastructure/logger/logrus"
	"reader-app-core/infrastructure/persistence/rest"
	"reader-app-core/pkg/config"
	"reader-app-core/pkg/featureflags"
)

func main() {
	urlFlag := flag.String("url", "", "fetch and inspect a remote article instead of a local file")
	flag.Parse()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logrusadapter.New(cfg.Log.Level, cfg.Log.JSON)
	flags := featureflags.NewEnvManager("")

	cache := buildMirror(cfg, logger)
	httpClient := stdhttp.NewStandardHTTPClient(time.Duration(cfg.Library.TimeoutSeconds) * time.Second)

	deps := interfaces.Dependencies{
		Cache:      cache,
		HTTPClient: httpClient,
		Logger:     logger,
	}

	ctx := featureflags.WithManager(context.Background(), flags)

	if cfg.Library.BaseURL != "" && flags.IsEnabled(ctx, featureflags.RemoteSyncEnabled) {
		deps.Persistence = rest.NewClient(cfg.Library.BaseURL, httpClient, noSession{}, logger)
		logger.Info("Library sync enabled", map[string]interface{}{
			"base_url": cfg.Library.BaseURL,
		})
	}

	ingestService := ingest.NewService(deps, nil, stdinPrompter{})

	doc, err := openDocument(ctx, ingestService, cache, logger, *urlFlag, flag.Args())
	if err != nil {
		logger.Error("Failed to open document", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	tree, err := dom.Parse(doc.ContentHTML)
	if err != nil {
		logger.Error("Failed to parse document content", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	stats := reader.ComputeStats(tree.Text())
	sentences := narration.Segment(tree.Root())
	language := narration.DetectLanguage(tree.Root())

	fmt.Printf("Title:        %s\n", doc.Title)
	fmt.Printf("Identity:     %s\n", doc.IdentityKey())
	fmt.Printf("Words:        %d (%s)\n", stats.WordCount, stats.Label())
	fmt.Printf("Sentences:    %d\n", len(sentences))
	fmt.Printf("Language:     %s\n", language)
}

func openDocument(
	ctx context.Context,
	svc *ingest.Service,
	cache interfaces.Cache,
	logger interfaces.Logger,
	url string,
	args []string,
) (*domain.ContentDocument, error) {
	if url != "" {
		fetcher := readability.NewFetcher(cache, logger)
		article, err := fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		return svc.IngestFetched(ctx, article.Title, article.ContentHTML, url)
	}

	if len(args) != 1 {
		return nil, fmt.Errorf("usage: reader [-url URL] <file>")
	}
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return svc.IngestFile(ctx, filepath.Base(path), data)
}

// buildMirror selects the mirror backend, falling back to memory when the
// configured backend cannot be reached.
func buildMirror(cfg *config.Config, logger interfaces.Logger) interfaces.Cache {
	switch cfg.Mirror.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Mirror.Redis)
		if err != nil {
			logger.Error("Failed to create Redis mirror, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache()
		}
		logger.Info("Using Redis mirror", map[string]interface{}{
			"address": cfg.Mirror.Redis.Address,
		})
		return redisCache
	case "sqlite":
		store, err := sqlite.NewMirrorStore(cfg.Mirror.SQLitePath)
		if err != nil {
			logger.Error("Failed to open SQLite mirror, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache()
		}
		logger.Info("Using SQLite mirror", map[string]interface{}{
			"path": cfg.Mirror.SQLitePath,
		})
		return store
	default:
		logger.Info("Using memory mirror", nil)
		return memory.NewMemoryCache()
	}
}

// stdinPrompter asks for an LCP passphrase on the terminal.
type stdinPrompter struct{}

func (stdinPrompter) Prompt(ctx context.Context, hint string) (string, bool) {
	if hint != "" {
		fmt.Printf("Passphrase hint: %s\n", hint)
	}
	fmt.Print("Passphrase: ")
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return "", false
	}
	pass := strings.TrimSpace(scanner.Text())
	if pass == "" {
		return "", false
	}
	return pass, true
}

// noSession is the signed-out auth state for the CLI; remote persistence
// calls are skipped entirely.
type noSession struct{}

func (noSession) Current() (interfaces.Session, bool) {
	return interfaces.Session{}, false
}
