// ABOUTME: SQLite-backed mirror store so annotations survive restarts offline
// ABOUTME: Single mirror table keyed by document identity, TTL via expiry column

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// neverExpires is the expiry sentinel for entries without a TTL.
const neverExpires = 0

// Client implements the Cache interface on a local SQLite file. It is the
// default mirror backend: highlights, bookmarks and reading positions
// written here survive restarts and work offline.
type Client struct {
	db       *sql.DB
	filePath string
}

// NewMirrorStore opens (or creates) the mirror database at filePath.
func NewMirrorStore(filePath string) (*Client, error) {
	if filePath == "" {
		filePath = "reader-mirror.db"
	}

	db, err := sql.Open("sqlite3", filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open mirror database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to mirror database: %w", err)
	}

	c := &Client{db: db, filePath: filePath}
	if err := c.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize mirror schema: %w", err)
	}

	go c.cleanupRoutine()

	return c, nil
}

func (c *Client) initSchema() error {
	query := `
		CREATE TABLE IF NOT EXISTS mirror (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL,
			expiry INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_mirror_expiry ON mirror(expiry);
	`
	_, err := c.db.Exec(query)
	return err
}

// Get retrieves a value. Expired entries read as missing even before the
// cleanup pass removes them.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, errors.New("key cannot be empty")
	}

	var value []byte
	query := "SELECT value FROM mirror WHERE key = ? AND (expiry = ? OR expiry > ?)"
	err := c.db.QueryRowContext(ctx, query, key, neverExpires, time.Now().Unix()).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, errors.New("key not found or expired")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read mirror entry: %w", err)
	}
	return value, nil
}

// Set stores a value. A zero TTL means the entry never expires.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}

	expiry := int64(neverExpires)
	if ttl > 0 {
		expiry = time.Now().Add(ttl).Unix()
	}

	query := "INSERT OR REPLACE INTO mirror (key, value, expiry) VALUES (?, ?, ?)"
	if _, err := c.db.ExecContext(ctx, query, key, value, expiry); err != nil {
		return fmt.Errorf("failed to write mirror entry: %w", err)
	}
	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (c *Client) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if _, err := c.db.ExecContext(ctx, "DELETE FROM mirror WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete mirror entry: %w", err)
	}
	return nil
}

// cleanupRoutine periodically removes expired entries.
func (c *Client) cleanupRoutine() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		_, _ = c.db.Exec("DELETE FROM mirror WHERE expiry != ? AND expiry <= ?",
			neverExpires, time.Now().Unix())
	}
}

// Close closes the database connection.
func (c *Client) Close() error {
	return c.db.Close()
}
