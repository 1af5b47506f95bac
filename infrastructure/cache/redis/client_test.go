// ABOUTME: Integration tests for the Redis mirror store
// ABOUTME: Require a local Redis; skipped unless REDIS_TEST is set

package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"reader-app-core/pkg/config"
)

func testStore(t *testing.T) *RedisCache {
	t.Helper()
	if os.Getenv("REDIS_TEST") == "" {
		t.Skip("Skipping Redis integration tests; set REDIS_TEST=1 to run")
	}

	store, err := NewRedisCache(config.RedisConfig{Address: "localhost:6379"})
	if err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNewRedisCache_EmptyAddress(t *testing.T) {
	store, err := NewRedisCache(config.RedisConfig{})

	if err == nil {
		t.Error("NewRedisCache should return error for empty address")
	}
	if store != nil {
		t.Error("NewRedisCache should return nil store for invalid config")
	}
}

func TestRedisCache_SetAndGet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	key := "highlights:doc-redis-1"
	value := []byte(`[{"id":"h1"}]`)
	if err := store.Set(ctx, key, value, 1*time.Hour); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	defer store.Delete(ctx, key)

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Errorf("Get returned error: %v", err)
	}
	if string(got) != string(value) {
		t.Errorf("Get returned %s, want %s", string(got), string(value))
	}
}

func TestRedisCache_Get_MissingKey(t *testing.T) {
	store := testStore(t)

	got, err := store.Get(context.Background(), "highlights:doc-absent")
	if err == nil {
		t.Error("Get should return error for missing key")
	}
	if got != nil {
		t.Error("Get should return nil value for missing key")
	}
}

func TestRedisCache_TTLExpiry(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	key := "history:doc-redis-1"
	if err := store.Set(ctx, key, []byte("pos"), 100*time.Millisecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(200 * time.Millisecond)

	if _, err := store.Get(ctx, key); err == nil {
		t.Error("Get should return error for expired key")
	}
}

func TestRedisCache_Delete(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	key := "bookmarks:doc-redis-1"
	if err := store.Set(ctx, key, []byte("value"), 1*time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Errorf("Delete returned error: %v", err)
	}

	if _, err := store.Get(ctx, key); err == nil {
		t.Error("Get should return error for deleted key")
	}
}

func TestRedisCache_Delete_MissingKey(t *testing.T) {
	store := testStore(t)

	if err := store.Delete(context.Background(), "bookmarks:doc-absent"); err != nil {
		t.Errorf("Delete of missing key should not error, got: %v", err)
	}
}
