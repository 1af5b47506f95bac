// ABOUTME: Tests for the SQLite mirror store against a temp database file
// ABOUTME: Covers persistence across reopen, TTL expiry and binary integrity

package sqlite

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func tempStore(t *testing.T) (*Client, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mirror.db")
	store, err := NewMirrorStore(path)
	if err != nil {
		t.Fatalf("Failed to open mirror store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestNewMirrorStore_CreatesFile(t *testing.T) {
	_, path := tempStore(t)

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Mirror database file not created: %v", err)
	}
}

func TestMirrorStore_SetAndGet(t *testing.T) {
	store, _ := tempStore(t)
	ctx := context.Background()

	key := "highlights:doc-1"
	value := []byte(`[{"id":"h1"}]`)
	if err := store.Set(ctx, key, value, 0); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Errorf("Get returned error: %v", err)
	}
	if string(got) != string(value) {
		t.Errorf("Get returned %s, want %s", string(got), string(value))
	}
}

func TestMirrorStore_Get_MissingKey(t *testing.T) {
	store, _ := tempStore(t)

	got, err := store.Get(context.Background(), "absent")
	if err == nil {
		t.Error("Get should return error for missing key")
	}
	if got != nil {
		t.Error("Get should return nil value for missing key")
	}
}

func TestMirrorStore_Get_EmptyKey(t *testing.T) {
	store, _ := tempStore(t)

	_, err := store.Get(context.Background(), "")
	if err == nil {
		t.Error("Get should reject an empty key")
	}
}

func TestMirrorStore_Set_UpdatesExisting(t *testing.T) {
	store, _ := tempStore(t)
	ctx := context.Background()

	key := "bookmarks:doc-1"
	if err := store.Set(ctx, key, []byte("first"), 0); err != nil {
		t.Fatalf("First set failed: %v", err)
	}
	if err := store.Set(ctx, key, []byte("second"), 0); err != nil {
		t.Fatalf("Second set failed: %v", err)
	}

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Get returned %s, want second", string(got))
	}
}

func TestMirrorStore_Set_EmptyKey(t *testing.T) {
	store, _ := tempStore(t)

	err := store.Set(context.Background(), "", []byte("value"), 0)
	if err == nil {
		t.Error("Set should reject an empty key")
	}
}

func TestMirrorStore_TTLExpiry(t *testing.T) {
	store, _ := tempStore(t)
	ctx := context.Background()

	key := "history:doc-1"
	if err := store.Set(ctx, key, []byte("pos"), 1*time.Second); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Still readable before expiry.
	if _, err := store.Get(ctx, key); err != nil {
		t.Errorf("Get before expiry returned error: %v", err)
	}

	// Expiry is stored at second granularity.
	time.Sleep(2100 * time.Millisecond)

	got, err := store.Get(ctx, key)
	if err == nil {
		t.Error("Get should return error for expired key")
	}
	if got != nil {
		t.Error("Get should return nil for expired key")
	}
}

func TestMirrorStore_ZeroTTLNeverExpires(t *testing.T) {
	store, _ := tempStore(t)
	ctx := context.Background()

	key := "highlights:doc-2"
	if err := store.Set(ctx, key, []byte("keep"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Errorf("Get returned error: %v", err)
	}
	if string(got) != "keep" {
		t.Errorf("Get returned %s, want keep", string(got))
	}
}

func TestMirrorStore_Delete(t *testing.T) {
	store, _ := tempStore(t)
	ctx := context.Background()

	key := "bookmarks:doc-2"
	if err := store.Set(ctx, key, []byte("value"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Errorf("Delete returned error: %v", err)
	}

	if _, err := store.Get(ctx, key); err == nil {
		t.Error("Get should return error for deleted key")
	}
}

func TestMirrorStore_Delete_MissingKey(t *testing.T) {
	store, _ := tempStore(t)

	if err := store.Delete(context.Background(), "absent"); err != nil {
		t.Errorf("Delete of missing key should not error, got: %v", err)
	}
}

func TestMirrorStore_BinaryValueIntegrity(t *testing.T) {
	store, _ := tempStore(t)
	ctx := context.Background()

	value := []byte{0x00, 0xFF, 0x42, 0x00, 0x13, 0x37}
	if err := store.Set(ctx, "binary", value, 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := store.Get(ctx, "binary")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if !bytes.Equal(got, value) {
		t.Errorf("Get returned %v, want %v", got, value)
	}
}

func TestMirrorStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.db")
	ctx := context.Background()

	store, err := NewMirrorStore(path)
	if err != nil {
		t.Fatalf("Failed to open mirror store: %v", err)
	}
	if err := store.Set(ctx, "highlights:doc-1", []byte("persisted"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := NewMirrorStore(path)
	if err != nil {
		t.Fatalf("Failed to reopen mirror store: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Get(ctx, "highlights:doc-1")
	if err != nil {
		t.Fatalf("Get after reopen returned error: %v", err)
	}
	if string(got) != "persisted" {
		t.Errorf("Get returned %s, want persisted", string(got))
	}
}
