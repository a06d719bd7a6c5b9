package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/loan-compass/loan_compass/internal/logging"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemory(logging.Discard())
	ctx := context.Background()

	store.Set(ctx, KeyToken, "abc123")

	var token string
	if !store.Get(ctx, KeyToken, &token) {
		t.Fatalf("expected token to be present")
	}
	if token != "abc123" {
		t.Fatalf("expected abc123, got %q", token)
	}

	store.Remove(ctx, KeyToken)
	if store.Get(ctx, KeyToken, &token) {
		t.Fatalf("expected token to be absent after remove")
	}
}

func TestMemoryStoreCorruptEntryReadsAsAbsent(t *testing.T) {
	store := NewMemory(logging.Discard())
	ctx := context.Background()

	store.Set(ctx, KeyUser, "just a string")

	// Decoding a string into a struct must report absent, not fail.
	var out struct{ Name string }
	if store.Get(ctx, KeyUser, &out) {
		t.Fatalf("expected corrupt entry to read as absent")
	}
}

func TestMemoryStoreClear(t *testing.T) {
	store := NewMemory(logging.Discard())
	ctx := context.Background()

	store.Set(ctx, KeyToken, "t")
	store.Set(ctx, KeyLanguage, "en")
	store.Clear(ctx)

	var s string
	if store.Get(ctx, KeyToken, &s) || store.Get(ctx, KeyLanguage, &s) {
		t.Fatalf("expected store to be empty after clear")
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	ctx := context.Background()

	first := NewFile(path, logging.Discard())
	first.Set(ctx, KeyToken, "persisted")
	first.Set(ctx, KeyUser, map[string]string{"name": "Demo User"})

	second := NewFile(path, logging.Discard())
	var token string
	if !second.Get(ctx, KeyToken, &token) || token != "persisted" {
		t.Fatalf("expected token to survive reopen, got %q", token)
	}
	var user map[string]string
	if !second.Get(ctx, KeyUser, &user) || user["name"] != "Demo User" {
		t.Fatalf("expected user to survive reopen, got %v", user)
	}
}

func TestFileStoreCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	store := NewFile(path, logging.Discard())
	var s string
	if store.Get(context.Background(), KeyToken, &s) {
		t.Fatalf("expected corrupt file to read as empty store")
	}
}

func TestFileStoreClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	ctx := context.Background()

	store := NewFile(path, logging.Discard())
	store.Set(ctx, KeyToken, "t")
	store.Clear(ctx)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected cache file to be removed, stat err=%v", err)
	}
}
