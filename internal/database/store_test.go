package database_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/oscarrenalias/telegram-bot-meme-explainer/internal/database"

	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func TestStoreCacheRoundTrip(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Ping(ctx); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}

	_, found, err := store.GetCachedResponse(ctx, "missing")
	if err != nil {
		t.Fatalf("GetCachedResponse() error = %v", err)
	}
	if found {
		t.Fatal("GetCachedResponse() found = true for missing key")
	}

	entry := &database.CachedResponse{
		Key:      "abc123",
		Model:    "gemini-2.0-flash",
		Response: "This meme is about **Mondays**.",
	}
	if err := store.PutCachedResponse(ctx, entry); err != nil {
		t.Fatalf("PutCachedResponse() error = %v", err)
	}

	got, found, err := store.GetCachedResponse(ctx, "abc123")
	if err != nil {
		t.Fatalf("GetCachedResponse() error = %v", err)
	}
	if !found {
		t.Fatal("GetCachedResponse() found = false after put")
	}
	if got != entry.Response {
		t.Errorf("GetCachedResponse() = %q, want %q", got, entry.Response)
	}
}

func TestStorePutOverwritesExistingKey(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()

	first := &database.CachedResponse{Key: "k", Model: "m", Response: "old"}
	if err := store.PutCachedResponse(ctx, first); err != nil {
		t.Fatalf("PutCachedResponse() error = %v", err)
	}

	second := &database.CachedResponse{Key: "k", Model: "m", Response: "new"}
	if err := store.PutCachedResponse(ctx, second); err != nil {
		t.Fatalf("PutCachedResponse() error = %v", err)
	}

	got, found, err := store.GetCachedResponse(ctx, "k")
	if err != nil || !found {
		t.Fatalf("GetCachedResponse() = %v, %v after overwrite", found, err)
	}
	if got != "new" {
		t.Errorf("GetCachedResponse() = %q, want %q", got, "new")
	}
}

func TestStorePutRejectsEmptyKey(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)

	if err := store.PutCachedResponse(context.Background(), &database.CachedResponse{Response: "x"}); err == nil {
		t.Error("PutCachedResponse() error = nil for empty key")
	}
	if err := store.PutCachedResponse(context.Background(), nil); err == nil {
		t.Error("PutCachedResponse() error = nil for nil entry")
	}
}

func TestStorePruneCache(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	entries := []*database.CachedResponse{
		{Key: "old1", Model: "m", Response: "a", CreatedAt: now.Add(-48 * time.Hour)},
		{Key: "old2", Model: "m", Response: "b", CreatedAt: now.Add(-25 * time.Hour)},
		{Key: "fresh", Model: "m", Response: "c", CreatedAt: now},
	}
	for _, e := range entries {
		if err := store.PutCachedResponse(ctx, e); err != nil {
			t.Fatalf("PutCachedResponse(%s) error = %v", e.Key, err)
		}
	}

	removed, err := store.PruneCache(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("PruneCache() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("PruneCache() removed = %d, want 2", removed)
	}

	_, found, err := store.GetCachedResponse(ctx, "fresh")
	if err != nil {
		t.Fatalf("GetCachedResponse() error = %v", err)
	}
	if !found {
		t.Error("GetCachedResponse() found = false for fresh entry after prune")
	}

	if err := store.RunMaintenance(ctx); err != nil {
		t.Errorf("RunMaintenance() error = %v", err)
	}
}
