package referral

import (
	"context"
	"path/filepath"
	"testing"

	"contact-saver-bot/internal/domain"
)

var (
	_ domain.ReferralStore = (*Memory)(nil)
	_ domain.ReferralStore = (*FileStore)(nil)
	_ domain.ReferralStore = (*RedisStore)(nil)
)

func TestMemoryLastWriteWins(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.Set(ctx, 7, "42"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, 7, "99"); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := store.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "99" {
		t.Fatalf("expected last write to win, got %q", got)
	}
}

func TestMemoryDeleteRemovesEntry(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	if err := store.Set(ctx, 7, "42"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Delete(ctx, 7); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := store.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty referrer after delete, got %q", got)
	}
}

func TestFileStoreSurvivesReload(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "referrals.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if err := store.Set(ctx, 7, "42"); err != nil {
		t.Fatalf("set: %v", err)
	}

	reloaded, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, err := reloaded.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "42" {
		t.Fatalf("expected persisted referrer 42, got %q", got)
	}
}

func TestFileStoreDeletePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "referrals.json")

	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	if err := store.Set(ctx, 7, "42"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Delete(ctx, 7); err != nil {
		t.Fatalf("delete: %v", err)
	}

	reloaded, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, err := reloaded.Get(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "" {
		t.Fatalf("expected entry gone after delete, got %q", got)
	}
}

func TestFileStoreMissingFileStartsEmpty(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	got, err := store.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty store, got %q", got)
	}
}
