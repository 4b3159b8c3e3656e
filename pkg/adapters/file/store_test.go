package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/espalier/pkg/adapters/file"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// Ensure Store implements SessionStore
var _ ports.SessionStore = (*file.Store)(nil)

func TestFileStore_Contract(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ports.RunSessionStoreContract(t, store)
}

func TestFileStore_ListIgnoresGarbage(t *testing.T) {
	dir := t.TempDir()
	store := file.NewStore(dir)
	ctx := context.Background()

	ids := []string{"s1", "s2", "s3"}
	for _, id := range ids {
		if err := store.Save(ctx, id, domain.NewSession("root")); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	// Non-session files must not show up as sessions.
	if err := os.WriteFile(filepath.Join(dir, "garbage.txt"), []byte("garbage"), 0644); err != nil {
		t.Fatalf("failed to create garbage file: %v", err)
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != len(ids) {
		t.Errorf("expected %d sessions, got %d: %v", len(ids), len(list), list)
	}
}

func TestFileStore_EmptySessionID(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ctx := context.Background()

	if err := store.Save(ctx, "", domain.NewSession("root")); err == nil {
		t.Error("Save with empty sessionID should fail")
	}
	if _, err := store.Load(ctx, ""); err == nil {
		t.Error("Load with empty sessionID should fail")
	}
	if err := store.Delete(ctx, ""); err == nil {
		t.Error("Delete with empty sessionID should fail")
	}
}

func TestFileStore_FilesOnDisk(t *testing.T) {
	dir := t.TempDir()
	store := file.NewStore(dir)
	ctx := context.Background()

	if err := store.Save(ctx, "walk-1", domain.NewSession("root")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	path := filepath.Join(dir, "walk-1.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("session file should exist after Save")
	}

	if err := store.Delete(ctx, "walk-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("session file should be gone after Delete")
	}
}
