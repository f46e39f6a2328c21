package badger

import (
	"context"
	"slices"
	"testing"

	"github.com/mwantia/hostfs/backend"
	"github.com/mwantia/hostfs/data"
)

// TestBadgerBackend_Reopen verifies that objects survive closing the database.
func TestBadgerBackend_Reopen(t *testing.T) {
	ctx := t.Context()
	path := t.TempDir()

	storage, err := NewBadgerBackend(path)
	if err != nil {
		t.Fatalf("NewBadgerBackend failed: %v", err)
	}
	if err := storage.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if _, err := storage.CreateObject(ctx, "docs", data.FileTypeDirectory); err != nil {
		t.Fatalf("CreateObject failed: %v", err)
	}
	if _, err := storage.CreateObject(ctx, "docs/readme.txt", data.FileTypeFile); err != nil {
		t.Fatalf("CreateObject failed: %v", err)
	}
	if _, err := storage.WriteObject(ctx, "docs/readme.txt", 0, []byte("persisted")); err != nil {
		t.Fatalf("WriteObject failed: %v", err)
	}
	if err := storage.Close(ctx); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, _ := NewBadgerBackend(path)
	if err := reopened.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer reopened.Close(context.Background())

	content, err := backend.ReadAll(ctx, reopened, "docs/readme.txt")
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(content) != "persisted" {
		t.Errorf("Expected 'persisted', got %q", content)
	}

	if !slices.Contains(reopened.GetCapabilities().Capabilities, backend.CapabilityPersistent) {
		t.Errorf("Expected a directory database to be persistent")
	}
}

// TestBadgerBackend_PrefixIsolation verifies that similar names do not leak into listings.
func TestBadgerBackend_PrefixIsolation(t *testing.T) {
	ctx := t.Context()

	storage, _ := NewBadgerBackend(":memory:")
	if err := storage.Open(ctx); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer storage.Close(context.Background())

	for _, key := range []string{"a", "a b", "a/inner", "ab"} {
		fileType := data.FileTypeFile
		if key == "a" {
			fileType = data.FileTypeDirectory
		}
		if _, err := storage.CreateObject(ctx, key, fileType); err != nil {
			t.Fatalf("CreateObject(%s) failed: %v", key, err)
		}
	}

	stats, err := storage.ListObjects(ctx, "a")
	if err != nil {
		t.Fatalf("ListObjects failed: %v", err)
	}
	if len(stats) != 1 || stats[0].Key != "a/inner" {
		t.Errorf("Expected only 'a/inner', got %v", stats)
	}

	if err := storage.DeleteObject(ctx, "a", true); err != nil {
		t.Fatalf("DeleteObject failed: %v", err)
	}
	for _, key := range []string{"a b", "ab"} {
		if _, err := storage.HeadObject(ctx, key); err != nil {
			t.Errorf("Expected '%s' to survive, got %v", key, err)
		}
	}
}
