// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blob

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testStore(t *testing.T) *DiskStore {
	t.Helper()
	s, err := NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	return s
}

func TestPutExistsDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	key := "20250101_120000_site.png"
	if err := s.Put(ctx, key, strings.NewReader("image-bytes")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if !s.Exists(key) {
		t.Error("expected blob to exist after Put")
	}

	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		t.Fatalf("reading stored blob: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("stored content = %q", data)
	}

	removed, err := s.Delete(key)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !removed {
		t.Error("expected Delete to report removal")
	}
	if s.Exists(key) {
		t.Error("expected blob to be gone after Delete")
	}
}

func TestDelete_MissingIsNoOp(t *testing.T) {
	s := testStore(t)

	removed, err := s.Delete("never-stored.png")
	if err != nil {
		t.Fatalf("Delete of missing blob returned error: %v", err)
	}
	if removed {
		t.Error("expected Delete of missing blob to report false")
	}
}

func TestDelete_RemovesThumbnail(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	key := "20250101_120000_plan.jpg"
	if err := s.Put(ctx, key, strings.NewReader("original")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	thumb := filepath.Join(s.Root(), ThumbsDir, key)
	if err := os.WriteFile(thumb, []byte("thumb"), 0o644); err != nil {
		t.Fatalf("writing thumb: %v", err)
	}

	if _, err := s.Delete(key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(thumb); !os.IsNotExist(err) {
		t.Error("expected thumbnail to be removed with the original")
	}
}

func TestList(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, key := range []string{"a.png", "b.jpg"} {
		if err := s.Put(ctx, key, strings.NewReader("x")); err != nil {
			t.Fatalf("Put(%q): %v", key, err)
		}
	}
	// Leftover temp file must be excluded
	if err := os.WriteFile(filepath.Join(s.Root(), "tmp-abc"), []byte("x"), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}

	keys, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("List returned %d keys, want 2: %v", len(keys), keys)
	}
}

func TestKeyFor(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	key := KeyFor("kitchen remodel.png", now)
	if key != "20250314_092653_kitchen_remodel.png" {
		t.Errorf("KeyFor = %q", key)
	}

	// Traversal attempts must not survive into the key
	key = KeyFor("../../evil.sh", now)
	if strings.Contains(key, "/") || strings.Contains(key, "..") {
		t.Errorf("KeyFor produced unsafe key %q", key)
	}
}

func TestModTime(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	key := "20250101_120000_site.png"
	if err := s.Put(ctx, key, strings.NewReader("image-bytes")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	mt, err := s.ModTime(key)
	if err != nil {
		t.Fatalf("ModTime: %v", err)
	}
	if age := time.Since(mt); age < 0 || age > time.Minute {
		t.Errorf("ModTime = %v, want a recent timestamp", mt)
	}

	if _, err := s.ModTime("never-stored.png"); err == nil {
		t.Error("expected error for missing blob")
	}
}
