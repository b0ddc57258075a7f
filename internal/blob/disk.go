// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ThumbsDir is the subdirectory holding generated thumbnail variants.
const ThumbsDir = "thumbs"

// DiskStore is a blob Store backed by a local directory. Keys map directly
// to flat filenames under the root; a parallel thumbs/ subdirectory holds
// generated variants sharing the same key.
type DiskStore struct {
	root string
}

// NewDiskStore creates a disk store rooted at dir, creating it if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, ThumbsDir), 0o755); err != nil {
		return nil, fmt.Errorf("creating uploads directory: %w", err)
	}
	return &DiskStore{root: dir}, nil
}

// Root returns the root directory of the store.
func (s *DiskStore) Root() string {
	return s.root
}

// Path returns the filesystem path for a key.
func (s *DiskStore) Path(key string) string {
	return filepath.Join(s.root, filepath.Base(key))
}

// thumbPath returns the filesystem path for a key's thumbnail variant.
func (s *DiskStore) thumbPath(key string) string {
	return filepath.Join(s.root, ThumbsDir, filepath.Base(key))
}

// Put stores the blob under key. The write is atomic: data goes to a
// temporary file first and is renamed into place.
func (s *DiskStore) Put(ctx context.Context, key string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tmp := filepath.Join(s.root, "tmp-"+uuid.New().String())
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating blob file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("writing blob: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("closing blob file: %w", err)
	}

	if err := os.Rename(tmp, s.Path(key)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("storing blob %q: %w", key, err)
	}
	return nil
}

// Exists reports whether a blob is stored under key.
func (s *DiskStore) Exists(key string) bool {
	info, err := os.Stat(s.Path(key))
	return err == nil && !info.IsDir()
}

// Delete removes the blob and its thumbnail variant, if any. A missing blob
// is a no-op: (false, nil).
func (s *DiskStore) Delete(key string) (bool, error) {
	// Thumbnail removal is best-effort; the original is authoritative.
	_ = os.Remove(s.thumbPath(key))

	err := os.Remove(s.Path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("deleting blob %q: %w", key, err)
	}
	return true, nil
}

// ModTime returns the modification time of the blob under key.
func (s *DiskStore) ModTime(key string) (time.Time, error) {
	info, err := os.Stat(s.Path(key))
	if err != nil {
		return time.Time{}, fmt.Errorf("stat blob %q: %w", key, err)
	}
	return info.ModTime(), nil
}

// List returns every stored blob key, excluding thumbnail variants and
// in-flight temporary files.
func (s *DiskStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("listing blobs: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if len(name) > 4 && name[:4] == "tmp-" {
			continue
		}
		keys = append(keys, name)
	}
	return keys, nil
}
