// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package blob implements the attachment blob store: opaque keyed storage
// for uploaded progress images, backed by a local uploads directory.
package blob

import (
	"context"
	"io"
	"time"

	"github.com/olegiv/sitework-go/internal/util"
)

// Store is the blob boundary consumed by the project and status services.
// Keys are opaque strings with at most one allowed-extension suffix.
type Store interface {
	// Put stores the blob under key. Storing must fail the calling operation
	// on error: no record may reference a non-existent blob.
	Put(ctx context.Context, key string, r io.Reader) error

	// Exists reports whether a blob is stored under key.
	Exists(key string) bool

	// Delete removes the blob under key. Deleting a missing blob is a no-op
	// and returns (false, nil).
	Delete(key string) (bool, error)

	// List returns every stored key. Used by the orphan sweep.
	List() ([]string, error)

	// ModTime returns when the blob under key was stored. Used by the
	// orphan sweep to leave freshly written blobs alone.
	ModTime(key string) (time.Time, error)
}

// KeyFor generates a unique storage key for an uploaded file: a timestamp
// prefix followed by the sanitized original filename. Collisions are
// prevented by the generator, not by the store.
func KeyFor(originalName string, now time.Time) string {
	return now.Format("20060102_150405") + "_" + util.SanitizeFilename(originalName)
}
