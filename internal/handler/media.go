// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/sitework-go/internal/blob"
)

// validBlobKey rejects anything that could escape the uploads directory.
// Stored keys are flat filenames; a request naming a path is hostile.
func validBlobKey(name string) bool {
	if name == "" || strings.Contains(name, "..") {
		return false
	}
	return filepath.Base(name) == name
}

// ServeUpload handles GET /uploads/{filename}. Authenticated callers only;
// the keys are unguessable timestamps plus sanitized names, and serving them
// never reveals anything beyond the image itself.
func (h *Handler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "filename")
	if !validBlobKey(key) {
		writeJSONError(w, http.StatusBadRequest, "invalid filename")
		return
	}
	if !h.blobs.Exists(key) {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	http.ServeFile(w, r, h.blobs.Path(key))
}

// ServeThumb handles GET /uploads/thumbs/{filename}. Falls back to the
// original when no thumbnail variant was generated.
func (h *Handler) ServeThumb(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "filename")
	if !validBlobKey(key) {
		writeJSONError(w, http.StatusBadRequest, "invalid filename")
		return
	}

	thumb := filepath.Join(h.blobs.Root(), blob.ThumbsDir, key)
	if info, err := os.Stat(thumb); err == nil && !info.IsDir() {
		http.ServeFile(w, r, thumb)
		return
	}

	if !h.blobs.Exists(key) {
		writeJSONError(w, http.StatusNotFound, "not found")
		return
	}
	http.ServeFile(w, r, h.blobs.Path(key))
}
