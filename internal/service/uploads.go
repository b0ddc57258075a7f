// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/sitework-go/internal/util"
)

// allowedImageExtensions is the upload allow-list. Files with any other
// extension are skipped silently rather than failing the request.
var allowedImageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

// Upload is a single file received in a multipart request, read fully into
// memory before storage.
type Upload struct {
	OriginalName string
	Data         []byte
}

// Allowed reports whether the upload's extension is on the allow-list.
func (u Upload) Allowed() bool {
	return allowedImageExtensions[util.Extension(u.OriginalName)]
}

// Thumbnailer generates a thumbnail variant for a stored blob. Thumbnail
// generation is best effort: failures never fail the upload.
type Thumbnailer interface {
	Thumbnail(key string, data []byte) error
}

// sanitizer strips all HTML from client-visible free-text fields.
var sanitizer = bluemonday.StrictPolicy()

func sanitize(s string) string {
	return sanitizer.Sanitize(s)
}
