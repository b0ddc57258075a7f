// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose utility functions, currently
// filename sanitization for uploaded attachments.
package util

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
)

var (
	// unsafeChars matches everything outside the safe filename character set.
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	// multipleUnderscores matches runs of consecutive underscores.
	multipleUnderscores = regexp.MustCompile(`_{2,}`)
)

// SanitizeFilename reduces an arbitrary client-supplied filename to a safe
// ASCII name containing only letters, digits, dots, dashes and underscores.
// Path separators and traversal sequences are stripped. Returns "file" if
// nothing safe remains.
func SanitizeFilename(name string) string {
	// Drop any client-supplied directory components
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	// Transliterate to ASCII
	name = unidecode.Unidecode(name)

	name = strings.ReplaceAll(name, " ", "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = multipleUnderscores.ReplaceAllString(name, "_")

	// No hidden files or traversal remnants
	name = strings.Trim(name, "._")

	if name == "" {
		return "file"
	}
	return name
}

// Extension returns the lowercased filename extension without the leading
// dot, or "" if there is none.
func Extension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	return strings.TrimPrefix(ext, ".")
}
