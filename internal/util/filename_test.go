// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "photo.png", "photo.png"},
		{"spaces", "site plan v2.jpg", "site_plan_v2.jpg"},
		{"path traversal", "../../etc/passwd", "passwd"},
		{"windows path", `C:\Users\me\pic.jpeg`, "pic.jpeg"},
		{"unicode", "чертёж.png", "chertiozh.png"},
		{"accents", "façade-élévation.webp", "facade-elevation.webp"},
		{"shell metacharacters", "a;rm -rf *.gif", "arm_-rf_.gif"},
		{"consecutive underscores", "a  b   c.png", "a_b_c.png"},
		{"hidden file", ".htaccess", "htaccess"},
		{"empty", "", "file"},
		{"only unsafe", "???", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.input)
			if got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"photo.PNG", "png"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
		{"trailing.", ""},
		{"upper.JPEG", "jpeg"},
	}

	for _, tt := range tests {
		if got := Extension(tt.input); got != tt.expected {
			t.Errorf("Extension(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
