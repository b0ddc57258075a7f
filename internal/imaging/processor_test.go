// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/olegiv/sitework-go/internal/blob"
)

// testPNG produces a small in-memory PNG.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 0, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	return buf.Bytes()
}

func TestThumbnail(t *testing.T) {
	store, err := blob.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	p := NewProcessor(store)

	data := testPNG(t, 800, 600)
	key := "20250101_120000_big.png"
	if err := store.Put(context.Background(), key, bytes.NewReader(data)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := p.Thumbnail(key, data); err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}

	thumbPath := filepath.Join(store.Root(), blob.ThumbsDir, key)
	f, err := os.Open(thumbPath)
	if err != nil {
		t.Fatalf("opening thumbnail: %v", err)
	}
	defer func() { _ = f.Close() }()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decoding thumbnail: %v", err)
	}
	if cfg.Width != ThumbWidth || cfg.Height != ThumbHeight {
		t.Errorf("thumbnail size = %dx%d, want %dx%d", cfg.Width, cfg.Height, ThumbWidth, ThumbHeight)
	}
}

func TestThumbnail_RejectsGarbage(t *testing.T) {
	store, err := blob.NewDiskStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	p := NewProcessor(store)

	if err := p.Thumbnail("x.png", []byte("not an image")); err == nil {
		t.Error("expected error for undecodable data")
	}
}

func TestApplyOrientation(t *testing.T) {
	// A 2x1 image rotated 90 degrees must become 1x2
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))

	rotated := applyOrientation(img, 6)
	b := rotated.Bounds()
	if b.Dx() != 1 || b.Dy() != 2 {
		t.Errorf("orientation 6 produced %dx%d, want 1x2", b.Dx(), b.Dy())
	}

	same := applyOrientation(img, 1)
	if same != img {
		t.Error("orientation 1 must be a no-op")
	}
}
