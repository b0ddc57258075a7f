// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging generates thumbnail variants for uploaded progress images
// using pure Go libraries. Variant generation is best-effort: a failure here
// never fails the owning upload.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/sitework-go/internal/blob"
	"github.com/olegiv/sitework-go/internal/util"
)

// Thumbnail dimensions and quality.
const (
	ThumbWidth   = 300
	ThumbHeight  = 300
	ThumbQuality = 80
)

// Processor creates thumbnail variants alongside stored blobs.
type Processor struct {
	store *blob.DiskStore
}

// NewProcessor creates a processor writing variants under the store's
// thumbs/ subdirectory.
func NewProcessor(store *blob.DiskStore) *Processor {
	return &Processor{store: store}
}

// Thumbnail decodes the image data, applies EXIF orientation and writes a
// center-cropped thumbnail variant for the given blob key.
func (p *Processor) Thumbnail(key string, data []byte) error {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decoding image: %w", err)
	}

	orientation := readExifOrientation(bytes.NewReader(data))
	img = applyOrientation(img, orientation)

	thumb := imaging.Fill(img, ThumbWidth, ThumbHeight, imaging.Center, imaging.Lanczos)

	encoded, err := encodeImage(thumb, util.Extension(key), ThumbQuality)
	if err != nil {
		return fmt.Errorf("encoding thumbnail: %w", err)
	}

	path := filepath.Join(p.store.Root(), blob.ThumbsDir, filepath.Base(key))
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("writing thumbnail: %w", err)
	}
	return nil
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies EXIF orientation transformation to an image.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage encodes an image with the given format extension and quality.
// WebP encoding is not available in pure Go, so webp thumbnails fall back to
// JPEG output.
func encodeImage(img image.Image, ext string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch ext {
	case "jpeg", "jpg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	case "png":
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	case "gif":
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
