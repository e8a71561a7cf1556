// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestThumbnail_Downscales(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "thumbs", "images-1-2.png")

	err := NewThumbnailer(50).Thumbnail(encodePNG(t, createTestImage(200, 100)), dst)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}

	f, err := os.Open(dst)
	if err != nil {
		t.Fatalf("opening thumbnail: %v", err)
	}
	defer func() { _ = f.Close() }()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if cfg.Width != 50 || cfg.Height != 25 {
		t.Errorf("size = %dx%d, want 50x25", cfg.Width, cfg.Height)
	}
}

func TestThumbnail_KeepsSmallImages(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, createTestImage(40, 30), nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	dst := filepath.Join(t.TempDir(), "small.jpg")

	if err := NewThumbnailer(480).Thumbnail(buf.Bytes(), dst); err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}

	f, err := os.Open(dst)
	if err != nil {
		t.Fatalf("opening thumbnail: %v", err)
	}
	defer func() { _ = f.Close() }()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if format != "jpeg" || cfg.Width != 40 || cfg.Height != 30 {
		t.Errorf("got %s %dx%d, want jpeg 40x30", format, cfg.Width, cfg.Height)
	}
}

func TestThumbnail_NotImage(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "doc.pdf")

	err := NewThumbnailer(100).Thumbnail([]byte("%PDF-1.4 not an image"), dst)
	if !errors.Is(err, ErrNotImage) {
		t.Fatalf("err = %v, want ErrNotImage", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("no file should be written for non-images")
	}
}

func TestApplyOrientation(t *testing.T) {
	img := createTestImage(20, 10)

	tests := []struct {
		orientation int
		wantW       int
		wantH       int
	}{
		{1, 20, 10},
		{2, 20, 10},
		{3, 20, 10},
		{6, 10, 20},
		{8, 10, 20},
		{99, 20, 10},
	}

	for _, tt := range tests {
		b := applyOrientation(img, tt.orientation).Bounds()
		if b.Dx() != tt.wantW || b.Dy() != tt.wantH {
			t.Errorf("orientation %d: %dx%d, want %dx%d", tt.orientation, b.Dx(), b.Dy(), tt.wantW, tt.wantH)
		}
	}
}

func TestReadExifOrientation_NoExif(t *testing.T) {
	if got := readExifOrientation(bytes.NewReader(encodePNG(t, createTestImage(2, 2)))); got != 1 {
		t.Errorf("readExifOrientation = %d, want 1", got)
	}
}

func TestDetectFormat(t *testing.T) {
	if got := detectFormat(encodePNG(t, createTestImage(2, 2))); got != "png" {
		t.Errorf("detectFormat(png) = %q", got)
	}
	if got := detectFormat([]byte("hello")); got != "" {
		t.Errorf("detectFormat(text) = %q, want empty", got)
	}
}
