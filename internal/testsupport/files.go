package testsupport

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// Gradient returns a w×h image with a diagonal colour ramp so resampling
// produces non-trivial output.
func Gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

// WritePNG writes a w×h gradient PNG at path, creating parent directories.
func WritePNG(t testing.TB, path string, w, h int) {
	t.Helper()
	writeImage(t, path, func(f *os.File) error { return png.Encode(f, Gradient(w, h)) })
}

// WriteJPEG writes a w×h gradient JPEG at path, creating parent directories.
func WriteJPEG(t testing.TB, path string, w, h int) {
	t.Helper()
	writeImage(t, path, func(f *os.File) error {
		return jpeg.Encode(f, Gradient(w, h), &jpeg.Options{Quality: 90})
	})
}

// WriteFile writes raw bytes at path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeImage(t testing.TB, path string, encode func(*os.File) error) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := encode(f); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}
