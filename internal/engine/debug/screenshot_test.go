package debug

import (
	"image/png"
	"os"
	"testing"
	"time"
)

func TestCapturePixelsFlipsRows(t *testing.T) {
	dir := t.TempDir()
	sc := NewScreenshotCapture(dir, "shot")
	sc.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	// 1x2 image: bottom row red, top row blue, as GL would return it.
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	path, err := sc.CapturePixels(pixels, 1, 2)
	if err != nil {
		t.Fatalf("CapturePixels: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	r, _, b, _ := img.At(0, 0).RGBA()
	if r != 0 || b == 0 {
		t.Error("top row should be blue after the flip")
	}
	r, _, b, _ = img.At(0, 1).RGBA()
	if r == 0 || b != 0 {
		t.Error("bottom row should be red after the flip")
	}
}

func TestCapturePixelsRejectsBadSize(t *testing.T) {
	sc := NewScreenshotCapture(t.TempDir(), "shot")
	if _, err := sc.CapturePixels([]byte{1, 2, 3}, 2, 2); err == nil {
		t.Error("short buffer should be rejected")
	}
}

func TestFilenameUsesPrefixAndTimestamp(t *testing.T) {
	sc := NewScreenshotCapture("", "froggi")
	sc.now = func() time.Time { return time.Date(2026, 8, 30, 1, 2, 3, 0, time.UTC) }

	if got := sc.Filename(); got != "froggi_2026-08-30_01-02-03.png" {
		t.Errorf("filename = %q", got)
	}
}
