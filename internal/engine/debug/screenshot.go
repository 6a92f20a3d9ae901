// Package debug holds development helpers that sit outside the render
// graph.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// ScreenshotCapture writes timestamped PNG screenshots.
type ScreenshotCapture struct {
	outputDir string
	prefix    string

	// now is swappable so tests get stable file names.
	now func() time.Time
}

// NewScreenshotCapture creates a capture writing into outputDir with
// the given file name prefix.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// CapturePixels saves raw RGBA pixels as a PNG and returns the file
// path. Rows are flipped because GL reads the framebuffer bottom up.
func (sc *ScreenshotCapture) CapturePixels(pixels []byte, width, height int) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel buffer is %d bytes, want %d", len(pixels), width*height*4)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * rowSize
		dst := y * img.Stride
		copy(img.Pix[dst:dst+rowSize], pixels[src:src+rowSize])
	}

	return sc.CaptureImage(img)
}

// CaptureImage saves any image as a PNG and returns the file path.
func (sc *ScreenshotCapture) CaptureImage(img image.Image) (string, error) {
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0o755); err != nil {
			return "", fmt.Errorf("creating screenshot dir: %w", err)
		}
	}

	filename := sc.Filename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating screenshot: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding screenshot: %w", err)
	}
	return filename, nil
}

// Filename returns the path the next capture would use.
func (sc *ScreenshotCapture) Filename() string {
	timestamp := sc.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s.png", sc.prefix, timestamp)
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}
