package render

import (
	"encoding/binary"
	stdmath "math"
	"testing"

	"github.com/mechanicchickendev/froggi/pkg/math"
)

func floatAt(buf []byte, off int) float32 {
	return stdmath.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func TestPackUniformsLayout(t *testing.T) {
	proj := math.Identity()
	view := math.Translate(1, 2, 3)
	model := math.Scale(2, 2, 2)
	color := math.Vec4{X: 0.1, Y: 0.2, Z: 0.3, W: 0.4}

	buf := PackUniforms(proj, view, model, color, 7.5)

	if len(buf) != 224 {
		t.Fatalf("block size = %d, want 224", len(buf))
	}
	// Projection identity: first float 1, sixth float (index 5) 1.
	if floatAt(buf[:], 0) != 1 {
		t.Error("projection[0] should be 1")
	}
	// View matrix starts at byte 64; translation lives in column 3,
	// elements 12..14, bytes 64 + 48.
	if got := floatAt(buf[:], 64+48); got != 1 {
		t.Errorf("view tx = %f, want 1", got)
	}
	if got := floatAt(buf[:], 64+56); got != 3 {
		t.Errorf("view tz = %f, want 3", got)
	}
	// Model matrix starts at 128; scale on the diagonal.
	if got := floatAt(buf[:], 128); got != 2 {
		t.Errorf("model sx = %f, want 2", got)
	}
	// Color at 192.
	if got := floatAt(buf[:], 192); got != float32(0.1) {
		t.Errorf("color.r = %f, want 0.1", got)
	}
	if got := floatAt(buf[:], 204); got != float32(0.4) {
		t.Errorf("color.a = %f, want 0.4", got)
	}
	// Time at 208, then 12 bytes of padding.
	if got := floatAt(buf[:], 208); got != 7.5 {
		t.Errorf("time = %f, want 7.5", got)
	}
	for i := 212; i < 224; i++ {
		if buf[i] != 0 {
			t.Fatalf("padding byte %d = %d, want 0", i, buf[i])
		}
	}
}

func TestObjectIndexRoundTrip(t *testing.T) {
	for i := 1; i <= MaxObjectIndex; i++ {
		r := EncodeObjectIndex(i)
		if got := DecodeObjectIndex(r); got != i {
			t.Fatalf("index %d round-tripped to %d (r = %f)", i, got, r)
		}
	}
}

func TestObjectIndexBackground(t *testing.T) {
	if got := DecodeObjectIndex(0); got != 0 {
		t.Errorf("background decodes to %d, want 0", got)
	}
}
