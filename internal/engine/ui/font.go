package ui

import (
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	fontFirstRune = 32
	fontLastRune  = 126
)

// Font is a monospace glyph atlas baked from the builtin bitmap face.
// Every printable ASCII glyph occupies one fixed-size cell in a single
// row.
type Font struct {
	texture uint32
	cellW   int
	cellH   int
	count   int
}

// NewFont bakes the atlas and uploads it. The GL context must be
// current.
func NewFont() *Font {
	f, img := newFontAtlas()
	gl.GenTextures(1, &f.texture)
	gl.BindTexture(gl.TEXTURE_2D, f.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(img.Bounds().Dx()), int32(img.Bounds().Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return f
}

// newFontAtlas rasterizes the glyphs without touching the GPU.
func newFontAtlas() (*Font, *image.RGBA) {
	face := basicfont.Face7x13
	f := &Font{
		cellW: face.Advance,
		cellH: face.Height,
		count: fontLastRune - fontFirstRune + 1,
	}

	img := image.NewRGBA(image.Rect(0, 0, f.cellW*f.count, f.cellH))
	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	for r := rune(fontFirstRune); r <= fontLastRune; r++ {
		d.Dot.X = fixed.I(f.cellW * int(r-fontFirstRune))
		d.DrawString(string(r))
	}
	return f, img
}

// TextureID returns the atlas texture.
func (f *Font) TextureID() uint32 { return f.texture }

// GlyphSize returns the unscaled cell dimensions.
func (f *Font) GlyphSize() (int, int) { return f.cellW, f.cellH }

// GlyphUV returns the atlas rectangle for a rune. Runes outside the
// printable ASCII range map to '?'.
func (f *Font) GlyphUV(r rune) (u0, v0, u1, v1 float32) {
	if r < fontFirstRune || r > fontLastRune {
		r = '?'
	}
	idx := int(r - fontFirstRune)
	u0 = float32(idx) / float32(f.count)
	u1 = float32(idx+1) / float32(f.count)
	return u0, 0, u1, 1
}

// MeasureText returns the scaled pixel size of a text block.
func (f *Font) MeasureText(text string, scale float32) (float32, float32) {
	if text == "" {
		return 0, 0
	}
	longest, cur, lines := 0, 0, 1
	for _, r := range text {
		if r == '\n' {
			lines++
			cur = 0
			continue
		}
		cur++
		if cur > longest {
			longest = cur
		}
	}
	return float32(longest*f.cellW) * scale, float32(lines*f.cellH) * scale
}

// Destroy releases the atlas texture.
func (f *Font) Destroy() {
	if f.texture != 0 {
		gl.DeleteTextures(1, &f.texture)
		f.texture = 0
	}
}
