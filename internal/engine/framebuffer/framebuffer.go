// Package framebuffer provides OpenGL offscreen render targets for
// the pass graph. The color and silhouette targets share one
// depth-stencil attachment, so both passes can clear and reuse it.
package framebuffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Format selects the color attachment's internal format.
type Format int

const (
	// RGBA8 is the standard color target format.
	RGBA8 Format = iota
	// RGBA16F is the high-precision format of the silhouette target,
	// where object ids must survive without quantization surprises.
	RGBA16F
)

func (f Format) internal() int32 {
	if f == RGBA16F {
		return gl.RGBA16F
	}
	return gl.RGBA8
}

func (f Format) pixelType() uint32 {
	if f == RGBA16F {
		return gl.FLOAT
	}
	return gl.UNSIGNED_BYTE
}

// Framebuffer is an offscreen target with a color texture and a
// depth-stencil renderbuffer, possibly shared with another target.
type Framebuffer struct {
	fbo          uint32
	colorTexture uint32
	depthRBO     uint32
	ownsDepth    bool
	format       Format
	width        int32
	height       int32
}

// New creates a target with its own depth-stencil attachment.
func New(width, height int32, format Format) (*Framebuffer, error) {
	return create(width, height, format, 0)
}

// NewSharedDepth creates a target reusing the depth-stencil
// attachment of an existing one. Both must have equal dimensions.
func NewSharedDepth(width, height int32, format Format, depthOwner *Framebuffer) (*Framebuffer, error) {
	if w, h := depthOwner.Size(); w != width || h != height {
		return nil, fmt.Errorf("shared depth size mismatch: %dx%d vs %dx%d", width, height, w, h)
	}
	return create(width, height, format, depthOwner.depthRBO)
}

func create(width, height int32, format Format, sharedDepth uint32) (*Framebuffer, error) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	fb := &Framebuffer{
		format: format,
		width:  width,
		height: height,
	}

	gl.GenFramebuffers(1, &fb.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)

	gl.GenTextures(1, &fb.colorTexture)
	gl.BindTexture(gl.TEXTURE_2D, fb.colorTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, format.internal(), width, height, 0, gl.RGBA, format.pixelType(), nil)
	// Nearest keeps encoded ids and pixel art intact when sampled.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fb.colorTexture, 0)

	if sharedDepth != 0 {
		fb.depthRBO = sharedDepth
	} else {
		gl.GenRenderbuffers(1, &fb.depthRBO)
		gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depthRBO)
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, width, height)
		fb.ownsDepth = true
	}
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, fb.depthRBO)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		fb.Destroy()
		return nil, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return fb, nil
}

// Bind makes this framebuffer the current render target and sets the
// viewport to its size.
func (fb *Framebuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.Viewport(0, 0, fb.width, fb.height)
}

// Unbind restores the default framebuffer.
func (fb *Framebuffer) Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// BindWithViewport binds and sets the viewport, returning a closure
// that restores the previous framebuffer and viewport.
func (fb *Framebuffer) BindWithViewport() func() {
	var prevFBO int32
	var prevViewport [4]int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.GetIntegerv(gl.VIEWPORT, &prevViewport[0])

	fb.Bind()

	return func() {
		gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))
		gl.Viewport(prevViewport[0], prevViewport[1], prevViewport[2], prevViewport[3])
	}
}

// Clear clears the color and depth buffers.
func (fb *Framebuffer) Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.ClearDepth(1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ColorTexture returns the color attachment texture id.
func (fb *Framebuffer) ColorTexture() uint32 {
	return fb.colorTexture
}

// Size returns the target dimensions.
func (fb *Framebuffer) Size() (width, height int32) {
	return fb.width, fb.height
}

// ReadPixelsFloat reads the color attachment as floats, 4 per pixel,
// bottom row first. Used to read encoded ids back from the
// silhouette target.
func (fb *Framebuffer) ReadPixelsFloat() []float32 {
	pixels := make([]float32, fb.width*fb.height*4)

	var prevFBO int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.fbo)
	gl.ReadPixels(0, 0, fb.width, fb.height, gl.RGBA, gl.FLOAT, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))

	return pixels
}

// Destroy releases the GL resources. A shared depth attachment is
// left to its owner.
func (fb *Framebuffer) Destroy() {
	if fb.fbo != 0 {
		gl.DeleteFramebuffers(1, &fb.fbo)
		fb.fbo = 0
	}
	if fb.colorTexture != 0 {
		gl.DeleteTextures(1, &fb.colorTexture)
		fb.colorTexture = 0
	}
	if fb.ownsDepth && fb.depthRBO != 0 {
		gl.DeleteRenderbuffers(1, &fb.depthRBO)
		fb.depthRBO = 0
	}
}
