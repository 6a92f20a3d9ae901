// Package ui is a small immediate-mode 2D layer drawn over the
// internal render target. It batches solid quads and bitmap text and
// flushes them in one pass, so it never fights the window system or
// the 3D pipeline for state.
package ui

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/mechanicchickendev/froggi/internal/engine/shader"
)

const solidVertSrc = `#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uProjection;

out vec4 vColor;

void main() {
	gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
	vColor = aColor;
}
`

const solidFragSrc = `#version 410 core
in vec4 vColor;
out vec4 fragColor;

void main() {
	fragColor = vColor;
}
`

const textVertSrc = `#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;
layout (location = 2) in vec4 aColor;

uniform mat4 uProjection;

out vec2 vUV;
out vec4 vColor;

void main() {
	gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
	vUV = aUV;
	vColor = aColor;
}
`

const textFragSrc = `#version 410 core
uniform sampler2D uTexture;

in vec2 vUV;
in vec4 vColor;
out vec4 fragColor;

void main() {
	float alpha = texture(uTexture, vUV).a;
	fragColor = vec4(vColor.rgb, vColor.a * alpha);
}
`

// Renderer batches 2D primitives for one flush per frame.
type Renderer struct {
	width  float32
	height float32

	solidProgram uint32
	textProgram  uint32

	solidVAO uint32
	solidVBO uint32
	textVAO  uint32
	textVBO  uint32

	solidVertices []float32
	textVertices  []float32

	font *Font
}

// NewRenderer creates the 2D batch renderer. The GL context must be
// current.
func NewRenderer(width, height int) (*Renderer, error) {
	r := &Renderer{
		width:         float32(width),
		height:        float32(height),
		solidVertices: make([]float32, 0, 4096),
		textVertices:  make([]float32, 0, 4096),
	}

	var err error
	r.solidProgram, err = shader.CompileProgram(solidVertSrc, solidFragSrc)
	if err != nil {
		return nil, fmt.Errorf("solid shader: %w", err)
	}
	r.textProgram, err = shader.CompileProgram(textVertSrc, textFragSrc)
	if err != nil {
		return nil, fmt.Errorf("text shader: %w", err)
	}

	// Solid quads: pos(2) + color(4).
	gl.GenVertexArrays(1, &r.solidVAO)
	gl.GenBuffers(1, &r.solidVBO)
	gl.BindVertexArray(r.solidVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.solidVBO)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 6*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, 6*4, 2*4)

	// Text quads: pos(2) + uv(2) + color(4).
	gl.GenVertexArrays(1, &r.textVAO)
	gl.GenBuffers(1, &r.textVBO)
	gl.BindVertexArray(r.textVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.textVBO)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, 8*4, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, 8*4, 2*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 4, gl.FLOAT, false, 8*4, 4*4)
	gl.BindVertexArray(0)

	r.font = NewFont()
	return r, nil
}

// Resize updates the coordinate space used by the projection.
func (r *Renderer) Resize(width, height float32) {
	r.width = width
	r.height = height
}

// ScreenSize returns the current coordinate space dimensions.
func (r *Renderer) ScreenSize() (float32, float32) { return r.width, r.height }

// Begin drops the previous frame's batches.
func (r *Renderer) Begin() {
	r.solidVertices = r.solidVertices[:0]
	r.textVertices = r.textVertices[:0]
}

// End flushes the batches. Blend state is owned by the caller's pass.
func (r *Renderer) End() {
	proj := orthoTopLeft(r.width, r.height)

	if len(r.solidVertices) > 0 {
		gl.UseProgram(r.solidProgram)
		loc := shader.MustGetUniform(r.solidProgram, "uProjection")
		gl.UniformMatrix4fv(loc, 1, false, &proj[0])

		gl.BindVertexArray(r.solidVAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.solidVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(r.solidVertices)*4, gl.Ptr(r.solidVertices), gl.STREAM_DRAW)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(r.solidVertices)/6))
	}

	if len(r.textVertices) > 0 {
		gl.UseProgram(r.textProgram)
		loc := shader.MustGetUniform(r.textProgram, "uProjection")
		gl.UniformMatrix4fv(loc, 1, false, &proj[0])
		gl.Uniform1i(shader.MustGetUniform(r.textProgram, "uTexture"), 0)

		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, r.font.TextureID())

		gl.BindVertexArray(r.textVAO)
		gl.BindBuffer(gl.ARRAY_BUFFER, r.textVBO)
		gl.BufferData(gl.ARRAY_BUFFER, len(r.textVertices)*4, gl.Ptr(r.textVertices), gl.STREAM_DRAW)
		gl.DrawArrays(gl.TRIANGLES, 0, int32(len(r.textVertices)/8))
	}

	gl.BindVertexArray(0)
}

// DrawRect queues a filled rectangle.
func (r *Renderer) DrawRect(x, y, w, h float32, c Color) {
	r.solidVertices = append(r.solidVertices,
		x, y, c.R, c.G, c.B, c.A,
		x+w, y, c.R, c.G, c.B, c.A,
		x+w, y+h, c.R, c.G, c.B, c.A,

		x, y, c.R, c.G, c.B, c.A,
		x+w, y+h, c.R, c.G, c.B, c.A,
		x, y+h, c.R, c.G, c.B, c.A,
	)
}

// DrawRectOutline queues a rectangle border of the given thickness.
func (r *Renderer) DrawRectOutline(x, y, w, h, thickness float32, c Color) {
	r.DrawRect(x, y, w, thickness, c)
	r.DrawRect(x, y+h-thickness, w, thickness, c)
	r.DrawRect(x, y+thickness, thickness, h-thickness*2, c)
	r.DrawRect(x+w-thickness, y+thickness, thickness, h-thickness*2, c)
}

// DrawPanel queues a filled rectangle with a one pixel border.
func (r *Renderer) DrawPanel(x, y, w, h float32, bg, border Color) {
	r.DrawRect(x, y, w, h, bg)
	r.DrawRectOutline(x, y, w, h, 1, border)
}

// DrawText queues a text run. Newlines start a new line.
func (r *Renderer) DrawText(x, y float32, text string, scale float32, c Color) {
	gw, gh := r.font.GlyphSize()
	charW := float32(gw) * scale
	charH := float32(gh) * scale

	curX := x
	for _, ch := range text {
		if ch == '\n' {
			curX = x
			y += charH
			continue
		}
		u0, v0, u1, v1 := r.font.GlyphUV(ch)
		r.textVertices = append(r.textVertices,
			curX, y, u0, v0, c.R, c.G, c.B, c.A,
			curX+charW, y, u1, v0, c.R, c.G, c.B, c.A,
			curX+charW, y+charH, u1, v1, c.R, c.G, c.B, c.A,

			curX, y, u0, v0, c.R, c.G, c.B, c.A,
			curX+charW, y+charH, u1, v1, c.R, c.G, c.B, c.A,
			curX, y+charH, u0, v1, c.R, c.G, c.B, c.A,
		)
		curX += charW
	}
}

// MeasureText returns the scaled pixel size of a text block.
func (r *Renderer) MeasureText(text string, scale float32) (float32, float32) {
	return r.font.MeasureText(text, scale)
}

// Destroy releases the renderer's GPU resources.
func (r *Renderer) Destroy() {
	if r.font != nil {
		r.font.Destroy()
		r.font = nil
	}
	if r.solidVAO != 0 {
		gl.DeleteVertexArrays(1, &r.solidVAO)
		gl.DeleteBuffers(1, &r.solidVBO)
		r.solidVAO = 0
	}
	if r.textVAO != 0 {
		gl.DeleteVertexArrays(1, &r.textVAO)
		gl.DeleteBuffers(1, &r.textVBO)
		r.textVAO = 0
	}
	if r.solidProgram != 0 {
		gl.DeleteProgram(r.solidProgram)
		r.solidProgram = 0
	}
	if r.textProgram != 0 {
		gl.DeleteProgram(r.textProgram)
		r.textProgram = 0
	}
}

// orthoTopLeft maps pixel coordinates with the origin at the top left
// onto clip space.
func orthoTopLeft(width, height float32) [16]float32 {
	return [16]float32{
		2 / width, 0, 0, 0,
		0, -2 / height, 0, 0,
		0, 0, -1, 0,
		-1, 1, 0, 1,
	}
}
