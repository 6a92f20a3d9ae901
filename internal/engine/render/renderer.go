// Package render implements the pass graph. One frame runs six
// ordered passes: silhouette ids, main color, outline compose, debug
// overlay, UI, and the final zoom blit to the swapchain.
package render

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/mechanicchickendev/froggi/internal/config"
	"github.com/mechanicchickendev/froggi/internal/engine/framebuffer"
	"github.com/mechanicchickendev/froggi/internal/engine/mesh"
	"github.com/mechanicchickendev/froggi/internal/engine/physics"
	"github.com/mechanicchickendev/froggi/internal/engine/scene"
	"github.com/mechanicchickendev/froggi/internal/engine/shader"
	"github.com/mechanicchickendev/froggi/internal/engine/texture"
	"github.com/mechanicchickendev/froggi/internal/logger"
	"github.com/mechanicchickendev/froggi/pkg/math"
)

// UIRenderer drives the immediate-mode UI between NewFrame and
// Render. The display size passed in is the internal render target
// size, not the window size.
type UIRenderer interface {
	NewFrame(displayWidth, displayHeight float32)
	Render()
}

// Frame carries everything one RenderScene call needs.
type Frame struct {
	Projection math.Mat4
	View       math.Mat4
	Time       float32
	DebugLines []physics.DebugLine
	// UI builds widgets for the UI pass. Nil skips the pass.
	UI func()
}

type gpuMesh struct {
	vao        uint32
	vbo        uint32
	ebo        uint32
	indexCount int32
}

// Renderer owns the GPU resources of the pass graph. All methods must
// run on the thread holding the GL context.
type Renderer struct {
	cfg          config.RenderConfig
	windowWidth  int32
	windowHeight int32

	lib          *shader.Library
	colorFB      *framebuffer.Framebuffer
	silhouetteFB *framebuffer.Framebuffer

	meshes       map[string]*gpuMesh
	textures     map[string]uint32
	whiteTexture uint32

	ubo           uint32
	fullscreenVAO uint32
	debugVAO      uint32
	debugVBO      uint32
	debugCapacity int

	progSilhouette uint32
	progMain       uint32
	progCompose    uint32
	progDebug      uint32
	progBlit       uint32

	locComposeTexture int32
	locTexelSize      int32
	locOutlineColor   int32
	locViewProjection int32
	locLineColor      int32
	locScreenTexture  int32
	locZoom           int32
	locZoomCenter     int32

	zoom        float32
	zoomCenterX float32
	zoomCenterY float32

	ui     UIRenderer
	warned map[string]struct{}
}

// meshUniformBinding is the UBO binding point shared by the mesh
// passes.
const meshUniformBinding = 0

// New builds the pass graph resources. The GL context must be current.
func New(cfg config.RenderConfig, windowWidth, windowHeight int) (*Renderer, error) {
	r := &Renderer{
		cfg:          cfg,
		windowWidth:  int32(windowWidth),
		windowHeight: int32(windowHeight),
		meshes:       make(map[string]*gpuMesh),
		textures:     make(map[string]uint32),
		zoom:         cfg.Zoom,
		zoomCenterX:  cfg.ZoomCenterX,
		zoomCenterY:  cfg.ZoomCenterY,
		warned:       make(map[string]struct{}),
	}
	if r.zoom <= 0 {
		r.zoom = 1
	}

	lib, err := shader.LoadLibrary()
	if err != nil {
		return nil, fmt.Errorf("loading shaders: %w", err)
	}
	r.lib = lib

	w, h := int32(cfg.InternalWidth), int32(cfg.InternalHeight)
	r.colorFB, err = framebuffer.New(w, h, framebuffer.RGBA8)
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("color target: %w", err)
	}
	r.silhouetteFB, err = framebuffer.NewSharedDepth(w, h, framebuffer.RGBA16F, r.colorFB)
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("silhouette target: %w", err)
	}

	r.progSilhouette = lib.MustProgram(shader.ProgramSilhouette)
	r.progMain = lib.MustProgram(shader.ProgramMain)
	r.progCompose = lib.MustProgram(shader.ProgramCompose)
	r.progDebug = lib.MustProgram(shader.ProgramDebug)
	r.progBlit = lib.MustProgram(shader.ProgramBlit)

	r.setupUniformBuffer()
	r.lookupUniforms()

	gl.GenVertexArrays(1, &r.fullscreenVAO)
	r.setupDebugBuffers()
	r.whiteTexture = uploadTexture(texture.White())

	return r, nil
}

func (r *Renderer) setupUniformBuffer() {
	gl.GenBuffers(1, &r.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, r.ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, UniformBlockSize, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, meshUniformBinding, r.ubo)

	for _, prog := range [2]uint32{r.progSilhouette, r.progMain} {
		idx := gl.GetUniformBlockIndex(prog, gl.Str("MeshUniforms\x00"))
		gl.UniformBlockBinding(prog, idx, meshUniformBinding)
	}
}

func (r *Renderer) lookupUniforms() {
	gl.UseProgram(r.progMain)
	gl.Uniform1i(shader.MustGetUniform(r.progMain, "meshTexture"), 0)

	gl.UseProgram(r.progCompose)
	r.locComposeTexture = shader.MustGetUniform(r.progCompose, "silhouetteTexture")
	r.locTexelSize = shader.MustGetUniform(r.progCompose, "texelSize")
	r.locOutlineColor = shader.MustGetUniform(r.progCompose, "outlineColor")
	gl.Uniform1i(r.locComposeTexture, 0)

	r.locViewProjection = shader.MustGetUniform(r.progDebug, "viewProjection")
	r.locLineColor = shader.MustGetUniform(r.progDebug, "lineColor")

	gl.UseProgram(r.progBlit)
	r.locScreenTexture = shader.MustGetUniform(r.progBlit, "screenTexture")
	r.locZoom = shader.MustGetUniform(r.progBlit, "zoom")
	r.locZoomCenter = shader.MustGetUniform(r.progBlit, "zoomCenter")
	gl.Uniform1i(r.locScreenTexture, 0)
	gl.UseProgram(0)
}

func (r *Renderer) setupDebugBuffers() {
	gl.GenVertexArrays(1, &r.debugVAO)
	gl.GenBuffers(1, &r.debugVBO)
	gl.BindVertexArray(r.debugVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.debugVBO)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.BindVertexArray(0)
}

// SetUIRenderer installs the UI backend used by the UI pass.
func (r *Renderer) SetUIRenderer(ui UIRenderer) { r.ui = ui }

// SetWindowSize updates the swapchain dimensions used by the blit.
func (r *Renderer) SetWindowSize(width, height int) {
	r.windowWidth = int32(width)
	r.windowHeight = int32(height)
}

// Zoom returns the current blit zoom factor.
func (r *Renderer) Zoom() float32 { return r.zoom }

// SetZoom sets the blit zoom factor. Values at or below zero reset to
// no zoom.
func (r *Renderer) SetZoom(z float32) {
	if z <= 0 {
		z = 1
	}
	r.zoom = z
}

// SetZoomCenter sets the normalized zoom focus point.
func (r *Renderer) SetZoomCenter(x, y float32) {
	r.zoomCenterX = clampUnit(x)
	r.zoomCenterY = clampUnit(y)
}

func clampUnit(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// LoadMesh reads an OBJ file and registers it under name.
func (r *Renderer) LoadMesh(name, path string) error {
	d, err := mesh.Load(path)
	if err != nil {
		return err
	}
	r.AddMesh(name, d)
	return nil
}

// AddMesh uploads parsed mesh data under name, replacing any previous
// mesh with that name.
func (r *Renderer) AddMesh(name string, d *mesh.Data) {
	if old, ok := r.meshes[name]; ok {
		deleteMesh(old)
	}

	m := &gpuMesh{indexCount: int32(len(d.Indices))}
	gl.GenVertexArrays(1, &m.vao)
	gl.GenBuffers(1, &m.vbo)
	gl.GenBuffers(1, &m.ebo)

	gl.BindVertexArray(m.vao)
	verts := d.Interleaved()
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(d.Indices)*4, gl.Ptr(d.Indices), gl.STATIC_DRAW)

	const stride = 8 * 4
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, stride, 6*4)
	gl.BindVertexArray(0)

	r.meshes[name] = m
}

// HasMesh reports whether a mesh is registered under name.
func (r *Renderer) HasMesh(name string) bool {
	_, ok := r.meshes[name]
	return ok
}

// LoadTexture decodes an image file and registers it under name. On
// failure the name maps to the white fallback so draws still work.
func (r *Renderer) LoadTexture(name, path string) error {
	img, err := texture.Load(path)
	if err != nil {
		logger.Error("texture load failed, using white fallback",
			zap.String("name", name), zap.Error(err))
		r.textures[name] = r.whiteTexture
		return err
	}
	r.textures[name] = uploadTexture(img)
	return nil
}

// AddTexture uploads already-decoded pixels under name.
func (r *Renderer) AddTexture(name string, img *image.RGBA) {
	r.textures[name] = uploadTexture(img)
}

// ReadPixels returns the window backbuffer as RGBA bytes, bottom row
// first as GL delivers it.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	w, h := int(r.windowWidth), int(r.windowHeight)
	pixels := make([]byte, w*h*4)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, w, h
}

func uploadTexture(img *image.RGBA) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	w := int32(img.Bounds().Dx())
	h := int32(img.Bounds().Dy())
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	// Repeat wrap, nearest filter, no mipmaps.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	return tex
}

type drawItem struct {
	mesh    *gpuMesh
	model   math.Mat4
	color   math.Vec4
	texture uint32
}

func (r *Renderer) collectDrawables(s *scene.Scene) []drawItem {
	var items []drawItem
	for _, e := range s.Entities() {
		if !e.ActiveInHierarchy() {
			continue
		}
		mc, ok := scene.Get[*scene.MeshComponent](e)
		if !ok || !mc.Enabled() {
			continue
		}
		gm, ok := r.meshes[mc.MeshName]
		if !ok {
			r.warnOnce("mesh", mc.MeshName)
			continue
		}
		tex := r.whiteTexture
		if mc.TextureName != "" {
			if t, ok := r.textures[mc.TextureName]; ok {
				tex = t
			} else {
				r.warnOnce("texture", mc.TextureName)
			}
		}
		items = append(items, drawItem{
			mesh:    gm,
			model:   e.WorldMatrix(),
			color:   mc.Color,
			texture: tex,
		})
	}
	return items
}

func (r *Renderer) warnOnce(kind, name string) {
	key := kind + ":" + name
	if _, ok := r.warned[key]; ok {
		return
	}
	r.warned[key] = struct{}{}
	logger.Warn("unknown "+kind+" name, skipping", zap.String("name", name))
}

// RenderScene runs the full pass graph and leaves the final image in
// the default framebuffer. The caller presents it.
func (r *Renderer) RenderScene(s *scene.Scene, f Frame) {
	items := r.collectDrawables(s)
	if len(items) > MaxObjectIndex {
		logger.Warn("too many drawables for silhouette ids, extra objects share the last id",
			zap.Int("count", len(items)))
	}

	r.silhouettePass(items, f)
	r.mainPass(items, f)
	r.composePass()
	if len(f.DebugLines) > 0 {
		r.debugPass(f)
	}
	if f.UI != nil && r.ui != nil {
		r.uiPass(f)
	}
	r.blitPass()
}

func (r *Renderer) uploadUniforms(projection, view, model math.Mat4, color math.Vec4, time float32) {
	block := PackUniforms(projection, view, model, color, time)
	gl.BindBuffer(gl.UNIFORM_BUFFER, r.ubo)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, UniformBlockSize, gl.Ptr(&block[0]))
}

func drawMesh(m *gpuMesh) {
	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.indexCount, gl.UNSIGNED_INT, nil)
}

// silhouettePass encodes 1-based draw order into the red channel so
// the compose pass can find object edges.
func (r *Renderer) silhouettePass(items []drawItem, f Frame) {
	r.silhouetteFB.Bind()
	r.silhouetteFB.Clear(0, 0, 0, 1)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)

	gl.UseProgram(r.progSilhouette)
	for i, item := range items {
		idx := i + 1
		if idx > MaxObjectIndex {
			idx = MaxObjectIndex
		}
		id := math.Vec4{X: EncodeObjectIndex(idx), W: 1}
		r.uploadUniforms(f.Projection, f.View, item.model, id, f.Time)
		drawMesh(item.mesh)
	}
}

func (r *Renderer) mainPass(items []drawItem, f Frame) {
	r.colorFB.Bind()
	r.colorFB.Clear(0.00001, 0.0003, 0.0005, 1)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.DepthMask(true)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.UseProgram(r.progMain)
	for _, item := range items {
		r.uploadUniforms(f.Projection, f.View, item.model, item.color, f.Time)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, item.texture)
		drawMesh(item.mesh)
	}
}

// composePass paints outlines where neighboring silhouette ids differ,
// blended over the color target.
func (r *Renderer) composePass() {
	r.colorFB.Bind()

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.UseProgram(r.progCompose)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.silhouetteFB.ColorTexture())
	w, h := r.silhouetteFB.Size()
	gl.Uniform2f(r.locTexelSize, 1/float32(w), 1/float32(h))
	gl.Uniform4f(r.locOutlineColor, 0, 0, 0, 1)

	gl.BindVertexArray(r.fullscreenVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
}

// debugPass draws collider wireframes with depth off so they are
// always visible.
func (r *Renderer) debugPass(f Frame) {
	r.colorFB.Bind()

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)

	verts := flattenLines(f.DebugLines)
	gl.BindVertexArray(r.debugVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.debugVBO)
	if len(verts) > r.debugCapacity {
		gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.DYNAMIC_DRAW)
		r.debugCapacity = len(verts)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(verts)*4, gl.Ptr(verts))
	}

	gl.UseProgram(r.progDebug)
	viewProj := f.Projection.Mul(f.View)
	gl.UniformMatrix4fv(r.locViewProjection, 1, false, viewProj.Ptr())
	gl.Uniform4f(r.locLineColor, 0, 1, 0, 1)
	gl.DrawArrays(gl.LINES, 0, int32(len(verts)/3))
}

// flattenLines packs debug segments into a position buffer, two
// vertices per line.
func flattenLines(lines []physics.DebugLine) []float32 {
	out := make([]float32, 0, len(lines)*6)
	for _, l := range lines {
		out = append(out, l.From.X, l.From.Y, l.From.Z, l.To.X, l.To.Y, l.To.Z)
	}
	return out
}

// uiPass drives the immediate-mode UI at the internal resolution so
// widgets scale with the world pixels, not the window.
func (r *Renderer) uiPass(f Frame) {
	r.colorFB.Bind()
	w, h := r.colorFB.Size()
	r.ui.NewFrame(float32(w), float32(h))
	f.UI()
	r.ui.Render()
}

// blitPass upscales the internal target into the swapchain image with
// the zoom transform.
func (r *Renderer) blitPass() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, r.windowWidth, r.windowHeight)

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.BLEND)

	gl.UseProgram(r.progBlit)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.colorFB.ColorTexture())
	gl.Uniform1f(r.locZoom, r.zoom)
	gl.Uniform2f(r.locZoomCenter, r.zoomCenterX, r.zoomCenterY)

	gl.BindVertexArray(r.fullscreenVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
}

// ReadSilhouette returns the silhouette target pixels, 4 floats per
// pixel, for diagnostics.
func (r *Renderer) ReadSilhouette() []float32 {
	return r.silhouetteFB.ReadPixelsFloat()
}

// Destroy releases every GPU resource.
func (r *Renderer) Destroy() {
	for name, m := range r.meshes {
		deleteMesh(m)
		delete(r.meshes, name)
	}
	for name, tex := range r.textures {
		if tex != r.whiteTexture {
			gl.DeleteTextures(1, &tex)
		}
		delete(r.textures, name)
	}
	if r.whiteTexture != 0 {
		gl.DeleteTextures(1, &r.whiteTexture)
		r.whiteTexture = 0
	}
	if r.ubo != 0 {
		gl.DeleteBuffers(1, &r.ubo)
		r.ubo = 0
	}
	if r.fullscreenVAO != 0 {
		gl.DeleteVertexArrays(1, &r.fullscreenVAO)
		r.fullscreenVAO = 0
	}
	if r.debugVBO != 0 {
		gl.DeleteBuffers(1, &r.debugVBO)
		r.debugVBO = 0
	}
	if r.debugVAO != 0 {
		gl.DeleteVertexArrays(1, &r.debugVAO)
		r.debugVAO = 0
	}
	if r.silhouetteFB != nil {
		r.silhouetteFB.Destroy()
		r.silhouetteFB = nil
	}
	if r.colorFB != nil {
		r.colorFB.Destroy()
		r.colorFB = nil
	}
	if r.lib != nil {
		r.lib.Destroy()
		r.lib = nil
	}
}

func deleteMesh(m *gpuMesh) {
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
	gl.DeleteVertexArrays(1, &m.vao)
}
