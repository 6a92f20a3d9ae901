// Package engine runs the main loop: input polling, variable-rate
// updates, the fixed-step physics accumulator with render
// interpolation, and the render graph.
package engine

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/mechanicchickendev/froggi/internal/assets"
	"github.com/mechanicchickendev/froggi/internal/config"
	"github.com/mechanicchickendev/froggi/internal/engine/audio"
	"github.com/mechanicchickendev/froggi/internal/engine/camera"
	"github.com/mechanicchickendev/froggi/internal/engine/debug"
	"github.com/mechanicchickendev/froggi/internal/engine/input"
	"github.com/mechanicchickendev/froggi/internal/engine/mesh"
	"github.com/mechanicchickendev/froggi/internal/engine/physics"
	"github.com/mechanicchickendev/froggi/internal/engine/picking"
	"github.com/mechanicchickendev/froggi/internal/engine/render"
	"github.com/mechanicchickendev/froggi/internal/engine/scene"
	"github.com/mechanicchickendev/froggi/internal/engine/texture"
	"github.com/mechanicchickendev/froggi/internal/engine/ui"
	"github.com/mechanicchickendev/froggi/internal/engine/window"
	"github.com/mechanicchickendev/froggi/internal/logger"
	"github.com/mechanicchickendev/froggi/pkg/math"
)

// Game is implemented by the application driving the engine.
type Game interface {
	// OnInit loads assets and builds the initial scene. An error
	// aborts startup.
	OnInit(e *Engine) error
	// OnUpdate runs once per frame before components update.
	OnUpdate(dt float32)
	// OnShutdown runs before engine resources are released.
	OnShutdown()
}

// UIGame is optionally implemented by games that draw UI. OnRenderUI
// runs inside the UI pass at the internal resolution.
type UIGame interface {
	OnRenderUI(ctx *ui.Context)
}

// Renderer is what the loop needs from the render graph. The GL
// implementation lives in the render package; tests substitute their
// own.
type Renderer interface {
	RenderScene(s *scene.Scene, f render.Frame)
	SetWindowSize(width, height int)
	SetZoom(z float32)
	Zoom() float32
	AddMesh(name string, d *mesh.Data)
	AddTexture(name string, img *image.RGBA)
	ReadPixels() ([]byte, int, int)
	LoadMesh(name, path string) error
	LoadTexture(name, path string) error
	HasMesh(name string) bool
	Destroy()
}

// Engine owns the window, input, renderer, physics bridge, and the
// active scene.
type Engine struct {
	cfg *config.Config

	window   *window.Window
	input    *input.Manager
	renderer Renderer
	uiCtx    *ui.Context
	audio    *audio.Manager
	assets   *assets.Library
	shots    *debug.ScreenshotCapture

	game   Game
	scene  *scene.Scene
	bridge *physics.Bridge

	running bool
	paused  bool

	fixedStep   float32
	accumulator float32
	elapsed     float32

	// now reports seconds since start. Swappable for deterministic
	// tests.
	now func() float64

	noCameraWarned bool
}

// New builds the engine around a window and GL renderer, then runs
// the game's OnInit.
func New(game Game, cfg *config.Config) (*Engine, error) {
	e := newCore(game, cfg)

	var err error
	e.window, err = window.New(window.Config{
		Title:      cfg.Graphics.Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	w, h := e.window.Size()
	e.renderer, err = render.New(cfg.Render, w, h)
	if err != nil {
		e.window.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	e.uiCtx, err = ui.NewContext(cfg.Render.InternalWidth, cfg.Render.InternalHeight)
	if err != nil {
		e.renderer.Destroy()
		e.window.Close()
		return nil, fmt.Errorf("creating ui: %w", err)
	}
	if r, ok := e.renderer.(*render.Renderer); ok {
		r.SetUIRenderer(e.uiCtx)
	}

	e.input = input.New()

	// A missing audio device should not kill the game. Playback calls
	// return errors until Init succeeds.
	if err := e.audio.Init(); err != nil {
		logger.Warn("audio unavailable", zap.Error(err))
	}
	e.audio.SetMasterVolume(cfg.Audio.MasterVolume)
	e.audio.SetMusicVolume(cfg.Audio.MusicVolume)
	e.audio.SetSoundVolume(cfg.Audio.SoundVolume)

	if cfg.Assets.Pack != "" {
		if err := e.assets.AddPack(cfg.Assets.Pack); err != nil {
			logger.Warn("asset pack not mounted", zap.Error(err))
		}
	}
	if cfg.Assets.Manifest != "" && e.assets.Exists(cfg.Assets.Manifest) {
		if err := e.PreloadManifest(cfg.Assets.Manifest); err != nil {
			e.teardown()
			return nil, fmt.Errorf("preloading assets: %w", err)
		}
	}
	if cfg.Audio.Music != "" {
		if err := e.PlayMusic(cfg.Audio.Music, true); err != nil {
			logger.Warn("startup music failed", zap.Error(err))
		}
	}

	if err := game.OnInit(e); err != nil {
		e.teardown()
		return nil, fmt.Errorf("game init: %w", err)
	}
	return e, nil
}

// newCore builds the parts of the engine that need no window or GPU.
func newCore(game Game, cfg *config.Config) *Engine {
	start := time.Now()
	fixed := cfg.Physics.FixedTimeStep
	if fixed <= 0 {
		fixed = 1.0 / 60.0
	}
	return &Engine{
		cfg:       cfg,
		game:      game,
		audio:     audio.New(),
		assets:    assets.NewLibrary(cfg.Assets.Dir),
		shots:     debug.NewScreenshotCapture("screenshots", "froggi"),
		scene:     scene.New("empty"),
		bridge:    physics.NewBridge(cfg.Physics),
		fixedStep: fixed,
		now: func() float64 {
			return time.Since(start).Seconds()
		},
	}
}

// Scene returns the active scene.
func (e *Engine) Scene() *scene.Scene { return e.scene }

// Input returns the input manager.
func (e *Engine) Input() *input.Manager { return e.input }

// Physics returns the physics bridge for raycasts and ground checks.
func (e *Engine) Physics() *physics.Bridge { return e.bridge }

// UI returns the widget context, nil when running headless.
func (e *Engine) UI() *ui.Context { return e.uiCtx }

// Audio returns the audio manager.
func (e *Engine) Audio() *audio.Manager { return e.audio }

// Assets returns the asset library.
func (e *Engine) Assets() *assets.Library { return e.assets }

// Config returns the engine configuration.
func (e *Engine) Config() *config.Config { return e.cfg }

// Time returns the seconds of game time since startup.
func (e *Engine) Time() float32 { return e.elapsed }

// LoadScene takes ownership of the scene, destroys the previous one,
// and builds physics bodies for the new colliders.
func (e *Engine) LoadScene(s *scene.Scene) {
	if e.scene != nil {
		e.scene.Destroy()
	}
	e.bridge.Destroy()
	e.scene = s
	e.bridge.Initialize(s)
	e.accumulator = 0
	// Prime the interpolation snapshots so the first frame does not
	// lerp from the origin.
	e.eachSimulatedBody(func(en *scene.Entity, rb *physics.Rigidbody) {
		rb.PreviousPosition = en.Position
		rb.CurrentPosition = en.Position
	})
	logger.Info("scene loaded", zap.String("name", s.Name))
}

// LoadModel parses an OBJ file and registers it under name.
func (e *Engine) LoadModel(name, path string) error {
	if e.renderer == nil {
		return nil
	}
	if err := e.renderer.LoadMesh(name, path); err != nil {
		return fmt.Errorf("loading model %q: %w", name, err)
	}
	return nil
}

// AddModel registers already-built mesh data under name, for
// procedural geometry.
func (e *Engine) AddModel(name string, d *mesh.Data) {
	if e.renderer != nil {
		e.renderer.AddMesh(name, d)
	}
}

// LoadTexture decodes an image file and registers it under name. On
// failure the renderer substitutes plain white.
func (e *Engine) LoadTexture(name, path string) error {
	if e.renderer == nil {
		return nil
	}
	return e.renderer.LoadTexture(name, path)
}

// PreloadManifest loads every asset a manifest lists through the
// asset library, so pack-only files work the same as loose ones.
func (e *Engine) PreloadManifest(path string) error {
	man, err := e.assets.Manifest(path)
	if err != nil {
		return err
	}

	for _, entry := range man.Models {
		data, err := e.assets.Load(entry.File)
		if err != nil {
			return fmt.Errorf("model %q: %w", entry.Name, err)
		}
		d, err := mesh.Parse(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("model %q: %w", entry.Name, err)
		}
		if e.renderer != nil {
			e.renderer.AddMesh(entry.Name, d)
		}
	}
	for _, entry := range man.Textures {
		data, err := e.assets.Load(entry.File)
		if err != nil {
			return fmt.Errorf("texture %q: %w", entry.Name, err)
		}
		img, err := texture.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("texture %q: %w", entry.Name, err)
		}
		if e.renderer != nil {
			e.renderer.AddTexture(entry.Name, img)
		}
	}
	for _, entry := range man.Sounds {
		data, err := e.assets.Load(entry.File)
		if err != nil {
			return fmt.Errorf("sound %q: %w", entry.Name, err)
		}
		if err := e.audio.LoadSoundData(entry.Name, data); err != nil {
			logger.Warn("sound rejected", zap.String("name", entry.Name), zap.Error(err))
		}
	}
	if man.Music != "" && e.cfg.Audio.Music == "" {
		e.cfg.Audio.Music = man.Music
	}

	logger.Info("manifest preloaded",
		zap.String("path", path),
		zap.Int("models", len(man.Models)),
		zap.Int("textures", len(man.Textures)),
		zap.Int("sounds", len(man.Sounds)))
	return nil
}

// PlaySound plays a loaded sound effect. Failures are logged, not
// fatal, so gameplay code can call this without checking.
func (e *Engine) PlaySound(name string) {
	if err := e.audio.PlaySound(name); err != nil {
		logger.Debug("sound not played", zap.String("name", name), zap.Error(err))
	}
}

// PlayMusic resolves a track through the asset library and starts it.
func (e *Engine) PlayMusic(path string, loop bool) error {
	data, err := e.assets.Load(path)
	if err != nil {
		return err
	}
	return e.audio.PlayMusicData(data, path, loop)
}

// MouseRay unprojects the mouse cursor through the active camera into
// a world-space ray. Reports false when running headless.
func (e *Engine) MouseRay() (picking.Ray, bool) {
	if e.window == nil || e.input == nil {
		return picking.Ray{}, false
	}
	w, h := e.window.Size()
	if w == 0 || h == 0 {
		return picking.Ray{}, false
	}
	mx, my := e.input.MousePosition()
	view, projection := e.cameraMatrices()
	inv := projection.Mul(view).Inverse()
	return picking.ScreenToRay(float32(mx), float32(my), float32(w), float32(h), inv), true
}

// Screenshot saves the current backbuffer as a PNG and returns its
// path. Call it after a frame has been rendered.
func (e *Engine) Screenshot() (string, error) {
	if e.renderer == nil {
		return "", fmt.Errorf("no renderer")
	}
	pixels, w, h := e.renderer.ReadPixels()
	return e.shots.CapturePixels(pixels, w, h)
}

// SetZoom adjusts the blit zoom factor.
func (e *Engine) SetZoom(z float32) {
	if e.renderer != nil {
		e.renderer.SetZoom(z)
	}
}

// Pause freezes updates and physics. Input and UI keep running.
func (e *Engine) Pause() { e.paused = true }

// Resume continues a paused engine.
func (e *Engine) Resume() { e.paused = false }

// Paused reports whether the simulation is frozen.
func (e *Engine) Paused() bool { return e.paused }

// Stop ends the main loop after the current frame.
func (e *Engine) Stop() { e.running = false }

// Run drives the main loop until Stop or a quit event, then shuts
// everything down in order.
func (e *Engine) Run() {
	e.running = true
	last := e.now()

	for e.running {
		current := e.now()
		dt := clampDelta(float32(current - last))
		last = current

		if e.input.Poll() {
			e.running = false
			break
		}
		if w, h, ok := e.input.WindowResized(); ok {
			e.renderer.SetWindowSize(w, h)
		}

		e.step(dt)
		e.renderFrame()
		e.window.SwapBuffers()
	}

	e.game.OnShutdown()
	e.teardown()
}

// clampDelta guards against a stalled or backwards clock.
func clampDelta(dt float32) float32 {
	if dt <= 0 {
		return 1.0 / 60.0
	}
	return dt
}

// step advances game logic and the fixed-step simulation by dt.
func (e *Engine) step(dt float32) {
	e.elapsed += dt

	e.game.OnUpdate(dt)
	e.scene.Update(dt)

	if e.paused {
		return
	}

	e.accumulator += dt
	for e.accumulator >= e.fixedStep {
		e.snapshotPrevious()
		e.scene.FixedUpdate(e.fixedStep)
		e.bridge.Step(e.fixedStep)
		e.snapshotCurrent()
		e.accumulator -= e.fixedStep
	}

	alpha := e.accumulator / e.fixedStep
	e.interpolate(alpha)
}

// snapshotPrevious records entity positions before a fixed step.
// After a partial frame that is the interpolated position, so each
// new span starts where the last frame actually drew the entity.
func (e *Engine) snapshotPrevious() {
	e.eachSimulatedBody(func(en *scene.Entity, rb *physics.Rigidbody) {
		rb.PreviousPosition = en.Position
	})
}

// snapshotCurrent records simulated positions after a fixed step.
func (e *Engine) snapshotCurrent() {
	e.eachSimulatedBody(func(en *scene.Entity, rb *physics.Rigidbody) {
		rb.CurrentPosition = en.Position
	})
}

// interpolate places simulated entities between their last two fixed
// steps so rendering stays smooth at any frame rate.
func (e *Engine) interpolate(alpha float32) {
	e.eachSimulatedBody(func(en *scene.Entity, rb *physics.Rigidbody) {
		en.Position = rb.PreviousPosition.Lerp(rb.CurrentPosition, alpha)
	})
}

func (e *Engine) eachSimulatedBody(fn func(*scene.Entity, *physics.Rigidbody)) {
	for _, en := range e.scene.Entities() {
		rb, ok := scene.Get[*physics.Rigidbody](en)
		if !ok || !rb.Enabled() || rb.IsKinematic {
			continue
		}
		fn(en, rb)
	}
}

// renderFrame assembles the frame description and runs the passes.
func (e *Engine) renderFrame() {
	if e.renderer == nil {
		return
	}

	view, projection := e.cameraMatrices()
	frame := render.Frame{
		Projection: projection,
		View:       view,
		Time:       e.elapsed,
	}
	if e.cfg.Render.DebugDraw {
		frame.DebugLines = e.bridge.DebugLines()
	}
	if uiGame, ok := e.game.(UIGame); ok && e.uiCtx != nil {
		e.feedUIInput()
		frame.UI = func() { uiGame.OnRenderUI(e.uiCtx) }
	}

	e.renderer.RenderScene(e.scene, frame)
}

// cameraMatrices finds the first enabled camera in the scene. Without
// one the scene renders through an identity view and a default ortho
// projection.
func (e *Engine) cameraMatrices() (view, projection math.Mat4) {
	for _, en := range e.scene.Entities() {
		if !en.ActiveInHierarchy() {
			continue
		}
		cam, ok := scene.Get[*camera.Component](en)
		if !ok || !cam.Enabled() {
			continue
		}
		return cam.ViewMatrix(), cam.ProjectionMatrix()
	}
	if !e.noCameraWarned {
		e.noCameraWarned = true
		logger.Warn("no camera in scene, using defaults")
	}
	return math.Identity(), camera.New().ProjectionMatrix()
}

// feedUIInput converts window-space mouse state into the internal
// resolution the UI draws at.
func (e *Engine) feedUIInput() {
	winW, winH := e.window.Size()
	if winW == 0 || winH == 0 {
		return
	}
	mx, my := e.input.MousePosition()
	scaleX := float32(e.cfg.Render.InternalWidth) / float32(winW)
	scaleY := float32(e.cfg.Render.InternalHeight) / float32(winH)

	in := e.uiCtx.Input()
	in.MouseX = float32(mx) * scaleX
	in.MouseY = float32(my) * scaleY
	in.MouseLeftDown = e.input.MouseDown(input.MouseLeft)
	in.ScrollY = e.input.ScrollY()
}

// teardown releases resources in reverse init order.
func (e *Engine) teardown() {
	if e.scene != nil {
		e.scene.Destroy()
		e.scene = nil
	}
	e.bridge.Destroy()
	if e.uiCtx != nil {
		e.uiCtx.Destroy()
		e.uiCtx = nil
	}
	if e.renderer != nil {
		e.renderer.Destroy()
		e.renderer = nil
	}
	e.audio.Close()
	e.assets.Close()
	if e.input != nil {
		e.input.Shutdown()
		e.input = nil
	}
	if e.window != nil {
		e.window.Close()
		e.window = nil
	}
}
