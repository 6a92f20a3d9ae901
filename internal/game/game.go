// Package game is the demo world: a player cube on a tiled floor
// with a patrolling platform, a pickup zone, and a HUD.
package game

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/mechanicchickendev/froggi/internal/config"
	"github.com/mechanicchickendev/froggi/internal/engine"
	"github.com/mechanicchickendev/froggi/internal/engine/anim"
	"github.com/mechanicchickendev/froggi/internal/engine/camera"
	"github.com/mechanicchickendev/froggi/internal/engine/input"
	"github.com/mechanicchickendev/froggi/internal/engine/mesh"
	"github.com/mechanicchickendev/froggi/internal/engine/physics"
	"github.com/mechanicchickendev/froggi/internal/engine/scene"
	"github.com/mechanicchickendev/froggi/internal/engine/ui"
	"github.com/mechanicchickendev/froggi/internal/logger"
	"github.com/mechanicchickendev/froggi/pkg/math"
)

// Game drives the demo world.
type Game struct {
	cfg *config.Config
	eng *engine.Engine

	player     *scene.Entity
	controller *PlayerController

	pickups int
	paused  bool
}

// New creates the demo game.
func New(cfg *config.Config) *Game {
	return &Game{cfg: cfg}
}

// OnInit registers the procedural meshes and builds the world.
func (g *Game) OnInit(e *engine.Engine) error {
	g.eng = e

	e.AddModel("cube", mesh.Cube(math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}))
	e.AddModel("cube_squash", mesh.Cube(math.Vec3{X: 0.55, Y: 0.55, Z: 0.45}))
	e.AddModel("floor", mesh.Plane(20, 20))
	e.AddModel("platform", mesh.Cube(math.Vec3{X: 1.5, Y: 1, Z: 0.2}))

	s := scene.New("playground")
	g.buildFloor(s)
	g.buildPlayer(s)
	g.buildPlatform(s)
	g.buildPickup(s, math.Vec3{X: 4, Y: 2, Z: 0.5})
	g.buildPickup(s, math.Vec3{X: -3, Y: 5, Z: 0.5})
	g.buildCamera(s)

	e.LoadScene(s)
	return nil
}

func (g *Game) buildFloor(s *scene.Scene) {
	floor := s.CreateEntity("floor")
	mc := scene.NewMeshComponent("floor", "")
	mc.Color = math.Vec4{X: 0.25, Y: 0.45, Z: 0.3, W: 1}
	s.Attach(floor, mc)

	col := physics.NewCollider(physics.BoxShape{HalfExtent: math.Vec3{X: 20, Y: 20, Z: 0.5}})
	col.Center = math.Vec3{Z: -0.5}
	col.Layer = physics.LayerGround
	s.Attach(floor, col)
}

func (g *Game) buildPlayer(s *scene.Scene) {
	player := s.CreateEntity("player")
	player.Position = math.Vec3{Z: 2}

	mc := scene.NewMeshComponent("cube", "")
	mc.Color = math.Vec4{X: 0.9, Y: 0.6, Z: 0.2, W: 1}
	s.Attach(player, mc)

	col := physics.NewCollider(physics.BoxShape{HalfExtent: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}})
	col.Layer = physics.LayerPlayer
	s.Attach(player, col)

	rb := physics.NewRigidbody()
	rb.Friction = 0.2
	s.Attach(player, rb)

	g.controller = NewPlayerController(func() Controls { return g.eng.Input() })
	g.controller.Jumped = func() { g.eng.PlaySound("jump") }
	s.Attach(player, g.controller)

	idle := anim.NewAnimator()
	clip, err := anim.NewClip("idle", []string{"cube", "cube_squash"}, 2, true)
	if err != nil {
		logger.Warn("idle clip rejected", zap.Error(err))
	} else {
		idle.AddClip(clip)
	}
	s.Attach(player, idle)
	idle.Play("idle", false)

	g.player = player
}

func (g *Game) buildPlatform(s *scene.Scene) {
	platform := s.CreateEntity("platform")
	platform.Position = math.Vec3{X: 6, Y: 0, Z: 1.5}

	mc := scene.NewMeshComponent("platform", "")
	mc.Color = math.Vec4{X: 0.5, Y: 0.5, Z: 0.7, W: 1}
	s.Attach(platform, mc)

	col := physics.NewCollider(physics.BoxShape{HalfExtent: math.Vec3{X: 1.5, Y: 1, Z: 0.2}})
	col.Layer = physics.LayerGround
	s.Attach(platform, col)

	rb := physics.NewRigidbody()
	rb.IsKinematic = true
	s.Attach(platform, rb)

	s.Attach(platform, NewPatrol(math.Vec3{X: 6, Y: 0, Z: 1.5}, math.Vec3{X: 6, Y: 6, Z: 1.5}, 2))
}

func (g *Game) buildPickup(s *scene.Scene, at math.Vec3) {
	pickup := s.CreateEntity("pickup")
	pickup.Position = at
	pickup.Scale = math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}

	mc := scene.NewMeshComponent("cube", "")
	mc.Color = math.Vec4{X: 1, Y: 0.9, Z: 0.2, W: 0.8}
	s.Attach(pickup, mc)

	col := physics.NewCollider(physics.BoxShape{HalfExtent: math.Vec3{X: 0.4, Y: 0.4, Z: 0.4}})
	col.IsTrigger = true
	col.Layer = physics.LayerTrigger
	col.OnTriggerEnter = func(other *scene.Entity) {
		if other != g.player {
			return
		}
		g.pickups++
		logger.Info("pickup collected", zap.Int("total", g.pickups))
		g.eng.PlaySound("pickup")
		s.DestroyEntity(pickup)
	}
	s.Attach(pickup, col)
}

func (g *Game) buildCamera(s *scene.Scene) {
	cam := s.CreateEntity("camera")
	cam.Rotation = math.Vec3{X: -0.6}
	s.Attach(cam, camera.New())
	s.Attach(cam, NewFollow(func() *scene.Entity { return g.player }, math.Vec3{Y: -4, Z: 6}, 5))
}

// OnUpdate handles the global shortcuts.
func (g *Game) OnUpdate(dt float32) {
	in := g.eng.Input()

	if in.KeyPressed(input.KeyEscape) {
		g.eng.Stop()
	}
	if in.KeyPressed(input.KeyF1) {
		g.cfg.Render.DebugDraw = !g.cfg.Render.DebugDraw
	}
	if in.KeyPressed(input.KeyF2) {
		if path, err := g.eng.Screenshot(); err != nil {
			logger.Warn("screenshot failed", zap.Error(err))
		} else {
			logger.Info("screenshot saved", zap.String("path", path))
		}
	}
	if in.KeyPressed(input.KeyReturn) {
		g.togglePause()
	}
	if in.MousePressed(input.MouseRight) {
		g.dropPickupAtCursor()
	}
}

// dropPickupAtCursor spawns a pickup where the mouse ray meets the
// floor.
func (g *Game) dropPickupAtCursor() {
	ray, ok := g.eng.MouseRay()
	if !ok {
		return
	}
	x, y, ok := ray.IntersectPlaneZ(0)
	if !ok {
		return
	}
	g.buildPickup(g.eng.Scene(), math.Vec3{X: x, Y: y, Z: 0.5})
	logger.Debug("pickup dropped", zap.Float32("x", x), zap.Float32("y", y))
}

func (g *Game) togglePause() {
	g.paused = !g.paused
	if g.paused {
		g.eng.Pause()
	} else {
		g.eng.Resume()
	}
}

// OnShutdown logs the session result.
func (g *Game) OnShutdown() {
	logger.Info("session over", zap.Int("pickups", g.pickups))
}

// OnRenderUI draws the HUD at the internal resolution.
func (g *Game) OnRenderUI(ctx *ui.Context) {
	ctx.BeginWindow("hud", 4, 4, 150, 80, "playground")
	ctx.Row(0)
	ctx.Label("pickups:")
	ctx.LabelColored(strconv.Itoa(g.pickups), ui.ColorHighlight)
	ctx.Row(0)
	if g.player != nil {
		if rb, ok := scene.Get[*physics.Rigidbody](g.player); ok && rb.IsGrounded {
			ctx.LabelColored("grounded", ui.ColorGreen)
		} else {
			ctx.LabelColored("airborne", ui.ColorTextDim)
		}
	}
	ctx.Row(16)
	if ctx.Button("pause", 0, pauseLabel(g.paused)) {
		g.togglePause()
	}
	ctx.EndWindow()
}

func pauseLabel(paused bool) string {
	if paused {
		return "resume"
	}
	return "pause"
}

