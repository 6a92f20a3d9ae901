package engine

import (
	"testing"

	"github.com/mechanicchickendev/froggi/internal/config"
	"github.com/mechanicchickendev/froggi/internal/engine/physics"
	"github.com/mechanicchickendev/froggi/internal/engine/scene"
	"github.com/mechanicchickendev/froggi/pkg/math"
)

type stubGame struct {
	updates  []float32
	shutdown bool
}

func (g *stubGame) OnInit(e *Engine) error { return nil }
func (g *stubGame) OnUpdate(dt float32)    { g.updates = append(g.updates, dt) }
func (g *stubGame) OnShutdown()            { g.shutdown = true }

type fixedCounter struct {
	scene.BaseComponent
	fixed  int
	frames int
}

func (c *fixedCounter) OnUpdate(dt float32)      { c.frames++ }
func (c *fixedCounter) OnFixedUpdate(dt float32) { c.fixed++ }

func newTestEngine(t *testing.T) (*Engine, *stubGame) {
	t.Helper()
	game := &stubGame{}
	return newCore(game, config.Default()), game
}

func fallingBox(s *scene.Scene, name string, z float32) (*scene.Entity, *physics.Rigidbody) {
	e := s.CreateEntity(name)
	e.Position = math.Vec3{Z: z}
	col := physics.NewCollider(physics.BoxShape{HalfExtent: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}})
	rb := physics.NewRigidbody()
	s.Attach(e, col)
	s.Attach(e, rb)
	return e, rb
}

func TestClampDelta(t *testing.T) {
	if got := clampDelta(-0.1); got != 1.0/60.0 {
		t.Errorf("negative dt clamps to %f, want 1/60", got)
	}
	if got := clampDelta(0); got != 1.0/60.0 {
		t.Errorf("zero dt clamps to %f, want 1/60", got)
	}
	if got := clampDelta(0.25); got != 0.25 {
		t.Errorf("positive dt changed to %f", got)
	}
}

func TestStepRunsFixedUpdatesAtFixedRate(t *testing.T) {
	e, _ := newTestEngine(t)
	s := scene.New("test")
	c := &fixedCounter{}
	s.Attach(s.CreateEntity("counter"), c)
	e.LoadScene(s)

	// Two fixed steps fit into a 1/30 frame at a 1/60 step.
	e.step(1.0 / 30.0)
	if c.fixed != 2 {
		t.Errorf("fixed updates = %d, want 2", c.fixed)
	}
	if c.frames != 1 {
		t.Errorf("frame updates = %d, want 1", c.frames)
	}

	// A tiny frame accumulates without stepping.
	e.step(1.0 / 240.0)
	if c.fixed != 2 {
		t.Errorf("fixed updates after tiny frame = %d, want 2", c.fixed)
	}
}

func TestGameUpdateRunsBeforeComponents(t *testing.T) {
	game := &stubGame{}
	e := newCore(game, config.Default())
	s := scene.New("test")
	c := &fixedCounter{}
	s.Attach(s.CreateEntity("counter"), c)
	e.LoadScene(s)

	e.step(1.0 / 60.0)
	if len(game.updates) != 1 {
		t.Fatalf("game updates = %d, want 1", len(game.updates))
	}
	if c.frames != 1 {
		t.Errorf("component updates = %d, want 1", c.frames)
	}
}

func TestInterpolationPlacesEntityBetweenSteps(t *testing.T) {
	e, _ := newTestEngine(t)
	s := scene.New("test")
	ent, rb := fallingBox(s, "faller", 10)
	e.LoadScene(s)

	// One and a half fixed steps: one simulation step runs, alpha is
	// 0.5 afterwards.
	e.step(e.fixedStep * 1.5)

	want := rb.PreviousPosition.Lerp(rb.CurrentPosition, 0.5)
	if ent.Position != want {
		t.Errorf("position = %+v, want midpoint %+v", ent.Position, want)
	}
	if rb.CurrentPosition.Z >= rb.PreviousPosition.Z {
		t.Error("gravity should pull the current snapshot below the previous one")
	}
}

func TestInterpolationIsDeterministic(t *testing.T) {
	run := func() math.Vec3 {
		e, _ := newTestEngine(t)
		s := scene.New("test")
		ent, _ := fallingBox(s, "faller", 10)
		e.LoadScene(s)
		for _, dt := range []float32{0.011, 0.021, 0.009, 0.017, 0.033} {
			e.step(dt)
		}
		return ent.Position
	}

	first := run()
	second := run()
	if first != second {
		t.Errorf("same frame sequence diverged: %+v vs %+v", first, second)
	}
}

func TestPauseFreezesSimulation(t *testing.T) {
	e, _ := newTestEngine(t)
	s := scene.New("test")
	ent, _ := fallingBox(s, "faller", 10)
	e.LoadScene(s)

	e.Pause()
	before := ent.Position
	e.step(0.5)
	if ent.Position != before {
		t.Errorf("paused entity moved from %+v to %+v", before, ent.Position)
	}

	e.Resume()
	e.step(0.5)
	if ent.Position == before {
		t.Error("resumed entity should fall")
	}
}

func TestLoadScenePrimesSnapshots(t *testing.T) {
	e, _ := newTestEngine(t)
	s := scene.New("test")
	ent, rb := fallingBox(s, "faller", 7)
	e.LoadScene(s)

	if rb.PreviousPosition != ent.Position || rb.CurrentPosition != ent.Position {
		t.Errorf("snapshots not primed: prev %+v curr %+v want %+v",
			rb.PreviousPosition, rb.CurrentPosition, ent.Position)
	}
}

func TestKinematicBodiesAreNotInterpolated(t *testing.T) {
	e, _ := newTestEngine(t)
	s := scene.New("test")
	ent := s.CreateEntity("platform")
	ent.Position = math.Vec3{Z: 3}
	col := physics.NewCollider(physics.BoxShape{HalfExtent: math.Vec3{X: 1, Y: 1, Z: 0.5}})
	rb := physics.NewRigidbody()
	rb.IsKinematic = true
	s.Attach(ent, col)
	s.Attach(ent, rb)
	e.LoadScene(s)

	ent.Position = math.Vec3{Z: 5}
	e.step(e.fixedStep * 1.5)

	// The game owns kinematic placement, the interpolator must not
	// overwrite it.
	if ent.Position.Z != 5 {
		t.Errorf("kinematic Z = %f, want 5", ent.Position.Z)
	}
}

func TestElapsedTimeAccumulates(t *testing.T) {
	e, _ := newTestEngine(t)
	e.LoadScene(scene.New("test"))
	e.step(0.25)
	e.step(0.25)
	if e.Time() != 0.5 {
		t.Errorf("elapsed = %f, want 0.5", e.Time())
	}
}

func TestSnapshotStartsFromRenderedPosition(t *testing.T) {
	e, _ := newTestEngine(t)
	s := scene.New("test")
	ent, rb := fallingBox(s, "faller", 10)
	e.LoadScene(s)

	// Half a step of accumulator is left over, so the entity renders
	// at the midpoint of the first simulation step.
	e.step(e.fixedStep * 1.5)
	rendered := ent.Position

	// The next span must start from that rendered position, not from
	// the raw simulated one.
	e.step(e.fixedStep)
	if rb.PreviousPosition != rendered {
		t.Errorf("previous snapshot = %+v, want the rendered position %+v",
			rb.PreviousPosition, rendered)
	}
}
