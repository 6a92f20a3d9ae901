package game

import (
	"testing"

	"github.com/mechanicchickendev/froggi/internal/engine/input"
	"github.com/mechanicchickendev/froggi/internal/engine/physics"
	"github.com/mechanicchickendev/froggi/internal/engine/scene"
	"github.com/mechanicchickendev/froggi/pkg/math"
)

type fakeControls struct {
	down    map[input.Key]bool
	pressed map[input.Key]bool
	axes    map[input.Axis]float32
	buttons map[input.Button]bool
}

func newFakeControls() *fakeControls {
	return &fakeControls{
		down:    make(map[input.Key]bool),
		pressed: make(map[input.Key]bool),
		axes:    make(map[input.Axis]float32),
		buttons: make(map[input.Button]bool),
	}
}

func (f *fakeControls) KeyDown(k input.Key) bool        { return f.down[k] }
func (f *fakeControls) KeyPressed(k input.Key) bool     { return f.pressed[k] }
func (f *fakeControls) Axis(a input.Axis) float32       { return f.axes[a] }
func (f *fakeControls) ButtonPressed(b input.Button) bool { return f.buttons[b] }

func newPlayer(t *testing.T, controls Controls) (*physics.Rigidbody, *PlayerController) {
	t.Helper()
	s := scene.New("test")
	e := s.CreateEntity("player")
	rb := physics.NewRigidbody()
	s.Attach(e, rb)
	pc := NewPlayerController(func() Controls { return controls })
	s.Attach(e, pc)
	return rb, pc
}

func TestMoveVectorClampsDiagonal(t *testing.T) {
	in := newFakeControls()
	in.down[input.KeyW] = true
	in.down[input.KeyD] = true

	move := moveVector(in)
	if l := move.Length(); l > 1.0001 {
		t.Errorf("diagonal length = %f, want <= 1", l)
	}
	if move.X <= 0 || move.Y <= 0 {
		t.Errorf("move = %+v, want positive X and Y", move)
	}
}

func TestMoveVectorMergesStick(t *testing.T) {
	in := newFakeControls()
	in.axes[input.AxisLeftX] = 0.5
	in.axes[input.AxisLeftY] = -0.5

	move := moveVector(in)
	if move.X != 0.5 {
		t.Errorf("stick X = %f, want 0.5", move.X)
	}
	if move.Y != 0.5 {
		t.Errorf("stick up should map to positive Y, got %f", move.Y)
	}
}

func TestControllerWritesPlanarVelocity(t *testing.T) {
	in := newFakeControls()
	in.down[input.KeyD] = true
	rb, pc := newPlayer(t, in)
	rb.Velocity.Z = -3

	pc.OnUpdate(1.0 / 60.0)

	if rb.Velocity.X != pc.Speed {
		t.Errorf("velocity X = %f, want %f", rb.Velocity.X, pc.Speed)
	}
	if rb.Velocity.Z != -3 {
		t.Errorf("vertical velocity changed to %f", rb.Velocity.Z)
	}
}

func TestControllerJumpRequiresGround(t *testing.T) {
	in := newFakeControls()
	in.pressed[input.KeySpace] = true
	rb, pc := newPlayer(t, in)
	jumped := false
	pc.Jumped = func() { jumped = true }

	pc.OnUpdate(1.0 / 60.0)
	if rb.Velocity.Z != 0 {
		t.Error("airborne jump should be ignored")
	}
	if jumped {
		t.Error("jump hook fired while airborne")
	}

	rb.IsGrounded = true
	pc.OnUpdate(1.0 / 60.0)
	if rb.Velocity.Z != pc.JumpSpeed {
		t.Errorf("jump velocity = %f, want %f", rb.Velocity.Z, pc.JumpSpeed)
	}
	if rb.IsGrounded {
		t.Error("jumping should clear the grounded flag")
	}
	if !jumped {
		t.Error("jump hook did not fire")
	}
}

func TestPatrolPingPong(t *testing.T) {
	s := scene.New("test")
	e := s.CreateEntity("platform")
	from := math.Vec3{X: 0}
	to := math.Vec3{X: 4}
	p := NewPatrol(from, to, 2)
	s.Attach(e, p)

	// 2 units/s over 2 s reaches the far end.
	for i := 0; i < 120; i++ {
		p.OnFixedUpdate(1.0 / 60.0)
	}
	if e.Position.X < 3.9 {
		t.Errorf("position after 2s = %f, want near 4", e.Position.X)
	}

	// Another 2 s returns home.
	for i := 0; i < 120; i++ {
		p.OnFixedUpdate(1.0 / 60.0)
	}
	if e.Position.X > 0.1 {
		t.Errorf("position after 4s = %f, want near 0", e.Position.X)
	}
}

func TestFollowEasesTowardTarget(t *testing.T) {
	s := scene.New("test")
	target := s.CreateEntity("target")
	target.Position = math.Vec3{X: 10}

	cam := s.CreateEntity("camera")
	f := NewFollow(func() *scene.Entity { return target }, math.Vec3{Z: 5}, 5)
	s.Attach(cam, f)

	f.OnUpdate(0.1)
	if cam.Position.X <= 0 || cam.Position.X >= 10 {
		t.Errorf("camera X = %f, want between 0 and 10", cam.Position.X)
	}

	// Large steps clamp instead of overshooting.
	f.OnUpdate(10)
	want := target.Position.Add(math.Vec3{Z: 5})
	if cam.Position != want {
		t.Errorf("camera = %+v, want snapped to %+v", cam.Position, want)
	}
}
