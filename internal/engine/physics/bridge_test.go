package physics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mechanicchickendev/froggi/internal/config"
	"github.com/mechanicchickendev/froggi/internal/engine/scene"
	"github.com/mechanicchickendev/froggi/pkg/math"
)

func testCfg() config.PhysicsConfig {
	return config.Default().Physics
}

func TestFreeFallLandsOnGround(t *testing.T) {
	s := scene.New("test")
	ground := s.CreateEntity("ground")
	ground.Position = math.Vec3{Z: -0.5}
	s.Attach(ground, NewCollider(BoxShape{HalfExtent: math.Vec3{X: 50, Y: 50, Z: 0.5}}))

	ball := s.CreateEntity("ball")
	ball.Position = math.Vec3{Z: 10}
	s.Attach(ball, NewCollider(SphereShape{Radius: 0.5}))
	rb := NewRigidbody()
	s.Attach(ball, rb)

	b := NewBridge(testCfg())
	b.Initialize(s)

	grounded := false
	for i := 0; i < 120; i++ {
		b.Step(1.0 / 60.0)
		if rb.IsGrounded {
			grounded = true
		}
	}

	if !grounded {
		t.Error("ball should report grounded after landing")
	}
	if rb.GroundNormal.Z < 0.9 {
		t.Errorf("ground normal = %v, want approximately +Z", rb.GroundNormal)
	}
	if z := ball.Position.Z; z < 0.45 || z > 0.55 {
		t.Errorf("rest height = %f, want 0.5 +- 0.05", z)
	}
}

func TestTriggerPassThrough(t *testing.T) {
	s := scene.New("test")

	trigger := s.CreateEntity("trigger")
	trigger.Position = math.Vec3{X: 3}
	tcol := NewCollider(BoxShape{HalfExtent: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}})
	tcol.IsTrigger = true
	triggerHits := 0
	tcol.OnTriggerEnter = func(other *scene.Entity) { triggerHits++ }
	s.Attach(trigger, tcol)

	cube := s.CreateEntity("cube")
	ccol := NewCollider(BoxShape{HalfExtent: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}})
	cubeHits := 0
	ccol.OnTriggerEnter = func(other *scene.Entity) { cubeHits++ }
	s.Attach(cube, ccol)
	rb := NewRigidbody()
	rb.GravityFactor = 0
	rb.Velocity = math.Vec3{X: 5}
	s.Attach(cube, rb)

	b := NewBridge(testCfg())
	b.Initialize(s)

	// Steer like a game: rewrite the velocity every step.
	for i := 0; i < 90; i++ {
		rb.Velocity = math.Vec3{X: 5}
		b.Step(1.0 / 60.0)
	}

	if triggerHits != 1 || cubeHits != 1 {
		t.Errorf("trigger enter fired %d/%d times, want once on each side", triggerHits, cubeHits)
	}
	if v := rb.Velocity.Sub(math.Vec3{X: 5}).Length(); v > 0.01 {
		t.Errorf("trigger must not deflect, velocity off by %f", v)
	}
	if cube.Position.X < 5 {
		t.Errorf("cube should pass through, x = %f", cube.Position.X)
	}
}

func TestLayerExclusion(t *testing.T) {
	s := scene.New("test")

	enterCount := 0
	for _, x := range []float32{0, 0.6} {
		e := s.CreateEntity("sphere")
		e.Position = math.Vec3{X: x}
		col := NewCollider(SphereShape{Radius: 0.5})
		col.Layer = LayerPlayer
		col.Mask = LayerGround
		col.OnCollisionEnter = func(other *scene.Entity) { enterCount++ }
		s.Attach(e, col)
		rb := NewRigidbody()
		rb.GravityFactor = 0
		s.Attach(e, rb)
	}

	b := NewBridge(testCfg())
	b.Initialize(s)

	for i := 0; i < 30; i++ {
		b.Step(1.0 / 60.0)
	}

	if enterCount != 0 {
		t.Errorf("filtered colliders fired onCollisionEnter %d times, want 0", enterCount)
	}
	ents := s.Entities()
	d := ents[1].Position.Sub(ents[0].Position).Length()
	if d > 0.95 {
		t.Errorf("filtered spheres separated to %f, want interpenetration kept", d)
	}
}

func TestCollisionEnterThenStay(t *testing.T) {
	s := scene.New("test")
	ground := s.CreateEntity("ground")
	ground.Position = math.Vec3{Z: -0.5}
	gcol := NewCollider(BoxShape{HalfExtent: math.Vec3{X: 50, Y: 50, Z: 0.5}})
	var enters, stays int
	gcol.OnCollisionEnter = func(other *scene.Entity) { enters++ }
	gcol.OnCollisionStay = func(other *scene.Entity) { stays++ }
	s.Attach(ground, gcol)

	ball := s.CreateEntity("ball")
	ball.Position = math.Vec3{Z: 0.45}
	s.Attach(ball, NewCollider(SphereShape{Radius: 0.5}))
	s.Attach(ball, NewRigidbody())

	b := NewBridge(testCfg())
	b.Initialize(s)

	b.Step(1.0 / 60.0)
	b.Step(1.0 / 60.0)
	b.Step(1.0 / 60.0)

	if enters != 1 {
		t.Errorf("enter fired %d times, want 1", enters)
	}
	if stays < 1 {
		t.Error("stay should fire on later steps")
	}
}

func TestKinematicFollowsEntity(t *testing.T) {
	s := scene.New("test")
	platform := s.CreateEntity("platform")
	s.Attach(platform, NewCollider(BoxShape{HalfExtent: math.Vec3{X: 1, Y: 1, Z: 0.2}}))
	rb := NewRigidbody()
	rb.IsKinematic = true
	s.Attach(platform, rb)

	b := NewBridge(testCfg())
	b.Initialize(s)

	platform.Position = math.Vec3{X: 7, Z: 2}
	b.Step(1.0 / 60.0)

	body := b.World().Bodies()[0]
	if p := body.Position(); p.Sub(math.Vec3{X: 7, Z: 2}).Length() > 1e-5 {
		t.Errorf("kinematic body position = %v, want (7, 0, 2)", p)
	}
	// Kinematic entities are never overwritten by the sync-back.
	if platform.Position != (math.Vec3{X: 7, Z: 2}) {
		t.Errorf("entity position = %v, want unchanged", platform.Position)
	}
}

func TestColliderCenterOffset(t *testing.T) {
	s := scene.New("test")
	ball := s.CreateEntity("ball")
	ball.Position = math.Vec3{Z: 5}
	col := NewCollider(SphereShape{Radius: 0.5})
	col.Center = math.Vec3{Z: 1}
	s.Attach(ball, col)
	rb := NewRigidbody()
	rb.GravityFactor = 0
	s.Attach(ball, rb)

	b := NewBridge(testCfg())
	b.Initialize(s)

	body := b.World().Bodies()[0]
	if z := body.Position().Z; z != 6 {
		t.Errorf("body z = %f, want entity + center = 6", z)
	}

	b.Step(1.0 / 60.0)
	if z := ball.Position.Z; z < 4.99 || z > 5.01 {
		t.Errorf("entity z after sync = %f, want 5 (body minus center)", z)
	}
}

func TestCheckGrounded(t *testing.T) {
	s := scene.New("test")
	ground := s.CreateEntity("ground")
	ground.Position = math.Vec3{Z: -0.5}
	s.Attach(ground, NewCollider(BoxShape{HalfExtent: math.Vec3{X: 50, Y: 50, Z: 0.5}}))

	ball := s.CreateEntity("ball")
	ball.Position = math.Vec3{Z: 1}
	s.Attach(ball, NewCollider(SphereShape{Radius: 0.5}))
	rb := NewRigidbody()
	s.Attach(ball, rb)

	b := NewBridge(testCfg())
	b.Initialize(s)

	if !b.CheckGrounded(ball, 2) {
		t.Fatal("downward ray within range should ground the ball")
	}
	if !rb.IsGrounded || rb.GroundNormal.Z < 0.9 {
		t.Errorf("grounded=%v normal=%v, want grounded with +Z", rb.IsGrounded, rb.GroundNormal)
	}

	ball.Position = math.Vec3{Z: 50}
	b.Initialize(s)
	if b.CheckGrounded(ball, 2) {
		t.Error("ray shorter than the drop should not ground")
	}
}

func TestRaycastReturnsEntity(t *testing.T) {
	s := scene.New("test")
	wall := s.CreateEntity("wall")
	wall.Position = math.Vec3{X: 10}
	s.Attach(wall, NewCollider(BoxShape{HalfExtent: math.Vec3{X: 0.5, Y: 5, Z: 5}}))

	b := NewBridge(testCfg())
	b.Initialize(s)

	hit, ok := b.Raycast(math.Vec3{}, math.Vec3{X: 1}, 20, MaskAll)
	if !ok {
		t.Fatal("expected ray hit")
	}
	if hit.Entity != wall {
		t.Error("hit entity should be the wall")
	}
	if hit.Distance < 9.4 || hit.Distance > 9.6 {
		t.Errorf("distance = %f, want 9.5", hit.Distance)
	}
}

func TestMeshColliderFallsBackToUnitBox(t *testing.T) {
	s := scene.New("test")
	e := s.CreateEntity("broken")
	s.Attach(e, NewCollider(MeshShape{Path: filepath.Join(t.TempDir(), "missing.obj")}))

	b := NewBridge(testCfg())
	b.Initialize(s)

	bounds := b.World().Bodies()[0].Bounds()
	size := bounds.Max.Sub(bounds.Min)
	if size.Sub(math.One()).Length() > 1e-5 {
		t.Errorf("fallback bounds size = %v, want unit box", size)
	}
}

func TestDebugLinesCacheAndAABBs(t *testing.T) {
	dir := t.TempDir()
	objPath := filepath.Join(dir, "tri.obj")
	src := "v 0 0 0\nv 1 0 0\nv 0 0 1\nf 1 2 3\n"
	if err := os.WriteFile(objPath, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	s := scene.New("test")
	terrain := s.CreateEntity("terrain")
	s.Attach(terrain, NewCollider(MeshShape{Path: objPath}))

	ball := s.CreateEntity("ball")
	ball.Position = math.Vec3{Z: 5}
	s.Attach(ball, NewCollider(SphereShape{Radius: 0.5}))
	s.Attach(ball, NewRigidbody())

	b := NewBridge(testCfg())
	b.Initialize(s)

	lines := b.DebugLines()
	// One triangle contributes 3 cached lines, the dynamic sphere 12
	// AABB edges.
	if len(lines) != 15 {
		t.Errorf("debug lines = %d, want 15", len(lines))
	}

	again := b.DebugLines()
	if len(again) != 15 {
		t.Errorf("second call lines = %d, want 15", len(again))
	}
}

func TestVelocityWriteSteersBody(t *testing.T) {
	s := scene.New("test")
	e := s.CreateEntity("mover")
	s.Attach(e, NewCollider(SphereShape{Radius: 0.5}))
	rb := NewRigidbody()
	rb.GravityFactor = 0
	s.Attach(e, rb)

	b := NewBridge(testCfg())
	b.Initialize(s)

	rb.Velocity = math.Vec3{Y: 3}
	for i := 0; i < 60; i++ {
		b.Step(1.0 / 60.0)
	}

	// The written velocity is held across steps; the body should
	// cover nearly the full three meters.
	if e.Position.Y < 2.5 {
		t.Errorf("entity y = %f, want about 3", e.Position.Y)
	}
}

func TestAddForceMovesBody(t *testing.T) {
	s := scene.New("test")
	e := s.CreateEntity("pushed")
	s.Attach(e, NewCollider(SphereShape{Radius: 0.5}))
	rb := NewRigidbody()
	rb.GravityFactor = 0
	rb.Mass = 2
	s.Attach(e, rb)

	b := NewBridge(testCfg())
	b.Initialize(s)

	rb.AddForce(math.Vec3{X: 20})
	b.Step(1.0 / 60.0)

	// a = F/m = 10 for one step: v about 10 * dt.
	if v := rb.Velocity.X; v < 0.1 || v > 0.2 {
		t.Errorf("velocity after one forced step = %f, want about 0.167", v)
	}

	// The accumulator was drained; no further acceleration.
	v1 := rb.Velocity.X
	b.Step(1.0 / 60.0)
	if rb.Velocity.X > v1 {
		t.Error("force should apply for one step only")
	}
}

func TestSteeredVelocityKeptExact(t *testing.T) {
	s := scene.New("test")
	e := s.CreateEntity("mover")
	s.Attach(e, NewCollider(SphereShape{Radius: 0.5}))
	rb := NewRigidbody()
	rb.GravityFactor = 0
	s.Attach(e, rb)

	b := NewBridge(testCfg())
	b.Initialize(s)

	// Damping alone must never leak back into a steered velocity.
	for i := 0; i < 120; i++ {
		rb.Velocity = math.Vec3{X: 5}
		b.Step(1.0 / 60.0)
		if rb.Velocity != (math.Vec3{X: 5}) {
			t.Fatalf("step %d: steered velocity drifted to %v", i, rb.Velocity)
		}
	}
}

func TestTriggerOverlapDoesNotGround(t *testing.T) {
	s := scene.New("test")
	pad := s.CreateEntity("pad")
	pcol := NewCollider(BoxShape{HalfExtent: math.Vec3{X: 2, Y: 2, Z: 0.1}})
	pcol.IsTrigger = true
	entered := false
	pcol.OnTriggerEnter = func(other *scene.Entity) { entered = true }
	s.Attach(pad, pcol)

	ball := s.CreateEntity("ball")
	ball.Position = math.Vec3{Z: 0.4}
	s.Attach(ball, NewCollider(SphereShape{Radius: 0.5}))
	rb := NewRigidbody()
	rb.GravityFactor = 0
	s.Attach(ball, rb)

	b := NewBridge(testCfg())
	b.Initialize(s)
	b.Step(1.0 / 60.0)

	if !entered {
		t.Fatal("overlap should fire the trigger callback")
	}
	if rb.IsGrounded {
		t.Errorf("sensor overlap must not ground, normal %v", rb.GroundNormal)
	}
}
