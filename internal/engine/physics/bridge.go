// Package physics bridges the scene's colliders and rigidbodies to
// the rigid-body world in the solver package. The bridge owns body
// lifetimes, reconciles game-written velocity with simulated state
// every fixed step, and translates contact events into component
// callbacks.
package physics

import (
	"go.uber.org/zap"

	"github.com/mechanicchickendev/froggi/internal/config"
	"github.com/mechanicchickendev/froggi/internal/engine/mesh"
	"github.com/mechanicchickendev/froggi/internal/engine/physics/solver"
	"github.com/mechanicchickendev/froggi/internal/engine/scene"
	"github.com/mechanicchickendev/froggi/internal/logger"
	"github.com/mechanicchickendev/froggi/pkg/math"
)

// binding ties one collider to its solver body for the life of a
// scene.
type binding struct {
	entity   *scene.Entity
	collider *Collider
	rb       *Rigidbody
	body     *solver.Body
}

// Bridge drives the physics world for one scene.
type Bridge struct {
	cfg      config.PhysicsConfig
	world    *solver.World
	bindings []*binding

	// Static mesh wireframes are expensive to rebuild, so they are
	// cached on first request and never invalidated.
	staticLines  []DebugLine
	staticCached bool
}

// DebugLine is one world-space segment for the debug overlay.
type DebugLine struct {
	From, To math.Vec3
}

// NewBridge creates a bridge with the given tunables.
func NewBridge(cfg config.PhysicsConfig) *Bridge {
	return &Bridge{cfg: cfg}
}

// World exposes the underlying solver world, mainly for tests.
func (b *Bridge) World() *solver.World { return b.world }

// Initialize builds one body per collider in the scene. An owner
// without a Rigidbody yields a static body; Rigidbody.IsKinematic
// selects kinematic, otherwise dynamic.
func (b *Bridge) Initialize(s *scene.Scene) {
	b.world = solver.NewWorld(solver.Settings{Gravity: b.cfg.GravityVec()})
	b.world.SetContactListener(b)
	b.bindings = nil
	b.staticLines = nil
	b.staticCached = false

	for _, e := range s.Entities() {
		for _, c := range e.Components() {
			col, ok := c.(*Collider)
			if !ok {
				continue
			}
			b.addBody(e, col)
		}
	}
}

func (b *Bridge) addBody(e *scene.Entity, col *Collider) {
	rb, _ := scene.Get[*Rigidbody](e)

	motion := solver.Static
	layer := solver.LayerNonMoving
	if rb != nil {
		layer = solver.LayerMoving
		if rb.IsKinematic {
			motion = solver.Kinematic
		} else {
			motion = solver.Dynamic
		}
	}

	shape := b.buildShape(col.Shape, e.Name)
	if _, isMesh := shape.(solver.Mesh); isMesh && motion == solver.Dynamic {
		logger.Warn("mesh collider on dynamic body, forcing static",
			zap.String("entity", e.Name))
		motion = solver.Static
		layer = solver.LayerNonMoving
	}

	settings := solver.BodySettings{
		Shape:    shape,
		Position: e.Position.Add(col.Center),
		Rotation: math.QuatFromEuler(e.Rotation),
		Motion:   motion,
		Layer:    layer,
		Sensor:   col.IsTrigger,
		Group:    col.Layer,
		Mask:     col.Mask,
	}
	if rb != nil {
		settings.Mass = rb.Mass
		settings.Friction = rb.Friction
		settings.Restitution = rb.Restitution
		settings.GravityFactor = rb.GravityFactor
		settings.LinearDamping = b.cfg.LinearDamping
		settings.AngularDamping = b.cfg.AngularDamping
	}

	bind := &binding{entity: e, collider: col, rb: rb}
	settings.UserData = bind
	bind.body = b.world.CreateBody(settings)
	b.bindings = append(b.bindings, bind)
}

// buildShape converts the collider variant into solver geometry. Any
// failure degrades to a unit box so the scene keeps running.
func (b *Bridge) buildShape(s Shape, entityName string) solver.Shape {
	switch v := s.(type) {
	case BoxShape:
		return solver.Box{HalfExtent: v.HalfExtent}
	case SphereShape:
		return solver.Sphere{Radius: v.Radius}
	case CapsuleShape:
		return solver.Capsule{HalfHeight: v.HalfHeight, Radius: v.Radius}
	case MeshShape:
		return b.buildMeshShape(v.Path, entityName)
	}
	logger.Warn("collider without a shape, using unit box",
		zap.String("entity", entityName))
	return unitBox()
}

func (b *Bridge) buildMeshShape(path, entityName string) solver.Shape {
	d, err := mesh.Load(path)
	if err != nil {
		logger.Error("mesh collider load failed, using unit box",
			zap.String("entity", entityName), zap.Error(err))
		return unitBox()
	}
	tris := d.Triangles()
	if len(tris) == 0 {
		logger.Warn("mesh collider has no triangles, using unit box",
			zap.String("entity", entityName), zap.String("path", path))
		return unitBox()
	}
	out := make([]solver.Triangle, len(tris))
	for i, t := range tris {
		out[i] = solver.Triangle{A: t[0], B: t[1], C: t[2]}
	}
	return solver.Mesh{Triangles: out}
}

func unitBox() solver.Shape {
	return solver.Box{HalfExtent: math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}}
}

// Step advances the world by one fixed time step.
func (b *Bridge) Step(dt float32) {
	if b.world == nil {
		return
	}

	for _, bind := range b.bindings {
		if bind.rb == nil || !bind.rb.Enabled() {
			continue
		}
		bind.rb.IsGrounded = false
		bind.rb.GroundNormal = math.Vec3{}
	}

	for _, bind := range b.bindings {
		if bind.rb == nil || !bind.rb.Enabled() || !bind.entity.ActiveInHierarchy() {
			continue
		}
		if bind.rb.IsKinematic {
			bind.body.SetPositionAndRotation(
				bind.entity.Position.Add(bind.collider.Center),
				math.QuatFromEuler(bind.entity.Rotation),
			)
			continue
		}
		// Game code steers by writing Velocity; only push it down
		// when it diverges from the simulated value.
		if bind.rb.Velocity.Sub(bind.body.LinearVelocity()).Length() > b.cfg.VelocityEpsilon {
			bind.body.SetLinearVelocity(bind.rb.Velocity)
		}
		if bind.rb.acceleration != (math.Vec3{}) {
			bind.body.AddForce(bind.rb.acceleration.Scale(bind.rb.Mass))
			bind.rb.acceleration = math.Vec3{}
		}
	}

	b.world.Step(dt, b.cfg.SubSteps)

	for _, bind := range b.bindings {
		if bind.rb == nil || bind.rb.IsKinematic || !bind.rb.Enabled() {
			continue
		}
		bind.entity.Position = bind.body.Position().Sub(bind.collider.Center)
		// The solver wins only when it moved the velocity by more
		// than the epsilon; inside that band the game-written value
		// is authoritative on both sides, so damping cannot bleed
		// into a steered velocity.
		simVel := bind.body.LinearVelocity()
		if bind.rb.Velocity.Sub(simVel).Length() > b.cfg.VelocityEpsilon {
			bind.rb.Velocity = simVel
		} else {
			bind.body.SetLinearVelocity(bind.rb.Velocity)
		}
	}
}

// OnContactValidate accepts contacts whose bodies are still bound.
func (b *Bridge) OnContactValidate(a, c *solver.Body) bool {
	_, okA := a.UserData().(*binding)
	_, okB := c.UserData().(*binding)
	return okA && okB
}

// OnContactAdded dispatches enter callbacks and ground detection.
func (b *Bridge) OnContactAdded(c solver.Contact) {
	b.dispatch(c, true)
}

// OnContactPersisted dispatches stay callbacks and ground detection.
func (b *Bridge) OnContactPersisted(c solver.Contact) {
	b.dispatch(c, false)
}

func (b *Bridge) dispatch(c solver.Contact, entered bool) {
	ba, okA := c.BodyA.UserData().(*binding)
	bb, okB := c.BodyB.UserData().(*binding)
	if !okA || !okB {
		return
	}

	if ba.collider.IsTrigger || bb.collider.IsTrigger {
		if entered {
			invoke(ba.collider.OnTriggerEnter, bb.entity)
			invoke(bb.collider.OnTriggerEnter, ba.entity)
		} else {
			invoke(ba.collider.OnTriggerStay, bb.entity)
			invoke(bb.collider.OnTriggerStay, ba.entity)
		}
	} else {
		if entered {
			invoke(ba.collider.OnCollisionEnter, bb.entity)
			invoke(bb.collider.OnCollisionEnter, ba.entity)
		} else {
			invoke(ba.collider.OnCollisionStay, bb.entity)
			invoke(bb.collider.OnCollisionStay, ba.entity)
		}

		// Ground detection from the contact normal's vertical
		// component. The normal points from body A toward body B, so
		// a downward normal supports A and an upward one supports B.
		// Sensor overlaps never ground.
		if ba.rb != nil && c.Normal.Z < -b.cfg.SlopeLimitCos {
			ba.rb.IsGrounded = true
			ba.rb.GroundNormal = c.Normal.Neg()
		}
		if bb.rb != nil && c.Normal.Z > b.cfg.SlopeLimitCos {
			bb.rb.IsGrounded = true
			bb.rb.GroundNormal = c.Normal
		}
	}
}

func invoke(fn func(*scene.Entity), other *scene.Entity) {
	if fn != nil {
		fn(other)
	}
}

// RaycastHit is the result of a successful Raycast.
type RaycastHit struct {
	Point    math.Vec3
	Normal   math.Vec3
	Distance float32
	Entity   *scene.Entity
}

// Raycast finds the nearest body along the ray. layerMask is accepted
// for interface stability but not applied; the ray tests every body.
func (b *Bridge) Raycast(origin, dir math.Vec3, maxDist float32, layerMask uint32) (RaycastHit, bool) {
	_ = layerMask
	if b.world == nil {
		return RaycastHit{}, false
	}
	hit, ok := b.world.CastRay(origin, dir, maxDist)
	if !ok {
		return RaycastHit{}, false
	}
	var entity *scene.Entity
	if bind, ok := hit.Body.UserData().(*binding); ok {
		entity = bind.entity
	}
	return RaycastHit{
		Point:    hit.Point,
		Normal:   hit.Normal,
		Distance: hit.Distance,
		Entity:   entity,
	}, true
}

// CheckGrounded casts a ray down from the entity's body center and,
// on a hit within dist, marks its rigidbody grounded.
func (b *Bridge) CheckGrounded(e *scene.Entity, dist float32) bool {
	rb, _ := scene.Get[*Rigidbody](e)
	col, _ := scene.Get[*Collider](e)
	if rb == nil || col == nil || b.world == nil {
		return false
	}
	origin := e.Position.Add(col.Center)
	// The origin sits inside the entity's own collider, which must
	// never count as ground.
	hit, ok := b.world.CastRayFiltered(origin, math.Vec3{Z: -1}, dist, func(body *solver.Body) bool {
		bind, ok := body.UserData().(*binding)
		return ok && bind.entity == e
	})
	if !ok {
		return false
	}
	rb.IsGrounded = true
	rb.GroundNormal = hit.Normal
	return true
}

// DebugLines returns the collider wireframe for the debug pass.
// Static mesh bodies contribute their triangle edges from a cache
// built on first call; dynamic and kinematic bodies contribute their
// current AABB edges every call.
func (b *Bridge) DebugLines() []DebugLine {
	if b.world == nil {
		return nil
	}
	if !b.staticCached {
		b.cacheStaticLines()
	}

	lines := make([]DebugLine, len(b.staticLines))
	copy(lines, b.staticLines)

	for _, body := range b.world.Bodies() {
		if body.Motion() == solver.Static {
			continue
		}
		for _, edge := range body.Bounds().Edges() {
			lines = append(lines, DebugLine{From: edge[0], To: edge[1]})
		}
	}
	return lines
}

func (b *Bridge) cacheStaticLines() {
	for _, body := range b.world.Bodies() {
		if body.Motion() != solver.Static {
			continue
		}
		m, ok := body.Shape().(solver.Mesh)
		if !ok {
			continue
		}
		pos, rot := body.Position(), body.Rotation()
		for _, tri := range m.Triangles {
			a := pos.Add(rot.RotateVec3(tri.A))
			bv := pos.Add(rot.RotateVec3(tri.B))
			c := pos.Add(rot.RotateVec3(tri.C))
			b.staticLines = append(b.staticLines,
				DebugLine{From: a, To: bv},
				DebugLine{From: bv, To: c},
				DebugLine{From: c, To: a},
			)
		}
	}
	b.staticCached = true
}

// Destroy removes every body. The bridge may be re-initialized.
func (b *Bridge) Destroy() {
	if b.world == nil {
		return
	}
	for _, bind := range b.bindings {
		b.world.RemoveBody(bind.body.ID())
	}
	b.bindings = nil
	b.world = nil
	b.staticLines = nil
	b.staticCached = false
}
