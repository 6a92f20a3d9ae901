package solver

import "github.com/mechanicchickendev/froggi/pkg/math"

// MotionType controls how a body participates in the simulation.
type MotionType int

const (
	// Static bodies never move. They collide with moving bodies only.
	Static MotionType = iota
	// Kinematic bodies are positioned by the caller and push dynamic
	// bodies without reacting to them.
	Kinematic
	// Dynamic bodies integrate forces and respond to contacts.
	Dynamic
)

// ObjectLayer is the coarse broad-phase layer of a body.
type ObjectLayer uint8

const (
	// LayerNonMoving holds static geometry. Pairs of non-moving
	// bodies are never tested.
	LayerNonMoving ObjectLayer = iota
	// LayerMoving holds kinematic and dynamic bodies.
	LayerMoving
)

// layersCollide applies the broad-phase layer table.
func layersCollide(a, b ObjectLayer) bool {
	if a == LayerNonMoving {
		return b == LayerMoving
	}
	return true
}

// BodyID identifies a body within its world.
type BodyID uint32

// InvalidBodyID is never assigned to a body.
const InvalidBodyID BodyID = 0

// BodySettings describes a body to create.
type BodySettings struct {
	Shape          Shape
	Position       math.Vec3
	Rotation       math.Quat
	Motion         MotionType
	Layer          ObjectLayer
	Mass           float32
	Friction       float32
	Restitution    float32
	GravityFactor  float32
	LinearDamping  float32
	AngularDamping float32
	// Sensor bodies detect overlap but generate no collision response.
	Sensor bool
	// Group and Mask feed the contact validate callback. A contact is
	// kept only when each body's group intersects the other's mask.
	Group uint32
	Mask  uint32
	// UserData is carried opaquely, typically the owning entity.
	UserData any
}

// Body is a rigid body inside a World. Fields are mutated by the world
// during Step; callers interact through the World accessors.
type Body struct {
	id       BodyID
	shape    Shape
	motion   MotionType
	layer    ObjectLayer
	position math.Vec3
	rotation math.Quat
	velocity math.Vec3

	invMass        float32
	friction       float32
	restitution    float32
	gravityFactor  float32
	linearDamping  float32
	angularDamping float32
	inertia        math.Vec3

	sensor bool
	group  uint32
	mask   uint32

	force    math.Vec3
	userData any
}

// ID returns the body identifier.
func (b *Body) ID() BodyID { return b.id }

// Shape returns the collision shape.
func (b *Body) Shape() Shape { return b.shape }

// Motion returns the motion type.
func (b *Body) Motion() MotionType { return b.motion }

// Layer returns the broad-phase layer.
func (b *Body) Layer() ObjectLayer { return b.layer }

// Position returns the world-space center.
func (b *Body) Position() math.Vec3 { return b.position }

// Rotation returns the world-space orientation.
func (b *Body) Rotation() math.Quat { return b.rotation }

// LinearVelocity returns the current linear velocity.
func (b *Body) LinearVelocity() math.Vec3 { return b.velocity }

// Sensor reports whether the body is overlap-only.
func (b *Body) Sensor() bool { return b.sensor }

// UserData returns the opaque payload supplied at creation.
func (b *Body) UserData() any { return b.userData }

// Bounds returns the current world-space AABB.
func (b *Body) Bounds() AABB {
	return b.shape.Bounds(b.position, b.rotation)
}

// SetPositionAndRotation teleports the body. Meant for kinematic
// bodies driven by game code.
func (b *Body) SetPositionAndRotation(pos math.Vec3, rot math.Quat) {
	b.position = pos
	b.rotation = rot.Normalize()
}

// SetLinearVelocity overwrites the velocity.
func (b *Body) SetLinearVelocity(v math.Vec3) {
	b.velocity = v
}

// AddForce accumulates a force applied at the center of mass for the
// next step. The accumulator is cleared after each Step.
func (b *Body) AddForce(f math.Vec3) {
	b.force = b.force.Add(f)
}

// AddImpulse changes velocity immediately by impulse / mass.
func (b *Body) AddImpulse(i math.Vec3) {
	if b.motion != Dynamic {
		return
	}
	b.velocity = b.velocity.Add(i.Scale(b.invMass))
}
