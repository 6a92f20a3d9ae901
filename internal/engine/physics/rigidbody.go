package physics

import (
	"github.com/mechanicchickendev/froggi/internal/engine/scene"
	"github.com/mechanicchickendev/froggi/pkg/math"
)

// Rigidbody makes a collider-carrying entity move under the physics
// world. Games steer a body by writing Velocity or calling AddForce;
// the bridge reconciles with the world each fixed step.
type Rigidbody struct {
	scene.BaseComponent

	// Velocity is the body's linear velocity. Writing it overrides
	// the simulated velocity on the next fixed step.
	Velocity math.Vec3
	Mass     float32
	Friction float32
	// Restitution is the bounce factor in [0, 1].
	Restitution float32
	// GravityFactor scales world gravity for this body. Zero floats.
	GravityFactor float32
	// IsKinematic bodies follow their entity transform and push
	// dynamic bodies without reacting to forces.
	IsKinematic bool

	// IsGrounded holds for one fixed step after a supporting contact
	// or a successful CheckGrounded.
	IsGrounded   bool
	GroundNormal math.Vec3

	// Interpolation shadow state. Written by the engine's fixed-step
	// block, read by its interpolation block. Games should not touch
	// these.
	PreviousPosition math.Vec3
	CurrentPosition  math.Vec3

	acceleration math.Vec3
}

// NewRigidbody returns a dynamic body of unit mass under full gravity.
func NewRigidbody() *Rigidbody {
	return &Rigidbody{
		Mass:          1,
		Friction:      0.5,
		GravityFactor: 1,
	}
}

// AddForce accumulates a continuous force for the next fixed step.
func (rb *Rigidbody) AddForce(f math.Vec3) {
	m := rb.Mass
	if m <= 0 {
		m = 1
	}
	rb.acceleration = rb.acceleration.Add(f.Scale(1 / m))
}

// AddImpulse changes velocity immediately by impulse over mass.
func (rb *Rigidbody) AddImpulse(i math.Vec3) {
	m := rb.Mass
	if m <= 0 {
		m = 1
	}
	rb.Velocity = rb.Velocity.Add(i.Scale(1 / m))
}
