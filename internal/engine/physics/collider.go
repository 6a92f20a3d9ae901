package physics

import (
	"github.com/mechanicchickendev/froggi/internal/engine/scene"
	"github.com/mechanicchickendev/froggi/pkg/math"
)

// Shape is the collision geometry variant carried by a Collider.
type Shape interface {
	isShape()
}

// BoxShape is an axis-aligned box with half extents.
type BoxShape struct {
	HalfExtent math.Vec3
}

// SphereShape is a ball.
type SphereShape struct {
	Radius float32
}

// CapsuleShape is a vertical sphere-swept segment. HalfHeight excludes
// the caps.
type CapsuleShape struct {
	HalfHeight float32
	Radius     float32
}

// MeshShape loads its triangles from an OBJ file when the physics
// world is built. Mesh colliders must be static.
type MeshShape struct {
	Path string
}

func (BoxShape) isShape()     {}
func (SphereShape) isShape()  {}
func (CapsuleShape) isShape() {}
func (MeshShape) isShape()    {}

// Collider gives an entity collision geometry. An owner without a
// Rigidbody produces a static body; with one, kinematic or dynamic
// depending on Rigidbody.IsKinematic.
type Collider struct {
	scene.BaseComponent

	Shape Shape
	// Center offsets the body from the owner's position.
	Center math.Vec3
	// IsTrigger makes the body a sensor: overlaps are reported but
	// nothing is deflected.
	IsTrigger bool
	// Layer and Mask filter contacts. A pair collides only when each
	// side's Layer intersects the other's Mask.
	Layer uint32
	Mask  uint32

	// Contact callbacks. They run inside the physics step and must
	// not create, destroy or re-parent entities.
	OnCollisionEnter func(other *scene.Entity)
	OnCollisionStay  func(other *scene.Entity)
	OnTriggerEnter   func(other *scene.Entity)
	OnTriggerStay    func(other *scene.Entity)
}

// NewCollider returns a collider on the default group matching all.
func NewCollider(shape Shape) *Collider {
	return &Collider{
		Shape: shape,
		Layer: LayerDefault,
		Mask:  MaskAll,
	}
}
