package scene

import "github.com/mechanicchickendev/froggi/pkg/math"

// Entity is a named node in the scene graph. Position, Rotation and
// Scale are local to the parent. Rotation is Euler angles in radians
// applied in Z, then Y, then X order.
type Entity struct {
	Name     string
	Position math.Vec3
	Rotation math.Vec3
	Scale    math.Vec3
	Active   bool

	parent     *Entity
	children   []*Entity
	components []Component
	scene      *Scene
	destroyed  bool
}

// Parent returns the parent entity, or nil for roots.
func (e *Entity) Parent() *Entity { return e.parent }

// Children returns the direct children.
func (e *Entity) Children() []*Entity { return e.children }

// Components returns the attached components in attach order.
func (e *Entity) Components() []Component { return e.components }

// Scene returns the scene the entity belongs to.
func (e *Entity) Scene() *Scene { return e.scene }

// SetParent reparents the entity. Local transform values are kept as
// is, so the world transform changes when the new parent differs.
func (e *Entity) SetParent(p *Entity) {
	if e.parent == p {
		return
	}
	if e.parent != nil {
		e.parent.removeChild(e)
	}
	e.parent = p
	if p != nil {
		p.children = append(p.children, e)
	}
}

func (e *Entity) removeChild(c *Entity) {
	for i, ch := range e.children {
		if ch == c {
			e.children = append(e.children[:i], e.children[i+1:]...)
			return
		}
	}
}

// LocalMatrix returns the local transform, translation then Z, Y, X
// rotation then scale.
func (e *Entity) LocalMatrix() math.Mat4 {
	return math.TRS(e.Position, e.Rotation, e.Scale)
}

// WorldMatrix returns the composed transform from the root down.
func (e *Entity) WorldMatrix() math.Mat4 {
	if e.parent == nil {
		return e.LocalMatrix()
	}
	return e.parent.WorldMatrix().Mul(e.LocalMatrix())
}

// WorldPosition returns the entity origin in world space.
func (e *Entity) WorldPosition() math.Vec3 {
	if e.parent == nil {
		return e.Position
	}
	return e.parent.WorldMatrix().TransformPoint(e.Position)
}

// ActiveInHierarchy reports whether the entity and all ancestors are
// active. Inactive entities receive no updates and do not render.
func (e *Entity) ActiveInHierarchy() bool {
	for n := e; n != nil; n = n.parent {
		if !n.Active {
			return false
		}
	}
	return true
}
