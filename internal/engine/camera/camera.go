// Package camera provides the camera component producing view and
// projection matrices for the render passes.
package camera

import (
	"github.com/mechanicchickendev/froggi/internal/engine/scene"
	"github.com/mechanicchickendev/froggi/pkg/math"
)

// Projection selects how the camera maps view space to clip space.
type Projection int

const (
	// Orthographic is the default. The ortho volume is sized for a
	// 16:9 internal target and scaled by ZoomSize.
	Orthographic Projection = iota
	// Perspective is reserved. It currently yields an identity
	// projection so nothing renders usefully with it.
	Perspective
)

const (
	orthoHalfWidth  = 13.333
	orthoHalfHeight = 7.5
	orthoNear       = -150
	orthoFar        = 100
)

// Component turns its owner into the scene camera. The owner's
// position and rotation place the view; only the X and Z rotation
// axes are honored.
type Component struct {
	scene.BaseComponent

	Mode Projection
	// ZoomSize scales the ortho volume. Larger values show more of
	// the world.
	ZoomSize float32
}

// New returns an orthographic camera component.
func New() *Component {
	return &Component{
		Mode:     Orthographic,
		ZoomSize: 1.2,
	}
}

// ProjectionMatrix returns the clip-space projection for the current mode.
func (c *Component) ProjectionMatrix() math.Mat4 {
	if c.Mode == Perspective {
		return math.Identity()
	}
	zoom := c.ZoomSize
	if zoom <= 0 {
		zoom = 1
	}
	return math.OrthoZO(
		-orthoHalfWidth*zoom, orthoHalfWidth*zoom,
		-orthoHalfHeight*zoom, orthoHalfHeight*zoom,
		orthoNear, orthoFar,
	)
}

// ViewMatrix returns the world-to-view transform. The camera sits a
// fixed distance back along the view axis, then applies the owner's X
// and Z rotation and the inverse of its position.
func (c *Component) ViewMatrix() math.Mat4 {
	owner := c.Owner()
	if owner == nil {
		return math.Identity()
	}
	pos := owner.Position
	rot := owner.Rotation
	return math.Translate(0, 0, -5).
		Mul(math.RotateX(rot.X)).
		Mul(math.RotateZ(rot.Z)).
		Mul(math.Translate(-pos.X, -pos.Y, -pos.Z))
}
