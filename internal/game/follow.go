package game

import (
	"github.com/mechanicchickendev/froggi/internal/engine/scene"
	"github.com/mechanicchickendev/froggi/pkg/math"
)

// Follow eases its owner toward a target plus an offset. Used for the
// camera so it trails the player instead of snapping.
type Follow struct {
	scene.BaseComponent

	Offset    math.Vec3
	Stiffness float32

	target func() *scene.Entity
}

// NewFollow builds a follow component. Stiffness is the approach rate
// per second; higher tracks tighter.
func NewFollow(target func() *scene.Entity, offset math.Vec3, stiffness float32) *Follow {
	return &Follow{
		Offset:    offset,
		Stiffness: stiffness,
		target:    target,
	}
}

// OnUpdate moves the owner a fraction of the remaining distance.
func (f *Follow) OnUpdate(dt float32) {
	if f.target == nil {
		return
	}
	t := f.target()
	if t == nil {
		return
	}

	step := f.Stiffness * dt
	if step > 1 {
		step = 1
	}
	desired := t.Position.Add(f.Offset)
	f.Owner().Position = f.Owner().Position.Lerp(desired, step)
}
