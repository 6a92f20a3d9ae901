package game

import (
	"github.com/mechanicchickendev/froggi/internal/engine/scene"
	"github.com/mechanicchickendev/froggi/pkg/math"
)

// Patrol ping-pongs a kinematic entity between two points at a fixed
// speed. It moves in the fixed step so riders see a stable surface.
type Patrol struct {
	scene.BaseComponent

	From  math.Vec3
	To    math.Vec3
	Speed float32

	distance float32
	cursor   float32
	forward  bool
}

// NewPatrol builds a patrol between from and to.
func NewPatrol(from, to math.Vec3, speed float32) *Patrol {
	return &Patrol{
		From:     from,
		To:       to,
		Speed:    speed,
		distance: to.Sub(from).Length(),
		forward:  true,
	}
}

// OnFixedUpdate advances the cursor and places the owner.
func (p *Patrol) OnFixedUpdate(dt float32) {
	if p.distance == 0 {
		return
	}

	step := p.Speed * dt
	if p.forward {
		p.cursor += step
		if p.cursor >= p.distance {
			p.cursor = p.distance
			p.forward = false
		}
	} else {
		p.cursor -= step
		if p.cursor <= 0 {
			p.cursor = 0
			p.forward = true
		}
	}

	p.Owner().Position = p.From.Lerp(p.To, p.cursor/p.distance)
}
