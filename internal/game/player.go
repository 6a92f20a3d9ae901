package game

import (
	"go.uber.org/zap"

	"github.com/mechanicchickendev/froggi/internal/engine/input"
	"github.com/mechanicchickendev/froggi/internal/engine/physics"
	"github.com/mechanicchickendev/froggi/internal/engine/scene"
	"github.com/mechanicchickendev/froggi/internal/logger"
	"github.com/mechanicchickendev/froggi/pkg/math"
)

// Controls is the slice of the input manager the player reads.
type Controls interface {
	KeyDown(k input.Key) bool
	KeyPressed(k input.Key) bool
	Axis(a input.Axis) float32
	ButtonPressed(b input.Button) bool
}

// PlayerController steers the player body by writing its velocity.
// Keyboard and the left gamepad stick both map onto the movement
// plane.
type PlayerController struct {
	scene.BaseComponent

	Speed     float32
	JumpSpeed float32

	// Jumped fires on takeoff, for sound hooks.
	Jumped func()

	controls func() Controls
	rb       *physics.Rigidbody
}

// NewPlayerController builds a controller reading from the given
// control source.
func NewPlayerController(controls func() Controls) *PlayerController {
	return &PlayerController{
		Speed:     6,
		JumpSpeed: 12,
		controls:  controls,
	}
}

// OnInit caches the sibling rigidbody.
func (p *PlayerController) OnInit() {
	rb, ok := scene.Get[*physics.Rigidbody](p.Owner())
	if !ok {
		logger.Warn("player controller without rigidbody",
			zap.String("entity", p.Owner().Name))
		return
	}
	p.rb = rb
}

// OnUpdate translates input into the desired velocity.
func (p *PlayerController) OnUpdate(dt float32) {
	if p.rb == nil || p.controls == nil {
		return
	}
	in := p.controls()
	if in == nil {
		return
	}

	move := moveVector(in)
	p.rb.Velocity.X = move.X * p.Speed
	p.rb.Velocity.Y = move.Y * p.Speed

	jump := in.KeyPressed(input.KeySpace) || in.ButtonPressed(input.ButtonA)
	if jump && p.rb.IsGrounded {
		p.rb.Velocity.Z = p.JumpSpeed
		p.rb.IsGrounded = false
		if p.Jumped != nil {
			p.Jumped()
		}
	}
}

// moveVector merges keyboard and stick input, clamped to unit length
// so diagonals are not faster.
func moveVector(in Controls) math.Vec2 {
	var move math.Vec2
	if in.KeyDown(input.KeyA) || in.KeyDown(input.KeyLeft) {
		move.X -= 1
	}
	if in.KeyDown(input.KeyD) || in.KeyDown(input.KeyRight) {
		move.X += 1
	}
	if in.KeyDown(input.KeyS) || in.KeyDown(input.KeyDown) {
		move.Y -= 1
	}
	if in.KeyDown(input.KeyW) || in.KeyDown(input.KeyUp) {
		move.Y += 1
	}

	move.X += in.Axis(input.AxisLeftX)
	// SDL sticks report up as negative.
	move.Y -= in.Axis(input.AxisLeftY)

	if move.Length() > 1 {
		move = move.Normalize()
	}
	return move
}
