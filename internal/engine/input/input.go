// Package input polls SDL2 events into per-frame snapshots. Edge
// queries compare the current snapshot against the previous one, so
// Pressed and Released are true for exactly one frame.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/mechanicchickendev/froggi/internal/logger"
)

// Key identifies a keyboard key by SDL scancode.
type Key = sdl.Scancode

// Axis identifies a gamepad axis.
type Axis = sdl.GameControllerAxis

// Button identifies a gamepad button.
type Button = sdl.GameControllerButton

// Common keys re-exported so game code does not import sdl directly.
const (
	KeyW      = sdl.SCANCODE_W
	KeyA      = sdl.SCANCODE_A
	KeyS      = sdl.SCANCODE_S
	KeyD      = sdl.SCANCODE_D
	KeyQ      = sdl.SCANCODE_Q
	KeyE      = sdl.SCANCODE_E
	KeyUp     = sdl.SCANCODE_UP
	KeyDown   = sdl.SCANCODE_DOWN
	KeyLeft   = sdl.SCANCODE_LEFT
	KeyRight  = sdl.SCANCODE_RIGHT
	KeySpace  = sdl.SCANCODE_SPACE
	KeyEscape = sdl.SCANCODE_ESCAPE
	KeyReturn = sdl.SCANCODE_RETURN
	KeyLShift = sdl.SCANCODE_LSHIFT
	KeyTab    = sdl.SCANCODE_TAB
	KeyF1     = sdl.SCANCODE_F1
	KeyF2     = sdl.SCANCODE_F2
	KeyF3     = sdl.SCANCODE_F3
)

// Mouse buttons.
const (
	MouseLeft   = sdl.BUTTON_LEFT
	MouseMiddle = sdl.BUTTON_MIDDLE
	MouseRight  = sdl.BUTTON_RIGHT
)

// Gamepad axes and buttons, forwarded from the SDL controller API.
const (
	AxisLeftX        = sdl.CONTROLLER_AXIS_LEFTX
	AxisLeftY        = sdl.CONTROLLER_AXIS_LEFTY
	AxisRightX       = sdl.CONTROLLER_AXIS_RIGHTX
	AxisRightY       = sdl.CONTROLLER_AXIS_RIGHTY
	ButtonA          = sdl.CONTROLLER_BUTTON_A
	ButtonB          = sdl.CONTROLLER_BUTTON_B
	ButtonX          = sdl.CONTROLLER_BUTTON_X
	ButtonY          = sdl.CONTROLLER_BUTTON_Y
	ButtonStart      = sdl.CONTROLLER_BUTTON_START
	ButtonLeftStick  = sdl.CONTROLLER_BUTTON_LEFTSTICK
	ButtonRightStick = sdl.CONTROLLER_BUTTON_RIGHTSTICK
)

// axisDeadzone filters stick drift, matching the SDL recommended
// value.
const axisDeadzone = 8000

const maxMouseButtons = 6

// snapshot is one frame of raw input.
type snapshot struct {
	keys         [sdl.NUM_SCANCODES]bool
	mouseButtons [maxMouseButtons]bool
	mouseX       int32
	mouseY       int32
	padAxes      [sdl.CONTROLLER_AXIS_MAX]int16
	padButtons   [sdl.CONTROLLER_BUTTON_MAX]bool
}

// Manager owns the event pump and the two snapshots.
type Manager struct {
	current  snapshot
	previous snapshot

	scrollY float32

	resized       bool
	resizedWidth  int
	resizedHeight int

	gamepad *sdl.GameController
}

// New creates the input manager and opens the first attached gamepad
// if any.
func New() *Manager {
	m := &Manager{}
	m.openFirstGamepad()
	return m
}

func (m *Manager) openFirstGamepad() {
	for i := 0; i < sdl.NumJoysticks(); i++ {
		if !sdl.IsGameController(i) {
			continue
		}
		m.gamepad = sdl.GameControllerOpen(i)
		if m.gamepad != nil {
			logger.Info("gamepad connected", zap.String("name", m.gamepad.Name()))
			return
		}
	}
}

// Poll rotates the snapshots and drains the SDL event queue. It
// returns true when the application should quit.
func (m *Manager) Poll() bool {
	m.previous = m.current
	m.scrollY = 0
	m.resized = false
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED {
				m.resized = true
				m.resizedWidth = int(e.Data1)
				m.resizedHeight = int(e.Data2)
			}

		case *sdl.KeyboardEvent:
			if int(e.Keysym.Scancode) < len(m.current.keys) {
				m.current.keys[e.Keysym.Scancode] = e.Type == sdl.KEYDOWN
			}

		case *sdl.MouseMotionEvent:
			m.current.mouseX = e.X
			m.current.mouseY = e.Y

		case *sdl.MouseButtonEvent:
			if int(e.Button) < maxMouseButtons {
				m.current.mouseButtons[e.Button] = e.Type == sdl.MOUSEBUTTONDOWN
			}
			m.current.mouseX = e.X
			m.current.mouseY = e.Y

		case *sdl.MouseWheelEvent:
			m.scrollY += float32(e.Y)

		case *sdl.ControllerAxisEvent:
			if int(e.Axis) < len(m.current.padAxes) {
				m.current.padAxes[e.Axis] = e.Value
			}

		case *sdl.ControllerButtonEvent:
			if int(e.Button) < len(m.current.padButtons) {
				m.current.padButtons[e.Button] = e.Type == sdl.CONTROLLERBUTTONDOWN
			}

		case *sdl.ControllerDeviceEvent:
			switch e.Type {
			case sdl.CONTROLLERDEVICEADDED:
				if m.gamepad == nil {
					m.openFirstGamepad()
				}
			case sdl.CONTROLLERDEVICEREMOVED:
				if m.gamepad != nil {
					logger.Info("gamepad disconnected")
					m.gamepad.Close()
					m.gamepad = nil
					m.current.padAxes = [sdl.CONTROLLER_AXIS_MAX]int16{}
					m.current.padButtons = [sdl.CONTROLLER_BUTTON_MAX]bool{}
				}
			}
		}
	}

	return quit
}

// KeyDown reports whether the key is held.
func (m *Manager) KeyDown(k Key) bool {
	return m.current.keys[k]
}

// KeyPressed reports whether the key went down this frame.
func (m *Manager) KeyPressed(k Key) bool {
	return m.current.keys[k] && !m.previous.keys[k]
}

// KeyReleased reports whether the key went up this frame.
func (m *Manager) KeyReleased(k Key) bool {
	return !m.current.keys[k] && m.previous.keys[k]
}

// MouseDown reports whether the button is held.
func (m *Manager) MouseDown(button uint8) bool {
	return int(button) < maxMouseButtons && m.current.mouseButtons[button]
}

// MousePressed reports whether the button went down this frame.
func (m *Manager) MousePressed(button uint8) bool {
	return int(button) < maxMouseButtons &&
		m.current.mouseButtons[button] && !m.previous.mouseButtons[button]
}

// MouseReleased reports whether the button went up this frame.
func (m *Manager) MouseReleased(button uint8) bool {
	return int(button) < maxMouseButtons &&
		!m.current.mouseButtons[button] && m.previous.mouseButtons[button]
}

// MousePosition returns the pointer position in window pixels.
func (m *Manager) MousePosition() (int, int) {
	return int(m.current.mouseX), int(m.current.mouseY)
}

// ScrollY returns the wheel movement accumulated this frame.
func (m *Manager) ScrollY() float32 { return m.scrollY }

// Axis returns a gamepad axis in [-1, 1] with the deadzone applied.
func (m *Manager) Axis(axis Axis) float32 {
	v := m.current.padAxes[axis]
	if v > -axisDeadzone && v < axisDeadzone {
		return 0
	}
	return float32(v) / 32767.0
}

// ButtonDown reports whether the gamepad button is held.
func (m *Manager) ButtonDown(button Button) bool {
	return m.current.padButtons[button]
}

// ButtonPressed reports whether the gamepad button went down this
// frame.
func (m *Manager) ButtonPressed(button Button) bool {
	return m.current.padButtons[button] && !m.previous.padButtons[button]
}

// WindowResized reports a resize received this frame and its new size.
func (m *Manager) WindowResized() (width, height int, ok bool) {
	return m.resizedWidth, m.resizedHeight, m.resized
}

// Shutdown closes the gamepad handle.
func (m *Manager) Shutdown() {
	if m.gamepad != nil {
		m.gamepad.Close()
		m.gamepad = nil
	}
}
