package ui

// InputState is the per-frame pointer state the widgets react to. The
// engine fills the raw fields, Update derives the edges.
type InputState struct {
	MouseX      float32
	MouseY      float32
	MouseDeltaX float32
	MouseDeltaY float32

	MouseLeftDown     bool
	MouseLeftPressed  bool
	MouseLeftReleased bool

	ScrollY float32

	prevMouseLeft bool
	prevMouseX    float32
	prevMouseY    float32
}

// Update derives deltas and press/release edges from the raw state.
// Call once per frame after filling the raw fields.
func (i *InputState) Update() {
	i.MouseDeltaX = i.MouseX - i.prevMouseX
	i.MouseDeltaY = i.MouseY - i.prevMouseY

	i.MouseLeftPressed = i.MouseLeftDown && !i.prevMouseLeft
	i.MouseLeftReleased = !i.MouseLeftDown && i.prevMouseLeft

	i.prevMouseLeft = i.MouseLeftDown
	i.prevMouseX = i.MouseX
	i.prevMouseY = i.MouseY
}

// EndFrame clears the accumulated per-frame values.
func (i *InputState) EndFrame() {
	i.ScrollY = 0
}

// IsMouseInRect reports whether the pointer is inside the rectangle.
func (i *InputState) IsMouseInRect(x, y, w, h float32) bool {
	return i.MouseX >= x && i.MouseX < x+w &&
		i.MouseY >= y && i.MouseY < y+h
}
