package ui

import "fmt"

// Context ties the batch renderer and input state together and offers
// an immediate-mode widget API. Widget identity is the window id plus
// the widget id, so ids only need to be unique within a window.
type Context struct {
	renderer *Renderer
	input    *InputState

	hotWidget    string
	activeWidget string

	windows       map[string]*WindowState
	currentWindow *WindowState

	cursorX float32
	cursorY float32
	rowH    float32
}

// WindowState is the retained part of a window between frames.
type WindowState struct {
	ID     string
	X, Y   float32
	W, H   float32
	Moving bool
}

// NewContext creates the UI context. The GL context must be current.
func NewContext(width, height int) (*Context, error) {
	r, err := NewRenderer(width, height)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	return &Context{
		renderer: r,
		input:    &InputState{},
		windows:  make(map[string]*WindowState),
	}, nil
}

// Input returns the input state for the engine to fill.
func (c *Context) Input() *InputState { return c.input }

// NewFrame resizes the coordinate space and starts a frame. Together
// with Render it satisfies the render pass contract.
func (c *Context) NewFrame(displayWidth, displayHeight float32) {
	c.renderer.Resize(displayWidth, displayHeight)
	c.input.Update()
	c.renderer.Begin()
	c.hotWidget = ""
}

// Render flushes the frame's widgets to the current render target.
func (c *Context) Render() {
	c.renderer.End()
	c.input.EndFrame()
}

// ScreenSize returns the current coordinate space dimensions.
func (c *Context) ScreenSize() (float32, float32) {
	return c.renderer.ScreenSize()
}

// Destroy releases the context's resources.
func (c *Context) Destroy() {
	if c.renderer != nil {
		c.renderer.Destroy()
		c.renderer = nil
	}
}

const titleBarHeight = 14

// BeginWindow opens a draggable window and positions the layout
// cursor inside it.
func (c *Context) BeginWindow(id string, x, y, w, h float32, title string) {
	ws, ok := c.windows[id]
	if !ok {
		ws = &WindowState{ID: id, X: x, Y: y, W: w, H: h}
		c.windows[id] = ws
	} else if !ws.Moving {
		ws.W = w
		ws.H = h
	}
	c.currentWindow = ws

	titleBar := Rect{ws.X, ws.Y, ws.W, titleBarHeight}
	if c.input.MouseLeftPressed && titleBar.Contains(c.input.MouseX, c.input.MouseY) {
		ws.Moving = true
		c.activeWidget = id + "#titlebar"
	}
	if ws.Moving && c.input.MouseLeftDown {
		ws.X += c.input.MouseDeltaX
		ws.Y += c.input.MouseDeltaY
	}
	if c.input.MouseLeftReleased {
		ws.Moving = false
		if c.activeWidget == id+"#titlebar" {
			c.activeWidget = ""
		}
	}

	c.renderer.DrawPanel(ws.X, ws.Y, ws.W, ws.H, ColorPanelBg, ColorPanelBorder)
	c.renderer.DrawRect(ws.X+1, ws.Y+1, ws.W-2, titleBarHeight-1, ColorButtonNormal)

	_, textH := c.renderer.MeasureText(title, 1)
	c.renderer.DrawText(ws.X+4, ws.Y+(titleBarHeight-textH)/2, title, 1, ColorText)

	c.cursorX = ws.X + 4
	c.cursorY = ws.Y + titleBarHeight + 4
	c.rowH = 0
}

// EndWindow closes the current window scope.
func (c *Context) EndWindow() {
	c.currentWindow = nil
}

// Row starts a new layout row with the given height.
func (c *Context) Row(height float32) {
	if c.currentWindow == nil {
		return
	}
	c.cursorX = c.currentWindow.X + 4
	c.cursorY += c.rowH + 2
	c.rowH = height
}

// Button draws a button, reporting true on the press edge.
func (c *Context) Button(id string, width float32, label string) bool {
	if c.currentWindow == nil {
		return false
	}

	x, y := c.cursorX, c.cursorY
	h := c.rowH
	if h == 0 {
		h = 16
	}
	if width == 0 {
		width = c.currentWindow.W - 8
	}

	fullID := c.currentWindow.ID + "#" + id
	rect := Rect{x, y, width, h}
	hovered := rect.Contains(c.input.MouseX, c.input.MouseY)
	clicked := false

	if hovered {
		c.hotWidget = fullID
		if c.input.MouseLeftPressed {
			c.activeWidget = fullID
			clicked = true
		}
	}
	if c.activeWidget == fullID && c.input.MouseLeftReleased {
		c.activeWidget = ""
	}

	color := ColorButtonNormal
	if c.activeWidget == fullID {
		color = ColorButtonActive
	} else if hovered {
		color = ColorButtonHover
	}
	c.renderer.DrawRect(x, y, width, h, color)
	c.renderer.DrawRectOutline(x, y, width, h, 1, ColorPanelBorder)

	textW, textH := c.renderer.MeasureText(label, 1)
	c.renderer.DrawText(x+(width-textW)/2, y+(h-textH)/2, label, 1, ColorText)

	c.cursorX += width + 2
	return clicked
}

// Label draws left-aligned text in the theme color.
func (c *Context) Label(text string) {
	c.LabelColored(text, ColorText)
}

// LabelColored draws left-aligned text.
func (c *Context) LabelColored(text string, color Color) {
	if c.currentWindow == nil {
		return
	}
	c.renderer.DrawText(c.cursorX, c.cursorY, text, 1, color)
	w, _ := c.renderer.MeasureText(text, 1)
	c.cursorX += w + 2
}

// Checkbox draws a toggle box and returns the new value.
func (c *Context) Checkbox(id string, label string, checked bool) bool {
	if c.currentWindow == nil {
		return checked
	}

	x, y := c.cursorX, c.cursorY
	const boxSize = 12

	fullID := c.currentWindow.ID + "#" + id
	rect := Rect{x, y, boxSize, boxSize}
	hovered := rect.Contains(c.input.MouseX, c.input.MouseY)

	if hovered && c.input.MouseLeftPressed {
		c.activeWidget = fullID
	}
	if c.activeWidget == fullID && c.input.MouseLeftReleased {
		if hovered {
			checked = !checked
		}
		c.activeWidget = ""
	}

	bg := ColorButtonNormal
	if hovered {
		bg = ColorButtonHover
	}
	c.renderer.DrawRect(x, y, boxSize, boxSize, bg)
	c.renderer.DrawRectOutline(x, y, boxSize, boxSize, 1, ColorPanelBorder)
	if checked {
		c.renderer.DrawRect(x+3, y+3, boxSize-6, boxSize-6, ColorHighlight)
	}

	_, textH := c.renderer.MeasureText(label, 1)
	c.renderer.DrawText(x+boxSize+4, y+(boxSize-textH)/2, label, 1, ColorText)

	labelW, _ := c.renderer.MeasureText(label, 1)
	c.cursorX += boxSize + 4 + labelW + 4
	return checked
}

// ProgressBar draws a horizontal bar filled to fraction in [0, 1].
func (c *Context) ProgressBar(fraction, width, height float32, label string) {
	if c.currentWindow == nil {
		return
	}

	x, y := c.cursorX, c.cursorY
	if height == 0 {
		height = 12
	}
	if width == 0 {
		width = c.currentWindow.W - 8
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	c.renderer.DrawRect(x, y, width, height, ColorButtonNormal)
	c.renderer.DrawRectOutline(x, y, width, height, 1, ColorPanelBorder)
	fill := (width - 2) * fraction
	if fill > 0 {
		c.renderer.DrawRect(x+1, y+1, fill, height-2, ColorHighlight)
	}

	if label != "" {
		textW, textH := c.renderer.MeasureText(label, 1)
		c.renderer.DrawText(x+(width-textW)/2, y+(height-textH)/2, label, 1, ColorText)
	}

	c.cursorX = c.currentWindow.X + 4
	c.cursorY += height + 2
}

// Separator draws a horizontal rule across the window.
func (c *Context) Separator() {
	if c.currentWindow == nil {
		return
	}
	c.cursorY += c.rowH + 2
	c.rowH = 0
	x := c.currentWindow.X + 4
	c.renderer.DrawRect(x, c.cursorY, c.currentWindow.W-8, 1, ColorPanelBorder)
	c.cursorY += 4
	c.cursorX = x
}

// Spacer adds vertical space below the current row.
func (c *Context) Spacer(height float32) {
	c.cursorY += height
}

// Rect is an axis-aligned screen rectangle.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether a point falls inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}
