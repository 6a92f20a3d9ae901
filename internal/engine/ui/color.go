package ui

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Theme colors used by the built-in widgets.
var (
	ColorTransparent = Color{0, 0, 0, 0}

	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
	ColorRed   = Color{1, 0, 0, 1}
	ColorGreen = Color{0, 1, 0, 1}

	ColorPanelBg      = Color{0.08, 0.08, 0.12, 0.9}
	ColorPanelBorder  = Color{0.3, 0.3, 0.4, 1}
	ColorButtonNormal = Color{0.15, 0.15, 0.2, 1}
	ColorButtonHover  = Color{0.25, 0.25, 0.35, 1}
	ColorButtonActive = Color{0.1, 0.3, 0.5, 1}
	ColorText         = Color{0.9, 0.9, 0.9, 1}
	ColorTextDim      = Color{0.5, 0.5, 0.6, 1}
	ColorHighlight    = Color{0.2, 0.6, 0.9, 1}
)

// RGBA builds a color from 8-bit channel values.
func RGBA(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: float32(a) / 255.0,
	}
}

// WithAlpha returns the color with a different alpha.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}

// Darken scales the color toward black.
func (c Color) Darken(factor float32) Color {
	return Color{
		R: c.R * (1 - factor),
		G: c.G * (1 - factor),
		B: c.B * (1 - factor),
		A: c.A,
	}
}
