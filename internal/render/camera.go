package render

import "math"

// Camera looks straight down the Y axis. World X runs along screen columns
// and world Z along rows, so forward (-Z) is up on screen. One world unit is
// one cell, two columns wide because glyphs are emoji.
type Camera struct {
	CenterX, CenterZ float32
	Width            int // in terminal columns
	Height           int // in terminal rows
}

// NewCamera creates a camera centred on the origin.
func NewCamera(viewW, viewH int) *Camera {
	return &Camera{Width: viewW, Height: viewH}
}

// Center moves the camera so that (x, z) is in the middle of the view.
func (c *Camera) Center(x, z float32) {
	c.CenterX, c.CenterZ = x, z
}

// Resize changes the viewport.
func (c *Camera) Resize(viewW, viewH int) {
	c.Width, c.Height = viewW, viewH
}

// cell rounds a world position to its grid cell.
func cell(f float32) int {
	return int(math.Floor(float64(f) + 0.5))
}

// WorldToScreen converts world (x, z) to screen (sx, sy). visible is false
// when the result falls outside the viewport.
func (c *Camera) WorldToScreen(x, z float32) (sx, sy int, visible bool) {
	sx = (cell(x)-cell(c.CenterX))*2 + (c.Width/4)*2
	sy = cell(z) - cell(c.CenterZ) + c.Height/2
	visible = sx >= 0 && sx+1 < c.Width && sy >= 0 && sy < c.Height
	return
}

// ScreenToWorld converts a screen cell back to the world cell under it.
func (c *Camera) ScreenToWorld(sx, sy int) (x, z int) {
	return (sx-(c.Width/4)*2)/2 + cell(c.CenterX), sy - c.Height/2 + cell(c.CenterZ)
}
