// Package camera provides the viewport transform between screen pixels and
// grid coordinates.
package camera

// Camera controls the viewport into the grid. Grid y grows upward while
// screen y grows downward; the camera does the flip.
//
// Grid coordinates place cell centres at integers, so cell (i, j) covers
// [i-0.5, i+0.5) × [j-0.5, j+0.5).
type Camera struct {
	// Centre of the view in cell-edge units ([0, GridW] × [0, GridH])
	X, Y float32

	// Zoom level on top of PointSize (1.0 = one cell per PointSize pixels)
	Zoom float32

	// Screen pixels per cell at zoom 1
	PointSize float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Grid dimensions in cells
	GridW, GridH float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centred on the grid with 1:1 zoom.
func New(viewportW, viewportH float32, gridW, gridH int, pointSize float32) *Camera {
	if pointSize <= 0 {
		pointSize = 1
	}
	c := &Camera{
		X:         float32(gridW) / 2,
		Y:         float32(gridH) / 2,
		Zoom:      1.0,
		PointSize: pointSize,
		GridW:     float32(gridW),
		GridH:     float32(gridH),
		MaxZoom:   8.0,
	}
	c.Resize(viewportW, viewportH)
	return c
}

// Scale returns screen pixels per cell at the current zoom.
func (c *Camera) Scale() float32 {
	return c.PointSize * c.Zoom
}

// GridToScreen converts grid coordinates to screen coordinates.
func (c *Camera) GridToScreen(gx, gy float32) (sx, sy float32) {
	s := c.Scale()
	sx = c.ViewportW/2 + (gx+0.5-c.X)*s
	sy = c.ViewportH/2 - (gy+0.5-c.Y)*s
	return sx, sy
}

// ScreenToGrid converts screen coordinates to grid coordinates.
func (c *Camera) ScreenToGrid(sx, sy float32) (gx, gy float32) {
	s := c.Scale()
	gx = c.X + (sx-c.ViewportW/2)/s - 0.5
	gy = c.Y - (sy-c.ViewportH/2)/s - 0.5
	return gx, gy
}

// CellAt returns the cell under a screen position and whether it lies on the grid.
func (c *Camera) CellAt(sx, sy float32) (x, y int, ok bool) {
	gx, gy := c.ScreenToGrid(sx, sy)
	x, y = int(floor(gx+0.5)), int(floor(gy+0.5))
	ok = x >= 0 && y >= 0 && float32(x) < c.GridW && float32(y) < c.GridH
	return x, y, ok
}

// IsVisible returns true if a circle at grid (gx, gy) with the given radius
// in cells could be visible on screen.
func (c *Camera) IsVisible(gx, gy, radius float32) bool {
	minX, minY, maxX, maxY := c.VisibleGridBounds()
	ex, ey := gx+0.5, gy+0.5
	return ex+radius >= minX && ex-radius <= maxX && ey+radius >= minY && ey-radius <= maxY
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH

	// At zoom Z the view spans viewport/(PointSize*Z) cells; never wider than the grid
	minZoomX := viewportW / (c.PointSize * c.GridW)
	minZoomY := viewportH / (c.PointSize * c.GridH)
	c.MinZoom = max(minZoomX, minZoomY)
	if c.MaxZoom < c.MinZoom {
		c.MaxZoom = c.MinZoom
	}
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	s := c.Scale()
	c.X += dx / s
	c.Y -= dy / s
	c.clampCentre()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.clampCentre()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.GridW / 2
	c.Y = c.GridH / 2
	c.SetZoom(1.0)
}

// VisibleGridBounds returns the visible area in cell-edge units.
func (c *Camera) VisibleGridBounds() (minX, minY, maxX, maxY float32) {
	s := c.Scale()
	halfW := c.ViewportW / (2 * s)
	halfH := c.ViewportH / (2 * s)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// clampCentre keeps the view inside the grid.
func (c *Camera) clampCentre() {
	s := c.Scale()
	halfW := c.ViewportW / (2 * s)
	halfH := c.ViewportH / (2 * s)
	c.X = clampAxis(c.X, halfW, c.GridW)
	c.Y = clampAxis(c.Y, halfH, c.GridH)
}

func clampAxis(centre, half, size float32) float32 {
	if 2*half >= size {
		return size / 2
	}
	return clamp(centre, half, size-half)
}

func floor(x float32) float32 {
	i := float32(int(x))
	if i > x {
		i--
	}
	return i
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
