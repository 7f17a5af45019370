// Package camera provides a 2D viewport that follows a point in the
// simulation world: the position a renderer would center on, and the
// zoom/visible-bounds math needed to place entities on screen.
package camera

// Camera controls the viewport into the simulation world. Unlike a
// wraparound world, the car track is plain Euclidean space with edges,
// so there is no toroidal wrapping to account for.
type Camera struct {
	// Position is the camera center in world coordinates.
	X, Y float64

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification).
	Zoom float64

	// Viewport dimensions (screen size).
	ViewportW, ViewportH float64

	// Zoom constraints.
	MinZoom, MaxZoom float64
}

// New creates a camera at the origin with 1:1 zoom.
func New(viewportW, viewportH float64) *Camera {
	return &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		Zoom:      1.0,
		MinZoom:   0.1,
		MaxZoom:   4.0,
	}
}

// Follow centers the camera on (x, y) — the convention Simulation uses
// for "camera tracks car i".
func (c *Camera) Follow(x, y float64) {
	c.X = x
	c.Y = y
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius could
// be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float64) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions, raising zoom to MinZoom if it is
// below it. MinZoom itself does not change.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
}

// SetZoom sets the zoom level, clamped to [MinZoom, MaxZoom].
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the origin at 1:1 zoom.
func (c *Camera) Reset() {
	c.X, c.Y = 0, 0
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible
// area: (minX, minY, maxX, maxY).
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float64) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
