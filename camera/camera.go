// Package camera provides a 2D pan/zoom camera over a tileable height map.
package camera

import "math"

// maxTilesAcross bounds how far the camera may zoom out, in map repeats.
const maxTilesAcross = 4

// Point is a screen or world position.
type Point struct{ X, Y float32 }

// Camera controls the viewport into a toroidal map.
// The map repeats forever in both directions, so panning never hits an edge.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = one cell per CellSize pixels)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Map dimensions in world units (side * cell size)
	WorldW, WorldH float32

	// Cells per side and world units per cell
	Side     int
	CellSize float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on a side x side map with 1:1 zoom.
func New(viewportW, viewportH float32, side int, cellSize float32) *Camera {
	world := float32(side) * cellSize
	c := &Camera{
		X:         world / 2,
		Y:         world / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    world,
		WorldH:    world,
		Side:      side,
		CellSize:  cellSize,
		MaxZoom:   16.0,
	}
	c.MinZoom = c.minZoom()
	return c
}

// SetMap swaps in a map of a different side, keeping the relative position.
func (c *Camera) SetMap(side int) {
	if side == c.Side {
		return
	}
	fx, fy := c.X/c.WorldW, c.Y/c.WorldH
	c.Side = side
	c.WorldW = float32(side) * c.CellSize
	c.WorldH = c.WorldW
	c.X, c.Y = fx*c.WorldW, fy*c.WorldH
	c.MinZoom = c.minZoom()
	c.SetZoom(c.Zoom)
}

// minZoom keeps at most maxTilesAcross repeats of the map on screen.
func (c *Camera) minZoom() float32 {
	zx := c.ViewportW / (maxTilesAcross * c.WorldW)
	zy := c.ViewportH / (maxTilesAcross * c.WorldH)
	if zy > zx {
		return zy
	}
	return zx
}

// WorldToScreen converts world coordinates to screen coordinates using the
// nearest toroidal copy of the point.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx := toroidalDelta(wx, c.X, c.WorldW)
	dy := toroidalDelta(wy, c.Y, c.WorldH)

	sx = c.ViewportW/2 + dx*c.Zoom
	sy = c.ViewportH/2 + dy*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to wrapped world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	dx := (sx - c.ViewportW/2) / c.Zoom
	dy := (sy - c.ViewportH/2) / c.Zoom

	wx = mod(c.X+dx, c.WorldW)
	wy = mod(c.Y+dy, c.WorldH)
	return wx, wy
}

// ScreenToCell returns the map cell under a screen position.
func (c *Camera) ScreenToCell(sx, sy float32) (x, y int) {
	wx, wy := c.ScreenToWorld(sx, sy)
	x = int(wx / c.CellSize)
	y = int(wy / c.CellSize)

	// Float rounding at the far edge
	if x >= c.Side {
		x = c.Side - 1
	}
	if y >= c.Side {
		y = c.Side - 1
	}
	return x, y
}

// TileOrigins returns the screen positions of the top-left corner of every
// map copy that overlaps the viewport.
func (c *Camera) TileOrigins() []Point {
	minX, minY, maxX, maxY := c.VisibleWorldBounds()

	x0 := int(math.Floor(float64(minX / c.WorldW)))
	x1 := int(math.Floor(float64(maxX / c.WorldW)))
	y0 := int(math.Floor(float64(minY / c.WorldH)))
	y1 := int(math.Floor(float64(maxY / c.WorldH)))

	origins := make([]Point, 0, (x1-x0+1)*(y1-y0+1))
	for ty := y0; ty <= y1; ty++ {
		for tx := x0; tx <= x1; tx++ {
			origins = append(origins, Point{
				X: c.ViewportW/2 + (float32(tx)*c.WorldW-c.X)*c.Zoom,
				Y: c.ViewportH/2 + (float32(ty)*c.WorldH-c.Y)*c.Zoom,
			})
		}
	}
	return origins
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.minZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// Pan moves the camera by the given delta in screen pixels.
// Automatically wraps around world boundaries.
func (c *Camera) Pan(dx, dy float32) {
	c.X = mod(c.X+dx/c.Zoom, c.WorldW)
	c.Y = mod(c.Y+dy/c.Zoom, c.WorldH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.SetZoom(1.0)
}

// VisibleWorldBounds returns the unwrapped world-coordinate bounds of the
// visible area. Values may fall outside [0, WorldW) when the view spans copies.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// in a toroidal space of the given size.
func toroidalDelta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
