package render

import (
	"math"

	"github.com/1siamBot/rts-sim/engine/maplib"
)

// Camera is a top-down viewport onto the ground plane. Screen x follows world
// x and screen y follows world z.
type Camera struct {
	X, Z       float64 // world position at the screen center
	Zoom       float64 // pixels per world unit
	MinZoom    float64
	MaxZoom    float64
	ScreenW    int
	ScreenH    int
	Speed      float64 // pan speed, screen pixels per second
	EdgeScroll bool
	EdgeSize   int // edge scroll trigger zone in pixels
}

// NewCamera creates a camera that fits the whole map on screen
func NewCamera(screenW, screenH int) *Camera {
	fit := float64(min(screenW, screenH)) / maplib.GameSize
	return &Camera{
		Zoom:       fit,
		MinZoom:    fit / 2,
		MaxZoom:    fit * 6,
		ScreenW:    screenW,
		ScreenH:    screenH,
		Speed:      600,
		EdgeScroll: true,
		EdgeSize:   16,
	}
}

// Pan moves the camera by a screen pixel delta
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx / c.Zoom
	c.Z += dy / c.Zoom
	c.clamp()
}

// SetZoom sets the zoom level within limits
func (c *Camera) SetZoom(z float64) {
	c.Zoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, z))
}

// ZoomAt zooms by a factor while keeping the world point under the cursor fixed
func (c *Camera) ZoomAt(factor float64, sx, sy int) {
	before := c.ScreenToWorld(sx, sy)
	c.SetZoom(c.Zoom * factor)
	after := c.ScreenToWorld(sx, sy)
	c.X += before.X - after.X
	c.Z += before.Z - after.Z
	c.clamp()
}

// CenterOn centers the camera on a world position
func (c *Camera) CenterOn(p maplib.Vec) {
	c.X, c.Z = p.X, p.Z
	c.clamp()
}

// WorldToScreen converts a world position to screen pixels
func (c *Camera) WorldToScreen(p maplib.Vec) (float32, float32) {
	sx := (p.X-c.X)*c.Zoom + float64(c.ScreenW)/2
	sy := (p.Z-c.Z)*c.Zoom + float64(c.ScreenH)/2
	return float32(sx), float32(sy)
}

// ScreenToWorld converts screen pixels to a world position
func (c *Camera) ScreenToWorld(sx, sy int) maplib.Vec {
	return maplib.Vec{
		X: (float64(sx)-float64(c.ScreenW)/2)/c.Zoom + c.X,
		Z: (float64(sy)-float64(c.ScreenH)/2)/c.Zoom + c.Z,
	}
}

// Scale converts a world length to pixels
func (c *Camera) Scale(d float64) float32 { return float32(d * c.Zoom) }

// VisibleTileRange returns the inclusive range of on-map tiles covering the screen
func (c *Camera) VisibleTileRange() (lo, hi maplib.Tile) {
	lo = maplib.WorldToTile(c.ScreenToWorld(0, 0))
	hi = maplib.WorldToTile(c.ScreenToWorld(c.ScreenW, c.ScreenH))
	lo.X, lo.Z = max(lo.X, 0), max(lo.Z, 0)
	hi.X, hi.Z = min(hi.X, maplib.MapSize-1), min(hi.Z, maplib.MapSize-1)
	return lo, hi
}

// clamp keeps the camera center on the map
func (c *Camera) clamp() {
	const half = maplib.GameSize / 2
	c.X = math.Max(-half, math.Min(half, c.X))
	c.Z = math.Max(-half, math.Min(half, c.Z))
}
