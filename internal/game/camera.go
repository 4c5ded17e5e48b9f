package game

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/radar/internal/grid"
)

// Camera is the main world view. It maps world units onto a screen
// rectangle and is the viewport the minimap recentres.
type Camera struct {
	X, Y float64 // world position at the centre of View
	Zoom float64 // screen pixels per world unit

	View   image.Rectangle // screen rectangle the world is drawn into
	Extent image.Rectangle // world area the centre is clamped to
}

const (
	zoomMin = 4.0 / grid.WorldCellSize  // 4 px per cell
	zoomMax = 96.0 / grid.WorldCellSize // 96 px per cell
)

// worldExtent returns the world-space rectangle covered by a map of
// cols x rows storage cells.
func worldExtent(t grid.Type, cols, rows int) image.Rectangle {
	if t == grid.Rectangular {
		return image.Rect(0, 0, cols*grid.WorldCellSize, rows*grid.WorldCellSize)
	}
	// Staggered rows are 724 world units apart and hold cells 1448 apart.
	return image.Rect(0, 0, 724*(2*cols+2), 724*(rows+2))
}

// Center moves the view centre to pos, clamped to the extent.
func (c *Camera) Center(pos grid.WPos) {
	c.X, c.Y = float64(pos.X), float64(pos.Y)
	c.clamp()
}

// Pan moves the centre by a screen-pixel delta.
func (c *Camera) Pan(dx, dy float64) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.clamp()
}

// ZoomBy multiplies the zoom, clamped.
func (c *Camera) ZoomBy(f float64) {
	c.Zoom = math.Max(zoomMin, math.Min(zoomMax, c.Zoom*f))
}

func (c *Camera) clamp() {
	if c.Extent.Empty() {
		return
	}
	c.X = math.Max(float64(c.Extent.Min.X), math.Min(float64(c.Extent.Max.X), c.X))
	c.Y = math.Max(float64(c.Extent.Min.Y), math.Min(float64(c.Extent.Max.Y), c.Y))
}

func (c *Camera) viewCenter() (float64, float64) {
	return float64(c.View.Min.X) + float64(c.View.Dx())/2,
		float64(c.View.Min.Y) + float64(c.View.Dy())/2
}

// WorldToViewPx projects a world position to a screen pixel:
//
//	screen = (world - cam) * zoom + viewCentre
func (c *Camera) WorldToViewPx(pos grid.WPos) image.Point {
	x, y := c.worldToScreen(float64(pos.X), float64(pos.Y))
	return image.Pt(int(math.Floor(x)), int(math.Floor(y)))
}

func (c *Camera) worldToScreen(wx, wy float64) (float64, float64) {
	cx, cy := c.viewCenter()
	return (wx-c.X)*c.Zoom + cx, (wy-c.Y)*c.Zoom + cy
}

// ScreenToWorld is the inverse of WorldToViewPx:
//
//	world = (screen - viewCentre) / zoom + cam
func (c *Camera) ScreenToWorld(p image.Point) grid.WPos {
	cx, cy := c.viewCenter()
	return grid.WPos{
		X: int(math.Round((float64(p.X)-cx)/c.Zoom + c.X)),
		Y: int(math.Round((float64(p.Y)-cy)/c.Zoom + c.Y)),
	}
}

// VisibleWorldBounds returns the world positions under the top-left and
// bottom-right corners of the view.
func (c *Camera) VisibleWorldBounds() (topLeft, bottomRight grid.WPos) {
	return c.ScreenToWorld(c.View.Min), c.ScreenToWorld(c.View.Max)
}

// GeoM returns the world-to-screen transform for DrawImage.
func (c *Camera) GeoM() ebiten.GeoM {
	cx, cy := c.viewCenter()
	var m ebiten.GeoM
	m.Translate(-c.X, -c.Y)
	m.Scale(c.Zoom, c.Zoom)
	m.Translate(cx, cy)
	return m
}
