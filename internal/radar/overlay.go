package radar

import (
	"image"
	"image/color"
	"math"

	"github.com/Garsondee/radar/internal/grid"
)

// PointF is a screen position with sub-pixel precision.
type PointF struct{ X, Y float32 }

// RectF is a screen rectangle with sub-pixel precision.
type RectF struct{ X, Y, W, H float32 }

// Layer is one textured quad to draw: Src is the quadrant in the layer
// buffer, Dst where it lands on screen.
type Layer struct {
	Quadrant Quadrant
	Src      image.Rectangle
	Dst      RectF
}

// Layers returns the quads to draw this frame, in blend order terrain,
// actor, shroud. The shroud quad is omitted when there is no player. The
// vertical extent is scaled by the reveal factor and kept centred.
func (r *Radar) Layers() []Layer {
	p := r.projector.Projection()
	size := r.projector.PreviewSize()
	reveal := r.anim.Reveal()

	fullH := p.Scale * float64(size.Y)
	dst := RectF{
		X: float32(p.MapRect.Min.X),
		Y: float32(float64(p.MapRect.Min.Y) + fullH*(1-reveal)/2),
		W: float32(p.Scale * float64(size.X)),
		H: float32(fullH * reveal),
	}

	out := []Layer{
		{Quadrant: QuadrantTerrain, Src: r.buf.Region(QuadrantTerrain), Dst: dst},
		{Quadrant: QuadrantActor, Src: r.buf.Region(QuadrantActor), Dst: dst},
	}
	if r.active != nil && r.active.Shroud != nil {
		out = append(out, Layer{Quadrant: QuadrantShroud, Src: r.buf.Region(QuadrantShroud), Dst: dst})
	}
	return out
}

// PingMarker is a projected radar ping triangle.
type PingMarker struct {
	Points [3]PointF
	Color  color.RGBA
}

// Overlay is the per-frame line geometry drawn over the layers, clipped to
// Clip.
type Overlay struct {
	Clip     image.Rectangle
	Viewport image.Rectangle
	Pings    []PingMarker
}

// Overlay projects the main view's visible region and the active pings onto
// the minimap. ok is false while the radar is not fully open.
func (r *Radar) Overlay() (Overlay, bool) {
	if !r.HasRadar() {
		return Overlay{}, false
	}
	o := Overlay{Clip: r.MapRect()}
	gt := r.m.Grid()

	if r.viewport != nil {
		tl, br := r.viewport.VisibleWorldBounds()
		o.Viewport = image.Rectangle{
			Min: r.CellToMinimapPixel(grid.CellContaining(gt, tl)),
			Max: r.CellToMinimapPixel(grid.CellContaining(gt, br)),
		}
	}

	if r.pings != nil {
		for _, ping := range r.pings.VisiblePings() {
			center := r.CellToMinimapPixel(grid.CellContaining(gt, ping.Position))
			o.Pings = append(o.Pings, PingMarker{
				Points: pingTriangle(center, ping.Radius, ping.Angle),
				Color:  ping.Color,
			})
		}
	}
	return o, true
}

// pingTriangle returns an equilateral triangle of the given circumradius
// around center, rotated by angle.
func pingTriangle(center image.Point, radius, angle float64) [3]PointF {
	var pts [3]PointF
	for i := range pts {
		a := angle + float64(i)*2*math.Pi/3
		pts[i] = PointF{
			X: float32(float64(center.X) + radius*math.Cos(a)),
			Y: float32(float64(center.Y) + radius*math.Sin(a)),
		}
	}
	return pts
}
