package radar

import (
	"image"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/radar/internal/grid"
)

// Projection is the per-instance state shared by both projector variants.
type Projection struct {
	Grid grid.Type
	// Bounds is the range of map cells drawn on the minimap, Max exclusive.
	Bounds image.Rectangle
	// Scale is screen pixels per preview pixel.
	Scale float64
	// MapRect is the on-screen rectangle the preview is fitted into.
	MapRect image.Rectangle
}

// Origin is the top-left screen pixel of the preview.
func (p Projection) Origin() image.Point { return p.MapRect.Min }

// Projector maps between map cells and minimap pixels for one grid topology.
type Projector interface {
	Projection() Projection
	// CellPixelWidth is the number of preview pixel columns a cell spans.
	CellPixelWidth() int
	// PreviewSize is the size in preview pixels of one buffer quadrant.
	PreviewSize() image.Point
	// CellToPixel returns the screen pixel at the top-left of a cell.
	CellToPixel(uv grid.MPos) image.Point
	// PixelToCell returns the cell under a screen pixel.
	PixelToCell(p image.Point) grid.MPos
	// Texel is the quadrant-local pixel that carries the cell's colour.
	Texel(uv grid.MPos) image.Point
	// WriteCell writes a cell's colour into a buffer quadrant.
	WriteCell(buf *LayerBuffer, q Quadrant, uv grid.MPos, c ColorPair)
}

// NewProjector returns the projector variant for p.Grid.
func NewProjector(p Projection) Projector {
	if p.Grid == grid.Staggered {
		return staggeredProjector{p}
	}
	return rectangularProjector{p}
}

// scaled converts a preview offset into a screen offset, rounding up so the
// pixel lands inside the cell it came from.
func scaled(scale float64, k int) int {
	return int(math.Ceil(scale*float64(k) - 1e-9))
}

// unscaled converts a screen offset back into a preview offset.
func unscaled(scale float64, d int) int {
	return int(math.Floor(float64(d) / scale))
}

// --- rectangular ---

type rectangularProjector struct{ p Projection }

func (r rectangularProjector) Projection() Projection { return r.p }
func (r rectangularProjector) CellPixelWidth() int    { return 1 }

func (r rectangularProjector) PreviewSize() image.Point {
	return image.Pt(r.p.Bounds.Dx(), r.p.Bounds.Dy())
}

func (r rectangularProjector) CellToPixel(uv grid.MPos) image.Point {
	o := r.p.Origin()
	return image.Pt(
		o.X+scaled(r.p.Scale, uv.U-r.p.Bounds.Min.X),
		o.Y+scaled(r.p.Scale, uv.V-r.p.Bounds.Min.Y))
}

func (r rectangularProjector) PixelToCell(p image.Point) grid.MPos {
	o := r.p.Origin()
	return grid.MPos{
		U: unscaled(r.p.Scale, p.X-o.X) + r.p.Bounds.Min.X,
		V: unscaled(r.p.Scale, p.Y-o.Y) + r.p.Bounds.Min.Y,
	}
}

func (r rectangularProjector) Texel(uv grid.MPos) image.Point {
	return image.Pt(uv.U-r.p.Bounds.Min.X, uv.V-r.p.Bounds.Min.Y)
}

func (r rectangularProjector) WriteCell(buf *LayerBuffer, q Quadrant, uv grid.MPos, c ColorPair) {
	t := r.Texel(uv)
	buf.Set(q, t.X, t.Y, c.Left)
}

// --- staggered ---

// staggeredProjector draws each cell two pixels wide; odd rows are shifted
// one pixel right so the rows interlock into a diamond layout.
type staggeredProjector struct{ p Projection }

func (s staggeredProjector) Projection() Projection { return s.p }
func (s staggeredProjector) CellPixelWidth() int    { return 2 }

func (s staggeredProjector) PreviewSize() image.Point {
	return image.Pt(2*s.p.Bounds.Dx()-1, s.p.Bounds.Dy())
}

func (s staggeredProjector) CellToPixel(uv grid.MPos) image.Point {
	o := s.p.Origin()
	return image.Pt(
		o.X+scaled(s.p.Scale, 2*(uv.U-s.p.Bounds.Min.X))+(uv.V&1),
		o.Y+scaled(s.p.Scale, uv.V-s.p.Bounds.Min.Y))
}

// PixelToCell is only accurate to one cell: the odd-row shift is a whole
// screen pixel regardless of scale, so pixels near a cell edge can resolve to
// the horizontal neighbour.
func (s staggeredProjector) PixelToCell(p image.Point) grid.MPos {
	o := s.p.Origin()
	v := unscaled(s.p.Scale, p.Y-o.Y) + s.p.Bounds.Min.Y
	u := unscaled(2*s.p.Scale, p.X-o.X-(v&1)) + s.p.Bounds.Min.X
	return grid.MPos{U: u, V: v}
}

func (s staggeredProjector) Texel(uv grid.MPos) image.Point {
	return image.Pt(2*(uv.U-s.p.Bounds.Min.X)+(uv.V&1), uv.V-s.p.Bounds.Min.Y)
}

func (s staggeredProjector) WriteCell(buf *LayerBuffer, q Quadrant, uv grid.MPos, c ColorPair) {
	t := s.Texel(uv)
	// The first column of even rows and the last of odd rows fall outside
	// the quadrant; Set clips them.
	buf.Set(q, t.X-1, t.Y, c.Left)
	buf.Set(q, t.X, t.Y, c.Right)
}

// previewBounds returns the range of map cells that can appear on the
// minimap. On maps with terrain height the top and bottom projected rows are
// unprojected column by column; an edge with no candidates falls back to the
// raw bound. The fallback is an approximation for height at the border.
func previewBounds(m Map, log logrus.FieldLogger) image.Rectangle {
	b := m.Bounds()
	if m.MaximumTerrainHeight() == 0 {
		return b
	}

	top := math.MaxInt
	bottom := math.MinInt
	for x := b.Min.X; x < b.Max.X; x++ {
		for _, uv := range m.Unproject(grid.PPos{U: x, V: b.Min.Y}) {
			if uv.V < top {
				top = uv.V
			}
		}
		for _, uv := range m.Unproject(grid.PPos{U: x, V: b.Max.Y - 1}) {
			if uv.V+1 > bottom {
				bottom = uv.V + 1
			}
		}
	}

	if top == math.MaxInt {
		log.WithField("edge", "top").Debug("radar: no cells unproject onto edge, using map bounds")
		top = b.Min.Y
	}
	if bottom == math.MinInt {
		log.WithField("edge", "bottom").Debug("radar: no cells unproject onto edge, using map bounds")
		bottom = b.Max.Y
	}
	return image.Rect(b.Min.X, top, b.Max.X, bottom)
}

// fitProjection scales the preview of bounds into renderBounds, centred.
func fitProjection(gt grid.Type, bounds, renderBounds image.Rectangle) Projection {
	p := Projection{Grid: gt, Bounds: bounds}
	size := NewProjector(p).PreviewSize()
	if size.X <= 0 || size.Y <= 0 || renderBounds.Empty() {
		return p
	}
	sx := float64(renderBounds.Dx()) / float64(size.X)
	sy := float64(renderBounds.Dy()) / float64(size.Y)
	p.Scale = math.Min(sx, sy)

	w := int(math.Ceil(p.Scale * float64(size.X)))
	h := int(math.Ceil(p.Scale * float64(size.Y)))
	ox := renderBounds.Min.X + (renderBounds.Dx()-w)/2
	oy := renderBounds.Min.Y + (renderBounds.Dy()-h)/2
	p.MapRect = image.Rect(ox, oy, ox+w, oy+h)
	return p
}
