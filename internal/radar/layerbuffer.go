package radar

import (
	"image"
	"image/color"
)

// Quadrant names one of the four fixed regions of the layer buffer.
type Quadrant uint8

const (
	QuadrantTerrain Quadrant = iota // top-left
	QuadrantShroud                  // top-right
	QuadrantActor                   // bottom-left
	QuadrantUnused                  // bottom-right
	quadrantCount                   // sentinel
)

// QuadrantName returns a short display name for a quadrant.
func QuadrantName(q Quadrant) string {
	switch q {
	case QuadrantTerrain:
		return "terrain"
	case QuadrantShroud:
		return "shroud"
	case QuadrantActor:
		return "actor"
	case QuadrantUnused:
		return "unused"
	default:
		return "unknown"
	}
}

// LayerBuffer is the packed RGBA pixel store for the three radar layers.
// Colours are alpha-premultiplied, as image/color.RGBA and ebiten expect.
type LayerBuffer struct {
	img     *image.RGBA
	regions [quadrantCount]image.Rectangle
	dirty   bool
}

// NewLayerBuffer allocates a buffer for a w x h preview. The backing image is
// the next power of two of (2w, 2h) so the four quadrants fit side by side.
func NewLayerBuffer(w, h int) *LayerBuffer {
	size := image.Pt(nextPowerOf2(2*w), nextPowerOf2(2*h))
	b := &LayerBuffer{img: image.NewRGBA(image.Rectangle{Max: size})}
	b.regions[QuadrantTerrain] = image.Rect(0, 0, w, h)
	b.regions[QuadrantShroud] = image.Rect(w, 0, 2*w, h)
	b.regions[QuadrantActor] = image.Rect(0, h, w, 2*h)
	b.regions[QuadrantUnused] = image.Rect(w, h, 2*w, 2*h)
	return b
}

// nextPowerOf2 returns the smallest power of two >= v (1 for v <= 1).
func nextPowerOf2(v int) int {
	p := 1
	for p < v {
		p <<= 1
	}
	return p
}

// Size is the full extent of the backing image.
func (b *LayerBuffer) Size() image.Point { return b.img.Rect.Size() }

// Region returns the buffer rectangle of a quadrant.
func (b *LayerBuffer) Region(q Quadrant) image.Rectangle {
	if q >= quadrantCount {
		return image.Rectangle{}
	}
	return b.regions[q]
}

// index returns the Pix offset of quadrant-local (u, v), or -1 when the
// point lies outside the quadrant.
func (b *LayerBuffer) index(q Quadrant, u, v int) int {
	if q >= quadrantCount {
		return -1
	}
	r := b.regions[q]
	if u < 0 || v < 0 || u >= r.Dx() || v >= r.Dy() {
		return -1
	}
	i := (r.Min.Y+v)*b.img.Stride + (r.Min.X+u)*4
	if i < 0 || i+4 > len(b.img.Pix) {
		return -1
	}
	return i
}

// Set writes c at quadrant-local (u, v). Points outside the quadrant are
// dropped: staggered rows legitimately overhang the quadrant edge.
func (b *LayerBuffer) Set(q Quadrant, u, v int, c color.RGBA) {
	i := b.index(q, u, v)
	if i < 0 {
		return
	}
	p := b.img.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
	b.dirty = true
}

// At reads quadrant-local (u, v); points outside the quadrant read as zero.
func (b *LayerBuffer) At(q Quadrant, u, v int) color.RGBA {
	i := b.index(q, u, v)
	if i < 0 {
		return color.RGBA{}
	}
	p := b.img.Pix[i : i+4 : i+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// ClearRegion zeroes a quadrant.
func (b *LayerBuffer) ClearRegion(q Quadrant) {
	b.FillRegion(q, color.RGBA{})
}

// FillRegion sets every pixel of a quadrant to c.
func (b *LayerBuffer) FillRegion(q Quadrant, c color.RGBA) {
	if q >= quadrantCount {
		return
	}
	r := b.regions[q]
	if r.Empty() {
		return
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := b.img.Pix[y*b.img.Stride+r.Min.X*4 : y*b.img.Stride+r.Max.X*4]
		for i := 0; i < len(row); i += 4 {
			row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, c.A
		}
	}
	b.dirty = true
}

// Dirty reports whether there are writes not yet committed.
func (b *LayerBuffer) Dirty() bool { return b.dirty }

// Commit uploads the buffer to s if anything changed since the last commit.
// It is the only operation that touches the surface.
func (b *LayerBuffer) Commit(s Surface) bool {
	if !b.dirty || s == nil {
		return false
	}
	s.WritePixels(b.img.Pix)
	b.dirty = false
	return true
}

// Image returns the backing image. Callers must treat it as read-only.
func (b *LayerBuffer) Image() *image.RGBA { return b.img }

// SubImage returns a read-only view of one quadrant.
func (b *LayerBuffer) SubImage(q Quadrant) *image.RGBA {
	return b.img.SubImage(b.Region(q)).(*image.RGBA)
}
