// Package tui presents a radar on a terminal with tcell. Every terminal cell
// shows two vertically stacked minimap pixels as an upper half block, so the
// minimap's pixel space is one column wide and half a row tall.
package tui

import (
	"image"
	"image/color"

	"github.com/Garsondee/radar/internal/radar"
)

// Snapshot is the presentable surface of a terminal host: the committed
// copy of the layer buffer that frames are drawn from.
type Snapshot struct {
	pix     []byte
	size    image.Point
	uploads int
}

var _ radar.Surface = (*Snapshot)(nil)

// NewSnapshot creates a surface matching a layer buffer of the given size.
func NewSnapshot(size image.Point) *Snapshot {
	return &Snapshot{pix: make([]byte, 4*size.X*size.Y), size: size}
}

// WritePixels replaces the snapshot with a full-buffer upload.
func (s *Snapshot) WritePixels(pix []byte) {
	if len(pix) != len(s.pix) {
		s.pix = make([]byte, len(pix))
	}
	copy(s.pix, pix)
	s.uploads++
}

// Uploads counts WritePixels calls.
func (s *Snapshot) Uploads() int { return s.uploads }

// Size is the snapshot extent in pixels.
func (s *Snapshot) Size() image.Point { return s.size }

// At reads a premultiplied pixel; points outside read as transparent.
func (s *Snapshot) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= s.size.X || y >= s.size.Y {
		return color.RGBA{}
	}
	i := (y*s.size.X + x) * 4
	if i+4 > len(s.pix) {
		return color.RGBA{}
	}
	return color.RGBA{R: s.pix[i], G: s.pix[i+1], B: s.pix[i+2], A: s.pix[i+3]}
}

// over composites premultiplied src over dst.
func over(dst, src color.RGBA) color.RGBA {
	k := 255 - uint16(src.A)
	return color.RGBA{
		R: src.R + uint8(uint16(dst.R)*k/255),
		G: src.G + uint8(uint16(dst.G)*k/255),
		B: src.B + uint8(uint16(dst.B)*k/255),
		A: src.A + uint8(uint16(dst.A)*k/255),
	}
}

// sample returns the layer pixel drawn at minimap pixel p, scaling the
// layer's source rectangle onto its destination with nearest neighbour.
func (s *Snapshot) sample(l radar.Layer, p image.Point) (color.RGBA, bool) {
	fx := float32(p.X) + 0.5 - l.Dst.X
	fy := float32(p.Y) + 0.5 - l.Dst.Y
	if fx < 0 || fy < 0 || fx >= l.Dst.W || fy >= l.Dst.H {
		return color.RGBA{}, false
	}
	sx := l.Src.Min.X + int(fx*float32(l.Src.Dx())/l.Dst.W)
	sy := l.Src.Min.Y + int(fy*float32(l.Src.Dy())/l.Dst.H)
	if !image.Pt(sx, sy).In(l.Src) {
		return color.RGBA{}, false
	}
	return s.At(sx, sy), true
}

// Compose blends every layer at minimap pixel p over opaque bg.
func (s *Snapshot) Compose(layers []radar.Layer, p image.Point, bg color.RGBA) color.RGBA {
	out := bg
	for _, l := range layers {
		if c, ok := s.sample(l, p); ok {
			out = over(out, c)
		}
	}
	return out
}
