package radar

import (
	"image/color"

	"github.com/Garsondee/radar/internal/grid"
)

// shroudColor maps the active player's visibility of p onto a layer colour.
func (r *Radar) shroudColor(p grid.PPos) color.RGBA {
	if r.active == nil || r.active.Shroud == nil {
		return color.RGBA{}
	}
	switch r.active.Shroud.Visibility(p) {
	case Unexplored:
		return r.cfg.ShroudColor
	case Explored:
		return r.cfg.FogColor
	default:
		return color.RGBA{}
	}
}

// UpdateShroudCell rewrites every map cell that projects onto p. A projected
// cell with nothing under it is skipped.
func (r *Radar) UpdateShroudCell(p grid.PPos) {
	r.stats.ShroudUpdates++
	cells := r.m.Unproject(p)
	if len(cells) == 0 {
		return
	}
	c := Solid(r.shroudColor(p))
	for _, uv := range cells {
		r.projector.WriteCell(r.buf, QuadrantShroud, uv, c)
	}
}

// reprimeShroud redraws the whole shroud quadrant for the active viewpoint.
// Without a shroud source the quadrant is cleared rather than left stale.
func (r *Radar) reprimeShroud() {
	r.buf.ClearRegion(QuadrantShroud)
	if r.active == nil || r.active.Shroud == nil {
		return
	}
	b := r.m.Bounds()
	for v := b.Min.Y; v < b.Max.Y; v++ {
		for u := b.Min.X; u < b.Max.X; u++ {
			p := grid.PPos{U: u, V: v}
			c := Solid(r.shroudColor(p))
			for _, uv := range r.m.Unproject(p) {
				r.projector.WriteCell(r.buf, QuadrantShroud, uv, c)
			}
		}
	}
}
