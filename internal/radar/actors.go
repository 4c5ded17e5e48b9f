package radar

import "github.com/Garsondee/radar/internal/grid"

// UpdateSignatures rebuilds the actor quadrant from scratch. Positions change
// every tick and the population is small next to the map, so a clear and
// full redraw is cheaper than tracking what moved.
func (r *Radar) UpdateSignatures() {
	r.buf.ClearRegion(QuadrantActor)
	if r.actors == nil {
		return
	}
	gt := r.m.Grid()
	for _, a := range r.actors.RadarActors() {
		if r.actors.FogObscures(a) {
			continue
		}
		r.signatures = a.RadarSignature(r.signatures[:0])
		mod, hasMod := a.(ColorModifier)
		for _, s := range r.signatures {
			c := s.Color
			if hasMod {
				c = mod.RadarColorOverride(c)
			}
			r.projector.WriteCell(r.buf, QuadrantActor, s.Cell.ToMPos(gt), Solid(c))
			r.stats.SignatureWrites++
		}
	}
	// Entries live for one tick only.
	clear(r.signatures)
	r.signatures = r.signatures[:0]
}

// SignatureAt returns the actor layer colour of a cell; for tests and tools.
func (r *Radar) SignatureAt(c grid.CPos) (ColorPair, bool) {
	return r.pixelPair(QuadrantActor, c.ToMPos(r.m.Grid()))
}

// ShroudAt returns the shroud layer colour of a cell.
func (r *Radar) ShroudAt(c grid.CPos) (ColorPair, bool) {
	return r.pixelPair(QuadrantShroud, c.ToMPos(r.m.Grid()))
}

// TerrainAt returns the terrain layer colour of a cell.
func (r *Radar) TerrainAt(c grid.CPos) (ColorPair, bool) {
	return r.pixelPair(QuadrantTerrain, c.ToMPos(r.m.Grid()))
}

// pixelPair reads back the pixels a cell was written to. ok is false when the
// cell's primary texel lies outside the quadrant.
func (r *Radar) pixelPair(q Quadrant, uv grid.MPos) (ColorPair, bool) {
	t := r.projector.Texel(uv)
	if r.buf.index(q, t.X, t.Y) < 0 {
		return ColorPair{}, false
	}
	right := r.buf.At(q, t.X, t.Y)
	if r.projector.CellPixelWidth() == 1 {
		return Solid(right), true
	}
	return ColorPair{Left: r.buf.At(q, t.X-1, t.Y), Right: right}, true
}
