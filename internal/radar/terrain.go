package radar

import "github.com/Garsondee/radar/internal/grid"

// terrainColorPair derives the radar colour of a cell. An initialised
// player overlay is authoritative; otherwise the topmost terrain layer that
// claims the cell wins over the map's base tile colour.
func (r *Radar) terrainColorPair(uv grid.MPos) ColorPair {
	if r.active != nil && r.active.Overlay != nil && r.active.Overlay.Initialized() {
		return r.active.Overlay.TerrainColorPair(uv)
	}
	for i := len(r.layers) - 1; i >= 0; i-- {
		if c, ok := r.layers[i].TerrainColorPair(uv); ok {
			return c
		}
	}
	return r.m.TerrainColorPair(uv)
}

// UpdateTerrainCell recomputes the terrain colour of exactly one cell.
func (r *Radar) UpdateTerrainCell(c grid.CPos) {
	uv := c.ToMPos(r.m.Grid())
	if !r.m.Contains(uv) {
		return
	}
	r.projector.WriteCell(r.buf, QuadrantTerrain, uv, r.terrainColorPair(uv))
	r.stats.TerrainUpdates++
}

// reprimeTerrain revisits every cell of the preview.
func (r *Radar) reprimeTerrain() {
	b := r.projector.Projection().Bounds
	for v := b.Min.Y; v < b.Max.Y; v++ {
		for u := b.Min.X; u < b.Max.X; u++ {
			uv := grid.MPos{U: u, V: v}
			if !r.m.Contains(uv) {
				continue
			}
			r.projector.WriteCell(r.buf, QuadrantTerrain, uv, r.terrainColorPair(uv))
		}
	}
}
