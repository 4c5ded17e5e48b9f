package world

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/colornames"

	"github.com/Garsondee/radar/internal/grid"
	"github.com/Garsondee/radar/internal/radar"
)

// TerrainType identifies the surface of a map cell.
type TerrainType uint8

const (
	TerrainClear     TerrainType = iota // Open ground
	TerrainRough                        // Broken ground, scrub
	TerrainRoad                         // Paved road
	TerrainWater                        // Lakes and rivers
	TerrainBeach                        // Shoreline sand
	TerrainRock                         // Cliffs and boulders
	TerrainTree                         // Woodland
	terrainTypeCount                    // sentinel
)

// TerrainTypeName returns a short display name for a terrain type.
func TerrainTypeName(t TerrainType) string {
	switch t {
	case TerrainClear:
		return "clear"
	case TerrainRough:
		return "rough"
	case TerrainRoad:
		return "road"
	case TerrainWater:
		return "water"
	case TerrainBeach:
		return "beach"
	case TerrainRock:
		return "rock"
	case TerrainTree:
		return "tree"
	default:
		return "unknown"
	}
}

// terrainColors returns the radar colour range of a terrain type. Staggered
// maps paint the left half of a cell with the first colour and the right half
// with the second.
func terrainColors(t TerrainType) (lo, hi color.RGBA) {
	switch t {
	case TerrainClear:
		return colornames.Darkolivegreen, colornames.Olivedrab
	case TerrainRough:
		return colornames.Darkkhaki, colornames.Tan
	case TerrainRoad:
		return colornames.Dimgray, colornames.Gray
	case TerrainWater:
		return colornames.Steelblue, colornames.Cornflowerblue
	case TerrainBeach:
		return colornames.Wheat, colornames.Burlywood
	case TerrainRock:
		return colornames.Slategray, colornames.Lightslategray
	case TerrainTree:
		return colornames.Darkgreen, colornames.Forestgreen
	default:
		return colornames.Black, colornames.Black
	}
}

// Tile is one cell of the map.
type Tile struct {
	Type   TerrainType
	Height int
}

// TileMap is the authoritative per-cell terrain, stored by map coordinate.
type TileMap struct {
	grid      grid.Type
	Cols      int
	Rows      int
	Tiles     []Tile // row-major: index = v*Cols + u
	maxHeight int

	// Radar brightness at height 0 and at the maximum height.
	MinBrightness float64
	MaxBrightness float64

	changed grid.Notifier[grid.CPos]
	bounds  grid.Notifier[struct{}]
	inverse map[grid.PPos][]grid.MPos // built on demand when heights exist
}

// NewTileMap creates a flat map of clear terrain.
func NewTileMap(gt grid.Type, cols, rows, maxHeight int) *TileMap {
	if maxHeight < 0 {
		maxHeight = 0
	}
	return &TileMap{
		grid:          gt,
		Cols:          cols,
		Rows:          rows,
		Tiles:         make([]Tile, cols*rows),
		maxHeight:     maxHeight,
		MinBrightness: 1,
		MaxBrightness: 1,
	}
}

func (tm *TileMap) Grid() grid.Type { return tm.grid }

// Bounds is the projected area of the map.
func (tm *TileMap) Bounds() image.Rectangle { return image.Rect(0, 0, tm.Cols, tm.Rows) }

func (tm *TileMap) MaximumTerrainHeight() int { return tm.maxHeight }

// Contains reports whether uv is a cell of the map.
func (tm *TileMap) Contains(uv grid.MPos) bool {
	return uv.U >= 0 && uv.U < tm.Cols && uv.V >= 0 && uv.V < tm.Rows
}

// ContainsCell reports whether the cell lies on the map.
func (tm *TileMap) ContainsCell(c grid.CPos) bool { return tm.Contains(c.ToMPos(tm.grid)) }

// At returns the tile at uv, or nil if out of bounds.
func (tm *TileMap) At(uv grid.MPos) *Tile {
	if !tm.Contains(uv) {
		return nil
	}
	return &tm.Tiles[uv.V*tm.Cols+uv.U]
}

// TypeAt returns the terrain of a cell; off-map cells read as clear.
func (tm *TileMap) TypeAt(c grid.CPos) TerrainType {
	if t := tm.At(c.ToMPos(tm.grid)); t != nil {
		return t.Type
	}
	return TerrainClear
}

// HeightAt returns the height of a cell; off-map cells read as 0.
func (tm *TileMap) HeightAt(c grid.CPos) int {
	if t := tm.At(c.ToMPos(tm.grid)); t != nil {
		return t.Height
	}
	return 0
}

// SetType changes the terrain of a cell and notifies subscribers.
func (tm *TileMap) SetType(c grid.CPos, t TerrainType) {
	tile := tm.At(c.ToMPos(tm.grid))
	if tile == nil || tile.Type == t {
		return
	}
	tile.Type = t
	tm.changed.Fire(c)
}

// SetHeight changes the height of a cell, clamped to the map maximum. The
// projection moves with it, so bounds subscribers are told after the cell's
// own terrain notification.
func (tm *TileMap) SetHeight(c grid.CPos, h int) {
	tile := tm.At(c.ToMPos(tm.grid))
	if tile == nil {
		return
	}
	h = max(0, min(h, tm.maxHeight))
	if tile.Height == h {
		return
	}
	tile.Height = h
	tm.inverse = nil
	tm.changed.Fire(c)
	tm.bounds.Fire(struct{}{})
}

// OnTerrainChanged subscribes to per-cell terrain changes.
func (tm *TileMap) OnTerrainChanged(fn func(grid.CPos)) func() { return tm.changed.Subscribe(fn) }

// OnBoundsChanged subscribes to height edits that move the projection.
func (tm *TileMap) OnBoundsChanged(fn func()) func() {
	return tm.bounds.Subscribe(func(struct{}) { fn() })
}

// ProjectedCellsCovering returns the projected cells a map cell is drawn
// over. Odd heights sit between two projected rows and are covered by four
// projected cells.
func (tm *TileMap) ProjectedCellsCovering(uv grid.MPos) []grid.PPos {
	if tm.maxHeight == 0 {
		return []grid.PPos{uv.Flat()}
	}
	h := 0
	if t := tm.At(uv); t != nil {
		h = t.Height
	}
	var candidates []grid.PPos
	if h&1 == 1 {
		if uv.V&1 == 1 {
			candidates = append(candidates, grid.PPos{U: uv.U + 1, V: uv.V - h})
		} else {
			candidates = append(candidates, grid.PPos{U: uv.U - 1, V: uv.V - h})
		}
		candidates = append(candidates,
			grid.PPos{U: uv.U, V: uv.V - h},
			grid.PPos{U: uv.U, V: uv.V - h + 1},
			grid.PPos{U: uv.U, V: uv.V - h - 1})
	} else {
		candidates = append(candidates, grid.PPos{U: uv.U, V: uv.V - h})
	}

	b := tm.Bounds()
	out := candidates[:0]
	for _, p := range candidates {
		if image.Pt(p.U, p.V).In(b) {
			out = append(out, p)
		}
	}
	return out
}

// Unproject lists the map cells drawn over p.
func (tm *TileMap) Unproject(p grid.PPos) []grid.MPos {
	if tm.maxHeight == 0 {
		if uv := p.Map(); tm.Contains(uv) {
			return []grid.MPos{uv}
		}
		return nil
	}
	if tm.inverse == nil {
		tm.buildInverse()
	}
	return tm.inverse[p]
}

func (tm *TileMap) buildInverse() {
	tm.inverse = make(map[grid.PPos][]grid.MPos, len(tm.Tiles))
	for v := 0; v < tm.Rows; v++ {
		for u := 0; u < tm.Cols; u++ {
			uv := grid.MPos{U: u, V: v}
			for _, p := range tm.ProjectedCellsCovering(uv) {
				tm.inverse[p] = append(tm.inverse[p], uv)
			}
		}
	}
}

// TerrainColorPair is the radar colour of the tile at uv, brightened or
// darkened by its height.
func (tm *TileMap) TerrainColorPair(uv grid.MPos) radar.ColorPair {
	t := tm.At(uv)
	if t == nil {
		return radar.ColorPair{}
	}
	lo, hi := terrainColors(t.Type)
	if tm.maxHeight == 0 {
		return radar.ColorPair{Left: lo, Right: hi}
	}
	f := float64(t.Height) / float64(tm.maxHeight)
	scale := tm.MinBrightness + (tm.MaxBrightness-tm.MinBrightness)*f
	return radar.ColorPair{Left: brighten(lo, scale), Right: brighten(hi, scale)}
}

// brighten scales the colour channels of an opaque colour.
func brighten(c color.RGBA, scale float64) color.RGBA {
	ch := func(v uint8) uint8 {
		return uint8(math.Max(0, math.Min(255, math.Round(float64(v)*scale))))
	}
	return color.RGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: c.A}
}
