package world

import (
	"github.com/Garsondee/radar/internal/grid"
	"github.com/Garsondee/radar/internal/radar"
)

// TerrainMemory is a player's recollection of the radar terrain: cells show
// the colour they had when last in sight. Cells never seen report the live
// colour, which the shroud covers anyway.
type TerrainMemory struct {
	m      *TileMap
	live   func(uv grid.MPos) radar.ColorPair
	known  []bool
	colors []radar.ColorPair
	ready  bool

	changed grid.Notifier[grid.CPos]
}

// NewTerrainMemory returns an empty memory reading current colours from live.
func NewTerrainMemory(m *TileMap, live func(grid.MPos) radar.ColorPair) *TerrainMemory {
	return &TerrainMemory{
		m:      m,
		live:   live,
		known:  make([]bool, len(m.Tiles)),
		colors: make([]radar.ColorPair, len(m.Tiles)),
	}
}

// Initialized reports whether the memory has taken over from the live map.
func (tm *TerrainMemory) Initialized() bool { return tm.ready }

// Initialize hands the radar over to the memory. Every remembered cell is
// announced so a subscriber drawing live colours catches up.
func (tm *TerrainMemory) Initialize() {
	if tm.ready {
		return
	}
	tm.ready = true
	for i, k := range tm.known {
		if k {
			uv := grid.MPos{U: i % tm.m.Cols, V: i / tm.m.Cols}
			tm.changed.Fire(uv.ToCPos(tm.m.Grid()))
		}
	}
}

// TerrainColorPair returns the remembered colour of uv.
func (tm *TerrainMemory) TerrainColorPair(uv grid.MPos) radar.ColorPair {
	if !tm.m.Contains(uv) {
		return radar.ColorPair{}
	}
	i := uv.V*tm.m.Cols + uv.U
	if !tm.known[i] {
		return tm.live(uv)
	}
	return tm.colors[i]
}

// Remember records the live colour of uv, notifying when the memory changed.
func (tm *TerrainMemory) Remember(uv grid.MPos) {
	if !tm.m.Contains(uv) {
		return
	}
	i := uv.V*tm.m.Cols + uv.U
	c := tm.live(uv)
	if tm.known[i] && tm.colors[i] == c {
		return
	}
	tm.known[i] = true
	tm.colors[i] = c
	tm.changed.Fire(uv.ToCPos(tm.m.Grid()))
}

// OnOverlayChanged subscribes to remembered-colour changes.
func (tm *TerrainMemory) OnOverlayChanged(fn func(grid.CPos)) func() {
	return tm.changed.Subscribe(fn)
}
