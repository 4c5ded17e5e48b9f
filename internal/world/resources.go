package world

import (
	"image/color"

	"golang.org/x/image/colornames"

	"github.com/Garsondee/radar/internal/grid"
	"github.com/Garsondee/radar/internal/radar"
)

// ResourceType identifies a harvestable deposit.
type ResourceType uint8

const (
	ResourceNone      ResourceType = iota
	ResourceOre                    // common, regrows
	ResourceGems                   // rare, worth more
	resourceTypeCount              // sentinel
)

// ResourceTypeName returns a short display name for a resource type.
func ResourceTypeName(t ResourceType) string {
	switch t {
	case ResourceNone:
		return "none"
	case ResourceOre:
		return "ore"
	case ResourceGems:
		return "gems"
	default:
		return "unknown"
	}
}

func resourceColor(t ResourceType) color.RGBA {
	switch t {
	case ResourceOre:
		return colornames.Goldenrod
	case ResourceGems:
		return colornames.Mediumorchid
	default:
		return color.RGBA{}
	}
}

// MaxResourceDensity is the density of a freshly seeded cell.
const MaxResourceDensity = 12

type resourceCell struct {
	Type    ResourceType
	Density int
}

// ResourceLayer is the deposit layer drawn over the terrain on the radar.
type ResourceLayer struct {
	m       *TileMap
	cells   []resourceCell
	changed grid.Notifier[grid.CPos]
}

// NewResourceLayer returns an empty layer sized to m.
func NewResourceLayer(m *TileMap) *ResourceLayer {
	return &ResourceLayer{m: m, cells: make([]resourceCell, len(m.Tiles))}
}

func (rl *ResourceLayer) cell(c grid.CPos) *resourceCell {
	uv := c.ToMPos(rl.m.Grid())
	if !rl.m.Contains(uv) {
		return nil
	}
	return &rl.cells[uv.V*rl.m.Cols+uv.U]
}

// TypeAt returns the deposit type of a cell.
func (rl *ResourceLayer) TypeAt(c grid.CPos) ResourceType {
	if rc := rl.cell(c); rc != nil {
		return rc.Type
	}
	return ResourceNone
}

// Density returns the remaining deposit of a cell.
func (rl *ResourceLayer) Density(c grid.CPos) int {
	if rc := rl.cell(c); rc != nil {
		return rc.Density
	}
	return 0
}

// Seed places a deposit. Water and rock cannot hold resources.
func (rl *ResourceLayer) Seed(c grid.CPos, t ResourceType, density int) {
	rc := rl.cell(c)
	if rc == nil || t == ResourceNone || t >= resourceTypeCount {
		return
	}
	switch rl.m.TypeAt(c) {
	case TerrainWater, TerrainRock:
		return
	}
	density = max(1, min(density, MaxResourceDensity))
	was := rc.Type
	rc.Type, rc.Density = t, density
	if was != t {
		rl.changed.Fire(c)
	}
}

// Harvest removes up to amount from a cell and returns how much was taken.
// A cell harvested to zero becomes empty.
func (rl *ResourceLayer) Harvest(c grid.CPos, amount int) int {
	rc := rl.cell(c)
	if rc == nil || rc.Type == ResourceNone || amount <= 0 {
		return 0
	}
	took := min(amount, rc.Density)
	rc.Density -= took
	if rc.Density == 0 {
		rc.Type = ResourceNone
		rl.changed.Fire(c)
	}
	return took
}

// TerrainColorPair claims cells holding a deposit.
func (rl *ResourceLayer) TerrainColorPair(uv grid.MPos) (radar.ColorPair, bool) {
	if !rl.m.Contains(uv) {
		return radar.ColorPair{}, false
	}
	rc := rl.cells[uv.V*rl.m.Cols+uv.U]
	if rc.Type == ResourceNone {
		return radar.ColorPair{}, false
	}
	return radar.Solid(resourceColor(rc.Type)), true
}

// OnTerrainChanged fires when a cell gains or loses a deposit.
func (rl *ResourceLayer) OnTerrainChanged(fn func(grid.CPos)) func() {
	return rl.changed.Subscribe(fn)
}
