package world

import (
	"image/color"

	"github.com/Garsondee/radar/internal/grid"
	"github.com/Garsondee/radar/internal/radar"
)

// UnitKind distinguishes how a unit appears and moves.
type UnitKind uint8

const (
	UnitInfantry UnitKind = iota
	UnitVehicle
	UnitHarvester
	UnitBuilding
	unitKindCount // sentinel
)

// UnitKindName returns a short display name for a unit kind.
func UnitKindName(k UnitKind) string {
	switch k {
	case UnitInfantry:
		return "infantry"
	case UnitVehicle:
		return "vehicle"
	case UnitHarvester:
		return "harvester"
	case UnitBuilding:
		return "building"
	default:
		return "unknown"
	}
}

// unitDefaults returns sight range in cells, footprint edge and ticks per
// cell moved (0 for static).
func unitDefaults(k UnitKind) (sight, size, moveInterval int) {
	switch k {
	case UnitInfantry:
		return 4, 1, 6
	case UnitVehicle:
		return 6, 1, 3
	case UnitHarvester:
		return 4, 1, 5
	case UnitBuilding:
		return 5, 2, 0
	default:
		return 4, 1, 0
	}
}

// Unit is an actor with a footprint on the map.
type Unit struct {
	ID      int
	Kind    UnitKind
	Owner   *Player
	Cell    grid.CPos // top-left of the footprint
	Size    int
	Sight   int
	Cloaked bool
	Dead    bool

	moveInterval int
	moveTimer    int
	target       grid.CPos
	moving       bool

	revealed []grid.PPos // cells currently added to the owner's shroud
}

// Footprint lists the cells the unit occupies.
func (u *Unit) Footprint() []grid.CPos {
	out := make([]grid.CPos, 0, u.Size*u.Size)
	for dy := 0; dy < u.Size; dy++ {
		for dx := 0; dx < u.Size; dx++ {
			out = append(out, grid.CPos{X: u.Cell.X + dx, Y: u.Cell.Y + dy})
		}
	}
	return out
}

// RadarSignature appends the footprint in the owner's colour.
func (u *Unit) RadarSignature(dst []radar.Signature) []radar.Signature {
	c := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	if u.Owner != nil {
		c = u.Owner.Color
	}
	for dy := 0; dy < u.Size; dy++ {
		for dx := 0; dx < u.Size; dx++ {
			dst = append(dst, radar.Signature{
				Cell:  grid.CPos{X: u.Cell.X + dx, Y: u.Cell.Y + dy},
				Color: c,
			})
		}
	}
	return dst
}

// RadarColorOverride draws cloaked units at half alpha. Only viewers that
// can see a cloaked unit reach this, since everyone else has it obscured.
func (u *Unit) RadarColorOverride(c color.RGBA) color.RGBA {
	if !u.Cloaked {
		return c
	}
	const a = 128
	return color.RGBA{
		R: uint8(uint16(c.R) * a / 255),
		G: uint8(uint16(c.G) * a / 255),
		B: uint8(uint16(c.B) * a / 255),
		A: uint8(uint16(c.A) * a / 255),
	}
}

// MoveTo orders the unit toward a cell. Static units ignore it.
func (u *Unit) MoveTo(c grid.CPos) {
	if u.moveInterval == 0 {
		return
	}
	u.target = c
	u.moving = u.Cell != c
	u.moveTimer = 0
}

// CanMove reports whether the unit accepts move orders.
func (u *Unit) CanMove() bool { return u.moveInterval > 0 && !u.Dead }

// Moving reports whether the unit has a destination it has not reached.
func (u *Unit) Moving() bool { return u.moving }

// step advances one tick of movement and reports whether the cell changed.
func (u *Unit) step(m *TileMap) bool {
	if !u.moving || u.Dead {
		return false
	}
	u.moveTimer++
	if u.moveTimer < u.moveInterval {
		return false
	}
	u.moveTimer = 0

	next := u.Cell
	next.X += sign(u.target.X - u.Cell.X)
	next.Y += sign(u.target.Y - u.Cell.Y)
	if !m.ContainsCell(next) || !Passable(m.TypeAt(next)) {
		u.moving = false
		return false
	}
	u.Cell = next
	if u.Cell == u.target {
		u.moving = false
	}
	return true
}

// sightCells returns the projected cells within sight of the unit.
func (u *Unit) sightCells(m *TileMap) []grid.PPos {
	if u.Dead || u.Sight <= 0 {
		return nil
	}
	var out []grid.PPos
	cx := u.Cell.X + u.Size/2
	cy := u.Cell.Y + u.Size/2
	r2 := u.Sight * u.Sight
	for dy := -u.Sight; dy <= u.Sight; dy++ {
		for dx := -u.Sight; dx <= u.Sight; dx++ {
			if dx*dx+dy*dy > r2 {
				continue
			}
			uv := grid.CPos{X: cx + dx, Y: cy + dy}.ToMPos(m.Grid())
			if !m.Contains(uv) {
				continue
			}
			out = append(out, m.ProjectedCellsCovering(uv)...)
		}
	}
	return out
}

// Passable reports whether ground units can enter terrain t.
func Passable(t TerrainType) bool {
	return t != TerrainWater && t != TerrainRock
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
