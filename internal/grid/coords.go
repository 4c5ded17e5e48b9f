package grid

import "fmt"

// Type identifies the grid topology of a map.
type Type uint8

const (
	Rectangular Type = iota // plain square cells, one cell per map slot
	Staggered               // isometric diamond, odd map rows shifted half a cell right
	typeCount               // sentinel
)

// TypeName returns a short display name for a grid type.
func TypeName(t Type) string {
	switch t {
	case Rectangular:
		return "rectangular"
	case Staggered:
		return "staggered"
	default:
		return "unknown"
	}
}

// ParseType maps a config string onto a grid type.
func ParseType(s string) (Type, error) {
	for t := Type(0); t < typeCount; t++ {
		if TypeName(t) == s {
			return t, nil
		}
	}
	return Rectangular, fmt.Errorf("unknown grid type %q", s)
}

// WorldCellSize is the edge length of one rectangular cell in world units.
const WorldCellSize = 1024

// CPos is a cell coordinate in simulation space.
type CPos struct{ X, Y int }

// MPos is a cell coordinate in map storage space. For rectangular maps it is
// identical to CPos; for staggered maps each map row holds one diagonal of cells.
type MPos struct{ U, V int }

// PPos is a map coordinate after terrain height has been applied. Visibility is
// tracked in this space.
type PPos struct{ U, V int }

// WPos is a position in world units.
type WPos struct{ X, Y, Z int }

// ToMPos converts a cell into map storage space.
func (c CPos) ToMPos(t Type) MPos {
	if t == Rectangular {
		return MPos{U: c.X, V: c.Y}
	}
	return MPos{U: (c.X - c.Y) / 2, V: c.X + c.Y}
}

// ToCPos converts a map coordinate back into cell space.
func (uv MPos) ToCPos(t Type) CPos {
	if t == Rectangular {
		return CPos{X: uv.U, Y: uv.V}
	}
	offset := uv.V & 1
	y := (uv.V-offset)/2 - uv.U
	return CPos{X: uv.V - y, Y: y}
}

// Flat returns the projected coordinate of a map cell with zero height.
func (uv MPos) Flat() PPos { return PPos(uv) }

// Map returns the map slot a projected coordinate occupies.
func (p PPos) Map() MPos { return MPos(p) }

// CenterOfCell returns the world position at the centre of a cell on the
// ground plane.
func CenterOfCell(t Type, c CPos) WPos {
	if t == Rectangular {
		return WPos{X: WorldCellSize*c.X + WorldCellSize/2, Y: WorldCellSize*c.Y + WorldCellSize/2}
	}
	// Diamond cells: +x adds (724,724), +y adds (-724,724); 724 = 512*sqrt(2).
	return WPos{X: 724 * (c.X - c.Y + 1), Y: 724 * (c.X + c.Y + 1)}
}

// CellContaining returns the cell that contains a world position, ignoring height.
func CellContaining(t Type, p WPos) CPos {
	if t == Rectangular {
		return CPos{X: floorDiv(p.X, WorldCellSize), Y: floorDiv(p.Y, WorldCellSize)}
	}
	u := (p.Y + p.X - 724) / 1448
	var v int
	if p.Y > p.X {
		v = (p.Y - p.X + 724) / 1448
	} else {
		v = (p.Y - p.X - 724) / 1448
	}
	return CPos{X: u, Y: v}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
