package world

import (
	"image/color"

	"github.com/Garsondee/radar/internal/grid"
)

// Demo player colours.
var (
	DemoRed  = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	DemoBlue = color.RGBA{R: 40, G: 80, B: 220, A: 255}
)

// WithOrders sends every mobile unit of the named player toward (x, y).
// It runs after all units are placed.
func WithOrders(owner string, x, y int) Option {
	return Option{optView, func(s *scenario) {
		p := s.w.Player(owner)
		for _, u := range s.w.Units {
			if u.Owner == p && u.CanMove() {
				u.MoveTo(grid.CPos{X: x, Y: y})
			}
		}
	}}
}

// DemoForces places two opposing bases in opposite corners of a cols x rows
// map with ore and gem fields between them. Both sides advance on each other
// and the world is viewed by red.
func DemoForces(t grid.Type, cols, rows int) []Option {
	at := func(fx, fy float64) (int, int) {
		c := grid.MPos{U: int(fx * float64(cols)), V: int(fy * float64(rows))}.ToCPos(t)
		return c.X, c.Y
	}
	rx, ry := at(0.15, 0.15)
	bx, by := at(0.8, 0.8)
	ox, oy := at(0.5, 0.3)
	gx, gy := at(0.3, 0.7)

	return []Option{
		WithResourceField(ox, oy, max(2, cols/16), ResourceOre),
		WithResourceField(gx, gy, max(1, cols/32), ResourceGems),
		WithPlayer("red", DemoRed, 1),
		WithPlayer("blue", DemoBlue, 2),
		WithUnit("red", UnitBuilding, rx-2, ry-2),
		WithUnit("red", UnitHarvester, rx+3, ry),
		WithUnit("red", UnitVehicle, rx+2, ry+3),
		WithUnit("red", UnitInfantry, rx+4, ry+4),
		WithUnit("blue", UnitBuilding, bx, by),
		WithUnit("blue", UnitVehicle, bx-3, by-1),
		WithUnit("blue", UnitInfantry, bx-2, by-3),
		WithUnit("blue", UnitInfantry, bx-4, by-3),
		WithOrders("red", bx-2, by-2),
		WithOrders("blue", rx+2, ry+2),
		WithViewedPlayer("red"),
	}
}
