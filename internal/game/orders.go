package game

import (
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/radar/internal/grid"
	"github.com/Garsondee/radar/internal/radar"
	"github.com/Garsondee/radar/internal/world"
)

// Cursor names. Every order cursor has a "-minimap" variant.
const (
	cursorDefault     = "default"
	cursorMove        = "move"
	cursorMoveBlocked = "move-blocked"
	cursorSelect      = "select"
)

// cursorSet lists the cursor sequences the host can show.
type cursorSet map[string]bool

func (s cursorSet) HasCursor(name string) bool { return s[name] }

var hostCursors = cursorSet{
	cursorDefault:           true,
	cursorMove:              true,
	cursorMove + "-minimap": true,
	cursorMoveBlocked:       true,
	cursorSelect:            true,
}

// Orders is the world interaction controller: it turns right clicks on the
// main view, real or synthesized by the minimap, into move orders for the
// selected units.
type Orders struct {
	w        *world.World
	cam      *Camera
	log      logrus.FieldLogger
	selected []*world.Unit
	issued   int
}

var (
	_ radar.InteractionController = (*Orders)(nil)
	_ radar.OrderGenerator        = (*Orders)(nil)
)

// NewOrders creates a controller resolving view pixels through cam.
func NewOrders(w *world.World, cam *Camera, log logrus.FieldLogger) *Orders {
	return &Orders{w: w, cam: cam, log: log}
}

// Selected returns the selected units.
func (o *Orders) Selected() []*world.Unit { return o.selected }

// Issued counts move orders given.
func (o *Orders) Issued() int { return o.issued }

// Select replaces the selection with the viewed player's live units on cell.
// With no viewed player every unit on the cell is selectable.
func (o *Orders) Select(cell grid.CPos) int {
	o.selected = o.selected[:0]
	viewer := o.w.ViewedPlayer()
	for _, u := range o.w.Units {
		if u.Dead || (viewer != nil && u.Owner != viewer) {
			continue
		}
		for _, c := range u.Footprint() {
			if c == cell {
				o.selected = append(o.selected, u)
				break
			}
		}
	}
	return len(o.selected)
}

// ClearSelection drops the selection.
func (o *Orders) ClearSelection() { o.selected = o.selected[:0] }

func (o *Orders) pruneDead() {
	kept := o.selected[:0]
	for _, u := range o.selected {
		if !u.Dead {
			kept = append(kept, u)
		}
	}
	o.selected = kept
}

// Cursor resolves the order cursor for cell: move when some selected unit
// could walk there, blocked when none could, none without a selection.
func (o *Orders) Cursor(cell grid.CPos, _ radar.MouseInput) string {
	o.pruneDead()
	if len(o.selected) == 0 {
		return ""
	}
	m := o.w.Map
	if !m.ContainsCell(cell) || !world.Passable(m.TypeAt(cell)) {
		return cursorMoveBlocked
	}
	for _, u := range o.selected {
		if u.CanMove() {
			return cursorMove
		}
	}
	return cursorMoveBlocked
}

// HandleMouseInput issues a move order on right press. The release is
// consumed so a synthesized press/release pair yields one order.
func (o *Orders) HandleMouseInput(mi radar.MouseInput) bool {
	if mi.Button != radar.ButtonRight {
		return false
	}
	if mi.Event != radar.MouseDown {
		return mi.Event == radar.MouseUp
	}
	o.pruneDead()
	if len(o.selected) == 0 {
		return false
	}
	cell := grid.CellContaining(o.w.Map.Grid(), o.cam.ScreenToWorld(mi.Location))
	if !o.w.Map.ContainsCell(cell) {
		return false
	}
	for _, u := range o.selected {
		u.MoveTo(cell)
	}
	o.issued++
	o.log.WithFields(logrus.Fields{
		"units": len(o.selected),
		"x":     cell.X,
		"y":     cell.Y,
	}).Debug("game: move order")
	return true
}
