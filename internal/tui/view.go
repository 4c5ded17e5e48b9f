package tui

import (
	"image"

	"github.com/Garsondee/radar/internal/grid"
	"github.com/Garsondee/radar/internal/radar"
	"github.com/Garsondee/radar/internal/world"
)

// viewPxPerCell is the pixel size of one cell in the virtual main view.
const viewPxPerCell = 16

// View is the virtual main view a terminal host steers: it has no pixels of
// its own, only a centre and a size in cells, which the minimap outlines
// and recentres.
type View struct {
	center     grid.WPos
	cols, rows int
}

var _ radar.Viewport = (*View)(nil)

// NewView creates a view of cols x rows cells centred on pos.
func NewView(pos grid.WPos, cols, rows int) *View {
	return &View{center: pos, cols: cols, rows: rows}
}

func (v *View) Center(pos grid.WPos) { v.center = pos }

// Centre returns the world position at the middle of the view.
func (v *View) Centre() grid.WPos { return v.center }

func (v *View) topLeft() grid.WPos {
	return grid.WPos{
		X: v.center.X - v.cols*grid.WorldCellSize/2,
		Y: v.center.Y - v.rows*grid.WorldCellSize/2,
	}
}

func (v *View) VisibleWorldBounds() (topLeft, bottomRight grid.WPos) {
	tl := v.topLeft()
	return tl, grid.WPos{X: tl.X + v.cols*grid.WorldCellSize, Y: tl.Y + v.rows*grid.WorldCellSize}
}

func (v *View) WorldToViewPx(pos grid.WPos) image.Point {
	tl := v.topLeft()
	return image.Pt(
		(pos.X-tl.X)*viewPxPerCell/grid.WorldCellSize,
		(pos.Y-tl.Y)*viewPxPerCell/grid.WorldCellSize,
	)
}

// ViewPxToWorld is the inverse of WorldToViewPx, landing in the middle of
// the view pixel.
func (v *View) ViewPxToWorld(p image.Point) grid.WPos {
	tl := v.topLeft()
	const half = grid.WorldCellSize / viewPxPerCell / 2
	return grid.WPos{
		X: tl.X + p.X*grid.WorldCellSize/viewPxPerCell + half,
		Y: tl.Y + p.Y*grid.WorldCellSize/viewPxPerCell + half,
	}
}

// Pinger is the terminal host's world interaction controller: a right click
// drops a radar ping for the viewed player where it lands.
type Pinger struct {
	w     *world.World
	view  *View
	count int
}

var _ radar.InteractionController = (*Pinger)(nil)

// NewPinger creates a controller resolving view pixels through view.
func NewPinger(w *world.World, view *View) *Pinger {
	return &Pinger{w: w, view: view}
}

// Count returns the pings dropped.
func (p *Pinger) Count() int { return p.count }

func (p *Pinger) HandleMouseInput(mi radar.MouseInput) bool {
	if mi.Button != radar.ButtonRight {
		return false
	}
	if mi.Event != radar.MouseDown {
		return mi.Event == radar.MouseUp
	}
	pos := p.view.ViewPxToWorld(mi.Location)
	viewer := p.w.ViewedPlayer()
	c := defaultPingColor
	if viewer != nil {
		c = viewer.Color
	}
	p.w.Ping(viewer, pos, c)
	p.count++
	return true
}
