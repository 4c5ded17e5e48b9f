package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/Garsondee/radar/internal/grid"
	"github.com/Garsondee/radar/internal/radar"
	"github.com/Garsondee/radar/internal/world"
)

// groundColor is the main-view colour of a map cell for the viewed player:
// live colours with no player, remembered colours otherwise, darkened
// outside sight, nothing where unexplored.
func groundColor(w *world.World, uv grid.MPos) color.RGBA {
	p := w.ViewedPlayer()
	if p == nil {
		return w.LiveColor(uv).Left
	}
	best := radar.Unexplored
	for _, pp := range w.Map.ProjectedCellsCovering(uv) {
		best = max(best, p.Shroud.Visibility(pp))
	}
	switch best {
	case radar.Unexplored:
		return color.RGBA{}
	case radar.Explored:
		c := p.Memory.TerrainColorPair(uv).Left
		return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
	default:
		return p.Memory.TerrainColorPair(uv).Left
	}
}

func (g *Game) drawWorld(screen *ebiten.Image) {
	m := g.world.Map
	gt := m.Grid()
	side := float32(grid.WorldCellSize * g.cam.Zoom)
	half := side / 2
	view := g.cam.View

	for v := 0; v < m.Rows; v++ {
		for u := 0; u < m.Cols; u++ {
			uv := grid.MPos{U: u, V: v}
			wp := grid.CenterOfCell(gt, uv.ToCPos(gt))
			x, y := g.cam.worldToScreen(float64(wp.X), float64(wp.Y))
			sx, sy := float32(x), float32(y)
			if sx+side < float32(view.Min.X) || sy+side < float32(view.Min.Y) ||
				sx-side > float32(view.Max.X) || sy-side > float32(view.Max.Y) {
				continue
			}
			c := groundColor(g.world, uv)
			if c.A == 0 {
				continue
			}
			if gt == grid.Rectangular {
				vector.FillRect(screen, sx-half, sy-half, side, side, c, false)
				continue
			}
			// Staggered cells are diamonds 1448 wide and 1448 tall in world units.
			r := float32(724 * g.cam.Zoom)
			var path vector.Path
			path.MoveTo(sx, sy-r)
			path.LineTo(sx+r, sy)
			path.LineTo(sx, sy+r)
			path.LineTo(sx-r, sy)
			path.Close()
			op := &vector.DrawPathOptions{}
			op.ColorScale.ScaleWithColor(c)
			vector.FillPath(screen, &path, &vector.FillOptions{}, op)
		}
	}

	g.drawUnits(screen)
}

func (g *Game) drawUnits(screen *ebiten.Image) {
	gt := g.world.Map.Grid()
	selected := map[*world.Unit]bool{}
	for _, u := range g.orders.Selected() {
		selected[u] = true
	}
	for _, u := range g.world.Units {
		if u.Dead || g.world.FogObscures(u) {
			continue
		}
		var cx, cy float64
		fp := u.Footprint()
		for _, c := range fp {
			wp := grid.CenterOfCell(gt, c)
			cx += float64(wp.X)
			cy += float64(wp.Y)
		}
		cx /= float64(len(fp))
		cy /= float64(len(fp))
		x, y := g.cam.worldToScreen(cx, cy)

		col := color.RGBA{R: 255, G: 255, B: 255, A: 255}
		if u.Owner != nil {
			col = u.Owner.Color
		}
		col = u.RadarColorOverride(col)
		r := float32(380 * float64(u.Size) * g.cam.Zoom)
		if u.Kind == world.UnitBuilding {
			vector.FillRect(screen, float32(x)-r, float32(y)-r, 2*r, 2*r, col, false)
		} else {
			vector.FillCircle(screen, float32(x), float32(y), r, col, true)
		}
		if selected[u] {
			vector.StrokeCircle(screen, float32(x), float32(y), r+3, 1.5, colornames.White, true)
		}
	}
}

// drawRadar commits the frame's buffer writes and draws the layer quads,
// the frame and the line overlay.
func (g *Game) drawRadar(screen *ebiten.Image) {
	if g.radar.Buffer().Size() != g.radarImg.Bounds().Size() {
		g.allocRadarImage()
	}
	g.radar.Commit()

	rb := g.radar.MapRect()
	vector.FillRect(screen, float32(rb.Min.X), float32(rb.Min.Y), float32(rb.Dx()), float32(rb.Dy()),
		color.RGBA{A: 255}, false)

	for _, l := range g.radar.Layers() {
		if l.Src.Dx() == 0 || l.Src.Dy() == 0 || l.Dst.H <= 0 {
			continue
		}
		src := g.radarImg.SubImage(l.Src).(*ebiten.Image)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(l.Dst.W)/float64(l.Src.Dx()), float64(l.Dst.H)/float64(l.Src.Dy()))
		op.GeoM.Translate(float64(l.Dst.X), float64(l.Dst.Y))
		screen.DrawImage(src, op)
	}

	vector.StrokeRect(screen, float32(rb.Min.X)-1, float32(rb.Min.Y)-1, float32(rb.Dx())+2, float32(rb.Dy())+2,
		2, color.RGBA{R: 65, G: 90, B: 65, A: 255}, false)

	o, ok := g.radar.Overlay()
	if !ok {
		return
	}
	clip := screen.SubImage(o.Clip).(*ebiten.Image)
	if vr := o.Viewport; !vr.Empty() {
		vector.StrokeRect(clip, float32(vr.Min.X), float32(vr.Min.Y), float32(vr.Dx()), float32(vr.Dy()),
			1, colornames.White, false)
	}
	for _, p := range o.Pings {
		for i := range p.Points {
			a, b := p.Points[i], p.Points[(i+1)%len(p.Points)]
			vector.StrokeLine(clip, a.X, a.Y, b.X, b.Y, 1, p.Color, true)
		}
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	viewer := "none"
	if p := g.world.ViewedPlayer(); p != nil {
		viewer = p.Name
	}
	speedStr := fmt.Sprintf("%.1fx", g.simSpeed)
	if g.simSpeed == 0 {
		speedStr = "PAUSED"
	}
	st := g.radar.Stats()
	anim := g.radar.Animation()

	lines := []string{
		fmt.Sprintf("tick %d  SIM: %s  P=pause  ,/. speed", g.world.CurrentTick(), speedStr),
		fmt.Sprintf("viewer: %s  Tab=switch", viewer),
		fmt.Sprintf("radar: %s %d/%d  R=power", radar.AnimationStateName(anim.State()), anim.Frame(), anim.Length()),
		fmt.Sprintf("cursor: %s", g.cursor),
		fmt.Sprintf("selected: %d  orders: %d", len(g.orders.Selected()), g.orders.Issued()),
		fmt.Sprintf("terrain %d  shroud %d  sig %d  commits %d",
			st.TerrainUpdates, st.ShroudUpdates, st.SignatureWrites, st.Commits),
		"[H] HUD  [C] copy cell  [Space] ping  [K] cloak",
		"WASD/arrows=pan  scroll=zoom",
	}

	const lineH = 12
	const charW = 6
	const padX = 5
	const padY = 4
	maxLen := 0
	for _, l := range lines {
		maxLen = max(maxLen, len(l))
	}
	boxW := float32(maxLen*charW + padX*2)
	boxH := float32(len(lines)*lineH + padY*2)
	bx := float32(4)
	by := float32(g.height/hudScale) - boxH - 4

	g.hudBuf.Clear()
	vector.FillRect(g.hudBuf, bx, by, boxW, boxH, color.RGBA{R: 6, G: 10, B: 6, A: 210}, false)
	vector.StrokeRect(g.hudBuf, bx, by, boxW, boxH, 1.0, color.RGBA{R: 60, G: 100, B: 60, A: 180}, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(g.hudBuf, line, int(bx)+padX, int(by)+padY+i*lineH)
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(hudScale), float64(hudScale))
	screen.DrawImage(g.hudBuf, opts)
}
