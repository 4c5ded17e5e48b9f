package game

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/radar/internal/grid"
	"github.com/Garsondee/radar/internal/radar"
	"github.com/Garsondee/radar/internal/world"
)

// Inspector panel: rendered into an offscreen buffer at 1x then blitted at
// inspScale.
const (
	inspScale = 2
	inspBufW  = 230
	inspBufH  = 170
	inspPad   = 4
	inspLineH = 13
)

// Inspector tracks the hovered cell.
type Inspector struct {
	cell   grid.CPos
	valid  bool
	copied int // frames left to show the "copied" note
}

// cellReport describes a cell as the world and the radar see it.
func cellReport(w *world.World, r *radar.Radar, c grid.CPos) []string {
	m := w.Map
	uv := c.ToMPos(m.Grid())
	lines := []string{
		fmt.Sprintf("cell (%d,%d)  map (%d,%d)", c.X, c.Y, uv.U, uv.V),
	}
	if !m.Contains(uv) {
		return append(lines, "off map")
	}
	lines = append(lines,
		fmt.Sprintf("terrain %s  height %d", world.TerrainTypeName(m.TypeAt(c)), m.HeightAt(c)))
	if rt := w.Resources.TypeAt(c); rt != world.ResourceNone {
		lines = append(lines, fmt.Sprintf("resource %s x%d", world.ResourceTypeName(rt), w.Resources.Density(c)))
	}

	vis := "visible"
	if p := w.ViewedPlayer(); p != nil {
		best := radar.Unexplored
		for _, pp := range m.ProjectedCellsCovering(uv) {
			best = max(best, p.Shroud.Visibility(pp))
		}
		vis = radar.VisibilityName(best)
	}
	lines = append(lines, "shroud "+vis)

	for _, u := range w.Units {
		for _, fc := range u.Footprint() {
			if fc == c && !u.Dead {
				hidden := ""
				if w.FogObscures(u) {
					hidden = " (hidden)"
				}
				lines = append(lines, fmt.Sprintf("unit %d %s %s%s",
					u.ID, world.UnitKindName(u.Kind), ownerName(u.Owner), hidden))
			}
		}
	}

	if pair, ok := r.TerrainAt(c); ok {
		lines = append(lines, "radar terrain "+hexColor(pair.Left))
	}
	if pair, ok := r.ShroudAt(c); ok {
		lines = append(lines, "radar shroud  "+hexColor(pair.Left))
	}
	if pair, ok := r.SignatureAt(c); ok && pair.Left.A > 0 {
		lines = append(lines, "radar actor   "+hexColor(pair.Left))
	}
	return lines
}

func ownerName(p *world.Player) string {
	if p == nil {
		return "neutral"
	}
	return p.Name
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// copyHovered puts the hovered cell report on the system clipboard.
func (g *Game) copyHovered() {
	if !g.inspector.valid {
		return
	}
	text := strings.Join(cellReport(g.world, g.radar, g.inspector.cell), "\n")
	if err := clipboard.WriteAll(text); err != nil {
		g.log.WithError(err).Warn("game: clipboard write failed")
		return
	}
	g.inspector.copied = 90
}

// drawInspector renders the hovered cell panel in the bottom-right corner.
func (g *Game) drawInspector(screen *ebiten.Image) {
	if !g.inspector.valid {
		return
	}
	lines := cellReport(g.world, g.radar, g.inspector.cell)
	if g.inspector.copied > 0 {
		lines = append(lines, "", "copied to clipboard")
	}

	buf := g.inspBuf
	buf.Clear()
	bw, bh := float32(inspBufW), float32(inspBufH)
	vector.FillRect(buf, 0, 0, bw, bh, color.RGBA{R: 6, G: 10, B: 6, A: 220}, false)
	vector.StrokeRect(buf, 0.5, 0.5, bw-1, bh-1, 1, color.RGBA{R: 60, G: 100, B: 60, A: 200}, false)
	for i, l := range lines {
		ebitenutil.DebugPrintAt(buf, l, inspPad, inspPad+i*inspLineH)
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(inspScale, inspScale)
	op.GeoM.Translate(float64(g.width-inspBufW*inspScale-8), float64(g.height-inspBufH*inspScale-8))
	screen.DrawImage(buf, op)
}
