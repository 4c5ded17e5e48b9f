package game

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/radar/internal/grid"
	"github.com/Garsondee/radar/internal/radar"
)

// modifiers reads the held modifier keys.
func modifiers() radar.Modifiers {
	var m radar.Modifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		m |= radar.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		m |= radar.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		m |= radar.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		m |= radar.ModMeta
	}
	return m
}

// dispatchMouse routes one event: the minimap sees it first, the main view
// gets what the minimap does not consume.
func (g *Game) dispatchMouse(mi radar.MouseInput) {
	if g.radar.HandleMouse(mi) {
		return
	}
	switch {
	case mi.Button == radar.ButtonLeft && mi.Event == radar.MouseDown:
		cell := grid.CellContaining(g.world.Map.Grid(), g.cam.ScreenToWorld(mi.Location))
		if g.orders.Select(cell) == 0 {
			g.orders.ClearSelection()
		}
	case mi.Button == radar.ButtonRight:
		g.orders.HandleMouseInput(mi)
	}
}

// updateHover refreshes the hovered cell and the cursor name.
func (g *Game) updateHover(loc image.Point, mods radar.Modifiers) {
	if name, ok := g.radar.CursorAt(loc, mods); ok {
		g.cursor = name
		g.inspector.cell, g.inspector.valid = g.radar.MinimapPixelToCell(loc), true
	} else {
		cell := grid.CellContaining(g.world.Map.Grid(), g.cam.ScreenToWorld(loc))
		g.inspector.cell, g.inspector.valid = cell, g.world.Map.ContainsCell(cell)
		g.cursor = g.orders.Cursor(cell, radar.MouseInput{Location: loc})
		if g.cursor == "" {
			g.cursor = cursorDefault
		}
	}
	switch g.cursor {
	case cursorMove, cursorMove + "-minimap":
		ebiten.SetCursorShape(ebiten.CursorShapeCrosshair)
	case cursorMoveBlocked:
		ebiten.SetCursorShape(ebiten.CursorShapeNotAllowed)
	default:
		ebiten.SetCursorShape(ebiten.CursorShapeDefault)
	}
}

func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}

	// R: radar power.
	if pressed(ebiten.KeyR) {
		g.togglePower()
	}
	// Tab: cycle the viewed player.
	if pressed(ebiten.KeyTab) {
		g.cycleViewer()
	}
	// H: HUD legend.
	if pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	// C: copy hovered cell report.
	if pressed(ebiten.KeyC) {
		g.copyHovered()
	}
	// Space: ping the hovered cell.
	if pressed(ebiten.KeySpace) {
		g.pingHovered()
	}
	// K: cloak the selection.
	if pressed(ebiten.KeyK) {
		for _, u := range g.orders.Selected() {
			g.world.SetCloaked(u, !u.Cloaked)
		}
	}

	// Camera pan: WASD or arrow keys, in screen pixels per frame.
	const panSpeed = 8.0
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.cam.Pan(0, -panSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.cam.Pan(0, panSpeed)
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.cam.Pan(-panSpeed, 0)
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.cam.Pan(panSpeed, 0)
	}

	// Zoom: mouse wheel or =/- keys.
	if _, wy := ebiten.Wheel(); wy != 0 {
		g.cam.ZoomBy(math.Pow(1.12, wy))
	}
	if pressed(ebiten.KeyEqual) {
		g.cam.ZoomBy(1.25)
	}
	if pressed(ebiten.KeyMinus) {
		g.cam.ZoomBy(1 / 1.25)
	}

	// Sim speed: P=pause/resume, ,=slower, .=faster.
	speeds := []float64{0, 0.5, 1, 2, 4}
	if pressed(ebiten.KeyP) {
		if g.simSpeed > 0 {
			g.simSpeed = 0
		} else {
			g.simSpeed = 1
		}
	}
	if pressed(ebiten.KeyComma) {
		for i, s := range speeds {
			if s >= g.simSpeed && i > 0 {
				g.simSpeed = speeds[i-1]
				break
			}
		}
	}
	if pressed(ebiten.KeyPeriod) {
		for _, s := range speeds {
			if s > g.simSpeed {
				g.simSpeed = s
				break
			}
		}
	}

	mx, my := ebiten.CursorPosition()
	loc := image.Pt(mx, my)
	mods := modifiers()
	cur := radar.ButtonState{
		Location: loc,
		Left:     ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Right:    ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
	}
	for _, mi := range radar.Edges(g.prevMouse, cur, mods) {
		g.dispatchMouse(mi)
	}
	g.prevMouse = cur
	g.updateHover(loc, mods)

	g.prevKeys = currentKeys
}
