package radar

import (
	"image"

	"github.com/Garsondee/radar/internal/grid"
)

const defaultCursor = "default"

// resolve turns a screen pixel inside the minimap into a cell, the world
// position at its centre and the equivalent pixel in the main view.
func (r *Radar) resolve(p image.Point) (grid.CPos, grid.WPos, image.Point) {
	cell := r.MinimapPixelToCell(p)
	pos := grid.CenterOfCell(r.m.Grid(), cell)
	var view image.Point
	if r.viewport != nil {
		view = r.viewport.WorldToViewPx(pos)
	}
	return cell, pos, view
}

// CursorAt returns the cursor to show over p. ok is false when the minimap
// has no opinion (closed, or p outside the preview).
func (r *Radar) CursorAt(p image.Point, mods Modifiers) (string, bool) {
	if !r.HasRadar() || !p.In(r.MapRect()) {
		return "", false
	}
	if r.orders == nil {
		return defaultCursor, true
	}

	cell, _, view := r.resolve(p)
	cursor := r.orders.Cursor(cell, MouseInput{
		Event:     MouseMove,
		Button:    ButtonRight,
		Modifiers: mods,
		Location:  view,
	})
	if cursor == "" {
		return defaultCursor, true
	}
	if r.cursors != nil && r.cursors.HasCursor(cursor+"-minimap") {
		return cursor + "-minimap", true
	}
	return cursor, true
}

// HandleMouse processes a pointer event. Events outside the preview are not
// consumed; inside it they always are, even while the radar is closed.
//
// Left press or drag recentres the main view. A right press is replayed as
// a press and release at the matching main-view pixel through the world
// interaction controller.
func (r *Radar) HandleMouse(mi MouseInput) bool {
	if !mi.Location.In(r.MapRect()) {
		return false
	}
	if !r.HasRadar() {
		return true
	}

	_, pos, view := r.resolve(mi.Location)
	if mi.Button == ButtonLeft && (mi.Event == MouseDown || mi.Event == MouseMove) {
		if r.viewport != nil {
			r.viewport.Center(pos)
		}
	}

	if mi.Button == ButtonRight && mi.Event == MouseDown && r.controller != nil {
		fake := MouseInput{
			Event:     MouseDown,
			Button:    ButtonRight,
			Modifiers: mi.Modifiers,
			Location:  view,
		}
		r.controller.HandleMouseInput(fake)
		fake.Event = MouseUp
		r.controller.HandleMouseInput(fake)
	}
	return true
}
