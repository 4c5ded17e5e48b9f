package radar

import (
	"image"
	"image/color"

	"github.com/Garsondee/radar/internal/grid"
)

// ColorPair is the colour of one cell. On staggered grids a cell straddles two
// pixel columns and Left/Right colour each half; rectangular grids use Left only.
type ColorPair struct {
	Left  color.RGBA
	Right color.RGBA
}

// Solid returns a pair with both halves set to c.
func Solid(c color.RGBA) ColorPair { return ColorPair{Left: c, Right: c} }

// Signature is one cell an actor contributes to the live-unit layer for a
// single tick.
type Signature struct {
	Cell  grid.CPos
	Color color.RGBA
}

// Visibility is the fog-of-war state of a projected cell for one player.
type Visibility uint8

const (
	Unexplored Visibility = iota // never seen
	Explored                     // seen before, not currently visible
	Visible                      // currently in sight
)

// VisibilityName returns a short display name for a visibility state.
func VisibilityName(v Visibility) string {
	switch v {
	case Unexplored:
		return "unexplored"
	case Explored:
		return "explored"
	case Visible:
		return "visible"
	default:
		return "unknown"
	}
}

// Map is the read-only view of the world map the compositor needs.
type Map interface {
	Grid() grid.Type
	// Bounds is the playable area in projected coordinates, Max exclusive.
	Bounds() image.Rectangle
	MaximumTerrainHeight() int
	Contains(uv grid.MPos) bool
	// Unproject lists the map cells that project onto p. It may be empty.
	Unproject(p grid.PPos) []grid.MPos
	// TerrainColorPair is the base tile colour of a cell.
	TerrainColorPair(uv grid.MPos) ColorPair
	OnTerrainChanged(fn func(grid.CPos)) (unsubscribe func())
}

// BoundsNotifier is implemented by maps whose projected bounds can move
// after construction, as when terrain heights change. New
// subscribes and the radar refits on every notification.
type BoundsNotifier interface {
	OnBoundsChanged(fn func()) (unsubscribe func())
}

// TerrainLayer is an overlay terrain layer (resources, veins) that can claim
// the radar colour of a cell.
type TerrainLayer interface {
	TerrainColorPair(uv grid.MPos) (ColorPair, bool)
	OnTerrainChanged(fn func(grid.CPos)) (unsubscribe func())
}

// TerrainOverlay is a per-player terrain colour source, e.g. the terrain as the
// player last saw it. It is authoritative for every cell once initialised.
type TerrainOverlay interface {
	Initialized() bool
	TerrainColorPair(uv grid.MPos) ColorPair
	OnOverlayChanged(fn func(grid.CPos)) (unsubscribe func())
}

// VisibilitySource is one player's shroud.
type VisibilitySource interface {
	Visibility(p grid.PPos) Visibility
	OnVisibilityChanged(fn func(grid.PPos)) (unsubscribe func())
}

// Viewpoint is everything the compositor reads from the viewed player.
// A nil *Viewpoint means no player: everything visible, base terrain colours.
type Viewpoint struct {
	Name    string
	Shroud  VisibilitySource // nil: fully visible
	Overlay TerrainOverlay   // nil: base terrain providers
}

// ViewpointSource announces viewed-player changes.
type ViewpointSource interface {
	Viewpoint() *Viewpoint
	OnViewpointChanged(fn func(*Viewpoint)) (unsubscribe func())
}

// RadarActor is an actor with a radar signature.
type RadarActor interface {
	// RadarSignature appends this tick's cells to dst and returns it.
	RadarSignature(dst []Signature) []Signature
}

// ColorModifier is implemented by actors that alter their radar colour, e.g.
// cloaked units drawn translucent for their owner.
type ColorModifier interface {
	RadarColorOverride(c color.RGBA) color.RGBA
}

// ActorQuery enumerates the actors that may appear on the radar.
type ActorQuery interface {
	RadarActors() []RadarActor
	// FogObscures reports whether a is hidden from the rendered viewpoint.
	FogObscures(a RadarActor) bool
}

// Ping is a radar ping as the host currently animates it.
type Ping struct {
	Position grid.WPos
	Color    color.RGBA
	Radius   float64 // minimap pixels
	Angle    float64 // radians
}

// PingSource lists the pings that should currently be drawn.
type PingSource interface {
	VisiblePings() []Ping
}

// Viewport is the main world view the minimap mirrors and steers.
type Viewport interface {
	Center(pos grid.WPos)
	// VisibleWorldBounds returns the world positions at the top-left and
	// bottom-right corners of the view.
	VisibleWorldBounds() (topLeft, bottomRight grid.WPos)
	WorldToViewPx(pos grid.WPos) image.Point
}

// InteractionController receives the mouse events the minimap synthesizes
// for the main view, so orders are issued by the same code as world clicks.
type InteractionController interface {
	HandleMouseInput(mi MouseInput) bool
}

// OrderGenerator resolves the cursor for a world cell.
type OrderGenerator interface {
	// Cursor returns "" when no order applies.
	Cursor(cell grid.CPos, mi MouseInput) string
}

// CursorProvider reports which cursor sequences exist.
type CursorProvider interface {
	HasCursor(name string) bool
}

// Cue is a sound played on radar power edges.
type Cue uint8

const (
	CueOnline Cue = iota
	CueOffline
)

// CuePlayer plays radar cues.
type CuePlayer interface {
	Play(c Cue)
}

// Surface is the presentable GPU-visible copy of the layer buffer.
// *ebiten.Image satisfies it.
type Surface interface {
	WritePixels(pix []byte)
}

// TickThread marks a host that delivers world change events, Tick and draw
// calls on one logical thread, with all tick-phase writes of a frame finished
// before that frame's Commit. The compositor takes no locks; a host that runs
// simulation and rendering in parallel must double-buffer the layer buffer
// and cannot implement this.
type TickThread interface {
	SingleThreaded()
}
