package radar

import (
	"image"
	"image/color"
	"testing"

	"github.com/Garsondee/radar/internal/grid"
)

// testThread satisfies TickThread; tests run on one goroutine.
type testThread struct{}

func (testThread) SingleThreaded() {}

// testMap is a headless Map with per-cell colours and heights.
type testMap struct {
	gt      grid.Type
	w, h    int
	maxH    int
	heights map[grid.MPos]int
	colors  map[grid.MPos]ColorPair
	base    color.RGBA
	changed grid.Notifier[grid.CPos]
}

func newTestMap(gt grid.Type, w, h int) *testMap {
	return &testMap{
		gt:      gt,
		w:       w,
		h:       h,
		heights: map[grid.MPos]int{},
		colors:  map[grid.MPos]ColorPair{},
		base:    color.RGBA{R: 30, G: 48, B: 30, A: 255},
	}
}

func (m *testMap) Grid() grid.Type            { return m.gt }
func (m *testMap) Bounds() image.Rectangle    { return image.Rect(0, 0, m.w, m.h) }
func (m *testMap) MaximumTerrainHeight() int  { return m.maxH }
func (m *testMap) Contains(uv grid.MPos) bool { return uv.U >= 0 && uv.V >= 0 && uv.U < m.w && uv.V < m.h }

func (m *testMap) Unproject(p grid.PPos) []grid.MPos {
	var out []grid.MPos
	// Heights only shift cells upward, so candidates lie at or below p.
	for v := p.V; v <= p.V+m.maxH; v++ {
		uv := grid.MPos{U: p.U, V: v}
		if m.Contains(uv) && v-m.heights[uv] == p.V {
			out = append(out, uv)
		}
	}
	return out
}

func (m *testMap) TerrainColorPair(uv grid.MPos) ColorPair {
	if c, ok := m.colors[uv]; ok {
		return c
	}
	return Solid(m.base)
}

func (m *testMap) OnTerrainChanged(fn func(grid.CPos)) func() { return m.changed.Subscribe(fn) }

// setColor changes a cell's tile colour and notifies.
func (m *testMap) setColor(c grid.CPos, col ColorPair) {
	m.colors[c.ToMPos(m.gt)] = col
	m.changed.Fire(c)
}

// testShroud is a VisibilitySource backed by a map.
type testShroud struct {
	state   map[grid.PPos]Visibility
	changed grid.Notifier[grid.PPos]
}

func newTestShroud() *testShroud { return &testShroud{state: map[grid.PPos]Visibility{}} }

func (s *testShroud) Visibility(p grid.PPos) Visibility { return s.state[p] }
func (s *testShroud) OnVisibilityChanged(fn func(grid.PPos)) func() {
	return s.changed.Subscribe(fn)
}

func (s *testShroud) set(p grid.PPos, v Visibility) {
	s.state[p] = v
	s.changed.Fire(p)
}

// testOverlay is a TerrainOverlay returning one colour everywhere.
type testOverlay struct {
	color   ColorPair
	ready   bool
	changed grid.Notifier[grid.CPos]
}

func (o *testOverlay) Initialized() bool                          { return o.ready }
func (o *testOverlay) TerrainColorPair(grid.MPos) ColorPair       { return o.color }
func (o *testOverlay) OnOverlayChanged(fn func(grid.CPos)) func() { return o.changed.Subscribe(fn) }

// testLayer is a TerrainLayer claiming a fixed set of cells.
type testLayer struct {
	cells   map[grid.MPos]ColorPair
	changed grid.Notifier[grid.CPos]
}

func (l *testLayer) TerrainColorPair(uv grid.MPos) (ColorPair, bool) {
	c, ok := l.cells[uv]
	return c, ok
}
func (l *testLayer) OnTerrainChanged(fn func(grid.CPos)) func() { return l.changed.Subscribe(fn) }

// testActor has a fixed signature.
type testActor struct {
	cells    []grid.CPos
	color    color.RGBA
	obscured bool
}

func (a *testActor) RadarSignature(dst []Signature) []Signature {
	for _, c := range a.cells {
		dst = append(dst, Signature{Cell: c, Color: a.color})
	}
	return dst
}

type cloakedActor struct{ *testActor }

func (c cloakedActor) RadarColorOverride(col color.RGBA) color.RGBA {
	return color.RGBA{R: col.R / 2, G: col.G / 2, B: col.B / 2, A: col.A / 2}
}

// testActors is an ActorQuery over a slice.
type testActors struct{ list []RadarActor }

func (q *testActors) RadarActors() []RadarActor { return q.list }
func (q *testActors) FogObscures(a RadarActor) bool {
	switch v := a.(type) {
	case *testActor:
		return v.obscured
	case cloakedActor:
		return v.obscured
	}
	return false
}

// testViewport records Center calls.
type testViewport struct {
	centered []grid.WPos
	tl, br   grid.WPos
}

func (v *testViewport) Center(p grid.WPos) { v.centered = append(v.centered, p) }
func (v *testViewport) VisibleWorldBounds() (grid.WPos, grid.WPos) {
	return v.tl, v.br
}
func (v *testViewport) WorldToViewPx(p grid.WPos) image.Point {
	return image.Pt(p.X/32, p.Y/32)
}

// testController records forwarded mouse input.
type testController struct{ got []MouseInput }

func (c *testController) HandleMouseInput(mi MouseInput) bool {
	c.got = append(c.got, mi)
	return true
}

// testCues counts played cues.
type testCues struct{ played []Cue }

func (c *testCues) Play(cue Cue) { c.played = append(c.played, cue) }

// testSurface counts uploads.
type testSurface struct {
	uploads int
	last    []byte
}

func (s *testSurface) WritePixels(pix []byte) {
	s.uploads++
	s.last = append(s.last[:0], pix...)
}

// newTestRadar builds a radar over m fitted into a 256x256 widget.
func newTestRadar(t *testing.T, m Map, opts ...Option) *Radar {
	t.Helper()
	r, err := New(testThread{}, m, DefaultConfig(image.Rect(0, 0, 256, 256)), opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

// openRadar ticks r until the reveal animation completes.
func openRadar(r *Radar) {
	for i := 0; i < r.Animation().Length(); i++ {
		r.Tick()
	}
}
