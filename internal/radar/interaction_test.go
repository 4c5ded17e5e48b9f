package radar

import (
	"image"
	"math"
	"testing"

	"github.com/Garsondee/radar/internal/grid"
)

type testOrders struct{ cursor string }

func (o testOrders) Cursor(grid.CPos, MouseInput) string { return o.cursor }

type testCursors map[string]bool

func (c testCursors) HasCursor(name string) bool { return c[name] }

type testPings []Ping

func (p testPings) VisiblePings() []Ping { return p }

func TestHandleMouse_LeftClickCentresViewport(t *testing.T) {
	vp := &testViewport{}
	r := newTestRadar(t, newTestMap(grid.Rectangular, 64, 64), WithViewport(vp))
	openRadar(r)

	if !r.HandleMouse(MouseInput{Event: MouseDown, Button: ButtonLeft, Location: image.Pt(41, 82)}) {
		t.Fatal("click inside the preview should be consumed")
	}
	want := grid.CenterOfCell(grid.Rectangular, grid.CPos{X: 10, Y: 20})
	if len(vp.centered) != 1 || vp.centered[0] != want {
		t.Fatalf("centered=%v, want [%v]", vp.centered, want)
	}

	// Dragging keeps navigating.
	r.HandleMouse(MouseInput{Event: MouseMove, Button: ButtonLeft, Location: image.Pt(4, 4)})
	if len(vp.centered) != 2 || vp.centered[1] != grid.CenterOfCell(grid.Rectangular, grid.CPos{X: 1, Y: 1}) {
		t.Fatalf("drag centered=%v", vp.centered)
	}
}

func TestHandleMouse_RightClickSynthesizesPressAndRelease(t *testing.T) {
	vp := &testViewport{}
	ctl := &testController{}
	r := newTestRadar(t, newTestMap(grid.Rectangular, 64, 64),
		WithViewport(vp), WithInteractionController(ctl))
	openRadar(r)

	r.HandleMouse(MouseInput{Event: MouseDown, Button: ButtonRight, Modifiers: ModShift, Location: image.Pt(41, 82)})

	if len(ctl.got) != 2 {
		t.Fatalf("forwarded %d events, want 2", len(ctl.got))
	}
	if ctl.got[0].Event != MouseDown || ctl.got[1].Event != MouseUp {
		t.Fatalf("events=%v,%v, want down then up", ctl.got[0].Event, ctl.got[1].Event)
	}
	pos := grid.CenterOfCell(grid.Rectangular, grid.CPos{X: 10, Y: 20})
	wantPx := vp.WorldToViewPx(pos)
	for _, mi := range ctl.got {
		if mi.Location != wantPx || mi.Button != ButtonRight || mi.Modifiers != ModShift {
			t.Fatalf("forwarded %+v, want right at %v with shift", mi, wantPx)
		}
	}
	if len(vp.centered) != 0 {
		t.Fatal("right click should not move the view")
	}

	// The release of the real click is swallowed, not forwarded again.
	r.HandleMouse(MouseInput{Event: MouseUp, Button: ButtonRight, Location: image.Pt(41, 82)})
	if len(ctl.got) != 2 {
		t.Fatalf("real release forwarded, got %d events", len(ctl.got))
	}
}

func TestHandleMouse_OutsidePreviewNotConsumed(t *testing.T) {
	vp := &testViewport{}
	r := newTestRadar(t, newTestMap(grid.Rectangular, 64, 32), WithViewport(vp))
	openRadar(r)
	// 64x32 in 256x256 is letterboxed to y 64..192.
	if r.HandleMouse(MouseInput{Event: MouseDown, Button: ButtonLeft, Location: image.Pt(10, 10)}) {
		t.Fatal("click in the letterbox should fall through")
	}
	if len(vp.centered) != 0 {
		t.Fatal("view moved on a click outside the preview")
	}
}

func TestHandleMouse_ClosedRadarSwallowsClicks(t *testing.T) {
	vp := &testViewport{}
	r := newTestRadar(t, newTestMap(grid.Rectangular, 64, 64), WithViewport(vp))
	if !r.HandleMouse(MouseInput{Event: MouseDown, Button: ButtonLeft, Location: image.Pt(41, 82)}) {
		t.Fatal("click on a closed minimap should still be consumed")
	}
	if len(vp.centered) != 0 {
		t.Fatal("closed minimap navigated")
	}
}

func TestCursorAt_PrefersMinimapVariant(t *testing.T) {
	m := newTestMap(grid.Rectangular, 64, 64)
	cases := []struct {
		name    string
		orders  OrderGenerator
		cursors CursorProvider
		want    string
	}{
		{"no orders", nil, nil, "default"},
		{"no order applies", testOrders{""}, nil, "default"},
		{"plain", testOrders{"attack"}, testCursors{}, "attack"},
		{"minimap variant", testOrders{"attack"}, testCursors{"attack-minimap": true}, "attack-minimap"},
	}
	for _, tc := range cases {
		opts := []Option{}
		if tc.orders != nil {
			opts = append(opts, WithOrderGenerator(tc.orders))
		}
		if tc.cursors != nil {
			opts = append(opts, WithCursorProvider(tc.cursors))
		}
		r := newTestRadar(t, m, opts...)
		openRadar(r)
		got, ok := r.CursorAt(image.Pt(100, 100), 0)
		if !ok || got != tc.want {
			t.Fatalf("%s: cursor=%q ok=%v, want %q", tc.name, got, ok, tc.want)
		}
		r.Close()
	}
}

func TestCursorAt_NoOpinionWhenClosed(t *testing.T) {
	r := newTestRadar(t, newTestMap(grid.Rectangular, 64, 64), WithOrderGenerator(testOrders{"move"}))
	if _, ok := r.CursorAt(image.Pt(100, 100), 0); ok {
		t.Fatal("closed minimap should not pick a cursor")
	}
}

func TestMinimapPixelToCell_StaggeredRoundTrip(t *testing.T) {
	m := newTestMap(grid.Staggered, 24, 24)
	r := newTestRadar(t, m)
	for v := 0; v < 24; v++ {
		for u := 0; u < 24; u++ {
			c := grid.MPos{U: u, V: v}.ToCPos(grid.Staggered)
			if got := r.MinimapPixelToCell(r.CellToMinimapPixel(c)); got != c {
				t.Fatalf("round trip %v -> %v", c, got)
			}
		}
	}
}

func TestOverlay_ViewportAndPings(t *testing.T) {
	vp := &testViewport{
		tl: grid.WPos{},
		br: grid.WPos{X: 16 * grid.WorldCellSize, Y: 8 * grid.WorldCellSize},
	}
	pingPos := grid.CenterOfCell(grid.Rectangular, grid.CPos{X: 10, Y: 10})
	pings := testPings{{Position: pingPos, Radius: 5, Angle: 0, Color: colorRed}}
	r := newTestRadar(t, newTestMap(grid.Rectangular, 64, 64), WithViewport(vp), WithPings(pings))

	if _, ok := r.Overlay(); ok {
		t.Fatal("overlay should be hidden while closed")
	}
	openRadar(r)
	o, ok := r.Overlay()
	if !ok {
		t.Fatal("overlay should be shown once open")
	}
	if want := image.Rect(0, 0, 64, 32); o.Viewport != want {
		t.Fatalf("viewport box=%v, want %v", o.Viewport, want)
	}
	if o.Clip != r.MapRect() {
		t.Fatalf("clip=%v, want map rect", o.Clip)
	}
	if len(o.Pings) != 1 {
		t.Fatalf("pings=%d, want 1", len(o.Pings))
	}
	p0 := o.Pings[0].Points[0]
	if p0.X != 45 || p0.Y != 40 {
		t.Fatalf("first vertex=%v, want (45,40)", p0)
	}
	// All vertices sit on the circumcircle.
	for _, p := range o.Pings[0].Points {
		d := math.Hypot(float64(p.X)-40, float64(p.Y)-40)
		if math.Abs(d-5) > 1e-3 {
			t.Fatalf("vertex %v at distance %v, want 5", p, d)
		}
	}
}

func TestLayers_RevealScalesHeightAroundCentre(t *testing.T) {
	sh := newTestShroud()
	r := newTestRadar(t, newTestMap(grid.Rectangular, 64, 64))
	r.SwitchTo(&Viewpoint{Shroud: sh})

	ls := r.Layers()
	if len(ls) != 3 {
		t.Fatalf("layers=%d, want terrain, actor, shroud", len(ls))
	}
	if ls[0].Dst.H != 0 || ls[0].Dst.Y != 128 {
		t.Fatalf("closed dst=%+v, want zero height at centre", ls[0].Dst)
	}
	openRadar(r)
	ls = r.Layers()
	if ls[0].Dst != (RectF{X: 0, Y: 0, W: 256, H: 256}) {
		t.Fatalf("open dst=%+v, want full rect", ls[0].Dst)
	}
	order := []Quadrant{QuadrantTerrain, QuadrantActor, QuadrantShroud}
	for i, q := range order {
		if ls[i].Quadrant != q {
			t.Fatalf("layer %d=%s, want %s", i, QuadrantName(ls[i].Quadrant), QuadrantName(q))
		}
	}
}
