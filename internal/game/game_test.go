package game

import (
	"image"
	"image/color"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/radar/internal/grid"
	"github.com/Garsondee/radar/internal/radar"
	"github.com/Garsondee/radar/internal/world"
)

var (
	red  = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	blue = color.RGBA{R: 40, G: 80, B: 220, A: 255}
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testCamera(w *world.World) *Camera {
	c := &Camera{
		Zoom:   32.0 / grid.WorldCellSize,
		View:   image.Rect(0, 0, 640, 480),
		Extent: worldExtent(w.Map.Grid(), w.Map.Cols, w.Map.Rows),
	}
	c.Center(grid.WPos{X: 16 * grid.WorldCellSize, Y: 16 * grid.WorldCellSize})
	return c
}

func TestCamera_ScreenWorldRoundTrip(t *testing.T) {
	w := world.NewScenario(world.WithMapSize(32, 32))
	cam := testCamera(w)
	for _, p := range []image.Point{{0, 0}, {320, 240}, {17, 401}, {639, 479}} {
		back := cam.WorldToViewPx(cam.ScreenToWorld(p))
		if d := back.Sub(p); d.X < -1 || d.X > 1 || d.Y < -1 || d.Y > 1 {
			t.Fatalf("%v -> %v", p, back)
		}
	}
	if got := cam.WorldToViewPx(grid.WPos{X: 16 * grid.WorldCellSize, Y: 16 * grid.WorldCellSize}); got != image.Pt(320, 240) {
		t.Fatalf("centre=%v, want (320,240)", got)
	}
}

func TestCamera_VisibleWorldBounds(t *testing.T) {
	w := world.NewScenario(world.WithMapSize(32, 32))
	cam := testCamera(w)
	tl, br := cam.VisibleWorldBounds()
	// 640x480 px at 32 px per cell is 20x15 cells around (16,16).
	if tl.X != 6*grid.WorldCellSize || tl.Y != 8*grid.WorldCellSize+512 {
		t.Fatalf("top-left=%v", tl)
	}
	if br.X != 26*grid.WorldCellSize || br.Y != 23*grid.WorldCellSize+512 {
		t.Fatalf("bottom-right=%v", br)
	}
}

func TestCamera_CenterClampsAndZoomClamps(t *testing.T) {
	w := world.NewScenario(world.WithMapSize(10, 10))
	cam := testCamera(w)
	cam.Center(grid.WPos{X: -5000, Y: 1 << 20})
	if cam.X != 0 || cam.Y != float64(10*grid.WorldCellSize) {
		t.Fatalf("centre=(%v,%v), want clamped to the extent", cam.X, cam.Y)
	}
	cam.ZoomBy(1000)
	if cam.Zoom != zoomMax {
		t.Fatalf("zoom=%v, want %v", cam.Zoom, zoomMax)
	}
	cam.ZoomBy(0)
	if cam.Zoom != zoomMin {
		t.Fatalf("zoom=%v, want %v", cam.Zoom, zoomMin)
	}
}

func ordersWorld(t *testing.T) (*world.World, *Orders) {
	t.Helper()
	w := world.NewScenario(
		world.WithMapSize(32, 32),
		world.WithTerrainRect(20, 0, 1, 32, world.TerrainWater),
		world.WithPlayer("red", red, 1),
		world.WithPlayer("blue", blue, 2),
		world.WithUnit("red", world.UnitVehicle, 10, 10),
		world.WithUnit("red", world.UnitBuilding, 4, 4),
		world.WithUnit("blue", world.UnitInfantry, 12, 12),
		world.WithViewedPlayer("red"),
	)
	return w, NewOrders(w, testCamera(w), quietLogger())
}

func TestOrders_SelectOwnUnitsOnly(t *testing.T) {
	w, o := ordersWorld(t)
	if n := o.Select(grid.CPos{X: 12, Y: 12}); n != 0 {
		t.Fatalf("selected %d enemy units", n)
	}
	if n := o.Select(grid.CPos{X: 5, Y: 5}); n != 1 || o.Selected()[0].Kind != world.UnitBuilding {
		t.Fatalf("building footprint not selectable: %d", n)
	}
	w.SetViewedPlayer(nil)
	if n := o.Select(grid.CPos{X: 12, Y: 12}); n != 1 {
		t.Fatalf("no viewer should select any unit, got %d", n)
	}
}

func TestOrders_Cursor(t *testing.T) {
	_, o := ordersWorld(t)
	if c := o.Cursor(grid.CPos{X: 15, Y: 15}, radar.MouseInput{}); c != "" {
		t.Fatalf("cursor without selection=%q", c)
	}
	o.Select(grid.CPos{X: 10, Y: 10})
	if c := o.Cursor(grid.CPos{X: 15, Y: 15}, radar.MouseInput{}); c != cursorMove {
		t.Fatalf("cursor=%q, want move", c)
	}
	if c := o.Cursor(grid.CPos{X: 20, Y: 5}, radar.MouseInput{}); c != cursorMoveBlocked {
		t.Fatalf("cursor over water=%q, want blocked", c)
	}
	o.Select(grid.CPos{X: 4, Y: 4})
	if c := o.Cursor(grid.CPos{X: 15, Y: 15}, radar.MouseInput{}); c != cursorMoveBlocked {
		t.Fatalf("building cursor=%q, want blocked", c)
	}
}

func TestOrders_RightPressIssuesOneOrder(t *testing.T) {
	_, o := ordersWorld(t)
	u := o.w.Units[0]
	o.Select(u.Cell)

	target := o.cam.WorldToViewPx(grid.CenterOfCell(grid.Rectangular, grid.CPos{X: 14, Y: 9}))
	down := radar.MouseInput{Event: radar.MouseDown, Button: radar.ButtonRight, Location: target}
	up := down
	up.Event = radar.MouseUp

	if !o.HandleMouseInput(down) || !o.HandleMouseInput(up) {
		t.Fatal("press/release not consumed")
	}
	if o.Issued() != 1 {
		t.Fatalf("orders=%d, want 1", o.Issued())
	}
	if !u.Moving() {
		t.Fatal("unit did not receive the order")
	}
	if o.HandleMouseInput(radar.MouseInput{Event: radar.MouseDown, Button: radar.ButtonLeft, Location: target}) {
		t.Fatal("left press consumed by the order controller")
	}
}

// A right click on the minimap reaches the world controller as a
// press/release at the matching main-view pixel and moves the unit there.
func TestOrders_MinimapRightClickMovesUnit(t *testing.T) {
	w, o := ordersWorld(t)
	r, err := radar.New(w, w.Map, radar.DefaultConfig(image.Rect(0, 0, 128, 128)),
		radar.WithViewport(o.cam),
		radar.WithInteractionController(o),
		radar.WithOrderGenerator(o),
		radar.WithCursorProvider(hostCursors),
	)
	if err != nil {
		t.Fatalf("radar.New: %v", err)
	}
	defer r.Close()
	for !r.HasRadar() {
		r.Tick()
	}

	u := w.Units[0]
	o.Select(u.Cell)
	target := grid.CPos{X: 14, Y: 9}
	px := r.CellToMinimapPixel(target)

	if name, ok := r.CursorAt(px, 0); !ok || name != cursorMove+"-minimap" {
		t.Fatalf("cursor=%q ok=%v, want minimap move variant", name, ok)
	}
	if !r.HandleMouse(radar.MouseInput{Event: radar.MouseDown, Button: radar.ButtonRight, Location: px}) {
		t.Fatal("minimap did not consume the click")
	}
	if o.Issued() != 1 {
		t.Fatalf("orders=%d, want 1", o.Issued())
	}
	w.RunUntil(func(*world.World) bool { return !u.Moving() }, 200)
	if u.Cell != target {
		t.Fatalf("unit at %v, want %v", u.Cell, target)
	}
}

func TestGroundColor_FollowsViewerShroud(t *testing.T) {
	w, _ := ordersWorld(t)
	w.RunTicks(1)
	near := grid.MPos{U: 10, V: 10}
	far := grid.MPos{U: 30, V: 30}

	if c := groundColor(w, near); c != w.LiveColor(near).Left {
		t.Fatalf("visible=%v, want live %v", c, w.LiveColor(near).Left)
	}
	if c := groundColor(w, far); c.A != 0 {
		t.Fatalf("unexplored=%v, want transparent", c)
	}
	w.SetViewedPlayer(nil)
	if c := groundColor(w, far); c != w.LiveColor(far).Left {
		t.Fatalf("no viewer=%v, want live", c)
	}
}

func TestCellReport(t *testing.T) {
	w, _ := ordersWorld(t)
	r, err := radar.New(w, w.Map, radar.DefaultConfig(image.Rect(0, 0, 64, 64)),
		radar.WithTerrainLayer(w.Resources), radar.WithActors(w))
	if err != nil {
		t.Fatalf("radar.New: %v", err)
	}
	defer r.Close()
	r.Follow(w)
	w.RunTicks(1)
	r.Tick()

	got := strings.Join(cellReport(w, r, grid.CPos{X: 10, Y: 10}), "\n")
	for _, want := range []string{"cell (10,10)", "terrain clear", "shroud visible", "vehicle red", "radar actor   #dc2828ff"} {
		if !strings.Contains(got, want) {
			t.Fatalf("report missing %q:\n%s", want, got)
		}
	}
	if got := cellReport(w, r, grid.CPos{X: 99, Y: 0}); got[len(got)-1] != "off map" {
		t.Fatalf("off-map report=%v", got)
	}
}

func TestSlideOrigin_EndsAtHome(t *testing.T) {
	home := image.Rect(16, 16, 272, 272)
	if got := slideOrigin(home, 1); got != home.Min {
		t.Fatalf("open origin=%v, want %v", got, home.Min)
	}
	if got := slideOrigin(home, 0); got != image.Pt(-256, 16) {
		t.Fatalf("closed origin=%v, want (-256,16)", got)
	}
	if got := slideOrigin(home, 0.5); got != image.Pt(-120, 16) {
		t.Fatalf("half origin=%v, want (-120,16)", got)
	}
}
