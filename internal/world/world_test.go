package world

import (
	"image"
	"image/color"
	"testing"

	"golang.org/x/image/colornames"

	"github.com/Garsondee/radar/internal/grid"
	"github.com/Garsondee/radar/internal/radar"
)

var (
	red  = color.RGBA{R: 220, G: 40, B: 40, A: 255}
	blue = color.RGBA{R: 40, G: 80, B: 220, A: 255}
)

func TestShroud_ReferenceCountedSources(t *testing.T) {
	s := NewShroud(8, 8)
	var fired []grid.PPos
	s.OnVisibilityChanged(func(p grid.PPos) { fired = append(fired, p) })

	a := []grid.PPos{{U: 1, V: 1}, {U: 2, V: 1}}
	b := []grid.PPos{{U: 2, V: 1}, {U: 3, V: 1}}
	s.AddSource(a)
	s.AddSource(b)
	if len(fired) != 3 {
		t.Fatalf("fired=%v, want 3 cells becoming visible", fired)
	}

	fired = nil
	s.RemoveSource(a)
	if s.Visibility(grid.PPos{U: 2, V: 1}) != radar.Visible {
		t.Fatal("overlapping cell lost visibility while still covered")
	}
	if s.Visibility(grid.PPos{U: 1, V: 1}) != radar.Explored {
		t.Fatal("uncovered cell should be explored")
	}
	if len(fired) != 1 || fired[0] != (grid.PPos{U: 1, V: 1}) {
		t.Fatalf("fired=%v, want only (1,1)", fired)
	}
}

func TestShroud_OffMapIsUnexplored(t *testing.T) {
	s := NewShroud(4, 4)
	s.AddSource([]grid.PPos{{U: -1, V: 0}, {U: 4, V: 4}})
	if s.Visibility(grid.PPos{U: -1, V: 0}) != radar.Unexplored {
		t.Fatal("off-map cell should read unexplored")
	}
}

func TestShroud_ExploreAllAndRevealAll(t *testing.T) {
	s := NewShroud(4, 4)
	s.ExploreAll()
	un, ex, vis := s.Count()
	if un != 0 || ex != 16 || vis != 0 {
		t.Fatalf("counts=%d/%d/%d, want 0/16/0", un, ex, vis)
	}
	fired := 0
	s.OnVisibilityChanged(func(grid.PPos) { fired++ })
	s.SetRevealAll(true)
	if fired != 16 {
		t.Fatalf("fired=%d, want 16", fired)
	}
	s.SetRevealAll(true)
	if fired != 16 {
		t.Fatal("repeated reveal-all fired again")
	}
}

func TestTerrainMemory_RemembersLastSeen(t *testing.T) {
	w := NewScenario(
		WithMapSize(32, 32),
		WithPlayer("red", red, 1),
		WithUnit("red", UnitInfantry, 5, 5),
	)
	p := w.Player("red")
	seen := grid.CPos{X: 6, Y: 5}
	unseen := grid.CPos{X: 30, Y: 30}

	w.Map.SetType(seen, TerrainRoad)
	w.Map.SetType(unseen, TerrainWater)
	w.RunTicks(1)
	if !p.Memory.Initialized() {
		t.Fatal("memory should initialise after the first tick")
	}
	mem := p.Memory.TerrainColorPair(seen.ToMPos(grid.Rectangular))
	if mem.Left != colornames.Dimgray {
		t.Fatalf("visible cell memory=%v, want live road colour", mem.Left)
	}

	// Walk away, then change the terrain behind the unit's back.
	u := w.Units[0]
	u.Cell = grid.CPos{X: 20, Y: 20}
	w.updateSight(u)
	w.Map.SetType(seen, TerrainTree)
	mem = p.Memory.TerrainColorPair(seen.ToMPos(grid.Rectangular))
	if mem.Left != colornames.Dimgray {
		t.Fatalf("out-of-sight memory=%v, want stale road colour", mem.Left)
	}

	// Never-seen cells follow the live map.
	if got := p.Memory.TerrainColorPair(unseen.ToMPos(grid.Rectangular)); got.Left != colornames.Steelblue {
		t.Fatalf("unseen=%v, want live water", got.Left)
	}
}

func TestWorld_FogObscures(t *testing.T) {
	w := NewScenario(
		WithMapSize(64, 64),
		WithPlayer("red", red, 1),
		WithPlayer("blue", blue, 2),
		WithUnit("red", UnitVehicle, 10, 10),
		WithUnit("blue", UnitInfantry, 12, 10), // inside red's sight
		WithUnit("blue", UnitInfantry, 50, 50), // far away
		WithViewedPlayer("red"),
	)
	own, near, far := w.Units[0], w.Units[1], w.Units[2]

	if w.FogObscures(own) {
		t.Fatal("own unit obscured")
	}
	if w.FogObscures(near) {
		t.Fatal("enemy in sight obscured")
	}
	if !w.FogObscures(far) {
		t.Fatal("enemy out of sight visible")
	}
	w.SetCloaked(near, true)
	if !w.FogObscures(near) {
		t.Fatal("cloaked enemy visible")
	}

	w.SetViewedPlayer(nil)
	for _, u := range []*Unit{own, near, far} {
		if w.FogObscures(u) {
			t.Fatalf("unit %d obscured with no viewer", u.ID)
		}
	}
}

func TestUnit_CloakHalvesAlpha(t *testing.T) {
	u := &Unit{Cloaked: true}
	got := u.RadarColorOverride(color.RGBA{R: 255, G: 0, B: 0, A: 255})
	if got != (color.RGBA{R: 128, A: 128}) {
		t.Fatalf("override=%v, want premultiplied half alpha", got)
	}
	u.Cloaked = false
	if got := u.RadarColorOverride(red); got != red {
		t.Fatalf("uncloaked override=%v, want unchanged", got)
	}
}

func TestUnit_BuildingFootprint(t *testing.T) {
	w := NewScenario(WithPlayer("red", red, 1), WithUnit("red", UnitBuilding, 3, 4))
	sig := w.Units[0].RadarSignature(nil)
	if len(sig) != 4 {
		t.Fatalf("signature cells=%d, want 4", len(sig))
	}
	for _, s := range sig {
		if s.Color != red {
			t.Fatalf("colour=%v, want owner colour", s.Color)
		}
	}
}

func TestUnit_MovesTowardTarget(t *testing.T) {
	w := NewScenario(WithPlayer("red", red, 1), WithUnit("red", UnitVehicle, 0, 0))
	u := w.Units[0]
	u.MoveTo(grid.CPos{X: 3, Y: 1})
	tick := w.RunUntil(func(*World) bool { return !u.Moving() }, 100)
	if tick < 0 {
		t.Fatal("unit never arrived")
	}
	if u.Cell != (grid.CPos{X: 3, Y: 1}) {
		t.Fatalf("cell=%v, want (3,1)", u.Cell)
	}
	if p := w.Player("red"); p.Shroud.Visibility(grid.PPos{U: 8, V: 1}) != radar.Visible {
		t.Fatal("sight did not follow the unit")
	}
}

func TestUnit_BlockedByWater(t *testing.T) {
	w := NewScenario(
		WithTerrainRect(2, 0, 1, 10, TerrainWater),
		WithPlayer("red", red, 1),
		WithUnit("red", UnitVehicle, 0, 0),
	)
	u := w.Units[0]
	u.MoveTo(grid.CPos{X: 5, Y: 0})
	w.RunTicks(50)
	if u.Cell != (grid.CPos{X: 1, Y: 0}) || u.Moving() {
		t.Fatalf("cell=%v moving=%v, want stopped at the shore", u.Cell, u.Moving())
	}
}

func TestRadarPings_ShrinkRotateExpire(t *testing.T) {
	w := NewScenario(WithPlayer("red", red, 1), WithPlayer("blue", blue, 2), WithViewedPlayer("blue"))
	w.Ping(w.Player("red"), grid.WPos{X: 5000, Y: 5000}, red)
	w.Ping(nil, grid.WPos{X: 100, Y: 100}, blue)

	if got := len(w.VisiblePings()); got != 1 {
		t.Fatalf("blue sees %d pings, want only the public one", got)
	}
	w.SetViewedPlayer(w.Player("red"))
	if got := len(w.VisiblePings()); got != 2 {
		t.Fatalf("red sees %d pings, want 2", got)
	}

	w.RunTicks(1)
	p := w.VisiblePings()[0]
	if p.Radius != DefaultPingFromRadius-DefaultPingShrinkSpeed {
		t.Fatalf("radius=%v, want %v", p.Radius, DefaultPingFromRadius-DefaultPingShrinkSpeed)
	}
	if p.Angle != -DefaultPingRotationSpeed {
		t.Fatalf("angle=%v, want %v", p.Angle, -DefaultPingRotationSpeed)
	}

	w.RunTicks(100)
	if got := w.VisiblePings()[0].Radius; got != DefaultPingToRadius {
		t.Fatalf("radius=%v, want floor %v", got, DefaultPingToRadius)
	}
	w.RunTicks(DefaultPingDuration)
	if w.Pings.Len() != 0 {
		t.Fatalf("pings=%d after expiry, want 0", w.Pings.Len())
	}
}

func TestWorld_ViewpointChangeNotifies(t *testing.T) {
	w := NewScenario(WithPlayer("red", red, 1))
	var got []*radar.Viewpoint
	w.OnViewpointChanged(func(vp *radar.Viewpoint) { got = append(got, vp) })

	w.SetViewedPlayer(w.Player("red"))
	w.SetViewedPlayer(w.Player("red"))
	w.SetViewedPlayer(nil)

	if len(got) != 2 {
		t.Fatalf("notifications=%d, want 2", len(got))
	}
	if got[0] == nil || got[0].Name != "red" || got[1] != nil {
		t.Fatalf("viewpoints=%v", got)
	}
	if got[0] != w.Player("red").Viewpoint() {
		t.Fatal("viewpoint should be stable per player")
	}
	if w.Log.Count(EventViewpoint) != 2 {
		t.Fatalf("log:\n%s", w.Log.Format())
	}
}

func TestWorld_CycleViewedPlayer(t *testing.T) {
	w := NewScenario(WithPlayer("red", red, 1), WithPlayer("blue", blue, 2))
	var names []string
	for range 4 {
		w.CycleViewedPlayer()
		names = append(names, playerName(w.ViewedPlayer()))
	}
	want := []string{"red", "blue", playerName(nil), "red"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("cycle=%v, want %v", names, want)
		}
	}
}

// A full radar over a generated world: the compositor sees the viewed
// player's shroud and the units it is allowed to see.
func TestWorld_DrivesRadar(t *testing.T) {
	w := NewScenario(
		WithMapSize(48, 48),
		WithSeed(7),
		WithRandomTerrain(),
		WithResourceField(30, 30, 2, ResourceOre),
		WithPlayer("red", red, 1),
		WithPlayer("blue", blue, 2),
		WithUnit("red", UnitVehicle, 10, 10),
		WithUnit("blue", UnitInfantry, 40, 40),
		WithViewedPlayer("red"),
	)
	r, err := radar.New(w, w.Map, radar.DefaultConfig(image.Rect(0, 0, 192, 192)),
		radar.WithTerrainLayer(w.Resources),
		radar.WithActors(w),
		radar.WithPings(w),
	)
	if err != nil {
		t.Fatalf("radar.New: %v", err)
	}
	defer r.Close()
	r.Follow(w)

	w.RunTicks(1)
	r.Tick()

	if c, _ := r.SignatureAt(grid.CPos{X: 10, Y: 10}); c.Left != red {
		t.Fatalf("own unit=%v, want red", c.Left)
	}
	if c, _ := r.SignatureAt(grid.CPos{X: 40, Y: 40}); c.Left != (color.RGBA{}) {
		t.Fatalf("hidden enemy drawn: %v", c.Left)
	}
	if c, _ := r.ShroudAt(grid.CPos{X: 10, Y: 10}); c.Left != (color.RGBA{}) {
		t.Fatalf("shroud over own unit=%v, want clear", c.Left)
	}
	if c, _ := r.ShroudAt(grid.CPos{X: 40, Y: 40}); c.Left != radar.DefaultShroudColor {
		t.Fatalf("shroud far away=%v, want black", c.Left)
	}

	// Switching to no player shows everything.
	w.SetViewedPlayer(nil)
	r.Tick()
	if c, _ := r.SignatureAt(grid.CPos{X: 40, Y: 40}); c.Left != blue {
		t.Fatalf("enemy with no viewer=%v, want blue", c.Left)
	}
	if c, _ := r.ShroudAt(grid.CPos{X: 40, Y: 40}); c.Left != (color.RGBA{}) {
		t.Fatalf("shroud with no viewer=%v, want clear", c.Left)
	}
}

func TestTileMap_HeightEditRefitsLiveRadar(t *testing.T) {
	w := NewScenario(WithMapSize(16, 16), WithMaxHeight(4))
	r, err := radar.New(w, w.Map, radar.DefaultConfig(image.Rect(0, 0, 64, 64)))
	if err != nil {
		t.Fatalf("radar.New: %v", err)
	}
	before := r.Stats().Reprimes

	w.Map.SetHeight(grid.CPos{X: 3, Y: 3}, 2)
	if got := r.Stats().Reprimes; got != before+1 {
		t.Fatalf("reprimes=%d, want %d after a height edit", got, before+1)
	}
	// Same height again is not an edit.
	w.Map.SetHeight(grid.CPos{X: 3, Y: 3}, 2)
	if got := r.Stats().Reprimes; got != before+1 {
		t.Fatalf("reprimes=%d after a no-op edit, want %d", got, before+1)
	}

	r.Close()
	w.Map.SetHeight(grid.CPos{X: 3, Y: 3}, 4)
	if got := r.Stats().Reprimes; got != before+1 {
		t.Fatalf("closed radar reprimed: %d", got)
	}
}
