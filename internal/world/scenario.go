package world

import (
	"image/color"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/radar/internal/grid"
)

// scenarioOptionKind controls the pass in which an option is applied.
type scenarioOptionKind int

const (
	optInfra   scenarioOptionKind = iota // grid, size, seed, logger
	optTerrain                           // terrain, heights, resources
	optPlayer                            // players
	optUnit                              // units, after their owners
	optView                              // viewed player
)

// Option is a builder step applied to a scenario during construction.
type Option struct {
	kind scenarioOptionKind
	fn   func(*scenario)
}

// scenario holds construction state until the world exists.
type scenario struct {
	gridType   grid.Type
	cols, rows int
	maxHeight  int
	minBright  float64
	maxBright  float64
	rng        *rand.Rand
	log        logrus.FieldLogger
	verbose    bool

	w *World
}

// WithGrid sets the map topology.
func WithGrid(t grid.Type) Option {
	return Option{optInfra, func(s *scenario) { s.gridType = t }}
}

// WithMapSize sets the map dimensions in map cells.
func WithMapSize(cols, rows int) Option {
	return Option{optInfra, func(s *scenario) { s.cols, s.rows = cols, rows }}
}

// WithMaxHeight allows terrain heights up to h.
func WithMaxHeight(h int) Option {
	return Option{optInfra, func(s *scenario) { s.maxHeight = h }}
}

// WithHeightBrightness sets the radar brightness at height 0 and at the
// maximum height.
func WithHeightBrightness(lo, hi float64) Option {
	return Option{optInfra, func(s *scenario) { s.minBright, s.maxBright = lo, hi }}
}

// WithSeed sets the RNG seed for deterministic terrain.
func WithSeed(seed int64) Option {
	return Option{optInfra, func(s *scenario) {
		s.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- map generation, not security
	}}
}

// WithLogger sets the world logger.
func WithLogger(l logrus.FieldLogger) Option {
	return Option{optInfra, func(s *scenario) { s.log = l }}
}

// WithVerbose records per-tick movement in the event log.
func WithVerbose(v bool) Option {
	return Option{optInfra, func(s *scenario) { s.verbose = v }}
}

// WithRandomTerrain scatters lakes, rough ground, woods and rocks and runs a
// road across the middle of the map.
func WithRandomTerrain() Option {
	return Option{optTerrain, func(s *scenario) { s.randomTerrain() }}
}

// WithTerrainRect paints a rectangle of cells.
func WithTerrainRect(x, y, w, h int, t TerrainType) Option {
	return Option{optTerrain, func(s *scenario) {
		for cy := y; cy < y+h; cy++ {
			for cx := x; cx < x+w; cx++ {
				s.w.Map.SetType(grid.CPos{X: cx, Y: cy}, t)
			}
		}
	}}
}

// WithHill raises a cone of terrain peaking at height at (x, y).
func WithHill(x, y, radius, height int) Option {
	return Option{optTerrain, func(s *scenario) { s.hill(x, y, radius, height) }}
}

// WithResourceField seeds a round deposit.
func WithResourceField(x, y, radius int, t ResourceType) Option {
	return Option{optTerrain, func(s *scenario) {
		forDisc(x, y, radius, func(c grid.CPos) {
			s.w.Resources.Seed(c, t, MaxResourceDensity)
		})
	}}
}

// WithPlayer adds a player.
func WithPlayer(name string, c color.RGBA, team int) Option {
	return Option{optPlayer, func(s *scenario) { s.w.AddPlayer(name, c, team) }}
}

// WithUnit adds a unit owned by the named player.
func WithUnit(owner string, kind UnitKind, x, y int) Option {
	return Option{optUnit, func(s *scenario) {
		s.w.AddUnit(s.w.Player(owner), kind, grid.CPos{X: x, Y: y})
	}}
}

// WithViewedPlayer renders the world for the named player.
func WithViewedPlayer(name string) Option {
	return Option{optView, func(s *scenario) { s.w.SetViewedPlayer(s.w.Player(name)) }}
}

// NewScenario builds a world from options in ordered passes:
//  1. Infrastructure (grid, size, heights, seed, logger)
//  2. Terrain, hills and resources
//  3. Players
//  4. Units
//  5. Viewed player
func NewScenario(opts ...Option) *World {
	s := &scenario{
		gridType:  grid.Rectangular,
		cols:      64,
		rows:      64,
		minBright: 1,
		maxBright: 1,
		rng:       rand.New(rand.NewSource(1)), // #nosec G404 -- deterministic default
	}
	apply := func(k scenarioOptionKind) {
		for _, o := range opts {
			if o.kind == k {
				o.fn(s)
			}
		}
	}

	apply(optInfra)
	m := NewTileMap(s.gridType, s.cols, s.rows, s.maxHeight)
	m.MinBrightness, m.MaxBrightness = s.minBright, s.maxBright
	s.w = NewWorld(m, s.log)
	s.w.Log = NewEventLog(s.verbose)

	apply(optTerrain)
	apply(optPlayer)
	apply(optUnit)
	apply(optView)
	return s.w
}

// forDisc calls fn for every cell within radius of (x, y).
func forDisc(x, y, radius int, fn func(grid.CPos)) {
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= r2 {
				fn(grid.CPos{X: x + dx, Y: y + dy})
			}
		}
	}
}

func (s *scenario) hill(x, y, radius, height int) {
	if radius <= 0 {
		return
	}
	forDisc(x, y, radius, func(c grid.CPos) {
		dx, dy := c.X-x, c.Y-y
		d := isqrt(dx*dx + dy*dy)
		h := height * (radius - d) / radius
		if h > s.w.Map.HeightAt(c) {
			s.w.Map.SetHeight(c, h)
		}
	})
}

// cellAt maps a storage slot to its cell so generation covers the whole map
// on both grid types.
func (s *scenario) cellAt(u, v int) grid.CPos {
	return grid.MPos{U: u, V: v}.ToCPos(s.gridType)
}

func (s *scenario) randomTerrain() {
	m := s.w.Map
	area := m.Cols * m.Rows
	scatter := func(n, maxR int, t TerrainType) {
		for i := 0; i < n; i++ {
			c := s.cellAt(s.rng.Intn(m.Cols), s.rng.Intn(m.Rows))
			forDisc(c.X, c.Y, 1+s.rng.Intn(maxR), func(cc grid.CPos) { m.SetType(cc, t) })
		}
	}
	scatter(max(1, area/900), 5, TerrainRough)
	scatter(max(1, area/1200), 4, TerrainTree)
	scatter(max(1, area/2000), 4, TerrainWater)
	scatter(max(1, area/3000), 2, TerrainRock)

	// Sand around water.
	for v := 0; v < m.Rows; v++ {
		for u := 0; u < m.Cols; u++ {
			c := s.cellAt(u, v)
			if m.TypeAt(c) == TerrainWater {
				continue
			}
			for _, n := range []grid.CPos{{X: c.X + 1, Y: c.Y}, {X: c.X - 1, Y: c.Y}, {X: c.X, Y: c.Y + 1}, {X: c.X, Y: c.Y - 1}} {
				if m.ContainsCell(n) && m.TypeAt(n) == TerrainWater {
					m.SetType(c, TerrainBeach)
					break
				}
			}
		}
	}

	// A road along the middle storage row.
	for u := 0; u < m.Cols; u++ {
		c := s.cellAt(u, m.Rows/2)
		if m.TypeAt(c) != TerrainWater {
			m.SetType(c, TerrainRoad)
		}
	}

	if m.MaximumTerrainHeight() > 0 {
		for i := 0; i < max(1, area/1500); i++ {
			c := s.cellAt(s.rng.Intn(m.Cols), s.rng.Intn(m.Rows))
			s.hill(c.X, c.Y, 3+s.rng.Intn(6), 1+s.rng.Intn(m.MaximumTerrainHeight()))
		}
	}
}

func isqrt(v int) int {
	r := 0
	for (r+1)*(r+1) <= v {
		r++
	}
	return r
}

// RunTicks advances the world n ticks.
func (w *World) RunTicks(n int) {
	for i := 0; i < n; i++ {
		w.Tick()
	}
}

// RunUntil advances up to maxTicks, stopping early once predicate holds.
// It returns the tick at which the predicate was satisfied, or -1.
func (w *World) RunUntil(predicate func(*World) bool, maxTicks int) int {
	for i := 0; i < maxTicks; i++ {
		w.Tick()
		if predicate(w) {
			return w.tick
		}
	}
	return -1
}
