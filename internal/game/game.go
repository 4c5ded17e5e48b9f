package game

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/radar/internal/config"
	"github.com/Garsondee/radar/internal/grid"
	"github.com/Garsondee/radar/internal/radar"
	"github.com/Garsondee/radar/internal/world"
)

// hudScale is the integer upscale factor applied to HUD text.
const hudScale = 2

// Game hosts a world and its radar in an ebiten window. Update and Draw run
// on ebiten's game loop, which is the world's single tick thread.
type Game struct {
	log   logrus.FieldLogger
	world *world.World
	radar *radar.Radar
	cam   *Camera

	orders *Orders
	cues   radar.CuePlayer

	// radarHome is where the minimap rests once fully open.
	radarHome image.Rectangle

	width  int
	height int

	// radarImg is the GPU copy of the radar layer buffer.
	radarImg *ebiten.Image
	hudBuf   *ebiten.Image
	inspBuf  *ebiten.Image

	inspector Inspector
	powered   bool
	showHUD   bool
	cursor    string

	simSpeed  float64 // 0=paused, 0.5, 1, 2, 4
	tickAccum float64

	prevKeys  map[ebiten.Key]bool
	prevMouse radar.ButtonState
}

// New builds the host. cues may be nil.
func New(cfg *config.Config, w *world.World, log logrus.FieldLogger, cues radar.CuePlayer) (*Game, error) {
	g := &Game{
		log:      log,
		world:    w,
		cues:     cues,
		width:    cfg.Window.Width,
		height:   cfg.Window.Height,
		powered:  true,
		showHUD:  true,
		simSpeed: 1,
		prevKeys: make(map[ebiten.Key]bool),
	}
	rc := cfg.RadarConfig()
	g.radarHome = rc.RenderBounds
	g.cam = &Camera{
		Zoom:   24.0 / grid.WorldCellSize,
		View:   image.Rect(0, 0, g.width, g.height),
		Extent: worldExtent(w.Map.Grid(), w.Map.Cols, w.Map.Rows),
	}
	g.cam.Center(grid.WPos{X: g.cam.Extent.Dx() / 2, Y: g.cam.Extent.Dy() / 2})
	g.orders = NewOrders(w, g.cam, log)

	opts := []radar.Option{
		radar.WithLogger(log.WithField("component", "radar")),
		radar.WithTerrainLayer(w.Resources),
		radar.WithActors(w),
		radar.WithPings(w),
		radar.WithViewport(g.cam),
		radar.WithInteractionController(g.orders),
		radar.WithOrderGenerator(g.orders),
		radar.WithCursorProvider(hostCursors),
		radar.WithEnabled(func() bool { return g.powered }),
		radar.WithRenderOrigin(g.radarOrigin),
		radar.WithAfterOpen(func() { log.Info("game: radar online") }),
		radar.WithAfterClose(func() { log.Info("game: radar offline") }),
	}
	if cues != nil {
		opts = append(opts, radar.WithCues(cues))
	}
	r, err := radar.New(w, w.Map, rc, opts...)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	r.Follow(w)
	g.radar = r
	g.allocRadarImage()

	g.hudBuf = ebiten.NewImage(g.width/hudScale, g.height/hudScale)
	g.inspBuf = ebiten.NewImage(inspBufW, inspBufH)
	return g, nil
}

// allocRadarImage (re)creates the GPU surface to match the layer buffer.
func (g *Game) allocRadarImage() {
	size := g.radar.Buffer().Size()
	if g.radarImg != nil {
		if g.radarImg.Bounds().Size() == size {
			return
		}
		g.radarImg.Deallocate()
	}
	g.radarImg = ebiten.NewImage(size.X, size.Y)
	g.radar.SetSurface(g.radarImg)
}

// radarOrigin slides the minimap in from the left edge while it opens and
// back out while it closes.
func (g *Game) radarOrigin() image.Point {
	return slideOrigin(g.radarHome, g.radar.Animation().Reveal())
}

// slideOrigin offsets home to the left by the unrevealed share of its
// right edge, so at reveal 0 the widget ends at the screen's left edge.
func slideOrigin(home image.Rectangle, reveal float64) image.Point {
	travel := home.Max.X
	return image.Pt(home.Min.X-int(float64(travel)*(1-reveal)), home.Min.Y)
}

// Radar returns the hosted radar.
func (g *Game) Radar() *radar.Radar { return g.radar }

// Close releases the radar subscriptions.
func (g *Game) Close() { g.radar.Close() }

func (g *Game) Update() error {
	// Input every frame regardless of sim speed.
	g.handleInput()
	if g.inspector.copied > 0 {
		g.inspector.copied--
	}

	if g.simSpeed <= 0 {
		return nil
	}
	g.tickAccum += g.simSpeed
	for g.tickAccum >= 1.0 {
		g.tickAccum -= 1.0
		g.simTick()
	}
	return nil
}

func (g *Game) simTick() {
	g.world.Tick()
	g.radar.Tick()
}

// togglePower flips the radar power; the animation and cues follow on the
// next tick.
func (g *Game) togglePower() {
	g.powered = !g.powered
	g.log.WithField("powered", g.powered).Info("game: radar power toggled")
}

// cycleViewer steps the viewed player and drops the selection.
func (g *Game) cycleViewer() {
	g.orders.ClearSelection()
	g.world.CycleViewedPlayer()
}

// pingHovered drops a radar ping on the hovered cell for the viewed player.
func (g *Game) pingHovered() {
	if !g.inspector.valid {
		return
	}
	c := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	p := g.world.ViewedPlayer()
	if p != nil {
		c = p.Color
	}
	g.world.Ping(p, grid.CenterOfCell(g.world.Map.Grid(), g.inspector.cell), c)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 8, G: 10, B: 8, A: 255})
	g.drawWorld(screen)
	g.drawRadar(screen)
	if g.showHUD {
		g.drawHUD(screen)
	}
	g.drawInspector(screen)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
