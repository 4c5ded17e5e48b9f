package tui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/Garsondee/radar/internal/grid"
	"github.com/Garsondee/radar/internal/radar"
	"github.com/Garsondee/radar/internal/world"
)

const (
	halfBlock   = '▀'
	statusWidth = 24 // gap plus the status panel
)

var (
	background       = color.RGBA{A: 255}
	overlayColor     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	defaultPingColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// RenderBounds converts a minimap placement in terminal cells into the
// radar's pixel space: one pixel per column, two per row.
func RenderBounds(origin image.Point, cols, rows int) image.Rectangle {
	return image.Rect(origin.X, origin.Y*2, origin.X+cols, (origin.Y+rows)*2)
}

// App runs a world and its radar on a terminal screen. The event pump is
// the only other goroutine; it hands events to Run, which does all world,
// radar and screen work.
type App struct {
	screen tcell.Screen
	log    logrus.FieldLogger
	w      *world.World
	r      *radar.Radar
	snap   *Snapshot
	view   *View
	pinger *Pinger

	want      image.Rectangle // requested render bounds
	bounds    image.Rectangle
	powered   bool
	paused    bool
	prevMouse radar.ButtonState
	hover     image.Point
	frames    int
}

// New builds the app. rc.RenderBounds is in minimap pixels, see
// RenderBounds. cues may be nil.
func New(screen tcell.Screen, w *world.World, rc radar.Config, log logrus.FieldLogger, cues radar.CuePlayer) (*App, error) {
	ext := w.Map.Bounds()
	centre := grid.CenterOfCell(w.Map.Grid(), grid.MPos{U: ext.Dx() / 2, V: ext.Dy() / 2}.ToCPos(w.Map.Grid()))
	a := &App{
		screen:  screen,
		log:     log,
		w:       w,
		view:    NewView(centre, 20, 12),
		want:    rc.RenderBounds,
		bounds:  rc.RenderBounds,
		powered: true,
	}
	a.pinger = NewPinger(w, a.view)

	opts := []radar.Option{
		radar.WithLogger(log.WithField("component", "radar")),
		radar.WithTerrainLayer(w.Resources),
		radar.WithActors(w),
		radar.WithPings(w),
		radar.WithViewport(a.view),
		radar.WithInteractionController(a.pinger),
		radar.WithEnabled(func() bool { return a.powered }),
	}
	if cues != nil {
		opts = append(opts, radar.WithCues(cues))
	}
	r, err := radar.New(w, w.Map, rc, opts...)
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	r.Follow(w)
	a.r = r
	a.snap = NewSnapshot(r.Buffer().Size())
	r.SetSurface(a.snap)
	return a, nil
}

// Radar returns the hosted radar.
func (a *App) Radar() *radar.Radar { return a.r }

// View returns the virtual main view.
func (a *App) View() *View { return a.view }

// Close releases the radar subscriptions.
func (a *App) Close() { a.r.Close() }

// Step advances one simulation tick unless paused.
func (a *App) Step() {
	if a.paused {
		return
	}
	a.w.Tick()
	a.r.Tick()
}

func modifiers(m tcell.ModMask) radar.Modifiers {
	var out radar.Modifiers
	if m&tcell.ModShift != 0 {
		out |= radar.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= radar.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= radar.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		out |= radar.ModMeta
	}
	return out
}

// HandleEvent processes one terminal event and reports whether to keep
// running.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyTab:
			a.w.CycleViewedPlayer()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'r':
				a.powered = !a.powered
				a.log.WithField("powered", a.powered).Info("tui: radar power toggled")
			case 'p':
				a.paused = !a.paused
			case ' ':
				a.pinger.HandleMouseInput(radar.MouseInput{
					Event:    radar.MouseDown,
					Button:   radar.ButtonRight,
					Location: a.view.WorldToViewPx(a.view.Centre()),
				})
			}
		}

	case *tcell.EventMouse:
		x, y := ev.Position()
		btn := ev.Buttons()
		cur := radar.ButtonState{
			Location: image.Pt(x, y*2),
			Left:     btn&tcell.Button1 != 0,
			Right:    btn&tcell.Button2 != 0,
		}
		for _, mi := range radar.Edges(a.prevMouse, cur, modifiers(ev.Modifiers())) {
			a.r.HandleMouse(mi)
		}
		a.prevMouse = cur
		a.hover = cur.Location

	case *tcell.EventResize:
		a.fit(ev.Size())
		a.screen.Sync()
	}
	return true
}

// fit shrinks the minimap to a cols x rows terminal, keeping room for the
// status panel, and grows it back up to the requested size.
func (a *App) fit(cols, rows int) {
	origin := image.Pt(a.want.Min.X, a.want.Min.Y/2)
	w := min(a.want.Dx(), cols-origin.X-statusWidth)
	h := min(a.want.Dy()/2, rows-origin.Y)
	if w <= 0 || h <= 0 {
		return
	}
	rb := RenderBounds(origin, w, h)
	if rb == a.bounds {
		return
	}
	if err := a.r.SetRenderBounds(rb); err != nil {
		a.log.WithError(err).Warn("tui: resize")
		return
	}
	a.bounds = rb
	a.screen.Clear()
}

// Draw commits the frame's buffer writes and paints the minimap and the
// status panel.
func (a *App) Draw() {
	a.r.Commit()
	a.frames++
	layers := a.r.Layers()
	marks := a.overlayPixels()

	pixel := func(p image.Point) color.RGBA {
		if c, ok := marks[p]; ok {
			return c
		}
		return a.snap.Compose(layers, p, background)
	}
	for cy := a.bounds.Min.Y / 2; cy < a.bounds.Max.Y/2; cy++ {
		for cx := a.bounds.Min.X; cx < a.bounds.Max.X; cx++ {
			top := pixel(image.Pt(cx, cy*2))
			bot := pixel(image.Pt(cx, cy*2+1))
			style := tcell.StyleDefault.Foreground(rgb(top)).Background(rgb(bot))
			a.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}
	a.drawStatus()
	a.screen.Show()
}

func rgb(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// overlayPixels rasterises the viewport outline and the ping triangles.
func (a *App) overlayPixels() map[image.Point]color.RGBA {
	o, ok := a.r.Overlay()
	if !ok {
		return nil
	}
	marks := map[image.Point]color.RGBA{}
	plot := func(from, to radar.PointF, c color.RGBA) {
		dx, dy := to.X-from.X, to.Y-from.Y
		steps := int(max(abs32(dx), abs32(dy))) + 1
		for i := 0; i <= steps; i++ {
			t := float32(i) / float32(steps)
			p := image.Pt(int(from.X+dx*t), int(from.Y+dy*t))
			if p.In(o.Clip) {
				marks[p] = c
			}
		}
	}
	if vr := o.Viewport; !vr.Empty() {
		tl := radar.PointF{X: float32(vr.Min.X), Y: float32(vr.Min.Y)}
		tr := radar.PointF{X: float32(vr.Max.X - 1), Y: float32(vr.Min.Y)}
		bl := radar.PointF{X: float32(vr.Min.X), Y: float32(vr.Max.Y - 1)}
		br := radar.PointF{X: float32(vr.Max.X - 1), Y: float32(vr.Max.Y - 1)}
		plot(tl, tr, overlayColor)
		plot(tr, br, overlayColor)
		plot(br, bl, overlayColor)
		plot(bl, tl, overlayColor)
	}
	for _, p := range o.Pings {
		for i := range p.Points {
			plot(p.Points[i], p.Points[(i+1)%len(p.Points)], p.Color)
		}
	}
	return marks
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func (a *App) statusLines() []string {
	viewer := "none"
	if p := a.w.ViewedPlayer(); p != nil {
		viewer = p.Name
	}
	anim := a.r.Animation()
	st := a.r.Stats()
	lines := []string{
		fmt.Sprintf("tick %d  frame %d", a.w.CurrentTick(), a.frames),
		fmt.Sprintf("viewer %s", viewer),
		fmt.Sprintf("radar %s %d/%d", radar.AnimationStateName(anim.State()), anim.Frame(), anim.Length()),
		fmt.Sprintf("commits %d", st.Commits),
		fmt.Sprintf("pings %d", a.w.Pings.Len()),
	}
	if e, ok := a.w.Log.Latest(); ok {
		lines = append(lines, fmt.Sprintf("last %s t%d", e.Kind, e.Tick))
	}
	if a.paused {
		lines = append(lines, "PAUSED")
	}
	if a.hover.In(a.r.MapRect()) {
		c := a.r.MinimapPixelToCell(a.hover)
		lines = append(lines, fmt.Sprintf("cell %d,%d", c.X, c.Y))
	}
	return append(lines, "", "tab viewer  r power", "p pause  space ping", "q quit")
}

func (a *App) drawStatus() {
	x0 := a.bounds.Max.X + 2
	y0 := a.bounds.Min.Y / 2
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, line := range a.statusLines() {
		x := x0
		for _, ch := range fmt.Sprintf("%-22s", line) {
			a.screen.SetContent(x, y0+i, ch, nil, style)
			x++
		}
	}
}

// Run pumps events and ticks until ctx ends or the user quits.
func (a *App) Run(ctx context.Context, tick time.Duration) error {
	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	a.fit(a.screen.Size())
	a.Draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !a.HandleEvent(ev) {
				return nil
			}
		case <-ticker.C:
			a.Step()
			a.Draw()
		}
	}
}
