package radar

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/radar/internal/grid"
)

var (
	// ErrEmptyMap is returned when the map has no drawable cells.
	ErrEmptyMap = errors.New("radar: map bounds are empty")
	// ErrNoRenderBounds is returned when the widget rectangle is empty.
	ErrNoRenderBounds = errors.New("radar: render bounds are empty")
)

// Default layer colours. Colours are premultiplied.
var (
	DefaultShroudColor = color.RGBA{A: 255}
	DefaultFogColor    = color.RGBA{A: 128}
)

// Config holds the tunables of one radar instance.
type Config struct {
	// RenderBounds is the widget rectangle on screen.
	RenderBounds image.Rectangle
	// AnimationLength is the number of ticks the reveal animation takes.
	AnimationLength int
	ShroudColor     color.RGBA
	FogColor        color.RGBA
}

// DefaultConfig returns the stock radar settings for a widget rectangle.
func DefaultConfig(renderBounds image.Rectangle) Config {
	return Config{
		RenderBounds:    renderBounds,
		AnimationLength: 5,
		ShroudColor:     DefaultShroudColor,
		FogColor:        DefaultFogColor,
	}
}

// Stats counts compositor work since creation.
type Stats struct {
	Ticks           int
	TerrainUpdates  int // single-cell terrain recomputes
	ShroudUpdates   int // visibility notifications handled
	SignatureWrites int // actor cells written
	Reprimes        int // full terrain+shroud re-derivations
	Switches        int // viewpoint switches
	Commits         int // surface uploads
}

// Radar composites terrain, shroud and actor layers into one buffer and
// answers minimap coordinate queries. All methods must be called on the
// host's tick thread.
type Radar struct {
	cfg    Config
	log    logrus.FieldLogger
	thread TickThread

	m          Map
	layers     []TerrainLayer
	actors     ActorQuery
	pings      PingSource
	viewport   Viewport
	controller InteractionController
	orders     OrderGenerator
	cursors    CursorProvider
	enabled    func() bool

	// renderOrigin, when set, is polled on animation steps.
	renderOrigin func() image.Point

	projector Projector
	buf       *LayerBuffer
	surface   Surface
	anim      *Animation

	// Viewpoint currently driving shroud and overlay, and the subscriptions
	// tied to it.
	active      *Viewpoint
	activeUnsub []func()
	// Subscriptions that live as long as the radar.
	unsub []func()

	signatures []Signature // reused each tick
	stats      Stats
	closed     bool
}

// Option configures a Radar at construction.
type Option func(*Radar)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Radar) { r.log = l }
}

// WithTerrainLayer registers an overlay terrain layer. Layers registered
// later sit on top of earlier ones.
func WithTerrainLayer(l TerrainLayer) Option {
	return func(r *Radar) { r.layers = append(r.layers, l) }
}

// WithActors sets the actor source for the live-unit layer.
func WithActors(q ActorQuery) Option {
	return func(r *Radar) { r.actors = q }
}

// WithPings sets the radar ping source.
func WithPings(p PingSource) Option {
	return func(r *Radar) { r.pings = p }
}

// WithViewport sets the main view steered by navigate clicks.
func WithViewport(v Viewport) Option {
	return func(r *Radar) { r.viewport = v }
}

// WithInteractionController sets where synthesized action clicks go.
func WithInteractionController(c InteractionController) Option {
	return func(r *Radar) { r.controller = c }
}

// WithOrderGenerator sets the cursor resolver.
func WithOrderGenerator(o OrderGenerator) Option {
	return func(r *Radar) { r.orders = o }
}

// WithCursorProvider enables "-minimap" cursor variants.
func WithCursorProvider(c CursorProvider) Option {
	return func(r *Radar) { r.cursors = c }
}

// WithEnabled sets the radar power predicate polled every tick.
func WithEnabled(fn func() bool) Option {
	return func(r *Radar) { r.enabled = fn }
}

// WithCues sets the player for the online/offline cues.
func WithCues(p CuePlayer) Option {
	return func(r *Radar) { r.anim.Cues = p }
}

// WithAfterOpen sets the callback fired when the reveal completes.
func WithAfterOpen(fn func()) Option {
	return func(r *Radar) { r.anim.AfterOpen = fn }
}

// WithAfterClose sets the callback fired when the hide completes.
func WithAfterClose(fn func()) Option {
	return func(r *Radar) { r.anim.AfterClose = fn }
}

// WithAnimating sets the callback fired on every animation step with the
// reveal fraction.
func WithAnimating(fn func(float64)) Option {
	return func(r *Radar) { r.anim.Animating = fn }
}

// WithRenderOrigin lets a host that slides the widget during the reveal
// report where the widget rectangle currently starts.
func WithRenderOrigin(fn func() image.Point) Option {
	return func(r *Radar) { r.renderOrigin = fn }
}

// WithSurface sets the presentable surface Commit uploads to.
func WithSurface(s Surface) Option {
	return func(r *Radar) { r.surface = s }
}

// New builds a radar for m. thread is the host's promise that events, ticks
// and draws are delivered on one logical thread.
//
// The terrain layer is primed in full; the shroud starts with no viewpoint
// (fully visible) until SwitchTo or Follow is called.
func New(thread TickThread, m Map, cfg Config, opts ...Option) (*Radar, error) {
	if thread == nil {
		return nil, errors.New("radar: nil tick thread")
	}
	if cfg.RenderBounds.Empty() {
		return nil, ErrNoRenderBounds
	}
	if cfg.AnimationLength <= 0 {
		cfg.AnimationLength = 1
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	r := &Radar{
		cfg:     cfg,
		log:     discard,
		thread:  thread,
		m:       m,
		enabled: func() bool { return true },
		anim:    NewAnimation(cfg.AnimationLength),
	}
	for _, o := range opts {
		o(r)
	}

	if err := r.allocate(); err != nil {
		return nil, err
	}

	r.unsub = append(r.unsub, m.OnTerrainChanged(r.UpdateTerrainCell))
	for _, l := range r.layers {
		r.unsub = append(r.unsub, l.OnTerrainChanged(r.UpdateTerrainCell))
	}
	if bn, ok := m.(BoundsNotifier); ok {
		r.unsub = append(r.unsub, bn.OnBoundsChanged(r.boundsChanged))
	}

	r.reprime()
	r.log.WithFields(logrus.Fields{
		"grid":    grid.TypeName(m.Grid()),
		"preview": r.projector.PreviewSize(),
		"buffer":  r.buf.Size(),
		"scale":   r.projector.Projection().Scale,
	}).Info("radar: initialised")
	return r, nil
}

// allocate derives the projection and creates the layer buffer for it.
func (r *Radar) allocate() error {
	bounds := previewBounds(r.m, r.log)
	if bounds.Empty() {
		return fmt.Errorf("%w: %v", ErrEmptyMap, bounds)
	}
	r.projector = NewProjector(fitProjection(r.m.Grid(), bounds, r.cfg.RenderBounds))
	size := r.projector.PreviewSize()
	if r.buf == nil || r.buf.Region(QuadrantTerrain).Size() != size {
		r.buf = NewLayerBuffer(size.X, size.Y)
	}
	return nil
}

// MapBoundsChanged recomputes the projection after the map's projected
// bounds changed, reallocating and repriming the buffer when the preview
// size changed.
func (r *Radar) MapBoundsChanged() error {
	old := r.buf
	if err := r.allocate(); err != nil {
		return err
	}
	if r.buf != old {
		r.log.WithField("preview", r.projector.PreviewSize()).Info("radar: preview resized")
	}
	r.reprime()
	return nil
}

func (r *Radar) boundsChanged() {
	if err := r.MapBoundsChanged(); err != nil {
		r.log.WithError(err).Warn("radar: map bounds changed")
	}
}

// SetRenderBounds moves or resizes the widget rectangle. The buffer is kept.
func (r *Radar) SetRenderBounds(rb image.Rectangle) error {
	if rb.Empty() {
		return ErrNoRenderBounds
	}
	r.cfg.RenderBounds = rb
	p := r.projector.Projection()
	r.projector = NewProjector(fitProjection(p.Grid, p.Bounds, rb))
	return nil
}

// Follow switches to src's current viewpoint and keeps following it.
func (r *Radar) Follow(src ViewpointSource) {
	r.unsub = append(r.unsub, src.OnViewpointChanged(r.SwitchTo))
	r.SwitchTo(src.Viewpoint())
}

// SwitchTo makes vp the active viewpoint: the old subscriptions are revoked,
// the new ones made, and every terrain and shroud cell is re-derived, all
// before it returns. A nil vp means no player.
func (r *Radar) SwitchTo(vp *Viewpoint) {
	for _, u := range r.activeUnsub {
		u()
	}
	r.activeUnsub = r.activeUnsub[:0]

	r.active = vp
	if vp != nil {
		if vp.Overlay != nil {
			r.activeUnsub = append(r.activeUnsub, vp.Overlay.OnOverlayChanged(r.UpdateTerrainCell))
		}
		if vp.Shroud != nil {
			r.activeUnsub = append(r.activeUnsub, vp.Shroud.OnVisibilityChanged(r.UpdateShroudCell))
		}
	}

	r.stats.Switches++
	r.reprime()
	r.log.WithField("player", viewpointName(vp)).Info("radar: viewpoint switched")
}

func viewpointName(vp *Viewpoint) string {
	if vp == nil {
		return "none"
	}
	return vp.Name
}

// Viewpoint returns the active viewpoint, nil for none.
func (r *Radar) Viewpoint() *Viewpoint { return r.active }

// reprime re-derives every terrain and shroud cell.
func (r *Radar) reprime() {
	r.reprimeTerrain()
	r.reprimeShroud()
	r.stats.Reprimes++
	r.log.WithField("player", viewpointName(r.active)).Debug("radar: layers reprimed")
}

// Tick advances the radar by one simulation tick: while enabled the actor
// layer is rebuilt, then the animation is stepped. Each animation step
// re-reads the render origin when one was given.
func (r *Radar) Tick() {
	if r.closed {
		return
	}
	r.stats.Ticks++
	enabled := r.enabled()
	if enabled {
		r.UpdateSignatures()
	}

	if r.anim.Tick(enabled) {
		r.followRenderOrigin()
		r.log.WithFields(logrus.Fields{
			"frame": r.anim.Frame(),
			"state": AnimationStateName(r.anim.State()),
		}).Debug("radar: animation step")
	}
}

// followRenderOrigin moves the widget rectangle to the host's current
// render origin, keeping its size.
func (r *Radar) followRenderOrigin() {
	if r.renderOrigin == nil {
		return
	}
	rb := r.cfg.RenderBounds
	o := r.renderOrigin()
	if o == rb.Min {
		return
	}
	if err := r.SetRenderBounds(rb.Add(o.Sub(rb.Min))); err != nil {
		r.log.WithError(err).Warn("radar: render origin")
	}
}

// Commit uploads pending writes to the surface. Call once per frame after
// the frame's ticks.
func (r *Radar) Commit() bool {
	if r.closed || !r.buf.Commit(r.surface) {
		return false
	}
	r.stats.Commits++
	return true
}

// SetSurface replaces the presentable surface. The next Commit uploads the
// whole buffer.
func (r *Radar) SetSurface(s Surface) {
	r.surface = s
	r.buf.dirty = true
}

// Close revokes every subscription. The radar must not be used afterwards.
func (r *Radar) Close() {
	if r.closed {
		return
	}
	for _, u := range r.activeUnsub {
		u()
	}
	for _, u := range r.unsub {
		u()
	}
	r.activeUnsub = nil
	r.unsub = nil
	r.active = nil
	r.surface = nil
	r.closed = true
	r.log.Info("radar: closed")
}

// Buffer exposes the layer buffer for presenters and tests.
func (r *Radar) Buffer() *LayerBuffer { return r.buf }

// Projector returns the current projector.
func (r *Radar) Projector() Projector { return r.projector }

// Animation returns the reveal animation state.
func (r *Radar) Animation() *Animation { return r.anim }

// HasRadar reports whether the minimap is fully open and interactive.
func (r *Radar) HasRadar() bool { return r.anim.HasRadar() }

// Stats returns a copy of the work counters.
func (r *Radar) Stats() Stats { return r.stats }

// MapRect is the on-screen rectangle of the map preview.
func (r *Radar) MapRect() image.Rectangle { return r.projector.Projection().MapRect }

// CellToMinimapPixel projects a cell onto the minimap.
func (r *Radar) CellToMinimapPixel(c grid.CPos) image.Point {
	return r.projector.CellToPixel(c.ToMPos(r.m.Grid()))
}

// MinimapPixelToCell resolves the cell under a minimap pixel.
func (r *Radar) MinimapPixelToCell(p image.Point) grid.CPos {
	return r.projector.PixelToCell(p).ToCPos(r.m.Grid())
}
