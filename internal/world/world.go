package world

import (
	"fmt"
	"image/color"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/Garsondee/radar/internal/grid"
	"github.com/Garsondee/radar/internal/radar"
)

var (
	_ radar.Map              = (*TileMap)(nil)
	_ radar.BoundsNotifier   = (*TileMap)(nil)
	_ radar.TerrainLayer     = (*ResourceLayer)(nil)
	_ radar.TerrainOverlay   = (*TerrainMemory)(nil)
	_ radar.VisibilitySource = (*Shroud)(nil)
	_ radar.RadarActor       = (*Unit)(nil)
	_ radar.ColorModifier    = (*Unit)(nil)
	_ radar.ActorQuery       = (*World)(nil)
	_ radar.PingSource       = (*World)(nil)
	_ radar.ViewpointSource  = (*World)(nil)
	_ radar.TickThread       = (*World)(nil)
)

// World is the simulation the radar observes. Everything runs on the
// caller's goroutine: Tick, notifications and queries.
type World struct {
	Map       *TileMap
	Resources *ResourceLayer
	Pings     *RadarPings
	Log       *EventLog
	Players   []*Player
	Units     []*Unit

	log         logrus.FieldLogger
	viewed      *Player
	viewChanged grid.Notifier[*radar.Viewpoint]
	tick        int
	nextID      int
	actors      []radar.RadarActor // reused by RadarActors
	contacts    map[contactKey]bool
}

// contactKey is one player's first sighting of one enemy unit.
type contactKey struct {
	observer *Player
	unit     int
}

// NewWorld wraps a map. A nil logger discards output.
func NewWorld(m *TileMap, log logrus.FieldLogger) *World {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	w := &World{
		Map:       m,
		Resources: NewResourceLayer(m),
		Log:       NewEventLog(false),
		log:       log,
		contacts:  make(map[contactKey]bool),
	}
	w.Pings = NewRadarPings(w.ViewedPlayer)
	m.OnTerrainChanged(w.terrainChanged)
	w.Resources.OnTerrainChanged(w.terrainChanged)
	return w
}

// SingleThreaded marks the world as a single-threaded tick host.
func (w *World) SingleThreaded() {}

// CurrentTick returns the number of ticks run.
func (w *World) CurrentTick() int { return w.tick }

// LiveColor is the radar colour a cell has right now: a deposit if there is
// one, else the tile.
func (w *World) LiveColor(uv grid.MPos) radar.ColorPair {
	if c, ok := w.Resources.TerrainColorPair(uv); ok {
		return c
	}
	return w.Map.TerrainColorPair(uv)
}

// AddPlayer registers a player with a fresh shroud and terrain memory.
func (w *World) AddPlayer(name string, c color.RGBA, team int) *Player {
	p := &Player{
		Name:   name,
		Color:  c,
		Team:   team,
		Shroud: NewShroud(w.Map.Cols, w.Map.Rows),
		Memory: NewTerrainMemory(w.Map, w.LiveColor),
	}
	p.Shroud.OnVisibilityChanged(func(pp grid.PPos) {
		if p.Shroud.Visibility(pp) != radar.Visible {
			return
		}
		for _, uv := range w.Map.Unproject(pp) {
			p.Memory.Remember(uv)
		}
	})
	if w.tick > 0 {
		p.Memory.Initialize()
	}
	w.Players = append(w.Players, p)
	w.logEvent(EventPlayerJoined, p, nil, fmt.Sprintf("team %d", team))
	return p
}

// Player looks a player up by name.
func (w *World) Player(name string) *Player {
	for _, p := range w.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// AddUnit places a unit and reveals the shroud around it.
func (w *World) AddUnit(owner *Player, kind UnitKind, cell grid.CPos) *Unit {
	sight, size, interval := unitDefaults(kind)
	u := &Unit{
		ID:           w.nextID,
		Kind:         kind,
		Owner:        owner,
		Cell:         cell,
		Size:         size,
		Sight:        sight,
		moveInterval: interval,
	}
	w.nextID++
	w.Units = append(w.Units, u)
	w.updateSight(u)
	w.logEvent(EventUnitSpawned, owner, u, UnitKindName(kind))
	w.log.WithFields(logrus.Fields{"unit": u.ID, "kind": UnitKindName(kind), "owner": playerName(owner)}).Debug("world: unit spawned")
	return u
}

// RemoveUnit takes a unit off the map.
func (w *World) RemoveUnit(u *Unit) {
	if u.Dead {
		return
	}
	u.Dead = true
	if u.Owner != nil {
		u.Owner.Shroud.RemoveSource(u.revealed)
	}
	u.revealed = nil
	for i, v := range w.Units {
		if v == u {
			w.Units = append(w.Units[:i], w.Units[i+1:]...)
			break
		}
	}
	w.logEvent(EventUnitRemoved, u.Owner, u, "")
}

// SetCloaked toggles a unit's cloak.
func (w *World) SetCloaked(u *Unit, on bool) {
	if u.Cloaked == on {
		return
	}
	u.Cloaked = on
	w.logEvent(EventCloak, u.Owner, u, fmt.Sprintf("on=%t", on))
}

// updateSight moves a unit's reveal to its current position. New cells are
// added before old ones are removed so overlapping cells never flicker.
func (w *World) updateSight(u *Unit) {
	if u.Owner == nil {
		return
	}
	cells := u.sightCells(w.Map)
	u.Owner.Shroud.AddSource(cells)
	u.Owner.Shroud.RemoveSource(u.revealed)
	u.revealed = cells
}

// terrainChanged refreshes the memory of every player who can see the cell.
func (w *World) terrainChanged(c grid.CPos) {
	uv := c.ToMPos(w.Map.Grid())
	for _, p := range w.Players {
		if w.cellVisibleTo(p, uv) {
			p.Memory.Remember(uv)
		}
	}
}

func (w *World) cellVisibleTo(p *Player, uv grid.MPos) bool {
	for _, pp := range w.Map.ProjectedCellsCovering(uv) {
		if p.Shroud.Visibility(pp) == radar.Visible {
			return true
		}
	}
	return false
}

// ViewedPlayer returns the player the world is rendered for, nil for none.
func (w *World) ViewedPlayer() *Player { return w.viewed }

// SetViewedPlayer changes the rendered player and notifies subscribers.
func (w *World) SetViewedPlayer(p *Player) {
	if p == w.viewed {
		return
	}
	w.viewed = p
	w.logEvent(EventViewpoint, p, nil, "")
	w.log.WithField("player", playerName(p)).Info("world: viewed player changed")
	w.viewChanged.Fire(p.Viewpoint())
}

// CycleViewedPlayer steps the viewed player through none, then each player
// in join order, and back to none.
func (w *World) CycleViewedPlayer() {
	var next *Player
	switch {
	case len(w.Players) == 0:
	case w.viewed == nil:
		next = w.Players[0]
	default:
		for i, p := range w.Players {
			if p == w.viewed && i+1 < len(w.Players) {
				next = w.Players[i+1]
			}
		}
	}
	w.SetViewedPlayer(next)
}

// Viewpoint returns the viewed player's viewpoint.
func (w *World) Viewpoint() *radar.Viewpoint { return w.viewed.Viewpoint() }

// OnViewpointChanged subscribes to viewed-player changes.
func (w *World) OnViewpointChanged(fn func(*radar.Viewpoint)) func() {
	return w.viewChanged.Subscribe(fn)
}

// RadarActors lists live units. The slice is reused by the next call.
func (w *World) RadarActors() []radar.RadarActor {
	w.actors = w.actors[:0]
	for _, u := range w.Units {
		if !u.Dead {
			w.actors = append(w.actors, u)
		}
	}
	return w.actors
}

// FogObscures hides enemy units outside the viewer's sight and every enemy
// cloaked unit. With no viewer nothing is hidden.
func (w *World) FogObscures(a radar.RadarActor) bool {
	u, ok := a.(*Unit)
	if !ok || w.viewed == nil {
		return false
	}
	return !w.SeenBy(w.viewed, u)
}

// SeenBy reports whether p can see u: allied units always, enemy units
// when uncloaked with part of their footprint in p's sight.
func (w *World) SeenBy(p *Player, u *Unit) bool {
	if u.Owner.IsAlliedWith(p) {
		return true
	}
	if u.Cloaked {
		return false
	}
	for _, c := range u.Footprint() {
		uv := c.ToMPos(w.Map.Grid())
		if w.Map.Contains(uv) && w.cellVisibleTo(p, uv) {
			return true
		}
	}
	return false
}

// sweepContacts logs each player's first sighting of every enemy unit.
func (w *World) sweepContacts() {
	for _, p := range w.Players {
		for _, u := range w.Units {
			if u.Dead || u.Owner == nil || u.Owner.IsAlliedWith(p) {
				continue
			}
			k := contactKey{p, u.ID}
			if w.contacts[k] || !w.SeenBy(p, u) {
				continue
			}
			w.contacts[k] = true
			w.logEvent(EventContact, p, u, "")
		}
	}
}

// Contacts returns how many distinct enemy units p has sighted.
func (w *World) Contacts(p *Player) int { return w.Log.CountFor(EventContact, playerName(p)) }

func (w *World) logEvent(kind EventKind, p *Player, u *Unit, detail string) {
	e := Event{Tick: w.tick, Player: playerName(p), Kind: kind, Unit: -1, Detail: detail}
	if u != nil {
		e.Unit = u.ID
		e.Cell = u.Cell
	}
	w.Log.record(e)
}

// VisiblePings lists the pings the viewed player may see.
func (w *World) VisiblePings() []radar.Ping { return w.Pings.VisiblePings() }

// Ping starts a radar ping seen by p and its allies, or by everyone when p
// is nil.
func (w *World) Ping(p *Player, pos grid.WPos, c color.RGBA) *RadarPing {
	var visible func(*Player) bool
	if p != nil {
		visible = func(viewer *Player) bool { return viewer == nil || p.IsAlliedWith(viewer) }
	}
	w.logEvent(EventPing, p, nil, fmt.Sprintf("at (%d,%d)", pos.X, pos.Y))
	return w.Pings.Add(visible, pos, c, 0)
}

// Tick advances the world by one tick. Units move and refresh their sight
// before new enemy sightings are logged as contacts. Terrain memories take
// over after the first tick.
func (w *World) Tick() {
	w.tick++
	for _, u := range w.Units {
		if u.step(w.Map) {
			w.updateSight(u)
			w.logEvent(EventUnitMoved, u.Owner, u, "")
		}
	}
	w.sweepContacts()
	w.Pings.Tick()
	if w.tick == 1 {
		for _, p := range w.Players {
			p.Memory.Initialize()
		}
	}
}

func playerName(p *Player) string {
	if p == nil {
		return "--"
	}
	return p.Name
}
