package world

import (
	"image/color"
	"slices"

	"github.com/Garsondee/radar/internal/grid"
	"github.com/Garsondee/radar/internal/radar"
)

// Ping animation defaults, in minimap pixels and radians per tick.
const (
	DefaultPingFromRadius    = 200.0
	DefaultPingToRadius      = 15.0
	DefaultPingShrinkSpeed   = 4.0
	DefaultPingRotationSpeed = 0.12
	DefaultPingDuration      = 125 // ticks
)

// RadarPing is a shrinking, rotating triangle marking a world position.
type RadarPing struct {
	Position grid.WPos
	Color    color.RGBA
	Radius   float64
	Angle    float64
	Duration int // ticks left

	visibleTo func(viewer *Player) bool
}

// RadarPings owns the live pings of a world.
type RadarPings struct {
	FromRadius    float64
	ToRadius      float64
	ShrinkSpeed   float64
	RotationSpeed float64

	pings  []*RadarPing
	viewer func() *Player
	out    []radar.Ping // reused by VisiblePings
}

// NewRadarPings returns an empty ping list. viewer reports the player the
// pings are filtered for.
func NewRadarPings(viewer func() *Player) *RadarPings {
	return &RadarPings{
		FromRadius:    DefaultPingFromRadius,
		ToRadius:      DefaultPingToRadius,
		ShrinkSpeed:   DefaultPingShrinkSpeed,
		RotationSpeed: DefaultPingRotationSpeed,
		viewer:        viewer,
	}
}

// Add starts a ping. visibleTo may be nil for a ping everyone sees.
func (rp *RadarPings) Add(visibleTo func(*Player) bool, pos grid.WPos, c color.RGBA, duration int) *RadarPing {
	if duration <= 0 {
		duration = DefaultPingDuration
	}
	p := &RadarPing{
		Position:  pos,
		Color:     c,
		Radius:    rp.FromRadius,
		Duration:  duration,
		visibleTo: visibleTo,
	}
	rp.pings = append(rp.pings, p)
	return p
}

// Remove cancels a ping early.
func (rp *RadarPings) Remove(p *RadarPing) {
	rp.pings = slices.DeleteFunc(rp.pings, func(q *RadarPing) bool { return q == p })
}

// Len returns the number of live pings.
func (rp *RadarPings) Len() int { return len(rp.pings) }

// Tick shrinks and rotates every ping and drops the expired ones.
func (rp *RadarPings) Tick() {
	rp.pings = slices.DeleteFunc(rp.pings, func(p *RadarPing) bool {
		p.Duration--
		if p.Duration <= 0 {
			return true
		}
		p.Radius = max(p.Radius-rp.ShrinkSpeed, rp.ToRadius)
		p.Angle -= rp.RotationSpeed
		return false
	})
}

// VisiblePings lists the pings the current viewer may see. The returned slice
// is reused by the next call.
func (rp *RadarPings) VisiblePings() []radar.Ping {
	var viewer *Player
	if rp.viewer != nil {
		viewer = rp.viewer()
	}
	rp.out = rp.out[:0]
	for _, p := range rp.pings {
		if p.visibleTo != nil && !p.visibleTo(viewer) {
			continue
		}
		rp.out = append(rp.out, radar.Ping{
			Position: p.Position,
			Color:    p.Color,
			Radius:   p.Radius,
			Angle:    p.Angle,
		})
	}
	return rp.out
}
