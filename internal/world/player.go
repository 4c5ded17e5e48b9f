package world

import (
	"image/color"

	"github.com/Garsondee/radar/internal/radar"
)

// Player owns units, a shroud and a radar terrain memory.
type Player struct {
	Name  string
	Color color.RGBA
	Team  int

	Shroud *Shroud
	Memory *TerrainMemory

	vp *radar.Viewpoint
}

// IsAlliedWith reports whether two players share a team. A player is always
// allied with itself.
func (p *Player) IsAlliedWith(o *Player) bool {
	if p == nil || o == nil {
		return false
	}
	return p == o || (p.Team != 0 && p.Team == o.Team)
}

// Viewpoint is what the radar reads when viewing as this player.
func (p *Player) Viewpoint() *radar.Viewpoint {
	if p == nil {
		return nil
	}
	if p.vp == nil {
		p.vp = &radar.Viewpoint{Name: p.Name, Shroud: p.Shroud, Overlay: p.Memory}
	}
	return p.vp
}
