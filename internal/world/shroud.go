package world

import (
	"github.com/Garsondee/radar/internal/grid"
	"github.com/Garsondee/radar/internal/radar"
)

// Shroud is one player's fog of war over projected cells. Visibility is
// reference counted: every sight source adds one, so overlapping sources
// can come and go in any order.
type Shroud struct {
	cols, rows int
	explored   []bool
	visible    []uint16
	revealAll  bool
	changed    grid.Notifier[grid.PPos]
}

// NewShroud returns a fully unexplored shroud.
func NewShroud(cols, rows int) *Shroud {
	return &Shroud{
		cols:     cols,
		rows:     rows,
		explored: make([]bool, cols*rows),
		visible:  make([]uint16, cols*rows),
	}
}

func (s *Shroud) index(p grid.PPos) int {
	if p.U < 0 || p.U >= s.cols || p.V < 0 || p.V >= s.rows {
		return -1
	}
	return p.V*s.cols + p.U
}

func (s *Shroud) state(i int) radar.Visibility {
	switch {
	case s.revealAll || s.visible[i] > 0:
		return radar.Visible
	case s.explored[i]:
		return radar.Explored
	default:
		return radar.Unexplored
	}
}

// Visibility returns the state of p. Off-map cells are unexplored.
func (s *Shroud) Visibility(p grid.PPos) radar.Visibility {
	i := s.index(p)
	if i < 0 {
		return radar.Unexplored
	}
	return s.state(i)
}

// OnVisibilityChanged subscribes to per-cell state changes.
func (s *Shroud) OnVisibilityChanged(fn func(grid.PPos)) func() {
	return s.changed.Subscribe(fn)
}

// AddSource marks cells as seen by one more source.
func (s *Shroud) AddSource(cells []grid.PPos) {
	for _, p := range cells {
		i := s.index(p)
		if i < 0 {
			continue
		}
		was := s.state(i)
		s.visible[i]++
		s.explored[i] = true
		if s.state(i) != was {
			s.changed.Fire(p)
		}
	}
}

// RemoveSource undoes a previous AddSource with the same cells.
func (s *Shroud) RemoveSource(cells []grid.PPos) {
	for _, p := range cells {
		i := s.index(p)
		if i < 0 || s.visible[i] == 0 {
			continue
		}
		was := s.state(i)
		s.visible[i]--
		if s.state(i) != was {
			s.changed.Fire(p)
		}
	}
}

// ExploreAll marks every cell explored, as a map-reveal crate would.
func (s *Shroud) ExploreAll() {
	for i := range s.explored {
		was := s.state(i)
		s.explored[i] = true
		if s.state(i) != was {
			s.changed.Fire(grid.PPos{U: i % s.cols, V: i / s.cols})
		}
	}
}

// SetRevealAll toggles the spectator view where everything is visible.
func (s *Shroud) SetRevealAll(on bool) {
	if s.revealAll == on {
		return
	}
	before := make([]radar.Visibility, len(s.visible))
	for i := range before {
		before[i] = s.state(i)
	}
	s.revealAll = on
	for i, was := range before {
		if s.state(i) != was {
			s.changed.Fire(grid.PPos{U: i % s.cols, V: i / s.cols})
		}
	}
}

// Count returns how many cells are in each state.
func (s *Shroud) Count() (unexplored, explored, visible int) {
	for i := range s.visible {
		switch s.state(i) {
		case radar.Unexplored:
			unexplored++
		case radar.Explored:
			explored++
		default:
			visible++
		}
	}
	return
}
