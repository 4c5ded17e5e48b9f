package radar

// AnimationState is the reveal state of the minimap.
type AnimationState uint8

const (
	Closed AnimationState = iota
	Opening
	Open
	Closing
)

// AnimationStateName returns a short display name for a state.
func AnimationStateName(s AnimationState) string {
	switch s {
	case Closed:
		return "closed"
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Closing:
		return "closing"
	default:
		return "unknown"
	}
}

// Animation drives the reveal factor of the minimap. The frame moves one step
// per tick toward 0 or Length; the state is derived from frame and target so
// the two can never disagree.
type Animation struct {
	length  int
	frame   int
	target  int
	enabled bool // last observed input, for edge detection

	Cues       CuePlayer
	AfterOpen  func()
	AfterClose func()
	Animating  func(reveal float64)
}

// NewAnimation returns a closed animation of the given length in ticks.
func NewAnimation(length int) *Animation {
	if length < 1 {
		length = 1
	}
	return &Animation{length: length}
}

// Length is the number of ticks a full open or close takes.
func (a *Animation) Length() int { return a.length }

// Frame is the current step, 0..Length.
func (a *Animation) Frame() int { return a.frame }

// Reveal is the vertical reveal factor, 0 closed to 1 open.
func (a *Animation) Reveal() float64 { return float64(a.frame) / float64(a.length) }

// State derives the current state.
func (a *Animation) State() AnimationState {
	switch {
	case a.target == 0 && a.frame == 0:
		return Closed
	case a.target == a.length && a.frame == a.length:
		return Open
	case a.target == a.length:
		return Opening
	default:
		return Closing
	}
}

// HasRadar is true only when fully open; a half-revealed minimap is not
// interactive.
func (a *Animation) HasRadar() bool { return a.State() == Open }

// Tick feeds this tick's enabled input and advances one frame. Cues play on
// input edges only, so holding the input steady never repeats them. It
// reports whether the frame moved.
func (a *Animation) Tick(enabled bool) bool {
	if enabled != a.enabled {
		a.enabled = enabled
		if a.Cues != nil {
			if enabled {
				a.Cues.Play(CueOnline)
			} else {
				a.Cues.Play(CueOffline)
			}
		}
	}

	if enabled {
		a.target = a.length
	} else {
		a.target = 0
	}
	if a.frame == a.target {
		return false
	}

	if enabled {
		a.frame++
	} else {
		a.frame--
	}
	if a.Animating != nil {
		a.Animating(a.Reveal())
	}

	if a.frame == a.target {
		if enabled {
			if a.AfterOpen != nil {
				a.AfterOpen()
			}
		} else if a.AfterClose != nil {
			a.AfterClose()
		}
	}
	return true
}
