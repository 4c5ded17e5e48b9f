// Package audio plays the radar power cues through the system speaker.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/Garsondee/radar/internal/radar"
)

const (
	sampleRate = beep.SampleRate(48000)
	cueLength  = 220 * time.Millisecond
)

// CuePlayer mixes radar cues onto the speaker. Until Initialize succeeds
// every Play is a no-op, so hosts without an audio device run silently.
type CuePlayer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
	played      [2]int
}

var _ radar.CuePlayer = (*CuePlayer)(nil)

// NewCuePlayer creates a player at the given volume in [0,1].
func NewCuePlayer(volume float64) *CuePlayer {
	return &CuePlayer{
		mixer:  &beep.Mixer{},
		volume: math.Max(0, math.Min(1, volume)),
	}
}

// Initialize opens the speaker. Calling it twice is a no-op.
func (cp *CuePlayer) Initialize() error {
	cp.mu.Lock()
	defer cp.mu.Unlock()

	if cp.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}
	speaker.Play(cp.mixer)
	cp.initialized = true
	return nil
}

// Play queues the sweep for c: rising when the radar comes online, falling
// when it goes offline.
func (cp *CuePlayer) Play(c radar.Cue) {
	cp.mu.Lock()
	defer cp.mu.Unlock()

	if int(c) < len(cp.played) {
		cp.played[c]++
	}
	if !cp.initialized || cp.volume == 0 {
		return
	}
	speaker.Lock()
	cp.mixer.Add(newCueStreamer(c, cp.volume))
	speaker.Unlock()
}

// Played returns how many times c was requested, audible or not.
func (cp *CuePlayer) Played(c radar.Cue) int {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	if int(c) >= len(cp.played) {
		return 0
	}
	return cp.played[c]
}

// Close silences pending cues and detaches from the speaker.
func (cp *CuePlayer) Close() {
	cp.mu.Lock()
	defer cp.mu.Unlock()

	if !cp.initialized {
		return
	}
	speaker.Clear()
	cp.mixer.Clear()
	cp.initialized = false
}

// newCueStreamer returns the finite stream for one cue.
func newCueStreamer(c radar.Cue, volume float64) beep.Streamer {
	from, to := 320.0, 960.0
	if c == radar.CueOffline {
		from, to = to, from
	}
	n := sampleRate.N(cueLength)
	return beep.Take(n, NewSweepGenerator(sampleRate, from, to, n, volume))
}

// SweepGenerator produces a sine chirp gliding linearly from one frequency
// to another over a fixed number of samples, with a short fade at both ends.
type SweepGenerator struct {
	sr       beep.SampleRate
	from, to float64
	length   int
	volume   float64
	pos      int
	phase    float64
}

// NewSweepGenerator creates a sweep of length samples.
func NewSweepGenerator(sr beep.SampleRate, from, to float64, length int, volume float64) *SweepGenerator {
	if length < 1 {
		length = 1
	}
	return &SweepGenerator{sr: sr, from: from, to: to, length: length, volume: volume}
}

// Stream fills samples. The generator never reports exhaustion; wrap it in
// beep.Take to bound it.
func (g *SweepGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	fade := float64(g.sr.N(10 * time.Millisecond))
	for i := range samples {
		t := math.Min(float64(g.pos)/float64(g.length), 1)
		freq := g.from + (g.to-g.from)*t
		g.phase += 2 * math.Pi * freq / float64(g.sr)

		env := 1.0
		if p := float64(g.pos); p < fade {
			env = p / fade
		}
		if rem := float64(g.length - g.pos); rem < fade {
			env = math.Min(env, math.Max(rem, 0)/fade)
		}

		sample := 0.25 * g.volume * env * math.Sin(g.phase)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

// Frequency returns the instantaneous frequency at the current position.
func (g *SweepGenerator) Frequency() float64 {
	t := math.Min(float64(g.pos)/float64(g.length), 1)
	return g.from + (g.to-g.from)*t
}

func (g *SweepGenerator) Err() error {
	return nil
}
