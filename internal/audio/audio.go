// Package audio turns contact events into short impact sounds.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/pkg/errors"
)

const sampleRate = beep.SampleRate(44100)

const (
	impactDuration = 60 * time.Millisecond
	impactAttack   = 2 * time.Millisecond

	// MinImpactSpeed is the slowest approach that still makes a sound.
	MinImpactSpeed = 0.5
	// MaxImpactSpeed maps to full volume.
	MaxImpactSpeed = 10.0
	// maxVoices caps overlapping impacts.
	maxVoices = 8
)

// Manager mixes impact sounds into the speaker.
type Manager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	enabled     bool
	initialized bool
}

// NewManager creates a manager at full volume. Nothing plays until
// Initialize succeeds.
func NewManager() *Manager {
	return &Manager{
		mixer:   &beep.Mixer{},
		volume:  1,
		enabled: true,
	}
}

// Initialize opens the speaker.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/20)); err != nil {
		return errors.Wrap(err, "init speaker")
	}
	speaker.Play(m.mixer)
	m.initialized = true
	return nil
}

// Close silences everything and releases the speaker.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	m.mixer.Clear()
	m.initialized = false
}

// SetEnabled mutes or unmutes impacts without closing the speaker.
func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
}

// Enabled reports whether impacts are audible.
func (m *Manager) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// SetVolume sets the master volume in [0,1].
func (m *Manager) SetVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = math.Max(0, math.Min(1, v))
}

// PlayImpact plays a click for a contact that began with the given
// approach speed. pan places it between the left (-1) and right (1)
// channels. Slow contacts are ignored.
func (m *Manager) PlayImpact(speed, pan float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized || !m.enabled {
		return
	}
	vol := ImpactVolume(speed) * m.volume
	if vol == 0 {
		return
	}
	speaker.Lock()
	if m.mixer.Len() < maxVoices {
		m.mixer.Add(ImpactSound(speed, pan, vol))
	}
	speaker.Unlock()
}

// ImpactVolume maps an approach speed to a volume in [0,1].
func ImpactVolume(speed float64) float64 {
	if speed < MinImpactSpeed {
		return 0
	}
	return math.Min(1, (speed-MinImpactSpeed)/(MaxImpactSpeed-MinImpactSpeed)+0.1)
}

// ImpactPitch maps an approach speed to a frequency. Harder hits sound
// higher.
func ImpactPitch(speed float64) float64 {
	return 220 + 660*math.Min(1, speed/MaxImpactSpeed)
}

// ImpactSound builds the streamer for one impact.
func ImpactSound(speed, pan, vol float64) beep.Streamer {
	tone := newDecayingTone(ImpactPitch(speed), impactDuration, sampleRate)
	shaped := &effects.Pan{Streamer: tone, Pan: math.Max(-1, math.Min(1, pan))}
	return newVolume(shaped, vol)
}

// newVolume wraps s in a linear volume. Zero is silent since log2(0) is -Inf.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// decayingTone is a sine with a short linear attack and exponential decay.
type decayingTone struct {
	freq   float64
	rate   beep.SampleRate
	pos    int
	total  int
	attack int
}

func newDecayingTone(freq float64, d time.Duration, rate beep.SampleRate) *decayingTone {
	return &decayingTone{
		freq:   freq,
		rate:   rate,
		total:  rate.N(d),
		attack: rate.N(impactAttack),
	}
}

func (g *decayingTone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if g.pos >= g.total {
			return i, i > 0
		}
		t := float64(g.pos) / float64(g.rate)
		env := math.Exp(-t * 60)
		if g.pos < g.attack {
			env *= float64(g.pos) / float64(g.attack)
		}
		s := 0.5 * env * math.Sin(2*math.Pi*g.freq*t)
		samples[i][0] = s
		samples[i][1] = s
		g.pos++
	}
	return len(samples), true
}

func (g *decayingTone) Err() error { return nil }
