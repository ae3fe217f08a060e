// Package audio plays the short synthesised cues that accompany touch
// contacts in the viewer.
package audio

import (
	"errors"
	"fmt"
	gomath "math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// DefaultSampleRate is used until Init opens the speaker.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned by Play before Init.
var ErrNotInitialized = errors.New("audio: not initialized")

// Manager owns the speaker and mixes concurrent cues.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	masterVolume float64 // 0..1
	cueVolume    float64 // 0..1, applied on top of master

	mixer *beep.Mixer
}

// New returns a silent manager at full volume. Call Init to open the device.
func New() *Manager {
	return &Manager{
		sampleRate:   DefaultSampleRate,
		masterVolume: 1,
		cueVolume:    1,
		mixer:        &beep.Mixer{},
	}
}

// Init opens the speaker and starts the mixer.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	// 1/30 s of buffered samples
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("opening speaker: %w", err)
	}
	speaker.Play(m.mixer)

	m.initialized = true
	return nil
}

// Close stops playback.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		speaker.Clear()
	}
	m.mixer.Clear()
	m.initialized = false
}

// IsInitialized returns whether the speaker is open.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SampleRate returns the output sample rate.
func (m *Manager) SampleRate() beep.SampleRate {
	return m.sampleRate
}

// SetMasterVolume sets the overall volume, clamped to [0, 1].
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.masterVolume = clamp(vol, 0, 1)
}

// SetCueVolume scales contact cues under the master volume.
func (m *Manager) SetCueVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cueVolume = clamp(vol, 0, 1)
}

// MasterVolume returns the master volume.
func (m *Manager) MasterVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.masterVolume
}

// CueVolume returns the cue volume.
func (m *Manager) CueVolume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cueVolume
}

// Play mixes s in at gain times the current volume.
func (m *Manager) Play(s beep.Streamer, gain float64) error {
	m.mu.RLock()
	initialized := m.initialized
	vol := m.masterVolume * m.cueVolume * clamp(gain, 0, 1)
	m.mu.RUnlock()

	if !initialized {
		return ErrNotInitialized
	}

	volume := &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   volumeToDb(vol),
		Silent:   vol <= 0,
	}
	speaker.Lock()
	m.mixer.Add(volume)
	speaker.Unlock()
	return nil
}

// volumeToDb converts a 0-1 volume to the exponent effects.Volume expects
// with base 2: vol=1 -> 0, vol=0.5 -> -1.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return gomath.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
