// Package sound mixes playing sounds into a single beep.Streamer.
//
// The Manager is meant to be handed to a speaker (or any other sink) which
// pulls samples from it on its own goroutine, while the engine drives
// positional attenuation from Update on the frame goroutine. Decoding and
// resampling to SampleRate is left to the caller.
package sound

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/gogpu/stage"
)

// SampleRate is the rate sounds are expected to be resampled to before Play.
const SampleRate = beep.SampleRate(44100)

// DefaultMaxDistance is the distance at which a positional sound becomes
// inaudible.
const DefaultMaxDistance = 100

// Sound is a handle to a playing stream.
type Sound struct {
	m      *Manager
	ctrl   *beep.Ctrl
	volume *effects.Volume

	gain       float64
	positional bool
	position   stage.Vector3
	done       bool
}

// Stop silences the sound. It is removed from the mix on the next pull.
func (s *Sound) Stop() {
	s.m.mu.Lock()
	s.done = true
	s.m.mu.Unlock()
}

// SetPaused pauses or resumes the sound. A paused sound streams silence.
func (s *Sound) SetPaused(paused bool) {
	s.m.mu.Lock()
	s.ctrl.Paused = paused
	s.m.mu.Unlock()
}

// Done reports whether the sound finished or was stopped.
func (s *Sound) Done() bool {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return s.done
}

// Position returns the emitter position of a positional sound.
func (s *Sound) Position() stage.Vector3 {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	return s.position
}

// SetPosition moves the emitter. The gain follows on the next Update.
func (s *Sound) SetPosition(p stage.Vector3) {
	s.m.mu.Lock()
	s.position = p
	s.m.mu.Unlock()
}

// Manager is a mixer of sounds with a master volume and a listener.
// It is safe for concurrent use.
type Manager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	master      *effects.Volume
	sounds      []*Sound
	listener    stage.Vector3
	maxDistance float32
}

var _ beep.Streamer = (*Manager)(nil)

// NewManager returns a manager with master volume 1 and no sounds.
func NewManager() *Manager {
	mixer := &beep.Mixer{}
	return &Manager{
		mixer:       mixer,
		master:      newVolume(mixer, 1),
		maxDistance: DefaultMaxDistance,
	}
}

// newVolume wraps s in a linear gain expressed on beep's base-2 scale.
func newVolume(s beep.Streamer, gain float64) *effects.Volume {
	v := &effects.Volume{Streamer: s, Base: 2}
	setGain(v, gain)
	return v
}

func setGain(v *effects.Volume, gain float64) {
	if gain <= 0 {
		v.Volume = 0
		v.Silent = true
		return
	}
	v.Volume = math.Log2(gain)
	v.Silent = false
}

// Play mixes s at the given linear volume.
func (m *Manager) Play(s beep.Streamer, volume float64) *Sound {
	return m.play(s, volume, false, stage.Vector3{})
}

// PlayAt mixes s as a positional sound attenuated by its distance to the
// listener.
func (m *Manager) PlayAt(s beep.Streamer, volume float64, pos stage.Vector3) *Sound {
	return m.play(s, volume, true, pos)
}

func (m *Manager) play(s beep.Streamer, volume float64, positional bool, pos stage.Vector3) *Sound {
	snd := &Sound{m: m, gain: volume, positional: positional, position: pos}
	snd.ctrl = &beep.Ctrl{Streamer: s}
	snd.volume = newVolume(snd.ctrl, volume)

	m.mu.Lock()
	defer m.mu.Unlock()
	if positional {
		setGain(snd.volume, volume*m.attenuation(pos))
	}
	m.sounds = append(m.sounds, snd)
	m.mixer.Add(beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if snd.done {
			return 0, false
		}
		n, ok := snd.volume.Stream(samples)
		if !ok || n < len(samples) {
			snd.done = true
		}
		return n, ok
	}))
	return snd
}

// SetMasterVolume sets the linear gain applied to the whole mix.
func (m *Manager) SetMasterVolume(v float64) {
	m.mu.Lock()
	setGain(m.master, v)
	m.mu.Unlock()
}

// MasterVolume returns the linear master gain.
func (m *Manager) MasterVolume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.master.Silent {
		return 0
	}
	return math.Pow(2, m.master.Volume)
}

// SetMaxDistance sets the distance at which positional sounds fall silent.
// Non-positive values disable attenuation.
func (m *Manager) SetMaxDistance(d float32) {
	m.mu.Lock()
	m.maxDistance = d
	m.mu.Unlock()
}

// SetListenerPosition moves the listener used for positional sounds.
func (m *Manager) SetListenerPosition(p stage.Vector3) {
	m.mu.Lock()
	m.listener = p
	m.mu.Unlock()
}

// ListenerPosition returns the listener position.
func (m *Manager) ListenerPosition() stage.Vector3 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listener
}

// Playing returns the number of sounds that have not finished.
func (m *Manager) Playing() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range m.sounds {
		if !s.done {
			n++
		}
	}
	return n
}

// StopAll stops every sound.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sounds {
		s.done = true
	}
	m.sounds = nil
	m.mixer.Clear()
}

// Update prunes finished sounds and recomputes positional gains.
func (m *Manager) Update(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	live := m.sounds[:0]
	for _, s := range m.sounds {
		if s.done {
			continue
		}
		if s.positional {
			setGain(s.volume, s.gain*m.attenuation(s.position))
		}
		live = append(live, s)
	}
	clear(m.sounds[len(live):])
	m.sounds = live
}

// attenuation falls off linearly from 1 at the listener to 0 at maxDistance.
func (m *Manager) attenuation(pos stage.Vector3) float64 {
	if m.maxDistance <= 0 {
		return 1
	}
	d := m.listener.Distance(pos)
	if d >= m.maxDistance {
		return 0
	}
	return float64(1 - d/m.maxDistance)
}

// Stream implements beep.Streamer. It always fills samples, with silence when
// nothing is playing.
func (m *Manager) Stream(samples [][2]float64) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, _ := m.master.Stream(samples)
	clear(samples[n:])
	return len(samples), true
}

// Err implements beep.Streamer.
func (m *Manager) Err() error { return nil }
