// Package audio mixes playing sources into one stereo stream with distance
// attenuation and panning relative to a listener.
package audio

import (
	"math"
	"sync"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"mirgo/internal/engine"
)

// Listener represents the audio listener position and orientation
type Listener struct {
	Position rl.Vector3
	Forward  rl.Vector3
	Right    rl.Vector3
}

// Source is one playing sound, keyed by the id of the component that started it.
type Source struct {
	Position    rl.Vector3
	Volume      float32
	MaxDistance float32
	Spatial     bool

	ctrl   *beep.Ctrl
	volume *effects.Volume
	pan    *effects.Pan
	done   bool
}

// Mixer owns the sources. Stream may be called from the audio device's
// goroutine while the game thread updates sources.
type Mixer struct {
	mu       sync.Mutex
	rate     beep.SampleRate
	listener Listener
	mixer    beep.Mixer
	sources  map[engine.ID]*Source
	playMode bool
}

func NewMixer(rate int) *Mixer {
	return &Mixer{
		rate:    beep.SampleRate(rate),
		sources: make(map[engine.ID]*Source),
		listener: Listener{
			Forward: rl.Vector3{Z: -1},
			Right:   rl.Vector3{X: 1},
		},
	}
}

func (m *Mixer) SampleRate() int { return int(m.rate) }

// SetPlayMode pauses every source while the editor is not playing.
func (m *Mixer) SetPlayMode(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playMode = enabled
	for _, src := range m.sources {
		src.ctrl.Paused = !enabled
	}
}

// SetListener updates the listener position and orientation
func (m *Mixer) SetListener(pos, forward, up rl.Vector3) {
	m.mu.Lock()
	defer m.mu.Unlock()
	forward = rl.Vector3Normalize(forward)
	m.listener = Listener{
		Position: pos,
		Forward:  forward,
		Right:    rl.Vector3Normalize(rl.Vector3CrossProduct(forward, up)),
	}
}

// Play starts buf for id, replacing whatever id was playing. Buffers at a
// different sample rate are resampled.
func (m *Mixer) Play(id engine.ID, buf *beep.Buffer, loop bool) *Source {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.sources[id]; ok {
		old.ctrl.Streamer = nil
	}
	src := &Source{Volume: 1, MaxDistance: 20}

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if loop {
		s = beep.Loop(-1, buf.Streamer(0, buf.Len()))
	}
	if rate := buf.Format().SampleRate; rate != m.rate {
		s = beep.Resample(4, rate, m.rate, s)
	}
	src.volume = &effects.Volume{Streamer: s, Base: 2}
	src.pan = &effects.Pan{Streamer: src.volume}
	src.ctrl = &beep.Ctrl{
		Streamer: beep.Seq(src.pan, beep.Callback(func() { src.done = true })),
		Paused:   !m.playMode,
	}
	m.sources[id] = src
	m.mixer.Add(src.ctrl)
	return src
}

// Stop silences id and forgets it.
func (m *Mixer) Stop(id engine.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if src, ok := m.sources[id]; ok {
		src.ctrl.Streamer = nil
		delete(m.sources, id)
	}
}

// StopAll removes every source.
func (m *Mixer) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, src := range m.sources {
		src.ctrl.Streamer = nil
		delete(m.sources, id)
	}
	m.mixer.Clear()
}

// Configure changes the spatial parameters of a playing source.
func (m *Mixer) Configure(id engine.ID, fn func(src *Source)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if src, ok := m.sources[id]; ok {
		fn(src)
	}
}

// IsPlaying returns whether a source is currently playing
func (m *Mixer) IsPlaying(id engine.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	src, ok := m.sources[id]
	return ok && !src.done
}

// Len returns the number of sources, finished ones included until Update.
func (m *Mixer) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sources)
}

// Update drops finished sources and recomputes volume and pan of the rest.
func (m *Mixer) Update() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, src := range m.sources {
		if src.done {
			delete(m.sources, id)
			continue
		}
		gain, pan := src.Volume, float32(0)
		if src.Spatial {
			gain, pan = Spatialize(m.listener, src.Position, src.Volume, src.MaxDistance)
		}
		if gain <= 0 {
			src.volume.Silent = true
		} else {
			src.volume.Silent = false
			src.volume.Volume = math.Log2(float64(gain))
		}
		src.pan.Pan = float64(pan)
	}
}

// Stream mixes the next len(samples) frames. Silence is written when nothing plays.
func (m *Mixer) Stream(samples [][2]float64) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mixer.Stream(samples)
	return len(samples), true
}

func (m *Mixer) Err() error { return nil }

// Spatialize returns the gain and pan (-1 left .. 1 right) of a source heard
// by l. Gain falls off linearly to zero at maxDistance; sources behind the
// listener are slightly quieter.
func Spatialize(l Listener, pos rl.Vector3, volume, maxDistance float32) (gain, pan float32) {
	toSource := rl.Vector3Subtract(pos, l.Position)
	distance := rl.Vector3Length(toSource)

	if distance >= maxDistance {
		return 0, 0
	}
	gain = volume * (1 - distance/maxDistance)

	if distance > 0.001 {
		direction := rl.Vector3Scale(toSource, 1/distance)
		pan = rl.Clamp(rl.Vector3DotProduct(direction, l.Right), -1, 1)

		if frontDot := rl.Vector3DotProduct(direction, l.Forward); frontDot < 0 {
			gain *= 0.7 + 0.3*float32(math.Abs(float64(frontDot)))
		}
	}
	return gain, pan
}
