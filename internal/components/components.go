// Package components holds the built-in behaviors. Importing it registers
// every type in engine.DefaultRegistry.
package components

import (
	"mirgo/internal/audio"
	"mirgo/internal/engine"
)

func init() {
	Register(engine.DefaultRegistry)
}

// Register adds every built-in type to r.
func Register(r *engine.Registry) {
	r.Register("PointLight", func() engine.Component { return NewPointLight() })
	r.Register("Camera", func() engine.Component { return NewCamera() })
	r.Register("MeshRenderer", func() engine.Component { return NewMeshRenderer() })
	r.Register("Rigidbody", func() engine.Component { return NewRigidbody() })
	r.Register("Rotator", func() engine.Component { return NewRotator() })
	r.Register("Follower", func() engine.Component { return NewFollower() })
	r.Register("AudioSource", func() engine.Component { return NewAudioSource() })
	r.Register("TriggerRelay", func() engine.Component { return NewTriggerRelay() })
	r.Register("CurveAnimator", func() engine.Component { return NewCurveAnimator() })
}

var mixer *audio.Mixer

// SetMixer installs the mixer audio sources play through. Nil disables playback.
func SetMixer(m *audio.Mixer) {
	mixer = m
}

// markDirty tells the renderer that c's owner needs its batch rebuilt.
func markDirty(c engine.Component) func() {
	return func() {
		if g := c.GetGameObject(); g != nil && g.Scene() != nil {
			g.Scene().MarkBatchDirty(g.UID())
		}
	}
}
