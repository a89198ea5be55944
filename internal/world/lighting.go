package world

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"mirgo/internal/engine"
)

const (
	ShadowMapResolution = 2048

	ShadowNear float32 = 1.0
	ShadowFar  float32 = 150.0
)

// Lighting is the scene-global light and shadow block saved with every scene.
type Lighting struct {
	Direction        rl.Vector3
	Color            rl.Color
	Ambient          rl.Color
	Intensity        float32
	ShadowResolution int32
	ShadowNear       float32
	ShadowFar        float32
	Shadows          bool

	notify func()
}

func DefaultLighting() *Lighting {
	return &Lighting{
		Direction:        rl.Vector3Normalize(rl.Vector3{X: 0.35, Y: -1.0, Z: -0.35}),
		Color:            rl.White,
		Ambient:          rl.Color{R: 25, G: 25, B: 25, A: 255},
		Intensity:        1,
		ShadowResolution: ShadowMapResolution,
		ShadowNear:       ShadowNear,
		ShadowFar:        ShadowFar,
		Shadows:          true,
	}
}

func (l *Lighting) Describe() []engine.Entry {
	return []engine.Entry{
		engine.Vector3("direction", &l.Direction).Notify(l.directionChanged),
		engine.Color("color", &l.Color).Notify(l.changed),
		engine.Color("ambient", &l.Ambient).Notify(l.changed),
		engine.Float("intensity", &l.Intensity).Range(0, 8).Notify(l.changed),
		engine.Int32("shadowResolution", &l.ShadowResolution).Range(256, 8192).Notify(l.changed),
		engine.Float("shadowNear", &l.ShadowNear).Notify(l.changed),
		engine.Float("shadowFar", &l.ShadowFar).Notify(l.changed),
		engine.Bool("shadows", &l.Shadows).Notify(l.changed),
	}
}

func (l *Lighting) directionChanged() {
	if rl.Vector3Length(l.Direction) > 0 {
		l.Direction = rl.Vector3Normalize(l.Direction)
	}
	l.changed()
}

func (l *Lighting) changed() {
	if l.notify != nil {
		l.notify()
	}
}

// CameraUp returns an up vector that is never parallel to the light direction.
func (l *Lighting) CameraUp() rl.Vector3 {
	if l.Direction.Y > 0.9 || l.Direction.Y < -0.9 {
		return rl.Vector3{X: 0, Y: 0, Z: 1}
	}
	return rl.Vector3{X: 0, Y: 1, Z: 0}
}

// Shade lights a surface color facing normal: ambient plus the directional
// light's Lambert term, clamped per channel.
func (l *Lighting) Shade(c rl.Color, normal rl.Vector3) rl.Color {
	diffuse := -rl.Vector3DotProduct(rl.Vector3Normalize(normal), l.Direction)
	if diffuse < 0 {
		diffuse = 0
	}
	diffuse *= l.Intensity
	channel := func(base, light, ambient uint8) uint8 {
		v := float32(base) / 255 * (float32(ambient)/255 + float32(light)/255*diffuse)
		if v > 1 {
			v = 1
		}
		return uint8(v*255 + 0.5)
	}
	return rl.Color{
		R: channel(c.R, l.Color.R, l.Ambient.R),
		G: channel(c.G, l.Color.G, l.Ambient.G),
		B: channel(c.B, l.Color.B, l.Ambient.B),
		A: c.A,
	}
}
