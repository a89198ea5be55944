package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"mirgo/internal/engine"
)

type PointLight struct {
	engine.BaseComponent
	Color     rl.Color
	Intensity float32
	Radius    float32 // falloff distance
}

func NewPointLight() *PointLight {
	return &PointLight{
		Color:     rl.White,
		Intensity: 1.0,
		Radius:    10.0,
	}
}

func (p *PointLight) TypeName() string {
	return "PointLight"
}

func (p *PointLight) Describe() []engine.Entry {
	dirty := markDirty(p)
	return []engine.Entry{
		engine.Color("color", &p.Color).Notify(dirty),
		engine.Float("intensity", &p.Intensity).Range(0, 10).Notify(dirty),
		engine.Float("radius", &p.Radius).Range(0, 100).Notify(dirty),
	}
}

func (p *PointLight) GetPosition() rl.Vector3 {
	if g := p.GetGameObject(); g != nil {
		return g.WorldPosition()
	}
	return rl.Vector3Zero()
}

func (p *PointLight) GetColorFloat() []float32 {
	return []float32{
		float32(p.Color.R) / 255.0 * p.Intensity,
		float32(p.Color.G) / 255.0 * p.Intensity,
		float32(p.Color.B) / 255.0 * p.Intensity,
	}
}
