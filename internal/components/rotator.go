package components

import (
	"mirgo/internal/engine"
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Rotator spins its owner around one local axis.
type Rotator struct {
	engine.BaseComponent
	Axis  Axis
	Speed float32 // degrees per second
}

func NewRotator() *Rotator {
	return &Rotator{Axis: AxisY, Speed: 90}
}

func (r *Rotator) TypeName() string { return "Rotator" }

func (r *Rotator) Describe() []engine.Entry {
	return []engine.Entry{
		engine.Enum("axis", &r.Axis, "X", "Y", "Z"),
		engine.Float("speed", &r.Speed).Range(-720, 720),
	}
}

func (r *Rotator) Update(deltaTime float32) {
	g := r.GetGameObject()
	if g == nil {
		return
	}
	rot := &g.Transform.Rotation
	var angle *float32
	switch r.Axis {
	case AxisX:
		angle = &rot.X
	case AxisZ:
		angle = &rot.Z
	default:
		angle = &rot.Y
	}
	*angle = wrapDegrees(*angle + r.Speed*deltaTime)
	g.Scene().MarkBatchDirty(g.UID())
}

func wrapDegrees(a float32) float32 {
	for a >= 360 {
		a -= 360
	}
	for a < 0 {
		a += 360
	}
	return a
}
