package components

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"mirgo/internal/engine"
)

// Keyframe is one pose of a CurveAnimator, relative to the owner's start pose.
type Keyframe struct {
	Time     float32
	Offset   rl.Vector3
	Rotation rl.Vector3
}

func (k *Keyframe) Describe() []engine.Entry {
	return []engine.Entry{
		engine.Float("time", &k.Time).Range(0, 3600),
		engine.Vector3("offset", &k.Offset),
		engine.Vector3("rotation", &k.Rotation),
	}
}

// CurveAnimator plays a piecewise-linear path through Keys. Keys are
// expected in ascending time order.
type CurveAnimator struct {
	engine.BaseComponent
	Keys  []Keyframe
	Loop  bool
	Speed float32

	time          float32
	startPosition rl.Vector3
	startRotation rl.Vector3
}

func NewCurveAnimator() *CurveAnimator {
	return &CurveAnimator{Loop: true, Speed: 1}
}

func (c *CurveAnimator) TypeName() string { return "CurveAnimator" }

func (c *CurveAnimator) Describe() []engine.Entry {
	return []engine.Entry{
		engine.List("keys", &c.Keys, func(name string, k *Keyframe) engine.Entry {
			return engine.Object(name, k)
		}),
		engine.Bool("loop", &c.Loop),
		engine.Float("speed", &c.Speed).Range(0, 10),
	}
}

func (c *CurveAnimator) Start() {
	g := c.GetGameObject()
	if g == nil {
		return
	}
	c.startPosition = g.Transform.Position
	c.startRotation = g.Transform.Rotation
	c.time = 0
}

// Duration is the time of the last key.
func (c *CurveAnimator) Duration() float32 {
	if len(c.Keys) == 0 {
		return 0
	}
	return c.Keys[len(c.Keys)-1].Time
}

func (c *CurveAnimator) Update(deltaTime float32) {
	g := c.GetGameObject()
	if g == nil || len(c.Keys) == 0 {
		return
	}

	c.time += deltaTime * c.Speed
	if d := c.Duration(); d > 0 {
		if c.Loop {
			c.time = float32(math.Mod(float64(c.time), float64(d)))
		} else if c.time > d {
			c.time = d
		}
	}

	k := c.Sample(c.time)
	g.Transform.Position = rl.Vector3Add(c.startPosition, k.Offset)
	g.Transform.Rotation = rl.Vector3Add(c.startRotation, k.Rotation)
	g.Scene().MarkBatchDirty(g.UID())
}

// Sample interpolates the keys at time t, clamping outside the key range.
func (c *CurveAnimator) Sample(t float32) Keyframe {
	if len(c.Keys) == 0 {
		return Keyframe{Time: t}
	}
	if t <= c.Keys[0].Time {
		return c.Keys[0]
	}
	for i := 1; i < len(c.Keys); i++ {
		a, b := c.Keys[i-1], c.Keys[i]
		if t > b.Time {
			continue
		}
		span := b.Time - a.Time
		if span <= 0 {
			return b
		}
		f := (t - a.Time) / span
		return Keyframe{
			Time:     t,
			Offset:   rl.Vector3Lerp(a.Offset, b.Offset, f),
			Rotation: rl.Vector3Lerp(a.Rotation, b.Rotation, f),
		}
	}
	return c.Keys[len(c.Keys)-1]
}
