package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"mirgo/internal/engine"
)

// Follower moves its owner toward Target's world position plus Offset.
// Smoothing 0 snaps; larger values lag behind.
type Follower struct {
	engine.BaseComponent
	Target    engine.GameObjectRef
	Offset    rl.Vector3
	Smoothing float32
}

func NewFollower() *Follower {
	return &Follower{Offset: rl.Vector3{Y: 2, Z: 5}, Smoothing: 5}
}

func (f *Follower) TypeName() string { return "Follower" }

func (f *Follower) Describe() []engine.Entry {
	return []engine.Entry{
		engine.GameObjectField("target", &f.Target),
		engine.Vector3("offset", &f.Offset),
		engine.Float("smoothing", &f.Smoothing).Range(0, 50),
	}
}

func (f *Follower) Update(deltaTime float32) {
	g := f.GetGameObject()
	if g == nil {
		return
	}
	target := f.Target.Get(g.Scene())
	if target == nil || target == g {
		return
	}

	goal := rl.Vector3Add(target.WorldPosition(), f.Offset)
	pos := goal
	if f.Smoothing > 0 {
		t := f.Smoothing * deltaTime
		if t > 1 {
			t = 1
		}
		pos = rl.Vector3Lerp(g.WorldPosition(), goal, t)
	}
	g.Transform.SetWorldPosition(pos)
}
