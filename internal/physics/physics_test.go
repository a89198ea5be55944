package physics

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"mirgo/internal/engine"
)

type box struct {
	engine.BaseComponent
	Size rl.Vector3
}

func (b *box) TypeName() string { return "Box" }

func (b *box) Bounds() (AABB, bool) {
	g := b.GetGameObject()
	if g == nil {
		return AABB{}, false
	}
	return NewAABBFromCenter(g.WorldPosition(), b.Size), true
}

func addBox(t *testing.T, s *engine.Scene, name string, pos rl.Vector3) *engine.GameObject {
	t.Helper()
	g := s.CreateGameObject(name)
	g.Transform.Position = pos
	if err := s.AttachComponent(g, &box{Size: rl.Vector3{X: 1, Y: 1, Z: 1}}); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestAABBResolve(t *testing.T) {
	a := NewAABBFromCenter(rl.Vector3{X: 0.8}, rl.Vector3{X: 1, Y: 1, Z: 1})
	b := NewAABBFromCenter(rl.Vector3{}, rl.Vector3{X: 1, Y: 1, Z: 1})

	push := a.Resolve(b)
	if push.X < 0.199 || push.X > 0.201 || push.Y != 0 || push.Z != 0 {
		t.Errorf("Expected push (0.2,0,0), got %v", push)
	}

	far := NewAABBFromCenter(rl.Vector3{X: 5}, rl.Vector3{X: 1, Y: 1, Z: 1})
	if got := far.Resolve(b); got != rl.Vector3Zero() {
		t.Errorf("Expected no push for separated boxes, got %v", got)
	}
	if !b.Contains(rl.Vector3{X: 0.5}) || b.Contains(rl.Vector3{X: 0.6}) {
		t.Error("Contains is wrong at the boundary")
	}
}

func TestRayAABB(t *testing.T) {
	b := NewAABBFromCenter(rl.Vector3{Z: -5}, rl.Vector3{X: 2, Y: 2, Z: 2})

	hit, ok := RayAABB(rl.Vector3{}, rl.Vector3{Z: -1}, b, 100)
	if !ok {
		t.Fatal("Expected a hit")
	}
	if hit.Distance < 3.999 || hit.Distance > 4.001 {
		t.Errorf("Expected distance 4, got %f", hit.Distance)
	}
	if hit.Normal != (rl.Vector3{Z: 1}) {
		t.Errorf("Expected normal +Z, got %v", hit.Normal)
	}

	if _, ok := RayAABB(rl.Vector3{}, rl.Vector3{Z: 1}, b, 100); ok {
		t.Error("Ray pointing away must miss")
	}
	if _, ok := RayAABB(rl.Vector3{}, rl.Vector3{Z: -1}, b, 3); ok {
		t.Error("Hit beyond max distance must be ignored")
	}
}

func TestRaycastPicksClosestActive(t *testing.T) {
	s := engine.NewScene("Test")
	near := addBox(t, s, "Near", rl.Vector3{Z: -3})
	addBox(t, s, "Far", rl.Vector3{Z: -8})

	hit, ok := Raycast(s, rl.Vector3{}, rl.Vector3{Z: -2}, 100)
	if !ok || hit.GameObject != near {
		t.Fatalf("Expected to hit Near, got %v", hit.GameObject)
	}

	near.SetActive(false)
	hit, ok = Raycast(s, rl.Vector3{}, rl.Vector3{Z: -1}, 100)
	if !ok || hit.GameObject.Name != "Far" {
		t.Errorf("Inactive node must be skipped, got %v", hit.GameObject)
	}
}

func TestOverlapping(t *testing.T) {
	s := engine.NewScene("Test")
	a := addBox(t, s, "A", rl.Vector3{})
	addBox(t, s, "B", rl.Vector3{X: 10})

	got := Overlapping(s, NewAABBFromCenter(rl.Vector3{X: 0.5}, rl.Vector3{X: 1, Y: 1, Z: 1}))
	if len(got) != 1 || got[0] != a {
		t.Errorf("Expected only A, got %v", got)
	}
}
