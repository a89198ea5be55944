package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"mirgo/internal/engine"
)

// Bounded is implemented by components that occupy space in the world.
type Bounded interface {
	engine.Component
	// Bounds returns the world-space box, or false if the component has none right now.
	Bounds() (AABB, bool)
}

type RaycastHit struct {
	GameObject *engine.GameObject
	Component  engine.Component
	Point      rl.Vector3
	Normal     rl.Vector3
	Distance   float32
}

// Raycast returns the closest bounded component hit along the ray. Inactive
// nodes and disabled components are skipped.
func Raycast(scene *engine.Scene, origin, direction rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	direction = rl.Vector3Normalize(direction)
	closest := RaycastHit{Distance: maxDistance}
	hit := false

	eachBounds(scene, func(g *engine.GameObject, c engine.Component, box AABB) {
		h, ok := RayAABB(origin, direction, box, closest.Distance)
		if !ok {
			return
		}
		h.GameObject, h.Component = g, c
		closest = h
		hit = true
	})
	return closest, hit
}

// Overlapping returns the nodes with a bounded component intersecting box,
// each node once, in graph order.
func Overlapping(scene *engine.Scene, box AABB) []*engine.GameObject {
	var out []*engine.GameObject
	eachBounds(scene, func(g *engine.GameObject, _ engine.Component, b AABB) {
		if !box.Intersects(b) {
			return
		}
		if n := len(out); n > 0 && out[n-1] == g {
			return
		}
		out = append(out, g)
	})
	return out
}

// BoundsOf returns the bounds of g's first enabled bounded component.
func BoundsOf(g *engine.GameObject) (AABB, bool) {
	for _, c := range g.Components() {
		if b, ok := c.(Bounded); ok && c.Enabled() {
			if box, ok := b.Bounds(); ok {
				return box, true
			}
		}
	}
	return AABB{}, false
}

func eachBounds(scene *engine.Scene, fn func(*engine.GameObject, engine.Component, AABB)) {
	scene.Walk(func(g *engine.GameObject) bool {
		if !g.ActiveInHierarchy() {
			return false
		}
		for _, c := range g.Components() {
			b, ok := c.(Bounded)
			if !ok || !c.Enabled() {
				continue
			}
			if box, ok := b.Bounds(); ok {
				fn(g, c, box)
			}
		}
		return true
	})
}

// RayAABB intersects a ray with normalized direction against box using the slab method.
func RayAABB(origin, direction rl.Vector3, box AABB, maxDistance float32) (RaycastHit, bool) {
	tmin, tmax := float32(-1e30), float32(1e30)

	slab := func(o, d, lo, hi float32) bool {
		if d == 0 {
			return o >= lo && o <= hi
		}
		t1, t2 := (lo-o)/d, (hi-o)/d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		return tmin <= tmax
	}
	if !slab(origin.X, direction.X, box.Min.X, box.Max.X) ||
		!slab(origin.Y, direction.Y, box.Min.Y, box.Max.Y) ||
		!slab(origin.Z, direction.Z, box.Min.Z, box.Max.Z) {
		return RaycastHit{}, false
	}

	t := tmin
	if t < 0 {
		t = tmax
	}
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))

	// Calculate normal based on which face was hit
	var normal rl.Vector3
	epsilon := float32(0.001)
	switch {
	case abs(point.X-box.Min.X) < epsilon:
		normal = rl.Vector3{X: -1}
	case abs(point.X-box.Max.X) < epsilon:
		normal = rl.Vector3{X: 1}
	case abs(point.Y-box.Min.Y) < epsilon:
		normal = rl.Vector3{Y: -1}
	case abs(point.Y-box.Max.Y) < epsilon:
		normal = rl.Vector3{Y: 1}
	case abs(point.Z-box.Min.Z) < epsilon:
		normal = rl.Vector3{Z: -1}
	default:
		normal = rl.Vector3{Z: 1}
	}

	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}
