package engine

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Transform is the local placement of a GameObject relative to its parent.
// Every GameObject owns exactly one.
type Transform struct {
	Position rl.Vector3
	Rotation rl.Vector3 // Euler angles in degrees
	Scale    rl.Vector3

	node *GameObject
}

func newTransform(g *GameObject) Transform {
	return Transform{
		Scale: rl.Vector3{X: 1, Y: 1, Z: 1},
		node:  g,
	}
}

func (t *Transform) Describe() []Entry {
	notify := t.changed
	return []Entry{
		Vector3("position", &t.Position).Notify(notify),
		Vector3("rotation", &t.Rotation).Notify(notify),
		Vector3("scale", &t.Scale).Notify(notify),
	}
}

func (t *Transform) changed() {
	if t.node != nil && t.node.scene != nil {
		t.node.scene.MarkBatchDirty(t.node.uid)
	}
}

// GameObject returns the owning node.
func (t *Transform) GameObject() *GameObject {
	return t.node
}

func (t *Transform) parent() *Transform {
	if t.node == nil {
		return nil
	}
	if p := t.node.Parent(); p != nil {
		return &p.Transform
	}
	return nil
}

// rotation applies X then Y then Z, the same convention ModelRenderer uses.
func rotationMatrix(rot rl.Vector3) rl.Matrix {
	rx := float32(float64(rot.X) * math.Pi / 180)
	ry := float32(float64(rot.Y) * math.Pi / 180)
	rz := float32(float64(rot.Z) * math.Pi / 180)
	return rl.MatrixMultiply(rl.MatrixMultiply(rl.MatrixRotateX(rx), rl.MatrixRotateY(ry)), rl.MatrixRotateZ(rz))
}

func (t *Transform) WorldPosition() rl.Vector3 {
	p := t.parent()
	if p == nil {
		return t.Position
	}
	parentScale := p.WorldScale()
	scaled := rl.Vector3{
		X: t.Position.X * parentScale.X,
		Y: t.Position.Y * parentScale.Y,
		Z: t.Position.Z * parentScale.Z,
	}
	rotated := rl.Vector3Transform(scaled, rotationMatrix(p.WorldRotation()))
	return rl.Vector3Add(p.WorldPosition(), rotated)
}

func (t *Transform) WorldRotation() rl.Vector3 {
	p := t.parent()
	if p == nil {
		return t.Rotation
	}
	return rl.Vector3Add(p.WorldRotation(), t.Rotation)
}

func (t *Transform) WorldScale() rl.Vector3 {
	p := t.parent()
	if p == nil {
		return t.Scale
	}
	ps := p.WorldScale()
	return rl.Vector3{
		X: ps.X * t.Scale.X,
		Y: ps.Y * t.Scale.Y,
		Z: ps.Z * t.Scale.Z,
	}
}

// SetWorldPosition moves the transform so its world position becomes pos.
func (t *Transform) SetWorldPosition(pos rl.Vector3) {
	p := t.parent()
	if p == nil {
		t.Position = pos
		t.changed()
		return
	}
	local := rl.Vector3Subtract(pos, p.WorldPosition())
	// rotation matrices are orthonormal, so the transpose is the inverse
	local = rl.Vector3Transform(local, rl.MatrixTranspose(rotationMatrix(p.WorldRotation())))
	ps := p.WorldScale()
	t.Position = rl.Vector3{
		X: safeDiv(local.X, ps.X),
		Y: safeDiv(local.Y, ps.Y),
		Z: safeDiv(local.Z, ps.Z),
	}
	t.changed()
}

// worldState captures the world placement so it can be kept across reparenting.
type worldState struct {
	position, rotation, scale rl.Vector3
}

func (t *Transform) captureWorld() worldState {
	return worldState{position: t.WorldPosition(), rotation: t.WorldRotation(), scale: t.WorldScale()}
}

func (t *Transform) restoreWorld(w worldState) {
	if p := t.parent(); p != nil {
		t.Rotation = rl.Vector3Subtract(w.rotation, p.WorldRotation())
		ps := p.WorldScale()
		t.Scale = rl.Vector3{X: safeDiv(w.scale.X, ps.X), Y: safeDiv(w.scale.Y, ps.Y), Z: safeDiv(w.scale.Z, ps.Z)}
	} else {
		t.Rotation = w.rotation
		t.Scale = w.scale
	}
	t.SetWorldPosition(w.position)
}

func safeDiv(a, b float32) float32 {
	if b == 0 {
		return 0
	}
	return a / b
}
