package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"mirgo/internal/assets"
	"mirgo/internal/engine"
	"mirgo/internal/physics"
)

type MeshType int

const (
	MeshCube MeshType = iota
	MeshSphere
	MeshPlane
)

type MeshRenderer struct {
	engine.BaseComponent
	MeshType    MeshType
	Color       rl.Color
	Size        rl.Vector3
	Material    engine.AssetRef
	CastShadows bool
}

func NewMeshRenderer() *MeshRenderer {
	return &MeshRenderer{
		MeshType:    MeshCube,
		Color:       rl.White,
		Size:        rl.Vector3{X: 1, Y: 1, Z: 1},
		CastShadows: true,
	}
}

func (m *MeshRenderer) TypeName() string { return "MeshRenderer" }

func (m *MeshRenderer) Describe() []engine.Entry {
	dirty := markDirty(m)
	return []engine.Entry{
		engine.Enum("mesh", &m.MeshType, "Cube", "Sphere", "Plane").Notify(dirty),
		engine.Color("color", &m.Color).Notify(dirty),
		engine.Vector3("size", &m.Size).Notify(dirty),
		engine.AssetField("material", &m.Material).Notify(dirty),
		engine.Bool("castShadows", &m.CastShadows).Notify(dirty),
	}
}

// Tint returns the draw color: the material color if one is loaded, times Color.
func (m *MeshRenderer) Tint() rl.Color {
	g := m.GetGameObject()
	if g == nil {
		return m.Color
	}
	mat, ok := engine.ResolveAsset[*assets.Material](g.Scene().Assets(), m.Material)
	if !ok || !mat.Ready() {
		return m.Color
	}
	return rl.NewColor(
		uint8(uint16(mat.Color.R)*uint16(m.Color.R)/255),
		uint8(uint16(mat.Color.G)*uint16(m.Color.G)/255),
		uint8(uint16(mat.Color.B)*uint16(m.Color.B)/255),
		uint8(uint16(mat.Color.A)*uint16(m.Color.A)/255),
	)
}

func (m *MeshRenderer) worldSize() rl.Vector3 {
	g := m.GetGameObject()
	scale := g.Transform.WorldScale()
	return rl.Vector3{X: m.Size.X * scale.X, Y: m.Size.Y * scale.Y, Z: m.Size.Z * scale.Z}
}

// Bounds is the axis-aligned box around the mesh, used for picking.
func (m *MeshRenderer) Bounds() (physics.AABB, bool) {
	g := m.GetGameObject()
	if g == nil {
		return physics.AABB{}, false
	}
	size := m.worldSize()
	switch m.MeshType {
	case MeshSphere:
		d := size.X * 2
		size = rl.Vector3{X: d, Y: d, Z: d}
	case MeshPlane:
		size.Y = 0.01
	}
	return physics.NewAABBFromCenter(g.WorldPosition(), size), true
}

// Draw renders the mesh. shade, if set, lights the tint at the mesh position.
func (m *MeshRenderer) Draw(shade func(c rl.Color, pos rl.Vector3) rl.Color) {
	g := m.GetGameObject()
	if g == nil || !g.ActiveInHierarchy() || !m.Enabled() {
		return
	}

	pos := g.WorldPosition()
	size := m.worldSize()
	color := m.Tint()
	if shade != nil {
		color = shade(color, pos)
	}

	switch m.MeshType {
	case MeshCube:
		rl.DrawCubeV(pos, size, color)
	case MeshSphere:
		rl.DrawSphere(pos, size.X, color)
	case MeshPlane:
		rl.DrawPlane(pos, rl.Vector2{X: size.X, Y: size.Z}, color)
	}
}
