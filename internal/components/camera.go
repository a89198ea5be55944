package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"mirgo/internal/engine"
)

// Camera renders the scene from its owner's world transform while playing.
type Camera struct {
	engine.BaseComponent
	FOV     float32
	Primary bool
}

func NewCamera() *Camera {
	return &Camera{FOV: 60, Primary: true}
}

func (c *Camera) TypeName() string { return "Camera" }

func (c *Camera) Describe() []engine.Entry {
	return []engine.Entry{
		engine.Float("fov", &c.FOV).Range(10, 120),
		engine.Bool("primary", &c.Primary),
	}
}

// Forward returns the view direction: -Z rotated by the owner's world rotation.
func (c *Camera) Forward() rl.Vector3 {
	g := c.GetGameObject()
	if g == nil {
		return rl.Vector3{Z: -1}
	}
	rot := rl.Vector3Scale(g.Transform.WorldRotation(), rl.Deg2rad)
	return rl.Vector3Transform(rl.Vector3{Z: -1}, rl.MatrixRotateXYZ(rot))
}

func (c *Camera) Camera3D() rl.Camera3D {
	var pos rl.Vector3
	if g := c.GetGameObject(); g != nil {
		pos = g.WorldPosition()
	}
	return rl.Camera3D{
		Position:   pos,
		Target:     rl.Vector3Add(pos, c.Forward()),
		Up:         rl.Vector3{Y: 1},
		Fovy:       c.FOV,
		Projection: rl.CameraPerspective,
	}
}

// PrimaryCamera returns the first enabled primary camera on an active node.
func PrimaryCamera(s *engine.Scene) *Camera {
	var found *Camera
	s.Walk(func(g *engine.GameObject) bool {
		if found != nil || !g.ActiveInHierarchy() {
			return false
		}
		for _, c := range engine.GetComponents[*Camera](g) {
			if c.Enabled() && c.Primary {
				found = c
				return false
			}
		}
		return true
	})
	return found
}
