// Package camera implements the editor's free-fly viewport camera.
package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type FlyCamera struct {
	Position  rl.Vector3
	Yaw       float32
	Pitch     float32
	MoveSpeed float32
	LookSpeed float32

	zooming      bool
	zoomStart    rl.Vector3
	zoomTarget   rl.Vector3
	zoomProgress float32
}

func New(pos rl.Vector3, moveSpeed float32) *FlyCamera {
	return &FlyCamera{
		Position:  pos,
		Yaw:       -135.0,
		Pitch:     -30.0,
		MoveSpeed: moveSpeed,
		LookSpeed: 0.1,
	}
}

// Look turns the camera by a mouse delta. Pitch stays within ±89 degrees.
func (c *FlyCamera) Look(dx, dy float32) {
	c.zooming = false
	c.Yaw += dx * c.LookSpeed
	c.Pitch = rl.Clamp(c.Pitch-dy*c.LookSpeed, -89, 89)
}

// Move flies along the view axes. Each axis is -1, 0 or 1.
func (c *FlyCamera) Move(forwardAxis, rightAxis, upAxis, deltaTime float32) {
	if forwardAxis == 0 && rightAxis == 0 && upAxis == 0 {
		return
	}
	c.zooming = false
	forward, right := c.Directions()
	speed := c.MoveSpeed * deltaTime
	c.Position = rl.Vector3Add(c.Position, rl.Vector3Scale(forward, forwardAxis*speed))
	c.Position = rl.Vector3Add(c.Position, rl.Vector3Scale(right, rightAxis*speed))
	c.Position.Y += upAxis * speed
}

// AdjustSpeed changes the fly speed, clamped to [1, 100].
func (c *FlyCamera) AdjustSpeed(delta float32) {
	c.MoveSpeed = rl.Clamp(c.MoveSpeed+delta, 1, 100)
}

// Directions returns the view direction and the horizontal right vector.
func (c *FlyCamera) Directions() (forward, right rl.Vector3) {
	yawRad := float64(c.Yaw) * math.Pi / 180
	pitchRad := float64(c.Pitch) * math.Pi / 180

	forward = rl.Vector3{
		X: float32(math.Cos(yawRad) * math.Cos(pitchRad)),
		Y: float32(math.Sin(pitchRad)),
		Z: float32(math.Sin(yawRad) * math.Cos(pitchRad)),
	}
	right = rl.Vector3{
		X: float32(math.Sin(yawRad)),
		Y: 0,
		Z: float32(-math.Cos(yawRad)),
	}
	return
}

func (c *FlyCamera) Camera3D() rl.Camera3D {
	forward, _ := c.Directions()
	return rl.Camera3D{
		Position:   c.Position,
		Target:     rl.Vector3Add(c.Position, forward),
		Up:         rl.Vector3{Y: 1},
		Fovy:       45.0,
		Projection: rl.CameraPerspective,
	}
}

// Focus starts a smooth move to look at target from the current direction,
// far enough away to frame an object of the given radius.
func (c *FlyCamera) Focus(target rl.Vector3, radius float32) {
	distance := max(radius*3, 3)
	forward, _ := c.Directions()
	c.zooming = true
	c.zoomStart = c.Position
	c.zoomTarget = rl.Vector3Subtract(target, rl.Vector3Scale(forward, distance))
	c.zoomProgress = 0
}

// Zooming reports whether a Focus move is in progress.
func (c *FlyCamera) Zooming() bool { return c.zooming }

// Update advances a Focus move; it completes in a quarter second.
func (c *FlyCamera) Update(deltaTime float32) {
	if !c.zooming {
		return
	}
	c.zoomProgress += deltaTime * 4
	if c.zoomProgress >= 1 {
		c.zooming = false
		c.Position = c.zoomTarget
		return
	}
	// ease-out cubic
	t := c.zoomProgress
	ease := 1 - (1-t)*(1-t)*(1-t)
	c.Position = rl.Vector3Lerp(c.zoomStart, c.zoomTarget, ease)
}
