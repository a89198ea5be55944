package camera

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestLookClampsPitch(t *testing.T) {
	c := New(rl.Vector3{}, 10)
	c.Look(0, -10000)
	if c.Pitch != 89 {
		t.Errorf("Expected pitch 89, got %f", c.Pitch)
	}
	c.Look(0, 10000)
	if c.Pitch != -89 {
		t.Errorf("Expected pitch -89, got %f", c.Pitch)
	}
}

func TestMoveAlongForward(t *testing.T) {
	c := New(rl.Vector3{}, 10)
	c.Yaw, c.Pitch = 0, 0

	c.Move(1, 0, 0, 0.5)
	if !near(c.Position.X, 5) || !near(c.Position.Z, 0) {
		t.Errorf("Expected (5,0,0), got %v", c.Position)
	}
	c.Move(0, 0, 1, 0.1)
	if !near(c.Position.Y, 1) {
		t.Errorf("Expected Y 1, got %f", c.Position.Y)
	}
}

func TestAdjustSpeedClamps(t *testing.T) {
	c := New(rl.Vector3{}, 10)
	c.AdjustSpeed(-50)
	if c.MoveSpeed != 1 {
		t.Errorf("Expected 1, got %f", c.MoveSpeed)
	}
	c.AdjustSpeed(500)
	if c.MoveSpeed != 100 {
		t.Errorf("Expected 100, got %f", c.MoveSpeed)
	}
}

func TestFocusEndsAtFramingDistance(t *testing.T) {
	c := New(rl.Vector3{X: 20}, 10)
	c.Yaw, c.Pitch = 0, 0
	c.Focus(rl.Vector3{}, 0.5)
	if !c.Zooming() {
		t.Fatal("Focus should start a zoom")
	}

	c.Update(0.1)
	if !c.Zooming() {
		t.Error("Zoom should still be running after 0.1s")
	}
	c.Update(0.2)
	if c.Zooming() {
		t.Error("Zoom should have finished")
	}
	// looking down +X, three units short of the target
	if !near(c.Position.X, -3) || !near(c.Position.Y, 0) || !near(c.Position.Z, 0) {
		t.Errorf("Expected (-3,0,0), got %v", c.Position)
	}
}

func TestLookCancelsFocus(t *testing.T) {
	c := New(rl.Vector3{}, 10)
	c.Focus(rl.Vector3{X: 10}, 1)
	c.Look(1, 0)
	if c.Zooming() {
		t.Error("Manual look must cancel the zoom")
	}
}
