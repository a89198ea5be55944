package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"mirgo/internal/components"
	"mirgo/internal/engine"
	"mirgo/internal/physics"
)

const topBarHeight = 36

var (
	colorBar      = rl.NewColor(10, 10, 15, 255)
	colorText     = rl.NewColor(200, 200, 208, 255)
	colorMuted    = rl.NewColor(119, 119, 119, 255)
	colorSelected = rl.NewColor(108, 99, 255, 255)
	colorPlaying  = rl.NewColor(80, 200, 120, 255)
	colorPaused   = rl.NewColor(240, 180, 60, 255)
)

func (a *App) draw() {
	// redraw is immediate, the dirty set only feeds the stats line
	dirty := len(a.world.Batches.Drain())

	view := a.camera.Camera3D()
	if a.Session.Running() {
		if cam := components.PrimaryCamera(a.world.Scene); cam != nil {
			view = cam.Camera3D()
		}
	}

	rl.BeginDrawing()
	rl.ClearBackground(a.Project.ClearColor)

	rl.BeginMode3D(view)
	rl.DrawGrid(40, 1)
	a.drawScene()
	if a.Session.State() == Stopped {
		a.drawGizmos()
	}
	rl.EndMode3D()

	a.hierarchy.Draw()
	a.inspector.Draw()
	a.drawTopBar(dirty)
	rl.EndDrawing()
}

// drawScene flat-shades every mesh by its upward face, then adds the point
// lights in range.
func (a *App) drawScene() {
	lighting := a.world.Lighting
	up := rl.Vector3{Y: 1}
	var lights []*components.PointLight
	a.world.Scene.Walk(func(g *engine.GameObject) bool {
		if !g.ActiveInHierarchy() {
			return false
		}
		for _, l := range engine.GetComponents[*components.PointLight](g) {
			if l.Enabled() {
				lights = append(lights, l)
			}
		}
		return true
	})
	shade := func(c rl.Color, pos rl.Vector3) rl.Color {
		lit := lighting.Shade(c, up)
		for _, l := range lights {
			d := rl.Vector3Distance(l.GetPosition(), pos)
			if d < l.Radius {
				lit = addPointLight(lit, c, l.GetColorFloat(), 1-d/l.Radius)
			}
		}
		return lit
	}
	a.world.Scene.Walk(func(g *engine.GameObject) bool {
		if !g.ActiveInHierarchy() {
			return false
		}
		for _, m := range engine.GetComponents[*components.MeshRenderer](g) {
			m.Draw(shade)
		}
		return true
	})
}

// addPointLight adds base lit by light (linear RGB scale) with falloff k to lit.
func addPointLight(lit, base rl.Color, light []float32, k float32) rl.Color {
	channel := func(cur, base uint8, scale float32) uint8 {
		v := float32(cur) + float32(base)*scale*k
		if v > 255 {
			v = 255
		}
		return uint8(v + 0.5)
	}
	return rl.Color{
		R: channel(lit.R, base.R, light[0]),
		G: channel(lit.G, base.G, light[1]),
		B: channel(lit.B, base.B, light[2]),
		A: lit.A,
	}
}

// drawSun draws the scene light as an arrow with a cross at its tail.
func (a *App) drawSun() {
	l := a.world.Lighting
	tail := rl.Vector3Scale(l.Direction, -8)
	tip := rl.Vector3Add(tail, rl.Vector3Scale(l.Direction, 2))
	right := rl.Vector3Normalize(rl.Vector3CrossProduct(l.Direction, l.CameraUp()))
	up := rl.Vector3CrossProduct(right, l.Direction)
	rl.DrawLine3D(tail, tip, l.Color)
	rl.DrawLine3D(rl.Vector3Subtract(tail, rl.Vector3Scale(right, 0.5)), rl.Vector3Add(tail, rl.Vector3Scale(right, 0.5)), l.Color)
	rl.DrawLine3D(rl.Vector3Subtract(tail, rl.Vector3Scale(up, 0.5)), rl.Vector3Add(tail, rl.Vector3Scale(up, 0.5)), l.Color)
}

// drawGizmos marks lights, cameras and trigger volumes, plus the selection box.
func (a *App) drawGizmos() {
	a.world.Scene.Walk(func(g *engine.GameObject) bool {
		pos := g.WorldPosition()
		for _, c := range g.Components() {
			switch c := c.(type) {
			case *components.PointLight:
				rl.DrawSphereWires(pos, 0.2, 6, 6, c.Color)
			case *components.Camera:
				rl.DrawCubeWiresV(pos, rl.Vector3{X: 0.4, Y: 0.3, Z: 0.6}, colorMuted)
				rl.DrawLine3D(pos, rl.Vector3Add(pos, c.Forward()), colorMuted)
			case *components.TriggerRelay:
				box := c.Box()
				rl.DrawBoundingBox(rl.BoundingBox{Min: box.Min, Max: box.Max}, rl.Lime)
			}
		}
		return true
	})

	a.drawSun()

	sel := a.world.Scene.FindByUID(a.inspector.Selected)
	if sel == nil {
		return
	}
	for _, c := range sel.Components() {
		if b, ok := c.(physics.Bounded); ok {
			if box, ok := b.Bounds(); ok {
				rl.DrawBoundingBox(rl.BoundingBox{Min: box.Min, Max: box.Max}, colorSelected)
			}
		}
	}
}

func (a *App) drawTopBar(dirty int) {
	w := int32(rl.GetScreenWidth())
	rl.DrawRectangle(0, 0, w, topBarHeight, colorBar)

	state := a.Session.State()
	cx := w/2 - 90

	playLabel := "Play"
	if state != Stopped {
		playLabel = "Stop"
	}
	if gui.Button(rl.NewRectangle(float32(cx), 6, 56, 24), playLabel) {
		if state == Stopped {
			a.Session.Play()
		} else {
			a.Session.Stop()
		}
	}
	pauseLabel := "Pause"
	if state == Paused {
		pauseLabel = "Resume"
	}
	if state != Stopped && gui.Button(rl.NewRectangle(float32(cx+62), 6, 64, 24), pauseLabel) {
		if state == Paused {
			a.Session.Resume()
		} else {
			a.Session.Pause()
		}
	}

	stateColor := colorMuted
	switch state {
	case Playing, Starting:
		stateColor = colorPlaying
	case Paused:
		stateColor = colorPaused
	}
	rl.DrawText(state.String(), cx+134, 10, 16, stateColor)

	title := a.Project.Name
	if a.unsaved {
		title += " *"
	}
	rl.DrawText(title, 12, 10, 16, colorText)
	stats := fmt.Sprintf("%d nodes  %d dirty  %d undo  %d fps", a.world.Scene.Len(), dirty, a.history.Cursor(), rl.GetFPS())
	rl.DrawText(stats, w-rl.MeasureText(stats, 14)-12, 11, 14, colorMuted)

	if a.status != "" && rl.GetTime()-a.statusAt < 3 {
		rl.DrawText(a.status, a.hierarchy.Width+12, topBarHeight+8, 16, colorText)
	}
}
