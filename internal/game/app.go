package game

import (
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"mirgo/internal/assets"
	"mirgo/internal/audio"
	"mirgo/internal/camera"
	"mirgo/internal/components"
	"mirgo/internal/config"
	"mirgo/internal/editor"
	"mirgo/internal/engine"
	"mirgo/internal/physics"
	"mirgo/internal/settings"
	"mirgo/internal/world"
)

const audioFrames = 1024

// App is the editor window: viewport, hierarchy, inspector and the play
// controls around one Session.
type App struct {
	Config  *config.Config
	Project *settings.Project
	Session *Session

	fs        assets.OSFS
	db        *assets.Database
	world     *world.World
	history   *editor.History
	inspector *editor.Inspector
	hierarchy *editor.Hierarchy
	camera    *camera.FlyCamera
	mixer     *audio.Mixer
	stream    rl.AudioStream
	samples   [][2]float64
	pcm       []float32
	scenePath string
	status    string
	statusAt  float64
	unsaved   bool
	log       *zap.Logger
}

// NewApp builds the editor state. No window is opened until Run.
func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{
		Config: cfg,
		fs:     assets.OSFS{Root: cfg.Assets.Root},
		log:    log,
	}

	a.db = assets.NewDatabase(a.fs, cfg.Assets.Workers, log.Named("assets"))
	if n, err := a.db.LoadIndex(cfg.Assets.Index); err != nil && !errors.Is(err, assets.ErrNotExist) {
		return nil, fmt.Errorf("load asset index: %w", err)
	} else if err == nil {
		log.Info("asset index loaded", zap.Int("assets", n))
	}

	project, err := settings.Load(a.fs, cfg.Settings.Path, log.Named("settings"))
	if err != nil {
		return nil, err
	}
	a.Project = project
	components.Gravity = project.Physics.Gravity.Y

	a.world = world.New("main", engine.DefaultRegistry, log.Named("world"))
	a.world.SetAssets(a.db)
	a.history = editor.NewHistory(cfg.Editor.MaxUndo, log.Named("history"))
	a.Session = NewSession(a.world, a.db, a.history, log.Named("session"))
	a.inspector = editor.NewInspector(a.world, a.history)
	a.hierarchy = editor.NewHierarchy(a.world, a.history, a.inspector)
	a.camera = camera.New(rl.Vector3{X: 10, Y: 8, Z: 10}, cfg.Editor.CameraSpeed)

	a.mixer = audio.NewMixer(int(project.Audio.SampleRate))
	components.SetMixer(a.mixer)
	a.Session.OnStateChange = func(from, to State) {
		a.mixer.SetPlayMode(to == Playing || to == Starting)
		if to == Stopped {
			a.mixer.StopAll()
			if a.world.Scene.FindByUID(a.inspector.Selected) == nil {
				a.inspector.Selected = engine.NoID
			}
		}
	}

	// play-mode edits are discarded on stop and don't count
	a.history.OnChange.AddListener(func() {
		if a.Session.State() == Stopped {
			a.unsaved = true
		}
	})
	a.world.Scene.OnDestroyed.AddListener(func(g *engine.GameObject) {
		if a.Session.State() == Stopped && g.UID() == a.inspector.Selected {
			a.inspector.Selected = engine.NoID
		}
	})

	a.scenePath = cfg.Scene.Path
	if project.StartupScene.IsValid() {
		if p, ok := a.db.Path(project.StartupScene.ID); ok {
			a.scenePath = p
		}
	}
	return a, nil
}

// LoadScene loads the configured scene, or builds a starter scene if the file
// doesn't exist yet.
func (a *App) LoadScene() error {
	report, err := a.world.LoadFile(a.fs, a.scenePath)
	if errors.Is(err, assets.ErrNotExist) {
		a.log.Info("scene not found, creating a new one", zap.String("path", a.scenePath))
		return a.populate()
	}
	if err != nil {
		return err
	}
	if !report.OK() {
		a.log.Warn("scene loaded with problems", zap.String("summary", report.Summary()))
	}
	return nil
}

func (a *App) populate() error {
	w := a.world
	if _, err := w.Instantiate("Main Camera", nil, "Camera"); err != nil {
		return err
	}
	light, err := w.Instantiate("Point Light", nil, "PointLight")
	if err != nil {
		return err
	}
	light.Transform.Position = rl.Vector3{Y: 4}
	floor, err := w.Instantiate("Floor", nil, "MeshRenderer")
	if err != nil {
		return err
	}
	mesh := engine.GetComponent[*components.MeshRenderer](floor)
	mesh.MeshType = components.MeshPlane
	mesh.Size = rl.Vector3{X: 20, Y: 1, Z: 20}
	mesh.Color = rl.Gray
	cube, err := w.Instantiate("Cube", nil, "MeshRenderer", "Rotator")
	if err != nil {
		return err
	}
	cube.Transform.Position = rl.Vector3{Y: 0.5}
	return nil
}

// Save writes the scene and the asset index.
func (a *App) Save() error {
	if a.Session.State() != Stopped {
		return fmt.Errorf("cannot save while %s", a.Session.State())
	}
	if err := a.world.SaveFile(a.fs, a.scenePath); err != nil {
		return err
	}
	if err := a.db.SaveIndex(a.Config.Assets.Index); err != nil {
		return err
	}
	if err := settings.Save(a.fs, a.Config.Settings.Path, a.Project); err != nil {
		return err
	}
	a.unsaved = false
	return nil
}

// Unsaved reports whether the history changed since the last save.
func (a *App) Unsaved() bool { return a.unsaved }

// Run opens the window and blocks until it is closed.
func (a *App) Run() error {
	win := a.Config.Window
	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	if a.Project.VSync {
		rl.SetConfigFlags(rl.FlagVsyncHint)
	}
	rl.InitWindow(win.Width, win.Height, win.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(win.TargetFPS)
	rl.SetExitKey(0)
	editor.ApplyTheme()

	rl.InitAudioDevice()
	defer rl.CloseAudioDevice()
	rl.SetAudioStreamBufferSizeDefault(audioFrames)
	a.stream = rl.LoadAudioStream(uint32(a.mixer.SampleRate()), 32, 2)
	defer rl.UnloadAudioStream(a.stream)
	rl.PlayAudioStream(a.stream)
	a.samples = make([][2]float64, audioFrames)
	a.pcm = make([]float32, audioFrames*2)

	if err := a.LoadScene(); err != nil {
		return err
	}
	defer a.world.Unload()
	defer a.db.Unload()

	for !rl.WindowShouldClose() {
		dt := rl.GetFrameTime()
		a.handleInput(dt)
		a.Session.Frame(dt)
		a.updateAudio()
		a.draw()
	}
	if a.Session.State() != Stopped {
		return a.Session.Stop()
	}
	return nil
}

func (a *App) setStatus(format string, args ...any) {
	a.status = fmt.Sprintf(format, args...)
	a.statusAt = rl.GetTime()
}

func ctrlDown() bool {
	return rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) || rl.IsKeyDown(rl.KeyLeftSuper)
}

func (a *App) handleInput(dt float32) {
	s := a.Session
	a.camera.Update(dt)

	if rl.IsKeyPressed(rl.KeyF5) {
		var err error
		if s.State() == Stopped {
			err = s.Play()
		} else {
			err = s.Stop()
		}
		if err != nil {
			a.setStatus("%v", err)
		}
	}
	if rl.IsKeyPressed(rl.KeyP) && !ctrlDown() {
		switch s.State() {
		case Paused:
			s.Resume()
		case Starting, Playing:
			s.Pause()
		}
	}

	if ctrlDown() {
		switch {
		case rl.IsKeyPressed(rl.KeyZ):
			a.history.Undo()
		case rl.IsKeyPressed(rl.KeyY):
			a.history.Redo()
		case rl.IsKeyPressed(rl.KeyS):
			if err := a.Save(); err != nil {
				a.setStatus("Save failed: %v", err)
			} else {
				a.setStatus("Scene saved")
			}
		case rl.IsKeyPressed(rl.KeyN):
			a.hierarchy.CreateNode()
		}
	}
	if rl.IsKeyPressed(rl.KeyDelete) {
		a.hierarchy.DeleteSelected()
	}
	if rl.IsKeyPressed(rl.KeyF) {
		a.focusSelected()
	}

	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		d := rl.GetMouseDelta()
		a.camera.Look(d.X, d.Y)
		a.camera.Move(axis(rl.KeyW, rl.KeyS), axis(rl.KeyD, rl.KeyA), axis(rl.KeyE, rl.KeyQ), dt)
	}
	if scroll := rl.GetMouseWheelMove(); scroll != 0 && rl.IsKeyDown(rl.KeyLeftShift) {
		a.camera.AdjustSpeed(scroll * 2)
	}

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && !a.mouseInPanel() {
		ray := rl.GetScreenToWorldRay(rl.GetMousePosition(), a.camera.Camera3D())
		if hit, ok := physics.Raycast(a.world.Scene, ray.Position, ray.Direction, 1000); ok {
			a.inspector.Selected = hit.GameObject.UID()
		} else {
			a.inspector.Selected = engine.NoID
		}
	}
}

func axis(pos, neg int32) float32 {
	var v float32
	if rl.IsKeyDown(pos) {
		v++
	}
	if rl.IsKeyDown(neg) {
		v--
	}
	return v
}

func (a *App) mouseInPanel() bool {
	m := rl.GetMousePosition()
	if m.Y < topBarHeight || m.X < float32(a.hierarchy.Width) {
		return true
	}
	sel := a.world.Scene.FindByUID(a.inspector.Selected)
	return sel != nil && m.X > float32(int32(rl.GetScreenWidth())-a.inspector.Width)
}

func (a *App) focusSelected() {
	g := a.world.Scene.FindByUID(a.inspector.Selected)
	if g == nil {
		return
	}
	radius := float32(1)
	for _, c := range g.Components() {
		if b, ok := c.(physics.Bounded); ok {
			if box, ok := b.Bounds(); ok {
				size := box.Size()
				radius = max(size.X, size.Y, size.Z) / 2
				break
			}
		}
	}
	a.camera.Focus(g.WorldPosition(), radius)
}

// updateAudio refills the device stream from the mixer.
func (a *App) updateAudio() {
	if cam := components.PrimaryCamera(a.world.Scene); cam != nil && a.Session.Running() {
		c3d := cam.Camera3D()
		a.mixer.SetListener(c3d.Position, rl.Vector3Subtract(c3d.Target, c3d.Position), c3d.Up)
	} else {
		c3d := a.camera.Camera3D()
		a.mixer.SetListener(c3d.Position, rl.Vector3Subtract(c3d.Target, c3d.Position), c3d.Up)
	}
	a.mixer.Update()

	if !rl.IsAudioStreamProcessed(a.stream) {
		return
	}
	clear(a.samples)
	a.mixer.Stream(a.samples)
	master := float64(a.Project.Audio.MasterVolume)
	for i, s := range a.samples {
		a.pcm[2*i] = float32(s[0] * master)
		a.pcm[2*i+1] = float32(s[1] * master)
	}
	rl.UpdateAudioStream(a.stream, a.pcm)
}
