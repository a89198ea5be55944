package world

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"mirgo/internal/engine"
)

// AssetSource resolves and schedules loading of assets referenced by a scene.
type AssetSource interface {
	engine.AssetResolver
	Request(id engine.ID) error
}

// World owns a scene, its scheduler and the global settings saved with it.
type World struct {
	Scene     *engine.Scene
	Scheduler *engine.Scheduler
	Lighting  *Lighting
	Batches   *Batches
	GUID      uuid.UUID

	// StartOnLoad runs Start on every loaded component at the end of Load.
	StartOnLoad bool

	registry *engine.Registry
	assets   AssetSource
	log      *zap.Logger
}

func New(name string, registry *engine.Registry, log *zap.Logger) *World {
	if log == nil {
		log = zap.NewNop()
	}
	if registry == nil {
		registry = engine.DefaultRegistry
	}
	scene := engine.NewScene(name)
	scene.SetLogger(log.Named("scene"))
	w := &World{
		Scene:       scene,
		Scheduler:   engine.NewScheduler(scene, log.Named("scheduler")),
		Lighting:    DefaultLighting(),
		Batches:     NewBatches(),
		GUID:        uuid.New(),
		StartOnLoad: true,
		registry:    registry,
		log:         log,
	}
	scene.SetRenderNotifier(w.Batches)
	w.Lighting.notify = func() { w.Batches.MarkBatchDirty(engine.NoID) }
	return w
}

// SetAssets installs the asset source used to resolve and load asset references.
func (w *World) SetAssets(a AssetSource) {
	w.assets = a
	w.Scene.SetAssets(a)
}

func (w *World) Registry() *engine.Registry { return w.registry }

func (w *World) Logger() *zap.Logger { return w.log }

// Update runs one scheduler frame.
func (w *World) Update(deltaTime float32, running bool) {
	w.Scheduler.Tick(deltaTime, running)
}

// Unload clears the scene. Id counters keep running.
func (w *World) Unload() {
	w.Scene.Clear()
	w.Batches.Reset()
}

// Instantiate creates a node with components built from registered type names.
// Each component gets its attached notification before Instantiate returns.
func (w *World) Instantiate(name string, parent *engine.GameObject, types ...string) (*engine.GameObject, error) {
	g := w.Scene.CreateGameObject(name)
	if parent != nil {
		if err := w.Scene.AddChild(parent, g); err != nil {
			w.Scene.Destroy(g)
			return nil, err
		}
	}
	for _, t := range types {
		if _, err := w.AddComponent(g, t); err != nil {
			w.Scene.Destroy(g)
			return nil, err
		}
	}
	return g, nil
}

// AddComponent constructs a registered component type on g and notifies it.
func (w *World) AddComponent(g *engine.GameObject, typeName string) (engine.Component, error) {
	c, ok := w.registry.Create(typeName)
	if !ok {
		return nil, &UnknownTypeError{Type: typeName}
	}
	if err := w.Scene.AttachComponent(g, c); err != nil {
		return nil, err
	}
	w.Scene.NotifyAttached(c)
	return c, nil
}

// UnknownTypeError reports a component type name missing from the registry.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return "world: unknown component type " + e.Type
}
