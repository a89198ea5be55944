package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"mirgo/internal/engine"
	"mirgo/internal/physics"
)

// TriggerRelay watches a box around its owner and tells Targets when nodes
// enter or leave it. An empty Tag matches every node.
type TriggerRelay struct {
	engine.BaseComponent
	Size    rl.Vector3
	Tag     string
	Targets []engine.ComponentRef

	inside map[engine.ID]bool
}

func NewTriggerRelay() *TriggerRelay {
	return &TriggerRelay{Size: rl.Vector3{X: 2, Y: 2, Z: 2}}
}

func (t *TriggerRelay) TypeName() string { return "TriggerRelay" }

func (t *TriggerRelay) Describe() []engine.Entry {
	return []engine.Entry{
		engine.Vector3("size", &t.Size),
		engine.String("tag", &t.Tag).Tooltip("Only nodes with this tag trigger"),
		engine.List("targets", &t.Targets, engine.ComponentField),
	}
}

// Box returns the trigger volume in world space.
func (t *TriggerRelay) Box() physics.AABB {
	g := t.GetGameObject()
	return physics.NewAABBFromCenter(g.WorldPosition(), t.Size)
}

func (t *TriggerRelay) Update(deltaTime float32) {
	g := t.GetGameObject()
	if g == nil {
		return
	}
	scene := g.Scene()

	now := make(map[engine.ID]bool)
	for _, other := range physics.Overlapping(scene, t.Box()) {
		if other == g || (t.Tag != "" && !other.HasTag(t.Tag)) {
			continue
		}
		now[other.UID()] = true
		if !t.inside[other.UID()] {
			t.relay(scene, other, true)
		}
	}
	for id := range t.inside {
		if now[id] {
			continue
		}
		// nodes destroyed while inside still get an exit, with a nil argument
		t.relay(scene, scene.FindByUID(id), false)
	}
	t.inside = now
}

// Inside reports whether the node with id is currently in the volume.
func (t *TriggerRelay) Inside(id engine.ID) bool {
	return t.inside[id]
}

func (t *TriggerRelay) relay(scene *engine.Scene, other *engine.GameObject, enter bool) {
	for _, ref := range t.Targets {
		h, ok := ref.Get(scene).(engine.TriggerHandler)
		if !ok {
			continue
		}
		if enter {
			h.OnTriggerEnter(other)
		} else {
			h.OnTriggerExit(other)
		}
	}
}
