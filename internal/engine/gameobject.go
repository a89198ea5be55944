package engine

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"
)

// GameObject is a scene-graph node. It owns its transform and components;
// its parent and children are weak references resolved through the scene.
type GameObject struct {
	Name      string
	Tags      []string
	Transform Transform
	Static    bool
	// DontSave excludes the node and its subtree from saved documents.
	DontSave bool

	uid               ID
	idRestored        bool
	scene             *Scene
	parent            ID
	children          []ID
	components        []Component
	active            bool
	activeInHierarchy bool
	constructed       bool
	destroyed         bool
}

func newGameObject(s *Scene, name string) *GameObject {
	g := &GameObject{
		Name:              name,
		uid:               NewID(false),
		scene:             s,
		active:            true,
		activeInHierarchy: true,
		components:        make([]Component, 0),
		children:          make([]ID, 0),
	}
	g.Transform = newTransform(g)
	g.constructed = true
	return g
}

func (g *GameObject) UID() ID { return g.uid }

func (g *GameObject) Scene() *Scene { return g.scene }

// Describe exposes the node's own values. The transform is described separately.
func (g *GameObject) Describe() []Entry {
	if !g.constructed {
		if g.scene != nil {
			g.scene.Logger().Error("describe called on unconstructed GameObject", zap.String("name", g.Name))
		}
		return nil
	}
	return []Entry{
		String("name", &g.Name),
		Bool("active", &g.active).Notify(g.refreshActive),
		Bool("static", &g.Static),
		List("tags", &g.Tags, String),
	}
}

// Destroyed reports whether the node has been queued for deletion.
func (g *GameObject) Destroyed() bool { return g.destroyed }

// Parent resolves the parent through the scene. Returns nil for roots.
func (g *GameObject) Parent() *GameObject {
	if g.parent == NoID || g.scene == nil {
		return nil
	}
	return g.scene.FindByUID(g.parent)
}

func (g *GameObject) ParentID() ID { return g.parent }

// Children resolves the child list. Stale ids are skipped.
func (g *GameObject) Children() []*GameObject {
	out := make([]*GameObject, 0, len(g.children))
	for _, id := range g.children {
		if c := g.scene.FindByUID(id); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// ChildIDs returns a copy of the ordered child id list.
func (g *GameObject) ChildIDs() []ID {
	return append([]ID(nil), g.children...)
}

// ChildIndex returns the position of child in g's child list, or -1.
func (g *GameObject) ChildIndex(child ID) int {
	for i, id := range g.children {
		if id == child {
			return i
		}
	}
	return -1
}

func (g *GameObject) Components() []Component {
	return g.components
}

// GetComponent returns the first component of type T.
func GetComponent[T Component](g *GameObject) T {
	var zero T
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed
		}
	}
	return zero
}

// GetComponents returns every component of type T in attach order.
func GetComponents[T Component](g *GameObject) []T {
	var out []T
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}

// ComponentIndex returns the position of c in the owner's list, or -1.
func (g *GameObject) ComponentIndex(c Component) int {
	for i, other := range g.components {
		if other == c {
			return i
		}
	}
	return -1
}

func (g *GameObject) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Active returns the node's own flag.
func (g *GameObject) Active() bool { return g.active }

// ActiveInHierarchy is true when the node and every ancestor are active.
func (g *GameObject) ActiveInHierarchy() bool { return g.activeInHierarchy }

// SetActive changes the own flag and pushes the result through the subtree.
func (g *GameObject) SetActive(active bool) {
	g.active = active
	g.refreshActive()
}

func (g *GameObject) refreshActive() {
	parentActive := true
	if p := g.Parent(); p != nil {
		parentActive = p.activeInHierarchy
	}
	g.propagateActive(parentActive)
}

func (g *GameObject) propagateActive(parentActive bool) {
	g.activeInHierarchy = g.active && parentActive
	for _, id := range g.children {
		if c := g.scene.FindByUID(id); c != nil {
			c.propagateActive(g.activeInHierarchy)
		}
	}
}

func (g *GameObject) removeChildID(id ID) int {
	for i, c := range g.children {
		if c == id {
			g.children = append(g.children[:i], g.children[i+1:]...)
			return i
		}
	}
	return -1
}

func (g *GameObject) insertChildID(id ID, index int) {
	if index < 0 || index > len(g.children) {
		index = len(g.children)
	}
	g.children = append(g.children, NoID)
	copy(g.children[index+1:], g.children[index:])
	g.children[index] = id
}

// WorldPosition is shorthand for g.Transform.WorldPosition.
func (g *GameObject) WorldPosition() rl.Vector3 { return g.Transform.WorldPosition() }
