package editor

import (
	"go.uber.org/zap"

	"mirgo/internal/engine"
	"mirgo/internal/world"
)

func missing(w *world.World, cmd Command, id engine.ID) {
	w.Logger().Debug("command target gone", zap.String("command", cmd.Name()), zap.Stringer("id", id))
}

// CreateNodeCommand creates a node with the given component types.
// Redo recreates it with the same ids.
type CreateNodeCommand struct {
	w      *world.World
	name   string
	parent engine.ID
	types  []string

	id    engine.ID
	saved *world.Document
}

func NewCreateNode(w *world.World, name string, parent engine.ID, types ...string) *CreateNodeCommand {
	return &CreateNodeCommand{w: w, name: name, parent: parent, types: types}
}

// ID returns the created node's id once executed.
func (c *CreateNodeCommand) ID() engine.ID { return c.id }

func (c *CreateNodeCommand) Name() string { return "Create " + c.name }

func (c *CreateNodeCommand) Execute() {
	var parent *engine.GameObject
	if c.parent != engine.NoID {
		if parent = c.w.Scene.FindByUID(c.parent); parent == nil {
			missing(c.w, c, c.parent)
			return
		}
	}
	if c.saved != nil {
		if _, err := c.w.LoadFragment(c.saved, parent, -1); err != nil {
			c.w.Logger().Warn("recreate node failed", zap.Error(err))
		}
		return
	}
	g, err := c.w.Instantiate(c.name, parent, c.types...)
	if err != nil {
		c.w.Logger().Warn("create node failed", zap.String("name", c.name), zap.Error(err))
		return
	}
	c.id = g.UID()
}

func (c *CreateNodeCommand) Undo() {
	g := c.w.Scene.FindByUID(c.id)
	if g == nil {
		missing(c.w, c, c.id)
		return
	}
	c.saved = c.w.SaveNodes(c.id)
	c.w.Scene.Destroy(g)
}

// DeleteNodeCommand deletes a subtree and restores it, ids included, on undo.
type DeleteNodeCommand struct {
	w  *world.World
	id engine.ID

	parent engine.ID
	index  int
	saved  *world.Document
}

func NewDeleteNode(w *world.World, id engine.ID) *DeleteNodeCommand {
	return &DeleteNodeCommand{w: w, id: id}
}

func (c *DeleteNodeCommand) Name() string { return "Delete" }

func (c *DeleteNodeCommand) Execute() {
	g := c.w.Scene.FindByUID(c.id)
	if g == nil {
		missing(c.w, c, c.id)
		c.saved = nil
		return
	}
	c.parent = g.ParentID()
	c.index = siblingIndex(c.w.Scene, g)
	c.saved = c.w.SaveNodes(c.id)
	c.w.Scene.Destroy(g)
}

func (c *DeleteNodeCommand) Undo() {
	if c.saved == nil {
		return
	}
	var parent *engine.GameObject
	if c.parent != engine.NoID {
		if parent = c.w.Scene.FindByUID(c.parent); parent == nil {
			missing(c.w, c, c.parent)
			return
		}
	}
	if _, err := c.w.LoadFragment(c.saved, parent, c.index); err != nil {
		c.w.Logger().Warn("restore deleted node failed", zap.Error(err))
	}
}

// siblingIndex is g's position under its parent, or among the roots.
func siblingIndex(s *engine.Scene, g *engine.GameObject) int {
	if p := g.Parent(); p != nil {
		return p.ChildIndex(g.UID())
	}
	return s.RootIndex(g)
}

// ReparentCommand moves a node under a new parent at an index.
type ReparentCommand struct {
	w         *world.World
	id        engine.ID
	parent    engine.ID
	index     int
	keepWorld bool

	oldParent engine.ID
	oldIndex  int
	applied   bool
}

func NewReparent(w *world.World, id, parent engine.ID, index int, keepWorld bool) *ReparentCommand {
	return &ReparentCommand{w: w, id: id, parent: parent, index: index, keepWorld: keepWorld}
}

func (c *ReparentCommand) Name() string { return "Reparent" }

func (c *ReparentCommand) Execute() {
	g := c.w.Scene.FindByUID(c.id)
	if g == nil {
		missing(c.w, c, c.id)
		c.applied = false
		return
	}
	c.oldParent = g.ParentID()
	c.oldIndex = siblingIndex(c.w.Scene, g)
	c.applied = c.move(g, c.parent, c.index)
}

func (c *ReparentCommand) Undo() {
	if !c.applied {
		return
	}
	g := c.w.Scene.FindByUID(c.id)
	if g == nil {
		missing(c.w, c, c.id)
		return
	}
	c.move(g, c.oldParent, c.oldIndex)
}

func (c *ReparentCommand) move(g *engine.GameObject, parentID engine.ID, index int) bool {
	var parent *engine.GameObject
	if parentID != engine.NoID {
		if parent = c.w.Scene.FindByUID(parentID); parent == nil {
			missing(c.w, c, parentID)
			return false
		}
	}
	if err := c.w.Scene.Reparent(g, parent, index, c.keepWorld); err != nil {
		c.w.Logger().Warn("reparent rejected", zap.Error(err))
		return false
	}
	return true
}

// AddComponentCommand adds a registered component type to a node.
type AddComponentCommand struct {
	w        *world.World
	node     engine.ID
	typeName string

	snap *world.ComponentSnapshot
	id   engine.ID
}

func NewAddComponent(w *world.World, node engine.ID, typeName string) *AddComponentCommand {
	return &AddComponentCommand{w: w, node: node, typeName: typeName}
}

// ComponentID returns the added component's id once executed.
func (c *AddComponentCommand) ComponentID() engine.ID { return c.id }

func (c *AddComponentCommand) Name() string { return "Add " + c.typeName }

func (c *AddComponentCommand) Execute() {
	g := c.w.Scene.FindByUID(c.node)
	if g == nil {
		missing(c.w, c, c.node)
		return
	}
	if c.snap != nil {
		if _, err := c.w.RestoreComponent(g, *c.snap); err != nil {
			c.w.Logger().Warn("re-add component failed", zap.Error(err))
		}
		return
	}
	comp, err := c.w.AddComponent(g, c.typeName)
	if err != nil {
		c.w.Logger().Warn("add component failed", zap.String("type", c.typeName), zap.Error(err))
		return
	}
	c.id = comp.UID()
}

func (c *AddComponentCommand) Undo() {
	comp := c.w.Scene.FindComponent(c.id)
	if comp == nil {
		missing(c.w, c, c.id)
		return
	}
	snap := c.w.SnapshotComponent(comp)
	c.snap = &snap
	c.w.Scene.RemoveComponent(comp.GetGameObject(), comp)
}

// RemoveComponentCommand removes a component and restores it in place on undo.
type RemoveComponentCommand struct {
	w  *world.World
	id engine.ID

	node engine.ID
	snap *world.ComponentSnapshot
}

func NewRemoveComponent(w *world.World, id engine.ID) *RemoveComponentCommand {
	return &RemoveComponentCommand{w: w, id: id}
}

func (c *RemoveComponentCommand) Name() string { return "Remove component" }

func (c *RemoveComponentCommand) Execute() {
	comp := c.w.Scene.FindComponent(c.id)
	if comp == nil {
		missing(c.w, c, c.id)
		c.snap = nil
		return
	}
	g := comp.GetGameObject()
	snap := c.w.SnapshotComponent(comp)
	c.snap = &snap
	c.node = g.UID()
	c.w.Scene.RemoveComponent(g, comp)
}

func (c *RemoveComponentCommand) Undo() {
	if c.snap == nil {
		return
	}
	g := c.w.Scene.FindByUID(c.node)
	if g == nil {
		missing(c.w, c, c.node)
		return
	}
	if _, err := c.w.RestoreComponent(g, *c.snap); err != nil {
		c.w.Logger().Warn("restore component failed", zap.Error(err))
	}
}

// SetActiveCommand toggles a node's own active flag.
type SetActiveCommand struct {
	w      *world.World
	id     engine.ID
	active bool
	prev   bool
	ok     bool
}

func NewSetActive(w *world.World, id engine.ID, active bool) *SetActiveCommand {
	return &SetActiveCommand{w: w, id: id, active: active}
}

func (c *SetActiveCommand) Name() string {
	if c.active {
		return "Activate"
	}
	return "Deactivate"
}

func (c *SetActiveCommand) Execute() {
	g := c.w.Scene.FindByUID(c.id)
	if g == nil {
		missing(c.w, c, c.id)
		c.ok = false
		return
	}
	c.prev = g.Active()
	c.ok = true
	g.SetActive(c.active)
}

func (c *SetActiveCommand) Undo() {
	if !c.ok {
		return
	}
	if g := c.w.Scene.FindByUID(c.id); g != nil {
		g.SetActive(c.prev)
	}
}
