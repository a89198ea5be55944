package engine

// Component is a unit of logic/data owned by exactly one GameObject.
// Concrete types embed BaseComponent and opt into the lifecycle through
// Starter, Updater, Attacher and Detacher.
type Component interface {
	Describable
	TypeName() string
	UID() ID
	GetGameObject() *GameObject
	Enabled() bool
	SetEnabled(enabled bool)
	Priority() int
	base() *BaseComponent
}

// Starter runs once before the component's first update.
type Starter interface {
	Start()
}

// Updater runs every frame while the component is enabled and its owner is active.
type Updater interface {
	Update(deltaTime float32)
}

// Attacher is notified once the component has been attached to its owner.
type Attacher interface {
	OnAttach()
}

// Detacher is notified when the component is reclaimed after removal.
type Detacher interface {
	OnDetach()
}

// TriggerHandler receives overlap callbacks relayed by trigger components.
type TriggerHandler interface {
	OnTriggerEnter(other *GameObject)
	OnTriggerExit(other *GameObject)
}

// BaseComponent provides the identity, ownership and scheduling state every component needs.
type BaseComponent struct {
	uid        ID
	idRestored bool
	gameObject *GameObject   // raw back-reference, valid until reclaimed
	owner      GameObjectRef // weak back-reference
	disabled   bool
	priority   int
	attached   bool
	started    bool
	destroyed  bool
}

func (b *BaseComponent) base() *BaseComponent { return b }

// Describe exposes nothing by default.
func (b *BaseComponent) Describe() []Entry { return nil }

func (b *BaseComponent) UID() ID { return b.uid }

// GetGameObject returns the owner. Returns nil once the component has been removed.
func (b *BaseComponent) GetGameObject() *GameObject {
	if b.destroyed {
		return nil
	}
	return b.gameObject
}

// Owner resolves the owner through the scene's index instead of the cached pointer.
func (b *BaseComponent) Owner(scene *Scene) *GameObject {
	return b.owner.Get(scene)
}

// Transform returns the owner's transform, or nil if detached.
func (b *BaseComponent) Transform() *Transform {
	if g := b.GetGameObject(); g != nil {
		return &g.Transform
	}
	return nil
}

func (b *BaseComponent) Enabled() bool { return !b.disabled }

func (b *BaseComponent) SetEnabled(enabled bool) { b.disabled = !enabled }

// Priority orders updates; lower runs first.
func (b *BaseComponent) Priority() int { return b.priority }

// SetPriority changes the update order and marks the scene's ordering dirty.
func (b *BaseComponent) SetPriority(p int) {
	if b.priority == p {
		return
	}
	b.priority = p
	if b.gameObject != nil && b.gameObject.scene != nil {
		b.gameObject.scene.markDirty()
	}
}

// Started reports whether the one-time initialization has run.
func (b *BaseComponent) Started() bool { return b.started }

// Attached reports whether NotifyAttached has been called.
func (b *BaseComponent) Attached() bool { return b.attached }

// Destroyed reports whether the component was removed from its owner.
func (b *BaseComponent) Destroyed() bool { return b.destroyed }
