package engine

// GameObjectRef is a serializable weak reference to a GameObject by UID.
// Use this in components for drag-and-drop references that survive save/load
// and never keep a deleted object alive.
//
// Example:
//
//	type MyScript struct {
//	    engine.BaseComponent
//	    TargetButton engine.GameObjectRef
//	}
//
//	func (s *MyScript) Describe() []engine.Entry {
//	    return []engine.Entry{engine.GameObjectField("targetButton", &s.TargetButton)}
//	}
//
//	func (s *MyScript) Start() {
//	    if button := s.TargetButton.Get(s.GetGameObject().Scene()); button != nil {
//	        // Use the button...
//	    }
//	}
type GameObjectRef struct {
	UID ID // UID of the referenced GameObject (0 = none)
}

// Get resolves the reference to the actual GameObject.
// Returns nil if the reference is empty or the GameObject no longer exists.
func (r GameObjectRef) Get(scene *Scene) *GameObject {
	if r.UID == NoID || scene == nil {
		return nil
	}
	return scene.FindByUID(r.UID)
}

// IsValid returns true if the reference points to something (UID != 0).
// Note: This doesn't check if the GameObject actually exists in the scene.
func (r GameObjectRef) IsValid() bool {
	return r.UID != NoID
}

// Set sets the reference to point to the given GameObject.
// Pass nil to clear the reference.
func (r *GameObjectRef) Set(g *GameObject) {
	if g == nil {
		r.UID = NoID
	} else {
		r.UID = g.UID()
	}
}

// Clear clears the reference.
func (r *GameObjectRef) Clear() {
	r.UID = NoID
}

// ComponentRef is the component counterpart of GameObjectRef.
type ComponentRef struct {
	UID ID
}

// Get resolves the reference. Returns nil for empty or stale references.
func (r ComponentRef) Get(scene *Scene) Component {
	if r.UID == NoID || scene == nil {
		return nil
	}
	return scene.FindComponent(r.UID)
}

func (r ComponentRef) IsValid() bool {
	return r.UID != NoID
}

func (r *ComponentRef) Set(c Component) {
	if c == nil {
		r.UID = NoID
	} else {
		r.UID = c.UID()
	}
}

func (r *ComponentRef) Clear() {
	r.UID = NoID
}

// ResolveComponent resolves r and narrows it to T.
func ResolveComponent[T Component](scene *Scene, r ComponentRef) (T, bool) {
	var zero T
	c := r.Get(scene)
	if c == nil {
		return zero, false
	}
	typed, ok := c.(T)
	return typed, ok
}
