package engine

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	ErrDuplicateID  = errors.New("engine: id already in use")
	ErrIDRestored   = errors.New("engine: id already restored")
	ErrCycle        = errors.New("engine: node would become its own ancestor")
	ErrNotFound     = errors.New("engine: object not found")
	ErrAlreadyOwned = errors.New("engine: component already attached")
)

// Scene owns every GameObject and Component. All other references to them are ids
// resolved through FindByUID and FindComponent.
type Scene struct {
	Name string

	// OnDestroyed fires when a node is reclaimed after Destroy.
	OnDestroyed EventWithArg[*GameObject]

	objects      []*GameObject
	uidMap       map[ID]*GameObject
	componentMap map[ID]Component

	pendingObjects    []*GameObject
	pendingComponents []Component

	version uint64
	assets  AssetResolver
	render  RenderNotifier
	log     *zap.Logger
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:         name,
		objects:      make([]*GameObject, 0),
		uidMap:       make(map[ID]*GameObject),
		componentMap: make(map[ID]Component),
		log:          zap.NewNop(),
	}
}

// SetLogger replaces the scene's logger. nil installs a no-op logger.
func (s *Scene) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	s.log = log
}

func (s *Scene) Logger() *zap.Logger { return s.log }

// Version changes whenever the node/component set or a priority changes.
func (s *Scene) Version() uint64 { return s.version }

func (s *Scene) markDirty() { s.version++ }

// CreateGameObject creates a root node with a fresh id and registers it.
func (s *Scene) CreateGameObject(name string) *GameObject {
	g := newGameObject(s, name)
	s.register(g)
	return g
}

func (s *Scene) register(g *GameObject) {
	if s.uidMap == nil {
		s.uidMap = make(map[ID]*GameObject)
	}
	s.objects = append(s.objects, g)
	s.uidMap[g.uid] = g
	s.markDirty()
}

// RestoreID replaces a node's freshly minted id with a persisted one.
// It may be called once per node.
func (s *Scene) RestoreID(g *GameObject, id ID) error {
	if g.idRestored {
		s.log.Error("node id restored twice", zap.Stringer("uid", g.uid), zap.Stringer("id", id))
		return fmt.Errorf("restore node %d: %w", id, ErrIDRestored)
	}
	if !IsRuntimeID(id) {
		return fmt.Errorf("restore node %d: invalid runtime id", id)
	}
	if id == g.uid {
		g.idRestored = true
		return nil
	}
	if _, taken := s.uidMap[id]; taken {
		s.log.Error("duplicate node id", zap.Stringer("id", id))
		return fmt.Errorf("restore node %d: %w", id, ErrDuplicateID)
	}
	old := g.uid
	delete(s.uidMap, old)
	g.uid = id
	g.idRestored = true
	s.uidMap[id] = g
	ObserveID(id)
	if p := g.Parent(); p != nil {
		for i, c := range p.children {
			if c == old {
				p.children[i] = id
			}
		}
	}
	for _, childID := range g.children {
		if c := s.uidMap[childID]; c != nil {
			c.parent = id
		}
	}
	for _, c := range g.components {
		c.base().owner.UID = id
	}
	return nil
}

// RestoreComponentID is RestoreID for components.
func (s *Scene) RestoreComponentID(c Component, id ID) error {
	b := c.base()
	if b.idRestored {
		s.log.Error("component id restored twice", zap.Stringer("uid", b.uid), zap.Stringer("id", id))
		return fmt.Errorf("restore component %d: %w", id, ErrIDRestored)
	}
	if !IsRuntimeID(id) {
		return fmt.Errorf("restore component %d: invalid runtime id", id)
	}
	if id == b.uid {
		b.idRestored = true
		return nil
	}
	if _, taken := s.componentMap[id]; taken {
		s.log.Error("duplicate component id", zap.Stringer("id", id))
		return fmt.Errorf("restore component %d: %w", id, ErrDuplicateID)
	}
	if b.uid != NoID {
		delete(s.componentMap, b.uid)
	}
	b.uid = id
	b.idRestored = true
	s.componentMap[id] = c
	ObserveID(id)
	return nil
}

// AddChild makes child the last child of parent.
func (s *Scene) AddChild(parent, child *GameObject) error {
	return s.Reparent(child, parent, -1, false)
}

// RemoveChild detaches child from parent, making it a root.
func (s *Scene) RemoveChild(parent, child *GameObject) {
	if child.parent != parent.uid {
		return
	}
	_ = s.Reparent(child, nil, -1, false)
}

// SetParent moves g under parent (nil for root), keeping its local transform.
func (s *Scene) SetParent(g, parent *GameObject) error {
	return s.Reparent(g, parent, -1, false)
}

// Reparent moves g under parent at the given sibling index (-1 appends).
// A nil parent with an index places g at that position among the roots.
// With keepWorld the world placement is preserved instead of the local one.
// Both sides of the relation are updated before it returns.
func (s *Scene) Reparent(g, parent *GameObject, index int, keepWorld bool) error {
	if g.destroyed || (parent != nil && parent.destroyed) {
		return fmt.Errorf("reparent %d: %w", g.uid, ErrNotFound)
	}
	if parent != nil {
		for p := parent; p != nil; p = p.Parent() {
			if p == g {
				s.log.Error("cyclic parenting rejected", zap.Stringer("node", g.uid), zap.Stringer("parent", parent.uid))
				return fmt.Errorf("reparent %d under %d: %w", g.uid, parent.uid, ErrCycle)
			}
		}
	}

	var world worldState
	if keepWorld {
		world = g.Transform.captureWorld()
	}

	if old := g.Parent(); old != nil {
		old.removeChildID(g.uid)
	}
	g.parent = NoID
	if parent != nil {
		parent.insertChildID(g.uid, index)
		g.parent = parent.uid
	} else if index >= 0 {
		s.moveRoot(g, index)
	}

	if keepWorld {
		g.Transform.restoreWorld(world)
	}
	g.refreshActive()
	s.markDirty()
	return nil
}

// AttachComponent assigns c an id, sets its owner back-references and appends it
// to g's component list. NotifyAttached must follow before the scheduler runs c.
func (s *Scene) AttachComponent(g *GameObject, c Component) error {
	b := c.base()
	if b.gameObject != nil {
		return fmt.Errorf("attach %s to %d: %w", c.TypeName(), g.uid, ErrAlreadyOwned)
	}
	if g.destroyed {
		return fmt.Errorf("attach %s to %d: %w", c.TypeName(), g.uid, ErrNotFound)
	}
	if b.uid == NoID {
		b.uid = NewID(false)
	}
	b.gameObject = g
	b.owner = GameObjectRef{UID: g.uid}
	g.components = append(g.components, c)
	if s.componentMap == nil {
		s.componentMap = make(map[ID]Component)
	}
	s.componentMap[b.uid] = c
	s.markDirty()
	return nil
}

// AddComponent constructs a T, attaches it to g and returns it.
func AddComponent[T any, PT interface {
	*T
	Component
}](s *Scene, g *GameObject) PT {
	c := PT(new(T))
	if err := s.AttachComponent(g, c); err != nil {
		s.log.Error("add component failed", zap.Error(err))
		return nil
	}
	return c
}

// NotifyAttached marks c as ready for scheduling and runs its OnAttach hook.
func (s *Scene) NotifyAttached(c Component) {
	b := c.base()
	if b.attached || b.destroyed {
		return
	}
	b.attached = true
	if a, ok := c.(Attacher); ok {
		a.OnAttach()
	}
	s.markDirty()
}

// RemoveComponent detaches c from g. The component is reclaimed by the
// scheduler at the end of the frame; until then lookups no longer find it.
func (s *Scene) RemoveComponent(g *GameObject, c Component) {
	idx := g.ComponentIndex(c)
	if idx < 0 {
		return
	}
	g.components = append(g.components[:idx], g.components[idx+1:]...)
	s.retireComponent(c)
	s.markDirty()
}

// MoveComponent moves c to index in its owner's component list. Out of range
// indices move it to the end.
func (s *Scene) MoveComponent(c Component, index int) {
	g := c.GetGameObject()
	if g == nil {
		return
	}
	from := g.ComponentIndex(c)
	if from < 0 || from == index {
		return
	}
	g.components = append(g.components[:from], g.components[from+1:]...)
	if index < 0 || index > len(g.components) {
		index = len(g.components)
	}
	g.components = append(g.components, nil)
	copy(g.components[index+1:], g.components[index:])
	g.components[index] = c
	s.markDirty()
}

func (s *Scene) retireComponent(c Component) {
	b := c.base()
	if b.destroyed {
		return
	}
	b.destroyed = true
	delete(s.componentMap, b.uid)
	s.pendingComponents = append(s.pendingComponents, c)
}

// Destroy queues g and its subtree for deletion at the next safe point.
func (s *Scene) Destroy(g *GameObject) {
	if g.destroyed {
		return
	}
	if p := g.Parent(); p != nil {
		p.removeChildID(g.uid)
	}
	s.destroyTree(g)
	s.markDirty()
}

func (s *Scene) destroyTree(g *GameObject) {
	for _, id := range g.children {
		if c := s.uidMap[id]; c != nil {
			s.destroyTree(c)
		}
	}
	g.destroyed = true
	delete(s.uidMap, g.uid)
	for _, c := range g.components {
		s.retireComponent(c)
	}
	s.pendingObjects = append(s.pendingObjects, g)
}

// PendingDeletions returns the number of nodes and components awaiting reclamation.
func (s *Scene) PendingDeletions() (nodes, components int) {
	return len(s.pendingObjects), len(s.pendingComponents)
}

// FlushDeletions reclaims everything queued by Destroy and RemoveComponent.
// Components get their OnDetach hook before being dropped.
func (s *Scene) FlushDeletions() {
	if len(s.pendingComponents) == 0 && len(s.pendingObjects) == 0 {
		return
	}
	for len(s.pendingComponents) > 0 {
		batch := s.pendingComponents
		s.pendingComponents = nil
		for _, c := range batch {
			if d, ok := c.(Detacher); ok {
				d.OnDetach()
			}
			c.base().gameObject = nil
		}
	}
	if len(s.pendingObjects) > 0 {
		dead := make(map[*GameObject]struct{}, len(s.pendingObjects))
		for _, g := range s.pendingObjects {
			dead[g] = struct{}{}
		}
		kept := s.objects[:0]
		for _, g := range s.objects {
			if _, ok := dead[g]; !ok {
				kept = append(kept, g)
			}
		}
		for i := len(kept); i < len(s.objects); i++ {
			s.objects[i] = nil
		}
		s.objects = kept
		pending := s.pendingObjects
		s.pendingObjects = nil
		for _, g := range pending {
			s.OnDestroyed.Invoke(g)
			g.components = nil
		}
	}
	s.markDirty()
}

// Clear unloads every node immediately, running OnDetach hooks. Id counters are not reset.
func (s *Scene) Clear() {
	for _, g := range s.objects {
		if !g.destroyed {
			s.destroyTree(g)
		}
	}
	s.FlushDeletions()
	s.objects = s.objects[:0]
	s.uidMap = make(map[ID]*GameObject)
	s.componentMap = make(map[ID]Component)
	s.markDirty()
}

// FindByUID returns the live node with the given id, or nil.
func (s *Scene) FindByUID(id ID) *GameObject {
	if s.uidMap == nil {
		return nil
	}
	return s.uidMap[id]
}

// FindComponent returns the live component with the given id, or nil.
func (s *Scene) FindComponent(id ID) Component {
	if s.componentMap == nil {
		return nil
	}
	return s.componentMap[id]
}

func (s *Scene) FindByName(name string) *GameObject {
	for _, g := range s.objects {
		if !g.destroyed && g.Name == name {
			return g
		}
	}
	return nil
}

func (s *Scene) FindByTag(tag string) []*GameObject {
	var result []*GameObject
	for _, g := range s.objects {
		if !g.destroyed && g.HasTag(tag) {
			result = append(result, g)
		}
	}
	return result
}

// GameObjects returns the live nodes in creation order.
func (s *Scene) GameObjects() []*GameObject {
	out := make([]*GameObject, 0, len(s.objects))
	for _, g := range s.objects {
		if !g.destroyed {
			out = append(out, g)
		}
	}
	return out
}

// RootIndex returns g's position among the roots, or -1 if g has a parent.
func (s *Scene) RootIndex(g *GameObject) int {
	if g.parent != NoID {
		return -1
	}
	for i, r := range s.Roots() {
		if r == g {
			return i
		}
	}
	return -1
}

// moveRoot repositions the root g so it becomes the index-th root.
func (s *Scene) moveRoot(g *GameObject, index int) {
	at := -1
	for i, o := range s.objects {
		if o == g {
			at = i
			break
		}
	}
	if at < 0 {
		return
	}
	s.objects = append(s.objects[:at], s.objects[at+1:]...)
	pos := len(s.objects)
	seen := 0
	for i, o := range s.objects {
		if o.destroyed || o.parent != NoID {
			continue
		}
		if seen == index {
			pos = i
			break
		}
		seen++
	}
	s.objects = append(s.objects, nil)
	copy(s.objects[pos+1:], s.objects[pos:])
	s.objects[pos] = g
}

// Len returns the number of live nodes.
func (s *Scene) Len() int { return len(s.uidMap) }

// Roots returns the live nodes without a parent, in creation order unless
// Reparent placed a root at an index.
func (s *Scene) Roots() []*GameObject {
	var roots []*GameObject
	for _, g := range s.objects {
		if !g.destroyed && g.parent == NoID {
			roots = append(roots, g)
		}
	}
	return roots
}

// Walk visits live nodes depth-first in graph order: roots in creation order,
// children in child-list order. Returning false from fn skips the subtree.
func (s *Scene) Walk(fn func(g *GameObject) bool) {
	for _, r := range s.Roots() {
		s.walk(r, fn)
	}
}

func (s *Scene) walk(g *GameObject, fn func(*GameObject) bool) {
	if !fn(g) {
		return
	}
	for _, id := range g.children {
		if c := s.uidMap[id]; c != nil {
			s.walk(c, fn)
		}
	}
}
