package engine

import (
	"sort"

	"go.uber.org/zap"
)

// Scheduler drives component lifecycles for one scene: ordering by priority,
// lazy Start, per-frame Update and end-of-frame reclamation.
type Scheduler struct {
	scene *Scene
	log   *zap.Logger

	order       []Component
	version     uint64
	built       bool
	initPending bool
}

func NewScheduler(scene *Scene, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{scene: scene, log: log}
}

// Order returns the current update order. It is rebuilt on the next Tick
// if the scene changed since.
func (s *Scheduler) Order() []Component {
	s.ensureOrdered()
	return s.order
}

// Invalidate forces a rebuild on the next Tick.
func (s *Scheduler) Invalidate() {
	s.built = false
}

// Tick runs one frame. Start and Update only run while running is true;
// deletions queued on the scene are always reclaimed at the end.
func (s *Scheduler) Tick(deltaTime float32, running bool) {
	s.ensureOrdered()

	if running && s.initPending {
		s.initPending = s.startPending()
	}

	if running {
		s.update(deltaTime)
	}

	s.scene.FlushDeletions()
}

// StartAll runs Start on every pending component regardless of the running state.
// Scene loading uses it once the bind pass has finished.
func (s *Scheduler) StartAll() {
	s.ensureOrdered()
	s.initPending = s.startPending()
}

func (s *Scheduler) ensureOrdered() {
	if s.built && s.version == s.scene.version {
		return
	}
	s.rebuild()
}

// rebuild collects every live component in graph order and stable-sorts by
// priority, so equal priorities keep their traversal order.
func (s *Scheduler) rebuild() {
	s.order = s.order[:0]
	s.scene.Walk(func(g *GameObject) bool {
		for _, c := range g.components {
			if !c.base().destroyed {
				s.order = append(s.order, c)
			}
		}
		return true
	})
	sort.SliceStable(s.order, func(i, j int) bool {
		return s.order[i].Priority() < s.order[j].Priority()
	})
	s.version = s.scene.version
	s.built = true
	s.initPending = true
	s.log.Debug("component order rebuilt", zap.Int("components", len(s.order)))
}

// startPending starts every runnable component that hasn't started yet.
// It reports whether some were skipped and still need starting.
func (s *Scheduler) startPending() bool {
	skipped := false
	for _, c := range s.order {
		b := c.base()
		if b.started || b.destroyed {
			continue
		}
		if !s.runnable(c) {
			skipped = true
			continue
		}
		b.started = true
		if st, ok := c.(Starter); ok {
			st.Start()
		}
	}
	return skipped
}

func (s *Scheduler) runnable(c Component) bool {
	b := c.base()
	if !b.attached || b.disabled || b.gameObject == nil {
		return false
	}
	return b.gameObject.activeInHierarchy
}

func (s *Scheduler) update(deltaTime float32) {
	kept := 0
	for i := 0; i < len(s.order); i++ {
		c := s.order[i]
		b := c.base()
		if b.destroyed || b.gameObject == nil || b.gameObject.destroyed {
			continue
		}
		s.order[kept] = c
		kept++
		if !b.started || !s.runnable(c) {
			continue
		}
		if u, ok := c.(Updater); ok {
			u.Update(deltaTime)
		}
	}
	for i := kept; i < len(s.order); i++ {
		s.order[i] = nil
	}
	s.order = s.order[:kept]
}
