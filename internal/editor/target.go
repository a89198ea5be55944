package editor

import (
	"mirgo/internal/engine"
)

// Target names the object a property edit applies to, by id.
type Target struct {
	Node      engine.ID
	Component engine.ID
	Transform bool
}

// NodeTarget addresses a node's own values (name, active, tags...).
func NodeTarget(id engine.ID) Target { return Target{Node: id} }

// TransformTarget addresses a node's transform.
func TransformTarget(id engine.ID) Target { return Target{Node: id, Transform: true} }

// ComponentTarget addresses a component's values.
func ComponentTarget(id engine.ID) Target { return Target{Component: id} }

// Resolve returns the live entries of the target, or false if it is gone.
func (t Target) Resolve(s *engine.Scene) ([]engine.Entry, bool) {
	if t.Component != engine.NoID {
		c := s.FindComponent(t.Component)
		if c == nil {
			return nil, false
		}
		return c.Describe(), true
	}
	g := s.FindByUID(t.Node)
	if g == nil {
		return nil, false
	}
	if t.Transform {
		return g.Transform.Describe(), true
	}
	return g.Describe(), true
}
