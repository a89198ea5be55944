package world

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"mirgo/internal/engine"
	"mirgo/internal/serial"
)

// ComponentSnapshot is enough to rebuild a removed component in place.
type ComponentSnapshot struct {
	ID      engine.ID
	Type    string
	Enabled bool
	Index   int
	Values  *yaml.Node
}

// SnapshotComponent records c's identity, position and values.
func (w *World) SnapshotComponent(c engine.Component) ComponentSnapshot {
	snap := ComponentSnapshot{
		ID:      c.UID(),
		Type:    c.TypeName(),
		Enabled: c.Enabled(),
		Index:   -1,
	}
	if g := c.GetGameObject(); g != nil {
		snap.Index = g.ComponentIndex(c)
	}
	if m, ok := c.(*MissingComponent); ok {
		snap.Values = serial.CloneNode(m.Raw)
	} else {
		snap.Values = (&serial.Encoder{}).Encode(c.Describe())
	}
	return snap
}

// RestoreComponent rebuilds a snapshot on g with its original id.
// Types missing from the registry come back as placeholders.
func (w *World) RestoreComponent(g *engine.GameObject, snap ComponentSnapshot) (engine.Component, error) {
	if w.Scene.FindComponent(snap.ID) != nil {
		return nil, fmt.Errorf("restore component %d: %w", snap.ID, engine.ErrDuplicateID)
	}
	c, known := w.registry.Create(snap.Type)
	if !known {
		c = newMissing(snap.Type, snap.Values)
	}
	if err := w.Scene.AttachComponent(g, c); err != nil {
		return nil, err
	}
	if err := w.Scene.RestoreComponentID(c, snap.ID); err != nil {
		w.Scene.RemoveComponent(g, c)
		return nil, err
	}
	c.SetEnabled(snap.Enabled)
	if known {
		dec := &serial.Decoder{Scene: w.Scene, AssetOK: w.assetOK}
		for _, issue := range dec.Decode(snap.Values, c.Describe()) {
			w.log.Warn("value not applied", zap.Stringer("component", snap.ID), zap.Error(issue))
		}
	}
	if snap.Index >= 0 {
		w.Scene.MoveComponent(c, snap.Index)
	}
	w.Scene.NotifyAttached(c)
	return c, nil
}

func (w *World) assetOK(id engine.ID) bool {
	if w.assets == nil {
		return true
	}
	return w.assets.Asset(id) != nil
}
