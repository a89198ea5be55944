package world

import (
	"fmt"

	"mirgo/internal/assets"
	"mirgo/internal/engine"
	"mirgo/internal/serial"
)

// Save captures every live node in graph order. Nodes flagged DontSave are
// pruned together with their subtrees.
func (w *World) Save() *Document {
	d := w.newDocument()
	refs := serial.AssetSet{}
	enc := &serial.Encoder{Assets: refs}

	w.Scene.Walk(func(g *engine.GameObject) bool {
		if g.DontSave {
			return false
		}
		d.Nodes = append(d.Nodes, encodeNode(enc, g, true))
		return true
	})
	d.Lighting = enc.Encode(w.Lighting.Describe())
	d.Assets = refs.Sorted()
	return d
}

// SaveNodes captures the subtrees rooted at ids, DontSave nodes included.
// Editor commands use it to restore deleted nodes exactly.
func (w *World) SaveNodes(ids ...engine.ID) *Document {
	d := w.newDocument()
	refs := serial.AssetSet{}
	enc := &serial.Encoder{Assets: refs}

	var visit func(g *engine.GameObject)
	visit = func(g *engine.GameObject) {
		d.Nodes = append(d.Nodes, encodeNode(enc, g, false))
		for _, c := range g.Children() {
			visit(c)
		}
	}
	for _, id := range ids {
		if g := w.Scene.FindByUID(id); g != nil {
			visit(g)
		}
	}
	d.Assets = refs.Sorted()
	return d
}

// SaveBytes renders Save as scene text.
func (w *World) SaveBytes() ([]byte, error) {
	return w.Save().Bytes()
}

// SaveFile writes the scene text to path on fsys.
func (w *World) SaveFile(fsys assets.FileSystem, path string) error {
	data, err := w.SaveBytes()
	if err != nil {
		return err
	}
	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write scene: %w", err)
	}
	return f.Close()
}

func (w *World) newDocument() *Document {
	return &Document{
		Version: CurrentVersion,
		GUID:    w.GUID.String(),
		Name:    w.Scene.Name,
	}
}

func encodeNode(enc *serial.Encoder, g *engine.GameObject, prune bool) NodeDoc {
	n := NodeDoc{
		ID:        g.UID(),
		Transform: enc.Encode(g.Transform.Describe()),
		Values:    enc.Encode(g.Describe()),
	}
	for _, c := range g.Children() {
		if prune && c.DontSave {
			continue
		}
		n.Children = append(n.Children, c.UID())
	}
	for _, c := range g.Components() {
		b := BehaviorDoc{ID: c.UID(), Type: c.TypeName(), Enabled: c.Enabled()}
		if m, ok := c.(*MissingComponent); ok {
			b.Values = serial.CloneNode(m.Raw)
		} else {
			b.Values = enc.Encode(c.Describe())
		}
		n.Behaviors = append(n.Behaviors, b)
	}
	return n
}
