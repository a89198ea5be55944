package editor

import (
	"bytes"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"mirgo/internal/engine"
	"mirgo/internal/serial"
	"mirgo/internal/world"
)

// PropertyCommand restores a set of fields from before/after value blobs.
type PropertyCommand struct {
	w      *world.World
	target Target
	fields []string
	before *yaml.Node
	after  *yaml.Node
}

// BeginEdit captures the current values of fields on target. Apply the edit,
// then call Commit to capture the new values.
func BeginEdit(w *world.World, target Target, fields ...string) (*PropertyCommand, bool) {
	entries, ok := target.Resolve(w.Scene)
	if !ok {
		return nil, false
	}
	return &PropertyCommand{
		w:      w,
		target: target,
		fields: fields,
		before: capture(entries, fields),
	}, true
}

// Commit captures the values after the edit. It reports whether anything changed.
func (c *PropertyCommand) Commit() bool {
	entries, ok := c.target.Resolve(c.w.Scene)
	if !ok {
		return false
	}
	c.after = capture(entries, c.fields)
	return !sameBlob(c.before, c.after)
}

// SetProperty writes value into a scalar field and returns the applied edit.
func SetProperty(w *world.World, target Target, field string, value any) (*PropertyCommand, error) {
	cmd, ok := BeginEdit(w, target, field)
	if !ok {
		return nil, fmt.Errorf("edit %s: %w", field, engine.ErrNotFound)
	}
	entries, _ := target.Resolve(w.Scene)
	e, found := engine.Find(entries, field)
	if !found {
		return nil, fmt.Errorf("edit %s: no such field", field)
	}
	switch r := e.Ref.(type) {
	case *engine.ScalarRef:
		if err := r.SetValue(value); err != nil {
			return nil, fmt.Errorf("edit %s: %w", field, err)
		}
	case *engine.TextRef:
		s, isString := value.(string)
		if !isString {
			return nil, fmt.Errorf("edit %s: %w", field, engine.ErrTypeMismatch)
		}
		r.Set(s)
	case *engine.NodeLink:
		id, isID := value.(engine.ID)
		if !isID {
			return nil, fmt.Errorf("edit %s: %w", field, engine.ErrTypeMismatch)
		}
		r.Set(id)
	case *engine.ComponentLink:
		id, isID := value.(engine.ID)
		if !isID {
			return nil, fmt.Errorf("edit %s: %w", field, engine.ErrTypeMismatch)
		}
		r.Set(id)
	case *engine.AssetLink:
		id, isID := value.(engine.ID)
		if !isID || (id != engine.NoID && !engine.IsAssetID(id)) {
			return nil, fmt.Errorf("edit %s: %w", field, engine.ErrTypeMismatch)
		}
		r.Set(id)
	case *engine.DocumentRef, *engine.ObjectRef, *engine.ListRef:
		return nil, fmt.Errorf("edit %s: composite fields are edited through BeginEdit", field)
	}
	e.Changed()
	cmd.Commit()
	return cmd, nil
}

func (c *PropertyCommand) Execute() { c.apply(c.after) }

func (c *PropertyCommand) Undo() { c.apply(c.before) }

func (c *PropertyCommand) Name() string {
	if len(c.fields) == 0 {
		return "Edit properties"
	}
	return "Edit " + strings.Join(c.fields, ", ")
}

func (c *PropertyCommand) apply(blob *yaml.Node) {
	if blob == nil {
		return
	}
	entries, ok := c.target.Resolve(c.w.Scene)
	if !ok {
		c.w.Logger().Debug("edit target gone", zap.String("command", c.Name()))
		return
	}
	dec := &serial.Decoder{Scene: c.w.Scene}
	for _, issue := range dec.Decode(blob, engine.Select(entries, c.fields...)) {
		c.w.Logger().Warn("edit not applied", zap.Error(issue))
	}
}

func capture(entries []engine.Entry, fields []string) *yaml.Node {
	return (&serial.Encoder{}).Encode(engine.Select(entries, fields...))
}

func sameBlob(a, b *yaml.Node) bool {
	x, errA := serial.Marshal(a)
	y, errB := serial.Marshal(b)
	return errA == nil && errB == nil && bytes.Equal(x, y)
}
