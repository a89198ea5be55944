package serial

import (
	"errors"
	"fmt"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"mirgo/internal/engine"
)

// ErrUnknownField marks a document key that no entry describes.
var ErrUnknownField = errors.New("serial: unknown field")

// Issue is a non-fatal problem found while decoding one value. The entry is
// left at whatever value it had before.
type Issue struct {
	Path string
	Err  error
}

func (i Issue) Error() string {
	return i.Path + ": " + i.Err.Error()
}

// Encoder turns entries into an ordered YAML mapping.
type Encoder struct {
	// Assets, if set, receives every non-empty asset reference encoded.
	Assets AssetSet
}

// Encode returns a mapping node with one key per entry, in declaration order.
func (enc *Encoder) Encode(entries []engine.Entry) *yaml.Node {
	m := MappingNode()
	for _, e := range entries {
		m.Content = append(m.Content, KeyNode(e.Name), enc.encodeValue(e))
	}
	return m
}

func (enc *Encoder) encodeValue(e engine.Entry) *yaml.Node {
	switch r := e.Ref.(type) {
	case *engine.ScalarRef:
		return encodeScalar(e, r)
	case *engine.TextRef:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.Get()}
	case *engine.DocumentRef:
		doc := r.Get()
		if doc == nil {
			return nullNode()
		}
		return CloneNode(doc)
	case *engine.ObjectRef:
		if r.Object() == nil {
			return nullNode()
		}
		return enc.Encode(r.Object().Describe())
	case *engine.NodeLink:
		return idNode(r.Get())
	case *engine.ComponentLink:
		return idNode(r.Get())
	case *engine.AssetLink:
		if enc.Assets != nil {
			enc.Assets.Add(r.Get())
		}
		return idNode(r.Get())
	case *engine.ListRef:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i := 0; i < r.Len(); i++ {
			seq.Content = append(seq.Content, enc.encodeValue(r.Elem(i)))
		}
		return seq
	}
	panic(fmt.Sprintf("serial: unhandled ref %T", e.Ref))
}

func encodeScalar(e engine.Entry, r *engine.ScalarRef) *yaml.Node {
	switch v := r.Value().(type) {
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
	case int64:
		if e.IsEnum() && v >= 0 && v < int64(len(e.Meta.EnumNames)) {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Meta.EnumNames[v]}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v, 10)}
	case uint64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatUint(v, 10)}
	case float64:
		bits := 64
		if e.Tag == engine.TagFloat32 {
			bits = 32
		}
		return floatNode(v, bits)
	case rl.Vector3:
		return flowSeq(floatNode(float64(v.X), 32), floatNode(float64(v.Y), 32), floatNode(float64(v.Z), 32))
	case rl.Color:
		return flowSeq(uintNode(v.R), uintNode(v.G), uintNode(v.B), uintNode(v.A))
	}
	panic(fmt.Sprintf("serial: unhandled scalar %s", e.Name))
}

// Decoder writes YAML values back into entries.
type Decoder struct {
	// Scene, when set, is used to check node and component references.
	// Ids that don't resolve are stored as empty references.
	Scene *engine.Scene
	// AssetOK, when set, filters asset references; rejected ids are stored empty.
	AssetOK func(id engine.ID) bool
	// OnDangling is told about every reference that was dropped.
	OnDangling func(path string, id engine.ID)
}

func (dec *Decoder) dangling(path string, id engine.ID) engine.ID {
	if dec.OnDangling != nil {
		dec.OnDangling(path, id)
	}
	return engine.NoID
}

// Decode applies every key of m that names an entry. Entries missing from m
// are left untouched. Problems are returned, never fatal.
func (dec *Decoder) Decode(m *yaml.Node, entries []engine.Entry) []Issue {
	return dec.decodeMapping("", m, entries)
}

func (dec *Decoder) decodeMapping(prefix string, m *yaml.Node, entries []engine.Entry) []Issue {
	if m == nil || isNull(m) {
		return nil
	}
	if m.Kind != yaml.MappingNode {
		return []Issue{{Path: prefixOr(prefix), Err: fmt.Errorf("%w: want mapping at line %d", engine.ErrTypeMismatch, m.Line)}}
	}
	var issues []Issue
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i].Value, m.Content[i+1]
		path := joinPath(prefix, key)
		e, ok := engine.Find(entries, key)
		if !ok {
			issues = append(issues, Issue{Path: path, Err: ErrUnknownField})
			continue
		}
		issues = append(issues, dec.decodeValue(path, val, e)...)
	}
	return issues
}

func (dec *Decoder) decodeValue(path string, n *yaml.Node, e engine.Entry) []Issue {
	if e.Meta.ReadOnly {
		return nil
	}
	fail := func(err error) []Issue { return []Issue{{Path: path, Err: err}} }

	switch r := e.Ref.(type) {
	case *engine.ScalarRef:
		v, err := decodeScalar(n, e, r)
		if err != nil {
			return fail(err)
		}
		if err := r.SetValue(v); err != nil {
			return fail(err)
		}
	case *engine.TextRef:
		if n.Kind != yaml.ScalarNode || isNull(n) {
			return fail(mismatch("string", n))
		}
		r.Set(n.Value)
	case *engine.DocumentRef:
		if err := r.Set(CloneNode(n)); err != nil {
			return fail(err)
		}
	case *engine.ObjectRef:
		if r.Object() == nil {
			return nil
		}
		issues := dec.decodeMapping(path, n, r.Object().Describe())
		e.Changed()
		return issues
	case *engine.NodeLink:
		id, err := decodeID(n)
		if err != nil {
			return fail(err)
		}
		if dec.Scene != nil && id != engine.NoID && dec.Scene.FindByUID(id) == nil {
			id = dec.dangling(path, id)
		}
		r.Set(id)
	case *engine.ComponentLink:
		id, err := decodeID(n)
		if err != nil {
			return fail(err)
		}
		if dec.Scene != nil && id != engine.NoID && dec.Scene.FindComponent(id) == nil {
			id = dec.dangling(path, id)
		}
		r.Set(id)
	case *engine.AssetLink:
		id, err := decodeID(n)
		if err != nil {
			return fail(err)
		}
		if id != engine.NoID && !engine.IsAssetID(id) {
			return fail(fmt.Errorf("%w: %d is not an asset id", engine.ErrTypeMismatch, id))
		}
		if id != engine.NoID && dec.AssetOK != nil && !dec.AssetOK(id) {
			id = dec.dangling(path, id)
		}
		r.Set(id)
	case *engine.ListRef:
		if isNull(n) {
			r.Resize(0)
			break
		}
		if n.Kind != yaml.SequenceNode {
			return fail(mismatch("sequence", n))
		}
		r.Resize(len(n.Content))
		var issues []Issue
		for i, item := range n.Content {
			issues = append(issues, dec.decodeValue(path+"."+strconv.Itoa(i), item, r.Elem(i))...)
		}
		e.Changed()
		return issues
	default:
		panic(fmt.Sprintf("serial: unhandled ref %T", e.Ref))
	}
	e.Changed()
	return nil
}

func decodeScalar(n *yaml.Node, e engine.Entry, r *engine.ScalarRef) (any, error) {
	switch r.Value().(type) {
	case bool:
		var b bool
		if err := scalarDecode(n, &b); err != nil {
			return nil, err
		}
		return b, nil
	case int64:
		if e.IsEnum() && n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str" {
			for i, name := range e.Meta.EnumNames {
				if name == n.Value {
					return int64(i), nil
				}
			}
			return nil, fmt.Errorf("%w: unknown enum value %q", engine.ErrTypeMismatch, n.Value)
		}
		var v int64
		if err := scalarDecode(n, &v); err != nil {
			return nil, err
		}
		return v, nil
	case uint64:
		var v uint64
		if err := scalarDecode(n, &v); err != nil {
			return nil, err
		}
		return v, nil
	case float64:
		var v float64
		if err := scalarDecode(n, &v); err != nil {
			return nil, err
		}
		return v, nil
	case rl.Vector3:
		var v [3]float32
		if err := seqDecode(n, 3, &v); err != nil {
			return nil, err
		}
		return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}, nil
	case rl.Color:
		var v [4]uint8
		if err := seqDecode(n, 4, &v); err != nil {
			return nil, err
		}
		return rl.Color{R: v[0], G: v[1], B: v[2], A: v[3]}, nil
	}
	return nil, fmt.Errorf("%w: unsupported scalar %s", engine.ErrTypeMismatch, e.Name)
}

func scalarDecode(n *yaml.Node, out any) error {
	if n.Kind != yaml.ScalarNode || isNull(n) {
		return mismatch("scalar", n)
	}
	if err := n.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", engine.ErrTypeMismatch, err)
	}
	return nil
}

func seqDecode(n *yaml.Node, want int, out any) error {
	if n.Kind != yaml.SequenceNode || len(n.Content) != want {
		return fmt.Errorf("%w: want %d-element sequence at line %d", engine.ErrTypeMismatch, want, n.Line)
	}
	if err := n.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", engine.ErrTypeMismatch, err)
	}
	return nil
}

func decodeID(n *yaml.Node) (engine.ID, error) {
	if isNull(n) {
		return engine.NoID, nil
	}
	var v uint64
	if err := scalarDecode(n, &v); err != nil {
		return engine.NoID, err
	}
	return engine.ID(v), nil
}

func mismatch(want string, n *yaml.Node) error {
	return fmt.Errorf("%w: want %s at line %d", engine.ErrTypeMismatch, want, n.Line)
}

func prefixOr(p string) string {
	if p == "" {
		return "."
	}
	return p
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
