package world

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"mirgo/internal/engine"
	"mirgo/internal/serial"
)

// CurrentVersion is the scene format written by Save.
const CurrentVersion = 1

var (
	ErrMalformedDocument  = errors.New("world: malformed scene document")
	ErrUnsupportedVersion = errors.New("world: unsupported scene version")
)

// Document is the persisted form of a scene graph. Nodes are keyed by id in
// graph order; everything else refers to nodes and components by id.
type Document struct {
	Version  int
	GUID     string
	Name     string
	Nodes    []NodeDoc
	Lighting *yaml.Node
	Assets   []engine.ID
}

type NodeDoc struct {
	ID        engine.ID
	Transform *yaml.Node
	Values    *yaml.Node
	Children  []engine.ID
	Behaviors []BehaviorDoc
}

type BehaviorDoc struct {
	ID      engine.ID
	Type    string
	Enabled bool
	Values  *yaml.Node
}

// Node returns the node entry with the given id.
func (d *Document) Node(id engine.ID) (*NodeDoc, bool) {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i], true
		}
	}
	return nil, false
}

// Roots returns the ids of nodes no other node in the document lists as a child.
func (d *Document) Roots() []engine.ID {
	listed := make(map[engine.ID]bool)
	for _, n := range d.Nodes {
		for _, c := range n.Children {
			listed[c] = true
		}
	}
	var roots []engine.ID
	for _, n := range d.Nodes {
		if !listed[n.ID] {
			roots = append(roots, n.ID)
		}
	}
	return roots
}

// validate checks the structural rules a document must satisfy before any
// node is created.
func (d *Document) validate() error {
	if d.Version > CurrentVersion {
		return fmt.Errorf("%w: %d (newest is %d)", ErrUnsupportedVersion, d.Version, CurrentVersion)
	}
	nodes := make(map[engine.ID]bool, len(d.Nodes))
	behaviors := make(map[engine.ID]bool)
	for _, n := range d.Nodes {
		if !engine.IsRuntimeID(n.ID) {
			return fmt.Errorf("%w: invalid node id %d", ErrMalformedDocument, n.ID)
		}
		if nodes[n.ID] {
			return fmt.Errorf("%w: duplicate node id %d", ErrMalformedDocument, n.ID)
		}
		nodes[n.ID] = true
		for _, b := range n.Behaviors {
			if !engine.IsRuntimeID(b.ID) {
				return fmt.Errorf("%w: invalid behavior id %d on node %d", ErrMalformedDocument, b.ID, n.ID)
			}
			if behaviors[b.ID] {
				return fmt.Errorf("%w: duplicate behavior id %d", ErrMalformedDocument, b.ID)
			}
			if b.Type == "" {
				return fmt.Errorf("%w: behavior %d has no type", ErrMalformedDocument, b.ID)
			}
			behaviors[b.ID] = true
		}
	}
	parentOf := make(map[engine.ID]engine.ID)
	for _, n := range d.Nodes {
		for _, c := range n.Children {
			if c == n.ID {
				return fmt.Errorf("%w: node %d lists itself as a child", ErrMalformedDocument, n.ID)
			}
			if p, dup := parentOf[c]; dup {
				return fmt.Errorf("%w: node %d listed under both %d and %d", ErrMalformedDocument, c, p, n.ID)
			}
			parentOf[c] = n.ID
		}
	}
	for child := range parentOf {
		seen := map[engine.ID]bool{child: true}
		for p, ok := parentOf[child]; ok; p, ok = parentOf[p] {
			if seen[p] {
				return fmt.Errorf("%w: parent cycle through node %d", ErrMalformedDocument, p)
			}
			seen[p] = true
		}
	}
	return nil
}

// Encode renders the document as an ordered YAML mapping.
func (d *Document) Encode() *yaml.Node {
	root := serial.MappingNode()
	serial.Set(root, "version", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(d.Version)})
	if d.GUID != "" {
		serial.Set(root, "guid", scalarStr(d.GUID))
	}
	if d.Name != "" {
		serial.Set(root, "name", scalarStr(d.Name))
	}

	nodes := serial.MappingNode()
	for _, n := range d.Nodes {
		entry := serial.MappingNode()
		serial.Set(entry, "transform", orEmpty(n.Transform))
		serial.Set(entry, "values", orEmpty(n.Values))
		if len(n.Children) > 0 {
			serial.Set(entry, "children", idSeq(n.Children))
		}
		if len(n.Behaviors) > 0 {
			behaviors := serial.MappingNode()
			for _, b := range n.Behaviors {
				be := serial.MappingNode()
				serial.Set(be, "type", scalarStr(b.Type))
				serial.Set(be, "enabled", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(b.Enabled)})
				serial.Set(be, "values", orEmpty(b.Values))
				behaviors.Content = append(behaviors.Content, serial.IDNode(b.ID), be)
			}
			serial.Set(entry, "behaviors", behaviors)
		}
		nodes.Content = append(nodes.Content, serial.IDNode(n.ID), entry)
	}
	serial.Set(root, "nodes", nodes)

	if d.Lighting != nil {
		serial.Set(root, "lighting", d.Lighting)
	}
	serial.Set(root, "assets", idSeq(d.Assets))
	return root
}

// Bytes renders the document as UTF-8 YAML text.
func (d *Document) Bytes() ([]byte, error) {
	data, err := serial.Marshal(d.Encode())
	if err != nil {
		return nil, fmt.Errorf("marshal scene: %w", err)
	}
	return data, nil
}

// ParseDocument parses scene text. Any structural problem is reported as
// ErrMalformedDocument; nothing is partially returned.
func ParseDocument(data []byte) (*Document, error) {
	root, err := serial.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return DecodeDocument(root)
}

// DecodeDocument reads a document from an already parsed YAML tree.
func DecodeDocument(root *yaml.Node) (*Document, error) {
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level is not a mapping", ErrMalformedDocument)
	}
	d := &Document{}

	v := serial.Lookup(root, "version")
	if v == nil {
		return nil, fmt.Errorf("%w: missing version", ErrMalformedDocument)
	}
	if err := v.Decode(&d.Version); err != nil {
		return nil, fmt.Errorf("%w: version: %v", ErrMalformedDocument, err)
	}
	if g := serial.Lookup(root, "guid"); g != nil {
		d.GUID = g.Value
	}
	if n := serial.Lookup(root, "name"); n != nil {
		d.Name = n.Value
	}
	d.Lighting = serial.Lookup(root, "lighting")

	if a := serial.Lookup(root, "assets"); a != nil {
		ids, err := decodeIDs(a)
		if err != nil {
			return nil, fmt.Errorf("%w: assets: %v", ErrMalformedDocument, err)
		}
		d.Assets = ids
	}

	nodes := serial.Lookup(root, "nodes")
	if nodes == nil {
		return d, nil
	}
	if nodes.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: nodes is not a mapping", ErrMalformedDocument)
	}
	for i := 0; i+1 < len(nodes.Content); i += 2 {
		n, err := decodeNode(nodes.Content[i], nodes.Content[i+1])
		if err != nil {
			return nil, err
		}
		d.Nodes = append(d.Nodes, n)
	}
	return d, nil
}

func decodeNode(key, val *yaml.Node) (NodeDoc, error) {
	id, err := engine.ParseID(key.Value)
	if err != nil {
		return NodeDoc{}, fmt.Errorf("%w: node key %q at line %d", ErrMalformedDocument, key.Value, key.Line)
	}
	if val.Kind != yaml.MappingNode {
		return NodeDoc{}, fmt.Errorf("%w: node %d is not a mapping", ErrMalformedDocument, id)
	}
	n := NodeDoc{
		ID:        id,
		Transform: serial.Lookup(val, "transform"),
		Values:    serial.Lookup(val, "values"),
	}
	if c := serial.Lookup(val, "children"); c != nil {
		if n.Children, err = decodeIDs(c); err != nil {
			return NodeDoc{}, fmt.Errorf("%w: node %d children: %v", ErrMalformedDocument, id, err)
		}
	}
	behaviors := serial.Lookup(val, "behaviors")
	if behaviors == nil {
		return n, nil
	}
	if behaviors.Kind != yaml.MappingNode {
		return NodeDoc{}, fmt.Errorf("%w: node %d behaviors is not a mapping", ErrMalformedDocument, id)
	}
	for i := 0; i+1 < len(behaviors.Content); i += 2 {
		bkey, bval := behaviors.Content[i], behaviors.Content[i+1]
		bid, err := engine.ParseID(bkey.Value)
		if err != nil || bval.Kind != yaml.MappingNode {
			return NodeDoc{}, fmt.Errorf("%w: behavior %q on node %d", ErrMalformedDocument, bkey.Value, id)
		}
		b := BehaviorDoc{ID: bid, Enabled: true, Values: serial.Lookup(bval, "values")}
		if t := serial.Lookup(bval, "type"); t != nil {
			b.Type = t.Value
		}
		if e := serial.Lookup(bval, "enabled"); e != nil {
			if err := e.Decode(&b.Enabled); err != nil {
				return NodeDoc{}, fmt.Errorf("%w: behavior %d enabled: %v", ErrMalformedDocument, bid, err)
			}
		}
		n.Behaviors = append(n.Behaviors, b)
	}
	return n, nil
}

func decodeIDs(n *yaml.Node) ([]engine.ID, error) {
	var raw []uint64
	if err := n.Decode(&raw); err != nil {
		return nil, err
	}
	ids := make([]engine.ID, len(raw))
	for i, v := range raw {
		ids[i] = engine.ID(v)
	}
	return ids, nil
}

func idSeq(ids []engine.ID) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, id := range ids {
		seq.Content = append(seq.Content, serial.IDNode(id))
	}
	return seq
}

func scalarStr(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func orEmpty(n *yaml.Node) *yaml.Node {
	if n == nil {
		return serial.MappingNode()
	}
	return n
}
