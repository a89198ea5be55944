package world

import (
	"gopkg.in/yaml.v3"

	"mirgo/internal/engine"
	"mirgo/internal/serial"
)

// MissingComponent stands in for a component whose type is not registered.
// It keeps the last saved values untouched so saving writes them back verbatim.
type MissingComponent struct {
	engine.BaseComponent
	Type string
	Raw  *yaml.Node
}

func (m *MissingComponent) TypeName() string { return m.Type }

func (m *MissingComponent) Describe() []engine.Entry {
	return []engine.Entry{
		engine.Document("values", func() *yaml.Node { return m.Raw }, nil),
	}
}

func newMissing(typeName string, raw *yaml.Node) *MissingComponent {
	if raw == nil {
		raw = serial.MappingNode()
	}
	return &MissingComponent{Type: typeName, Raw: serial.CloneNode(raw)}
}
