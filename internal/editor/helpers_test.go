package editor

import (
	"mirgo/internal/engine"
	"mirgo/internal/world"
)

type mover struct {
	engine.BaseComponent
	Speed  float32
	Mode   int
	Label  string
	Target engine.GameObjectRef
}

func (m *mover) TypeName() string { return "Mover" }

func (m *mover) Describe() []engine.Entry {
	return []engine.Entry{
		engine.Float("speed", &m.Speed).Range(0, 10),
		engine.Enum("mode", &m.Mode, "Walk", "Run"),
		engine.String("label", &m.Label),
		engine.GameObjectField("target", &m.Target),
	}
}

func newTestWorld() *world.World {
	r := engine.NewRegistry()
	r.Register("Mover", func() engine.Component { return &mover{} })
	r.Register("Marker", func() engine.Component { return &marker{} })
	return world.New("editor-test", r, nil)
}

type marker struct {
	engine.BaseComponent
}

func (m *marker) TypeName() string { return "Marker" }

// countCmd counts Execute and Undo calls.
type countCmd struct {
	name     string
	executed int
	undone   int
}

func (c *countCmd) Execute()     { c.executed++ }
func (c *countCmd) Undo()        { c.undone++ }
func (c *countCmd) Name() string { return c.name }
