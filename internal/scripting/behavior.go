// Package scripting runs Lua scripts as components.
package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"mirgo/internal/assets"
	"mirgo/internal/engine"
)

const TypeName = "LuaScript"

func init() {
	Register(engine.DefaultRegistry)
}

// LuaBehavior runs a script asset in its own VM. The script may define
// start() and update(dt); Props are visible to it as the global props table.
type LuaBehavior struct {
	engine.BaseComponent
	Script engine.AssetRef

	props  *yaml.Node
	vm     *lua.LState
	failed bool
	log    *zap.Logger
}

func NewLuaBehavior() *LuaBehavior {
	return &LuaBehavior{props: emptyProps()}
}

func emptyProps() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func (b *LuaBehavior) TypeName() string { return TypeName }

func (b *LuaBehavior) Describe() []engine.Entry {
	return []engine.Entry{
		engine.AssetField("script", &b.Script),
		engine.Document("props", b.Props, b.SetProps),
	}
}

// Props returns the property document, a mapping of names to scalars.
func (b *LuaBehavior) Props() *yaml.Node {
	return b.props
}

// SetProps replaces the property document. Nested values are rejected.
func (b *LuaBehavior) SetProps(n *yaml.Node) error {
	if n == nil || (n.Kind == yaml.ScalarNode && n.Tag == "!!null") {
		b.props = emptyProps()
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("props: expected a mapping, got kind %d", n.Kind)
	}
	for i := 1; i < len(n.Content); i += 2 {
		if n.Content[i].Kind != yaml.ScalarNode {
			return fmt.Errorf("props: %q must be a scalar", n.Content[i-1].Value)
		}
	}
	b.props = n
	return nil
}

// SetProp sets one property, adding it if missing.
func (b *LuaBehavior) SetProp(name string, value any) error {
	var n yaml.Node
	if err := n.Encode(value); err != nil {
		return err
	}
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("props: %q must be a scalar", name)
	}
	for i := 0; i+1 < len(b.props.Content); i += 2 {
		if b.props.Content[i].Value == name {
			b.props.Content[i+1] = &n
			return nil
		}
	}
	b.props.Content = append(b.props.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: name}, &n)
	return nil
}

// Loaded reports whether the script has been compiled into a VM.
func (b *LuaBehavior) Loaded() bool { return b.vm != nil }

// Failed reports whether the script raised an error and was stopped.
func (b *LuaBehavior) Failed() bool { return b.failed }

func (b *LuaBehavior) Start() {
	b.log = zap.NewNop()
	if g := b.GetGameObject(); g != nil {
		b.log = g.Scene().Logger().With(zap.String("node", g.Name), zap.Stringer("component", b.UID()))
	}
	if b.load() {
		b.call("start")
	}
}

func (b *LuaBehavior) Update(deltaTime float32) {
	if b.failed {
		return
	}
	if b.vm == nil {
		// script still loading
		if !b.load() {
			return
		}
		b.call("start")
	}
	b.call("update", lua.LNumber(deltaTime))
}

func (b *LuaBehavior) OnDetach() {
	b.close()
}

func (b *LuaBehavior) close() {
	if b.vm != nil {
		b.vm.Close()
		b.vm = nil
	}
}

// load compiles the script once its asset is ready.
func (b *LuaBehavior) load() bool {
	if b.vm != nil {
		return true
	}
	g := b.GetGameObject()
	if g == nil || !b.Script.IsValid() {
		return false
	}
	resolver := g.Scene().Assets()
	script, ok := engine.ResolveAsset[*assets.Script](resolver, b.Script)
	if !ok {
		b.fail(fmt.Errorf("script asset %s not found", b.Script.ID))
		return false
	}
	if err := script.Err(); err != nil {
		b.fail(err)
		return false
	}
	if !script.Ready() {
		if r, ok := resolver.(interface{ Request(engine.ID) error }); ok {
			if err := r.Request(b.Script.ID); err != nil {
				b.fail(err)
			}
		}
		return false
	}

	vm := lua.NewState()
	b.vm = vm
	vm.SetGlobal("props", propsTable(vm, b.props))
	bindNode(vm, b, g)
	vm.SetGlobal("log", vm.NewFunction(func(L *lua.LState) int {
		b.log.Info(L.CheckString(1), zap.String("script", script.Path()))
		return 0
	}))

	if err := vm.DoString(script.Source); err != nil {
		b.fail(fmt.Errorf("load %s: %w", script.Path(), err))
		return false
	}
	b.log.Debug("lua script loaded", zap.String("script", script.Path()))
	return true
}

func (b *LuaBehavior) call(name string, args ...lua.LValue) {
	if b.vm == nil {
		return
	}
	fn := b.vm.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return
	}
	if err := b.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...); err != nil {
		b.fail(fmt.Errorf("%s: %w", name, err))
	}
}

// fail logs err and stops the script. The rest of the frame keeps running.
func (b *LuaBehavior) fail(err error) {
	b.failed = true
	b.close()
	if b.log == nil {
		b.log = zap.NewNop()
	}
	b.log.Error("lua script stopped", zap.Error(err))
}

// propsTable converts the property mapping into a Lua table.
func propsTable(L *lua.LState, props *yaml.Node) *lua.LTable {
	t := L.NewTable()
	for i := 0; i+1 < len(props.Content); i += 2 {
		t.RawSetString(props.Content[i].Value, scalarValue(props.Content[i+1]))
	}
	return t
}

func scalarValue(n *yaml.Node) lua.LValue {
	var v any
	if err := n.Decode(&v); err != nil {
		return lua.LString(n.Value)
	}
	switch v := v.(type) {
	case bool:
		return lua.LBool(v)
	case int:
		return lua.LNumber(v)
	case float64:
		return lua.LNumber(v)
	case nil:
		return lua.LNil
	default:
		return lua.LString(n.Value)
	}
}

// Register adds the script component to r. The default registry gets it from init.
func Register(r *engine.Registry) {
	r.Register(TypeName, func() engine.Component { return NewLuaBehavior() })
}
