package scripting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"gopkg.in/yaml.v3"

	"mirgo/internal/assets"
	"mirgo/internal/engine"
	"mirgo/internal/world"
)

const mover = `
starts = 0
function start()
	starts = starts + 1
	node.set_position(props.x, 0, 0)
end
function update(dt)
	local x, y, z = node.position()
	node.set_position(x + props.speed * dt, y, z)
end
`

func newScriptWorld(t *testing.T, source string) (*world.World, *assets.Database, engine.ID) {
	t.Helper()
	r := engine.NewRegistry()
	Register(r)
	w := world.New("script-test", r, nil)
	fs := assets.NewMemFS()
	fs.WriteFile("scripts/test.lua", []byte(source))
	db := assets.NewDatabase(fs, 1, nil)
	w.SetAssets(db)
	return w, db, db.Import("scripts/test.lua")
}

func attach(t *testing.T, w *world.World, script engine.ID) (*engine.GameObject, *LuaBehavior) {
	t.Helper()
	g, err := w.Instantiate("Scripted", nil, TypeName)
	require.NoError(t, err)
	b := engine.GetComponent[*LuaBehavior](g)
	require.NotNil(t, b)
	b.Script.ID = script
	return g, b
}

func TestScriptStartAndUpdate(t *testing.T) {
	w, db, id := newScriptWorld(t, mover)
	require.NoError(t, db.Request(id))
	db.Wait()
	g, b := attach(t, w, id)
	require.NoError(t, b.SetProp("x", 2))
	require.NoError(t, b.SetProp("speed", 10))

	w.Update(0.5, true)

	require.True(t, b.Loaded())
	assert.False(t, b.Failed())
	assert.InDelta(t, 7.0, g.Transform.Position.X, 1e-5)
	assert.Equal(t, 1, luaInt(t, b, "starts"))
}

func TestScriptWaitsForAsset(t *testing.T) {
	w, db, id := newScriptWorld(t, mover)
	_, b := attach(t, w, id)
	require.NoError(t, b.SetProp("x", 1))
	require.NoError(t, b.SetProp("speed", 0))

	w.Update(0.1, true)
	assert.False(t, b.Loaded())
	assert.False(t, b.Failed())

	db.Wait()
	w.Update(0.1, true)
	assert.True(t, b.Loaded())
	assert.Equal(t, 1, luaInt(t, b, "starts"))
}

func TestScriptErrorStopsOnlyTheScript(t *testing.T) {
	w, db, id := newScriptWorld(t, `function update(dt) error("boom") end`)
	require.NoError(t, db.Request(id))
	db.Wait()
	_, b := attach(t, w, id)

	assert.NotPanics(t, func() { w.Update(0.1, true) })
	assert.True(t, b.Failed())
	assert.False(t, b.Loaded())

	w.Update(0.1, true)
	assert.True(t, b.Failed())
}

func TestScriptSyntaxError(t *testing.T) {
	w, db, id := newScriptWorld(t, `function update(dt`)
	require.NoError(t, db.Request(id))
	db.Wait()
	_, b := attach(t, w, id)

	w.Update(0.1, true)

	assert.True(t, b.Failed())
}

func TestScriptVMClosedOnDetach(t *testing.T) {
	w, db, id := newScriptWorld(t, mover)
	require.NoError(t, db.Request(id))
	db.Wait()
	g, b := attach(t, w, id)
	require.NoError(t, b.SetProp("x", 0))
	require.NoError(t, b.SetProp("speed", 1))
	w.Update(0.1, true)
	require.True(t, b.Loaded())

	w.Scene.RemoveComponent(g, b)
	w.Update(0.1, true)

	assert.False(t, b.Loaded())
}

func TestSetPropsRejectsNesting(t *testing.T) {
	b := NewLuaBehavior()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("a: [1, 2]\n"), &doc))

	assert.Error(t, b.SetProps(doc.Content[0]))
	assert.Error(t, b.SetProps(&yaml.Node{Kind: yaml.SequenceNode}))
	assert.NoError(t, b.SetProps(nil))
	assert.Empty(t, b.Props().Content)
}

func TestPropsSurviveSaveAndLoad(t *testing.T) {
	r := engine.NewRegistry()
	Register(r)
	src := world.New("src", r, nil)
	g, err := src.Instantiate("Scripted", nil, TypeName)
	require.NoError(t, err)
	b := engine.GetComponent[*LuaBehavior](g)
	require.NoError(t, b.SetProp("speed", 3.5))
	require.NoError(t, b.SetProp("label", "door"))
	require.NoError(t, b.SetProp("speed", 4.5))

	data, err := src.SaveBytes()
	require.NoError(t, err)

	dst := world.New("dst", r, nil)
	report, err := dst.LoadBytes(data)
	require.NoError(t, err)
	assert.True(t, report.OK(), report.Summary())

	loaded := engine.GetComponent[*LuaBehavior](dst.Scene.FindByUID(g.UID()))
	require.NotNil(t, loaded)
	props := loaded.Props()
	require.Len(t, props.Content, 4)
	assert.Equal(t, "speed", props.Content[0].Value)
	assert.Equal(t, "4.5", props.Content[1].Value)
	assert.Equal(t, "door", props.Content[3].Value)
}

// luaInt reads a global number from the script's VM.
func luaInt(t *testing.T, b *LuaBehavior, name string) int {
	t.Helper()
	require.NotNil(t, b.vm)
	return int(lua.LVAsNumber(b.vm.GetGlobal(name)))
}
