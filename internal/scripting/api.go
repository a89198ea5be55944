package scripting

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	lua "github.com/yuin/gopher-lua"

	"mirgo/internal/engine"
)

// bindNode exposes b's owner to the script as the global node table.
// The owner is resolved through the scene on every call, so a destroyed
// owner raises a script error instead of touching stale state.
func bindNode(L *lua.LState, b *LuaBehavior, g *engine.GameObject) {
	scene, id := g.Scene(), g.UID()
	self := func(L *lua.LState) *engine.GameObject {
		n := b.Owner(scene)
		if n == nil {
			L.RaiseError("node %s no longer exists", id)
		}
		return n
	}

	node := L.NewTable()
	L.SetFuncs(node, map[string]lua.LGFunction{
		"name": func(L *lua.LState) int {
			L.Push(lua.LString(self(L).Name))
			return 1
		},
		"position": func(L *lua.LState) int {
			return pushVector(L, self(L).Transform.Position)
		},
		"set_position": func(L *lua.LState) int {
			n := self(L)
			n.Transform.Position = checkVector(L, 1)
			scene.MarkBatchDirty(id)
			return 0
		},
		"rotation": func(L *lua.LState) int {
			return pushVector(L, self(L).Transform.Rotation)
		},
		"set_rotation": func(L *lua.LState) int {
			n := self(L)
			n.Transform.Rotation = checkVector(L, 1)
			scene.MarkBatchDirty(id)
			return 0
		},
		"has_tag": func(L *lua.LState) int {
			L.Push(lua.LBool(self(L).HasTag(L.CheckString(1))))
			return 1
		},
		"set_active": func(L *lua.LState) int {
			self(L).SetActive(L.CheckBool(1))
			return 0
		},
	})
	L.SetGlobal("node", node)
}

func pushVector(L *lua.LState, v rl.Vector3) int {
	L.Push(lua.LNumber(v.X))
	L.Push(lua.LNumber(v.Y))
	L.Push(lua.LNumber(v.Z))
	return 3
}

func checkVector(L *lua.LState, at int) rl.Vector3 {
	return rl.Vector3{
		X: float32(L.CheckNumber(at)),
		Y: float32(L.CheckNumber(at + 1)),
		Z: float32(L.CheckNumber(at + 2)),
	}
}
