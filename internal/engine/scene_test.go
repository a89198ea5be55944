package engine

import (
	"errors"
	"testing"
)

const missingID ID = 1 << 40

func TestSceneCreateGameObject(t *testing.T) {
	scene := NewScene("Test")
	obj := scene.CreateGameObject("Player")

	if scene.Len() != 1 {
		t.Errorf("Expected 1 GameObject, got %d", scene.Len())
	}
	if obj.Scene() != scene {
		t.Error("GameObject.Scene not set")
	}
	if obj.UID() == NoID {
		t.Error("UID should not be 0")
	}
}

func TestSceneUIDLookup(t *testing.T) {
	scene := NewScene("Test")
	obj := scene.CreateGameObject("Player")

	if found := scene.FindByUID(obj.UID()); found != obj {
		t.Errorf("FindByUID failed: expected %v, got %v", obj, found)
	}
	if scene.FindByUID(missingID) != nil {
		t.Error("FindByUID should return nil for non-existent UID")
	}
}

func TestSceneDestroyIsDeferred(t *testing.T) {
	scene := NewScene("Test")
	obj1 := scene.CreateGameObject("Player")
	obj2 := scene.CreateGameObject("Enemy")

	scene.Destroy(obj1)

	if scene.FindByUID(obj1.UID()) != nil {
		t.Error("Destroyed GameObject still resolvable")
	}
	if nodes, _ := scene.PendingDeletions(); nodes != 1 {
		t.Errorf("Expected 1 pending node, got %d", nodes)
	}
	if len(scene.objects) != 2 {
		t.Errorf("Storage should be kept until flush, got %d", len(scene.objects))
	}

	scene.FlushDeletions()

	if len(scene.objects) != 1 || scene.objects[0] != obj2 {
		t.Error("Wrong GameObject reclaimed")
	}
	if scene.FindByUID(obj2.UID()) != obj2 {
		t.Error("Remaining GameObject not in UID map")
	}
}

func TestSceneDestroyWithChildren(t *testing.T) {
	scene := NewScene("Test")
	parent := scene.CreateGameObject("Parent")
	child := scene.CreateGameObject("Child")
	if err := scene.AddChild(parent, child); err != nil {
		t.Fatal(err)
	}

	var destroyed []string
	scene.OnDestroyed.AddListener(func(g *GameObject) { destroyed = append(destroyed, g.Name) })

	scene.Destroy(parent)
	scene.FlushDeletions()

	if scene.Len() != 0 || len(scene.objects) != 0 {
		t.Errorf("Expected 0 GameObjects, got %d", len(scene.objects))
	}
	if scene.FindByUID(child.UID()) != nil {
		t.Error("Child still in UID map after removal")
	}
	if len(destroyed) != 2 {
		t.Errorf("Expected 2 OnDestroyed calls, got %v", destroyed)
	}
}

func TestSceneDestroyChildDetachesFromParent(t *testing.T) {
	scene := NewScene("Test")
	parent := scene.CreateGameObject("Parent")
	child := scene.CreateGameObject("Child")
	scene.AddChild(parent, child)

	scene.Destroy(child)

	if len(parent.ChildIDs()) != 0 {
		t.Errorf("Parent still lists destroyed child: %v", parent.ChildIDs())
	}
}

func TestSceneFindByName(t *testing.T) {
	scene := NewScene("Test")
	obj := scene.CreateGameObject("UniquePlayer")

	if scene.FindByName("UniquePlayer") != obj {
		t.Error("FindByName failed")
	}
	if scene.FindByName("DoesNotExist") != nil {
		t.Error("FindByName should return nil for non-existent name")
	}
}

func TestSceneFindByTag(t *testing.T) {
	scene := NewScene("Test")
	obj1 := scene.CreateGameObject("Enemy1")
	obj2 := scene.CreateGameObject("Enemy2")
	obj3 := scene.CreateGameObject("Player")

	obj1.Tags = []string{"enemy", "ai"}
	obj2.Tags = []string{"enemy"}
	obj3.Tags = []string{"player"}

	if enemies := scene.FindByTag("enemy"); len(enemies) != 2 {
		t.Errorf("Expected 2 enemies, got %d", len(enemies))
	}
	if players := scene.FindByTag("player"); len(players) != 1 {
		t.Errorf("Expected 1 player, got %d", len(players))
	}
	if notFound := scene.FindByTag("nonexistent"); len(notFound) != 0 {
		t.Error("FindByTag should return empty slice for non-existent tag")
	}
}

func TestSceneRejectsCycles(t *testing.T) {
	scene := NewScene("Test")
	a := scene.CreateGameObject("A")
	b := scene.CreateGameObject("B")
	c := scene.CreateGameObject("C")
	scene.AddChild(a, b)
	scene.AddChild(b, c)

	if err := scene.SetParent(a, c); !errors.Is(err, ErrCycle) {
		t.Errorf("Expected ErrCycle, got %v", err)
	}
	if err := scene.SetParent(a, a); !errors.Is(err, ErrCycle) {
		t.Errorf("Expected ErrCycle for self-parenting, got %v", err)
	}
	if a.Parent() != nil {
		t.Error("Rejected reparent must leave the graph untouched")
	}
}

func TestSceneReparentUpdatesBothSides(t *testing.T) {
	scene := NewScene("Test")
	p1 := scene.CreateGameObject("P1")
	p2 := scene.CreateGameObject("P2")
	child := scene.CreateGameObject("Child")
	scene.AddChild(p1, child)

	if err := scene.SetParent(child, p2); err != nil {
		t.Fatal(err)
	}
	if child.Parent() != p2 {
		t.Error("Child.Parent should be P2")
	}
	if len(p1.ChildIDs()) != 0 {
		t.Error("Old parent still lists child")
	}
	if p2.ChildIndex(child.UID()) != 0 {
		t.Error("New parent does not list child")
	}

	scene.RemoveChild(p2, child)
	if child.Parent() != nil || len(p2.ChildIDs()) != 0 {
		t.Error("RemoveChild should make the child a root")
	}
}

func TestSceneReparentAtIndex(t *testing.T) {
	scene := NewScene("Test")
	parent := scene.CreateGameObject("Parent")
	a := scene.CreateGameObject("A")
	b := scene.CreateGameObject("B")
	c := scene.CreateGameObject("C")
	scene.AddChild(parent, a)
	scene.AddChild(parent, b)

	scene.Reparent(c, parent, 1, false)

	ids := parent.ChildIDs()
	if len(ids) != 3 || ids[0] != a.UID() || ids[1] != c.UID() || ids[2] != b.UID() {
		t.Errorf("Unexpected child order %v", ids)
	}
}

func TestSceneReparentKeepWorld(t *testing.T) {
	scene := NewScene("Test")
	parent := scene.CreateGameObject("Parent")
	parent.Transform.Position.X = 10
	child := scene.CreateGameObject("Child")
	child.Transform.Position.X = 3

	scene.Reparent(child, parent, -1, true)

	if got := child.WorldPosition().X; got < 2.999 || got > 3.001 {
		t.Errorf("Expected world X 3, got %f", got)
	}
	if got := child.Transform.Position.X; got < -7.001 || got > -6.999 {
		t.Errorf("Expected local X -7, got %f", got)
	}
}

func TestSceneRestoreID(t *testing.T) {
	scene := NewScene("Test")
	obj := scene.CreateGameObject("Obj")
	old := obj.UID()
	want := missingID + 7

	if err := scene.RestoreID(obj, want); err != nil {
		t.Fatal(err)
	}
	if obj.UID() != want || scene.FindByUID(want) != obj {
		t.Error("Restored id not indexed")
	}
	if scene.FindByUID(old) != nil {
		t.Error("Old id still indexed")
	}
	if next := NewID(false); next <= want {
		t.Errorf("NewID returned %d, must be past restored %d", next, want)
	}
	if err := scene.RestoreID(obj, want+1); !errors.Is(err, ErrIDRestored) {
		t.Errorf("Second restore should fail, got %v", err)
	}
}

func TestSceneRestoreIDRejectsDuplicate(t *testing.T) {
	scene := NewScene("Test")
	a := scene.CreateGameObject("A")
	b := scene.CreateGameObject("B")

	if err := scene.RestoreID(b, a.UID()); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Expected ErrDuplicateID, got %v", err)
	}
	if scene.FindByUID(a.UID()) != a {
		t.Error("Duplicate restore must not touch the index")
	}
}

func TestSceneRemoveComponentIsDeferred(t *testing.T) {
	scene := NewScene("Test")
	obj := scene.CreateGameObject("Obj")
	var log []string
	p := addTracked(scene, obj, "p", 0, &log)

	scene.RemoveComponent(obj, p)

	if len(obj.Components()) != 0 {
		t.Error("Component still in owner list")
	}
	if scene.FindComponent(p.UID()) != nil {
		t.Error("Removed component still resolvable")
	}
	if len(log) != 1 {
		t.Errorf("OnDetach must wait for flush, log=%v", log)
	}

	scene.FlushDeletions()

	if len(log) != 2 || log[1] != "p:detach" {
		t.Errorf("Expected detach after flush, log=%v", log)
	}
}

func TestSceneWalkGraphOrder(t *testing.T) {
	scene := NewScene("Test")
	a := scene.CreateGameObject("A")
	b := scene.CreateGameObject("B")
	a1 := scene.CreateGameObject("A1")
	a2 := scene.CreateGameObject("A2")
	scene.AddChild(a, a1)
	scene.AddChild(a, a2)
	_ = b

	var names []string
	scene.Walk(func(g *GameObject) bool {
		names = append(names, g.Name)
		return true
	})

	want := []string{"A", "A1", "A2", "B"}
	if len(names) != len(want) {
		t.Fatalf("Expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, names)
			break
		}
	}
}

func TestSceneClearKeepsCounters(t *testing.T) {
	scene := NewScene("Test")
	obj := scene.CreateGameObject("Obj")
	last := obj.UID()

	scene.Clear()

	if scene.Len() != 0 {
		t.Errorf("Expected empty scene, got %d", scene.Len())
	}
	if next := scene.CreateGameObject("Next"); next.UID() <= last {
		t.Error("Clear must not reset the id counter")
	}
}

func TestSceneMoveComponent(t *testing.T) {
	scene := NewScene("Test")
	obj := scene.CreateGameObject("Player")
	a := addTracked(scene, obj, "a", 0, nil)
	b := addTracked(scene, obj, "b", 0, nil)
	c := addTracked(scene, obj, "c", 0, nil)

	scene.MoveComponent(c, 0)

	got := obj.Components()
	if len(got) != 3 || got[0] != c || got[1] != a || got[2] != b {
		t.Errorf("Expected order c,a,b, got %v", got)
	}

	scene.MoveComponent(c, 99)
	if obj.ComponentIndex(c) != 2 {
		t.Errorf("Expected c at the end, got index %d", obj.ComponentIndex(c))
	}
}

func TestSceneReparentRootAtIndex(t *testing.T) {
	scene := NewScene("Test")
	a := scene.CreateGameObject("A")
	b := scene.CreateGameObject("B")
	c := scene.CreateGameObject("C")

	scene.Reparent(c, nil, 0, false)

	roots := scene.Roots()
	if len(roots) != 3 || roots[0] != c || roots[1] != a || roots[2] != b {
		t.Errorf("Expected roots C,A,B, got %v", roots)
	}
	if scene.RootIndex(a) != 1 {
		t.Errorf("Expected A at root index 1, got %d", scene.RootIndex(a))
	}

	scene.AddChild(a, b)
	if scene.RootIndex(b) != -1 {
		t.Error("A child has no root index")
	}
	scene.Reparent(b, nil, 5, false)
	if roots := scene.Roots(); roots[len(roots)-1] != b {
		t.Error("An index past the end should place the root last")
	}
}
