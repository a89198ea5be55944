package engine

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewGameObject(t *testing.T) {
	scene := NewScene("Test")
	obj := scene.CreateGameObject("TestObject")

	if obj.Name != "TestObject" {
		t.Errorf("Expected name 'TestObject', got '%s'", obj.Name)
	}
	if obj.components == nil {
		t.Error("components slice should be initialized")
	}
	if obj.Transform.Scale.X != 1 || obj.Transform.GameObject() != obj {
		t.Error("Transform should be constructed with unit scale and owner")
	}
	if !obj.Active() || !obj.ActiveInHierarchy() {
		t.Error("New objects should be active")
	}
}

func TestGameObjectUniqueUIDs(t *testing.T) {
	scene := NewScene("Test")
	obj1 := scene.CreateGameObject("First")
	obj2 := scene.CreateGameObject("Second")
	obj3 := scene.CreateGameObject("Third")

	if obj1.UID() == obj2.UID() || obj2.UID() == obj3.UID() || obj1.UID() == obj3.UID() {
		t.Error("GameObjects should have unique UIDs")
	}
}

func TestGameObjectHasTag(t *testing.T) {
	scene := NewScene("Test")
	obj := scene.CreateGameObject("Test")
	obj.Tags = []string{"enemy", "ai", "dangerous"}

	if !obj.HasTag("enemy") {
		t.Error("HasTag should return true for existing tag")
	}
	if obj.HasTag("player") {
		t.Error("HasTag should return false for non-existent tag")
	}

	obj2 := scene.CreateGameObject("Test2")
	if obj2.HasTag("anything") {
		t.Error("HasTag should return false when Tags is nil/empty")
	}
}

func TestGameObjectParentChild(t *testing.T) {
	scene := NewScene("Test")
	parent := scene.CreateGameObject("Parent")
	child := scene.CreateGameObject("Child")

	scene.AddChild(parent, child)

	if child.Parent() != parent {
		t.Error("Child.Parent should be set")
	}
	children := parent.Children()
	if len(children) != 1 || children[0] != child {
		t.Errorf("Expected [Child], got %v", children)
	}
}

func TestGameObjectActivePropagation(t *testing.T) {
	scene := NewScene("Test")
	root := scene.CreateGameObject("Root")
	mid := scene.CreateGameObject("Mid")
	leaf := scene.CreateGameObject("Leaf")
	scene.AddChild(root, mid)
	scene.AddChild(mid, leaf)

	check := func(stage string) {
		for _, g := range scene.GameObjects() {
			want := g.Active()
			if p := g.Parent(); p != nil {
				want = want && p.ActiveInHierarchy()
			}
			if g.ActiveInHierarchy() != want {
				t.Errorf("%s: %s activeInHierarchy=%v, want %v", stage, g.Name, g.ActiveInHierarchy(), want)
			}
		}
	}

	root.SetActive(false)
	check("root off")
	if leaf.ActiveInHierarchy() {
		t.Error("Leaf should be inactive when root is")
	}

	leaf.SetActive(false)
	root.SetActive(true)
	check("root on, leaf off")
	if !mid.ActiveInHierarchy() || leaf.ActiveInHierarchy() {
		t.Error("Mid should be active, leaf inactive")
	}

	leaf.SetActive(true)
	mid.SetActive(false)
	scene.SetParent(leaf, root)
	check("leaf moved out of inactive mid")
	if !leaf.ActiveInHierarchy() {
		t.Error("Leaf under active root should be active")
	}
}

func TestGameObjectDescribeActiveEntryPropagates(t *testing.T) {
	scene := NewScene("Test")
	parent := scene.CreateGameObject("Parent")
	child := scene.CreateGameObject("Child")
	scene.AddChild(parent, child)

	e, ok := Find(parent.Describe(), "active")
	if !ok {
		t.Fatal("active entry missing")
	}
	if err := e.Ref.(*ScalarRef).SetValue(false); err != nil {
		t.Fatal(err)
	}
	e.Changed()

	if child.ActiveInHierarchy() {
		t.Error("Writing the active entry should propagate to children")
	}
}

func TestGameObjectAddComponent(t *testing.T) {
	scene := NewScene("Test")
	obj := scene.CreateGameObject("Test")

	comp := AddComponent[passive](scene, obj)

	if len(obj.components) != 1 {
		t.Errorf("Expected 1 component, got %d", len(obj.components))
	}
	if comp.GetGameObject() != obj {
		t.Error("Component.gameObject should be set")
	}
	if comp.Owner(scene) != obj {
		t.Error("Weak owner reference should resolve")
	}
	if comp.UID() == NoID || scene.FindComponent(comp.UID()) != comp {
		t.Error("Component should get an indexed id")
	}
	if comp.Attached() {
		t.Error("AddComponent must not imply the attached notification")
	}
}

func TestGameObjectGetComponent(t *testing.T) {
	scene := NewScene("Test")
	obj := scene.CreateGameObject("Test")
	comp := AddComponent[passive](scene, obj)

	if found := GetComponent[*passive](obj); found != comp {
		t.Error("GetComponent failed to find component")
	}
	if found := GetComponent[*tracked](obj); found != nil {
		t.Error("GetComponent should return nil for missing type")
	}
}

func TestGameObjectWorldTransform(t *testing.T) {
	scene := NewScene("Test")
	parent := scene.CreateGameObject("Parent")
	parent.Transform.Position.X = 5
	parent.Transform.Scale.X = 2
	child := scene.CreateGameObject("Child")
	child.Transform.Position.X = 1
	scene.AddChild(parent, child)

	if got := child.WorldPosition().X; got < 6.999 || got > 7.001 {
		t.Errorf("Expected world X 7, got %f", got)
	}

	child.Transform.SetWorldPosition(child.WorldPosition())
	if got := child.Transform.Position.X; got < 0.999 || got > 1.001 {
		t.Errorf("SetWorldPosition should invert WorldPosition, got %f", got)
	}
}

func TestDescribeUnconstructedLogsToScene(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	scene := NewScene("Test")
	scene.SetLogger(zap.New(core))

	g := &GameObject{scene: scene, Name: "raw"}
	if entries := g.Describe(); entries != nil {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
	if logs.Len() != 1 {
		t.Errorf("Expected 1 logged violation, got %d", logs.Len())
	}
}
