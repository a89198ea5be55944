package engine

import "testing"

func TestGameObjectRefGet(t *testing.T) {
	scene := NewScene("Test")
	obj := scene.CreateGameObject("Target")

	ref := GameObjectRef{UID: obj.UID()}

	if found := ref.Get(scene); found != obj {
		t.Errorf("Get() failed: expected %v, got %v", obj, found)
	}
}

func TestGameObjectRefGetNil(t *testing.T) {
	scene := NewScene("Test")

	if (GameObjectRef{}).Get(scene) != nil {
		t.Error("Get() with UID=0 should return nil")
	}
	if (GameObjectRef{UID: missingID}).Get(scene) != nil {
		t.Error("Get() with non-existent UID should return nil")
	}
	if (GameObjectRef{UID: 123}).Get(nil) != nil {
		t.Error("Get() with nil scene should return nil")
	}
}

func TestGameObjectRefIsValid(t *testing.T) {
	if !(GameObjectRef{UID: 123}).IsValid() {
		t.Error("GameObjectRef with UID > 0 should be valid")
	}
	if (GameObjectRef{}).IsValid() {
		t.Error("GameObjectRef with UID = 0 should be invalid")
	}
}

func TestGameObjectRefStaleAfterDestroy(t *testing.T) {
	scene := NewScene("Test")
	obj := scene.CreateGameObject("Target")
	var ref GameObjectRef
	ref.Set(obj)

	scene.Destroy(obj)
	scene.FlushDeletions()

	if ref.Get(scene) != nil {
		t.Error("Reference to a destroyed object should resolve to nil")
	}
	if !ref.IsValid() {
		t.Error("IsValid only reports a non-zero id")
	}
	ref.Clear()
	if ref.IsValid() {
		t.Error("Clear should reset the id")
	}
}

func TestComponentRefResolve(t *testing.T) {
	scene := NewScene("Test")
	obj := scene.CreateGameObject("Obj")
	comp := AddComponent[passive](scene, obj)

	var ref ComponentRef
	ref.Set(comp)

	got, ok := ResolveComponent[*passive](scene, ref)
	if !ok || got != comp {
		t.Error("ResolveComponent should return the component")
	}
	if _, ok := ResolveComponent[*tracked](scene, ref); ok {
		t.Error("ResolveComponent should fail for the wrong type")
	}

	scene.RemoveComponent(obj, comp)
	if ref.Get(scene) != nil {
		t.Error("Removed component should not resolve")
	}
}

type fakeAsset struct{ id ID }

func (a *fakeAsset) AssetID() ID  { return a.id }
func (a *fakeAsset) Path() string { return "fake" }
func (a *fakeAsset) Ready() bool  { return true }

type fakeResolver map[ID]Asset

func (r fakeResolver) Asset(id ID) Asset { return r[id] }

func TestAssetRefResolve(t *testing.T) {
	a := &fakeAsset{id: NewID(true)}
	resolver := fakeResolver{a.id: a}

	var ref AssetRef
	ref.Set(a)

	got, ok := ResolveAsset[*fakeAsset](resolver, ref)
	if !ok || got != a {
		t.Error("ResolveAsset should return the asset")
	}
	if (AssetRef{ID: a.id + 1}).Get(resolver) != nil {
		t.Error("Unknown asset ids should resolve to nil")
	}
	if ref.Get(nil) != nil {
		t.Error("nil resolver should resolve to nil")
	}
}
