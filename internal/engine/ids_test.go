package engine

import "testing"

func TestNewIDSpacesDistinct(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 500; i++ {
		forAsset := i%3 == 0
		id := NewID(forAsset)
		if id == NoID {
			t.Fatal("NewID returned the reserved id")
		}
		if seen[id] {
			t.Fatalf("Duplicate id %d", id)
		}
		seen[id] = true
		if IsAssetID(id) != forAsset {
			t.Fatalf("Id %d landed in the wrong space (asset=%v)", id, forAsset)
		}
	}
}

func TestObserveIDNeverMovesBackwards(t *testing.T) {
	first := NewID(false)
	ObserveID(first - 1)
	if next := NewID(false); next != first+1 {
		t.Errorf("Observing an older id should not change the counter: got %d after %d", next, first)
	}

	asset := NewID(true)
	ObserveID(asset + 100)
	if next := NewID(true); next != asset+101 {
		t.Errorf("Expected asset counter past %d, got %d", asset+100, next)
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	if err != nil || id != 42 {
		t.Errorf("ParseID(42) = %d, %v", id, err)
	}
	if _, err := ParseID("x"); err == nil {
		t.Error("ParseID should reject non-numeric input")
	}
	if ID(42).String() != "42" {
		t.Error("String should print decimal")
	}
}

func TestIDSpaceBoundary(t *testing.T) {
	if !IsAssetID(AssetIDOffset) || IsRuntimeID(AssetIDOffset) {
		t.Error("The offset itself belongs to the asset space")
	}
	if IsAssetID(AssetIDOffset-1) || !IsRuntimeID(AssetIDOffset-1) {
		t.Error("The id below the offset belongs to the runtime space")
	}
	if IsRuntimeID(NoID) || IsAssetID(NoID) {
		t.Error("NoID belongs to neither space")
	}

	before := NewID(false)
	ObserveID(AssetIDOffset)
	if next := NewID(false); next != before+1 {
		t.Errorf("Observing an asset id must leave the runtime counter alone: got %d after %d", next, before)
	}
}

func TestRestoreRejectsBoundaryIDs(t *testing.T) {
	scene := NewScene("Test")
	obj := scene.CreateGameObject("Obj")
	c := addTracked(scene, obj, "c", 0, nil)

	for _, id := range []ID{NoID, AssetIDOffset, AssetIDOffset + 1} {
		if err := scene.RestoreID(obj, id); err == nil {
			t.Errorf("RestoreID accepted %d", id)
		}
		if err := scene.RestoreComponentID(c, id); err == nil {
			t.Errorf("RestoreComponentID accepted %d", id)
		}
	}
	if next := NewID(false); IsAssetID(next) {
		t.Errorf("Runtime counter moved into the asset space: %d", next)
	}
}
