package engine

import "testing"

func TestRegistryCreate(t *testing.T) {
	r := NewRegistry()
	r.Register("passive", func() Component { return &passive{} })

	c, ok := r.Create("passive")
	if !ok {
		t.Fatal("Create should find registered type")
	}
	if _, isPassive := c.(*passive); !isPassive {
		t.Errorf("Expected *passive, got %T", c)
	}
	if c.GetGameObject() != nil {
		t.Error("Factory output should be unattached")
	}

	if _, ok := r.Create("missing"); ok {
		t.Error("Create should fail for unknown names")
	}
}

func TestRegistryDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	r.Register("Duplicate", func() Component { return &passive{} })

	defer func() {
		if recover() == nil {
			t.Error("Expected panic on duplicate registration")
		}
	}()
	r.Register("Duplicate", func() Component { return &passive{} })
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	for _, n := range []string{"Zeta", "Alpha", "Mid"} {
		r.Register(n, func() Component { return &passive{} })
	}

	names := r.Names()
	if len(names) != 3 || names[0] != "Alpha" || names[1] != "Mid" || names[2] != "Zeta" {
		t.Errorf("Expected sorted names, got %v", names)
	}

	r.Reset()
	if r.Has("Alpha") || len(r.Names()) != 0 {
		t.Error("Reset should clear registrations")
	}
}
