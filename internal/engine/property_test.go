package engine

import (
	"errors"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"
)

type quality int32

const (
	qualityLow quality = iota
	qualityHigh
)

type sample struct {
	Flag    bool
	Count   int
	Small   uint8
	Ratio   float32
	Pos     rl.Vector3
	Tint    rl.Color
	Label   string
	Mode    quality
	Names   []string
	Targets []GameObjectRef
	Nested  nested
	blob    string
}

type nested struct {
	Depth int64
	Icon  AssetRef
}

func (n *nested) Describe() []Entry {
	return []Entry{Int64("depth", &n.Depth), AssetField("icon", &n.Icon)}
}

func (s *sample) Describe() []Entry {
	return []Entry{
		Bool("flag", &s.Flag),
		Int("count", &s.Count).Range(0, 10),
		Uint8("small", &s.Small),
		Float("ratio", &s.Ratio),
		Vector3("pos", &s.Pos),
		Color("tint", &s.Tint),
		String("label", &s.Label),
		Enum("mode", &s.Mode, "Low", "High"),
		List("names", &s.Names, String),
		List("targets", &s.Targets, GameObjectField),
		Object("nested", &s.Nested),
		Document("blob",
			func() *yaml.Node { return &yaml.Node{Kind: yaml.ScalarNode, Value: s.blob} },
			func(n *yaml.Node) error { s.blob = n.Value; return nil }),
	}
}

func TestEntriesPointAtLiveStorage(t *testing.T) {
	s := &sample{}
	entries := s.Describe()

	e, _ := Find(entries, "count")
	if err := e.Ref.(*ScalarRef).SetValue(int64(7)); err != nil {
		t.Fatal(err)
	}
	if s.Count != 7 {
		t.Errorf("Expected write through entry, got %d", s.Count)
	}

	s.Count = 3
	if got := e.Ref.(*ScalarRef).Value(); got != int64(3) {
		t.Errorf("Expected live read 3, got %v", got)
	}
}

func TestScalarConversions(t *testing.T) {
	s := &sample{}
	entries := s.Describe()
	small, _ := Find(entries, "small")
	ratio, _ := Find(entries, "ratio")
	flag, _ := Find(entries, "flag")

	if err := small.Ref.(*ScalarRef).SetValue(int64(300)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Expected overflow to be rejected, got %v", err)
	}
	if err := small.Ref.(*ScalarRef).SetValue(float64(12)); err != nil || s.Small != 12 {
		t.Errorf("Integral float should convert, got %d, %v", s.Small, err)
	}
	if err := ratio.Ref.(*ScalarRef).SetValue(int64(2)); err != nil || s.Ratio != 2 {
		t.Errorf("Int should widen to float, got %v, %v", s.Ratio, err)
	}
	if err := flag.Ref.(*ScalarRef).SetValue("yes"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("String into bool should fail, got %v", err)
	}
}

func TestEnumEntry(t *testing.T) {
	s := &sample{}
	e, _ := Find(s.Describe(), "mode")

	if !e.IsEnum() || len(e.Meta.EnumNames) != 2 {
		t.Fatal("Enum metadata missing")
	}
	e.Ref.(*ScalarRef).SetValue(int64(1))
	if s.Mode != qualityHigh {
		t.Errorf("Expected High, got %d", s.Mode)
	}
}

func TestListEntry(t *testing.T) {
	s := &sample{Names: []string{"a"}}
	e, _ := Find(s.Describe(), "names")

	if !e.Tag.IsList() || e.Tag.Elem() != TagString || e.Kind() != KindList {
		t.Fatalf("Unexpected list tag %x", e.Tag)
	}
	list := e.Ref.(*ListRef)
	list.Resize(3)
	list.Elem(2).Ref.(*TextRef).Set("c")
	if len(s.Names) != 3 || s.Names[2] != "c" {
		t.Errorf("Expected resize and write, got %v", s.Names)
	}
	list.Resize(1)
	if len(s.Names) != 1 || s.Names[0] != "a" {
		t.Errorf("Expected truncation, got %v", s.Names)
	}

	targets, _ := Find(s.Describe(), "targets")
	if targets.Tag.Elem() != TagNodeRef {
		t.Errorf("Expected node ref elements, got %x", targets.Tag)
	}
}

func TestWalkVisitsNestedEntries(t *testing.T) {
	s := &sample{Names: []string{"x", "y"}}
	var paths []string
	Walk(s.Describe(), func(path string, e Entry) {
		if e.Kind() == KindAssetRef || path == "names.1" {
			paths = append(paths, path)
		}
	})

	if len(paths) != 2 || paths[0] != "names.1" || paths[1] != "nested.icon" {
		t.Errorf("Unexpected walk paths %v", paths)
	}
}

func TestSelectAndMeta(t *testing.T) {
	s := &sample{}
	picked := Select(s.Describe(), "label", "flag")

	if len(picked) != 2 || picked[0].Name != "flag" || picked[1].Name != "label" {
		t.Errorf("Select should keep declaration order, got %v", picked)
	}

	count, _ := Find(s.Describe(), "count")
	if !count.Meta.HasRange || count.Meta.Max != 10 {
		t.Error("Range metadata lost")
	}

	called := false
	e := Bool("x", new(bool)).Notify(func() { called = true }).Hidden()
	e.Changed()
	if !called || !e.Meta.Hidden {
		t.Error("Notify and Hidden should both apply")
	}
}

func TestDocumentEntry(t *testing.T) {
	s := &sample{}
	e, _ := Find(s.Describe(), "blob")
	doc := e.Ref.(*DocumentRef)

	if err := doc.Set(&yaml.Node{Kind: yaml.ScalarNode, Value: "payload"}); err != nil {
		t.Fatal(err)
	}
	if doc.Get().Value != "payload" {
		t.Error("Document round trip failed")
	}

	ro := Document("ro", func() *yaml.Node { return nil }, nil)
	if !ro.Meta.ReadOnly {
		t.Error("Document without setter should be read-only")
	}
	if err := ro.Ref.(*DocumentRef).Set(&yaml.Node{}); err == nil {
		t.Error("Setting a read-only document should fail")
	}
}
