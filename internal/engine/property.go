package engine

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"
)

// ErrTypeMismatch is returned when a value cannot be stored in an entry's storage.
var ErrTypeMismatch = errors.New("engine: value does not match entry type")

// Describable is implemented by every object that exposes its fields reflectively.
// Describe must return entries that point at the live storage, never at copies.
type Describable interface {
	Describe() []Entry
}

// Kind is the capability category of an entry's storage.
type Kind uint8

const (
	KindScalar Kind = iota + 1
	KindText
	KindDocument
	KindObject
	KindNodeRef
	KindComponentRef
	KindAssetRef
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindText:
		return "text"
	case KindDocument:
		return "document"
	case KindObject:
		return "object"
	case KindNodeRef:
		return "noderef"
	case KindComponentRef:
		return "componentref"
	case KindAssetRef:
		return "assetref"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// TypeTag identifies the concrete storage type of an entry. Tags are written
// into persisted data and checked when values are read back.
type TypeTag uint16

const (
	TagInvalid TypeTag = iota
	TagBool
	TagInt
	TagInt32
	TagInt64
	TagUint8
	TagUint32
	TagUint64
	TagFloat32
	TagFloat64
	TagVector3
	TagColor
	TagEnum
	TagString
	TagDocument
	TagObject
	TagNodeRef
	TagComponentRef
	TagAssetRef
)

// TagList is or-ed with the element tag for sequence entries.
const TagList TypeTag = 0x100

// IsList reports whether t describes a sequence.
func (t TypeTag) IsList() bool { return t&TagList != 0 }

// Elem returns the element tag of a sequence tag.
func (t TypeTag) Elem() TypeTag { return t &^ TagList }

// Meta carries editor metadata for an entry.
type Meta struct {
	Hidden    bool
	ReadOnly  bool
	HasRange  bool
	Min, Max  float64
	EnumNames []string
	Tip       string
	OnChange  func()
}

// Entry describes one exposed field of an object.
type Entry struct {
	Name string
	Tag  TypeTag
	Ref  Ref
	Meta Meta
}

// Kind returns the capability category of the entry.
func (e Entry) Kind() Kind {
	if e.Ref == nil {
		return 0
	}
	return e.Ref.Kind()
}

// IsEnum reports whether the entry is an integer with named values.
func (e Entry) IsEnum() bool { return e.Tag == TagEnum }

// Changed runs the entry's update callback, if any. Writers call it after
// storing a new value.
func (e Entry) Changed() {
	if e.Meta.OnChange != nil {
		e.Meta.OnChange()
	}
}

func (e Entry) Hidden() Entry { e.Meta.Hidden = true; return e }

func (e Entry) ReadOnly() Entry { e.Meta.ReadOnly = true; return e }

// Range sets slider bounds for numeric entries.
func (e Entry) Range(min, max float64) Entry {
	e.Meta.HasRange = true
	e.Meta.Min, e.Meta.Max = min, max
	return e
}

func (e Entry) Tooltip(s string) Entry { e.Meta.Tip = s; return e }

// Notify registers fn to run whenever the entry is written through the codec or the inspector.
func (e Entry) Notify(fn func()) Entry { e.Meta.OnChange = fn; return e }

// Ref is the closed set of storage references an Entry can carry.
// Consumers switch over the concrete types and must handle every one.
type Ref interface {
	Kind() Kind
	sealed()
}

// ScalarRef points at a primitive, vector, color or enum field.
type ScalarRef struct {
	ptr any
}

type enumBox struct {
	get func() int64
	set func(int64)
}

// TextRef points at a string field.
type TextRef struct {
	ptr *string
}

// DocumentRef exposes an opaque sub-document for objects that don't want
// fine-grained diffing.
type DocumentRef struct {
	get func() *yaml.Node
	set func(*yaml.Node) error
}

// ObjectRef points at a nested describable object.
type ObjectRef struct {
	obj Describable
}

// NodeLink points at a weak GameObject reference field.
type NodeLink struct {
	ptr *GameObjectRef
}

// ComponentLink points at a weak component reference field.
type ComponentLink struct {
	ptr *ComponentRef
}

// AssetLink points at an owning asset reference field.
type AssetLink struct {
	ptr *AssetRef
}

// ListRef points at a slice of any non-list entry type.
type ListRef struct {
	elemTag TypeTag
	length  func() int
	resize  func(n int)
	elem    func(i int) Entry
}

func (*ScalarRef) Kind() Kind     { return KindScalar }
func (*TextRef) Kind() Kind       { return KindText }
func (*DocumentRef) Kind() Kind   { return KindDocument }
func (*ObjectRef) Kind() Kind     { return KindObject }
func (*NodeLink) Kind() Kind      { return KindNodeRef }
func (*ComponentLink) Kind() Kind { return KindComponentRef }
func (*AssetLink) Kind() Kind     { return KindAssetRef }
func (*ListRef) Kind() Kind       { return KindList }

func (*ScalarRef) sealed()     {}
func (*TextRef) sealed()       {}
func (*DocumentRef) sealed()   {}
func (*ObjectRef) sealed()     {}
func (*NodeLink) sealed()      {}
func (*ComponentLink) sealed() {}
func (*AssetLink) sealed()     {}
func (*ListRef) sealed()       {}

// Value returns the current value normalized to bool, int64, uint64,
// float64, rl.Vector3 or rl.Color.
func (r *ScalarRef) Value() any {
	switch p := r.ptr.(type) {
	case *bool:
		return *p
	case *int:
		return int64(*p)
	case *int32:
		return int64(*p)
	case *int64:
		return *p
	case *uint8:
		return uint64(*p)
	case *uint32:
		return uint64(*p)
	case *uint64:
		return *p
	case *float32:
		return float64(*p)
	case *float64:
		return *p
	case *rl.Vector3:
		return *p
	case *rl.Color:
		return *p
	case *enumBox:
		return p.get()
	}
	panic(fmt.Sprintf("engine: unsupported scalar storage %T", r.ptr))
}

// SetValue stores v, converting between numeric representations when lossless.
func (r *ScalarRef) SetValue(v any) error {
	switch p := r.ptr.(type) {
	case *bool:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%w: want bool, got %T", ErrTypeMismatch, v)
		}
		*p = b
	case *int:
		n, err := toInt(v, math.MinInt, math.MaxInt)
		if err != nil {
			return err
		}
		*p = int(n)
	case *int32:
		n, err := toInt(v, math.MinInt32, math.MaxInt32)
		if err != nil {
			return err
		}
		*p = int32(n)
	case *int64:
		n, err := toInt(v, math.MinInt64, math.MaxInt64)
		if err != nil {
			return err
		}
		*p = n
	case *uint8:
		n, err := toUint(v, math.MaxUint8)
		if err != nil {
			return err
		}
		*p = uint8(n)
	case *uint32:
		n, err := toUint(v, math.MaxUint32)
		if err != nil {
			return err
		}
		*p = uint32(n)
	case *uint64:
		n, err := toUint(v, math.MaxUint64)
		if err != nil {
			return err
		}
		*p = n
	case *float32:
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		*p = float32(f)
	case *float64:
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		*p = f
	case *rl.Vector3:
		vec, ok := v.(rl.Vector3)
		if !ok {
			return fmt.Errorf("%w: want vector3, got %T", ErrTypeMismatch, v)
		}
		*p = vec
	case *rl.Color:
		c, ok := v.(rl.Color)
		if !ok {
			return fmt.Errorf("%w: want color, got %T", ErrTypeMismatch, v)
		}
		*p = c
	case *enumBox:
		n, err := toInt(v, math.MinInt64, math.MaxInt64)
		if err != nil {
			return err
		}
		p.set(n)
	default:
		panic(fmt.Sprintf("engine: unsupported scalar storage %T", r.ptr))
	}
	return nil
}

func toInt(v any, min, max int64) (int64, error) {
	var n int64
	switch x := v.(type) {
	case int64:
		n = x
	case int:
		n = int64(x)
	case uint64:
		if x > math.MaxInt64 {
			return 0, fmt.Errorf("%w: %d overflows int", ErrTypeMismatch, x)
		}
		n = int64(x)
	case float64:
		if x != math.Trunc(x) {
			return 0, fmt.Errorf("%w: %v is not integral", ErrTypeMismatch, x)
		}
		n = int64(x)
	default:
		return 0, fmt.Errorf("%w: want integer, got %T", ErrTypeMismatch, v)
	}
	if n < min || n > max {
		return 0, fmt.Errorf("%w: %d out of range", ErrTypeMismatch, n)
	}
	return n, nil
}

func toUint(v any, max uint64) (uint64, error) {
	var n uint64
	switch x := v.(type) {
	case uint64:
		n = x
	case int64:
		if x < 0 {
			return 0, fmt.Errorf("%w: %d is negative", ErrTypeMismatch, x)
		}
		n = uint64(x)
	case int:
		if x < 0 {
			return 0, fmt.Errorf("%w: %d is negative", ErrTypeMismatch, x)
		}
		n = uint64(x)
	case float64:
		if x < 0 || x != math.Trunc(x) {
			return 0, fmt.Errorf("%w: %v is not a natural number", ErrTypeMismatch, x)
		}
		n = uint64(x)
	default:
		return 0, fmt.Errorf("%w: want unsigned integer, got %T", ErrTypeMismatch, v)
	}
	if n > max {
		return 0, fmt.Errorf("%w: %d out of range", ErrTypeMismatch, n)
	}
	return n, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case int:
		return float64(x), nil
	}
	return 0, fmt.Errorf("%w: want number, got %T", ErrTypeMismatch, v)
}

func (r *TextRef) Get() string  { return *r.ptr }
func (r *TextRef) Set(s string) { *r.ptr = s }

// Get returns the current sub-document. The result may be nil for an empty document.
func (r *DocumentRef) Get() *yaml.Node { return r.get() }

// Set replaces the sub-document.
func (r *DocumentRef) Set(n *yaml.Node) error {
	if r.set == nil {
		return fmt.Errorf("engine: document is read-only")
	}
	return r.set(n)
}

func (r *ObjectRef) Object() Describable { return r.obj }

func (r *NodeLink) Get() ID        { return r.ptr.UID }
func (r *NodeLink) Set(id ID)      { r.ptr.UID = id }
func (r *ComponentLink) Get() ID   { return r.ptr.UID }
func (r *ComponentLink) Set(id ID) { r.ptr.UID = id }
func (r *AssetLink) Get() ID       { return r.ptr.ID }
func (r *AssetLink) Set(id ID)     { r.ptr.ID = id }

// Len returns the current number of elements.
func (r *ListRef) Len() int { return r.length() }

// Resize grows or truncates the sequence to n elements.
func (r *ListRef) Resize(n int) { r.resize(n) }

// Elem returns the entry for element i.
func (r *ListRef) Elem(i int) Entry { return r.elem(i) }

// ElemTag returns the tag shared by every element.
func (r *ListRef) ElemTag() TypeTag { return r.elemTag }

func scalar(name string, tag TypeTag, ptr any) Entry {
	return Entry{Name: name, Tag: tag, Ref: &ScalarRef{ptr: ptr}}
}

func Bool(name string, p *bool) Entry          { return scalar(name, TagBool, p) }
func Int(name string, p *int) Entry            { return scalar(name, TagInt, p) }
func Int32(name string, p *int32) Entry        { return scalar(name, TagInt32, p) }
func Int64(name string, p *int64) Entry        { return scalar(name, TagInt64, p) }
func Uint8(name string, p *uint8) Entry        { return scalar(name, TagUint8, p) }
func Uint32(name string, p *uint32) Entry      { return scalar(name, TagUint32, p) }
func Uint64(name string, p *uint64) Entry      { return scalar(name, TagUint64, p) }
func Float(name string, p *float32) Entry      { return scalar(name, TagFloat32, p) }
func Float64(name string, p *float64) Entry    { return scalar(name, TagFloat64, p) }
func Vector3(name string, p *rl.Vector3) Entry { return scalar(name, TagVector3, p) }
func Color(name string, p *rl.Color) Entry     { return scalar(name, TagColor, p) }

// Enum exposes an integer-backed enumeration. names[i] labels value i.
func Enum[T ~int | ~int32 | ~int64 | ~uint8](name string, p *T, names ...string) Entry {
	box := &enumBox{
		get: func() int64 { return int64(*p) },
		set: func(v int64) { *p = T(v) },
	}
	e := scalar(name, TagEnum, box)
	e.Meta.EnumNames = names
	return e
}

func String(name string, p *string) Entry {
	return Entry{Name: name, Tag: TagString, Ref: &TextRef{ptr: p}}
}

// Document exposes an opaque sub-document. set may be nil for read-only documents.
func Document(name string, get func() *yaml.Node, set func(*yaml.Node) error) Entry {
	e := Entry{Name: name, Tag: TagDocument, Ref: &DocumentRef{get: get, set: set}}
	if set == nil {
		e.Meta.ReadOnly = true
	}
	return e
}

func Object(name string, d Describable) Entry {
	return Entry{Name: name, Tag: TagObject, Ref: &ObjectRef{obj: d}}
}

func GameObjectField(name string, p *GameObjectRef) Entry {
	return Entry{Name: name, Tag: TagNodeRef, Ref: &NodeLink{ptr: p}}
}

func ComponentField(name string, p *ComponentRef) Entry {
	return Entry{Name: name, Tag: TagComponentRef, Ref: &ComponentLink{ptr: p}}
}

func AssetField(name string, p *AssetRef) Entry {
	return Entry{Name: name, Tag: TagAssetRef, Ref: &AssetLink{ptr: p}}
}

// List exposes a slice. elem builds the entry for one element; nested lists are not supported.
func List[T any](name string, p *[]T, elem func(name string, p *T) Entry) Entry {
	var zero T
	sample := elem("", &zero)
	if sample.Tag.IsList() {
		panic(fmt.Sprintf("engine: list %q has list elements", name))
	}
	ref := &ListRef{
		elemTag: sample.Tag,
		length:  func() int { return len(*p) },
		resize: func(n int) {
			if n <= len(*p) {
				*p = (*p)[:n]
				return
			}
			*p = append(*p, make([]T, n-len(*p))...)
		},
		elem: func(i int) Entry {
			return elem(strconv.Itoa(i), &(*p)[i])
		},
	}
	return Entry{Name: name, Tag: TagList | sample.Tag, Ref: ref}
}

// Find returns the entry with the given name.
func Find(entries []Entry, name string) (Entry, bool) {
	for _, e := range entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Select returns the named entries in declaration order. Unknown names are ignored.
func Select(entries []Entry, names ...string) []Entry {
	if len(names) == 0 {
		return entries
	}
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	out := make([]Entry, 0, len(names))
	for _, e := range entries {
		if _, ok := want[e.Name]; ok {
			out = append(out, e)
		}
	}
	return out
}

// Walk visits every entry depth-first, descending into nested objects and list elements.
// path is the dotted name of the entry relative to the top level.
func Walk(entries []Entry, fn func(path string, e Entry)) {
	walk("", entries, fn)
}

func walk(prefix string, entries []Entry, fn func(string, Entry)) {
	for _, e := range entries {
		path := e.Name
		if prefix != "" {
			path = prefix + "." + e.Name
		}
		fn(path, e)
		switch r := e.Ref.(type) {
		case *ObjectRef:
			if r.obj != nil {
				walk(path, r.obj.Describe(), fn)
			}
		case *ListRef:
			items := make([]Entry, r.Len())
			for i := range items {
				items[i] = r.Elem(i)
			}
			walk(path, items, fn)
		case *ScalarRef, *TextRef, *DocumentRef, *NodeLink, *ComponentLink, *AssetLink:
		default:
			panic(fmt.Sprintf("engine: unhandled ref %T", e.Ref))
		}
	}
}
