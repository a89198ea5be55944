package serial

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"mirgo/internal/binfmt"
	"mirgo/internal/engine"
)

// EncodeBinary writes entries in declaration order as tag u16 | len u32 | payload.
// Names are not written; the layout is positional.
func EncodeBinary(entries []engine.Entry) []byte {
	w := binfmt.NewWriter()
	writeEntries(w, entries)
	return w.Payload()
}

func writeEntries(w *binfmt.Writer, entries []engine.Entry) {
	for _, e := range entries {
		w.U16(uint16(e.Tag))
		off := w.Reserve32()
		start := w.Len()
		writePayload(w, e)
		w.Patch32(off, uint32(w.Len()-start))
	}
}

func writePayload(w *binfmt.Writer, e engine.Entry) {
	switch r := e.Ref.(type) {
	case *engine.ScalarRef:
		writeScalar(w, e.Tag, r.Value())
	case *engine.TextRef:
		w.Raw([]byte(r.Get()))
	case *engine.DocumentRef:
		var data []byte
		if doc := r.Get(); doc != nil {
			// marshalling a well-formed node tree can't fail
			data, _ = Marshal(doc)
		}
		w.Raw(data)
	case *engine.ObjectRef:
		if r.Object() != nil {
			writeEntries(w, r.Object().Describe())
		}
	case *engine.NodeLink:
		w.U64(uint64(r.Get()))
	case *engine.ComponentLink:
		w.U64(uint64(r.Get()))
	case *engine.AssetLink:
		w.U64(uint64(r.Get()))
	case *engine.ListRef:
		w.U32(uint32(r.Len()))
		for i := 0; i < r.Len(); i++ {
			off := w.Reserve32()
			start := w.Len()
			writePayload(w, r.Elem(i))
			w.Patch32(off, uint32(w.Len()-start))
		}
	default:
		panic(fmt.Sprintf("serial: unhandled ref %T", e.Ref))
	}
}

func writeScalar(w *binfmt.Writer, tag engine.TypeTag, v any) {
	switch tag {
	case engine.TagBool:
		w.Bool(v.(bool))
	case engine.TagInt, engine.TagInt64, engine.TagEnum:
		w.I64(v.(int64))
	case engine.TagInt32:
		w.U32(uint32(int32(v.(int64))))
	case engine.TagUint8:
		w.U8(uint8(v.(uint64)))
	case engine.TagUint32:
		w.U32(uint32(v.(uint64)))
	case engine.TagUint64:
		w.U64(v.(uint64))
	case engine.TagFloat32:
		w.F32(float32(v.(float64)))
	case engine.TagFloat64:
		w.F64(v.(float64))
	case engine.TagVector3:
		vec := v.(rl.Vector3)
		w.F32(vec.X)
		w.F32(vec.Y)
		w.F32(vec.Z)
	case engine.TagColor:
		c := v.(rl.Color)
		w.Raw([]byte{c.R, c.G, c.B, c.A})
	default:
		panic(fmt.Sprintf("serial: tag %d is not a scalar", tag))
	}
}

// DecodeBinary reads fields written by EncodeBinary into entries, pairing them
// by position. A field whose stored tag differs from the entry's tag is skipped
// and reported; missing trailing fields leave entries at their defaults.
func DecodeBinary(data []byte, entries []engine.Entry) ([]Issue, error) {
	r := binfmt.NewReader(data)
	issues := readEntries(r, "", entries)
	if err := r.Err(); err != nil {
		return issues, fmt.Errorf("decode binary: %w", err)
	}
	return issues, nil
}

func readEntries(r *binfmt.Reader, prefix string, entries []engine.Entry) []Issue {
	var issues []Issue
	for _, e := range entries {
		if r.Remaining() == 0 || r.Err() != nil {
			break
		}
		tag := engine.TypeTag(r.U16())
		size := int(r.U32())
		field := r.Sub(size)
		path := joinPath(prefix, e.Name)
		if tag != e.Tag {
			issues = append(issues, Issue{Path: path, Err: fmt.Errorf("%w: stored tag %#x, want %#x", engine.ErrTypeMismatch, tag, e.Tag)})
			continue
		}
		if e.Meta.ReadOnly {
			continue
		}
		issues = append(issues, readPayload(field, path, e)...)
		if err := field.Err(); err != nil {
			issues = append(issues, Issue{Path: path, Err: err})
		}
	}
	return issues
}

func readPayload(r *binfmt.Reader, path string, e engine.Entry) []Issue {
	switch ref := e.Ref.(type) {
	case *engine.ScalarRef:
		v := readScalar(r, e.Tag)
		if r.Err() != nil {
			return nil
		}
		if err := ref.SetValue(v); err != nil {
			return []Issue{{Path: path, Err: err}}
		}
	case *engine.TextRef:
		ref.Set(string(r.Rest()))
	case *engine.DocumentRef:
		raw := r.Rest()
		if len(raw) == 0 {
			break
		}
		doc, err := Unmarshal(raw)
		if err != nil {
			return []Issue{{Path: path, Err: err}}
		}
		if err := ref.Set(doc); err != nil {
			return []Issue{{Path: path, Err: err}}
		}
	case *engine.ObjectRef:
		if ref.Object() == nil {
			return nil
		}
		issues := readEntries(r, path, ref.Object().Describe())
		e.Changed()
		return issues
	case *engine.NodeLink:
		ref.Set(engine.ID(r.U64()))
	case *engine.ComponentLink:
		ref.Set(engine.ID(r.U64()))
	case *engine.AssetLink:
		ref.Set(engine.ID(r.U64()))
	case *engine.ListRef:
		n := int(r.U32())
		if r.Err() != nil {
			return nil
		}
		// Every element carries at least its 4-byte length.
		if n > r.Remaining()/4 {
			return []Issue{{Path: path, Err: fmt.Errorf("%w: %d elements in %d bytes", binfmt.ErrShortBuffer, n, r.Remaining())}}
		}
		items := make([]*binfmt.Reader, n)
		for i := range items {
			items[i] = r.Sub(int(r.U32()))
		}
		if r.Err() != nil {
			return nil
		}
		ref.Resize(n)
		var issues []Issue
		for i, item := range items {
			elemPath := fmt.Sprintf("%s.%d", path, i)
			issues = append(issues, readPayload(item, elemPath, ref.Elem(i))...)
			if err := item.Err(); err != nil {
				issues = append(issues, Issue{Path: elemPath, Err: err})
			}
		}
		e.Changed()
		return issues
	default:
		panic(fmt.Sprintf("serial: unhandled ref %T", e.Ref))
	}
	e.Changed()
	return nil
}

func readScalar(r *binfmt.Reader, tag engine.TypeTag) any {
	switch tag {
	case engine.TagBool:
		return r.Bool()
	case engine.TagInt, engine.TagInt64, engine.TagEnum:
		return r.I64()
	case engine.TagInt32:
		return int64(int32(r.U32()))
	case engine.TagUint8:
		return uint64(r.U8())
	case engine.TagUint32:
		return uint64(r.U32())
	case engine.TagUint64:
		return r.U64()
	case engine.TagFloat32:
		return float64(r.F32())
	case engine.TagFloat64:
		return r.F64()
	case engine.TagVector3:
		return rl.Vector3{X: r.F32(), Y: r.F32(), Z: r.F32()}
	case engine.TagColor:
		return rl.Color{R: r.U8(), G: r.U8(), B: r.U8(), A: r.U8()}
	}
	panic(fmt.Sprintf("serial: tag %d is not a scalar", tag))
}
