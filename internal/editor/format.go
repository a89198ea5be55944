package editor

import (
	"fmt"
	"strconv"

	rl "github.com/gen2brain/raylib-go/raylib"

	"mirgo/internal/engine"
)

// FormatValue renders an entry's current value as inspector text.
func FormatValue(e engine.Entry, s *engine.Scene) string {
	switch r := e.Ref.(type) {
	case *engine.ScalarRef:
		return formatScalar(e, r.Value())
	case *engine.TextRef:
		return r.Get()
	case *engine.DocumentRef:
		if n := r.Get(); n != nil {
			return fmt.Sprintf("(%d fields)", len(n.Content)/2)
		}
		return "(empty)"
	case *engine.ObjectRef:
		return e.Name
	case *engine.NodeLink:
		id := r.Get()
		if id == engine.NoID {
			return "None"
		}
		if g := s.FindByUID(id); g != nil {
			return fmt.Sprintf("%s (#%d)", g.Name, id)
		}
		return fmt.Sprintf("Missing (#%d)", id)
	case *engine.ComponentLink:
		id := r.Get()
		if id == engine.NoID {
			return "None"
		}
		if c := s.FindComponent(id); c != nil {
			owner := "?"
			if g := c.GetGameObject(); g != nil {
				owner = g.Name
			}
			return fmt.Sprintf("%s.%s (#%d)", owner, c.TypeName(), id)
		}
		return fmt.Sprintf("Missing (#%d)", id)
	case *engine.AssetLink:
		id := r.Get()
		if id == engine.NoID {
			return "None"
		}
		if res := s.Assets(); res != nil {
			if a := res.Asset(id); a != nil {
				return a.Path()
			}
		}
		return fmt.Sprintf("asset #%d", id)
	case *engine.ListRef:
		return fmt.Sprintf("%s [%d]", e.Name, r.Len())
	}
	return ""
}

func formatScalar(e engine.Entry, v any) string {
	switch x := v.(type) {
	case bool:
		return strconv.FormatBool(x)
	case int64:
		if e.IsEnum() && x >= 0 && int(x) < len(e.Meta.EnumNames) {
			return e.Meta.EnumNames[x]
		}
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		bits := 64
		if e.Tag == engine.TagFloat32 {
			bits = 32
		}
		return strconv.FormatFloat(x, 'f', 2, bits)
	case rl.Vector3:
		return fmt.Sprintf("%.2f, %.2f, %.2f", x.X, x.Y, x.Z)
	case rl.Color:
		return colorName(x)
	}
	return fmt.Sprint(v)
}

// colorName returns a human-readable name for common colors.
func colorName(c rl.Color) string {
	switch c {
	case rl.Red:
		return "Red"
	case rl.Blue:
		return "Blue"
	case rl.Green:
		return "Green"
	case rl.Purple:
		return "Purple"
	case rl.Orange:
		return "Orange"
	case rl.Yellow:
		return "Yellow"
	case rl.White:
		return "White"
	case rl.Gray:
		return "Gray"
	case rl.Black:
		return "Black"
	case rl.Gold:
		return "Gold"
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func isInteger(tag engine.TypeTag) bool {
	switch tag {
	case engine.TagInt, engine.TagInt32, engine.TagInt64, engine.TagUint8, engine.TagUint32, engine.TagUint64:
		return true
	}
	return false
}

func asFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	}
	return 0
}
