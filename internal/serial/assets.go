package serial

import (
	"slices"

	"mirgo/internal/engine"
)

// AssetSet accumulates the asset ids referenced by encoded entries.
type AssetSet map[engine.ID]struct{}

func (s AssetSet) Add(id engine.ID) {
	if id != engine.NoID {
		s[id] = struct{}{}
	}
}

// Sorted returns the ids in ascending order.
func (s AssetSet) Sorted() []engine.ID {
	out := make([]engine.ID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// CollectAssets adds every asset id reachable from entries, including nested
// objects and lists.
func CollectAssets(entries []engine.Entry, set AssetSet) {
	engine.Walk(entries, func(_ string, e engine.Entry) {
		if link, ok := e.Ref.(*engine.AssetLink); ok {
			set.Add(link.Get())
		}
	})
}
