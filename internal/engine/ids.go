package engine

import (
	"strconv"
	"sync/atomic"
)

// ID identifies a runtime object (node, component) or a persisted asset file.
// Stored data refers to other graph objects only through IDs.
type ID uint64

// NoID is the reserved "no target" id.
const NoID ID = 0

// AssetIDOffset is the first id of the asset-file space. Runtime ids stay below it.
const AssetIDOffset ID = 1 << 48

var (
	nextRuntimeID atomic.Uint64
	nextAssetID   atomic.Uint64
)

func init() {
	nextAssetID.Store(uint64(AssetIDOffset))
}

// NewID returns the next id from the runtime or asset counter.
// Ids are never reused within a process; unloading a scene does not reset the counters.
func NewID(forAsset bool) ID {
	if forAsset {
		return ID(nextAssetID.Add(1))
	}
	id := ID(nextRuntimeID.Add(1))
	if id >= AssetIDOffset {
		panic("engine: runtime id space exhausted")
	}
	return id
}

// ObserveID moves the matching counter past id, so an id restored from a
// document is never handed out again by NewID.
func ObserveID(id ID) {
	var counter *atomic.Uint64
	switch {
	case IsRuntimeID(id):
		counter = &nextRuntimeID
	case IsAssetID(id):
		counter = &nextAssetID
	default:
		return
	}
	for {
		cur := counter.Load()
		if cur >= uint64(id) {
			return
		}
		if counter.CompareAndSwap(cur, uint64(id)) {
			return
		}
	}
}

// IsAssetID reports whether id belongs to the asset-file space.
func IsAssetID(id ID) bool {
	return id >= AssetIDOffset
}

// IsRuntimeID reports whether id belongs to the node/component space.
func IsRuntimeID(id ID) bool {
	return id != NoID && id < AssetIDOffset
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseID parses the decimal form written by String.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return NoID, err
	}
	return ID(v), nil
}
