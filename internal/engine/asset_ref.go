package engine

// Asset is a persisted file the graph can own a reference to.
type Asset interface {
	AssetID() ID
	Path() string
	Ready() bool
}

// AssetResolver looks assets up by id. The asset database implements it.
type AssetResolver interface {
	Asset(id ID) Asset
}

// AssetRef is an owning reference to an asset file. Only the id is persisted;
// the asset is looked up through the scene's resolver when needed.
type AssetRef struct {
	ID ID
}

// Get returns the referenced asset, or nil if the id is empty or unknown.
func (r AssetRef) Get(resolver AssetResolver) Asset {
	if r.ID == NoID || resolver == nil {
		return nil
	}
	return resolver.Asset(r.ID)
}

func (r AssetRef) IsValid() bool {
	return r.ID != NoID
}

func (r *AssetRef) Set(a Asset) {
	if a == nil {
		r.ID = NoID
	} else {
		r.ID = a.AssetID()
	}
}

// ResolveAsset resolves r and narrows it to T.
func ResolveAsset[T Asset](resolver AssetResolver, r AssetRef) (T, bool) {
	var zero T
	a := r.Get(resolver)
	if a == nil {
		return zero, false
	}
	typed, ok := a.(T)
	return typed, ok
}
