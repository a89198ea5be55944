package engine

// RenderNotifier is told when a reflective write changes something a render
// batch depends on. Notifications are not awaited.
type RenderNotifier interface {
	MarkBatchDirty(id ID)
}

// SetAssets sets the resolver components use to look up asset references.
func (s *Scene) SetAssets(r AssetResolver) {
	s.assets = r
}

// Assets returns the scene's asset resolver. May be nil.
func (s *Scene) Assets() AssetResolver {
	return s.assets
}

// SetRenderNotifier sets the renderer hook used by MarkBatchDirty.
func (s *Scene) SetRenderNotifier(n RenderNotifier) {
	s.render = n
}

// MarkBatchDirty forwards to the renderer hook, if any.
func (s *Scene) MarkBatchDirty(id ID) {
	if s.render != nil {
		s.render.MarkBatchDirty(id)
	}
}
