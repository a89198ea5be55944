package world

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mirgo/internal/assets"
	"mirgo/internal/engine"
	"mirgo/internal/serial"
)

// Load replaces the scene with the contents of d. On error the scene is left empty.
func (w *World) Load(d *Document) (*LoadReport, error) {
	w.Unload()
	report, err := w.load(d, nil, -1)
	if err != nil {
		w.Unload()
		w.log.Error("scene load failed", zap.Error(err))
		return nil, err
	}
	if d.GUID != "" {
		if id, perr := uuid.Parse(d.GUID); perr == nil {
			w.GUID = id
		} else {
			report.warnf("guid %q: %v", d.GUID, perr)
		}
	}
	if d.Name != "" {
		w.Scene.Name = d.Name
	}
	if d.Lighting != nil {
		for _, issue := range (&serial.Decoder{}).Decode(d.Lighting, w.Lighting.Describe()) {
			report.warnf("lighting.%s", issue.Error())
		}
	}
	w.log.Info("scene loaded", zap.String("scene", w.Scene.Name), zap.String("summary", report.Summary()))
	return report, nil
}

// LoadBytes parses scene text and loads it. A parse failure leaves the scene empty.
func (w *World) LoadBytes(data []byte) (*LoadReport, error) {
	d, err := ParseDocument(data)
	if err != nil {
		w.Unload()
		w.log.Error("scene parse failed", zap.Error(err))
		return nil, err
	}
	return w.Load(d)
}

// LoadFile reads and loads a scene from fsys.
func (w *World) LoadFile(fsys assets.FileSystem, path string) (*LoadReport, error) {
	f, err := fsys.Open(path)
	if err != nil {
		w.Unload()
		return nil, fmt.Errorf("read scene: %w", err)
	}
	defer f.Close()
	data, err := f.ReadAll()
	if err != nil {
		w.Unload()
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return w.LoadBytes(data)
}

// LoadFragment merges the nodes of d into the live scene. Fragment roots are
// placed under parent (nil for the scene root) starting at index; -1 appends.
// Persisted ids are kept, so they must not be live. On error nothing is added.
func (w *World) LoadFragment(d *Document, parent *engine.GameObject, index int) (*LoadReport, error) {
	for _, n := range d.Nodes {
		if w.Scene.FindByUID(n.ID) != nil {
			return nil, fmt.Errorf("%w: node %d is live", engine.ErrDuplicateID, n.ID)
		}
		for _, b := range n.Behaviors {
			if w.Scene.FindComponent(b.ID) != nil {
				return nil, fmt.Errorf("%w: component %d is live", engine.ErrDuplicateID, b.ID)
			}
		}
	}
	return w.load(d, parent, index)
}

type loadedNode struct {
	doc        *NodeDoc
	node       *engine.GameObject
	components []engine.Component
}

// load runs the create, link and bind passes. Each pass needs the previous
// one to be complete for every node.
func (w *World) load(d *Document, parent *engine.GameObject, index int) (report *LoadReport, err error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	report = &LoadReport{}

	for _, n := range d.Nodes {
		engine.ObserveID(n.ID)
		for _, b := range n.Behaviors {
			engine.ObserveID(b.ID)
		}
	}

	failedAssets := w.requestAssets(d.Assets, report)
	assetOK := func(id engine.ID) bool { return !failedAssets[id] }

	loaded := make([]loadedNode, 0, len(d.Nodes))
	defer func() {
		if err != nil {
			for _, l := range loaded {
				w.Scene.Destroy(l.node)
			}
			w.Scene.FlushDeletions()
		}
	}()

	// create
	provisional := &serial.Decoder{Scene: w.Scene, AssetOK: assetOK}
	for i := range d.Nodes {
		nd := &d.Nodes[i]
		g := w.Scene.CreateGameObject("")
		l := loadedNode{doc: nd, node: g}
		loaded = append(loaded, l)
		if err := w.Scene.RestoreID(g, nd.ID); err != nil {
			return nil, fmt.Errorf("create node %d: %w", nd.ID, err)
		}
		provisional.Decode(nd.Values, g.Describe())

		for _, bd := range nd.Behaviors {
			c, ok := w.registry.Create(bd.Type)
			if !ok {
				c = newMissing(bd.Type, bd.Values)
				if !slices.Contains(report.Unresolved, bd.Type) {
					report.Unresolved = append(report.Unresolved, bd.Type)
				}
				w.log.Warn("unknown component type kept as placeholder", zap.String("type", bd.Type), zap.Stringer("id", bd.ID))
			}
			if err := w.Scene.AttachComponent(g, c); err != nil {
				return nil, fmt.Errorf("create component %d: %w", bd.ID, err)
			}
			if err := w.Scene.RestoreComponentID(c, bd.ID); err != nil {
				return nil, fmt.Errorf("create component %d: %w", bd.ID, err)
			}
			c.SetEnabled(bd.Enabled)
			if ok {
				provisional.Decode(bd.Values, c.Describe())
			}
			loaded[len(loaded)-1].components = append(loaded[len(loaded)-1].components, c)
		}
	}

	// link
	for _, l := range loaded {
		for _, childID := range l.doc.Children {
			child := w.Scene.FindByUID(childID)
			if child == nil {
				report.warnf("node %d lists missing child %d", l.doc.ID, childID)
				continue
			}
			if err := w.Scene.AddChild(l.node, child); err != nil {
				return nil, fmt.Errorf("link node %d: %w", childID, err)
			}
		}
	}
	for i, rootID := range d.Roots() {
		root := w.Scene.FindByUID(rootID)
		at := -1
		if index >= 0 {
			at = index + i
		}
		if parent != nil || at >= 0 {
			if err := w.Scene.Reparent(root, parent, at, false); err != nil {
				return nil, fmt.Errorf("link root %d: %w", rootID, err)
			}
		}
	}

	// bind
	bind := &serial.Decoder{
		Scene:   w.Scene,
		AssetOK: assetOK,
		OnDangling: func(path string, id engine.ID) {
			report.Dangling++
			w.log.Warn("dangling reference cleared", zap.String("field", path), zap.Stringer("id", id))
		},
	}
	warn := func(where string, issues []serial.Issue) {
		for _, issue := range issues {
			if errors.Is(issue.Err, serial.ErrUnknownField) {
				w.log.Debug("unknown field ignored", zap.String("at", where), zap.String("field", issue.Path))
			} else {
				w.log.Warn("value not applied", zap.String("at", where), zap.Error(issue))
			}
			report.warnf("%s: %s", where, issue.Error())
		}
	}
	for _, l := range loaded {
		where := fmt.Sprintf("node %d", l.doc.ID)
		warn(where+" transform", bind.Decode(l.doc.Transform, l.node.Transform.Describe()))
		warn(where, bind.Decode(l.doc.Values, l.node.Describe()))
		for i, c := range l.components {
			if _, missing := c.(*MissingComponent); missing {
				continue
			}
			warn(fmt.Sprintf("component %d", c.UID()), bind.Decode(l.doc.Behaviors[i].Values, c.Describe()))
		}
		report.Nodes++
		report.Components += len(l.components)
	}
	for _, l := range loaded {
		for _, c := range l.components {
			w.Scene.NotifyAttached(c)
		}
	}
	if w.StartOnLoad {
		w.Scheduler.StartAll()
	}
	return report, nil
}

func (w *World) requestAssets(ids []engine.ID, report *LoadReport) map[engine.ID]bool {
	failed := make(map[engine.ID]bool)
	if w.assets == nil {
		return failed
	}
	for _, id := range ids {
		if err := w.assets.Request(id); err != nil {
			failed[id] = true
			report.AssetErrors = append(report.AssetErrors, fmt.Sprintf("asset %d: %v", id, err))
			w.log.Warn("asset unavailable", zap.Stringer("id", id), zap.Error(err))
		}
	}
	return failed
}
