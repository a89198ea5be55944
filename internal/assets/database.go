package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"mirgo/internal/engine"
)

var (
	ErrUnknownAsset = errors.New("assets: unknown asset id")
	ErrNotAssetID   = errors.New("assets: id is outside the asset range")
)

// Database maps asset ids to files and loads them in the background.
// All methods except the worker internals are meant for the main thread;
// decoded data is only applied to assets during Flush.
type Database struct {
	fs  FileSystem
	log *zap.Logger

	mu     sync.RWMutex
	byID   map[engine.ID]asset
	byPath map[string]engine.ID

	loader     *loader
	requested  map[engine.ID]bool
	OnFinished func(a engine.Asset, err error)
}

func NewDatabase(fs FileSystem, workers int, log *zap.Logger) *Database {
	if log == nil {
		log = zap.NewNop()
	}
	return &Database{
		fs:        fs,
		log:       log,
		byID:      make(map[engine.ID]asset),
		byPath:    make(map[string]engine.ID),
		loader:    newLoader(fs, workers),
		requested: make(map[engine.ID]bool),
	}
}

func cleanPath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// Import returns the id of the file at path, assigning a new one the first time.
func (db *Database) Import(path string) engine.ID {
	path = cleanPath(path)
	db.mu.Lock()
	defer db.mu.Unlock()
	if id, ok := db.byPath[path]; ok {
		return id
	}
	id := engine.NewID(true)
	db.add(id, path)
	return id
}

// Register binds a known id to path, as read back from an index.
func (db *Database) Register(id engine.ID, path string) error {
	if !engine.IsAssetID(id) {
		return fmt.Errorf("%w: %d", ErrNotAssetID, id)
	}
	path = cleanPath(path)
	db.mu.Lock()
	defer db.mu.Unlock()
	if old, ok := db.byPath[path]; ok && old != id {
		return fmt.Errorf("assets: %s already registered as %d", path, old)
	}
	if a, ok := db.byID[id]; ok && a.header().path != path {
		return fmt.Errorf("assets: id %d already registered for %s", id, a.header().path)
	}
	engine.ObserveID(id)
	db.add(id, path)
	return nil
}

func (db *Database) add(id engine.ID, path string) {
	a, _ := newAsset(id, path)
	db.byID[id] = a
	db.byPath[path] = id
}

// Path returns the file path of an asset id.
func (db *Database) Path(id engine.ID) (string, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	a, ok := db.byID[id]
	if !ok {
		return "", false
	}
	return a.header().path, true
}

// Lookup returns the id registered for path.
func (db *Database) Lookup(path string) (engine.ID, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	id, ok := db.byPath[cleanPath(path)]
	return id, ok
}

// Asset returns the asset for id whether or not it has finished loading.
func (db *Database) Asset(id engine.ID) engine.Asset {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if a, ok := db.byID[id]; ok {
		return a
	}
	return nil
}

// Len returns the number of registered assets.
func (db *Database) Len() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.byID)
}

// IDs returns every registered id in ascending order.
func (db *Database) IDs() []engine.ID {
	db.mu.RLock()
	ids := make([]engine.ID, 0, len(db.byID))
	for id := range db.byID {
		ids = append(ids, id)
	}
	db.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Request schedules a background load. Loads already done or in flight are not repeated.
func (db *Database) Request(id engine.ID) error {
	db.mu.RLock()
	a, ok := db.byID[id]
	db.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAsset, id)
	}
	h := a.header()
	if h.ready || db.requested[id] {
		return nil
	}
	db.requested[id] = true
	_, decode := newAsset(id, h.path)
	db.loader.submit(loadJob{id: id, path: h.path, decode: decode})
	return nil
}

// Reload loads id again even if it is already ready.
func (db *Database) Reload(id engine.ID) error {
	db.mu.RLock()
	a, ok := db.byID[id]
	db.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAsset, id)
	}
	a.header().ready = false
	return db.Request(id)
}

// Flush applies finished loads. Call it once per frame from the main thread.
// It returns the number of assets finished.
func (db *Database) Flush() int {
	results := db.loader.drain()
	for _, res := range results {
		delete(db.requested, res.id)
		db.mu.RLock()
		a, ok := db.byID[res.id]
		db.mu.RUnlock()
		if !ok {
			continue
		}
		h := a.header()
		h.err = res.err
		if res.err != nil {
			db.log.Warn("asset load failed", zap.String("path", h.path), zap.Error(res.err))
		} else {
			a.finalize(res.decoded)
			h.ready = true
			db.log.Debug("asset loaded", zap.String("path", h.path), zap.Stringer("kind", h.kind))
		}
		if db.OnFinished != nil {
			db.OnFinished(a, res.err)
		}
	}
	return len(results)
}

// Pending returns the number of loads that have not been flushed yet.
func (db *Database) Pending() int {
	return db.loader.pending()
}

// Wait blocks until every requested load has decoded, then flushes.
func (db *Database) Wait() int {
	db.loader.wait()
	return db.Flush()
}

// Unload drops loaded data. Registrations are kept.
func (db *Database) Unload() {
	db.loader.wait()
	db.loader.drain()
	db.mu.Lock()
	defer db.mu.Unlock()
	for id, a := range db.byID {
		if t, ok := a.(*Texture); ok {
			t.unload()
		}
		fresh, _ := newAsset(id, a.header().path)
		db.byID[id] = fresh
	}
	clear(db.requested)
}

// Get narrows the asset for id to T.
func Get[T engine.Asset](db *Database, id engine.ID) (T, bool) {
	var zero T
	a := db.Asset(id)
	if a == nil {
		return zero, false
	}
	typed, ok := a.(T)
	return typed, ok
}
