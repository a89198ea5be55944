package assets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

var ErrNotExist = errors.New("assets: file does not exist")

// File is a byte stream opened from a FileSystem.
type File interface {
	ReadAll() ([]byte, error)
	// ReadRange reads up to n bytes starting at off.
	ReadRange(off int64, n int) ([]byte, error)
	Write(p []byte) (int, error)
	Close() error
}

// FileSystem opens files for reading and creates them for writing.
type FileSystem interface {
	Open(path string) (File, error)
	Create(path string) (File, error)
}

// OSFS reads and writes files below Root on the host file system.
type OSFS struct {
	Root string
}

func (fsys OSFS) resolve(path string) string {
	if fsys.Root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(fsys.Root, path)
}

func (fsys OSFS) Open(path string) (File, error) {
	f, err := os.Open(fsys.resolve(path))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
	}
	if err != nil {
		return nil, err
	}
	return osFile{f}, nil
}

func (fsys OSFS) Create(path string) (File, error) {
	full := fsys.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(full)
	if err != nil {
		return nil, err
	}
	return osFile{f}, nil
}

type osFile struct {
	f *os.File
}

func (o osFile) ReadAll() ([]byte, error) {
	if _, err := o.f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(o.f)
}

func (o osFile) ReadRange(off int64, n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := o.f.ReadAt(buf, off)
	if err == io.EOF {
		err = nil
	}
	return buf[:read], err
}

func (o osFile) Write(p []byte) (int, error) { return o.f.Write(p) }

func (o osFile) Close() error { return o.f.Close() }

// MemFS is an in-memory FileSystem. Written files become visible on Close.
type MemFS struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

// WriteFile stores data at path.
func (m *MemFS) WriteFile(path string, data []byte) {
	m.mu.Lock()
	m.files[filepath.ToSlash(path)] = append([]byte(nil), data...)
	m.mu.Unlock()
}

// ReadFile returns a copy of the file at path.
func (m *MemFS) ReadFile(path string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[filepath.ToSlash(path)]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), data...), true
}

func (m *MemFS) Open(path string) (File, error) {
	data, ok := m.ReadFile(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
	}
	return &memFile{data: data}, nil
}

func (m *MemFS) Create(path string) (File, error) {
	return &memFile{fs: m, path: path}, nil
}

type memFile struct {
	fs     *MemFS
	path   string
	data   []byte
	closed bool
}

func (f *memFile) ReadAll() ([]byte, error) {
	return f.data, nil
}

func (f *memFile) ReadRange(off int64, n int) ([]byte, error) {
	if off >= int64(len(f.data)) {
		return nil, nil
	}
	end := off + int64(n)
	if end > int64(len(f.data)) {
		end = int64(len(f.data))
	}
	return f.data[off:end], nil
}

func (f *memFile) Write(p []byte) (int, error) {
	if f.fs == nil {
		return 0, fmt.Errorf("assets: %s opened read-only", f.path)
	}
	f.data = append(f.data, p...)
	return len(p), nil
}

func (f *memFile) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if f.fs != nil {
		f.fs.WriteFile(f.path, f.data)
	}
	return nil
}
