package fsys

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"
)

// MemoryFS is a pure in-memory filesystem for tests.
//
// ReadDir returns entries in creation order rather than sorted order, which
// lets callers exercise code that must not depend on enumeration order.
type MemoryFS struct {
	files map[string][]byte
	dirs  map[string]struct{}
	order []string
}

func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files: make(map[string][]byte),
		dirs:  map[string]struct{}{".": {}, "/": {}},
	}
}

func clean(p string) string {
	if p == "" {
		return "."
	}
	return path.Clean(filepath.ToSlash(p))
}

func (m *MemoryFS) ReadDir(p string) ([]os.DirEntry, error) {
	p = clean(p)
	if _, ok := m.dirs[p]; !ok {
		if _, isFile := m.files[p]; isFile {
			return nil, &fs.PathError{Op: "readdir", Path: p, Err: fmt.Errorf("not a directory")}
		}
		return nil, &fs.PathError{Op: "readdir", Path: p, Err: fs.ErrNotExist}
	}

	var entries []os.DirEntry
	for _, name := range m.order {
		if path.Dir(name) != p {
			continue
		}
		if data, ok := m.files[name]; ok {
			entries = append(entries, memEntry{name: path.Base(name), size: int64(len(data))})
		} else if _, ok := m.dirs[name]; ok {
			entries = append(entries, memEntry{name: path.Base(name), dir: true})
		}
	}
	return entries, nil
}

func (m *MemoryFS) ReadFile(p string) ([]byte, error) {
	p = clean(p)
	data, ok := m.files[p]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *MemoryFS) WriteFile(p string, data []byte, _ os.FileMode) error {
	p = clean(p)
	if _, ok := m.dirs[path.Dir(p)]; !ok {
		return &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	if _, isDir := m.dirs[p]; isDir {
		return &fs.PathError{Op: "open", Path: p, Err: fmt.Errorf("is a directory")}
	}
	if _, exists := m.files[p]; !exists {
		m.order = append(m.order, p)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	m.files[p] = buf
	return nil
}

func (m *MemoryFS) MkdirAll(p string, _ os.FileMode) error {
	p = clean(p)
	for cur := p; ; cur = path.Dir(cur) {
		if _, isFile := m.files[cur]; isFile {
			return &fs.PathError{Op: "mkdir", Path: cur, Err: fmt.Errorf("not a directory")}
		}
		if _, ok := m.dirs[cur]; ok {
			break
		}
		m.dirs[cur] = struct{}{}
		m.order = append(m.order, cur)
	}
	return nil
}

func (m *MemoryFS) Remove(p string) error {
	p = clean(p)
	if _, ok := m.files[p]; ok {
		delete(m.files, p)
		m.forget(p)
		return nil
	}
	if _, ok := m.dirs[p]; ok {
		for _, name := range m.order {
			if path.Dir(name) == p {
				return &fs.PathError{Op: "remove", Path: p, Err: fmt.Errorf("directory not empty")}
			}
		}
		delete(m.dirs, p)
		m.forget(p)
		return nil
	}
	return &fs.PathError{Op: "remove", Path: p, Err: fs.ErrNotExist}
}

func (m *MemoryFS) forget(p string) {
	for i, name := range m.order {
		if name == p {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

type memEntry struct {
	name string
	size int64
	dir  bool
}

func (e memEntry) Name() string { return e.name }
func (e memEntry) IsDir() bool  { return e.dir }

func (e memEntry) Type() fs.FileMode {
	if e.dir {
		return fs.ModeDir
	}
	return 0
}

func (e memEntry) Info() (fs.FileInfo, error) { return memInfo{e}, nil }

type memInfo struct{ e memEntry }

func (i memInfo) Name() string { return i.e.name }
func (i memInfo) Size() int64  { return i.e.size }

func (i memInfo) Mode() fs.FileMode {
	if i.e.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}

func (i memInfo) ModTime() time.Time { return time.Time{} }
func (i memInfo) IsDir() bool        { return i.e.dir }
func (i memInfo) Sys() any           { return nil }
