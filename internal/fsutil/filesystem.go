// Package fsutil abstracts the filesystem operations the evaluator needs, so
// that sequence evaluation can run against an in-memory tree in tests.
package fsutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// FileSystem is the read/probe/write surface used by the evaluation pipeline.
// Use OS for production and NewMemory for tests.
type FileSystem interface {
	// ReadFile reads the named file and returns its contents.
	ReadFile(name string) ([]byte, error)

	// WriteFile writes data to the named file, creating it if necessary.
	WriteFile(name string, data []byte, perm os.FileMode) error

	// Exists reports whether a file or directory exists at name.
	Exists(name string) bool

	// IsDir reports whether name exists and is a directory.
	IsDir(name string) bool

	// ReadDir lists the immediate children of a directory.
	ReadDir(name string) ([]fs.DirEntry, error)

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string, perm os.FileMode) error
}

// OS implements FileSystem against the real filesystem.
type OS struct{}

// ReadFile reads the named file.
func (OS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

// WriteFile writes data to the named file.
func (OS) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// Exists reports whether the named file or directory exists.
func (OS) Exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

// IsDir reports whether the named path is a directory.
func (OS) IsDir(name string) bool {
	info, err := os.Stat(name)
	return err == nil && info.IsDir()
}

// ReadDir lists the immediate children of a directory.
func (OS) ReadDir(name string) ([]fs.DirEntry, error) { return os.ReadDir(name) }

// MkdirAll creates a directory path.
func (OS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

// Memory is an in-memory FileSystem for tests. Directories are tracked
// explicitly; writing a file does not implicitly create its parents.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool
}

// NewMemory creates an empty in-memory filesystem.
func NewMemory() *Memory {
	return &Memory{
		files: make(map[string][]byte),
		dirs:  make(map[string]bool),
	}
}

// ReadFile reads a file's contents.
func (m *Memory) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[filepath.Clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// WriteFile stores data under name.
func (m *Memory) WriteFile(name string, data []byte, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	m.files[filepath.Clean(name)] = stored
	return nil
}

// Exists reports whether name is a known file or directory.
func (m *Memory) Exists(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = filepath.Clean(name)
	if _, ok := m.files[name]; ok {
		return true
	}
	return m.dirs[name]
}

// IsDir reports whether name is a known directory.
func (m *Memory) IsDir(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[filepath.Clean(name)]
}

// ReadDir lists the immediate children of a directory.
func (m *Memory) ReadDir(name string) ([]fs.DirEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = filepath.Clean(name)
	if !m.dirs[name] {
		return nil, &fs.PathError{Op: "readdir", Path: name, Err: fs.ErrNotExist}
	}

	seen := make(map[string]bool)
	var entries []fs.DirEntry
	add := func(child string, dir bool) {
		rel, ok := childOf(name, child)
		if !ok || seen[rel] {
			return
		}
		seen[rel] = true
		entries = append(entries, memEntry{name: rel, dir: dir})
	}
	for d := range m.dirs {
		add(d, true)
	}
	for f := range m.files {
		add(f, false)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// MkdirAll records a directory and all of its parents.
func (m *Memory) MkdirAll(path string, _ os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	for p := path; p != "." && p != string(filepath.Separator); p = filepath.Dir(p) {
		m.dirs[p] = true
	}
	return nil
}

// childOf returns the first path element of candidate below parent.
func childOf(parent, candidate string) (string, bool) {
	if candidate == parent {
		return "", false
	}
	prefix := parent + string(filepath.Separator)
	if parent == "." {
		prefix = ""
	}
	if !strings.HasPrefix(candidate, prefix) {
		return "", false
	}
	rest := strings.TrimPrefix(candidate, prefix)
	if i := strings.IndexRune(rest, filepath.Separator); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}

// memEntry implements fs.DirEntry for Memory.
type memEntry struct {
	name string
	dir  bool
}

func (e memEntry) Name() string { return e.name }

func (e memEntry) IsDir() bool { return e.dir }

func (e memEntry) Type() fs.FileMode {
	if e.dir {
		return fs.ModeDir
	}
	return 0
}

func (e memEntry) Info() (fs.FileInfo, error) { return memInfo{e}, nil }

// memInfo implements fs.FileInfo for Memory entries.
type memInfo struct{ e memEntry }

func (i memInfo) Name() string { return i.e.name }

func (i memInfo) Size() int64 { return 0 }

func (i memInfo) Mode() fs.FileMode {
	if i.e.dir {
		return fs.ModeDir | 0755
	}
	return 0644
}

func (i memInfo) ModTime() time.Time { return time.Time{} }

func (i memInfo) IsDir() bool { return i.e.dir }

func (i memInfo) Sys() any { return nil }
