// Package destination stores generated documents.
package destination

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
)

// ErrInvalidName is returned for names that are not a single path element.
var ErrInvalidName = errors.New("invalid output name")

// Destination receives finished documents by file name.
type Destination interface {
	// Exists reports whether name is already taken at the destination.
	Exists(name string) bool
	// Write stores data under name, replacing nothing on failure.
	Write(name string, data []byte) error
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Dir writes documents into a directory on disk. The directory is created
// on first write.
type Dir struct {
	root string
}

// NewDir returns a destination rooted at dir.
func NewDir(dir string) *Dir {
	return &Dir{root: dir}
}

// Root returns the output directory.
func (d *Dir) Root() string {
	return d.root
}

// Exists reports whether a file named name exists in the directory.
func (d *Dir) Exists(name string) bool {
	if checkName(name) != nil {
		return false
	}
	_, err := os.Lstat(filepath.Join(d.root, name))
	return err == nil
}

// Write atomically writes data to name in the directory.
func (d *Dir) Write(name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(d.root, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(d.root, name)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Memory keeps documents in memory. It backs dry runs and tests.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemory returns an empty in-memory destination. Names in existing are
// reported as taken.
func NewMemory(existing ...string) *Memory {
	m := &Memory{files: make(map[string][]byte)}
	for _, name := range existing {
		m.files[name] = nil
	}
	return m
}

// Exists reports whether name has been written.
func (m *Memory) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[name]
	return ok
}

// Write stores a copy of data under name.
func (m *Memory) Write(name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = append([]byte(nil), data...)
	return nil
}

// File returns the data stored under name.
func (m *Memory) File(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	return data, ok
}

// Names returns the stored names in sorted order.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
