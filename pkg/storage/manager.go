package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Manager writes run artifacts into one output directory and remembers
// which files it produced
type Manager struct {
	outputDir string
	written   map[string]bool
	mu        sync.RWMutex
}

// NewManager creates a new storage manager, creating outputDir if needed
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{
		outputDir: outputDir,
		written:   make(map[string]bool),
	}, nil
}

// Path resolves name inside the output directory. Absolute names and
// names that already carry a directory are returned unchanged.
func (m *Manager) Path(name string) string {
	if filepath.IsAbs(name) || filepath.Dir(name) != "." {
		return name
	}
	return filepath.Join(m.outputDir, name)
}

// Save writes a file atomically through write and records it
func (m *Manager) Save(name string, write func(w io.Writer) error) (string, error) {
	path := m.Path(name)
	if err := WriteAtomic(path, write); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.written[path] = true
	m.mu.Unlock()

	return path, nil
}

// Written returns the sorted paths saved so far
func (m *Manager) Written() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	paths := make([]string, 0, len(m.written))
	for p := range m.written {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// WriteAtomic writes path via a temporary file in the same directory and
// renames it into place, so readers never observe a partial file
func WriteAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	out, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := out.Name()

	if err := write(out); err != nil {
		out.Close()
		os.Remove(tempFile)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}

	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(tempFile)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := out.Close(); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Chmod(tempFile, 0644); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
