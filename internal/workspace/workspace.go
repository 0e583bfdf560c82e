// Package workspace manages the per-category destination directories
// for a download run.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/vmunix/fetcharr/pkg/asset"
)

// ErrPrepare is returned when a category directory cannot be created or
// emptied. Preparation failures are fatal: a partially prepared
// workspace would corrupt the run's accounting.
var ErrPrepare = errors.New("workspace preparation failed")

// Manager owns the category directories under a root path.
type Manager struct {
	root   string
	logger *slog.Logger
}

// NewManager creates a manager rooted at root.
func NewManager(root string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{root: root, logger: logger}
}

// Root returns the workspace root path.
func (m *Manager) Root() string {
	return m.root
}

// Dir returns the absolute destination directory for a category.
// CategoryUnknown has no directory and returns "".
func (m *Manager) Dir(c asset.Category) string {
	name := c.Dir()
	if name == "" {
		return ""
	}
	return filepath.Join(m.root, name)
}

// Prepare ensures every category directory exists and is empty.
// Existing directories are emptied destructively, one entry at a time,
// with a log line per removed entry. Stale files from a previous run
// must never leak into a new run's report, so this is a hard
// precondition of every run. Idempotent.
func (m *Manager) Prepare(categories []asset.Category) error {
	for _, c := range categories {
		dir := m.Dir(c)
		if dir == "" {
			continue
		}
		if err := m.prepareDir(dir); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrPrepare, dir, err)
		}
	}
	return nil
}

func (m *Manager) prepareDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			m.logger.Info("creating directory", "dir", dir)
			return os.MkdirAll(dir, 0755)
		}
		return err
	}

	m.logger.Info("cleaning directory", "dir", dir, "entries", len(entries))
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			if err := os.RemoveAll(path); err != nil {
				return err
			}
			m.logger.Info("removed directory", "name", e.Name())
		} else {
			if err := os.Remove(path); err != nil {
				return err
			}
			m.logger.Info("removed file", "name", e.Name())
		}
	}
	return nil
}

// Entry is one downloaded file in a category directory.
type Entry struct {
	Name string
	Size int64
}

// Listing returns the files currently in a category directory, sorted
// by name. A missing directory yields an empty listing.
func (m *Manager) Listing(c asset.Category) ([]Entry, error) {
	dir := m.Dir(c)
	if dir == "" {
		return nil, nil
	}
	dirents, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var entries []Entry
	for _, e := range dirents {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Name: e.Name(), Size: info.Size()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}
