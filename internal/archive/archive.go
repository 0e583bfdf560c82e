// Package archive bundles the category directories into a single
// timestamped zip file.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// ErrArchive is returned when archive creation fails. The download
// summary remains valid regardless.
var ErrArchive = errors.New("archive creation failed")

// Builder creates run archives. The clock is injectable so tests get
// stable names.
type Builder struct {
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Name returns the archive filename for the given creation time.
func Name(t time.Time) string {
	return fmt.Sprintf("downloads_%s.zip", t.Format("2006-01-02_15-04-05"))
}

// Create bundles the named directories under root into a timestamped
// zip in root, with entries namespaced by directory name so the archive
// layout mirrors the on-disk layout. Missing directories are skipped.
// On success the source directories are deleted, leaving the archive as
// the run's durable output. On failure no partial archive is left
// behind and the source directories are untouched.
func (b *Builder) Create(root string, dirs []string) (string, error) {
	path := filepath.Join(root, Name(b.now()))

	if err := b.write(path, root, dirs); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("%w: %v", ErrArchive, err)
	}

	for _, dir := range dirs {
		full := filepath.Join(root, dir)
		if err := os.RemoveAll(full); err != nil {
			return path, fmt.Errorf("remove %s after archive: %w", full, err)
		}
		b.logger.Info("removed archived directory", "dir", full)
	}

	b.logger.Info("archive created", "path", path)
	return path, nil
}

func (b *Builder) write(path, root string, dirs []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	for _, dir := range dirs {
		if err := b.addDir(zw, root, dir); err != nil {
			_ = zw.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync archive: %w", err)
	}
	return nil
}

// addDir appends every file under root/dir as dir-prefixed entries.
func (b *Builder) addDir(zw *zip.Writer, root, dir string) error {
	full := filepath.Join(root, dir)
	if _, err := os.Stat(full); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(full, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("add entry %s: %w", rel, err)
		}

		src, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer func() { _ = src.Close() }()

		if _, err := io.Copy(w, src); err != nil {
			return fmt.Errorf("write entry %s: %w", rel, err)
		}
		b.logger.Debug("archived file", "entry", rel)
		return nil
	})
}
