// Package fs reads asset sources and writes the output tree.
package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*FileSystem)(nil)

// FileSystem implements ports.FileSystem below a project root.
// Every path it accepts or returns is slash-separated and relative to that root.
type FileSystem struct {
	root    string
	fsys    iofs.FS
	outputs []string
}

// Option configures a FileSystem.
type Option func(*FileSystem)

// WithOutputs registers the output directories of every asset kind.
// Write then refuses a target that belongs to a directory nested below the
// one it writes into, so no two kinds ever produce the same file.
func WithOutputs(dirs ...string) Option {
	return func(f *FileSystem) {
		for _, dir := range dirs {
			f.outputs = append(f.outputs, path.Clean(filepath.ToSlash(dir)))
		}
	}
}

// New creates a FileSystem rooted at the absolute directory root.
func New(root string, opts ...Option) *FileSystem {
	f := &FileSystem{root: root, fsys: os.DirFS(root)}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Root returns the absolute project root.
func (f *FileSystem) Root() string {
	return f.root
}

// Read expands spec.Source and loads every matching file. Entry paths are
// relative to spec.Base and sorted. A missing source directory yields no entries.
func (f *FileSystem) Read(ctx context.Context, spec domain.PathSpec) ([]domain.FileEntry, error) {
	matches, err := doublestar.Glob(f.fsys, spec.Source, doublestar.WithFilesOnly())
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrSourceReadFailed.Error()), "pattern", spec.Source)
	}
	sort.Strings(matches)

	entries := make([]domain.FileEntry, 0, len(matches))
	for _, match := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rel, ok := relativeTo(spec.Base, match)
		if !ok {
			return nil, zerr.With(zerr.With(domain.ErrSourceReadFailed, "base", spec.Base), "path", match)
		}

		abs := filepath.Join(f.root, filepath.FromSlash(match))
		// #nosec G304 -- abs is a glob match below the project root
		contents, err := os.ReadFile(abs)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrSourceReadFailed.Error()), "path", match)
		}

		entries = append(entries, domain.FileEntry{Path: rel, Source: abs, Contents: contents})
	}

	return entries, nil
}

// Write stores entry at dir/entry.Path, creating parent directories.
// It refuses paths escaping dir and paths owned by another output directory.
func (f *FileSystem) Write(ctx context.Context, dir string, entry domain.FileEntry) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir = path.Clean(dir)
	target := path.Join(dir, entry.Path)
	if _, ok := relativeTo(dir, target); !ok || !within(".", dir) {
		return "", zerr.With(zerr.With(domain.ErrOutputPathOutsideRoot, "dir", dir), "path", entry.Path)
	}
	if owner, ok := f.owner(dir, target); ok {
		return "", zerr.With(zerr.With(domain.ErrOverlappingOutputs, "owner", owner), "path", target)
	}

	abs := filepath.Join(f.root, filepath.FromSlash(target))
	if err := os.MkdirAll(filepath.Dir(abs), domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", target)
	}
	if err := os.WriteFile(abs, entry.Contents, domain.FilePerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrOutputWriteFailed.Error()), "path", target)
	}

	return target, nil
}

// Clean removes the output root recursively. A missing directory is not an
// error. The project root itself and paths outside it are refused.
func (f *FileSystem) Clean(ctx context.Context, out string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out = path.Clean(filepath.ToSlash(out))
	if out == "." || !within(".", out) {
		return zerr.With(domain.ErrOutputPathOutsideRoot, "output", out)
	}

	abs := filepath.Join(f.root, filepath.FromSlash(out))
	if _, err := os.Lstat(abs); errors.Is(err, iofs.ErrNotExist) {
		return nil
	}
	if err := os.RemoveAll(abs); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "output", out)
	}
	return nil
}

// owner returns the registered output directory, nested below dir, that
// contains target.
func (f *FileSystem) owner(dir, target string) (string, bool) {
	for _, other := range f.outputs {
		if other == dir {
			continue
		}
		if _, below := relativeTo(dir, other); !below {
			continue
		}
		if _, ok := relativeTo(other, target); ok {
			return other, true
		}
	}
	return "", false
}

// relativeTo returns target relative to base when target lies strictly below base.
func relativeTo(base, target string) (string, bool) {
	base = path.Clean(base)
	target = path.Clean(target)
	if base == "." {
		if !within(".", target) || target == "." {
			return "", false
		}
		return target, true
	}
	rel, found := strings.CutPrefix(target, base+"/")
	if !found || rel == "" {
		return "", false
	}
	return rel, within(".", rel)
}

func within(root, target string) bool {
	if path.IsAbs(target) {
		return false
	}
	if root == "." {
		return target != ".." && !strings.HasPrefix(target, "../")
	}
	return target == root || strings.HasPrefix(target, root+"/")
}
