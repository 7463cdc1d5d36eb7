// Package stages defines the ordered transformation steps of each asset kind.
package stages

import (
	"context"
	"errors"

	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports"
)

// Stage names.
const (
	NameCompile       = "compile"
	NameAutoprefix    = "autoprefix"
	NameBeautify      = "beautify"
	NameWrite         = "write"
	NameMinify        = "minify"
	NameStripComments = "strip-comments"
	NameRename        = "rename"
	NameInclude       = "include"
	NameOptimize      = "optimize"
)

// Stage is one named step of a sequence. A stage without a transformer is a
// sink that persists the entries it receives.
type Stage struct {
	Name        string
	Transformer ports.Transformer
}

// Transform returns a stage applying t to every entry.
func Transform(name string, t ports.Transformer) Stage {
	return Stage{Name: name, Transformer: t}
}

// Write returns the sink stage.
func Write() Stage {
	return Stage{Name: NameWrite}
}

// Rename returns a stage inserting suffix before the extension of every entry.
func Rename(suffix string) Stage {
	return Transform(NameRename, ports.TransformFunc(
		func(_ context.Context, entry domain.FileEntry) (domain.FileEntry, error) {
			return entry.WithSuffix(suffix), nil
		},
	))
}

// Sink reports whether the stage writes to disk.
func (s Stage) Sink() bool {
	return s.Transformer == nil
}

// Apply runs a transform stage over entries and returns the surviving
// entries in order. A failing entry is handed to fail and dropped; an entry
// whose transformer returns domain.ErrSkipEntry is dropped silently.
// Apply returns entries unchanged for sink stages.
func (s Stage) Apply(
	ctx context.Context,
	entries []domain.FileEntry,
	fail func(domain.FileEntry, error),
) []domain.FileEntry {
	if s.Sink() {
		return entries
	}

	out := make([]domain.FileEntry, 0, len(entries))
	for _, entry := range entries {
		next, err := s.Transformer.Transform(ctx, entry)
		switch {
		case err == nil:
			out = append(out, next)
		case errors.Is(err, domain.ErrSkipEntry):
		default:
			fail(entry, err)
		}
	}
	return out
}

// Sequence is the ordered list of stages of one asset kind.
type Sequence []Stage

// Names returns the stage names in order.
func (s Sequence) Names() []string {
	names := make([]string, len(s))
	for i, stage := range s {
		names[i] = stage.Name
	}
	return names
}
