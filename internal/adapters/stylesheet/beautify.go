package stylesheet

import (
	"context"

	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/zerr"
)

// Beautifier re-emits CSS in a consistent readable layout.
type Beautifier struct{}

// NewBeautifier creates a Beautifier.
func NewBeautifier() *Beautifier {
	return &Beautifier{}
}

// Transform pretty prints the entry contents.
func (b *Beautifier) Transform(_ context.Context, entry domain.FileEntry) (domain.FileEntry, error) {
	nodes, err := parseTree(entry.Contents)
	if err != nil {
		return domain.FileEntry{}, zerr.With(err, "path", entry.Path)
	}
	return entry.WithContents(printTree(nodes)), nil
}
