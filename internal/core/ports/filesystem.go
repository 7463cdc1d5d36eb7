package ports

import (
	"context"

	"go.trai.ch/plume/internal/core/domain"
)

// SourceReader loads the sources of an asset kind.
type SourceReader interface {
	// Read returns the files matching spec.Source, sorted by path.
	Read(ctx context.Context, spec domain.PathSpec) ([]domain.FileEntry, error)
}

// OutputWriter persists entries into the output tree.
type OutputWriter interface {
	// Write stores entry below dir and returns the written path relative
	// to the project root.
	Write(ctx context.Context, dir string, entry domain.FileEntry) (string, error)
}

// Cleaner removes the output tree.
type Cleaner interface {
	Clean(ctx context.Context, root string) error
}

// FileSystem combines the file operations the pipeline needs.
//
//go:generate mockgen -source=filesystem.go -destination=mocks/mock_filesystem.go -package=mocks -exclude_interfaces=SourceReader,OutputWriter
type FileSystem interface {
	SourceReader
	OutputWriter
	Cleaner
}
