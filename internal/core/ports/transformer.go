package ports

import (
	"context"

	"go.trai.ch/plume/internal/core/domain"
)

// Transformer is one file transformation inside a stage sequence.
//
//go:generate mockgen -source=transformer.go -destination=mocks/mock_transformer.go -package=mocks
type Transformer interface {
	// Transform returns the transformed entry. Returning ErrSkipEntry drops
	// the entry from the stream without reporting a failure.
	Transform(ctx context.Context, entry domain.FileEntry) (domain.FileEntry, error)
}

// TransformFunc adapts a function to the Transformer interface.
type TransformFunc func(ctx context.Context, entry domain.FileEntry) (domain.FileEntry, error)

// Transform calls f.
func (f TransformFunc) Transform(ctx context.Context, entry domain.FileEntry) (domain.FileEntry, error) {
	return f(ctx, entry)
}
