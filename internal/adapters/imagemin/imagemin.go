// Package imagemin shrinks images without changing how they look.
package imagemin

import (
	"bytes"
	"context"
	"image/png"
	"path"
	"strings"

	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports"
	"go.trai.ch/zerr"
)

// Optimizer minifies SVG documents and recompresses PNG images.
// Other files pass through unchanged.
type Optimizer struct {
	svg ports.Transformer
}

// NewOptimizer creates an Optimizer using svg for vector images.
func NewOptimizer(svg ports.Transformer) *Optimizer {
	return &Optimizer{svg: svg}
}

// Transform optimizes entry according to its extension.
func (o *Optimizer) Transform(ctx context.Context, entry domain.FileEntry) (domain.FileEntry, error) {
	switch strings.ToLower(path.Ext(entry.Path)) {
	case ".svg":
		out, err := o.svg.Transform(ctx, entry)
		if err != nil {
			return domain.FileEntry{}, zerr.With(zerr.Wrap(err, domain.ErrImageOptimizeFailed.Error()), "path", entry.Path)
		}
		return smaller(entry, out.Contents), nil
	case ".png":
		out, err := recompressPNG(entry.Contents)
		if err != nil {
			return domain.FileEntry{}, zerr.With(err, "path", entry.Path)
		}
		return smaller(entry, out), nil
	default:
		return entry, nil
	}
}

// recompressPNG re-encodes a PNG losslessly with the best compression level.
func recompressPNG(src []byte) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrImageOptimizeFailed.Error())
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, zerr.Wrap(err, domain.ErrImageOptimizeFailed.Error())
	}
	return buf.Bytes(), nil
}

// smaller keeps the original contents unless candidate is strictly smaller.
func smaller(entry domain.FileEntry, candidate []byte) domain.FileEntry {
	if len(candidate) < len(entry.Contents) {
		return entry.WithContents(candidate)
	}
	return entry
}
