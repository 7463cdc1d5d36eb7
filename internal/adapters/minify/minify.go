// Package minify adapts tdewolff/minify to the pipeline's transformer interface.
package minify

import (
	"context"

	tdminify "github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports"
	"go.trai.ch/zerr"
)

// Media types handled by the minifier.
const (
	MediaCSS = "text/css"
	MediaJS  = "application/javascript"
	MediaSVG = "image/svg+xml"
)

// Minifier minifies stylesheets, scripts and SVG documents.
type Minifier struct {
	m *tdminify.M
}

// New creates a Minifier. Stylesheet minification drops comments and
// leaves z-index values untouched.
func New() *Minifier {
	m := tdminify.New()
	m.Add(MediaCSS, &css.Minifier{})
	m.Add(MediaJS, &js.Minifier{})
	m.Add(MediaSVG, &svg.Minifier{})
	return &Minifier{m: m}
}

// Bytes minifies b as the given media type.
func (mn *Minifier) Bytes(mediatype string, b []byte) ([]byte, error) {
	out, err := mn.m.Bytes(mediatype, b)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrMinifyFailed.Error()), "media_type", mediatype)
	}
	return out, nil
}

// For returns a transformer that always minifies as mediatype.
func (mn *Minifier) For(mediatype string) ports.Transformer {
	return ports.TransformFunc(func(_ context.Context, entry domain.FileEntry) (domain.FileEntry, error) {
		return mn.transform(mediatype, entry)
	})
}

func (mn *Minifier) transform(mediatype string, entry domain.FileEntry) (domain.FileEntry, error) {
	out, err := mn.Bytes(mediatype, entry.Contents)
	if err != nil {
		return domain.FileEntry{}, zerr.With(err, "path", entry.Path)
	}
	return entry.WithContents(out), nil
}
