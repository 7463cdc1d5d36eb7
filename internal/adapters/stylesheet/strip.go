package stylesheet

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/zerr"
)

// CommentStripper removes every comment, including /*! preserved ones,
// and leaves all other bytes as they are.
type CommentStripper struct{}

// NewCommentStripper creates a CommentStripper.
func NewCommentStripper() *CommentStripper {
	return &CommentStripper{}
}

// Transform strips comments from the entry contents.
func (s *CommentStripper) Transform(_ context.Context, entry domain.FileEntry) (domain.FileEntry, error) {
	out, err := StripComments(entry.Contents)
	if err != nil {
		return domain.FileEntry{}, zerr.With(err, "path", entry.Path)
	}
	return entry.WithContents(out), nil
}

// StripComments returns src without comment tokens.
func StripComments(src []byte) ([]byte, error) {
	l := css.NewLexer(parse.NewInputBytes(src))

	var buf bytes.Buffer
	buf.Grow(len(src))
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, zerr.Wrap(err, domain.ErrStylesheetParseFailed.Error())
			}
			return buf.Bytes(), nil
		case css.CommentToken:
			continue
		default:
			buf.Write(data)
		}
	}
}
