// Package include expands //= and /*= */ file include directives in scripts.
package include

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/zerr"
)

var (
	lineDirective  = regexp.MustCompile(`^(\s*)//=\s*(?:include\s+)?["']?([^"'\s]+)["']?\s*$`)
	blockDirective = regexp.MustCompile(`^(\s*)/\*=\s*(?:include\s+)?["']?([^"'\s*]+)["']?\s*\*/\s*$`)
)

// Expander replaces include directives with the referenced file contents.
// Paths are relative to the including file. Included files are expanded
// recursively and indented like the directive they replace.
type Expander struct{}

// NewExpander creates an Expander.
func NewExpander() *Expander {
	return &Expander{}
}

// Transform expands the directives of entry. The entry must carry its Source path.
func (e *Expander) Transform(ctx context.Context, entry domain.FileEntry) (domain.FileEntry, error) {
	out, err := e.expand(ctx, entry.Source, entry.Contents, []string{filepath.Clean(entry.Source)})
	if err != nil {
		return domain.FileEntry{}, err
	}
	return entry.WithContents(out), nil
}

func (e *Expander) expand(ctx context.Context, source string, data []byte, stack []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data))

	for _, line := range strings.SplitAfter(string(data), "\n") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content := strings.TrimRight(line, "\r\n")
		eol := line[len(content):]

		indent, ref, ok := directive(content)
		if !ok {
			buf.WriteString(line)
			continue
		}

		target := filepath.Join(filepath.Dir(source), filepath.FromSlash(ref))
		if slices.Contains(stack, target) {
			chain := make([]string, 0, len(stack)+1)
			for _, s := range append(stack, target) {
				chain = append(chain, filepath.Base(s))
			}
			return nil, zerr.With(domain.ErrIncludeCycle, "chain", strings.Join(chain, " -> "))
		}

		// #nosec G304 -- include targets are resolved next to project sources
		included, err := os.ReadFile(target)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.With(domain.ErrIncludeNotFound, "include", ref), "from", filepath.Base(source))
		} else if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrSourceReadFailed.Error()), "include", ref)
		}

		expanded, err := e.expand(ctx, target, included, append(stack, target))
		if err != nil {
			return nil, err
		}

		writeIndented(&buf, indent, expanded)
		buf.WriteString(eol)
	}

	return buf.Bytes(), nil
}

func directive(line string) (indent, ref string, ok bool) {
	if m := lineDirective.FindStringSubmatch(line); m != nil {
		return m[1], m[2], true
	}
	if m := blockDirective.FindStringSubmatch(line); m != nil {
		return m[1], m[2], true
	}
	return "", "", false
}

// writeIndented writes data with indent before every non-empty line,
// dropping one trailing newline.
func writeIndented(buf *bytes.Buffer, indent string, data []byte) {
	text := strings.TrimSuffix(string(data), "\n")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			buf.WriteByte('\n')
		}
		if strings.TrimSpace(line) != "" {
			buf.WriteString(indent)
		}
		buf.WriteString(line)
	}
}
