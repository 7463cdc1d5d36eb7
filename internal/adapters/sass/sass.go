// Package sass compiles scss and sass sources with the dart-sass command line.
package sass

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/zerr"
)

// Compiler runs the sass executable once per source file.
type Compiler struct {
	binary    string
	loadPaths []string
}

// NewCompiler creates a Compiler. loadPaths are absolute import directories
// searched after the directory of the compiled file.
func NewCompiler(binary string, loadPaths []string) *Compiler {
	return &Compiler{binary: binary, loadPaths: loadPaths}
}

// Transform compiles entry to CSS. Partials, whose name starts with an
// underscore, are only imported by other sources and yield domain.ErrSkipEntry.
func (c *Compiler) Transform(ctx context.Context, entry domain.FileEntry) (domain.FileEntry, error) {
	if strings.HasPrefix(path.Base(entry.Path), "_") {
		return domain.FileEntry{}, domain.ErrSkipEntry
	}

	bin, err := exec.LookPath(c.binary)
	if err != nil {
		return domain.FileEntry{}, zerr.With(domain.ErrCompilerNotFound, "binary", c.binary)
	}

	// #nosec G204 -- the binary comes from the project configuration
	cmd := exec.CommandContext(ctx, bin, c.args(entry)...)
	cmd.Stdin = bytes.NewReader(entry.Contents)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		var exitErr *exec.ExitError
		if msg == "" || !errors.As(err, &exitErr) {
			msg = err.Error()
		}
		return domain.FileEntry{}, zerr.With(zerr.Wrap(errors.New(msg), domain.ErrCompileFailed.Error()), "path", entry.Path)
	}

	return entry.WithExt(".css").WithContents(stdout.Bytes()), nil
}

func (c *Compiler) args(entry domain.FileEntry) []string {
	args := []string{"--stdin", "--no-source-map", "--style=expanded"}
	if path.Ext(entry.Path) == ".sass" {
		args = append(args, "--indented")
	}
	if entry.Source != "" {
		args = append(args, "--load-path="+filepath.Dir(entry.Source))
	}
	for _, p := range c.loadPaths {
		args = append(args, "--load-path="+p)
	}
	return args
}
