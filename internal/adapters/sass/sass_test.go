package sass_test

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/plume/internal/adapters/sass"
	"go.trai.ch/plume/internal/core/domain"
)

// fakeSass writes an executable shell script standing in for dart-sass.
func fakeSass(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script compiler stand-in needs a POSIX shell")
	}
	bin := filepath.Join(t.TempDir(), "sass")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"+script), 0o700))
	return bin
}

func TestCompiler_CompilesFromStdin(t *testing.T) {
	// Echo the arguments as a comment, then the source.
	bin := fakeSass(t, "echo \"/* $* */\"\ncat\n")
	c := sass.NewCompiler(bin, []string{"/project/node_modules"})

	out, err := c.Transform(context.Background(), domain.FileEntry{
		Path:     "pages/home.scss",
		Source:   "/project/src/assets/scss/pages/home.scss",
		Contents: []byte("a { color: red; }\n"),
	})
	require.NoError(t, err)

	assert.Equal(t, "pages/home.css", out.Path)
	got := string(out.Contents)
	assert.Contains(t, got, "--stdin --no-source-map --style=expanded")
	assert.Contains(t, got, "--load-path=/project/src/assets/scss/pages")
	assert.Contains(t, got, "--load-path=/project/node_modules")
	assert.Contains(t, got, "a { color: red; }")
}

func TestCompiler_IndentedSyntax(t *testing.T) {
	bin := fakeSass(t, "echo \"$*\"\n")

	out, err := sass.NewCompiler(bin, nil).Transform(context.Background(), domain.FileEntry{Path: "main.sass"})
	require.NoError(t, err)
	assert.Contains(t, string(out.Contents), "--indented")
	assert.Equal(t, "main.css", out.Path)
}

func TestCompiler_SkipsPartials(t *testing.T) {
	c := sass.NewCompiler("sass-does-not-matter", nil)

	_, err := c.Transform(context.Background(), domain.FileEntry{Path: "parts/_grid.scss"})
	assert.ErrorIs(t, err, domain.ErrSkipEntry)
}

func TestCompiler_ReportsCompileErrors(t *testing.T) {
	bin := fakeSass(t, "echo 'Error: expected \"}\".' >&2\nexit 65\n")

	_, err := sass.NewCompiler(bin, nil).Transform(context.Background(), domain.FileEntry{Path: "main.scss"})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCompileFailed.Error())
	assert.ErrorContains(t, err, `expected "}"`)
}

func TestCompiler_MissingBinary(t *testing.T) {
	c := sass.NewCompiler(filepath.Join(t.TempDir(), "no-sass"), nil)

	_, err := c.Transform(context.Background(), domain.FileEntry{Path: "main.scss"})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCompilerNotFound.Error())
}
