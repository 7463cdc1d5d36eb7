package domain

import (
	"path"
	"strings"
)

// FileEntry is one file flowing through a stage sequence.
type FileEntry struct {
	// Path is the slash-separated path relative to the kind's base directory.
	// The output location is the kind's output directory joined with Path.
	Path string
	// Source is the absolute path of the file the entry was read from.
	Source string
	// Contents is the current file content.
	Contents []byte
}

// Ext returns the extension of the entry path, including the dot.
func (e FileEntry) Ext() string {
	return path.Ext(e.Path)
}

// Name returns the base name of the entry path.
func (e FileEntry) Name() string {
	return path.Base(e.Path)
}

// WithContents returns a copy of the entry with new contents.
func (e FileEntry) WithContents(contents []byte) FileEntry {
	e.Contents = contents
	return e
}

// WithExt returns a copy of the entry whose path extension is replaced by ext.
func (e FileEntry) WithExt(ext string) FileEntry {
	e.Path = strings.TrimSuffix(e.Path, path.Ext(e.Path)) + ext
	return e
}

// WithSuffix returns a copy of the entry with suffix inserted before the extension,
// so "main.css" with ".min" becomes "main.min.css".
func (e FileEntry) WithSuffix(suffix string) FileEntry {
	ext := path.Ext(e.Path)
	e.Path = strings.TrimSuffix(e.Path, ext) + suffix + ext
	return e
}
