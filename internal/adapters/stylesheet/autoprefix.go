package stylesheet

import (
	"context"

	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/zerr"
)

// propertyPrefixes lists the vendor-prefixed forms emitted for a property.
var propertyPrefixes = map[string][]string{
	"user-select":      {"-webkit-user-select", "-moz-user-select", "-ms-user-select"},
	"appearance":       {"-webkit-appearance", "-moz-appearance"},
	"backdrop-filter":  {"-webkit-backdrop-filter"},
	"text-size-adjust": {"-webkit-text-size-adjust", "-moz-text-size-adjust", "-ms-text-size-adjust"},
	"hyphens":          {"-webkit-hyphens", "-ms-hyphens"},
	"mask":             {"-webkit-mask"},
	"mask-image":       {"-webkit-mask-image"},
	"mask-size":        {"-webkit-mask-size"},
	"mask-position":    {"-webkit-mask-position"},
	"mask-repeat":      {"-webkit-mask-repeat"},
	"tab-size":         {"-moz-tab-size"},
}

// valuePrefixes lists prefixed values emitted for a property/value pair.
var valuePrefixes = map[[2]string][]string{
	{"position", "sticky"}: {"-webkit-sticky"},
}

// Autoprefixer inserts vendor-prefixed declarations in front of the
// standard ones. Prefixed forms already present in a block are kept as is.
type Autoprefixer struct{}

// NewAutoprefixer creates an Autoprefixer.
func NewAutoprefixer() *Autoprefixer {
	return &Autoprefixer{}
}

// Transform adds prefixes to the entry contents.
func (a *Autoprefixer) Transform(_ context.Context, entry domain.FileEntry) (domain.FileEntry, error) {
	nodes, err := parseTree(entry.Contents)
	if err != nil {
		return domain.FileEntry{}, zerr.With(err, "path", entry.Path)
	}
	return entry.WithContents(printTree(prefixDeclarations(nodes))), nil
}

// prefixDeclarations returns children with prefixed declarations inserted,
// recursing into nested blocks.
func prefixDeclarations(children []*node) []*node {
	present := make(map[[2]string]bool)
	for _, c := range children {
		if c.kind == kindDeclaration {
			present[[2]string{c.name, c.prelude}] = true
			present[[2]string{c.name, ""}] = true
		}
	}

	out := make([]*node, 0, len(children))
	for _, c := range children {
		if c.kind != kindDeclaration {
			if c.kind == kindBlock || c.kind == kindRuleset {
				c.children = prefixDeclarations(c.children)
			}
			out = append(out, c)
			continue
		}

		for _, prop := range propertyPrefixes[c.name] {
			if !present[[2]string{prop, ""}] {
				out = append(out, &node{kind: kindDeclaration, name: prop, prelude: c.prelude})
			}
		}
		for _, value := range valuePrefixes[[2]string{c.name, c.prelude}] {
			if !present[[2]string{c.name, value}] {
				out = append(out, &node{kind: kindDeclaration, name: c.name, prelude: value})
			}
		}
		out = append(out, c)
	}
	return out
}
