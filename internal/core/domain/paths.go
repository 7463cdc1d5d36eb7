package domain

import (
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// PathSpec locates the sources and outputs of one asset kind.
// All fields are slash-separated and relative to the project root.
type PathSpec struct {
	Kind AssetKind
	// Base is the directory source paths are made relative to, so the
	// output tree mirrors the input tree below it.
	Base string
	// Source is the glob expanded once per task run.
	Source string
	// Watch is the glob matched against file system events. It recurses
	// more broadly than Source so added and removed files are noticed.
	Watch string
	// Output is the directory the kind owns in the output tree.
	Output string
}

// PathTable maps every asset kind to its PathSpec.
type PathTable struct {
	// Root is the absolute project directory.
	Root string
	// Output is the output root removed by clean, relative to Root.
	Output string
	// Specs holds one PathSpec per asset kind.
	Specs map[AssetKind]PathSpec
}

// DefaultPathTable returns the layout used when no configuration overrides it.
func DefaultPathTable(root, src, dest string) PathTable {
	src = strings.TrimSuffix(path.Clean(filepath.ToSlash(src)), "/")
	dest = strings.TrimSuffix(path.Clean(filepath.ToSlash(dest)), "/")

	images := "**/*.{jpg,png,svg,gif,ico,webp,webmanifest,xml,json}"
	fonts := "**/*.{eot,woff,woff2,ttf,svg}"

	return PathTable{
		Root:   root,
		Output: dest,
		Specs: map[AssetKind]PathSpec{
			KindHTML: {
				Kind:   KindHTML,
				Base:   src,
				Source: src + "/*.html",
				Watch:  src + "/**/*.html",
				Output: dest,
			},
			KindCSS: {
				Kind:   KindCSS,
				Base:   src + "/assets/scss",
				Source: src + "/assets/scss/*.scss",
				Watch:  src + "/assets/scss/**/*.scss",
				Output: dest + "/assets/css",
			},
			KindJS: {
				Kind:   KindJS,
				Base:   src + "/assets/js",
				Source: src + "/assets/js/*.js",
				Watch:  src + "/assets/js/**/*.js",
				Output: dest + "/assets/js",
			},
			KindImages: {
				Kind:   KindImages,
				Base:   src + "/assets/images",
				Source: src + "/assets/images/" + images,
				Watch:  src + "/assets/images/" + images,
				Output: dest + "/assets/images",
			},
			KindFonts: {
				Kind:   KindFonts,
				Base:   src + "/assets/fonts",
				Source: src + "/assets/fonts/" + fonts,
				Watch:  src + "/assets/fonts/" + fonts,
				Output: dest + "/assets/fonts",
			},
		},
	}
}

// Spec returns the PathSpec of kind.
func (t PathTable) Spec(kind AssetKind) (PathSpec, error) {
	spec, ok := t.Specs[kind]
	if !ok {
		return PathSpec{}, zerr.With(ErrMissingPathSpec, "kind", kind.String())
	}
	return spec, nil
}

// Abs resolves a slash-separated path relative to the project root.
func (t PathTable) Abs(rel string) string {
	return filepath.Join(t.Root, filepath.FromSlash(rel))
}

// Validate checks that every kind is configured, that every output directory
// sits inside the output root, the output root inside the project root, and
// that no two kinds share an output directory.
func (t PathTable) Validate() error {
	out := path.Clean(t.Output)
	if !isWithin(".", out) || out == "." {
		return zerr.With(ErrOutputPathOutsideRoot, "output", t.Output)
	}

	owners := make(map[string]AssetKind, len(AllKinds))
	for _, kind := range AllKinds {
		spec, err := t.Spec(kind)
		if err != nil {
			return err
		}

		dir := path.Clean(spec.Output)
		if !isWithin(out, dir) {
			return zerr.With(zerr.With(ErrOutputPathOutsideRoot, "kind", kind.String()), "output", spec.Output)
		}

		if other, taken := owners[dir]; taken {
			return zerr.With(
				zerr.With(ErrOverlappingOutputs, "kinds", other.String()+", "+kind.String()),
				"output", dir,
			)
		}
		owners[dir] = kind
	}

	return nil
}

// isWithin reports whether target equals root or lies below it.
// Both are clean slash paths relative to the same directory.
func isWithin(root, target string) bool {
	if path.IsAbs(target) {
		return false
	}
	if root == "." {
		return target != ".." && !strings.HasPrefix(target, "../")
	}
	return target == root || strings.HasPrefix(target, root+"/")
}
