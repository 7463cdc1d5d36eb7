// Package domain contains the core domain model of the asset pipeline:
// asset kinds, the path table, file entries and the error taxonomy.
package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// AssetKind identifies one of the fixed categories of front-end resources.
type AssetKind string

const (
	// KindHTML is the html pages copied to the output root.
	KindHTML AssetKind = "html"
	// KindCSS is the stylesheets compiled from scss sources.
	KindCSS AssetKind = "css"
	// KindJS is the scripts with include directives expanded.
	KindJS AssetKind = "js"
	// KindImages is the images and web manifests.
	KindImages AssetKind = "images"
	// KindFonts is the web fonts.
	KindFonts AssetKind = "fonts"
)

// AllKinds lists every asset kind in its canonical order.
var AllKinds = []AssetKind{KindHTML, KindCSS, KindJS, KindImages, KindFonts}

// String returns the kind name.
func (k AssetKind) String() string {
	return string(k)
}

// Valid reports whether k is one of the known asset kinds.
func (k AssetKind) Valid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ErrorTitle is the notification title used when a stage fails for this kind.
func (k AssetKind) ErrorTitle() string {
	switch k {
	case KindCSS:
		return "SCSS Error"
	case KindJS:
		return "JS Error"
	case KindHTML:
		return "HTML Error"
	case KindImages:
		return "Image Error"
	default:
		return "Font Error"
	}
}

// ParseAssetKind converts a name to an AssetKind.
func ParseAssetKind(name string) (AssetKind, error) {
	k := AssetKind(strings.ToLower(strings.TrimSpace(name)))
	if !k.Valid() {
		return "", zerr.With(ErrUnknownAssetKind, "kind", name)
	}
	return k, nil
}

// ParseAssetKinds converts a list of names, rejecting unknown names and
// dropping duplicates while keeping the first occurrence order.
func ParseAssetKinds(names []string) ([]AssetKind, error) {
	seen := make(map[AssetKind]bool, len(names))
	kinds := make([]AssetKind, 0, len(names))
	for _, name := range names {
		k, err := ParseAssetKind(name)
		if err != nil {
			return nil, err
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		kinds = append(kinds, k)
	}
	return kinds, nil
}
