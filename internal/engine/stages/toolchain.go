package stages

import (
	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports"
)

// Toolchain holds the transformers behind the transform stages.
type Toolchain struct {
	Compile       ports.Transformer
	Autoprefix    ports.Transformer
	Beautify      ports.Transformer
	MinifyCSS     ports.Transformer
	StripComments ports.Transformer
	Include       ports.Transformer
	MinifyJS      ports.Transformer
	Optimize      ports.Transformer
}

// Sequence returns the stage sequence of kind. Both the readable and the
// minified artifacts of stylesheets and scripts are written.
func (tc Toolchain) Sequence(kind domain.AssetKind) Sequence {
	switch kind {
	case domain.KindCSS:
		return Sequence{
			Transform(NameCompile, tc.Compile),
			Transform(NameAutoprefix, tc.Autoprefix),
			Transform(NameBeautify, tc.Beautify),
			Write(),
			Transform(NameMinify, tc.MinifyCSS),
			Transform(NameStripComments, tc.StripComments),
			Rename(domain.MinSuffix),
			Write(),
		}
	case domain.KindJS:
		return Sequence{
			Transform(NameInclude, tc.Include),
			Write(),
			Transform(NameMinify, tc.MinifyJS),
			Rename(domain.MinSuffix),
			Write(),
		}
	case domain.KindImages:
		return Sequence{
			Transform(NameOptimize, tc.Optimize),
			Write(),
		}
	default:
		return Sequence{Write()}
	}
}
