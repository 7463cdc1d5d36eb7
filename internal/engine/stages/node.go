package stages

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/plume/internal/adapters/imagemin"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/plume/internal/adapters/include"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/plume/internal/adapters/minify"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/plume/internal/adapters/sass"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/plume/internal/adapters/stylesheet" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/plume/internal/core/domain"
)

// NodeID is the unique identifier for the toolchain factory Graft node.
const NodeID graft.ID = "engine.toolchain"

// ToolchainFactory builds the toolchain for a loaded configuration.
type ToolchainFactory func(cfg *domain.Config) Toolchain

func init() {
	graft.Register(graft.Node[ToolchainFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ToolchainFactory, error) {
			return NewToolchain, nil
		},
	})
}

// NewToolchain wires the transformers configured by cfg.
func NewToolchain(cfg *domain.Config) Toolchain {
	loadPaths := make([]string, len(cfg.Sass.LoadPaths))
	for i, p := range cfg.Sass.LoadPaths {
		loadPaths[i] = cfg.Paths.Abs(p)
	}

	mn := minify.New()
	return Toolchain{
		Compile:       sass.NewCompiler(cfg.Sass.Binary, loadPaths),
		Autoprefix:    stylesheet.NewAutoprefixer(),
		Beautify:      stylesheet.NewBeautifier(),
		MinifyCSS:     mn.For(minify.MediaCSS),
		StripComments: stylesheet.NewCommentStripper(),
		Include:       include.NewExpander(),
		MinifyJS:      mn.For(minify.MediaJS),
		Optimize:      imagemin.NewOptimizer(mn.For(minify.MediaSVG)),
	}
}
