package graph_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/plume/internal/adapters/telemetry"
	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports/mocks"
	"go.trai.ch/plume/internal/engine/graph"
	"go.trai.ch/plume/internal/engine/stages"
	"go.uber.org/mock/gomock"
)

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, data, 0o600))
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := range 4 {
		for y := range 4 {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func project(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, root, "src/index.html", []byte("<html><body>hi</body></html>"))
	writeFile(t, root, "src/partials/nav.html", []byte("<nav></nav>"))
	writeFile(t, root, "src/assets/js/a.js", []byte("//= b.js\nfunction main() { return helper(); }\n"))
	writeFile(t, root, "src/assets/js/b.js", []byte("function helper() { return 1; }\n"))
	writeFile(t, root, "src/assets/images/logo.png", pngBytes(t))
	writeFile(t, root, "src/assets/images/icons/x.svg",
		[]byte(`<svg xmlns="http://www.w3.org/2000/svg">  <!-- c -->  <rect width="1" height="1"/></svg>`))
	writeFile(t, root, "src/assets/fonts/body.woff2", []byte("wOF2"))
	return root
}

func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := map[string]string{}
	require.NoError(t, filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, p)
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	}))
	return out
}

func TestBuilder_BuildsProject(t *testing.T) {
	root := project(t)
	cfg := domain.DefaultConfig(root)

	ctrl := gomock.NewController(t)
	reloader := mocks.NewMockReloader(ctrl)
	reloader.EXPECT().Reload(gomock.Any()).AnyTimes()

	b := graph.NewBuilder(mocks.NewMockNotifier(ctrl), telemetry.NoopTracer{}, stages.NewToolchain)
	assert.Equal(t, telemetry.NoopTracer{}, b.Tracer())

	g, err := b.Build(cfg, reloader)
	require.NoError(t, err)

	report, err := g.Build(context.Background())
	require.NoError(t, err)

	dest := filepath.Join(root, "dest")
	first := snapshot(t, dest)

	assert.Contains(t, first, "index.html")
	assert.NotContains(t, first, "partials/nav.html")
	assert.Contains(t, first, "assets/images/logo.png")
	assert.Contains(t, first, "assets/images/icons/x.svg")
	assert.NotContains(t, first["assets/images/icons/x.svg"], "<!--")
	assert.Equal(t, "wOF2", first["assets/fonts/body.woff2"])

	assert.Equal(t,
		"function helper() { return 1; }\nfunction main() { return helper(); }\n",
		first["assets/js/a.js"])
	assert.Contains(t, first, "assets/js/a.min.js")
	assert.Contains(t, first["assets/js/a.min.js"], "helper")
	assert.Less(t, len(first["assets/js/a.min.js"]), len(first["assets/js/a.js"]))

	js, ok := report.Result(domain.KindJS)
	require.True(t, ok)
	assert.Equal(t, []string{
		"dest/assets/js/a.js", "dest/assets/js/b.js",
		"dest/assets/js/a.min.js", "dest/assets/js/b.min.js",
	}, js.Written)

	css, ok := report.Result(domain.KindCSS)
	require.True(t, ok)
	assert.Zero(t, css.Files())
	assertDisjointOutputs(t, report)

	writeFile(t, root, "dest/stale.txt", []byte("old"))
	_, err = g.Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, snapshot(t, dest))
}

// assertDisjointOutputs fails when two kinds report the same written path.
func assertDisjointOutputs(t *testing.T, report graph.Report) {
	t.Helper()
	owners := map[string]domain.AssetKind{}
	for _, res := range report.Results {
		for _, p := range res.Written {
			if other, ok := owners[p]; ok {
				t.Errorf("%s written by both %s and %s", p, other, res.Kind)
				continue
			}
			owners[p] = res.Kind
		}
	}
}

func TestBuilder_NestedOutputsNeverShareFiles(t *testing.T) {
	root := project(t)
	writeFile(t, root, "src/assets/fonts/icon.svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`))

	cfg := domain.DefaultConfig(root)
	cfg.Paths.Specs[domain.KindImages] = domain.PathSpec{
		Kind:   domain.KindImages,
		Base:   "src/assets",
		Source: "src/assets/**/*.svg",
		Watch:  "src/assets/**/*.svg",
		Output: "dest/assets",
	}
	require.NoError(t, cfg.Paths.Validate())

	ctrl := gomock.NewController(t)
	reloader := mocks.NewMockReloader(ctrl)
	reloader.EXPECT().Reload(gomock.Any()).AnyTimes()

	b := graph.NewBuilder(mocks.NewMockNotifier(ctrl), telemetry.NoopTracer{}, stages.NewToolchain)
	g, err := b.Build(cfg, reloader)
	require.NoError(t, err)

	report, err := g.Build(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrOverlappingOutputs.Error())
	assertDisjointOutputs(t, report)

	fonts, ok := report.Result(domain.KindFonts)
	require.True(t, ok)
	assert.Contains(t, fonts.Written, "dest/assets/fonts/icon.svg")

	images, ok := report.Result(domain.KindImages)
	require.True(t, ok)
	assert.NotContains(t, images.Written, "dest/assets/fonts/icon.svg")

	data, err := os.ReadFile(filepath.Join(root, "dest", "assets", "fonts", "icon.svg"))
	require.NoError(t, err)
	assert.Equal(t, `<svg xmlns="http://www.w3.org/2000/svg"/>`, string(data))
}

func TestBuilder_MissingSpec(t *testing.T) {
	cfg := domain.DefaultConfig(t.TempDir())
	delete(cfg.Paths.Specs, domain.KindFonts)

	ctrl := gomock.NewController(t)
	b := graph.NewBuilder(mocks.NewMockNotifier(ctrl), telemetry.NoopTracer{}, stages.NewToolchain)
	_, err := b.Build(cfg, mocks.NewMockReloader(ctrl))

	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrMissingPathSpec.Error())
}
