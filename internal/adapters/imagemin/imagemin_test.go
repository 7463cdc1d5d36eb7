package imagemin_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/plume/internal/adapters/imagemin"
	"go.trai.ch/plume/internal/adapters/minify"
	"go.trai.ch/plume/internal/core/domain"
	"go.trai.ch/plume/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func encodePNG(t *testing.T, level png.CompressionLevel) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for x := 0; x < 64; x++ {
		for y := 0; y < 64; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 4), G: 10, B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, (&png.Encoder{CompressionLevel: level}).Encode(&buf, img))
	return buf.Bytes()
}

func TestOptimizer_PNG(t *testing.T) {
	src := encodePNG(t, png.NoCompression)
	opt := imagemin.NewOptimizer(minify.New().For(minify.MediaSVG))

	out, err := opt.Transform(context.Background(), domain.FileEntry{Path: "a.png", Contents: src})
	require.NoError(t, err)
	assert.Less(t, len(out.Contents), len(src))

	decoded, err := png.Decode(bytes.NewReader(out.Contents))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 64), decoded.Bounds())
}

func TestOptimizer_PNGKeepsSmallerOriginal(t *testing.T) {
	src := encodePNG(t, png.BestCompression)
	opt := imagemin.NewOptimizer(minify.New().For(minify.MediaSVG))

	out, err := opt.Transform(context.Background(), domain.FileEntry{Path: "a.png", Contents: src})
	require.NoError(t, err)
	assert.Equal(t, src, out.Contents)
}

func TestOptimizer_CorruptPNG(t *testing.T) {
	opt := imagemin.NewOptimizer(minify.New().For(minify.MediaSVG))

	_, err := opt.Transform(context.Background(), domain.FileEntry{Path: "broken.png", Contents: []byte("not a png")})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrImageOptimizeFailed.Error())
}

func TestOptimizer_SVG(t *testing.T) {
	ctrl := gomock.NewController(t)
	svg := mocks.NewMockTransformer(ctrl)
	in := domain.FileEntry{Path: "icons/logo.svg", Contents: []byte("<svg>   </svg>")}
	svg.EXPECT().Transform(gomock.Any(), in).Return(in.WithContents([]byte("<svg/>")), nil)

	out, err := imagemin.NewOptimizer(svg).Transform(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(out.Contents))
}

func TestOptimizer_SVGFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	svg := mocks.NewMockTransformer(ctrl)
	svg.EXPECT().Transform(gomock.Any(), gomock.Any()).Return(domain.FileEntry{}, errors.New("bad svg"))

	_, err := imagemin.NewOptimizer(svg).Transform(context.Background(), domain.FileEntry{Path: "x.svg"})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrImageOptimizeFailed.Error())
}

func TestOptimizer_PassThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	opt := imagemin.NewOptimizer(mocks.NewMockTransformer(ctrl))

	for _, name := range []string{"photo.jpg", "site.webmanifest", "anim.gif"} {
		in := domain.FileEntry{Path: name, Contents: []byte{1, 2, 3}}
		out, err := opt.Transform(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}
