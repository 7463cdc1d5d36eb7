package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/plume/internal/core/domain"
)

func TestParseAssetKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.AssetKind
		wantErr bool
	}{
		{name: "html", input: "html", want: domain.KindHTML},
		{name: "upper case", input: "CSS", want: domain.KindCSS},
		{name: "padded", input: " fonts ", want: domain.KindFonts},
		{name: "unknown", input: "sass", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.ParseAssetKind(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorContains(t, err, domain.ErrUnknownAssetKind.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseAssetKinds_DropsDuplicates(t *testing.T) {
	kinds, err := domain.ParseAssetKinds([]string{"js", "css", "js"})
	require.NoError(t, err)
	assert.Equal(t, []domain.AssetKind{domain.KindJS, domain.KindCSS}, kinds)
}

func TestFileEntry_Renames(t *testing.T) {
	e := domain.FileEntry{Path: "nested/main.scss"}

	assert.Equal(t, "nested/main.css", e.WithExt(".css").Path)
	assert.Equal(t, "nested/main.min.scss", e.WithSuffix(domain.MinSuffix).Path)
	assert.Equal(t, "main.scss", e.Name())
	assert.Equal(t, ".scss", e.Ext())
}

func TestNewReloadEvent_Mode(t *testing.T) {
	for _, kind := range domain.AllKinds {
		ev := domain.NewReloadEvent(kind, nil, "h")
		if kind == domain.KindCSS {
			assert.Equal(t, domain.ReloadInject, ev.Mode)
			continue
		}
		assert.Equal(t, domain.ReloadPage, ev.Mode, kind.String())
	}
}

func TestStageError_Is(t *testing.T) {
	cause := errors.New("unexpected }")
	err := domain.NewStageError(domain.KindCSS, "compile", "main.scss", cause)

	assert.ErrorIs(t, err, domain.ErrStageFailed)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "main.scss")
	assert.Contains(t, err.Error(), "compile")
}

func TestPathTable_Default(t *testing.T) {
	table := domain.DefaultPathTable("/project", "src/", "dest/")
	require.NoError(t, table.Validate())

	css, err := table.Spec(domain.KindCSS)
	require.NoError(t, err)
	assert.Equal(t, "src/assets/scss", css.Base)
	assert.Equal(t, "src/assets/scss/*.scss", css.Source)
	assert.Equal(t, "src/assets/scss/**/*.scss", css.Watch)
	assert.Equal(t, "dest/assets/css", css.Output)

	html, err := table.Spec(domain.KindHTML)
	require.NoError(t, err)
	assert.Equal(t, "src/*.html", html.Source)
	assert.Equal(t, "src/**/*.html", html.Watch)
	assert.Equal(t, "dest", html.Output)
}

func TestPathTable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.PathTable)
		wantErr error
	}{
		{
			name:    "output root is project root",
			mutate:  func(p *domain.PathTable) { p.Output = "." },
			wantErr: domain.ErrOutputPathOutsideRoot,
		},
		{
			name:    "output root escapes project",
			mutate:  func(p *domain.PathTable) { p.Output = "../elsewhere" },
			wantErr: domain.ErrOutputPathOutsideRoot,
		},
		{
			name: "kind output outside output root",
			mutate: func(p *domain.PathTable) {
				spec := p.Specs[domain.KindJS]
				spec.Output = "public/js"
				p.Specs[domain.KindJS] = spec
			},
			wantErr: domain.ErrOutputPathOutsideRoot,
		},
		{
			name: "shared output directory",
			mutate: func(p *domain.PathTable) {
				spec := p.Specs[domain.KindFonts]
				spec.Output = "dest/assets/images"
				p.Specs[domain.KindFonts] = spec
			},
			wantErr: domain.ErrOverlappingOutputs,
		},
		{
			name:    "missing kind",
			mutate:  func(p *domain.PathTable) { delete(p.Specs, domain.KindImages) },
			wantErr: domain.ErrMissingPathSpec,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := domain.DefaultPathTable("/project", "src", "dest")
			tt.mutate(&table)

			err := table.Validate()
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestPathTable_Abs(t *testing.T) {
	table := domain.DefaultPathTable("/project", "src", "dest")
	assert.Equal(t, "/project/dest/assets/css", table.Abs("dest/assets/css"))
}
