// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inspect

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pagesnap/internal/pdftest"
	"github.com/pdiddy/pagesnap/pkg/types"
)

func TestInspect(t *testing.T) {
	tests := []struct {
		name  string
		pages []types.PageSize
	}{
		{name: "single letter page", pages: []types.PageSize{pdftest.Letter}},
		{name: "mixed sizes", pages: []types.PageSize{pdftest.A4, pdftest.Letter, {Width: 200, Height: 100}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := pdftest.Write(t, t.TempDir(), "doc.pdf", tt.pages...)

			doc, err := Inspect(path)
			require.NoError(t, err)
			assert.Equal(t, path, doc.Path)
			assert.Equal(t, len(tt.pages), doc.PageCount())
			for i, want := range tt.pages {
				got, err := doc.Page(i)
				require.NoError(t, err)
				assert.InDelta(t, want.Width, got.Width, 0.01)
				assert.InDelta(t, want.Height, got.Height, 0.01)
			}
		})
	}
}

func TestInspectVisibleArea(t *testing.T) {
	tests := []struct {
		name string
		page pdftest.Page
		want types.PageSize
	}{
		{
			name: "fractional media box",
			page: pdftest.Page{MediaBox: pdftest.A4},
			want: pdftest.A4,
		},
		{
			name: "crop box replaces media box",
			page: pdftest.Page{MediaBox: pdftest.Letter, Extra: "/CropBox [0 0 300 400]"},
			want: types.PageSize{Width: 300, Height: 400},
		},
		{
			name: "offset crop box",
			page: pdftest.Page{MediaBox: pdftest.Letter, Extra: "/CropBox [50 60 350 460]"},
			want: types.PageSize{Width: 300, Height: 400},
		},
		{
			name: "crop box clipped to media box",
			page: pdftest.Page{MediaBox: types.PageSize{Width: 200, Height: 300}, Extra: "/CropBox [100 100 400 400]"},
			want: types.PageSize{Width: 100, Height: 200},
		},
		{
			name: "rotated page swaps axes",
			page: pdftest.Page{MediaBox: pdftest.Letter, Extra: "/Rotate 90"},
			want: types.PageSize{Width: 792, Height: 612},
		},
		{
			name: "rotated crop box",
			page: pdftest.Page{MediaBox: pdftest.Letter, Extra: "/CropBox [0 0 300 400] /Rotate 270"},
			want: types.PageSize{Width: 400, Height: 300},
		},
		{
			name: "upside down keeps axes",
			page: pdftest.Page{MediaBox: pdftest.Letter, Extra: "/Rotate 180"},
			want: pdftest.Letter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := pdftest.WritePages(t, t.TempDir(), "doc.pdf", tt.page)

			doc, err := Inspect(path)
			require.NoError(t, err)
			got, err := doc.Page(0)
			require.NoError(t, err)
			assert.InDelta(t, tt.want.Width, got.Width, 0.001)
			assert.InDelta(t, tt.want.Height, got.Height, 0.001)
		})
	}
}

func TestInspectMissingFile(t *testing.T) {
	_, err := Inspect(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestInspectCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf at all"), 0o644))

	_, err := Inspect(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing")
}

func TestDocumentPageOutOfRange(t *testing.T) {
	doc := Document{Pages: []types.PageSize{pdftest.Letter}}

	for _, i := range []int{-1, 1, 5} {
		_, err := doc.Page(i)
		assert.ErrorIs(t, err, ErrPageIndex)
	}
}
