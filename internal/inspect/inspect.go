// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inspect reads page geometry from a PDF without rasterizing it.
package inspect

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	pdftypes "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/pdiddy/pagesnap/pkg/types"
)

// ErrPageIndex is returned by Document.Page for an index outside the document.
var ErrPageIndex = errors.New("page index out of range")

var disableConfigDir sync.Once

// Document is the page geometry of one PDF file.
type Document struct {
	Path  string           `json:"path" yaml:"path"`
	Pages []types.PageSize `json:"pages" yaml:"pages"`
}

// PageCount returns the number of pages.
func (d Document) PageCount() int { return len(d.Pages) }

// Page returns the size of the zero-based page i.
func (d Document) Page(i int) (types.PageSize, error) {
	if i < 0 || i >= len(d.Pages) {
		return types.PageSize{}, fmt.Errorf("%w: page %d of %d", ErrPageIndex, i, len(d.Pages))
	}
	return d.Pages[i], nil
}

// Inspect parses the PDF at path and returns each page's visible size in
// points: the crop box clipped to the media box, with width and height
// swapped for pages rotated by 90 or 270 degrees. This is the area both
// rasterizers draw. A missing file is reported with an error wrapping
// os.ErrNotExist.
func Inspect(path string) (Document, error) {
	// pdfcpu otherwise creates a config directory under the user's home.
	disableConfigDir.Do(api.DisableConfigDir)

	if _, err := os.Stat(path); err != nil {
		return Document{}, fmt.Errorf("reading %s: %w", path, err)
	}

	ctx, err := api.ReadContextFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return Document{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	boundaries, err := ctx.PageBoundaries(nil)
	if err != nil {
		return Document{}, fmt.Errorf("parsing %s: page boundaries: %w", path, err)
	}
	if len(boundaries) != ctx.PageCount {
		return Document{}, fmt.Errorf("parsing %s: found %d page boundaries for %d pages", path, len(boundaries), ctx.PageCount)
	}

	pages := make([]types.PageSize, len(boundaries))
	for i, pb := range boundaries {
		pages[i] = visibleSize(pb)
	}
	return Document{Path: path, Pages: pages}, nil
}

// visibleSize returns the displayed size of one page.
func visibleSize(pb model.PageBoundaries) types.PageSize {
	var size types.PageSize
	if box := clip(pb.CropBox(), pb.MediaBox()); box != nil {
		size = types.PageSize{Width: box.Width(), Height: box.Height()}
	}
	if pb.Rot%180 != 0 {
		size.Width, size.Height = size.Height, size.Width
	}
	return size
}

// clip intersects crop with media. A crop box that misses the media box
// entirely falls back to the media box, as renderers do.
func clip(crop, media *pdftypes.Rectangle) *pdftypes.Rectangle {
	if crop == nil {
		return media
	}
	if media == nil {
		return crop
	}
	r := &pdftypes.Rectangle{
		LL: pdftypes.Point{X: math.Max(crop.LL.X, media.LL.X), Y: math.Max(crop.LL.Y, media.LL.Y)},
		UR: pdftypes.Point{X: math.Min(crop.UR.X, media.UR.X), Y: math.Min(crop.UR.Y, media.UR.Y)},
	}
	if r.Width() <= 0 || r.Height() <= 0 {
		return media
	}
	return r
}
