// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"context"
	"fmt"
	"image"
	"os"

	"github.com/gen2brain/go-fitz"

	"github.com/pdiddy/pagesnap/internal/inspect"
	"github.com/pdiddy/pagesnap/pkg/types"
)

// FitzRasterizer renders with MuPDF through go-fitz.
type FitzRasterizer struct{}

// Name returns types.BackendFitz.
func (FitzRasterizer) Name() types.Backend { return types.BackendFitz }

// Open loads the document with MuPDF. Page sizes come from inspect
// because MuPDF's bounds are only exposed as whole pixels.
func (FitzRasterizer) Open(path string) (Document, error) {
	// go-fitz reports a missing file with its own error; stat first so
	// callers can match os.ErrNotExist.
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	geometry, err := inspect.Inspect(path)
	if err != nil {
		doc.Close()
		return nil, err
	}
	return &fitzDocument{doc: doc, geometry: geometry}, nil
}

type fitzDocument struct {
	doc      *fitz.Document
	geometry inspect.Document
}

func (d *fitzDocument) NumPage() int { return d.doc.NumPage() }

func (d *fitzDocument) PageSize(page int) (types.PageSize, error) {
	size, err := d.geometry.Page(page)
	if err != nil {
		return types.PageSize{}, fmt.Errorf("sizing page %d: %w", page, err)
	}
	return size, nil
}

func (d *fitzDocument) Render(ctx context.Context, page int, dpi float64) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := d.doc.ImageDPI(page, dpi)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (d *fitzDocument) Close() error { return d.doc.Close() }
