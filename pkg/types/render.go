// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for pagesnap: render
// settings, render results, and the configuration tree loaded by the CLI.
package types

import "time"

// PageSize is a page's visible area in PDF points (1/72 inch): the crop
// box clipped to the media box, rotation applied.
type PageSize struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// PixelSize is the dimension of a rendered image.
type PixelSize struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// RenderStatus reports what a render call did.
type RenderStatus string

const (
	StatusRendered RenderStatus = "rendered"
	StatusSkipped  RenderStatus = "skipped"
	StatusFailed   RenderStatus = "failed"
)

// RenderResult records one page render.
type RenderResult struct {
	// InputPath is the PDF that was read.
	InputPath string `json:"input_path" yaml:"input_path"`

	// InputSHA256 is the hex digest of the input file at render time.
	InputSHA256 string `json:"input_sha256" yaml:"input_sha256"`

	// OutputPath is the PNG that was written.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// OutputSHA256 is the hex digest of the PNG as written.
	OutputSHA256 string `json:"output_sha256" yaml:"output_sha256"`

	// Page is the zero-based page index.
	Page int `json:"page" yaml:"page"`

	// DPI is the resolution used.
	DPI float64 `json:"dpi" yaml:"dpi"`

	// Backend is the rasterizer that produced the image.
	Backend Backend `json:"backend" yaml:"backend"`

	// PageSize is the page's size in points.
	PageSize PageSize `json:"page_size" yaml:"page_size"`

	// Pixels is the output image size.
	Pixels PixelSize `json:"pixels" yaml:"pixels"`

	// Status is rendered, or skipped when the ledger already had this render.
	Status RenderStatus `json:"status" yaml:"status"`

	// RenderedAt is when the PNG was written.
	RenderedAt time.Time `json:"rendered_at" yaml:"rendered_at"`
}

// RenderKey identifies a render request. Two renders with the same key
// produce the same image.
type RenderKey struct {
	InputSHA256 string  `json:"input_sha256" yaml:"input_sha256"`
	Page        int     `json:"page" yaml:"page"`
	DPI         float64 `json:"dpi" yaml:"dpi"`
	Backend     Backend `json:"backend" yaml:"backend"`
	OutputPath  string  `json:"output_path" yaml:"output_path"`
}

// Key returns the request key of a result.
func (r RenderResult) Key() RenderKey {
	return RenderKey{
		InputSHA256: r.InputSHA256,
		Page:        r.Page,
		DPI:         r.DPI,
		Backend:     r.Backend,
		OutputPath:  r.OutputPath,
	}
}
