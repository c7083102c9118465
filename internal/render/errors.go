// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import "errors"

// Sentinel errors. Callers match them with errors.Is; every returned error
// wraps one of these together with the underlying cause.
var (
	ErrNoInput            = errors.New("no input document given")
	ErrInvalidDPI         = errors.New("dpi must be positive")
	ErrOpenDocument       = errors.New("cannot open document")
	ErrNoPages            = errors.New("document has no pages")
	ErrPageOutOfRange     = errors.New("page index out of range")
	ErrRasterize          = errors.New("cannot rasterize page")
	ErrWriteOutput        = errors.New("cannot write output image")
	ErrUnknownBackend     = errors.New("unknown render backend")
	ErrBackendUnavailable = errors.New("render backend not available")
)
