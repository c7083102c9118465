// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render rasterizes a single PDF page to a PNG file.
//
// Rasterizer backends (MuPDF via go-fitz, Poppler's pdftoppm) open a
// document; RenderPage validates the request, renders the page at
// DPI / 72 zoom, flattens it onto white, and writes the PNG atomically so a
// failed run never leaves a partial output file behind.
package render

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/pagesnap/internal/logging"
	"github.com/pdiddy/pagesnap/pkg/types"
)

// roundingSlack matches MuPDF's fz_round_rect, which tolerates tiny float
// error before rounding the far edge up.
const roundingSlack = 0.001

// Rasterizer opens PDF documents for rendering.
type Rasterizer interface {
	// Name identifies the backend.
	Name() types.Backend

	// Open loads the document at path. The caller must Close it.
	Open(path string) (Document, error)
}

// Document is an open PDF handle.
type Document interface {
	// NumPage returns the number of pages.
	NumPage() int

	// PageSize returns the size of the zero-based page in points.
	PageSize(page int) (types.PageSize, error)

	// Render rasterizes the zero-based page at dpi.
	Render(ctx context.Context, page int, dpi float64) (image.Image, error)

	// Close releases the handle.
	Close() error
}

// Ledger remembers previous renders so unchanged requests can be skipped.
type Ledger interface {
	Lookup(ctx context.Context, key types.RenderKey) (types.RenderResult, bool, error)
	Record(ctx context.Context, result types.RenderResult) error
}

// New returns the rasterizer for backend. An empty backend selects fitz.
func New(backend types.Backend) (Rasterizer, error) {
	switch backend {
	case types.BackendFitz, "":
		return FitzRasterizer{}, nil
	case types.BackendPdftoppm:
		return NewPdftoppmRasterizer()
	default:
		return nil, fmt.Errorf("%w: %q (use fitz or pdftoppm)", ErrUnknownBackend, backend)
	}
}

// DefaultOutputPath returns the output used when none is given: the input's
// base name with a .png extension, relative to the working directory.
func DefaultOutputPath(input string) string {
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
}

// ValidDPI reports an error wrapping ErrInvalidDPI unless dpi is a finite
// positive number.
func ValidDPI(dpi float64) error {
	if dpi <= 0 || math.IsNaN(dpi) || math.IsInf(dpi, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidDPI, dpi)
	}
	return nil
}

// PixelSize returns the pixel dimensions of a page of the given point size
// rendered at dpi.
func PixelSize(size types.PageSize, dpi float64) types.PixelSize {
	scale := dpi / types.PointsPerInch
	return types.PixelSize{
		Width:  int(math.Ceil(size.Width*scale - roundingSlack)),
		Height: int(math.Ceil(size.Height*scale - roundingSlack)),
	}
}

// Snap renders cfg.Page of cfg.InputPath to cfg.OutputPath, consulting the
// ledger first. When the ledger has an identical render whose output is
// still on disk with the recorded digest, Snap returns it with StatusSkipped.
// ledger may be nil.
func Snap(ctx context.Context, r Rasterizer, ledger Ledger, cfg types.RenderConfig) (types.RenderResult, error) {
	if err := validate(cfg); err != nil {
		return types.RenderResult{}, err
	}

	digest, err := fileDigest(cfg.InputPath)
	if err != nil {
		return types.RenderResult{}, err
	}

	key := types.RenderKey{
		InputSHA256: digest,
		Page:        cfg.Page,
		DPI:         cfg.DPI,
		Backend:     r.Name(),
		OutputPath:  cfg.OutputPath,
	}

	if ledger != nil && !cfg.Force {
		prev, ok, err := ledger.Lookup(ctx, key)
		if err != nil {
			logging.Warn("history lookup failed", "err", err)
		} else if ok && outputMatches(prev) {
			logging.Debug("render unchanged, skipping", "output", cfg.OutputPath)
			prev.Status = types.StatusSkipped
			return prev, nil
		}
	}

	result, err := RenderPage(ctx, r, cfg)
	if err != nil {
		return result, err
	}
	result.InputSHA256 = digest

	if ledger != nil {
		if err := ledger.Record(ctx, result); err != nil {
			logging.Warn("recording render in history failed", "err", err)
		}
	}
	return result, nil
}

// RenderPage opens the document, renders one page, and writes it as PNG.
// The document handle is closed as soon as the page has been rasterized.
func RenderPage(ctx context.Context, r Rasterizer, cfg types.RenderConfig) (types.RenderResult, error) {
	result := types.RenderResult{
		InputPath:  cfg.InputPath,
		OutputPath: cfg.OutputPath,
		Page:       cfg.Page,
		DPI:        cfg.DPI,
		Backend:    r.Name(),
		Status:     types.StatusFailed,
	}

	if err := validate(cfg); err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	img, size, err := rasterize(ctx, r, cfg)
	if err != nil {
		return result, err
	}
	result.PageSize = size

	flat := flatten(img)
	outDigest, err := writePNG(cfg.OutputPath, flat)
	if err != nil {
		return result, err
	}
	result.OutputSHA256 = outDigest

	b := flat.Bounds()
	result.Pixels = types.PixelSize{Width: b.Dx(), Height: b.Dy()}
	result.Status = types.StatusRendered
	result.RenderedAt = time.Now().UTC()

	logging.Info("rendered page",
		"input", cfg.InputPath, "page", cfg.Page, "dpi", cfg.DPI,
		"backend", string(r.Name()), "width", b.Dx(), "height", b.Dy())
	return result, nil
}

func rasterize(ctx context.Context, r Rasterizer, cfg types.RenderConfig) (image.Image, types.PageSize, error) {
	doc, err := r.Open(cfg.InputPath)
	if err != nil {
		return nil, types.PageSize{}, fmt.Errorf("%w %s: %w", ErrOpenDocument, cfg.InputPath, err)
	}
	defer doc.Close()

	n := doc.NumPage()
	if n == 0 {
		return nil, types.PageSize{}, fmt.Errorf("%w: %s", ErrNoPages, cfg.InputPath)
	}
	if cfg.Page >= n {
		return nil, types.PageSize{}, fmt.Errorf("%w: page %d requested, %s has %d page(s)",
			ErrPageOutOfRange, cfg.Page, cfg.InputPath, n)
	}

	size, err := doc.PageSize(cfg.Page)
	if err != nil {
		return nil, types.PageSize{}, fmt.Errorf("%w: page %d: %w", ErrRasterize, cfg.Page, err)
	}

	img, err := doc.Render(ctx, cfg.Page, cfg.DPI)
	if err != nil {
		return nil, types.PageSize{}, fmt.Errorf("%w: page %d: %w", ErrRasterize, cfg.Page, err)
	}
	return img, size, nil
}

func validate(cfg types.RenderConfig) error {
	if cfg.InputPath == "" {
		return ErrNoInput
	}
	if err := ValidDPI(cfg.DPI); err != nil {
		return err
	}
	if cfg.Page < 0 {
		return fmt.Errorf("%w: page %d", ErrPageOutOfRange, cfg.Page)
	}
	if cfg.OutputPath == "" {
		return fmt.Errorf("%w: empty output path", ErrWriteOutput)
	}
	return nil
}

// flatten composites img onto an opaque white canvas anchored at the origin,
// so the encoded PNG carries no alpha channel.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}

// writePNG encodes img into a temp file beside path and renames it into
// place, returning the hex SHA-256 of the bytes written. On failure the
// temp file is removed and path is untouched.
func writePNG(path string, img image.Image) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrWriteOutput, path, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	h := sha256.New()
	if err := png.Encode(io.MultiWriter(tmp, h), img); err != nil {
		cleanup()
		return "", fmt.Errorf("%w %s: encoding: %w", ErrWriteOutput, path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		cleanup()
		return "", fmt.Errorf("%w %s: %w", ErrWriteOutput, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w %s: %w", ErrWriteOutput, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w %s: %w", ErrWriteOutput, path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func fileDigest(path string) (string, error) {
	digest, err := sha256File(path)
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrOpenDocument, path, err)
	}
	return digest, nil
}

func sha256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// outputMatches reports whether a previously recorded output is still on
// disk byte for byte. Rows recorded without an output digest never match.
func outputMatches(prev types.RenderResult) bool {
	if prev.OutputSHA256 == "" {
		return false
	}
	digest, err := sha256File(prev.OutputPath)
	if err != nil {
		return false
	}
	return digest == prev.OutputSHA256
}
