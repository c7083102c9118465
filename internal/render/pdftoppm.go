// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pdiddy/pagesnap/internal/inspect"
	"github.com/pdiddy/pagesnap/pkg/types"
)

const binPdftoppm = "pdftoppm"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(ctx context.Context, name string, args []string, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = stderr
	return cmd.Run()
}

var defaultExec executor = osExecutor{}

// PdftoppmRasterizer renders by running Poppler's pdftoppm. Page geometry
// comes from the inspect package so range checks happen before the
// subprocess starts.
type PdftoppmRasterizer struct {
	exec executor
	bin  string
}

// NewPdftoppmRasterizer verifies that pdftoppm is on PATH.
func NewPdftoppmRasterizer() (*PdftoppmRasterizer, error) {
	return newPdftoppmRasterizer(defaultExec)
}

func newPdftoppmRasterizer(exec executor) (*PdftoppmRasterizer, error) {
	bin, err := exec.LookPath(binPdftoppm)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found on PATH: %w", ErrBackendUnavailable, binPdftoppm, err)
	}
	return &PdftoppmRasterizer{exec: exec, bin: bin}, nil
}

// Name returns types.BackendPdftoppm.
func (p *PdftoppmRasterizer) Name() types.Backend { return types.BackendPdftoppm }

// Open reads the document's page geometry.
func (p *PdftoppmRasterizer) Open(path string) (Document, error) {
	doc, err := inspect.Inspect(path)
	if err != nil {
		return nil, err
	}
	return &pdftoppmDocument{geometry: doc, exec: p.exec, bin: p.bin}, nil
}

type pdftoppmDocument struct {
	geometry inspect.Document
	exec     executor
	bin      string
}

func (d *pdftoppmDocument) NumPage() int { return d.geometry.PageCount() }

func (d *pdftoppmDocument) PageSize(page int) (types.PageSize, error) {
	return d.geometry.Page(page)
}

// Render runs pdftoppm for one page into a scratch directory and decodes
// the resulting PNG.
func (d *pdftoppmDocument) Render(ctx context.Context, page int, dpi float64) (image.Image, error) {
	scratch, err := os.MkdirTemp("", "pagesnap-")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	prefix := filepath.Join(scratch, "page")
	pageArg := strconv.Itoa(page + 1)
	args := []string{
		"-png", "-singlefile",
		"-r", strconv.FormatFloat(dpi, 'f', -1, 64),
		"-f", pageArg, "-l", pageArg,
		d.geometry.Path, prefix,
	}

	var stderr bytes.Buffer
	if err := d.exec.Run(ctx, d.bin, args, &stderr); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("running %s: %w: %s", binPdftoppm, err, msg)
		}
		return nil, fmt.Errorf("running %s: %w", binPdftoppm, err)
	}

	f, err := os.Open(prefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("%s produced no image: %w", binPdftoppm, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s output: %w", binPdftoppm, err)
	}
	return img, nil
}

func (d *pdftoppmDocument) Close() error { return nil }
