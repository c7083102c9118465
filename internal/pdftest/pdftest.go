// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftest builds small, structurally valid PDF documents for tests.
// Each page carries a filled rectangle so rasterizers have content to draw.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pagesnap/pkg/types"
)

// Letter is US Letter in points.
var Letter = types.PageSize{Width: 612, Height: 792}

// A4 is ISO A4 (210 x 297 mm) in points.
var A4 = types.PageSize{Width: 595.276, Height: 841.89}

// Page describes one page of a built document. Extra is copied verbatim
// into the page dictionary, e.g. "/CropBox [0 0 300 400] /Rotate 90".
type Page struct {
	MediaBox types.PageSize
	Extra    string
}

// Build returns the bytes of a PDF with one page per entry in pages.
// An empty pages slice yields a document with an empty page tree.
func Build(pages ...types.PageSize) []byte {
	specs := make([]Page, len(pages))
	for i, p := range pages {
		specs[i] = Page{MediaBox: p}
	}
	return BuildPages(specs...)
}

// BuildPages is Build with per-page dictionary entries.
func BuildPages(pages ...Page) []byte {
	var objs []string

	kids := ""
	for i := range pages {
		kids += fmt.Sprintf("%d 0 R ", 3+2*i)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, len(pages)),
	)

	for i, p := range pages {
		box := p.MediaBox
		content := fmt.Sprintf("0 0 1 rg 10 10 %g %g re f", box.Width/2, box.Height/2)
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] %s /Contents %d 0 R /Resources << >> >>",
				box.Width, box.Height, p.Extra, 4+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

// Write builds a PDF and writes it to dir/name, returning the full path.
func Write(t *testing.T, dir, name string, pages ...types.PageSize) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, Build(pages...), 0o644))
	return path
}

// WritePages is Write for pages built with BuildPages.
func WritePages(t *testing.T, dir, name string, pages ...Page) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, BuildPages(pages...), 0o644))
	return path
}
