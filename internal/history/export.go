// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pagesnap/pkg/types"
)

// ExportEntry is one ledger row in export form.
type ExportEntry struct {
	Input      string          `json:"input" yaml:"input"`
	SHA256     string          `json:"sha256" yaml:"sha256"`
	Output     string          `json:"output" yaml:"output"`
	OutputSHA  string          `json:"output_sha256,omitempty" yaml:"output_sha256,omitempty"`
	Page       int             `json:"page" yaml:"page"`
	DPI        float64         `json:"dpi" yaml:"dpi"`
	Backend    string          `json:"backend" yaml:"backend"`
	PageSize   types.PageSize  `json:"page_size_pt" yaml:"page_size_pt"`
	Pixels     types.PixelSize `json:"pixels" yaml:"pixels"`
	RenderedAt string          `json:"rendered_at" yaml:"rendered_at"`
}

// ExportYAML writes the whole ledger to w as a YAML sequence.
func (s *Store) ExportYAML(ctx context.Context, w io.Writer) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the whole ledger to w as an indented JSON array.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (s *Store) exportEntries(ctx context.Context) ([]ExportEntry, error) {
	results, err := s.all(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, len(results))
	for i, r := range results {
		entries[i] = ExportEntry{
			Input:      r.InputPath,
			SHA256:     r.InputSHA256,
			Output:     r.OutputPath,
			OutputSHA:  r.OutputSHA256,
			Page:       r.Page,
			DPI:        r.DPI,
			Backend:    string(r.Backend),
			PageSize:   r.PageSize,
			Pixels:     r.Pixels,
			RenderedAt: r.RenderedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return entries, nil
}
