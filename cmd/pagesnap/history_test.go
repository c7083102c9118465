// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pagesnap/internal/history"
	"github.com/pdiddy/pagesnap/internal/pdftest"
	"github.com/pdiddy/pagesnap/pkg/types"
)

func TestHistoryCommands(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "history.db")

	out, err := execute(t, "history", "list", "--history", db)
	require.NoError(t, err)
	assert.Equal(t, "No renders recorded.\n", out)

	input := pdftest.Write(t, dir, "doc.pdf", pdftest.Letter)
	_, err = execute(t, "render", input, "-o", filepath.Join(dir, "doc.png"), "--dpi", "72", "--history", db)
	require.NoError(t, err)

	out, err = execute(t, "history", "list", "--history", db)
	require.NoError(t, err)
	assert.Contains(t, out, "612x792")
	assert.Contains(t, out, "1 renders")

	out, err = execute(t, "history", "list", "--history", db, "--json")
	require.NoError(t, err)
	var listed []types.RenderResult
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, types.BackendFitz, listed[0].Backend)

	out, err = execute(t, "history", "export", "--history", db)
	require.NoError(t, err)
	var entries []history.ExportEntry
	require.NoError(t, yaml.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, 72.0, entries[0].DPI)

	exportPath := filepath.Join(dir, "export.json")
	out, err = execute(t, "history", "export", "--history", db, "--format", "json", "--out", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported to")
	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"backend": "fitz"`)
}

func TestHistoryExportBadFormat(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "export.xml")
	_, err := execute(t, "history", "export", "--history", filepath.Join(dir, "h.db"), "--format", "xml", "--out", out)
	require.Error(t, err)
	assert.Equal(t, ExitUsage, exitCodeFor(err))
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}
