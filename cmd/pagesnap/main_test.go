// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pagesnap/internal/pdftest"
)

// resetFlags restores every flag to its default so tests sharing the
// package-level command tree do not leak values into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the CLI with args and a private history database.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), err
}

func pngSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	input := pdftest.Write(t, dir, "invoice.pdf", pdftest.Letter)
	output := filepath.Join(dir, "invoice.png")
	db := filepath.Join(dir, "history.db")

	out, err := execute(t, "render", input, "-o", output, "--history", db)
	require.NoError(t, err)
	assert.Equal(t, "saved: "+output+"\n", out)

	w, h := pngSize(t, output)
	assert.Equal(t, 1700, w, "letter width at 200 dpi")
	assert.Equal(t, 2200, h)

	out, err = execute(t, "render", input, "-o", output, "--history", db)
	require.NoError(t, err)
	assert.Contains(t, out, "(unchanged, 1700x2200)")

	out, err = execute(t, "render", input, "-o", output, "--history", db, "--force")
	require.NoError(t, err)
	assert.Equal(t, "saved: "+output+"\n", out)
}

func TestRenderCommandDPIAndPage(t *testing.T) {
	dir := t.TempDir()
	input := pdftest.Write(t, dir, "doc.pdf", pdftest.Letter, pdftest.A4)
	output := filepath.Join(dir, "second.png")

	_, err := execute(t, "render", input, "-o", output, "--page", "1", "--dpi", "72", "--no-history")
	require.NoError(t, err)

	w, h := pngSize(t, output)
	assert.Equal(t, 596, w)
	assert.Equal(t, 842, h)
}

func TestRenderCommandDPIFromEnv(t *testing.T) {
	dir := t.TempDir()
	input := pdftest.Write(t, dir, "doc.pdf", pdftest.Letter)
	output := filepath.Join(dir, "doc.png")
	t.Setenv("PAGESNAP_RENDER_DPI", "144")

	_, err := execute(t, "render", input, "-o", output, "--no-history")
	require.NoError(t, err)

	w, _ := pngSize(t, output)
	assert.Equal(t, 1224, w)
}

func TestRenderCommandFailures(t *testing.T) {
	tests := []struct {
		name     string
		args     func(dir, input string) []string
		wantCode int
	}{
		{
			name:     "missing input",
			args:     func(dir, _ string) []string { return []string{"render", filepath.Join(dir, "nope.pdf")} },
			wantCode: ExitIO,
		},
		{
			name:     "page out of range",
			args:     func(_, input string) []string { return []string{"render", input, "--page", "4"} },
			wantCode: ExitUsage,
		},
		{
			name:     "invalid dpi",
			args:     func(_, input string) []string { return []string{"render", input, "--dpi", "0"} },
			wantCode: ExitUsage,
		},
		{
			name:     "unknown backend",
			args:     func(_, input string) []string { return []string{"render", input, "--backend", "ghostscript"} },
			wantCode: ExitUsage,
		},
		{
			name:     "no arguments",
			args:     func(_, _ string) []string { return []string{"render"} },
			wantCode: ExitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			input := pdftest.Write(t, dir, "doc.pdf", pdftest.Letter)
			output := filepath.Join(dir, "out.png")
			args := append(tt.args(dir, input), "-o", output, "--no-history")

			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, exitCodeFor(err))

			_, statErr := os.Stat(output)
			assert.True(t, os.IsNotExist(statErr), "failed render must not create output")
		})
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "pagesnap dev\n", out)
}
