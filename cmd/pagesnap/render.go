// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pagesnap/internal/history"
	"github.com/pdiddy/pagesnap/internal/logging"
	"github.com/pdiddy/pagesnap/internal/render"
	"github.com/pdiddy/pagesnap/pkg/types"
)

var renderCmd = &cobra.Command{
	Use:   "render <document.pdf>",
	Short: "Render one PDF page to a PNG file",
	Long: `Render opens the document, rasterizes one page at the configured DPI
(scale factor DPI/72, no alpha channel), and writes a PNG. The output
defaults to the document's base name with a .png extension in the
current directory.

Any failure (missing or corrupt document, page out of range, unwritable
output) ends the command with an error and leaves no output file.`,
	Args: exactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringP("output", "o", "", "output PNG path (default: <document>.png)")
	renderCmd.Flags().Int("page", 0, "zero-based page index")
	renderCmd.Flags().Float64("dpi", types.DefaultDPI, "output resolution in dots per inch")
	renderCmd.Flags().String("backend", string(types.BackendFitz), "rasterizer: fitz or pdftoppm")
	renderCmd.Flags().Bool("force", false, "render even if history shows an identical render")
	renderCmd.Flags().Bool("no-history", false, "do not read or write the render history")

	_ = viper.BindPFlag("render.page", renderCmd.Flags().Lookup("page"))
	_ = viper.BindPFlag("render.dpi", renderCmd.Flags().Lookup("dpi"))
	_ = viper.BindPFlag("render.backend", renderCmd.Flags().Lookup("backend"))

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	rc := cfg.Render
	rc.InputPath = args[0]
	rc.OutputPath, _ = cmd.Flags().GetString("output")
	if rc.OutputPath == "" {
		rc.OutputPath = render.DefaultOutputPath(rc.InputPath)
	}
	rc.Force, _ = cmd.Flags().GetBool("force")

	r, err := render.New(rc.Backend)
	if err != nil {
		return err
	}

	var ledger render.Ledger
	noHistory, _ := cmd.Flags().GetBool("no-history")
	if cfg.History.Enabled && !noHistory {
		store, err := history.Open(cfg.History)
		if err != nil {
			logging.Warn("render history unavailable", "path", cfg.History.Path, "err", err)
		} else {
			defer store.Close()
			ledger = store
		}
	}

	result, err := render.Snap(cmd.Context(), r, ledger, rc)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if result.Status == types.StatusSkipped {
		fmt.Fprintf(out, "saved: %s (unchanged, %dx%d)\n", result.OutputPath, result.Pixels.Width, result.Pixels.Height)
		return nil
	}
	fmt.Fprintf(out, "saved: %s\n", result.OutputPath)
	return nil
}
