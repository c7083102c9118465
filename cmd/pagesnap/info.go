// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pagesnap/internal/inspect"
	"github.com/pdiddy/pagesnap/internal/render"
	"github.com/pdiddy/pagesnap/pkg/types"
)

var infoCmd = &cobra.Command{
	Use:   "info <document.pdf>",
	Short: "Show page count and page sizes",
	Long: `Info reads the document's page tree without rendering and prints each
page's size in points together with the pixel size a render at --dpi
would produce.`,
	Args: exactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().Float64("dpi", types.DefaultDPI, "resolution used for the pixel column")
	infoCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(infoCmd)
}

// pageInfo is one row of info output.
type pageInfo struct {
	Index  int             `json:"index"`
	Size   types.PageSize  `json:"size_pt"`
	Pixels types.PixelSize `json:"pixels"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	dpi, _ := cmd.Flags().GetFloat64("dpi")
	if err := render.ValidDPI(dpi); err != nil {
		return err
	}

	doc, err := inspect.Inspect(args[0])
	if err != nil {
		return fmt.Errorf("%w %s: %w", render.ErrOpenDocument, args[0], err)
	}

	pages := make([]pageInfo, doc.PageCount())
	for i, size := range doc.Pages {
		pages[i] = pageInfo{Index: i, Size: size, Pixels: render.PixelSize(size, dpi)}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatInfoOutput(cmd.OutOrStdout(), doc.Path, dpi, pages, jsonOutput)
}

func formatInfoOutput(w io.Writer, path string, dpi float64, pages []pageInfo, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Path  string     `json:"path"`
			DPI   float64    `json:"dpi"`
			Pages []pageInfo `json:"pages"`
		}{path, dpi, pages})
	}

	fmt.Fprintf(w, "File:  %s\n", path)
	fmt.Fprintf(w, "Pages: %d\n\n", len(pages))
	pixelHeader := fmt.Sprintf("Pixels @ %g dpi", dpi)
	fmt.Fprintf(w, "%-5s  %-10s  %-10s  %s\n", "Index", "Width pt", "Height pt", pixelHeader)
	fmt.Fprintln(w, strings.Repeat("-", 33+len(pixelHeader)))
	for _, p := range pages {
		fmt.Fprintf(w, "%-5d  %-10.2f  %-10.2f  %dx%d\n",
			p.Index, p.Size.Width, p.Size.Height, p.Pixels.Width, p.Pixels.Height)
	}
	return nil
}
