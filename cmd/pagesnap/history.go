// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pagesnap/internal/history"
	"github.com/pdiddy/pagesnap/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the render history",
	Long: `History reads the SQLite ledger of completed renders. Each entry holds
the document digest, page, DPI, backend, output path, and image size.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent renders, newest first",
	Args:  exactArgs(0),
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := history.Open(loadConfig().History)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	results, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatHistoryOutput(cmd.OutOrStdout(), results, jsonOutput)
}

func formatHistoryOutput(w io.Writer, results []types.RenderResult, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Fprintln(w, "No renders recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-20s  %-30s  %-4s  %-6s  %-11s  %s\n",
		"Rendered", "Input", "Page", "DPI", "Pixels", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, r := range results {
		input := r.InputPath
		if len(input) > 30 {
			input = "..." + input[len(input)-27:]
		}
		fmt.Fprintf(w, "%-20s  %-30s  %-4d  %-6g  %-11s  %s\n",
			r.RenderedAt.Local().Format("2006-01-02 15:04:05"), input, r.Page, r.DPI,
			fmt.Sprintf("%dx%d", r.Pixels.Width, r.Pixels.Height), r.OutputPath)
	}

	fmt.Fprintf(w, "\n%d renders\n", len(results))
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the render history to YAML or JSON",
	Args:  exactArgs(0),
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")
	if format != "yaml" && format != "json" {
		return fmt.Errorf("%w: unsupported format %q: use yaml or json", ErrUsage, format)
	}

	store, err := history.Open(loadConfig().History)
	if err != nil {
		return err
	}
	defer store.Close()

	w := cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		w = f
	}

	if format == "json" {
		err = store.ExportJSON(cmd.Context(), w)
	} else {
		err = store.ExportYAML(cmd.Context(), w)
	}
	if err != nil {
		return err
	}

	if outPath != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", outPath)
	}
	return nil
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of renders to list")
	historyListCmd.Flags().Bool("json", false, "output results as JSON")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("out", "", "write to this file instead of stdout")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
