// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pagesnap CLI, which renders one
// page of a PDF document to a PNG image.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pagesnap/internal/history"
	"github.com/pdiddy/pagesnap/internal/logging"
	"github.com/pdiddy/pagesnap/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the pagesnap CLI.
var rootCmd = &cobra.Command{
	Use:   "pagesnap",
	Short: "Render a PDF page to a PNG image",
	Long: `pagesnap rasterizes a single page of a PDF document to a PNG file at a
fixed resolution. The default is the first page at 200 DPI, which scales
each PDF point by 200/72.

Renders are recorded in a small SQLite ledger so repeating an identical
render is a no-op; use --force to render anyway.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logging.Init(cfg.Log, cmd.ErrOrStderr())
		if used := viper.ConfigFileUsed(); used != "" {
			logging.Debug("using config file", "path", used)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pagesnap.yaml or ~/.config/pagesnap/pagesnap.yaml)")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "also write JSON logs to this file (rotated)")
	rootCmd.PersistentFlags().String("history", history.DefaultPath, "render history database")

	viper.SetDefault("render.dpi", types.DefaultDPI)
	viper.SetDefault("render.page", 0)
	viper.SetDefault("render.backend", string(types.BackendFitz))
	viper.SetDefault("history.enabled", true)
	viper.SetDefault("history.path", history.DefaultPath)
	viper.SetDefault("log.level", "warn")

	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag("history.path", rootCmd.PersistentFlags().Lookup("history"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pagesnap")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pagesnap"))
		}
	}

	viper.SetEnvPrefix("PAGESNAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "warning: reading config %s: %v\n", cfgFile, err)
	}
}

// loadConfig assembles the effective configuration from viper.
func loadConfig() types.Config {
	return types.Config{
		Render: types.RenderConfig{
			Page:    viper.GetInt("render.page"),
			DPI:     viper.GetFloat64("render.dpi"),
			Backend: types.Backend(viper.GetString("render.backend")),
		},
		History: types.HistoryConfig{
			Enabled: viper.GetBool("history.enabled"),
			Path:    viper.GetString("history.path"),
		},
		Log: types.LogConfig{
			Level:      viper.GetString("log.level"),
			File:       viper.GetString("log.file"),
			MaxSizeMB:  viper.GetInt("log.max_size_mb"),
			MaxBackups: viper.GetInt("log.max_backups"),
		},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}
