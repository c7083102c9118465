// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Backend identifies the rasterizer used to turn a PDF page into pixels.
type Backend string

const (
	BackendFitz     Backend = "fitz"
	BackendPdftoppm Backend = "pdftoppm"
)

const (
	// DefaultDPI is the resolution used when none is configured.
	DefaultDPI = 200.0

	// PointsPerInch is the PDF user-space unit density. A page rendered at
	// dpi pixels per inch is scaled by dpi / PointsPerInch.
	PointsPerInch = 72.0
)

// RenderConfig holds settings for a single page render.
type RenderConfig struct {
	// InputPath is the PDF document to read.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath is where the PNG is written. The directory must exist.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// Page is the zero-based page index (default 0).
	Page int `json:"page" yaml:"page"`

	// DPI is the output resolution in pixels per inch. Must be positive.
	DPI float64 `json:"dpi" yaml:"dpi"`

	// Backend selects the rasterizer: fitz or pdftoppm.
	Backend Backend `json:"backend" yaml:"backend"`

	// Force re-renders even when the history ledger has a matching entry.
	Force bool `json:"force" yaml:"force"`
}

// Scale returns the zoom factor applied to both axes.
func (c RenderConfig) Scale() float64 {
	return c.DPI / PointsPerInch
}

// HistoryConfig holds settings for the render ledger.
type HistoryConfig struct {
	// Enabled controls whether renders are recorded and looked up.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Path is the SQLite database file (default ".pagesnap/history.db").
	Path string `json:"path" yaml:"path"`
}

// LogConfig holds settings for structured logging.
type LogConfig struct {
	// Level is the minimum level: debug, info, warn, or error.
	Level string `json:"level" yaml:"level"`

	// File is an optional log file path. When set, logs are also written
	// there with size-based rotation.
	File string `json:"file,omitempty" yaml:"file,omitempty"`

	// MaxSizeMB is the rotation threshold for File (default 10).
	MaxSizeMB int `json:"max_size_mb" yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept (default 3).
	MaxBackups int `json:"max_backups" yaml:"max_backups"`
}

// Config groups all settings loaded from the config file, environment,
// and flags.
type Config struct {
	Render  RenderConfig  `json:"render" yaml:"render"`
	History HistoryConfig `json:"history" yaml:"history"`
	Log     LogConfig     `json:"log" yaml:"log"`
}
