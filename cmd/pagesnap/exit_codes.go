// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pagesnap/internal/inspect"
	"github.com/pdiddy/pagesnap/internal/render"
)

// Exit codes for the pagesnap CLI.
const (
	ExitSuccess = 0 // Page rendered or already up to date
	ExitGeneral = 1 // Unexpected error
	ExitUsage   = 2 // Bad arguments, flags, or config values
	ExitIO      = 3 // Input unreadable or output unwritable
	ExitRender  = 4 // Document opened but the page could not be rendered
)

// ErrUsage marks command-line mistakes.
var ErrUsage = errors.New("usage")

// exitCodeFor maps an error to an exit code. Errors must be wrapped with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, render.ErrNoInput) ||
		errors.Is(err, render.ErrInvalidDPI) ||
		errors.Is(err, render.ErrPageOutOfRange) ||
		errors.Is(err, render.ErrUnknownBackend) ||
		errors.Is(err, inspect.ErrPageIndex) {
		return ExitUsage
	}

	if errors.Is(err, render.ErrRasterize) ||
		errors.Is(err, render.ErrNoPages) ||
		errors.Is(err, render.ErrBackendUnavailable) {
		return ExitRender
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, render.ErrOpenDocument) ||
		errors.Is(err, render.ErrWriteOutput) {
		return ExitIO
	}

	return ExitGeneral
}

// exactArgs is cobra.ExactArgs with the error marked as a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		return nil
	}
}
