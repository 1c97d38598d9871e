// Package main is the entrypoint for the atomic clock display.
// It renders a live cesium-referenced clock panel in the terminal, or one
// summary line per interval when stdout is not a terminal.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aelexs/atomic-clock/internal/app"
	"github.com/aelexs/atomic-clock/internal/errmap"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "0.1.0"

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(errmap.ExitCode(err))
	}
}

func run(ctx context.Context) error {
	return app.Run(ctx, app.Params{
		Name:    "atomicclock",
		Version: version,
	})
}
