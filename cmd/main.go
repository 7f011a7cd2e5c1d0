package main

import (
	"context"
	"errors"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/calegray/syncopate/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "syncopate",
		Usage:    "Resolve streaming playlists against a local media library and sync them",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrMissingConfig) || errors.Is(err, shared.ErrMissingConfig) {
			logger.Error("missing configuration, run `syncopate init` first")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
