// Package main is the CLI command itself.
package main

import (
	"os"

	"go.viam.com/pinhole/cli"
	"go.viam.com/pinhole/logging"
)

func main() {
	logging.ReplaceGlobal(logging.NewLogger("pinhole"))
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		logger := logging.Global()
		logger.Error(err)
		//nolint:errcheck
		logger.Sync()
		os.Exit(1)
	}
}
