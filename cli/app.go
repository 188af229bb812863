// Package cli contains the pinhole command line tool.
package cli

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Flags.
	generalFlagDebug = "debug"

	projectFlagCamera   = "camera"
	projectFlagPoints   = "points"
	projectFlagFormat   = "format"
	projectFlagParallel = "parallel"
	projectFlagOut      = "out"

	formatCSV   = "csv"
	formatJSON  = "json"
	formatTable = "table"
)

func cameraFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     projectFlagCamera,
		Aliases:  []string{"c"},
		Required: true,
		Usage:    "load the camera intrinsics and distortion from `FILE`",
	}
}

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:            "pinhole",
		Usage:           "project camera-frame points onto the image plane",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    generalFlagDebug,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "project",
				Usage:     "project 3D points to pixel coordinates",
				UsageText: fmt.Sprintf("pinhole project --%s <FILE> --%s <FILE> [other options]", projectFlagCamera, projectFlagPoints),
				Flags: []cli.Flag{
					cameraFlag(),
					&cli.StringFlag{
						Name:     projectFlagPoints,
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "read x,y,z rows from `FILE` (.json for a JSON array of rows, otherwise CSV)",
					},
					&cli.StringFlag{
						Name:  projectFlagFormat,
						Value: formatCSV,
						Usage: fmt.Sprintf("output format: %s, %s or %s", formatCSV, formatJSON, formatTable),
					},
					&cli.BoolFlag{
						Name:  projectFlagParallel,
						Usage: "split the batch across goroutines",
					},
					&cli.StringFlag{
						Name:  projectFlagOut,
						Usage: "write the projected points to `FILE` instead of stdout",
					},
				},
				Action: ProjectAction,
			},
			{
				Name:   "describe",
				Usage:  "print the camera matrix and distortion parameters of a camera file",
				Flags:  []cli.Flag{cameraFlag()},
				Action: DescribeAction,
			},
		},
	}
}
