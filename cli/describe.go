package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"
)

// DescribeAction is the corresponding Action for 'describe'.
func DescribeAction(c *cli.Context) error {
	logger := newLogger(c, "pinhole.describe")
	camera, err := loadCamera(c.String(projectFlagCamera), logger)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetTitle("Camera")
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"Size", fmt.Sprintf("%dx%d", camera.Width, camera.Height)})
	k := camera.GetCameraMatrix()
	for i := 0; i < 3; i++ {
		t.AppendRow(table.Row{
			fmt.Sprintf("K[%d]", i),
			fmt.Sprintf("%g %g %g", k.At(i, 0), k.At(i, 1), k.At(i, 2)),
		})
	}
	t.AppendRow(table.Row{"Distortion", camera.Distortion.ModelType()})
	params := make([]string, 0, len(camera.Distortion.Parameters()))
	for _, p := range camera.Distortion.Parameters() {
		params = append(params, formatFloat(p))
	}
	t.AppendRow(table.Row{"Parameters", strings.Join(params, " ")})
	printf(c.App.Writer, "%s", t.Render())
	return nil
}

// printf prints a message with a newline at the end.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}
