package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/pinhole/logging"
	"go.viam.com/pinhole/transform"
)

// newLogger logs to the app's error writer so projected output on Writer stays clean.
func newLogger(c *cli.Context, name string) logging.Logger {
	logger := logging.NewBlankLogger(name)
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	if c.Bool(generalFlagDebug) {
		logger.SetLevel(logging.DEBUG)
	} else {
		logger.SetLevel(logging.INFO)
	}
	return logger
}

func loadCamera(path string, logger logging.Logger) (*transform.PinholeCameraModel, error) {
	cfg, err := transform.NewCameraConfigFromJSONFile(path)
	if err != nil {
		return nil, err
	}
	camera, err := cfg.Model()
	if err != nil {
		return nil, errors.Wrapf(err, "invalid camera file %q", path)
	}
	logger.Debugw("loaded camera",
		"path", path,
		"intrinsics", camera.PinholeCameraIntrinsics,
		"distortion", camera.Distortion.ModelType(),
		"parameters", camera.Distortion.Parameters())
	return camera, nil
}

// createOutput opens the --out destination.
var createOutput = func(path string) (io.WriteCloser, error) {
	//nolint:gosec
	return os.Create(path)
}

// writeOutput runs write against the file at path, or against fallback when path is empty. An
// error from closing the file is returned along with any write error.
func writeOutput(path string, fallback io.Writer, write func(io.Writer) error) (err error) {
	if path == "" {
		return write(fallback)
	}
	var f io.WriteCloser
	f, err = createOutput(path)
	if err != nil {
		return errors.Wrap(err, "error creating output file")
	}
	defer func() {
		err = multierr.Combine(err, f.Close())
	}()
	return write(f)
}

// ProjectAction is the corresponding Action for 'project'.
func ProjectAction(c *cli.Context) error {
	logger := newLogger(c, "pinhole.project")
	format := c.String(projectFlagFormat)
	switch format {
	case formatCSV, formatJSON, formatTable:
	default:
		return errors.Errorf("unknown output format %q", format)
	}

	camera, err := loadCamera(c.String(projectFlagCamera), logger)
	if err != nil {
		return err
	}
	rows, err := readPoints(c.String(projectFlagPoints))
	if err != nil {
		return err
	}
	points3d, err := transform.NewPointsMatrix(rows)
	if err != nil {
		return err
	}
	logger.Debugw("projecting", "points", len(rows), "parallel", c.Bool(projectFlagParallel))

	projected, err := camera.ProjectMatrix(c.Context, points3d, c.Bool(projectFlagParallel))
	if err != nil {
		return err
	}

	err = writeOutput(c.String(projectFlagOut), c.App.Writer, func(out io.Writer) error {
		switch format {
		case formatJSON:
			return writeJSON(out, projected, len(rows))
		case formatTable:
			return writeTable(out, rows, projected, camera)
		default:
			return writeCSV(out, projected, len(rows))
		}
	})
	if err != nil {
		return err
	}
	logger.Infof("projected %d points", len(rows))
	return nil
}

// readPoints reads rows of numbers. Files ending in .json hold a JSON array of arrays, anything
// else is CSV with optional '#' comment lines. Row lengths are not checked here.
func readPoints(path string) ([][]float64, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "error opening points file")
	}
	defer utils.UncheckedErrorFunc(f.Close)

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var rows [][]float64
		if err := json.NewDecoder(f).Decode(&rows); err != nil {
			return nil, errors.Wrap(err, "error parsing points JSON")
		}
		return rows, nil
	}
	return readCSVPoints(f)
}

func readCSVPoints(r io.Reader) ([][]float64, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "error reading points CSV")
	}
	rows := make([][]float64, 0, len(records))
	for i, record := range records {
		row := make([]float64, len(record))
		for j, field := range record {
			row[j], err = strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d column %d", i, j)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeCSV(w io.Writer, projected *mat.Dense, n int) error {
	writer := csv.NewWriter(w)
	for i := 0; i < n; i++ {
		if err := writer.Write([]string{formatFloat(projected.At(i, 0)), formatFloat(projected.At(i, 1))}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeJSON(w io.Writer, projected *mat.Dense, n int) error {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = mat.Row(nil, i, projected)
	}
	return json.NewEncoder(w).Encode(rows)
}

func writeTable(w io.Writer, rows [][]float64, projected *mat.Dense, camera *transform.PinholeCameraModel) error {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "X", "Y", "Z", "U", "V", "In Image"})
	for i, row := range rows {
		u, v := projected.At(i, 0), projected.At(i, 1)
		t.AppendRow(table.Row{
			fmt.Sprintf("%d", i),
			formatFloat(row[0]), formatFloat(row[1]), formatFloat(row[2]),
			fmt.Sprintf("%.3f", u), fmt.Sprintf("%.3f", v),
			camera.InBounds(r2.Point{X: u, Y: v}),
		})
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
