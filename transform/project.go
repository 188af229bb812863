// Package transform projects camera-frame 3D points to pixels with a pinhole camera model and a
// pluggable lens distortion model.
package transform

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidShape is returned when a points or camera matrix input has the wrong dimensions.
	ErrInvalidShape = errors.New("invalid shape")
	// ErrDegenerateDepth is returned when a point cannot be divided by its depth.
	ErrDegenerateDepth = errors.New("degenerate depth")
)

// NewInvalidShapeError is used when an input named what is rows x cols instead of the expected shape.
func NewInvalidShapeError(what string, rows, cols int, expected string) error {
	return errors.Wrapf(ErrInvalidShape, "%s must be %s, got %dx%d", what, expected, rows, cols)
}

// DegenerateDepthError reports the first point of a batch whose depth is zero or whose
// coordinates are not finite.
type DegenerateDepthError struct {
	Index int
	Point r3.Vector
}

func (e *DegenerateDepthError) Error() string {
	return fmt.Sprintf("%v: point %d (%v, %v, %v) cannot be projected",
		ErrDegenerateDepth, e.Index, e.Point.X, e.Point.Y, e.Point.Z)
}

// Is lets errors.Is match a *DegenerateDepthError against ErrDegenerateDepth.
func (e *DegenerateDepthError) Is(target error) bool {
	return target == ErrDegenerateDepth
}

// intrinsics are the four entries of K the projection reads.
type intrinsics struct {
	fx, fy, cx, cy float64
}

func intrinsicsOf(k mat.Matrix) (intrinsics, error) {
	if isNilMatrix(k) {
		return intrinsics{}, errors.Wrap(ErrInvalidShape, "camera matrix is nil")
	}
	if r, c := k.Dims(); r != 3 || c != 3 {
		return intrinsics{}, NewInvalidShapeError("camera matrix", r, c, "3x3")
	}
	return intrinsics{fx: k.At(0, 0), fy: k.At(1, 1), cx: k.At(0, 2), cy: k.At(1, 2)}, nil
}

// isNilMatrix reports whether m is a nil interface or a nil *mat.Dense.
func isNilMatrix(m mat.Matrix) bool {
	if m == nil {
		return true
	}
	dense, ok := m.(*mat.Dense)
	return ok && dense == nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// project runs normalize, distort, and apply intrinsics on pts. offset is added to the index
// reported in a DegenerateDepthError so callers working on a sub-batch report global indices.
func project(pts []r3.Vector, offset int, in intrinsics, k mat.Matrix, d []float64, model DistortionModel) ([]r2.Point, error) {
	normalized := make([]r2.Point, len(pts))
	for i, pt := range pts {
		if pt.Z == 0 || !isFinite(pt.X) || !isFinite(pt.Y) || !isFinite(pt.Z) {
			return nil, &DegenerateDepthError{Index: offset + i, Point: pt}
		}
		normalized[i] = r2.Point{X: pt.X / pt.Z, Y: pt.Y / pt.Z}
	}

	if model == nil {
		model = DistorterModel(&NoDistortion{})
	}
	distorted, err := model.DistortPoints(normalized, d, k)
	if err != nil {
		return nil, errors.Wrap(err, "error distorting points")
	}
	if len(distorted) != len(normalized) {
		return nil, errors.Errorf("distortion model returned %d points for %d inputs", len(distorted), len(normalized))
	}

	pixels := make([]r2.Point, len(distorted))
	for i, pt := range distorted {
		pixels[i] = r2.Point{X: in.fx*pt.X + in.cx, Y: in.fy*pt.Y + in.cy}
	}
	return pixels, nil
}

func vectorsOf(points3d mat.Matrix) []r3.Vector {
	r, _ := points3d.Dims()
	pts := make([]r3.Vector, r)
	for i := range pts {
		pts[i] = r3.Vector{X: points3d.At(i, 0), Y: points3d.At(i, 1), Z: points3d.At(i, 2)}
	}
	return pts
}

// checkPoints returns the number of rows of an N×3 points matrix. A nil matrix or an empty
// mat.Dense has zero rows.
func checkPoints(points3d mat.Matrix) (int, error) {
	if isNilMatrix(points3d) {
		return 0, nil
	}
	if dense, ok := points3d.(*mat.Dense); ok && dense.IsEmpty() {
		return 0, nil
	}
	r, c := points3d.Dims()
	if c != 3 {
		return 0, NewInvalidShapeError("points", r, c, "Nx3")
	}
	return r, nil
}

func denseOf(pts []r2.Point) *mat.Dense {
	if len(pts) == 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(len(pts), 2, nil)
	for i, pt := range pts {
		out.Set(i, 0, pt.X)
		out.Set(i, 1, pt.Y)
	}
	return out
}

// ProjectPoints projects the N×3 camera-frame points onto the image plane of the camera matrix k.
// Each point (x, y, z) is normalized to (x/z, y/z), the whole batch is passed with the
// coefficients d to the distortion model, and the intrinsics are applied:
//
//	u = fx*x' + cx
//	v = fy*y' + cy
//
// The result is N×2 in input order. A nil model applies no distortion. An empty input returns
// an empty matrix.
func ProjectPoints(points3d, k mat.Matrix, d []float64, model DistortionModel) (*mat.Dense, error) {
	n, err := checkPoints(points3d)
	if err != nil {
		return nil, err
	}
	in, err := intrinsicsOf(k)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return &mat.Dense{}, nil
	}
	projected, err := project(vectorsOf(points3d), 0, in, k, d, model)
	if err != nil {
		return nil, err
	}
	return denseOf(projected), nil
}

// NewPointsMatrix packs rows of (x, y, z) into an N×3 matrix. Every row must have exactly three
// values. No rows gives an empty matrix.
func NewPointsMatrix(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 {
		return &mat.Dense{}, nil
	}
	out := mat.NewDense(len(rows), 3, nil)
	for i, row := range rows {
		if len(row) != 3 {
			return nil, errors.Wrapf(NewInvalidShapeError("points", len(rows), len(row), "Nx3"), "row %d", i)
		}
		out.SetRow(i, row)
	}
	return out, nil
}

// ProjectRows is ProjectPoints for callers holding plain rows.
func ProjectRows(rows [][]float64, k mat.Matrix, d []float64, model DistortionModel) ([][]float64, error) {
	points3d, err := NewPointsMatrix(rows)
	if err != nil {
		return nil, err
	}
	projected, err := ProjectPoints(points3d, k, d, model)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(rows))
	for i := range out {
		out[i] = mat.Row(nil, i, projected)
	}
	return out, nil
}

// ProjectVectors is ProjectPoints over a slice of points.
func ProjectVectors(pts []r3.Vector, k mat.Matrix, d []float64, model DistortionModel) ([]r2.Point, error) {
	in, err := intrinsicsOf(k)
	if err != nil {
		return nil, err
	}
	if len(pts) == 0 {
		return []r2.Point{}, nil
	}
	return project(pts, 0, in, k, d, model)
}
