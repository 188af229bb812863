package transform

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// DistortionType is the name of the distortion model.
type DistortionType string

const (
	// NoDistortionType leaves normalized coordinates untouched.
	NoDistortionType = DistortionType("none")
	// BrownConradyDistortionType is for simple lenses of narrow field easily modeled as a pinhole camera.
	BrownConradyDistortionType = DistortionType("brown_conrady")
	// RadialTangentialDistortionType is Brown-Conrady restricted to the four coefficients (k1, k2, p1, p2).
	RadialTangentialDistortionType = DistortionType("radial_tangential")
	// KannalaBrandtDistortionType is for wide-angle and fisheye lense distortion.
	KannalaBrandtDistortionType = DistortionType("kannala_brandt")
	// InverseBrownConradyDistortionType maps Brown-Conrady distorted points back to undistorted ones.
	InverseBrownConradyDistortionType = DistortionType("inverse_brown_conrady")
)

// ErrInvalidDistortion is returned when distortion parameters cannot be used by their model.
var ErrInvalidDistortion = errors.New("invalid distortion_parameters")

// Distorter defines a Transform that takes an undistorted point in normalized image coordinates
// and distorts it according to the model.
type Distorter interface {
	ModelType() DistortionType
	CheckValid() error
	Parameters() []float64
	Transform(x, y float64) (float64, float64)
}

// InvalidDistortionError is used when the distortion_parameters are invalid.
func InvalidDistortionError(msg string) error {
	return errors.Wrap(ErrInvalidDistortion, msg)
}

// NewDistorter returns a Distorter given a valid DistortionType and its parameters.
// An empty type is treated as NoDistortionType.
func NewDistorter(distortionType DistortionType, parameters []float64) (Distorter, error) {
	switch distortionType {
	case NoDistortionType, "":
		return NewNoDistortion(parameters)
	case BrownConradyDistortionType:
		return NewBrownConrady(parameters)
	case RadialTangentialDistortionType:
		return NewRadialTangential(parameters)
	case KannalaBrandtDistortionType:
		return NewKannalaBrandt(parameters)
	case InverseBrownConradyDistortionType:
		return NewInverseBrownConrady(parameters)
	default:
		return nil, errors.Errorf("do not know how to parse %q distortion model", distortionType)
	}
}

// A DistortionModel maps a batch of normalized image-plane coordinates to distorted normalized
// coordinates. The output has the same length and order as the input. The camera matrix is
// passed for models that need it; the pointwise models here ignore it.
type DistortionModel interface {
	DistortPoints(normalized []r2.Point, coeffs []float64, k mat.Matrix) ([]r2.Point, error)
}

// DistortionModelFunc adapts an ordinary function to a DistortionModel.
type DistortionModelFunc func(normalized []r2.Point, coeffs []float64, k mat.Matrix) ([]r2.Point, error)

// DistortPoints calls f.
func (f DistortionModelFunc) DistortPoints(normalized []r2.Point, coeffs []float64, k mat.Matrix) ([]r2.Point, error) {
	return f(normalized, coeffs, k)
}

// ModelOf returns the DistortionModel that builds a Distorter of the given type from the
// coefficients of each call and applies it to every point.
func ModelOf(distortionType DistortionType) DistortionModel {
	return DistortionModelFunc(func(normalized []r2.Point, coeffs []float64, _ mat.Matrix) ([]r2.Point, error) {
		distorter, err := NewDistorter(distortionType, coeffs)
		if err != nil {
			return nil, err
		}
		if err := distorter.CheckValid(); err != nil {
			return nil, err
		}
		return transformAll(distorter, normalized), nil
	})
}

// DistorterModel returns a DistortionModel that applies an already configured Distorter. The
// coefficients passed to DistortPoints are ignored in favor of the distorter's own.
func DistorterModel(distorter Distorter) DistortionModel {
	return DistortionModelFunc(func(normalized []r2.Point, _ []float64, _ mat.Matrix) ([]r2.Point, error) {
		if distorter == nil {
			return nil, InvalidDistortionError("no distorter provided")
		}
		return transformAll(distorter, normalized), nil
	})
}

func transformAll(distorter Distorter, normalized []r2.Point) []r2.Point {
	out := make([]r2.Point, len(normalized))
	for i, pt := range normalized {
		out[i].X, out[i].Y = distorter.Transform(pt.X, pt.Y)
	}
	return out
}

// fillParameters copies inp into a slice of length n, padding missing values with 0.
func fillParameters(name string, inp []float64, n int) ([]float64, error) {
	if len(inp) > n {
		return nil, errors.Errorf("list of %s parameters too long, expected max %d, got %d", name, n, len(inp))
	}
	out := make([]float64, n)
	copy(out, inp)
	return out, nil
}
