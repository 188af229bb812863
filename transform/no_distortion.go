package transform

import "github.com/pkg/errors"

// NoDistortion is the identity distortion model.
type NoDistortion struct{}

// NewNoDistortion returns the identity model. It accepts coefficients as long as they are all
// zero, so a zero vector of any length is a valid no-op configuration.
func NewNoDistortion(inp []float64) (*NoDistortion, error) {
	for i, v := range inp {
		if v != 0 {
			return nil, errors.Wrapf(ErrInvalidDistortion, "no distortion model given nonzero parameter at index %d", i)
		}
	}
	return &NoDistortion{}, nil
}

// CheckValid always succeeds.
func (nd *NoDistortion) CheckValid() error {
	return nil
}

// ModelType returns the type of distortion model.
func (nd *NoDistortion) ModelType() DistortionType {
	return NoDistortionType
}

// Parameters returns no parameters.
func (nd *NoDistortion) Parameters() []float64 {
	return []float64{}
}

// Transform returns the input point.
func (nd *NoDistortion) Transform(x, y float64) (float64, float64) {
	return x, y
}
