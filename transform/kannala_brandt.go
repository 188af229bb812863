package transform

import "math"

// KannalaBrandt is the equidistant fisheye model with four coefficients on the incidence angle.
type KannalaBrandt struct {
	K1 float64 `json:"k1"`
	K2 float64 `json:"k2"`
	K3 float64 `json:"k3"`
	K4 float64 `json:"k4"`
}

// NewKannalaBrandt takes in a slice of floats (k1, k2, k3, k4). Missing values are 0.
func NewKannalaBrandt(inp []float64) (*KannalaBrandt, error) {
	params, err := fillParameters("kannala_brandt", inp, 4)
	if err != nil {
		return nil, err
	}
	return &KannalaBrandt{params[0], params[1], params[2], params[3]}, nil
}

// CheckValid checks if the fields for KannalaBrandt have valid inputs.
func (kb *KannalaBrandt) CheckValid() error {
	if kb == nil {
		return InvalidDistortionError("KannalaBrandt shaped distortion_parameters not provided")
	}
	return nil
}

// ModelType returns the type of distortion model.
func (kb *KannalaBrandt) ModelType() DistortionType {
	return KannalaBrandtDistortionType
}

// Parameters returns the distortion parameters in a slice of floats.
func (kb *KannalaBrandt) Parameters() []float64 {
	if kb == nil {
		return []float64{}
	}
	return []float64{kb.K1, kb.K2, kb.K3, kb.K4}
}

// Transform distorts x,y with
//
//	θ  = atan(r)
//	θd = θ * (1 + k1*θ² + k2*θ⁴ + k3*θ⁶ + k4*θ⁸)
//	(x_d, y_d) = (θd / r) * (x, y)
//
// Points on the optical axis are returned unchanged.
func (kb *KannalaBrandt) Transform(x, y float64) (float64, float64) {
	if kb == nil {
		return x, y
	}
	r := math.Hypot(x, y)
	if r < 1e-12 {
		return x, y
	}
	theta := math.Atan(r)
	theta2 := theta * theta
	thetaD := theta * (1 + theta2*(kb.K1+theta2*(kb.K2+theta2*(kb.K3+theta2*kb.K4))))
	scale := thetaD / r
	return x * scale, y * scale
}
