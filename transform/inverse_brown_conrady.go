package transform

// InverseBrownConrady applies the inverse of the Brown-Conrady distortion model.
// Given distorted points, it computes the corresponding undistorted points using
// an iterative Newton-Raphson method.
type InverseBrownConrady struct {
	RadialK1     float64 `json:"rk1"`
	RadialK2     float64 `json:"rk2"`
	RadialK3     float64 `json:"rk3"`
	TangentialP1 float64 `json:"tp1"`
	TangentialP2 float64 `json:"tp2"`
}

const (
	inverseMaxIterations = 20
	inverseTolerance     = 1e-12
)

// NewInverseBrownConrady takes in a slice of floats (k1, k2, k3, p1, p2) in the same order as
// NewBrownConrady.
func NewInverseBrownConrady(inp []float64) (*InverseBrownConrady, error) {
	params, err := fillParameters("inverse_brown_conrady", inp, 5)
	if err != nil {
		return nil, err
	}
	return &InverseBrownConrady{params[0], params[1], params[2], params[3], params[4]}, nil
}

// CheckValid checks if the fields for InverseBrownConrady have valid inputs.
func (ibc *InverseBrownConrady) CheckValid() error {
	if ibc == nil {
		return InvalidDistortionError("InverseBrownConrady shaped distortion_parameters not provided")
	}
	return nil
}

// ModelType returns the type of distortion model.
func (ibc *InverseBrownConrady) ModelType() DistortionType {
	return InverseBrownConradyDistortionType
}

// Parameters returns the parameters of the distortion model as a list of floats.
func (ibc *InverseBrownConrady) Parameters() []float64 {
	if ibc == nil {
		return []float64{}
	}
	return []float64{ibc.RadialK1, ibc.RadialK2, ibc.RadialK3, ibc.TangentialP1, ibc.TangentialP2}
}

// Forward returns the Brown-Conrady model this one inverts.
func (ibc *InverseBrownConrady) Forward() *BrownConrady {
	if ibc == nil {
		return nil
	}
	bc := BrownConrady(*ibc)
	return &bc
}

// Transform solves BrownConrady.Transform(xu, yu) = (xd, yd) for (xu, yu), starting from the
// distorted point. Iteration stops after convergence, a singular Jacobian, or
// inverseMaxIterations steps.
func (ibc *InverseBrownConrady) Transform(xd, yd float64) (float64, float64) {
	if ibc == nil {
		return xd, yd
	}
	forward := ibc.Forward()
	xu, yu := xd, yd
	for i := 0; i < inverseMaxIterations; i++ {
		xdEst, ydEst := forward.Transform(xu, yu)
		errX := xdEst - xd
		errY := ydEst - yd
		if errX*errX+errY*errY < inverseTolerance*inverseTolerance {
			break
		}

		a, b, c, d := forward.jacobian(xu, yu)
		det := a*d - b*c
		if det == 0 {
			break
		}
		// [xu, yu] -= J^-1 * [errX, errY]
		xu -= (d*errX - b*errY) / det
		yu -= (-c*errX + a*errY) / det
	}
	return xu, yu
}
