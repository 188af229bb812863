package transform

// BrownConrady is a struct for some terms of a modified Brown-Conrady model of distortion.
type BrownConrady struct {
	RadialK1     float64 `json:"rk1"`
	RadialK2     float64 `json:"rk2"`
	RadialK3     float64 `json:"rk3"`
	TangentialP1 float64 `json:"tp1"`
	TangentialP2 float64 `json:"tp2"`
}

// NewBrownConrady takes in a slice of floats (k1, k2, k3, p1, p2) that will be passed into the
// struct in order. Missing values are 0.
func NewBrownConrady(inp []float64) (*BrownConrady, error) {
	params, err := fillParameters("brown_conrady", inp, 5)
	if err != nil {
		return nil, err
	}
	return &BrownConrady{params[0], params[1], params[2], params[3], params[4]}, nil
}

// RadialTangential is Brown-Conrady with k3 fixed at 0, parameterized by (k1, k2, p1, p2).
type RadialTangential struct {
	BrownConrady
}

// NewRadialTangential takes in a slice of floats (k1, k2, p1, p2). Missing values are 0.
func NewRadialTangential(inp []float64) (*RadialTangential, error) {
	params, err := fillParameters("radial_tangential", inp, 4)
	if err != nil {
		return nil, err
	}
	return &RadialTangential{BrownConrady{
		RadialK1:     params[0],
		RadialK2:     params[1],
		TangentialP1: params[2],
		TangentialP2: params[3],
	}}, nil
}

// CheckValid checks if the fields for RadialTangential have valid inputs.
func (rt *RadialTangential) CheckValid() error {
	if rt == nil {
		return InvalidDistortionError("RadialTangential shaped distortion_parameters not provided")
	}
	return nil
}

// ModelType returns the type of distortion model.
func (rt *RadialTangential) ModelType() DistortionType {
	return RadialTangentialDistortionType
}

// Parameters returns (k1, k2, p1, p2).
func (rt *RadialTangential) Parameters() []float64 {
	if rt == nil {
		return []float64{}
	}
	return []float64{rt.RadialK1, rt.RadialK2, rt.TangentialP1, rt.TangentialP2}
}

// Transform distorts x,y with the equivalent Brown-Conrady model.
func (rt *RadialTangential) Transform(x, y float64) (float64, float64) {
	if rt == nil {
		return x, y
	}
	return rt.BrownConrady.Transform(x, y)
}

// CheckValid checks if the fields for BrownConrady have valid inputs.
func (bc *BrownConrady) CheckValid() error {
	if bc == nil {
		return InvalidDistortionError("BrownConrady shaped distortion_parameters not provided")
	}
	return nil
}

// ModelType returns the type of distortion model.
func (bc *BrownConrady) ModelType() DistortionType {
	return BrownConradyDistortionType
}

// Parameters returns the distortion parameters in a slice of floats.
func (bc *BrownConrady) Parameters() []float64 {
	if bc == nil {
		return []float64{}
	}
	return []float64{bc.RadialK1, bc.RadialK2, bc.RadialK3, bc.TangentialP1, bc.TangentialP2}
}

// Transform distorts the input points x,y according to a modified Brown-Conrady model as
// described by OpenCV:
//
//	x_d = x * (1 + k1*r² + k2*r⁴ + k3*r⁶) + 2*p1*x*y + p2*(r² + 2*x²)
//	y_d = y * (1 + k1*r² + k2*r⁴ + k3*r⁶) + 2*p2*x*y + p1*(r² + 2*y²)
//
// https://docs.opencv.org/3.4/da/d54/group__imgproc__transform.html#ga7dfb72c9cf9780a347fbe3d1c47e5d5a
func (bc *BrownConrady) Transform(x, y float64) (float64, float64) {
	if bc == nil {
		return x, y
	}
	r2 := x*x + y*y
	radDist := bc.radial(r2)
	xd := x*radDist + 2.0*bc.TangentialP1*x*y + bc.TangentialP2*(r2+2.0*x*x)
	yd := y*radDist + 2.0*bc.TangentialP2*x*y + bc.TangentialP1*(r2+2.0*y*y)
	return xd, yd
}

func (bc *BrownConrady) radial(r2 float64) float64 {
	return 1.0 + r2*(bc.RadialK1+r2*(bc.RadialK2+r2*bc.RadialK3))
}

// jacobian returns the partial derivatives of Transform at (x, y):
// [[dxd/dx, dxd/dy], [dyd/dx, dyd/dy]].
func (bc *BrownConrady) jacobian(x, y float64) (dxdx, dxdy, dydx, dydy float64) {
	r2 := x*x + y*y
	radDist := bc.radial(r2)
	// d(radDist)/d(r²); d(r²)/dx = 2x.
	dRad := bc.RadialK1 + 2.0*bc.RadialK2*r2 + 3.0*bc.RadialK3*r2*r2
	dRadDx := 2.0 * x * dRad
	dRadDy := 2.0 * y * dRad

	dxdx = radDist + x*dRadDx + 2.0*bc.TangentialP1*y + 6.0*bc.TangentialP2*x
	dxdy = x*dRadDy + 2.0*bc.TangentialP1*x + 2.0*bc.TangentialP2*y
	dydx = y*dRadDx + 2.0*bc.TangentialP2*y + 2.0*bc.TangentialP1*x
	dydy = radDist + y*dRadDy + 2.0*bc.TangentialP2*x + 6.0*bc.TangentialP1*y
	return dxdx, dxdy, dydx, dydy
}
