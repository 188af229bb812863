package transform

import (
	"fmt"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ErrNoIntrinsics is when a camera does not have intrinsics parameters or other parameters.
var ErrNoIntrinsics = errors.New("camera intrinsic parameters are not available")

// NewNoIntrinsicsError is used when the intriniscs are not defined.
func NewNoIntrinsicsError(msg string) error {
	return errors.Wrap(ErrNoIntrinsics, msg)
}

// PinholeCameraIntrinsics holds the parameters necessary to do a perspective projection of a 3D scene to the 2D plane.
type PinholeCameraIntrinsics struct {
	Width  int     `json:"width_px"`
	Height int     `json:"height_px"`
	Fx     float64 `json:"fx"`
	Fy     float64 `json:"fy"`
	Ppx    float64 `json:"ppx"`
	Ppy    float64 `json:"ppy"`
}

// NewPinholeCameraIntrinsicsFromCameraMatrix reads fx, fy, ppx and ppy out of a 3x3 camera
// matrix. The image size is unknown and left at zero.
func NewPinholeCameraIntrinsicsFromCameraMatrix(k mat.Matrix) (*PinholeCameraIntrinsics, error) {
	in, err := intrinsicsOf(k)
	if err != nil {
		return nil, err
	}
	return &PinholeCameraIntrinsics{Fx: in.fx, Fy: in.fy, Ppx: in.cx, Ppy: in.cy}, nil
}

// CheckValid checks if the fields for PinholeCameraIntrinsics have valid inputs.
func (params *PinholeCameraIntrinsics) CheckValid() error {
	if params == nil {
		return NewNoIntrinsicsError("Intrinsics do not exist")
	}
	if params.Width <= 0 || params.Height <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid size (%#v, %#v)", params.Width, params.Height))
	}
	if params.Fx <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid focal length Fx = %#v", params.Fx))
	}
	if params.Fy <= 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid focal length Fy = %#v", params.Fy))
	}
	if params.Ppx < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid principal X point Ppx = %#v", params.Ppx))
	}
	if params.Ppy < 0 {
		return NewNoIntrinsicsError(fmt.Sprintf("Invalid principal Y point Ppy = %#v", params.Ppy))
	}
	return nil
}

// GetCameraMatrix creates a new camera matrix and returns it.
// Camera matrix:
// [[fx 0 ppx],
//
//	[0 fy ppy],
//	[0 0  1]]
func (params *PinholeCameraIntrinsics) GetCameraMatrix() *mat.Dense {
	if params == nil {
		return nil
	}
	cameraMatrix := mat.NewDense(3, 3, nil)
	cameraMatrix.Set(0, 0, params.Fx)
	cameraMatrix.Set(1, 1, params.Fy)
	cameraMatrix.Set(0, 2, params.Ppx)
	cameraMatrix.Set(1, 2, params.Ppy)
	cameraMatrix.Set(2, 2, 1)
	return cameraMatrix
}

// PointToPixel projects a 3D point to a pixel in an image plane without distortion.
// The intrinsics parameters should be the ones of the sensor we want to project to.
func (params *PinholeCameraIntrinsics) PointToPixel(x, y, z float64) (float64, float64, error) {
	if params == nil {
		return 0, 0, NewNoIntrinsicsError("Intrinsics do not exist")
	}
	pt := r3.Vector{X: x, Y: y, Z: z}
	if z == 0 || !isFinite(x) || !isFinite(y) || !isFinite(z) {
		return 0, 0, &DegenerateDepthError{Point: pt}
	}
	return (x/z)*params.Fx + params.Ppx, (y/z)*params.Fy + params.Ppy, nil
}

// PixelToPoint transforms a pixel with depth to a 3D point without undistorting it.
func (params *PinholeCameraIntrinsics) PixelToPoint(u, v, z float64) (float64, float64, float64) {
	if params == nil {
		return 0, 0, 0
	}
	xOverZ := (u - params.Ppx) / params.Fx
	yOverZ := (v - params.Ppy) / params.Fy
	return xOverZ * z, yOverZ * z, z
}

// InBounds reports whether a pixel lies on the image, [0, Width) x [0, Height).
func (params *PinholeCameraIntrinsics) InBounds(pt r2.Point) bool {
	if params == nil {
		return false
	}
	return pt.X >= 0 && pt.X < float64(params.Width) && pt.Y >= 0 && pt.Y < float64(params.Height)
}
