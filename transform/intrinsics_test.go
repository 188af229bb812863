package transform

import (
	"errors"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

func TestIntrinsicsCheckValid(t *testing.T) {
	var nilIntrinsics *PinholeCameraIntrinsics
	test.That(t, errors.Is(nilIntrinsics.CheckValid(), ErrNoIntrinsics), test.ShouldBeTrue)

	good := PinholeCameraIntrinsics{Width: 1280, Height: 720, Fx: 906.07, Fy: 905.12, Ppx: 646.95, Ppy: 374.47}
	test.That(t, good.CheckValid(), test.ShouldBeNil)

	for _, tc := range []struct {
		mutate func(*PinholeCameraIntrinsics)
		msg    string
	}{
		{func(p *PinholeCameraIntrinsics) { p.Width = 0 }, "Invalid size"},
		{func(p *PinholeCameraIntrinsics) { p.Height = -1 }, "Invalid size"},
		{func(p *PinholeCameraIntrinsics) { p.Fx = 0 }, "Fx"},
		{func(p *PinholeCameraIntrinsics) { p.Fy = -2 }, "Fy"},
		{func(p *PinholeCameraIntrinsics) { p.Ppx = -1 }, "Ppx"},
		{func(p *PinholeCameraIntrinsics) { p.Ppy = -1 }, "Ppy"},
	} {
		bad := good
		tc.mutate(&bad)
		err := bad.CheckValid()
		test.That(t, errors.Is(err, ErrNoIntrinsics), test.ShouldBeTrue)
		test.That(t, err.Error(), test.ShouldContainSubstring, tc.msg)
	}
}

func TestCameraMatrixRoundTrip(t *testing.T) {
	intrinsics := &PinholeCameraIntrinsics{Width: 640, Height: 480, Fx: 500, Fy: 510, Ppx: 319.5, Ppy: 239.5}
	k := intrinsics.GetCameraMatrix()
	test.That(t, mat.Equal(k, mat.NewDense(3, 3, []float64{
		500, 0, 319.5,
		0, 510, 239.5,
		0, 0, 1,
	})), test.ShouldBeTrue)

	back, err := NewPinholeCameraIntrinsicsFromCameraMatrix(k)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, back, test.ShouldResemble, &PinholeCameraIntrinsics{Fx: 500, Fy: 510, Ppx: 319.5, Ppy: 239.5})

	_, err = NewPinholeCameraIntrinsicsFromCameraMatrix(mat.NewDense(3, 4, nil))
	test.That(t, errors.Is(err, ErrInvalidShape), test.ShouldBeTrue)

	var nilIntrinsics *PinholeCameraIntrinsics
	test.That(t, nilIntrinsics.GetCameraMatrix(), test.ShouldBeNil)
}

func TestPointToPixelAndBack(t *testing.T) {
	intrinsics := &PinholeCameraIntrinsics{Width: 640, Height: 480, Fx: 500, Fy: 500, Ppx: 320, Ppy: 240}
	u, v, err := intrinsics.PointToPixel(0.2, -0.1, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, u, test.ShouldAlmostEqual, 370.)
	test.That(t, v, test.ShouldAlmostEqual, 215.)

	x, y, z := intrinsics.PixelToPoint(u, v, 2)
	test.That(t, x, test.ShouldAlmostEqual, 0.2)
	test.That(t, y, test.ShouldAlmostEqual, -0.1)
	test.That(t, z, test.ShouldEqual, 2.)

	_, _, err = intrinsics.PointToPixel(1, 1, 0)
	test.That(t, errors.Is(err, ErrDegenerateDepth), test.ShouldBeTrue)

	test.That(t, intrinsics.InBounds(r2.Point{X: 370, Y: 215}), test.ShouldBeTrue)
	test.That(t, intrinsics.InBounds(r2.Point{X: 640, Y: 215}), test.ShouldBeFalse)
	test.That(t, intrinsics.InBounds(r2.Point{X: 10, Y: -0.5}), test.ShouldBeFalse)
}
