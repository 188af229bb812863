package transform

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"
)

const realSenseConfig = `{
	"intrinsic_parameters": {
		"width_px": 1280, "height_px": 720,
		"fx": 906.0663452148438, "fy": 905.1234741210938,
		"ppx": 646.94970703125, "ppy": 374.4667663574219
	},
	"distortion": {"type": "radial_tangential", "parameters": [0.1, -0.05, 0.001, 0.002]}
}`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "camera.json")
	test.That(t, os.WriteFile(path, []byte(contents), 0o644), test.ShouldBeNil)
	return path
}

func TestCameraConfigFromJSONFile(t *testing.T) {
	cfg, err := NewCameraConfigFromJSONFile(writeConfig(t, realSenseConfig))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Intrinsics.Width, test.ShouldEqual, 1280)
	test.That(t, cfg.Intrinsics.Ppy, test.ShouldEqual, 374.4667663574219)
	test.That(t, cfg.Distortion.Type, test.ShouldEqual, RadialTangentialDistortionType)
	test.That(t, cfg.Distortion.Parameters, test.ShouldResemble, []float64{0.1, -0.05, 0.001, 0.002})

	model, err := cfg.Model()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, model.Distortion, test.ShouldResemble, &RadialTangential{BrownConrady{
		RadialK1: 0.1, RadialK2: -0.05, TangentialP1: 0.001, TangentialP2: 0.002,
	}})
	test.That(t, model.Distortion.ModelType(), test.ShouldEqual, RadialTangentialDistortionType)

	_, err = NewCameraConfigFromJSONFile(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err.Error(), test.ShouldContainSubstring, "error opening JSON file")

	_, err = NewCameraConfigFromReader(strings.NewReader("{"))
	test.That(t, err.Error(), test.ShouldContainSubstring, "error parsing JSON string")
}

func TestCameraConfigModelErrors(t *testing.T) {
	var nilCfg *CameraConfig
	_, err := nilCfg.Model()
	test.That(t, errors.Is(err, ErrNoIntrinsics), test.ShouldBeTrue)

	_, err = (&CameraConfig{}).Model()
	test.That(t, errors.Is(err, ErrNoIntrinsics), test.ShouldBeTrue)

	intrinsics := &PinholeCameraIntrinsics{Width: 640, Height: 480, Fx: 500, Fy: 500, Ppx: 320, Ppy: 240}
	_, err = (&CameraConfig{
		Intrinsics: intrinsics,
		Distortion: &DistortionConfig{Type: "mystery"},
	}).Model()
	test.That(t, err.Error(), test.ShouldContainSubstring, "mystery")

	model, err := (&CameraConfig{Intrinsics: intrinsics}).Model()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, model.Distortion.ModelType(), test.ShouldEqual, NoDistortionType)
}

func TestPinholeCameraModelProject(t *testing.T) {
	intrinsics := &PinholeCameraIntrinsics{Width: 640, Height: 480, Fx: 500, Fy: 500, Ppx: 320, Ppy: 240}
	bc := &BrownConrady{RadialK1: 0.1}
	model := &PinholeCameraModel{PinholeCameraIntrinsics: intrinsics, Distortion: bc}
	test.That(t, model.CheckValid(), test.ShouldBeNil)

	pts := []r3.Vector{{X: 0, Y: 0, Z: 3}, {X: 1, Y: 0, Z: 2}}
	pixels, err := model.ProjectPoints(pts)
	test.That(t, err, test.ShouldBeNil)
	// (0.5, 0) distorts to 0.5 * (1 + 0.1 * 0.25).
	test.That(t, pixels[0], test.ShouldResemble, r2.Point{X: 320, Y: 240})
	test.That(t, pixels[1].X, test.ShouldAlmostEqual, 500*0.5125+320)
	test.That(t, pixels[1].Y, test.ShouldAlmostEqual, 240.)
	test.That(t, model.InBounds(pixels[1]), test.ShouldBeTrue)

	matrix := mat.NewDense(2, 3, []float64{0, 0, 3, 1, 0, 2})
	for _, parallel := range []bool{false, true} {
		out, err := model.ProjectMatrix(context.Background(), matrix, parallel)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out.At(1, 0), test.ShouldEqual, pixels[1].X)
		test.That(t, out.At(1, 1), test.ShouldEqual, pixels[1].Y)
	}

	undistorted := &PinholeCameraModel{PinholeCameraIntrinsics: intrinsics}
	pixels, err = undistorted.ProjectPoints(pts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pixels[1], test.ShouldResemble, r2.Point{X: 570, Y: 240})

	var empty PinholeCameraModel
	_, err = empty.ProjectPoints(pts)
	test.That(t, errors.Is(err, ErrNoIntrinsics), test.ShouldBeTrue)

	bad := &PinholeCameraModel{PinholeCameraIntrinsics: intrinsics, Distortion: (*BrownConrady)(nil)}
	test.That(t, errors.Is(bad.CheckValid(), ErrInvalidDistortion), test.ShouldBeTrue)
}
