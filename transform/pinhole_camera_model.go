package transform

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/golang/geo/r2"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/utils"
	"gonum.org/v1/gonum/mat"
)

// PinholeCameraModel is the model of a pinhole camera.
type PinholeCameraModel struct {
	*PinholeCameraIntrinsics
	Distortion Distorter
}

// CheckValid checks the intrinsics and, when present, the distortion model.
func (params *PinholeCameraModel) CheckValid() error {
	if params == nil {
		return NewNoIntrinsicsError("camera model does not exist")
	}
	if err := params.PinholeCameraIntrinsics.CheckValid(); err != nil {
		return err
	}
	if params.Distortion != nil {
		return params.Distortion.CheckValid()
	}
	return nil
}

func (params *PinholeCameraModel) distortion() (DistortionModel, []float64) {
	if params.Distortion == nil {
		return nil, nil
	}
	return DistorterModel(params.Distortion), params.Distortion.Parameters()
}

// ProjectPoints projects camera-frame points to pixels with the model's intrinsics and distortion.
func (params *PinholeCameraModel) ProjectPoints(pts []r3.Vector) ([]r2.Point, error) {
	if params == nil || params.PinholeCameraIntrinsics == nil {
		return nil, NewNoIntrinsicsError("camera model has no intrinsics")
	}
	model, d := params.distortion()
	return ProjectVectors(pts, params.GetCameraMatrix(), d, model)
}

// ProjectMatrix is ProjectPoints on an N×3 matrix of points. When parallel is set the batch is
// split across goroutines.
func (params *PinholeCameraModel) ProjectMatrix(ctx context.Context, points3d mat.Matrix, parallel bool) (*mat.Dense, error) {
	if params == nil || params.PinholeCameraIntrinsics == nil {
		return nil, NewNoIntrinsicsError("camera model has no intrinsics")
	}
	model, d := params.distortion()
	if parallel {
		return ProjectPointsParallel(ctx, points3d, params.GetCameraMatrix(), d, model)
	}
	return ProjectPoints(points3d, params.GetCameraMatrix(), d, model)
}

// DistortionConfig names a distortion model and its coefficients.
type DistortionConfig struct {
	Type       DistortionType `json:"type"`
	Parameters []float64      `json:"parameters"`
}

// CameraConfig is the on-disk description of a camera.
type CameraConfig struct {
	Intrinsics *PinholeCameraIntrinsics `json:"intrinsic_parameters"`
	Distortion *DistortionConfig        `json:"distortion,omitempty"`
}

// NewCameraConfigFromJSONFile takes in a file path to a JSON and turns it into a CameraConfig.
func NewCameraConfigFromJSONFile(jsonPath string) (*CameraConfig, error) {
	//nolint:gosec
	jsonFile, err := os.Open(jsonPath)
	if err != nil {
		return nil, errors.Wrap(err, "error opening JSON file")
	}
	defer utils.UncheckedErrorFunc(jsonFile.Close)
	return NewCameraConfigFromReader(jsonFile)
}

// NewCameraConfigFromReader parses a CameraConfig from JSON.
func NewCameraConfigFromReader(r io.Reader) (*CameraConfig, error) {
	byteValue, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "error reading JSON data")
	}
	cfg := &CameraConfig{}
	if err := json.Unmarshal(byteValue, cfg); err != nil {
		return nil, errors.Wrap(err, "error parsing JSON string")
	}
	return cfg, nil
}

// Model validates the config and builds the camera model it describes. A missing distortion
// section means no distortion.
func (cfg *CameraConfig) Model() (*PinholeCameraModel, error) {
	if cfg == nil {
		return nil, NewNoIntrinsicsError("camera config does not exist")
	}
	if err := cfg.Intrinsics.CheckValid(); err != nil {
		return nil, err
	}
	var distorter Distorter = &NoDistortion{}
	if cfg.Distortion != nil {
		var err error
		distorter, err = NewDistorter(cfg.Distortion.Type, cfg.Distortion.Parameters)
		if err != nil {
			return nil, err
		}
	}
	model := &PinholeCameraModel{PinholeCameraIntrinsics: cfg.Intrinsics, Distortion: distorter}
	if err := model.CheckValid(); err != nil {
		return nil, err
	}
	return model, nil
}
