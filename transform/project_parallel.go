package transform

import (
	"context"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/pinhole/utils"
)

// ProjectPointsParallel is ProjectPoints with the batch split into contiguous ranges that are
// projected concurrently. Each range is handed to the distortion model separately, so the model
// must treat points independently; every model in this package does. The error reported is the
// one from the lowest-indexed failing range, which is the error ProjectPoints would return.
func ProjectPointsParallel(ctx context.Context, points3d, k mat.Matrix, d []float64, model DistortionModel) (*mat.Dense, error) {
	n, err := checkPoints(points3d)
	if err != nil {
		return nil, err
	}
	in, err := intrinsicsOf(k)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return &mat.Dense{}, ctx.Err()
	}
	pts := vectorsOf(points3d)
	projected := make([]r2.Point, n)
	var groupErrs []error

	err = utils.GroupWorkParallel(
		ctx,
		n,
		func(numGroups int) {
			groupErrs = make([]error, numGroups)
		},
		func(groupNum, groupSize, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
			return nil, func() {
				out, err := project(pts[from:to], from, in, k, d, model)
				if err != nil {
					groupErrs[groupNum] = err
					return
				}
				copy(projected[from:to], out)
			}
		},
	)
	if err != nil {
		return nil, err
	}
	for _, err := range groupErrs {
		if err != nil {
			return nil, err
		}
	}
	return denseOf(projected), nil
}
