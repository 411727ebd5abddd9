package rbo

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	diffdrive "github.com/milosgajdos/go-diffdrive"
	"github.com/milosgajdos/go-diffdrive/matrix"
	"github.com/milosgajdos/go-diffdrive/noise"
)

// Fix is a single-landmark position estimate together with its first-order
// 2x2 covariance.
type Fix struct {
	X, Y float64
	Cov  *mat.SymDense
}

// RBO estimates the robot pose afresh at every time step from simultaneous
// range-bearing observations of all landmarks. It carries no belief between
// steps: position comes from inverse-covariance weighted least squares over
// the per-landmark fixes, heading from a weighted circular mean of
// per-landmark heading estimates. Only the sensor noise stream persists
// across steps.
type RBO struct {
	landmarks    []diffdrive.Landmark
	rangeNoise   *noise.Scalar
	bearingNoise *noise.Scalar
}

// New creates a new range-bearing-only estimator for the given run
// configuration, drawing its sensor noise from src. It returns an error if
// the configuration is invalid, fewer than two landmarks are configured or
// src is nil.
func New(c diffdrive.Config, src rand.Source) (*RBO, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if len(c.Landmarks) < 2 {
		return nil, fmt.Errorf("range-bearing fusion requires at least 2 landmarks, got %d", len(c.Landmarks))
	}

	rng, err := noise.NewScalar(c.SensorNoise.Range, src)
	if err != nil {
		return nil, fmt.Errorf("failed to create range noise stream: %v", err)
	}

	bearing, err := noise.NewScalar(c.SensorNoise.Bearing, src)
	if err != nil {
		return nil, fmt.Errorf("failed to create bearing noise stream: %v", err)
	}

	return &RBO{
		landmarks:    append([]diffdrive.Landmark{}, c.Landmarks...),
		rangeNoise:   rng,
		bearingNoise: bearing,
	}, nil
}

// Step estimates the pose from one set of simultaneous noisy observations of
// the true pose. The control input is ignored: the estimator consumes no
// odometry. The returned record carries the fused 2x2 position covariance
// and an independent heading variance, with the cross terms zero.
func (f *RBO) Step(truth diffdrive.Pose, _ diffdrive.Control) (diffdrive.Record, error) {
	fixes := make([]Fix, len(f.landmarks))
	for i, lm := range f.landmarks {
		fixes[i] = f.observe(truth, lm)
	}

	pos, err := FusePositions(fixes)
	if err != nil {
		return diffdrive.Record{}, err
	}

	heading, headingVar, err := f.fuseHeading(truth, pos)
	if err != nil {
		return diffdrive.Record{}, err
	}

	cov := mat.NewSymDense(3, nil)
	cov.SetSym(0, 0, pos.Cov.At(0, 0))
	cov.SetSym(0, 1, pos.Cov.At(0, 1))
	cov.SetSym(1, 1, pos.Cov.At(1, 1))
	cov.SetSym(2, 2, headingVar)

	return diffdrive.Record{
		Truth: truth,
		Est:   diffdrive.Pose{X: pos.X, Y: pos.Y, Theta: heading},
		Cov:   cov,
	}, nil
}

// observe synthesizes one noisy fix of the robot position from lm: it
// samples the range and the global bearing of the true geometry and inverts
// them back to a position, propagating the sensor variances through the
// inversion to first order.
func (f *RBO) observe(truth diffdrive.Pose, lm diffdrive.Landmark) Fix {
	dx := truth.X - lm.X
	dy := truth.Y - lm.Y
	r := math.Hypot(dx, dy)
	angle := math.Atan2(dy, dx)

	rMeas := r + f.rangeNoise.Sample()
	angleMeas := angle + f.bearingNoise.Sample()
	sin, cos := math.Sincos(angleMeas)

	j := mat.NewDense(2, 2, []float64{
		cos, -rMeas * sin,
		sin, rMeas * cos,
	})
	sensor := mat.NewDiagDense(2, []float64{
		f.rangeNoise.StdDev() * f.rangeNoise.StdDev(),
		f.bearingNoise.StdDev() * f.bearingNoise.StdDev(),
	})

	var js, cov mat.Dense
	js.Mul(j, sensor)
	cov.Mul(&js, j.T())

	return Fix{
		X:   lm.X + rMeas*cos,
		Y:   lm.Y + rMeas*sin,
		Cov: matrix.SymCopy(&cov),
	}
}

// FusePositions fuses position fixes by inverse-covariance weighted least
// squares and returns the fused fix. The result does not depend on the order
// of the fixes. It returns an error if no fixes are given or if any fix
// covariance, or the accumulated information matrix, is not invertible.
func FusePositions(fixes []Fix) (Fix, error) {
	if len(fixes) == 0 {
		return Fix{}, fmt.Errorf("no position fixes to fuse")
	}

	info := mat.NewDense(2, 2, nil)
	weighted := mat.NewVecDense(2, nil)
	for i, fx := range fixes {
		var inv mat.Dense
		if err := inv.Inverse(fx.Cov); err != nil {
			return Fix{}, fmt.Errorf("fix %d covariance is degenerate: %v", i, err)
		}

		info.Add(info, &inv)

		var w mat.VecDense
		w.MulVec(&inv, mat.NewVecDense(2, []float64{fx.X, fx.Y}))
		weighted.AddVec(weighted, &w)
	}

	var fused mat.Dense
	if err := fused.Inverse(info); err != nil {
		return Fix{}, fmt.Errorf("fused information matrix is degenerate: %v", err)
	}

	var pos mat.VecDense
	pos.MulVec(&fused, weighted)

	return Fix{
		X:   pos.AtVec(0),
		Y:   pos.AtVec(1),
		Cov: matrix.SymCopy(&fused),
	}, nil
}

// fuseHeading derives one heading estimate per landmark from the fused
// position and an independently resampled relative bearing of the true
// geometry, then fuses them by weighted circular mean. Each weight is the
// inverse of the estimate variance: the fused position covariance propagated
// through the global bearing plus the bearing sensor variance. It returns
// the fused heading and its reported variance, the inverse of the weight
// sum.
func (f *RBO) fuseHeading(truth diffdrive.Pose, pos Fix) (heading, variance float64, err error) {
	sigmaB2 := f.bearingNoise.StdDev() * f.bearingNoise.StdDev()

	var sinSum, cosSum, weightSum float64
	for i, lm := range f.landmarks {
		dx := lm.X - pos.X
		dy := lm.Y - pos.Y
		dSq := dx*dx + dy*dy
		if dSq == 0 {
			return 0, 0, fmt.Errorf("landmark %d coincident with fused position", i)
		}
		thetaGlobal := math.Atan2(dy, dx)

		dxTrue := lm.X - truth.X
		dyTrue := lm.Y - truth.Y
		phi := math.Atan2(dyTrue, dxTrue) - truth.Theta + f.bearingNoise.Sample()

		psi := diffdrive.Wrap(thetaGlobal - phi)

		varThetaGlobal := (dx*dx*pos.Cov.At(1, 1) + dy*dy*pos.Cov.At(0, 0) - 2*dx*dy*pos.Cov.At(0, 1)) / (dSq * dSq)
		varPsi := varThetaGlobal + sigmaB2
		if varPsi <= 0 {
			return 0, 0, fmt.Errorf("landmark %d heading variance is not positive", i)
		}

		w := 1 / varPsi
		sinSum += w * math.Sin(psi)
		cosSum += w * math.Cos(psi)
		weightSum += w
	}

	return math.Atan2(sinSum, cosSum), 1 / weightSum, nil
}
