package ekf

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	diffdrive "github.com/milosgajdos/go-diffdrive"
	"github.com/milosgajdos/go-diffdrive/kinematics"
	"github.com/milosgajdos/go-diffdrive/matrix"
	"github.com/milosgajdos/go-diffdrive/noise"
)

// initVar is the initial variance on each pose axis.
const initVar = 0.01

// EKF estimates the robot pose by fusing noisy odometry with noisy
// range-bearing landmark observations through a predict/correct cycle. It
// owns its pose estimate and 3x3 covariance exclusively; both are mutated
// only by Step.
type EKF struct {
	pose      diffdrive.Pose
	p         *mat.Dense
	landmarks []diffdrive.Landmark
	wheelBase float64
	// q is the process noise in wheel displacement space
	q *mat.Dense
	// r is the range-bearing measurement noise
	r            *mat.Dense
	rangeNoise   *noise.Scalar
	bearingNoise *noise.Scalar
}

// New creates a new EKF for the given run configuration, drawing its sensor
// noise from src. It returns an error if the configuration is invalid or src
// is nil.
func New(c diffdrive.Config, src rand.Source) (*EKF, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	rng, err := noise.NewScalar(c.SensorNoise.Range, src)
	if err != nil {
		return nil, fmt.Errorf("failed to create range noise stream: %v", err)
	}

	bearing, err := noise.NewScalar(c.SensorNoise.Bearing, src)
	if err != nil {
		return nil, fmt.Errorf("failed to create bearing noise stream: %v", err)
	}

	p := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		p.Set(i, i, initVar)
	}

	q := mat.NewDense(2, 2, []float64{
		c.MotionNoise.Left * c.MotionNoise.Left, 0,
		0, c.MotionNoise.Right * c.MotionNoise.Right,
	})

	r := mat.NewDense(2, 2, []float64{
		c.SensorNoise.Range * c.SensorNoise.Range, 0,
		0, c.SensorNoise.Bearing * c.SensorNoise.Bearing,
	})

	return &EKF{
		pose:         c.InitialPose,
		p:            p,
		landmarks:    append([]diffdrive.Landmark{}, c.Landmarks...),
		wheelBase:    c.WheelBase,
		q:            q,
		r:            r,
		rangeNoise:   rng,
		bearingNoise: bearing,
	}, nil
}

// Pose returns the current pose estimate.
func (f *EKF) Pose() diffdrive.Pose {
	return f.pose
}

// Cov returns a copy of the current pose covariance.
func (f *EKF) Cov() *mat.SymDense {
	return matrix.SymCopy(f.p)
}

// Step runs one predict/correct cycle: it advances the estimate with the
// noisy control u, then corrects it with one noisy range-bearing observation
// per landmark, synthesized from the true pose. Corrections are applied
// sequentially, each on the covariance left by the previous one. It returns
// the step record holding the post-correction estimate and covariance, or an
// error if a correction hits degenerate geometry; the estimate is not usable
// after a failed step.
func (f *EKF) Step(truth diffdrive.Pose, u diffdrive.Control) (diffdrive.Record, error) {
	f.predict(u)

	for i, lm := range f.landmarks {
		if err := f.correct(truth, lm); err != nil {
			return diffdrive.Record{}, fmt.Errorf("landmark %d correction failed: %w", i, err)
		}
	}

	return diffdrive.Record{Truth: truth, Est: f.pose, Cov: matrix.SymCopy(f.p)}, nil
}

// predict advances the pose estimate through the kinematic model and
// propagates the covariance as P = F*P*F' + V*Q*V'.
func (f *EKF) predict(u diffdrive.Control) {
	theta := f.pose.Theta
	f.pose = kinematics.Predict(f.pose, u, f.wheelBase)

	fj := kinematics.PoseJacobian(theta, u, f.wheelBase)
	vj := kinematics.ControlJacobian(theta, f.wheelBase)

	var fp, cov, vq, vqv mat.Dense
	fp.Mul(fj, f.p)
	cov.Mul(&fp, fj.T())
	vq.Mul(vj, f.q)
	vqv.Mul(&vq, vj.T())
	cov.Add(&cov, &vqv)

	f.p.Copy(&cov)
	matrix.Symmetrize(f.p)
}

// correct applies one range-bearing measurement of lm to the estimate.
func (f *EKF) correct(truth diffdrive.Pose, lm diffdrive.Landmark) error {
	dx := lm.X - f.pose.X
	dy := lm.Y - f.pose.Y
	q := dx*dx + dy*dy
	if q == 0 {
		return fmt.Errorf("landmark coincident with pose estimate")
	}
	rho := math.Sqrt(q)
	phi := diffdrive.Wrap(math.Atan2(dy, dx) - f.pose.Theta)

	zRange, zBearing := f.observe(truth, lm)

	// innovation, with the bearing residual re-wrapped
	y := mat.NewVecDense(2, []float64{
		zRange - rho,
		diffdrive.Wrap(zBearing - phi),
	})

	h := mat.NewDense(2, 3, []float64{
		-dx / rho, -dy / rho, 0,
		dy / q, -dx / q, -1,
	})

	// S = H*P*H' + R
	var ph, s mat.Dense
	ph.Mul(f.p, h.T())
	s.Mul(h, &ph)
	s.Add(&s, f.r)

	var sInv mat.Dense
	if err := sInv.Inverse(&s); err != nil {
		return fmt.Errorf("failed to invert innovation covariance: %v", err)
	}

	// K = P*H'*S^-1
	var k mat.Dense
	k.Mul(&ph, &sInv)

	var corr mat.VecDense
	corr.MulVec(&k, y)
	f.pose.X += corr.AtVec(0)
	f.pose.Y += corr.AtVec(1)
	f.pose.Theta = diffdrive.Wrap(f.pose.Theta + corr.AtVec(2))

	// P = (I - K*H)*P
	var kh, cov mat.Dense
	kh.Mul(&k, h)
	ikh := matrix.Eye(3)
	ikh.Sub(ikh, &kh)
	cov.Mul(ikh, f.p)

	f.p.Copy(&cov)
	matrix.Symmetrize(f.p)

	return nil
}

// observe synthesizes one noisy range-bearing measurement of lm from the
// true pose.
func (f *EKF) observe(truth diffdrive.Pose, lm diffdrive.Landmark) (rng, bearing float64) {
	dx := lm.X - truth.X
	dy := lm.Y - truth.Y
	rng = math.Hypot(dx, dy) + f.rangeNoise.Sample()
	bearing = diffdrive.Wrap(math.Atan2(dy, dx) - truth.Theta + f.bearingNoise.Sample())

	return rng, bearing
}
