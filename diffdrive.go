package diffdrive

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Pose is a planar robot pose.
type Pose struct {
	// X and Y are the position coordinates.
	X, Y float64
	// Theta is the heading in radians, normalized to (-pi, pi].
	Theta float64
}

// Vec returns the pose as a new 3-vector (x, y, theta).
func (p Pose) Vec() *mat.VecDense {
	return mat.NewVecDense(3, []float64{p.X, p.Y, p.Theta})
}

// Control is a pair of wheel displacements over one time step.
type Control struct {
	Left, Right float64
}

// Landmark is a fixed map point known to all estimators, identified by its
// index in the configured landmark list.
type Landmark struct {
	X, Y float64
}

// Record is one trajectory log entry: the true pose at a time step, the pose
// estimated at the same step and the estimator's reported covariance over
// (x, y, theta).
type Record struct {
	Truth Pose
	Est   Pose
	Cov   *mat.SymDense
}

// Estimator runs one estimation cycle per time step and emits the step
// record. Implementations own their pose/covariance state and their sensor
// noise stream; the true pose is consumed only to synthesize noisy
// measurements, never read into the estimate directly.
type Estimator interface {
	Step(truth Pose, u Control) (Record, error)
}

// Wrap normalizes an angle to (-pi, pi].
func Wrap(theta float64) float64 {
	return math.Atan2(math.Sin(theta), math.Cos(theta))
}
