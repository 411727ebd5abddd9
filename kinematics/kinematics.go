package kinematics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	diffdrive "github.com/milosgajdos/go-diffdrive"
)

// Predict advances a pose by one step of differential drive kinematics given
// wheel displacements u over wheel separation b. The heading is updated
// first and the translation is applied along the new heading.
func Predict(p diffdrive.Pose, u diffdrive.Control, b float64) diffdrive.Pose {
	d := (u.Left + u.Right) / 2
	theta := diffdrive.Wrap(p.Theta + (u.Right-u.Left)/b)

	return diffdrive.Pose{
		X:     p.X + d*math.Cos(theta),
		Y:     p.Y + d*math.Sin(theta),
		Theta: theta,
	}
}

// PoseJacobian returns the 3x3 Jacobian of Predict with respect to
// (x, y, theta), holding the control fixed. The trigonometric terms are
// evaluated at the post-update heading, which is the linearization point of
// the heading-then-translate formulation.
func PoseJacobian(theta float64, u diffdrive.Control, b float64) *mat.Dense {
	d := (u.Left + u.Right) / 2
	thetaNew := theta + (u.Right-u.Left)/b

	return mat.NewDense(3, 3, []float64{
		1, 0, -d * math.Sin(thetaNew),
		0, 1, d * math.Cos(thetaNew),
		0, 0, 1,
	})
}

// ControlJacobian returns the 3x2 Jacobian of Predict with respect to the
// wheel displacements, evaluated at the pre-update heading.
func ControlJacobian(theta, b float64) *mat.Dense {
	sin, cos := math.Sincos(theta)

	return mat.NewDense(3, 2, []float64{
		0.5 * cos, 0.5 * cos,
		0.5 * sin, 0.5 * sin,
		-1 / b, 1 / b,
	})
}
