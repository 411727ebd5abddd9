package truth

import (
	"fmt"

	"golang.org/x/exp/rand"

	diffdrive "github.com/milosgajdos/go-diffdrive"
	"github.com/milosgajdos/go-diffdrive/kinematics"
	"github.com/milosgajdos/go-diffdrive/noise"
)

const (
	// nominalStep is the commanded per-wheel displacement per time step.
	nominalStep = 0.1
	// turnBiasSigma is the standard deviation of the per-step turn bias,
	// which is added to the right wheel and subtracted from the left to
	// model systematic turning drift.
	turnBiasSigma = 0.05
)

// Generator produces the true robot trajectory. It owns the motion noise
// stream: each step it draws one turn bias shared by both wheels plus
// independent per-wheel Gaussian noise and advances the true pose through
// the kinematic model. The same stream serves SampleControl, which redraws
// the wheel noise around the same bias so an estimator gets a control
// estimate of the current step without ever observing the true control.
type Generator struct {
	pose      diffdrive.Pose
	wheelBase float64
	left      *noise.Scalar
	right     *noise.Scalar
	bias      *noise.Scalar
	turnBias  float64
}

// New creates a new ground truth generator for the given run configuration,
// drawing its motion noise from src. It returns an error if the
// configuration is invalid or src is nil.
func New(c diffdrive.Config, src rand.Source) (*Generator, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	bias, err := noise.NewScalar(turnBiasSigma, src)
	if err != nil {
		return nil, fmt.Errorf("failed to create turn bias stream: %v", err)
	}

	left, err := noise.NewScalar(c.MotionNoise.Left, src)
	if err != nil {
		return nil, fmt.Errorf("failed to create left wheel stream: %v", err)
	}

	right, err := noise.NewScalar(c.MotionNoise.Right, src)
	if err != nil {
		return nil, fmt.Errorf("failed to create right wheel stream: %v", err)
	}

	return &Generator{
		pose:      c.InitialPose,
		wheelBase: c.WheelBase,
		left:      left,
		right:     right,
		bias:      bias,
	}, nil
}

// Pose returns the current true pose.
func (g *Generator) Pose() diffdrive.Pose {
	return g.pose
}

// Step draws the next true control and advances the true pose, returning it.
func (g *Generator) Step() diffdrive.Pose {
	g.turnBias = g.bias.Sample()
	u := diffdrive.Control{
		Left:  nominalStep + g.left.Sample() - g.turnBias,
		Right: nominalStep + g.right.Sample() + g.turnBias,
	}
	g.pose = kinematics.Predict(g.pose, u, g.wheelBase)

	return g.pose
}

// SampleControl draws an independent noisy control estimate of the current
// step: fresh per-wheel noise around the nominal displacement, with the same
// turn bias that drove the true motion.
func (g *Generator) SampleControl() diffdrive.Control {
	return diffdrive.Control{
		Left:  nominalStep + g.left.Sample() - g.turnBias,
		Right: nominalStep + g.right.Sample() + g.turnBias,
	}
}
